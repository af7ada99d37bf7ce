// Package outbox implements the transactional outbox: events are appended in the same
// transaction as the state change and published afterwards by a Relay.
package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message is an event waiting to be appended.
type Message struct {
	EventID string
	Topic   string
	Key     string
	Payload json.RawMessage
}

// NewMessage marshals payload and assigns a fresh event id.
func NewMessage(topic, key string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{EventID: uuid.NewString(), Topic: topic, Key: key, Payload: data}, nil
}

// Record is a stored outbox row.
type Record struct {
	ID        int64
	EventID   string
	Topic     string
	Key       string
	Payload   json.RawMessage
	CreatedAt time.Time
	SentAt    *time.Time
}

// Appender is the write side used inside a unit of work.
type Appender interface {
	Append(ctx context.Context, msg Message) error
}

// Store is the full outbox used by the relay.
type Store interface {
	Appender
	// FetchPending returns up to limit unsent records in append order.
	FetchPending(ctx context.Context, limit int) ([]Record, error)
	MarkSent(ctx context.Context, id int64) error
}

// Publisher delivers a record to the message broker.
type Publisher interface {
	Publish(ctx context.Context, record Record) error
}
