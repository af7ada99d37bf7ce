// Package kafka publishes outbox records to Kafka.
package kafka

import (
	"context"
	"strings"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/Apurer/storefront-orders/internal/platform/outbox"
)

var _ outbox.Publisher = (*Publisher)(nil)

// Publisher writes outbox records with kafka-go. The record key becomes the message key so
// events of one order land on one partition.
type Publisher struct {
	writer *kafkago.Writer
	topic  string
}

// NewPublisher builds a publisher for the brokers. A non-empty topic overrides the record topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafkago.Writer{
			Addr:                   kafkago.TCP(brokers...),
			Balancer:               &kafkago.Hash{},
			AllowAutoTopicCreation: true,
			RequiredAcks:           kafkago.RequireAll,
		},
		topic: strings.TrimSpace(topic),
	}
}

func (p *Publisher) Publish(ctx context.Context, rec outbox.Record) error {
	topic := rec.Topic
	if p.topic != "" {
		topic = p.topic
	}
	return p.writer.WriteMessages(ctx, kafkago.Message{
		Topic: topic,
		Key:   []byte(rec.Key),
		Value: rec.Payload,
		Headers: []kafkago.Header{
			{Key: "event_id", Value: []byte(rec.EventID)},
			{Key: "event_type", Value: []byte(rec.Topic)},
		},
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// ParseBrokers splits a comma separated broker list.
func ParseBrokers(raw string) []string {
	var brokers []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			brokers = append(brokers, part)
		}
	}
	return brokers
}
