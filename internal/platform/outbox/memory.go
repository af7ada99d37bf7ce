package outbox

import (
	"context"
	"sync"
	"time"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps outbox records in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	nextID  int64
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Append(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.records = append(s.records, Record{
		ID:        s.nextID,
		EventID:   msg.EventID,
		Topic:     msg.Topic,
		Key:       msg.Key,
		Payload:   append([]byte(nil), msg.Payload...),
		CreatedAt: s.now().UTC(),
	})
	return nil
}

func (s *MemoryStore) FetchPending(_ context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var pending []Record
	for _, rec := range s.records {
		if rec.SentAt != nil {
			continue
		}
		pending = append(pending, rec)
		if limit > 0 && len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (s *MemoryStore) MarkSent(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			sent := s.now().UTC()
			s.records[i].SentAt = &sent
			return nil
		}
	}
	return nil
}

// Records returns a copy of every stored record.
func (s *MemoryStore) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Record(nil), s.records...)
}

// Clone copies the store for a copy-on-write transaction.
func (s *MemoryStore) Clone() *MemoryStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &MemoryStore{records: append([]Record(nil), s.records...), nextID: s.nextID, now: s.now}
}

// ReplaceWith commits a transaction copy.
func (s *MemoryStore) ReplaceWith(other *MemoryStore) {
	other.mu.RLock()
	records, nextID := other.records, other.nextID
	other.mu.RUnlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records, s.nextID = records, nextID
}
