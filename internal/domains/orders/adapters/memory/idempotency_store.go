package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/storefront-orders/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore provides an in-memory implementation for development and tests.
type IdempotencyStore struct {
	mu      sync.RWMutex
	records map[string]ports.IdempotencyRecord
	now     func() time.Time
}

// NewIdempotencyStore constructs an empty in-memory store.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{records: map[string]ports.IdempotencyRecord{}, now: time.Now}
}

// Get returns the stored record for the provided key, or nil when absent.
func (s *IdempotencyStore) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Save persists the record or returns the existing record if it matches.
func (s *IdempotencyStore) Save(_ context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.records[record.Key]; ok {
		if existing.RequestHash != record.RequestHash || existing.OrderID != record.OrderID {
			return &existing, ports.ErrIdempotencyConflict
		}
		return &existing, nil
	}
	now := s.now()
	record.CreatedAt = now
	record.UpdatedAt = now
	s.records[record.Key] = record
	saved := record
	return &saved, nil
}

// Clone copies the store for a copy-on-write transaction.
func (s *IdempotencyStore) Clone() *IdempotencyStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &IdempotencyStore{records: make(map[string]ports.IdempotencyRecord, len(s.records)), now: s.now}
	for key, rec := range s.records {
		clone.records[key] = rec
	}
	return clone
}

// ReplaceWith commits a transaction copy.
func (s *IdempotencyStore) ReplaceWith(other *IdempotencyStore) {
	other.mu.RLock()
	records := other.records
	other.mu.RUnlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
}
