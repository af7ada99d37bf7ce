package outbox

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

const (
	defaultInterval  = 5 * time.Second
	defaultBatchSize = 100
)

// Relay polls the store and publishes pending records. Delivery is at least once: a record
// whose MarkSent fails is published again on the next poll.
type Relay struct {
	store     Store
	publisher Publisher
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

type RelayOption func(*Relay)

func WithInterval(d time.Duration) RelayOption {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithBatchSize(n int) RelayOption {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithLogger(logger *slog.Logger) RelayOption {
	return func(r *Relay) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewRelay(store Store, publisher Publisher, opts ...RelayOption) *Relay {
	r := &Relay{
		store:     store,
		publisher: publisher,
		interval:  defaultInterval,
		batchSize: defaultBatchSize,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run flushes on every tick until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	if r.store == nil || r.publisher == nil {
		return errors.New("outbox relay not configured")
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	r.logger.Info("outbox relay started", slog.Duration("interval", r.interval), slog.Int("batch_size", r.batchSize))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return nil
		case <-ticker.C:
			if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("outbox flush failed", slog.String("error", err.Error()))
			}
		}
	}
}

// Flush publishes one batch and returns how many records were marked sent. Publishing stops at
// the first failure so per-key ordering is kept.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	records, err := r.store.FetchPending(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, rec := range records {
		if err := r.publisher.Publish(ctx, rec); err != nil {
			r.logger.Warn("outbox publish failed",
				slog.Int64("outbox_id", rec.ID),
				slog.String("event_id", rec.EventID),
				slog.String("topic", rec.Topic),
				slog.String("error", err.Error()))
			return sent, err
		}
		if err := r.store.MarkSent(ctx, rec.ID); err != nil {
			return sent, err
		}
		sent++
	}
	if sent > 0 {
		r.logger.Info("outbox records published", slog.Int("count", sent))
	}
	return sent, nil
}
