// Package cache provides a Redis read-through decorator for the order repository.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/Apurer/storefront-orders/internal/domains/orders/domain"
	"github.com/Apurer/storefront-orders/internal/domains/orders/ports"
)

// DefaultTTL is the base lifetime of a cached order; up to a minute of jitter is added.
const DefaultTTL = 10 * time.Minute

var _ ports.Repository = (*Repository)(nil)

// Repository caches GetByID in Redis and passes everything else to the wrapped repository.
// Save and Delete evict the affected key. Redis failures degrade to the wrapped repository.
type Repository struct {
	ports.Repository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
}

type Option func(*Repository)

func WithTTL(ttl time.Duration) Option {
	return func(r *Repository) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func New(inner ports.Repository, client *redis.Client, opts ...Option) *Repository {
	r := &Repository{
		Repository: inner,
		client:     client,
		ttl:        DefaultTTL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	key := cacheKey(id)
	if order, err := r.get(ctx, key); err == nil {
		return order, nil
	} else if !errors.Is(err, redis.Nil) {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "order cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		order, err := r.Repository.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := r.set(ctx, key, order); err != nil {
			r.logger.LogAttrs(ctx, slog.LevelWarn, "order cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return order, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Order).Clone(), nil
}

func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	saved, err := r.Repository.Save(ctx, order)
	if err != nil {
		return nil, err
	}
	r.evict(ctx, saved.ID)
	return saved, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.Repository.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *Repository) get(ctx context.Context, key string) (*domain.Order, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("unmarshal cached order: %w", err)
	}
	return &order, nil
}

func (r *Repository) set(ctx context.Context, key string, order *domain.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	ttl := r.ttl + time.Duration(rand.Int63n(int64(time.Minute)))
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *Repository) evict(ctx context.Context, id int64) {
	if err := r.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "order cache evict failed", slog.Int64("order.id", id), slog.String("error", err.Error()))
	}
}

func cacheKey(id int64) string {
	return "order:" + strconv.FormatInt(id, 10)
}
