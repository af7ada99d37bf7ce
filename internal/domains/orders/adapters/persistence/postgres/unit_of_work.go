package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	cartpostgres "github.com/Apurer/storefront-orders/internal/domains/carts/adapters/persistence/postgres"
	cartports "github.com/Apurer/storefront-orders/internal/domains/carts/ports"
	catalogpostgres "github.com/Apurer/storefront-orders/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/Apurer/storefront-orders/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-orders/internal/domains/orders/ports"
	"github.com/Apurer/storefront-orders/internal/platform/outbox"
)

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWork runs each Do in one database transaction and hands fn repositories bound to it.
type UnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	if u == nil || u.db == nil {
		return errors.New("postgres unit of work not configured")
	}
	return u.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(ctx, &gormTx{db: db})
	})
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) Products() catalogports.Repository   { return catalogpostgres.NewRepository(t.db) }
func (t *gormTx) Carts() cartports.Repository         { return cartpostgres.NewRepository(t.db) }
func (t *gormTx) Orders() ports.Repository            { return NewRepository(t.db) }
func (t *gormTx) Idempotency() ports.IdempotencyStore { return NewIdempotencyStore(t.db) }
func (t *gormTx) Outbox() outbox.Appender             { return outbox.NewGormStore(t.db) }
