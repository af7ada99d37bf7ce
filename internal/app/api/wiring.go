package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	cartmemory "github.com/Apurer/storefront-orders/internal/domains/carts/adapters/memory"
	cartpostgres "github.com/Apurer/storefront-orders/internal/domains/carts/adapters/persistence/postgres"
	cartapp "github.com/Apurer/storefront-orders/internal/domains/carts/application"
	cartports "github.com/Apurer/storefront-orders/internal/domains/carts/ports"
	catalogmemory "github.com/Apurer/storefront-orders/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/storefront-orders/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/storefront-orders/internal/domains/catalog/application"
	catalogports "github.com/Apurer/storefront-orders/internal/domains/catalog/ports"
	orderscache "github.com/Apurer/storefront-orders/internal/domains/orders/adapters/cache"
	ordersmemory "github.com/Apurer/storefront-orders/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/storefront-orders/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/storefront-orders/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/storefront-orders/internal/domains/orders/application"
	ordersports "github.com/Apurer/storefront-orders/internal/domains/orders/ports"
	usermemory "github.com/Apurer/storefront-orders/internal/domains/users/adapters/memory"
	userobs "github.com/Apurer/storefront-orders/internal/domains/users/adapters/observability"
	userpostgres "github.com/Apurer/storefront-orders/internal/domains/users/adapters/persistence/postgres"
	userapp "github.com/Apurer/storefront-orders/internal/domains/users/application"
	userports "github.com/Apurer/storefront-orders/internal/domains/users/ports"
	"github.com/Apurer/storefront-orders/internal/platform/migrations"
	platformobservability "github.com/Apurer/storefront-orders/internal/platform/observability"
	"github.com/Apurer/storefront-orders/internal/platform/outbox"
	platformpostgres "github.com/Apurer/storefront-orders/internal/platform/postgres"
)

// Stores holds the repositories of one backend. Writes that must be atomic go through UnitOfWork.
type Stores struct {
	UnitOfWork ordersports.UnitOfWork
	Products   catalogports.Repository
	Carts      cartports.Repository
	Orders     ordersports.Repository
	Users      userports.Repository
	Outbox     outbox.Store
	// InMemory is set when no database is configured; the outbox then lives in this process.
	InMemory bool
}

// OpenStores connects to PostgreSQL and applies the schema, or falls back to in-memory stores
// when no DSN is configured or the database is unreachable.
func OpenStores(ctx context.Context, cfg Config, logger *slog.Logger) (*Stores, func(), error) {
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return MemoryStores(), cleanup, nil
	}
	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("apply schema: %w", err)
	}
	logger.Info("repositories configured with postgres")
	return PostgresStores(db), cleanup, nil
}

// MemoryStores builds process-local stores sharing one unit of work lock.
func MemoryStores() *Stores {
	uow := ordersmemory.NewUnitOfWork(
		catalogmemory.NewRepository(),
		cartmemory.NewRepository(),
		ordersmemory.NewRepository(),
		ordersmemory.NewIdempotencyStore(),
		outbox.NewMemoryStore(),
	)
	return &Stores{
		UnitOfWork: uow,
		Products:   uow.Products(),
		Carts:      uow.Carts(),
		Orders:     uow.Orders(),
		Users:      usermemory.NewRepository(),
		Outbox:     uow.Outbox(),
		InMemory:   true,
	}
}

// PostgresStores binds every repository to db.
func PostgresStores(db *gorm.DB) *Stores {
	return &Stores{
		UnitOfWork: orderspostgres.NewUnitOfWork(db),
		Products:   catalogpostgres.NewRepository(db),
		Carts:      cartpostgres.NewRepository(db),
		Orders:     orderspostgres.NewRepository(db),
		Users:      userpostgres.NewRepository(db),
		Outbox:     outbox.NewGormStore(db),
	}
}

// Services are the use cases exposed over HTTP and to Temporal activities.
type Services struct {
	Catalog catalogports.Service
	Carts   cartports.Service
	Users   userports.Service
	Orders  ordersports.Service
}

// NewServices wires the application services over stores. A non-nil redis client puts the
// read-through cache in front of order reads.
func NewServices(cfg Config, stores *Stores, rdb *redis.Client, instruments *platformobservability.Instruments) *Services {
	logger := effectiveLogger(instruments)
	users := userobs.New(
		userapp.NewService(stores.Users),
		userobs.WithLogger(logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)
	catalog := catalogapp.NewService(stores.Products)
	carts := cartapp.NewService(stores.Carts, catalog, users)

	var orderReads ordersports.Repository = stores.Orders
	if rdb != nil {
		orderReads = orderscache.New(stores.Orders, rdb,
			orderscache.WithTTL(cfg.OrderCacheTTL),
			orderscache.WithLogger(logger),
		)
	}
	orders := ordersobs.New(
		ordersapp.NewService(stores.UnitOfWork, orderReads, users, catalog,
			ordersapp.WithLogger(logger),
			ordersapp.WithRecentLimit(cfg.RecentOrdersLimit),
		),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return &Services{Catalog: catalog, Carts: carts, Users: users, Orders: orders}
}

// ConnectRedis returns nil when REDIS_ADDR is unset or the server does not answer.
func ConnectRedis(ctx context.Context, cfg Config, logger *slog.Logger) (*redis.Client, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, order reads are not cached")
		return nil, func() {}
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, order reads are not cached", slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
		_ = rdb.Close()
		return nil, func() {}
	}
	logger.Info("order cache enabled", slog.String("addr", cfg.RedisAddr), slog.Duration("ttl", cfg.OrderCacheTTL))
	return rdb, func() { _ = rdb.Close() }
}
