package memory

import (
	"context"
	"sync"

	cartmemory "github.com/Apurer/storefront-orders/internal/domains/carts/adapters/memory"
	cartdomain "github.com/Apurer/storefront-orders/internal/domains/carts/domain"
	cartports "github.com/Apurer/storefront-orders/internal/domains/carts/ports"
	catalogmemory "github.com/Apurer/storefront-orders/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/storefront-orders/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/storefront-orders/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-orders/internal/domains/orders/domain"
	"github.com/Apurer/storefront-orders/internal/domains/orders/ports"
	"github.com/Apurer/storefront-orders/internal/platform/outbox"
)

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWork serializes transactions over the in-memory stores. Each transaction works on
// clones and swaps them in only when fn succeeds.
//
// Writers outside a transaction must go through Products, Carts, Orders and Outbox so they
// cannot interleave with a commit.
type UnitOfWork struct {
	mu          sync.Mutex
	products    *catalogmemory.Repository
	carts       *cartmemory.Repository
	orders      *Repository
	idempotency *IdempotencyStore
	outbox      *outbox.MemoryStore
}

func NewUnitOfWork(products *catalogmemory.Repository, carts *cartmemory.Repository, orders *Repository, idempotency *IdempotencyStore, ob *outbox.MemoryStore) *UnitOfWork {
	return &UnitOfWork{products: products, carts: carts, orders: orders, idempotency: idempotency, outbox: ob}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	tx := &memoryTx{
		products:    u.products.Clone(),
		carts:       u.carts.Clone(),
		orders:      u.orders.Clone(),
		idempotency: u.idempotency.Clone(),
		outbox:      u.outbox.Clone(),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	u.products.ReplaceWith(tx.products)
	u.carts.ReplaceWith(tx.carts)
	u.orders.ReplaceWith(tx.orders)
	u.idempotency.ReplaceWith(tx.idempotency)
	u.outbox.ReplaceWith(tx.outbox)
	return nil
}

// Products returns the product store for use outside transactions.
func (u *UnitOfWork) Products() catalogports.Repository {
	return &guardedProducts{Repository: u.products, mu: &u.mu}
}

// Carts returns the cart store for use outside transactions.
func (u *UnitOfWork) Carts() cartports.Repository {
	return &guardedCarts{Repository: u.carts, mu: &u.mu}
}

// Orders returns the order store for use outside transactions.
func (u *UnitOfWork) Orders() ports.Repository {
	return &guardedOrders{Repository: u.orders, mu: &u.mu}
}

// Outbox returns the outbox for the relay.
func (u *UnitOfWork) Outbox() outbox.Store {
	return &guardedOutbox{Store: u.outbox, mu: &u.mu}
}

type memoryTx struct {
	products    *catalogmemory.Repository
	carts       *cartmemory.Repository
	orders      *Repository
	idempotency *IdempotencyStore
	outbox      *outbox.MemoryStore
}

func (t *memoryTx) Products() catalogports.Repository   { return t.products }
func (t *memoryTx) Carts() cartports.Repository         { return t.carts }
func (t *memoryTx) Orders() ports.Repository            { return t.orders }
func (t *memoryTx) Idempotency() ports.IdempotencyStore { return t.idempotency }
func (t *memoryTx) Outbox() outbox.Appender             { return t.outbox }

// The guarded wrappers take the unit of work lock around writes; reads go straight through.

type guardedProducts struct {
	catalogports.Repository
	mu *sync.Mutex
}

func (g *guardedProducts) Save(ctx context.Context, product *catalogdomain.Product) (*catalogdomain.Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Repository.Save(ctx, product)
}

func (g *guardedProducts) TrySetQuantity(ctx context.Context, id int64, expected, quantity int32) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Repository.TrySetQuantity(ctx, id, expected, quantity)
}

type guardedCarts struct {
	cartports.Repository
	mu *sync.Mutex
}

func (g *guardedCarts) Save(ctx context.Context, cart *cartdomain.Cart) (*cartdomain.Cart, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Repository.Save(ctx, cart)
}

func (g *guardedCarts) Deactivate(ctx context.Context, cartID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Repository.Deactivate(ctx, cartID)
}

type guardedOrders struct {
	ports.Repository
	mu *sync.Mutex
}

func (g *guardedOrders) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Repository.Save(ctx, order)
}

func (g *guardedOrders) Delete(ctx context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Repository.Delete(ctx, id)
}

type guardedOutbox struct {
	outbox.Store
	mu *sync.Mutex
}

func (g *guardedOutbox) Append(ctx context.Context, msg outbox.Message) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Store.Append(ctx, msg)
}

func (g *guardedOutbox) MarkSent(ctx context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Store.MarkSent(ctx, id)
}
