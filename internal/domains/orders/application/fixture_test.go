package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	cartmemory "github.com/Apurer/storefront-orders/internal/domains/carts/adapters/memory"
	cartapp "github.com/Apurer/storefront-orders/internal/domains/carts/application"
	catalogmemory "github.com/Apurer/storefront-orders/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/storefront-orders/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/storefront-orders/internal/domains/catalog/domain"
	ordersmemory "github.com/Apurer/storefront-orders/internal/domains/orders/adapters/memory"
	usersmemory "github.com/Apurer/storefront-orders/internal/domains/users/adapters/memory"
	usersapp "github.com/Apurer/storefront-orders/internal/domains/users/application"
	usersdomain "github.com/Apurer/storefront-orders/internal/domains/users/domain"
	"github.com/Apurer/storefront-orders/internal/platform/outbox"
)

var fixedNow = time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)

type fixture struct {
	svc     *Service
	uow     *ordersmemory.UnitOfWork
	catalog *catalogapp.Service
	carts   *cartapp.Service
	users   *usersapp.Service
	outbox  *outbox.MemoryStore
	user    *usersdomain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ob := outbox.NewMemoryStore()
	uow := ordersmemory.NewUnitOfWork(
		catalogmemory.NewRepository(),
		cartmemory.NewRepository(),
		ordersmemory.NewRepository(),
		ordersmemory.NewIdempotencyStore(),
		ob,
	)
	users := usersapp.NewService(usersmemory.NewRepository())
	catalog := catalogapp.NewService(uow.Products())
	f := &fixture{
		uow:     uow,
		catalog: catalog,
		carts:   cartapp.NewService(uow.Carts(), catalog, users),
		users:   users,
		outbox:  ob,
		svc:     NewService(uow, uow.Orders(), users, catalog, WithClock(func() time.Time { return fixedNow })),
	}
	f.user = f.addUser(t, "alice", "alice@example.com")
	return f
}

func (f *fixture) addUser(t *testing.T, username, email string) *usersdomain.User {
	t.Helper()
	user, err := usersdomain.NewUser(0, username, email)
	require.NoError(t, err)
	user.UpdateProfile("Alice", "Doe", "")
	user.UpdateAddress(usersdomain.Address{Street: "1 Main St", City: "Springfield", ZipCode: "12345", Country: "US"})
	created, err := f.users.CreateUser(context.Background(), user)
	require.NoError(t, err)
	return created
}

func (f *fixture) addProduct(t *testing.T, name, price string, quantity int32) *catalogdomain.Product {
	t.Helper()
	product, err := f.catalog.AddProduct(context.Background(), &catalogdomain.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: quantity,
	})
	require.NoError(t, err)
	return product
}

type line struct {
	productID int64
	quantity  int32
}

func (f *fixture) cartWith(t *testing.T, userID int64, lines ...line) int64 {
	t.Helper()
	ctx := context.Background()
	cart, err := f.carts.CreateCart(ctx, userID)
	require.NoError(t, err)
	for _, l := range lines {
		_, err = f.carts.AddItem(ctx, cart.ID, l.productID, l.quantity)
		require.NoError(t, err)
	}
	return cart.ID
}

func (f *fixture) stock(t *testing.T, productID int64) int32 {
	t.Helper()
	product, err := f.catalog.GetProduct(context.Background(), productID)
	require.NoError(t, err)
	return product.Quantity
}
