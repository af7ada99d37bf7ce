//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	pacttest "github.com/Apurer/storefront-orders/test/pact"

	storefrontserver "github.com/Apurer/storefront-orders/go"
	"github.com/Apurer/storefront-orders/internal/app/api"
	cartdomain "github.com/Apurer/storefront-orders/internal/domains/carts/domain"
	catalogdomain "github.com/Apurer/storefront-orders/internal/domains/catalog/domain"
	ordersworkflows "github.com/Apurer/storefront-orders/internal/domains/orders/adapters/workflows"
	usersdomain "github.com/Apurer/storefront-orders/internal/domains/users/domain"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestStorefrontProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCartReady: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedCart(t, pacttest.ReadyCartID, 2)
			}
			return nil, nil
		},
		pacttest.StateCartExceedsStock: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedCart(t, pacttest.ShortCartID, 5)
			}
			return nil, nil
		},
		pacttest.StateOrderMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp rebuilds in-memory stores per provider state behind one listening server.
type contractProviderApp struct {
	mu     sync.RWMutex
	router *gin.Engine
	stores *api.Stores
	server *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	stores := api.MemoryStores()
	services := api.NewServices(api.Config{RecentOrdersLimit: 10}, stores, nil, nil)
	handlers := storefrontserver.ApiHandleFunctions{
		ProductAPI: storefrontserver.NewProductAPI(services.Catalog),
		UserAPI:    storefrontserver.NewUserAPI(services.Users),
		CartAPI:    storefrontserver.NewCartAPI(services.Carts),
		OrderAPI:   storefrontserver.NewOrderAPI(services.Orders, ordersworkflows.NewInlineOrderWorkflows(services.Orders)),
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router = storefrontserver.NewRouterWithGinEngine(router, handlers)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.router = router
	a.stores = stores
}

// seedCart stores the pact user and product and a cart asking for quantity units of it.
func (a *contractProviderApp) seedCart(t testing.TB, cartID int64, quantity int32) {
	t.Helper()
	ctx := context.Background()
	a.mu.RLock()
	stores := a.stores
	a.mu.RUnlock()

	user, err := usersdomain.NewUser(pacttest.UserID, "pact-user", "pact.user@example.com")
	require.NoError(t, err)
	_, err = stores.Users.Save(ctx, user)
	require.NoError(t, err)

	price := decimal.RequireFromString(pacttest.ProductPrice)
	product, err := catalogdomain.NewProduct(pacttest.ProductID, pacttest.ProductName, price, pacttest.ProductStock)
	require.NoError(t, err)
	_, err = stores.Products.Save(ctx, product)
	require.NoError(t, err)

	now := time.Now()
	cart, err := cartdomain.NewCart(pacttest.UserID, now)
	require.NoError(t, err)
	cart.ID = cartID
	require.NoError(t, cart.AddItem(pacttest.ProductID, quantity, price, now))
	_, err = stores.Carts.Save(ctx, cart)
	require.NoError(t, err)
}
