package features

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-orders/internal/app/api"
	catalogdomain "github.com/Apurer/storefront-orders/internal/domains/catalog/domain"
	ordersapp "github.com/Apurer/storefront-orders/internal/domains/orders/application"
	"github.com/Apurer/storefront-orders/internal/domains/orders/application/types"
	ordersdomain "github.com/Apurer/storefront-orders/internal/domains/orders/domain"
	usersdomain "github.com/Apurer/storefront-orders/internal/domains/users/domain"
)

type conversionContext struct {
	stores   *api.Stores
	services *api.Services
	users    map[string]int64
	products map[string]int64
	cartID   int64
	carts    []int64
	orders   []*ordersdomain.Order
	errs     []error
}

func (c *conversionContext) reset() {
	c.stores = api.MemoryStores()
	c.services = api.NewServices(api.Config{RecentOrdersLimit: ordersapp.DefaultRecentLimit}, c.stores, nil, nil)
	c.users = map[string]int64{}
	c.products = map[string]int64{}
	c.cartID = 0
	c.carts = nil
	c.orders = nil
	c.errs = nil
}

func (c *conversionContext) aUser(ctx context.Context, email string) error {
	user, err := usersdomain.NewUser(0, email, email)
	if err != nil {
		return err
	}
	created, err := c.services.Users.CreateUser(ctx, user)
	if err != nil {
		return err
	}
	c.users[email] = created.ID
	return nil
}

func (c *conversionContext) aProduct(ctx context.Context, name, price string, stock int) error {
	product, err := c.services.Catalog.AddProduct(ctx, &catalogdomain.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: int32(stock),
	})
	if err != nil {
		return err
	}
	c.products[name] = product.ID
	return nil
}

func (c *conversionContext) newCart(ctx context.Context, email string) (int64, error) {
	userID, ok := c.users[email]
	if !ok {
		return 0, fmt.Errorf("unknown user %q", email)
	}
	cart, err := c.services.Carts.CreateCart(ctx, userID)
	if err != nil {
		return 0, err
	}
	return cart.ID, nil
}

func (c *conversionContext) addToCart(ctx context.Context, cartID int64, product string, quantity int) error {
	productID, ok := c.products[product]
	if !ok {
		return fmt.Errorf("unknown product %q", product)
	}
	_, err := c.services.Carts.AddItem(ctx, cartID, productID, int32(quantity))
	return err
}

func (c *conversionContext) aCartContaining(ctx context.Context, email string, table *godog.Table) error {
	cartID, err := c.newCart(ctx, email)
	if err != nil {
		return err
	}
	for i, row := range table.Rows {
		if i == 0 {
			continue // header
		}
		quantity, err := strconv.Atoi(row.Cells[1].Value)
		if err != nil {
			return err
		}
		if err := c.addToCart(ctx, cartID, row.Cells[0].Value, quantity); err != nil {
			return err
		}
	}
	c.cartID = cartID
	return nil
}

func (c *conversionContext) anEmptyCart(ctx context.Context, email string) error {
	cartID, err := c.newCart(ctx, email)
	c.cartID = cartID
	return err
}

func (c *conversionContext) cartsEachHolding(ctx context.Context, n int, email string, quantity int, product string) error {
	for i := 0; i < n; i++ {
		cartID, err := c.newCart(ctx, email)
		if err != nil {
			return err
		}
		if err := c.addToCart(ctx, cartID, product, quantity); err != nil {
			return err
		}
		c.carts = append(c.carts, cartID)
	}
	return nil
}

func (c *conversionContext) convert(ctx context.Context, key string) {
	order, err := c.services.Orders.ConvertCart(ctx, types.ConvertCartInput{CartID: c.cartID, IdempotencyKey: key})
	c.orders = append(c.orders, order)
	c.errs = append(c.errs, err)
}

func (c *conversionContext) iConvertTheCart(ctx context.Context) error {
	c.convert(ctx, "")
	return nil
}

func (c *conversionContext) iConvertTheCartWithKey(ctx context.Context, key string) error {
	c.convert(ctx, key)
	return nil
}

func (c *conversionContext) cartsConvertedConcurrently(ctx context.Context) error {
	c.orders = make([]*ordersdomain.Order, len(c.carts))
	c.errs = make([]error, len(c.carts))
	var wg sync.WaitGroup
	for i, cartID := range c.carts {
		wg.Add(1)
		go func(i int, cartID int64) {
			defer wg.Done()
			c.orders[i], c.errs[i] = c.services.Orders.ConvertCart(ctx, types.ConvertCartInput{CartID: cartID})
		}(i, cartID)
	}
	wg.Wait()
	return nil
}

func (c *conversionContext) last() (*ordersdomain.Order, error) {
	if len(c.errs) == 0 {
		return nil, errors.New("no conversion attempted")
	}
	return c.orders[len(c.orders)-1], c.errs[len(c.errs)-1]
}

func (c *conversionContext) anOrderIsPlacedWithTotal(total string) error {
	order, err := c.last()
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}
	if want := decimal.RequireFromString(total); !order.TotalAmount.Equal(want) {
		return fmt.Errorf("expected total %s, got %s", want, order.TotalAmount)
	}
	return nil
}

func (c *conversionContext) theOrderHasLines(n int) error {
	order, err := c.last()
	if err != nil {
		return err
	}
	if len(order.Items) != n {
		return fmt.Errorf("expected %d lines, got %d", n, len(order.Items))
	}
	return nil
}

func (c *conversionContext) productHasStock(ctx context.Context, name string, stock int) error {
	product, err := c.services.Catalog.GetProduct(ctx, c.products[name])
	if err != nil {
		return err
	}
	if product.Quantity != int32(stock) {
		return fmt.Errorf("expected %q to have %d in stock, got %d", name, stock, product.Quantity)
	}
	return nil
}

func (c *conversionContext) cartActive(ctx context.Context, want bool) error {
	cart, err := c.services.Carts.GetCart(ctx, c.cartID)
	if err != nil {
		return err
	}
	if cart.Active != want {
		return fmt.Errorf("expected cart active=%t, got %t", want, cart.Active)
	}
	return nil
}

func (c *conversionContext) theCartIsNoLongerActive(ctx context.Context) error {
	return c.cartActive(ctx, false)
}

func (c *conversionContext) theCartIsStillActive(ctx context.Context) error {
	return c.cartActive(ctx, true)
}

func (c *conversionContext) eventsPending(ctx context.Context, n int) error {
	pending, err := c.stores.Outbox.FetchPending(ctx, 100)
	if err != nil {
		return err
	}
	if len(pending) != n {
		return fmt.Errorf("expected %d pending events, got %d", n, len(pending))
	}
	return nil
}

func checkShortage(err error, product string, available, requested int) error {
	var shortage *ordersapp.InsufficientInventoryError
	if !errors.As(err, &shortage) {
		return fmt.Errorf("expected insufficient inventory, got %v", err)
	}
	if shortage.ProductName != product {
		return fmt.Errorf("expected shortage of %q, got %q", product, shortage.ProductName)
	}
	if available >= 0 && (shortage.Available != int32(available) || shortage.Requested != int32(requested)) {
		return fmt.Errorf("expected %d available and %d requested, got %d and %d",
			available, requested, shortage.Available, shortage.Requested)
	}
	return nil
}

func (c *conversionContext) theConversionFailsForLackOf(product string, available, requested int) error {
	_, err := c.last()
	return checkShortage(err, product, available, requested)
}

func (c *conversionContext) theConversionFailsBecause(reason string) error {
	_, err := c.last()
	var invalid *ordersapp.InvalidStateError
	if !errors.As(err, &invalid) {
		return fmt.Errorf("expected invalid state, got %v", err)
	}
	if invalid.Reason != reason {
		return fmt.Errorf("expected reason %q, got %q", reason, invalid.Reason)
	}
	return nil
}

func (c *conversionContext) bothConversionsReturnTheSameOrder() error {
	if len(c.orders) != 2 {
		return fmt.Errorf("expected 2 conversions, got %d", len(c.orders))
	}
	for _, err := range c.errs {
		if err != nil {
			return err
		}
	}
	if c.orders[0].ID != c.orders[1].ID {
		return fmt.Errorf("expected the same order, got %d and %d", c.orders[0].ID, c.orders[1].ID)
	}
	return nil
}

func (c *conversionContext) exactlyConversionsSucceed(n int) error {
	succeeded := 0
	for _, err := range c.errs {
		if err == nil {
			succeeded++
		}
	}
	if succeeded != n {
		return fmt.Errorf("expected %d successful conversions, got %d (%v)", n, succeeded, c.errs)
	}
	return nil
}

func (c *conversionContext) theOthersFailForLackOf(product string) error {
	for _, err := range c.errs {
		if err == nil {
			continue
		}
		if err := checkShortage(err, product, -1, 0); err != nil {
			return err
		}
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &conversionContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a user "([^"]*)"$`, tc.aUser)
	ctx.Step(`^a product "([^"]*)" priced (\d+\.\d+) with (\d+) in stock$`, tc.aProduct)
	ctx.Step(`^a cart for "([^"]*)" containing:$`, tc.aCartContaining)
	ctx.Step(`^an empty cart for "([^"]*)"$`, tc.anEmptyCart)
	ctx.Step(`^(\d+) carts for "([^"]*)" each holding (\d+) "([^"]*)"$`, tc.cartsEachHolding)

	// When steps
	ctx.Step(`^I convert the cart$`, tc.iConvertTheCart)
	ctx.Step(`^I convert the cart with idempotency key "([^"]*)"$`, tc.iConvertTheCartWithKey)
	ctx.Step(`^the carts are converted concurrently$`, tc.cartsConvertedConcurrently)

	// Then steps
	ctx.Step(`^an order is placed with total (\d+(?:\.\d+)?)$`, tc.anOrderIsPlacedWithTotal)
	ctx.Step(`^the order has (\d+) lines$`, tc.theOrderHasLines)
	ctx.Step(`^"([^"]*)" has (\d+) in stock$`, tc.productHasStock)
	ctx.Step(`^the cart is no longer active$`, tc.theCartIsNoLongerActive)
	ctx.Step(`^the cart is still active$`, tc.theCartIsStillActive)
	ctx.Step(`^(\d+) order placed events? (?:is|are) pending$`, tc.eventsPending)
	ctx.Step(`^the conversion fails for lack of "([^"]*)" with (\d+) available and (\d+) requested$`, tc.theConversionFailsForLackOf)
	ctx.Step(`^the conversion fails because "([^"]*)"$`, tc.theConversionFailsBecause)
	ctx.Step(`^both conversions return the same order$`, tc.bothConversionsReturnTheSameOrder)
	ctx.Step(`^exactly (\d+) conversions? succeeds?$`, tc.exactlyConversionsSucceed)
	ctx.Step(`^the others fail for lack of "([^"]*)"$`, tc.theOthersFailForLackOf)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"cart_conversion.feature"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
