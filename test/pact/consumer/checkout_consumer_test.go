//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/storefront-orders/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type orderPayload struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"userId"`
	OrderDate   string            `json:"orderDate"`
	Shipping    map[string]string `json:"shipping"`
	TotalAmount string            `json:"totalAmount"`
}

type problemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail"`
	Extensions map[string]any `json:"extensions"`
}

type apiError struct {
	status  int
	problem problemDetail
}

func (e apiError) Error() string {
	msg := e.problem.Title
	if msg == "" {
		msg = "api error"
	}
	if e.problem.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.problem.Detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func TestCheckoutContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	shipping := pacttest.ExampleShipping()
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	problemContentType := matchers.S("application/problem+json")

	pact.AddInteraction().
		Given(pacttest.StateCartReady).
		UponReceiving("a request to check out a ready cart").
		WithRequest("POST", fmt.Sprintf("/v1/orders/cart/%d", pacttest.ReadyCartID), func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Idempotency-Key", matchers.Like("checkout-101"))
			b.JSONBody(matchers.Map{"shipping": shipping})
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":          matchers.Like(1),
				"userId":      matchers.Like(pacttest.UserID),
				"orderDate":   matchers.Term("2024-06-12", `^\d{4}-\d{2}-\d{2}$`),
				"shipping":    matchers.Like(shipping),
				"totalAmount": matchers.Like("25"),
				"items": matchers.EachLike(matchers.Map{
					"productId":   matchers.Like(pacttest.ProductID),
					"productName": matchers.Like(pacttest.ProductName),
					"quantity":    matchers.Like(2),
					"unitPrice":   matchers.Like("12.5"),
				}, 1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCartExceedsStock).
		UponReceiving("a request to check out a cart that exceeds stock").
		WithRequest("POST", fmt.Sprintf("/v1/orders/cart/%d", pacttest.ShortCartID), func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{"shipping": shipping})
		}).
		WillRespondWith(http.StatusConflict, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/insufficient-inventory"),
				"title":  matchers.S("Insufficient Inventory"),
				"status": matchers.Like(http.StatusConflict),
				"extensions": matchers.Map{
					"productId":   matchers.Like(pacttest.ProductID),
					"productName": matchers.Like(pacttest.ProductName),
					"available":   matchers.Like(3),
					"requested":   matchers.Like(5),
				},
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("a request for a missing order").
		WithRequest("GET", fmt.Sprintf("/v1/orders/%d", pacttest.MissingOrderID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newCheckoutClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		order, err := client.Checkout(ctx, pacttest.ReadyCartID, shipping, "checkout-101")
		if err != nil {
			return fmt.Errorf("checkout: %w", err)
		}
		if order.ID == 0 || order.UserID != pacttest.UserID {
			return fmt.Errorf("unexpected order %+v", order)
		}

		_, err = client.Checkout(ctx, pacttest.ShortCartID, shipping, "")
		apiErr, ok := err.(apiError)
		if !ok || apiErr.status != http.StatusConflict {
			return fmt.Errorf("expected 409 for cart %d, got %v", pacttest.ShortCartID, err)
		}
		if apiErr.problem.Extensions["productName"] != pacttest.ProductName {
			return fmt.Errorf("expected shortage for %s, got %+v", pacttest.ProductName, apiErr.problem.Extensions)
		}

		if _, err := client.GetOrder(ctx, pacttest.MissingOrderID); err == nil {
			return fmt.Errorf("expected 404 for order %d", pacttest.MissingOrderID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.status != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.status)
		}
		return nil
	})
	require.NoError(t, err)
}

type checkoutClient struct {
	baseURL    string
	httpClient *http.Client
}

func newCheckoutClient(config pactconsumer.MockServerConfig) *checkoutClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &checkoutClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *checkoutClient) Checkout(ctx context.Context, cartID int64, shipping map[string]string, idempotencyKey string) (*orderPayload, error) {
	body, err := json.Marshal(map[string]any{"shipping": shipping})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/v1/orders/cart/%d", c.baseURL, cartID), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	return c.doOrder(req)
}

func (c *checkoutClient) GetOrder(ctx context.Context, id int64) (*orderPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/v1/orders/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	return c.doOrder(req)
}

func (c *checkoutClient) doOrder(req *http.Request) (*orderPayload, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}
	var payload orderPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{status: status, problem: problem}
}
