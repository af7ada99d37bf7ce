package application

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	cartdomain "github.com/Apurer/storefront-orders/internal/domains/carts/domain"
	cartports "github.com/Apurer/storefront-orders/internal/domains/carts/ports"
	"github.com/Apurer/storefront-orders/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-orders/internal/domains/orders/domain"
	"github.com/Apurer/storefront-orders/internal/domains/orders/ports"
	"github.com/Apurer/storefront-orders/internal/platform/outbox"
)

// ConvertCart turns an active cart into an order in one unit of work: stock of every line is
// validated before any of it is decremented, the cart is deactivated, and the order is stored
// together with its OrderPlaced outbox event. On any error nothing is written.
//
// With an idempotency key, a retry of the same request returns the order created by the first
// attempt and a different request under the same key fails with ports.ErrIdempotencyConflict.
func (s *Service) ConvertCart(ctx context.Context, input types.ConvertCartInput) (*domain.Order, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	var fingerprint string
	if key != "" {
		var err error
		if fingerprint, err = FingerprintConvertCart(input); err != nil {
			return nil, err
		}
	}

	var placed *domain.Order
	err := s.uow.Do(ctx, func(ctx context.Context, tx ports.Tx) error {
		if key != "" {
			replayed, err := replay(ctx, tx, key, fingerprint)
			if err != nil || replayed != nil {
				placed = replayed
				return err
			}
		}
		order, err := s.convert(ctx, tx, input)
		if err != nil {
			return err
		}
		if key != "" {
			record := ports.IdempotencyRecord{Key: key, RequestHash: fingerprint, OrderID: order.ID}
			if _, err := tx.Idempotency().Save(ctx, record); err != nil {
				return err
			}
		}
		placed = order
		return nil
	})
	if err != nil {
		// A concurrent retry with the same key may have committed first and deactivated the cart.
		if key != "" && errors.Is(err, ErrInvalidState) {
			if replayed := s.replayAfterRace(ctx, key, fingerprint); replayed != nil {
				return replayed, nil
			}
		}
		return nil, mapError(err)
	}
	return placed, nil
}

func (s *Service) convert(ctx context.Context, tx ports.Tx, input types.ConvertCartInput) (*domain.Order, error) {
	cart, err := tx.Carts().GetForUpdate(ctx, input.CartID)
	if err != nil {
		return nil, mapError(err)
	}
	if !cart.Active {
		return nil, &InvalidStateError{Reason: ReasonCartNotActive}
	}
	if cart.IsEmpty() {
		return nil, &InvalidStateError{Reason: ReasonCartEmpty}
	}

	if err := validateInventory(ctx, tx, cart.Items); err != nil {
		return nil, err
	}
	items, err := s.reserveInventory(ctx, tx, cart.Items)
	if err != nil {
		return nil, err
	}

	order, err := domain.NewOrder(cart.UserID, input.Shipping, items, s.now())
	if err != nil {
		return nil, err
	}
	order.CalculateTotalAmount()

	if err := tx.Carts().Deactivate(ctx, cart.ID); err != nil {
		if errors.Is(err, cartports.ErrAlreadyInactive) {
			return nil, &InvalidStateError{Reason: ReasonCartNotActive}
		}
		return nil, err
	}

	saved, err := tx.Orders().Save(ctx, order)
	if err != nil {
		return nil, err
	}
	event := domain.NewOrderPlaced(saved, cart.ID)
	msg, err := outbox.NewMessage(event.EventName(), strconv.FormatInt(saved.ID, 10), event)
	if err != nil {
		return nil, err
	}
	if err := tx.Outbox().Append(ctx, msg); err != nil {
		return nil, err
	}
	return saved, nil
}

// validateInventory checks every line before anything is decremented and reports the first
// line whose product cannot cover it.
func validateInventory(ctx context.Context, tx ports.Tx, lines []cartdomain.CartItem) error {
	for _, line := range lines {
		product, err := tx.Products().GetByID(ctx, line.ProductID)
		if err != nil {
			return mapError(err)
		}
		if !product.CanSupply(line.Quantity) {
			return &InsufficientInventoryError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   product.Quantity,
				Requested:   line.Quantity,
			}
		}
	}
	return nil
}

// reserveInventory locks, re-checks and decrements each product with a compare-and-set, and
// freezes the corresponding order lines at the price captured in the cart. Products are locked in
// ascending id so concurrent conversions over the same products cannot deadlock; the returned
// lines keep cart order.
func (s *Service) reserveInventory(ctx context.Context, tx ports.Tx, lines []cartdomain.CartItem) ([]domain.OrderItem, error) {
	byProduct := make(map[int64]domain.OrderItem, len(lines))
	for _, line := range lockOrder(lines) {
		product, err := tx.Products().GetForUpdate(ctx, line.ProductID)
		if err != nil {
			return nil, mapError(err)
		}
		if !product.CanSupply(line.Quantity) {
			return nil, &InsufficientInventoryError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   product.Quantity,
				Requested:   line.Quantity,
			}
		}
		if err := tx.Products().TrySetQuantity(ctx, product.ID, product.Quantity, product.Quantity-line.Quantity); err != nil {
			return nil, fmt.Errorf("decrement stock of product %d: %w", product.ID, err)
		}
		if !product.Price.Equal(line.UnitPrice) {
			s.logger.LogAttrs(ctx, slog.LevelInfo, "product price drifted since it was added to the cart",
				slog.Int64("product_id", product.ID),
				slog.String("cart_unit_price", line.UnitPrice.String()),
				slog.String("current_price", product.Price.String()))
		}
		byProduct[product.ID] = domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		}
	}
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, byProduct[line.ProductID])
	}
	return items, nil
}

// lockOrder returns a copy of lines sorted by product id.
func lockOrder(lines []cartdomain.CartItem) []cartdomain.CartItem {
	sorted := slices.Clone(lines)
	slices.SortFunc(sorted, func(a, b cartdomain.CartItem) int { return cmp.Compare(a.ProductID, b.ProductID) })
	return sorted
}

func replay(ctx context.Context, tx ports.Tx, key, fingerprint string) (*domain.Order, error) {
	record, err := tx.Idempotency().Get(ctx, key)
	if err != nil || record == nil {
		return nil, err
	}
	if record.RequestHash != fingerprint {
		return nil, ports.ErrIdempotencyConflict
	}
	order, err := tx.Orders().GetByID(ctx, record.OrderID)
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

func (s *Service) replayAfterRace(ctx context.Context, key, fingerprint string) *domain.Order {
	var order *domain.Order
	err := s.uow.Do(ctx, func(ctx context.Context, tx ports.Tx) error {
		var err error
		order, err = replay(ctx, tx, key, fingerprint)
		return err
	})
	if err != nil {
		return nil
	}
	return order
}
