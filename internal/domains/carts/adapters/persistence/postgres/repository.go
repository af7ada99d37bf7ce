package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront-orders/internal/domains/carts/domain"
	"github.com/Apurer/storefront-orders/internal/domains/carts/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists carts and cart items in PostgreSQL.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type cartRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	UserID    int64     `gorm:"column:user_id;index"`
	Active    bool      `gorm:"column:active"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (cartRecord) TableName() string { return "carts" }

type cartItemRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	CartID    int64           `gorm:"column:cart_id;index"`
	ProductID int64           `gorm:"column:product_id"`
	Quantity  int32           `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
}

func (cartItemRecord) TableName() string { return "cart_items" }

// Save inserts a new cart, or rewrites the items of an existing one in cart order. An existing
// cart is only written while it is still active, so a concurrent conversion cannot be undone.
func (r *Repository) Save(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, errors.New("cart is nil")
	}
	record := cartRecord{ID: cart.ID, UserID: cart.UserID, Active: cart.Active, CreatedAt: cart.CreatedAt, UpdatedAt: cart.UpdatedAt}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if record.ID == 0 {
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		} else if err := touchActive(tx, record); err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", record.ID).Delete(&cartItemRecord{}).Error; err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return nil
		}
		items := make([]cartItemRecord, 0, len(cart.Items))
		for _, item := range cart.Items {
			items = append(items, cartItemRecord{CartID: record.ID, ProductID: item.ProductID, Quantity: item.Quantity, UnitPrice: item.UnitPrice})
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func touchActive(tx *gorm.DB, record cartRecord) error {
	result := tx.Model(&cartRecord{}).
		Where("id = ? AND active = ?", record.ID, true).
		Update("updated_at", record.UpdatedAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}
	var count int64
	if err := tx.Model(&cartRecord{}).Where("id = ?", record.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ports.ErrNotFound
	}
	return domain.ErrCartInactive
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Cart, error) {
	return r.get(ctx, r.db, id)
}

// GetForUpdate locks the cart row until the surrounding transaction ends.
func (r *Repository) GetForUpdate(ctx context.Context, id int64) (*domain.Cart, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *Repository) Items(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []cartItemRecord
	if err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	items := make([]domain.CartItem, 0, len(records))
	for _, rec := range records {
		items = append(items, domain.CartItem{ID: rec.ID, ProductID: rec.ProductID, Quantity: rec.Quantity, UnitPrice: rec.UnitPrice})
	}
	return items, nil
}

// Deactivate is a conditional write: only a still-active cart flips.
func (r *Repository) Deactivate(ctx context.Context, cartID int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&cartRecord{}).
		Where("id = ? AND active = ?", cartID, true).
		Updates(map[string]any{"active": false, "updated_at": gorm.Expr("NOW()")})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&cartRecord{}).Where("id = ?", cartID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ports.ErrNotFound
	}
	return ports.ErrAlreadyInactive
}

func (r *Repository) get(ctx context.Context, query *gorm.DB, id int64) (*domain.Cart, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record cartRecord
	if err := query.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	items, err := r.Items(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	return &domain.Cart{
		ID:        record.ID,
		UserID:    record.UserID,
		Active:    record.Active,
		Items:     items,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres cart repository not configured")
	}
	return nil
}
