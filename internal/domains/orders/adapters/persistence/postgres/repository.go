package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/storefront-orders/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-orders/internal/domains/orders/domain"
	"github.com/Apurer/storefront-orders/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Items live in order_items keyed by order id.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to a relational table. ProductIDs denormalizes the item
// products so ListByProductID is a single indexed array lookup.
type orderRecord struct {
	ID              int64           `gorm:"primaryKey;column:id"`
	UserID          int64           `gorm:"column:user_id;index"`
	OrderDate       time.Time       `gorm:"column:order_date;type:date;index"`
	ShippingAddress string          `gorm:"column:shipping_address"`
	ShippingCity    string          `gorm:"column:shipping_city"`
	ShippingZipCode string          `gorm:"column:shipping_zip_code"`
	ShippingCountry string          `gorm:"column:shipping_country"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:numeric(14,2)"`
	ProductIDs      pq.Int64Array   `gorm:"column:product_ids;type:bigint[]"`
	CreatedAt       time.Time       `gorm:"column:created_at;index"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	OrderID     int64           `gorm:"column:order_id;index"`
	ProductID   int64           `gorm:"column:product_id;index"`
	ProductName string          `gorm:"column:product_name"`
	Quantity    int32           `gorm:"column:quantity"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
}

func (orderItemRecord) TableName() string { return "order_items" }

type revenueRow struct {
	OrderDate time.Time       `gorm:"column:order_date"`
	Total     decimal.Decimal `gorm:"column:total"`
	Orders    int64           `gorm:"column:orders"`
}

// Save inserts a new order with its items, or updates the mutable columns of an existing one.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if record.ID != 0 {
		result := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
			"shipping_address":  record.ShippingAddress,
			"shipping_city":     record.ShippingCity,
			"shipping_zip_code": record.ShippingZipCode,
			"shipping_country":  record.ShippingCountry,
			"total_amount":      record.TotalAmount,
			"updated_at":        record.UpdatedAt,
		})
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ports.ErrNotFound
		}
		return r.GetByID(ctx, record.ID)
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		if len(order.Items) == 0 {
			return nil
		}
		items := make([]orderItemRecord, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, orderItemRecord{
				OrderID:     record.ID,
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
			})
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order with its items.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	orders, err := r.hydrate(ctx, []orderRecord{record})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

// Delete removes an order and its items.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&orderItemRecord{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&orderRecord{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
}

// List returns all orders.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB { return q.Order("id") })
}

func (r *Repository) ListByUserID(ctx context.Context, userID int64) ([]*domain.Order, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB { return newestFirst(q.Where("user_id = ?", userID)) })
}

func (r *Repository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Order, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return newestFirst(q.Where("order_date BETWEEN ? AND ?", start, end))
	})
}

func (r *Repository) Filter(ctx context.Context, filter types.OrderFilter) ([]*domain.Order, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		if filter.UserID != nil {
			q = q.Where("user_id = ?", *filter.UserID)
		}
		if filter.Start != nil {
			q = q.Where("order_date >= ?", *filter.Start)
		}
		if filter.End != nil {
			q = q.Where("order_date <= ?", *filter.End)
		}
		if filter.MinAmount != nil {
			q = q.Where("total_amount >= ?", *filter.MinAmount)
		}
		return newestFirst(q)
	})
}

func (r *Repository) MostRecent(ctx context.Context, limit int) ([]*domain.Order, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB { return newestFirst(q).Limit(limit) })
}

func (r *Repository) ListByProductID(ctx context.Context, productID int64) ([]*domain.Order, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB { return newestFirst(q.Where("? = ANY(product_ids)", productID)) })
}

func (r *Repository) RevenueByDateRange(ctx context.Context, start, end time.Time) ([]types.DailyRevenue, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []revenueRow
	err := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Select("order_date, SUM(total_amount) AS total, COUNT(*) AS orders").
		Where("order_date BETWEEN ? AND ?", start, end).
		Group("order_date").
		Order("order_date").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	revenue := make([]types.DailyRevenue, 0, len(rows))
	for _, row := range rows {
		revenue = append(revenue, types.DailyRevenue{Date: domain.DateOf(row.OrderDate), Total: row.Total, Orders: row.Orders})
	}
	return revenue, nil
}

func (r *Repository) find(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := scope(r.db.WithContext(ctx)).Find(&records).Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, records)
}

// hydrate loads the items of all records with one query.
func (r *Repository) hydrate(ctx context.Context, records []orderRecord) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(records))
	if len(records) == 0 {
		return orders, nil
	}
	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	var items []orderItemRecord
	if err := r.db.WithContext(ctx).Where("order_id IN ?", ids).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[int64][]domain.OrderItem, len(records))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], domain.OrderItem{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	for _, rec := range records {
		order := rec.toDomain()
		order.Items = byOrder[rec.ID]
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func newestFirst(q *gorm.DB) *gorm.DB {
	return q.Order("created_at DESC").Order("id DESC")
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:              order.ID,
		UserID:          order.UserID,
		OrderDate:       order.OrderDate,
		ShippingAddress: order.Shipping.Address,
		ShippingCity:    order.Shipping.City,
		ShippingZipCode: order.Shipping.ZipCode,
		ShippingCountry: order.Shipping.Country,
		TotalAmount:     order.TotalAmount,
		ProductIDs:      pq.Int64Array(order.ProductIDs()),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:     r.ID,
		UserID: r.UserID,
		// date columns come back at midnight in the session time zone
		OrderDate: domain.DateOf(time.Date(r.OrderDate.Year(), r.OrderDate.Month(), r.OrderDate.Day(), 0, 0, 0, 0, time.UTC)),
		Shipping: domain.ShippingDetails{
			Address: r.ShippingAddress,
			City:    r.ShippingCity,
			ZipCode: r.ShippingZipCode,
			Country: r.ShippingCountry,
		},
		TotalAmount: r.TotalAmount,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}
