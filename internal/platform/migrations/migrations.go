package migrations

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Adapters never migrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&userRecord{},
		&productRecord{},
		&productImageRecord{},
		&productSpecificationRecord{},
		&cartRecord{},
		&cartItemRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&idempotencyRecord{},
		&outboxRecord{},
	)
}

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Username  string    `gorm:"column:username"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	Email     string    `gorm:"column:email;uniqueIndex"`
	Phone     string    `gorm:"column:phone"`
	Street    string    `gorm:"column:address"`
	City      string    `gorm:"column:city"`
	ZipCode   string    `gorm:"column:zip_code"`
	Country   string    `gorm:"column:country"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Product schema mirrors the catalog Postgres adapter. Stock can never go negative.
type productRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	Name        string          `gorm:"column:name;not null"`
	Description string          `gorm:"column:description"`
	Brand       string          `gorm:"column:brand"`
	Model       string          `gorm:"column:model"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Quantity    int32           `gorm:"column:quantity;not null;check:chk_products_quantity_non_negative,quantity >= 0"`
	Active      bool            `gorm:"column:active;not null;default:true"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

type productImageRecord struct {
	ID        int64  `gorm:"primaryKey;column:id"`
	ProductID int64  `gorm:"column:product_id;index"`
	URL       string `gorm:"column:image_url;size:2000"`
	IsMain    bool   `gorm:"column:is_main"`
}

func (productImageRecord) TableName() string { return "product_images" }

type productSpecificationRecord struct {
	ID        int64  `gorm:"primaryKey;column:id"`
	ProductID int64  `gorm:"column:product_id;index"`
	Name      string `gorm:"column:spec_name"`
	Value     string `gorm:"column:spec_value"`
}

func (productSpecificationRecord) TableName() string { return "product_specifications" }

// Cart schema mirrors the carts Postgres adapter.
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
	Quantity  int32           `gorm:"column:quantity;check:chk_cart_items_quantity_positive,quantity > 0"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
}

func (cartItemRecord) TableName() string { return "cart_items" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID              int64           `gorm:"primaryKey;column:id"`
	UserID          int64           `gorm:"column:user_id;index"`
	OrderDate       time.Time       `gorm:"column:order_date;type:date;index"`
	ShippingAddress string          `gorm:"column:shipping_address"`
	ShippingCity    string          `gorm:"column:shipping_city"`
	ShippingZipCode string          `gorm:"column:shipping_zip_code"`
	ShippingCountry string          `gorm:"column:shipping_country"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:numeric(14,2)"`
	ProductIDs      pq.Int64Array   `gorm:"column:product_ids;type:bigint[];index:idx_orders_product_ids,type:gin"`
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

// Idempotency schema mirrors the orders idempotency store.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     int64     `gorm:"column:order_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }

// Outbox schema mirrors platform/outbox.GormStore.
type outboxRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	EventID   string          `gorm:"column:event_id;size:64;uniqueIndex"`
	Topic     string          `gorm:"column:topic;size:255"`
	Key       string          `gorm:"column:key;size:255"`
	Payload   json.RawMessage `gorm:"column:payload;type:jsonb"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	SentAt    *time.Time      `gorm:"column:sent_at;index"`
}

func (outboxRecord) TableName() string { return "outbox" }
