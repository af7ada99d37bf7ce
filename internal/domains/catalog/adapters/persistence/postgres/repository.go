package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront-orders/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-orders/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists products in PostgreSQL using GORM. Bind it to a transaction handle to
// take part in a unit of work.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Schema is owned by platform/migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type productRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	Name        string          `gorm:"column:name"`
	Description string          `gorm:"column:description"`
	Brand       string          `gorm:"column:brand"`
	Model       string          `gorm:"column:model"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Quantity    int32           `gorm:"column:quantity"`
	Active      bool            `gorm:"column:active"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

type imageRecord struct {
	ID        int64  `gorm:"primaryKey;column:id"`
	ProductID int64  `gorm:"column:product_id;index"`
	URL       string `gorm:"column:image_url;size:2000"`
	IsMain    bool   `gorm:"column:is_main"`
}

func (imageRecord) TableName() string { return "product_images" }

type specificationRecord struct {
	ID        int64  `gorm:"primaryKey;column:id"`
	ProductID int64  `gorm:"column:product_id;index"`
	Name      string `gorm:"column:spec_name"`
	Value     string `gorm:"column:spec_value"`
}

func (specificationRecord) TableName() string { return "product_specifications" }

// Save inserts or updates a product and replaces its images and specifications.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if product.Quantity < 0 {
		return nil, domain.ErrNegativeStock
	}
	record := toRecord(product)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		create := tx
		if record.ID != 0 {
			create = tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"name":        record.Name,
					"description": record.Description,
					"brand":       record.Brand,
					"model":       record.Model,
					"price":       record.Price,
					"quantity":    record.Quantity,
					"active":      record.Active,
					"updated_at":  gorm.Expr("NOW()"),
				}),
			})
		}
		if err := create.Create(&record).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", record.ID).Delete(&imageRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", record.ID).Delete(&specificationRecord{}).Error; err != nil {
			return err
		}
		if images := toImageRecords(record.ID, product.Images); len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}
		if specs := toSpecificationRecords(record.ID, product.Specifications); len(specs) > 0 {
			if err := tx.Create(&specs).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a product with its images and specifications.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return r.get(ctx, r.db, id)
}

// GetForUpdate takes a FOR UPDATE row lock held until the surrounding transaction ends.
func (r *Repository) GetForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// TrySetQuantity performs a compare-and-set on the stock column.
func (r *Repository) TrySetQuantity(ctx context.Context, id int64, expected, quantity int32) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if quantity < 0 {
		return domain.ErrNegativeStock
	}
	result := r.db.WithContext(ctx).
		Model(&productRecord{}).
		Where("id = ? AND quantity = ?", id, expected).
		Updates(map[string]any{"quantity": quantity, "updated_at": gorm.Expr("NOW()")})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ports.ErrNotFound
	}
	return ports.ErrStaleQuantity
}

// List returns all products ordered by id.
func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		product, err := r.hydrate(ctx, records[i])
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

func (r *Repository) get(ctx context.Context, query *gorm.DB, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := query.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return r.hydrate(ctx, record)
}

func (r *Repository) hydrate(ctx context.Context, record productRecord) (*domain.Product, error) {
	var images []imageRecord
	if err := r.db.WithContext(ctx).Where("product_id = ?", record.ID).Order("id").Find(&images).Error; err != nil {
		return nil, err
	}
	var specs []specificationRecord
	if err := r.db.WithContext(ctx).Where("product_id = ?", record.ID).Order("id").Find(&specs).Error; err != nil {
		return nil, err
	}
	product := record.toDomain()
	for _, img := range images {
		product.Images = append(product.Images, domain.Image{ID: img.ID, URL: img.URL, IsMain: img.IsMain})
	}
	for _, spec := range specs {
		product.Specifications = append(product.Specifications, domain.Specification{Name: spec.Name, Value: spec.Value})
	}
	return product, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func toRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Brand:       product.Brand,
		Model:       product.Model,
		Price:       product.Price,
		Quantity:    product.Quantity,
		Active:      product.Active,
	}
}

func toImageRecords(productID int64, images []domain.Image) []imageRecord {
	records := make([]imageRecord, 0, len(images))
	for _, img := range images {
		records = append(records, imageRecord{ProductID: productID, URL: img.URL, IsMain: img.IsMain})
	}
	return records
}

func toSpecificationRecords(productID int64, specs []domain.Specification) []specificationRecord {
	records := make([]specificationRecord, 0, len(specs))
	for _, spec := range specs {
		records = append(records, specificationRecord{ProductID: productID, Name: spec.Name, Value: spec.Value})
	}
	return records
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Brand:       r.Brand,
		Model:       r.Model,
		Price:       r.Price,
		Quantity:    r.Quantity,
		Active:      r.Active,
	}
}
