package repository

import (
	"context"

	"go-retail-stock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context, storeID uuid.UUID) ([]model.Product, error)
	FindLowStock(ctx context.Context, storeID uuid.UUID) ([]model.Product, error)
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Product, error)
	FindBySKU(ctx context.Context, storeID uuid.UUID, sku string) (*model.Product, error)

	// The methods below take the transaction handle they must run in.
	LockByID(tx *gorm.DB, storeID, id uuid.UUID) (*model.Product, error)
	AdjustQuantity(tx *gorm.DB, id uuid.UUID, delta int, updatedBy string) error
	UpdatePrices(tx *gorm.DB, product *model.Product, updatedBy string) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update writes the descriptive columns and prices. Quantity only moves
// through AdjustQuantity.
func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Model(product).
		Select("*").
		Omit("id", "quantity", "store_id", "created_at", "created_by", "deleted_at").
		Updates(product).Error
}

func (r *productRepo) FindAll(ctx context.Context, storeID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("store_id = ?", storeID).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindLowStock(ctx context.Context, storeID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND quantity <= min_quantity", storeID).
		Order("quantity ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ? AND store_id = ?", id, storeID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(ctx context.Context, storeID uuid.UUID, sku string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "sku = ? AND store_id = ?", sku, storeID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// LockByID loads the product with SELECT ... FOR UPDATE so concurrent stock
// changes on the same row serialize.
func (r *productRepo) LockByID(tx *gorm.DB, storeID, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ? AND store_id = ?", id, storeID).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// AdjustQuantity applies delta (in pieces) with an atomic increment.
func (r *productRepo) AdjustQuantity(tx *gorm.DB, id uuid.UUID, delta int, updatedBy string) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_by": updatedBy,
		}).Error
}

func (r *productRepo) UpdatePrices(tx *gorm.DB, product *model.Product, updatedBy string) error {
	columns := product.PriceColumns()
	columns["updated_by"] = updatedBy
	return tx.Model(&model.Product{}).Where("id = ?", product.ID).Updates(columns).Error
}
