package repository

import (
	"context"

	"go-retail-stock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *model.PurchaseOrder) error
	FindAll(ctx context.Context, storeID uuid.UUID, status *model.PurchaseOrderStatus) ([]model.PurchaseOrder, error)
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.PurchaseOrder, error)

	LockByID(tx *gorm.DB, storeID, id uuid.UUID) (*model.PurchaseOrder, error)
	UpdateHeader(tx *gorm.DB, po *model.PurchaseOrder) error
	UpdateItem(tx *gorm.DB, item *model.PurchaseOrderItem) error
}

type purchaseOrderRepo struct {
	db *gorm.DB
}

func NewPurchaseOrderRepo(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepo{db}
}

func (r *purchaseOrderRepo) Create(ctx context.Context, po *model.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(po).Error
}

func (r *purchaseOrderRepo) FindAll(ctx context.Context, storeID uuid.UUID, status *model.PurchaseOrderStatus) ([]model.PurchaseOrder, error) {
	query := r.db.WithContext(ctx).Preload("Supplier").Preload("Items").Where("store_id = ?", storeID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var orders []model.PurchaseOrder
	err := query.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *purchaseOrderRepo) FindByID(ctx context.Context, storeID, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Items.Product").
		First(&po, "id = ? AND store_id = ?", id, storeID).Error
	if err != nil {
		return nil, err
	}
	return &po, nil
}

// LockByID locks the order header row and loads its items.
func (r *purchaseOrderRepo) LockByID(tx *gorm.DB, storeID, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&po, "id = ? AND store_id = ?", id, storeID).Error
	if err != nil {
		return nil, err
	}
	if err := tx.Where("purchase_order_id = ?", po.ID).Order("created_at ASC").Find(&po.Items).Error; err != nil {
		return nil, err
	}
	return &po, nil
}

// UpdateHeader writes the mutable header columns only; items are untouched.
func (r *purchaseOrderRepo) UpdateHeader(tx *gorm.DB, po *model.PurchaseOrder) error {
	return tx.Model(&model.PurchaseOrder{}).Where("id = ?", po.ID).Updates(map[string]interface{}{
		"status":       po.Status,
		"total_amount": po.TotalAmount,
		"approved_at":  po.ApprovedAt,
		"received_at":  po.ReceivedAt,
		"cancelled_at": po.CancelledAt,
		"updated_by":   po.UpdatedBy,
	}).Error
}

func (r *purchaseOrderRepo) UpdateItem(tx *gorm.DB, item *model.PurchaseOrderItem) error {
	return tx.Model(&model.PurchaseOrderItem{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
		"quantity":      item.Quantity,
		"unit_type":     item.UnitType,
		"unit_price":    item.UnitPrice,
		"selling_price": item.SellingPrice,
		"total":         item.Total,
	}).Error
}
