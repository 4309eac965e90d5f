package repository

import (
	"context"
	"time"

	"go-retail-stock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockLogFilter struct {
	StoreID   uuid.UUID
	ProductID *uuid.UUID
	Types     []model.StockLogType
	Start     *time.Time
	End       *time.Time
}

type StockLogRepository interface {
	Create(tx *gorm.DB, log *model.StockLog) error
	Find(ctx context.Context, filter StockLogFilter) ([]model.StockLog, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

type stockLogRepo struct {
	db *gorm.DB
}

func NewStockLogRepo(db *gorm.DB) StockLogRepository {
	return &stockLogRepo{db}
}

func (r *stockLogRepo) Create(tx *gorm.DB, log *model.StockLog) error {
	return tx.Create(log).Error
}

// Find returns matching logs newest first, with their product preloaded.
func (r *stockLogRepo) Find(ctx context.Context, filter StockLogFilter) ([]model.StockLog, error) {
	query := r.db.WithContext(ctx).Preload("Product").Where("store_id = ?", filter.StoreID)

	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if len(filter.Types) > 0 {
		query = query.Where("type IN ?", filter.Types)
	}
	if filter.Start != nil {
		query = query.Where("created_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		query = query.Where("created_at <= ?", *filter.End)
	}

	var logs []model.StockLog
	err := query.Order("created_at DESC").Find(&logs).Error
	return logs, err
}

func (r *stockLogRepo) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.StockLog{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}
