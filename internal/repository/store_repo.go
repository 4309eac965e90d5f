package repository

import (
	"context"

	"go-retail-stock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(ctx context.Context, store *model.Store) error
	FindAll(ctx context.Context) ([]model.Store, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error)
	FindByCode(ctx context.Context, code string) (*model.Store, error)
}

type storeRepo struct {
	db *gorm.DB
}

func NewStoreRepo(db *gorm.DB) StoreRepository {
	return &storeRepo{db}
}

func (r *storeRepo) Create(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *storeRepo) FindAll(ctx context.Context) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.WithContext(ctx).Order("name ASC").Find(&stores).Error
	return stores, err
}

func (r *storeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepo) FindByCode(ctx context.Context, code string) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).First(&store, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &store, nil
}
