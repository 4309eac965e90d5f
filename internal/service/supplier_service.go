package service

import (
	"context"
	"errors"

	"go-retail-stock/internal/apperr"
	"go-retail-stock/internal/model"
	"go-retail-stock/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierService interface {
	Create(ctx context.Context, actor Actor, req SupplierRequest) (*model.Supplier, error)
	List(ctx context.Context, actor Actor, storeID *uuid.UUID) ([]model.Supplier, error)
}

type SupplierRequest struct {
	Name        string     `json:"name" validate:"required,max=255"`
	ContactName string     `json:"contact_name"`
	Phone       string     `json:"phone" validate:"max=30"`
	Email       string     `json:"email" validate:"omitempty,email"`
	Address     string     `json:"address"`
	StoreID     *uuid.UUID `json:"store_id,omitempty"`
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
}

func NewSupplierService(supplierRepo repository.SupplierRepository) SupplierService {
	return &supplierService{supplierRepo: supplierRepo}
}

func (s *supplierService) Create(ctx context.Context, actor Actor, req SupplierRequest) (*model.Supplier, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	storeID, err := ResolveStore(actor, req.StoreID)
	if err != nil {
		return nil, err
	}

	supplier := &model.Supplier{
		StoreID:     storeID,
		Name:        req.Name,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
	}
	supplier.CreatedBy = actor.auditID()
	supplier.UpdatedBy = actor.auditID()

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, classify(err, "failed to create supplier")
	}
	return supplier, nil
}

func (s *supplierService) List(ctx context.Context, actor Actor, storeID *uuid.UUID) ([]model.Supplier, error) {
	scope, err := ResolveStore(actor, storeID)
	if err != nil {
		return nil, err
	}
	suppliers, err := s.supplierRepo.FindAll(ctx, scope)
	if err != nil {
		return nil, classify(err, "failed to load suppliers")
	}
	return suppliers, nil
}

type StoreService interface {
	Create(ctx context.Context, actor Actor, req StoreRequest) (*model.Store, error)
	List(ctx context.Context, actor Actor) ([]model.Store, error)
}

type StoreRequest struct {
	Code    string `json:"code" validate:"required,max=30"`
	Name    string `json:"name" validate:"required,max=255"`
	Address string `json:"address"`
	Phone   string `json:"phone" validate:"max=30"`
}

type storeService struct {
	storeRepo repository.StoreRepository
}

func NewStoreService(storeRepo repository.StoreRepository) StoreService {
	return &storeService{storeRepo: storeRepo}
}

func (s *storeService) Create(ctx context.Context, actor Actor, req StoreRequest) (*model.Store, error) {
	if !actor.IsSuperAdmin() {
		return nil, apperr.Validation("only a super admin can create stores")
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	if _, err := s.storeRepo.FindByCode(ctx, req.Code); err == nil {
		return nil, apperr.Validation("store code %q already exists", req.Code)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, classify(err, "failed to check store code")
	}

	store := &model.Store{Code: req.Code, Name: req.Name, Address: req.Address, Phone: req.Phone}
	store.CreatedBy = actor.auditID()
	store.UpdatedBy = actor.auditID()

	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, classify(err, "failed to create store")
	}
	return store, nil
}

// List returns every store to a super admin and only the own store to
// anyone else.
func (s *storeService) List(ctx context.Context, actor Actor) ([]model.Store, error) {
	if actor.IsSuperAdmin() {
		stores, err := s.storeRepo.FindAll(ctx)
		if err != nil {
			return nil, classify(err, "failed to load stores")
		}
		return stores, nil
	}

	storeID, err := ResolveStore(actor, nil)
	if err != nil {
		return nil, err
	}
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, classify(notFound(err, "store %s not found", storeID), "failed to load store")
	}
	return []model.Store{*store}, nil
}
