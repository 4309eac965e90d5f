package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-retail-stock/internal/apperr"
	"go-retail-stock/internal/model"
	"go-retail-stock/internal/repository"
	"go-retail-stock/internal/unit"
	"go-retail-stock/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductService interface {
	Create(ctx context.Context, actor Actor, req ProductRequest) (*model.Product, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req ProductRequest) (*model.Product, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID, storeID *uuid.UUID) (*model.Product, error)
	List(ctx context.Context, actor Actor, storeID *uuid.UUID) ([]model.Product, error)
	LowStock(ctx context.Context, actor Actor, storeID *uuid.UUID) ([]model.Product, error)
}

// ProductRequest carries one price pair at PriceUnit; the other tiers are
// derived from it. Quantity is never set here, only through stock paths.
type ProductRequest struct {
	SKU          string           `json:"sku" validate:"required,max=50"`
	Name         string           `json:"name" validate:"required,max=255"`
	Description  string           `json:"description"`
	MinQuantity  int              `json:"min_quantity" validate:"gte=0"`
	StockUnit    string           `json:"stock_unit" validate:"omitempty,unit_type"`
	PriceUnit    string           `json:"price_unit" validate:"omitempty,unit_type"`
	BuyingPrice  *decimal.Decimal `json:"buying_price"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	StoreID      *uuid.UUID       `json:"store_id,omitempty"`
}

type productService struct {
	ratios      unit.Ratios
	productRepo repository.ProductRepository
	notifier    Notifier
}

func NewProductService(ratios unit.Ratios, productRepo repository.ProductRepository, notifier Notifier) ProductService {
	return &productService{ratios: ratios, productRepo: productRepo, notifier: notifier}
}

func (s *productService) Create(ctx context.Context, actor Actor, req ProductRequest) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	storeID, err := ResolveStore(actor, req.StoreID)
	if err != nil {
		return nil, err
	}

	sku := strings.TrimSpace(req.SKU)
	if _, err := s.productRepo.FindBySKU(ctx, storeID, sku); err == nil {
		return nil, apperr.Validation("sku %q already exists in this store", sku)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, classify(err, "failed to check sku")
	}

	product := &model.Product{
		StoreID:     storeID,
		SKU:         sku,
		Name:        req.Name,
		Description: req.Description,
		MinQuantity: req.MinQuantity,
		StockUnit:   unit.Piece,
	}
	if err := s.apply(product, req); err != nil {
		return nil, err
	}
	product.CreatedBy = actor.auditID()
	product.UpdatedBy = actor.auditID()

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, classify(err, "failed to create product")
	}

	s.announce(actor, "product_created", product)
	return product, nil
}

func (s *productService) Update(ctx context.Context, actor Actor, id uuid.UUID, req ProductRequest) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	storeID, err := ResolveStore(actor, req.StoreID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, classify(notFound(err, "product %s not found", id), "failed to load product")
	}

	sku := strings.TrimSpace(req.SKU)
	if sku != product.SKU {
		if other, err := s.productRepo.FindBySKU(ctx, storeID, sku); err == nil && other.ID != product.ID {
			return nil, apperr.Validation("sku %q already exists in this store", sku)
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, classify(err, "failed to check sku")
		}
	}

	product.SKU = sku
	product.Name = req.Name
	product.Description = req.Description
	product.MinQuantity = req.MinQuantity
	if err := s.apply(product, req); err != nil {
		return nil, err
	}
	product.UpdatedBy = actor.auditID()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, classify(err, "failed to update product")
	}

	s.announce(actor, "product_updated", product)
	return product, nil
}

// apply sets the stock unit and, when a price pair is present, all six
// tiered prices.
func (s *productService) apply(product *model.Product, req ProductRequest) error {
	if req.StockUnit != "" {
		stockUnit, err := unit.ParseType(req.StockUnit)
		if err != nil {
			return apperr.Validation("%s", err.Error())
		}
		product.StockUnit = stockUnit
	}

	if req.BuyingPrice == nil && req.SellingPrice == nil {
		return nil
	}
	if req.BuyingPrice == nil || req.SellingPrice == nil {
		return apperr.Validation("buying_price and selling_price must be given together")
	}

	priceUnit := unit.Piece
	if req.PriceUnit != "" {
		parsed, err := unit.ParseType(req.PriceUnit)
		if err != nil {
			return apperr.Validation("%s", err.Error())
		}
		priceUnit = parsed
	}

	tiers, err := s.ratios.DeriveTiers(priceUnit, *req.BuyingPrice, *req.SellingPrice)
	if err != nil {
		return apperr.Validation("%s", err.Error())
	}
	product.ApplyTiers(tiers)
	return nil
}

func (s *productService) Get(ctx context.Context, actor Actor, id uuid.UUID, storeID *uuid.UUID) (*model.Product, error) {
	scope, err := ResolveStore(actor, storeID)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, classify(notFound(err, "product %s not found", id), "failed to load product")
	}
	return product, nil
}

func (s *productService) List(ctx context.Context, actor Actor, storeID *uuid.UUID) ([]model.Product, error) {
	scope, err := ResolveStore(actor, storeID)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindAll(ctx, scope)
	if err != nil {
		return nil, classify(err, "failed to load products")
	}
	return products, nil
}

func (s *productService) LowStock(ctx context.Context, actor Actor, storeID *uuid.UUID) ([]model.Product, error) {
	scope, err := ResolveStore(actor, storeID)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindLowStock(ctx, scope)
	if err != nil {
		return nil, classify(err, "failed to load low stock products")
	}
	return products, nil
}

func (s *productService) announce(actor Actor, action string, product *model.Product) {
	publish(s.notifier, ws.Event{
		Type:    "product_update",
		Action:  action,
		StoreID: product.StoreID.String(),
		Data:    product,
		User:    actor.eventUser(),
		Message: fmt.Sprintf("%s saved product '%s'", actor.Name, product.Name),
	})
}
