package service

import (
	"fmt"
	"math"

	"go-retail-stock/internal/apperr"
	"go-retail-stock/internal/model"
	"go-retail-stock/internal/repository"
	"go-retail-stock/internal/unit"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReceiveItem is one product line of a stock receipt.
type ReceiveItem struct {
	ProductID    uuid.UUID        `json:"product_id" validate:"uuid_required"`
	Quantity     int              `json:"quantity" validate:"required,gt=0,lte=1000000"`
	UnitType     string           `json:"unit_type" validate:"required,unit_type"`
	BuyingPrice  *decimal.Decimal `json:"buying_price" validate:"required"`
	SellingPrice *decimal.Decimal `json:"selling_price" validate:"required"`
	Notes        string           `json:"notes"`
}

// ReceiptResult is what the caller gets back for each received product.
type ReceiptResult struct {
	ProductID     uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	SKU           string     `json:"sku"`
	NewQuantity   int        `json:"new_quantity"`
	QuantityAdded int        `json:"quantity_added"`
	Prices        unit.Tiers `json:"prices"`
	LogID         uuid.UUID  `json:"log_id"`
}

type receiptLine struct {
	productID uuid.UUID
	quantity  int
	unitType  unit.Type
	buying    decimal.Decimal
	selling   decimal.Decimal
	notes     string
}

func (item ReceiveItem) toLine() (receiptLine, error) {
	if err := validate(item); err != nil {
		return receiptLine{}, err
	}
	unitType, err := unit.ParseType(item.UnitType)
	if err != nil {
		return receiptLine{}, apperr.Validation("%s", err.Error())
	}
	if item.BuyingPrice.IsNegative() || item.SellingPrice.IsNegative() {
		return receiptLine{}, apperr.Validation("buying_price and selling_price must not be negative")
	}
	return receiptLine{
		productID: item.ProductID,
		quantity:  item.Quantity,
		unitType:  unitType,
		buying:    *item.BuyingPrice,
		selling:   *item.SellingPrice,
		notes:     item.Notes,
	}, nil
}

// receiver applies receipt lines inside a caller-owned transaction. It is
// shared by direct receipts and purchase order receiving.
type receiver struct {
	ratios       unit.Ratios
	productRepo  repository.ProductRepository
	stockLogRepo repository.StockLogRepository
}

func (r *receiver) receive(tx *gorm.DB, actor Actor, storeID uuid.UUID, line receiptLine, logType model.StockLogType, ref *uuid.UUID) (*ReceiptResult, error) {
	product, err := r.productRepo.LockByID(tx, storeID, line.productID)
	if err != nil {
		return nil, notFound(err, "product %s not found", line.productID)
	}

	pieces, err := r.ratios.ToPieces(line.quantity, line.unitType)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	if product.Quantity > math.MaxInt-pieces {
		return nil, apperr.Validation("receiving %d pieces would overflow the stock of %s", pieces, product.Name)
	}
	tiers, err := r.ratios.DeriveTiers(line.unitType, line.buying, line.selling)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	unitCost, err := r.ratios.PieceCost(line.buying, line.unitType)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	if err := r.productRepo.AdjustQuantity(tx, product.ID, pieces, actor.auditID()); err != nil {
		return nil, err
	}
	product.ApplyTiers(tiers)
	if err := r.productRepo.UpdatePrices(tx, product, actor.auditID()); err != nil {
		return nil, err
	}
	product.Quantity += pieces

	notes := line.notes
	if notes == "" {
		notes = fmt.Sprintf("Received %d %s(s) of %s", line.quantity, line.unitType, product.Name)
	}

	// total_cost is the entered unit price times the entered quantity, which
	// is the value of all `pieces` received.
	entry := &model.StockLog{
		ProductID:       product.ID,
		StoreID:         storeID,
		UserID:          actor.UserID,
		Type:            logType,
		UnitType:        line.unitType,
		EnteredQuantity: line.quantity,
		QuantityAdded:   pieces,
		UnitCost:        unitCost,
		TotalCost:       line.buying.Mul(decimal.NewFromInt(int64(line.quantity))).Round(2),
		ReferenceID:     ref,
		Notes:           notes,
	}
	if err := r.stockLogRepo.Create(tx, entry); err != nil {
		return nil, err
	}

	return &ReceiptResult{
		ProductID:     product.ID,
		Name:          product.Name,
		SKU:           product.SKU,
		NewQuantity:   product.Quantity,
		QuantityAdded: pieces,
		Prices:        product.Tiers(),
		LogID:         entry.ID,
	}, nil
}
