package model

import (
	"errors"
	"time"

	"go-retail-stock/internal/unit"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StockLogType string

const (
	StockLogReceive       StockLogType = "receive"
	StockLogBulkReceive   StockLogType = "bulk_receive"
	StockLogPurchaseOrder StockLogType = "purchase_order"
	StockLogSale          StockLogType = "sale"
)

// InboundStockLogTypes are the log types that add stock at a cost.
var InboundStockLogTypes = []StockLogType{StockLogReceive, StockLogBulkReceive, StockLogPurchaseOrder}

var ErrStockLogImmutable = errors.New("stock log entries cannot be modified")

// StockLog is an append-only audit row written for every stock change.
// QuantityAdded is in pieces; it is negative for sales.
type StockLog struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product         *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	StoreID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"store_id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null" json:"user_id"`
	Type            StockLogType    `gorm:"type:varchar(20);not null;index" json:"type"`
	UnitType        unit.Type       `gorm:"type:varchar(10);not null" json:"unit_type"`
	EnteredQuantity int             `gorm:"not null" json:"entered_quantity"`
	QuantityAdded   int             `gorm:"not null" json:"quantity_added"`
	UnitCost        decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"unit_cost"`
	TotalCost       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"total_cost"`
	ReferenceID     *uuid.UUID      `gorm:"type:uuid;index" json:"reference_id,omitempty"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
}

func (l *StockLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (l *StockLog) BeforeUpdate(tx *gorm.DB) error {
	return ErrStockLogImmutable
}

func (l *StockLog) BeforeDelete(tx *gorm.DB) error {
	return ErrStockLogImmutable
}
