package model

import (
	"time"

	"go-retail-stock/internal/unit"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseOrderStatus string

const (
	POPending   PurchaseOrderStatus = "pending"
	POApproved  PurchaseOrderStatus = "approved"
	POReceived  PurchaseOrderStatus = "received"
	POCancelled PurchaseOrderStatus = "cancelled"
)

// purchaseOrderTransitions lists the legal next states. Received and
// cancelled are terminal.
var purchaseOrderTransitions = map[PurchaseOrderStatus][]PurchaseOrderStatus{
	POPending:  {POApproved, POCancelled},
	POApproved: {POReceived, POCancelled},
}

func (s PurchaseOrderStatus) Valid() bool {
	switch s {
	case POPending, POApproved, POReceived, POCancelled:
		return true
	}
	return false
}

func (s PurchaseOrderStatus) CanTransitionTo(next PurchaseOrderStatus) bool {
	for _, allowed := range purchaseOrderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NextStatuses is what a client may offer as the next action.
func (s PurchaseOrderStatus) NextStatuses() []PurchaseOrderStatus {
	return append([]PurchaseOrderStatus(nil), purchaseOrderTransitions[s]...)
}

// Editable reports whether line items may still change.
func (s PurchaseOrderStatus) Editable() bool {
	return s == POPending || s == POApproved
}

type PurchaseOrder struct {
	BaseModel
	StoreID     uuid.UUID           `gorm:"type:uuid;not null;index" json:"store_id"`
	SupplierID  uuid.UUID           `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Supplier    *Supplier           `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	OrderNumber string              `gorm:"type:varchar(40);uniqueIndex;not null" json:"order_number"`
	Status      PurchaseOrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalAmount decimal.Decimal     `gorm:"type:numeric(14,2);not null;default:0" json:"total_amount"`
	Notes       string              `gorm:"type:text" json:"notes"`
	ApprovedAt  *time.Time          `json:"approved_at,omitempty"`
	ReceivedAt  *time.Time          `json:"received_at,omitempty"`
	CancelledAt *time.Time          `json:"cancelled_at,omitempty"`
	Items       []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID" json:"items"`
}

type PurchaseOrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	Product         *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	UnitType        unit.Type       `gorm:"type:varchar(10);not null" json:"unit_type"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"`
	SellingPrice    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"selling_price"`
	Total           decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (i *PurchaseOrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (i *PurchaseOrderItem) RecalculateTotal() {
	i.Total = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
}

// RecalculateTotal refreshes every line total and the header total.
func (po *PurchaseOrder) RecalculateTotal() {
	total := decimal.Zero
	for idx := range po.Items {
		po.Items[idx].RecalculateTotal()
		total = total.Add(po.Items[idx].Total)
	}
	po.TotalAmount = total
}
