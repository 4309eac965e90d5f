package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-retail-stock/internal/apperr"
	"go-retail-stock/internal/model"
	"go-retail-stock/internal/repository"
	"go-retail-stock/internal/unit"
	"go-retail-stock/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PurchaseOrderService interface {
	Create(ctx context.Context, actor Actor, req CreatePurchaseOrderRequest) (*model.PurchaseOrder, error)
	List(ctx context.Context, actor Actor, storeID *uuid.UUID, status string) ([]model.PurchaseOrder, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID, storeID *uuid.UUID) (*model.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, req UpdateStatusRequest) (*model.PurchaseOrder, error)
	UpdateItem(ctx context.Context, actor Actor, id, itemID uuid.UUID, req UpdateItemRequest) (*model.PurchaseOrder, error)
}

type PurchaseOrderItemRequest struct {
	ProductID    uuid.UUID        `json:"product_id" validate:"uuid_required"`
	Quantity     int              `json:"quantity" validate:"required,gt=0,lte=1000000"`
	UnitType     string           `json:"unit_type" validate:"required,unit_type"`
	UnitPrice    *decimal.Decimal `json:"unit_price" validate:"required"`
	SellingPrice *decimal.Decimal `json:"selling_price" validate:"required"`
}

type CreatePurchaseOrderRequest struct {
	SupplierID uuid.UUID                  `json:"supplier_id" validate:"uuid_required"`
	Notes      string                     `json:"notes"`
	Items      []PurchaseOrderItemRequest `json:"items" validate:"required,min=1,dive"`
	StoreID    *uuid.UUID                 `json:"store_id,omitempty"`
}

type UpdateStatusRequest struct {
	Status  string     `json:"status" validate:"required"`
	StoreID *uuid.UUID `json:"store_id,omitempty"`
}

type UpdateItemRequest struct {
	PurchaseOrderItemRequest
	StoreID *uuid.UUID `json:"store_id,omitempty"`
}

type purchaseOrderService struct {
	receiver
	db           *gorm.DB
	poRepo       repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	cache        ReportCache
	notifier     Notifier
	log          *logrus.Logger
}

func NewPurchaseOrderService(
	db *gorm.DB,
	ratios unit.Ratios,
	poRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	stockLogRepo repository.StockLogRepository,
	cache ReportCache,
	notifier Notifier,
	log *logrus.Logger,
) PurchaseOrderService {
	return &purchaseOrderService{
		receiver:     receiver{ratios: ratios, productRepo: productRepo, stockLogRepo: stockLogRepo},
		db:           db,
		poRepo:       poRepo,
		supplierRepo: supplierRepo,
		cache:        cache,
		notifier:     notifier,
		log:          log,
	}
}

func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("PO-%s-%s", now.Format("20060102"), suffix)
}

func (req PurchaseOrderItemRequest) toItem() (model.PurchaseOrderItem, error) {
	unitType, err := unit.ParseType(req.UnitType)
	if err != nil {
		return model.PurchaseOrderItem{}, apperr.Validation("%s", err.Error())
	}
	if req.UnitPrice.IsNegative() || req.SellingPrice.IsNegative() {
		return model.PurchaseOrderItem{}, apperr.Validation("unit_price and selling_price must not be negative")
	}
	item := model.PurchaseOrderItem{
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		UnitType:     unitType,
		UnitPrice:    req.UnitPrice.Round(2),
		SellingPrice: req.SellingPrice.Round(2),
	}
	item.RecalculateTotal()
	return item, nil
}

func (s *purchaseOrderService) Create(ctx context.Context, actor Actor, req CreatePurchaseOrderRequest) (*model.PurchaseOrder, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	storeID, err := ResolveStore(actor, req.StoreID)
	if err != nil {
		return nil, err
	}

	if _, err := s.supplierRepo.FindByID(ctx, storeID, req.SupplierID); err != nil {
		return nil, classify(notFound(err, "supplier %s not found", req.SupplierID), "failed to load supplier")
	}

	items := make([]model.PurchaseOrderItem, len(req.Items))
	for i, itemReq := range req.Items {
		item, err := itemReq.toItem()
		if err != nil {
			return nil, apperr.Validation("item %d: %s", i+1, err.Error())
		}
		if _, err := s.productRepo.FindByID(ctx, storeID, item.ProductID); err != nil {
			return nil, classify(notFound(err, "item %d: product %s not found", i+1, item.ProductID), "failed to load product")
		}
		items[i] = item
	}

	po := &model.PurchaseOrder{
		StoreID:     storeID,
		SupplierID:  req.SupplierID,
		OrderNumber: newOrderNumber(time.Now()),
		Status:      model.POPending,
		Notes:       req.Notes,
		Items:       items,
	}
	po.RecalculateTotal()
	po.CreatedBy = actor.auditID()
	po.UpdatedBy = actor.auditID()

	if err := s.poRepo.Create(ctx, po); err != nil {
		return nil, classify(err, "failed to create purchase order")
	}

	s.announce(actor, "purchase_order_created", po)
	return s.poRepo.FindByID(ctx, storeID, po.ID)
}

func (s *purchaseOrderService) List(ctx context.Context, actor Actor, storeID *uuid.UUID, status string) ([]model.PurchaseOrder, error) {
	scope, err := ResolveStore(actor, storeID)
	if err != nil {
		return nil, err
	}

	var filter *model.PurchaseOrderStatus
	if status != "" {
		st := model.PurchaseOrderStatus(status)
		if !st.Valid() {
			return nil, apperr.Validation("unknown purchase order status %q", status)
		}
		filter = &st
	}

	orders, err := s.poRepo.FindAll(ctx, scope, filter)
	if err != nil {
		return nil, classify(err, "failed to load purchase orders")
	}
	return orders, nil
}

func (s *purchaseOrderService) Get(ctx context.Context, actor Actor, id uuid.UUID, storeID *uuid.UUID) (*model.PurchaseOrder, error) {
	scope, err := ResolveStore(actor, storeID)
	if err != nil {
		return nil, err
	}
	po, err := s.poRepo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, classify(notFound(err, "purchase order %s not found", id), "failed to load purchase order")
	}
	return po, nil
}

// UpdateStatus moves the order along its state machine. Receiving an order
// books every line into stock in the same transaction as the status change.
func (s *purchaseOrderService) UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, req UpdateStatusRequest) (*model.PurchaseOrder, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	next := model.PurchaseOrderStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !next.Valid() {
		return nil, apperr.Validation("unknown purchase order status %q", req.Status)
	}
	storeID, err := ResolveStore(actor, req.StoreID)
	if err != nil {
		return nil, err
	}

	var received []*ReceiptResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		po, err := s.poRepo.LockByID(tx, storeID, id)
		if err != nil {
			return notFound(err, "purchase order %s not found", id)
		}

		if !po.Status.CanTransitionTo(next) {
			return apperr.Validation("cannot change purchase order from %s to %s", po.Status, next)
		}

		now := time.Now()
		switch next {
		case model.POApproved:
			po.ApprovedAt = &now
		case model.POCancelled:
			po.CancelledAt = &now
		case model.POReceived:
			po.ReceivedAt = &now
			for i, item := range po.Items {
				line := receiptLine{
					productID: item.ProductID,
					quantity:  item.Quantity,
					unitType:  item.UnitType,
					buying:    item.UnitPrice,
					selling:   item.SellingPrice,
					notes:     fmt.Sprintf("Received from purchase order %s", po.OrderNumber),
				}
				result, err := s.receive(tx, actor, storeID, line, model.StockLogPurchaseOrder, &po.ID)
				if err != nil {
					return fmt.Errorf("item %d: %w", i+1, err)
				}
				received = append(received, result)
			}
		}

		po.Status = next
		po.UpdatedBy = actor.auditID()
		return s.poRepo.UpdateHeader(tx, po)
	})
	if err != nil {
		return nil, classify(err, "failed to update purchase order status")
	}

	po, err := s.poRepo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, classify(err, "failed to reload purchase order")
	}

	if len(received) > 0 && s.cache != nil {
		logWarn(s.log, "purchase_order", "UpdateStatus", s.cache.Invalidate(ctx, stockValueGroup(storeID)))
	}
	for _, r := range received {
		publish(s.notifier, ws.Event{
			Type:    "stock_update",
			Action:  "stock_received_po",
			StoreID: storeID.String(),
			Data:    r,
			User:    actor.eventUser(),
			Message: fmt.Sprintf("%s received %d pieces of '%s' from %s", actor.Name, r.QuantityAdded, r.Name, po.OrderNumber),
		})
	}
	s.announce(actor, "purchase_order_"+string(next), po)
	return po, nil
}

// UpdateItem edits one line while the order is still open and recomputes
// the order total.
func (s *purchaseOrderService) UpdateItem(ctx context.Context, actor Actor, id, itemID uuid.UUID, req UpdateItemRequest) (*model.PurchaseOrder, error) {
	if err := validate(req.PurchaseOrderItemRequest); err != nil {
		return nil, err
	}
	edited, err := req.PurchaseOrderItemRequest.toItem()
	if err != nil {
		return nil, err
	}
	storeID, err := ResolveStore(actor, req.StoreID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		po, err := s.poRepo.LockByID(tx, storeID, id)
		if err != nil {
			return notFound(err, "purchase order %s not found", id)
		}
		if !po.Status.Editable() {
			return apperr.Validation("items of a %s purchase order cannot be edited", po.Status)
		}

		var item *model.PurchaseOrderItem
		for i := range po.Items {
			if po.Items[i].ID == itemID {
				item = &po.Items[i]
				break
			}
		}
		if item == nil {
			return apperr.NotFound("item %s not found on purchase order %s", itemID, po.OrderNumber)
		}

		if edited.ProductID != item.ProductID {
			if _, err := s.productRepo.LockByID(tx, storeID, edited.ProductID); err != nil {
				return notFound(err, "product %s not found", edited.ProductID)
			}
		}

		item.ProductID = edited.ProductID
		item.Quantity = edited.Quantity
		item.UnitType = edited.UnitType
		item.UnitPrice = edited.UnitPrice
		item.SellingPrice = edited.SellingPrice
		po.RecalculateTotal()
		po.UpdatedBy = actor.auditID()

		if err := s.poRepo.UpdateItem(tx, item); err != nil {
			return err
		}
		return s.poRepo.UpdateHeader(tx, po)
	})
	if err != nil {
		return nil, classify(err, "failed to update purchase order item")
	}

	po, err := s.poRepo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, classify(err, "failed to reload purchase order")
	}
	s.announce(actor, "purchase_order_item_updated", po)
	return po, nil
}

func (s *purchaseOrderService) announce(actor Actor, action string, po *model.PurchaseOrder) {
	publish(s.notifier, ws.Event{
		Type:    "purchase_order_update",
		Action:  action,
		StoreID: po.StoreID.String(),
		Data:    po,
		User:    actor.eventUser(),
		Message: fmt.Sprintf("%s updated purchase order %s (%s)", actor.Name, po.OrderNumber, po.Status),
	})
}
