package service

import (
	"context"
	"errors"
	"fmt"
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

type StockService interface {
	Receive(ctx context.Context, actor Actor, req ReceiveRequest) (*ReceiptResult, error)
	ReceiveBulk(ctx context.Context, actor Actor, req BulkReceiveRequest) (*BulkReceiptResult, error)
	Issue(ctx context.Context, actor Actor, req IssueRequest) (*IssueResult, error)
	Logs(ctx context.Context, actor Actor, query LogQuery) ([]model.StockLog, error)
}

type ReceiveRequest struct {
	ReceiveItem
	StoreID *uuid.UUID `json:"store_id,omitempty"`
}

type BulkReceiveRequest struct {
	Items   []ReceiveItem `json:"items"`
	StoreID *uuid.UUID    `json:"store_id,omitempty"`
}

type BulkReceiptResult struct {
	Count int              `json:"count"`
	Items []*ReceiptResult `json:"items"`
}

type IssueRequest struct {
	ProductID uuid.UUID  `json:"product_id" validate:"uuid_required"`
	Quantity  int        `json:"quantity" validate:"required,gt=0,lte=1000000"`
	UnitType  string     `json:"unit_type" validate:"required,unit_type"`
	Notes     string     `json:"notes"`
	StoreID   *uuid.UUID `json:"store_id,omitempty"`
}

type IssueResult struct {
	ProductID     uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	NewQuantity   int       `json:"new_quantity"`
	QuantityTaken int       `json:"quantity_taken"`
	LogID         uuid.UUID `json:"log_id"`
}

type LogQuery struct {
	ProductID *uuid.UUID
	Start     *time.Time
	End       *time.Time
	StoreID   *uuid.UUID
}

type stockService struct {
	receiver
	db       *gorm.DB
	cache    ReportCache
	notifier Notifier
	log      *logrus.Logger
}

func NewStockService(
	db *gorm.DB,
	ratios unit.Ratios,
	productRepo repository.ProductRepository,
	stockLogRepo repository.StockLogRepository,
	cache ReportCache,
	notifier Notifier,
	log *logrus.Logger,
) StockService {
	return &stockService{
		receiver: receiver{ratios: ratios, productRepo: productRepo, stockLogRepo: stockLogRepo},
		db:       db,
		cache:    cache,
		notifier: notifier,
		log:      log,
	}
}

func (s *stockService) Receive(ctx context.Context, actor Actor, req ReceiveRequest) (*ReceiptResult, error) {
	// 1. Validate before any transaction is opened
	line, err := req.ReceiveItem.toLine()
	if err != nil {
		return nil, err
	}

	// 2. Resolve store scope
	storeID, err := ResolveStore(actor, req.StoreID)
	if err != nil {
		return nil, err
	}

	// 3. Atomic: lock, convert, add quantity, reprice, log
	var result *ReceiptResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = s.receive(tx, actor, storeID, line, model.StockLogReceive, nil)
		return err
	})
	if err != nil {
		return nil, classify(err, "failed to receive stock")
	}

	s.afterChange(ctx, actor, storeID, "stock_received", []*ReceiptResult{result})
	return result, nil
}

// ReceiveBulk applies every item in one transaction. A single failing item
// rolls back the whole batch.
func (s *stockService) ReceiveBulk(ctx context.Context, actor Actor, req BulkReceiveRequest) (*BulkReceiptResult, error) {
	if len(req.Items) == 0 {
		return nil, apperr.Validation("items must contain at least one entry")
	}

	lines := make([]receiptLine, len(req.Items))
	for i, item := range req.Items {
		line, err := item.toLine()
		if err != nil {
			return nil, apperr.Validation("item %d: %s", i+1, err.Error())
		}
		lines[i] = line
	}

	storeID, err := ResolveStore(actor, req.StoreID)
	if err != nil {
		return nil, err
	}

	results := make([]*ReceiptResult, 0, len(lines))
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, line := range lines {
			result, err := s.receive(tx, actor, storeID, line, model.StockLogBulkReceive, nil)
			if err != nil {
				var appErr *apperr.Error
				if errors.As(err, &appErr) {
					return &apperr.Error{Kind: appErr.Kind, Message: fmt.Sprintf("item %d: %s", i+1, appErr.Message), Err: appErr.Err}
				}
				return fmt.Errorf("item %d: %w", i+1, err)
			}
			results = append(results, result)
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, "failed to receive stock batch")
	}

	s.afterChange(ctx, actor, storeID, "stock_received_bulk", results)
	return &BulkReceiptResult{Count: len(results), Items: results}, nil
}

// Issue takes stock out for a sale. Quantity never drops below zero.
func (s *stockService) Issue(ctx context.Context, actor Actor, req IssueRequest) (*IssueResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	unitType, err := unit.ParseType(req.UnitType)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	pieces, err := s.ratios.ToPieces(req.Quantity, unitType)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	storeID, err := ResolveStore(actor, req.StoreID)
	if err != nil {
		return nil, err
	}

	var result *IssueResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.LockByID(tx, storeID, req.ProductID)
		if err != nil {
			return notFound(err, "product %s not found", req.ProductID)
		}

		if product.Quantity < pieces {
			return apperr.Validation("insufficient stock for %s: %d pieces available, %d requested", product.Name, product.Quantity, pieces)
		}

		if err := s.productRepo.AdjustQuantity(tx, product.ID, -pieces, actor.auditID()); err != nil {
			return err
		}

		notes := req.Notes
		if notes == "" {
			notes = fmt.Sprintf("Sold %d %s(s) of %s", req.Quantity, unitType, product.Name)
		}
		entry := &model.StockLog{
			ProductID:       product.ID,
			StoreID:         storeID,
			UserID:          actor.UserID,
			Type:            model.StockLogSale,
			UnitType:        unitType,
			EnteredQuantity: req.Quantity,
			QuantityAdded:   -pieces,
			UnitCost:        product.PieceBuyingPrice,
			TotalCost:       product.PieceBuyingPrice.Mul(decimal.NewFromInt(int64(pieces))).Round(2),
			Notes:           notes,
		}
		if err := s.stockLogRepo.Create(tx, entry); err != nil {
			return err
		}

		result = &IssueResult{
			ProductID:     product.ID,
			Name:          product.Name,
			NewQuantity:   product.Quantity - pieces,
			QuantityTaken: pieces,
			LogID:         entry.ID,
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, "failed to issue stock")
	}

	s.invalidate(ctx, storeID)
	publish(s.notifier, ws.Event{
		Type:    "stock_update",
		Action:  "stock_issued",
		StoreID: storeID.String(),
		Data:    result,
		User:    actor.eventUser(),
		Message: fmt.Sprintf("%s issued %d pieces of '%s'", actor.Name, pieces, result.Name),
	})
	return result, nil
}

func (s *stockService) Logs(ctx context.Context, actor Actor, query LogQuery) ([]model.StockLog, error) {
	storeID, err := ResolveStore(actor, query.StoreID)
	if err != nil {
		return nil, err
	}

	logs, err := s.stockLogRepo.Find(ctx, repository.StockLogFilter{
		StoreID:   storeID,
		ProductID: query.ProductID,
		Start:     query.Start,
		End:       query.End,
	})
	if err != nil {
		return nil, classify(err, "failed to load stock logs")
	}
	return logs, nil
}

func (s *stockService) afterChange(ctx context.Context, actor Actor, storeID uuid.UUID, action string, results []*ReceiptResult) {
	s.invalidate(ctx, storeID)

	for _, r := range results {
		publish(s.notifier, ws.Event{
			Type:    "stock_update",
			Action:  action,
			StoreID: storeID.String(),
			Data:    r,
			User:    actor.eventUser(),
			Message: fmt.Sprintf("%s received %d pieces of '%s'", actor.Name, r.QuantityAdded, r.Name),
		})
	}
}

func (s *stockService) invalidate(ctx context.Context, storeID uuid.UUID) {
	if s.cache == nil {
		return
	}
	logWarn(s.log, "stock", "invalidate", s.cache.Invalidate(ctx, stockValueGroup(storeID)))
}
