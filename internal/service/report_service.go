package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go-retail-stock/internal/model"
	"go-retail-stock/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const defaultTopProducts = 10

type ReportService interface {
	StockValue(ctx context.Context, actor Actor, filter StockValueFilter) (*StockValueReport, error)
}

type StockValueFilter struct {
	Start   *time.Time
	End     *time.Time
	StoreID *uuid.UUID
	Top     int
}

type DayValue struct {
	Date     string          `json:"date"`
	Value    decimal.Decimal `json:"value"`
	Quantity int             `json:"quantity"`
	Count    int             `json:"count"`
}

type ProductValue struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Value     decimal.Decimal `json:"value"`
	Quantity  int             `json:"quantity"`
}

type StockValueReport struct {
	TotalValue     decimal.Decimal  `json:"total_value"`
	TotalQuantity  int              `json:"total_quantity"`
	UniqueProducts int              `json:"unique_products"`
	Count          int              `json:"count"`
	ByDay          []DayValue       `json:"byDay"`
	TopProducts    []ProductValue   `json:"topProducts"`
	Logs           []model.StockLog `json:"logs"`
}

type reportService struct {
	stockLogRepo repository.StockLogRepository
	cache        ReportCache
	log          *logrus.Logger
}

func NewReportService(stockLogRepo repository.StockLogRepository, cache ReportCache, log *logrus.Logger) ReportService {
	return &reportService{stockLogRepo: stockLogRepo, cache: cache, log: log}
}

func stockValueGroup(storeID uuid.UUID) string {
	return "stock-value:" + storeID.String()
}

func stockValueKey(storeID uuid.UUID, f StockValueFilter) string {
	format := func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("report:stock-value:%s:%s:%s:%d", storeID, format(f.Start), format(f.End), f.Top)
}

func (s *reportService) StockValue(ctx context.Context, actor Actor, filter StockValueFilter) (*StockValueReport, error) {
	storeID, err := ResolveStore(actor, filter.StoreID)
	if err != nil {
		return nil, err
	}
	if filter.Top <= 0 {
		filter.Top = defaultTopProducts
	}

	key := stockValueKey(storeID, filter)
	if s.cache != nil {
		var cached StockValueReport
		hit, err := s.cache.Get(ctx, key, &cached)
		logWarn(s.log, "report", "StockValue", err)
		if hit {
			return &cached, nil
		}
	}

	logs, err := s.stockLogRepo.Find(ctx, repository.StockLogFilter{
		StoreID: storeID,
		Types:   model.InboundStockLogTypes,
		Start:   filter.Start,
		End:     filter.End,
	})
	if err != nil {
		return nil, classify(err, "failed to load stock logs")
	}

	report := AggregateStockValue(logs, filter.Top)
	if s.cache != nil {
		logWarn(s.log, "report", "StockValue", s.cache.Set(ctx, stockValueGroup(storeID), key, report))
	}
	return report, nil
}

// AggregateStockValue folds logs into a report in one pass. Days are keyed
// by the UTC calendar date of each entry.
func AggregateStockValue(logs []model.StockLog, top int) *StockValueReport {
	report := &StockValueReport{
		TotalValue:  decimal.Zero,
		ByDay:       []DayValue{},
		TopProducts: []ProductValue{},
		Logs:        logs,
	}
	if report.Logs == nil {
		report.Logs = []model.StockLog{}
	}

	days := make(map[string]*DayValue)
	products := make(map[uuid.UUID]*ProductValue)

	for _, entry := range logs {
		report.TotalValue = report.TotalValue.Add(entry.TotalCost)
		report.TotalQuantity += entry.QuantityAdded
		report.Count++

		date := entry.CreatedAt.UTC().Format("2006-01-02")
		day, ok := days[date]
		if !ok {
			day = &DayValue{Date: date, Value: decimal.Zero}
			days[date] = day
		}
		day.Value = day.Value.Add(entry.TotalCost)
		day.Quantity += entry.QuantityAdded
		day.Count++

		product, ok := products[entry.ProductID]
		if !ok {
			product = &ProductValue{ProductID: entry.ProductID, Value: decimal.Zero}
			if entry.Product != nil {
				product.Name = entry.Product.Name
				product.SKU = entry.Product.SKU
			}
			products[entry.ProductID] = product
		}
		product.Value = product.Value.Add(entry.TotalCost)
		product.Quantity += entry.QuantityAdded
	}

	report.UniqueProducts = len(products)

	for _, day := range days {
		report.ByDay = append(report.ByDay, *day)
	}
	sort.Slice(report.ByDay, func(i, j int) bool {
		return report.ByDay[i].Date < report.ByDay[j].Date
	})

	for _, product := range products {
		report.TopProducts = append(report.TopProducts, *product)
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		a, b := report.TopProducts[i], report.TopProducts[j]
		if !a.Value.Equal(b.Value) {
			return a.Value.GreaterThan(b.Value)
		}
		return a.Name < b.Name
	})
	if top > 0 && len(report.TopProducts) > top {
		report.TopProducts = report.TopProducts[:top]
	}

	return report
}
