package service

import (
	"context"
	"testing"
	"time"

	"go-retail-stock/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestStockValueReportAfterSingleReceipt(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "SOAP", 10)

	_, err := f.stock.Receive(context.Background(), f.actor, ReceiveRequest{
		ReceiveItem: ReceiveItem{ProductID: p.ID, Quantity: 2, UnitType: "pack", BuyingPrice: dec("100"), SellingPrice: dec("150")},
	})
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	// Sales are not inbound value and must not show up.
	if _, err := f.stock.Issue(context.Background(), f.actor, IssueRequest{ProductID: p.ID, Quantity: 1, UnitType: "piece"}); err != nil {
		t.Fatalf("issue: %v", err)
	}

	report, err := f.reports.StockValue(context.Background(), f.actor, StockValueFilter{})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	assertDecimal(t, "total value", report.TotalValue, "200")
	if report.TotalQuantity != 6 || report.UniqueProducts != 1 || report.Count != 1 {
		t.Fatalf("unexpected totals: quantity=%d products=%d count=%d", report.TotalQuantity, report.UniqueProducts, report.Count)
	}
	if len(report.ByDay) != 1 || len(report.TopProducts) != 1 || len(report.Logs) != 1 {
		t.Fatalf("unexpected groupings %+v", report)
	}
	if report.TopProducts[0].SKU != "SOAP" {
		t.Fatalf("expected product details in ranking, got %+v", report.TopProducts[0])
	}
}

func TestStockValueReportIsCachedUntilStockChanges(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "SOAP", 0)
	receive := func() {
		t.Helper()
		_, err := f.stock.Receive(context.Background(), f.actor, ReceiveRequest{
			ReceiveItem: ReceiveItem{ProductID: p.ID, Quantity: 1, UnitType: "piece", BuyingPrice: dec("10"), SellingPrice: dec("12")},
		})
		if err != nil {
			t.Fatalf("receive: %v", err)
		}
	}

	receive()
	first, err := f.reports.StockValue(context.Background(), f.actor, StockValueFilter{})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(f.cache.values) != 1 {
		t.Fatalf("expected report to be cached")
	}

	receive()
	second, err := f.reports.StockValue(context.Background(), f.actor, StockValueFilter{})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if first.Count != 1 || second.Count != 2 {
		t.Fatalf("expected fresh report after receipt, got %d then %d", first.Count, second.Count)
	}
}

func TestAggregateStockValue(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	day1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	logs := []model.StockLog{
		{ProductID: a, QuantityAdded: 6, TotalCost: decimal.NewFromInt(200), CreatedAt: day2, Product: &model.Product{Name: "Alpha"}},
		{ProductID: b, QuantityAdded: 12, TotalCost: decimal.NewFromInt(50), CreatedAt: day2.Add(time.Hour), Product: &model.Product{Name: "Beta"}},
		{ProductID: a, QuantityAdded: 3, TotalCost: decimal.NewFromInt(90), CreatedAt: day1},
		{ProductID: c, QuantityAdded: 1, TotalCost: decimal.NewFromInt(5), CreatedAt: day1, Product: &model.Product{Name: "Gamma"}},
	}

	report := AggregateStockValue(logs, 2)

	assertDecimal(t, "total value", report.TotalValue, "345")
	if report.TotalQuantity != 22 || report.UniqueProducts != 3 || report.Count != 4 {
		t.Fatalf("unexpected totals %+v", report)
	}

	if len(report.ByDay) != 2 || report.ByDay[0].Date != "2024-03-01" || report.ByDay[1].Date != "2024-03-02" {
		t.Fatalf("days should be ascending, got %+v", report.ByDay)
	}
	assertDecimal(t, "day 1", report.ByDay[0].Value, "95")
	assertDecimal(t, "day 2", report.ByDay[1].Value, "250")

	if len(report.TopProducts) != 2 {
		t.Fatalf("expected top 2, got %d", len(report.TopProducts))
	}
	if report.TopProducts[0].ProductID != a || report.TopProducts[1].ProductID != b {
		t.Fatalf("ranking should be by value, got %+v", report.TopProducts)
	}
	assertDecimal(t, "alpha value", report.TopProducts[0].Value, "290")
}

func TestAggregateStockValueEmpty(t *testing.T) {
	report := AggregateStockValue(nil, 10)
	if !report.TotalValue.IsZero() || report.Count != 0 || report.ByDay == nil || report.TopProducts == nil || report.Logs == nil {
		t.Fatalf("empty report should have zero totals and empty slices, got %+v", report)
	}
}
