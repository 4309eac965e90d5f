package service

import (
	"context"
	"strings"
	"testing"

	"go-retail-stock/internal/apperr"
	"go-retail-stock/internal/model"

	"github.com/google/uuid"
)

func (f *fixture) supplier(t *testing.T) *model.Supplier {
	t.Helper()
	s, err := f.vendors.Create(context.Background(), f.actor, SupplierRequest{Name: "Wholesale Co", Email: "sales@wholesale.test"})
	if err != nil {
		t.Fatalf("create supplier: %v", err)
	}
	return s
}

func (f *fixture) order(t *testing.T, supplierID uuid.UUID, items ...PurchaseOrderItemRequest) *model.PurchaseOrder {
	t.Helper()
	po, err := f.orders.Create(context.Background(), f.actor, CreatePurchaseOrderRequest{SupplierID: supplierID, Items: items})
	if err != nil {
		t.Fatalf("create purchase order: %v", err)
	}
	return po
}

func TestPurchaseOrderLifecycleReceivesStock(t *testing.T) {
	f := newFixture(t)
	sup := f.supplier(t)
	soap := f.product(t, "SOAP", 10)
	rice := f.product(t, "RICE", 0)

	po := f.order(t, sup.ID,
		PurchaseOrderItemRequest{ProductID: soap.ID, Quantity: 2, UnitType: "pack", UnitPrice: dec("100"), SellingPrice: dec("150")},
		PurchaseOrderItemRequest{ProductID: rice.ID, Quantity: 5, UnitType: "piece", UnitPrice: dec("3.5"), SellingPrice: dec("5")},
	)
	if po.Status != model.POPending {
		t.Fatalf("new order should be pending, got %s", po.Status)
	}
	if !strings.HasPrefix(po.OrderNumber, "PO-") {
		t.Fatalf("unexpected order number %q", po.OrderNumber)
	}
	assertDecimal(t, "total", po.TotalAmount, "217.5")
	if len(po.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(po.Items))
	}

	// Receiving straight from pending is not allowed.
	_, err := f.orders.UpdateStatus(context.Background(), f.actor, po.ID, UpdateStatusRequest{Status: "received"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected illegal transition, got %v", err)
	}
	if got := f.reload(t, soap.ID); got.Quantity != 10 {
		t.Fatalf("illegal transition must not touch stock, got %d", got.Quantity)
	}

	approved, err := f.orders.UpdateStatus(context.Background(), f.actor, po.ID, UpdateStatusRequest{Status: "approved"})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != model.POApproved || approved.ApprovedAt == nil {
		t.Fatalf("unexpected approved order %+v", approved)
	}

	received, err := f.orders.UpdateStatus(context.Background(), f.actor, po.ID, UpdateStatusRequest{Status: "received"})
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if received.Status != model.POReceived || received.ReceivedAt == nil {
		t.Fatalf("unexpected received order %+v", received)
	}

	if got := f.reload(t, soap.ID); got.Quantity != 16 {
		t.Fatalf("expected 16 soap, got %d", got.Quantity)
	}
	gotRice := f.reload(t, rice.ID)
	if gotRice.Quantity != 5 {
		t.Fatalf("expected 5 rice, got %d", gotRice.Quantity)
	}
	assertDecimal(t, "rice pack buying", gotRice.PackBuyingPrice, "10.5")

	logs, err := f.logs.Find(context.Background(), repositoryFilter(f))
	if err != nil {
		t.Fatalf("find logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}
	for _, entry := range logs {
		if entry.Type != model.StockLogPurchaseOrder || entry.ReferenceID == nil || *entry.ReferenceID != po.ID {
			t.Fatalf("log not linked to order: %+v", entry)
		}
	}

	// Terminal.
	_, err = f.orders.UpdateStatus(context.Background(), f.actor, po.ID, UpdateStatusRequest{Status: "cancelled"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("received order must be terminal, got %v", err)
	}
}

func TestPurchaseOrderItemEditRecomputesTotal(t *testing.T) {
	f := newFixture(t)
	sup := f.supplier(t)
	soap := f.product(t, "SOAP", 0)

	po := f.order(t, sup.ID,
		PurchaseOrderItemRequest{ProductID: soap.ID, Quantity: 2, UnitType: "pack", UnitPrice: dec("100"), SellingPrice: dec("150")},
	)
	itemID := po.Items[0].ID

	edited, err := f.orders.UpdateItem(context.Background(), f.actor, po.ID, itemID, UpdateItemRequest{
		PurchaseOrderItemRequest: PurchaseOrderItemRequest{ProductID: soap.ID, Quantity: 3, UnitType: "pack", UnitPrice: dec("90"), SellingPrice: dec("140")},
	})
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	assertDecimal(t, "order total", edited.TotalAmount, "270")
	assertDecimal(t, "item total", edited.Items[0].Total, "270")

	if _, err := f.orders.UpdateStatus(context.Background(), f.actor, po.ID, UpdateStatusRequest{Status: "cancelled"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	_, err = f.orders.UpdateItem(context.Background(), f.actor, po.ID, itemID, UpdateItemRequest{
		PurchaseOrderItemRequest: PurchaseOrderItemRequest{ProductID: soap.ID, Quantity: 1, UnitType: "pack", UnitPrice: dec("1"), SellingPrice: dec("1")},
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("cancelled order items must be locked, got %v", err)
	}

	_, err = f.orders.UpdateItem(context.Background(), f.actor, po.ID, uuid.New(), UpdateItemRequest{
		PurchaseOrderItemRequest: PurchaseOrderItemRequest{ProductID: soap.ID, Quantity: 1, UnitType: "pack", UnitPrice: dec("1"), SellingPrice: dec("1")},
	})
	if err == nil {
		t.Fatalf("unknown item should fail")
	}
}

func TestPurchaseOrderCreateValidation(t *testing.T) {
	f := newFixture(t)
	sup := f.supplier(t)
	soap := f.product(t, "SOAP", 0)

	cases := []struct {
		name string
		req  CreatePurchaseOrderRequest
		kind apperr.Kind
	}{
		{"no items", CreatePurchaseOrderRequest{SupplierID: sup.ID}, apperr.KindValidation},
		{"unknown supplier", CreatePurchaseOrderRequest{SupplierID: uuid.New(), Items: []PurchaseOrderItemRequest{
			{ProductID: soap.ID, Quantity: 1, UnitType: "piece", UnitPrice: dec("1"), SellingPrice: dec("2")},
		}}, apperr.KindNotFound},
		{"unknown product", CreatePurchaseOrderRequest{SupplierID: sup.ID, Items: []PurchaseOrderItemRequest{
			{ProductID: uuid.New(), Quantity: 1, UnitType: "piece", UnitPrice: dec("1"), SellingPrice: dec("2")},
		}}, apperr.KindNotFound},
		{"bad unit", CreatePurchaseOrderRequest{SupplierID: sup.ID, Items: []PurchaseOrderItemRequest{
			{ProductID: soap.ID, Quantity: 1, UnitType: "box", UnitPrice: dec("1"), SellingPrice: dec("2")},
		}}, apperr.KindValidation},
	}

	for _, tc := range cases {
		_, err := f.orders.Create(context.Background(), f.actor, tc.req)
		if !apperr.Is(err, tc.kind) {
			t.Fatalf("%s: expected %s error, got %v", tc.name, tc.kind, err)
		}
	}

	if _, err := f.orders.List(context.Background(), f.actor, nil, "shipped"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("unknown status filter should fail, got %v", err)
	}
}
