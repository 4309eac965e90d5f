package service

import (
	"context"
	"sync"
	"testing"

	"go-retail-stock/internal/model"
	"go-retail-stock/internal/repository"
	"go-retail-stock/internal/testutil"
	"go-retail-stock/internal/unit"
	"go-retail-stock/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type memoryCache struct {
	mu          sync.Mutex
	values      map[string]interface{}
	groups      map[string][]string
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]interface{}{}, groups: map[string][]string{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return false, nil
	}
	*dest.(*StockValueReport) = *v.(*StockValueReport)
	return true, nil
}

func (c *memoryCache) Set(ctx context.Context, group, key string, value interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	c.groups[group] = append(c.groups[group], key)
	return nil
}

func (c *memoryCache) Invalidate(ctx context.Context, group string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range c.groups[group] {
		delete(c.values, key)
	}
	delete(c.groups, group)
	c.invalidated = append(c.invalidated, group)
	return nil
}

type recorder struct {
	mu     sync.Mutex
	events []ws.Event
}

func (r *recorder) Publish(event ws.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Action
	}
	return out
}

type fixture struct {
	db        *gorm.DB
	store     model.Store
	actor     Actor
	products  repository.ProductRepository
	logs      repository.StockLogRepository
	suppliers repository.SupplierRepository
	cache     *memoryCache
	events    *recorder

	stock   StockService
	reports ReportService
	orders  PurchaseOrderService
	catalog ProductService
	vendors SupplierService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	log := testutil.Logger()

	store := model.Store{Code: "S1", Name: "Store One"}
	if err := db.Create(&store).Error; err != nil {
		t.Fatalf("create store: %v", err)
	}

	f := &fixture{
		db:        db,
		store:     store,
		actor:     Actor{UserID: uuid.New(), Name: "Manager", RoleCode: model.RoleManager, StoreID: &store.ID},
		products:  repository.NewProductRepo(db),
		logs:      repository.NewStockLogRepo(db),
		suppliers: repository.NewSupplierRepo(db),
		cache:     newMemoryCache(),
		events:    &recorder{},
	}
	ratios := unit.DefaultRatios()
	f.stock = NewStockService(db, ratios, f.products, f.logs, f.cache, f.events, log)
	f.reports = NewReportService(f.logs, f.cache, log)
	f.orders = NewPurchaseOrderService(db, ratios, repository.NewPurchaseOrderRepo(db), f.suppliers, f.products, f.logs, f.cache, f.events, log)
	f.catalog = NewProductService(ratios, f.products, f.events)
	f.vendors = NewSupplierService(f.suppliers)
	return f
}

func (f *fixture) product(t *testing.T, sku string, quantity int) *model.Product {
	t.Helper()
	p := &model.Product{StoreID: f.store.ID, SKU: sku, Name: "Product " + sku, Quantity: quantity, StockUnit: unit.Piece}
	if err := f.products.Create(context.Background(), p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func (f *fixture) reload(t *testing.T, id uuid.UUID) *model.Product {
	t.Helper()
	p, err := f.products.FindByID(context.Background(), f.store.ID, id)
	if err != nil {
		t.Fatalf("reload product: %v", err)
	}
	return p
}

func (f *fixture) logCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&model.StockLog{}).Count(&n).Error; err != nil {
		t.Fatalf("count logs: %v", err)
	}
	return n
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s: expected %s, got %s", name, want, got)
	}
}

func repositoryFilter(f *fixture) repository.StockLogFilter {
	return repository.StockLogFilter{StoreID: f.store.ID}
}
