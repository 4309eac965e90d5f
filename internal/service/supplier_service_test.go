package service

import (
	"context"
	"testing"

	"go-retail-stock/internal/apperr"
	"go-retail-stock/internal/model"
	"go-retail-stock/internal/repository"

	"github.com/google/uuid"
)

func TestStoreServiceRestrictsToSuperAdmin(t *testing.T) {
	f := newFixture(t)
	stores := NewStoreService(repository.NewStoreRepo(f.db))
	ctx := context.Background()

	if _, err := stores.Create(ctx, f.actor, StoreRequest{Code: "S2", Name: "Store Two"}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("manager must not create stores, got %v", err)
	}

	super := Actor{UserID: uuid.New(), RoleCode: model.RoleSuperAdmin}
	created, err := stores.Create(ctx, super, StoreRequest{Code: "S2", Name: "Store Two"})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if _, err := stores.Create(ctx, super, StoreRequest{Code: "S2", Name: "Again"}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("duplicate code should fail, got %v", err)
	}

	all, err := stores.List(ctx, super)
	if err != nil || len(all) != 2 {
		t.Fatalf("super admin should see both stores, got %d, %v", len(all), err)
	}

	own, err := stores.List(ctx, f.actor)
	if err != nil {
		t.Fatalf("list own store: %v", err)
	}
	if len(own) != 1 || own[0].ID != f.store.ID || own[0].ID == created.ID {
		t.Fatalf("manager should only see their store, got %+v", own)
	}
}

func TestSuppliersAreStoreScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.supplier(t)

	if _, err := f.vendors.Create(ctx, f.actor, SupplierRequest{}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("missing name should fail, got %v", err)
	}

	list, err := f.vendors.List(ctx, f.actor, nil)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected 1 supplier, got %d, %v", len(list), err)
	}

	other := Actor{UserID: uuid.New(), RoleCode: model.RoleManager, StoreID: ptrUUID(uuid.New())}
	list, err = f.vendors.List(ctx, other, nil)
	if err != nil || len(list) != 0 {
		t.Fatalf("other store should see no suppliers, got %d, %v", len(list), err)
	}
}

func ptrUUID(id uuid.UUID) *uuid.UUID {
	return &id
}
