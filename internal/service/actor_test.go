package service

import (
	"testing"

	"go-retail-stock/internal/apperr"
	"go-retail-stock/internal/model"

	"github.com/google/uuid"
)

func TestResolveStore(t *testing.T) {
	own := uuid.New()
	other := uuid.New()

	cases := []struct {
		name      string
		actor     Actor
		requested *uuid.UUID
		want      uuid.UUID
		kind      apperr.Kind
		fails     bool
	}{
		{"super admin picks any store", Actor{UserID: uuid.New(), RoleCode: model.RoleSuperAdmin}, &other, other, 0, false},
		{"super admin falls back to own store", Actor{UserID: uuid.New(), RoleCode: model.RoleSuperAdmin, StoreID: &own}, nil, own, 0, false},
		{"super admin without any store", Actor{UserID: uuid.New(), RoleCode: model.RoleSuperAdmin}, nil, uuid.Nil, apperr.KindValidation, true},
		{"manager is pinned to own store", Actor{UserID: uuid.New(), RoleCode: model.RoleManager, StoreID: &own}, &other, own, 0, false},
		{"cashier without store", Actor{UserID: uuid.New(), RoleCode: model.RoleCashier}, &other, uuid.Nil, apperr.KindValidation, true},
		{"anonymous", Actor{}, &other, uuid.Nil, apperr.KindAuth, true},
	}

	for _, tc := range cases {
		got, err := ResolveStore(tc.actor, tc.requested)
		if tc.fails {
			if !apperr.Is(err, tc.kind) {
				t.Fatalf("%s: expected %s error, got %v", tc.name, tc.kind, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}
