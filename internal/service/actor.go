package service

import (
	"go-retail-stock/internal/apperr"
	"go-retail-stock/internal/model"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID   uuid.UUID
	Name     string
	Email    string
	RoleCode string
	StoreID  *uuid.UUID
}

func (a Actor) IsSuperAdmin() bool {
	return a.RoleCode == model.RoleSuperAdmin
}

func (a Actor) auditID() string {
	return a.UserID.String()
}

func (a Actor) eventUser() map[string]interface{} {
	return map[string]interface{}{
		"id":    a.UserID,
		"name":  a.Name,
		"email": a.Email,
	}
}

// ResolveStore returns the store an operation runs against. Super admins may
// target any store; everyone else is pinned to the store they belong to.
func ResolveStore(a Actor, requested *uuid.UUID) (uuid.UUID, error) {
	if a.UserID == uuid.Nil {
		return uuid.Nil, apperr.Auth("authentication required")
	}

	if a.IsSuperAdmin() {
		if requested != nil && *requested != uuid.Nil {
			return *requested, nil
		}
		if a.StoreID != nil && *a.StoreID != uuid.Nil {
			return *a.StoreID, nil
		}
		return uuid.Nil, apperr.Validation("store_id is required")
	}

	if a.StoreID == nil || *a.StoreID == uuid.Nil {
		return uuid.Nil, apperr.Validation("no store is assigned to this user")
	}
	return *a.StoreID, nil
}
