package service

import (
	"testing"

	"go-retail-stock/internal/apperr"
	"go-retail-stock/internal/model"
	"go-retail-stock/internal/repository"
	"go-retail-stock/internal/testutil"
	"go-retail-stock/pkg/config"
	"go-retail-stock/pkg/database"
	"go-retail-stock/pkg/jwt"
)

func TestLoginAndSingleSession(t *testing.T) {
	db := testutil.NewDB(t)
	log := testutil.Logger()
	seed := config.SeedConfig{AdminEmail: "admin@example.com", AdminPassword: "admin123"}
	if err := database.Seed(db, seed, log); err != nil {
		t.Fatalf("seed: %v", err)
	}

	userRepo := repository.NewUserRepo(db)
	auth := NewAuthService(userRepo, jwt.NewManager("test-secret", 1), log)

	if _, err := auth.Login(seed.AdminEmail, "wrong-password"); !apperr.Is(err, apperr.KindAuth) {
		t.Fatalf("expected auth error for bad password, got %v", err)
	}

	first, err := auth.Login(seed.AdminEmail, seed.AdminPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if first.Role == nil || first.Role.Code != model.RoleSuperAdmin {
		t.Fatalf("admin should be super admin, got %+v", first.Role)
	}
	if len(first.Privileges) != len(model.DefaultPrivileges) {
		t.Fatalf("super admin should hold every privilege, got %d", len(first.Privileges))
	}
	if first.User.StoreID == nil {
		t.Fatalf("seeded admin should belong to the main store")
	}

	if _, err := auth.ValidateToken(first.Token); err != nil {
		t.Fatalf("fresh token should validate: %v", err)
	}

	second, err := auth.Login(seed.AdminEmail, seed.AdminPassword)
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if _, err := auth.ValidateToken(first.Token); !apperr.Is(err, apperr.KindAuth) {
		t.Fatalf("older session should be replaced, got %v", err)
	}
	if _, err := auth.ValidateToken(second.Token); err != nil {
		t.Fatalf("latest token should validate: %v", err)
	}

	if err := auth.ResetPassword(seed.AdminEmail, seed.AdminPassword, "n3w-secret"); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if _, err := auth.ValidateToken(second.Token); !apperr.Is(err, apperr.KindAuth) {
		t.Fatalf("password reset should end open sessions, got %v", err)
	}
	if _, err := auth.Login(seed.AdminEmail, "n3w-secret"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestCreateUserIsPinnedToStore(t *testing.T) {
	db := testutil.NewDB(t)
	log := testutil.Logger()
	if err := database.Seed(db, config.SeedConfig{AdminEmail: "admin@example.com", AdminPassword: "admin123"}, log); err != nil {
		t.Fatalf("seed: %v", err)
	}

	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	users := NewUserService(userRepo, roleRepo, repository.NewStoreRepo(db))

	admin, err := userRepo.FindByEmail("admin@example.com")
	if err != nil {
		t.Fatalf("find admin: %v", err)
	}
	cashierRole, err := roleRepo.FindByCode(model.RoleCashier)
	if err != nil {
		t.Fatalf("find role: %v", err)
	}
	superRole, err := roleRepo.FindByCode(model.RoleSuperAdmin)
	if err != nil {
		t.Fatalf("find role: %v", err)
	}

	manager := Actor{UserID: admin.ID, RoleCode: model.RoleManager, StoreID: admin.StoreID}
	created, err := users.CreateUser(manager, &CreateUserRequest{
		Email:    "cashier@example.com",
		Password: "secret1",
		FullName: "Cashier",
		RoleID:   cashierRole.ID,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.StoreID == nil || *created.StoreID != *admin.StoreID {
		t.Fatalf("user should inherit the creator's store, got %v", created.StoreID)
	}
	if len(created.Privileges) != len(model.DefaultRolePrivileges[model.RoleCashier]) {
		t.Fatalf("cashier should get role privileges, got %d", len(created.Privileges))
	}

	_, err = users.CreateUser(manager, &CreateUserRequest{Email: "cashier@example.com", Password: "secret1", FullName: "Dup", RoleID: cashierRole.ID})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("duplicate email should fail, got %v", err)
	}

	_, err = users.CreateUser(manager, &CreateUserRequest{Email: "boss@example.com", Password: "secret1", FullName: "Boss", RoleID: superRole.ID})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("manager must not create super admins, got %v", err)
	}

	list, err := users.GetAllUsers(manager, nil)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected admin and cashier in store, got %d", len(list))
	}
}
