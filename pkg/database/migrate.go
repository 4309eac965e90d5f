package database

import (
	"errors"

	"go-retail-stock/internal/model"
	"go-retail-stock/internal/repository"
	"go-retail-stock/pkg/config"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Store{},
		&model.Supplier{},
		&model.Product{},
		&model.StockLog{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
		&model.Privilege{},
		&model.Role{},
		&model.User{},
	)
}

// DefaultStoreCode is the store created on first start so the seeded admin
// has somewhere to work.
const DefaultStoreCode = "MAIN"

// Seed creates default privileges, roles, the main store and the admin user
// if they don't exist.
func Seed(db *gorm.DB, cfg config.SeedConfig, log *logrus.Logger) error {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	// 1. Privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		return err
	}

	// 2. Roles
	if err := roleRepo.SeedDefaults(); err != nil {
		return err
	}

	// 3. Role privileges, only for roles that have none yet
	allPrivileges, err := privilegeRepo.FindAll()
	if err != nil {
		return err
	}
	for _, code := range []string{model.RoleSuperAdmin, model.RoleAdmin, model.RoleManager, model.RoleCashier} {
		role, err := roleRepo.FindByCode(code)
		if err != nil {
			return err
		}
		if len(role.Privileges) > 0 {
			continue
		}

		granted := allPrivileges
		if code != model.RoleSuperAdmin {
			granted, err = privilegeRepo.FindByCodes(model.DefaultRolePrivileges[code])
			if err != nil {
				return err
			}
		}
		if err := roleRepo.AssignPrivileges(role, granted); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"role": code, "privileges": len(granted)}).Info("role privileges assigned")
	}

	// 4. Main store
	var store model.Store
	err = db.Where("code = ?", DefaultStoreCode).First(&store).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		store = model.Store{Code: DefaultStoreCode, Name: "Main Store"}
		store.CreatedBy = "system"
		store.UpdatedBy = "system"
		if err := db.Create(&store).Error; err != nil {
			return err
		}
		log.WithField("store", store.Code).Info("default store created")
	} else if err != nil {
		return err
	}

	// 5. Admin user with SUPER_ADMIN role
	if _, err := userRepo.FindByEmail(cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	superAdmin, err := roleRepo.FindByCode(model.RoleSuperAdmin)
	if err != nil {
		return err
	}
	admin := &model.User{
		Email:      cfg.AdminEmail,
		FullName:   "Super Administrator",
		RoleID:     &superAdmin.ID,
		StoreID:    &store.ID,
		IsActive:   true,
		Privileges: superAdmin.Privileges,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		return err
	}
	if err := userRepo.Create(admin); err != nil {
		return err
	}

	log.WithField("email", admin.Email).Info("admin user created")
	return nil
}
