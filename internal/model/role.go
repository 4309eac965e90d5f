package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleAdmin      = "ADMIN"
	RoleManager    = "MANAGER"
	RoleCashier    = "CASHIER"
)

var DefaultRoles = []Role{
	{
		Code:        RoleSuperAdmin,
		Name:        "Super Administrator",
		Description: "Access to every store and privilege",
	},
	{
		Code:        RoleAdmin,
		Name:        "Store Administrator",
		Description: "Full access within the assigned store",
	},
	{
		Code:        RoleManager,
		Name:        "Store Manager",
		Description: "Stock, purchase orders and reports within the assigned store",
	},
	{
		Code:        RoleCashier,
		Name:        "Cashier",
		Description: "Sales and product lookup within the assigned store",
	},
}

// DefaultRolePrivileges lists the privilege codes seeded for each role.
// SUPER_ADMIN is granted every privilege.
var DefaultRolePrivileges = map[string][]string{
	RoleAdmin: {
		PrivUserView, PrivUserCreate,
		PrivProductView, PrivProductCreate, PrivProductUpdate,
		PrivSupplierView, PrivSupplierCreate,
		PrivStockView, PrivStockReceive, PrivStockIssue,
		PrivPurchaseOrderView, PrivPurchaseOrderCreate, PrivPurchaseOrderUpdate, PrivPurchaseOrderApprove,
		PrivReportView,
	},
	RoleManager: {
		PrivProductView, PrivProductCreate, PrivProductUpdate,
		PrivSupplierView, PrivSupplierCreate,
		PrivStockView, PrivStockReceive, PrivStockIssue,
		PrivPurchaseOrderView, PrivPurchaseOrderCreate, PrivPurchaseOrderUpdate, PrivPurchaseOrderApprove,
		PrivReportView,
	},
	RoleCashier: {
		PrivProductView, PrivStockView, PrivStockIssue,
	},
}
