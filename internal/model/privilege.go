package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "stock:receive"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

const (
	PrivUserView             = "user:view"
	PrivUserCreate           = "user:create"
	PrivStoreManage          = "store:manage"
	PrivProductView          = "product:view"
	PrivProductCreate        = "product:create"
	PrivProductUpdate        = "product:update"
	PrivSupplierView         = "supplier:view"
	PrivSupplierCreate       = "supplier:create"
	PrivStockView            = "stock:view"
	PrivStockReceive         = "stock:receive"
	PrivStockIssue           = "stock:issue"
	PrivPurchaseOrderView    = "purchase_order:view"
	PrivPurchaseOrderCreate  = "purchase_order:create"
	PrivPurchaseOrderUpdate  = "purchase_order:update"
	PrivPurchaseOrderApprove = "purchase_order:approve"
	PrivReportView           = "report:view"
)

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	{Code: PrivUserView, Name: "View User"},
	{Code: PrivUserCreate, Name: "Create User"},
	{Code: PrivStoreManage, Name: "Manage Stores"},
	{Code: PrivProductView, Name: "View Product"},
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivProductUpdate, Name: "Update Product"},
	{Code: PrivSupplierView, Name: "View Supplier"},
	{Code: PrivSupplierCreate, Name: "Create Supplier"},
	{Code: PrivStockView, Name: "View Stock Logs"},
	{Code: PrivStockReceive, Name: "Receive Stock"},
	{Code: PrivStockIssue, Name: "Issue Stock"},
	{Code: PrivPurchaseOrderView, Name: "View Purchase Order"},
	{Code: PrivPurchaseOrderCreate, Name: "Create Purchase Order"},
	{Code: PrivPurchaseOrderUpdate, Name: "Update Purchase Order"},
	{Code: PrivPurchaseOrderApprove, Name: "Approve Purchase Order"},
	{Code: PrivReportView, Name: "View Reports"},
}
