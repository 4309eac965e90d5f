package handler

import (
	"go-retail-stock/internal/middleware"
	"go-retail-stock/internal/model"
	"go-retail-stock/internal/repository"
	"go-retail-stock/internal/ws"
	"go-retail-stock/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything Register mounts.
type Handlers struct {
	Auth          *AuthHandler
	Stock         *StockHandler
	Report        *ReportHandler
	Product       *ProductHandler
	Supplier      *SupplierHandler
	Store         *StoreHandler
	PurchaseOrder *PurchaseOrderHandler
	User          *UserHandler
	Role          *RoleHandler
}

// Register mounts the /api/v1 routes and, when hub is set, the /ws stream.
func Register(app *fiber.App, h Handlers, tokens *jwt.Manager, userRepo repository.UserRepository, hub *ws.Hub) {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Post("/reset-password", h.Auth.ResetPassword)
	auth.Post("/validate-token", h.Auth.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(tokens, userRepo))

	// Stock
	protected.Post("/stock/receive", middleware.RequirePrivilege(model.PrivStockReceive), h.Stock.Receive)
	protected.Post("/stock/receive-bulk", middleware.RequirePrivilege(model.PrivStockReceive), h.Stock.ReceiveBulk)
	protected.Post("/stock/issue", middleware.RequirePrivilege(model.PrivStockIssue), h.Stock.Issue)
	protected.Get("/stock/logs", middleware.RequirePrivilege(model.PrivStockView), h.Stock.GetLogs)

	// Reports
	protected.Get("/reports/stock-value", middleware.RequirePrivilege(model.PrivReportView), h.Report.GetStockValue)

	// Products
	protected.Get("/products", middleware.RequirePrivilege(model.PrivProductView), h.Product.GetProducts)
	protected.Get("/products/low-stock", middleware.RequirePrivilege(model.PrivProductView), h.Product.GetLowStock)
	protected.Get("/products/:id", middleware.RequirePrivilege(model.PrivProductView), h.Product.GetProduct)
	protected.Post("/products", middleware.RequirePrivilege(model.PrivProductCreate), h.Product.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege(model.PrivProductUpdate), h.Product.UpdateProduct)

	// Suppliers and stores
	protected.Get("/suppliers", middleware.RequirePrivilege(model.PrivSupplierView), h.Supplier.GetSuppliers)
	protected.Post("/suppliers", middleware.RequirePrivilege(model.PrivSupplierCreate), h.Supplier.CreateSupplier)
	protected.Get("/stores", h.Store.GetStores)
	protected.Post("/stores", middleware.RequirePrivilege(model.PrivStoreManage), h.Store.CreateStore)

	// Purchase orders
	protected.Get("/purchase-orders", middleware.RequirePrivilege(model.PrivPurchaseOrderView), h.PurchaseOrder.GetPurchaseOrders)
	protected.Get("/purchase-orders/:id", middleware.RequirePrivilege(model.PrivPurchaseOrderView), h.PurchaseOrder.GetPurchaseOrder)
	protected.Post("/purchase-orders", middleware.RequirePrivilege(model.PrivPurchaseOrderCreate), h.PurchaseOrder.CreatePurchaseOrder)
	protected.Put("/purchase-orders/:id/status",
		middleware.RequireAnyPrivilege(model.PrivPurchaseOrderApprove, model.PrivPurchaseOrderUpdate), h.PurchaseOrder.UpdateStatus)
	protected.Put("/purchase-orders/:id/items/:itemId", middleware.RequirePrivilege(model.PrivPurchaseOrderUpdate), h.PurchaseOrder.UpdateItem)

	// Users, roles, privileges
	protected.Get("/users", middleware.RequirePrivilege(model.PrivUserView), h.User.GetUsers)
	protected.Get("/users/:id", middleware.RequirePrivilege(model.PrivUserView), h.User.GetUser)
	protected.Post("/users", middleware.RequirePrivilege(model.PrivUserCreate), h.User.CreateUser)
	protected.Get("/roles", h.Role.GetRoles)
	protected.Get("/privileges", h.Role.GetPrivileges)

	if hub == nil {
		return
	}

	// WebSocket Route. Browsers cannot set headers on the upgrade, so the
	// token may also come as ?token=.
	app.Use("/ws",
		middleware.TokenFromQuery("token"),
		middleware.RequireAuth(tokens, userRepo),
		func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return c.SendStatus(fiber.StatusUpgradeRequired)
		},
	)
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		client := socketClient(c)
		hub.Register <- client
		defer func() { hub.Unregister <- client }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}

// socketClient scopes a connection to the caller's store. Super admins
// follow every store.
func socketClient(c *websocket.Conn) *ws.Client {
	storeID, _ := c.Locals("store_id").(string)
	roleCode, _ := c.Locals("role_code").(string)
	return &ws.Client{
		Conn:      c,
		StoreID:   storeID,
		AllStores: roleCode == model.RoleSuperAdmin,
	}
}
