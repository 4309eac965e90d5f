package handler

import (
	"go-retail-stock/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type PurchaseOrderHandler struct {
	service service.PurchaseOrderService
	log     *logrus.Logger
}

func NewPurchaseOrderHandler(s service.PurchaseOrderService, log *logrus.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{service: s, log: log}
}

// CreatePurchaseOrder opens a pending order
// POST /api/v1/purchase-orders
func (h *PurchaseOrderHandler) CreatePurchaseOrder(c *fiber.Ctx) error {
	var req service.CreatePurchaseOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	po, err := h.service.Create(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Purchase order created", "data": po})
}

// GetPurchaseOrders lists orders, optionally by status
// GET /api/v1/purchase-orders?status&store_id
func (h *PurchaseOrderHandler) GetPurchaseOrders(c *fiber.Ctx) error {
	storeID, err := queryUUID(c, "store_id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	orders, err := h.service.List(c.UserContext(), actorFrom(c), storeID, c.Query("status"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(orders)
}

func (h *PurchaseOrderHandler) GetPurchaseOrder(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	storeID, err := queryUUID(c, "store_id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	po, err := h.service.Get(c.UserContext(), actorFrom(c), id, storeID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": po, "next_statuses": po.Status.NextStatuses()})
}

// UpdateStatus approves, receives or cancels an order
// PUT /api/v1/purchase-orders/:id/status
func (h *PurchaseOrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req service.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	po, err := h.service.UpdateStatus(c.UserContext(), actorFrom(c), id, req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Purchase order " + string(po.Status), "data": po})
}

// UpdateItem edits one line of an open order
// PUT /api/v1/purchase-orders/:id/items/:itemId
func (h *PurchaseOrderHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	itemID, err := paramUUID(c, "itemId")
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req service.UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	po, err := h.service.UpdateItem(c.UserContext(), actorFrom(c), id, itemID, req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Purchase order item updated", "data": po})
}
