package handler

import (
	"go-retail-stock/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type StockHandler struct {
	service service.StockService
	log     *logrus.Logger
}

func NewStockHandler(s service.StockService, log *logrus.Logger) *StockHandler {
	return &StockHandler{service: s, log: log}
}

// Receive books one product line into stock
// POST /api/v1/stock/receive
func (h *StockHandler) Receive(c *fiber.Ctx) error {
	var req service.ReceiveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	result, err := h.service.Receive(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"message": "Stock received successfully",
		"product": fiber.Map{
			"id":           result.ProductID,
			"name":         result.Name,
			"new_quantity": result.NewQuantity,
			"prices":       result.Prices,
		},
		"quantity_added": result.QuantityAdded,
		"log_id":         result.LogID,
	})
}

// ReceiveBulk books several lines in one transaction
// POST /api/v1/stock/receive-bulk
func (h *StockHandler) ReceiveBulk(c *fiber.Ctx) error {
	var req service.BulkReceiveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	result, err := h.service.ReceiveBulk(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"message": "Bulk stock received successfully",
		"count":   result.Count,
		"items":   result.Items,
	})
}

// Issue takes stock out for a sale
// POST /api/v1/stock/issue
func (h *StockHandler) Issue(c *fiber.Ctx) error {
	var req service.IssueRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	result, err := h.service.Issue(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{"message": "Stock issued successfully", "data": result})
}

// GetLogs lists stock log entries, newest first
// GET /api/v1/stock/logs?product_id&start_date&end_date&store_id
func (h *StockHandler) GetLogs(c *fiber.Ctx) error {
	productID, err := queryUUID(c, "product_id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	storeID, err := queryUUID(c, "store_id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	start, end, err := dateRange(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	logs, err := h.service.Logs(c.UserContext(), actorFrom(c), service.LogQuery{
		ProductID: productID,
		Start:     start,
		End:       end,
		StoreID:   storeID,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(logs)
}
