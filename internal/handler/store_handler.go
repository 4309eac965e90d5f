package handler

import (
	"go-retail-stock/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type StoreHandler struct {
	stores service.StoreService
	log    *logrus.Logger
}

func NewStoreHandler(stores service.StoreService, log *logrus.Logger) *StoreHandler {
	return &StoreHandler{stores: stores, log: log}
}

// CreateStore registers a new tenant store
// POST /api/v1/stores
func (h *StoreHandler) CreateStore(c *fiber.Ctx) error {
	var req service.StoreRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	store, err := h.stores.Create(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Store created", "data": store})
}

func (h *StoreHandler) GetStores(c *fiber.Ctx) error {
	stores, err := h.stores.List(c.UserContext(), actorFrom(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(stores)
}
