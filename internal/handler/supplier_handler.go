package handler

import (
	"go-retail-stock/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type SupplierHandler struct {
	suppliers service.SupplierService
	log       *logrus.Logger
}

func NewSupplierHandler(suppliers service.SupplierService, log *logrus.Logger) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers, log: log}
}

func (h *SupplierHandler) CreateSupplier(c *fiber.Ctx) error {
	var req service.SupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	supplier, err := h.suppliers.Create(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Supplier created", "data": supplier})
}

func (h *SupplierHandler) GetSuppliers(c *fiber.Ctx) error {
	storeID, err := queryUUID(c, "store_id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	suppliers, err := h.suppliers.List(c.UserContext(), actorFrom(c), storeID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(suppliers)
}
