package handler

import (
	"go-retail-stock/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ProductHandler struct {
	service service.ProductService
	log     *logrus.Logger
}

func NewProductHandler(s service.ProductService, log *logrus.Logger) *ProductHandler {
	return &ProductHandler{service: s, log: log}
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.service.Create(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.service.Update(c.UserContext(), actorFrom(c), id, req)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	storeID, err := queryUUID(c, "store_id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	product, err := h.service.Get(c.UserContext(), actorFrom(c), id, storeID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	storeID, err := queryUUID(c, "store_id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	products, err := h.service.List(c.UserContext(), actorFrom(c), storeID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}

// GetLowStock lists products at or below their reorder threshold
// GET /api/v1/products/low-stock
func (h *ProductHandler) GetLowStock(c *fiber.Ctx) error {
	storeID, err := queryUUID(c, "store_id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	products, err := h.service.LowStock(c.UserContext(), actorFrom(c), storeID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}
