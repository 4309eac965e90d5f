package handler

import (
	"go-retail-stock/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ReportHandler struct {
	service service.ReportService
	log     *logrus.Logger
}

func NewReportHandler(s service.ReportService, log *logrus.Logger) *ReportHandler {
	return &ReportHandler{service: s, log: log}
}

// GetStockValue returns the inbound stock value report
// GET /api/v1/reports/stock-value?start_date&end_date&store_id&top
func (h *ReportHandler) GetStockValue(c *fiber.Ctx) error {
	start, end, err := dateRange(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	storeID, err := queryUUID(c, "store_id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	top := c.QueryInt("top", 0)
	if top < 0 {
		return badRequest(c, "top must not be negative")
	}

	report, err := h.service.StockValue(c.UserContext(), actorFrom(c), service.StockValueFilter{
		Start:   start,
		End:     end,
		StoreID: storeID,
		Top:     top,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(report)
}
