package handler

import (
	"time"

	"go-retail-stock/internal/apperr"
	"go-retail-stock/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

func localString(c *fiber.Ctx, key string) string {
	if v, ok := c.Locals(key).(string); ok {
		return v
	}
	return ""
}

// actorFrom builds the caller from the values RequireAuth stored in context.
func actorFrom(c *fiber.Ctx) service.Actor {
	actor := service.Actor{
		Name:     localString(c, "user_name"),
		Email:    localString(c, "user_email"),
		RoleCode: localString(c, "role_code"),
	}
	if id, err := uuid.Parse(localString(c, "user_id")); err == nil {
		actor.UserID = id
	}
	if id, err := uuid.Parse(localString(c, "store_id")); err == nil {
		actor.StoreID = &id
	}
	return actor
}

// respondError renders err as {"error": msg}. Unexpected errors are logged
// with their cause.
func respondError(c *fiber.Ctx, log *logrus.Logger, err error) error {
	status := apperr.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError && log != nil {
		log.WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).WithError(err).Error("request failed")
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid %s", name)
	}
	return id, nil
}

// queryUUID returns nil when the query parameter is absent.
func queryUUID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Validation("invalid %s", name)
	}
	return &id, nil
}

// dateRange parses start_date and end_date (YYYY-MM-DD). The end date is
// inclusive up to the last instant of that day.
func dateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, nil, apperr.Validation("invalid start_date format, use YYYY-MM-DD")
		}
		start = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, nil, apperr.Validation("invalid end_date format, use YYYY-MM-DD")
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		end = &t
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, apperr.Validation("end_date must not be before start_date")
	}
	return start, end, nil
}
