package service

import (
	"context"
	"errors"

	"go-retail-stock/internal/apperr"
	"go-retail-stock/internal/ws"
	"go-retail-stock/pkg/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Notifier receives events after a change has been committed.
type Notifier interface {
	Publish(event ws.Event)
}

// ReportCache holds computed reports. Keys are grouped per store so one
// stock change drops every cached report of that store.
type ReportCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, group, key string, value interface{}) error
	Invalidate(ctx context.Context, group string) error
}

func publish(n Notifier, event ws.Event) {
	if n != nil {
		n.Publish(event)
	}
}

func validate(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return apperr.Validation("%s", validator.Message(errs))
	}
	return nil
}

// classify keeps typed errors and turns anything else into an unexpected
// error carrying msg.
func classify(err error, msg string) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Unexpected(err, msg+": "+err.Error())
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(format, args...)
	}
	return err
}

func logWarn(log *logrus.Logger, module, funcName string, err error) {
	if log == nil || err == nil {
		return
	}
	log.WithFields(logrus.Fields{"module": module, "funcName": funcName}).Warn(err.Error())
}
