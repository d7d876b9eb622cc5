package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dentaldesk/clinic-scheduler/internal/httperr"
)

// respondError maps the error taxonomy onto HTTP: domain rule violations are
// 400 with their code and message, a missing row is 404, anything else is
// logged with context and surfaced as an opaque 500.
func respondError(c *gin.Context, log *zap.Logger, err error, action string) {
	if be, ok := httperr.AsBusiness(err); ok {
		httperr.BadRequest(c, be.Code, be.Message)
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "not_found", "resource not found")
		return
	}

	log.Error("request failed",
		zap.String("action", action),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	httperr.Internal(c, "internal_error", "unexpected error")
}
