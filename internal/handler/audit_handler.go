package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bookclub/internal/service"
)

// AuditHandler exposes the audit trail.
type AuditHandler struct {
	svc service.AuditService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(svc service.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// List godoc
// @Summary List audit log entries, newest first
// @Tags audit
// @Produce json
// @Success 200 {array} model.AuditLog
// @Security BearerAuth
// @Router /audit-logs [get]
func (h *AuditHandler) List(c echo.Context) error {
	logs, err := h.svc.List(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, logs)
}
