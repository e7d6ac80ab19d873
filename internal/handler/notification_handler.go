package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"bookclub/internal/auth"
	apperrors "bookclub/internal/errors"
	"bookclub/internal/service"
)

// NotificationHandler handles overdue email dispatch.
type NotificationHandler struct {
	svc service.NotificationService
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// SendOverdueRequest names the readers to notify.
type SendOverdueRequest struct {
	ReaderIDs []uuid.UUID `json:"readerIds"`
}

// SendOverdue godoc
// @Summary Email overdue digests to the named readers
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body SendOverdueRequest true "Reader IDs"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} map[string]interface{}
// @Security BearerAuth
// @Router /notifications/send-overdue-emails [post]
func (h *NotificationHandler) SendOverdue(c echo.Context) error {
	var req SendOverdueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	actorID, _ := auth.CurrentUserID(c)
	report, err := h.svc.SendOverdueNotices(c.Request().Context(), req.ReaderIDs, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotificationSendFailed) && report != nil {
			// Partial failure: the batch is reported as failed but the sends
			// that succeeded stay sent.
			return echo.NewHTTPError(http.StatusInternalServerError, map[string]interface{}{
				"error":      fmt.Sprintf("successfully sent %d notifications, but %d failed", report.SentCount, len(report.Failures)),
				"code":       "NOTIFICATIONS_PARTIAL_FAILURE",
				"sent_count": report.SentCount,
				"failures":   report.Failures,
			})
		}
		return domainError(err)
	}

	if report.SentCount == 0 {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "No overdue books found for the specified readers.",
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    fmt.Sprintf("Successfully sent %d overdue notifications.", report.SentCount),
		"sent_count": report.SentCount,
	})
}
