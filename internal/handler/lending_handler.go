package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"bookclub/internal/auth"
	"bookclub/internal/service"
)

// LendingHandler handles lending ledger endpoints.
type LendingHandler struct {
	svc service.LendingService
}

// NewLendingHandler creates a new lending handler.
func NewLendingHandler(svc service.LendingService) *LendingHandler {
	return &LendingHandler{svc: svc}
}

// LendRequest represents a lend request.
type LendRequest struct {
	BookID   uuid.UUID `json:"bookId" validate:"required"`
	ReaderID uuid.UUID `json:"readerId" validate:"required"`
}

// ReturnRequest represents a return request. Both fields are optional: the
// return date defaults to now and the fine to whatever the record carries.
type ReturnRequest struct {
	ReturnDate *time.Time       `json:"returnDate"`
	FineAmount *decimal.Decimal `json:"fineAmount"`
}

// Lend godoc
// @Summary Lend a book to a reader
// @Tags lending
// @Accept json
// @Produce json
// @Param request body LendRequest true "Book and reader"
// @Success 201 {object} model.LendingTransaction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /lending [post]
func (h *LendingHandler) Lend(c echo.Context) error {
	var req LendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actorID, _ := auth.CurrentUserID(c)
	tx, err := h.svc.Lend(c.Request().Context(), req.BookID, req.ReaderID, actorID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, tx)
}

// Return godoc
// @Summary Return a lent book
// @Tags lending
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body ReturnRequest false "Return details"
// @Success 200 {object} model.LendingTransaction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /lending/{id}/return [put]
func (h *LendingHandler) Return(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req ReturnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	actorID, _ := auth.CurrentUserID(c)
	tx, err := h.svc.Return(c.Request().Context(), id, req.ReturnDate, req.FineAmount, actorID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, tx)
}

// List godoc
// @Summary List lending transactions, most recent first
// @Tags lending
// @Produce json
// @Success 200 {array} model.LendingTransaction
// @Security BearerAuth
// @Router /lending [get]
func (h *LendingHandler) List(c echo.Context) error {
	txs, err := h.svc.List(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, txs)
}

// Overdue godoc
// @Summary List overdue transactions, oldest due date first
// @Tags lending
// @Produce json
// @Success 200 {array} model.OverdueTransaction
// @Security BearerAuth
// @Router /lending/overdue [get]
func (h *LendingHandler) Overdue(c echo.Context) error {
	txs, err := h.svc.Overdue(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, txs)
}

// HistoryByBook godoc
// @Summary List lending history for a book
// @Tags lending
// @Produce json
// @Param bookId path string true "Book ID"
// @Success 200 {array} model.LendingTransaction
// @Security BearerAuth
// @Router /lending/book/{bookId} [get]
func (h *LendingHandler) HistoryByBook(c echo.Context) error {
	bookID, err := pathUUID(c, "bookId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}
	txs, err := h.svc.ListByBook(c.Request().Context(), bookID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, txs)
}

// HistoryByReader godoc
// @Summary List lending history for a reader
// @Tags lending
// @Produce json
// @Param readerId path string true "Reader ID"
// @Success 200 {array} model.LendingTransaction
// @Security BearerAuth
// @Router /lending/reader/{readerId} [get]
func (h *LendingHandler) HistoryByReader(c echo.Context) error {
	readerID, err := pathUUID(c, "readerId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reader id")
	}
	txs, err := h.svc.ListByReader(c.Request().Context(), readerID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, txs)
}
