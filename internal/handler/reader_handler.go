package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bookclub/internal/auth"
	"bookclub/internal/model"
	"bookclub/internal/service"
)

// ReaderHandler handles reader directory endpoints.
type ReaderHandler struct {
	svc service.ReaderService
}

// NewReaderHandler creates a new reader handler.
func NewReaderHandler(svc service.ReaderService) *ReaderHandler {
	return &ReaderHandler{svc: svc}
}

// ReaderRequest represents a reader create/update payload.
type ReaderRequest struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (r *ReaderRequest) toModel() *model.Reader {
	return &model.Reader{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
	}
}

// Create godoc
// @Summary Register a reader
// @Tags readers
// @Accept json
// @Produce json
// @Param request body ReaderRequest true "Reader data"
// @Success 201 {object} model.Reader
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /readers [post]
func (h *ReaderHandler) Create(c echo.Context) error {
	var req ReaderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actorID, _ := auth.CurrentUserID(c)
	reader, err := h.svc.Create(c.Request().Context(), req.toModel(), actorID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, reader)
}

// List godoc
// @Summary List readers
// @Tags readers
// @Produce json
// @Success 200 {array} model.Reader
// @Security BearerAuth
// @Router /readers [get]
func (h *ReaderHandler) List(c echo.Context) error {
	readers, err := h.svc.List(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, readers)
}

// Get godoc
// @Summary Get a reader by id
// @Tags readers
// @Produce json
// @Param id path string true "Reader ID"
// @Success 200 {object} model.Reader
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /readers/{id} [get]
func (h *ReaderHandler) Get(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	reader, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, reader)
}

// Update godoc
// @Summary Update a reader
// @Tags readers
// @Accept json
// @Produce json
// @Param id path string true "Reader ID"
// @Param request body ReaderRequest true "Reader data"
// @Success 200 {object} model.Reader
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /readers/{id} [put]
func (h *ReaderHandler) Update(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req ReaderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actorID, _ := auth.CurrentUserID(c)
	reader, err := h.svc.Update(c.Request().Context(), id, req.toModel(), actorID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, reader)
}

// Delete godoc
// @Summary Remove a reader
// @Tags readers
// @Produce json
// @Param id path string true "Reader ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /readers/{id} [delete]
func (h *ReaderHandler) Delete(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	actorID, _ := auth.CurrentUserID(c)
	if err := h.svc.Delete(c.Request().Context(), id, actorID); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Reader deleted successfully!"})
}
