package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bookclub/internal/auth"
	"bookclub/internal/model"
	"bookclub/internal/service"
)

// BookHandler handles catalog endpoints.
type BookHandler struct {
	svc service.BookService
}

// NewBookHandler creates a new book handler.
func NewBookHandler(svc service.BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

// BookRequest represents a catalog create/update payload.
type BookRequest struct {
	Title           string `json:"title" validate:"required,min=2"`
	Author          string `json:"author" validate:"required,min=2"`
	ISBN            string `json:"isbn" validate:"required"`
	Genre           string `json:"genre"`
	PublicationYear int    `json:"publication_year"`
	Publisher       string `json:"publisher"`
	TotalCopies     int    `json:"total_copies" validate:"gte=0"`
}

func (r *BookRequest) toModel() *model.Book {
	return &model.Book{
		Title:           r.Title,
		Author:          r.Author,
		ISBN:            r.ISBN,
		Genre:           r.Genre,
		PublicationYear: r.PublicationYear,
		Publisher:       r.Publisher,
		TotalCopies:     r.TotalCopies,
	}
}

// Create godoc
// @Summary Add a book to the catalog
// @Tags books
// @Accept json
// @Produce json
// @Param request body BookRequest true "Book data"
// @Success 201 {object} model.Book
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /books [post]
func (h *BookHandler) Create(c echo.Context) error {
	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actorID, _ := auth.CurrentUserID(c)
	book, err := h.svc.Create(c.Request().Context(), req.toModel(), actorID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

// List godoc
// @Summary List catalog entries
// @Tags books
// @Produce json
// @Success 200 {array} model.Book
// @Security BearerAuth
// @Router /books [get]
func (h *BookHandler) List(c echo.Context) error {
	books, err := h.svc.List(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, books)
}

// Get godoc
// @Summary Get a book by id
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} model.Book
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /books/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	book, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// Update godoc
// @Summary Update a catalog entry
// @Tags books
// @Accept json
// @Produce json
// @Param id path string true "Book ID"
// @Param request body BookRequest true "Book data"
// @Success 200 {object} model.Book
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /books/{id} [put]
func (h *BookHandler) Update(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actorID, _ := auth.CurrentUserID(c)
	book, err := h.svc.Update(c.Request().Context(), id, req.toModel(), actorID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// Delete godoc
// @Summary Remove a catalog entry
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	actorID, _ := auth.CurrentUserID(c)
	if err := h.svc.Delete(c.Request().Context(), id, actorID); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Book deleted successfully!"})
}
