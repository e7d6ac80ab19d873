package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "bookclub/internal/errors"
)

// domainError converts a domain error into the uniform JSON error envelope.
func domainError(err error) *echo.HTTPError {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// pathUUID parses a UUID path parameter.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}
