package auth

import "github.com/labstack/echo/v4"

// ContextKey is where the authentication gate stores the verified user ID on
// the echo context.
const ContextKey = "userID"

// CurrentUserID returns the user ID attached by the authentication gate.
func CurrentUserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(ContextKey).(uint)
	return id, ok
}
