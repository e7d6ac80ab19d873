package router

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"bookclub/internal/auth"
	"bookclub/internal/config"
	"bookclub/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	tokens *auth.TokenService,
	authHandler *handler.AuthHandler,
	bookHandler *handler.BookHandler,
	readerHandler *handler.ReaderHandler,
	lendingHandler *handler.LendingHandler,
	notificationHandler *handler.NotificationHandler,
	auditHandler *handler.AuditHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.ClientOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh-token", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/reset-password/:token", authHandler.ResetPassword)

	// Secured routes behind the authentication gate
	secured := api.Group("", Gate(tokens))

	secured.GET("/auth/users", authHandler.ListUsers)
	secured.GET("/auth/me", authHandler.Me)
	secured.PUT("/auth/me", authHandler.UpdateMe)
	secured.PUT("/auth/change-password", authHandler.ChangePassword)

	secured.POST("/books", bookHandler.Create)
	secured.GET("/books", bookHandler.List)
	secured.GET("/books/:id", bookHandler.Get)
	secured.PUT("/books/:id", bookHandler.Update)
	secured.DELETE("/books/:id", bookHandler.Delete)

	secured.POST("/readers", readerHandler.Create)
	secured.GET("/readers", readerHandler.List)
	secured.GET("/readers/:id", readerHandler.Get)
	secured.PUT("/readers/:id", readerHandler.Update)
	secured.DELETE("/readers/:id", readerHandler.Delete)

	secured.POST("/lending", lendingHandler.Lend)
	secured.GET("/lending", lendingHandler.List)
	secured.GET("/lending/overdue", lendingHandler.Overdue)
	secured.GET("/lending/book/:bookId", lendingHandler.HistoryByBook)
	secured.GET("/lending/reader/:readerId", lendingHandler.HistoryByReader)
	secured.PUT("/lending/:id/return", lendingHandler.Return)

	secured.POST("/notifications/send-overdue-emails", notificationHandler.SendOverdue)

	secured.GET("/audit-logs", auditHandler.List)
}

// Gate builds the authentication middleware: it extracts the bearer token,
// verifies it against the access secret, and attaches the user ID to the
// context. All failures are 403 Forbidden with a cause-specific message.
func Gate(tokens *auth.TokenService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: auth.ContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			userID, err := tokens.VerifyAccessToken(token)
			if err != nil {
				return nil, err
			}
			return userID, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				return echo.NewHTTPError(http.StatusForbidden, "access token expired")
			case errors.Is(err, auth.ErrTokenInvalid):
				return echo.NewHTTPError(http.StatusForbidden, "invalid access token")
			default:
				if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
					return echo.NewHTTPError(http.StatusForbidden, "access token not found")
				}
				return echo.NewHTTPError(http.StatusForbidden, "error verifying access token")
			}
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
