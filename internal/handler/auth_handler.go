package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"bookclub/internal/auth"
	apperrors "bookclub/internal/errors"
	"bookclub/internal/service"
)

const (
	refreshCookieName = "refreshToken"
	refreshCookiePath = "/api/auth/refresh-token"
)

// AuthHandler handles authentication and account endpoints.
type AuthHandler struct {
	svc           service.AuthService
	refreshTTL    time.Duration
	secureCookies bool
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(svc service.AuthService, refreshTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{svc: svc, refreshTTL: refreshTTL, secureCookies: secureCookies}
}

// SignupRequest represents a librarian registration request.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents a login request. Librarians log in by name.
type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest represents a profile update request.
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}

// ChangePasswordRequest represents a password rotation request.
type ChangePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword" validate:"required"`
	NewPassword        string `json:"newPassword" validate:"required,min=6"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,eqfield=NewPassword"`
}

// ForgotPasswordRequest represents a reset-link request.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents a reset-token consumption request.
type ResetPasswordRequest struct {
	NewPassword        string `json:"newPassword" validate:"required,min=6"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,eqfield=NewPassword"`
}

// forgotPasswordReply is intentionally identical for known and unknown
// emails so account existence never leaks.
const forgotPasswordReply = "If an account with that email exists, a password reset link has been sent."

// Signup godoc
// @Summary Create a librarian account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.svc.Signup(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"user":    user,
		"message": "Librarian account created successfully.",
	})
}

// Login godoc
// @Summary Login and receive an access token plus refresh cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	accessToken, refreshToken, user, err := h.svc.Login(c.Request().Context(), req.Name, req.Password)
	if err != nil {
		return domainError(err)
	}

	c.SetCookie(h.refreshCookie(refreshToken, h.refreshTTL))

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":    user,
		"token":   accessToken,
		"message": "Logged in successfully.",
	})
}

// Refresh godoc
// @Summary Rotate the access token using the refresh cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/refresh-token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	accessToken, err := h.svc.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token expired, please log in again")
		case errors.Is(err, auth.ErrTokenInvalid):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
		case errors.Is(err, auth.ErrTokenPayload):
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token payload error")
		case errors.Is(err, apperrors.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
		default:
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token verification error")
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"accessToken": accessToken,
		"message":     "Access token refreshed.",
	})
}

// Logout godoc
// @Summary Clear the refresh cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	expired := h.refreshCookie("", -time.Hour)
	expired.Expires = time.Unix(0, 0)
	c.SetCookie(expired)

	userID, _ := auth.CurrentUserID(c)
	h.svc.Logout(c.Request().Context(), userID)

	return c.JSON(http.StatusOK, map[string]string{"message": "Logout successful."})
}

// ListUsers godoc
// @Summary List librarian accounts
// @Tags auth
// @Produce json
// @Success 200 {array} model.User
// @Router /auth/users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// Me godoc
// @Summary Get the authenticated librarian's profile
// @Tags auth
// @Produce json
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	user, err := h.svc.Profile(c.Request().Context(), userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Update the authenticated librarian's profile
// @Tags auth
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [put]
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" && req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no fields provided for update")
	}

	user, err := h.svc.UpdateProfile(c.Request().Context(), userID, req.Name, req.Email)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword godoc
// @Summary Rotate the authenticated librarian's password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Password rotation data"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /auth/change-password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.svc.ChangePassword(c.Request().Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password changed successfully."})
}

// ForgotPassword godoc
// @Summary Request a password reset link
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.svc.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": forgotPasswordReply})
}

// ResetPassword godoc
// @Summary Consume a password reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param token path string true "Reset token"
// @Param request body ResetPasswordRequest true "New password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.svc.ResetPassword(c.Request().Context(), c.Param("token"), req.NewPassword); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Password has been reset successfully. You can now log in with your new password.",
	})
}

func (h *AuthHandler) refreshCookie(value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     refreshCookiePath,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
