package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bookclub/internal/auth"
	apperrors "bookclub/internal/errors"
	"bookclub/internal/mail"
	"bookclub/internal/model"
	"bookclub/internal/repository"
)

const bcryptCost = 10

// AuthService handles librarian account and token lifecycle operations.
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, name, password string) (accessToken, refreshToken string, user *model.User, err error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, userID uint)
	ListUsers(ctx context.Context) ([]model.User, error)
	Profile(ctx context.Context, userID uint) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uint, name, email string) (*model.User, error)
	ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type authService struct {
	users         repository.UserRepository
	tokens        *auth.TokenService
	mailer        mail.Mailer
	audit         AuditService
	clientOrigin  string
	resetTokenTTL time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	mailer mail.Mailer,
	audit AuditService,
	clientOrigin string,
	resetTokenTTL time.Duration,
) AuthService {
	return &authService{
		users:         users,
		tokens:        tokens,
		mailer:        mailer,
		audit:         audit,
		clientOrigin:  clientOrigin,
		resetTokenTTL: resetTokenTTL,
	}
}

// Signup creates a librarian account with a hashed password.
func (s *authService) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         model.RoleLibrarian,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.audit.Record(ActionUserSignup, user.Name, model.EntityUser, fmt.Sprint(user.ID),
		map[string]interface{}{"email": user.Email})

	return user, nil
}

// Login authenticates a librarian by name and returns both token kinds.
// Unknown name and wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, name, password string) (string, string, *model.User, error) {
	user, err := s.users.FindByName(ctx, name)
	if err != nil {
		return "", "", nil, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return "", "", nil, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return "", "", nil, fmt.Errorf("issue refresh token: %w", err)
	}

	s.audit.Record(ActionUserLogin, user.Name, model.EntityUser, fmt.Sprint(user.ID), nil)

	return accessToken, refreshToken, user, nil
}

// Refresh rotates the access token off a verified refresh token. The user
// must still exist; verification failures propagate as auth package errors.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", apperrors.ErrUserNotFound
	}
	return s.tokens.IssueAccessToken(user.ID)
}

// Logout has no server-side token state to revoke; it only records the event.
// The handler clears the client-held refresh cookie.
func (s *authService) Logout(ctx context.Context, userID uint) {
	performer := "Unknown User"
	entityID := ""
	if userID != 0 {
		performer = s.audit.PerformerName(ctx, userID)
		entityID = fmt.Sprint(userID)
	}
	s.audit.Record(ActionUserLogout, performer, model.EntityUser, entityID, nil)
}

func (s *authService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *authService) Profile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes name and/or email. A new email must not belong to
// another account.
func (s *authService) UpdateProfile(ctx context.Context, userID uint, name, email string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if name != "" && user.Name != name {
		user.Name = name
	}
	if email != "" && user.Email != email {
		other, err := s.users.FindByEmail(ctx, email)
		if err == nil && other != nil && other.ID != user.ID {
			return nil, apperrors.ErrEmailTaken
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check email: %w", err)
		}
		user.Email = email
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// ChangePassword rotates the password after verifying the current one.
func (s *authService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return apperrors.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	return s.users.Update(ctx, user)
}

// ForgotPassword issues a reset token and emails the reset link. An unknown
// email returns nil with no side effects so account existence never leaks.
// If the email cannot be sent the issued token is rolled back.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)

	expires := time.Now().Add(s.resetTokenTTL)
	user.ResetPasswordToken = hashResetToken(token)
	user.ResetPasswordExpires = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.clientOrigin, token)
	body := fmt.Sprintf("You are receiving this email because you (or someone else) has requested the reset of a password for your account.\n\n"+
		"Please go to the following link to reset your password:\n\n%s\n\n"+
		"If you did not request this, please ignore this email and your password will remain unchanged.", resetURL)

	if err := s.mailer.Send(mail.Message{
		To:      user.Email,
		Subject: "Password Reset Request for Book Club Library",
		Text:    body,
	}); err != nil {
		// Roll back so no dangling valid token survives that the user can
		// never receive.
		user.ResetPasswordToken = ""
		user.ResetPasswordExpires = nil
		if rbErr := s.users.Update(ctx, user); rbErr != nil {
			return fmt.Errorf("rollback reset token: %w", rbErr)
		}
		return apperrors.ErrResetEmailFailed
	}

	s.audit.Record(ActionPasswordResetRequest, user.Name, model.EntityUser, fmt.Sprint(user.ID),
		map[string]interface{}{"email": user.Email})

	return nil
}

// ResetPassword consumes a reset token and sets a new password.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.users.FindByResetToken(ctx, hashResetToken(token), time.Now())
	if err != nil {
		return apperrors.ErrResetTokenInvalid
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = nil
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.audit.Record(ActionPasswordResetSuccess, user.Name, model.EntityUser, fmt.Sprint(user.ID),
		map[string]interface{}{"email": user.Email})

	return nil
}

// hashResetToken produces the one-way digest stored in place of the raw token.
func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
