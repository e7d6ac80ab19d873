package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bookclub/internal/auth"
	apperrors "bookclub/internal/errors"
	"bookclub/internal/mail"
	"bookclub/internal/model"
)

func newAuthFixture() (AuthService, *MockUserRepository, *MockMailer, *MockAuditService) {
	users := new(MockUserRepository)
	mailer := new(MockMailer)
	audit := newQuietAudit()
	tokens := auth.NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	svc := NewAuthService(users, tokens, mailer, audit, "http://localhost:3000", time.Hour)
	return svc, users, mailer, audit
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func TestSignup(t *testing.T) {
	t.Run("creates librarian with hashed password", func(t *testing.T) {
		svc, users, _, _ := newAuthFixture()
		users.On("FindByEmail", mock.Anything, "jane@example.com").Return(nil, gorm.ErrRecordNotFound)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "jane@example.com" && u.Role == model.RoleLibrarian && u.PasswordHash != "secret123"
		})).Return(nil)

		user, err := svc.Signup(context.Background(), "Jane", "jane@example.com", "secret123")
		assert.NoError(t, err)
		assert.Equal(t, "Jane", user.Name)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
		users.AssertExpectations(t)
	})

	t.Run("email already taken", func(t *testing.T) {
		svc, users, _, _ := newAuthFixture()
		users.On("FindByEmail", mock.Anything, "jane@example.com").Return(&model.User{ID: 9}, nil)

		_, err := svc.Signup(context.Background(), "Jane", "jane@example.com", "secret123")
		assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		svc, users, _, _ := newAuthFixture()
		users.On("FindByName", mock.Anything, "Jane").Return(&model.User{
			ID:           3,
			Name:         "Jane",
			PasswordHash: hashPassword(t, "secret123"),
		}, nil)

		access, refresh, user, err := svc.Login(context.Background(), "Jane", "secret123")
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.NotEqual(t, access, refresh)
		assert.Equal(t, uint(3), user.ID)
	})

	t.Run("unknown name", func(t *testing.T) {
		svc, users, _, _ := newAuthFixture()
		users.On("FindByName", mock.Anything, "Nobody").Return(nil, gorm.ErrRecordNotFound)

		_, _, _, err := svc.Login(context.Background(), "Nobody", "secret123")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, users, _, _ := newAuthFixture()
		users.On("FindByName", mock.Anything, "Jane").Return(&model.User{
			ID:           3,
			Name:         "Jane",
			PasswordHash: hashPassword(t, "secret123"),
		}, nil)

		_, _, _, err := svc.Login(context.Background(), "Jane", "wrong")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestRefresh(t *testing.T) {
	tokens := auth.NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)

	t.Run("rotates access token", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewAuthService(users, tokens, new(MockMailer), newQuietAudit(), "http://localhost:3000", time.Hour)
		users.On("FindByID", mock.Anything, uint(3)).Return(&model.User{ID: 3}, nil)

		refresh, err := tokens.IssueRefreshToken(3)
		assert.NoError(t, err)

		access, err := svc.Refresh(context.Background(), refresh)
		assert.NoError(t, err)
		userID, err := tokens.VerifyAccessToken(access)
		assert.NoError(t, err)
		assert.Equal(t, uint(3), userID)
	})

	t.Run("user no longer exists", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewAuthService(users, tokens, new(MockMailer), newQuietAudit(), "http://localhost:3000", time.Hour)
		users.On("FindByID", mock.Anything, uint(3)).Return(nil, gorm.ErrRecordNotFound)

		refresh, err := tokens.IssueRefreshToken(3)
		assert.NoError(t, err)

		_, err = svc.Refresh(context.Background(), refresh)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		users := new(MockUserRepository)
		svc := NewAuthService(users, tokens, new(MockMailer), newQuietAudit(), "http://localhost:3000", time.Hour)

		access, err := tokens.IssueAccessToken(3)
		assert.NoError(t, err)

		_, err = svc.Refresh(context.Background(), access)
		assert.ErrorIs(t, err, auth.ErrTokenInvalid)
	})
}

func TestForgotPassword(t *testing.T) {
	t.Run("unknown email has no side effects", func(t *testing.T) {
		// Strict audit mock: any Record call fails the test outright.
		users := new(MockUserRepository)
		mailer := new(MockMailer)
		audit := new(MockAuditService)
		tokens := auth.NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
		svc := NewAuthService(users, tokens, mailer, audit, "http://localhost:3000", time.Hour)
		users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		err := svc.ForgotPassword(context.Background(), "ghost@example.com")
		assert.NoError(t, err)
		mailer.AssertNotCalled(t, "Send", mock.Anything)
		users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stores token digest and sends reset email", func(t *testing.T) {
		svc, users, mailer, _ := newAuthFixture()
		user := &model.User{ID: 3, Name: "Jane", Email: "jane@example.com"}
		users.On("FindByEmail", mock.Anything, "jane@example.com").Return(user, nil)
		users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			// A 64-char hex digest is stored, never the raw token.
			return len(u.ResetPasswordToken) == 64 && u.ResetPasswordExpires != nil
		})).Return(nil)
		mailer.On("Send", mock.MatchedBy(func(msg mail.Message) bool {
			return msg.To == "jane@example.com" && msg.Text != ""
		})).Return(nil)

		err := svc.ForgotPassword(context.Background(), "jane@example.com")
		assert.NoError(t, err)
		users.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("rolls back token when email fails", func(t *testing.T) {
		svc, users, mailer, _ := newAuthFixture()
		user := &model.User{ID: 3, Name: "Jane", Email: "jane@example.com"}
		users.On("FindByEmail", mock.Anything, "jane@example.com").Return(user, nil)
		users.On("Update", mock.Anything, mock.Anything).Return(nil)
		mailer.On("Send", mock.Anything).Return(assert.AnError)

		err := svc.ForgotPassword(context.Background(), "jane@example.com")
		assert.ErrorIs(t, err, apperrors.ErrResetEmailFailed)
		assert.Empty(t, user.ResetPasswordToken)
		assert.Nil(t, user.ResetPasswordExpires)
		users.AssertNumberOfCalls(t, "Update", 2)
	})
}

func TestResetPassword(t *testing.T) {
	t.Run("invalid or expired token", func(t *testing.T) {
		svc, users, _, _ := newAuthFixture()
		users.On("FindByResetToken", mock.Anything, mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)

		err := svc.ResetPassword(context.Background(), "deadbeef", "newpass123")
		assert.ErrorIs(t, err, apperrors.ErrResetTokenInvalid)
	})

	t.Run("sets password and clears token", func(t *testing.T) {
		svc, users, _, _ := newAuthFixture()
		expires := time.Now().Add(time.Hour)
		user := &model.User{ID: 3, Name: "Jane", ResetPasswordToken: "digest", ResetPasswordExpires: &expires}
		users.On("FindByResetToken", mock.Anything, hashResetToken("deadbeef"), mock.Anything).Return(user, nil)
		users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.ResetPasswordToken == "" && u.ResetPasswordExpires == nil
		})).Return(nil)

		err := svc.ResetPassword(context.Background(), "deadbeef", "newpass123")
		assert.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("newpass123")))
		users.AssertExpectations(t)
	})
}

func TestChangePassword(t *testing.T) {
	t.Run("wrong current password", func(t *testing.T) {
		svc, users, _, _ := newAuthFixture()
		users.On("FindByID", mock.Anything, uint(3)).Return(&model.User{
			ID:           3,
			PasswordHash: hashPassword(t, "secret123"),
		}, nil)

		err := svc.ChangePassword(context.Background(), 3, "wrong", "newpass123")
		assert.ErrorIs(t, err, apperrors.ErrWrongPassword)
		users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("rotates password", func(t *testing.T) {
		svc, users, _, _ := newAuthFixture()
		user := &model.User{ID: 3, PasswordHash: hashPassword(t, "secret123")}
		users.On("FindByID", mock.Anything, uint(3)).Return(user, nil)
		users.On("Update", mock.Anything, user).Return(nil)

		err := svc.ChangePassword(context.Background(), 3, "secret123", "newpass123")
		assert.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("newpass123")))
	})
}
