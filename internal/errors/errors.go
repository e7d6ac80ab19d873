package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrBookNotFound is returned when a book is not found.
	ErrBookNotFound = errors.New("book not found")
	// ErrReaderNotFound is returned when a reader is not found.
	ErrReaderNotFound = errors.New("reader not found")
	// ErrTransactionNotFound is returned when a lending transaction is not found.
	ErrTransactionNotFound = errors.New("lending transaction not found")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrBookUnavailable is returned when a book has no copies left to lend.
	ErrBookUnavailable = errors.New("book is currently not available for lending")
	// ErrAlreadyReturned is returned when a returned transaction is returned again.
	ErrAlreadyReturned = errors.New("book has already been returned")
	// ErrEmailTaken is returned on a duplicate user or reader email.
	ErrEmailTaken = errors.New("email already in use")
	// ErrISBNTaken is returned on a duplicate book ISBN.
	ErrISBNTaken = errors.New("book with this ISBN already exists")
	// ErrInvalidCredentials is returned when login name or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMailNotConfigured is returned when email transport settings are absent.
	ErrMailNotConfigured = errors.New("email transport is not configured")
	// ErrNoReaders is returned when a notification batch names no readers.
	ErrNoReaders = errors.New("no reader IDs provided for notifications")
	// ErrResetTokenInvalid is returned for an unknown or expired reset token.
	ErrResetTokenInvalid = errors.New("password reset token is invalid or has expired")
	// ErrWrongPassword is returned when the current password check fails.
	ErrWrongPassword = errors.New("invalid current password")
	// ErrResetEmailFailed is returned when the password reset email cannot be
	// delivered; the issued token has been rolled back.
	ErrResetEmailFailed = errors.New("there was an error sending the password reset email")
	// ErrNotificationSendFailed is returned when at least one overdue notice
	// in a batch failed to send. Sends that succeeded are preserved.
	ErrNotificationSendFailed = errors.New("some overdue notifications failed to send")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "BOOK_NOT_FOUND")
	case errors.Is(err, ErrReaderNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "READER_NOT_FOUND")
	case errors.Is(err, ErrTransactionNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TRANSACTION_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrBookUnavailable):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "BOOK_UNAVAILABLE")
	case errors.Is(err, ErrAlreadyReturned):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ALREADY_RETURNED")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrISBNTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "ISBN_TAKEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrMailNotConfigured):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "MAIL_NOT_CONFIGURED")
	case errors.Is(err, ErrNoReaders):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NO_READERS")
	case errors.Is(err, ErrResetTokenInvalid):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "RESET_TOKEN_INVALID")
	case errors.Is(err, ErrWrongPassword):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "WRONG_PASSWORD")
	case errors.Is(err, ErrResetEmailFailed):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "RESET_EMAIL_FAILED")
	case errors.Is(err, ErrNotificationSendFailed):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "NOTIFICATIONS_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
