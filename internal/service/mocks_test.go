package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"bookclub/internal/mail"
	"bookclub/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByName(ctx context.Context, name string) (*model.User, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByResetToken(ctx context.Context, tokenDigest string, now time.Time) (*model.User, error) {
	args := m.Called(ctx, tokenDigest, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockBookRepository is a mock implementation of repository.BookRepository.
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) Create(ctx context.Context, book *model.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) Update(ctx context.Context, book *model.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockBookRepository) FindByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	args := m.Called(ctx, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockBookRepository) List(ctx context.Context) ([]model.Book, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Book), args.Error(1)
}

// MockReaderRepository is a mock implementation of repository.ReaderRepository.
type MockReaderRepository struct {
	mock.Mock
}

func (m *MockReaderRepository) Create(ctx context.Context, reader *model.Reader) error {
	args := m.Called(ctx, reader)
	return args.Error(0)
}

func (m *MockReaderRepository) Update(ctx context.Context, reader *model.Reader) error {
	args := m.Called(ctx, reader)
	return args.Error(0)
}

func (m *MockReaderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReaderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Reader, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reader), args.Error(1)
}

func (m *MockReaderRepository) FindByEmail(ctx context.Context, email string) (*model.Reader, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reader), args.Error(1)
}

func (m *MockReaderRepository) List(ctx context.Context) ([]model.Reader, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Reader), args.Error(1)
}

// MockLendingRepository is a mock implementation of repository.LendingRepository.
type MockLendingRepository struct {
	mock.Mock
}

func (m *MockLendingRepository) Create(ctx context.Context, tx *model.LendingTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLendingRepository) Update(ctx context.Context, tx *model.LendingTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLendingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.LendingTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LendingTransaction), args.Error(1)
}

func (m *MockLendingRepository) List(ctx context.Context) ([]model.LendingTransaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LendingTransaction), args.Error(1)
}

func (m *MockLendingRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.LendingTransaction, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LendingTransaction), args.Error(1)
}

func (m *MockLendingRepository) ListByReader(ctx context.Context, readerID uuid.UUID) ([]model.LendingTransaction, error) {
	args := m.Called(ctx, readerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LendingTransaction), args.Error(1)
}

func (m *MockLendingRepository) ListOverdue(ctx context.Context, now time.Time) ([]model.LendingTransaction, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LendingTransaction), args.Error(1)
}

func (m *MockLendingRepository) ListOverdueForReaders(ctx context.Context, now time.Time, readerIDs []uuid.UUID) ([]model.LendingTransaction, error) {
	args := m.Called(ctx, now, readerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LendingTransaction), args.Error(1)
}

// MockAuditLogRepository is a mock implementation of repository.AuditLogRepository.
type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditLogRepository) List(ctx context.Context) ([]model.AuditLog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditLog), args.Error(1)
}

// MockAuditService is a mock implementation of AuditService. Record calls
// are tracked so tests can assert on emitted actions.
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(action, performedBy, entityType, entityID string, details map[string]interface{}) {
	m.Called(action, performedBy, entityType, entityID, details)
}

func (m *MockAuditService) PerformerName(ctx context.Context, userID uint) string {
	args := m.Called(ctx, userID)
	return args.String(0)
}

func (m *MockAuditService) List(ctx context.Context) ([]model.AuditLog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditLog), args.Error(1)
}

func (m *MockAuditService) Close() {
	m.Called()
}

// newQuietAudit returns an audit mock that accepts any Record call and
// resolves every performer to a fixed name.
func newQuietAudit() *MockAuditService {
	audit := new(MockAuditService)
	audit.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
	audit.On("PerformerName", mock.Anything, mock.Anything).Return("Test Librarian").Maybe()
	return audit
}

// MockMailer is a mock implementation of mail.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockMailer) Send(msg mail.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}
