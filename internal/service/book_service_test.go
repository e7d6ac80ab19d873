package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "bookclub/internal/errors"
	"bookclub/internal/model"
)

// A nil cache client degrades to cache misses, so service logic is exercised
// without redis.
func newBookFixture() (BookService, *MockBookRepository) {
	repo := new(MockBookRepository)
	return NewBookService(repo, nil, newQuietAudit()), repo
}

func TestCreateBook(t *testing.T) {
	t.Run("available copies start at total copies", func(t *testing.T) {
		svc, repo := newBookFixture()
		repo.On("FindByISBN", mock.Anything, "978-0134190440").Return(nil, gorm.ErrRecordNotFound)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(b *model.Book) bool {
			return b.AvailableCopies == 5
		})).Return(nil)

		book, err := svc.Create(context.Background(), &model.Book{Title: "The Go Programming Language", ISBN: "978-0134190440", TotalCopies: 5}, 1)
		assert.NoError(t, err)
		assert.Equal(t, 5, book.AvailableCopies)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate ISBN", func(t *testing.T) {
		svc, repo := newBookFixture()
		repo.On("FindByISBN", mock.Anything, "978-0134190440").Return(&model.Book{ID: uuid.New()}, nil)

		_, err := svc.Create(context.Background(), &model.Book{ISBN: "978-0134190440", TotalCopies: 5}, 1)
		assert.ErrorIs(t, err, apperrors.ErrISBNTaken)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestUpdateBook(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc, repo := newBookFixture()
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Update(context.Background(), id, &model.Book{Title: "X"}, 1)
		assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
	})

	t.Run("leaves available copies untouched", func(t *testing.T) {
		svc, repo := newBookFixture()
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(&model.Book{
			ID:              id,
			Title:           "Old Title",
			ISBN:            "978-0134190440",
			TotalCopies:     5,
			AvailableCopies: 2,
		}, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(b *model.Book) bool {
			return b.Title == "New Title" && b.TotalCopies == 6 && b.AvailableCopies == 2
		})).Return(nil)

		book, err := svc.Update(context.Background(), id, &model.Book{Title: "New Title", TotalCopies: 6}, 1)
		assert.NoError(t, err)
		assert.Equal(t, 2, book.AvailableCopies)
		repo.AssertExpectations(t)
	})

	t.Run("changing ISBN to one held by another book", func(t *testing.T) {
		svc, repo := newBookFixture()
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(&model.Book{ID: id, ISBN: "978-0134190440"}, nil)
		repo.On("FindByISBN", mock.Anything, "978-0141439518").Return(&model.Book{ID: uuid.New()}, nil)

		_, err := svc.Update(context.Background(), id, &model.Book{ISBN: "978-0141439518"}, 1)
		assert.ErrorIs(t, err, apperrors.ErrISBNTaken)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestDeleteBook(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc, repo := newBookFixture()
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

		err := svc.Delete(context.Background(), id, 1)
		assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
	})

	t.Run("deletes existing book", func(t *testing.T) {
		svc, repo := newBookFixture()
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(&model.Book{ID: id}, nil)
		repo.On("Delete", mock.Anything, id).Return(nil)

		err := svc.Delete(context.Background(), id, 1)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
