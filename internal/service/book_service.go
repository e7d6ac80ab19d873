package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookclub/internal/cache"
	apperrors "bookclub/internal/errors"
	"bookclub/internal/model"
	"bookclub/internal/repository"
)

const catalogCacheTTL = 5 * time.Minute

// BookService exposes catalog operations.
type BookService interface {
	Create(ctx context.Context, book *model.Book, actorID uint) (*model.Book, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context) ([]model.Book, error)
	Update(ctx context.Context, id uuid.UUID, input *model.Book, actorID uint) (*model.Book, error)
	Delete(ctx context.Context, id uuid.UUID, actorID uint) error
}

type bookService struct {
	repo  repository.BookRepository
	cache *cache.Client
	audit AuditService
}

// NewBookService builds a BookService with repository, cache and audit trail.
func NewBookService(repo repository.BookRepository, cache *cache.Client, audit AuditService) BookService {
	return &bookService{repo: repo, cache: cache, audit: audit}
}

// Create adds a catalog entry. Available copies always start at total copies.
func (s *bookService) Create(ctx context.Context, book *model.Book, actorID uint) (*model.Book, error) {
	if err := s.checkISBN(ctx, book.ISBN, uuid.Nil); err != nil {
		return nil, err
	}

	book.AvailableCopies = book.TotalCopies
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	_ = s.cache.Delete(ctx, cache.KeyBookList)

	s.audit.Record(ActionBookAdded, s.audit.PerformerName(ctx, actorID), model.EntityBook, book.ID.String(),
		map[string]interface{}{"newBook": book})

	return book, nil
}

func (s *bookService) Get(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

func (s *bookService) List(ctx context.Context) ([]model.Book, error) {
	if data, _ := s.cache.Get(ctx, cache.KeyBookList); data != nil {
		var cached []model.Book
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(books); err == nil {
		_ = s.cache.Set(ctx, cache.KeyBookList, payload, catalogCacheTTL)
	}
	return books, nil
}

// Update replaces catalog fields. Available copies are deliberately left
// untouched; only the lending workflow moves them.
func (s *bookService) Update(ctx context.Context, id uuid.UUID, input *model.Book, actorID uint) (*model.Book, error) {
	book, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldCopy := *book

	if input.ISBN != "" && input.ISBN != book.ISBN {
		if err := s.checkISBN(ctx, input.ISBN, book.ID); err != nil {
			return nil, err
		}
		book.ISBN = input.ISBN
	}
	if input.Title != "" {
		book.Title = input.Title
	}
	if input.Author != "" {
		book.Author = input.Author
	}
	book.Genre = input.Genre
	book.PublicationYear = input.PublicationYear
	book.Publisher = input.Publisher
	if input.TotalCopies > 0 {
		book.TotalCopies = input.TotalCopies
	}

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	_ = s.cache.Delete(ctx, cache.KeyBookList)

	s.audit.Record(ActionBookUpdated, s.audit.PerformerName(ctx, actorID), model.EntityBook, book.ID.String(),
		map[string]interface{}{"oldData": oldCopy, "newData": book})

	return book, nil
}

func (s *bookService) Delete(ctx context.Context, id uuid.UUID, actorID uint) error {
	book, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	_ = s.cache.Delete(ctx, cache.KeyBookList)

	s.audit.Record(ActionBookDeleted, s.audit.PerformerName(ctx, actorID), model.EntityBook, id.String(),
		map[string]interface{}{"deletedBook": book})

	return nil
}

// checkISBN rejects an ISBN already held by a different catalog entry.
func (s *bookService) checkISBN(ctx context.Context, isbn string, selfID uuid.UUID) error {
	existing, err := s.repo.FindByISBN(ctx, isbn)
	if err == nil && existing != nil && existing.ID != selfID {
		return apperrors.ErrISBNTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check isbn: %w", err)
	}
	return nil
}
