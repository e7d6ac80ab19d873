package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookclub/internal/cache"
	apperrors "bookclub/internal/errors"
	"bookclub/internal/model"
	"bookclub/internal/repository"
)

// ReaderService exposes patron directory operations.
type ReaderService interface {
	Create(ctx context.Context, reader *model.Reader, actorID uint) (*model.Reader, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Reader, error)
	List(ctx context.Context) ([]model.Reader, error)
	Update(ctx context.Context, id uuid.UUID, input *model.Reader, actorID uint) (*model.Reader, error)
	Delete(ctx context.Context, id uuid.UUID, actorID uint) error
}

type readerService struct {
	repo  repository.ReaderRepository
	cache *cache.Client
	audit AuditService
}

// NewReaderService builds a ReaderService with repository, cache and audit trail.
func NewReaderService(repo repository.ReaderRepository, cache *cache.Client, audit AuditService) ReaderService {
	return &readerService{repo: repo, cache: cache, audit: audit}
}

func (s *readerService) Create(ctx context.Context, reader *model.Reader, actorID uint) (*model.Reader, error) {
	if err := s.checkEmail(ctx, reader.Email, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, reader); err != nil {
		return nil, fmt.Errorf("create reader: %w", err)
	}
	_ = s.cache.Delete(ctx, cache.KeyReaderList)

	s.audit.Record(ActionReaderAdded, s.audit.PerformerName(ctx, actorID), model.EntityReader, reader.ID.String(),
		map[string]interface{}{"newReader": reader})

	return reader, nil
}

func (s *readerService) Get(ctx context.Context, id uuid.UUID) (*model.Reader, error) {
	reader, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReaderNotFound
		}
		return nil, err
	}
	return reader, nil
}

func (s *readerService) List(ctx context.Context) ([]model.Reader, error) {
	if data, _ := s.cache.Get(ctx, cache.KeyReaderList); data != nil {
		var cached []model.Reader
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	readers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(readers); err == nil {
		_ = s.cache.Set(ctx, cache.KeyReaderList, payload, catalogCacheTTL)
	}
	return readers, nil
}

func (s *readerService) Update(ctx context.Context, id uuid.UUID, input *model.Reader, actorID uint) (*model.Reader, error) {
	reader, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldCopy := *reader

	if input.Email != "" && input.Email != reader.Email {
		if err := s.checkEmail(ctx, input.Email, reader.ID); err != nil {
			return nil, err
		}
		reader.Email = input.Email
	}
	if input.Name != "" {
		reader.Name = input.Name
	}
	reader.Phone = input.Phone
	reader.Address = input.Address

	if err := s.repo.Update(ctx, reader); err != nil {
		return nil, fmt.Errorf("update reader: %w", err)
	}
	_ = s.cache.Delete(ctx, cache.KeyReaderList)

	s.audit.Record(ActionReaderUpdated, s.audit.PerformerName(ctx, actorID), model.EntityReader, reader.ID.String(),
		map[string]interface{}{"oldData": oldCopy, "newData": reader})

	return reader, nil
}

func (s *readerService) Delete(ctx context.Context, id uuid.UUID, actorID uint) error {
	reader, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete reader: %w", err)
	}
	_ = s.cache.Delete(ctx, cache.KeyReaderList)

	s.audit.Record(ActionReaderDeleted, s.audit.PerformerName(ctx, actorID), model.EntityReader, id.String(),
		map[string]interface{}{"deletedReader": reader})

	return nil
}

func (s *readerService) checkEmail(ctx context.Context, email string, selfID uuid.UUID) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil && existing != nil && existing.ID != selfID {
		return apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check email: %w", err)
	}
	return nil
}
