package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookclub/internal/model"
)

// ReaderRepository defines persistence operations for the reader directory.
type ReaderRepository interface {
	Create(ctx context.Context, reader *model.Reader) error
	Update(ctx context.Context, reader *model.Reader) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Reader, error)
	FindByEmail(ctx context.Context, email string) (*model.Reader, error)
	List(ctx context.Context) ([]model.Reader, error)
}

type readerRepository struct {
	db *gorm.DB
}

// NewReaderRepository builds a GORM-backed repository.
func NewReaderRepository(db *gorm.DB) ReaderRepository {
	return &readerRepository{db: db}
}

func (r *readerRepository) Create(ctx context.Context, reader *model.Reader) error {
	return r.db.WithContext(ctx).Create(reader).Error
}

func (r *readerRepository) Update(ctx context.Context, reader *model.Reader) error {
	return r.db.WithContext(ctx).Save(reader).Error
}

func (r *readerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Reader{}, "id = ?", id).Error
}

func (r *readerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Reader, error) {
	var reader model.Reader
	if err := r.db.WithContext(ctx).First(&reader, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reader, nil
}

func (r *readerRepository) FindByEmail(ctx context.Context, email string) (*model.Reader, error) {
	var reader model.Reader
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&reader).Error; err != nil {
		return nil, err
	}
	return &reader, nil
}

func (r *readerRepository) List(ctx context.Context) ([]model.Reader, error) {
	var readers []model.Reader
	if err := r.db.WithContext(ctx).Find(&readers).Error; err != nil {
		return nil, err
	}
	return readers, nil
}
