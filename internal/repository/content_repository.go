package repository

import (
	"context"

	"gorm.io/gorm"

	"frenchnotes/internal/model"
)

// ContentRepository defines content persistence operations.
type ContentRepository interface {
	Create(ctx context.Context, content *model.Content) error
	Update(ctx context.Context, content *model.Content) error
	FindByID(ctx context.Context, id uint) (*model.Content, error)
	List(ctx context.Context, contentType model.ContentType) ([]model.Content, error)
	Delete(ctx context.Context, id uint) error
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository builds a GORM-backed repository.
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) Create(ctx context.Context, content *model.Content) error {
	return r.db.WithContext(ctx).Create(content).Error
}

func (r *contentRepository) Update(ctx context.Context, content *model.Content) error {
	return r.db.WithContext(ctx).Save(content).Error
}

func (r *contentRepository) FindByID(ctx context.Context, id uint) (*model.Content, error) {
	var content model.Content
	if err := r.db.WithContext(ctx).First(&content, id).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

// List returns content newest first, optionally filtered by type.
func (r *contentRepository) List(ctx context.Context, contentType model.ContentType) ([]model.Content, error) {
	var contents []model.Content
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if contentType != "" {
		q = q.Where("type = ?", contentType)
	}
	if err := q.Find(&contents).Error; err != nil {
		return nil, err
	}
	return contents, nil
}

func (r *contentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Content{}, id).Error
}
