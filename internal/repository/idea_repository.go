package repository

import (
	"context"

	"gorm.io/gorm"

	"frenchnotes/internal/model"
)

// IdeaRepository defines idea persistence operations.
type IdeaRepository interface {
	Create(ctx context.Context, idea *model.Idea) error
	Update(ctx context.Context, idea *model.Idea) error
	FindByID(ctx context.Context, id uint) (*model.Idea, error)
	List(ctx context.Context) ([]model.Idea, error)
	Delete(ctx context.Context, id uint) error
}

type ideaRepository struct {
	db *gorm.DB
}

// NewIdeaRepository builds a GORM-backed repository.
func NewIdeaRepository(db *gorm.DB) IdeaRepository {
	return &ideaRepository{db: db}
}

func (r *ideaRepository) Create(ctx context.Context, idea *model.Idea) error {
	return r.db.WithContext(ctx).Create(idea).Error
}

func (r *ideaRepository) Update(ctx context.Context, idea *model.Idea) error {
	return r.db.WithContext(ctx).Save(idea).Error
}

func (r *ideaRepository) FindByID(ctx context.Context, id uint) (*model.Idea, error) {
	var idea model.Idea
	if err := r.db.WithContext(ctx).First(&idea, id).Error; err != nil {
		return nil, err
	}
	return &idea, nil
}

// List returns all ideas with the submitter joined in, newest first.
func (r *ideaRepository) List(ctx context.Context) ([]model.Idea, error) {
	var ideas []model.Idea
	if err := r.db.WithContext(ctx).
		Preload("Submitter").
		Order("created_at DESC").
		Find(&ideas).Error; err != nil {
		return nil, err
	}
	return ideas, nil
}

func (r *ideaRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Idea{}, id).Error
}
