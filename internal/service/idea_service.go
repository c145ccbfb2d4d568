package service

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"frenchnotes/internal/errors"
	"frenchnotes/internal/media"
	"frenchnotes/internal/model"
	"frenchnotes/internal/repository"
)

// IdeaService handles student idea proposals and their optional attachments.
type IdeaService interface {
	List(ctx context.Context) ([]model.Idea, error)
	Submit(ctx context.Context, userID uint, title, body string, file []byte) (*model.Idea, error)
	Update(ctx context.Context, id uint, title, body string) (*model.Idea, error)
	Delete(ctx context.Context, id uint) error
}

type ideaService struct {
	repo  repository.IdeaRepository
	store media.Store
}

// NewIdeaService creates a new idea service.
func NewIdeaService(repo repository.IdeaRepository, store media.Store) IdeaService {
	return &ideaService{repo: repo, store: store}
}

func (s *ideaService) List(ctx context.Context) ([]model.Idea, error) {
	return s.repo.List(ctx)
}

// Submit stores an idea for the given user. When a file is attached it is
// uploaded first; an upload failure aborts before any database write.
func (s *ideaService) Submit(ctx context.Context, userID uint, title, body string, file []byte) (*model.Idea, error) {
	idea := &model.Idea{
		Title:       title,
		Body:        body,
		SubmittedBy: userID,
	}

	if file != nil {
		up, err := s.store.Upload(ctx, file, media.ResourceRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrMediaUpload, err)
		}
		idea.FilePath = up.URL
	}

	if err := s.repo.Create(ctx, idea); err != nil {
		return nil, fmt.Errorf("create idea: %w", err)
	}
	return idea, nil
}

func (s *ideaService) Update(ctx context.Context, id uint, title, body string) (*model.Idea, error) {
	idea, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrIdeaNotFound
		}
		return nil, fmt.Errorf("find idea: %w", err)
	}

	idea.Title = title
	idea.Body = body
	if err := s.repo.Update(ctx, idea); err != nil {
		return nil, fmt.Errorf("update idea: %w", err)
	}
	return idea, nil
}

// Delete removes the attachment best effort, then the record.
func (s *ideaService) Delete(ctx context.Context, id uint) error {
	idea, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrIdeaNotFound
		}
		return fmt.Errorf("find idea: %w", err)
	}

	if idea.FilePath != "" {
		publicID := media.PublicIDFromURL(idea.FilePath)
		if publicID == "" {
			log.Printf("could not derive media public id from %s", idea.FilePath)
		} else if err := s.store.Delete(ctx, publicID, media.ResourceRaw); err != nil {
			log.Printf("media delete for %s failed: %v", publicID, err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete idea: %w", err)
	}
	return nil
}
