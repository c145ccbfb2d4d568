package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"frenchnotes/internal/cache"
	"frenchnotes/internal/errors"
	"frenchnotes/internal/media"
	"frenchnotes/internal/model"
	"frenchnotes/internal/repository"
)

const contentCacheTTL = 5 * time.Minute

// ContentInput carries the fields of a content create or update. Image and
// Audio hold raw upload bytes and are nil when the caller sent no file.
type ContentInput struct {
	Title string
	Type  model.ContentType
	Text  string
	Image []byte
	Audio []byte
}

// ContentService handles the content catalog: CRUD plus routing media
// payloads through the external host before anything touches the database.
type ContentService interface {
	List(ctx context.Context, contentType model.ContentType) ([]model.Content, error)
	Create(ctx context.Context, input *ContentInput) (*model.Content, error)
	Update(ctx context.Context, id uint, input *ContentInput) (*model.Content, error)
	Delete(ctx context.Context, id uint) error
}

type contentService struct {
	repo  repository.ContentRepository
	store media.Store
	cache *cache.Client
}

// NewContentService creates a new content service.
func NewContentService(repo repository.ContentRepository, store media.Store, cache *cache.Client) ContentService {
	return &contentService{
		repo:  repo,
		store: store,
		cache: cache,
	}
}

func (s *contentService) cacheKey(contentType model.ContentType) string {
	if contentType == "" {
		return "content:list:all"
	}
	return fmt.Sprintf("content:list:%s", contentType)
}

func (s *contentService) invalidate(ctx context.Context, contentType model.ContentType) {
	_ = s.cache.Delete(ctx, s.cacheKey(""))
	_ = s.cache.Delete(ctx, s.cacheKey(contentType))
}

// List returns content newest first, optionally filtered by type, with a
// short-lived cache in front of the database.
func (s *contentService) List(ctx context.Context, contentType model.ContentType) ([]model.Content, error) {
	if contentType != "" && !contentType.Valid() {
		return nil, errors.ErrInvalidContentType
	}

	if data, _ := s.cache.Get(ctx, s.cacheKey(contentType)); data != nil {
		var cached []model.Content
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	contents, err := s.repo.List(ctx, contentType)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}

	if payload, err := json.Marshal(contents); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(contentType), payload, contentCacheTTL)
	}
	return contents, nil
}

// Create uploads any media first and only then writes the record, so a
// failed upload never leaves a half-populated row behind.
func (s *contentService) Create(ctx context.Context, input *ContentInput) (*model.Content, error) {
	if !input.Type.Valid() {
		return nil, errors.ErrInvalidContentType
	}

	content := &model.Content{
		Title: input.Title,
		Type:  input.Type,
		Text:  input.Text,
	}

	if input.Image != nil {
		up, err := s.store.Upload(ctx, input.Image, media.ResourceImage)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrMediaUpload, err)
		}
		content.ImageURL = up.URL
	}
	if input.Audio != nil {
		up, err := s.store.Upload(ctx, input.Audio, media.ResourceVideo)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrMediaUpload, err)
		}
		content.AudioURL = up.URL
	}

	if err := s.repo.Create(ctx, content); err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	s.invalidate(ctx, content.Type)
	return content, nil
}

// Update replaces fields and any re-uploaded media. The previous media
// object is deleted from the host best effort once the new one is in place.
func (s *contentService) Update(ctx context.Context, id uint, input *ContentInput) (*model.Content, error) {
	if !input.Type.Valid() {
		return nil, errors.ErrInvalidContentType
	}

	content, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrContentNotFound
		}
		return nil, fmt.Errorf("find content: %w", err)
	}

	oldType := content.Type
	content.Title = input.Title
	content.Type = input.Type
	content.Text = input.Text

	if input.Image != nil {
		up, err := s.store.Upload(ctx, input.Image, media.ResourceImage)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrMediaUpload, err)
		}
		s.deleteMedia(ctx, content.ImageURL, media.ResourceImage)
		content.ImageURL = up.URL
	}
	if input.Audio != nil {
		up, err := s.store.Upload(ctx, input.Audio, media.ResourceVideo)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrMediaUpload, err)
		}
		s.deleteMedia(ctx, content.AudioURL, media.ResourceVideo)
		content.AudioURL = up.URL
	}

	if err := s.repo.Update(ctx, content); err != nil {
		return nil, fmt.Errorf("update content: %w", err)
	}
	s.invalidate(ctx, oldType)
	s.invalidate(ctx, content.Type)
	return content, nil
}

// Delete removes hosted media best effort, then the record. A failed remote
// delete is logged and never blocks the record deletion.
func (s *contentService) Delete(ctx context.Context, id uint) error {
	content, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrContentNotFound
		}
		return fmt.Errorf("find content: %w", err)
	}

	s.deleteMedia(ctx, content.ImageURL, media.ResourceImage)
	s.deleteMedia(ctx, content.AudioURL, media.ResourceVideo)
	s.deleteMedia(ctx, content.VideoURL, media.ResourceVideo)

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	s.invalidate(ctx, content.Type)
	return nil
}

func (s *contentService) deleteMedia(ctx context.Context, url, resourceType string) {
	if url == "" {
		return
	}
	publicID := media.PublicIDFromURL(url)
	if publicID == "" {
		log.Printf("could not derive media public id from %s", url)
		return
	}
	if err := s.store.Delete(ctx, publicID, resourceType); err != nil {
		log.Printf("media delete for %s failed: %v", publicID, err)
	}
}
