package service

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"frenchnotes/internal/errors"
	"frenchnotes/internal/media"
	"frenchnotes/internal/model"
)

// MockContentRepository is a mock implementation of ContentRepository.
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) Create(ctx context.Context, content *model.Content) error {
	args := m.Called(ctx, content)
	return args.Error(0)
}

func (m *MockContentRepository) Update(ctx context.Context, content *model.Content) error {
	args := m.Called(ctx, content)
	return args.Error(0)
}

func (m *MockContentRepository) FindByID(ctx context.Context, id uint) (*model.Content, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Content), args.Error(1)
}

func (m *MockContentRepository) List(ctx context.Context, contentType model.ContentType) ([]model.Content, error) {
	args := m.Called(ctx, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Content), args.Error(1)
}

func (m *MockContentRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMediaStore is a mock implementation of media.Store.
type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Upload(ctx context.Context, data []byte, resourceType string) (*media.Upload, error) {
	args := m.Called(ctx, data, resourceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.Upload), args.Error(1)
}

func (m *MockMediaStore) Delete(ctx context.Context, publicID, resourceType string) error {
	args := m.Called(ctx, publicID, resourceType)
	return args.Error(0)
}

func TestContentService_Create(t *testing.T) {
	tests := []struct {
		name          string
		input         *ContentInput
		setupMocks    func(*MockContentRepository, *MockMediaStore)
		expectedError error
		checkContent  func(*testing.T, *model.Content)
	}{
		{
			name:  "text only content",
			input: &ContentInput{Title: "Passé composé", Type: model.ContentTypeWriting, Text: "..."},
			setupMocks: func(repo *MockContentRepository, store *MockMediaStore) {
				repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Content")).Return(nil)
			},
			checkContent: func(t *testing.T, c *model.Content) {
				assert.Empty(t, c.ImageURL)
				assert.Empty(t, c.AudioURL)
			},
		},
		{
			name:  "image and audio uploaded before the record is written",
			input: &ContentInput{Title: "Listening drill", Type: model.ContentTypeListening, Text: "...", Image: []byte("img"), Audio: []byte("aud")},
			setupMocks: func(repo *MockContentRepository, store *MockMediaStore) {
				store.On("Upload", mock.Anything, []byte("img"), media.ResourceImage).
					Return(&media.Upload{URL: "https://cdn.example.com/upload/v1/notes/img.png"}, nil)
				store.On("Upload", mock.Anything, []byte("aud"), media.ResourceVideo).
					Return(&media.Upload{URL: "https://cdn.example.com/upload/v1/notes/aud.mp3"}, nil)
				repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Content")).Return(nil)
			},
			checkContent: func(t *testing.T, c *model.Content) {
				assert.Equal(t, "https://cdn.example.com/upload/v1/notes/img.png", c.ImageURL)
				assert.Equal(t, "https://cdn.example.com/upload/v1/notes/aud.mp3", c.AudioURL)
			},
		},
		{
			name:  "failed upload leaves the database untouched",
			input: &ContentInput{Title: "Listening drill", Type: model.ContentTypeListening, Text: "...", Audio: []byte("aud")},
			setupMocks: func(repo *MockContentRepository, store *MockMediaStore) {
				store.On("Upload", mock.Anything, []byte("aud"), media.ResourceVideo).
					Return(nil, stderrors.New("host unreachable"))
			},
			expectedError: errors.ErrMediaUpload,
		},
		{
			name:          "invalid content type",
			input:         &ContentInput{Title: "x", Type: model.ContentType("poetry"), Text: "..."},
			setupMocks:    func(repo *MockContentRepository, store *MockMediaStore) {},
			expectedError: errors.ErrInvalidContentType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockContentRepository)
			mockStore := new(MockMediaStore)
			tt.setupMocks(mockRepo, mockStore)

			svc := NewContentService(mockRepo, mockStore, nil)
			content, err := svc.Create(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, content)
				mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.input.Title, content.Title)
				tt.checkContent(t, content)
			}

			mockRepo.AssertExpectations(t)
			mockStore.AssertExpectations(t)
		})
	}
}

func TestContentService_List(t *testing.T) {
	t.Run("rejects unknown type filter", func(t *testing.T) {
		svc := NewContentService(new(MockContentRepository), new(MockMediaStore), nil)
		contents, err := svc.List(context.Background(), model.ContentType("poetry"))
		assert.ErrorIs(t, err, errors.ErrInvalidContentType)
		assert.Nil(t, contents)
	})

	t.Run("passes the filter through to the repository", func(t *testing.T) {
		mockRepo := new(MockContentRepository)
		mockRepo.On("List", mock.Anything, model.ContentTypeSpeaking).
			Return([]model.Content{{ID: 1, Type: model.ContentTypeSpeaking}}, nil)

		svc := NewContentService(mockRepo, new(MockMediaStore), nil)
		contents, err := svc.List(context.Background(), model.ContentTypeSpeaking)

		assert.NoError(t, err)
		assert.Len(t, contents, 1)
		mockRepo.AssertExpectations(t)
	})
}

func TestContentService_Update(t *testing.T) {
	existing := func() *model.Content {
		return &model.Content{
			ID:       5,
			Title:    "Old title",
			Type:     model.ContentTypeReading,
			ImageURL: "https://cdn.example.com/upload/v1/notes/old-img.png",
		}
	}

	t.Run("replaced image deletes the old object", func(t *testing.T) {
		mockRepo := new(MockContentRepository)
		mockRepo.On("FindByID", mock.Anything, uint(5)).Return(existing(), nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Content")).Return(nil)

		mockStore := new(MockMediaStore)
		mockStore.On("Upload", mock.Anything, []byte("img2"), media.ResourceImage).
			Return(&media.Upload{URL: "https://cdn.example.com/upload/v1/notes/new-img.png"}, nil)
		mockStore.On("Delete", mock.Anything, "notes/old-img", media.ResourceImage).Return(nil)

		svc := NewContentService(mockRepo, mockStore, nil)
		content, err := svc.Update(context.Background(), 5, &ContentInput{
			Title: "New title",
			Type:  model.ContentTypeReading,
			Text:  "...",
			Image: []byte("img2"),
		})

		assert.NoError(t, err)
		assert.Equal(t, "New title", content.Title)
		assert.Equal(t, "https://cdn.example.com/upload/v1/notes/new-img.png", content.ImageURL)
		mockRepo.AssertExpectations(t)
		mockStore.AssertExpectations(t)
	})

	t.Run("missing record", func(t *testing.T) {
		mockRepo := new(MockContentRepository)
		mockRepo.On("FindByID", mock.Anything, uint(5)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewContentService(mockRepo, new(MockMediaStore), nil)
		content, err := svc.Update(context.Background(), 5, &ContentInput{Type: model.ContentTypeReading})

		assert.ErrorIs(t, err, errors.ErrContentNotFound)
		assert.Nil(t, content)
	})
}

func TestContentService_Delete(t *testing.T) {
	t.Run("failed remote delete does not block the record deletion", func(t *testing.T) {
		mockRepo := new(MockContentRepository)
		mockRepo.On("FindByID", mock.Anything, uint(5)).Return(&model.Content{
			ID:       5,
			Type:     model.ContentTypeReading,
			ImageURL: "https://cdn.example.com/upload/v1/notes/img.png",
		}, nil)
		mockRepo.On("Delete", mock.Anything, uint(5)).Return(nil)

		mockStore := new(MockMediaStore)
		mockStore.On("Delete", mock.Anything, "notes/img", media.ResourceImage).
			Return(stderrors.New("host unreachable"))

		svc := NewContentService(mockRepo, mockStore, nil)
		err := svc.Delete(context.Background(), 5)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
		mockStore.AssertExpectations(t)
	})

	t.Run("missing record", func(t *testing.T) {
		mockRepo := new(MockContentRepository)
		mockRepo.On("FindByID", mock.Anything, uint(5)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewContentService(mockRepo, new(MockMediaStore), nil)
		err := svc.Delete(context.Background(), 5)

		assert.ErrorIs(t, err, errors.ErrContentNotFound)
	})
}
