package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"frenchnotes/internal/errors"
	"frenchnotes/internal/model"
)

func TestUserService_ListStudents(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("ListByRole", mock.Anything, model.RoleStudent).
		Return([]model.User{{ID: 7, Username: "alice", Role: model.RoleStudent}}, nil)

	svc := NewUserService(mockRepo)
	users, err := svc.ListStudents(context.Background())

	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
	mockRepo.AssertExpectations(t)
}

func TestUserService_DeleteUser(t *testing.T) {
	t.Run("deletes user and ledger", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("Delete", mock.Anything, uint(7)).Return(nil)

		svc := NewUserService(mockRepo)
		assert.NoError(t, svc.DeleteUser(context.Background(), 7))
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("Delete", mock.Anything, uint(7)).Return(gorm.ErrRecordNotFound)

		svc := NewUserService(mockRepo)
		err := svc.DeleteUser(context.Background(), 7)
		assert.ErrorIs(t, err, errors.ErrUserNotFound)
	})
}
