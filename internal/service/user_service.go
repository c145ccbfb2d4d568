package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"frenchnotes/internal/errors"
	"frenchnotes/internal/model"
	"frenchnotes/internal/repository"
)

// UserService exposes the admin-facing user operations.
type UserService interface {
	ListStudents(ctx context.Context) ([]model.User, error)
	// DeleteUser removes the user and cascades to their login ledger.
	DeleteUser(ctx context.Context, id uint) error
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) ListStudents(ctx context.Context) ([]model.User, error) {
	return s.repo.ListByRole(ctx, model.RoleStudent)
}

func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
