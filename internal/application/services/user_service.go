package services

import (
	"context"
	"fmt"

	"github.com/taskmaster/todoboard/internal/domain/entities"
	"github.com/taskmaster/todoboard/internal/infrastructure/logger"
	"github.com/taskmaster/todoboard/internal/ports"
)

// UserService serves the read-only user directory
type UserService struct {
	userRepo ports.UserRepository
	logger   *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo ports.UserRepository, logger *logger.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger.WithComponent("user_service"),
	}
}

var _ ports.UserService = (*UserService)(nil)

// ListUsers returns every user ordered by first name
func (s *UserService) ListUsers(ctx context.Context) ([]entities.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Directory resolves author and assignee references against the current user list
func (s *UserService) Directory(ctx context.Context) (*ports.Directory, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return ports.NewDirectory(users), nil
}
