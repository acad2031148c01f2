package service

import (
	"context"

	"github.com/offlinesync/notekeeper/internal/logger"
	"github.com/offlinesync/notekeeper/internal/store"
	"github.com/offlinesync/notekeeper/models"
)

type userService struct {
	users  store.UserRepository
	logger *logger.Logger
}

// NewUserService creates the read-only user service.
func NewUserService(users store.UserRepository, logger *logger.Logger) UserService {
	return &userService{users: users, logger: logger}
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *userService) GetUser(ctx context.Context, username string) (models.User, error) {
	return s.users.GetUser(ctx, username)
}
