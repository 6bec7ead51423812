package services

import (
	"context"
	"fmt"

	"dues_portal_echo/internal/models"
	"dues_portal_echo/internal/repository"
)

type UserService struct {
	repo *repository.LedgerRepository
}

func NewUserService(repo *repository.LedgerRepository) *UserService {
	return &UserService{repo: repo}
}

// List returns every registered user, newest first
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
