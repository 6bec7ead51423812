package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dues_portal_echo/internal/models"
	"dues_portal_echo/internal/repository"
)

const (
	codeLength      = 8
	codeMaxAttempts = 5
)

// CodeService issues and lists registration invite codes
type CodeService struct {
	repo    *repository.LedgerRepository
	newCode func() string
}

func NewCodeService(repo *repository.LedgerRepository) *CodeService {
	return &CodeService{repo: repo, newCode: randomCode}
}

// Generate stores a fresh unused code, optionally labelled with who it is for
func (s *CodeService) Generate(ctx context.Context, name *string) (*models.VerificationCode, error) {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			name = nil
		} else {
			name = &trimmed
		}
	}

	for attempt := 1; attempt <= codeMaxAttempts; attempt++ {
		code := s.newCode()

		existing, err := s.repo.FindVerificationCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to check code: %w", err)
		}
		if existing != nil {
			continue
		}

		vc := &models.VerificationCode{Code: code, Name: name}
		if err := s.repo.CreateVerificationCode(ctx, vc); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return nil, fmt.Errorf("failed to create code: %w", err)
		}
		return vc, nil
	}
	return nil, fmt.Errorf("failed to generate a unique code after %d attempts", codeMaxAttempts)
}

// List returns every code with the user who redeemed it, newest first
func (s *CodeService) List(ctx context.Context) ([]models.VerificationCode, error) {
	codes, err := s.repo.ListVerificationCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list codes: %w", err)
	}
	return codes, nil
}

func randomCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:codeLength])
}
