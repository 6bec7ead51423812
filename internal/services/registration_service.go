package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"dues_portal_echo/internal/models"
	"dues_portal_echo/internal/repository"
)

const minPasswordLength = 8

// RegisterInput is a self-service sign-up with an invite code
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

// RegistrationService creates member accounts from invite codes
type RegistrationService struct {
	repo *repository.LedgerRepository
}

func NewRegistrationService(repo *repository.LedgerRepository) *RegistrationService {
	return &RegistrationService{repo: repo}
}

// Register creates the user and consumes the code in one transaction
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	code := strings.ToUpper(strings.TrimSpace(in.Code))

	if email == "" || in.Password == "" || code == "" {
		return nil, validationError("email, password and code are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validationError("invalid email address")
	}
	if len(in.Password) < minPasswordLength {
		return nil, validationError("password must be at least %d characters", minPasswordLength)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: hash,
		Role:     models.UserRoleMember,
	}

	err = s.repo.Transaction(ctx, func(tx *repository.LedgerRepository) error {
		vc, err := tx.FindVerificationCode(ctx, code)
		if err != nil {
			return fmt.Errorf("failed to look up code: %w", err)
		}
		if vc == nil {
			return notFoundError("invalid code")
		}
		if vc.IsUsed {
			return conflictError("code already used")
		}

		existing, err := tx.FindUserByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("failed to look up user: %w", err)
		}
		if existing != nil {
			return conflictError("user already exists")
		}

		if err := tx.CreateUser(ctx, user); err != nil {
			// a concurrent registration took the email after the lookup
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflictError("user already exists")
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		consumed, err := tx.ConsumeVerificationCode(ctx, vc.ID, user.ID)
		if err != nil {
			return fmt.Errorf("failed to consume code: %w", err)
		}
		if !consumed {
			return conflictError("code already used")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword compares a bcrypt hash with a plaintext password
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
