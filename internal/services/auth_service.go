package services

import (
	"context"
	"fmt"
	"log"

	"dues_portal_echo/internal/models"
	"dues_portal_echo/internal/repository"
)

// AuthService signs users in and issues session tokens
type AuthService struct {
	repo     *repository.LedgerRepository
	sessions *SessionManager
	verifier IDTokenVerifier
}

// NewAuthService creates an AuthService. verifier may be nil when external login is off.
func NewAuthService(repo *repository.LedgerRepository, sessions *SessionManager, verifier IDTokenVerifier) *AuthService {
	return &AuthService{repo: repo, sessions: sessions, verifier: verifier}
}

// Login checks email and password and returns a session token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, validationError("email and password are required")
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !CheckPassword(user.Password, password) {
		return "", nil, unauthorizedError("invalid email or password")
	}

	return s.issue(user)
}

// LoginWithIDToken verifies an identity-provider ID token and signs in the
// local user with the same email. Unknown emails are rejected; accounts are
// only created through invite codes.
func (s *AuthService) LoginWithIDToken(ctx context.Context, idToken string) (string, *models.User, error) {
	if s.verifier == nil {
		return "", nil, unauthorizedError("external login is not configured")
	}
	if idToken == "" {
		return "", nil, validationError("id_token is required")
	}

	token, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		log.Printf("ID token verification failed: %v", err)
		return "", nil, unauthorizedError("invalid ID token")
	}

	email, _ := token.Claims["email"].(string)
	email = normalizeEmail(email)
	if email == "" {
		return "", nil, unauthorizedError("ID token has no email")
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return "", nil, unauthorizedError("no account for " + email)
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (string, *models.User, error) {
	token, err := s.sessions.Issue(*user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
