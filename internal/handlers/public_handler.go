package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"dues_portal_echo/internal/repository"
	"dues_portal_echo/internal/services"
)

// PublicHandler serves the endpoints that need no session
type PublicHandler struct {
	registration *services.RegistrationService
	repo         *repository.LedgerRepository
	cache        *services.RedisCache
}

func NewPublicHandler(registration *services.RegistrationService, repo *repository.LedgerRepository, cache *services.RedisCache) *PublicHandler {
	return &PublicHandler{registration: registration, repo: repo, cache: cache}
}

// Register creates a member account from an invite code
func (h *PublicHandler) Register(c echo.Context) error {
	var req services.RegisterInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, err := h.registration.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}

	log.Printf("Registered user %d (%s)", user.ID, user.Email)
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "User created successfully",
		"user":    user,
	})
}

// Health reports database and cache connectivity
func (h *PublicHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"database": "ok"}
	code := http.StatusOK

	if err := h.repo.Ping(ctx); err != nil {
		log.Printf("Health check: database unreachable: %v", err)
		status["database"] = "unreachable"
		code = http.StatusServiceUnavailable
	}

	if h.cache != nil {
		status["cache"] = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			log.Printf("Health check: redis unreachable: %v", err)
			status["cache"] = "unreachable"
		}
	}

	return c.JSON(code, status)
}
