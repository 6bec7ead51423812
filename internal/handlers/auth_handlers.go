package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"dues_portal_echo/internal/middleware"
	"dues_portal_echo/internal/models"
	"dues_portal_echo/internal/services"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	auth         *services.AuthService
	sessionTTL   time.Duration
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *services.AuthService, sessionTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, sessionTTL: sessionTTL, secureCookie: secureCookie}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// HandleLogin checks email and password and sets the session cookie
func (h *AuthHandler) HandleLogin(c echo.Context) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	token, user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.startSession(c, token, user)
}

type firebaseLoginRequest struct {
	IDToken string `json:"id_token"`
}

// HandleFirebaseLogin verifies a Firebase ID token (body or Bearer header) and
// signs in the local account with the same email
func (h *AuthHandler) HandleFirebaseLogin(c echo.Context) error {
	var req firebaseLoginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	if req.IDToken == "" {
		authHeader := c.Request().Header.Get("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString != authHeader {
			req.IDToken = tokenString
		}
	}

	token, user, err := h.auth.LoginWithIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return err
	}
	return h.startSession(c, token, user)
}

// HandleLogout clears the session cookie
func (h *AuthHandler) HandleLogout(c echo.Context) error {
	middleware.ClearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the identity carried by the current session
func (h *AuthHandler) Me(c echo.Context) error {
	role, _ := c.Get(middleware.ContextUserRole).(models.UserRole)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":    getUintFromContext(c, middleware.ContextUserID),
		"email": getStringFromContext(c, middleware.ContextUserEmail),
		"role":  role,
	})
}

func (h *AuthHandler) startSession(c echo.Context, token string, user *models.User) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
	return c.JSON(http.StatusOK, sessionResponse{Token: token, User: user})
}
