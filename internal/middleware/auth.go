package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"dues_portal_echo/internal/models"
	"dues_portal_echo/internal/services"
)

// SessionCookie is the cookie carrying the session token
const SessionCookie = "session"

// Context keys set by RequireAuth
const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
	ContextUserRole  = "userRole"
)

// RequireAuth returns a middleware that verifies the session token from the
// session cookie or an Authorization: Bearer header.
func RequireAuth(sessions *services.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if sessions == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "sessions are not configured")
			}

			token := sessionToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Please log in to continue.")
			}

			claims, err := sessions.Validate(token)
			if err != nil {
				// Invalid session, clear cookie
				ClearSessionCookie(c)
				return echo.NewHTTPError(http.StatusUnauthorized, "Your session has expired. Please log in again.")
			}

			// Set user info in context for downstream handlers
			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextUserEmail, claims.Email)
			c.Set(ContextUserRole, claims.Role)

			return next(c)
		}
	}
}

// RequireAdmin rejects sessions without the admin role. It must run after RequireAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextUserRole).(models.UserRole)
			if role != models.UserRoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "You don't have permission to access this resource.")
			}
			return next(c)
		}
	}
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	})
}

func sessionToken(c echo.Context) string {
	if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}
