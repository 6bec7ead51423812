package handlers

import (
	"github.com/labstack/echo/v4"

	"dues_portal_echo/internal/middleware"
	"dues_portal_echo/internal/services"
)

// Handlers bundles every handler the API serves
type Handlers struct {
	Auth      *AuthHandler
	Public    *PublicHandler
	Dues      *DuesHandler
	Payments  *PaymentHandler
	Dashboard *DashboardHandler
	Finance   *FinanceHandler
	Reminders *ReminderHandler
	Users     *UserHandler
}

// SetupRoutes registers public, member and admin routes on e
func SetupRoutes(e *echo.Echo, h Handlers, sessions *services.SessionManager) {
	// Public routes
	e.GET("/healthz", h.Public.Health)
	e.GET("/dues", h.Dues.ListDues)
	e.POST("/register", h.Public.Register)

	auth := e.Group("/auth")
	auth.POST("/login", h.Auth.HandleLogin)
	auth.POST("/firebase", h.Auth.HandleFirebaseLogin)
	auth.POST("/logout", h.Auth.HandleLogout)

	// Member routes. Middleware is attached per route so unknown paths stay 404.
	requireAuth := middleware.RequireAuth(sessions)
	requireAdmin := middleware.RequireAdmin()

	e.GET("/auth/me", h.Auth.Me, requireAuth)
	e.GET("/dashboard", h.Dashboard.Dashboard, requireAuth)
	e.GET("/payments", h.Payments.ListPayments, requireAuth)
	e.POST("/payments", h.Payments.Pay, requireAuth)
	e.GET("/notifications", h.Users.ListNotifications, requireAuth)
	e.PUT("/notifications", h.Users.MarkNotificationsRead, requireAuth)

	// Admin routes
	e.POST("/dues", h.Dues.StoreDue, requireAuth, requireAdmin)

	admin := e.Group("/admin", requireAuth, requireAdmin)
	admin.GET("/finances", h.Finance.Summary)
	admin.POST("/finances", h.Finance.StoreExpense)
	admin.GET("/reminders", h.Reminders.ListDefaulters)
	admin.POST("/reminders", h.Reminders.SendReminders)
	admin.POST("/broadcast", h.Reminders.Broadcast)
	admin.GET("/codes", h.Users.ListCodes)
	admin.POST("/codes", h.Users.GenerateCode)
	admin.GET("/users", h.Users.ListUsers)
}
