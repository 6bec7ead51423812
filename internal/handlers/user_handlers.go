package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"dues_portal_echo/internal/middleware"
	"dues_portal_echo/internal/services"
)

type UserHandler struct {
	users         *services.UserService
	codes         *services.CodeService
	notifications *services.NotificationService
}

func NewUserHandler(users *services.UserService, codes *services.CodeService, notifications *services.NotificationService) *UserHandler {
	return &UserHandler{users: users, codes: codes, notifications: notifications}
}

// ListUsers returns the member roster
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// ListCodes returns every invite code
func (h *UserHandler) ListCodes(c echo.Context) error {
	codes, err := h.codes.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, codes)
}

type generateCodeRequest struct {
	Name *string `json:"name"`
}

// GenerateCode issues a new invite code
func (h *UserHandler) GenerateCode(c echo.Context) error {
	var req generateCodeRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	code, err := h.codes.Generate(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, code)
}

// ListNotifications returns the member's notifications
func (h *UserHandler) ListNotifications(c echo.Context) error {
	list, err := h.notifications.List(c.Request().Context(), getUintFromContext(c, middleware.ContextUserID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

type markReadRequest struct {
	ID *uint `json:"id"`
}

// MarkNotificationsRead marks one notification (id in body or ?id=) or all of them read
func (h *UserHandler) MarkNotificationsRead(c echo.Context) error {
	var req markReadRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	if req.ID == nil {
		if idStr := c.QueryParam("id"); idStr != "" {
			id, err := strconv.ParseUint(idStr, 10, 32)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
			}
			v := uint(id)
			req.ID = &v
		}
	}

	updated, err := h.notifications.MarkRead(c.Request().Context(), getUintFromContext(c, middleware.ContextUserID), req.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"updated": updated})
}
