package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"dues_portal_echo/internal/services"
)

type ReminderHandler struct {
	reminders *services.ReminderService
	broadcast *services.BroadcastService
}

func NewReminderHandler(reminders *services.ReminderService, broadcast *services.BroadcastService) *ReminderHandler {
	return &ReminderHandler{reminders: reminders, broadcast: broadcast}
}

// ListDefaulters returns members with unpaid overdue dues
func (h *ReminderHandler) ListDefaulters(c echo.Context) error {
	defaulters, err := h.reminders.Defaulters(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, defaulters)
}

type sendReminderRequest struct {
	UserID *uint `json:"user_id"`
}

// SendReminders emails one defaulter (user_id) or all of them
func (h *ReminderHandler) SendReminders(c echo.Context) error {
	var req sendReminderRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	result, err := h.reminders.Send(c.Request().Context(), req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

type broadcastRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Broadcast notifies and emails every user
func (h *ReminderHandler) Broadcast(c echo.Context) error {
	var req broadcastRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	result, err := h.broadcast.Broadcast(c.Request().Context(), req.Title, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}
