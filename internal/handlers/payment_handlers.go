package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"dues_portal_echo/internal/middleware"
	"dues_portal_echo/internal/services"
)

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// ListPayments returns the member's payment history
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	payments, err := h.payments.History(c.Request().Context(), getUintFromContext(c, middleware.ContextUserID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payments)
}

type payRequest struct {
	DueID  uint   `json:"due_id"`
	DueIDs []uint `json:"due_ids"`
}

// Pay records payments for one due (due_id) or several (due_ids)
func (h *PaymentHandler) Pay(c echo.Context) error {
	var req payRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	ids := req.DueIDs
	if len(ids) == 0 && req.DueID != 0 {
		ids = []uint{req.DueID}
	}

	count, err := h.payments.Pay(c.Request().Context(), getUintFromContext(c, middleware.ContextUserID), ids)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Payment successful",
		"count":   count,
	})
}
