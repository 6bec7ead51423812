package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"dues_portal_echo/internal/services"
)

type FinanceHandler struct {
	finance  *services.FinanceService
	location *time.Location
}

func NewFinanceHandler(finance *services.FinanceService, location *time.Location) *FinanceHandler {
	if location == nil {
		location = time.Local
	}
	return &FinanceHandler{finance: finance, location: location}
}

// Summary returns income by group, expenses and the net balance
func (h *FinanceHandler) Summary(c echo.Context) error {
	summary, err := h.finance.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

type createExpenseRequest struct {
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description"`
	Date        string          `json:"date"`
}

// StoreExpense records an expense
func (h *FinanceHandler) StoreExpense(c echo.Context) error {
	var req createExpenseRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	input := services.CreateExpenseInput{
		Title:       req.Title,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Date != "" {
		date, err := parseDate(req.Date, h.location)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid date, use YYYY-MM-DD or RFC 3339")
		}
		input.Date = &date
	}

	expense, err := h.finance.CreateExpense(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, expense)
}
