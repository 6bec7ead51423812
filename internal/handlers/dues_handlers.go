package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"dues_portal_echo/internal/ledger"
	"dues_portal_echo/internal/models"
	"dues_portal_echo/internal/services"
)

type DuesHandler struct {
	dues     *services.DuesService
	location *time.Location
}

func NewDuesHandler(dues *services.DuesService, location *time.Location) *DuesHandler {
	if location == nil {
		location = time.Local
	}
	return &DuesHandler{dues: dues, location: location}
}

// ListDues returns every due, raising this month's due first if needed
func (h *DuesHandler) ListDues(c echo.Context) error {
	dues, err := h.dues.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dues)
}

type createDueRequest struct {
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        models.DueType  `json:"type"`
	DueDate     string          `json:"due_date"`
}

// StoreDue creates a due. due_date accepts RFC 3339 or YYYY-MM-DD (end of that day).
func (h *DuesHandler) StoreDue(c echo.Context) error {
	var req createDueRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	var dueDate time.Time
	if req.DueDate != "" {
		parsed, err := parseDate(req.DueDate, h.location)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid due_date, use YYYY-MM-DD or RFC 3339")
		}
		dueDate = parsed
	}

	due, err := h.dues.Create(c.Request().Context(), services.CreateDueInput{
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
		DueDate:     dueDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, due)
}

func parseDate(value string, location *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, location)
	if err != nil {
		return time.Time{}, err
	}
	return ledger.EndOfDay(t), nil
}
