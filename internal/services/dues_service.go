package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"dues_portal_echo/internal/ledger"
	"dues_portal_echo/internal/models"
	"dues_portal_echo/internal/repository"
)

const monthlyDueLockTTL = 10 * time.Second

// DuesService lists and creates dues, raising the current month's due on demand
type DuesService struct {
	repo          *repository.LedgerRepository
	cache         *RedisCache
	monthlyAmount decimal.Decimal
	location      *time.Location
	now           func() time.Time
}

// NewDuesService creates a DuesService. cache may be nil.
func NewDuesService(repo *repository.LedgerRepository, cache *RedisCache, monthlyAmount decimal.Decimal, location *time.Location) *DuesService {
	if location == nil {
		location = time.Local
	}
	return &DuesService{
		repo:          repo,
		cache:         cache,
		monthlyAmount: monthlyAmount,
		location:      location,
		now:           time.Now,
	}
}

// EnsureMonthlyDue creates the due for the current calendar month unless it exists.
// created is false when the due was already there.
func (s *DuesService) EnsureMonthlyDue(ctx context.Context) (created bool, err error) {
	now := s.now().In(s.location)
	title := ledger.MonthlyDueTitle(now)

	existing, err := s.repo.FindDueByTitleAndType(ctx, title, models.DueTypeMonthly)
	if err != nil {
		return false, fmt.Errorf("failed to look up monthly due: %w", err)
	}
	if existing != nil {
		return false, nil
	}

	if s.cache != nil {
		release, err := s.cache.AcquireLock(ctx, "lock:monthly_due:"+title, monthlyDueLockTTL)
		if err != nil {
			log.Printf("Monthly due lock unavailable, relying on unique index: %v", err)
		} else if release == nil {
			// another instance is creating it
			return false, nil
		} else {
			defer release()
		}
	}

	description := ledger.MonthlyDueDescription(now)
	due := &models.Due{
		Title:       title,
		Description: &description,
		Amount:      s.monthlyAmount,
		Type:        models.DueTypeMonthly,
		DueDate:     ledger.EndOfMonth(now),
	}

	created, err = s.repo.CreateDueIfAbsent(ctx, due)
	if err != nil {
		return false, fmt.Errorf("failed to create monthly due: %w", err)
	}
	if created {
		log.Printf("Created automatic due: %s", title)
	}
	return created, nil
}

// List raises the monthly due if needed and returns every due, newest first
func (s *DuesService) List(ctx context.Context) ([]models.Due, error) {
	if _, err := s.EnsureMonthlyDue(ctx); err != nil {
		return nil, err
	}

	dues, err := s.repo.ListDues(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dues: %w", err)
	}
	return dues, nil
}

// CreateDueInput is what an admin supplies for a new due
type CreateDueInput struct {
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        models.DueType  `json:"type"`
	DueDate     time.Time       `json:"due_date"`
}

// Create validates and stores a new due. A due with the same title and type is a conflict.
func (s *DuesService) Create(ctx context.Context, in CreateDueInput) (*models.Due, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Type = models.DueType(strings.ToUpper(string(in.Type)))

	if in.Title == "" {
		return nil, validationError("title is required")
	}
	if !in.Amount.IsPositive() {
		return nil, validationError("amount must be greater than zero")
	}
	if !in.Type.Valid() {
		return nil, validationError("type must be MONTHLY or OCCASIONAL")
	}
	if in.DueDate.IsZero() {
		return nil, validationError("due_date is required")
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		in.Description = nil
	}

	due := &models.Due{
		Title:       in.Title,
		Description: in.Description,
		Amount:      in.Amount,
		Type:        in.Type,
		DueDate:     in.DueDate,
	}

	created, err := s.repo.CreateDueIfAbsent(ctx, due)
	if err != nil {
		return nil, fmt.Errorf("failed to create due: %w", err)
	}
	if !created {
		return nil, conflictError("a %s due titled %q already exists", strings.ToLower(string(in.Type)), in.Title)
	}
	return due, nil
}
