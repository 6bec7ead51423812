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

const (
	financeCacheKey   = "finance:summary"
	financeVersionKey = "finance:summary:version"
)

// financeSummaryKey namespaces the cached summary by the current write version.
// A summary computed before a write is stored under the old version and never served after it.
func financeSummaryKey(ctx context.Context, cache *RedisCache) (string, error) {
	if cache == nil {
		return financeCacheKey, nil
	}
	version, err := cache.Version(ctx, financeVersionKey)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d", financeCacheKey, version), nil
}

// FinanceService reports association income and expenses and records expenses
type FinanceService struct {
	repo     *repository.LedgerRepository
	cache    *RedisCache
	cacheTTL time.Duration
	now      func() time.Time
}

// NewFinanceService creates a FinanceService. With a nil cache every call recomputes.
func NewFinanceService(repo *repository.LedgerRepository, cache *RedisCache, cacheTTL time.Duration) *FinanceService {
	return &FinanceService{repo: repo, cache: cache, cacheTTL: cacheTTL, now: time.Now}
}

// Summary aggregates all completed payments and expenses
func (s *FinanceService) Summary(ctx context.Context) (ledger.FinanceSummary, error) {
	key, err := financeSummaryKey(ctx, s.cache)
	if err != nil {
		log.Printf("Cache version read failed, computing finance summary directly: %v", err)
		return s.compute(ctx)
	}
	return GetOrSet(s.cache, ctx, key, s.cacheTTL, func() (ledger.FinanceSummary, error) {
		return s.compute(ctx)
	})
}

func (s *FinanceService) compute(ctx context.Context) (ledger.FinanceSummary, error) {
	payments, err := s.repo.ListCompletedPaymentsWithDue(ctx)
	if err != nil {
		return ledger.FinanceSummary{}, fmt.Errorf("failed to load payments: %w", err)
	}
	expenses, err := s.repo.ListExpenses(ctx)
	if err != nil {
		return ledger.FinanceSummary{}, fmt.Errorf("failed to load expenses: %w", err)
	}
	return ledger.Finance(payments, expenses), nil
}

// CreateExpenseInput is what an admin supplies for a new expense
type CreateExpenseInput struct {
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description"`
	Date        *time.Time      `json:"date"`
}

// CreateExpense validates and stores an expense. Date defaults to now.
func (s *FinanceService) CreateExpense(ctx context.Context, in CreateExpenseInput) (*models.Expense, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, validationError("title is required")
	}
	if !in.Amount.IsPositive() {
		return nil, validationError("amount must be greater than zero")
	}

	date := s.now()
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}

	expense := &models.Expense{
		Title:       title,
		Amount:      in.Amount,
		Description: in.Description,
		Date:        date,
	}
	if err := s.repo.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.cache.BumpVersion(ctx, financeVersionKey)
	return expense, nil
}
