package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dues_portal_echo/internal/ledger"
	"dues_portal_echo/internal/models"
	"dues_portal_echo/internal/testutil"
)

func TestFinanceSummary(t *testing.T) {
	repo, db := newTestRepo(t)
	svc := NewFinanceService(repo, nil, time.Minute)
	ctx := context.Background()

	ann := testutil.CreateUser(t, db, "ann")
	bob := testutil.CreateUser(t, db, "bob")
	monthly := testutil.CreateDue(t, db, "September", 200, models.DueTypeMonthly, testNow.AddDate(0, 0, -10))
	dinner := testutil.CreateDue(t, db, "Dinner", 500, models.DueTypeOccasional, testNow.AddDate(0, 0, 10))
	testutil.CreatePayment(t, db, ann.ID, monthly.ID, 200, testNow.AddDate(0, 0, -12))
	testutil.CreatePayment(t, db, bob.ID, monthly.ID, 400, testNow)
	testutil.CreatePayment(t, db, bob.ID, dinner.ID, 500, testNow)

	_, err := svc.CreateExpense(ctx, CreateExpenseInput{Title: "Hall rent", Amount: decimal.NewFromInt(300)})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, "1100", summary.TotalIncome.String())
	assert.Equal(t, "300", summary.TotalExpenses.String())
	assert.Equal(t, "800", summary.NetBalance.String())
	assert.Equal(t, "400", summary.IncomeByGroup["MONTHLY"].String())
	assert.Equal(t, "500", summary.IncomeByGroup["OCCASIONAL"].String())
	assert.Equal(t, "200", summary.IncomeByGroup[ledger.PenaltyGroup].String())
	require.Len(t, summary.Expenses, 1)
	assert.Equal(t, "Hall rent", summary.Expenses[0].Title)
}

func TestFinanceSummaryCacheInvalidatedByExpense(t *testing.T) {
	repo, _ := newTestRepo(t)
	cache, mr := newTestCache(t)
	svc := NewFinanceService(repo, cache, time.Minute)
	ctx := context.Background()

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, summary.TotalExpenses.IsZero())
	assert.True(t, mr.Exists(financeCacheKey+":v0"))

	_, err = svc.CreateExpense(ctx, CreateExpenseInput{Title: "Snacks", Amount: decimal.RequireFromString("49.50")})
	require.NoError(t, err)
	version, err := mr.Get(financeVersionKey)
	require.NoError(t, err)
	assert.Equal(t, "1", version)

	summary, err = svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "49.5", summary.TotalExpenses.String())
	assert.Equal(t, "-49.5", summary.NetBalance.String())
}

func TestCreateExpense(t *testing.T) {
	repo, _ := newTestRepo(t)
	svc := NewFinanceService(repo, nil, time.Minute)
	svc.now = testutil.FixedClock(testNow)
	ctx := context.Background()

	expense, err := svc.CreateExpense(ctx, CreateExpenseInput{Title: " Printing ", Amount: decimal.NewFromInt(20)})
	require.NoError(t, err)
	assert.Equal(t, "Printing", expense.Title)
	assert.True(t, expense.Date.Equal(testNow))

	date := testNow.AddDate(0, 0, -3)
	expense, err = svc.CreateExpense(ctx, CreateExpenseInput{Title: "Flowers", Amount: decimal.NewFromInt(20), Date: &date})
	require.NoError(t, err)
	assert.True(t, expense.Date.Equal(date))

	_, err = svc.CreateExpense(ctx, CreateExpenseInput{Title: "", Amount: decimal.NewFromInt(20)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateExpense(ctx, CreateExpenseInput{Title: "Free", Amount: decimal.Zero})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFinanceSummaryIgnoresSummaryCachedBeforeWrite(t *testing.T) {
	repo, db := newTestRepo(t)
	cache, _ := newTestCache(t)
	finance := NewFinanceService(repo, cache, time.Minute)
	payments := NewPaymentService(repo, cache)
	payments.now = testutil.FixedClock(testNow)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "ann")
	due := testutil.CreateDue(t, db, "Dinner", 300, models.DueTypeOccasional, testNow.AddDate(0, 0, 1))

	// a reader that loaded before the payment stores its result after the payment committed
	staleKey, err := financeSummaryKey(ctx, cache)
	require.NoError(t, err)
	_, err = payments.Pay(ctx, user.ID, []uint{due.ID})
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, staleKey, ledger.Finance(nil, nil), time.Minute))

	summary, err := finance.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "300", summary.TotalIncome.String())
}
