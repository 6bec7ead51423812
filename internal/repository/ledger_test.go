package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dues_portal_echo/internal/models"
	"dues_portal_echo/internal/testutil"
)

var baseTime = time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)

func TestCreateDueIfAbsent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	first := &models.Due{Title: "Monthly Due - October 2026", Amount: decimal.NewFromInt(200), Type: models.DueTypeMonthly, DueDate: baseTime}
	created, err := repo.CreateDueIfAbsent(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	dup := &models.Due{Title: "Monthly Due - October 2026", Amount: decimal.NewFromInt(300), Type: models.DueTypeMonthly, DueDate: baseTime}
	created, err = repo.CreateDueIfAbsent(ctx, dup)
	require.NoError(t, err)
	assert.False(t, created)

	// same title, different type is a different due
	other := &models.Due{Title: "Monthly Due - October 2026", Amount: decimal.NewFromInt(300), Type: models.DueTypeOccasional, DueDate: baseTime}
	created, err = repo.CreateDueIfAbsent(ctx, other)
	require.NoError(t, err)
	assert.True(t, created)

	found, err := repo.FindDueByTitleAndType(ctx, "Monthly Due - October 2026", models.DueTypeMonthly)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "200", found.Amount.String())

	missing, err := repo.FindDueByTitleAndType(ctx, "Nope", models.DueTypeMonthly)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListDuesNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewLedgerRepository(db)

	a := testutil.CreateDue(t, db, "A", 100, models.DueTypeOccasional, baseTime)
	b := testutil.CreateDue(t, db, "B", 100, models.DueTypeOccasional, baseTime)

	dues, err := repo.ListDues(context.Background())
	require.NoError(t, err)
	require.Len(t, dues, 2)
	assert.Equal(t, b.ID, dues[0].ID)
	assert.Equal(t, a.ID, dues[1].ID)

	byIDs, err := repo.FindDuesByIDs(context.Background(), []uint{a.ID, 999})
	require.NoError(t, err)
	require.Len(t, byIDs, 1)
	assert.Equal(t, "A", byIDs[0].Title)
}

func TestCreatePaymentsSkipsExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "ann")
	d1 := testutil.CreateDue(t, db, "D1", 200, models.DueTypeOccasional, baseTime)
	d2 := testutil.CreateDue(t, db, "D2", 300, models.DueTypeOccasional, baseTime)
	testutil.CreatePayment(t, db, user.ID, d1.ID, 200, baseTime)

	inserted, err := repo.CreatePayments(ctx, []models.Payment{
		{UserID: user.ID, DueID: d1.ID, Amount: decimal.NewFromInt(999), Status: models.PaymentStatusCompleted, PaidAt: baseTime},
		{UserID: user.ID, DueID: d2.ID, Amount: decimal.NewFromInt(300), Status: models.PaymentStatusCompleted, PaidAt: baseTime},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, inserted)

	payments, err := repo.ListPaymentsForDues(ctx, user.ID, []uint{d1.ID, d2.ID})
	require.NoError(t, err)
	require.Len(t, payments, 2)
	for _, p := range payments {
		if p.DueID == d1.ID {
			assert.Equal(t, "200", p.Amount.String(), "existing payment must not be overwritten")
		}
	}
}

func TestListPaymentHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewLedgerRepository(db)

	user := testutil.CreateUser(t, db, "ann")
	other := testutil.CreateUser(t, db, "bob")
	d1 := testutil.CreateDue(t, db, "D1", 200, models.DueTypeOccasional, baseTime)
	d2 := testutil.CreateDue(t, db, "D2", 0, models.DueTypeOccasional, baseTime)
	testutil.CreatePayment(t, db, user.ID, d1.ID, 200, baseTime)
	testutil.CreatePayment(t, db, user.ID, d2.ID, 0, baseTime.Add(time.Hour))
	testutil.CreatePayment(t, db, other.ID, d1.ID, 200, baseTime)

	history, err := repo.ListPaymentHistory(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].Due)
	assert.Equal(t, "D1", history[0].Due.Title)
}

func TestPaidDueIDsByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewLedgerRepository(db)

	ann := testutil.CreateUser(t, db, "ann")
	bob := testutil.CreateUser(t, db, "bob")
	d1 := testutil.CreateDue(t, db, "D1", 200, models.DueTypeOccasional, baseTime)
	d2 := testutil.CreateDue(t, db, "D2", 200, models.DueTypeOccasional, baseTime)
	testutil.CreatePayment(t, db, ann.ID, d1.ID, 200, baseTime)
	testutil.CreatePayment(t, db, ann.ID, d2.ID, 200, baseTime)

	paid, err := repo.PaidDueIDsByUser(context.Background(), []uint{ann.ID, bob.ID})
	require.NoError(t, err)
	assert.True(t, paid[ann.ID][d1.ID])
	assert.True(t, paid[ann.ID][d2.ID])
	assert.Empty(t, paid[bob.ID])
}

func TestNotifications(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	ann := testutil.CreateUser(t, db, "ann")
	bob := testutil.CreateUser(t, db, "bob")
	require.NoError(t, repo.CreateNotifications(ctx, []models.Notification{
		{UserID: ann.ID, Title: "one", Message: "m"},
		{UserID: ann.ID, Title: "two", Message: "m"},
		{UserID: bob.ID, Title: "three", Message: "m"},
	}))

	unread, err := repo.CountUnreadNotifications(ctx, ann.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	list, err := repo.ListNotifications(ctx, ann.ID, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "two", list[0].Title)

	// another user's notification cannot be marked
	var bobs models.Notification
	require.NoError(t, db.Where("user_id = ?", bob.ID).First(&bobs).Error)
	n, err := repo.MarkNotificationRead(ctx, ann.ID, bobs.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	n, err = repo.MarkAllNotificationsRead(ctx, ann.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	unread, err = repo.CountUnreadNotifications(ctx, ann.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	unread, err = repo.CountUnreadNotifications(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)
}

func TestConsumeVerificationCodeOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	ann := testutil.CreateUser(t, db, "ann")
	bob := testutil.CreateUser(t, db, "bob")
	code := &models.VerificationCode{Code: "ABCD1234"}
	require.NoError(t, repo.CreateVerificationCode(ctx, code))

	ok, err := repo.ConsumeVerificationCode(ctx, code.ID, ann.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ConsumeVerificationCode(ctx, code.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	codes, err := repo.ListVerificationCodes(ctx)
	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.True(t, codes[0].IsUsed)
	require.NotNil(t, codes[0].UsedByUser)
	assert.Equal(t, ann.Email, codes[0].UsedByUser.Email)
}

func TestTransactionRollsBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(tx *LedgerRepository) error {
		if err := tx.CreateUser(ctx, &models.User{Name: "ghost", Email: "ghost@example.com", Password: "x"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	user, err := repo.FindUserByEmail(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestListPendingTasks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	due := &models.ScheduledTask{TaskName: "log_info", Due: baseTime.Add(-time.Minute), Status: models.ScheduledTaskStatusActive, TaskType: models.ScheduledTaskTypeOneTime}
	later := &models.ScheduledTask{TaskName: "log_info", Due: baseTime.Add(time.Hour), Status: models.ScheduledTaskStatusActive, TaskType: models.ScheduledTaskTypeOneTime}
	done := &models.ScheduledTask{TaskName: "log_info", Due: baseTime.Add(-time.Hour), Status: models.ScheduledTaskStatusDone, TaskType: models.ScheduledTaskTypeOneTime}
	for _, task := range []*models.ScheduledTask{due, later, done} {
		require.NoError(t, repo.CreateScheduledTask(ctx, task))
	}

	tasks, err := repo.ListPendingTasks(ctx, baseTime)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, due.ID, tasks[0].ID)

	require.NoError(t, repo.UpdateScheduledTask(ctx, &tasks[0], map[string]interface{}{"status": models.ScheduledTaskStatusDone}))
	tasks, err = repo.ListPendingTasks(ctx, baseTime)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
