// Package repository is the persistence layer for dues, payments, expenses,
// users, notifications, invite codes and scheduled tasks.
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dues_portal_echo/internal/models"
)

// LedgerRepository wraps a gorm handle. Inside Transaction the handle is the transaction.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// DB exposes the underlying handle for callers that need raw access (health checks, the worker)
func (r *LedgerRepository) DB() *gorm.DB {
	return r.db
}

// Transaction runs fn against a repository bound to a single database transaction.
// Returning an error from fn rolls everything back.
func (r *LedgerRepository) Transaction(ctx context.Context, fn func(tx *LedgerRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LedgerRepository{db: tx})
	})
}

// Ping checks the database connection
func (r *LedgerRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *LedgerRepository) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func notFoundAsNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// --- Dues ---

// FindDueByTitleAndType returns nil when no such due exists
func (r *LedgerRepository) FindDueByTitleAndType(ctx context.Context, title string, dueType models.DueType) (*models.Due, error) {
	var due models.Due
	err := r.conn(ctx).Where("title = ? AND type = ?", title, dueType).First(&due).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &due, nil
}

// CreateDueIfAbsent inserts due unless one with the same (title, type) exists.
// The unique index makes this safe under concurrent callers.
func (r *LedgerRepository) CreateDueIfAbsent(ctx context.Context, due *models.Due) (bool, error) {
	result := r.conn(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(due)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *LedgerRepository) CreateDue(ctx context.Context, due *models.Due) error {
	return r.conn(ctx).Create(due).Error
}

// ListDues returns every due, newest first
func (r *LedgerRepository) ListDues(ctx context.Context) ([]models.Due, error) {
	var dues []models.Due
	err := r.conn(ctx).Order("created_at desc").Order("id desc").Find(&dues).Error
	return dues, err
}

func (r *LedgerRepository) FindDuesByIDs(ctx context.Context, ids []uint) ([]models.Due, error) {
	var dues []models.Due
	if len(ids) == 0 {
		return dues, nil
	}
	err := r.conn(ctx).Where("id IN ?", ids).Order("id").Find(&dues).Error
	return dues, err
}

// --- Payments ---

// ListCompletedPaymentsByUser returns the user's completed payments
func (r *LedgerRepository) ListCompletedPaymentsByUser(ctx context.Context, userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.conn(ctx).
		Where("user_id = ? AND status = ?", userID, models.PaymentStatusCompleted).
		Order("paid_at desc").
		Find(&payments).Error
	return payments, err
}

// ListPaymentsForDues returns the user's payments against any of dueIDs
func (r *LedgerRepository) ListPaymentsForDues(ctx context.Context, userID uint, dueIDs []uint) ([]models.Payment, error) {
	var payments []models.Payment
	if len(dueIDs) == 0 {
		return payments, nil
	}
	err := r.conn(ctx).Where("user_id = ? AND due_id IN ?", userID, dueIDs).Find(&payments).Error
	return payments, err
}

// CreatePayments inserts payments, skipping any (user, due) pair that already has one.
// It returns how many rows were inserted.
func (r *LedgerRepository) CreatePayments(ctx context.Context, payments []models.Payment) (int64, error) {
	if len(payments) == 0 {
		return 0, nil
	}
	result := r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "due_id"}},
			DoNothing: true,
		}).
		Create(&payments)
	return result.RowsAffected, result.Error
}

// ListPaymentHistory returns the user's non-zero payments with their due, newest first
func (r *LedgerRepository) ListPaymentHistory(ctx context.Context, userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.conn(ctx).
		Preload("Due", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("user_id = ? AND amount > ?", userID, 0).
		Order("paid_at desc").
		Find(&payments).Error
	return payments, err
}

// ListCompletedPaymentsWithDue returns every completed payment with its due preloaded
func (r *LedgerRepository) ListCompletedPaymentsWithDue(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.conn(ctx).
		Preload("Due", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("status = ?", models.PaymentStatusCompleted).
		Find(&payments).Error
	return payments, err
}

// PaidDueIDsByUser maps user id to the set of due ids that user has completed payments for
func (r *LedgerRepository) PaidDueIDsByUser(ctx context.Context, userIDs []uint) (map[uint]map[uint]bool, error) {
	paid := make(map[uint]map[uint]bool)
	if len(userIDs) == 0 {
		return paid, nil
	}

	type row struct {
		UserID uint
		DueID  uint
	}
	var rows []row
	err := r.conn(ctx).Model(&models.Payment{}).
		Select("user_id, due_id").
		Where("status = ? AND user_id IN ?", models.PaymentStatusCompleted, userIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, rw := range rows {
		if paid[rw.UserID] == nil {
			paid[rw.UserID] = make(map[uint]bool)
		}
		paid[rw.UserID][rw.DueID] = true
	}
	return paid, nil
}

// --- Expenses ---

func (r *LedgerRepository) CreateExpense(ctx context.Context, expense *models.Expense) error {
	return r.conn(ctx).Create(expense).Error
}

// ListExpenses returns every expense, most recent date first
func (r *LedgerRepository) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.conn(ctx).Order("date desc").Order("id desc").Find(&expenses).Error
	return expenses, err
}

// --- Users ---

func (r *LedgerRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.conn(ctx).Order("created_at desc").Order("id desc").Find(&users).Error
	return users, err
}

// FindUserByID returns nil when the user does not exist
func (r *LedgerRepository) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.conn(ctx).First(&user, id).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &user, nil
}

// FindUserByEmail returns nil when no user has that email
func (r *LedgerRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.conn(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &user, nil
}

func (r *LedgerRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.conn(ctx).Create(user).Error
}

// --- Notifications ---

// CreateNotifications inserts all notifications in batches
func (r *LedgerRepository) CreateNotifications(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.conn(ctx).CreateInBatches(&notifications, 500).Error
}

// ListNotifications returns the user's notifications, newest first. limit <= 0 means all.
func (r *LedgerRepository) ListNotifications(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	query := r.conn(ctx).Where("user_id = ?", userID).Order("created_at desc").Order("id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&notifications).Error
	return notifications, err
}

func (r *LedgerRepository) CountUnreadNotifications(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkNotificationRead marks one of the user's notifications read and returns rows matched
func (r *LedgerRepository) MarkNotificationRead(ctx context.Context, userID, id uint) (int64, error) {
	result := r.conn(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

// MarkAllNotificationsRead marks every unread notification of the user read
func (r *LedgerRepository) MarkAllNotificationsRead(ctx context.Context, userID uint) (int64, error) {
	result := r.conn(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

// --- Verification codes ---

func (r *LedgerRepository) CreateVerificationCode(ctx context.Context, code *models.VerificationCode) error {
	return r.conn(ctx).Create(code).Error
}

// FindVerificationCode returns nil when the code does not exist
func (r *LedgerRepository) FindVerificationCode(ctx context.Context, code string) (*models.VerificationCode, error) {
	var vc models.VerificationCode
	if err := r.conn(ctx).Where("code = ?", code).First(&vc).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &vc, nil
}

// ListVerificationCodes returns all codes with the redeeming user, newest first
func (r *LedgerRepository) ListVerificationCodes(ctx context.Context) ([]models.VerificationCode, error) {
	var codes []models.VerificationCode
	err := r.conn(ctx).Preload("UsedByUser").Order("created_at desc").Order("id desc").Find(&codes).Error
	return codes, err
}

// ConsumeVerificationCode flips an unused code to used by userID.
// It reports false when the code was already used, so two registrations cannot share a code.
func (r *LedgerRepository) ConsumeVerificationCode(ctx context.Context, id, userID uint) (bool, error) {
	result := r.conn(ctx).Model(&models.VerificationCode{}).
		Where("id = ? AND is_used = ?", id, false).
		Updates(map[string]interface{}{
			"is_used":         true,
			"used_by_user_id": userID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// --- Scheduled tasks ---

// ListPendingTasks returns active tasks whose due time has arrived
func (r *LedgerRepository) ListPendingTasks(ctx context.Context, now time.Time) ([]models.ScheduledTask, error) {
	var tasks []models.ScheduledTask
	err := r.conn(ctx).
		Where("status = ? AND due <= ?", models.ScheduledTaskStatusActive, now).
		Order("due").
		Find(&tasks).Error
	return tasks, err
}

func (r *LedgerRepository) CreateScheduledTask(ctx context.Context, task *models.ScheduledTask) error {
	return r.conn(ctx).Create(task).Error
}

func (r *LedgerRepository) UpdateScheduledTask(ctx context.Context, task *models.ScheduledTask, updates map[string]interface{}) error {
	return r.conn(ctx).Model(task).Updates(updates).Error
}

func (r *LedgerRepository) CreateTaskHistory(ctx context.Context, history *models.ScheduledTaskHistory) error {
	return r.conn(ctx).Create(history).Error
}
