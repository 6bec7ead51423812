// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"dues_portal_echo/internal/models"
)

// SetupTestDB opens a private in-memory SQLite database with every model migrated.
// A single connection is used so the in-memory database lives as long as the test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "Failed to open SQLite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...), "Failed to migrate test schema")
	return db
}

// CreateUser inserts a member with a unique email
func CreateUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "not-a-real-hash",
		Role:     models.UserRoleMember,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateAdmin inserts an admin user
func CreateAdmin(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := CreateUser(t, db, name)
	require.NoError(t, db.Model(&user).Update("role", models.UserRoleAdmin).Error)
	user.Role = models.UserRoleAdmin
	return user
}

// CreateDue inserts a due with the given amount and due date
func CreateDue(t *testing.T, db *gorm.DB, title string, amount int64, dueType models.DueType, dueDate time.Time) models.Due {
	t.Helper()
	due := models.Due{
		Title:   title,
		Amount:  decimal.NewFromInt(amount),
		Type:    dueType,
		DueDate: dueDate,
	}
	require.NoError(t, db.Create(&due).Error)
	return due
}

// CreatePayment inserts a completed payment
func CreatePayment(t *testing.T, db *gorm.DB, userID, dueID uint, amount int64, paidAt time.Time) models.Payment {
	t.Helper()
	payment := models.Payment{
		UserID: userID,
		DueID:  dueID,
		Amount: decimal.NewFromInt(amount),
		Status: models.PaymentStatusCompleted,
		PaidAt: paidAt,
	}
	require.NoError(t, db.Create(&payment).Error)
	return payment
}

// FixedClock returns a clock function frozen at t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
