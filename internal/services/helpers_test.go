package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"dues_portal_echo/internal/repository"
	"dues_portal_echo/internal/testutil"
)

// mid-month, well before the October due date
var testNow = time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) (*repository.LedgerRepository, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return repository.NewLedgerRepository(db), db
}
