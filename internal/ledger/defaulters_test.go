package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dues_portal_echo/internal/models"
)

func TestOverdueDues(t *testing.T) {
	now := time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)
	dues := []models.Due{
		{ID: 1, DueDate: now.Add(-time.Hour)},
		{ID: 2, DueDate: now},
		{ID: 3, DueDate: now.Add(time.Hour)},
	}

	overdue := OverdueDues(dues, now)
	require.Len(t, overdue, 1)
	assert.Equal(t, uint(1), overdue[0].ID)
}

func TestFindDefaulters(t *testing.T) {
	now := time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	overdue := []models.Due{
		{ID: 1, Title: "Monthly Due - June 2026", Amount: dec(200), DueDate: yesterday},
		{ID: 2, Title: "Picnic", Amount: dec(50), DueDate: yesterday},
	}
	users := []models.User{
		{ID: 10, Name: "Ada", Email: "ada@example.com"},
		{ID: 11, Name: "Bo", Email: "bo@example.com"},
		{ID: 12, Name: "Cy", Email: "cy@example.com"},
	}
	paid := map[uint]map[uint]bool{
		11: {1: true},
		12: {1: true, 2: true},
	}

	defaulters := FindDefaulters(overdue, users, paid)

	require.Len(t, defaulters, 2)
	assert.Equal(t, uint(10), defaulters[0].ID)
	assert.Equal(t, "250", defaulters[0].AmountOwed.String())
	assert.Equal(t, 2, defaulters[0].OverdueCount)

	assert.Equal(t, uint(11), defaulters[1].ID)
	assert.Equal(t, "50", defaulters[1].AmountOwed.String(), "owed uses the original amount, not the penalty")
	assert.Equal(t, 1, defaulters[1].OverdueCount)
	require.Len(t, defaulters[1].OverdueDues, 1)
	assert.Equal(t, "Picnic", defaulters[1].OverdueDues[0].Title)
}

func TestFindDefaultersWithoutOverdueDues(t *testing.T) {
	defaulters := FindDefaulters(nil, []models.User{{ID: 1}}, nil)
	assert.NotNil(t, defaulters)
	assert.Empty(t, defaulters)
}
