package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"dues_portal_echo/internal/models"
)

// Defaulter is a user with at least one unpaid due past its due date.
// AmountOwed sums the original due amounts, without the overdue penalty.
type Defaulter struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	AmountOwed   decimal.Decimal `json:"amount_owed"`
	OverdueCount int             `json:"overdue_count"`
	OverdueDues  []models.Due    `json:"-"`
}

// OverdueDues returns the dues whose due date is strictly before now
func OverdueDues(dues []models.Due, now time.Time) []models.Due {
	overdue := make([]models.Due, 0, len(dues))
	for _, d := range dues {
		if IsPastDue(d, now) {
			overdue = append(overdue, d)
		}
	}
	return overdue
}

// FindDefaulters matches overdue dues against the due ids each user has paid.
// Users are reported in the order given.
func FindDefaulters(overdue []models.Due, users []models.User, paidDueIDs map[uint]map[uint]bool) []Defaulter {
	defaulters := []Defaulter{}
	if len(overdue) == 0 {
		return defaulters
	}

	for _, u := range users {
		paid := paidDueIDs[u.ID]

		var unpaid []models.Due
		owed := decimal.Zero
		for _, d := range overdue {
			if paid[d.ID] {
				continue
			}
			unpaid = append(unpaid, d)
			owed = owed.Add(d.Amount)
		}

		if len(unpaid) == 0 {
			continue
		}
		defaulters = append(defaulters, Defaulter{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			AmountOwed:   owed,
			OverdueCount: len(unpaid),
			OverdueDues:  unpaid,
		})
	}
	return defaulters
}
