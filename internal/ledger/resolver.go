// Package ledger holds the dues lifecycle rules and the aggregations built on them.
// Everything here is pure: callers pass the current time and the records they loaded.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"dues_portal_echo/internal/models"
)

// PenaltyMultiplier is applied to a due's amount once its due date has passed.
var PenaltyMultiplier = decimal.NewFromInt(2)

// State is the payment state of one due for one user
type State string

const (
	StateUnpaid         State = "unpaid"
	StatePaid           State = "paid"
	StateOverduePending State = "overdue"
)

// Resolution is the derived status of a due for one user at a given instant
type Resolution struct {
	State           State           `json:"state"`
	IsPaid          bool            `json:"is_paid"`
	IsOverdue       bool            `json:"is_overdue"`
	OriginalAmount  decimal.Decimal `json:"original_amount"`
	EffectiveAmount decimal.Decimal `json:"effective_amount"`
}

// IsPastDue reports whether now is strictly after the due date
func IsPastDue(due models.Due, now time.Time) bool {
	return now.After(due.DueDate)
}

// Resolve derives the status of due at now given the user's payment for it, if any.
// A recorded payment always wins: its amount is what the due cost, penalty included.
func Resolve(due models.Due, now time.Time, payment *models.Payment) Resolution {
	r := Resolution{OriginalAmount: due.Amount}

	switch {
	case payment != nil:
		r.State = StatePaid
		r.IsPaid = true
		r.EffectiveAmount = payment.Amount
	case IsPastDue(due, now):
		r.State = StateOverduePending
		r.IsOverdue = true
		r.EffectiveAmount = due.Amount.Mul(PenaltyMultiplier)
	default:
		r.State = StateUnpaid
		r.EffectiveAmount = due.Amount
	}
	return r
}

// PayableAmount is the amount charged when an unpaid due is paid at now
func PayableAmount(due models.Due, now time.Time) decimal.Decimal {
	return Resolve(due, now, nil).EffectiveAmount
}

// Pay transitions an unpaid or overdue resolution to paid and returns the payment to record.
// ok is false when the due is already paid.
func Pay(due models.Due, userID uint, now time.Time, current Resolution) (models.Payment, bool) {
	if current.IsPaid {
		return models.Payment{}, false
	}
	return models.Payment{
		UserID: userID,
		DueID:  due.ID,
		Amount: current.EffectiveAmount,
		Status: models.PaymentStatusCompleted,
		PaidAt: now,
	}, true
}

// PaymentsByDue indexes completed payments by due id.
// If a due somehow has several payments the first one wins.
func PaymentsByDue(payments []models.Payment) map[uint]*models.Payment {
	byDue := make(map[uint]*models.Payment, len(payments))
	for i := range payments {
		p := &payments[i]
		if p.Status != "" && p.Status != models.PaymentStatusCompleted {
			continue
		}
		if _, exists := byDue[p.DueID]; !exists {
			byDue[p.DueID] = p
		}
	}
	return byDue
}
