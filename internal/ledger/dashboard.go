package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"dues_portal_echo/internal/models"
)

var hundred = decimal.NewFromInt(100)

// DueStatus pairs a due with its resolution for one user
type DueStatus struct {
	models.Due
	Resolution
}

// DashboardStats are the per-user totals shown on the member dashboard
type DashboardStats struct {
	TotalDuesAmount decimal.Decimal `json:"total_dues_amount"`
	TotalPaidAmount decimal.Decimal `json:"total_paid_amount"`
	AmountOwed      decimal.Decimal `json:"amount_owed"`
	PercentagePaid  float64         `json:"percentage_paid"`
}

// Summarize resolves every due for one user and rolls the results up.
// payments must be the user's completed payments.
func Summarize(dues []models.Due, payments []models.Payment, now time.Time) ([]DueStatus, DashboardStats) {
	byDue := PaymentsByDue(payments)

	statuses := make([]DueStatus, 0, len(dues))
	totalDues := decimal.Zero
	for _, due := range dues {
		r := Resolve(due, now, byDue[due.ID])
		statuses = append(statuses, DueStatus{Due: due, Resolution: r})
		totalDues = totalDues.Add(r.EffectiveAmount)
	}

	totalPaid := decimal.Zero
	for _, p := range payments {
		if p.Status != "" && p.Status != models.PaymentStatusCompleted {
			continue
		}
		totalPaid = totalPaid.Add(p.Amount)
	}

	return statuses, DashboardStats{
		TotalDuesAmount: totalDues,
		TotalPaidAmount: totalPaid,
		AmountOwed:      totalDues.Sub(totalPaid),
		PercentagePaid:  PercentagePaid(totalPaid, totalDues),
	}
}

// PercentagePaid is paid/total*100, and 100 when nothing is owed at all
func PercentagePaid(paid, total decimal.Decimal) float64 {
	if !total.IsPositive() {
		return 100
	}
	return paid.Div(total).Mul(hundred).InexactFloat64()
}
