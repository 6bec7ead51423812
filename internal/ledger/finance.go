package ledger

import (
	"github.com/shopspring/decimal"

	"dues_portal_echo/internal/models"
)

// PenaltyGroup collects the part of any payment above its due's original amount
const PenaltyGroup = "Penalty"

// otherGroup is used for payments whose due could not be loaded
const otherGroup = "Other"

// FinanceSummary is the association-wide income and expense position
type FinanceSummary struct {
	TotalIncome   decimal.Decimal            `json:"total_income"`
	TotalExpenses decimal.Decimal            `json:"total_expenses"`
	NetBalance    decimal.Decimal            `json:"net_balance"`
	IncomeByGroup map[string]decimal.Decimal `json:"income_by_group"`
	Expenses      []models.Expense           `json:"expenses"`
}

// Split returns the base and penalty portions of a payment against its due.
// The penalty portion is zero unless the payment exceeds the due's amount.
func Split(paid, original decimal.Decimal) (base, penalty decimal.Decimal) {
	if paid.GreaterThan(original) {
		return original, paid.Sub(original)
	}
	return paid, decimal.Zero
}

// Finance aggregates completed payments (with Due preloaded) and expenses.
// The grouped income always sums to TotalIncome.
func Finance(payments []models.Payment, expenses []models.Expense) FinanceSummary {
	summary := FinanceSummary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		IncomeByGroup: make(map[string]decimal.Decimal),
		Expenses:      expenses,
	}
	if summary.Expenses == nil {
		summary.Expenses = []models.Expense{}
	}

	credit := func(group string, amount decimal.Decimal) {
		summary.IncomeByGroup[group] = summary.IncomeByGroup[group].Add(amount)
	}

	for _, p := range payments {
		if p.Status != "" && p.Status != models.PaymentStatusCompleted {
			continue
		}
		summary.TotalIncome = summary.TotalIncome.Add(p.Amount)

		if p.Due == nil {
			credit(otherGroup, p.Amount)
			continue
		}

		group := string(p.Due.Type)
		if group == "" {
			group = otherGroup
		}
		base, penalty := Split(p.Amount, p.Due.Amount)
		credit(group, base)
		if penalty.IsPositive() {
			credit(PenaltyGroup, penalty)
		}
	}

	for _, e := range expenses {
		summary.TotalExpenses = summary.TotalExpenses.Add(e.Amount)
	}
	summary.NetBalance = summary.TotalIncome.Sub(summary.TotalExpenses)

	return summary
}
