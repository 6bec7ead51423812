package ledger

import (
	"fmt"
	"time"
)

// MonthlyDueTitle is the canonical title of the monthly due raised for t's month
func MonthlyDueTitle(t time.Time) string {
	return fmt.Sprintf("Monthly Due - %s %d", t.Month(), t.Year())
}

// MonthlyDueDescription describes the automatically raised due for t's month
func MonthlyDueDescription(t time.Time) string {
	return fmt.Sprintf("Automatic monthly due for %s %d", t.Month(), t.Year())
}

// EndOfMonth returns the last instant of the last calendar day of t's month, in t's location
func EndOfMonth(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
	return firstOfNext.Add(-time.Nanosecond)
}

// EndOfDay returns the last instant of t's calendar day, in t's location
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location()).Add(-time.Nanosecond)
}
