package services

import (
	"bytes"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders a money amount with grouping, e.g. 1,250.00
func FormatAmount(amount decimal.Decimal) string {
	return amountPrinter.Sprintf("%.2f", amount.InexactFloat64())
}

var reminderTemplate = template.Must(template.New("reminder").Parse(`<div style="font-family: Arial, sans-serif; color: #333;">
  <h1 style="color: #8B4513;">Payment Reminder</h1>
  <p>Dear {{.Name}},</p>
  <p>We noticed that you have the following outstanding dues that are past their due date:</p>
  <ul>
  {{- range .Dues}}
    <li><strong>{{.Title}}</strong>: {{.Amount}} (Due: {{.DueDate}})</li>
  {{- end}}
  </ul>
  <p>Total outstanding: <strong>{{.Total}}</strong></p>
  <p>Please log in to your dashboard and clear these dues as soon as possible.</p>
  <a href="{{.DashboardURL}}" style="background-color: #8B4513; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Go to Dashboard</a>
</div>`))

var broadcastTemplate = template.Must(template.New("broadcast").Parse(`<div style="font-family: Arial, sans-serif; color: #333;">
  <h1 style="color: #8B4513;">{{.Title}}</h1>
  <p>Dear {{.Name}},</p>
  <p style="white-space: pre-line;">{{.Message}}</p>
  <a href="{{.DashboardURL}}" style="background-color: #8B4513; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Open Portal</a>
</div>`))

type reminderLine struct {
	Title   string
	Amount  string
	DueDate string
}

type reminderEmail struct {
	Name         string
	Dues         []reminderLine
	Total        string
	DashboardURL string
}

type broadcastEmail struct {
	Title        string
	Message      string
	Name         string
	DashboardURL string
}

func renderTemplate(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// formatDate renders the calendar day of t in loc, so an end-of-month instant
// never reads as the 1st of the next month.
func formatDate(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("2 Jan 2006")
}

func displayName(name string) string {
	if name == "" {
		return "Member"
	}
	return name
}
