package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dues_portal_echo/internal/ledger"
	"dues_portal_echo/internal/models"
	"dues_portal_echo/internal/repository"
)

const reminderSubject = "Urgent: Overdue Association Dues"

// ReminderResult reports a reminder run
type ReminderResult struct {
	Message  string         `json:"message"`
	Count    int            `json:"count"`
	Delivery DeliveryReport `json:"delivery"`
}

// ReminderService finds members with unpaid overdue dues and emails them
type ReminderService struct {
	repo        *repository.LedgerRepository
	sender      EmailSender
	appURL      string
	concurrency int
	location    *time.Location
	now         func() time.Time
}

// NewReminderService creates a ReminderService. Due dates in emails are shown in location.
func NewReminderService(repo *repository.LedgerRepository, sender EmailSender, appURL string, concurrency int, location *time.Location) *ReminderService {
	return &ReminderService{
		repo:        repo,
		sender:      sender,
		appURL:      appURL,
		concurrency: concurrency,
		location:    location,
		now:         time.Now,
	}
}

// Defaulters lists every user with at least one unpaid overdue due
func (s *ReminderService) Defaulters(ctx context.Context) ([]ledger.Defaulter, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return s.findDefaulters(ctx, users)
}

// Send emails one reminder to each defaulter, or only to userID when it is set.
// Individual delivery failures are logged and do not stop the run.
func (s *ReminderService) Send(ctx context.Context, userID *uint) (*ReminderResult, error) {
	var users []models.User
	if userID != nil {
		user, err := s.repo.FindUserByID(ctx, *userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
		if user == nil {
			return nil, notFoundError("user %d not found", *userID)
		}
		users = []models.User{*user}
	} else {
		var err error
		if users, err = s.repo.ListUsers(ctx); err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
	}

	defaulters, err := s.findDefaulters(ctx, users)
	if err != nil {
		return nil, err
	}
	if len(defaulters) == 0 {
		return &ReminderResult{Message: "No overdue dues found", Count: 0}, nil
	}

	messages := make([]EmailMessage, 0, len(defaulters))
	for _, d := range defaulters {
		html, err := s.renderReminder(d)
		if err != nil {
			return nil, fmt.Errorf("failed to render reminder: %w", err)
		}
		messages = append(messages, EmailMessage{To: d.Email, Subject: reminderSubject, HTML: html})
	}

	report := Deliver(ctx, s.sender, messages, s.concurrency)
	return &ReminderResult{
		Message:  "Reminders sent",
		Count:    report.Attempted,
		Delivery: report,
	}, nil
}

func (s *ReminderService) findDefaulters(ctx context.Context, users []models.User) ([]ledger.Defaulter, error) {
	dues, err := s.repo.ListDues(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dues: %w", err)
	}

	overdue := ledger.OverdueDues(dues, s.now())
	if len(overdue) == 0 || len(users) == 0 {
		return []ledger.Defaulter{}, nil
	}

	userIDs := make([]uint, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}
	paid, err := s.repo.PaidDueIDsByUser(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	return ledger.FindDefaulters(overdue, users, paid), nil
}

func (s *ReminderService) renderReminder(d ledger.Defaulter) (string, error) {
	lines := make([]reminderLine, 0, len(d.OverdueDues))
	for _, due := range d.OverdueDues {
		lines = append(lines, reminderLine{
			Title:   due.Title,
			Amount:  FormatAmount(due.Amount),
			DueDate: formatDate(due.DueDate, s.location),
		})
	}

	return renderTemplate(reminderTemplate, reminderEmail{
		Name:         displayName(d.Name),
		Dues:         lines,
		Total:        FormatAmount(d.AmountOwed),
		DashboardURL: strings.TrimRight(s.appURL, "/") + "/dashboard",
	})
}
