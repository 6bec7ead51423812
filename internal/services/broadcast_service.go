package services

import (
	"context"
	"fmt"
	"strings"

	"dues_portal_echo/internal/models"
	"dues_portal_echo/internal/repository"
)

// BroadcastResult reports a broadcast
type BroadcastResult struct {
	Message    string         `json:"message"`
	Recipients int            `json:"recipients"`
	Delivery   DeliveryReport `json:"delivery"`
}

// BroadcastService sends one message to every user as a notification and an email
type BroadcastService struct {
	repo        *repository.LedgerRepository
	sender      EmailSender
	appURL      string
	concurrency int
}

func NewBroadcastService(repo *repository.LedgerRepository, sender EmailSender, appURL string, concurrency int) *BroadcastService {
	return &BroadcastService{repo: repo, sender: sender, appURL: appURL, concurrency: concurrency}
}

// Broadcast stores a notification for every user in one transaction, then emails them.
// Emails go out only after the notifications commit, and their failures are not returned.
func (s *BroadcastService) Broadcast(ctx context.Context, title, message string) (*BroadcastResult, error) {
	title = strings.TrimSpace(title)
	message = strings.TrimSpace(message)
	if title == "" || message == "" {
		return nil, validationError("title and message are required")
	}

	var users []models.User
	err := s.repo.Transaction(ctx, func(tx *repository.LedgerRepository) error {
		var err error
		if users, err = tx.ListUsers(ctx); err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		notifications := make([]models.Notification, 0, len(users))
		for _, u := range users {
			notifications = append(notifications, models.Notification{
				UserID:  u.ID,
				Title:   title,
				Message: message,
			})
		}
		if err := tx.CreateNotifications(ctx, notifications); err != nil {
			return fmt.Errorf("failed to create notifications: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	messages := make([]EmailMessage, 0, len(users))
	for _, u := range users {
		html, err := renderTemplate(broadcastTemplate, broadcastEmail{
			Title:        title,
			Message:      message,
			Name:         displayName(u.Name),
			DashboardURL: strings.TrimRight(s.appURL, "/") + "/dashboard",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to render broadcast: %w", err)
		}
		messages = append(messages, EmailMessage{To: u.Email, Subject: title, HTML: html})
	}

	report := Deliver(ctx, s.sender, messages, s.concurrency)
	return &BroadcastResult{
		Message:    "Broadcast sent successfully",
		Recipients: len(users),
		Delivery:   report,
	}, nil
}
