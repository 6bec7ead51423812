package services

import (
	"context"
	"fmt"

	"dues_portal_echo/internal/models"
	"dues_portal_echo/internal/repository"
)

const notificationListLimit = 50

// NotificationService reads and acknowledges a user's notifications
type NotificationService struct {
	repo *repository.LedgerRepository
}

func NewNotificationService(repo *repository.LedgerRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// NotificationList is a user's recent notifications and unread total
type NotificationList struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
}

func (s *NotificationService) List(ctx context.Context, userID uint) (*NotificationList, error) {
	notifications, err := s.repo.ListNotifications(ctx, userID, notificationListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	unread, err := s.repo.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}
	return &NotificationList{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkRead marks one notification read, or all of the user's when id is nil.
// A single id that is not the user's is not found.
func (s *NotificationService) MarkRead(ctx context.Context, userID uint, id *uint) (int64, error) {
	if id == nil {
		n, err := s.repo.MarkAllNotificationsRead(ctx, userID)
		if err != nil {
			return 0, fmt.Errorf("failed to mark notifications read: %w", err)
		}
		return n, nil
	}

	n, err := s.repo.MarkNotificationRead(ctx, userID, *id)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notification read: %w", err)
	}
	if n == 0 {
		return 0, notFoundError("notification %d not found", *id)
	}
	return n, nil
}
