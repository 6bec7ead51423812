package services

import (
	"context"
	"fmt"
	"time"

	"dues_portal_echo/internal/ledger"
	"dues_portal_echo/internal/models"
	"dues_portal_echo/internal/repository"
)

const recentNotificationLimit = 2

// Dashboard is one member's view of their dues
type Dashboard struct {
	Dues                []ledger.DueStatus    `json:"dues"`
	Stats               ledger.DashboardStats `json:"stats"`
	RecentNotifications []models.Notification `json:"recent_notifications"`
	UnreadCount         int64                 `json:"unread_count"`
}

type DashboardService struct {
	repo *repository.LedgerRepository
	dues *DuesService
	now  func() time.Time
}

func NewDashboardService(repo *repository.LedgerRepository, dues *DuesService) *DashboardService {
	return &DashboardService{repo: repo, dues: dues, now: time.Now}
}

// Get resolves every due for userID and rolls up the totals
func (s *DashboardService) Get(ctx context.Context, userID uint) (*Dashboard, error) {
	dues, err := s.dues.List(ctx)
	if err != nil {
		return nil, err
	}

	payments, err := s.repo.ListCompletedPaymentsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	notifications, err := s.repo.ListNotifications(ctx, userID, recentNotificationLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}

	unread, err := s.repo.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	statuses, stats := ledger.Summarize(dues, payments, s.now())
	return &Dashboard{
		Dues:                statuses,
		Stats:               stats,
		RecentNotifications: notifications,
		UnreadCount:         unread,
	}, nil
}
