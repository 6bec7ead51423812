package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"dues_portal_echo/internal/ledger"
	"dues_portal_echo/internal/models"
	"dues_portal_echo/internal/repository"
)

// PaymentService records payments against dues
type PaymentService struct {
	repo  *repository.LedgerRepository
	cache *RedisCache
	now   func() time.Time
}

// NewPaymentService creates a PaymentService. cache may be nil.
func NewPaymentService(repo *repository.LedgerRepository, cache *RedisCache) *PaymentService {
	return &PaymentService{repo: repo, cache: cache, now: time.Now}
}

// Pay charges userID for every due in dueIDs that the user has not paid yet.
// Each amount is resolved at the moment of payment, doubled when overdue.
// All payments commit together or not at all. It returns how many were created.
func (s *PaymentService) Pay(ctx context.Context, userID uint, dueIDs []uint) (int, error) {
	ids := uniqueIDs(dueIDs)
	if len(ids) == 0 {
		return 0, validationError("no dues selected")
	}

	now := s.now()
	var created int64

	err := s.repo.Transaction(ctx, func(tx *repository.LedgerRepository) error {
		dues, err := tx.FindDuesByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to load dues: %w", err)
		}
		if missing := missingIDs(ids, dues); len(missing) > 0 {
			return notFoundError("due not found: %v", missing)
		}

		existing, err := tx.ListPaymentsForDues(ctx, userID, ids)
		if err != nil {
			return fmt.Errorf("failed to load payments: %w", err)
		}
		paid := ledger.PaymentsByDue(existing)

		var toCreate []models.Payment
		for _, due := range dues {
			payment, ok := ledger.Pay(due, userID, now, ledger.Resolve(due, now, paid[due.ID]))
			if !ok {
				continue
			}
			toCreate = append(toCreate, payment)
		}

		created, err = tx.CreatePayments(ctx, toCreate)
		if err != nil {
			return fmt.Errorf("failed to record payments: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if created > 0 {
		s.cache.BumpVersion(ctx, financeVersionKey)
		log.Printf("Recorded %d payment(s) for user %d", created, userID)
	}
	return int(created), nil
}

// History returns the user's non-zero payments with their dues, newest first
func (s *PaymentService) History(ctx context.Context, userID uint) ([]models.Payment, error) {
	payments, err := s.repo.ListPaymentHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func missingIDs(want []uint, dues []models.Due) []uint {
	found := make(map[uint]bool, len(dues))
	for _, d := range dues {
		found[d.ID] = true
	}
	var missing []uint
	for _, id := range want {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}
