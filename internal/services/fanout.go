package services

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DeliveryReport counts the outcome of a batch of emails
type DeliveryReport struct {
	Attempted int      `json:"attempted"`
	Sent      int      `json:"sent"`
	Failed    int      `json:"failed"`
	FailedTo  []string `json:"failed_to,omitempty"`
}

// Deliver sends every message with at most limit in flight.
// One failure never stops the others; every message is attempted.
func Deliver(ctx context.Context, sender EmailSender, messages []EmailMessage, limit int) DeliveryReport {
	report := DeliveryReport{Attempted: len(messages)}
	if len(messages) == 0 {
		return report
	}
	if limit < 1 {
		limit = 1
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(limit)

	for _, msg := range messages {
		msg := msg
		g.Go(func() error {
			err := sender.Send(ctx, msg)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("Failed to send %q to %s: %v", msg.Subject, msg.To, err)
				report.Failed++
				report.FailedTo = append(report.FailedTo, msg.To)
				return nil
			}
			report.Sent++
			return nil
		})
	}
	_ = g.Wait()

	return report
}
