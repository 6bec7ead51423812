package tasks

import (
	"context"
	"time"

	"dues_portal_echo/internal/models"
	"dues_portal_echo/internal/services"
)

const (
	TaskEnsureMonthlyDue     = "ensure_monthly_due"
	TaskSendOverdueReminders = "send_overdue_reminders"
)

// monthlyRule fires at 00:05 on the first day of every month
const monthlyRule = "FREQ=MONTHLY;BYMONTHDAY=1;BYHOUR=0;BYMINUTE=5;BYSECOND=0"

// EnsureMonthlyDueTaskDef raises the current month's due ahead of the first read
type EnsureMonthlyDueTaskDef struct {
	dues *services.DuesService
}

func NewEnsureMonthlyDueTask(dues *services.DuesService) *EnsureMonthlyDueTaskDef {
	return &EnsureMonthlyDueTaskDef{dues: dues}
}

func (t *EnsureMonthlyDueTaskDef) TaskID() string {
	return TaskEnsureMonthlyDue
}

// CreateTask builds a recurring task starting at start
func (t *EnsureMonthlyDueTaskDef) CreateTask(start time.Time) (*models.ScheduledTask, error) {
	rule := monthlyRule
	return BuildScheduledTask(t.TaskID(), map[string]interface{}{}, start, &rule, models.ScheduledTaskTypeRecurring, 3)
}

func (t *EnsureMonthlyDueTaskDef) HandleExecution(ctx context.Context, task models.ScheduledTask) (map[string]interface{}, error) {
	created, err := t.dues.EnsureMonthlyDue(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"status":  "success",
		"created": created,
	}, nil
}

// SendOverdueRemindersArgs optionally narrows the run to one user
type SendOverdueRemindersArgs struct {
	UserID *uint `json:"user_id,omitempty"`
}

// SendOverdueRemindersTaskDef emails every defaulter
type SendOverdueRemindersTaskDef struct {
	reminders *services.ReminderService
}

func NewSendOverdueRemindersTask(reminders *services.ReminderService) *SendOverdueRemindersTaskDef {
	return &SendOverdueRemindersTaskDef{reminders: reminders}
}

func (t *SendOverdueRemindersTaskDef) TaskID() string {
	return TaskSendOverdueReminders
}

// CreateTask builds a task that reminds defaulters, weekly when recurring is set
func (t *SendOverdueRemindersTaskDef) CreateTask(args SendOverdueRemindersArgs, due time.Time, recurring bool) (*models.ScheduledTask, error) {
	if !recurring {
		return BuildScheduledTask(t.TaskID(), args, due, nil, models.ScheduledTaskTypeOneTime, 3)
	}
	rule := "FREQ=WEEKLY"
	return BuildScheduledTask(t.TaskID(), args, due, &rule, models.ScheduledTaskTypeRecurring, 3)
}

// HandleExecution sends the reminders. Delivery failures are reported, not returned,
// so a bad address never makes the worker retry the whole batch.
func (t *SendOverdueRemindersTaskDef) HandleExecution(ctx context.Context, task models.ScheduledTask) (map[string]interface{}, error) {
	var args SendOverdueRemindersArgs
	if err := decodeArgs(task, &args); err != nil {
		return nil, err
	}

	result, err := t.reminders.Send(ctx, args.UserID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"status":    "success",
		"message":   result.Message,
		"count":     result.Count,
		"sent":      result.Delivery.Sent,
		"failed":    result.Delivery.Failed,
		"failed_to": result.Delivery.FailedTo,
	}, nil
}
