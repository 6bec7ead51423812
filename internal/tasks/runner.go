package tasks

import (
	"context"
	"log"
	"time"

	"dues_portal_echo/internal/models"
	"dues_portal_echo/internal/repository"
)

const (
	historySuccess         = "success"
	historyFailure         = "failure"
	historyHandlerNotFound = "handler_not_found"
)

// Runner picks up due scheduled tasks and executes them with their registered handler
type Runner struct {
	repo     *repository.LedgerRepository
	registry *Registry
	now      func() time.Time
}

func NewRunner(repo *repository.LedgerRepository, registry *Registry) *Runner {
	return &Runner{repo: repo, registry: registry, now: time.Now}
}

// Run processes pending tasks every interval until ctx is cancelled.
// It runs once immediately so a fresh worker does not wait a full tick.
func (r *Runner) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.ProcessPending(ctx)

	for {
		select {
		case <-ticker.C:
			r.ProcessPending(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// ProcessPending executes every active task whose due time has passed and
// returns how many tasks were picked up.
func (r *Runner) ProcessPending(ctx context.Context) int {
	log.Println("Checking for pending tasks...")

	pending, err := r.repo.ListPendingTasks(ctx, r.now())
	if err != nil {
		log.Printf("Error fetching pending tasks: %v", err)
		return 0
	}
	if len(pending) == 0 {
		log.Println("No pending tasks found.")
		return 0
	}

	log.Printf("Found %d pending tasks.", len(pending))

	processed := 0
	for _, task := range pending {
		if ctx.Err() != nil {
			break
		}
		r.execute(ctx, task)
		processed++
	}
	return processed
}

func (r *Runner) execute(ctx context.Context, task models.ScheduledTask) {
	log.Printf("Processing task: %s (ID: %d)", task.TaskName, task.ID)

	handler, found := r.registry.Get(task.TaskName)
	if !found {
		log.Printf("Task handler not found for: %s. Marking as failure.", task.TaskName)
		now := r.now()
		r.recordHistory(ctx, task, now, 0, historyHandlerNotFound, 1, map[string]interface{}{"error": "Handler not found"})
		r.update(ctx, &task, map[string]interface{}{
			"status":   models.ScheduledTaskStatusFailure,
			"last_run": &now,
		})
		return
	}

	maxAttempt := task.MaxAttempt
	if maxAttempt < 1 {
		maxAttempt = 1
	}

	var lastRun time.Time
	succeeded := false
	for attempt := 1; attempt <= maxAttempt; attempt++ {
		if ctx.Err() != nil {
			return
		}

		startTime := r.now()
		result, err := handler(ctx, task)
		runtimeMs := int(time.Since(startTime).Milliseconds())
		lastRun = startTime

		if err != nil {
			log.Printf("Task %s failed (attempt %d/%d): %v", task.TaskName, attempt, maxAttempt, err)
			r.recordHistory(ctx, task, startTime, runtimeMs, historyFailure, attempt, map[string]interface{}{"error": err.Error()})
			continue
		}

		log.Printf("Task %s completed successfully.", task.TaskName)
		r.recordHistory(ctx, task, startTime, runtimeMs, historySuccess, attempt, result)
		succeeded = true
		break
	}

	updates := map[string]interface{}{"last_run": &lastRun}
	if !succeeded {
		updates["status"] = models.ScheduledTaskStatusFailure
		r.update(ctx, &task, updates)
		return
	}

	switch task.TaskType {
	case models.ScheduledTaskTypeRecurring:
		nextDue := task.NextDue(r.now())
		// a rule that yields nothing later than the current due has run its course
		if nextDue.After(task.Due) {
			updates["status"] = models.ScheduledTaskStatusActive
			updates["due"] = nextDue
		} else {
			updates["status"] = models.ScheduledTaskStatusDone
		}
	default:
		updates["status"] = models.ScheduledTaskStatusDone
	}
	r.update(ctx, &task, updates)
}

func (r *Runner) recordHistory(ctx context.Context, task models.ScheduledTask, runAt time.Time, runtimeMs int, status string, attempt int, result map[string]interface{}) {
	history := models.ScheduledTaskHistory{
		ScheduledTaskID: task.ID,
		TaskName:        task.TaskName,
		RunAt:           runAt,
		Runtime:         runtimeMs,
		Status:          status,
		AttemptNumber:   attempt,
		Arguments:       task.Arguments,
		Result:          result,
	}
	if err := r.repo.CreateTaskHistory(ctx, &history); err != nil {
		log.Printf("Failed to record history for task %d: %v", task.ID, err)
	}
}

func (r *Runner) update(ctx context.Context, task *models.ScheduledTask, updates map[string]interface{}) {
	if err := r.repo.UpdateScheduledTask(ctx, task, updates); err != nil {
		log.Printf("Failed to update task %d: %v", task.ID, err)
	}
}
