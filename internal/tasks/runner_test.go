package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"dues_portal_echo/internal/models"
	"dues_portal_echo/internal/repository"
	"dues_portal_echo/internal/testutil"
)

var runnerNow = time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)

func newTestRunner(t *testing.T) (*Runner, *Registry, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	registry := NewRegistry()
	runner := NewRunner(repository.NewLedgerRepository(db), registry)
	runner.now = testutil.FixedClock(runnerNow)
	return runner, registry, db
}

func insertTask(t *testing.T, db *gorm.DB, task *models.ScheduledTask) {
	t.Helper()
	require.NoError(t, db.Create(task).Error)
}

func reload(t *testing.T, db *gorm.DB, id uint) models.ScheduledTask {
	t.Helper()
	var task models.ScheduledTask
	require.NoError(t, db.First(&task, id).Error)
	return task
}

func histories(t *testing.T, db *gorm.DB, id uint) []models.ScheduledTaskHistory {
	t.Helper()
	var rows []models.ScheduledTaskHistory
	require.NoError(t, db.Where("scheduled_task_id = ?", id).Order("attempt_number").Find(&rows).Error)
	return rows
}

func TestRunnerOneTimeSuccess(t *testing.T) {
	runner, registry, db := newTestRunner(t)
	calls := 0
	registry.Register("noop", func(ctx context.Context, task models.ScheduledTask) (map[string]interface{}, error) {
		calls++
		return map[string]interface{}{"ok": true}, nil
	})

	task, err := BuildScheduledTask("noop", map[string]string{"k": "v"}, runnerNow.Add(-time.Minute), nil, "", 3)
	require.NoError(t, err)
	insertTask(t, db, task)

	assert.Equal(t, 1, runner.ProcessPending(context.Background()))
	assert.Equal(t, 1, calls)

	got := reload(t, db, task.ID)
	assert.Equal(t, models.ScheduledTaskStatusDone, got.Status)
	require.NotNil(t, got.LastRun)

	rows := histories(t, db, task.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, historySuccess, rows[0].Status)
	assert.Equal(t, 1, rows[0].AttemptNumber)
	assert.Equal(t, "v", rows[0].Arguments["k"])
}

func TestRunnerSkipsFutureTasks(t *testing.T) {
	runner, registry, db := newTestRunner(t)
	registry.Register("noop", func(ctx context.Context, task models.ScheduledTask) (map[string]interface{}, error) {
		t.Fatal("future task must not run")
		return nil, nil
	})

	task, err := BuildScheduledTask("noop", nil, runnerNow.Add(time.Hour), nil, "", 1)
	require.NoError(t, err)
	insertTask(t, db, task)

	assert.Equal(t, 0, runner.ProcessPending(context.Background()))
	assert.Equal(t, models.ScheduledTaskStatusActive, reload(t, db, task.ID).Status)
}

func TestRunnerRetriesUntilSuccess(t *testing.T) {
	runner, registry, db := newTestRunner(t)
	calls := 0
	registry.Register("flaky", func(ctx context.Context, task models.ScheduledTask) (map[string]interface{}, error) {
		calls++
		if calls < 2 {
			return nil, errors.New("temporary")
		}
		return map[string]interface{}{"ok": true}, nil
	})

	task, err := BuildScheduledTask("flaky", nil, runnerNow.Add(-time.Minute), nil, "", 3)
	require.NoError(t, err)
	insertTask(t, db, task)

	runner.ProcessPending(context.Background())

	assert.Equal(t, 2, calls)
	assert.Equal(t, models.ScheduledTaskStatusDone, reload(t, db, task.ID).Status)

	rows := histories(t, db, task.ID)
	require.Len(t, rows, 2)
	assert.Equal(t, historyFailure, rows[0].Status)
	assert.Equal(t, "temporary", rows[0].Result["error"])
	assert.Equal(t, historySuccess, rows[1].Status)
	assert.Equal(t, 2, rows[1].AttemptNumber)
}

func TestRunnerMarksFailureAfterMaxAttempts(t *testing.T) {
	runner, registry, db := newTestRunner(t)
	calls := 0
	registry.Register("broken", func(ctx context.Context, task models.ScheduledTask) (map[string]interface{}, error) {
		calls++
		return nil, errors.New("boom")
	})

	task, err := BuildScheduledTask("broken", nil, runnerNow.Add(-time.Minute), nil, "", 3)
	require.NoError(t, err)
	insertTask(t, db, task)

	runner.ProcessPending(context.Background())

	assert.Equal(t, 3, calls)
	assert.Equal(t, models.ScheduledTaskStatusFailure, reload(t, db, task.ID).Status)
	assert.Len(t, histories(t, db, task.ID), 3)
}

func TestRunnerUnknownHandler(t *testing.T) {
	runner, _, db := newTestRunner(t)

	task, err := BuildScheduledTask("missing", nil, runnerNow.Add(-time.Minute), nil, "", 3)
	require.NoError(t, err)
	insertTask(t, db, task)

	runner.ProcessPending(context.Background())

	assert.Equal(t, models.ScheduledTaskStatusFailure, reload(t, db, task.ID).Status)
	rows := histories(t, db, task.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, historyHandlerNotFound, rows[0].Status)
}

func TestRunnerReschedulesRecurringTask(t *testing.T) {
	runner, registry, db := newTestRunner(t)
	registry.Register("daily", func(ctx context.Context, task models.ScheduledTask) (map[string]interface{}, error) {
		return map[string]interface{}{}, nil
	})

	rule := "FREQ=DAILY"
	due := runnerNow.Add(-time.Hour)
	task, err := BuildScheduledTask("daily", nil, due, &rule, models.ScheduledTaskTypeRecurring, 1)
	require.NoError(t, err)
	insertTask(t, db, task)

	runner.ProcessPending(context.Background())

	got := reload(t, db, task.ID)
	assert.Equal(t, models.ScheduledTaskStatusActive, got.Status)
	assert.True(t, got.Due.Equal(due.AddDate(0, 0, 1)), "got due %s", got.Due)

	// not due again until tomorrow
	assert.Equal(t, 0, runner.ProcessPending(context.Background()))
}

func TestRunnerFinishesExhaustedRecurringTask(t *testing.T) {
	runner, registry, db := newTestRunner(t)
	registry.Register("once", func(ctx context.Context, task models.ScheduledTask) (map[string]interface{}, error) {
		return map[string]interface{}{}, nil
	})

	rule := "FREQ=DAILY;COUNT=1"
	task, err := BuildScheduledTask("once", nil, runnerNow.Add(-time.Hour), &rule, models.ScheduledTaskTypeRecurring, 1)
	require.NoError(t, err)
	insertTask(t, db, task)

	runner.ProcessPending(context.Background())

	assert.Equal(t, models.ScheduledTaskStatusDone, reload(t, db, task.ID).Status)
}
