package tasks

import (
	"dues_portal_echo/internal/services"
)

// Dependencies are the services task handlers call into
type Dependencies struct {
	Dues      *services.DuesService
	Reminders *services.ReminderService
}

// DefineTasks registers all available tasks
func DefineTasks(r *Registry, deps Dependencies) {
	// Register general tasks
	r.Register(LogInfoTask.TaskID(), LogInfoTask.HandleExecution)

	// Register ledger tasks
	if deps.Dues != nil {
		monthly := NewEnsureMonthlyDueTask(deps.Dues)
		r.Register(monthly.TaskID(), monthly.HandleExecution)
	}
	if deps.Reminders != nil {
		reminders := NewSendOverdueRemindersTask(deps.Reminders)
		r.Register(reminders.TaskID(), reminders.HandleExecution)
	}
}

// KnownTaskNames lists every task name DefineTasks can register
func KnownTaskNames() []string {
	return []string{TaskEnsureMonthlyDue, TaskLogInfo, TaskSendOverdueReminders}
}
