package tasks

import (
	"context"
	"log"

	"dues_portal_echo/internal/models"
)

const TaskLogInfo = "log_info"

// LogInfoArgs are the arguments of the log_info task
type LogInfoArgs struct {
	Message string `json:"message"`
}

// LogInfoTaskDef encapsulates the log info task, handy to check the worker is alive
type LogInfoTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *LogInfoTaskDef) TaskID() string {
	return TaskLogInfo
}

// HandleExecution handles logging information
func (t *LogInfoTaskDef) HandleExecution(ctx context.Context, task models.ScheduledTask) (map[string]interface{}, error) {
	var args LogInfoArgs
	if err := decodeArgs(task, &args); err != nil {
		return nil, err
	}
	if args.Message == "" {
		args.Message = "No message provided"
	}
	log.Printf("[Task: log_info] Message: %s", args.Message)

	return map[string]interface{}{
		"status":            "success",
		"message":           args.Message,
		"max_attempts_info": task.MaxAttempt,
	}, nil
}

// LogInfoTask is the singleton instance of LogInfoTaskDef
var LogInfoTask = &LogInfoTaskDef{}
