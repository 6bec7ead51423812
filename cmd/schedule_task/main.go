package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"time"

	"dues_portal_echo/internal/config"
	"dues_portal_echo/internal/models"
	"dues_portal_echo/internal/repository"
	"dues_portal_echo/internal/services"
	"dues_portal_echo/internal/tasks"
)

func main() {
	// defined flags
	taskName := flag.String("task_name", "", "Name of the task (mandatory)")
	argsStr := flag.String("arguments", "{}", "JSON arguments for the task")
	dueStr := flag.String("due", "", "Due date (mandatory, format: 2006-01-02 15:04)")
	taskType := flag.String("tasktype", string(models.ScheduledTaskTypeOneTime), "Task type: onetime or recurring")
	recurring := flag.String("recurring", "", "Recurring interval RRULE, e.g. FREQ=MONTHLY;BYMONTHDAY=1")
	maxAttempt := flag.Int("max_attempt", 3, "Max attempts")

	flag.Parse()

	if *taskName == "" || *dueStr == "" {
		fmt.Println("Usage: schedule_task -task_name <name> -due <YYYY-MM-DD HH:MM> [-arguments <json_args>] [options]")
		fmt.Printf("Known tasks: %v\n", tasks.KnownTaskNames())
		flag.PrintDefaults()
		os.Exit(1)
	}
	if !slices.Contains(tasks.KnownTaskNames(), *taskName) {
		log.Fatalf("Unknown task %q. Known tasks: %v", *taskName, tasks.KnownTaskNames())
	}

	kind := models.ScheduledTaskType(*taskType)
	if kind != models.ScheduledTaskTypeOneTime && kind != models.ScheduledTaskTypeRecurring {
		log.Fatalf("Invalid task type %q", *taskType)
	}
	var recurringPtr *string
	if *recurring != "" {
		recurringPtr = recurring
	}
	if kind == models.ScheduledTaskTypeRecurring && recurringPtr == nil {
		log.Fatal("Recurring tasks need -recurring")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireDatabase(); err != nil {
		log.Fatal(err)
	}

	var args map[string]interface{}
	if err := json.Unmarshal([]byte(*argsStr), &args); err != nil {
		log.Fatalf("Invalid JSON arguments: %v", err)
	}

	// RFC3339 first, then a plain local time in the configured timezone
	due, err := time.Parse(time.RFC3339, *dueStr)
	if err != nil {
		due, err = time.ParseInLocation("2006-01-02 15:04", *dueStr, cfg.Location)
		if err != nil {
			log.Fatalf("Invalid due date format. Use '2006-01-02 15:04' or RFC3339: %v", err)
		}
	}

	task, err := tasks.BuildScheduledTask(*taskName, args, due, recurringPtr, kind, *maxAttempt)
	if err != nil {
		log.Fatalf("Failed to build task: %v", err)
	}

	db, err := services.InitDB(cfg.DatabaseURL, services.ParseLogLevel(cfg.DBLogLevel))
	if err != nil {
		log.Fatalf("Failed to connect DB: %v", err)
	}
	if err := repository.NewLedgerRepository(db).CreateScheduledTask(context.Background(), task); err != nil {
		log.Fatalf("Failed to create task: %v", err)
	}

	fmt.Printf("Successfully created task ID: %d\n", task.ID)
	fmt.Printf("Task: %s\nDue: %s\nType: %s\n", task.TaskName, task.Due, task.TaskType)
}
