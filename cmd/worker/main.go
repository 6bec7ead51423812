package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"dues_portal_echo/internal/config"
	"dues_portal_echo/internal/repository"
	"dues_portal_echo/internal/services"
	"dues_portal_echo/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireDatabase(); err != nil {
		log.Fatal(err)
	}

	// Initialize Database
	db, err := services.InitDB(cfg.DatabaseURL, services.ParseLogLevel(cfg.DBLogLevel))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	repo := repository.NewLedgerRepository(db)

	var cache *services.RedisCache
	if cfg.RedisURL != "" {
		if cache, err = services.NewRedisCache(cfg.RedisURL); err != nil {
			log.Printf("Warning: Redis unavailable, monthly due lock disabled: %v", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	sender := services.BuildEmailSender(cfg)

	// Initialize Task Registry
	registry := tasks.NewRegistry()
	tasks.DefineTasks(registry, tasks.Dependencies{
		Dues:      services.NewDuesService(repo, cache, cfg.MonthlyDueAmount, cfg.Location),
		Reminders: services.NewReminderService(repo, sender, cfg.AppURL, cfg.EmailConcurrency, cfg.Location),
	})
	log.Printf("Registered tasks: %v", registry.Names())

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down worker...")
		cancel()
	}()

	log.Printf("Worker started, checking every %s", cfg.WorkerInterval)
	tasks.NewRunner(repo, registry).Run(ctx, cfg.WorkerInterval)
}
