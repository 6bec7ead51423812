package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"dues_portal_echo/internal/config"
	"dues_portal_echo/internal/handlers"
	appMiddleware "dues_portal_echo/internal/middleware"
	"dues_portal_echo/internal/repository"
	"dues_portal_echo/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireDatabase(); err != nil {
		log.Fatal(err)
	}
	if err := cfg.RequireSessions(); err != nil {
		log.Fatal(err)
	}

	// Initialize Database
	db, err := services.InitDB(cfg.DatabaseURL, services.ParseLogLevel(cfg.DBLogLevel))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := services.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	repo := repository.NewLedgerRepository(db)

	// Redis is optional; without it the finance summary is computed on every read
	var cache *services.RedisCache
	if cfg.RedisURL != "" {
		cache, err = services.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Redis unavailable, caching disabled: %v", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	// Firebase is optional too
	var verifier services.IDTokenVerifier
	if cfg.FirebaseCredentialsPath != "" {
		authClient, err := services.InitFirebase(cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Printf("Warning: Firebase initialization failed: %v", err)
		} else {
			verifier = authClient
		}
	}

	sender := services.BuildEmailSender(cfg)
	log.Printf("Email delivery via %s", sender.Name())

	sessions := services.NewSessionManager(cfg.JWTSecret, cfg.SessionTTL)
	dues := services.NewDuesService(repo, cache, cfg.MonthlyDueAmount, cfg.Location)

	h := handlers.Handlers{
		Auth:      handlers.NewAuthHandler(services.NewAuthService(repo, sessions, verifier), cfg.SessionTTL, cfg.IsProduction()),
		Public:    handlers.NewPublicHandler(services.NewRegistrationService(repo), repo, cache),
		Dues:      handlers.NewDuesHandler(dues, cfg.Location),
		Payments:  handlers.NewPaymentHandler(services.NewPaymentService(repo, cache)),
		Dashboard: handlers.NewDashboardHandler(services.NewDashboardService(repo, dues)),
		Finance:   handlers.NewFinanceHandler(services.NewFinanceService(repo, cache, cfg.FinanceCacheTTL), cfg.Location),
		Reminders: handlers.NewReminderHandler(
			services.NewReminderService(repo, sender, cfg.AppURL, cfg.EmailConcurrency, cfg.Location),
			services.NewBroadcastService(repo, sender, cfg.AppURL, cfg.EmailConcurrency),
		),
		Users: handlers.NewUserHandler(
			services.NewUserService(repo),
			services.NewCodeService(repo),
			services.NewNotificationService(repo),
		),
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = appMiddleware.CustomErrorHandler

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	handlers.SetupRoutes(e, h, sessions)

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
