// Package main is the entry point for the snowbudget API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/snowbudget/backend/config"
	"github.com/snowbudget/backend/internal/application/adapter"
	"github.com/snowbudget/backend/internal/application/usecase/auth"
	"github.com/snowbudget/backend/internal/application/usecase/budget"
	"github.com/snowbudget/backend/internal/domain/entity"
	"github.com/snowbudget/backend/internal/infra/db"
	"github.com/snowbudget/backend/internal/infra/renewer"
	"github.com/snowbudget/backend/internal/infra/server/router"
	"github.com/snowbudget/backend/internal/integration/adapters"
	"github.com/snowbudget/backend/internal/integration/email"
	"github.com/snowbudget/backend/internal/integration/entrypoint/controller"
	"github.com/snowbudget/backend/internal/integration/entrypoint/middleware"
	"github.com/snowbudget/backend/internal/integration/export"
	"github.com/snowbudget/backend/internal/integration/persistence"
	"github.com/snowbudget/backend/internal/integration/persistence/model"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	slog.Info("Starting snowbudget API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"budget_config", cfg.Budget.ConfigPath,
	)

	// The budget configuration must load at startup; a server without a
	// ledger cannot answer anything.
	spec, err := budget.LoadSpec(cfg.Budget.ConfigPath)
	if err != nil {
		slog.Error("Failed to load budget configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("Budget configuration loaded",
		"name", spec.Name,
		"save_location", spec.SaveLocation,
	)

	// Every request rebuilds the ledger from disk so cycle resets apply at
	// the evaluation instant the caller asked for.
	classStore := persistence.NewClassStore(spec.SaveLocation, spec.BackupLocation)
	newLedger := func(at time.Time) (*budget.Ledger, error) {
		return budget.NewLedger(spec, classStore, at)
	}

	// Initialize user-store database connection
	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	// Run database migrations
	if err := database.AutoMigrate(
		&model.UserModel{},
		&model.ResetEventModel{},
	); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed successfully")

	// Initialize session store
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		slog.Error("Redis connection failed", "error", err, "addr", cfg.Redis.Addr)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("Failed to close redis connection", "error", err)
		}
	}()
	slog.Info("Session store connected", "addr", cfg.Redis.Addr)

	// Create repositories
	userRepo := persistence.NewUserRepository(database.DB())
	sessionRepo := persistence.NewSessionRepository(redisClient)
	resetEventRepo := persistence.NewResetEventRepository(database.DB())

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.TokenExpiry, sessionRepo)

	var emailSender adapter.EmailSender
	if cfg.Email.ResendAPIKey != "" {
		emailSender = email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
		slog.Info("Email notifications enabled", "from", cfg.Email.FromEmail)
	} else {
		slog.Warn("RESEND_API_KEY not set, email notifications disabled")
	}

	var suggestionService adapter.SuggestionService
	if cfg.Gemini.APIKey != "" {
		suggestionService = adapters.NewGeminiService(cfg.Gemini.APIKey)
		slog.Info("Class suggestions enabled")
	}

	var exporter adapter.SpreadsheetExporter
	if cfg.Sheets.SpreadsheetID != "" {
		sheets, err := export.NewSheetsExporterFromEnv(context.Background(), cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName)
		if err != nil {
			slog.Warn("Spreadsheet export disabled", "error", err)
		} else {
			exporter = sheets
			slog.Info("Spreadsheet export enabled", "spreadsheet_id", cfg.Sheets.SpreadsheetID)
		}
	}

	// Create use cases
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)
	seedUseCase := auth.NewSeedUserUseCase(userRepo, passwordService)

	// Ensure the root user exists. There is no self-service registration.
	if cfg.Root.Password != "" {
		if _, err := seedUseCase.Execute(context.Background(), auth.SeedUserInput{
			Username:  cfg.Root.Username,
			Email:     cfg.Root.Email,
			Password:  cfg.Root.Password,
			Privilege: entity.RootPrivilege,
		}); err != nil {
			slog.Error("Failed to seed root user", "error", err)
			os.Exit(1)
		}
		slog.Info("Root user ready", "username", cfg.Root.Username)
	} else {
		slog.Warn("ROOT_PASSWORD not set, root user not seeded")
	}

	// Create controllers and middleware
	healthController := controller.NewHealthController()
	authController := controller.NewAuthController(loginUseCase, logoutUseCase, tokenService, cfg.Server.SecureCookies)
	notifier := controller.NewNotifier(userRepo, emailSender)
	budgetController := controller.NewBudgetController(newLedger, notifier, suggestionService, exporter, resetEventRepo)
	loginRateLimiter := middleware.NewRateLimiter()
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Background cycle renewer keeps resets firing between requests
	renewerCtx, stopRenewer := context.WithCancel(context.Background())
	defer stopRenewer()
	if cfg.Renewer.Enabled {
		cycleRenewer := renewer.NewRenewer(
			renewer.LedgerFactory(newLedger),
			resetEventRepo,
			userRepo,
			emailSender,
			renewer.Config{
				TickInterval:    cfg.Renewer.TickInterval,
				NotifyThreshold: cfg.Renewer.NotifyThreshold,
			},
		)
		go cycleRenewer.Start(renewerCtx)
	}

	// Setup router
	r := router.NewRouter(healthController, authController, budgetController, loginRateLimiter, authMiddleware)
	engine := r.Setup(cfg.Server.Environment)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	stopRenewer()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}
