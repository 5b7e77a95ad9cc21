package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-backend/config"
	_ "portfolio-backend/docs" // Important for Swagger
	v1 "portfolio-backend/internal/delivery/http/v1"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/devlog"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/notify"
	"portfolio-backend/pkg/redis"
	"portfolio-backend/pkg/sanitize"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/validation"
)

// @title           Portfolio Contact API
// @version         1.0
// @description     Contact form backend for the portfolio site.
// @host            localhost:5000
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.Debug)
	env := "development"
	if cfg.IsProduction() {
		env = "production"
	}
	secLog := security.InitSecurityLogger("portfolio-backend", env)
	defer secLog.Sync()

	logger.Log.Info("Starting portfolio backend", "port", cfg.Port, "notifier", cfg.Notifier, "debug", cfg.Debug)

	// 3. Setup Rate Limit Store
	if cfg.RedisURL != "" {
		if err := redis.Initialize(context.Background(), redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting will use in-memory store", "error", err)
		}
		defer redis.Close()
	}

	// 4. Setup Contact Pipeline
	mode, err := sanitize.ParseMode(cfg.SanitizeMode)
	if err != nil {
		logger.Log.Error("Invalid sanitize mode", "error", err)
		os.Exit(1)
	}

	denylist, err := validation.LoadDenylist(cfg.DenylistFile)
	if err != nil {
		logger.Log.Error("Failed to load denylist", "path", cfg.DenylistFile, "error", err)
		os.Exit(1)
	}

	notifier, err := notify.New(cfg)
	if err != nil {
		logger.Log.Error("Failed to set up notifier", "error", err)
		os.Exit(1)
	}

	var devLog domain.SubmissionLogger
	if cfg.Debug {
		fileLog := devlog.NewFileLog(cfg.DevLogPath)
		devLog = fileLog
		logger.Log.Info("Development message log enabled", "path", fileLog.Path())
	}

	sanitizer := sanitize.New(mode)
	logger.Log.Info("Contact pipeline ready",
		"notifier", notifier.Name(),
		"sanitize_mode", sanitizer.Mode(),
		"denylist_patterns", denylist.Len(),
		"max_message_length", cfg.MaxMessageLength,
	)

	// 5. Setup UseCases
	contactUC := usecase.NewContactUsecase(notifier, validation.NewValidator(), usecase.ContactOptions{
		Sanitizer:        sanitizer,
		Denylist:         denylist,
		MaxMessageLength: cfg.MaxMessageLength,
		DevLog:           devLog,
		SecurityLogger:   secLog,
	})
	healthUC := usecase.NewHealthUsecase(contactUC, cfg.RedisURL != "")

	// 6. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC: contactUC,
		HealthUC:  healthUC,
		Config:    cfg,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DispatchTimeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
