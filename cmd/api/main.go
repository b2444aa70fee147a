package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sweepo-backend/config"
	_ "sweepo-backend/docs" // Important for Swagger
	v1 "sweepo-backend/internal/delivery/http/v1"
	"sweepo-backend/internal/usecase"
	"sweepo-backend/pkg/email"
	"sweepo-backend/pkg/logger"
	"sweepo-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// @title           Sweepo Server API
// @version         1.0
// @description     Receives website quote requests and emails them to the booking team.
// @host            localhost:8080
// @BasePath        /
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	appLog := logger.New(cfg.LogLevel)
	slog.SetDefault(appLog)
	gin.SetMode(cfg.GinMode)
	appLog.Info("Starting Sweepo server", "port", cfg.Port)
	appLog.Info("Email configuration loaded", "smtp", cfg.Email)

	// 3. Setup Email Service
	renderer := email.NewRenderer(cfg.TemplateDir, cfg.TemplateCache, appLog)
	emailService := email.NewEmailService(cfg.Email, renderer, appLog)
	if !emailService.IsConfigured() {
		appLog.Warn("Email service not fully configured - quote requests will fail until SMTP settings are provided")
	}

	// 4. Setup UseCases
	quoteUC := usecase.NewQuoteUsecase(emailService, validation.New(), appLog)
	healthUC := usecase.NewHealthUsecase()

	// 5. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		QuoteUC:  quoteUC,
		HealthUC: healthUC,
		Config:   cfg,
		Logger:   appLog,
	})

	// 6. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Leaves room for a full SMTP conversation
		WriteTimeout: cfg.Email.ConnectTimeout + cfg.Email.OperationTimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLog.Error("Server forced to shutdown", "error", err)
	}

	appLog.Info("Server exiting")
}
