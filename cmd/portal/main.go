package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/logisamb/portal/internal/app"
	"github.com/logisamb/portal/internal/auth"
	"github.com/logisamb/portal/internal/dashboard"
	"github.com/logisamb/portal/internal/export"
	"github.com/logisamb/portal/internal/guides"
	"github.com/logisamb/portal/internal/invoices"
	"github.com/logisamb/portal/internal/observability"
	"github.com/logisamb/portal/internal/platform/cache"
	"github.com/logisamb/portal/internal/shared"
	"github.com/logisamb/portal/internal/upstream"
	"github.com/logisamb/portal/internal/users"
	"github.com/logisamb/portal/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	// Sessions live in redis; the portal cannot run without it.
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "portal_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	metrics := observability.NewMetrics()

	backend := upstream.NewClient(cfg.BackendURL).WithErrorObserver(metrics.ObserveUpstreamError)
	if err := backend.Ping(ctx); err != nil {
		logger.Warn("backend ping", slog.Any("error", err))
	}

	pdfExporter := &export.PDFExporter{Endpoint: cfg.GotenbergURL, Client: http.DefaultClient}

	authService := auth.NewService(backend)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	dashboardCache := dashboard.NewCache(redisClient, cfg.DashboardCacheTTL)
	dashboardService := dashboard.NewService(backend, dashboardCache, redisClient)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)

	guidesHandler := guides.NewHandler(logger, guides.NewService(backend), pdfExporter)
	invoicesHandler := invoices.NewHandler(logger, invoices.NewService(backend), pdfExporter)
	usersHandler := users.NewHandler(logger, users.NewService(backend), pdfExporter)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		AuthHandler:      authHandler,
		DashboardHandler: dashboardHandler,
		GuidesHandler:    guidesHandler,
		InvoicesHandler:  invoicesHandler,
		UsersHandler:     usersHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
