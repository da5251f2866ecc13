package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/ideabox-api/internal/email"
	authHandler "github.com/jwalitptl/ideabox-api/internal/handler/auth"
	employeeHandler "github.com/jwalitptl/ideabox-api/internal/handler/employee"
	healthHandler "github.com/jwalitptl/ideabox-api/internal/handler/health"
	ideaHandler "github.com/jwalitptl/ideabox-api/internal/handler/idea"
	promHandler "github.com/jwalitptl/ideabox-api/internal/handler/prometheus"
	reviewerHandler "github.com/jwalitptl/ideabox-api/internal/handler/reviewer"
	userHandler "github.com/jwalitptl/ideabox-api/internal/handler/user"
	"github.com/jwalitptl/ideabox-api/internal/middleware"
	"github.com/jwalitptl/ideabox-api/internal/router"
	authService "github.com/jwalitptl/ideabox-api/internal/service/auth"
	employeeService "github.com/jwalitptl/ideabox-api/internal/service/employee"
	ideaService "github.com/jwalitptl/ideabox-api/internal/service/idea"
	notificationService "github.com/jwalitptl/ideabox-api/internal/service/notification"
	reviewerService "github.com/jwalitptl/ideabox-api/internal/service/reviewer"
	userService "github.com/jwalitptl/ideabox-api/internal/service/user"
	"github.com/jwalitptl/ideabox-api/internal/worker"
	"github.com/jwalitptl/ideabox-api/pkg/auth"
	"github.com/jwalitptl/ideabox-api/pkg/metrics"
	"github.com/jwalitptl/ideabox-api/pkg/security"
	"github.com/jwalitptl/ideabox-api/pkg/sms"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, appLogger, err := bootstrap()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	rdb, err := openRevocations(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.close()

	if err := os.MkdirAll(cfg.Server.UploadDir, 0o750); err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}

	smsCfg, err := sms.LoadConfig()
	if err != nil {
		return err
	}
	smtpCfg, err := email.LoadSMTPConfig()
	if err != nil {
		return err
	}
	if !smtpCfg.Enabled() {
		log.Warn().Msg("SMTP not configured, email notifications disabled")
	}

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(cfg.Monitoring.Namespace, registry)

	// Services
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	notifier := notificationService.NewService(
		store.Principals,
		store.Notifications,
		sms.New(smsCfg, log.Logger),
		email.NewService(smtpCfg),
		m,
		appLogger.Component("notification"),
	)
	authSvc := authService.NewService(store.Principals, rdb.revocations, jwtSvc, hasher, cfg.JWT.PrincipalCacheTTL, appLogger.Component("auth"))
	ideaSvc := ideaService.NewService(store.Ideas, notifier, m, appLogger.Component("idea"))
	employeeSvc := employeeService.NewService(store.Principals, hasher, m, appLogger.Component("employee"))
	reviewerSvc := reviewerService.NewService(store.Principals, hasher, appLogger.Component("reviewer"))
	userSvc := userService.NewService(store.Principals, employeeSvc, appLogger.Component("user"))

	if err := middleware.RegisterValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}
	enforcer, err := middleware.NewEnforcer()
	if err != nil {
		return fmt.Errorf("failed to build enforcer: %w", err)
	}

	handlers := router.Handlers{
		Auth:     authHandler.NewHandler(authSvc),
		Idea:     ideaHandler.NewHandler(ideaSvc, notifier),
		Employee: employeeHandler.NewHandler(employeeSvc, cfg.Server.UploadDir),
		Reviewer: reviewerHandler.NewHandler(reviewerSvc),
		User:     userHandler.NewHandler(userSvc),
	}
	checks := []healthHandler.Check{{Name: "database", Pinger: store.Pinger}}
	if rdb.pinger != nil {
		checks = append(checks, healthHandler.Check{Name: "redis", Pinger: rdb.pinger})
	}
	handlers.Health = healthHandler.NewHandler(checks...)
	if cfg.Monitoring.PrometheusEnabled {
		handlers.Metrics = promHandler.New(registry, cfg.Monitoring.Namespace)
	}

	routerConfig := router.RouterConfig{
		CORSConfig:    middleware.DefaultCORSConfig(cfg.CORS.AllowedOrigins...),
		Timeout:       cfg.Server.RequestTimeout,
		UploadTimeout: cfg.Server.UploadTimeout,
		SizeLimit: middleware.SizeLimitConfig{
			MaxBodySize:   cfg.Server.MaxBodySize,
			MaxUploadSize: cfg.Server.MaxUploadSize,
		},
		MetricsPath: cfg.Monitoring.MetricsPath,
	}
	if cfg.RateLimit.Enabled {
		routerConfig.RateLimit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
		routerConfig.RateBurst = cfg.RateLimit.Burst
	}

	r := router.NewRouter(middleware.NewAuthMiddleware(authSvc), enforcer, handlers, routerConfig)
	r.Setup()

	sweeper := worker.NewUploadCleanupWorker(
		cfg.Server.UploadDir,
		cfg.Worker.UploadMaxAge,
		cfg.Worker.UploadSweepInterval,
		m,
		appLogger.Component("upload_cleanup"),
	)
	go sweeper.Start(ctx)

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("driver", cfg.Database.Driver).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited properly")
	return nil
}
