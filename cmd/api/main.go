package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/bremray/bremray-backend/api/controllers"
	"github.com/bremray/bremray-backend/api/routes"
	internalauth "github.com/bremray/bremray-backend/internal/auth"
	"github.com/bremray/bremray-backend/internal/catalog"
	"github.com/bremray/bremray-backend/internal/contractors"
	"github.com/bremray/bremray-backend/internal/jobcards"
	"github.com/bremray/bremray-backend/internal/jobs"
	"github.com/bremray/bremray-backend/internal/photos"
	"github.com/bremray/bremray-backend/internal/users"
	"github.com/bremray/bremray-backend/internal/workspaces"
	pkgauth "github.com/bremray/bremray-backend/pkg/auth"
	"github.com/bremray/bremray-backend/pkg/config"
	"github.com/bremray/bremray-backend/pkg/db"
	"github.com/bremray/bremray-backend/pkg/logger"
	"github.com/bremray/bremray-backend/pkg/metrics"
	"github.com/bremray/bremray-backend/pkg/migrate"
	"github.com/bremray/bremray-backend/pkg/redis"
	"github.com/bremray/bremray-backend/pkg/storage/r2"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	r2Client, err := r2.NewClient(context.Background(), cfg.R2, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap object storage", err)
		os.Exit(1)
	}

	codec, err := pkgauth.NewCodec(cfg.JWT.SigningSecret(cfg.App), cfg.JWT.Issuer, cfg.JWT.TokenTTL())
	if err != nil {
		logg.Error(context.Background(), "failed to build token codec", err)
		os.Exit(1)
	}

	conn := dbClient.DB()

	authService, err := internalauth.NewService(internalauth.ServiceParams{
		UserRepo: users.NewRepository(conn),
		Tokens:   codec,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	contractorsService, err := contractors.NewService(contractors.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create contractors service", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(conn)
	jobsService, err := jobs.NewService(jobs.ServiceParams{
		JobRepo:       jobs.NewRepository(conn),
		WorkspaceRepo: workspaces.NewRepository(conn),
		TemplateRepo:  catalogRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create jobs service", err)
		os.Exit(1)
	}

	jobCardsService, err := jobcards.NewService(jobcards.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create job cards service", err)
		os.Exit(1)
	}

	photosService, err := photos.NewService(photos.ServiceParams{
		Repo:        photos.NewRepository(conn),
		JobRepo:     jobs.NewRepository(conn),
		Store:       r2Client,
		Logger:      logg,
		MaxUploadMB: cfg.Photos.MaxUploadMB,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create photos service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	readyChecks := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
		"storage":  r2Client,
	}

	handler := routes.NewRouter(
		cfg,
		logg,
		codec,
		redisClient,
		httpMetrics,
		authService,
		catalogService,
		contractorsService,
		jobsService,
		jobCardsService,
		photosService,
		readyChecks,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	closeErr := multierr.Combine(redisClient.Close(), dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "error closing clients", closeErr)
		os.Exit(1)
	}
}
