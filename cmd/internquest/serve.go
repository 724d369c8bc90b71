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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/internquest/internquest-api/internal/api"
	"github.com/internquest/internquest-api/internal/api/handler"
	"github.com/internquest/internquest-api/internal/api/metrics"
	"github.com/internquest/internquest-api/internal/api/session"
	"github.com/internquest/internquest-api/internal/core/credential"
	"github.com/internquest/internquest-api/internal/core/ports"
	"github.com/internquest/internquest-api/internal/core/service"
	"github.com/internquest/internquest-api/internal/infrastructure/config"
	mongostore "github.com/internquest/internquest-api/internal/infrastructure/db/mongo"
	pgstore "github.com/internquest/internquest-api/internal/infrastructure/db/postgres"
	redisstore "github.com/internquest/internquest-api/internal/infrastructure/db/redis"
	"github.com/internquest/internquest-api/internal/infrastructure/queue"
	"github.com/internquest/internquest-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Connect to MongoDB, Redis and optionally PostgreSQL, then serve the
API until SIGINT or SIGTERM.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "internquest",
	})

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.Store.Timeout,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Store.Timeout,
	})
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), cfg.Store.Timeout)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure mongo indexes: %w", err)
	}

	checks := []handler.Check{handler.MongoCheck(db), handler.RedisCheck(rdb)}

	var store ports.CredentialStore
	switch cfg.Store.Driver {
	case "postgres":
		pool, err := pgstore.Connect(ctx, cfg.Postgres.URL, cfg.Store.Timeout)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		store = pgstore.NewCredentialStore(pool, cfg.Store.Timeout)
		checks = append(checks, handler.PostgresCheck(pool))
	default:
		store = mongostore.NewCredentialStore(db, cfg.Store.Timeout, logger.Component("credential_store"))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Audit workers outlive the signal context so they can drain while the
	// server shuts down.
	auditCtx, stopAudit := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(
		cfg.Audit.Workers,
		mongostore.NewAuditRepository(db, cfg.Store.Timeout),
		m,
		logger.Component("audit"),
	)
	dispatcher.Start(auditCtx)
	defer func() {
		stopAudit()
		dispatcher.Wait()
	}()

	authService := service.NewAuthService(
		store,
		redisstore.NewSessionStore(rdb),
		credential.Default(),
		logger.Component("auth"),
		service.WithSessionTTL(cfg.Session.MaxAge),
		service.WithAuditSink(dispatcher),
	)
	internshipService := service.NewInternshipService(
		mongostore.NewInternshipRepository(db, cfg.Store.Timeout),
		mongostore.NewApplicationRepository(db, cfg.Store.Timeout),
		store,
		logger.Component("internships"),
	)

	e := api.NewRouter(api.Deps{
		Auth:        authService,
		Internships: internshipService,
		Cookie: session.NewCookie(session.Options{
			Name:   cfg.Session.CookieName,
			Secret: cfg.Session.Secret,
			Secure: cfg.IsProduction(),
		}),
		Metrics:  m,
		Registry: reg,
		Checks:   checks,
		Log:      logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("store", cfg.Store.Driver).
			Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
