// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/chedoparti/clubsched/internal/config"
	"github.com/chedoparti/clubsched/internal/configstore"
	"github.com/chedoparti/clubsched/internal/ratelimit"
	"github.com/chedoparti/clubsched/internal/schedule"
	"github.com/chedoparti/clubsched/internal/scheduler"
)

const shutdownTimeout = 30 * time.Second

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func newStore(ctx context.Context, cfg *config.Config) (configstore.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return configstore.NewSQLite(cfg.Store.Filename)
	case "redis":
		return configstore.NewRedis(ctx, cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("Failed to open configuration store")
	}
	defer store.Close()

	unsubscribe := store.OnScheduleChanged(func(s schedule.InstitutionSchedule) {
		log.Info().Int("days", len(s.Days)).Msg("Institution schedule changed")
	})
	defer unsubscribe()

	jobs, err := scheduler.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	if _, err := jobs.AddJob("schedule_audit", cfg.Jobs.ScheduleAudit, scheduler.NewScheduleAudit(store)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register schedule audit job")
	}

	writeLimiter := ratelimit.New(nil)
	defer writeLimiter.Close()

	server := newServer(cfg, store, writeLimiter)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		jobs.Start()
		log.Info().Int("port", cfg.App.Port).Str("driver", cfg.Store.Driver).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return jobs.Stop()
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
