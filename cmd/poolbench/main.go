// Package main boots the pool operations harness, wiring configuration, logger, the bounded thread pool, a Redis feed, and an MQTT status publisher.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ibs-source/gopool/internal/config"
	"github.com/ibs-source/gopool/internal/feed"
	"github.com/ibs-source/gopool/internal/logger"
	"github.com/ibs-source/gopool/internal/notify"
	"github.com/ibs-source/gopool/internal/pool"
	core "github.com/ibs-source/gopool/internal/ports"
)

// Application wires the pool to its two producers: a Redis feed that
// submits work, and an MQTT publisher that reports on it.
type Application struct {
	config *config.Config
	logger core.Logger
	pool   *pool.Pool
	feed   *feed.RedisSource
	notify *notify.StatusPublisher
}

func main() {
	os.Exit(run())
}

// run contains the program logic and returns an exit code. Using this
// pattern ensures defers run and avoids exit-after-defer lint issues.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	logr, err := logger.NewLogrusLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}

	app, err := newApplication(cfg, logr)
	if err != nil {
		logr.Error("failed to build application", core.Field{Key: "error", Value: err})
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Start(ctx); err != nil {
		logr.Error("failed to start application", core.Field{Key: "error", Value: err})
		return 1
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logr.Info("received shutdown signal", core.Field{Key: "signal", Value: sig})
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	app.Shutdown(shutdownCtx)

	logr.Info("application shutdown complete")
	return 0
}

func newApplication(cfg *config.Config, logr core.Logger) (*Application, error) {
	p, err := pool.New(pool.Config{
		Threads:   cfg.Pool.Threads,
		QueueSize: cfg.Pool.QueueSize,
		Block:     cfg.Pool.Block,
		Logger:    logr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	redisFeed, err := feed.NewRedisSource(cfg.Feed, p, logr)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis feed: %w", err)
	}

	return &Application{
		config: cfg,
		logger: logr,
		pool:   p,
		feed:   redisFeed,
		notify: notify.NewStatusPublisher(cfg.Notify, p, logr),
	}, nil
}

// Start starts the feed and the status publisher; the pool itself has no
// explicit start step, it spawns workers lazily as tasks are submitted.
func (app *Application) Start(ctx context.Context) error {
	app.logger.Info("starting application",
		core.Field{Key: "name", Value: app.config.App.Name},
		core.Field{Key: "environment", Value: app.config.App.Environment},
	)

	if err := app.feed.Start(ctx); err != nil {
		return fmt.Errorf("failed to start feed: %w", err)
	}

	if err := app.notify.Start(app.config.Notify.ConnectTimeout); err != nil {
		return fmt.Errorf("failed to start notify: %w", err)
	}

	app.logger.Info("application started successfully")
	return nil
}

// Shutdown stops the feed, the status publisher, and drains the pool in
// that order, so the pool finishes whatever the feed already submitted.
func (app *Application) Shutdown(ctx context.Context) {
	app.logger.Info("shutting down application")

	if err := app.feed.Stop(ctx); err != nil {
		app.logger.Error("failed to stop feed", core.Field{Key: "error", Value: err})
	}

	app.notify.Stop(app.config.Notify.WriteTimeout)

	spawned := app.pool.Finish(ctx)
	app.logger.Info("pool drained", core.Field{Key: "spawned_workers", Value: spawned})
}
