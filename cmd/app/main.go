package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PixVoxGames/0pg/internal/activity"
	"github.com/PixVoxGames/0pg/internal/config"
	"github.com/PixVoxGames/0pg/internal/database"
	"github.com/PixVoxGames/0pg/internal/database/postgres"
	"github.com/PixVoxGames/0pg/internal/economy"
	"github.com/PixVoxGames/0pg/internal/event"
	"github.com/PixVoxGames/0pg/internal/hero"
	"github.com/PixVoxGames/0pg/internal/logger"
	"github.com/PixVoxGames/0pg/internal/notify"
	"github.com/PixVoxGames/0pg/internal/server"
	"github.com/PixVoxGames/0pg/internal/sse"
	"github.com/PixVoxGames/0pg/internal/worker"
	"github.com/PixVoxGames/0pg/internal/world"
)

const (
	shutdownTimeout   = 10 * time.Second
	resendUnsentLimit = 100
)

func main() {
	if err := run(); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "0pg",
		Environment: cfg.Environment,
	})
	slog.Info("Configuration loaded", "port", cfg.Port, "environment", cfg.Environment)

	ctx := context.Background()

	if err := database.Migrate(cfg.GetDBConnString()); err != nil {
		return err
	}

	dbPool, err := database.NewPool(ctx, cfg.GetDBConnString())
	if err != nil {
		return err
	}
	defer dbPool.Close()

	// World content: JSON is the source of truth, synced into storage on
	// every start, then frozen into an immutable in-memory snapshot.
	worldRepo := postgres.NewWorldRepository(dbPool)
	worldLoader := world.NewLoader()
	worldCfg, err := worldLoader.Load(cfg.ConfigDir)
	if err != nil {
		return err
	}
	if err := worldLoader.Validate(worldCfg); err != nil {
		return err
	}
	if err := worldLoader.SyncToDatabase(ctx, worldCfg, worldRepo); err != nil {
		return err
	}
	snap, err := world.BuildSnapshot(ctx, worldRepo, worldCfg.Actions)
	if err != nil {
		return err
	}

	heroRepo := postgres.NewHeroRepository(dbPool)
	shopRepo := postgres.NewShopRepository(dbPool)
	activityRepo := postgres.NewActivityRepository(dbPool)
	notificationRepo := postgres.NewNotificationRepository(dbPool)

	eventBus := event.NewMemoryBus()
	hub := sse.NewHub()
	hub.Start()

	// Mirror game events onto the SSE stream for dashboards and bridges.
	broadcast := func(ctx context.Context, ev event.Event) error {
		hub.Broadcast(sse.EventTypeGame, ev)
		return nil
	}
	for _, t := range []event.Type{
		event.HeroRegistered, event.FightStarted, event.MobKilled,
		event.HeroDied, event.HeroRespawned, event.HeroHealed,
		event.ItemBought, event.ItemSold,
	} {
		eventBus.Subscribe(t, broadcast)
	}

	notifier := notify.NewOutbox(notificationRepo, hub)

	economyService := economy.NewService(shopRepo, snap, eventBus)

	pool := worker.NewPool(cfg.Workers, cfg.QueueSize)
	pool.Start()
	defer pool.Stop()

	scheduler := activity.NewScheduler(activityRepo, pool)
	heroService := hero.NewService(heroRepo, economyService, snap, scheduler, notifier, eventBus)
	scheduler.SetFirer(heroService)

	// Re-arm timers for activities that were pending when the last
	// process died, and flush notifications that never went out.
	if err := scheduler.Recover(ctx); err != nil {
		return err
	}
	if err := notify.ResendUnnotified(ctx, notificationRepo, hub, resendUnsentLimit); err != nil {
		slog.Warn("Failed to resend pending notifications", "error", err)
	}

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, dbPool, heroService, economyService, hub)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	if err := scheduler.Shutdown(shutdownCtx); err != nil {
		slog.Error("Scheduler shutdown failed", "error", err)
	}
	hub.Stop()

	slog.Info("Shutdown complete")
	return nil
}
