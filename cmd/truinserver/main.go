package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oocraftrabbitoo/truinlag/internal/config"
	"github.com/oocraftrabbitoo/truinlag/internal/db"
	"github.com/oocraftrabbitoo/truinlag/internal/engine"
	"github.com/oocraftrabbitoo/truinlag/internal/ipc"
	"github.com/oocraftrabbitoo/truinlag/internal/metrics"
)

const ConfigPath = "config/truinserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	slog.Info("truinlag server starting")

	cfgPath := ConfigPath
	if p := os.Getenv("TRUINLAG_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadServerConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	slog.Info("config loaded", "socket", cfg.SocketPath, "metrics", cfg.MetricsAddr)

	if err := db.RunMigrations(ctx, cfg.StoreDSN); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	store, err := db.New(ctx, cfg.StoreDSN)
	if err != nil {
		return fmt.Errorf("connecting to store: %w", err)
	}
	defer store.Close()
	slog.Info("store connected")

	m := metrics.New()

	eng := engine.New(store, slog.Default().With("component", "engine"), m, nil)
	if err := eng.Load(ctx); err != nil {
		return fmt.Errorf("loading engine snapshot: %w", err)
	}

	hub := ipc.New(cfg.SocketPath, eng, cfg.MaxFrameBytes, m, slog.Default().With("component", "ipc"))
	eng.SetBroadcast(hub.BroadcastFunc())

	// rootCtx is cancelled by either an external signal or the engine's own
	// Shutdown command, so every component shuts down on either trigger.
	rootCtx, rootCancel := context.WithCancel(ctx)
	defer rootCancel()
	go func() {
		select {
		case <-ctx.Done():
		case <-eng.ShutdownRequested():
		}
		rootCancel()
	}()

	group, gctx := errgroup.WithContext(rootCtx)

	group.Go(func() error {
		eng.Run(gctx)
		return nil
	})

	group.Go(func() error {
		return hub.Run(gctx)
	})

	metricsServer := &http.Server{Addr: cfg.MetricsAddr, Handler: m.Handler()}
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})
	group.Go(func() error {
		slog.Info("metrics server listening", "addr", cfg.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}
	slog.Info("truinlag server stopped")
	return nil
}
