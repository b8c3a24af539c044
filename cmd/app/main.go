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

	"golang.org/x/sync/errgroup"

	"github.com/osse101/ToolForge_Go/internal/bootstrap"
	"github.com/osse101/ToolForge_Go/internal/config"
	"github.com/osse101/ToolForge_Go/internal/logger"
	"github.com/osse101/ToolForge_Go/internal/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Structured output even for failures before the config is known
	logger.InitLogger(logger.DefaultConfig())

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Load has already pulled in .env, so validation sees the same values
	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		log.Fatalf("Environment validation failed: %v", err)
	}

	if cfg.LogDir == "" {
		initLogger(cfg)
	} else {
		logFile, err := bootstrap.SetupLogger(cfg)
		if err != nil {
			log.Fatalf("Failed to set up logger: %v", err)
		}
		defer logFile.Close()
	}
	for _, w := range warnings {
		slog.Warn(w)
	}

	if err := run(cfg); err != nil {
		slog.Error("ToolForge exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, pack, err := bootstrap.LoadRegistry(ctx, cfg)
	if err != nil {
		return err
	}

	storage, err := bootstrap.InitializeToolStorage(ctx, cfg)
	if err != nil {
		return err
	}

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		if storage.Pool != nil {
			storage.Pool.Close()
		}
		return err
	}

	opts := server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		Version:        cfg.Version,
		PackChecksum:   pack.Checksum,
		Forge:          bootstrap.NewForgeService(cfg, reg, storage.Repo, publisher),
	}
	// a nil *pgxpool.Pool must not become a non-nil Pinger
	if storage.Pool != nil {
		opts.DB = storage.Pool
	}
	srv := server.NewServer(opts)
	components := bootstrap.ShutdownComponents{
		Server:             srv,
		ResilientPublisher: publisher,
		DBPool:             storage.Pool,
	}

	if err := bootstrap.RegisterEventHandlers(bus); err != nil {
		shutdown(components)
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	// runs on a signal or when the server fails to start
	g.Go(func() error {
		<-gctx.Done()
		shutdown(components)
		return nil
	})
	return g.Wait()
}

func shutdown(components bootstrap.ShutdownComponents) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(ctx, components)
}
