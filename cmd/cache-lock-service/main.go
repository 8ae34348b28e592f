// cmd/cache-lock-service/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/avivl/cache-lock/internal/cachelock"
	"github.com/avivl/cache-lock/internal/config"
	"github.com/avivl/cache-lock/internal/observability"
	"github.com/avivl/cache-lock/internal/server"
)

// App represents the application state
type App struct {
	logger       *observability.SLogger
	lock         *cachelock.Lock
	watcher      *config.Watcher
	grpcServer   *server.Server
	otelShutdown func()
	configPath   string
}

func main() {
	configPath := flag.String("config", "/etc/cache-lock/config.yaml", "Path to configuration file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := NewApp(ctx, *configPath)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signals
		app.logger.Infof("Received signal: %v", sig)
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		app.logger.Errorf("Application error: %v", err)
		os.Exit(1)
	}
}

// NewApp loads the configuration and wires the lock behind a gRPC server.
// A lock that fails to connect is served disabled rather than aborting startup.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	app := &App{configPath: configPath}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger.Level.GetZapLevel())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	app.logger = logger

	otelShutdown, err := observability.InitProvider(ctx, cfg.Observability)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	app.otelShutdown = otelShutdown

	var metrics observability.MetricsClient = observability.NopMetrics{}
	if cfg.Observability.Enabled {
		otelMetrics, err := observability.NewMetricsClient(cfg.Observability, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics client: %w", err)
		}
		metrics = otelMetrics
	}

	app.lock = cachelock.New(ctx, cfg, logger, cachelock.WithMetrics(metrics))

	grpcServer, err := server.NewServer(cfg, app.lock, logger, metrics)
	if err != nil {
		app.lock.Close()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}
	app.grpcServer = grpcServer

	app.setupConfigWatcher(cfg)

	return app, nil
}

func (a *App) setupConfigWatcher(cfg *config.GlobalConfig) {
	watcher, err := config.Watch(a.configPath, cfg)
	if err != nil {
		a.logger.Warnf("Config watcher disabled: %v", err)
		return
	}
	a.watcher = watcher

	watcher.AddWatcher(func(newConfig *config.GlobalConfig) {
		a.logger.Infow("Configuration changed, restart the service to apply it",
			"backend", newConfig.BackendName(),
			"database", newConfig.CacheLock.Database,
		)
	})
}

// Run serves until the context is cancelled, then shuts down.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("Starting cache lock service")

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.grpcServer.Start(ctx)
	}()

	select {
	case err := <-errCh:
		a.Shutdown()
		return err
	case <-ctx.Done():
	}

	a.Shutdown()
	return <-errCh
}

// Shutdown gracefully stops the application
func (a *App) Shutdown() {
	a.logger.Info("Shutting down application")

	if err := a.grpcServer.Stop(); err != nil {
		a.logger.Errorf("Error stopping server: %v", err)
	}
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.logger.Errorf("Error closing config watcher: %v", err)
		}
	}
	a.lock.Close()

	if a.otelShutdown != nil {
		a.otelShutdown()
	}

	a.logger.Info("Application shutdown complete")
}
