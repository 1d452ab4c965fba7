package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/inmeta/pitwall/internal/adapters/directory"
	"github.com/inmeta/pitwall/internal/adapters/http/api"
	"github.com/inmeta/pitwall/internal/adapters/http/site"
	"github.com/inmeta/pitwall/internal/adapters/http/swagger"
	"github.com/inmeta/pitwall/internal/adapters/notify"
	"github.com/inmeta/pitwall/internal/adapters/repository"
	app "github.com/inmeta/pitwall/internal/app"
	"github.com/inmeta/pitwall/internal/config"
	"github.com/inmeta/pitwall/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Local development reads secrets from .env; absence is fine.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts := []app.Option{
		app.WithLogger(log.Named("service")),
		app.WithQueueSize(cfg.NotifyQueueSize),
		app.WithWorkerCount(cfg.NotifyWorkers),
	}

	if cfg.DatabaseURL != "" {
		store, err := repository.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error(ctx, "failed to open score store", logger.Error(err))
			return
		}
		opts = append(opts, app.WithStore(store))
		log.Info(ctx, "using postgres score store")
	}

	roster, err := buildDirectory(cfg)
	switch {
	case err == nil:
		opts = append(opts, app.WithDirectory(roster))
	case errors.Is(err, directory.ErrNotConfigured):
		log.Warn(ctx, "roster directory not configured, leaderboard will show player ids")
	default:
		log.Error(ctx, "failed to build roster directory", logger.Error(err))
		return
	}

	notifier, err := notify.NewSlackWebhook(cfg.SlackWebhookURL)
	switch {
	case err == nil:
		opts = append(opts, app.WithNotifier(notifier))
	case errors.Is(err, notify.ErrNotConfigured):
		log.Warn(ctx, "slack webhook not configured, milestone delivery disabled")
	default:
		log.Error(ctx, "failed to build notifier", logger.Error(err))
		return
	}

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register the API reference under /api-docs
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc, cfg.SiteURL)
	apiServer.Register(ctx, mux)

	// The embedded leaderboard page takes the root.
	site.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// buildDirectory wires the CMS roster client with its TTL cache.
func buildDirectory(cfg *config.Config) (directory.Directory, error) {
	var opts []directory.SanityOption
	if cfg.DirectoryBaseURL != "" {
		opts = append(opts, directory.WithBaseURL(cfg.DirectoryBaseURL))
	}

	client, err := directory.NewSanityClient(
		cfg.SanityProjectID,
		cfg.SanityDataset,
		cfg.SanityAPIVersion,
		cfg.SanityUseCDN,
		opts...,
	)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(cfg.DirectoryCacheTTLSeconds) * time.Second
	if ttl <= 0 {
		return client, nil
	}
	return directory.NewCached(client, ttl), nil
}

// startServiceMetricsUpdater refreshes service gauges on an interval.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats updates the tracked-score gauges as a side effect.
			_ = svc.GetStats()
		}
	}
}
