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

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"fixture-tracker-backend/config"
	"fixture-tracker-backend/internal/api"
	"fixture-tracker-backend/internal/db"
	"fixture-tracker-backend/internal/health"
	"fixture-tracker-backend/internal/logger"
	"fixture-tracker-backend/internal/monitor"
	"fixture-tracker-backend/internal/notification"
	"fixture-tracker-backend/internal/store"
	"fixture-tracker-backend/internal/usage"
)

const shutdownTimeout = 5 * time.Second

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "fixtured",
		Short:         "Test fixture inventory and usage tracking backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: $CONFIG_PATH or ./config/config.yaml)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API and the fixture monitor",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema and exit",
			RunE:  runMigrate,
		},
	)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("fixtured failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads .env, the YAML config and installs the logger.
func loadConfig() (*config.Config, func() error, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("failed to load .env: %w", err)
	}

	path := configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "./config/config.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration from %s: %w", path, err)
	}

	closeLog, err := logger.Init(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	slog.Info("configuration loaded", "path", path)
	return cfg, closeLog, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, closeLog, err := loadConfig()
	if err != nil {
		return err
	}
	defer closeLog()

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err == nil {
		sqlDB.Close()
	}
	slog.Info("database schema is up to date")
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, closeLog, err := loadConfig()
	if err != nil {
		return err
	}
	defer closeLog()

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		return err
	}
	slog.Info("database initialized")
	appStore := store.NewGormStore(gormDB)

	var webpushOptions *webpush.Options
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	} else {
		slog.Warn("VAPID keys are not configured; push notifications are disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if webpushOptions != nil {
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions)
		pool.Start(ctx)

		monitorSvc := monitor.NewService(cfg, usage.NewAggregator(appStore), health.NewScorer(appStore), pool)
		go monitorSvc.Run(ctx)
	}

	cacheStore, closeCache := api.NewCacheStore(cfg)
	defer closeCache()

	router := api.NewRouter(appStore, cfg, cacheStore, webpushOptions)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		slog.Info("shutdown signal received, stopping services", "signal", sig.String())
	case err := <-serverErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}

	slog.Info("server gracefully stopped")
	return nil
}
