package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crates-graph/config"
	"crates-graph/handlers"
	"crates-graph/health"
	"crates-graph/observability"
	"crates-graph/registry"
	"crates-graph/storage"

	_ "github.com/mattn/go-sqlite3"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := config.New()

	cmd := &cobra.Command{
		Use:           "crates-graph",
		Short:         "Serve crates.io proxy and dependency graph endpoints",
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			cfg, err := config.Load(v)
			if err != nil {
				logger.WithError(err).Error("invalid configuration")
				return err
			}

			level, err := logrus.ParseLevel(cfg.LogLevel)
			if err != nil {
				logger.WithError(err).Error("invalid log level")
				return err
			}
			logger.SetLevel(level)

			if err := run(cmd.Context(), cfg, logger); err != nil {
				logger.WithError(err).Error("server stopped")
				return err
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("registry-url", config.DefaultRegistryBaseURL, "base URL of the crate registry")
	flags.String("address", config.DefaultHostAddress, "address to bind")
	flags.String("port", config.DefaultHostPort, "port to bind")
	flags.String("base-path", "", "path prefix for application routes")
	flags.Duration("registry-timeout", config.DefaultRegistryTimeout, "timeout for registry requests")
	flags.String("sqlite-path", "", "SQLite database for the lookup log (disabled when empty)")
	flags.String("log-level", config.DefaultLogLevel, "log level")

	bindFlags(v, flags, map[string]string{
		"registry-url":     config.KeyRegistryBaseURL,
		"address":          config.KeyHostAddress,
		"port":             config.KeyHostPort,
		"base-path":        config.KeyHostBasePath,
		"registry-timeout": config.KeyRegistryTimeout,
		"sqlite-path":      config.KeySQLitePath,
		"log-level":        config.KeyLogLevel,
	})

	return cmd
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableQuote:    true,
		PadLevelText:    true,
	})
	return logger
}

func run(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	start := time.Now()

	metrics := observability.NewMetrics()
	exclusions, err := observability.NewExclusions(cfg.MetricsExclude, cfg.MetricsExcludeRegex)
	if err != nil {
		return err
	}

	client := &registry.Client{
		BaseURL:    cfg.RegistryBaseURL,
		UserAgent:  config.UserAgent,
		HTTPClient: &http.Client{Timeout: cfg.RegistryTimeout},
		Observer:   metrics,
	}

	handler := &handlers.Handler{
		Registry: client,
		Log:      logger,
	}

	if cfg.SQLitePath != "" {
		db, err := sql.Open("sqlite3", cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open DB: %w", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(1)

		store := &storage.Storage{DB: db}

		initCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = store.InitSchema(initCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
		handler.Lookups = store

		c, err := schedulePrune(cfg, store, logger)
		if err != nil {
			return err
		}
		c.Start()
		defer c.Stop()
	}

	router := newRouter(routerConfig{
		BasePath:       cfg.HostBasePath,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Exclusions:     exclusions,
	}, logger, metrics, handler, &health.Handler{Start: start, Log: logger})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("starting on %s (registry %s)...", srv.Addr, cfg.RegistryBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

type lookupPruner interface {
	PruneLookups(ctx context.Context, before time.Time) (int64, error)
}

func schedulePrune(cfg config.Config, store lookupPruner, logger *logrus.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(cfg.LookupPruneSchedule, func() {
		pruneLookups(context.Background(), store, time.Now().Add(-cfg.LookupRetention), logger)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule cron: %w", err)
	}
	return c, nil
}

func pruneLookups(ctx context.Context, store lookupPruner, before time.Time, logger *logrus.Logger) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	logger.Info("Scheduled lookup prune triggered")
	deleted, err := store.PruneLookups(ctx, before)
	if err != nil {
		logger.Errorf("scheduled prune failed: %v", err)
		return
	}
	logger.Infof("Pruned %d lookups recorded before %s", deleted, before.UTC().Format(time.RFC3339))
}
