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

	"github.com/spf13/pflag"

	"torat/internal/api"
	"torat/internal/config"
	"torat/internal/logging"
	"torat/internal/routing"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig layers server flags over torat.yaml and TORAT_* variables. The
// server serves the CSV file unless a sqlite path is configured.
func loadConfig(args []string) (*config.Config, error) {
	flags := pflag.NewFlagSet("server", pflag.ExitOnError)
	cfgFile := flags.String("config", "", "Path to a torat.yaml config file")
	flags.String("addr", config.DefaultAddr, "Address to listen on")
	flags.String("database", config.DefaultDatabase, "Path to the CSV reference database")
	flags.String("sqlite", "", "Serve from this SQLite database instead of the CSV file")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	return config.LoadWithDefaults(*cfgFile, flags, map[string]interface{}{
		"log_level": "info",
		"sqlite":    "",
	})
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	finder, closeFn, err := openFinder(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	server := api.NewServer(finder, logger)
	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.Addr)
		errCh <- s.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// openFinder picks the lookup backend: the SQLite store when cfg.SQLite is
// set, otherwise the CSV database loaded into memory.
func openFinder(ctx context.Context, cfg *config.Config, logger *slog.Logger) (api.Finder, func(), error) {
	if cfg.SQLite != "" {
		db, err := api.InitDB(cfg.SQLite)
		if err != nil {
			return nil, nil, err
		}
		if err := api.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		count, err := api.CountRecords(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("serving from sqlite", "path", cfg.SQLite, "records", count)
		return api.SQLiteFinder{DB: db}, func() { db.Close() }, nil
	}

	data, err := routing.LoadDatabase(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("serving from csv", "path", cfg.Database, "records", len(data))
	return api.MemoryFinder{Data: data}, func() {}, nil
}
