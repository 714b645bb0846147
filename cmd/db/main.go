package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"torat/internal/api"
	"torat/internal/config"
	"torat/internal/logging"
	"torat/internal/routing"
)

func main() {
	flags := pflag.NewFlagSet("db", pflag.ExitOnError)
	cfgFile := flags.String("config", "", "Path to a torat.yaml config file")
	flags.String("database", config.DefaultDatabase, "Path to the CSV reference database to import")
	flags.String("sqlite", config.DefaultSQLite, "Path to the SQLite database to write")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	reset := flags.Bool("reset", false, "Drop existing routing numbers before importing")
	flags.Parse(os.Args[1:])

	cfg, err := config.LoadWithDefaults(*cfgFile, flags, map[string]interface{}{"log_level": "info"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	n, err := importCSV(context.Background(), cfg.Database, cfg.SQLite, *reset, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d routing numbers from %s into %s\n", n, cfg.Database, cfg.SQLite)
}

// importCSV loads the CSV reference database and writes it into the SQLite
// database at sqlitePath. The CSV is fully parsed before the SQLite file is
// opened, so a malformed CSV leaves the store untouched.
func importCSV(ctx context.Context, csvPath, sqlitePath string, reset bool, logger *slog.Logger) (int, error) {
	logger.Info("loading reference database", "path", csvPath)
	data, err := routing.LoadDatabase(csvPath)
	if err != nil {
		return 0, err
	}

	logger.Info("setting up sqlite database", "path", sqlitePath)
	db, err := api.InitDB(sqlitePath)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	if reset {
		logger.Info("dropping existing routing numbers")
		err = api.Reset(ctx, db)
	} else {
		err = api.Migrate(ctx, db)
	}
	if err != nil {
		return 0, err
	}

	n, err := api.ImportRecords(ctx, db, data)
	if err != nil {
		return 0, err
	}
	logger.Info("import completed", "records", n)

	return n, nil
}
