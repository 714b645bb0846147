package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"torat/internal/cli"
	"torat/internal/config"
	"torat/internal/logging"
)

// main never sets a non-zero exit code; failures are reported as messages.
func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load("", nil)
	if err != nil {
		return err
	}

	logger, err := logging.New(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	if cfg.File != "" {
		logger.Debug("config file loaded", "path", cfg.File)
	}

	return cli.Run(args, settingsFrom(cfg), stdout, logger.With(slog.String("cmd", "torat")))
}

// settingsFrom picks the filter settings out of the shared config.
func settingsFrom(cfg *config.Config) cli.Settings {
	return cli.Settings{
		Output:   cfg.Output,
		Input:    cfg.Input,
		State:    cfg.State,
		Database: cfg.Database,
	}
}

// formatError renders err for the console. Usage errors are printed as is.
func formatError(err error) string {
	var ue *cli.UsageError
	if errors.As(err, &ue) {
		return ue.Message
	}
	return fmt.Sprintf("Error: %v", err)
}
