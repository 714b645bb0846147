package cli

import (
	"fmt"
	"io"
	"log/slog"

	"torat/internal/routing"
)

// Run parses args and carries out the requested action, writing user-facing
// output to stdout. The returned error has not been printed yet.
func Run(args []string, defaults Settings, stdout io.Writer, logger *slog.Logger) error {
	inv, err := Parse(args, defaults)
	if err != nil {
		return err
	}
	logger.Debug("arguments parsed", "action", inv.Action.String(),
		"input", inv.Input, "output", inv.Output, "state", inv.State, "database", inv.Database)

	switch inv.Action {
	case ActionHelp:
		fmt.Fprintln(stdout, HelpText)
		return nil
	case ActionLookup:
		return lookup(inv, stdout)
	default:
		return filter(inv, stdout, logger)
	}
}

func lookup(inv Invocation, stdout io.Writer) error {
	rec, found, err := routing.Lookup(inv.Database, inv.Number)
	if err != nil {
		return err
	}

	if !found {
		fmt.Fprintln(stdout, routing.NotFoundMessage(inv.Number))
		return nil
	}

	fmt.Fprintln(stdout, routing.FormatLookup(rec))
	return nil
}

func filter(inv Invocation, stdout io.Writer, logger *slog.Logger) error {
	db, err := routing.LoadDatabase(inv.Database)
	if err != nil {
		return err
	}
	logger.Debug("database loaded", "path", inv.Database, "records", len(db))

	sum, err := routing.Filter(db, inv.Input, inv.Output, inv.State, routing.Options{
		Logger: logger,
		OnUnknown: func(number string) {
			fmt.Fprintf(stdout, "Unknown routing number entered: %s.\n", number)
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprint(stdout, FormatSummary(sum, inv.Settings))
	return nil
}

// FormatSummary renders the report printed after a successful filter run.
func FormatSummary(sum routing.Summary, s Settings) string {
	return fmt.Sprintf("Checked %d routing numbers against %s (state %s): %d flagged, %d in state, %d unknown. Report written to %s.\n",
		sum.Read, s.Database, s.State, sum.Flagged, sum.Matched, sum.Unknown, s.Output)
}
