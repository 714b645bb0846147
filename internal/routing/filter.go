package routing

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Options tunes a filter run. The zero value is usable.
type Options struct {
	// Logger receives diagnostics. Defaults to a discarding logger.
	Logger *slog.Logger

	// OnUnknown is called for every input routing number that is not in the
	// database, in input order.
	OnUnknown func(number string)
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Summary counts what a filter run saw.
type Summary struct {
	RunID   string
	Read    int // non-blank input lines
	Flagged int // in the database, state differs from the target
	Matched int // in the database, state equals the target
	Unknown int // not in the database
}

// Filter cross-references the routing numbers listed in inputPath against db
// and writes the report to outputPath, truncating it first.
//
// The input is opened before the output is created, so an unreadable input
// leaves outputPath untouched. A failure while writing can leave flagged
// lines already in the output file.
func Filter(db Database, inputPath, outputPath, state string, opts Options) (Summary, error) {
	runID := uuid.NewString()
	log := opts.logger().With("run_id", runID)
	opts.Logger = log

	in, err := os.Open(inputPath)
	if err != nil {
		return Summary{RunID: runID}, fmt.Errorf("failed to open input file %s: %w", inputPath, err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return Summary{RunID: runID}, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}

	log.Debug("filter started", "input", inputPath, "output", outputPath, "state", state, "records", len(db))

	sum, err := FilterStream(db, in, out, state, opts)
	sum.RunID = runID
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close output file %s: %w", outputPath, cerr)
	}
	if err != nil {
		return sum, err
	}

	log.Debug("filter finished", "read", sum.Read, "flagged", sum.Flagged, "matched", sum.Matched, "unknown", sum.Unknown)
	return sum, nil
}

// FilterStream is Filter over an already opened input and output.
//
// Flagged records are written to out as they are found. Unknown routing
// numbers are held back and written after the whole input has been read.
func FilterStream(db Database, in io.Reader, out io.Writer, state string, opts Options) (Summary, error) {
	log := opts.logger()

	var (
		sum      Summary
		unknowns []string
	)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		number := scanner.Text()
		if number == "" {
			continue
		}
		sum.Read++

		rec, ok := db[number]
		if !ok {
			sum.Unknown++
			unknowns = append(unknowns, FormatUnknown(number))
			if opts.OnUnknown != nil {
				opts.OnUnknown(number)
			}
			continue
		}

		if rec.State == state {
			sum.Matched++
			continue
		}

		sum.Flagged++
		if err := writeLine(out, FormatFlagged(rec)); err != nil {
			return sum, err
		}
		log.Debug("flagged routing number", "number", number, "state", rec.State)
	}

	if err := scanner.Err(); err != nil {
		return sum, fmt.Errorf("error reading input: %w", err)
	}

	if err := writeLines(out, unknowns); err != nil {
		return sum, err
	}

	return sum, nil
}
