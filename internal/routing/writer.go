package routing

import (
	"fmt"
	"io"
	"strings"
)

// unknownSuffix trails every routing number that is not in the database.
const unknownSuffix = ": unknown (not in database.)"

// FormatFlagged renders a record whose state differs from the target state.
func FormatFlagged(rec Record) string {
	return rec.Number + ":" + rec.Name + "(" + rec.State + ")"
}

// FormatUnknown renders a routing number that is not in the database.
func FormatUnknown(number string) string {
	return number + unknownSuffix
}

// writeLine writes a single newline-terminated line straight to w.
func writeLine(w io.Writer, line string) error {
	if _, err := io.WriteString(w, line+"\n"); err != nil {
		return fmt.Errorf("failed to write output line: %w", err)
	}
	return nil
}

// writeLines writes lines to w in one call, each on its own line.
// Nothing is written for an empty slice.
func writeLines(w io.Writer, lines []string) error {
	if len(lines) == 0 {
		return nil
	}

	content := strings.Join(lines, "\n") + "\n"
	if _, err := io.WriteString(w, content); err != nil {
		return fmt.Errorf("failed to write output lines: %w", err)
	}

	return nil
}
