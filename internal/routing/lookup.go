package routing

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Lookup scans the database file at path for number and stops at the first
// matching row. It does not build a Database. Only the matching row has its
// field count checked.
func Lookup(path, number string) (Record, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to open database file %s: %w", path, err)
	}
	defer f.Close()

	rec, found, err := LookupReader(f, number)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return Record{}, false, pe
		}
		return Record{}, false, fmt.Errorf("error reading database file %s: %w", path, err)
	}

	return rec, found, nil
}

// LookupReader is Lookup over an already opened database.
func LookupReader(r io.Reader, number string) (Record, bool, error) {
	var (
		rec   Record
		found bool
	)

	err := scanRows(r, func(fields []string, line int) (bool, error) {
		if len(fields) == 0 || fields[colNumber] != number {
			return true, nil
		}

		parsed, err := ParseRecord(fields, line)
		if err != nil {
			return false, err
		}
		rec, found = parsed, true
		return false, nil
	})
	if err != nil {
		return Record{}, false, err
	}

	return rec, found, nil
}

// FormatLookup renders the one-line summary printed by a single lookup.
func FormatLookup(rec Record) string {
	return fmt.Sprintf("%s: %s, %s %s", rec.Number, rec.Name, rec.LookupAddress(), rec.State)
}

// NotFoundMessage is printed when a single lookup finds nothing.
func NotFoundMessage(number string) string {
	return fmt.Sprintf("Unable to locate routing number (%s) in database.", number)
}
