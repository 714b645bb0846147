package routing

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadDatabase reads a reference database file into a Database keyed by
// routing number. Duplicate routing numbers keep the last row seen.
func LoadDatabase(path string) (Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database file %s: %w", path, err)
	}
	defer f.Close()

	db, err := ReadDatabase(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return nil, pe
		}
		return nil, fmt.Errorf("error reading database file %s: %w", path, err)
	}

	return db, nil
}

// ReadDatabase parses comma-separated rows from r, one per line. Any line
// with fewer than NumColumns fields, blank lines included, aborts the read
// with a *ParseError.
func ReadDatabase(r io.Reader) (Database, error) {
	db := make(Database)
	err := scanRows(r, func(fields []string, line int) (bool, error) {
		rec, err := ParseRecord(fields, line)
		if err != nil {
			return false, err
		}
		db[rec.Number] = rec
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// scanRows splits each line of r on commas and feeds the fields to fn until
// fn returns false or an error. Quotes have no special meaning and blank
// lines are passed through as single-field rows.
func scanRows(r io.Reader, fn func(fields []string, line int) (bool, error)) error {
	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++
		more, err := fn(strings.Split(scanner.Text(), ","), line)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}

	return scanner.Err()
}
