package routing

import (
	"fmt"
	"strings"
)

// Column positions in the reference database file.
const (
	colNumber = iota
	colName
	colStreet
	colCity
	colZip
	colState

	// NumColumns is the minimum number of fields a database row must carry.
	NumColumns
)

// Record is one row of the routing-number reference database.
type Record struct {
	Number string
	Name   string
	Street string
	City   string
	Zip    string
	State  string
}

// Database maps routing numbers to their records.
type Database map[string]Record

// ParseError reports a database row that does not carry enough fields.
type ParseError struct {
	Path   string
	Line   int
	Fields int
}

func (e *ParseError) Error() string {
	where := fmt.Sprintf("line %d", e.Line)
	if e.Path != "" {
		where = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	return fmt.Sprintf("malformed record at %s: expected at least %d fields, got %d", where, NumColumns, e.Fields)
}

// ParseRecord builds a Record from the fields of a single database row.
// line is only used for error reporting.
func ParseRecord(fields []string, line int) (Record, error) {
	if len(fields) < NumColumns {
		return Record{}, &ParseError{Line: line, Fields: len(fields)}
	}
	return Record{
		Number: fields[colNumber],
		Name:   fields[colName],
		Street: fields[colStreet],
		City:   fields[colCity],
		Zip:    fields[colZip],
		State:  fields[colState],
	}, nil
}

// Address is the full composite address: street, city, zip and state.
func (r Record) Address() string {
	return strings.Join([]string{r.Street, r.City, r.Zip, r.State}, " ")
}

// LookupAddress is the address used by single lookups. It leaves the state
// out; FormatLookup appends it separately.
func (r Record) LookupAddress() string {
	return strings.Join([]string{r.Street, r.City, r.Zip}, " ")
}
