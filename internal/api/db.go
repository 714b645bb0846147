package api

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	_ "github.com/mattn/go-sqlite3"

	"torat/internal/routing"
)

const (
	createSchema = `
		CREATE TABLE IF NOT EXISTS routing_numbers (
			routing_number TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			street TEXT NOT NULL,
			city TEXT NOT NULL,
			zip TEXT NOT NULL,
			state TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_routing_numbers_state ON routing_numbers(state);
	`

	dropSchema = `DROP TABLE IF EXISTS routing_numbers;`

	recordColumns = `routing_number, name, street, city, zip, state`
)

// InitDB initializes and returns a SQLite database connection
func InitDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate creates the routing_numbers table if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, createSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Reset drops and recreates the routing_numbers table.
func Reset(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, dropSchema); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return Migrate(ctx, db)
}

// ImportRecords writes every record of data in a single transaction.
// Existing rows with the same routing number are replaced.
func ImportRecords(ctx context.Context, db *sql.DB, data routing.Database) (int, error) {
	numbers := make([]string, 0, len(data))
	for n := range data {
		numbers = append(numbers, n)
	}
	sort.Strings(numbers)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO routing_numbers (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range numbers {
		rec := data[n]
		if _, err := stmt.ExecContext(ctx, rec.Number, rec.Name, rec.Street, rec.City, rec.Zip, rec.State); err != nil {
			return 0, fmt.Errorf("failed to insert routing number %s: %w", rec.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(numbers), nil
}

// GetRecord fetches a single record by routing number.
// found is false when the routing number is not stored.
func GetRecord(ctx context.Context, db *sql.DB, number string) (rec routing.Record, found bool, err error) {
	query := `SELECT ` + recordColumns + ` FROM routing_numbers WHERE routing_number = ?`

	err = db.QueryRowContext(ctx, query, number).Scan(&rec.Number, &rec.Name, &rec.Street, &rec.City, &rec.Zip, &rec.State)
	if err == sql.ErrNoRows {
		return routing.Record{}, false, nil
	}
	if err != nil {
		return routing.Record{}, false, fmt.Errorf("failed to query routing number: %w", err)
	}

	return rec, true, nil
}

// LoadRecords reads the whole table into a routing.Database.
func LoadRecords(ctx context.Context, db *sql.DB) (routing.Database, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+recordColumns+` FROM routing_numbers`)
	if err != nil {
		return nil, fmt.Errorf("failed to query routing numbers: %w", err)
	}
	defer rows.Close()

	data := make(routing.Database)
	for rows.Next() {
		var rec routing.Record
		if err := rows.Scan(&rec.Number, &rec.Name, &rec.Street, &rec.City, &rec.Zip, &rec.State); err != nil {
			return nil, fmt.Errorf("failed to scan routing number: %w", err)
		}
		data[rec.Number] = rec
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating routing numbers: %w", err)
	}

	return data, nil
}

// CountRecords returns the number of stored routing numbers.
func CountRecords(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM routing_numbers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count routing numbers: %w", err)
	}
	return count, nil
}
