package api

import (
	"context"
	"database/sql"

	"torat/internal/routing"
)

// Finder looks up routing numbers for the HTTP handlers.
type Finder interface {
	Find(ctx context.Context, number string) (routing.Record, bool, error)
	Count(ctx context.Context) (int, error)
}

// MemoryFinder serves lookups from a database loaded into memory.
type MemoryFinder struct {
	Data routing.Database
}

func (f MemoryFinder) Find(_ context.Context, number string) (routing.Record, bool, error) {
	rec, ok := f.Data[number]
	return rec, ok, nil
}

func (f MemoryFinder) Count(context.Context) (int, error) {
	return len(f.Data), nil
}

// SQLiteFinder serves lookups straight from the SQLite store.
type SQLiteFinder struct {
	DB *sql.DB
}

func (f SQLiteFinder) Find(ctx context.Context, number string) (routing.Record, bool, error) {
	return GetRecord(ctx, f.DB, number)
}

func (f SQLiteFinder) Count(ctx context.Context) (int, error) {
	return CountRecords(ctx, f.DB)
}
