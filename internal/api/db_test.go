package api

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"torat/internal/routing"
)

func seedData() routing.Database {
	return routing.Database{
		"123456789": {Number: "123456789", Name: "Acme Bank", Street: "1 Main St", City: "Suite 2", Zip: "90210", State: "CA"},
		"211274450": {Number: "211274450", Name: "Bangor Savings", Street: "99 Franklin St", City: "Bangor", Zip: "04401", State: "ME"},
	}
}

// setupTestDB creates a temporary SQLite database holding seedData.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := InitDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db))
	_, err = ImportRecords(ctx, db, seedData())
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestImportAndLoadRecords(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	got, err := LoadRecords(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, seedData(), got)

	count, err := CountRecords(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestImportRecords_ReplacesExisting(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	n, err := ImportRecords(ctx, db, routing.Database{
		"123456789": {Number: "123456789", Name: "Acme Bank Renamed", Street: "2 Elm St", City: "Floor 3", Zip: "04101", State: "ME"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rec, found, err := GetRecord(ctx, db, "123456789")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Acme Bank Renamed", rec.Name)
	assert.Equal(t, "ME", rec.State)

	count, err := CountRecords(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestGetRecord(t *testing.T) {
	tests := []struct {
		name        string
		number      string
		closeDB     bool
		expectedErr bool
		found       bool
	}{
		{
			name:   "ExistingRecord",
			number: "123456789",
			found:  true,
		},
		{
			name:   "NonExistentRecord",
			number: "000000000",
			found:  false,
		},
		{
			name:        "DBError",
			number:      "123456789",
			closeDB:     true,
			expectedErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			if tt.closeDB {
				db.Close()
			}
			rec, found, err := GetRecord(context.Background(), db, tt.number)
			if tt.expectedErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, seedData()[tt.number], rec)
			}
		})
	}
}

func TestReset(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, Reset(ctx, db))

	count, err := CountRecords(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDBErrors(t *testing.T) {
	db := setupTestDB(t)
	db.Close()
	ctx := context.Background()

	_, err := LoadRecords(ctx, db)
	assert.Error(t, err)

	_, err = CountRecords(ctx, db)
	assert.Error(t, err)

	_, err = ImportRecords(ctx, db, seedData())
	assert.Error(t, err)

	assert.Error(t, Migrate(ctx, db))
}

func TestFinders(t *testing.T) {
	finders := map[string]Finder{
		"memory": MemoryFinder{Data: seedData()},
		"sqlite": SQLiteFinder{DB: setupTestDB(t)},
	}

	for name, f := range finders {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			rec, found, err := f.Find(ctx, "211274450")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "Bangor Savings", rec.Name)

			_, found, err = f.Find(ctx, "999999999")
			require.NoError(t, err)
			assert.False(t, found)

			count, err := f.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, count)
		})
	}
}
