package routing

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const acmeRow = "123456789,Acme Bank,1 Main St,Suite 2,90210,CA"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDatabase(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		content  string
		want     Database
		wantErr  bool
		setupErr bool // skip file creation to test a missing file
	}{
		{
			name:    "single record",
			content: acmeRow + "\n",
			want: Database{
				"123456789": {Number: "123456789", Name: "Acme Bank", Street: "1 Main St", City: "Suite 2", Zip: "90210", State: "CA"},
			},
		},
		{
			name: "multiple records",
			content: `011000015,Federal Reserve Bank,1000 Peachtree St,NE,30309,GA
211274450,Bangor Savings,99 Franklin St,Bangor,04401,ME`,
			want: Database{
				"011000015": {Number: "011000015", Name: "Federal Reserve Bank", Street: "1000 Peachtree St", City: "NE", Zip: "30309", State: "GA"},
				"211274450": {Number: "211274450", Name: "Bangor Savings", Street: "99 Franklin St", City: "Bangor", Zip: "04401", State: "ME"},
			},
		},
		{
			name: "duplicate routing number keeps last row",
			content: `123456789,Old Name,1 Main St,Suite 2,90210,CA
123456789,New Name,2 Elm St,Floor 3,04101,ME`,
			want: Database{
				"123456789": {Number: "123456789", Name: "New Name", Street: "2 Elm St", City: "Floor 3", Zip: "04101", State: "ME"},
			},
		},
		{
			name:    "extra columns are ignored",
			content: acmeRow + ",extra,columns\n",
			want: Database{
				"123456789": {Number: "123456789", Name: "Acme Bank", Street: "1 Main St", City: "Suite 2", Zip: "90210", State: "CA"},
			},
		},
		{
			name:    "empty fields are kept",
			content: "123456789,Acme Bank,,,,CA\n",
			want: Database{
				"123456789": {Number: "123456789", Name: "Acme Bank", State: "CA"},
			},
		},
		{
			name:    "empty file",
			content: "",
			want:    Database{},
		},
		{
			name:    "short row is fatal",
			content: acmeRow + "\n987654321,Short Bank,1 Main St\n",
			wantErr: true,
		},
		{
			name:     "non-existent file",
			setupErr: true,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, "nonexistent.csv")
			if !tt.setupErr {
				path = writeFile(t, tmpDir, strings.ReplaceAll(tt.name, " ", "_")+".csv", tt.content)
			}

			got, err := LoadDatabase(path)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LoadDatabase() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadDatabase_ParseError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "data.csv", acmeRow+"\n987654321,Short Bank,1 Main St\n")

	_, err := LoadDatabase(path)
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe), "expected *ParseError, got %T", err)
	assert.Equal(t, path, pe.Path)
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, 3, pe.Fields)
	assert.Contains(t, err.Error(), "expected at least 6 fields, got 3")
}

func TestLoadDatabase_MissingFileIsNotParseError(t *testing.T) {
	_, err := LoadDatabase(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)

	var pe *ParseError
	assert.False(t, errors.As(err, &pe))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "missing.csv")
}

func TestLoadDatabase_Deterministic(t *testing.T) {
	content := strings.Join([]string{
		acmeRow,
		"011000015,Federal Reserve Bank,1000 Peachtree St,NE,30309,GA",
		"211274450,Bangor Savings,99 Franklin St,Bangor,04401,ME",
		"123456789,Acme Bank Renamed,1 Main St,Suite 2,90210,CA",
	}, "\n")
	path := writeFile(t, t.TempDir(), "data.csv", content)

	first, err := LoadDatabase(path)
	require.NoError(t, err)
	second, err := LoadDatabase(path)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("two loads of the same file differ (-first +second):\n%s", diff)
	}
	assert.Len(t, first, 3)
	assert.Equal(t, "Acme Bank Renamed", first["123456789"].Name)
}

func TestReadDatabase(t *testing.T) {
	db, err := ReadDatabase(strings.NewReader(acmeRow + "\r\n"))
	require.NoError(t, err)
	require.Contains(t, db, "123456789")
	assert.Equal(t, "CA", db["123456789"].State)

	_, err = ReadDatabase(strings.NewReader("only,two\n"))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Empty(t, pe.Path)
	assert.Equal(t, 1, pe.Line)
}

func TestReadDatabase_QuotesAreLiteral(t *testing.T) {
	content := "111111111,\"Quoted Bank,1 A St,B,00001,CA\n" + acmeRow + "\n"

	db, err := ReadDatabase(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, db, 2)
	assert.Equal(t, "\"Quoted Bank", db["111111111"].Name)
	assert.Equal(t, "CA", db["111111111"].State)
	assert.Equal(t, "Acme Bank", db["123456789"].Name)
}

func TestReadDatabase_BlankLineIsFatal(t *testing.T) {
	_, err := ReadDatabase(strings.NewReader(acmeRow + "\n\n211274450,Bangor Savings,99 Franklin St,Bangor,04401,ME\n"))

	var pe *ParseError
	require.True(t, errors.As(err, &pe), "expected *ParseError, got %v", err)
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, 1, pe.Fields)
}
