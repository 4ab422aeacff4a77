package csv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	content := "part_type,part_ly\nTR-1,5\nBR-1, 10.5\nHR-1,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	parts, err := NewLoader().LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, parts, 3)

	assert.Equal(t, "TR-1", parts[0].PartType)
	assert.True(t, parts[0].LengthAcrossWidth.Equal(decimal.NewFromInt(5)))
	assert.True(t, parts[1].LengthAcrossWidth.Equal(decimal.RequireFromString("10.5")))
	assert.True(t, parts[2].DimensionMissing)
	assert.True(t, parts[2].LengthAcrossWidth.IsZero())
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := NewLoader().LoadCatalog(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open catalog file")
}

func TestReadCatalog_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"empty", "", "must have a header row"},
		{"wrong header", "type,length\nTR-1,5\n", "header mismatch"},
		{"bad number", "part_type,part_ly\nTR-1,five\n", "row 2: invalid part_ly: five"},
		{"negative", "part_type,part_ly\nTR-1,-2\n", "row 2: length across width cannot be negative"},
		{"empty type", "part_type,part_ly\n,\n", "row 2: part type cannot be empty"},
		{"duplicate", "part_type,part_ly\nTR-1,5\nTR-1,6\n", "row 3: duplicate part_type TR-1 (first on row 2)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().ReadCatalog(strings.NewReader(tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestReadCatalog_HeaderOnly(t *testing.T) {
	parts, err := NewLoader().ReadCatalog(strings.NewReader("Part_Type, part_ly\n"))
	require.NoError(t, err)
	assert.Empty(t, parts)
}
