package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/doorshop/pkg/domain/entities"
)

// Loader handles loading the part catalog from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

var catalogHeader = []string{"part_type", "part_ly"}

// LoadCatalog loads catalog parts from a CSV file with a part_type,part_ly
// header. An empty part_ly is a part without a recorded dimension.
func (l *Loader) LoadCatalog(filename string) ([]*entities.CatalogPart, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadCatalog(file)
}

// ReadCatalog reads catalog parts from CSV content
func (l *Loader) ReadCatalog(r io.Reader) ([]*entities.CatalogPart, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog CSV: %w", err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("catalog CSV must have a header row")
	}

	header := records[0]
	if !validateHeader(header, catalogHeader) {
		return nil, fmt.Errorf("catalog CSV header mismatch. Expected: %v, Got: %v", catalogHeader, header)
	}

	seen := make(map[string]int)
	var parts []*entities.CatalogPart
	for i, record := range records[1:] {
		row := i + 2
		if len(record) != len(catalogHeader) {
			return nil, fmt.Errorf("catalog CSV row %d: expected %d columns, got %d", row, len(catalogHeader), len(record))
		}

		part, err := parseCatalogPart(record)
		if err != nil {
			return nil, fmt.Errorf("catalog CSV row %d: %w", row, err)
		}
		if first, dup := seen[part.PartType]; dup {
			return nil, fmt.Errorf("catalog CSV row %d: duplicate part_type %s (first on row %d)", row, part.PartType, first)
		}
		seen[part.PartType] = row

		parts = append(parts, part)
	}

	return parts, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(strings.TrimPrefix(actual[i], "\ufeff"))) != col {
			return false
		}
	}

	return true
}

func parseCatalogPart(record []string) (*entities.CatalogPart, error) {
	partType := strings.TrimSpace(record[0])
	rawLength := strings.TrimSpace(record[1])

	if rawLength == "" {
		if partType == "" {
			return nil, fmt.Errorf("part type cannot be empty")
		}
		return &entities.CatalogPart{PartType: partType, DimensionMissing: true}, nil
	}

	length, err := decimal.NewFromString(rawLength)
	if err != nil {
		return nil, fmt.Errorf("invalid part_ly: %s", rawLength)
	}
	return entities.NewCatalogPart(partType, length)
}
