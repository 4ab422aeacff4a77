package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vsinha/doorshop/pkg/application/dto"
	"github.com/vsinha/doorshop/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format string
	// Writer defaults to stdout
	Writer io.Writer
}

// CutListReport is a computed cut list with the part references it used
type CutListReport struct {
	CutList entities.CutList
	Door    entities.DoorData
}

// Generate writes the report in the specified format
func Generate(report CutListReport, config Config) error {
	w := config.Writer
	if w == nil {
		w = os.Stdout
	}

	switch config.Format {
	case "", "text":
		return generateTextOutput(w, report)
	case "json":
		return generateJSONOutput(w, report)
	case "csv":
		return generateCSVOutput(w, report)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates a human-readable cut list table
func generateTextOutput(w io.Writer, report CutListReport) error {
	fmt.Fprintf(w, "Door Cut List\n")
	fmt.Fprintf(w, "=============\n\n")

	if len(report.CutList) == 0 {
		fmt.Fprintf(w, "No rails to cut: hinge and lock rails did not resolve against the catalog.\n")
		return nil
	}

	fmt.Fprintf(w, "%-12s %-15s %12s\n", "Rail", "Part", "Length")
	fmt.Fprintf(w, "%-12s %-15s %12s\n", "------------", "---------------", "------------")
	for _, slot := range entities.RailSlots {
		cut, ok := report.CutList[slot]
		if !ok {
			continue
		}
		part := string(report.Door.RailRef(slot))
		if part == "" {
			part = "-"
		}
		fmt.Fprintf(w, "%-12s %-15s %12s\n", slot, part, cut.Length.String())
	}
	return nil
}

// generateJSONOutput writes the same body the HTTP API returns
func generateJSONOutput(w io.Writer, report CutListReport) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(dto.CutListResponse{CutList: dto.NewCutListView(report.CutList)}); err != nil {
		return fmt.Errorf("failed to encode cut list: %w", err)
	}
	return nil
}

// generateCSVOutput writes one rail per row
func generateCSVOutput(w io.Writer, report CutListReport) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"rail", "part_type", "length"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, slot := range entities.RailSlots {
		cut, ok := report.CutList[slot]
		if !ok {
			continue
		}
		row := []string{string(slot), string(report.Door.RailRef(slot)), cut.Length.String()}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
