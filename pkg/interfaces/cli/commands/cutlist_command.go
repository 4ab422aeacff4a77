package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/vsinha/doorshop/pkg/application/services"
	"github.com/vsinha/doorshop/pkg/domain/entities"
	"github.com/vsinha/doorshop/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/doorshop/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/doorshop/pkg/interfaces/cli/output"
)

// CutListConfig holds configuration for the offline cut-list command
type CutListConfig struct {
	CatalogFile string
	Format      string

	// OpeningJSON and DoorJSON are full documents; the individual flags
	// below override their fields when set.
	OpeningJSON string
	DoorJSON    string

	Width     string
	Height    string
	HingeGap  string
	StrikeGap string
	LockGap   string

	TopRail    string
	BottomRail string
	HingeRail  string
	LockRail   string
}

// CutListCommand computes a cut list from flags and a part catalog CSV
type CutListCommand struct {
	config CutListConfig
	out    io.Writer
	logger *zap.Logger
}

// NewCutListCommand creates a new cut-list command with the given configuration
func NewCutListCommand(config CutListConfig, out io.Writer, logger *zap.Logger) *CutListCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CutListCommand{config: config, out: out, logger: logger}
}

// Execute runs the cut-list command
func (c *CutListCommand) Execute(ctx context.Context) error {
	opening, door, err := c.documents()
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	store := memory.NewStore()
	if c.config.CatalogFile != "" {
		parts, err := csv.NewLoader().LoadCatalog(c.config.CatalogFile)
		if err != nil {
			return fmt.Errorf("error loading catalog: %w", err)
		}
		if err := store.LoadCatalog(parts); err != nil {
			return fmt.Errorf("failed to load catalog into store: %w", err)
		}
		c.logger.Debug("Catalog loaded", zap.String("file", c.config.CatalogFile), zap.Int("parts", len(parts)))
	} else if len(door.RailRefs()) > 0 {
		return fmt.Errorf("validation error: --catalog is required when rails are referenced")
	}

	cutList, err := services.NewCutListService(store, nil, c.logger).Compute(ctx, opening, door)
	if err != nil {
		return fmt.Errorf("error computing cut list: %w", err)
	}

	return output.Generate(output.CutListReport{CutList: cutList, Door: door}, output.Config{
		Format: c.config.Format,
		Writer: c.out,
	})
}

func (c *CutListCommand) documents() (entities.EntryData, entities.DoorData, error) {
	var (
		opening entities.EntryData
		door    entities.DoorData
	)
	if c.config.OpeningJSON != "" {
		if err := json.Unmarshal([]byte(c.config.OpeningJSON), &opening); err != nil {
			return opening, door, fmt.Errorf("--opening: %w", err)
		}
	}
	if c.config.DoorJSON != "" {
		if err := json.Unmarshal([]byte(c.config.DoorJSON), &door); err != nil {
			return opening, door, fmt.Errorf("--door: %w", err)
		}
	}

	measures := []struct {
		value  string
		target *entities.Measure
	}{
		{c.config.Width, &opening.OpeningWidth},
		{c.config.Height, &opening.OpeningHeight},
		{c.config.HingeGap, &opening.HingeGap},
		{c.config.StrikeGap, &opening.StrikeGap},
		{c.config.LockGap, &opening.LockGap},
	}
	for _, m := range measures {
		if m.value != "" {
			*m.target = entities.NewMeasureFromText(m.value)
		}
	}

	refs := []struct {
		value  string
		target *entities.PartRef
	}{
		{c.config.TopRail, &door.TopRail},
		{c.config.BottomRail, &door.BottomRail},
		{c.config.HingeRail, &door.HingeRail},
		{c.config.LockRail, &door.LockRail},
	}
	for _, r := range refs {
		if r.value != "" {
			*r.target = entities.PartRef(r.value)
		}
	}

	return opening, door, nil
}
