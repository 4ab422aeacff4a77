package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/vsinha/doorshop/pkg/domain/entities"
	"github.com/vsinha/doorshop/pkg/domain/repositories"
	domainservices "github.com/vsinha/doorshop/pkg/domain/services"
	"github.com/vsinha/doorshop/pkg/infrastructure/metrics"
)

// CutListReader is the read access the cut-list path needs
type CutListReader interface {
	GetDoorOpening(ctx context.Context, doorID int64) (*entities.DoorOpening, error)
	repositories.PartCatalog
}

// CutListService computes door cut lists from stored doors and the part catalog
type CutListService struct {
	reader  CutListReader
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewCutListService creates a cut-list service
func NewCutListService(reader CutListReader, m *metrics.Metrics, logger *zap.Logger) *CutListService {
	if m == nil {
		m = metrics.NewNop()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CutListService{reader: reader, metrics: m, logger: logger}
}

// DoorCutList computes the cut list for a stored door. Unknown doors are ErrNotFound.
func (s *CutListService) DoorCutList(ctx context.Context, doorID int64) (entities.CutList, error) {
	cutList, err := s.doorCutList(ctx, doorID)
	s.metrics.RecordCutList(err)
	return cutList, err
}

func (s *CutListService) doorCutList(ctx context.Context, doorID int64) (entities.CutList, error) {
	opening, err := s.reader.GetDoorOpening(ctx, doorID)
	if err != nil {
		return nil, err
	}

	cutList, err := s.Compute(ctx, opening.Opening, opening.Door)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Computed cut list",
		zap.Int64("door_id", doorID),
		zap.Int64("entry_id", opening.EntryID),
		zap.Int("rails", len(cutList)))
	return cutList, nil
}

// Compute resolves the door's rail references against the catalog and
// computes the cut list for the opening. The catalog is not queried when the
// door references no rails.
func (s *CutListService) Compute(ctx context.Context, opening entities.EntryData, door entities.DoorData) (entities.CutList, error) {
	parts := map[string]entities.CatalogPart{}
	if refs := door.RailRefs(); len(refs) > 0 {
		var err error
		parts, err = s.reader.ResolveParts(ctx, refs)
		if err != nil {
			return nil, err
		}
	}

	rails := domainservices.RailLengthsFromCatalog(door, parts)
	return domainservices.ComputeDoorCutList(opening, rails), nil
}
