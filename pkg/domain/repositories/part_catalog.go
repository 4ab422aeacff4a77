package repositories

import (
	"context"

	"github.com/vsinha/doorshop/pkg/domain/entities"
)

// PartCatalog resolves part references against the catalog of template parts
type PartCatalog interface {
	// ResolveParts returns the catalog parts matching the given part types,
	// keyed by part type. Unknown part types are simply absent from the result.
	ResolveParts(ctx context.Context, partTypes []string) (map[string]entities.CatalogPart, error)
}
