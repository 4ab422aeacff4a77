package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/doorshop/pkg/domain/repositories"
	"github.com/vsinha/doorshop/pkg/infrastructure/config"
	"github.com/vsinha/doorshop/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/doorshop/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/doorshop/pkg/infrastructure/repositories/postgres"
)

// OpenStore opens the configured repository backend. The caller closes it.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		return postgres.NewStore(ctx, cfg.Database, logger)

	case config.DriverMemory:
		store := memory.NewStore()
		if cfg.Store.CatalogPath != "" {
			parts, err := csv.NewLoader().LoadCatalog(cfg.Store.CatalogPath)
			if err != nil {
				return nil, fmt.Errorf("error loading catalog: %w", err)
			}
			if err := store.LoadCatalog(parts); err != nil {
				return nil, err
			}
			logger.Info("Catalog loaded into memory store", zap.Int("parts", len(parts)))
		}
		logger.Warn("Using in-memory store; data is lost on shutdown")
		return store, nil

	default:
		return nil, fmt.Errorf("invalid store driver: %s", cfg.Store.Driver)
	}
}
