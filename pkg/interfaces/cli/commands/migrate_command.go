package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/doorshop/pkg/infrastructure/config"
	"github.com/vsinha/doorshop/pkg/infrastructure/repositories/postgres"
)

// MigrateCommand applies the PostgreSQL schema
type MigrateCommand struct {
	config *config.Config
	logger *zap.Logger
}

// NewMigrateCommand creates a new migrate command
func NewMigrateCommand(cfg *config.Config, logger *zap.Logger) *MigrateCommand {
	return &MigrateCommand{config: cfg, logger: logger}
}

// Execute connects to the database and applies the schema
func (c *MigrateCommand) Execute(ctx context.Context) error {
	if c.config.Store.Driver != config.DriverPostgres {
		return fmt.Errorf("migrate requires the postgres store driver, got %s", c.config.Store.Driver)
	}

	store, err := postgres.NewStore(ctx, c.config.Database, c.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Migrate(ctx)
}
