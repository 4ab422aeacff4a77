package repositories

import (
	"context"

	"github.com/vsinha/doorshop/pkg/domain/entities"
)

// EntryRepository provides access to entries (openings within a work order)
type EntryRepository interface {
	GetEntry(ctx context.Context, id int64) (*entities.Entry, error)

	// LockEntryHanding reads an entry's handing and holds the entry row for the
	// rest of the transaction. Returns ErrNotFound for an unknown id.
	LockEntryHanding(ctx context.Context, id int64) (entities.Handing, error)

	CreateEntry(ctx context.Context, entry *entities.Entry) error
	UpdateEntry(ctx context.Context, id int64, handing entities.Handing, data entities.EntryData) error

	// DeleteEntry removes the entry together with its doors
	DeleteEntry(ctx context.Context, id int64) error
}
