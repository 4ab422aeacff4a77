package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vsinha/doorshop/pkg/domain/entities"
	"github.com/vsinha/doorshop/pkg/domain/repositories"
)

// Store provides in-memory entry, door and catalog storage with
// all-or-nothing transactions. Reads see only committed state.
type Store struct {
	mu    sync.RWMutex
	state memoryState
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock creates an empty in-memory store using the given clock for timestamps
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{state: newMemoryState(now)}
}

// Verify interface compliance
var _ repositories.Store = (*Store)(nil)

// RunInTransaction runs fn against a private copy of the store. The copy
// replaces the store contents only if fn returns nil. Writers are serialized;
// fn must not call back into the Store itself.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx repositories.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.state.clone()
	if err := fn(&tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}
	s.state = tx
	return nil
}

func (s *Store) read(fn func(st *memoryState) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.state)
}

func (s *Store) write(ctx context.Context, fn func(tx repositories.Tx) error) error {
	return s.RunInTransaction(ctx, fn)
}

// LoadCatalog loads catalog parts into the store
func (s *Store) LoadCatalog(parts []*entities.CatalogPart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, part := range parts {
		if part.PartType == "" {
			return fmt.Errorf("catalog part has empty part type")
		}
		s.state.parts[part.PartType] = *part
	}
	return nil
}

// AddCatalogPart adds a single part to the catalog
func (s *Store) AddCatalogPart(part entities.CatalogPart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.parts[part.PartType] = part
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op
func (s *Store) Close() {}

// GetEntry returns an entry by id
func (s *Store) GetEntry(ctx context.Context, id int64) (entry *entities.Entry, err error) {
	err = s.read(func(st *memoryState) error {
		entry, err = st.GetEntry(ctx, id)
		return err
	})
	return entry, err
}

// LockEntryHanding returns an entry's handing. Outside a transaction there is nothing to hold.
func (s *Store) LockEntryHanding(ctx context.Context, id int64) (handing entities.Handing, err error) {
	err = s.read(func(st *memoryState) error {
		handing, err = st.LockEntryHanding(ctx, id)
		return err
	})
	return handing, err
}

// CreateEntry stores a new entry
func (s *Store) CreateEntry(ctx context.Context, entry *entities.Entry) error {
	return s.write(ctx, func(tx repositories.Tx) error {
		return tx.CreateEntry(ctx, entry)
	})
}

// UpdateEntry replaces an entry's handing and data
func (s *Store) UpdateEntry(ctx context.Context, id int64, handing entities.Handing, data entities.EntryData) error {
	return s.write(ctx, func(tx repositories.Tx) error {
		return tx.UpdateEntry(ctx, id, handing, data)
	})
}

// DeleteEntry removes an entry and its doors
func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	return s.write(ctx, func(tx repositories.Tx) error {
		return tx.DeleteEntry(ctx, id)
	})
}

// GetDoor returns a door by id
func (s *Store) GetDoor(ctx context.Context, id int64) (door *entities.Door, err error) {
	err = s.read(func(st *memoryState) error {
		door, err = st.GetDoor(ctx, id)
		return err
	})
	return door, err
}

// GetLeaf returns the door of an entry with the given leaf
func (s *Store) GetLeaf(ctx context.Context, entryID int64, leaf entities.Leaf) (door *entities.Door, err error) {
	err = s.read(func(st *memoryState) error {
		door, err = st.GetLeaf(ctx, entryID, leaf)
		return err
	})
	return door, err
}

// ListDoors returns an entry's doors ordered by id
func (s *Store) ListDoors(ctx context.Context, entryID int64) (doors []*entities.Door, err error) {
	err = s.read(func(st *memoryState) error {
		doors, err = st.ListDoors(ctx, entryID)
		return err
	})
	return doors, err
}

// GetDoorOpening joins a door with its entry
func (s *Store) GetDoorOpening(ctx context.Context, doorID int64) (opening *entities.DoorOpening, err error) {
	err = s.read(func(st *memoryState) error {
		opening, err = st.GetDoorOpening(ctx, doorID)
		return err
	})
	return opening, err
}

// InsertDoor stores a new door leaf
func (s *Store) InsertDoor(ctx context.Context, door *entities.Door) error {
	return s.write(ctx, func(tx repositories.Tx) error {
		return tx.InsertDoor(ctx, door)
	})
}

// DeleteLeaf removes an entry's leaf if it exists
func (s *Store) DeleteLeaf(ctx context.Context, entryID int64, leaf entities.Leaf) error {
	return s.write(ctx, func(tx repositories.Tx) error {
		return tx.DeleteLeaf(ctx, entryID, leaf)
	})
}

// DeleteDoor removes a door by id
func (s *Store) DeleteDoor(ctx context.Context, id int64) error {
	return s.write(ctx, func(tx repositories.Tx) error {
		return tx.DeleteDoor(ctx, id)
	})
}

// ResolveParts looks up catalog parts by part type
func (s *Store) ResolveParts(ctx context.Context, partTypes []string) (parts map[string]entities.CatalogPart, err error) {
	err = s.read(func(st *memoryState) error {
		parts, err = st.ResolveParts(ctx, partTypes)
		return err
	})
	return parts, err
}
