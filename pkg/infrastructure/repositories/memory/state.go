package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/vsinha/doorshop/pkg/domain/entities"
	"github.com/vsinha/doorshop/pkg/domain/repositories"
)

// memoryState is the full contents of the store. Transactions work on a
// clone and the store swaps it in on commit.
type memoryState struct {
	entries     map[int64]entities.Entry
	doors       map[int64]entities.Door
	parts       map[string]entities.CatalogPart
	nextEntryID int64
	nextDoorID  int64
	now         func() time.Time
}

func newMemoryState(now func() time.Time) memoryState {
	return memoryState{
		entries:     make(map[int64]entities.Entry),
		doors:       make(map[int64]entities.Door),
		parts:       make(map[string]entities.CatalogPart),
		nextEntryID: 1,
		nextDoorID:  1,
		now:         now,
	}
}

func (s memoryState) clone() memoryState {
	out := memoryState{
		entries:     make(map[int64]entities.Entry, len(s.entries)),
		doors:       make(map[int64]entities.Door, len(s.doors)),
		parts:       make(map[string]entities.CatalogPart, len(s.parts)),
		nextEntryID: s.nextEntryID,
		nextDoorID:  s.nextDoorID,
		now:         s.now,
	}
	for k, v := range s.entries {
		out.entries[k] = cloneEntry(v)
	}
	for k, v := range s.doors {
		out.doors[k] = cloneDoor(v)
	}
	for k, v := range s.parts {
		out.parts[k] = v
	}
	return out
}

func cloneEntry(e entities.Entry) entities.Entry {
	e.Data = e.Data.Clone()
	return e
}

func cloneDoor(d entities.Door) entities.Door {
	d.Data = d.Data.Clone()
	return d
}

// Compile-time check that the transactional view satisfies the repositories
var _ repositories.Tx = (*memoryState)(nil)

// GetEntry returns an entry by id
func (s *memoryState) GetEntry(_ context.Context, id int64) (*entities.Entry, error) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("entry %d: %w", id, repositories.ErrNotFound)
	}
	entry = cloneEntry(entry)
	return &entry, nil
}

// LockEntryHanding returns an entry's handing. The store-wide lock held by
// RunInTransaction already serializes writers.
func (s *memoryState) LockEntryHanding(_ context.Context, id int64) (entities.Handing, error) {
	entry, ok := s.entries[id]
	if !ok {
		return "", fmt.Errorf("entry %d: %w", id, repositories.ErrNotFound)
	}
	return entry.Handing, nil
}

// CreateEntry stores a new entry and assigns its id
func (s *memoryState) CreateEntry(_ context.Context, entry *entities.Entry) error {
	entry.ID = s.nextEntryID
	s.nextEntryID++
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	s.entries[entry.ID] = cloneEntry(*entry)
	return nil
}

// UpdateEntry replaces an entry's handing and data
func (s *memoryState) UpdateEntry(_ context.Context, id int64, handing entities.Handing, data entities.EntryData) error {
	entry, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("entry %d: %w", id, repositories.ErrNotFound)
	}
	entry.Handing = handing
	entry.Data = data.Clone()
	s.entries[id] = entry
	return nil
}

// DeleteEntry removes an entry and its doors
func (s *memoryState) DeleteEntry(_ context.Context, id int64) error {
	if _, ok := s.entries[id]; !ok {
		return fmt.Errorf("entry %d: %w", id, repositories.ErrNotFound)
	}
	delete(s.entries, id)
	for doorID, door := range s.doors {
		if door.EntryID == id {
			delete(s.doors, doorID)
		}
	}
	return nil
}

// GetDoor returns a door by id
func (s *memoryState) GetDoor(_ context.Context, id int64) (*entities.Door, error) {
	door, ok := s.doors[id]
	if !ok {
		return nil, fmt.Errorf("door %d: %w", id, repositories.ErrNotFound)
	}
	door = cloneDoor(door)
	return &door, nil
}

// GetLeaf returns the door of an entry with the given leaf
func (s *memoryState) GetLeaf(_ context.Context, entryID int64, leaf entities.Leaf) (*entities.Door, error) {
	for _, door := range s.doors {
		if door.EntryID == entryID && door.Leaf == leaf {
			door = cloneDoor(door)
			return &door, nil
		}
	}
	return nil, fmt.Errorf("entry %d leaf %s: %w", entryID, leaf, repositories.ErrNotFound)
}

// ListDoors returns an entry's doors ordered by id
func (s *memoryState) ListDoors(_ context.Context, entryID int64) ([]*entities.Door, error) {
	var doors []*entities.Door
	for _, door := range s.doors {
		if door.EntryID == entryID {
			door = cloneDoor(door)
			doors = append(doors, &door)
		}
	}
	sort.Slice(doors, func(i, j int) bool {
		return doors[i].ID < doors[j].ID
	})
	return doors, nil
}

// GetDoorOpening joins a door with its entry
func (s *memoryState) GetDoorOpening(_ context.Context, doorID int64) (*entities.DoorOpening, error) {
	door, ok := s.doors[doorID]
	if !ok {
		return nil, fmt.Errorf("door %d: %w", doorID, repositories.ErrNotFound)
	}
	entry, ok := s.entries[door.EntryID]
	if !ok {
		return nil, fmt.Errorf("door %d entry %d: %w", doorID, door.EntryID, repositories.ErrNotFound)
	}
	return &entities.DoorOpening{
		DoorID:  door.ID,
		EntryID: entry.ID,
		Door:    door.Data.Clone(),
		Opening: entry.Data.Clone(),
	}, nil
}

// InsertDoor stores a new door leaf and assigns its id
func (s *memoryState) InsertDoor(_ context.Context, door *entities.Door) error {
	if !door.Leaf.Valid() {
		return fmt.Errorf("invalid leaf %q", door.Leaf)
	}
	if _, ok := s.entries[door.EntryID]; !ok {
		return fmt.Errorf("door references entry %d: %w", door.EntryID, repositories.ErrNotFound)
	}
	for _, existing := range s.doors {
		if existing.EntryID == door.EntryID && existing.Leaf == door.Leaf {
			return fmt.Errorf("entry %d already has leaf %s", door.EntryID, door.Leaf)
		}
	}
	door.ID = s.nextDoorID
	s.nextDoorID++
	s.doors[door.ID] = cloneDoor(*door)
	return nil
}

// DeleteLeaf removes an entry's leaf if it exists
func (s *memoryState) DeleteLeaf(_ context.Context, entryID int64, leaf entities.Leaf) error {
	for id, door := range s.doors {
		if door.EntryID == entryID && door.Leaf == leaf {
			delete(s.doors, id)
		}
	}
	return nil
}

// DeleteDoor removes a door by id
func (s *memoryState) DeleteDoor(_ context.Context, id int64) error {
	if _, ok := s.doors[id]; !ok {
		return fmt.Errorf("door %d: %w", id, repositories.ErrNotFound)
	}
	delete(s.doors, id)
	return nil
}

// ResolveParts looks up catalog parts by part type
func (s *memoryState) ResolveParts(_ context.Context, partTypes []string) (map[string]entities.CatalogPart, error) {
	parts := make(map[string]entities.CatalogPart, len(partTypes))
	for _, partType := range partTypes {
		if part, ok := s.parts[partType]; ok {
			parts[partType] = part
		}
	}
	return parts, nil
}
