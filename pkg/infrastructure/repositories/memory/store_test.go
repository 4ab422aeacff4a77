package memory

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vsinha/doorshop/pkg/domain/entities"
	"github.com/vsinha/doorshop/pkg/domain/repositories"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func entryData(t *testing.T, doc string) entities.EntryData {
	t.Helper()
	var data entities.EntryData
	require.NoError(t, json.Unmarshal([]byte(doc), &data))
	return data
}

func seedEntry(t *testing.T, store *Store, handing entities.Handing) *entities.Entry {
	t.Helper()
	ctx := context.Background()
	entry := &entities.Entry{WorkOrderID: 1, Handing: handing, Data: entryData(t, `{"openingWidth":36}`)}
	require.NoError(t, store.RunInTransaction(ctx, func(tx repositories.Tx) error {
		if err := tx.CreateEntry(ctx, entry); err != nil {
			return err
		}
		for _, leaf := range handing.Leaves() {
			if err := tx.InsertDoor(ctx, &entities.Door{EntryID: entry.ID, Leaf: leaf}); err != nil {
				return err
			}
		}
		return nil
	}))
	return entry
}

func TestStore_CommitMakesWritesVisible(t *testing.T) {
	store := NewStore()
	entry := seedEntry(t, store, "RHRA")

	got, err := store.GetEntry(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.Handing("RHRA"), got.Handing)

	doors, err := store.ListDoors(context.Background(), entry.ID)
	require.NoError(t, err)
	require.Len(t, doors, 2)
	assert.Equal(t, entities.LeafA, doors[0].Leaf)
	assert.Equal(t, entities.LeafB, doors[1].Leaf)
}

func TestStore_RollbackDiscardsWrites(t *testing.T) {
	store := NewStore()
	entry := seedEntry(t, store, "RHR")
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.RunInTransaction(ctx, func(tx repositories.Tx) error {
		require.NoError(t, tx.UpdateEntry(ctx, entry.ID, "RHRA", entities.EntryData{}))
		require.NoError(t, tx.InsertDoor(ctx, &entities.Door{EntryID: entry.ID, Leaf: entities.LeafB}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.Handing("RHR"), got.Handing)
	assert.True(t, got.Data.OpeningWidth.Present())

	doors, err := store.ListDoors(ctx, entry.ID)
	require.NoError(t, err)
	assert.Len(t, doors, 1)
}

func TestStore_CancelledContext(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.RunInTransaction(ctx, func(tx repositories.Tx) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStore_ReturnedRecordsAreCopies(t *testing.T) {
	store := NewStore()
	entry := seedEntry(t, store, "RHR")
	ctx := context.Background()

	got, err := store.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	got.Handing = "LHRA"
	got.Data.Extensions = entities.Extensions{"x": json.RawMessage(`1`)}

	again, err := store.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.Handing("RHR"), again.Handing)
	assert.Empty(t, again.Data.Extensions)
}

func TestStore_NotFound(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.GetEntry(ctx, 42)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = store.LockEntryHanding(ctx, 42)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, store.UpdateEntry(ctx, 42, "RHR", entities.EntryData{}), repositories.ErrNotFound)
	assert.ErrorIs(t, store.DeleteEntry(ctx, 42), repositories.ErrNotFound)
	assert.ErrorIs(t, store.DeleteDoor(ctx, 42), repositories.ErrNotFound)
	_, err = store.GetDoorOpening(ctx, 42)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = store.GetLeaf(ctx, 42, entities.LeafA)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestStore_InsertDoorConstraints(t *testing.T) {
	store := NewStore()
	entry := seedEntry(t, store, "RHR")
	ctx := context.Background()

	err := store.InsertDoor(ctx, &entities.Door{EntryID: entry.ID, Leaf: entities.LeafA})
	assert.EqualError(t, err, "entry 1 already has leaf A")

	err = store.InsertDoor(ctx, &entities.Door{EntryID: entry.ID, Leaf: "C"})
	assert.EqualError(t, err, `invalid leaf "C"`)

	err = store.InsertDoor(ctx, &entities.Door{EntryID: 99, Leaf: entities.LeafA})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestStore_DeleteEntryRemovesDoors(t *testing.T) {
	store := NewStore()
	entry := seedEntry(t, store, "LHRA")
	other := seedEntry(t, store, "LHR")
	ctx := context.Background()

	require.NoError(t, store.DeleteEntry(ctx, entry.ID))

	doors, err := store.ListDoors(ctx, entry.ID)
	require.NoError(t, err)
	assert.Empty(t, doors)

	doors, err = store.ListDoors(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, doors, 1)
}

func TestStore_DoorOpeningAndCatalog(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.LoadCatalog([]*entities.CatalogPart{
		{PartType: "TR-1", LengthAcrossWidth: decimal.NewFromInt(5)},
		{PartType: "HR-1", DimensionMissing: true},
	}))

	entry := &entities.Entry{WorkOrderID: 3, Handing: "RHR", Data: entryData(t, `{"openingHeight":84}`)}
	require.NoError(t, store.CreateEntry(ctx, entry))
	door := &entities.Door{EntryID: entry.ID, Leaf: entities.LeafA, Data: entities.DoorData{TopRail: "TR-1"}}
	require.NoError(t, store.InsertDoor(ctx, door))

	opening, err := store.GetDoorOpening(ctx, door.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, opening.EntryID)
	assert.Equal(t, entities.PartRef("TR-1"), opening.Door.TopRail)
	assert.True(t, opening.Opening.OpeningHeight.Value().Equal(decimal.NewFromInt(84)))

	parts, err := store.ResolveParts(ctx, []string{"TR-1", "HR-1", "XX"})
	require.NoError(t, err)
	assert.Len(t, parts, 2)
	assert.True(t, parts["HR-1"].DimensionMissing)

	assert.EqualError(t, store.LoadCatalog([]*entities.CatalogPart{{}}), "catalog part has empty part type")
}

func TestStore_ConcurrentTransactionsSerialize(t *testing.T) {
	store := NewStore()
	entry := seedEntry(t, store, "RHR")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handing := entities.Handing("RHR")
			if i%2 == 0 {
				handing = "RHRA"
			}
			_ = store.RunInTransaction(ctx, func(tx repositories.Tx) error {
				prev, err := tx.LockEntryHanding(ctx, entry.ID)
				if err != nil {
					return err
				}
				if err := tx.UpdateEntry(ctx, entry.ID, handing, entities.EntryData{}); err != nil {
					return err
				}
				switch {
				case !prev.IsDouble() && handing.IsDouble():
					return tx.InsertDoor(ctx, &entities.Door{EntryID: entry.ID, Leaf: entities.LeafB})
				case prev.IsDouble() && !handing.IsDouble():
					return tx.DeleteLeaf(ctx, entry.ID, entities.LeafB)
				}
				return nil
			})
		}(i)
	}
	wg.Wait()

	got, err := store.GetEntry(ctx, entry.ID)
	require.NoError(t, err)
	doors, err := store.ListDoors(ctx, entry.ID)
	require.NoError(t, err)
	assert.Len(t, doors, len(got.Handing.Leaves()))
}
