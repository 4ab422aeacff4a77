package testing

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/vsinha/doorshop/pkg/domain/entities"
	"github.com/vsinha/doorshop/pkg/domain/repositories"
	"github.com/vsinha/doorshop/pkg/infrastructure/repositories/memory"
)

// ShopFixture is a memory store seeded by BuildShopTestData, with the ids it assigned
type ShopFixture struct {
	Store *memory.Store

	// SingleEntryID is an RHR entry whose leaf A references all four catalog rails
	SingleEntryID int64
	SingleDoorID  int64

	// DoubleEntryID is an LHRA entry with leaves A and B
	DoubleEntryID int64
	DoubleDoorIDs [2]int64

	// BareDoorID belongs to an entry whose door references no rails
	BareEntryID int64
	BareDoorID  int64
}

// OpeningDocument is the opening of the single-leaf fixture entry
const OpeningDocument = `{"openingWidth":36,"openingHeight":84,"hingeGap":0.0625,"strikeGap":0.125,"finish":"primed"}`

// RailDocument references the four fixture catalog rails
const RailDocument = `{"topRail":"TR-1","bottomRail":"BR-1","hingeRail":"HR-1","lockRail":"LR-1","color":"bronze"}`

// mustCreateCatalogPart is a helper for tests - panics on validation error
func mustCreateCatalogPart(partType, length string) *entities.CatalogPart {
	part, err := entities.NewCatalogPart(partType, decimal.RequireFromString(length))
	if err != nil {
		panic(err)
	}
	return part
}

// MustEntryData decodes an opening document - panics on invalid input
func MustEntryData(doc string) entities.EntryData {
	var data entities.EntryData
	if err := json.Unmarshal([]byte(doc), &data); err != nil {
		panic(err)
	}
	return data
}

// MustDoorData decodes a door document - panics on invalid input
func MustDoorData(doc string) entities.DoorData {
	var data entities.DoorData
	if err := json.Unmarshal([]byte(doc), &data); err != nil {
		panic(err)
	}
	return data
}

// BuildCatalog returns the fixture part catalog. NULL-DIM has no recorded dimension.
func BuildCatalog() []*entities.CatalogPart {
	return []*entities.CatalogPart{
		mustCreateCatalogPart("TR-1", "5"),
		mustCreateCatalogPart("BR-1", "10"),
		mustCreateCatalogPart("HR-1", "4"),
		mustCreateCatalogPart("LR-1", "4"),
		{PartType: "NULL-DIM", DimensionMissing: true},
	}
}

// BuildShopTestData seeds a memory store with the fixture catalog and three entries
func BuildShopTestData() *ShopFixture {
	store := memory.NewStore()
	if err := store.LoadCatalog(BuildCatalog()); err != nil {
		panic(err)
	}

	fixture := &ShopFixture{Store: store}
	ctx := context.Background()

	err := store.RunInTransaction(ctx, func(tx repositories.Tx) error {
		single, err := seedEntry(ctx, tx, 1, "RHR", OpeningDocument, RailDocument)
		if err != nil {
			return err
		}
		fixture.SingleEntryID, fixture.SingleDoorID = single.ID, single.doors[0]

		double, err := seedEntry(ctx, tx, 1, "LHRA", OpeningDocument, `{"topRail":"TR-1","hingeRail":"HR-1"}`)
		if err != nil {
			return err
		}
		fixture.DoubleEntryID = double.ID
		copy(fixture.DoubleDoorIDs[:], double.doors)

		bare, err := seedEntry(ctx, tx, 2, "LHR", `{"openingWidth":30,"openingHeight":80}`, `{}`)
		if err != nil {
			return err
		}
		fixture.BareEntryID, fixture.BareDoorID = bare.ID, bare.doors[0]
		return nil
	})
	if err != nil {
		panic(err)
	}

	return fixture
}

type seededEntry struct {
	ID    int64
	doors []int64
}

func seedEntry(ctx context.Context, tx repositories.Tx, workOrderID int64, handing entities.Handing, opening, door string) (*seededEntry, error) {
	entry := &entities.Entry{WorkOrderID: workOrderID, Handing: handing, Data: MustEntryData(opening)}
	if err := tx.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}

	seeded := &seededEntry{ID: entry.ID}
	for _, leaf := range handing.Leaves() {
		d := &entities.Door{EntryID: entry.ID, Leaf: leaf, Data: MustDoorData(door)}
		if err := tx.InsertDoor(ctx, d); err != nil {
			return nil, err
		}
		seeded.doors = append(seeded.doors, d.ID)
	}
	return seeded, nil
}
