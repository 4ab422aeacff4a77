package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/doorshop/pkg/application/services"
	"github.com/vsinha/doorshop/pkg/domain/entities"
	"github.com/vsinha/doorshop/pkg/infrastructure/events"
	"github.com/vsinha/doorshop/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()

	// Create store and load the rail catalog
	store := memory.NewStore()
	setupRailCatalog(store)

	eventStore := events.NewInMemoryEventStore(nil)
	defer eventStore.Drain()

	entryService := services.NewEntryService(store, eventStore, nil, nil)
	cutListService := services.NewCutListService(store, nil, nil)

	// A 36x84 single-leaf opening with all four rails specified
	opening := mustEntryData(`{"openingWidth":36,"openingHeight":84,"hingeGap":0.0625,"strikeGap":0.125}`)
	door := entities.DoorData{TopRail: "TR-1", BottomRail: "BR-1", HingeRail: "HR-1", LockRail: "LR-1"}

	fmt.Println("🚪 Creating RHR entry on work order 1...")
	entry, err := entryService.CreateEntry(ctx, 1, "RHR", opening, door)
	if err != nil {
		fmt.Printf("❌ Create failed: %v\n", err)
		return
	}
	printDoors(ctx, entryService, entry.ID)

	doors, err := entryService.ListDoors(ctx, entry.ID)
	if err != nil {
		fmt.Printf("❌ List failed: %v\n", err)
		return
	}

	cutList, err := cutListService.DoorCutList(ctx, doors[0].ID)
	if err != nil {
		fmt.Printf("❌ Cut list failed: %v\n", err)
		return
	}
	fmt.Println("📐 Cut List:")
	for _, slot := range entities.RailSlots {
		if cut, ok := cutList[slot]; ok {
			fmt.Printf("  %-10s %s\n", slot, cut.Length.String())
		}
	}
	fmt.Println()

	// Switching to a double-leaf handing adds leaf B as a copy of leaf A
	fmt.Println("🔁 Changing handing RHR -> RHRA...")
	if _, err := entryService.UpdateEntry(ctx, entry.ID, "RHRA", opening); err != nil {
		fmt.Printf("❌ Update failed: %v\n", err)
		return
	}
	printDoors(ctx, entryService, entry.ID)

	fmt.Println("🔁 Changing handing RHRA -> LHR...")
	if _, err := entryService.UpdateEntry(ctx, entry.ID, "LHR", opening); err != nil {
		fmt.Printf("❌ Update failed: %v\n", err)
		return
	}
	printDoors(ctx, entryService, entry.ID)

	all, _ := eventStore.ReadAllEvents(0)
	fmt.Printf("📜 Events recorded: %d\n", len(all))
	for _, event := range all {
		fmt.Printf("  %s (%s)\n", event.Type(), event.StreamID())
	}
	fmt.Println()

	fmt.Println("✅ Door shop walkthrough complete!")
}

func printDoors(ctx context.Context, entryService *services.EntryService, entryID int64) {
	entry, err := entryService.GetEntry(ctx, entryID)
	if err != nil {
		fmt.Printf("❌ Get failed: %v\n", err)
		return
	}
	doors, err := entryService.ListDoors(ctx, entryID)
	if err != nil {
		fmt.Printf("❌ List failed: %v\n", err)
		return
	}
	fmt.Printf("  Entry %d handing %s, %d leaf(s):", entry.ID, entry.Handing, len(doors))
	for _, door := range doors {
		fmt.Printf(" %s#%d", door.Leaf, door.ID)
	}
	fmt.Println()
	fmt.Println()
}

func mustEntryData(doc string) entities.EntryData {
	var data entities.EntryData
	if err := json.Unmarshal([]byte(doc), &data); err != nil {
		panic(err)
	}
	return data
}

func setupRailCatalog(store *memory.Store) {
	rails := []struct {
		partType string
		length   int64
	}{
		{"TR-1", 5},
		{"BR-1", 10},
		{"HR-1", 4},
		{"LR-1", 4},
	}
	for _, rail := range rails {
		store.AddCatalogPart(entities.CatalogPart{
			PartType:          rail.partType,
			LengthAcrossWidth: decimal.NewFromInt(rail.length),
		})
	}
}
