package events

import (
	"fmt"

	"github.com/vsinha/doorshop/pkg/domain/entities"
)

const (
	EntryCreatedEvent        = "entry.created"
	EntryHandingChangedEvent = "entry.handing.changed"
	EntryDeletedEvent        = "entry.deleted"

	LeafAddedEvent   = "door.leaf.added"
	LeafRemovedEvent = "door.leaf.removed"
	DoorDeletedEvent = "door.deleted"
)

// AllDoorEventTypes lists every event type published for entries and doors
var AllDoorEventTypes = []string{
	EntryCreatedEvent,
	EntryHandingChangedEvent,
	EntryDeletedEvent,
	LeafAddedEvent,
	LeafRemovedEvent,
	DoorDeletedEvent,
}

type EntryCreated struct {
	Entry  entities.Entry  `json:"entry"`
	Leaves []entities.Leaf `json:"leaves"`
}

type EntryHandingChanged struct {
	EntryID         int64            `json:"entry_id"`
	PreviousHanding entities.Handing `json:"previous_handing"`
	Handing         entities.Handing `json:"handing"`
}

type EntryDeleted struct {
	EntryID int64 `json:"entry_id"`
}

type LeafAdded struct {
	EntryID int64         `json:"entry_id"`
	DoorID  int64         `json:"door_id"`
	Leaf    entities.Leaf `json:"leaf"`
	// CopiedFrom is the door whose data seeded the new leaf
	CopiedFrom int64 `json:"copied_from,omitempty"`
}

type LeafRemoved struct {
	EntryID int64         `json:"entry_id"`
	Leaf    entities.Leaf `json:"leaf"`
}

type DoorDeleted struct {
	DoorID int64 `json:"door_id"`
}

// EntryStream returns the stream id events about an entry are appended to
func EntryStream(entryID int64) string {
	return fmt.Sprintf("entry-%d", entryID)
}

func NewEntryCreatedEvent(entry entities.Entry) Event {
	return NewEvent(EntryCreatedEvent, EntryStream(entry.ID), EntryCreated{
		Entry:  entry,
		Leaves: entry.Handing.Leaves(),
	})
}

func NewEntryHandingChangedEvent(entryID int64, previous, handing entities.Handing) Event {
	return NewEvent(EntryHandingChangedEvent, EntryStream(entryID), EntryHandingChanged{
		EntryID:         entryID,
		PreviousHanding: previous,
		Handing:         handing,
	})
}

func NewEntryDeletedEvent(entryID int64) Event {
	return NewEvent(EntryDeletedEvent, EntryStream(entryID), EntryDeleted{EntryID: entryID})
}

func NewLeafAddedEvent(door entities.Door, copiedFrom int64) Event {
	return NewEvent(LeafAddedEvent, EntryStream(door.EntryID), LeafAdded{
		EntryID:    door.EntryID,
		DoorID:     door.ID,
		Leaf:       door.Leaf,
		CopiedFrom: copiedFrom,
	})
}

func NewLeafRemovedEvent(entryID int64, leaf entities.Leaf) Event {
	return NewEvent(LeafRemovedEvent, EntryStream(entryID), LeafRemoved{EntryID: entryID, Leaf: leaf})
}

func NewDoorDeletedEvent(door entities.Door) Event {
	return NewEvent(DoorDeletedEvent, EntryStream(door.EntryID), DoorDeleted{DoorID: door.ID})
}
