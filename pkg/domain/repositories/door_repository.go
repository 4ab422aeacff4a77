package repositories

import (
	"context"

	"github.com/vsinha/doorshop/pkg/domain/entities"
)

// DoorRepository provides access to door leaves
type DoorRepository interface {
	GetDoor(ctx context.Context, id int64) (*entities.Door, error)
	GetLeaf(ctx context.Context, entryID int64, leaf entities.Leaf) (*entities.Door, error)
	ListDoors(ctx context.Context, entryID int64) ([]*entities.Door, error)

	// GetDoorOpening joins a door's document with its entry's opening document
	GetDoorOpening(ctx context.Context, doorID int64) (*entities.DoorOpening, error)

	InsertDoor(ctx context.Context, door *entities.Door) error
	DeleteLeaf(ctx context.Context, entryID int64, leaf entities.Leaf) error
	DeleteDoor(ctx context.Context, id int64) error
}
