package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/doorshop/pkg/domain/entities"
	"github.com/vsinha/doorshop/pkg/domain/repositories"
	domainservices "github.com/vsinha/doorshop/pkg/domain/services"
	"github.com/vsinha/doorshop/pkg/infrastructure/events"
	"github.com/vsinha/doorshop/pkg/infrastructure/metrics"
)

// EntryService keeps an entry's door leaves consistent with its handing
type EntryService struct {
	store      repositories.Store
	eventStore events.EventStore
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewEntryService creates an entry service. eventStore may be nil.
func NewEntryService(
	store repositories.Store,
	eventStore events.EventStore,
	m *metrics.Metrics,
	logger *zap.Logger,
) *EntryService {
	if m == nil {
		m = metrics.NewNop()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntryService{
		store:      store,
		eventStore: eventStore,
		metrics:    m,
		logger:     logger,
	}
}

// unknownTransition labels updates that failed before the previous handing was read
const unknownTransition = "unknown"

// leafChange records the leaf mutation a committed update made
type leafChange struct {
	action     domainservices.LeafAction
	added      *entities.Door
	copiedFrom int64
}

// UpdateEntry replaces an entry's handing and data, then adds or removes
// leaf B when the handing moves between single and double leaf. All writes
// happen in one transaction; on any error nothing is written.
func (s *EntryService) UpdateEntry(
	ctx context.Context,
	entryID int64,
	handing entities.Handing,
	data entities.EntryData,
) (*entities.Entry, error) {
	timer := metrics.NewTimer()

	var (
		previous entities.Handing
		locked   bool
		change   leafChange
		updated  *entities.Entry
	)
	err := s.store.RunInTransaction(ctx, func(tx repositories.Tx) error {
		var err error
		previous, err = tx.LockEntryHanding(ctx, entryID)
		if err != nil {
			return err
		}
		locked = true

		if err := tx.UpdateEntry(ctx, entryID, handing, data); err != nil {
			return err
		}

		change, err = applyLeafTransition(ctx, tx, entryID, previous, handing)
		if err != nil {
			return err
		}

		updated, err = tx.GetEntry(ctx, entryID)
		return err
	})

	transition := unknownTransition
	if locked {
		transition = domainservices.TransitionLabel(previous, handing)
	}
	s.metrics.RecordTransaction("update_entry", err, timer.Duration())
	s.metrics.RecordEntryUpdate(transition, change.action.String(), err)

	if err != nil {
		s.logger.Warn("Entry update failed",
			zap.Int64("entry_id", entryID),
			zap.String("handing", string(handing)),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Entry updated",
		zap.Int64("entry_id", entryID),
		zap.String("previous_handing", string(previous)),
		zap.String("handing", string(handing)),
		zap.String("transition", transition),
		zap.Stringer("leaf_action", change.action))

	if previous != handing {
		s.publish(events.NewEntryHandingChangedEvent(entryID, previous, handing))
	}
	switch change.action {
	case domainservices.LeafActionAddB:
		s.publish(events.NewLeafAddedEvent(*change.added, change.copiedFrom))
	case domainservices.LeafActionRemoveB:
		s.publish(events.NewLeafRemovedEvent(entryID, entities.LeafB))
	}

	return updated, nil
}

// applyLeafTransition makes at most one leaf mutation for a handing change
func applyLeafTransition(
	ctx context.Context,
	tx repositories.Tx,
	entryID int64,
	previous, next entities.Handing,
) (leafChange, error) {
	change := leafChange{action: domainservices.PlanLeafTransition(previous, next)}

	switch change.action {
	case domainservices.LeafActionAddB:
		leafA, err := tx.GetLeaf(ctx, entryID, entities.LeafA)
		if errors.Is(err, repositories.ErrNotFound) {
			return change, fmt.Errorf("entry %d has no leaf A to copy: %w", entryID, repositories.ErrLeafMissing)
		}
		if err != nil {
			return change, err
		}

		leafB := &entities.Door{EntryID: entryID, Leaf: entities.LeafB, Data: leafA.Data.Clone()}
		if err := tx.InsertDoor(ctx, leafB); err != nil {
			return change, fmt.Errorf("failed to add leaf B: %w", err)
		}
		change.added = leafB
		change.copiedFrom = leafA.ID

	case domainservices.LeafActionRemoveB:
		if err := tx.DeleteLeaf(ctx, entryID, entities.LeafB); err != nil {
			return change, fmt.Errorf("failed to remove leaf B: %w", err)
		}
	}

	return change, nil
}

// CreateEntry stores an entry with leaf A, plus leaf B for a double-leaf
// handing. Every leaf starts with doorData.
func (s *EntryService) CreateEntry(
	ctx context.Context,
	workOrderID int64,
	handing entities.Handing,
	entryData entities.EntryData,
	doorData entities.DoorData,
) (*entities.Entry, error) {
	timer := metrics.NewTimer()

	entry := &entities.Entry{WorkOrderID: workOrderID, Handing: handing, Data: entryData}
	err := s.store.RunInTransaction(ctx, func(tx repositories.Tx) error {
		if err := tx.CreateEntry(ctx, entry); err != nil {
			return err
		}
		for _, leaf := range handing.Leaves() {
			door := &entities.Door{EntryID: entry.ID, Leaf: leaf, Data: doorData.Clone()}
			if err := tx.InsertDoor(ctx, door); err != nil {
				return fmt.Errorf("failed to add leaf %s: %w", leaf, err)
			}
		}
		return nil
	})
	s.metrics.RecordTransaction("create_entry", err, timer.Duration())
	if err != nil {
		return nil, err
	}

	s.logger.Info("Entry created",
		zap.Int64("entry_id", entry.ID),
		zap.Int64("work_order_id", workOrderID),
		zap.String("handing", string(handing)))
	s.publish(events.NewEntryCreatedEvent(*entry))

	return entry, nil
}

// GetEntry returns an entry by id
func (s *EntryService) GetEntry(ctx context.Context, id int64) (*entities.Entry, error) {
	return s.store.GetEntry(ctx, id)
}

// ListDoors returns an entry's doors ordered by id. Unknown entries are ErrNotFound.
func (s *EntryService) ListDoors(ctx context.Context, entryID int64) ([]*entities.Door, error) {
	if _, err := s.store.GetEntry(ctx, entryID); err != nil {
		return nil, err
	}
	doors, err := s.store.ListDoors(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if doors == nil {
		doors = []*entities.Door{}
	}
	return doors, nil
}

// DeleteEntry removes an entry and its doors
func (s *EntryService) DeleteEntry(ctx context.Context, id int64) error {
	if err := s.store.DeleteEntry(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Entry deleted", zap.Int64("entry_id", id))
	s.publish(events.NewEntryDeletedEvent(id))
	return nil
}

// DeleteDoor removes a single door
func (s *EntryService) DeleteDoor(ctx context.Context, id int64) error {
	var door *entities.Door
	err := s.store.RunInTransaction(ctx, func(tx repositories.Tx) error {
		var err error
		door, err = tx.GetDoor(ctx, id)
		if err != nil {
			return err
		}
		return tx.DeleteDoor(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Door deleted",
		zap.Int64("door_id", id),
		zap.Int64("entry_id", door.EntryID),
		zap.String("leaf", string(door.Leaf)))
	s.publish(events.NewDoorDeletedEvent(*door))
	return nil
}

// publish appends an event after commit. Failures are logged only.
func (s *EntryService) publish(event events.Event) {
	if s.eventStore == nil {
		return
	}
	if err := s.eventStore.AppendEvent(event.StreamID(), event); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("type", event.Type()),
			zap.String("stream", event.StreamID()),
			zap.Error(err))
	}
}
