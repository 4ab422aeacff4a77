package events

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vsinha/doorshop/pkg/domain/entities"
)

type recordingHandler struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (h *recordingHandler) CanHandle(string) bool { return true }

func (h *recordingHandler) Handle(event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func TestInMemoryEventStore_VersionsPerStream(t *testing.T) {
	store := NewInMemoryEventStore(zap.NewNop())

	require.NoError(t, store.AppendEvent(EntryStream(1), NewEntryHandingChangedEvent(1, "RHR", "RHRA")))
	require.NoError(t, store.AppendEvent(EntryStream(1), NewLeafRemovedEvent(1, "B")))
	require.NoError(t, store.AppendEvent(EntryStream(2), NewEntryDeletedEvent(2)))

	stream, err := store.ReadEvents("entry-1", 0)
	require.NoError(t, err)
	require.Len(t, stream, 2)
	assert.Equal(t, 1, stream[0].Version())
	assert.Equal(t, 2, stream[1].Version())
	assert.Equal(t, EntryHandingChangedEvent, stream[0].Type())
	assert.NotEmpty(t, stream[0].ID())

	tail, err := store.ReadEvents("entry-1", 2)
	require.NoError(t, err)
	assert.Len(t, tail, 1)

	none, err := store.ReadEvents("entry-1", 5)
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := store.ReadAllEvents(1)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestInMemoryEventStore_SubscribersAndFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	store := NewInMemoryEventStore(zap.New(core))

	ok := &recordingHandler{}
	failing := &recordingHandler{err: errors.New("handler down")}
	require.NoError(t, store.Subscribe([]string{LeafAddedEvent}, ok))
	require.NoError(t, store.Subscribe([]string{LeafAddedEvent}, failing))

	require.NoError(t, store.AppendEvent(EntryStream(7), NewEvent(LeafAddedEvent, EntryStream(7), LeafAdded{EntryID: 7, Leaf: "B"})))
	require.NoError(t, store.AppendEvent(EntryStream(7), NewLeafRemovedEvent(7, "B")))
	store.Drain()

	assert.Len(t, ok.events, 1)
	assert.Len(t, failing.events, 1)
	assert.Equal(t, 1, logs.FilterMessage("event handler failed").Len())

	require.NoError(t, store.Unsubscribe(ok))
	require.NoError(t, store.AppendEvent(EntryStream(7), NewEvent(LeafAddedEvent, EntryStream(7), nil)))
	store.Drain()
	assert.Len(t, ok.events, 1)
	assert.Len(t, failing.events, 2)
}

func TestInMemoryEventStore_RetentionEvictsOldest(t *testing.T) {
	store := NewInMemoryEventStore(zap.NewNop(), WithRetention(3))

	require.NoError(t, store.AppendEvent(EntryStream(1), NewEntryCreatedEvent(entities.Entry{ID: 1, Handing: "RHR"})))
	require.NoError(t, store.AppendEvent(EntryStream(2), NewEntryCreatedEvent(entities.Entry{ID: 2, Handing: "LHR"})))
	require.NoError(t, store.AppendEvent(EntryStream(1), NewEntryHandingChangedEvent(1, "RHR", "RHRA")))
	require.NoError(t, store.AppendEvent(EntryStream(2), NewEntryDeletedEvent(2)))
	require.NoError(t, store.AppendEvent(EntryStream(1), NewLeafRemovedEvent(1, "B")))

	all, err := store.ReadAllEvents(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, EntryHandingChangedEvent, all[0].Type())

	tail, err := store.ReadAllEvents(4)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, LeafRemovedEvent, tail[0].Type())

	stream, err := store.ReadEvents(EntryStream(1), 0)
	require.NoError(t, err)
	require.Len(t, stream, 2)
	assert.Equal(t, 2, stream[0].Version())
	assert.Equal(t, 3, stream[1].Version())

	stream, err = store.ReadEvents(EntryStream(2), 0)
	require.NoError(t, err)
	require.Len(t, stream, 1)
	assert.Equal(t, EntryDeletedEvent, stream[0].Type())

	for i := 0; i < 3; i++ {
		require.NoError(t, store.AppendEvent(EntryStream(3), NewEntryDeletedEvent(3)))
	}
	assert.Len(t, store.streams, 1, "fully evicted streams are dropped")
}

func TestInMemoryEventStore_UnboundedByDefault(t *testing.T) {
	store := NewInMemoryEventStore(nil)
	for i := 0; i < DefaultRetention+10; i++ {
		require.NoError(t, store.AppendEvent(EntryStream(1), NewEntryDeletedEvent(1)))
	}
	all, err := store.ReadAllEvents(0)
	require.NoError(t, err)
	assert.Len(t, all, DefaultRetention+10)
}
