// Package events records entry and door lifecycle changes and fans them out
// to subscribers once the owning transaction has committed.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is one committed change to an entry or one of its door leaves
type Event interface {
	ID() string
	Type() string
	// StreamID is the entry stream the event belongs to ("entry-42")
	StreamID() string
	Data() any
	Timestamp() time.Time
	// Version is the event's position within its stream, starting at 1
	Version() int
}

// EventHandler reacts to published events. Handlers run off the publishing
// goroutine and their errors are logged only.
type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// EventStore appends events to entry streams and dispatches them to subscribers
type EventStore interface {
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

// Envelope carries a door-shop payload (EntryCreated, LeafAdded, ...) with
// the metadata the store assigns on append.
type Envelope struct {
	EventID    string
	EventType  string
	Stream     string
	Payload    any
	OccurredAt time.Time
	Sequence   int
}

func (e Envelope) ID() string { return e.EventID }
func (e Envelope) Type() string { return e.EventType }
func (e Envelope) StreamID() string { return e.Stream }
func (e Envelope) Data() any { return e.Payload }
func (e Envelope) Timestamp() time.Time { return e.OccurredAt }
func (e Envelope) Version() int { return e.Sequence }

// NewEvent wraps a payload for the given entry stream. The store assigns the
// sequence number when the event is appended.
func NewEvent(eventType, streamID string, payload any) Event {
	return Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		Stream:     streamID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}
