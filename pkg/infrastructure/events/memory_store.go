package events

import (
	"sync"

	"go.uber.org/zap"
)

// DefaultRetention is the number of events a long-running server keeps for replay
const DefaultRetention = 1024

// Option configures an InMemoryEventStore
type Option func(*InMemoryEventStore)

// WithRetention keeps only the most recent max events. Older events are
// evicted from both the global log and their entry stream. Zero or less
// keeps everything.
func WithRetention(max int) Option {
	return func(s *InMemoryEventStore) {
		s.retention = max
	}
}

// InMemoryEventStore keeps entry streams in memory and dispatches appended
// events to subscribers asynchronously.
type InMemoryEventStore struct {
	streams     map[string][]Event
	subscribers map[string][]EventHandler
	mutex       sync.RWMutex
	allEvents   []Event
	// evicted counts events dropped from the front of allEvents, so positions
	// passed to ReadAllEvents stay absolute.
	evicted   int
	retention int
	logger    *zap.Logger
	inflight  sync.WaitGroup
}

func NewInMemoryEventStore(logger *zap.Logger, opts ...Option) *InMemoryEventStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &InMemoryEventStore{
		streams:     make(map[string][]Event),
		subscribers: make(map[string][]EventHandler),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ EventStore = (*InMemoryEventStore)(nil)

// AppendEvent assigns the next stream version and notifies subscribers.
// Versions restart at 1 for a stream whose history has been fully evicted.
func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stream := s.streams[streamID]
	sequence := 1
	if n := len(stream); n > 0 {
		sequence = stream[n-1].Version() + 1
	}

	stored := Envelope{
		EventID:    event.ID(),
		EventType:  event.Type(),
		Stream:     streamID,
		Payload:    event.Data(),
		OccurredAt: event.Timestamp(),
		Sequence:   sequence,
	}

	s.streams[streamID] = append(stream, stored)
	s.allEvents = append(s.allEvents, stored)
	s.evict()

	s.notifySubscribers(stored)

	return nil
}

// evict drops the oldest events beyond the retention limit. Stream order
// matches global order, so the oldest global event is the head of its stream.
func (s *InMemoryEventStore) evict() {
	if s.retention <= 0 {
		return
	}
	for len(s.allEvents) > s.retention {
		oldest := s.allEvents[0]
		s.allEvents[0] = nil
		s.allEvents = s.allEvents[1:]
		s.evicted++

		stream := s.streams[oldest.StreamID()]
		if len(stream) <= 1 {
			delete(s.streams, oldest.StreamID())
			continue
		}
		stream[0] = nil
		s.streams[oldest.StreamID()] = stream[1:]
	}
}

// ReadEvents returns the retained events of a stream with version >= fromVersion
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events := []Event{}
	for _, event := range s.streams[streamID] {
		if event.Version() >= fromVersion {
			events = append(events, event)
		}
	}
	return events, nil
}

// ReadAllEvents returns retained events from an absolute position onwards
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	start := fromPosition - s.evicted
	if start < 0 {
		start = 0
	}
	if start >= len(s.allEvents) {
		return []Event{}, nil
	}

	return append([]Event(nil), s.allEvents[start:]...), nil
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}

	return nil
}

func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for eventType, handlers := range s.subscribers {
		kept := make([]EventHandler, 0, len(handlers))
		for _, h := range handlers {
			if h != handler {
				kept = append(kept, h)
			}
		}
		s.subscribers[eventType] = kept
	}

	return nil
}

// Drain blocks until every handler started so far has returned
func (s *InMemoryEventStore) Drain() {
	s.inflight.Wait()
}

// notifySubscribers is called with the store mutex held
func (s *InMemoryEventStore) notifySubscribers(event Event) {
	for _, handler := range s.subscribers[event.Type()] {
		if !handler.CanHandle(event.Type()) {
			continue
		}
		s.inflight.Add(1)
		go func(h EventHandler, e Event) {
			defer s.inflight.Done()
			if err := h.Handle(e); err != nil {
				s.logger.Warn("event handler failed",
					zap.String("event_type", e.Type()),
					zap.String("stream", e.StreamID()),
					zap.Error(err))
			}
		}(handler, event)
	}
}
