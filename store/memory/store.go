// memory holds recurring events in process memory. It is the reference
// caller of the recurrence engine: it owns the event metadata the
// engine deliberately does not compute (summary, all-day flag) and
// overlays it on expanded occurrences.
package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/schedkit/librecur/recurrence"
)

// ErrNotFound is returned when an event ID is unknown to the store.
var ErrNotFound = errors.New("event not found")

// Event pairs a recurrence configuration with the metadata the engine
// does not own.
type Event struct {
	ID      string
	Summary string
	AllDay  bool
	Config  recurrence.Config
}

// Occurrence is one expanded occurrence of a stored event. AllDay is
// copied from the event record, not computed by the engine.
type Occurrence struct {
	EventID string
	Summary string
	Start   time.Time
	End     *time.Time
	AllDay  bool
}

// Store implements an in-memory event store backed by the recurrence
// engine. Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	events map[string]*Event
	engine *recurrence.Engine
	logger *slog.Logger
}

// New creates an in-memory store. A nil engine gets the default engine;
// a nil logger gets slog.Default().
func New(engine *recurrence.Engine, logger *slog.Logger) *Store {
	if engine == nil {
		engine = recurrence.NewEngine()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		events: make(map[string]*Event),
		engine: engine,
		logger: logger,
	}
}

// PutEvent stores or replaces an event. An empty ID gets a generated
// UUID. The stored event's ID is returned.
func (s *Store) PutEvent(ctx context.Context, event *Event) string {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	stored := *event
	s.mu.Lock()
	s.events[event.ID] = &stored
	s.mu.Unlock()

	s.logger.Debug("stored event",
		"id", event.ID,
		"type", string(event.Config.Type))
	return event.ID
}

// GetEvent returns a copy of the event with the given ID.
func (s *Store) GetEvent(ctx context.Context, id string) (*Event, error) {
	s.mu.RLock()
	event, ok := s.events[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("get event %q: %w", id, ErrNotFound)
	}
	copied := *event
	return &copied, nil
}

// DeleteEvent removes the event with the given ID.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return fmt.Errorf("delete event %q: %w", id, ErrNotFound)
	}
	delete(s.events, id)
	return nil
}

// ListEvents returns copies of all stored events in unspecified order.
func (s *Store) ListEvents(ctx context.Context) []*Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]*Event, 0, len(s.events))
	for _, event := range s.events {
		copied := *event
		events = append(events, &copied)
	}
	return events
}

// OccurrencesInRange expands every stored event over [rangeStart,
// rangeEnd] and returns the combined occurrences sorted by start time.
// Each occurrence carries the owning event's summary and all-day flag.
func (s *Store) OccurrencesInRange(ctx context.Context, rangeStart, rangeEnd time.Time) []Occurrence {
	s.mu.RLock()
	events := make([]*Event, 0, len(s.events))
	for _, event := range s.events {
		events = append(events, event)
	}
	s.mu.RUnlock()

	var occurrences []Occurrence
	for _, event := range events {
		instances := s.engine.GenerateInstances(event.Config, rangeStart, rangeEnd)
		for _, inst := range instances {
			occ := Occurrence{
				EventID: event.ID,
				Summary: event.Summary,
				Start:   inst.Start,
				AllDay:  event.AllDay,
			}
			if end, ok := inst.End.Get(); ok {
				occ.End = &end
			}
			occurrences = append(occurrences, occ)
		}
	}

	sort.Slice(occurrences, func(i, j int) bool {
		if occurrences[i].Start.Equal(occurrences[j].Start) {
			return occurrences[i].EventID < occurrences[j].EventID
		}
		return occurrences[i].Start.Before(occurrences[j].Start)
	})

	s.logger.Debug("expanded occurrences",
		"events", len(events),
		"occurrences", len(occurrences))
	return occurrences
}

// OccursOnDate reports whether the event with the given ID has an
// occurrence on the calendar day of day.
func (s *Store) OccursOnDate(ctx context.Context, id string, day time.Time) (bool, error) {
	s.mu.RLock()
	event, ok := s.events[id]
	s.mu.RUnlock()

	if !ok {
		return false, fmt.Errorf("check event %q: %w", id, ErrNotFound)
	}
	return s.engine.OccursOnDate(event.Config, day), nil
}
