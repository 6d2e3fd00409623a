package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/schedkit/librecur/recurrence"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStore_EventLifecycle(t *testing.T) {
	store := New(nil, nil)
	ctx := context.Background()

	// Getting a non-existent event fails with ErrNotFound
	_, err := store.GetEvent(ctx, "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	event := &Event{
		Summary: "Weekly review",
		Config: recurrence.Config{
			Start: date(2024, 3, 1),
			Type:  recurrence.TypeWeekly,
		},
	}
	id := store.PutEvent(ctx, event)
	if id == "" {
		t.Fatal("expected generated ID for event without one")
	}

	got, err := store.GetEvent(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Summary != event.Summary {
		t.Errorf("got summary %q, want %q", got.Summary, event.Summary)
	}

	// Mutating the returned copy must not affect the stored event
	got.Summary = "changed"
	again, _ := store.GetEvent(ctx, id)
	if again.Summary != "Weekly review" {
		t.Error("GetEvent should return a copy, not the stored event")
	}

	events := store.ListEvents(ctx)
	if len(events) != 1 {
		t.Errorf("got %d events, want 1", len(events))
	}

	if err := store.DeleteEvent(ctx, id); err != nil {
		t.Errorf("unexpected error deleting event: %v", err)
	}
	if err := store.DeleteEvent(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestStore_PutEventKeepsExplicitID(t *testing.T) {
	store := New(nil, nil)
	ctx := context.Background()

	event := &Event{
		ID:     "fixed-id",
		Config: recurrence.Config{Start: date(2024, 1, 1), Type: recurrence.TypeNone},
	}
	if id := store.PutEvent(ctx, event); id != "fixed-id" {
		t.Errorf("got ID %q, want fixed-id", id)
	}
}

func TestStore_OccurrencesInRange(t *testing.T) {
	engine := recurrence.NewEngineWithConfig(recurrence.DisabledCacheConfig)
	store := New(engine, nil)
	ctx := context.Background()

	end := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	store.PutEvent(ctx, &Event{
		ID:      "standup",
		Summary: "Standup",
		Config: recurrence.Config{
			Start: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			End:   &end,
			Type:  recurrence.TypeWeekly,
		},
	})
	store.PutEvent(ctx, &Event{
		ID:      "holiday",
		Summary: "Company holiday",
		AllDay:  true,
		Config: recurrence.Config{
			Start: date(2024, 3, 8),
			Type:  recurrence.TypeNone,
		},
	})

	occurrences := store.OccurrencesInRange(ctx, date(2024, 3, 1), date(2024, 3, 16))
	if len(occurrences) != 4 {
		t.Fatalf("got %d occurrences, want 4", len(occurrences))
	}

	// Sorted by start time
	for i := 1; i < len(occurrences); i++ {
		if occurrences[i].Start.Before(occurrences[i-1].Start) {
			t.Error("occurrences not sorted by start time")
		}
	}

	// The all-day flag comes from the event record, not the engine
	for _, occ := range occurrences {
		switch occ.EventID {
		case "holiday":
			if !occ.AllDay {
				t.Error("holiday occurrence should be all-day")
			}
			if occ.End != nil {
				t.Error("holiday has no end time")
			}
		case "standup":
			if occ.AllDay {
				t.Error("standup occurrence should not be all-day")
			}
			if occ.End == nil {
				t.Error("standup occurrence should have an end time")
			} else if occ.End.Sub(occ.Start) != time.Hour {
				t.Errorf("got duration %v, want 1h", occ.End.Sub(occ.Start))
			}
		default:
			t.Errorf("unexpected event ID %q", occ.EventID)
		}
	}
}

func TestStore_OccursOnDate(t *testing.T) {
	store := New(nil, nil)
	ctx := context.Background()

	store.PutEvent(ctx, &Event{
		ID: "rent",
		Config: recurrence.Config{
			Start: date(2024, 1, 31),
			Type:  recurrence.TypeMonthly,
		},
	})

	occurs, err := store.OccursOnDate(ctx, "rent", date(2024, 2, 29))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !occurs {
		t.Error("expected occurrence on clamped Feb 29")
	}

	occurs, err = store.OccursOnDate(ctx, "rent", date(2024, 2, 15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if occurs {
		t.Error("did not expect occurrence mid-month")
	}

	if _, err := store.OccursOnDate(ctx, "nope", date(2024, 1, 1)); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
