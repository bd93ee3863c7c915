package vibe

import (
	"context"
	"testing"
	"time"

	"github.com/pocketkitti/companion/internal/store"
)

// steppingClock returns a distinct, increasing time on every call so that
// sequential records get unique ids.
func steppingClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestSaveRecordOrdering(t *testing.T) {
	s := New(store.NewMemoryBackend(), WithClock(steppingClock(time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC))))
	ctx := context.Background()

	r1, err := s.SaveRecord(ctx, 40, "Average Day", "a bit flat")
	if err != nil {
		t.Fatalf("SaveRecord failed: %v", err)
	}
	r2, _ := s.SaveRecord(ctx, 70, "Good Day", "picking up")
	r3, _ := s.SaveRecord(ctx, 90, "Nice Day", "great evening")

	history := s.History(ctx)
	if len(history) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(history))
	}
	if history[0].ID != r3.ID || history[1].ID != r2.ID || history[2].ID != r1.ID {
		t.Errorf("Expected newest-first [r3, r2, r1], got [%s, %s, %s]",
			history[0].ID, history[1].ID, history[2].ID)
	}

	if r1.ID == "" || r1.Timestamp == 0 {
		t.Errorf("Expected synthesized id and timestamp, got %+v", r1)
	}
}

func TestSameDayRecordsAreNeverMerged(t *testing.T) {
	s := New(store.NewMemoryBackend(), WithClock(steppingClock(time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC))))
	ctx := context.Background()

	s.SaveRecord(ctx, 50, "Average Day", "session one")
	s.SaveRecord(ctx, 50, "Average Day", "session two")

	if got := len(s.History(ctx)); got != 2 {
		t.Errorf("Expected 2 separate records for same-day sessions, got %d", got)
	}
}

func TestWeeklyStats(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("EmptyHistory", func(t *testing.T) {
		s := New(store.NewMemoryBackend(), WithClock(func() time.Time { return now }))
		stats := s.WeeklyStats(ctx)
		if stats.Average != 0 {
			t.Errorf("Expected average 0, got %d", stats.Average)
		}
		if len(stats.Trend) != 0 {
			t.Errorf("Expected empty trend, got %v", stats.Trend)
		}
	})

	t.Run("WindowAndTrend", func(t *testing.T) {
		backend := store.NewMemoryBackend()
		ctx := context.Background()

		// 10 records, one per day going back 10 days. Saved oldest
		// first so history ends up newest-first.
		for i := 9; i >= 0; i-- {
			day := now.AddDate(0, 0, -i)
			s := New(backend, WithClock(func() time.Time { return day }))
			if _, err := s.SaveRecord(ctx, 10*(10-i), "Good Day", "day"); err != nil {
				t.Fatalf("SaveRecord failed: %v", err)
			}
		}

		s := New(backend, WithClock(func() time.Time { return now }))
		stats := s.WeeklyStats(ctx)

		// Days 0..6 back qualify (timestamps strictly inside the 7x24h
		// window): scores 100, 90, 80, 70, 60, 50, 40 -> mean 70.
		if stats.Average != 70 {
			t.Errorf("Expected average 70 over the weekly window, got %d", stats.Average)
		}

		if len(stats.Trend) > 7 {
			t.Fatalf("Trend must have at most 7 points, got %d", len(stats.Trend))
		}
		// Oldest to newest
		want := []int{40, 50, 60, 70, 80, 90, 100}
		for i, v := range want {
			if stats.Trend[i] != v {
				t.Errorf("Trend[%d]: expected %d, got %d (full: %v)", i, v, stats.Trend[i], stats.Trend)
				break
			}
		}
	})

	t.Run("AverageUsesAllQualifyingTrendOnlySeven", func(t *testing.T) {
		backend := store.NewMemoryBackend()
		ctx := context.Background()

		// 8 records inside the window, a few hours apart
		for i := 8; i >= 1; i-- {
			ts := now.Add(-time.Duration(i) * 6 * time.Hour)
			s := New(backend, WithClock(func() time.Time { return ts }))
			s.SaveRecord(ctx, i*10, "Good Day", "s")
		}

		s := New(backend, WithClock(func() time.Time { return now }))
		stats := s.WeeklyStats(ctx)

		// All 8 contribute to the average: (10+...+80)/8 = 45
		if stats.Average != 45 {
			t.Errorf("Expected average 45, got %d", stats.Average)
		}
		// Trend takes the 7 most recent (scores 70..10) then reverses
		if len(stats.Trend) != 7 {
			t.Fatalf("Expected trend length 7, got %d", len(stats.Trend))
		}
		if stats.Trend[0] != 70 || stats.Trend[6] != 10 {
			t.Errorf("Expected trend from 70 down to 10 reversed to oldest-first, got %v", stats.Trend)
		}
	})
}

func TestHistoryTolerance(t *testing.T) {
	ctx := context.Background()

	backend := store.NewMemoryBackend()
	backend.Set(ctx, store.KeyVibeHistory, []byte("no json here"))

	s := New(backend)
	if got := s.History(ctx); len(got) != 0 {
		t.Errorf("Expected empty history for corrupt document, got %d", len(got))
	}
}

func TestLastWriterWinsHazard(t *testing.T) {
	// Two saves computed from the same snapshot: the second persisted
	// write discards the first's insertion. The store offers no
	// compare-and-swap; this documents accepted behavior.
	backend := store.NewMemoryBackend()
	ctx := context.Background()

	clock := steppingClock(time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC))
	a := New(backend, WithClock(clock))
	b := New(backend, WithClock(clock))

	// Both read empty history before either writes: simulate by seeding
	// each store's write from the shared (empty) document in turn after
	// capturing the pre-state.
	a.SaveRecord(ctx, 10, "Poor Day", "first writer")

	// Writer b mimics having read before a's write landed.
	backend.Set(ctx, store.KeyVibeHistory, []byte(`[]`))
	b.SaveRecord(ctx, 90, "Nice Day", "second writer")

	history := b.History(ctx)
	if len(history) != 1 {
		t.Fatalf("Expected last-writer-wins to leave 1 record, got %d", len(history))
	}
	if history[0].Summary != "second writer" {
		t.Errorf("Expected the second write to win, got %q", history[0].Summary)
	}
}
