package journal

import (
	"context"
	"testing"
	"time"

	"github.com/pocketkitti/companion/internal/store"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestDayKey(t *testing.T) {
	// 23:30 UTC-5 on Aug 30 is already Aug 31 in UTC
	loc := time.FixedZone("UTC-5", -5*60*60)
	local := time.Date(2026, 8, 30, 23, 30, 0, 0, loc)
	if got := DayKey(local); got != "2026-08-31" {
		t.Errorf("Expected UTC day key '2026-08-31', got '%s'", got)
	}
}

func TestSaveEntry(t *testing.T) {
	today := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	t.Run("CreatesEntryOnFirstSave", func(t *testing.T) {
		s := New(store.NewMemoryBackend(), WithClock(fixedClock(today)))
		ctx := context.Background()

		if err := s.SaveEntry(ctx, "Felt good after the walk.", 80, "Nice Day"); err != nil {
			t.Fatalf("SaveEntry failed: %v", err)
		}

		all := s.GetAll(ctx)
		if len(all) != 1 {
			t.Fatalf("Expected 1 entry, got %d", len(all))
		}
		e := all[0]
		if e.ID != "2026-08-31" {
			t.Errorf("Expected id '2026-08-31', got '%s'", e.ID)
		}
		if e.Content != "Felt good after the walk." {
			t.Errorf("Unexpected content: %q", e.Content)
		}
		if e.Score != 80 || e.Mood != "Nice Day" {
			t.Errorf("Unexpected score/mood: %d/%s", e.Score, e.Mood)
		}
	})

	t.Run("SameDaySavesMergeIntoOneEntry", func(t *testing.T) {
		s := New(store.NewMemoryBackend(), WithClock(fixedClock(today)))
		ctx := context.Background()

		s.SaveEntry(ctx, "morning", 80, "Good Day")
		s.SaveEntry(ctx, "evening", 40, "Average Day")

		all := s.GetAll(ctx)
		if len(all) != 1 {
			t.Fatalf("Expected exactly 1 entry for the day, got %d", len(all))
		}
		if all[0].ID != "2026-08-31" {
			t.Errorf("Unexpected id '%s'", all[0].ID)
		}
	})

	t.Run("ScoreAveragingIsPairwiseSequential", func(t *testing.T) {
		s := New(store.NewMemoryBackend(), WithClock(fixedClock(today)))
		ctx := context.Background()

		s.SaveEntry(ctx, "t1", 80, "Good Day")
		s.SaveEntry(ctx, "t2", 51, "Good Day")

		// round((80+51)/2) = round(65.5) = 66
		if got := s.GetAll(ctx)[0].Score; got != 66 {
			t.Errorf("Expected score 66 after second save, got %d", got)
		}

		s.SaveEntry(ctx, "t3", 20, "Poor Day")

		// round((66+20)/2) = 43, not the mean of all three (50)
		if got := s.GetAll(ctx)[0].Score; got != 43 {
			t.Errorf("Expected score 43 after third save, got %d", got)
		}
	})

	t.Run("ContentAccumulatesWithSeparator", func(t *testing.T) {
		s := New(store.NewMemoryBackend(), WithClock(fixedClock(today)))
		ctx := context.Background()

		s.SaveEntry(ctx, "t1", 50, "Average Day")
		s.SaveEntry(ctx, "t2", 50, "Average Day")
		s.SaveEntry(ctx, "t3", 50, "Average Day")

		want := "t1\n\nt2\n\nt3"
		if got := s.GetAll(ctx)[0].Content; got != want {
			t.Errorf("Expected content %q, got %q", want, got)
		}
	})

	t.Run("MoodLabelIsOverwrittenNotAccumulated", func(t *testing.T) {
		s := New(store.NewMemoryBackend(), WithClock(fixedClock(today)))
		ctx := context.Background()

		s.SaveEntry(ctx, "t1", 70, "Good Day")
		s.SaveEntry(ctx, "t2", 30, "Poor Day")

		if got := s.GetAll(ctx)[0].Mood; got != "Poor Day" {
			t.Errorf("Expected latest mood 'Poor Day', got '%s'", got)
		}
	})

	t.Run("NewDayCreatesNewEntryAtHead", func(t *testing.T) {
		backend := store.NewMemoryBackend()
		ctx := context.Background()

		s1 := New(backend, WithClock(fixedClock(today)))
		s1.SaveEntry(ctx, "yesterday's note", 60, "Good Day")

		tomorrow := today.Add(24 * time.Hour)
		s2 := New(backend, WithClock(fixedClock(tomorrow)))
		s2.SaveEntry(ctx, "fresh start", 70, "Nice Day")

		all := s2.GetAll(ctx)
		if len(all) != 2 {
			t.Fatalf("Expected 2 entries, got %d", len(all))
		}
		if all[0].ID != "2026-09-01" || all[1].ID != "2026-08-31" {
			t.Errorf("Expected newest-first order, got [%s, %s]", all[0].ID, all[1].ID)
		}
	})
}

func TestTodayEntry(t *testing.T) {
	today := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	backend := store.NewMemoryBackend()
	ctx := context.Background()

	s := New(backend, WithClock(fixedClock(today)))
	if got := s.TodayEntry(ctx); got != nil {
		t.Errorf("Expected nil for empty store, got %+v", got)
	}

	s.SaveEntry(ctx, "note", 55, "Good Day")
	got := s.TodayEntry(ctx)
	if got == nil || got.ID != "2026-08-31" {
		t.Fatalf("Expected today's entry, got %+v", got)
	}

	// Day rollover: yesterday's entry no longer counts as today
	tomorrow := New(backend, WithClock(fixedClock(today.Add(24*time.Hour))))
	if got := tomorrow.TodayEntry(ctx); got != nil {
		t.Errorf("Expected nil after day rollover, got %+v", got)
	}
}

func TestUpdateContent(t *testing.T) {
	today := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("ReplacesContentVerbatim", func(t *testing.T) {
		s := New(store.NewMemoryBackend(), WithClock(fixedClock(today)))
		s.SaveEntry(ctx, "ai generated", 60, "Good Day")

		if err := s.UpdateContent(ctx, "2026-08-31", "hand edited"); err != nil {
			t.Fatalf("UpdateContent failed: %v", err)
		}

		e := s.GetAll(ctx)[0]
		if e.Content != "hand edited" {
			t.Errorf("Expected replaced content, got %q", e.Content)
		}
		if e.Score != 60 || e.Mood != "Good Day" {
			t.Errorf("Score/mood must be untouched, got %d/%s", e.Score, e.Mood)
		}
	})

	// Manual edits never create entries; only SaveEntry has an insert
	// path. This asymmetry is deliberate and load-bearing.
	t.Run("MissingDayKeyIsANoOp", func(t *testing.T) {
		s := New(store.NewMemoryBackend(), WithClock(fixedClock(today)))
		s.SaveEntry(ctx, "only entry", 60, "Good Day")
		before := s.GetAll(ctx)

		if err := s.UpdateContent(ctx, "2020-01-01", "ghost edit"); err != nil {
			t.Fatalf("UpdateContent failed: %v", err)
		}

		after := s.GetAll(ctx)
		if len(after) != len(before) {
			t.Fatalf("List length changed: %d -> %d", len(before), len(after))
		}
		for i := range before {
			if after[i] != before[i] {
				t.Errorf("Entry %d changed: %+v -> %+v", i, before[i], after[i])
			}
		}
	})
}

func TestGetAllTolerance(t *testing.T) {
	ctx := context.Background()

	t.Run("AbsentKey", func(t *testing.T) {
		s := New(store.NewMemoryBackend())
		if got := s.GetAll(ctx); len(got) != 0 {
			t.Errorf("Expected empty list, got %d entries", len(got))
		}
	})

	t.Run("MalformedDocument", func(t *testing.T) {
		backend := store.NewMemoryBackend()
		backend.Set(ctx, store.KeyJournals, []byte("{not json"))

		s := New(backend)
		if got := s.GetAll(ctx); len(got) != 0 {
			t.Errorf("Expected empty list for corrupt document, got %d entries", len(got))
		}
	})
}
