// Package vibe keeps the append-only mood session log. Unlike the
// journal, records are never merged: every analyzed session becomes its
// own record, prepended to the history.
package vibe

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/pocketkitti/companion/internal/observe"
	"github.com/pocketkitti/companion/internal/store"
)

// Record is a single analyzed chat session.
type Record struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Score     int    `json:"score"`
	Label     string `json:"label"`
	Summary   string `json:"summary"`
}

// WeeklyStats summarizes the last seven days of records. Trend runs
// oldest to newest, capped at seven points.
type WeeklyStats struct {
	Average int
	Trend   []int
}

const weekWindow = 7 * 24 * time.Hour

// Store reads and writes the vibe history document. History order is
// strictly newest-first by insertion; insertion order, not timestamp, is
// authoritative. Two overlapping SaveRecord calls both prepend to the
// history they read, so the second write can silently discard the first
// (last-writer-wins at document granularity). Callers are expected to
// save sequentially.
type Store struct {
	backend store.Backend
	key     string
	obs     *observe.Observer
	now     func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithObserver(obs *observe.Observer) Option {
	return func(s *Store) { s.obs = obs }
}

func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func New(backend store.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     store.KeyVibeHistory,
		obs:     observe.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// History returns all records, newest first. Absent or malformed
// documents yield an empty list.
func (s *Store) History(ctx context.Context) []Record {
	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		if err != store.ErrNotFound {
			s.obs.Log().Warn().Err(err).Str("key", s.key).Msg("vibe history read failed, treating as empty")
		}
		return []Record{}
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.obs.Log().Warn().Err(err).Str("key", s.key).Msg("vibe history malformed, treating as empty")
		return []Record{}
	}
	return records
}

// SaveRecord stamps a new record with the current time, prepends it to
// the history, persists the whole list, and returns the stored record.
func (s *Store) SaveRecord(ctx context.Context, score int, label, summary string) (Record, error) {
	now := s.now()
	record := Record{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Timestamp: now.UnixMilli(),
		Score:     score,
		Label:     label,
		Summary:   summary,
	}

	updated := append([]Record{record}, s.History(ctx)...)

	data, err := json.Marshal(updated)
	if err != nil {
		return Record{}, err
	}
	if err := s.backend.Set(ctx, s.key, data); err != nil {
		return Record{}, err
	}
	return record, nil
}

// WeeklyStats computes the rounded mean score over records from the last
// seven days. All qualifying records contribute to the average; the trend
// series uses only the seven most recent of them, reversed so graphs read
// oldest to newest.
func (s *Store) WeeklyStats(ctx context.Context) WeeklyStats {
	history := s.History(ctx)
	cutoff := s.now().Add(-weekWindow).UnixMilli()

	var weekly []Record
	for _, r := range history {
		if r.Timestamp > cutoff {
			weekly = append(weekly, r)
		}
	}
	if len(weekly) == 0 {
		return WeeklyStats{Average: 0, Trend: []int{}}
	}

	total := 0
	for _, r := range weekly {
		total += r.Score
	}

	recent := weekly
	if len(recent) > 7 {
		recent = recent[:7]
	}
	trend := make([]int, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		trend = append(trend, recent[i].Score)
	}

	return WeeklyStats{
		Average: int(math.Round(float64(total) / float64(len(weekly)))),
		Trend:   trend,
	}
}
