// Package journal maintains the one-entry-per-day diary document. Repeated
// saves on the same calendar day merge into the existing entry: content is
// appended, the score becomes the rounded mean of the stored and incoming
// scores, and the mood label is overwritten with the latest.
package journal

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/pocketkitti/companion/internal/observe"
	"github.com/pocketkitti/companion/internal/store"
)

// Entry is a single day's journal. ID is the day key (YYYY-MM-DD, UTC)
// and doubles as the natural sort key.
type Entry struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Content     string `json:"content"`
	Mood        string `json:"mood"`
	Score       int    `json:"score"`
	LastUpdated int64  `json:"lastUpdated"`
}

// DayKey returns the canonical day key for t.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Store reads and writes the journal document. Every mutation is a whole
// document rewrite against the backend; the store holds no lock across
// the read and the write, so overlapping mutations are last-writer-wins.
type Store struct {
	backend store.Backend
	key     string
	obs     *observe.Observer
	now     func() time.Time
}

type Option func(*Store)

// WithClock overrides the time source. Tests use it to pin "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithObserver attaches a logger for swallowed read/parse failures.
func WithObserver(obs *observe.Observer) Option {
	return func(s *Store) { s.obs = obs }
}

// WithKey overrides the backend key the document is stored under.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func New(backend store.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     store.KeyJournals,
		obs:     observe.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAll returns the full decoded document. An absent key or a document
// that fails to parse is treated as no data and yields an empty list.
func (s *Store) GetAll(ctx context.Context) []Entry {
	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		if err != store.ErrNotFound {
			s.obs.Log().Warn().Err(err).Str("key", s.key).Msg("journal read failed, treating as empty")
		}
		return []Entry{}
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.obs.Log().Warn().Err(err).Str("key", s.key).Msg("journal document malformed, treating as empty")
		return []Entry{}
	}
	return entries
}

// TodayEntry returns today's entry, or nil when none exists yet. Every
// call re-reads and re-scans the document.
func (s *Store) TodayEntry(ctx context.Context) *Entry {
	todayID := DayKey(s.now())
	for _, e := range s.GetAll(ctx) {
		if e.ID == todayID {
			entry := e
			return &entry
		}
	}
	return nil
}

// SaveEntry records an analysis result against today's entry. If one
// already exists it is merged in place; otherwise a new entry is inserted
// at the head of the list.
func (s *Store) SaveEntry(ctx context.Context, summary string, moodScore int, moodLabel string) error {
	now := s.now()
	todayID := DayKey(now)
	all := s.GetAll(ctx)

	existingIndex := -1
	for i, e := range all {
		if e.ID == todayID {
			existingIndex = i
			break
		}
	}

	if existingIndex >= 0 {
		existing := all[existingIndex]
		existing.Content = existing.Content + "\n\n" + summary
		existing.Score = averageScore(existing.Score, moodScore)
		existing.Mood = moodLabel
		existing.LastUpdated = now.UnixMilli()
		all[existingIndex] = existing
	} else {
		entry := Entry{
			ID:          todayID,
			Date:        now.Format("Mon Jan 02 2006"),
			Content:     summary,
			Mood:        moodLabel,
			Score:       moodScore,
			LastUpdated: now.UnixMilli(),
		}
		all = append([]Entry{entry}, all...)
	}

	return s.persist(ctx, all)
}

// UpdateContent replaces the content of the entry stored under id, leaving
// score and mood untouched. A missing id is silently a no-op; unlike
// SaveEntry, manual edits never create entries.
func (s *Store) UpdateContent(ctx context.Context, id, newText string) error {
	all := s.GetAll(ctx)
	for i := range all {
		if all[i].ID == id {
			all[i].Content = newText
			return s.persist(ctx, all)
		}
	}
	return nil
}

func (s *Store) persist(ctx context.Context, entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, s.key, data)
}

// averageScore merges the stored score with an incoming one. The merge is
// pairwise: a third save averages against the already-averaged value, not
// against the full history.
func averageScore(stored, incoming int) int {
	return int(math.Round(float64(stored+incoming) / 2))
}
