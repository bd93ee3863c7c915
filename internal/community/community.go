// Package community holds the anonymous peer-support feed: posts with
// nested replies and a hearts counter, plus the "ghost" reply generator
// that keeps new posts from sitting unanswered.
package community

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"github.com/pocketkitti/companion/internal/observe"
	"github.com/pocketkitti/companion/internal/store"
)

// Reply is a flat response to a post. Replies carry no timestamp and
// cannot be nested or edited.
type Reply struct {
	ID      string `json:"id"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

// Post is one feed item. Hearts only ever increase; there is no unlike.
type Post struct {
	ID        string  `json:"id"`
	Author    string  `json:"author"`
	Tag       string  `json:"tag"`
	Content   string  `json:"content"`
	Hearts    int     `json:"hearts"`
	Replies   []Reply `json:"replies"`
	Timestamp int64   `json:"timestamp"`
}

// Persona constants for locally generated content.
const (
	SelfAuthor  = "Me (Anonymous)"
	GhostAuthor = "Kind Stranger"
	DefaultTag  = "General"
)

// SupportivePhrases is the fixed pool the ghost replier draws from.
var SupportivePhrases = []string{
	"We are with you! ❤️",
	"You are stronger than you think.",
	"Sending virtual hugs! 🫂",
	"I felt this way yesterday too.",
	"Keep going, friend.",
}

// seedPosts is returned whenever nothing has been stored yet, so the feed
// is never empty on first launch.
func seedPosts(now time.Time) []Post {
	return []Post{
		{
			ID:        "1",
			Author:    "Anxious Owl",
			Tag:       "Academic Pressure",
			Content:   "Does anyone else feel like they are failing even when they get an A? The pressure is real.",
			Hearts:    12,
			Replies:   []Reply{},
			Timestamp: now.UnixMilli(),
		},
		{
			ID:        "2",
			Author:    "Quiet Fox",
			Tag:       "Social Anxiety",
			Content:   "I went to the party today but hid in the bathroom. Baby steps?",
			Hearts:    24,
			Replies:   []Reply{},
			Timestamp: now.Add(-100 * time.Second).UnixMilli(),
		},
	}
}

// Store reads and writes the posts document. It has no merge or append
// primitive of its own: callers compose the full desired list and hand it
// to SavePosts.
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
		key:     store.KeyCommunityPosts,
		obs:     observe.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Posts returns the stored feed, or the built-in seed posts when nothing
// has been stored yet or the document fails to parse.
func (s *Store) Posts(ctx context.Context) []Post {
	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		if err != store.ErrNotFound {
			s.obs.Log().Warn().Err(err).Str("key", s.key).Msg("community read failed, falling back to seed posts")
		}
		return seedPosts(s.now())
	}

	var posts []Post
	if err := json.Unmarshal(data, &posts); err != nil {
		s.obs.Log().Warn().Err(err).Str("key", s.key).Msg("community document malformed, falling back to seed posts")
		return seedPosts(s.now())
	}
	return posts
}

// SavePosts overwrites the whole feed with the given list.
func (s *Store) SavePosts(ctx context.Context, posts []Post) error {
	data, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, s.key, data)
}

// GenerateFakeReply picks a supportive phrase at random and stamps it with
// the ghost persona. The postID does not influence the content.
func (s *Store) GenerateFakeReply(postID string) Reply {
	msg := SupportivePhrases[rand.Intn(len(SupportivePhrases))]
	return Reply{
		ID:      strconv.FormatInt(s.now().UnixMilli(), 10),
		Author:  GhostAuthor,
		Content: msg,
	}
}

// Composition helpers for the feed layer. These read-modify-write the
// whole document and share the document-level last-writer-wins property
// with every other mutation.

// AddPost composes a new anonymous post, inserts it at the head of the
// feed, persists, and returns it.
func (s *Store) AddPost(ctx context.Context, content string) (Post, error) {
	now := s.now()
	post := Post{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Author:    SelfAuthor,
		Tag:       DefaultTag,
		Content:   content,
		Hearts:    0,
		Replies:   []Reply{},
		Timestamp: now.UnixMilli(),
	}

	updated := append([]Post{post}, s.Posts(ctx)...)
	if err := s.SavePosts(ctx, updated); err != nil {
		return Post{}, err
	}
	return post, nil
}

// Heart increments the hearts counter on the post with the given id. An
// unknown id leaves the feed unchanged.
func (s *Store) Heart(ctx context.Context, id string) error {
	posts := s.Posts(ctx)
	for i := range posts {
		if posts[i].ID == id {
			posts[i].Hearts++
			break
		}
	}
	return s.SavePosts(ctx, posts)
}

// AppendGhostReply attaches a generated reply to the post with the given
// id and returns the reply. An unknown id leaves the feed unchanged and
// returns a zero Reply.
func (s *Store) AppendGhostReply(ctx context.Context, id string) (Reply, error) {
	posts := s.Posts(ctx)
	for i := range posts {
		if posts[i].ID == id {
			reply := s.GenerateFakeReply(id)
			posts[i].Replies = append(posts[i].Replies, reply)
			return reply, s.SavePosts(ctx, posts)
		}
	}
	return Reply{}, nil
}
