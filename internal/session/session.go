// Package session runs one chat conversation with the companion and, on
// close, feeds it through the analysis and persistence pipeline: analyze
// transcript, merge into today's journal entry, append a vibe record.
package session

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pocketkitti/companion/internal/analyzer"
	"github.com/pocketkitti/companion/internal/journal"
	"github.com/pocketkitti/companion/internal/observe"
	"github.com/pocketkitti/companion/internal/safety"
	"github.com/pocketkitti/companion/internal/store"
	"github.com/pocketkitti/companion/internal/vibe"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderPet  Sender = "pet"
)

// ChatMessage is one turn of the conversation.
type ChatMessage struct {
	ID     string
	Sender Sender
	Text   string
}

// DefaultJournalContent is saved when the analysis produced no snippet.
const DefaultJournalContent = "Recorded a session today."

// Session accumulates chat turns and drives the close pipeline. It is
// not safe for concurrent use: like the stores underneath it, one
// conversation is one logical thread.
type Session struct {
	analyzer *analyzer.Analyzer
	journal  *journal.Store
	vibes    *vibe.Store
	guard    *safety.Guard
	backend  store.Backend
	obs      *observe.Observer
	bus      *EventBus
	now      func() time.Time

	messages []ChatMessage
}

type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithObserver(obs *observe.Observer) Option {
	return func(s *Session) { s.obs = obs }
}

func WithGuard(g *safety.Guard) Option {
	return func(s *Session) { s.guard = g }
}

func WithEventBus(bus *EventBus) Option {
	return func(s *Session) { s.bus = bus }
}

func New(a *analyzer.Analyzer, j *journal.Store, v *vibe.Store, backend store.Backend, opts ...Option) *Session {
	s := &Session{
		analyzer: a,
		journal:  j,
		vibes:    v,
		guard:    safety.New(safety.DefaultPolicy),
		backend:  backend,
		obs:      observe.NewNop(),
		bus:      NewEventBus(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bus exposes the session's event bus for UI subscriptions.
func (s *Session) Bus() *EventBus {
	return s.bus
}

// Messages returns the conversation so far.
func (s *Session) Messages() []ChatMessage {
	return s.messages
}

// Send records the user's message, asks the companion for a reply, and
// appends both to the transcript. Crisis language is flagged on the bus
// but never blocks the turn; the persona's crisis directive carries the
// actual response.
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	if v := s.guard.CheckMessage(text); v != nil {
		s.obs.Log().Warn().Str("rule", v.Rule).Msg("crisis language detected in session")
		s.bus.Publish(EventCrisisDetected, map[string]interface{}{"rule": v.Rule})
	}

	now := s.now()
	s.messages = append(s.messages, ChatMessage{
		ID:     strconv.FormatInt(now.UnixMilli(), 10),
		Sender: SenderUser,
		Text:   text,
	})
	s.bus.Publish(EventMessageSent, map[string]interface{}{"text": text})

	reply, err := s.analyzer.CompanionReply(ctx, text, s.contextString())
	if err != nil {
		s.bus.Publish(EventSessionError, map[string]interface{}{"error": err.Error()})
		return "", err
	}

	s.messages = append(s.messages, ChatMessage{
		ID:     strconv.FormatInt(now.UnixMilli()+1, 10),
		Sender: SenderPet,
		Text:   reply,
	})
	s.bus.Publish(EventReplyReceived, map[string]interface{}{"text": reply})

	s.touchLastMessageTime(ctx)
	return reply, nil
}

// Close analyzes the conversation and persists the result. Sessions that
// never got going are skipped. The journal save and the vibe save are two
// independent writes with no shared transaction: a failure between them
// leaves the two documents inconsistent, and the caller sees the error
// from whichever write failed first.
func (s *Session) Close(ctx context.Context) (*analyzer.Mood, error) {
	if !s.guard.ShouldAnalyze(len(s.messages)) {
		s.obs.Log().Info().Int("messages", len(s.messages)).Msg("session too short to analyze, skipping")
		return nil, nil
	}

	ctx, span := s.obs.StartSpan(ctx, "session.Close")
	defer span.End()

	s.bus.Publish(EventAnalysisStart, nil)
	mood := s.analyzer.AnalyzeSession(ctx, s.Transcript())
	s.bus.Publish(EventAnalysisComplete, map[string]interface{}{"score": mood.Score, "label": mood.Label})

	content := mood.JournalSnippet
	if content == "" {
		content = DefaultJournalContent
	}

	if err := s.journal.SaveEntry(ctx, content, mood.Score, mood.Label); err != nil {
		s.bus.Publish(EventSessionError, map[string]interface{}{"error": err.Error()})
		return &mood, err
	}
	s.bus.Publish(EventJournalSaved, nil)

	if _, err := s.vibes.SaveRecord(ctx, mood.Score, mood.Label, mood.Summary); err != nil {
		s.bus.Publish(EventSessionError, map[string]interface{}{"error": err.Error()})
		return &mood, err
	}
	s.bus.Publish(EventVibeSaved, nil)

	return &mood, nil
}

// Transcript flattens the most recent turns for analysis, one
// "sender: text" line per turn.
func (s *Session) Transcript() string {
	window := s.guard.Policy().AnalysisTurns
	msgs := s.messages
	if len(msgs) > window {
		msgs = msgs[len(msgs)-window:]
	}

	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, string(m.Sender)+": "+m.Text)
	}
	return strings.Join(lines, "\n")
}

// contextString renders the short rolling window the companion sees on
// each turn, speaker-tagged for the prompt.
func (s *Session) contextString() string {
	window := s.guard.Policy().ContextTurns
	msgs := s.messages
	if len(msgs) > window {
		msgs = msgs[len(msgs)-window:]
	}

	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		speaker := "Pet"
		if m.Sender == SenderUser {
			speaker = "User"
		}
		lines = append(lines, speaker+": "+m.Text)
	}
	return strings.Join(lines, "\n")
}

// touchLastMessageTime records when the user last talked to the pet. The
// home screen uses it to decide how needy the pet should look.
func (s *Session) touchLastMessageTime(ctx context.Context) {
	stamp := strconv.FormatInt(s.now().UnixMilli(), 10)
	if err := s.backend.Set(ctx, store.KeyLastMessageTime, []byte(stamp)); err != nil {
		s.obs.Log().Warn().Err(err).Msg("failed to record last message time")
	}
}
