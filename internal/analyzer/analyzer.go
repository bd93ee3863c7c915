// Package analyzer turns a chat transcript into a structured mood
// judgment, and renders the companion's chat replies. Both run through
// whichever generative provider is configured.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pocketkitti/companion/internal/observe"
	"github.com/pocketkitti/companion/internal/persona"
	"github.com/pocketkitti/companion/internal/provider"
)

// Mood is the structured result of a session analysis.
type Mood struct {
	Score          int    `json:"score"`
	Label          string `json:"label"`
	Summary        string `json:"summary"`
	JournalSnippet string `json:"journal_snippet"`
}

// Fallback is returned whenever the analysis transport or parsing fails.
// Callers rely on this exact shape to keep the save pipeline alive.
func Fallback() Mood {
	return Mood{
		Score:   50,
		Label:   "error occurred",
		Summary: "an error occurred while analyzing",
	}
}

type Analyzer struct {
	provider provider.Provider
	persona  *persona.Persona
	obs      *observe.Observer
}

type Option func(*Analyzer)

func WithPersona(p *persona.Persona) Option {
	return func(a *Analyzer) { a.persona = p }
}

func WithObserver(obs *observe.Observer) Option {
	return func(a *Analyzer) { a.obs = obs }
}

func New(p provider.Provider, opts ...Option) *Analyzer {
	a := &Analyzer{
		provider: p,
		persona:  persona.Default(),
		obs:      observe.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeSession judges the mood of a flattened transcript. It never
// returns an error: any transport or parse failure degrades to Fallback.
func (a *Analyzer) AnalyzeSession(ctx context.Context, transcript string) Mood {
	ctx, span := a.obs.StartSpan(ctx, "analyzer.AnalyzeSession")
	defer span.End()

	resp, err := a.provider.Chat(ctx, []provider.Message{
		{Role: "user", Content: analysisPrompt(transcript)},
	})
	if err != nil {
		a.obs.Log().Warn().Err(err).Str("provider", a.provider.Name()).Msg("session analysis failed, using fallback mood")
		return Fallback()
	}

	var mood Mood
	if err := json.Unmarshal([]byte(stripFences(resp.Content)), &mood); err != nil {
		a.obs.Log().Warn().Err(err).Msg("analysis output unparseable, using fallback mood")
		return Fallback()
	}

	a.obs.Log().Info().Int("score", mood.Score).Str("label", mood.Label).Msg("session analyzed")
	return mood
}

// CompanionReply produces one chat turn in the companion's voice.
// contextString carries the recent turns; userText is the current one.
func (a *Analyzer) CompanionReply(ctx context.Context, userText, contextString string) (string, error) {
	ctx, span := a.obs.StartSpan(ctx, "analyzer.CompanionReply")
	defer span.End()

	resp, err := a.provider.Chat(ctx, []provider.Message{
		{Role: "user", Content: a.persona.SystemPrompt(contextString, userText)},
	})
	if err != nil {
		return "", fmt.Errorf("companion reply failed: %w", err)
	}
	return resp.Content, nil
}

func analysisPrompt(transcript string) string {
	return fmt.Sprintf(`Analyze the following conversation between a User and an AI Pet.

Conversation History:
%s

Task:
1. "summary": A short, objective summary of the user's mood (e.g., "You were anxious about exams.").
2. "journal_snippet": A first-person diary entry as if you were the user (e.g., "I felt really overwhelmed by exams today, but venting helped.").
3. "score": Rate the user's mood on this scale:
   - 0-35: "Poor Day"
   - 36-50: "Average Day"
   - 51-70: "Good Day"
   - 71-100: "Nice Day"
4. "label": The matching label from the scale above.

Output format (Strict JSON):
{
  "score": 75,
  "label": "Nice Day",
  "summary": "You were charged up with enthusiasm, keep that charm up.",
  "journal_snippet": "I did well in exams today. I feel content."
}`, transcript)
}

// stripFences removes markdown code fences models like to wrap JSON in.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
