// Package safety enforces the conversational limits of a companion
// session and scans messages for crisis language so the chat layer can
// surface SOS resources instead of a cute reply.
package safety

import (
	"strings"
)

// Policy defines the windows and thresholds for a chat session.
type Policy struct {
	ContextTurns         int      `json:"context_turns"`
	AnalysisTurns        int      `json:"analysis_turns"`
	MinMessagesToAnalyze int      `json:"min_messages_to_analyze"`
	CrisisTerms          []string `json:"crisis_terms"`
}

// DefaultPolicy mirrors the mobile client: chat context carries the last
// 3 turns, analysis sees at most the last 10, and sessions with fewer
// than 2 messages are not analyzed at all.
var DefaultPolicy = Policy{
	ContextTurns:         3,
	AnalysisTurns:        10,
	MinMessagesToAnalyze: 2,
	CrisisTerms: []string{
		"kill myself",
		"end my life",
		"end it all",
		"hurt myself",
		"self-harm",
		"self harm",
		"suicide",
		"don't want to be here anymore",
		"no reason to live",
	},
}

// Violation represents a message that needs intervention rather than a
// normal companion reply.
type Violation struct {
	Rule    string
	Message string
	Fatal   bool
}

// Guard applies the policy.
type Guard struct {
	policy Policy
}

func New(p Policy) *Guard {
	return &Guard{policy: p}
}

// Policy returns the guard's current configuration.
func (g *Guard) Policy() Policy {
	return g.policy
}

// CheckMessage scans a user message for crisis language. A match is not
// fatal to the session; it signals the caller to show SOS resources and
// let the persona's crisis directive take over.
func (g *Guard) CheckMessage(text string) *Violation {
	lowered := strings.ToLower(text)
	for _, term := range g.policy.CrisisTerms {
		if strings.Contains(lowered, term) {
			return &Violation{
				Rule:    "crisis_terms",
				Message: "Message contains crisis language",
				Fatal:   false,
			}
		}
	}
	return nil
}

// ShouldAnalyze reports whether a session with the given message count
// has enough substance to be worth analyzing.
func (g *Guard) ShouldAnalyze(messageCount int) bool {
	return messageCount >= g.policy.MinMessagesToAnalyze
}
