package provider

import (
	"context"
)

// StubProvider is a canned provider for tests and offline demo mode. It
// pops responses off a queue; once drained it keeps returning the last
// default reply. Set Err to make every call fail.
type StubProvider struct {
	Responses []Response
	Err       error
}

func NewStubProvider() *StubProvider {
	return &StubProvider{
		Responses: []Response{
			{
				Content: "Hey hey! ฅ^•ﻌ•^ฅ I'm all ears. What's on your mind today?",
				Usage:   Usage{PromptTokens: 90, CompletionTokens: 18, TotalTokens: 108},
			},
			{
				Content: "That sounds heavy. Let's sit with it together for a second. ☁️",
				Usage:   Usage{PromptTokens: 120, CompletionTokens: 20, TotalTokens: 140},
			},
			{
				Content: "Tiny steps still count as steps. Proud of you! 🐾",
				Usage:   Usage{PromptTokens: 150, CompletionTokens: 16, TotalTokens: 166},
			},
			{
				Content: `{"score": 62, "label": "Good Day", "summary": "You worked through some stress and ended on a hopeful note.", "journal_snippet": "Today was bumpy but I talked it out and feel lighter."}`,
				Usage:   Usage{PromptTokens: 200, CompletionTokens: 60, TotalTokens: 260},
			},
		},
	}
}

func (m *StubProvider) Chat(ctx context.Context, messages []Message) (*Response, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if len(m.Responses) == 0 {
		return &Response{Content: "I'm right here with you. ✨", Usage: Usage{}}, nil
	}

	resp := m.Responses[0]
	m.Responses = m.Responses[1:]
	return &resp, nil
}

func (m *StubProvider) Name() string {
	return "stub"
}
