package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const maxKeyAttempts = 3

// GeminiProvider talks to the Gemini API. It holds a ring of API keys:
// when a request comes back rate-limited, the provider rotates to the
// next key and retries, up to maxKeyAttempts times.
type GeminiProvider struct {
	mu     sync.Mutex
	keys   []string
	keyIdx int
	client *genai.Client
	model  string
}

func NewGeminiProvider(apiKeys []string, model string) (*GeminiProvider, error) {
	if len(apiKeys) == 0 || apiKeys[0] == "" {
		return nil, errors.New("at least one API key is required")
	}

	if model == "" {
		model = "gemini-2.5-flash"
	}

	p := &GeminiProvider{
		keys:  apiKeys,
		model: model,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

// connect builds a client bound to the current key. The genai client pins
// its key at construction, so rotation means rebuilding the client.
func (p *GeminiProvider) connect() error {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(p.keys[p.keyIdx]))
	if err != nil {
		return fmt.Errorf("failed to create gemini client: %w", err)
	}
	if p.client != nil {
		p.client.Close()
	}
	p.client = client
	return nil
}

func (p *GeminiProvider) rotateKey() error {
	p.keyIdx = (p.keyIdx + 1) % len(p.keys)
	return p.connect()
}

func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) Chat(ctx context.Context, messages []Message) (*Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		resp, err := p.send(ctx, messages)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isRateLimited(err) {
			return nil, err
		}
		if rotErr := p.rotateKey(); rotErr != nil {
			return nil, rotErr
		}
	}
	return nil, fmt.Errorf("gemini rate limited on all keys: %w", lastErr)
}

func (p *GeminiProvider) send(ctx context.Context, messages []Message) (*Response, error) {
	model := p.client.GenerativeModel(p.model)
	cs := model.StartChat()

	if len(messages) > 1 {
		var history []*genai.Content
		for _, m := range messages[:len(messages)-1] {
			role := "user"
			if m.Role == "assistant" {
				role = "model"
			}
			history = append(history, &genai.Content{
				Role:  role,
				Parts: []genai.Part{genai.Text(m.Content)},
			})
		}
		cs.History = history
	}

	lastMsg := messages[len(messages)-1]
	resp, err := cs.SendMessage(ctx, genai.Text(lastMsg.Content))
	if err != nil {
		return nil, fmt.Errorf("gemini completion failed: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates returned")
	}

	var content string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			content += string(text)
		}
	}

	usage := Usage{}
	if resp.UsageMetadata != nil {
		usage = Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	return &Response{
		Content: content,
		Usage:   usage,
	}, nil
}

func isRateLimited(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == 429 {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "quota")
}
