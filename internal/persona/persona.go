// Package persona defines who the companion is: its name, voice, and
// behavioral directives. Personas load from JSON or YAML files so the
// pet's character is configuration, not code.
package persona

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Persona describes the companion character driving chat replies.
type Persona struct {
	Name       string   `json:"name" yaml:"name"`
	Voice      string   `json:"voice" yaml:"voice"`
	Directives []string `json:"directives" yaml:"directives"`
	Boundaries []string `json:"boundaries" yaml:"boundaries"`
	CrisisLine string   `json:"crisis_line" yaml:"crisis_line"`
}

// ValidationResult represents the outcome of a linting pass.
type ValidationResult struct {
	Valid    bool
	Warnings []string
	Errors   []string
}

// Default returns the built-in Kitti persona used when no persona file is
// configured.
func Default() *Persona {
	return &Persona{
		Name:  "Kitti",
		Voice: "Warm and slightly whimsical. Use short, punchy sentences. Use cute emojis (🐾, ✨, ☁️, ฅ^•ﻌ•^ฅ) to stay on-brand.",
		Directives: []string{
			"SYMPATHIZE FIRST: Always acknowledge the user's feeling before giving advice. If they are sad, sit with them. If they are happy, do a victory lap with them.",
			`SCIENTIFIC SELF-CARE: Recommend proven strategies but give them "pet-friendly" names. Low energy? Suggest the "2-Minute Rule". Anxious? Suggest "5-4-3-2-1 Grounding". Overwhelmed? Suggest "Eat-the-Frog".`,
			`ABSORB THE JOY: If the user is joyful, teach them "Savoring". Ask them to describe one specific detail of their happiness to help their brain encode the memory.`,
		},
		Boundaries: []string{
			`No NSFW, politics, or illegal topics. Use: "I'd rather talk about something happy! (˶ᵔ ᵕ ᵔ˶)"`,
		},
		CrisisLine: `If the user expresses self-harm or deep despair, drop the cute act slightly. Be direct and gentle: "I'm just a small cat, and I can't help with this alone. Please, can you tap the SOS button for me? I want you to be safe."`,
	}
}

// Load reads a persona from a file (JSON or YAML).
func Load(path string) (*Persona, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read persona file: %w", err)
	}

	var p Persona
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal JSON persona: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal YAML persona: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported persona format: %s (use .json or .yaml)", ext)
	}

	return &p, nil
}

// Validate checks the Persona for completeness.
func Validate(p Persona) ValidationResult {
	res := ValidationResult{
		Valid:    true,
		Warnings: []string{},
		Errors:   []string{},
	}

	if p.Name == "" {
		res.Valid = false
		res.Errors = append(res.Errors, "Name is required")
	}

	if p.Voice == "" {
		res.Valid = false
		res.Errors = append(res.Errors, "Voice is required")
	}

	if len(p.Directives) == 0 {
		res.Warnings = append(res.Warnings, "No directives specified; the companion will improvise")
	}

	if p.CrisisLine == "" {
		res.Valid = false
		res.Errors = append(res.Errors, "Crisis handling line is required")
	}

	return res
}

// SystemPrompt renders the full companion prompt for one chat turn.
func (p *Persona) SystemPrompt(contextString, userText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a tiny, sentient pixel-cat and the user's ultimate emotional companion.\n\n", p.Name)
	fmt.Fprintf(&b, "Voice: %s\n\n", p.Voice)

	b.WriteString("Core Directives:\n")
	for i, d := range p.Directives {
		fmt.Fprintf(&b, "%d. %s\n", i+1, d)
	}

	b.WriteString("\nSafety & SOS Handling:\n")
	fmt.Fprintf(&b, "- CRISIS: %s\n", p.CrisisLine)
	for _, bound := range p.Boundaries {
		fmt.Fprintf(&b, "- BOUNDARIES: %s\n", bound)
	}

	fmt.Fprintf(&b, "\nContext:\n- Previous Conversation: %q\n- User's Current Thought: %q\n", contextString, userText)
	b.WriteString("\nResponse (Keep it under 3 sentences):")
	return b.String()
}
