package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pocketkitti/companion/internal/observe"
	"github.com/pocketkitti/companion/internal/persona"
	"github.com/pocketkitti/companion/internal/provider"
	"github.com/pocketkitti/companion/internal/store"
)

func newObserver() *observe.Observer {
	if jsonLogs {
		return observe.NewJSON(os.Stdout, verbose)
	}
	return observe.New(os.Stdout, verbose)
}

func openBackend() *store.SQLiteBackend {
	home, _ := os.UserHomeDir()
	dbPath := filepath.Join(home, ".kitti", "kitti.db")

	backend, err := store.NewSQLiteBackend(dbPath)
	if err != nil {
		fmt.Printf("Failed to open companion storage: %v\n", err)
		os.Exit(1)
	}
	return backend
}

func buildProvider(backend *store.SQLiteBackend) (provider.Provider, error) {
	switch providerType {
	case "gemini":
		raw, _ := backend.GetSetting("gemini.api_keys")
		var keys []string
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
		return provider.NewGeminiProvider(keys, modelName)
	case "openai":
		apiKey, _ := backend.GetSetting("openai.api_key")
		baseURL, _ := backend.GetSetting("openai.base_url")
		return provider.NewOpenAIProvider(apiKey, baseURL, modelName)
	case "ollama":
		return provider.NewOllamaProvider(modelName)
	case "stub":
		return provider.NewStubProvider(), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", providerType)
	}
}

func loadPersona() (*persona.Persona, error) {
	if personaPath == "" {
		return persona.Default(), nil
	}

	p, err := persona.Load(personaPath)
	if err != nil {
		return nil, err
	}
	if res := persona.Validate(*p); !res.Valid {
		return nil, fmt.Errorf("invalid persona: %s", strings.Join(res.Errors, ", "))
	}
	return p, nil
}
