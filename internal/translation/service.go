// Package translation fills missing product locales through an LLM provider.
package translation

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/boutique-lumiere/curator/internal/gemini"
	"github.com/boutique-lumiere/curator/internal/ollama"
	"github.com/boutique-lumiere/curator/internal/openai"
	"github.com/boutique-lumiere/curator/internal/providers"
)

var languages = map[string]string{
	"de": "German",
	"fr": "French",
	"en": "English",
}

// Service translates product names and descriptions. Results are cached for
// the life of the run since feeds repeat the same copy across variants.
type Service struct {
	provider providers.Provider
	config   providers.Config

	mu    sync.Mutex
	cache map[string]string
}

// NewService wraps a provider
func NewService(p providers.Provider, model string, temperature float64) *Service {
	return &Service{
		provider: p,
		config:   providers.Config{Model: model, Temperature: temperature},
		cache:    make(map[string]string),
	}
}

// NewProvider returns the named provider configured from the environment.
// An empty name returns nil: translation is off.
func NewProvider(name string) (providers.Provider, error) {
	switch strings.ToLower(name) {
	case "":
		return nil, nil
	case "gemini":
		return gemini.New(os.Getenv("GEMINI_API_KEY")), nil
	case "openai":
		return openai.New(os.Getenv("OPENAI_API_KEY")), nil
	case "ollama":
		url := os.Getenv("OLLAMA_URL")
		if url == "" {
			url = os.Getenv("OLLAMA_HOST")
		}
		return ollama.New(url), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}

// Translate returns text in the given locale
func (s *Service) Translate(ctx context.Context, text, locale string) (string, error) {
	language, ok := languages[locale]
	if !ok {
		return "", fmt.Errorf("unsupported locale: %s", locale)
	}

	key := locale + "\x00" + text
	s.mu.Lock()
	cached, ok := s.cache[key]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	cfg := s.config
	cfg.Prompt = buildPrompt(text, language)
	out, err := s.provider.Generate(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("failed to translate to %s: %w", language, err)
	}
	out = cleanResponse(out)
	if out == "" {
		return "", fmt.Errorf("empty translation to %s", language)
	}

	s.mu.Lock()
	s.cache[key] = out
	s.mu.Unlock()
	return out, nil
}

func buildPrompt(text, language string) string {
	return fmt.Sprintf(`Translate the following fashion product text into %s.
Keep brand names, model names and sizes unchanged.
Respond with the translation only, without quotes or commentary.

%s`, language, text)
}

// cleanResponse strips the wrapping some models add despite the prompt
func cleanResponse(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}
