package ai

import (
	"context"
	"fmt"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// ProviderConfig selects and configures one chat backend. BaseURL only applies to openai.
type ProviderConfig struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// NewChatClient builds the configured backend. The returned close func is never nil.
func NewChatClient(ctx context.Context, cfg ProviderConfig) (ChatClient, func() error, error) {
	switch cfg.Provider {
	case ProviderGemini:
		p, err := NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.BaseURL), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown chat provider %q", cfg.Provider)
	}
}
