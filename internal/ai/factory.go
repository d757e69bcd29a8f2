package ai

import (
	"log"

	"github.com/LEOK66/Modo-sub000/internal/config"
)

// NewProviderFromConfig picks the provider implementation by AI_MODE.
func NewProviderFromConfig(cfg *config.Config) Provider {
	switch cfg.AIMode {
	case "openai":
		return NewOpenAIProvider(cfg)
	default:
		log.Println("AI provider: mock (demo mode)")
		return NewMockProvider()
	}
}
