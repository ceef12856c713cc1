package completion

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog/log"

	"leadchat-backend/internal/config"
	"leadchat-backend/internal/playlist"
)

// New selects the provider named by cfg. Demo mode always wins.
func New(cfg config.Config) (Provider, error) {
	if cfg.Demo {
		return NewDemoProvider(playlist.New()), nil
	}
	spec, err := LoadPromptSpec(cfg.PromptFile)
	switch {
	case errors.Is(err, fs.ErrNotExist) && cfg.PromptFile == config.DefaultPromptFile:
		log.Warn().Str("path", cfg.PromptFile).Msg("prompt spec not found, using built-in prompt")
		spec = DefaultPromptSpec()
	case err != nil:
		return nil, err
	}
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		return NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel, spec)
	case config.ProviderOpenAI:
		return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel, spec), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}
}
