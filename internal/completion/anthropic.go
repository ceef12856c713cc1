package completion

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
)

type AnthropicProvider struct {
	llm  llms.Model
	spec PromptSpec
}

func NewAnthropicProvider(apiKey, model string, spec PromptSpec) (*AnthropicProvider, error) {
	llm, err := anthropic.New(
		anthropic.WithToken(apiKey),
		anthropic.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create anthropic model: %w", err)
	}
	return NewAnthropicProviderWithModel(llm, spec), nil
}

// NewAnthropicProviderWithModel accepts any langchaingo model; tests pass a fake.
func NewAnthropicProviderWithModel(llm llms.Model, spec PromptSpec) *AnthropicProvider {
	return &AnthropicProvider{llm: llm, spec: spec}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) Complete(ctx context.Context, req Request) (Completion, error) {
	content := make([]llms.MessageContent, 0, len(req.History)+2)
	if p.spec.System != "" {
		content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, p.spec.System))
	}
	for _, m := range req.History {
		typ := llms.ChatMessageTypeHuman
		if m.Role == RoleAssistant {
			typ = llms.ChatMessageTypeAI
		}
		content = append(content, llms.TextParts(typ, m.Content))
	}
	content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt))

	resp, err := p.llm.GenerateContent(ctx, content,
		llms.WithMaxTokens(p.spec.Style.MaxTokens),
		llms.WithTemperature(float64(p.spec.Style.Temperature)),
	)
	if err != nil {
		return Completion{}, err
	}
	if resp == nil {
		return Completion{}, ErrEmptyCompletion
	}
	raw := make([]string, 0, len(resp.Choices))
	for _, c := range resp.Choices {
		if c != nil {
			raw = append(raw, c.Content)
		}
	}
	parts := nonEmptyParts(raw)
	if len(parts) == 0 {
		return Completion{}, ErrEmptyCompletion
	}
	return Completion{Parts: parts}, nil
}
