package completion

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	client *openai.Client
	model  string
	spec   PromptSpec
}

func NewOpenAIProvider(apiKey, model string, spec PromptSpec) *OpenAIProvider {
	return NewOpenAIProviderWithClient(openai.NewClient(apiKey), model, spec)
}

func NewOpenAIProviderWithClient(client *openai.Client, model string, spec PromptSpec) *OpenAIProvider {
	return &OpenAIProvider{client: client, model: model, spec: spec}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (Completion, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	if p.spec.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: p.spec.System})
	}
	for _, m := range req.History {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    msgs,
		Temperature: p.spec.Style.Temperature,
		MaxTokens:   p.spec.Style.MaxTokens,
	})
	if err != nil {
		return Completion{}, err
	}
	if len(resp.Choices) == 0 {
		return Completion{}, ErrEmptyCompletion
	}
	parts := nonEmptyParts([]string{resp.Choices[0].Message.Content})
	if len(parts) == 0 {
		return Completion{}, ErrEmptyCompletion
	}
	return Completion{Parts: parts}, nil
}
