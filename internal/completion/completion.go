package completion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var ErrEmptyCompletion = errors.New("completion provider returned no content")

type Message struct {
	Role    string
	Content string
}

type Request struct {
	SessionID string
	// History holds earlier turns of the session, oldest first. It does not
	// include Prompt.
	History []Message
	Prompt  string
}

// Completion is the generated reply, one entry per content block.
type Completion struct {
	Parts []string
}

func (c Completion) Text() string { return strings.Join(c.Parts, " ") }

// Provider generates a reply for one prompt.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (Completion, error)
}

// PromptSpec is the yaml-configurable part of every provider call.
type PromptSpec struct {
	System string `yaml:"system"`
	Style  struct {
		Temperature float32 `yaml:"temperature"`
		MaxTokens   int     `yaml:"max_tokens"`
	} `yaml:"style"`
}

func DefaultPromptSpec() PromptSpec {
	var spec PromptSpec
	spec.Style.Temperature = 0.7
	spec.Style.MaxTokens = 500
	return spec
}

// LoadPromptSpec reads path; an empty path yields DefaultPromptSpec.
// Missing style values keep their defaults.
func LoadPromptSpec(path string) (PromptSpec, error) {
	spec := DefaultPromptSpec()
	if strings.TrimSpace(path) == "" {
		return spec, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return spec, fmt.Errorf("read prompt spec: %w", err)
	}
	var loaded PromptSpec
	if err := yaml.Unmarshal(b, &loaded); err != nil {
		return spec, fmt.Errorf("parse prompt spec %s: %w", path, err)
	}
	spec.System = strings.TrimSpace(loaded.System)
	if loaded.Style.Temperature > 0 {
		spec.Style.Temperature = loaded.Style.Temperature
	}
	if loaded.Style.MaxTokens > 0 {
		spec.Style.MaxTokens = loaded.Style.MaxTokens
	}
	return spec, nil
}

func nonEmptyParts(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
