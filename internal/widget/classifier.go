package widget

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultContactPhrases are the solicitation phrases the hosted widget shipped with.
var DefaultContactPhrases = []string{
	"email address",
	"contact information",
	"contact details",
	"your email",
	"your name",
	"your phone",
	"phone number",
	"contact you",
	"reach you",
	"provide your",
	"call you",
}

// Classifier decides whether a bot reply is asking for contact details. It is
// a substring heuristic; misses and false alarms are expected.
type Classifier struct {
	phrases []string
}

// NewClassifier lowercases and keeps the non-blank phrases. With none left it
// uses DefaultContactPhrases.
func NewClassifier(phrases ...string) *Classifier {
	c := &Classifier{}
	for _, p := range phrases {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			c.phrases = append(c.phrases, p)
		}
	}
	if len(c.phrases) == 0 {
		for _, p := range DefaultContactPhrases {
			c.phrases = append(c.phrases, strings.ToLower(p))
		}
	}
	return c
}

type phraseFile struct {
	Phrases []string `yaml:"phrases"`
}

// LoadClassifier reads a yaml phrase list. An empty path returns the default classifier.
func LoadClassifier(path string) (*Classifier, error) {
	if strings.TrimSpace(path) == "" {
		return NewClassifier(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lead phrases: %w", err)
	}
	var f phraseFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse lead phrases %s: %w", path, err)
	}
	return NewClassifier(f.Phrases...), nil
}

func (c *Classifier) Phrases() []string {
	return append([]string(nil), c.phrases...)
}

func (c *Classifier) ShouldPromptForContact(botText string) bool {
	text := strings.ToLower(botText)
	for _, p := range c.phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

var defaultClassifier = NewClassifier()

// ShouldPromptForContact applies the default phrase list.
func ShouldPromptForContact(botText string) bool {
	return defaultClassifier.ShouldPromptForContact(botText)
}
