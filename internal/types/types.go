package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ChatRequest is the canonical widget -> relay envelope. SessionID is optional;
// the relay falls back to the session cookie or header when it is empty.
type ChatRequest struct {
	Prompt    string `json:"prompt"`
	SessionID string `json:"sessionId,omitempty"`
}

type ChatResponse struct {
	Message   MessageBody `json:"message"`
	SessionID string      `json:"sessionId,omitempty"`
}

type LeadRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

type LeadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// TextPart is one content block of a bot reply.
type TextPart struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
}

// MessageBody is the "message" field of a chat response. On the wire it is
// either a plain string or an array of text parts.
type MessageBody struct {
	Parts []TextPart
}

var ErrInvalidMessageBody = errors.New("message must be a string or an array of text parts")

// NewTextMessage wraps a single string.
func NewTextMessage(text string) MessageBody {
	return MessageBody{Parts: []TextPart{{Type: "text", Text: text}}}
}

// NewPartsMessage builds an array-shaped body, one part per element.
func NewPartsMessage(texts ...string) MessageBody {
	parts := make([]TextPart, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, TextPart{Type: "text", Text: t})
	}
	return MessageBody{Parts: parts}
}

// Text joins every part with a single space.
func (m MessageBody) Text() string {
	texts := make([]string, 0, len(m.Parts))
	for _, p := range m.Parts {
		texts = append(texts, p.Text)
	}
	return strings.Join(texts, " ")
}

func (m MessageBody) MarshalJSON() ([]byte, error) {
	if len(m.Parts) == 1 {
		return json.Marshal(m.Parts[0].Text)
	}
	if m.Parts == nil {
		return []byte(`""`), nil
	}
	return json.Marshal(m.Parts)
}

func (m *MessageBody) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return ErrInvalidMessageBody
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		m.Parts = []TextPart{{Type: "text", Text: s}}
		return nil
	case '[':
		var parts []TextPart
		if err := json.Unmarshal(b, &parts); err != nil {
			return err
		}
		m.Parts = parts
		return nil
	default:
		return ErrInvalidMessageBody
	}
}
