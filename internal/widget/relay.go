package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"leadchat-backend/internal/playlist"
	"leadchat-backend/internal/types"
)

// maxResponseBytes caps how much of a relay response is read.
const maxResponseBytes = 1 << 20

// Relay sends one utterance and returns the bot's reply. Callers must not
// invoke it concurrently for the same session.
type Relay interface {
	Send(ctx context.Context, sessionID, text string) (string, error)
}

// HTTPRelay talks to the relay server's /chat endpoint.
type HTTPRelay struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPRelay(baseURL string, hc *http.Client) *HTTPRelay {
	if hc == nil {
		hc = &http.Client{Timeout: 60 * time.Second}
	}
	return &HTTPRelay{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

func (r *HTTPRelay) Send(ctx context.Context, sessionID, text string) (string, error) {
	body, err := json.Marshal(types.ChatRequest{Prompt: text, SessionID: sessionID})
	if err != nil {
		return "", &RelayError{Kind: RelayMalformedResponse, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return "", &RelayError{Kind: RelayUnreachable, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", &RelayError{Kind: RelayUnreachable, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &RelayError{Kind: RelayUnreachable, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &RelayError{Kind: RelayUnreachable, Status: resp.StatusCode}
	}

	var out types.ChatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &RelayError{Kind: RelayMalformedResponse, Err: fmt.Errorf("decode chat response: %w", err)}
	}
	reply := strings.TrimSpace(out.Message.Text())
	if reply == "" {
		return "", &RelayError{Kind: RelayMalformedResponse, Err: fmt.Errorf("empty message")}
	}
	return reply, nil
}

// DemoRelay answers from a fixed playlist without touching the network.
type DemoRelay struct {
	replies *playlist.Playlist
	delay   time.Duration
}

// NewDemoRelay uses the default demo script when p is nil. delay simulates typing.
func NewDemoRelay(p *playlist.Playlist, delay time.Duration) *DemoRelay {
	if p == nil {
		p = playlist.New()
	}
	return &DemoRelay{replies: p, delay: delay}
}

func (r *DemoRelay) Send(ctx context.Context, _ string, _ string) (string, error) {
	if r.delay > 0 {
		t := time.NewTimer(r.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return "", &RelayError{Kind: RelayUnreachable, Err: ctx.Err()}
		case <-t.C:
		}
	}
	return r.replies.Next(), nil
}
