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

	"github.com/rs/zerolog"

	"leadchat-backend/internal/leads"
	"leadchat-backend/internal/types"
)

// Ack is the relay's confirmation of a stored lead.
type Ack struct {
	Message string
}

// LeadSubmitter delivers a validated record. One call, no retry.
type LeadSubmitter interface {
	Submit(ctx context.Context, sessionID string, rec leads.Record) (Ack, error)
}

type HTTPLeadClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPLeadClient(baseURL string, hc *http.Client) *HTTPLeadClient {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPLeadClient{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

func (c *HTTPLeadClient) Submit(ctx context.Context, sessionID string, rec leads.Record) (Ack, error) {
	body, err := json.Marshal(types.LeadRequest{
		Name:      rec.Name,
		Email:     rec.Email,
		Phone:     rec.Phone,
		SessionID: sessionID,
	})
	if err != nil {
		return Ack{}, &SubmissionError{Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/lead", bytes.NewReader(body))
	if err != nil {
		return Ack{}, &SubmissionError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Ack{}, &SubmissionError{Err: err}
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Ack{}, &SubmissionError{Status: resp.StatusCode, Err: fmt.Errorf("read lead response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e types.ErrorResponse
		if err := json.Unmarshal(raw, &e); err != nil {
			return Ack{}, &SubmissionError{Status: resp.StatusCode, Err: fmt.Errorf("decode lead error: %w", err)}
		}
		return Ack{}, &SubmissionError{Status: resp.StatusCode, Message: e.Error}
	}
	var out types.LeadResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return Ack{}, &SubmissionError{Status: resp.StatusCode, Message: "unexpected response", Err: fmt.Errorf("decode lead response: %w", err)}
	}
	if !out.Success {
		return Ack{}, &SubmissionError{Status: resp.StatusCode, Message: "unexpected response"}
	}
	return Ack{Message: out.Message}, nil
}

// DemoLeadSubmitter accepts every record and only logs it.
type DemoLeadSubmitter struct {
	Logger zerolog.Logger
}

func (d DemoLeadSubmitter) Submit(_ context.Context, sessionID string, rec leads.Record) (Ack, error) {
	d.Logger.Info().Str("session_id", sessionID).Str("name", rec.Name).Msg("demo lead accepted")
	return Ack{Message: "demo"}, nil
}
