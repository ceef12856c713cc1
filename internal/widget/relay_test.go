package widget

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leadchat-backend/internal/playlist"
	"leadchat-backend/internal/types"
)

func relayServer(t *testing.T, status int, body string, seen *types.ChatRequest) *HTTPRelay {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewHTTPRelay(srv.URL+"/", srv.Client())
}

func TestHTTPRelay_StringMessage(t *testing.T) {
	var seen types.ChatRequest
	r := relayServer(t, http.StatusOK, `{"message":"Hi! How can I help?","sessionId":"session_1"}`, &seen)

	reply, err := r.Send(context.Background(), "session_1", "hello")
	require.NoError(t, err)
	require.Equal(t, "Hi! How can I help?", reply)
	require.Equal(t, types.ChatRequest{Prompt: "hello", SessionID: "session_1"}, seen)
}

func TestHTTPRelay_ArrayMessageJoined(t *testing.T) {
	r := relayServer(t, http.StatusOK, `{"message":[{"text":"Hello"},{"text":"there"}]}`, nil)
	reply, err := r.Send(context.Background(), "s", "hi")
	require.NoError(t, err)
	require.Equal(t, "Hello there", reply)
}

func TestHTTPRelay_Failures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   RelayErrorKind
	}{
		{"server error", http.StatusInternalServerError, `{"error":"An error occurred"}`, RelayUnreachable},
		{"bad request", http.StatusBadRequest, `{"error":"Prompt is required"}`, RelayUnreachable},
		{"not json", http.StatusOK, `<html>`, RelayMalformedResponse},
		{"wrong shape", http.StatusOK, `{"message":{"text":"x"}}`, RelayMalformedResponse},
		{"empty message", http.StatusOK, `{"message":""}`, RelayMalformedResponse},
		{"missing message", http.StatusOK, `{}`, RelayMalformedResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := relayServer(t, tc.status, tc.body, nil)
			_, err := r.Send(context.Background(), "s", "hi")
			var rerr *RelayError
			require.True(t, errors.As(err, &rerr))
			require.Equal(t, tc.kind, rerr.Kind)
			if tc.kind == RelayUnreachable {
				require.Equal(t, tc.status, rerr.Status)
			}
		})
	}
}

func TestHTTPRelay_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPRelay(url, nil).Send(context.Background(), "s", "hi")
	var rerr *RelayError
	require.True(t, errors.As(err, &rerr))
	require.Equal(t, RelayUnreachable, rerr.Kind)
	require.Equal(t, KindTransport, KindOf(err))
}

func TestDemoRelay_PlaysScriptInOrder(t *testing.T) {
	r := NewDemoRelay(playlist.New("one", "two"), 0)
	for _, want := range []string{"one", "two", "one"} {
		got, err := r.Send(context.Background(), "s", "anything")
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestDemoRelay_DelayHonoursContext(t *testing.T) {
	r := NewDemoRelay(nil, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Send(ctx, "s", "hi")
	require.ErrorIs(t, err, context.Canceled)
}

func TestHTTPRelay_OversizedResponseIsMalformed(t *testing.T) {
	body := `{"message":"` + strings.Repeat("a", maxResponseBytes) + `"}`
	r := relayServer(t, http.StatusOK, body, nil)

	_, err := r.Send(context.Background(), "s", "hi")
	var rerr *RelayError
	require.True(t, errors.As(err, &rerr))
	require.Equal(t, RelayMalformedResponse, rerr.Kind)
}
