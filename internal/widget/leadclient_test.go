package widget

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"leadchat-backend/internal/leads"
	"leadchat-backend/internal/types"
)

func TestHTTPLeadClient_Success(t *testing.T) {
	var seen types.LeadRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/lead", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&seen))
		_, _ = w.Write([]byte(`{"success":true,"message":"Lead information saved successfully"}`))
	}))
	defer srv.Close()

	ack, err := NewHTTPLeadClient(srv.URL, srv.Client()).Submit(context.Background(), "session_1",
		leads.Record{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	require.Equal(t, "Lead information saved successfully", ack.Message)
	require.Equal(t, types.LeadRequest{Name: "Ada", Email: "ada@example.com", SessionID: "session_1"}, seen)
}

func TestHTTPLeadClient_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Invalid email format"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPLeadClient(srv.URL, nil).Submit(context.Background(), "s", leads.Record{Name: "Ada", Email: "ada@example.com"})
	var serr *SubmissionError
	require.True(t, errors.As(err, &serr))
	require.Equal(t, http.StatusBadRequest, serr.Status)
	require.Equal(t, "Invalid email format", serr.Message)
	require.Equal(t, KindValidation, KindOf(err))
}

func TestHTTPLeadClient_ServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"An error occurred while saving lead information"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPLeadClient(srv.URL, nil).Submit(context.Background(), "s", leads.Record{Name: "Ada", Email: "ada@example.com"})
	require.Error(t, err)
	require.Equal(t, KindTransport, KindOf(err))
}

func TestHTTPLeadClient_TruncatedBodyKeepsReadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "200")
		_, _ = w.Write([]byte(`{"success":tr`))
	}))
	defer srv.Close()

	_, err := NewHTTPLeadClient(srv.URL, nil).Submit(context.Background(), "s", leads.Record{Name: "Ada", Email: "ada@example.com"})
	var serr *SubmissionError
	require.True(t, errors.As(err, &serr))
	require.Error(t, serr.Err)
	require.Contains(t, err.Error(), "read lead response")
}

func TestHTTPLeadClient_MalformedSuccessBodyKeepsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	_, err := NewHTTPLeadClient(srv.URL, nil).Submit(context.Background(), "s", leads.Record{Name: "Ada", Email: "ada@example.com"})
	var serr *SubmissionError
	require.True(t, errors.As(err, &serr))
	require.Equal(t, http.StatusOK, serr.Status)
	require.Equal(t, "unexpected response", serr.Message)
	var syntaxErr *json.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
}
