package widget

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"leadchat-backend/internal/leads"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, KindNone, KindOf(nil))
	require.Equal(t, KindValidation, KindOf(leads.ErrInvalidEmail))
	require.Equal(t, KindValidation, KindOf(ErrEmptyMessage))
	require.Equal(t, KindValidation, KindOf(ErrRequestInFlight))
	require.Equal(t, KindTransport, KindOf(&RelayError{Kind: RelayUnreachable, Status: 502}))
	require.Equal(t, KindMalformedResponse, KindOf(fmt.Errorf("send: %w", &RelayError{Kind: RelayMalformedResponse})))
	require.Equal(t, KindUpstreamMisconfigured, KindOf(fmt.Errorf("start: %w", ErrUpstreamMisconfigured)))
	require.Equal(t, KindTransport, KindOf(errors.New("boom")))
}

func TestRejectedTransitionsShareSentinel(t *testing.T) {
	for _, err := range []error{ErrWidgetClosed, ErrRequestInFlight, ErrLeadFormHidden} {
		require.ErrorIs(t, err, ErrInvalidTransition)
	}
	require.NotErrorIs(t, ErrEmptyMessage, ErrInvalidTransition)
}

func TestRelayError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := &RelayError{Kind: RelayUnreachable, Err: cause}
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "UNREACHABLE")
}
