package leads

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveSMTPHost(t *testing.T) {
	h, err := ResolveSMTPHost("Gmail", "")
	require.NoError(t, err)
	require.Equal(t, "smtp.gmail.com", h)

	h, err = ResolveSMTPHost("gmail", "mail.internal")
	require.NoError(t, err)
	require.Equal(t, "mail.internal", h)

	_, err = ResolveSMTPHost("carrier-pigeon", "")
	require.ErrorContains(t, err, "EMAIL_SMTP_HOST")

	_, err = ResolveSMTPHost("", "")
	require.Error(t, err)
}

func TestNewMailer_DefaultsPort(t *testing.T) {
	m, err := NewMailer(MailerConfig{Service: "yahoo", Username: "bot@example.com", To: "sales@example.com"})
	require.NoError(t, err)
	require.Equal(t, "smtp.mail.yahoo.com", m.host)
	require.Equal(t, 587, m.port)
}

func TestRenderLeadEmail(t *testing.T) {
	body, err := renderLeadEmail(Captured{
		Record:     Record{Name: "<Ada>", Email: "ada@example.com"},
		CapturedAt: time.Date(2026, 10, 18, 14, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Contains(t, body, "New Lead Information")
	require.Contains(t, body, "&lt;Ada&gt;")
	require.Contains(t, body, "ada@example.com")
	require.Contains(t, body, "Not provided")
	require.Contains(t, body, "Oct 18, 2026")
}
