package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RowAppender persists one spreadsheet row.
type RowAppender interface {
	AppendRow(ctx context.Context, row []string) error
}

// Notifier tells the sales inbox about a new lead.
type Notifier interface {
	NotifyLead(ctx context.Context, lead Captured) error
}

// Publisher fans a captured lead out to asynchronous consumers.
type Publisher interface {
	PublishLead(ctx context.Context, lead Captured) error
}

type Service struct {
	rows      RowAppender
	notifier  Notifier
	publisher Publisher
	now       func() time.Time
	logger    zerolog.Logger
}

type Option func(*Service)

func WithPublisher(p Publisher) Option { return func(s *Service) { s.publisher = p } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func WithLogger(l zerolog.Logger) Option { return func(s *Service) { s.logger = l } }

func NewService(rows RowAppender, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		rows:     rows,
		notifier: notifier,
		now:      time.Now,
		logger:   zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Submit validates the record, appends it to the sheet and notifies sales.
// Both steps must succeed; publishing the event afterwards is best effort.
func (s *Service) Submit(ctx context.Context, sessionID string, rec Record) (Captured, error) {
	rec = rec.Normalize()
	if err := rec.Validate(); err != nil {
		return Captured{}, err
	}
	lead := Captured{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Record:     rec,
		CapturedAt: s.now().UTC(),
	}
	if err := s.rows.AppendRow(ctx, Row(lead)); err != nil {
		return Captured{}, fmt.Errorf("save lead to sheet: %w", err)
	}
	s.logger.Info().Str("lead_id", lead.ID).Msg("lead saved to sheet")

	if err := s.notifier.NotifyLead(ctx, lead); err != nil {
		return Captured{}, fmt.Errorf("send lead notification: %w", err)
	}
	s.logger.Info().Str("lead_id", lead.ID).Msg("lead notification sent")

	if s.publisher != nil {
		if err := s.publisher.PublishLead(ctx, lead); err != nil {
			s.logger.Warn().Err(err).Str("lead_id", lead.ID).Msg("publish lead event failed")
		}
	}
	return lead, nil
}

// Row is the spreadsheet layout: timestamp, name, email, phone.
func Row(lead Captured) []string {
	return []string{
		lead.CapturedAt.Format(time.RFC3339),
		lead.Record.Name,
		lead.Record.Email,
		lead.Record.Phone,
	}
}

// LogNotifier stands in for the mailer in demo mode.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) NotifyLead(_ context.Context, lead Captured) error {
	n.Logger.Info().
		Str("lead_id", lead.ID).
		Str("name", lead.Record.Name).
		Str("email", lead.Record.Email).
		Str("phone", lead.Record.Phone).
		Msg("new lead (demo mode, no email sent)")
	return nil
}
