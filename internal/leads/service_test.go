package leads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeRows struct {
	rows [][]string
	err  error
}

func (f *fakeRows) AppendRow(_ context.Context, row []string) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, row)
	return nil
}

type fakeNotifier struct {
	leads []Captured
	err   error
}

func (f *fakeNotifier) NotifyLead(_ context.Context, lead Captured) error {
	if f.err != nil {
		return f.err
	}
	f.leads = append(f.leads, lead)
	return nil
}

type fakePublisher struct {
	leads []Captured
	err   error
}

func (f *fakePublisher) PublishLead(_ context.Context, lead Captured) error {
	f.leads = append(f.leads, lead)
	return f.err
}

var fixedNow = time.Date(2026, 10, 18, 14, 30, 0, 0, time.UTC)

func newTestService(rows *fakeRows, n *fakeNotifier, p *fakePublisher) *Service {
	opts := []Option{WithClock(func() time.Time { return fixedNow })}
	if p != nil {
		opts = append(opts, WithPublisher(p))
	}
	return NewService(rows, n, opts...)
}

func TestSubmit_AppendsNotifiesAndPublishes(t *testing.T) {
	rows, n, p := &fakeRows{}, &fakeNotifier{}, &fakePublisher{}
	svc := newTestService(rows, n, p)

	lead, err := svc.Submit(context.Background(), "session_1", Record{Name: " Ada ", Email: "ada@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, lead.ID)
	require.Equal(t, "session_1", lead.SessionID)
	require.Equal(t, "Ada", lead.Record.Name)

	require.Equal(t, [][]string{{"2026-10-18T14:30:00Z", "Ada", "ada@example.com", ""}}, rows.rows)
	require.Len(t, n.leads, 1)
	require.Len(t, p.leads, 1)
	require.Equal(t, lead.ID, p.leads[0].ID)
}

func TestSubmit_ValidationShortCircuits(t *testing.T) {
	rows, n := &fakeRows{}, &fakeNotifier{}
	svc := newTestService(rows, n, nil)

	_, err := svc.Submit(context.Background(), "", Record{Name: "", Email: "ada@example.com"})
	require.ErrorIs(t, err, ErrMissingFields)
	require.Empty(t, rows.rows)
	require.Empty(t, n.leads)
}

func TestSubmit_SheetFailureSkipsEmail(t *testing.T) {
	rows, n := &fakeRows{err: errors.New("quota")}, &fakeNotifier{}
	svc := newTestService(rows, n, nil)

	_, err := svc.Submit(context.Background(), "", Record{Name: "Ada", Email: "ada@example.com"})
	require.ErrorContains(t, err, "save lead to sheet")
	require.Empty(t, n.leads)
}

func TestSubmit_NotifyFailureIsAnError(t *testing.T) {
	p := &fakePublisher{}
	svc := newTestService(&fakeRows{}, &fakeNotifier{err: errors.New("smtp down")}, p)

	_, err := svc.Submit(context.Background(), "", Record{Name: "Ada", Email: "ada@example.com"})
	require.ErrorContains(t, err, "send lead notification")
	require.Empty(t, p.leads)
}

func TestSubmit_PublishFailureIsTolerated(t *testing.T) {
	p := &fakePublisher{err: errors.New("bus closed")}
	svc := newTestService(&fakeRows{}, &fakeNotifier{}, p)

	_, err := svc.Submit(context.Background(), "", Record{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	require.Len(t, p.leads, 1)
}
