package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"leadchat-backend/internal/db"
	"leadchat-backend/internal/leads"
)

// LeadArchive keeps every captured lead in SQL, independent of the spreadsheet.
type LeadArchive struct {
	db *db.DB
}

func NewLeadArchive(database *db.DB) *LeadArchive {
	return &LeadArchive{db: database}
}

// SaveLead inserts the lead once; a redelivered event with the same id is a no-op.
func (la *LeadArchive) SaveLead(ctx context.Context, lead leads.Captured) error {
	if lead.ID == "" {
		return fmt.Errorf("lead id is required")
	}
	query := `
		INSERT INTO leads (id, session_id, name, email, phone, captured_at, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := la.db.ExecContext(ctx, query,
		lead.ID,
		lead.SessionID,
		lead.Record.Name,
		lead.Record.Email,
		lead.Record.Phone,
		lead.CapturedAt.UTC(),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save lead: %w", err)
	}
	return nil
}

// GetLead returns nil, nil when id is unknown.
func (la *LeadArchive) GetLead(ctx context.Context, id string) (*leads.Captured, error) {
	if id == "" {
		return nil, fmt.Errorf("lead id is required")
	}
	query := `
		SELECT id, session_id, name, email, phone, captured_at
		FROM leads
		WHERE id = $1
	`
	lead, err := scanLead(la.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return lead, nil
}

// ListLeads returns the newest leads first.
func (la *LeadArchive) ListLeads(ctx context.Context, limit int) ([]leads.Captured, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, session_id, name, email, phone, captured_at
		FROM leads
		ORDER BY captured_at DESC
		LIMIT $1
	`
	rows, err := la.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var out []leads.Captured
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		out = append(out, *lead)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*leads.Captured, error) {
	var lead leads.Captured
	err := row.Scan(
		&lead.ID,
		&lead.SessionID,
		&lead.Record.Name,
		&lead.Record.Email,
		&lead.Record.Phone,
		&lead.CapturedAt,
	)
	if err != nil {
		return nil, err
	}
	lead.CapturedAt = lead.CapturedAt.UTC()
	return &lead, nil
}
