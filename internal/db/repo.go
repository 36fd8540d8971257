package db

import (
	"context"
	"database/sql"

	"triage-chatbot/pkg"
)

// Repository persists the triage audit trail: one row per chat turn with
// the urgency tier and severity score current at that turn.  It is a
// write-behind log for review dashboards; the in-memory conversation store
// remains the source of truth for live sessions.
type Repository struct {
	DB *sql.DB
}

// NewRepository constructs a Repository from an existing sql.DB.  The
// caller manages the connection lifecycle.
func NewRepository(db *sql.DB) *Repository { return &Repository{DB: db} }

// RecordTurn appends one turn to the audit log, creating the session row on
// first use.
func (r *Repository) RecordTurn(ctx context.Context, rec pkg.TurnRecord) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO sessions (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`,
		rec.SessionID,
	)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO turns (session_id, role, content, urgency_tier, severity_score)
         VALUES ($1, $2, $3, $4, $5)`,
		rec.SessionID, rec.Role, rec.Content, rec.UrgencyTier, rec.SeverityScore,
	)
	return err
}

// GetTranscript returns the audited turns for a session in chronological
// order.
func (r *Repository) GetTranscript(ctx context.Context, sessionID string) ([]pkg.TurnRecord, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, session_id, role, content, urgency_tier, severity_score, created_at
         FROM turns
         WHERE session_id = $1
         ORDER BY created_at ASC, id ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var transcript []pkg.TurnRecord
	for rows.Next() {
		var rec pkg.TurnRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Role, &rec.Content,
			&rec.UrgencyTier, &rec.SeverityScore, &rec.CreatedAt); err != nil {
			return nil, err
		}
		transcript = append(transcript, rec)
	}
	return transcript, rows.Err()
}

// CountEscalatedSessions reports how many audited sessions ever reached the
// given tier, for dashboard use.
func (r *Repository) CountEscalatedSessions(ctx context.Context, tier pkg.UrgencyTier) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT session_id) FROM turns WHERE urgency_tier = $1`,
		tier,
	).Scan(&count)
	return count, err
}
