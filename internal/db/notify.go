package db

import (
	"context"
	"database/sql"
	"fmt"

	"triage-chatbot/pkg"
)

// Notifier publishes urgency escalations over Postgres NOTIFY so a review
// dashboard can react the moment a session crosses into urgent or
// emergency.  The payload is "<session_id>:<tier>".
type Notifier struct {
	DB      *sql.DB
	Channel string
}

// NewNotifier constructs a Notifier on the given channel.
func NewNotifier(db *sql.DB, channel string) *Notifier {
	return &Notifier{DB: db, Channel: channel}
}

// NotifyEscalation broadcasts that sessionID escalated to tier.
func (n *Notifier) NotifyEscalation(ctx context.Context, sessionID string, tier pkg.UrgencyTier) error {
	payload := fmt.Sprintf("%s:%s", sessionID, tier)
	_, err := n.DB.ExecContext(ctx, `SELECT pg_notify($1, $2)`, n.Channel, payload)
	return err
}
