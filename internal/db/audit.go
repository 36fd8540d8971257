package db

import (
	"context"
	"database/sql"

	"triage-chatbot/pkg"
)

// Audit bundles the turn repository and the escalation notifier behind the
// orchestrator's Auditor seam.
type Audit struct {
	Repo     *Repository
	Notifier *Notifier
}

// NewAudit wires an Audit over one database connection.
func NewAudit(conn *sql.DB, channel string) *Audit {
	return &Audit{
		Repo:     NewRepository(conn),
		Notifier: NewNotifier(conn, channel),
	}
}

// RecordTurn appends a turn to the audit log.
func (a *Audit) RecordTurn(ctx context.Context, rec pkg.TurnRecord) error {
	return a.Repo.RecordTurn(ctx, rec)
}

// NotifyEscalation publishes an escalation event.
func (a *Audit) NotifyEscalation(ctx context.Context, sessionID string, tier pkg.UrgencyTier) error {
	return a.Notifier.NotifyEscalation(ctx, sessionID, tier)
}
