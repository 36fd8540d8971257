package core

import (
	"context"
	"log"
	"time"

	"triage-chatbot/internal/llm"
	"triage-chatbot/pkg"
)

// Auditor receives completed turns and escalation events for out-of-band
// recording.  Implementations must tolerate being called from background
// goroutines; failures are logged, never surfaced to the patient.
type Auditor interface {
	RecordTurn(ctx context.Context, rec pkg.TurnRecord) error
	NotifyEscalation(ctx context.Context, sessionID string, tier pkg.UrgencyTier) error
}

// TriageService orchestrates one chat turn: it owns the severity scoring,
// urgency escalation, organ-system validation and re-weighting updates to
// the Case Context, composes the prompt, calls the model and post-processes
// the reply.
type TriageService struct {
	Store    *ConversationStore
	Scorer   *Scorer
	Composer *Composer
	LLM      llm.Completer

	// Timeout bounds each model call so the per-session lock is never held
	// indefinitely.
	Timeout time.Duration

	// Audit is optional; nil disables turn persistence.
	Audit Auditor
}

// NewTriageService wires the orchestrator.  A zero timeout defaults to 30s.
func NewTriageService(store *ConversationStore, scorer *Scorer, composer *Composer, model llm.Completer, timeout time.Duration) *TriageService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TriageService{
		Store:    store,
		Scorer:   scorer,
		Composer: composer,
		LLM:      model,
		Timeout:  timeout,
	}
}

// HandleTurn processes one user message for a session.  The session is
// created on its first-ever message (the founding message becomes the locked
// initial symptoms); any later session id miss is treated identically, never
// as an error.
//
// All Case Context mutation happens before the model call and is kept even
// if the call fails, times out or is cancelled: the escalation reflects real
// disclosed information regardless of whether a reply was delivered.
func (t *TriageService) HandleTurn(ctx context.Context, sessionID, message string, profile *pkg.Profile) (pkg.TurnResponse, error) {
	c, release, created := t.Store.Acquire(sessionID, message)
	defer release()

	if !created {
		c.AddFollowUp(message)
	}

	// Severity over the full accumulated text, so a late-disclosed red flag
	// escalates correctly.
	accumulated := c.AccumulatedText()
	score, factors := t.Scorer.Score(accumulated)
	c.SetSeverity(score, factors)
	escalated := c.EscalateTo(TierForScore(score))

	// Rule-based red-flag detection runs alongside the thresholds.
	if tier, reason := DetectEmergency(accumulated); tier != pkg.TierRoutine {
		if c.EscalateTo(tier) {
			escalated = true
			log.Printf("session %s escalated to %s: %s", sessionID, tier, reason)
		}
	}

	// Organ system: classified once from the initial symptoms; later
	// messages are validated against the lock.  A conflict only changes the
	// prompt framing (referred manifestation), never the lock.
	organConflict := false
	if created {
		c.ValidateOrganSystem(ClassifyOrganSystem(c.InitialSymptoms()))
	} else if candidate := ClassifyOrganSystem(message); candidate != pkg.SystemUnspecified {
		organConflict = !c.ValidateOrganSystem(candidate)
	}

	c.Reweight()

	// Emergency phase bookkeeping brackets the composition: an ignored
	// post-directive message counts its reminder first, so the composer sees
	// the current count and collapses to the minimal line once the user has
	// ignored enough of them.  Marking the directive shown happens after, so
	// the first emergency turn still composes the full directive.
	if c.UrgencyTier() == pkg.TierEmergency && c.EmergencyShown() && !IsAcknowledgment(message) {
		c.CountReminder()
	}

	prompt := t.Composer.Compose(c, message, profile, organConflict)

	if c.UrgencyTier() == pkg.TierEmergency {
		c.MarkEmergencyShown()
	}

	resp := pkg.TurnResponse{
		SessionID:       sessionID,
		UrgencyTier:     c.UrgencyTier(),
		SeverityScore:   c.SeverityScore(),
		SeverityFactors: c.SeverityFactors(),
	}

	callCtx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()
	reply, err := t.LLM.Complete(callCtx, prompt)
	if err != nil {
		log.Printf("session %s model call failed: %v", sessionID, err)
		resp.Response = DegradedServiceMessage
		resp.Degraded = true
	} else {
		resp.Response = Sanitize(reply)
	}

	t.auditTurn(sessionID, message, resp, escalated)
	return resp, nil
}

// auditTurn persists the exchange and emits escalation notifications in the
// background, after the reply is ready.  Audit is best-effort by design.
func (t *TriageService) auditTurn(sessionID, message string, resp pkg.TurnResponse, escalated bool) {
	if t.Audit == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		patient := pkg.TurnRecord{
			SessionID:     sessionID,
			Role:          pkg.RolePatient,
			Content:       message,
			UrgencyTier:   resp.UrgencyTier,
			SeverityScore: resp.SeverityScore,
		}
		if err := t.Audit.RecordTurn(ctx, patient); err != nil {
			log.Println("failed to audit patient turn:", err)
		}
		assistant := pkg.TurnRecord{
			SessionID:     sessionID,
			Role:          pkg.RoleAssistant,
			Content:       resp.Response,
			UrgencyTier:   resp.UrgencyTier,
			SeverityScore: resp.SeverityScore,
		}
		if err := t.Audit.RecordTurn(ctx, assistant); err != nil {
			log.Println("failed to audit assistant turn:", err)
		}
		if escalated {
			if err := t.Audit.NotifyEscalation(ctx, sessionID, resp.UrgencyTier); err != nil {
				log.Println("failed to notify escalation:", err)
			}
		}
	}()
}
