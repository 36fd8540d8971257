package core

import (
	"strings"
	"time"

	"triage-chatbot/pkg"
)

// questionOverlapThreshold is the fraction of a new question's tokens that
// must already appear in a previously asked question for the two to count
// as the same question.
const questionOverlapThreshold = 0.7

// SimilarityFunc scores how close a candidate question is to an already
// asked one, in [0,1].  It is pluggable so the token-overlap default can be
// swapped for embedding-based similarity without touching the state machine.
type SimilarityFunc func(asked, candidate string) float64

// CaseContext is the per-session clinical state machine.  It locks the
// initial symptoms and organ system, enforces one-way urgency escalation,
// accumulates follow-up history and tracks asked questions.
//
// The urgency tier is deliberately unexported with EscalateTo as its only
// mutator: no code path can lower it or assign it directly, which makes the
// monotonicity invariant structural rather than a calling convention.
//
// A CaseContext is not safe for concurrent use; the ConversationStore
// serializes whole turns per session.
type CaseContext struct {
	sessionID       string
	initialSymptoms string
	organSystem     pkg.OrganSystem
	urgencyTier     pkg.UrgencyTier
	severityScore   int
	severityFactors map[string]int
	riskWeights     map[string]float64
	appliedRules    map[string]bool
	rationale       string
	symptomHistory  []string
	askedQuestions  []string
	emergencyShown  bool
	reminders       int
	createdAt       time.Time

	// Similarity decides whether a rephrased question was already asked.
	Similarity SimilarityFunc
}

// NewCaseContext creates the state machine for a session.  The initial
// symptoms are locked here and never mutated again.
func NewCaseContext(sessionID, initialSymptoms string) *CaseContext {
	return &CaseContext{
		sessionID:       sessionID,
		initialSymptoms: initialSymptoms,
		urgencyTier:     pkg.TierRoutine,
		severityFactors: make(map[string]int),
		riskWeights:     make(map[string]float64),
		appliedRules:    make(map[string]bool),
		createdAt:       time.Now(),
		Similarity:      TokenOverlap,
	}
}

func (c *CaseContext) SessionID() string            { return c.sessionID }
func (c *CaseContext) InitialSymptoms() string      { return c.initialSymptoms }
func (c *CaseContext) OrganSystem() pkg.OrganSystem { return c.organSystem }
func (c *CaseContext) UrgencyTier() pkg.UrgencyTier { return c.urgencyTier }
func (c *CaseContext) SeverityScore() int           { return c.severityScore }

// SeverityFactors returns a copy of the factor breakdown.
func (c *CaseContext) SeverityFactors() map[string]int {
	out := make(map[string]int, len(c.severityFactors))
	for k, v := range c.severityFactors {
		out[k] = v
	}
	return out
}

// AccumulatedText is the union of all symptom text seen this session, in
// order.  Severity must always be computed over this, never over a single
// message, so a late-disclosed red flag escalates the score.
func (c *CaseContext) AccumulatedText() string {
	if len(c.symptomHistory) == 0 {
		return c.initialSymptoms
	}
	return c.initialSymptoms + " " + strings.Join(c.symptomHistory, " ")
}

// AddFollowUp appends a non-founding utterance to the symptom history.
func (c *CaseContext) AddFollowUp(text string) {
	c.symptomHistory = append(c.symptomHistory, text)
}

// FollowUps returns the follow-up utterances recorded so far.
func (c *CaseContext) FollowUps() []string {
	return append([]string(nil), c.symptomHistory...)
}

// SetSeverity records the score and factor set recomputed over the
// accumulated text.  Scoring is idempotent, so overwriting is safe.
func (c *CaseContext) SetSeverity(score int, factors map[string]int) {
	c.severityScore = score
	c.severityFactors = factors
}

// EscalateTo moves the urgency tier forward if candidate outranks the
// current tier, and reports whether an escalation happened.  De-escalation
// is structurally impossible: a candidate at or below the current tier is a
// no-op.
func (c *CaseContext) EscalateTo(candidate pkg.UrgencyTier) bool {
	if !candidate.Valid() || !candidate.Outranks(c.urgencyTier) {
		return false
	}
	c.urgencyTier = candidate
	return true
}

// ValidateOrganSystem assigns the organ system on first call and afterwards
// reports whether candidate matches the lock.  A false return is a framing
// signal for the prompt composer (treat new complaints as possibly referred
// manifestations of the locked system), never a reason to abort the turn or
// reassign the lock.
func (c *CaseContext) ValidateOrganSystem(candidate pkg.OrganSystem) bool {
	if c.organSystem == "" {
		c.organSystem = candidate
		return true
	}
	return c.organSystem == candidate
}

// Certainty derives diagnostic certainty from the severity evidence:
// min(1, score/8 + 0.05 per distinct factor).  It crosses the 0.7
// question-suppression line around the emergency score threshold.
func (c *CaseContext) Certainty() float64 {
	certainty := float64(c.severityScore)/8.0 + 0.05*float64(len(c.severityFactors))
	if certainty > 1.0 {
		return 1.0
	}
	return certainty
}

// ShouldSuppressQuestions reports whether the composer must stop asking
// clarifying questions: always at emergency, and above routine once
// diagnostic certainty exceeds 0.7.
func (c *CaseContext) ShouldSuppressQuestions() bool {
	if c.urgencyTier == pkg.TierEmergency {
		return true
	}
	return c.urgencyTier != pkg.TierRoutine && c.Certainty() > 0.7
}

// TrackQuestion records a clarifying question so it is never posed twice.
func (c *CaseContext) TrackQuestion(q string) {
	normalized := normalizeQuestion(q)
	if normalized == "" {
		return
	}
	for _, asked := range c.askedQuestions {
		if asked == normalized {
			return
		}
	}
	c.askedQuestions = append(c.askedQuestions, normalized)
}

// IsQuestionAsked reports whether q, or a rephrasing of it, was already
// posed this session.  An exact normalized match or a similarity above the
// overlap threshold both count: "Have you had any recent trauma?" and "Did
// you experience any trauma?" are the same question.
func (c *CaseContext) IsQuestionAsked(q string) bool {
	normalized := normalizeQuestion(q)
	sim := c.Similarity
	if sim == nil {
		sim = TokenOverlap
	}
	for _, asked := range c.askedQuestions {
		if asked == normalized {
			return true
		}
		if sim(asked, normalized) > questionOverlapThreshold {
			return true
		}
	}
	return false
}

// AskedQuestions returns the normalized questions posed so far.
func (c *CaseContext) AskedQuestions() []string {
	return append([]string(nil), c.askedQuestions...)
}

// Reweight runs the differential re-prioritization rules against the
// current factor set and returns the rationale for this turn's changes, or
// "" when nothing shifted.  Deltas accumulate across turns; each rule fires
// at most once per session.
func (c *CaseContext) Reweight() string {
	rationale := Reweight(c.riskWeights, c.severityFactors, c.appliedRules)
	if rationale != "" {
		if c.rationale != "" {
			c.rationale += " "
		}
		c.rationale += rationale
	}
	return rationale
}

// Rationale is the accumulated explanation of every ranking shift so far.
func (c *CaseContext) Rationale() string { return c.rationale }

// RiskWeights returns a copy of the condition weight table.
func (c *CaseContext) RiskWeights() map[string]float64 {
	out := make(map[string]float64, len(c.riskWeights))
	for k, v := range c.riskWeights {
		out[k] = v
	}
	return out
}

// MarkEmergencyShown records that the full emergency directive went out and
// reports whether this was the first time.
func (c *CaseContext) MarkEmergencyShown() bool {
	if c.emergencyShown {
		return false
	}
	c.emergencyShown = true
	return true
}

// EmergencyShown reports whether the full emergency directive was already
// delivered this session.
func (c *CaseContext) EmergencyShown() bool { return c.emergencyShown }

// CountReminder increments and returns the number of post-escalation
// reminders sent after the full directive.
func (c *CaseContext) CountReminder() int {
	c.reminders++
	return c.reminders
}

// Reminders reports how many reminders have gone out since the full
// directive.
func (c *CaseContext) Reminders() int { return c.reminders }

// Snapshot returns a read-only view for dashboards.
func (c *CaseContext) Snapshot() pkg.CaseSnapshot {
	return pkg.CaseSnapshot{
		SessionID:       c.sessionID,
		InitialSymptoms: c.initialSymptoms,
		OrganSystem:     c.organSystem,
		UrgencyTier:     c.urgencyTier,
		SeverityScore:   c.severityScore,
		SeverityFactors: c.SeverityFactors(),
		Certainty:       c.Certainty(),
		Turns:           1 + len(c.symptomHistory),
		CreatedAt:       c.createdAt,
	}
}

// normalizeQuestion lowercases and strips terminal punctuation so that
// trivially different phrasings compare equal.
func normalizeQuestion(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	q = strings.TrimRight(q, "?!. ")
	q = strings.ReplaceAll(q, ",", "")
	return q
}

// questionStopwords are scaffolding tokens that carry no clinical content.
// They are dropped before overlap is computed so that "Did you experience
// any trauma?" and "Have you had any recent trauma?" compare on "trauma"
// alone and register as the same question.
var questionStopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "any": {}, "anything": {},
	"do": {}, "does": {}, "did": {}, "have": {}, "has": {}, "had": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "been": {},
	"you": {}, "your": {}, "there": {}, "ever": {}, "recently": {},
	"recent": {}, "experience": {}, "experienced": {}, "experiencing": {},
	"feel": {}, "feeling": {}, "felt": {}, "notice": {}, "noticed": {},
	"of": {}, "in": {}, "on": {}, "at": {}, "to": {}, "or": {}, "and": {},
}

func contentTokens(q string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(q) {
		if _, skip := questionStopwords[tok]; skip {
			continue
		}
		tokens[tok] = struct{}{}
	}
	// A question made entirely of scaffolding falls back to its full
	// token set rather than comparing empty sets.
	if len(tokens) == 0 {
		for _, tok := range strings.Fields(q) {
			tokens[tok] = struct{}{}
		}
	}
	return tokens
}

// TokenOverlap is the default question similarity: the fraction of the
// candidate's content tokens that appear in the asked question.
func TokenOverlap(asked, candidate string) float64 {
	candidateTokens := contentTokens(candidate)
	if len(candidateTokens) == 0 {
		return 0
	}
	askedTokens := contentTokens(asked)
	shared := 0
	for tok := range candidateTokens {
		if _, ok := askedTokens[tok]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(candidateTokens))
}

// organKeywords drives the one-shot organ-system classification of the
// initial symptoms.  First match wins, in listed order.
var organKeywords = []struct {
	system   pkg.OrganSystem
	keywords []string
}{
	{pkg.SystemNeurological, []string{"headache", "confusion", "weakness", "numbness", "seizure", "stroke", "brain", "neck stiffness"}},
	{pkg.SystemCardiovascular, []string{"chest pain", "heart", "palpitation", "cardiac"}},
	{pkg.SystemRespiratory, []string{"breathing", "cough", "lung", "respiratory"}},
	{pkg.SystemGastrointestinal, []string{"stomach", "abdomen", "abdominal", "nausea", "vomit", "diarrhea"}},
}

// ClassifyOrganSystem maps symptom text to its primary organ system, or
// unspecified when nothing matches.
func ClassifyOrganSystem(text string) pkg.OrganSystem {
	lower := strings.ToLower(text)
	for _, entry := range organKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.system
			}
		}
	}
	return pkg.SystemUnspecified
}
