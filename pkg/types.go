package pkg

import "time"

// UrgencyTier is the three-level ordinal triage classification.  Tiers are
// ordered routine < urgent < emergency and a case may only move forward.
type UrgencyTier string

const (
	TierRoutine   UrgencyTier = "routine"
	TierUrgent    UrgencyTier = "urgent"
	TierEmergency UrgencyTier = "emergency"
)

// tierRank maps each tier to its position in the escalation order.  Unknown
// values rank below routine so they can never displace a real tier.
var tierRank = map[UrgencyTier]int{
	TierRoutine:   0,
	TierUrgent:    1,
	TierEmergency: 2,
}

// Outranks reports whether t sits strictly above other in the escalation
// order.
func (t UrgencyTier) Outranks(other UrgencyTier) bool {
	return tierRank[t] > tierRank[other]
}

// Valid reports whether t is one of the three known tiers.
func (t UrgencyTier) Valid() bool {
	_, ok := tierRank[t]
	return ok
}

// OrganSystem is the coarse anatomical category a case is locked to after
// the first message.
type OrganSystem string

const (
	SystemNeurological     OrganSystem = "neurological"
	SystemCardiovascular   OrganSystem = "cardiovascular"
	SystemRespiratory      OrganSystem = "respiratory"
	SystemGastrointestinal OrganSystem = "gastrointestinal"
	SystemUnspecified      OrganSystem = "unspecified"
)

// Profile carries optional patient context supplied by the UI.  None of these
// fields participate in the state machine; they are appended to the prompt
// verbatim when present.
type Profile struct {
	Age         int      `json:"age,omitempty"`
	Sex         string   `json:"sex,omitempty"`
	HeightCm    float64  `json:"height_cm,omitempty"`
	WeightKg    float64  `json:"weight_kg,omitempty"`
	Conditions  []string `json:"conditions,omitempty"`
	Medications []string `json:"medications,omitempty"`
	Allergies   []string `json:"allergies,omitempty"`
}

// TurnRequest is the inbound chat payload from the UI.
type TurnRequest struct {
	SessionID string   `json:"session_id"`
	Message   string   `json:"message"`
	Profile   *Profile `json:"profile,omitempty"`
}

// TurnResponse is returned for every chat turn.  UrgencyTier is the single
// source of truth the UI uses for banner styling and for disabling input at
// emergency.
type TurnResponse struct {
	SessionID       string         `json:"session_id"`
	Response        string         `json:"response"`
	UrgencyTier     UrgencyTier    `json:"urgency_tier"`
	SeverityScore   int            `json:"severity_score"`
	SeverityFactors map[string]int `json:"severity_factors"`
	Degraded        bool           `json:"degraded,omitempty"`
}

// CaseSnapshot is a read-only view of a session's triage state, served to
// dashboards.
type CaseSnapshot struct {
	SessionID       string         `json:"session_id"`
	InitialSymptoms string         `json:"initial_symptoms"`
	OrganSystem     OrganSystem    `json:"organ_system"`
	UrgencyTier     UrgencyTier    `json:"urgency_tier"`
	SeverityScore   int            `json:"severity_score"`
	SeverityFactors map[string]int `json:"severity_factors"`
	Certainty       float64        `json:"diagnostic_certainty"`
	Turns           int            `json:"turns"`
	CreatedAt       time.Time      `json:"created_at"`
}

// TurnRole describes who authored an audited turn.
type TurnRole string

const (
	RolePatient   TurnRole = "patient"
	RoleAssistant TurnRole = "assistant"
)

// TurnRecord is one audited chat turn as persisted by the optional Postgres
// audit store.
type TurnRecord struct {
	ID            int64       `json:"id"`
	SessionID     string      `json:"session_id"`
	Role          TurnRole    `json:"role"`
	Content       string      `json:"content"`
	UrgencyTier   UrgencyTier `json:"urgency_tier"`
	SeverityScore int         `json:"severity_score"`
	CreatedAt     time.Time   `json:"created_at"`
}
