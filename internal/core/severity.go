package core

import (
	"encoding/json"
	"os"
	"strings"

	"triage-chatbot/pkg"
)

// Marker is one weighted clinical red-flag rule.  A marker contributes its
// points when any of its keywords appears in the accumulated symptom text.
// Presence, not count, drives the contribution: a factor is scored once per
// session no matter how often its keywords recur.
type Marker struct {
	Factor   string   `json:"factor"`
	Points   int      `json:"points"`
	Keywords []string `json:"keywords"`
}

// DefaultMarkers is the baseline severity rule table.  Point values are
// subject to clinical review; deployments may override the table via a JSON
// file (see LoadMarkers).
var DefaultMarkers = []Marker{
	{Factor: "sudden_onset", Points: 2, Keywords: []string{"sudden", "suddenly", "acute", "abrupt"}},
	{Factor: "fever", Points: 1, Keywords: []string{"fever", "temperature", "chills"}},
	// Bare "headache" is deliberately absent: a mild headache alone is not
	// a red flag.  Qualified forms and the other keywords are.
	{Factor: "neurological", Points: 3, Keywords: []string{"severe headache", "worst headache", "confusion", "weakness", "numbness", "seizure", "neck stiffness", "vision loss", "slurred speech"}},
	{Factor: "trauma", Points: 3, Keywords: []string{"trauma", "injury", "accident", "fall", "hit", "struck"}},
	{Factor: "vomiting", Points: 1, Keywords: []string{"vomit", "vomiting", "throwing up"}},
	{Factor: "chest_pain", Points: 3, Keywords: []string{"chest pain", "crushing", "radiating"}},
	{Factor: "breathing_difficulty", Points: 2, Keywords: []string{"can't breathe", "cannot breathe", "difficulty breathing", "shortness of breath", "dyspnea"}},
}

// Scorer maps free-text symptom descriptions to a severity score and the set
// of contributing factors.  It is stateless and deterministic: the same text
// always yields the same score.
type Scorer struct {
	markers []Marker
}

// NewScorer builds a Scorer from the given marker table.  A nil table uses
// DefaultMarkers.
func NewScorer(markers []Marker) *Scorer {
	if markers == nil {
		markers = DefaultMarkers
	}
	return &Scorer{markers: markers}
}

// Score scans text for clinical markers and returns the additive severity
// score with a factor → points breakdown.  The caller is expected to pass
// the full accumulated symptom text of a session, not just the latest
// message, so that late-disclosed red flags escalate correctly.  Empty or
// unrecognized text scores zero with no factors.
func (s *Scorer) Score(text string) (int, map[string]int) {
	factors := make(map[string]int)
	lower := strings.ToLower(text)
	score := 0
	for _, m := range s.markers {
		if _, seen := factors[m.Factor]; seen {
			continue
		}
		for _, kw := range m.Keywords {
			if strings.Contains(lower, kw) {
				factors[m.Factor] = m.Points
				score += m.Points
				break
			}
		}
	}
	return score, factors
}

// TierForScore derives the candidate urgency tier from a severity score:
// below 3 routine, 3-4 urgent, 5 and above emergency.
func TierForScore(score int) pkg.UrgencyTier {
	switch {
	case score >= 5:
		return pkg.TierEmergency
	case score >= 3:
		return pkg.TierUrgent
	default:
		return pkg.TierRoutine
	}
}

// LoadMarkers reads a marker table from a JSON file.  It lets deployments
// tune keyword sets and point values without a rebuild.
func LoadMarkers(path string) ([]Marker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var markers []Marker
	if err := json.Unmarshal(data, &markers); err != nil {
		return nil, err
	}
	return markers, nil
}
