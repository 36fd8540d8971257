package core

import (
	"strings"

	"triage-chatbot/pkg"
)

// keywordPair is a rule-based emergency trigger: primary must appear in the
// text, and secondary (when non-empty) must appear as well.
type keywordPair struct {
	primary   string
	secondary string
}

// emergencyPairs and urgentPairs detect red-flag presentations without any
// model interpretation.  They run over the accumulated symptom text every
// turn as an escalation source alongside the severity thresholds.
var emergencyPairs = []keywordPair{
	{"chest pain", "shortness of breath"},
	{"chest pain", "dyspnea"},
	{"chest pain", "radiating"},
	{"crushing chest", ""},
	{"sudden weakness", "one side"},
	{"facial drooping", ""},
	{"slurred speech", "sudden"},
	{"severe headache", "worst"},
	{"neck stiffness", "high fever"},
	{"confusion", "sudden"},
	{"difficulty breathing", "severe"},
	{"cannot breathe", ""},
	{"can't breathe", ""},
	{"choking", ""},
	{"severe bleeding", ""},
	{"uncontrolled bleeding", ""},
	{"heavy bleeding", ""},
	{"loss of consciousness", ""},
	{"seizure", ""},
	{"severe allergic", ""},
	{"anaphylaxis", ""},
}

var urgentPairs = []keywordPair{
	{"chest pain", ""},
	{"difficulty breathing", ""},
	{"high fever", "rash"},
	{"severe pain", "abdomen"},
	{"persistent vomiting", ""},
}

func matchPairs(lower string, pairs []keywordPair) (keywordPair, bool) {
	for _, p := range pairs {
		if strings.Contains(lower, p.primary) {
			if p.secondary == "" || strings.Contains(lower, p.secondary) {
				return p, true
			}
		}
	}
	return keywordPair{}, false
}

// DetectEmergency scans text for rule-based red-flag keyword pairs and
// returns the candidate tier with the reason it fired.  It never returns a
// tier decision on its own authority; callers feed the candidate through
// CaseContext.EscalateTo so the one-way guarantee holds.
func DetectEmergency(text string) (pkg.UrgencyTier, string) {
	lower := strings.ToLower(text)
	if p, ok := matchPairs(lower, emergencyPairs); ok {
		reason := "detected potential emergency: " + p.primary
		if p.secondary != "" {
			reason += " with " + p.secondary
		}
		return pkg.TierEmergency, reason
	}
	if p, ok := matchPairs(lower, urgentPairs); ok {
		return pkg.TierUrgent, "detected urgent condition: " + p.primary
	}
	return pkg.TierRoutine, ""
}

// acknowledgments are short phrases signalling the user will seek care.
var acknowledgments = []string{
	"ok", "okay", "yes", "going", "i'm going", "im going",
	"will go", "on my way", "heading there", "understood",
	"got it", "thank you", "thanks",
}

// IsAcknowledgment reports whether text reads as the user agreeing to seek
// help, which switches the emergency framing from directive to confirmation.
// Single-word cues match whole words only, so "ok" inside "choking" does not
// count; multi-word cues match as phrases.
func IsAcknowledgment(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	words := make(map[string]struct{})
	for _, tok := range strings.Fields(lower) {
		words[strings.Trim(tok, ".,!?;:\"'")] = struct{}{}
	}
	for _, ack := range acknowledgments {
		if strings.Contains(ack, " ") {
			if strings.Contains(lower, ack) {
				return true
			}
		} else if _, ok := words[ack]; ok {
			return true
		}
	}
	return false
}
