package core

import (
	"fmt"
	"sort"
	"strings"

	"triage-chatbot/pkg"
)

// emergencyReminderLimit is the number of ignored reminders after which the
// framing collapses to a single firm line.
const emergencyReminderLimit = 3

// Composer assembles the per-turn instruction block sent to the language
// model.  Composition is purely textual and deterministic given a
// CaseContext snapshot; all state lives in the case, none here.
type Composer struct {
	// MaxQuestions caps the clarifying questions the model may ask while
	// questioning is not suppressed.
	MaxQuestions int
}

// NewComposer returns a Composer with the given question cap (minimum 1).
func NewComposer(maxQuestions int) *Composer {
	if maxQuestions < 1 {
		maxQuestions = 1
	}
	return &Composer{MaxQuestions: maxQuestions}
}

// Compose builds the full prompt for one turn.  organConflict marks that the
// latest message mapped outside the locked organ system and must be framed
// as a referred manifestation.
func (p *Composer) Compose(c *CaseContext, latestMessage string, profile *pkg.Profile, organConflict bool) string {
	var b strings.Builder

	b.WriteString(RoleInstruction)
	b.WriteString("\n\n")

	// Locked clinical context.  The initial symptoms are restated verbatim
	// so the model can never drift from them.
	b.WriteString("CLINICAL CONTEXT (LOCKED):\n")
	fmt.Fprintf(&b, "Original symptoms (immutable): %s\n", c.InitialSymptoms())
	fmt.Fprintf(&b, "Organ system (locked): %s\n", c.OrganSystem())
	fmt.Fprintf(&b, "Urgency tier: %s\n", c.UrgencyTier())
	fmt.Fprintf(&b, "Severity score: %d (%s)\n", c.SeverityScore(), formatFactors(c.SeverityFactors()))
	if follow := c.FollowUps(); len(follow) > 0 {
		fmt.Fprintf(&b, "Follow-up responses so far: %s\n", strings.Join(follow, " | "))
	} else {
		b.WriteString("This is the initial consultation.\n")
	}
	b.WriteString("\n")

	if profile != nil {
		b.WriteString(formatProfile(profile))
		b.WriteString("\n")
	}

	b.WriteString(AntiHallucinationRules)
	b.WriteString("\n\n")

	if organConflict {
		b.WriteString(ReferredFramingInstruction)
		b.WriteString("\n\n")
	}

	if rationale := c.Rationale(); rationale != "" {
		b.WriteString("DIFFERENTIAL RANKING EXPLANATION:\n")
		b.WriteString(rationale)
		b.WriteString("\n\n")
	}

	// Question policy: directive guidance only once suppressed, otherwise a
	// bounded number of non-repeated clarifying questions.
	if c.ShouldSuppressQuestions() {
		b.WriteString(SuppressQuestionsInstruction)
		b.WriteString("\n")
	} else {
		fmt.Fprintf(&b, "You may ask up to %d short clarifying questions about the original symptoms.\n", p.MaxQuestions)
		if asked := c.AskedQuestions(); len(asked) > 0 {
			fmt.Fprintf(&b, "Do NOT repeat questions already asked: %s\n", strings.Join(asked, "; "))
		}
	}
	b.WriteString("\n")

	// Emergency phase framing: full directive the first time, confirmation
	// when the user acknowledges, a short reminder afterwards, and a single
	// firm line once the reminder has been ignored repeatedly.
	if c.UrgencyTier() == pkg.TierEmergency && c.EmergencyShown() {
		switch {
		case IsAcknowledgment(latestMessage):
			b.WriteString(EmergencyAcknowledged)
		case c.Reminders() >= emergencyReminderLimit:
			b.WriteString(EmergencyReminderMinimal)
		default:
			b.WriteString(EmergencyReminder)
		}
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "REQUIRED ACTION DIRECTIVE: %s\n\n", directiveFor(c.UrgencyTier()))

	fmt.Fprintf(&b, "Latest user message: %s\n\n", latestMessage)
	b.WriteString(BoundaryStatement)

	return b.String()
}

func directiveFor(tier pkg.UrgencyTier) string {
	switch tier {
	case pkg.TierEmergency:
		return DirectiveEmergency
	case pkg.TierUrgent:
		return DirectiveUrgent
	default:
		return DirectiveRoutine
	}
}

// formatFactors renders the factor breakdown in stable order so composed
// prompts are reproducible.
func formatFactors(factors map[string]int) string {
	if len(factors) == 0 {
		return "no red-flag factors"
	}
	names := make([]string, 0, len(factors))
	for name := range factors {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s +%d", name, factors[name]))
	}
	return strings.Join(parts, ", ")
}

func formatProfile(p *pkg.Profile) string {
	var b strings.Builder
	b.WriteString("PATIENT PROFILE (context only):\n")
	if p.Age > 0 {
		fmt.Fprintf(&b, "Age: %d\n", p.Age)
	}
	if p.Sex != "" {
		fmt.Fprintf(&b, "Sex: %s\n", p.Sex)
	}
	if p.HeightCm > 0 {
		fmt.Fprintf(&b, "Height: %.0f cm\n", p.HeightCm)
	}
	if p.WeightKg > 0 {
		fmt.Fprintf(&b, "Weight: %.0f kg\n", p.WeightKg)
	}
	if len(p.Conditions) > 0 {
		fmt.Fprintf(&b, "Known conditions: %s\n", strings.Join(p.Conditions, ", "))
	}
	if len(p.Medications) > 0 {
		fmt.Fprintf(&b, "Medications: %s\n", strings.Join(p.Medications, ", "))
	}
	if len(p.Allergies) > 0 {
		fmt.Fprintf(&b, "Allergies: %s\n", strings.Join(p.Allergies, ", "))
	}
	return b.String()
}
