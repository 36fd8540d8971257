package core

import (
	"math/rand"
	"testing"

	"triage-chatbot/pkg"
)

func TestEscalationIsOneWay(t *testing.T) {
	c := NewCaseContext("s1", "mild headache")
	if c.UrgencyTier() != pkg.TierRoutine {
		t.Fatalf("initial tier = %s, want routine", c.UrgencyTier())
	}
	if !c.EscalateTo(pkg.TierUrgent) {
		t.Fatal("expected escalation routine -> urgent")
	}
	if c.EscalateTo(pkg.TierRoutine) {
		t.Fatal("de-escalation urgent -> routine must be a no-op")
	}
	if c.UrgencyTier() != pkg.TierUrgent {
		t.Fatalf("tier = %s after attempted de-escalation, want urgent", c.UrgencyTier())
	}
	if !c.EscalateTo(pkg.TierEmergency) {
		t.Fatal("expected escalation urgent -> emergency")
	}
	for _, tier := range []pkg.UrgencyTier{pkg.TierRoutine, pkg.TierUrgent, pkg.TierEmergency} {
		c.EscalateTo(tier)
		if c.UrgencyTier() != pkg.TierEmergency {
			t.Fatalf("tier left emergency via %s", tier)
		}
	}
}

func TestEscalationMonotonicUnderRandomSequences(t *testing.T) {
	tiers := []pkg.UrgencyTier{pkg.TierRoutine, pkg.TierUrgent, pkg.TierEmergency}
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 100; trial++ {
		c := NewCaseContext("s", "symptoms")
		prev := c.UrgencyTier()
		for turn := 0; turn < 20; turn++ {
			c.EscalateTo(tiers[rng.Intn(len(tiers))])
			cur := c.UrgencyTier()
			if prev.Outranks(cur) {
				t.Fatalf("trial %d turn %d: tier decreased %s -> %s", trial, turn, prev, cur)
			}
			prev = cur
		}
	}
}

func TestEscalateRejectsUnknownTier(t *testing.T) {
	c := NewCaseContext("s", "symptoms")
	if c.EscalateTo(pkg.UrgencyTier("catastrophic")) {
		t.Fatal("unknown tier must not be accepted")
	}
	if c.UrgencyTier() != pkg.TierRoutine {
		t.Fatalf("tier = %s, want routine", c.UrgencyTier())
	}
}

func TestInitialSymptomsImmutable(t *testing.T) {
	original := "chest pain radiating to my left arm"
	c := NewCaseContext("s1", original)
	c.AddFollowUp("also some stomach discomfort")
	c.AddFollowUp("and I feel dizzy")
	if c.InitialSymptoms() != original {
		t.Fatalf("initial symptoms changed: %q", c.InitialSymptoms())
	}
}

func TestOrganSystemLock(t *testing.T) {
	c := NewCaseContext("s1", "chest pain")
	if !c.ValidateOrganSystem(pkg.SystemCardiovascular) {
		t.Fatal("first assignment must succeed")
	}
	if !c.ValidateOrganSystem(pkg.SystemCardiovascular) {
		t.Fatal("matching candidate must succeed")
	}
	if c.ValidateOrganSystem(pkg.SystemGastrointestinal) {
		t.Fatal("conflicting candidate must be rejected")
	}
	if c.OrganSystem() != pkg.SystemCardiovascular {
		t.Fatalf("organ system reassigned to %s", c.OrganSystem())
	}
}

func TestClassifyOrganSystem(t *testing.T) {
	cases := []struct {
		text string
		want pkg.OrganSystem
	}{
		{"I have chest pain radiating to my left arm", pkg.SystemCardiovascular},
		{"sudden severe headache and vomiting", pkg.SystemNeurological},
		{"persistent cough and wheezing", pkg.SystemRespiratory},
		{"stomach cramps after eating", pkg.SystemGastrointestinal},
		{"my elbow hurts", pkg.SystemUnspecified},
	}
	for _, tc := range cases {
		if got := ClassifyOrganSystem(tc.text); got != tc.want {
			t.Errorf("ClassifyOrganSystem(%q) = %s, want %s", tc.text, got, tc.want)
		}
	}
}

func TestQuestionDeduplication(t *testing.T) {
	c := NewCaseContext("s1", "headache")
	c.TrackQuestion("Did you experience any trauma?")

	if !c.IsQuestionAsked("Did you experience any trauma?") {
		t.Fatal("exact repeat not detected")
	}
	if !c.IsQuestionAsked("did you experience any trauma") {
		t.Fatal("normalization failed: punctuation/case variant not detected")
	}
	if !c.IsQuestionAsked("Have you had any recent trauma?") {
		t.Fatal("rephrased question not detected as a repeat")
	}
	if c.IsQuestionAsked("How long has the headache lasted?") {
		t.Fatal("unrelated question flagged as a repeat")
	}
}

func TestQuestionSimilarityPluggable(t *testing.T) {
	c := NewCaseContext("s1", "headache")
	c.Similarity = func(asked, candidate string) float64 { return 1.0 }
	c.TrackQuestion("Did you hit your head?")
	if !c.IsQuestionAsked("Is the pain throbbing?") {
		t.Fatal("custom similarity function not consulted")
	}
}

func TestSuppressionAtEmergencyIsPermanent(t *testing.T) {
	c := NewCaseContext("s1", "sudden severe headache and vomiting")
	c.EscalateTo(pkg.TierEmergency)
	for i := 0; i < 5; i++ {
		if !c.ShouldSuppressQuestions() {
			t.Fatalf("questions not suppressed at emergency (check %d)", i)
		}
		c.AddFollowUp("I feel better now")
	}
}

func TestSuppressionAtUrgentRequiresCertainty(t *testing.T) {
	c := NewCaseContext("s1", "symptoms")
	c.EscalateTo(pkg.TierUrgent)
	c.SetSeverity(3, map[string]int{"chest_pain": 3})
	if c.ShouldSuppressQuestions() {
		t.Fatalf("urgent with certainty %.2f should still allow questions", c.Certainty())
	}
	c.SetSeverity(6, map[string]int{"chest_pain": 3, "sudden_onset": 2, "fever": 1})
	if !c.ShouldSuppressQuestions() {
		t.Fatalf("urgent with certainty %.2f should suppress questions", c.Certainty())
	}
}

func TestRoutineNeverSuppresses(t *testing.T) {
	c := NewCaseContext("s1", "symptoms")
	c.SetSeverity(2, map[string]int{"fever": 1, "vomiting": 1})
	if c.ShouldSuppressQuestions() {
		t.Fatal("routine tier must never suppress questions")
	}
}

func TestCertaintyBounds(t *testing.T) {
	c := NewCaseContext("s1", "symptoms")
	if c.Certainty() != 0 {
		t.Fatalf("empty case certainty = %f, want 0", c.Certainty())
	}
	c.SetSeverity(15, map[string]int{"a": 3, "b": 3, "c": 3, "d": 3, "e": 3})
	if c.Certainty() != 1.0 {
		t.Fatalf("certainty = %f, want saturation at 1", c.Certainty())
	}
}
