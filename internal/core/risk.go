package core

import "strings"

// deltaRule adjusts differential-diagnosis weights when a combination of
// severity factors is present.  Each rule carries the natural-language
// explanation of why the ranking shifted; the downstream prompt needs the
// justification, not just reordered numbers.
type deltaRule struct {
	requires  []string
	deltas    map[string]float64
	rationale string
}

var deltaRules = []deltaRule{
	{
		requires: []string{"trauma"},
		deltas: map[string]float64{
			"intracranial_hemorrhage": 0.3,
			"subdural_hematoma":       0.3,
			"epidural_hematoma":       0.2,
			"meningitis":              -0.2,
			"viral_infection":         -0.2,
		},
		rationale: "With the addition of recent trauma, conditions involving bleeding (intracranial hemorrhage, subdural hematoma) rise in priority, while infection-only causes become less likely.",
	},
	{
		requires: []string{"fever", "neurological"},
		deltas: map[string]float64{
			"meningitis":   0.4,
			"encephalitis": 0.3,
		},
		rationale: "The combination of fever and neurological symptoms significantly increases the probability of infectious causes such as meningitis or encephalitis.",
	},
	{
		requires: []string{"sudden_onset", "neurological"},
		deltas: map[string]float64{
			"subarachnoid_hemorrhage": 0.3,
			"stroke":                  0.2,
		},
		rationale: "Sudden onset neurological symptoms shift priority toward acute vascular events (subarachnoid hemorrhage, stroke).",
	},
}

// baselineWeight is the starting weight for a condition the first time a
// rule touches it.  Weights are unbounded after that; only relative order
// matters downstream, so no renormalization is applied.
const baselineWeight = 0.5

// Reweight applies signed deltas to the condition weight table based on the
// severity factors currently confirmed for the case.  Weights are mutated
// in place (adjustments are additive, preserving history across turns).
// The returned rationale explains every ranking shift, or is empty when no
// rule fired that was not already applied.
func Reweight(weights map[string]float64, factors map[string]int, applied map[string]bool) string {
	var explanations []string
	for _, rule := range deltaRules {
		if applied[rule.rationale] {
			continue
		}
		matched := true
		for _, f := range rule.requires {
			if _, ok := factors[f]; !ok {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		for condition, delta := range rule.deltas {
			if _, ok := weights[condition]; !ok {
				weights[condition] = baselineWeight
			}
			weights[condition] += delta
		}
		applied[rule.rationale] = true
		explanations = append(explanations, rule.rationale)
	}
	return strings.Join(explanations, " ")
}
