package core

import (
	"math"
	"strings"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestReweightTrauma(t *testing.T) {
	weights := make(map[string]float64)
	applied := make(map[string]bool)
	rationale := Reweight(weights, map[string]int{"trauma": 3}, applied)

	if !almostEqual(weights["intracranial_hemorrhage"], baselineWeight+0.3) {
		t.Fatalf("intracranial_hemorrhage = %f", weights["intracranial_hemorrhage"])
	}
	if !almostEqual(weights["meningitis"], baselineWeight-0.2) {
		t.Fatalf("meningitis = %f", weights["meningitis"])
	}
	if !strings.Contains(rationale, "trauma") {
		t.Fatalf("rationale does not explain the trauma shift: %q", rationale)
	}
}

func TestReweightNoChangeReturnsEmptyRationale(t *testing.T) {
	weights := make(map[string]float64)
	applied := make(map[string]bool)
	if rationale := Reweight(weights, map[string]int{"vomiting": 1}, applied); rationale != "" {
		t.Fatalf("expected empty rationale, got %q", rationale)
	}
	if len(weights) != 0 {
		t.Fatalf("expected no weight changes, got %v", weights)
	}
}

func TestReweightCombinationRules(t *testing.T) {
	weights := make(map[string]float64)
	applied := make(map[string]bool)
	factors := map[string]int{"fever": 1, "neurological": 3}
	rationale := Reweight(weights, factors, applied)
	if !almostEqual(weights["meningitis"], baselineWeight+0.4) {
		t.Fatalf("meningitis = %f", weights["meningitis"])
	}
	if !strings.Contains(rationale, "meningitis") {
		t.Fatalf("rationale missing infectious explanation: %q", rationale)
	}
}

func TestReweightDeltasAccumulate(t *testing.T) {
	weights := make(map[string]float64)
	applied := make(map[string]bool)

	// Turn 1: fever + neurological raises meningitis.
	Reweight(weights, map[string]int{"fever": 1, "neurological": 3}, applied)
	after1 := weights["meningitis"]

	// Turn 2: trauma disclosure lowers it from where it was, not from the
	// baseline. History-sensitivity is the point of the delta design.
	Reweight(weights, map[string]int{"fever": 1, "neurological": 3, "trauma": 3}, applied)
	if !almostEqual(weights["meningitis"], after1-0.2) {
		t.Fatalf("meningitis = %f, want %f", weights["meningitis"], after1-0.2)
	}
	if !almostEqual(weights["intracranial_hemorrhage"], baselineWeight+0.3) {
		t.Fatalf("intracranial_hemorrhage = %f", weights["intracranial_hemorrhage"])
	}
}

func TestReweightRuleFiresOnce(t *testing.T) {
	weights := make(map[string]float64)
	applied := make(map[string]bool)
	factors := map[string]int{"trauma": 3}
	Reweight(weights, factors, applied)
	first := weights["intracranial_hemorrhage"]
	if rationale := Reweight(weights, factors, applied); rationale != "" {
		t.Fatalf("rule re-fired with rationale %q", rationale)
	}
	if !almostEqual(weights["intracranial_hemorrhage"], first) {
		t.Fatalf("weights drifted on repeat: %f vs %f", weights["intracranial_hemorrhage"], first)
	}
}
