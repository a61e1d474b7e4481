package api

import (
	"testing"

	"github.com/oeeboard/oeeboard/pkg/types"
	"github.com/oeeboard/oeeboard/server/internal/compute"
)

func computedRow(current, expected, down, failure, used, waste float64) types.Row {
	rec := types.ProductionRecord{
		Step:                    "1",
		RunningStatus:           "Running",
		MaterialUsedKG:          used,
		WasteMaterialsKG:        waste,
		CurrentLotRunTimeHours:  current,
		ExpectedLotRunTimeHours: expected,
		ProcessDownTimeHours:    down,
		FailureRate:             failure,
	}
	return compute.ComputeMetrics([]types.ProductionRecord{rec})[0]
}

func keys(hints []DiagnosticHint) []string {
	out := make([]string, len(hints))
	for i, h := range hints {
		out[i] = h.Key
	}
	return out
}

func hasKey(hints []DiagnosticHint, key string) bool {
	for _, h := range hints {
		if h.Key == key {
			return true
		}
	}
	return false
}

func TestDiagnostics_OnTarget(t *testing.T) {
	hints := computeDiagnostics(computedRow(10, 10, 0, 0, 100, 1), compute.DefaultTargets)
	if len(hints) != 1 || hints[0].Key != "on_target" || hints[0].Level != "ok" {
		t.Errorf("got %v, want [on_target]", keys(hints))
	}
}

func TestDiagnostics_NoPlan_IsOnlyHint(t *testing.T) {
	hints := computeDiagnostics(computedRow(5, 0, 1, 0.5, 100, 50), compute.DefaultTargets)
	if len(hints) != 1 || hints[0].Key != "no_plan" || hints[0].Level != "critical" {
		t.Errorf("got %v, want [no_plan]", keys(hints))
	}
}

func TestDiagnostics_NegativePlan_IsNoPlan(t *testing.T) {
	hints := computeDiagnostics(computedRow(5, -2, 0, 0, 100, 1), compute.DefaultTargets)
	if len(hints) != 1 || hints[0].Key != "no_plan" {
		t.Errorf("got %v, want [no_plan]", keys(hints))
	}
}

func TestDiagnostics_CriticalFirst(t *testing.T) {
	// availability 0.75, performance 0.625, quality 0.95 → OEE ≈ 0.445
	hints := computeDiagnostics(computedRow(6, 8, 3, 0.05, 100, 10), compute.DefaultTargets)

	if hints[0].Key != "oee" || hints[0].Level != "critical" {
		t.Fatalf("first hint: got %s/%s, want oee/critical", hints[0].Key, hints[0].Level)
	}
	for _, k := range []string{"availability", "performance", "quality", "waste"} {
		if !hasKey(hints, k) {
			t.Errorf("missing %q hint (got %v)", k, keys(hints))
		}
	}
	for i := 1; i < len(hints); i++ {
		if levelRank[hints[i-1].Level] > levelRank[hints[i].Level] {
			t.Errorf("hints not ordered by level: %v", keys(hints))
		}
	}
}

func TestDiagnostics_OEEWarningBetweenTypicalAndTarget(t *testing.T) {
	// availability 0.8, performance 1, quality 1 → OEE 0.8
	hints := computeDiagnostics(computedRow(8, 10, 0, 0, 100, 1), compute.DefaultTargets)
	for _, h := range hints {
		if h.Key == "oee" && h.Level != "warning" {
			t.Errorf("oee level: got %s, want warning", h.Level)
		}
	}
	if !hasKey(hints, "oee") {
		t.Errorf("missing oee hint (got %v)", keys(hints))
	}
}

func TestDiagnostics_OutOfRangeInputs(t *testing.T) {
	hints := computeDiagnostics(computedRow(12, 10, 0, 1.4, 100, 1), compute.DefaultTargets)
	for _, k := range []string{"failure_rate_range", "overrun"} {
		if !hasKey(hints, k) {
			t.Errorf("missing %q hint (got %v)", k, keys(hints))
		}
	}
}

func TestDiagnostics_NoMaterial_NoWasteHint(t *testing.T) {
	hints := computeDiagnostics(computedRow(10, 10, 0, 0, 0, 0), compute.DefaultTargets)
	if hasKey(hints, "waste") {
		t.Errorf("unexpected waste hint: %v", keys(hints))
	}
}
