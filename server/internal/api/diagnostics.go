package api

import (
	"fmt"
	"sort"

	"github.com/oeeboard/oeeboard/pkg/types"
	"github.com/oeeboard/oeeboard/server/internal/compute"
)

// DiagnosticHint is one human-readable insight about a production step.
// The UI shows these as chips on the step detail view.
type DiagnosticHint struct {
	// Key is a stable machine-readable identifier (used for dedup/ordering).
	Key string `json:"key"`
	// Level is "ok" | "info" | "warning" | "critical"
	Level string `json:"level"`
	// Title is a short label shown on the chip.
	Title string `json:"title"`
	// Detail is the full explanation shown on click/hover.
	Detail string `json:"detail"`
	// Value is an optional numeric value associated with this hint.
	Value *float64 `json:"value,omitempty"`
}

var levelRank = map[string]int{"critical": 0, "warning": 1, "info": 2, "ok": 3}

// computeDiagnostics derives hints for one step.
// Diagnostics are ordered: critical first, then warnings, then info.
func computeDiagnostics(r types.Row, tg compute.Targets) []DiagnosticHint {
	var hints []DiagnosticHint
	out := compute.Compute(compute.InputFor(r.ProductionRecord))

	// ── No planned run time ─────────────────────────────────────────────────
	if !out.AvailabilityDefined || !out.PerformanceDefined || r.ExpectedLotRunTimeHours < 0 {
		v := r.ExpectedLotRunTimeHours
		hints = append(hints, DiagnosticHint{
			Key:   "no_plan",
			Level: "critical",
			Title: "No planned run time",
			Detail: fmt.Sprintf(
				"Expected lot run time is %.1f hours, so availability and performance "+
					"cannot be measured for this step and OEE is reported as 0. "+
					"Check the planning figure in the source sheet.", v),
			Value: &v,
		})
		return sortHints(hints)
	}

	// ── OEE ─────────────────────────────────────────────────────────────────
	if r.OEE < tg.OEE {
		v := r.OEE
		level := "warning"
		if r.OEE < compute.ThresholdTypical {
			level = "critical"
		}
		hints = append(hints, DiagnosticHint{
			Key:   "oee",
			Level: level,
			Title: fmt.Sprintf("OEE %.1f%%", r.OEE*100),
			Detail: fmt.Sprintf("OEE is %.1f%% against a target of %.0f%% "+
				"(availability %.1f%% × performance %.1f%% × quality %.1f%%).",
				r.OEE*100, tg.OEE*100, r.Availability*100, r.Performance*100, r.Quality*100),
			Value: &v,
		})
	}

	// ── Components ──────────────────────────────────────────────────────────
	if r.Availability < tg.Availability {
		v := r.Availability
		hints = append(hints, DiagnosticHint{
			Key:   "availability",
			Level: "warning",
			Title: "Running short of plan",
			Detail: fmt.Sprintf("The lot has run %.1f of %.1f expected hours (%.1f%%, target %.0f%%).",
				r.CurrentLotRunTimeHours, r.ExpectedLotRunTimeHours, v*100, tg.Availability*100),
			Value: &v,
		})
	}
	if r.Performance < tg.Performance {
		v := r.Performance
		hints = append(hints, DiagnosticHint{
			Key:   "performance",
			Level: "warning",
			Title: "Downtime above goal",
			Detail: fmt.Sprintf("%.1f hours of process downtime leave %.1f%% of the planned run (target %.0f%%).",
				r.ProcessDownTimeHours, v*100, tg.Performance*100),
			Value: &v,
		})
	}
	if r.Quality < tg.Quality {
		v := r.Quality
		hints = append(hints, DiagnosticHint{
			Key:   "quality",
			Level: "warning",
			Title: "Defects above goal",
			Detail: fmt.Sprintf("Failure rate is %.1f%%, so quality is %.1f%% (target %.0f%%).",
				r.FailureRate*100, v*100, tg.Quality*100),
			Value: &v,
		})
	}

	// ── Material ────────────────────────────────────────────────────────────
	if w := compute.WasteRatePct(r); w.Valid && w.Value >= tg.MaxWastePct {
		v := w.Value
		hints = append(hints, DiagnosticHint{
			Key:   "waste",
			Level: "warning",
			Title: fmt.Sprintf("%.1f%% waste", v),
			Detail: fmt.Sprintf("%.1f of %.1f KG of material went to waste (goal below %.0f%%).",
				r.WasteMaterialsKG, r.MaterialUsedKG, tg.MaxWastePct),
			Value: &v,
		})
	}

	// ── Source data outside nominal range ───────────────────────────────────
	if r.FailureRate < 0 || r.FailureRate > 1 {
		v := r.FailureRate
		hints = append(hints, DiagnosticHint{
			Key:    "failure_rate_range",
			Level:  "info",
			Title:  "Failure rate clamped",
			Detail: fmt.Sprintf("The recorded failure rate %.3f is outside 0–1; quality was clamped.", v),
			Value:  &v,
		})
	}
	if r.CurrentLotRunTimeHours > r.ExpectedLotRunTimeHours {
		v := r.CurrentLotRunTimeHours
		hints = append(hints, DiagnosticHint{
			Key:   "overrun",
			Level: "info",
			Title: "Lot overran plan",
			Detail: fmt.Sprintf("The lot ran %.1f hours against %.1f expected; availability is capped at 100%%.",
				r.CurrentLotRunTimeHours, r.ExpectedLotRunTimeHours),
			Value: &v,
		})
	}

	// ── All clear ───────────────────────────────────────────────────────────
	if len(hints) == 0 {
		v := r.OEE
		hints = append(hints, DiagnosticHint{
			Key:    "on_target",
			Level:  "ok",
			Title:  "On target",
			Detail: fmt.Sprintf("OEE is %.1f%% and every component meets its goal.", v*100),
			Value:  &v,
		})
	}

	return sortHints(hints)
}

func sortHints(hints []DiagnosticHint) []DiagnosticHint {
	sort.SliceStable(hints, func(i, j int) bool {
		return levelRank[hints[i].Level] < levelRank[hints[j].Level]
	})
	return hints
}
