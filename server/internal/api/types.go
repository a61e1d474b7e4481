package api

import (
	"github.com/oeeboard/oeeboard/pkg/types"
	"github.com/oeeboard/oeeboard/server/internal/compute"
)

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	State    string `json:"state"` // "ready" | "unavailable"
	Source   string `json:"source,omitempty"`
	Rows     int    `json:"rows"`
	LoadID   string `json:"load_id,omitempty"`
	LoadedAt string `json:"loaded_at,omitempty"` // RFC3339
	Error    string `json:"error,omitempty"`

	// AlertRules is the number of alert rules currently in force.
	AlertRules int `json:"alert_rules"`
}

// StepResponse is one step entry in GET /api/v1/steps.
type StepResponse struct {
	types.Row
	Class              string            `json:"class"`
	// Measurable is false when the planned run time made availability or
	// performance undefined; the step's OEE is then reported as 0.
	Measurable         bool              `json:"measurable"`
	MaterialEfficiency compute.Aggregate `json:"material_efficiency"`
	WasteRatePct       compute.Aggregate `json:"waste_rate_pct"`
}

// StepDetailResponse is the payload for GET /api/v1/steps/{step}.
type StepDetailResponse struct {
	StepResponse
	Targets     []compute.TargetResult `json:"targets"`
	Diagnostics []DiagnosticHint       `json:"diagnostics"`
}

// FilterResponse echoes the filter a response was computed under.
type FilterResponse struct {
	Statuses []string `json:"statuses"` // null means all statuses
	MinOEE   float64  `json:"min_oee"`
}

// SummaryResponse is the payload for GET /api/v1/summary.
type SummaryResponse struct {
	Filter  FilterResponse         `json:"filter"`
	Summary compute.Summary        `json:"summary"`
	Targets []compute.TargetResult `json:"targets"`
}

// SnapshotResponse is the payload for GET /api/v1/snapshot and the data of
// every WebSocket broadcast.
type SnapshotResponse struct {
	LoadID      string                 `json:"load_id"`
	Steps       []StepResponse         `json:"steps"`
	Summary     compute.Summary        `json:"summary"`
	Targets     []compute.TargetResult `json:"targets"`
	Statuses    []compute.StatusCount  `json:"statuses"`
	GeneratedAt string                 `json:"generated_at"` // RFC3339
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
