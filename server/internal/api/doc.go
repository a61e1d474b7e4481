// Package api implements the HTTP REST API consumed by the dashboard UI.
//
// New(provider, alerts, targets) returns an http.Handler that serves:
//
//	GET /api/v1/health          — dataset state, row count, load id
//	GET /api/v1/steps           — computed steps ([]StepResponse)
//	GET /api/v1/steps/{step}    — one step with targets and diagnostics; 404 if unknown
//	GET /api/v1/summary         — KPI means, totals, best/worst step, target checks
//	GET /api/v1/statuses        — running status distribution
//	GET /api/v1/alerts          — alert rules firing per step
//	GET /api/v1/snapshot        — steps + summary + statuses + generated_at
//
// steps, summary and alerts accept the filter query parameters
// status (repeatable or comma-separated) and min_oee (0–1, inclusive).
//
// All endpoints:
//   - Respond with Content-Type: application/json
//   - Return 405 for non-GET methods
//   - Return 503 with a single error body when the dataset failed to load
//
// Aggregates over an empty subset are null in JSON, never 0.
package api
