package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/oeeboard/oeeboard/pkg/types"
	"github.com/oeeboard/oeeboard/server/internal/alerts"
	"github.com/oeeboard/oeeboard/server/internal/compute"
	"github.com/oeeboard/oeeboard/server/internal/store"
)

// Provider supplies the computed dataset. It returns an error when the
// dataset could not be loaded.
type Provider interface {
	Dataset() (*store.Entry, error)
}

// Handler is the HTTP handler for all /api/v1/* endpoints.
// It reads the computed dataset from the provider and returns JSON responses.
type Handler struct {
	data    Provider
	alerts  *alerts.Engine
	targets compute.Targets
	mux     *http.ServeMux
}

// New creates a Handler wired to the given dataset provider and registers all routes.
func New(p Provider, ae *alerts.Engine, tg compute.Targets) http.Handler {
	h := &Handler{data: p, alerts: ae, targets: tg, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/steps", h.listSteps)
	h.mux.HandleFunc("/api/v1/steps/", h.getStep) // subtree — extracts {step}
	h.mux.HandleFunc("/api/v1/summary", h.summary)
	h.mux.HandleFunc("/api/v1/statuses", h.statuses)
	h.mux.HandleFunc("/api/v1/alerts", h.listAlerts)
	h.mux.HandleFunc("/api/v1/snapshot", h.snapshot)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health — whether the dataset is loaded.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	e, err := h.data.Dataset()
	if err != nil {
		jsonResp(w, http.StatusServiceUnavailable, HealthResponse{
			State:      "unavailable",
			Error:      err.Error(),
			AlertRules: h.alerts.Rules(),
		})
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{
		State:      "ready",
		Source:     e.Source,
		Rows:       len(e.Table),
		LoadID:     e.LoadID,
		LoadedAt:   e.LoadedAt.UTC().Format(time.RFC3339),
		AlertRules: h.alerts.Rules(),
	})
}

// listSteps returns GET /api/v1/steps — all (or filtered) computed steps.
func (h *Handler) listSteps(w http.ResponseWriter, r *http.Request) {
	t, _, ok := h.filtered(w, r)
	if !ok {
		return
	}
	jsonResp(w, http.StatusOK, toStepResponses(t))
}

// getStep returns GET /api/v1/steps/{step} — a single step with diagnostics.
// When several rows share a step identifier the first one is returned.
func (h *Handler) getStep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	step := strings.TrimPrefix(r.URL.Path, "/api/v1/steps/")
	if step == "" {
		h.listSteps(w, r)
		return
	}

	e, ok := h.dataset(w)
	if !ok {
		return
	}
	row, found := compute.Lookup(e.Table, step)
	if !found {
		jsonErr(w, http.StatusNotFound, "step not found")
		return
	}

	single := compute.Summarize(types.Table{row})
	jsonResp(w, http.StatusOK, StepDetailResponse{
		StepResponse: toStepResponse(row),
		Targets:      single.Evaluate(h.targets),
		Diagnostics:  computeDiagnostics(row, h.targets),
	})
}

// summary returns GET /api/v1/summary — KPI aggregates over the filtered set.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	t, f, ok := h.filtered(w, r)
	if !ok {
		return
	}
	s := compute.Summarize(t)
	jsonResp(w, http.StatusOK, SummaryResponse{
		Filter:  FilterResponse{Statuses: f.Statuses, MinOEE: f.MinOEE},
		Summary: s,
		Targets: s.Evaluate(h.targets),
	})
}

// statuses returns GET /api/v1/statuses — running status distribution over
// the full dataset, for building the status filter.
func (h *Handler) statuses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	e, ok := h.dataset(w)
	if !ok {
		return
	}
	jsonResp(w, http.StatusOK, compute.Statuses(e.Table))
}

// listAlerts returns GET /api/v1/alerts — rules that fire on the filtered steps.
func (h *Handler) listAlerts(w http.ResponseWriter, r *http.Request) {
	t, _, ok := h.filtered(w, r)
	if !ok {
		return
	}
	jsonResp(w, http.StatusOK, h.alerts.Evaluate(t))
}

// snapshot returns GET /api/v1/snapshot — table, summary and statuses in one call.
func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	e, ok := h.dataset(w)
	if !ok {
		return
	}
	jsonResp(w, http.StatusOK, BuildSnapshot(e, h.targets))
}

// --- helpers ----------------------------------------------------------------

// dataset fetches the current dataset or writes a 503 and returns false.
func (h *Handler) dataset(w http.ResponseWriter) (*store.Entry, bool) {
	e, err := h.data.Dataset()
	if err != nil {
		slog.Debug("api: dataset unavailable", "err", err)
		jsonErr(w, http.StatusServiceUnavailable, "dataset unavailable: "+err.Error())
		return nil, false
	}
	return e, true
}

// filtered handles the method check, dataset fetch and filter parsing shared
// by the list-style endpoints.
func (h *Handler) filtered(w http.ResponseWriter, r *http.Request) (types.Table, compute.Filter, bool) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return nil, compute.Filter{}, false
	}
	f, err := parseFilter(r)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return nil, compute.Filter{}, false
	}
	e, ok := h.dataset(w)
	if !ok {
		return nil, compute.Filter{}, false
	}
	return f.Apply(e.Table), f, true
}

// parseFilter reads the status and min_oee query parameters.
//
// status may be repeated or comma-separated. When the parameter is present
// but names no status the filter matches nothing. min_oee is a ratio 0–1.
func parseFilter(r *http.Request) (compute.Filter, error) {
	q := r.URL.Query()
	var f compute.Filter

	if vals, ok := q["status"]; ok {
		f.Statuses = make([]string, 0, len(vals))
		for _, v := range vals {
			for _, s := range strings.Split(v, ",") {
				if s = strings.TrimSpace(s); s != "" {
					f.Statuses = append(f.Statuses, s)
				}
			}
		}
	}

	if raw := q.Get("min_oee"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			return compute.Filter{}, fmt.Errorf("min_oee %q must be a number in [0, 1]", raw)
		}
		f.MinOEE = v
	}
	return f, nil
}

// BuildSnapshot assembles the full dashboard payload for a dataset entry.
func BuildSnapshot(e *store.Entry, tg compute.Targets) SnapshotResponse {
	s := compute.Summarize(e.Table)
	return SnapshotResponse{
		LoadID:      e.LoadID,
		Steps:       toStepResponses(e.Table),
		Summary:     s,
		Targets:     s.Evaluate(tg),
		Statuses:    compute.Statuses(e.Table),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

// toStepResponse maps a computed row to its JSON representation.
func toStepResponse(r types.Row) StepResponse {
	out := compute.Compute(compute.InputFor(r.ProductionRecord))
	return StepResponse{
		Row:                r,
		Class:              out.Class,
		Measurable:         out.AvailabilityDefined && out.PerformanceDefined,
		MaterialEfficiency: compute.MaterialEfficiency(r),
		WasteRatePct:       compute.WasteRatePct(r),
	}
}

func toStepResponses(t types.Table) []StepResponse {
	out := make([]StepResponse, 0, len(t))
	for _, r := range t {
		out = append(out, toStepResponse(r))
	}
	return out
}
