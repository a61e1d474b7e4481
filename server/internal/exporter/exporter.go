package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/oeeboard/oeeboard/pkg/types"
	"github.com/oeeboard/oeeboard/server/internal/api"
	"github.com/oeeboard/oeeboard/server/internal/compute"
	"github.com/oeeboard/oeeboard/server/internal/store"
)

const namespace = "oee"

// Handler returns an http.Handler serving the Prometheus text exposition of
// the dataset from p.
func Handler(p api.Provider, tg compute.Targets) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		e, err := p.Dataset()
		if err != nil {
			slog.Debug("exporter: dataset unavailable", "err", err)
			e = nil
		}
		format := expfmt.NewFormat(expfmt.TypeTextPlain)
		w.Header().Set("Content-Type", string(format))
		if err := Write(w, format, Collect(e, tg)); err != nil {
			slog.Warn("exporter: write metrics", "err", err)
		}
	})
}

// Collect builds the metric families for e. A nil e (dataset unavailable)
// yields only oee_dataset_up 0. Families are sorted by name.
func Collect(e *store.Entry, tg compute.Targets) []*dto.MetricFamily {
	if e == nil {
		return []*dto.MetricFamily{gauge("dataset_up", "Whether the production dataset loaded (1) or not (0).", sample(0))}
	}

	mfs := []*dto.MetricFamily{
		gauge("dataset_up", "Whether the production dataset loaded (1) or not (0).", sample(1)),
		gauge("dataset_rows", "Number of production steps in the dataset.", sample(float64(len(e.Table)))),
		gauge("dataset_loaded_timestamp_seconds", "Unix time the dataset was loaded.",
			sample(float64(e.LoadedAt.Unix()), "load_id", e.LoadID)),
	}

	perStep := []struct {
		name, help string
		col        compute.Column
	}{
		{"step_oee_ratio", "Overall equipment effectiveness per step (0-1).", compute.ColOEE},
		{"step_availability_ratio", "Availability per step (0-1).", compute.ColAvailability},
		{"step_performance_ratio", "Performance per step (0-1).", compute.ColPerformance},
		{"step_quality_ratio", "Quality per step (0-1).", compute.ColQuality},
		{"step_units_produced", "Units produced per step.", compute.ColUnitsProduced},
		{"step_down_time_hours", "Process downtime per step in hours.", compute.ColProcessDownTime},
		{"step_waste_kg", "Waste material per step in kilograms.", compute.ColWasteMaterials},
	}
	for _, m := range perStep {
		mfs = append(mfs, gauge(m.name, m.help, stepSamples(e.Table, m.col)...))
	}

	var means, totals []*dto.Metric
	for _, col := range []compute.Column{compute.ColOEE, compute.ColAvailability, compute.ColPerformance, compute.ColQuality} {
		m, err := compute.Mean(e.Table, col)
		if err != nil {
			slog.Warn("exporter: mean", "err", err)
			continue
		}
		if m.Valid {
			means = append(means, sample(m.Value, "kpi", string(col)))
		}
	}
	for _, col := range []compute.Column{compute.ColUnitsProduced, compute.ColMaterialUsed, compute.ColWasteMaterials, compute.ColProcessDownTime} {
		v, err := compute.Sum(e.Table, col)
		if err != nil {
			slog.Warn("exporter: sum", "err", err)
			continue
		}
		totals = append(totals, sample(v, "column", string(col)))
	}
	mfs = append(mfs, gauge("summary_mean_ratio", "Mean KPI over all steps (0-1).", means...))
	mfs = append(mfs, gauge("summary_total", "Column total over all steps.", totals...))

	s := compute.Summarize(e.Table)
	mfs = append(mfs, gauge("summary_waste_percent", "Total waste over total material used, in percent.", sample(s.WastePct)))

	var targets, met []*dto.Metric
	for _, res := range s.Evaluate(tg) {
		targets = append(targets, sample(res.Target, "kpi", res.KPI))
		if res.Met != nil {
			v := 0.0
			if *res.Met {
				v = 1
			}
			met = append(met, sample(v, "kpi", res.KPI))
		}
	}
	mfs = append(mfs, gauge("target", "Configured KPI target.", targets...))
	mfs = append(mfs, gauge("target_met", "Whether the KPI meets its target (1) or not (0).", met...))

	// The text format rejects families without samples (empty table).
	out := mfs[:0]
	for _, mf := range mfs {
		if len(mf.Metric) > 0 {
			out = append(out, mf)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GetName() < out[j].GetName() })
	return out
}

// Write encodes mfs to w in the given exposition format.
func Write(w io.Writer, format expfmt.Format, mfs []*dto.MetricFamily) error {
	enc := expfmt.NewEncoder(w, format)
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// --- helpers ----------------------------------------------------------------

func stepSamples(t types.Table, col compute.Column) []*dto.Metric {
	out := make([]*dto.Metric, 0, len(t))
	for i, r := range t {
		v, ok := compute.Value(r, col)
		if !ok {
			continue
		}
		out = append(out, sample(v,
			"row", strconv.Itoa(i+1),
			"status", r.RunningStatus,
			"step", r.Step,
		))
	}
	return out
}

func gauge(name, help string, ms ...*dto.Metric) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(namespace + "_" + name),
		Help:   proto.String(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: ms,
	}
}

// sample builds a gauge sample. labels are name/value pairs, sorted by name.
func sample(v float64, labels ...string) *dto.Metric {
	m := &dto.Metric{Gauge: &dto.Gauge{Value: proto.Float64(v)}}
	for i := 0; i+1 < len(labels); i += 2 {
		m.Label = append(m.Label, &dto.LabelPair{
			Name:  proto.String(labels[i]),
			Value: proto.String(labels[i+1]),
		})
	}
	return m
}
