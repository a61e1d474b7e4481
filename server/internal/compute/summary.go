package compute

import "github.com/oeeboard/oeeboard/pkg/types"

// Summary is the KPI block shown at the top of the dashboard.
type Summary struct {
	Steps            int       `json:"steps"`
	NoData           bool      `json:"no_data"`
	MeanOEE          Aggregate `json:"mean_oee"`
	MeanAvailability Aggregate `json:"mean_availability"`
	MeanPerformance  Aggregate `json:"mean_performance"`
	MeanQuality      Aggregate `json:"mean_quality"`
	TotalUnits       float64   `json:"total_units"`
	TotalMaterialKG  float64   `json:"total_material_kg"`
	TotalWasteKG     float64   `json:"total_waste_kg"`

	// WastePct is total waste over total material in percent, 0 when no
	// material was used.
	WastePct float64 `json:"waste_pct"`

	MinOEE    Aggregate `json:"min_oee"`
	MaxOEE    Aggregate `json:"max_oee"`
	BestStep  *string   `json:"best_step"`
	WorstStep *string   `json:"worst_step"`
}

// Summarize computes the KPI block over t. For an empty t every mean and
// extreme is invalid and NoData is set; sums are 0.
func Summarize(t types.Table) Summary {
	s := Summary{
		Steps:            len(t),
		NoData:           len(t) == 0,
		MeanOEE:          mean(t, ColOEE),
		MeanAvailability: mean(t, ColAvailability),
		MeanPerformance:  mean(t, ColPerformance),
		MeanQuality:      mean(t, ColQuality),
		TotalUnits:       sum(t, ColUnitsProduced),
		TotalMaterialKG:  sum(t, ColMaterialUsed),
		TotalWasteKG:     sum(t, ColWasteMaterials),
	}
	if s.TotalMaterialKG > 0 {
		s.WastePct = s.TotalWasteKG / s.TotalMaterialKG * 100
	}
	if best, worst, ok := Extremes(t); ok {
		s.MaxOEE = Some(best.OEE)
		s.MinOEE = Some(worst.OEE)
		s.BestStep = &best.Step
		s.WorstStep = &worst.Step
	}
	return s
}

// Targets are the KPI goals the dashboard compares against. Ratios are 0–1;
// MaxWastePct is a percentage.
type Targets struct {
	OEE          float64 `yaml:"oee" json:"oee"`
	Availability float64 `yaml:"availability" json:"availability"`
	Performance  float64 `yaml:"performance" json:"performance"`
	Quality      float64 `yaml:"quality" json:"quality"`
	MaxWastePct  float64 `yaml:"max_waste_pct" json:"max_waste_pct"`
}

// DefaultTargets are the usual plant goals: OEE 85%, availability 90%,
// performance 95%, quality 99%, waste under 5%.
var DefaultTargets = Targets{
	OEE:          0.85,
	Availability: 0.90,
	Performance:  0.95,
	Quality:      0.99,
	MaxWastePct:  5,
}

// TargetResult compares one KPI to its goal. Met is nil when the KPI has
// no data.
type TargetResult struct {
	KPI    string    `json:"kpi"`
	Value  Aggregate `json:"value"`
	Target float64   `json:"target"`
	Met    *bool     `json:"met"`
}

// Evaluate compares the summary's means against the targets.
func (s Summary) Evaluate(t Targets) []TargetResult {
	waste := NoData
	if s.TotalMaterialKG > 0 {
		waste = Some(s.WastePct)
	}
	return []TargetResult{
		atLeast("oee", s.MeanOEE, t.OEE),
		atLeast("availability", s.MeanAvailability, t.Availability),
		atLeast("performance", s.MeanPerformance, t.Performance),
		atLeast("quality", s.MeanQuality, t.Quality),
		below("waste_pct", waste, t.MaxWastePct),
	}
}

func atLeast(kpi string, v Aggregate, target float64) TargetResult {
	res := TargetResult{KPI: kpi, Value: v, Target: target}
	if v.Valid {
		met := v.Value >= target
		res.Met = &met
	}
	return res
}

func below(kpi string, v Aggregate, target float64) TargetResult {
	res := TargetResult{KPI: kpi, Value: v, Target: target}
	if v.Valid {
		met := v.Value < target
		res.Met = &met
	}
	return res
}
