package compute

import "testing"

func TestSummarize(t *testing.T) {
	s := Summarize(ComputeMetrics(sampleRecords()))

	if s.Steps != 5 || s.NoData {
		t.Fatalf("Steps/NoData = %d/%v, want 5/false", s.Steps, s.NoData)
	}
	if s.TotalUnits != 2500 {
		t.Errorf("TotalUnits = %v, want 2500", s.TotalUnits)
	}
	if !almostEqual(s.WastePct, 4, 1e-9) {
		t.Errorf("WastePct = %v, want 4", s.WastePct)
	}
	if s.BestStep == nil || *s.BestStep != "2" {
		t.Errorf("BestStep = %v, want 2", s.BestStep)
	}
	if s.WorstStep == nil || *s.WorstStep != "3" {
		t.Errorf("WorstStep = %v, want 3", s.WorstStep)
	}
	if !s.MaxOEE.Valid || s.MaxOEE.Value != 1 {
		t.Errorf("MaxOEE = %+v, want 1", s.MaxOEE)
	}
	if !s.MinOEE.Valid || s.MinOEE.Value != 0 {
		t.Errorf("MinOEE = %+v, want 0", s.MinOEE)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if !s.NoData {
		t.Error("NoData = false, want true")
	}
	for name, a := range map[string]Aggregate{
		"mean_oee":          s.MeanOEE,
		"mean_availability": s.MeanAvailability,
		"mean_performance":  s.MeanPerformance,
		"mean_quality":      s.MeanQuality,
		"min_oee":           s.MinOEE,
		"max_oee":           s.MaxOEE,
	} {
		if a.Valid {
			t.Errorf("%s = %+v, want no data", name, a)
		}
	}
	if s.BestStep != nil || s.WorstStep != nil {
		t.Error("best/worst step should be nil for empty table")
	}
	if s.TotalUnits != 0 || s.WastePct != 0 {
		t.Errorf("sums = %v/%v, want 0/0", s.TotalUnits, s.WastePct)
	}
}

func TestSummary_Evaluate(t *testing.T) {
	s := Summarize(ComputeMetrics(sampleRecords()))
	res := s.Evaluate(DefaultTargets)
	if len(res) != 5 {
		t.Fatalf("len = %d, want 5", len(res))
	}
	byKPI := map[string]TargetResult{}
	for _, r := range res {
		byKPI[r.KPI] = r
	}
	if m := byKPI["oee"].Met; m == nil || *m {
		t.Errorf("oee met = %v, want false", m)
	}
	// 4% waste is under the 5% goal.
	if m := byKPI["waste_pct"].Met; m == nil || !*m {
		t.Errorf("waste_pct met = %v, want true", m)
	}
}

func TestSummary_Evaluate_NoData(t *testing.T) {
	for _, r := range Summarize(nil).Evaluate(DefaultTargets) {
		if r.Met != nil {
			t.Errorf("%s met = %v, want nil for empty table", r.KPI, *r.Met)
		}
	}
}
