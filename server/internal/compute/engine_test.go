package compute

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/oeeboard/oeeboard/pkg/types"
)

// makeRecord builds a record with the run-time fields that drive OEE.
func makeRecord(step, status string, current, expected, down, failure float64) types.ProductionRecord {
	return types.ProductionRecord{
		Step:                    step,
		RunningStatus:           status,
		CurrentLotNumber:        "LOT-" + step,
		MaterialUsedKG:          100,
		WasteMaterialsKG:        4,
		CurrentLotRunTimeHours:  current,
		ExpectedLotRunTimeHours: expected,
		ProcessDownTimeHours:    down,
		FailureRate:             failure,
		UnitsProduced:           500,
	}
}

// sampleRecords returns a small mixed dataset including degenerate rows.
func sampleRecords() []types.ProductionRecord {
	return []types.ProductionRecord{
		makeRecord("1", "Running", 8, 10, 1, 0.02),
		makeRecord("2", "Running", 12, 10, 0, 0),
		makeRecord("3", "Stopped", 5, 0, 1, 0.1),
		makeRecord("4", "Idle", 6, 8, 3, 0.05),
		makeRecord("5", "Stopped", 0, 0, 0, 0),
	}
}

func TestComputeMetrics_PreservesOrderAndRecords(t *testing.T) {
	recs := sampleRecords()
	table := ComputeMetrics(recs)

	if len(table) != len(recs) {
		t.Fatalf("len = %d, want %d", len(table), len(recs))
	}
	for i, r := range table {
		if r.ProductionRecord != recs[i] {
			t.Errorf("row %d record = %+v, want %+v", i, r.ProductionRecord, recs[i])
		}
	}
}

func TestComputeMetrics_ReferenceRow(t *testing.T) {
	table := ComputeMetrics(sampleRecords())
	r := table[0]
	if !almostEqual(r.Availability, 0.8, 1e-9) ||
		!almostEqual(r.Performance, 0.9, 1e-9) ||
		!almostEqual(r.Quality, 0.98, 1e-9) ||
		!almostEqual(r.OEE, 0.7056, 1e-9) {
		t.Errorf("row 0 metrics = %+v, want {0.8 0.9 0.98 0.7056}", r.Metrics)
	}
}

func TestComputeMetrics_AllInRange(t *testing.T) {
	for i, r := range ComputeMetrics(sampleRecords()) {
		for _, v := range []float64{r.Availability, r.Performance, r.Quality, r.OEE} {
			if math.IsNaN(v) || v < 0 || v > 1 {
				t.Errorf("row %d: metric %v outside [0,1]", i, v)
			}
		}
		if r.ExpectedLotRunTimeHours == 0 && r.OEE != 0 {
			t.Errorf("row %d: OEE = %v with zero expected run time, want 0", i, r.OEE)
		}
	}
}

func TestComputeMetrics_Empty(t *testing.T) {
	table := ComputeMetrics(nil)
	if len(table) != 0 {
		t.Errorf("len = %d, want 0", len(table))
	}
}

func TestComputeMetrics_Deterministic(t *testing.T) {
	a := ComputeMetrics(sampleRecords())
	b := ComputeMetrics(sampleRecords())
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("row %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestComputeMetricsParallel_MatchesSequential(t *testing.T) {
	// Enough rows to span several chunks.
	recs := make([]types.ProductionRecord, 0, 3*chunkSize+17)
	for i := 0; i < cap(recs); i++ {
		recs = append(recs, makeRecord(
			fmt.Sprint(i), "Running",
			float64(i%13), float64(i%11), float64(i%3)*0.5, float64(i%7)/10,
		))
	}

	want := ComputeMetrics(recs)
	got, err := ComputeMetricsParallel(context.Background(), recs, 4)
	if err != nil {
		t.Fatalf("ComputeMetricsParallel: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: parallel %+v, sequential %+v", i, got[i], want[i])
		}
	}
}

func TestComputeMetricsParallel_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ComputeMetricsParallel(ctx, sampleRecords(), 2)
	if err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}

func TestComputeMetricsParallel_DefaultWorkers(t *testing.T) {
	got, err := ComputeMetricsParallel(context.Background(), sampleRecords(), 0)
	if err != nil {
		t.Fatalf("ComputeMetricsParallel: %v", err)
	}
	if len(got) != len(sampleRecords()) {
		t.Errorf("len = %d, want %d", len(got), len(sampleRecords()))
	}
}
