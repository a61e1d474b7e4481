package compute

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/oeeboard/oeeboard/pkg/types"
)

// chunkSize is the number of records one worker handles per task.
const chunkSize = 256

// ComputeMetrics derives the OEE components for every record and returns
// the augmented table in input order. records is not modified.
func ComputeMetrics(records []types.ProductionRecord) types.Table {
	out := make(types.Table, len(records))
	for i := range records {
		out[i] = computeRow(records[i])
	}
	logDegenerate(out)
	return out
}

// ComputeMetricsParallel is ComputeMetrics spread over at most workers
// goroutines. Each row is written to its own slot, so the result is
// identical to the sequential path regardless of scheduling.
// workers <= 0 uses GOMAXPROCS.
func ComputeMetricsParallel(ctx context.Context, records []types.ProductionRecord, workers int) (types.Table, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make(types.Table, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(records); start += chunkSize {
		start := start // per-iteration copy; module targets go 1.21 loop semantics
		end := min(start+chunkSize, len(records))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				out[i] = computeRow(records[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logDegenerate(out)
	return out, nil
}

func computeRow(rec types.ProductionRecord) types.Row {
	return types.Row{
		ProductionRecord: rec,
		Metrics:          Compute(InputFor(rec)).Metrics,
	}
}

// logDegenerate reports steps whose expected run time made OEE undefined.
func logDegenerate(t types.Table) {
	for _, r := range t {
		if r.ExpectedLotRunTimeHours <= 0 {
			slog.Debug("compute: expected run time not positive, OEE forced to 0",
				"step", r.Step, "expected_hours", r.ExpectedLotRunTimeHours)
		}
	}
}
