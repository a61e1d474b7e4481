// Package dataset wires the loader, the metrics engine and the store into
// the single load → compute → cache step the server runs at startup.
package dataset

import (
	"context"
	"log/slog"
	"time"

	"github.com/oeeboard/oeeboard/pkg/types"
	"github.com/oeeboard/oeeboard/server/internal/compute"
	"github.com/oeeboard/oeeboard/server/internal/loader"
	"github.com/oeeboard/oeeboard/server/internal/store"
)

// Source identifies one production spreadsheet and how to process it.
type Source struct {
	Path    string
	Sheet   string
	Comma   rune
	Workers int
}

// Key is the store key for src.
func (src Source) Key() string { return store.SourceKey(src.Path) }

// Build loads and computes src without touching any cache.
func Build(ctx context.Context, src Source) (types.Table, error) {
	start := time.Now()
	recs, err := loader.Load(src.Path, loader.Options{Sheet: src.Sheet, Comma: src.Comma})
	if err != nil {
		return nil, err
	}
	t, err := compute.ComputeMetricsParallel(ctx, recs, src.Workers)
	if err != nil {
		return nil, err
	}
	slog.Info("dataset: metrics computed",
		"path", src.Path, "rows", len(t), "elapsed", time.Since(start))
	return t, nil
}

// Load returns the cached dataset for src, building it on first use.
func Load(ctx context.Context, st *store.Store, src Source) (*store.Entry, error) {
	return st.GetOrLoad(src.Key(), func() (types.Table, error) {
		return Build(ctx, src)
	})
}
