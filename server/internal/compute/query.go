package compute

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oeeboard/oeeboard/pkg/types"
)

// Column names a numeric column of a computed table.
type Column string

// Derived columns.
const (
	ColAvailability Column = "availability"
	ColPerformance  Column = "performance"
	ColQuality      Column = "quality"
	ColOEE          Column = "oee"
)

// Raw numeric columns.
const (
	ColMaterialUsed       Column = "material_used_kg"
	ColWasteMaterials     Column = "waste_materials_kg"
	ColCurrentLotRunTime  Column = "current_lot_run_time_hours"
	ColExpectedLotRunTime Column = "expected_lot_run_time_hours"
	ColProcessDownTime    Column = "process_down_time_hours"
	ColFailureRate        Column = "failure_rate"
	ColUnitsProduced      Column = "units_produced"
)

// Value returns the numeric value of col in r. ok is false for an unknown column.
func Value(r types.Row, col Column) (v float64, ok bool) {
	switch col {
	case ColAvailability:
		return r.Availability, true
	case ColPerformance:
		return r.Performance, true
	case ColQuality:
		return r.Quality, true
	case ColOEE:
		return r.OEE, true
	case ColMaterialUsed:
		return r.MaterialUsedKG, true
	case ColWasteMaterials:
		return r.WasteMaterialsKG, true
	case ColCurrentLotRunTime:
		return r.CurrentLotRunTimeHours, true
	case ColExpectedLotRunTime:
		return r.ExpectedLotRunTimeHours, true
	case ColProcessDownTime:
		return r.ProcessDownTimeHours, true
	case ColFailureRate:
		return r.FailureRate, true
	case ColUnitsProduced:
		return float64(r.UnitsProduced), true
	default:
		return 0, false
	}
}

// Aggregate is the result of a mean/min/max style query. Valid is false when
// the query ran over no rows; Value is then meaningless and JSON-encodes as null.
type Aggregate struct {
	Value float64
	Valid bool
}

// Some returns a valid Aggregate holding v.
func Some(v float64) Aggregate { return Aggregate{Value: v, Valid: true} }

// NoData is the empty-subset aggregate.
var NoData = Aggregate{}

// Ptr returns a pointer to Value, or nil when the aggregate is invalid.
func (a Aggregate) Ptr() *float64 {
	if !a.Valid {
		return nil
	}
	v := a.Value
	return &v
}

// MarshalJSON encodes an invalid aggregate as null.
func (a Aggregate) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Ptr())
}

// UnmarshalJSON decodes null as an invalid aggregate.
func (a *Aggregate) UnmarshalJSON(b []byte) error {
	var v *float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*a = Aggregate{}
	if v != nil {
		*a = Some(*v)
	}
	return nil
}

// Filter selects rows by running status and minimum OEE.
type Filter struct {
	// Statuses is the set of allowed running statuses. nil allows every
	// status; a non-nil empty slice allows none.
	Statuses []string

	// MinOEE keeps rows with OEE >= MinOEE.
	MinOEE float64
}

// Match reports whether r passes the filter.
func (f Filter) Match(r types.Row) bool {
	if r.OEE < f.MinOEE {
		return false
	}
	if f.Statuses == nil {
		return true
	}
	for _, s := range f.Statuses {
		if r.RunningStatus == s {
			return true
		}
	}
	return false
}

// Apply returns the rows of t that pass f, in table order.
// The returned table shares no backing array with t.
func (f Filter) Apply(t types.Table) types.Table {
	out := make(types.Table, 0, len(t))
	for _, r := range t {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// ErrUnknownColumn is returned by Mean and Sum for a column that is not one
// of the Col constants.
var ErrUnknownColumn = errors.New("unknown column")

// Known reports whether col is one of the Col constants.
func (col Column) Known() bool {
	_, ok := Value(types.Row{}, col)
	return ok
}

// Mean returns the arithmetic mean of col over t. The mean of an empty
// table is NoData with a nil error.
func Mean(t types.Table, col Column) (Aggregate, error) {
	if !col.Known() {
		return NoData, fmt.Errorf("compute: mean %q: %w", col, ErrUnknownColumn)
	}
	return mean(t, col), nil
}

// Sum returns the total of col over t. The sum of an empty table is 0.
func Sum(t types.Table, col Column) (float64, error) {
	if !col.Known() {
		return 0, fmt.Errorf("compute: sum %q: %w", col, ErrUnknownColumn)
	}
	return sum(t, col), nil
}

// mean and sum assume col is known.
func mean(t types.Table, col Column) Aggregate {
	if len(t) == 0 {
		return NoData
	}
	return Some(sum(t, col) / float64(len(t)))
}

func sum(t types.Table, col Column) float64 {
	var total float64
	for _, r := range t {
		v, _ := Value(r, col)
		total += v
	}
	return total
}

// Extremes returns the rows with the highest and lowest OEE in t.
// Ties resolve to the first row in table order. ok is false when t is empty.
func Extremes(t types.Table) (best, worst types.Row, ok bool) {
	if len(t) == 0 {
		return types.Row{}, types.Row{}, false
	}
	best, worst = t[0], t[0]
	for _, r := range t[1:] {
		if r.OEE > best.OEE {
			best = r
		}
		if r.OEE < worst.OEE {
			worst = r
		}
	}
	return best, worst, true
}

// Lookup returns the first row whose Step equals step.
// Duplicate step identifiers are allowed in the source; the first one wins.
func Lookup(t types.Table, step string) (types.Row, bool) {
	for _, r := range t {
		if r.Step == step {
			return r, true
		}
	}
	return types.Row{}, false
}

// StatusCount is the number of rows with a given running status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Statuses returns the distinct running statuses in t in first-seen order.
func Statuses(t types.Table) []StatusCount {
	idx := make(map[string]int)
	out := make([]StatusCount, 0)
	for _, r := range t {
		i, ok := idx[r.RunningStatus]
		if !ok {
			idx[r.RunningStatus] = len(out)
			out = append(out, StatusCount{Status: r.RunningStatus})
			i = len(out) - 1
		}
		out[i].Count++
	}
	return out
}

// MaterialEfficiency returns (used - waste) / used for r.
// It is invalid when no material was used.
func MaterialEfficiency(r types.Row) Aggregate {
	if r.MaterialUsedKG == 0 {
		return NoData
	}
	return Some((r.MaterialUsedKG - r.WasteMaterialsKG) / r.MaterialUsedKG)
}

// WasteRatePct returns waste / used * 100 for r.
// It is invalid when no material was used.
func WasteRatePct(r types.Row) Aggregate {
	if r.MaterialUsedKG == 0 {
		return NoData
	}
	return Some(r.WasteMaterialsKG / r.MaterialUsedKG * 100)
}
