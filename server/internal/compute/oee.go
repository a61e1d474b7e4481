package compute

import (
	"math"

	"github.com/oeeboard/oeeboard/pkg/types"
)

// Class constants returned by the OEE calculator.
const (
	ClassWorldClass = "world_class"
	ClassTypical    = "typical"
	ClassLow        = "low"
)

// Thresholds that map an OEE value (0–1) to a class.
const (
	ThresholdWorldClass = 0.85
	ThresholdTypical    = 0.60
)

// Input holds the raw run-time and failure figures for one production step.
type Input struct {
	// CurrentRunHours is the time the current lot has actually run.
	CurrentRunHours float64

	// ExpectedRunHours is the planned run time for the lot. A value of 0
	// makes availability and performance undefined.
	ExpectedRunHours float64

	// DownTimeHours is the time lost to process downtime.
	DownTimeHours float64

	// FailureRate is the defective fraction of output, nominally 0–1.
	FailureRate float64
}

// Output is the result of the OEE calculation.
type Output struct {
	types.Metrics

	// Class is the OEE band derived from Metrics.OEE.
	Class string

	// AvailabilityDefined and PerformanceDefined report whether the raw
	// ratio had a usable denominator. When false the component is 0.
	AvailabilityDefined bool
	PerformanceDefined  bool
}

// InputFor extracts the OEE inputs from a production record.
func InputFor(rec types.ProductionRecord) Input {
	return Input{
		CurrentRunHours:  rec.CurrentLotRunTimeHours,
		ExpectedRunHours: rec.ExpectedLotRunTimeHours,
		DownTimeHours:    rec.ProcessDownTimeHours,
		FailureRate:      rec.FailureRate,
	}
}

// Compute calculates the OEE components for one step.
//
//	availability = clamp(current / expected)
//	performance  = clamp((expected - downtime) / expected)
//	quality      = clamp(1 - failure_rate)
//	oee          = availability * performance * quality
//
// Undefined ratios (zero denominator, NaN or infinite operands) count as 0.
// A non-finite product is replaced by 0, so every output is in [0, 1].
func Compute(in Input) Output {
	avail, availOK := ratio(in.CurrentRunHours, in.ExpectedRunHours)
	perf, perfOK := ratio(in.ExpectedRunHours-in.DownTimeHours, in.ExpectedRunHours)
	qual, qualOK := finite(1 - in.FailureRate)

	m := types.Metrics{
		Availability: component(avail, availOK),
		Performance:  component(perf, perfOK),
		Quality:      component(qual, qualOK),
	}
	m.OEE = m.Availability * m.Performance * m.Quality
	if math.IsNaN(m.OEE) || math.IsInf(m.OEE, 0) {
		m.OEE = 0
	}

	return Output{
		Metrics:             m,
		Class:               Classify(m.OEE),
		AvailabilityDefined: availOK,
		PerformanceDefined:  perfOK,
	}
}

// Classify maps an OEE value (0–1) to a named band.
func Classify(oee float64) string {
	switch {
	case oee >= ThresholdWorldClass:
		return ClassWorldClass
	case oee >= ThresholdTypical:
		return ClassTypical
	default:
		return ClassLow
	}
}

// ratio divides num by den, reporting false when the result is undefined.
func ratio(num, den float64) (float64, bool) {
	if den == 0 {
		return 0, false
	}
	return finite(num / den)
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// component resolves an undefined ratio to 0 and clamps the rest.
func component(v float64, ok bool) float64 {
	if !ok {
		return 0
	}
	return clamp01(v)
}

// clamp01 restricts v to the range [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
