package alerts

import (
	"strconv"
	"strings"

	"github.com/oeeboard/oeeboard/pkg/types"
	"github.com/oeeboard/oeeboard/server/internal/compute"
)

// evalCondition evaluates a rule condition string against one computed row.
//
// Supported expressions (field operator value):
//
//	oee < 0.6
//	availability < 0.9
//	performance < 0.95
//	quality < 0.99
//	failure_rate > 0.05
//	waste_rate > 5
//	downtime_hours >= 2
//	units < 100
//	status == Stopped
//	status != Running
//	class == low
//
// Returns (fires bool, triggering value float64).
// Returns (false, 0) if the expression cannot be parsed or the field is unknown.
// String comparisons take the rest of the expression as the value, so
// "status == Under maintenance" works.
func evalCondition(cond string, r types.Row) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) < 3 {
		return false, 0
	}
	field, op := parts[0], parts[1]

	switch field {
	case "status", "class":
		rhs := strings.Join(parts[2:], " ")
		lhs := r.RunningStatus
		if field == "class" {
			lhs = compute.Classify(r.OEE)
		}
		switch op {
		case "==":
			return lhs == rhs, 0
		case "!=":
			return lhs != rhs, 0
		}
		return false, 0

	default:
		if len(parts) != 3 {
			return false, 0
		}
		v, ok := numericField(field, r)
		if !ok {
			return false, 0
		}
		threshold, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return false, 0
		}
		return compareFloat(v, op, threshold), v
	}
}

// numericField maps a field name to its value in the row. ok is false for
// unknown fields and for ratios that are undefined for this row.
func numericField(field string, r types.Row) (float64, bool) {
	switch field {
	case "oee":
		return r.OEE, true
	case "availability":
		return r.Availability, true
	case "performance":
		return r.Performance, true
	case "quality":
		return r.Quality, true
	case "failure_rate":
		return r.FailureRate, true
	case "waste_rate":
		a := compute.WasteRatePct(r)
		return a.Value, a.Valid
	case "downtime_hours":
		return r.ProcessDownTimeHours, true
	case "units":
		return float64(r.UnitsProduced), true
	case "material_used_kg":
		return r.MaterialUsedKG, true
	case "waste_kg":
		return r.WasteMaterialsKG, true
	default:
		return 0, false
	}
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	case "!=":
		return v != threshold
	default:
		return false
	}
}
