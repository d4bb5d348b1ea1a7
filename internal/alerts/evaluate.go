package alerts

import (
	"sort"
	"strconv"

	"github.com/farmsight/farmsight-data/internal/config"
)

// Evaluate compares a reading against the safe-range table and returns one
// violation per parameter outside its band. Parameters absent from either
// side are skipped; non-numeric values are ignored rather than treated as
// errors, since partial or garbled readings must not crash the evaluator.
// The result is sorted by parameter name so the same violation set always
// serializes to the same signature.
func Evaluate(reading Reading, ranges config.RangeTable) []Violation {
	var violations []Violation
	for param, raw := range reading.Parameters {
		r, tracked := ranges[param]
		if !tracked {
			continue
		}
		value, ok := numericValue(raw)
		if !ok {
			continue
		}

		switch {
		case value < r.Min:
			violations = append(violations, Violation{
				Parameter:         param,
				Value:             value,
				Status:            StatusLow,
				ThresholdBreached: r.Min,
			})
		case value > r.Max:
			violations = append(violations, Violation{
				Parameter:         param,
				Value:             value,
				Status:            StatusHigh,
				ThresholdBreached: r.Max,
			})
		}
	}

	sort.Slice(violations, func(i, j int) bool {
		return violations[i].Parameter < violations[j].Parameter
	})
	return violations
}

// numericValue normalizes a decoded JSON parameter value to float64.
// Sensors and ingestion paths disagree on types (float, int, numeric
// string); anything else is not extractable.
func numericValue(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}
