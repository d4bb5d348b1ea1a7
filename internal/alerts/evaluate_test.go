package alerts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmsight/farmsight-data/internal/config"
)

var nitrogenOnly = config.RangeTable{
	"nitrogen": {Min: 10, Max: 25},
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		value      interface{}
		wantCount  int
		wantStatus ViolationStatus
		wantLimit  float64
	}{
		{"below range", 5.0, 1, StatusLow, 10},
		{"inside range", 18.0, 0, "", 0},
		{"above range", 30.0, 1, StatusHigh, 25},
		{"inclusive lower bound", 10.0, 0, "", 0},
		{"inclusive upper bound", 25.0, 0, "", 0},
		{"integer value", 5, 1, StatusLow, 10},
		{"numeric string", "30", 1, StatusHigh, 25},
		{"non-numeric value ignored", "n/a", 0, "", 0},
		{"nil value ignored", nil, 0, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reading := Reading{
				Parameters: map[string]interface{}{"nitrogen": tt.value},
				Timestamp:  time.Now(),
			}
			violations := Evaluate(reading, nitrogenOnly)

			require.Len(t, violations, tt.wantCount)
			if tt.wantCount > 0 {
				v := violations[0]
				assert.Equal(t, "nitrogen", v.Parameter)
				assert.Equal(t, tt.wantStatus, v.Status)
				assert.Equal(t, tt.wantLimit, v.ThresholdBreached)
			}
		})
	}
}

func TestEvaluate_AbsentParameterYieldsNothing(t *testing.T) {
	reading := Reading{
		Parameters: map[string]interface{}{"moisture": 99.0},
		Timestamp:  time.Now(),
	}
	assert.Empty(t, Evaluate(reading, nitrogenOnly))
}

func TestEvaluate_UntrackedParameterIgnored(t *testing.T) {
	reading := Reading{
		Parameters: map[string]interface{}{"nitrogen": 5.0, "salinity": 9000.0},
		Timestamp:  time.Now(),
	}
	violations := Evaluate(reading, nitrogenOnly)
	require.Len(t, violations, 1)
	assert.Equal(t, "nitrogen", violations[0].Parameter)
}

func TestEvaluate_DeterministicOrder(t *testing.T) {
	ranges := config.RangeTable{
		"nitrogen":    {Min: 10, Max: 25},
		"ph":          {Min: 5.5, Max: 7.5},
		"temperature": {Min: 15, Max: 35},
	}
	reading := Reading{
		Parameters: map[string]interface{}{
			"temperature": 40.0,
			"nitrogen":    5.0,
			"ph":          9.0,
		},
		Timestamp: time.Now(),
	}

	// Map iteration order must never leak into the result.
	for i := 0; i < 20; i++ {
		violations := Evaluate(reading, ranges)
		require.Len(t, violations, 3)
		assert.Equal(t, "nitrogen", violations[0].Parameter)
		assert.Equal(t, "ph", violations[1].Parameter)
		assert.Equal(t, "temperature", violations[2].Parameter)
	}
}
