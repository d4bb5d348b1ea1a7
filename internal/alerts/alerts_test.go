package alerts

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignature_Deterministic(t *testing.T) {
	ts := time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC)
	a := []Violation{
		{Parameter: "ph", Status: StatusHigh},
		{Parameter: "nitrogen", Status: StatusLow},
	}
	b := []Violation{
		{Parameter: "nitrogen", Status: StatusLow},
		{Parameter: "ph", Status: StatusHigh},
	}

	assert.Equal(t, Signature(ts, a), Signature(ts, b))
	assert.Equal(t, "2026-04-02T10:30:00Z|nitrogen-LOW,ph-HIGH", Signature(ts, a))
}

func TestSignature_ChangesWithContent(t *testing.T) {
	ts := time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC)
	base := []Violation{{Parameter: "nitrogen", Status: StatusLow}}

	differentTime := Signature(ts.Add(time.Minute), base)
	differentSet := Signature(ts, []Violation{{Parameter: "nitrogen", Status: StatusHigh}})

	sig := Signature(ts, base)
	assert.NotEqual(t, sig, differentTime)
	assert.NotEqual(t, sig, differentSet)
}

func TestBuildMessage(t *testing.T) {
	violations := []Violation{
		{Parameter: "nitrogen", Value: 5, Status: StatusLow, ThresholdBreached: 10},
		{Parameter: "temperature", Value: 42.5, Status: StatusHigh, ThresholdBreached: 35},
	}

	msg := BuildMessage(violations)
	assert.Contains(t, msg, "nitrogen 5 below safe 10")
	assert.Contains(t, msg, "temperature 42.5 above safe 35")
	assert.LessOrEqual(t, len([]rune(msg)), 160)
}

func TestBuildMessage_TruncatesToTransportLimit(t *testing.T) {
	var violations []Violation
	for _, p := range []string{"nitrogen", "phosphorus", "potassium", "ph", "temperature", "moisture", "conductivity"} {
		violations = append(violations, Violation{
			Parameter: p, Value: 12345.67, Status: StatusHigh, ThresholdBreached: 99.99,
		})
	}

	msg := BuildMessage(violations)
	runes := []rune(msg)
	assert.Len(t, runes, 160)
	assert.True(t, strings.HasSuffix(msg, "…"))
}
