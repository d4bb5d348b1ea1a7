package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAge(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		planted time.Time
		want    int
	}{
		{"planted today", time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC), 0},
		{"planted exactly 24h ago", now.Add(-24 * time.Hour), 1},
		{"planted ten days ago", time.Date(2026, 3, 5, 23, 59, 0, 0, time.UTC), 10},
		{"time of day never shifts the result", time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC), 1},
		{"planted in the future", time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Age(tt.planted, now))
		})
	}
}

func TestAge_MonotonicAcrossRecomputation(t *testing.T) {
	planted := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	prev := Age(planted, planted)
	for day := 1; day <= 40; day++ {
		age := Age(planted, planted.Add(time.Duration(day)*24*time.Hour))
		assert.GreaterOrEqual(t, age, prev)
		prev = age
	}
}

func TestResolve(t *testing.T) {
	stages := []Stage{
		{Label: "A", StartDuration: 0, EndDuration: 9},
		{Label: "B", StartDuration: 10, EndDuration: 19},
		{Label: "C", StartDuration: 20, EndDuration: 29},
	}

	tests := []struct {
		name string
		age  int
		want string
	}{
		{"first stage start", 0, "A"},
		{"inclusive upper bound", 9, "A"},
		{"boundary crossing", 10, "B"},
		{"last stage", 25, "C"},
		{"beyond table saturates to last stage", 99, "C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.age, stages)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_EmptyStages(t *testing.T) {
	_, err := Resolve(5, nil)
	require.ErrorIs(t, err, ErrNoStages)
}
