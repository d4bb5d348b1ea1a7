package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in        string
		hour, min int
		wantErr   bool
	}{
		{"06:00", 6, 0, false},
		{"23:59", 23, 59, false},
		{"00:00", 0, 0, false},
		{"6", 0, 0, true},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"ab:cd", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h, m, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, h)
			assert.Equal(t, tt.min, m)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/farmsight_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.APIPort)
	assert.Equal(t, "06:00", cfg.AdvanceAt)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 4, cfg.LifecycleWorkers)
	assert.Equal(t, []string{"owner", "manager", "agronomist"}, cfg.AlertRoles)
	assert.True(t, cfg.ListenerEnabled)
	assert.Equal(t, DefaultRanges(), cfg.Ranges)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("FARMSIGHT_DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RangeOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/farmsight_test")
	t.Setenv("RANGE_NITROGEN_MIN", "15")
	t.Setenv("RANGE_NITROGEN_MAX", "100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Range{Min: 15, Max: 100}, cfg.Ranges["nitrogen"])
	// Other parameters keep their defaults.
	assert.Equal(t, DefaultRanges()["ph"], cfg.Ranges["ph"])
}

func TestLoad_MalformedRangeOverrideFails(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/farmsight_test")
	t.Setenv("RANGE_PH_MIN", "acidic")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RANGE_PH_MIN")
}

func TestLoad_InvertedRangeFails(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/farmsight_test")
	t.Setenv("RANGE_MOISTURE_MIN", "80")
	t.Setenv("RANGE_MOISTURE_MAX", "20")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inverted")
}

func TestLoad_BadAdvanceAtFails(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/farmsight_test")
	t.Setenv("LIFECYCLE_ADVANCE_AT", "25:99")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadTimezoneFails(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/farmsight_test")
	t.Setenv("LIFECYCLE_TIMEZONE", "Mars/Olympus_Mons")

	_, err := Load()
	assert.Error(t, err)
}
