package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmsight/farmsight-data/internal/config"
)

func testScheduler(t *testing.T, store *fakeStore) *Scheduler {
	t.Helper()
	cfg := &config.Config{AdvanceAt: "06:00", Timezone: "UTC"}
	return NewScheduler(&Deps{Plants: store, Events: store}, cfg, testLogger())
}

func TestScheduler_NextRunTime(t *testing.T) {
	s := testScheduler(t, newFakeStore())

	beforeSix := time.Date(2026, 7, 1, 4, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 7, 1, 6, 0, 0, 0, time.UTC), s.nextRunTime(beforeSix))

	afterSix := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 7, 2, 6, 0, 0, 0, time.UTC), s.nextRunTime(afterSix))

	exactlySix := time.Date(2026, 7, 1, 6, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 7, 2, 6, 0, 0, 0, time.UTC), s.nextRunTime(exactlySix))
}

func TestScheduler_TriggerNow(t *testing.T) {
	now := time.Now()
	store := newFakeStore(Plant{
		ID:          "p1",
		PlantedDate: datePtr(now.AddDate(0, 0, -10)),
		Stages:      growStages,
		AgeDays:     5,
		Status:      "Seedling",
	})
	s := testScheduler(t, store)

	result, err := s.TriggerNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	status := s.Status()
	require.NotNil(t, status.LastRun)
	assert.Equal(t, 1, status.LastRun.Updated)
}

func TestScheduler_TriggerNowRejectsOverlap(t *testing.T) {
	s := testScheduler(t, newFakeStore())

	// Simulate a run holding the guard.
	s.runMu.Lock()
	defer s.runMu.Unlock()

	_, err := s.TriggerNow(context.Background())
	require.ErrorIs(t, err, ErrRunInProgress)
}
