package lifecycle

import (
	"errors"
	"math"
	"time"
)

// ErrNoStages is returned when a plant has an empty stage table, so the
// caller can surface misconfiguration instead of defaulting to "no stage".
var ErrNoStages = errors.New("no resolvable stage: stage table is empty")

// Age returns the whole-day age of a plant. Both dates are normalized to
// midnight UTC before subtracting so time-of-day never shifts the result:
// a plant planted today is 0 days old, one planted exactly 24h ago is 1.
// A planted date in the future yields a negative age; callers treat that as
// a data precondition gap and skip the plant.
func Age(plantedDate, now time.Time) int {
	planted := midnightUTC(plantedDate)
	today := midnightUTC(now)
	return int(math.Ceil(today.Sub(planted).Hours() / 24))
}

// Resolve returns the label of the first stage whose inclusive
// [StartDuration, EndDuration] interval contains ageDays. Ages beyond the
// last interval saturate to the last stage label — the plant stays in its
// final stage rather than erroring.
func Resolve(ageDays int, stages []Stage) (string, error) {
	if len(stages) == 0 {
		return "", ErrNoStages
	}
	for _, s := range stages {
		if ageDays >= s.StartDuration && ageDays <= s.EndDuration {
			return s.Label, nil
		}
	}
	return stages[len(stages)-1].Label, nil
}

func midnightUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
