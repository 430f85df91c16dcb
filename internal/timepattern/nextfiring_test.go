package timepattern

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextFiringDailyMidnight(t *testing.T) {
	p, err := ParseShort("* *-*-* 00:00:00")
	require.NoError(t, err)

	from := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	next, ok := NextFiring(p, from)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), next)

	after, ok := NextFiring(p, next)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), after)
}

func TestNextFiringWeeklyMonday(t *testing.T) {
	p, err := ParseShort("[Mon] *-*-* 09:00:00")
	require.NoError(t, err)

	// Wednesday 10:00 -> next Monday 09:00, no intervening firing.
	from := time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC) // a Wednesday
	next, ok := NextFiring(p, from)
	require.True(t, ok)
	assert.Equal(t, time.Monday, next.Weekday())
	assert.Equal(t, 9, next.Hour())
	assert.True(t, next.After(from))
	assert.LessOrEqual(t, next.Sub(from), 7*24*time.Hour)
}

func TestNextFiringCrossesShortMonthIntoLongerOne(t *testing.T) {
	// Hour-only constraint, everything else Any: the night before April
	// rolls into May must land on May 1st, not wrap backwards into April
	// using March's day count.
	p, err := ParseShort("* *-*-* 05:00:00")
	require.NoError(t, err)

	from := time.Date(2024, 4, 30, 23, 0, 0, 0, time.UTC)
	next, ok := NextFiring(p, from)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 1, 5, 0, 0, 0, time.UTC), next)
}

func TestNextFiringUnsatisfiablePatternStops(t *testing.T) {
	// day_of_week = Sunday only, but day locked to 1, month locked to a
	// month/year combination where the 1st is never a Sunday within the
	// search window is hard to construct deterministically, so instead we
	// exercise the cap directly with a day_of_week that never matches.
	p := Pattern{
		Second:    Value(0),
		Minute:    Value(0),
		Hour:      Value(0),
		Day:       Any{},
		Month:     Any{},
		Year:      Any{},
		DayOfWeek: List{}, // empty list never matches
	}
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, ok := NextFiring(p, from)
	assert.False(t, ok)
}
