// Package clock abstracts wall-clock access so the supervisor's readiness
// checks can be driven by fixed timestamps in tests instead of real time.
package clock

import (
	"time"

	"github.com/cout970/cron-go/internal/timepattern"
)

// Clock is the minimal time source the supervisor depends on.
type Clock interface {
	Now() time.Time
}

// Real returns the system clock.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Fixed is a Clock that always returns the same instant, for tests.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// ComponentsIn converts t into the field components used for pattern
// matching, in the given timezone (defaulting to UTC when loc is nil).
func ComponentsIn(loc *time.Location, t time.Time) timepattern.Components {
	if loc == nil {
		loc = time.UTC
	}
	return timepattern.ComponentsOf(t.In(loc))
}
