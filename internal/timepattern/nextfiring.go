package timepattern

import "time"

// maxSearchDays bounds the day-of-week retry loop in NextFiring so an
// unsatisfiable pattern (e.g. day_of_week never matching day/month/year)
// cannot spin forever.
const maxSearchDays = 365

// NextFiring computes the next timestamp, in from's location, that p accepts, starting
// strictly after from. It advances field-by-field in order second -> minute
// -> hour -> day -> month -> year, propagating carries, then checks
// day_of_week; if it doesn't match, it adds one day and retries, up to
// maxSearchDays times. If the pattern cannot be satisfied within that many
// attempts, it returns from unchanged together with ok=false so the caller
// can log and retry later instead of looping forever.
func NextFiring(p Pattern, from time.Time) (time.Time, bool) {
	candidate := from.Add(time.Second).Truncate(time.Second)

	for attempt := 0; attempt < maxSearchDays; attempt++ {
		next, advanced := stepToCandidate(p, candidate)
		if !advanced {
			return next, false
		}
		if p.DayOfWeek.Matches(uint32(next.Weekday())) {
			return next, true
		}
		y, m, d := next.Date()
		candidate = time.Date(y, m, d, 0, 0, 0, 0, next.Location()).AddDate(0, 0, 1)
	}

	return from, false
}

// stepToCandidate composes get_next_valid_value across second, minute,
// hour, day, month, year, returning the first timestamp >= from that
// satisfies those six fields (day_of_week is checked by the caller).
func stepToCandidate(p Pattern, from time.Time) (time.Time, bool) {
	sec, carry := p.Second.NextValid(uint32(from.Second()), 60)
	minute, hour, day, month, year := uint32(from.Minute()), uint32(from.Hour()), uint32(from.Day()), uint32(from.Month()), uint32(from.Year())

	if carry {
		minute++
	}
	minute, carry = p.Minute.NextValid(minute%60, 60)
	if carry {
		hour++
	}
	hour, carry = p.Hour.NextValid(hour%24, 24)
	if carry {
		day++
	}

	daysInMonth := uint32(time.Date(int(year), time.Month(month)+1, 0, 0, 0, 0, 0, from.Location()).Day())
	day, carry = p.Day.NextValid(day, daysInMonth+1)
	if day == 0 {
		day = 1
	}
	if carry {
		month++
	}
	month, carry = p.Month.NextValid(month, 13)
	if month == 0 {
		month = 1
	}
	if carry {
		year++
	}
	year, _ = p.Year.NextValid(year, year+1)

	for {
		maxDay := uint32(time.Date(int(year), time.Month(month)+1, 0, 0, 0, 0, 0, from.Location()).Day())
		if day <= maxDay {
			break
		}
		day = 1
		month++
		if month > 12 {
			month = 1
			year++
		}
	}

	candidate := time.Date(int(year), time.Month(month), int(day), int(hour), int(minute), int(sec), 0, from.Location())
	if candidate.Before(from) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate, true
}
