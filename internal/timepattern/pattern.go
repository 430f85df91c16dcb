package timepattern

import (
	"fmt"
	"time"
)

// Pattern is the exploded, seven-field calendar expression, e.g.
// "[Mon,Tue] *-*/2-01..04 12:00:00".
type Pattern struct {
	Second    Field
	Minute    Field
	Hour      Field
	DayOfWeek Field
	Day       Field
	Month     Field
	Year      Field
}

// Components is a zone-localized breakdown of a timestamp, in the field
// order a Pattern matches against.
type Components struct {
	Second, Minute, Hour uint32
	DayOfWeek            uint32 // Sun=0 .. Sat=6
	Day, Month, Year     uint32
}

// ComponentsOf extracts Components from t as observed in its own location.
func ComponentsOf(t time.Time) Components {
	return Components{
		Second:    uint32(t.Second()),
		Minute:    uint32(t.Minute()),
		Hour:      uint32(t.Hour()),
		DayOfWeek: uint32(t.Weekday()), // time.Sunday == 0
		Day:       uint32(t.Day()),
		Month:     uint32(t.Month()),
		Year:      uint32(t.Year()),
	}
}

// Matches reports whether every field of p accepts the corresponding
// component of c.
func (p Pattern) Matches(c Components) bool {
	return p.Second.Matches(c.Second) &&
		p.Minute.Matches(c.Minute) &&
		p.Hour.Matches(c.Hour) &&
		p.DayOfWeek.Matches(c.DayOfWeek) &&
		p.Day.Matches(c.Day) &&
		p.Month.Matches(c.Month) &&
		p.Year.Matches(c.Year)
}

// String re-emits the pattern in short form: "[dow] year-month-day hour:minute:second".
func (p Pattern) String() string {
	dow := ""
	if _, isAny := p.DayOfWeek.(Any); !isAny {
		dow = p.DayOfWeek.String() + " "
	}
	return fmt.Sprintf("%s%s-%s-%s %s:%s:%s",
		dow, p.Year, p.Month, p.Day, p.Hour, p.Minute, p.Second)
}

// Equal reports semantic equality between two patterns: equal on all seven
// fields, independent of how each was spelled.
func (p Pattern) Equal(o Pattern) bool {
	return fieldEqual(p.Second, o.Second) &&
		fieldEqual(p.Minute, o.Minute) &&
		fieldEqual(p.Hour, o.Hour) &&
		fieldEqual(p.DayOfWeek, o.DayOfWeek) &&
		fieldEqual(p.Day, o.Day) &&
		fieldEqual(p.Month, o.Month) &&
		fieldEqual(p.Year, o.Year)
}

func fieldEqual(a, b Field) bool {
	switch av := a.(type) {
	case Any:
		_, ok := b.(Any)
		return ok
	case Value:
		bv, ok := b.(Value)
		return ok && av == bv
	case Range:
		bv, ok := b.(Range)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		seen := make(map[uint32]int, len(av))
		for _, x := range av {
			seen[x]++
		}
		for _, x := range bv {
			seen[x]--
		}
		for _, n := range seen {
			if n != 0 {
				return false
			}
		}
		return true
	case Ratio:
		bv, ok := b.(Ratio)
		return ok && av == bv
	default:
		return false
	}
}
