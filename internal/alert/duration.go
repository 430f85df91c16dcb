package alert

import (
	"fmt"
	"strings"
	"time"
)

// FormatDuration renders d as at most its two most significant non-zero
// units, e.g. "1 h, 2 m", "5 m, 20 s", "1 s, 133 ms", "10 ms". Used for the
// "{{ duration }}" alert template token.
func FormatDuration(d time.Duration) string {
	totalMS := d.Milliseconds()
	if totalMS <= 0 {
		return "0 ms"
	}

	const (
		msPerSec  = 1000
		msPerMin  = msPerSec * 60
		msPerHour = msPerMin * 60
		msPerDay  = msPerHour * 24
	)

	days := totalMS / msPerDay
	hours := (totalMS % msPerDay) / msPerHour
	minutes := (totalMS % msPerHour) / msPerMin
	seconds := (totalMS % msPerMin) / msPerSec
	millis := totalMS % msPerSec

	units := []struct {
		n      int64
		suffix string
	}{
		{days, "d"}, {hours, "h"}, {minutes, "m"}, {seconds, "s"}, {millis, "ms"},
	}

	var parts []string
	for _, u := range units {
		if len(parts) == 2 {
			break
		}
		if u.n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", u.n, u.suffix))
		}
	}
	return strings.Join(parts, ", ")
}
