package alert_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cout970/cron-go/internal/alert"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0 ms"},
		{10 * time.Millisecond, "10 ms"},
		{1500 * time.Millisecond, "1 s, 500 ms"},
		{65 * time.Second, "1 m, 5 s"},
		{(3600 + 120) * time.Second, "1 h, 2 m"},
		{(86400 + 3600) * time.Second, "1 d, 1 h"},
		{90061 * time.Second, "1 d, 1 h"},
		{59999 * time.Millisecond, "59 s, 999 ms"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, alert.FormatDuration(c.in), "input %s", c.in)
	}
}
