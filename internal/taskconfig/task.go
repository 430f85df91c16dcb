// Package taskconfig holds the in-memory, validated shape of a scheduled
// task and its alert outcomes, independent of how it was read from disk.
package taskconfig

import (
	"errors"
	"time"

	"github.com/cout970/cron-go/internal/timepattern"
)

// ScheduleKind tags which variant of Schedule is populated.
type ScheduleKind int

const (
	// ScheduleEvery fires every Interval.
	ScheduleEvery ScheduleKind = iota
	// ScheduleWhen fires when Pattern matches the current time.
	ScheduleWhen
)

// Schedule is the Every{interval}/When{pattern} sum type.
// Exactly one of the two fields is meaningful, selected by Kind; use
// NewEverySchedule / NewWhenSchedule to construct one safely.
type Schedule struct {
	Kind     ScheduleKind
	Interval time.Duration
	Pattern  timepattern.Pattern
}

// NewEverySchedule builds an interval-based schedule.
func NewEverySchedule(interval time.Duration) Schedule {
	return Schedule{Kind: ScheduleEvery, Interval: interval}
}

// NewWhenSchedule builds a calendar-based schedule.
func NewWhenSchedule(p timepattern.Pattern) Schedule {
	return Schedule{Kind: ScheduleWhen, Pattern: p}
}

// Task is the parsed, validated form of one scheduled task.
type Task struct {
	Name             string
	Cmd              string
	Schedule         Schedule
	Timezone         *time.Location
	AvoidOverlapping bool
	RunAs            string // "user[:group]", empty means inherit current identity
	TimeLimit        time.Duration
	Shell            string
	WorkingDirectory string
	Env              map[string]string
	Stdout           string
	Stderr           string
}

// ErrMissingSchedule reports a task definition with neither Every nor When.
// The config-file conversion returns it; Validate already reports the same
// case as an error.
var ErrMissingSchedule = errors.New("task: schedule must be set")

// DefaultShell is used when a task does not specify one.
const DefaultShell = "/bin/sh"

// SanitizedName returns Name with characters unsafe for a file path
// replaced, for use in default stdout/stderr file names.
func (t Task) SanitizedName() string {
	out := make([]rune, 0, len(t.Name))
	for _, r := range t.Name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "task"
	}
	return string(out)
}

// DefaultStdoutPath and DefaultStderrPath follow the
// ".tmp/<sanitized-name>_{stdout,stderr}.log" convention.
func (t Task) DefaultStdoutPath() string {
	return ".tmp/" + t.SanitizedName() + "_stdout.log"
}

func (t Task) DefaultStderrPath() string {
	return ".tmp/" + t.SanitizedName() + "_stderr.log"
}

// EffectiveShell returns Shell, defaulting to DefaultShell.
func (t Task) EffectiveShell() string {
	if t.Shell == "" {
		return DefaultShell
	}
	return t.Shell
}

// EffectiveStdout and EffectiveStderr resolve the configured path or the
// per-task default.
func (t Task) EffectiveStdout() string {
	if t.Stdout == "" {
		return t.DefaultStdoutPath()
	}
	return t.Stdout
}

func (t Task) EffectiveStderr() string {
	if t.Stderr == "" {
		return t.DefaultStderrPath()
	}
	return t.Stderr
}
