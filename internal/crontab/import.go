// Package crontab converts a traditional 5-field crontab file into task
// definitions this scheduler understands. Each line becomes one task; a
// contiguous block of "#"-prefixed comment lines immediately above a
// crontab line becomes that task's name.
package crontab

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/cout970/cron-go/internal/configfile"
	"github.com/cout970/cron-go/internal/timepattern"
)

// ImportError reports one crontab line that could not be converted. Lines
// that fail to import are skipped, not fatal — the rest of the file is
// still imported.
type ImportError struct {
	Line   int
	Source string
	Err    error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Source)
}

func (e *ImportError) Unwrap() error { return e.Err }

// Import reads a crontab file from r and returns one TaskDefinition per
// importable line, plus an ImportError for every line that was skipped.
func Import(r io.Reader) ([]configfile.TaskDefinition, []*ImportError) {
	var (
		tasks     []configfile.TaskDefinition
		errs      []*ImportError
		comments  []string
		lineNo    int
		anonymous int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			comments = nil
			continue
		}
		if strings.HasPrefix(line, "#") {
			comments = append(comments, strings.TrimSpace(strings.TrimPrefix(line, "#")))
			continue
		}

		td, err := importLine(line)
		if err != nil {
			errs = append(errs, &ImportError{Line: lineNo, Source: line, Err: err})
			comments = nil
			continue
		}

		if name := strings.Join(comments, " "); name != "" {
			td.Name = name
		} else {
			anonymous++
			td.Name = fmt.Sprintf("crontab-import-%d", anonymous)
		}
		tasks = append(tasks, td)
		comments = nil
	}

	return tasks, errs
}

// importLine parses one non-comment, non-blank crontab line: five schedule
// fields followed by the command to run.
func importLine(line string) (configfile.TaskDefinition, error) {
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return configfile.TaskDefinition{}, fmt.Errorf("expected 5 schedule fields followed by a command")
	}

	schedule := strings.Join(fields[:5], " ")
	if _, err := cron.ParseStandard(schedule); err != nil {
		return configfile.TaskDefinition{}, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	pattern, err := toPattern(fields[0], fields[1], fields[2], fields[3], fields[4])
	if err != nil {
		return configfile.TaskDefinition{}, err
	}

	return configfile.TaskDefinition{
		Cmd:  strings.Join(fields[5:], " "),
		When: &configfile.TimePatternYAML{Long: explodedFromPattern(pattern)},
	}, nil
}

func toPattern(minute, hour, dom, month, dow string) (timepattern.Pattern, error) {
	minField, err := parseCronField(minute, 0, 59, false)
	if err != nil {
		return timepattern.Pattern{}, fmt.Errorf("minute: %w", err)
	}
	hourField, err := parseCronField(hour, 0, 23, false)
	if err != nil {
		return timepattern.Pattern{}, fmt.Errorf("hour: %w", err)
	}
	domField, err := parseCronField(dom, 1, 31, false)
	if err != nil {
		return timepattern.Pattern{}, fmt.Errorf("day of month: %w", err)
	}
	monthField, err := parseCronField(month, 1, 12, false)
	if err != nil {
		return timepattern.Pattern{}, fmt.Errorf("month: %w", err)
	}
	dowField, err := parseCronField(dow, 0, 6, true)
	if err != nil {
		return timepattern.Pattern{}, fmt.Errorf("day of week: %w", err)
	}

	return timepattern.Pattern{
		Second:    timepattern.Value(0),
		Minute:    minField,
		Hour:      hourField,
		Day:       domField,
		Month:     monthField,
		DayOfWeek: dowField,
		Year:      timepattern.Any{},
	}, nil
}

var monthNames = map[string]uint32{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

var dayNames = map[string]uint32{
	"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6,
}

// parseCronField translates one crontab field (*, N, N-M, */S, N-M/S, or a
// comma-separated combination of those) into a timepattern.Field. Combined
// forms that our Field model cannot represent structurally (mixed lists of
// ranges and steps) are expanded into an explicit value list.
func parseCronField(s string, min, max uint32, dow bool) (timepattern.Field, error) {
	s = strings.ToLower(s)
	if s == "*" {
		return timepattern.Any{}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) == 1 {
		return parseCronPart(parts[0], min, max, dow)
	}

	var values []uint32
	seen := map[uint32]bool{}
	for _, part := range parts {
		f, err := parseCronPart(part, min, max, dow)
		if err != nil {
			return nil, err
		}
		for v := min; v <= max; v++ {
			if f.Matches(v) && !seen[v] {
				seen[v] = true
				values = append(values, v)
			}
		}
	}
	return timepattern.List(values), nil
}

func parseCronPart(s string, min, max uint32, dow bool) (timepattern.Field, error) {
	if strings.Contains(s, "/") {
		base, stepStr := cutOnce(s, "/")
		step, err := strconv.ParseUint(stepStr, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid step %q", stepStr)
		}
		if base == "*" {
			return timepattern.Ratio{Divisor: uint32(step), Offset: 0}, nil
		}
		from, to, err := parseCronRange(base, min, max, dow)
		if err != nil {
			return nil, err
		}
		var values []uint32
		for v := from; v <= to; v += uint32(step) {
			values = append(values, v)
		}
		return timepattern.List(values), nil
	}

	if strings.Contains(s, "-") {
		from, to, err := parseCronRange(s, min, max, dow)
		if err != nil {
			return nil, err
		}
		return timepattern.Range{From: from, To: to}, nil
	}

	v, err := parseCronAtom(s, dow)
	if err != nil {
		return nil, err
	}
	return timepattern.Value(v), nil
}

func parseCronRange(s string, min, max uint32, dow bool) (uint32, uint32, error) {
	fromStr, toStr := cutOnce(s, "-")
	from, err := parseCronAtom(fromStr, dow)
	if err != nil {
		return 0, 0, err
	}
	to, err := parseCronAtom(toStr, dow)
	if err != nil {
		return 0, 0, err
	}
	if from < min || to > max {
		return 0, 0, fmt.Errorf("range %q out of bounds [%d,%d]", s, min, max)
	}
	return from, to, nil
}

func parseCronAtom(s string, dow bool) (uint32, error) {
	names := monthNames
	if dow {
		names = dayNames
	}
	if n, ok := names[s]; ok {
		return n, nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", s)
	}
	if dow && n == 7 {
		n = 0 // crontab accepts 7 as an alias for Sunday
	}
	return uint32(n), nil
}

func cutOnce(s, sep string) (string, string) {
	before, after, _ := strings.Cut(s, sep)
	return before, after
}

func explodedFromPattern(p timepattern.Pattern) *configfile.ExplodedTimePatternYAML {
	return &configfile.ExplodedTimePatternYAML{
		Second:    fieldYAML(p.Second),
		Minute:    fieldYAML(p.Minute),
		Hour:      fieldYAML(p.Hour),
		Day:       fieldYAML(p.Day),
		Month:     fieldYAML(p.Month),
		Year:      fieldYAML(p.Year),
		DayOfWeek: fieldYAML(p.DayOfWeek),
	}
}

// fieldYAML renders f back as the short-form field text configfile already
// knows how to parse, so an imported task round-trips through the same
// YAML decoder as a hand-written one.
func fieldYAML(f timepattern.Field) *configfile.FieldYAML {
	text := f.String()
	return &configfile.FieldYAML{Text: &text}
}
