package configfile

import (
	"fmt"
	"net/mail"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cout970/cron-go/internal/taskconfig"
	"github.com/cout970/cron-go/internal/timepattern"
)

// Severity distinguishes a hard failure from an advisory note.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one validation finding: errors block startup, warnings
// are logged.
type Diagnostic struct {
	Severity Severity
	Message  string
}

func errf(format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

func warnf(format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// HasErrors reports whether any diagnostic is a hard failure.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

var structValidate = validator.New(validator.WithRequiredStructEnabled())

// Validate runs every rule against f, collecting diagnostics rather than
// stopping at the first failure so `validate` reports everything wrong
// with a config in one pass.
func Validate(f *File) []Diagnostic {
	var diags []Diagnostic
	seenNames := map[string]bool{}

	for _, t := range f.Tasks {
		if err := structValidate.Struct(t); err != nil {
			diags = append(diags, errf("task %q: %v", t.Name, err))
		}

		if t.Name == "" {
			diags = append(diags, errf("task name must not be empty"))
		}
		if seenNames[t.Name] {
			diags = append(diags, warnf("non-unique task name: %q", t.Name))
		}
		seenNames[t.Name] = true

		if t.Timezone != "" {
			if _, err := time.LoadLocation(t.Timezone); err != nil {
				diags = append(diags, errf("task %q: unable to parse timezone %q", t.Name, t.Timezone))
			}
		}

		if t.Cmd == "" {
			diags = append(diags, errf("task %q: command must not be empty", t.Name))
		}

		switch {
		case t.When == nil && t.Every == "":
			diags = append(diags, errf("task %q: must specify either 'when' or 'every'", t.Name))
		case t.When != nil && t.Every != "":
			diags = append(diags, errf("task %q: cannot specify both 'when' and 'every'", t.Name))
		}

		if t.Every != "" {
			if _, err := ParseTimeDuration(t.Every); err != nil {
				diags = append(diags, errf("task %q: invalid 'every' format: %v", t.Name, err))
			}
		}

		if t.When != nil {
			if _, err := timePatternFromYAML(t.When); err != nil {
				diags = append(diags, errf("task %q: invalid time pattern: %v", t.Name, err))
			}
		}

		if t.TimeLimit != "" {
			d, err := ParseTimeDuration(t.TimeLimit)
			if err != nil {
				diags = append(diags, errf("task %q: invalid time_limit format: %v", t.Name, err))
			} else if d < time.Second {
				diags = append(diags, errf("task %q: time_limit must be at least 1 second", t.Name))
			}
		}

		if t.RunAs != "" {
			if d := validateUserGroup(t.RunAs); d != "" {
				diags = append(diags, errf("task %q: %s", t.Name, d))
			}
		}

		if t.WorkingDirectory != "" {
			if info, err := os.Stat(t.WorkingDirectory); err != nil || !info.IsDir() {
				diags = append(diags, errf("task %q: working directory %q does not exist", t.Name, t.WorkingDirectory))
			}
		}

		shell := t.Shell
		if shell == "" {
			shell = taskconfig.DefaultShell
		}
		if d := validateShell(shell); d != "" {
			diags = append(diags, errf("task %q: %s", t.Name, d))
		}

		if t.Stdout != "" {
			if d := validateOutputPath(t.Stdout); d != "" {
				diags = append(diags, errf("task %q: invalid stdout path: %s", t.Name, d))
			}
		}
		if t.Stderr != "" {
			if d := validateOutputPath(t.Stderr); d != "" {
				diags = append(diags, errf("task %q: invalid stderr path: %s", t.Name, d))
			}
		}
	}

	diags = append(diags, validateLogging(f)...)
	diags = append(diags, validateAlerts(f)...)

	return diags
}

func validateLogging(f *File) []Diagnostic {
	var diags []Diagnostic
	if f.Logging == nil {
		return diags
	}
	l := f.Logging

	if l.Level != "" {
		switch l.Level {
		case "error", "warn", "info", "debug", "trace":
		default:
			diags = append(diags, errf("invalid log level %q, must be one of: error, warn, info, debug, trace", l.Level))
		}
	}

	if l.Sink == "file" {
		if l.File == "" {
			diags = append(diags, warnf("logging sink is 'file' but no file path specified"))
		} else if d := validateOutputPath(l.File); d != "" {
			diags = append(diags, errf("invalid log file: %s", d))
		}
	}

	return diags
}

func validateAlerts(f *File) []Diagnostic {
	var diags []Diagnostic
	if f.Alerts == nil {
		return diags
	}

	check := func(a AlertYAML) {
		switch a.Type {
		case "email":
			if _, err := mail.ParseAddress(a.To); err != nil {
				diags = append(diags, errf("invalid email address %q: %v", a.To, err))
			}
			if a.From == "" {
				diags = append(diags, warnf("email alert 'from' address is not set, defaulting to %s", taskconfig.DefaultEmailFrom))
			} else if _, err := mail.ParseAddress(a.From); err != nil {
				diags = append(diags, errf("invalid email address %q: %v", a.From, err))
			}

			if a.SMTPServer == "" {
				diags = append(diags, warnf("SMTP server is not set, defaulting to %s", taskconfig.DefaultSMTPServer))
			}
			if a.SMTPPort == 0 {
				diags = append(diags, warnf("SMTP port is not set, defaulting to %d", taskconfig.DefaultSMTPPort))
			} else if a.SMTPPort < 0 {
				diags = append(diags, errf("SMTP port must be greater than 0"))
			}
		case "cmd":
			if a.Cmd == "" {
				diags = append(diags, errf("cmd alert must specify 'cmd'"))
			}
		case "webhook":
			if a.URL == "" {
				diags = append(diags, errf("webhook URL must not be empty"))
			}
			if a.Method != "" && !taskconfig.AllowedWebhookMethods[a.Method] {
				diags = append(diags, errf("invalid webhook method %q, must be one of: POST, GET, PUT, PATCH, DELETE", a.Method))
			}
		}
	}

	for _, a := range f.Alerts.OnFailure {
		check(a)
	}
	for _, a := range f.Alerts.OnSuccess {
		check(a)
	}

	return diags
}

// validateUserGroup shells out to id/getent the same way the original
// validator does, so a misconfigured run_as is caught before the first
// spawn attempt rather than surfacing as a cryptic "operation not
// permitted" at task run time.
func validateUserGroup(userGroup string) string {
	user, group, ok := splitUserGroup(userGroup)
	if !ok {
		return fmt.Sprintf("invalid user:group format: %q", userGroup)
	}

	if !commandSucceeds("id", user) {
		return fmt.Sprintf("user %q does not exist", user)
	}
	if !commandSucceeds("getent", "group", group) {
		return fmt.Sprintf("group %q does not exist", group)
	}
	return ""
}

func splitUserGroup(s string) (user, group string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return s[:i], s[i+1:], i > 0 && i < len(s)-1
		}
	}
	return s, s, s != ""
}

func validateShell(shell string) string {
	if _, err := os.Stat(shell); err != nil {
		return fmt.Sprintf("shell %q does not exist", shell)
	}
	if !commandSucceeds(shell, "-c", "exit 0") {
		return fmt.Sprintf("shell %q is not executable or invalid", shell)
	}
	return ""
}

func validateOutputPath(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Sprintf("path %q exists but is not a file", path)
	}

	parent := filepath.Dir(path)
	info, err := os.Stat(parent)
	if err != nil {
		return fmt.Sprintf("parent directory %q does not exist", parent)
	}
	if !info.IsDir() {
		return fmt.Sprintf("parent directory %q does not exist", parent)
	}
	if !commandSucceeds("test", "-w", parent) {
		return fmt.Sprintf("parent directory %q is not writable", parent)
	}
	return ""
}

func commandSucceeds(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	return cmd.Run() == nil
}

func timePatternFromYAML(t *TimePatternYAML) (timepattern.Pattern, error) {
	if t.Short != nil {
		return timepattern.ParseShort(*t.Short)
	}
	cfg, err := explodedConfigFromYAML(t.Long)
	if err != nil {
		return timepattern.Pattern{}, err
	}
	return timepattern.ParseExploded(cfg)
}

func explodedConfigFromYAML(y *ExplodedTimePatternYAML) (timepattern.ExplodedConfig, error) {
	if y == nil {
		return timepattern.ExplodedConfig{}, nil
	}
	conv := func(f *FieldYAML) *timepattern.ExplodedFieldConfig {
		if f == nil {
			return nil
		}
		return &timepattern.ExplodedFieldConfig{Number: f.Number, Text: f.Text, List: f.List}
	}
	return timepattern.ExplodedConfig{
		Second:    conv(y.Second),
		Minute:    conv(y.Minute),
		Hour:      conv(y.Hour),
		Day:       conv(y.Day),
		Month:     conv(y.Month),
		Year:      conv(y.Year),
		DayOfWeek: conv(y.DayOfWeek),
	}, nil
}
