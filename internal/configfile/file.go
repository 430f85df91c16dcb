// Package configfile decodes the on-disk YAML document into its raw shape
// and validates it, producing either a ready taskconfig.Task/Alert set or a
// list of diagnostics.
package configfile

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the raw, unvalidated document shape: top-level keys tasks,
// logging, alerts. Unknown keys are rejected at decode time.
type File struct {
	Tasks   []TaskDefinition `yaml:"tasks"`
	Logging *LoggingConfig   `yaml:"logging,omitempty"`
	Alerts  *AlertsConfig    `yaml:"alerts,omitempty"`
}

// TaskDefinition mirrors taskconfig.Task field-for-field before validation.
type TaskDefinition struct {
	Name             string            `yaml:"name" validate:"required"`
	Cmd              string            `yaml:"cmd" validate:"required"`
	When             *TimePatternYAML  `yaml:"when,omitempty"`
	Every            string            `yaml:"every,omitempty"`
	Timezone         string            `yaml:"timezone,omitempty"`
	AvoidOverlapping bool              `yaml:"avoid_overlapping,omitempty"`
	RunAs            string            `yaml:"run_as,omitempty"`
	TimeLimit        string            `yaml:"time_limit,omitempty"`
	Shell            string            `yaml:"shell,omitempty"`
	WorkingDirectory string            `yaml:"working_directory,omitempty"`
	Env              map[string]string `yaml:"env,omitempty"`
	Stdout           string            `yaml:"stdout,omitempty"`
	Stderr           string            `yaml:"stderr,omitempty"`
}

// TimePatternYAML is the untagged Short(string)/Long(record) union for the
// "when" field. UnmarshalYAML picks the variant based on the node kind.
type TimePatternYAML struct {
	Short *string
	Long  *ExplodedTimePatternYAML
}

func (t *TimePatternYAML) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		t.Short = &s
		return nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			switch key := value.Content[i].Value; key {
			case "second", "minute", "hour", "day", "month", "year", "day_of_week":
			default:
				return fmt.Errorf("when: unknown field %q", key)
			}
		}
		var e ExplodedTimePatternYAML
		if err := value.Decode(&e); err != nil {
			return err
		}
		t.Long = &e
		return nil
	default:
		return fmt.Errorf("when: expected a string or a mapping, got %v", value.Kind)
	}
}

// MarshalYAML renders whichever variant is populated, so a decoded or
// programmatically built TimePatternYAML re-encodes in the same shape
// UnmarshalYAML accepts.
func (t TimePatternYAML) MarshalYAML() (any, error) {
	if t.Short != nil {
		return *t.Short, nil
	}
	return t.Long, nil
}

// ExplodedTimePatternYAML is the named-field record form.
type ExplodedTimePatternYAML struct {
	Second    *FieldYAML `yaml:"second"`
	Minute    *FieldYAML `yaml:"minute"`
	Hour      *FieldYAML `yaml:"hour"`
	Day       *FieldYAML `yaml:"day"`
	Month     *FieldYAML `yaml:"month"`
	Year      *FieldYAML `yaml:"year"`
	DayOfWeek *FieldYAML `yaml:"day_of_week"`
}

// FieldYAML is a bare number, a single-field expression string, or a list
// of atom strings.
type FieldYAML struct {
	Number *uint32
	Text   *string
	List   []string
}

// MarshalYAML renders whichever variant is populated.
func (f FieldYAML) MarshalYAML() (any, error) {
	switch {
	case f.Number != nil:
		return *f.Number, nil
	case f.Text != nil:
		return *f.Text, nil
	case f.List != nil:
		return f.List, nil
	default:
		return "*", nil
	}
}

func (f *FieldYAML) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var n uint32
		if err := value.Decode(&n); err == nil {
			f.Number = &n
			return nil
		}
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		f.Text = &s
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		f.List = list
		return nil
	default:
		return fmt.Errorf("field: expected a number, string, or list, got %v", value.Kind)
	}
}

// LoggingConfig selects the log sink and minimum level.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=error warn info debug trace"`
	Sink   string `yaml:"sink" validate:"omitempty,oneof=stdout file syslog"`
	File   string `yaml:"file"`
}

// AlertsConfig holds the two outcome-triggered alert lists.
type AlertsConfig struct {
	OnFailure []AlertYAML `yaml:"on_failure"`
	OnSuccess []AlertYAML `yaml:"on_success"`
}

// AlertYAML is the Email/Cmd/Webhook sum type, discriminated by Type.
type AlertYAML struct {
	Type string `yaml:"type" validate:"required,oneof=email cmd webhook"`

	To           string `yaml:"to"`
	From         string `yaml:"from"`
	Subject      string `yaml:"subject"`
	Body         string `yaml:"body"`
	SMTPServer   string `yaml:"smtp_server"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUsername string `yaml:"smtp_username"`
	SMTPPassword string `yaml:"smtp_password"`

	Cmd string `yaml:"cmd"`

	URL     string            `yaml:"url"`
	Method  string            `yaml:"method"`
	Headers map[string]string `yaml:"headers"`
}

// Decode parses r as the config document, rejecting unknown top-level and
// nested keys.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &f, nil
}

// Load reads and decodes the config file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Decode(bytes.NewReader(data))
}
