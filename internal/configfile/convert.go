package configfile

import (
	"fmt"
	"time"

	"github.com/cout970/cron-go/internal/taskconfig"
)

// ToTasks converts a validated File into the taskconfig.Task model. Callers
// must run Validate first and check HasErrors; ToTasks does not re-validate.
// It returns an error only when a schedule, timezone or time_limit fails to
// parse; other fields are copied as they are.
func ToTasks(f *File) ([]taskconfig.Task, error) {
	tasks := make([]taskconfig.Task, 0, len(f.Tasks))
	for _, td := range f.Tasks {
		t, err := toTask(td)
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", td.Name, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func toTask(td TaskDefinition) (taskconfig.Task, error) {
	var schedule taskconfig.Schedule
	switch {
	case td.Every != "":
		d, err := ParseTimeDuration(td.Every)
		if err != nil {
			return taskconfig.Task{}, err
		}
		schedule = taskconfig.NewEverySchedule(d)
	case td.When != nil:
		p, err := timePatternFromYAML(td.When)
		if err != nil {
			return taskconfig.Task{}, err
		}
		schedule = taskconfig.NewWhenSchedule(p)
	default:
		return taskconfig.Task{}, taskconfig.ErrMissingSchedule
	}

	var tz *time.Location
	if td.Timezone != "" {
		loc, err := time.LoadLocation(td.Timezone)
		if err != nil {
			return taskconfig.Task{}, err
		}
		tz = loc
	}

	var timeLimit time.Duration
	if td.TimeLimit != "" {
		d, err := ParseTimeDuration(td.TimeLimit)
		if err != nil {
			return taskconfig.Task{}, err
		}
		timeLimit = d
	}

	return taskconfig.Task{
		Name:             td.Name,
		Cmd:              td.Cmd,
		Schedule:         schedule,
		Timezone:         tz,
		AvoidOverlapping: td.AvoidOverlapping,
		RunAs:            td.RunAs,
		TimeLimit:        timeLimit,
		Shell:            td.Shell,
		WorkingDirectory: td.WorkingDirectory,
		Env:              td.Env,
		Stdout:           td.Stdout,
		Stderr:           td.Stderr,
	}, nil
}

// ToAlertConfig converts the optional alerts block into the runtime model.
func ToAlertConfig(f *File) taskconfig.AlertConfig {
	if f.Alerts == nil {
		return taskconfig.AlertConfig{}
	}
	return taskconfig.AlertConfig{
		OnFailure: toAlerts(f.Alerts.OnFailure),
		OnSuccess: toAlerts(f.Alerts.OnSuccess),
	}
}

func toAlerts(in []AlertYAML) []taskconfig.Alert {
	out := make([]taskconfig.Alert, 0, len(in))
	for _, a := range in {
		var kind taskconfig.AlertKind
		switch a.Type {
		case "email":
			kind = taskconfig.AlertEmail
		case "cmd":
			kind = taskconfig.AlertCmd
		case "webhook":
			kind = taskconfig.AlertWebhook
		}
		out = append(out, taskconfig.Alert{
			Kind:           kind,
			EmailTo:        a.To,
			EmailFrom:      a.From,
			EmailSubject:   a.Subject,
			EmailBody:      a.Body,
			SMTPServer:     a.SMTPServer,
			SMTPPort:       a.SMTPPort,
			SMTPUsername:   a.SMTPUsername,
			SMTPPassword:   a.SMTPPassword,
			Cmd:            a.Cmd,
			WebhookURL:     a.URL,
			WebhookMethod:  a.Method,
			WebhookBody:    a.Body,
			WebhookHeaders: a.Headers,
		})
	}
	return out
}

// LoadResult bundles everything a successful Load produces.
type LoadResult struct {
	Tasks   []taskconfig.Task
	Alerts  taskconfig.AlertConfig
	Logging *LoggingConfig
	Diags   []Diagnostic
}

// LoadAndValidate reads path, validates it, and converts it into the
// runtime model. Diagnostics are always returned even on success (they may
// contain warnings); check HasErrors(result.Diags) before trusting Tasks.
func LoadAndValidate(path string) (*LoadResult, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}

	diags := Validate(f)
	res := &LoadResult{Diags: diags, Logging: f.Logging}
	if HasErrors(diags) {
		return res, nil
	}

	tasks, err := ToTasks(f)
	if err != nil {
		return res, fmt.Errorf("convert tasks: %w", err)
	}
	res.Tasks = tasks
	res.Alerts = ToAlertConfig(f)
	return res, nil
}
