package exec

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cout970/cron-go/internal/taskconfig"
)

// ActiveTask is a spawned child the supervisor is tracking.
type ActiveTask struct {
	ID           int64
	Config       taskconfig.Task
	PID          int
	StartInstant time.Time // monotonic reference, for time-limit accounting
	StartTime    time.Time // wall clock, UTC, for alert templates
	Cmd          *osexec.Cmd
	DebugInfo    string
	TimeLimit    time.Duration
	StdoutPath   string
	StderrPath   string

	stdoutFile *os.File
	stderrFile *os.File
}

// SpawnError is returned by Spawn when the child could not be started. It
// carries the debug_info built before the failure so the caller can still
// report it in the failure alert.
type SpawnError struct {
	DebugInfo string
	Err       error
}

func (e *SpawnError) Error() string { return e.Err.Error() }
func (e *SpawnError) Unwrap() error { return e.Err }

// Spawn builds and starts the child process for task: it creates the
// stdout/stderr files, applies working directory, environment, and run_as,
// then starts the command. On success it returns a running ActiveTask; on
// failure it returns a *SpawnError carrying the debug_info recorded up to
// that point.
func Spawn(ctx context.Context, task taskconfig.Task, id int64, logger *slog.Logger) (*ActiveTask, error) {
	stdoutPath, stderrPath := task.EffectiveStdout(), task.EffectiveStderr()
	if err := os.MkdirAll(filepath.Dir(stdoutPath), 0o755); err != nil {
		return nil, &SpawnError{DebugInfo: fmt.Sprintf("mkdir %s: %v", filepath.Dir(stdoutPath), err), Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(stderrPath), 0o755); err != nil {
		return nil, &SpawnError{DebugInfo: fmt.Sprintf("mkdir %s: %v", filepath.Dir(stderrPath), err), Err: err}
	}
	stdoutFile, err := os.Create(stdoutPath)
	if err != nil {
		return nil, &SpawnError{DebugInfo: fmt.Sprintf("create %s: %v", stdoutPath, err), Err: err}
	}
	stderrFile, err := os.Create(stderrPath)
	if err != nil {
		stdoutFile.Close()
		return nil, &SpawnError{DebugInfo: fmt.Sprintf("create %s: %v", stderrPath, err), Err: err}
	}

	shell := task.EffectiveShell()
	plan := Plan{
		Shell:            shell,
		Args:             []string{"-c", task.Cmd},
		Env:              task.Env,
		WorkingDirectory: task.WorkingDirectory,
		StdoutPath:       stdoutPath,
		StderrPath:       stderrPath,
		RunAs:            task.RunAs,
	}

	cmd := osexec.CommandContext(ctx, shell, "-c", task.Cmd)
	cmd.Stdout = stdoutFile
	cmd.Stderr = stderrFile
	if task.WorkingDirectory != "" {
		cmd.Dir = task.WorkingDirectory
	}
	cmd.Env = os.Environ()
	for k, v := range task.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	if task.RunAs != "" {
		uid, gid, err := setCredential(cmd, task.RunAs)
		if err != nil {
			logger.Warn("run_as could not be applied, running as current identity", "task", task.Name, "run_as", task.RunAs, "error", err)
		} else {
			plan.HasCredential = true
			plan.UID, plan.GID = uid, gid
		}
	}

	debugInfo := plan.String()

	if err := cmd.Start(); err != nil {
		stdoutFile.Close()
		stderrFile.Close()
		if task.RunAs != "" && isPermissionDenied(err) {
			debugInfo += fmt.Sprintf("; hint: run_as=%q requires the supervisor to run with privileges to switch identity", task.RunAs)
		}
		return nil, &SpawnError{DebugInfo: debugInfo, Err: err}
	}

	now := time.Now()
	return &ActiveTask{
		ID:           id,
		Config:       task,
		PID:          cmd.Process.Pid,
		StartInstant: now,
		StartTime:    now.UTC(),
		Cmd:          cmd,
		DebugInfo:    debugInfo,
		TimeLimit:    task.TimeLimit,
		StdoutPath:   stdoutPath,
		StderrPath:   stderrPath,
		stdoutFile:   stdoutFile,
		stderrFile:   stderrFile,
	}, nil
}

// CloseOutputs closes the stdout/stderr files opened for the child. Safe to
// call after the child has exited and its output has been read back.
func (a *ActiveTask) CloseOutputs() {
	if a.stdoutFile != nil {
		a.stdoutFile.Close()
	}
	if a.stderrFile != nil {
		a.stderrFile.Close()
	}
}

// ReadOutputs reads the captured stdout/stderr back from disk, for the
// alert payload.
func (a *ActiveTask) ReadOutputs() (stdout, stderr string) {
	if b, err := os.ReadFile(a.StdoutPath); err == nil {
		stdout = string(b)
	}
	if b, err := os.ReadFile(a.StderrPath); err == nil {
		stderr = string(b)
	}
	return stdout, stderr
}

func isPermissionDenied(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "operation not permitted")
}
