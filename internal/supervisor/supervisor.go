// Package supervisor hosts one control loop per configured task: it waits
// until the task is ready to fire, enforces overlap avoidance, spawns the
// child, and drives the alert pipeline on completion. Scheduling state is
// split so that only the owning loop ever mutates a task's own readiness
// bookkeeping, while a single mutex guards the small amount of state
// shared across loops (the running-pid and active-task maps).
package supervisor

import (
	"context"
	"errors"
	osexec "os/exec"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cout970/cron-go/internal/clock"
	cronexec "github.com/cout970/cron-go/internal/exec"
	"github.com/cout970/cron-go/internal/taskconfig"
	"github.com/cout970/cron-go/internal/timepattern"
)

// AlertDispatcher is the subset of alert.Dispatcher the supervisor depends
// on, so tests can substitute a recording fake.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, alerts []taskconfig.Alert, details taskconfig.TaskExecutionDetails)
}

// PendingTask is one task's scheduling state, owned exclusively by that
// task's control loop.
type PendingTask struct {
	Config                 taskconfig.Task
	LastExecutionMonotonic time.Time
	LastPID                int
}

// Supervisor runs one goroutine per task. The tuple (running, active) is
// the single piece of state shared across loops, guarded by mu; only the
// owning loop publishes to running/active, only the completion handler
// removes.
type Supervisor struct {
	logger  *slog.Logger
	alerts  taskconfig.AlertConfig
	dispatcher AlertDispatcher
	clock   clock.Clock

	mu      sync.Mutex
	running map[string]int32 // task name -> last known pid
	active  map[int64]*cronexec.ActiveTask
	nextID  atomic.Int64

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New builds a Supervisor. clk defaults to clock.Real() when nil.
func New(logger *slog.Logger, alerts taskconfig.AlertConfig, dispatcher AlertDispatcher, clk clock.Clock) *Supervisor {
	if clk == nil {
		clk = clock.Real()
	}
	return &Supervisor{
		logger:     logger,
		alerts:     alerts,
		dispatcher: dispatcher,
		clock:      clk,
		running:    make(map[string]int32),
		active:     make(map[int64]*cronexec.ActiveTask),
	}
}

// Start launches one control loop per task and returns immediately. Cancel
// ctx (or call Shutdown) to stop all loops; Wait blocks
// until every loop has exited.
func (s *Supervisor) Start(ctx context.Context, tasks []taskconfig.Task) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, t := range tasks {
		pt := &PendingTask{Config: t}
		s.wg.Add(1)
		go func(pt *PendingTask) {
			defer s.wg.Done()
			s.runTaskLoop(ctx, pt)
		}(pt)
	}
}

// Shutdown cancels every control loop. Outstanding children are left
// running; it only stops new executions from being scheduled.
func (s *Supervisor) Shutdown() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Wait blocks until every control loop has exited.
func (s *Supervisor) Wait() { s.wg.Wait() }

// ActiveCount reports the number of tasks currently spawned, for tests and
// diagnostics.
func (s *Supervisor) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

func (s *Supervisor) runTaskLoop(ctx context.Context, pt *PendingTask) {
	for {
		if ctx.Err() != nil {
			return
		}

		now := s.clock.Now()
		if !s.ready(pt, now) {
			if !s.sleepOrDone(ctx, s.sleepDuration(pt, now)) {
				return
			}
			continue
		}

		if pt.Config.AvoidOverlapping && s.stillRunning(pt) {
			if !s.sleepOrDone(ctx, s.sleepDuration(pt, now)) {
				return
			}
			continue
		}

		iterStart := time.Now()
		s.fire(ctx, pt)

		if elapsed := time.Since(iterStart); elapsed < time.Second {
			if !s.sleepOrDone(ctx, time.Second-elapsed) {
				return
			}
		}
	}
}

// fire spawns the task, publishes it to the shared state, and blocks until
// it completes, dispatching alerts along the way.
func (s *Supervisor) fire(ctx context.Context, pt *PendingTask) {
	id := s.nextID.Add(1)
	active, err := cronexec.Spawn(context.WithoutCancel(ctx), pt.Config, id, s.logger)
	if err != nil {
		s.handleSpawnFailure(ctx, pt, err)
		return
	}

	pt.LastExecutionMonotonic = active.StartInstant
	pt.LastPID = active.PID
	s.publish(active)
	s.waitForCompletion(ctx, active)
	s.remove(active)
}

func (s *Supervisor) handleSpawnFailure(ctx context.Context, pt *PendingTask, err error) {
	pt.LastExecutionMonotonic = time.Now()

	var spawnErr *cronexec.SpawnError
	debugInfo := err.Error()
	if errors.As(err, &spawnErr) {
		debugInfo = spawnErr.DebugInfo
	}

	s.logger.Error("task spawn failed", slog.String("task", pt.Config.Name), slog.Any("error", err))

	details := taskconfig.TaskExecutionDetails{
		TaskName:     pt.Config.Name,
		ExitCode:     -1,
		StartTime:    time.Now().UTC(),
		ErrorMessage: err.Error(),
		DebugInfo:    debugInfo,
		Stderr:       err.Error(),
	}
	s.dispatcher.Dispatch(ctx, s.alerts.OnFailure, details)
}

// waitForCompletion awaits the child's exit, racing a time-limit timer when
// configured, then builds the outcome record and dispatches alerts.
func (s *Supervisor) waitForCompletion(ctx context.Context, active *cronexec.ActiveTask) {
	done := make(chan error, 1)
	go func() { done <- active.Cmd.Wait() }()

	var waitErr error
	if active.TimeLimit > 0 {
		timer := time.NewTimer(active.TimeLimit)
		select {
		case waitErr = <-done:
			timer.Stop()
		case <-timer.C:
			s.logger.Warn("task exceeded time limit, killing", slog.String("task", active.Config.Name), slog.Duration("time_limit", active.TimeLimit))
			if active.Cmd.Process != nil {
				_ = active.Cmd.Process.Kill()
			}
			waitErr = <-done
		}
	} else {
		waitErr = <-done
	}

	duration := time.Since(active.StartInstant)
	active.CloseOutputs()
	stdout, stderr := active.ReadOutputs()

	exitCode := exitCodeOf(waitErr)
	errMsg := ""
	if waitErr != nil {
		errMsg = waitErr.Error()
	}

	details := taskconfig.TaskExecutionDetails{
		TaskName:     active.Config.Name,
		ExitCode:     exitCode,
		StartTime:    active.StartTime,
		Duration:     duration,
		ErrorMessage: errMsg,
		DebugInfo:    active.DebugInfo,
		Stdout:       stdout,
		Stderr:       stderr,
	}

	if exitCode == 0 {
		s.dispatcher.Dispatch(ctx, s.alerts.OnSuccess, details)
		return
	}
	s.logger.Warn("task failed", slog.String("task", active.Config.Name), slog.Int("exit_code", exitCode))
	s.dispatcher.Dispatch(ctx, s.alerts.OnFailure, details)
}

func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func (s *Supervisor) publish(active *cronexec.ActiveTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running[active.Config.Name] = int32(active.PID)
	s.active[active.ID] = active
}

func (s *Supervisor) remove(active *cronexec.ActiveTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, active.ID)
	delete(s.running, active.Config.Name)
}

// stillRunning reports whether pt's task is still running: its last-known
// PID is alive, or an active entry shares its name.
func (s *Supervisor) stillRunning(pt *PendingTask) bool {
	if processAlive(pt.LastPID) {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.active {
		if a.Config.Name == pt.Config.Name {
			return true
		}
	}
	return false
}

// ready reports whether pt should fire right now, given its schedule kind.
func (s *Supervisor) ready(pt *PendingTask, now time.Time) bool {
	switch pt.Config.Schedule.Kind {
	case taskconfig.ScheduleEvery:
		if pt.LastExecutionMonotonic.IsZero() {
			return withinSecondBoundary(now)
		}
		return now.Sub(pt.LastExecutionMonotonic) >= pt.Config.Schedule.Interval
	case taskconfig.ScheduleWhen:
		comps := clock.ComponentsIn(pt.Config.Timezone, now)
		return pt.Config.Schedule.Pattern.Matches(comps)
	default:
		return false
	}
}

// withinSecondBoundary reports whether now is close enough to a whole
// second to treat as aligned, for an Every task's first run.
func withinSecondBoundary(now time.Time) bool {
	return now.Sub(now.Truncate(time.Second)) <= 50*time.Millisecond
}

// sleepDuration computes how long to sleep before re-checking readiness.
func (s *Supervisor) sleepDuration(pt *PendingTask, now time.Time) time.Duration {
	switch pt.Config.Schedule.Kind {
	case taskconfig.ScheduleEvery:
		if pt.LastExecutionMonotonic.IsZero() {
			target := now.Truncate(time.Second).Add(time.Second)
			return target.Sub(now)
		}
		remaining := pt.Config.Schedule.Interval - now.Sub(pt.LastExecutionMonotonic)
		if remaining < 0 {
			return 0
		}
		return remaining
	case taskconfig.ScheduleWhen:
		loc := pt.Config.Timezone
		if loc == nil {
			loc = time.UTC
		}
		local := now.In(loc)
		next, ok := timepattern.NextFiring(pt.Config.Schedule.Pattern, local)
		if !ok {
			s.logger.Error("time pattern unsatisfiable within search bound, retrying later", slog.String("task", pt.Config.Name))
			return time.Second
		}
		wait := next.Sub(local) - time.Second
		if wait < 100*time.Millisecond {
			wait = 100 * time.Millisecond
		}
		return wait
	default:
		return time.Second
	}
}

// sleepOrDone sleeps for d, returning false if ctx is cancelled first.
func (s *Supervisor) sleepOrDone(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
