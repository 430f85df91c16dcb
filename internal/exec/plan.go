// Package exec spawns a task's command under a shell, applies its run_as,
// working directory, and environment, and captures stdout/stderr to files.
package exec

import (
	"fmt"
	"sort"
	"strings"
)

// Plan records every decision made while building a child process
// invocation, preserved verbatim as TaskExecutionDetails.DebugInfo so it
// can be surfaced in an alert.
type Plan struct {
	Shell            string
	Args             []string
	Env              map[string]string
	WorkingDirectory string
	StdoutPath       string
	StderrPath       string
	RunAs            string
	UID, GID         uint32
	HasCredential    bool
}

// String renders the plan as a one-line debug_info string: shell, env
// pairs, working dir, stdio paths, and uid/gid if a credential was applied.
func (p Plan) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "shell=%s args=%q", p.Shell, p.Args)
	if len(p.Env) > 0 {
		keys := make([]string, 0, len(p.Env))
		for k := range p.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + "=" + p.Env[k]
		}
		fmt.Fprintf(&b, " env=[%s]", strings.Join(pairs, " "))
	}
	if p.WorkingDirectory != "" {
		fmt.Fprintf(&b, " cwd=%s", p.WorkingDirectory)
	}
	fmt.Fprintf(&b, " stdout=%s stderr=%s", p.StdoutPath, p.StderrPath)
	if p.HasCredential {
		fmt.Fprintf(&b, " uid=%d gid=%d", p.UID, p.GID)
	} else if p.RunAs != "" {
		fmt.Fprintf(&b, " run_as=%s (unresolved)", p.RunAs)
	}
	return b.String()
}
