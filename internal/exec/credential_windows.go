//go:build windows

package exec

import (
	"errors"
	osexec "os/exec"
)

// setCredential always fails on Windows, which has no uid/gid concept;
// Spawn logs a warning and runs the child under the supervisor's own
// identity instead of failing the task.
func setCredential(cmd *osexec.Cmd, runAs string) (uid, gid uint32, err error) {
	return 0, 0, errors.New("run_as is not supported on windows")
}
