//go:build !windows

package supervisor

import "syscall"

// processAlive reports whether pid identifies a running process, by
// sending signal 0 (no-op delivery, error-only probe). A pid of 0 means
// "never run" and is reported as not alive.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	return syscall.Kill(pid, 0) == nil
}
