//go:build windows

package logger

import (
	"errors"
	"io"
	"log/slog"
)

// newSyslogHandler always fails on Windows, where there is no syslog
// facility; New falls back to the console handler.
func newSyslogHandler(slog.Level) (slog.Handler, io.Closer, error) {
	return nil, nil, errors.New("syslog sink is not supported on windows")
}
