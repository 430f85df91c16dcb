//go:build !windows

package logger

import (
	"io"
	"log/slog"
	"log/syslog"
)

// newSyslogHandler opens a syslog writer tagged "cron-go" at facility
// LOG_USER.
func newSyslogHandler(level slog.Level) (slog.Handler, io.Closer, error) {
	w, err := syslog.New(syslog.LOG_USER, "cron-go")
	if err != nil {
		return nil, nil, err
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}), w, nil
}
