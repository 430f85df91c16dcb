package alert

import (
	"context"
	"log/slog"
	"os/exec"

	"github.com/cout970/cron-go/internal/taskconfig"
)

func runCmdAlert(ctx context.Context, a taskconfig.Alert, details taskconfig.TaskExecutionDetails, logger *slog.Logger) {
	rendered := RenderTemplate(a.Cmd, details)
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", rendered)
	output, err := cmd.CombinedOutput()
	if err != nil {
		logger.Warn("cmd alert exited non-zero",
			slog.String("task", details.TaskName),
			slog.String("cmd", rendered),
			slog.Any("error", err),
			slog.String("output", string(output)),
		)
	}
}
