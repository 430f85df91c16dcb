// Package alert renders task outcomes into templates and delivers them by
// email, shell command, or HTTP webhook.
package alert

import (
	"context"
	"log/slog"

	"github.com/cout970/cron-go/internal/platform/httpclient"
	"github.com/cout970/cron-go/internal/taskconfig"
)

// Dispatcher delivers a task's outcome through its configured alerts. Each
// alert is dispatched independently; one failure never inhibits the others
// or propagates to the caller, and is logged rather than retried.
type Dispatcher struct {
	logger *slog.Logger
	client *httpclient.Client
}

// NewDispatcher builds a Dispatcher. The webhook client is constructed with
// retries disabled so each alert gets exactly one delivery attempt.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		logger: logger,
		client: httpclient.New(httpclient.WithLogger(logger), httpclient.WithRetries(0, 0)),
	}
}

// Dispatch sends details through every alert in alerts.
func (d *Dispatcher) Dispatch(ctx context.Context, alerts []taskconfig.Alert, details taskconfig.TaskExecutionDetails) {
	for _, a := range alerts {
		switch a.Kind {
		case taskconfig.AlertEmail:
			sendEmail(a, details, d.logger)
		case taskconfig.AlertCmd:
			runCmdAlert(ctx, a, details, d.logger)
		case taskconfig.AlertWebhook:
			sendWebhook(ctx, d.client, a, details, d.logger)
		}
	}
}
