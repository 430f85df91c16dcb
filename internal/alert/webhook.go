package alert

import (
	"context"
	"log/slog"
	stdhttp "net/http"
	"strings"

	"github.com/cout970/cron-go/internal/platform/httpclient"
	"github.com/cout970/cron-go/internal/taskconfig"
)

func sendWebhook(ctx context.Context, client *httpclient.Client, a taskconfig.Alert, details taskconfig.TaskExecutionDetails, logger *slog.Logger) {
	body := RenderTemplate(a.WebhookBody, details)
	req, err := stdhttp.NewRequestWithContext(ctx, a.EffectiveWebhookMethod(), a.WebhookURL, strings.NewReader(body))
	if err != nil {
		logger.Warn("webhook alert request could not be built", slog.String("task", details.TaskName), slog.Any("error", err))
		return
	}
	for k, v := range a.WebhookHeaders {
		req.Header.Set(strings.TrimSpace(k), strings.TrimSpace(v))
	}

	resp, err := client.Do(ctx, req)
	if err != nil {
		logger.Warn("webhook alert delivery failed", slog.String("task", details.TaskName), slog.String("url", a.WebhookURL), slog.Any("error", err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("webhook alert received non-2xx response",
			slog.String("task", details.TaskName),
			slog.String("url", a.WebhookURL),
			slog.Int("status", resp.StatusCode),
		)
	}
}
