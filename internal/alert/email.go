package alert

import (
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/cout970/cron-go/internal/taskconfig"
)

func sendEmail(a taskconfig.Alert, details taskconfig.TaskExecutionDetails, logger *slog.Logger) {
	m := gomail.NewMessage()
	m.SetHeader("From", a.EffectiveEmailFrom())
	m.SetHeader("To", a.EmailTo)
	m.SetHeader("Subject", RenderTemplate(a.EffectiveSubject(), details))
	m.SetBody("text/plain", RenderTemplate(a.EffectiveBody(), details))

	d := gomail.NewDialer(a.EffectiveSMTPServer(), a.EffectiveSMTPPort(), a.SMTPUsername, a.SMTPPassword)
	if a.UsesPlainSMTP() {
		d.StartTLSPolicy = gomail.NoStartTLS
	} else {
		d.StartTLSPolicy = gomail.OpportunisticStartTLS
	}

	if err := d.DialAndSend(m); err != nil {
		logger.Warn("email alert delivery failed",
			slog.String("task", details.TaskName),
			slog.String("smtp_server", a.EffectiveSMTPServer()),
			slog.Int("smtp_port", a.EffectiveSMTPPort()),
			slog.Any("error", err),
		)
	}
}
