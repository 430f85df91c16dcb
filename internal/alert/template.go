package alert

import (
	"strconv"
	"strings"
	"time"

	"github.com/cout970/cron-go/internal/taskconfig"
)

// RenderTemplate substitutes the fixed set of "{{ token }}" placeholders
// into tmpl. There is no nested or conditional templating: each token is a
// plain string replacement.
func RenderTemplate(tmpl string, d taskconfig.TaskExecutionDetails) string {
	endTime := d.StartTime.Add(d.Duration)
	replacer := strings.NewReplacer(
		"{{ task_name }}", d.TaskName,
		"{{ exit_code }}", strconv.Itoa(d.ExitCode),
		"{{ start_time }}", d.StartTime.Format(time.RFC3339),
		"{{ end_time }}", endTime.Format(time.RFC3339),
		"{{ duration }}", FormatDuration(d.Duration),
		"{{ error_message }}", d.ErrorMessage,
		"{{ debug_info }}", d.DebugInfo,
		"{{ stdout }}", strings.TrimSpace(d.Stdout),
		"{{ stderr }}", strings.TrimSpace(d.Stderr),
	)
	return replacer.Replace(tmpl)
}
