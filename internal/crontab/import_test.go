package crontab_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cout970/cron-go/internal/configfile"
	"github.com/cout970/cron-go/internal/crontab"
)

func TestImport_SimpleLine(t *testing.T) {
	tasks, errs := crontab.Import(strings.NewReader("*/5 * * * * /usr/bin/backup.sh\n"))
	require.Empty(t, errs)
	require.Len(t, tasks, 1)
	assert.Equal(t, "/usr/bin/backup.sh", tasks[0].Cmd)
	assert.Equal(t, "crontab-import-1", tasks[0].Name)
	require.NotNil(t, tasks[0].When)
	require.NotNil(t, tasks[0].When.Long)
	assert.Equal(t, "*/5", *tasks[0].When.Long.Minute.Text)
}

func TestImport_CommentBecomesTaskName(t *testing.T) {
	src := "# nightly backup\n# runs at 2am\n0 2 * * * /usr/bin/backup.sh\n"
	tasks, errs := crontab.Import(strings.NewReader(src))
	require.Empty(t, errs)
	require.Len(t, tasks, 1)
	assert.Equal(t, "nightly backup runs at 2am", tasks[0].Name)
}

func TestImport_BlankLineResetsCommentBlock(t *testing.T) {
	src := "# stale comment\n\n0 2 * * * /usr/bin/backup.sh\n"
	tasks, errs := crontab.Import(strings.NewReader(src))
	require.Empty(t, errs)
	require.Len(t, tasks, 1)
	assert.Equal(t, "crontab-import-1", tasks[0].Name)
}

func TestImport_InvalidLineReportedNotFatal(t *testing.T) {
	src := "bad line here\n*/5 * * * * /usr/bin/ok.sh\n"
	tasks, errs := crontab.Import(strings.NewReader(src))
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Line)
	require.Len(t, tasks, 1)
	assert.Equal(t, "/usr/bin/ok.sh", tasks[0].Cmd)
}

func TestImport_RangeAndStepFields(t *testing.T) {
	tasks, errs := crontab.Import(strings.NewReader("0 9-17/2 * * 1-5 /usr/bin/hourly.sh\n"))
	require.Empty(t, errs)
	require.Len(t, tasks, 1)
	assert.Equal(t, "[9,11,13,15,17]", *tasks[0].When.Long.Hour.Text)
	assert.Equal(t, "1..5", *tasks[0].When.Long.DayOfWeek.Text)
}

func TestImport_NamedMonthAndDay(t *testing.T) {
	tasks, errs := crontab.Import(strings.NewReader("0 0 1 jan mon /usr/bin/yearly.sh\n"))
	require.Empty(t, errs)
	require.Len(t, tasks, 1)
	assert.Equal(t, "1", *tasks[0].When.Long.Month.Text)
	assert.Equal(t, "1", *tasks[0].When.Long.DayOfWeek.Text)
}

func TestImport_RoundTripsThroughConfigfile(t *testing.T) {
	tasks, errs := crontab.Import(strings.NewReader("*/15 * * * * /usr/bin/check.sh\n"))
	require.Empty(t, errs)
	require.Len(t, tasks, 1)

	f := &configfile.File{Tasks: tasks}
	diags := configfile.Validate(f)
	assert.False(t, configfile.HasErrors(diags))

	parsed, err := configfile.ToTasks(f)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, "/usr/bin/check.sh", parsed[0].Cmd)
}
