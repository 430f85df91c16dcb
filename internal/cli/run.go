package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cout970/cron-go/internal/alert"
	"github.com/cout970/cron-go/internal/configfile"
	"github.com/cout970/cron-go/internal/platform/logger"
	"github.com/cout970/cron-go/internal/supervisor"
)

func newRunCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Load the config and run the scheduler in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduler(*configPath)
		},
	}
}

func runScheduler(configPath string) error {
	path, err := discoverConfigPath(configPath)
	if err != nil {
		return err
	}

	result, err := configfile.LoadAndValidate(path)
	if err != nil {
		return fmt.Errorf("load config %q: %w", path, err)
	}
	for _, d := range result.Diags {
		if d.Severity == configfile.SeverityWarning {
			fmt.Printf("warning: %s\n", d.Message)
		}
	}
	if configfile.HasErrors(result.Diags) {
		for _, d := range result.Diags {
			if d.Severity == configfile.SeverityError {
				fmt.Printf("error: %s\n", d.Message)
			}
		}
		return fmt.Errorf("config %q has validation errors", path)
	}

	logOpts := logger.Options{App: "cron-go"}
	if result.Logging != nil {
		logOpts.Level = result.Logging.Level
		logOpts.Sink = result.Logging.Sink
		logOpts.File = result.Logging.File
	}
	log := logger.New(logOpts)
	defer logger.Close(log)

	log.Info("starting", "config", path, "tasks", len(result.Tasks))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := alert.NewDispatcher(log)
	sup := supervisor.New(log, result.Alerts, dispatcher, nil)
	sup.Start(ctx, result.Tasks)

	<-ctx.Done()
	log.Info("shutting down")
	sup.Shutdown()
	sup.Wait()
	return nil
}
