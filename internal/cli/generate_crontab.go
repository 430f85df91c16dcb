package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cout970/cron-go/internal/configfile"
	"github.com/cout970/cron-go/internal/crontab"
)

func newGenerateFromCrontabCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "generate-from-crontab <crontab-file>",
		Short: "Convert a traditional crontab file into a cron-go config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateFromCrontab(args[0], out)
		},
	}
	cmd.Flags().StringVar(&out, "out", "config.yml", "path to write the generated config to")
	return cmd
}

func generateFromCrontab(crontabPath, out string) error {
	in, err := os.Open(crontabPath)
	if err != nil {
		return fmt.Errorf("open %q: %w", crontabPath, err)
	}
	defer in.Close()

	tasks, errs := crontab.Import(in)
	for _, e := range errs {
		fmt.Printf("warning: skipped %v\n", e)
	}
	if len(tasks) == 0 {
		return fmt.Errorf("no importable lines found in %q", crontabPath)
	}

	data, err := yaml.Marshal(configfile.File{Tasks: tasks})
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", out, err)
	}
	fmt.Printf("imported %d task(s) into %s\n", len(tasks), out)
	return nil
}
