package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cout970/cron-go/internal/configfile"
)

func newValidateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a config file without running the scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(*configPath)
		},
	}
}

func validateConfig(configPath string) error {
	path, err := discoverConfigPath(configPath)
	if err != nil {
		return err
	}

	f, err := configfile.Load(path)
	if err != nil {
		return fmt.Errorf("load config %q: %w", path, err)
	}

	diags := configfile.Validate(f)
	if len(diags) == 0 {
		fmt.Printf("%s: ok\n", path)
		return nil
	}

	for _, d := range diags {
		fmt.Printf("%s: %s\n", d.Severity, d.Message)
	}
	if configfile.HasErrors(diags) {
		return fmt.Errorf("config %q has validation errors", path)
	}
	return nil
}
