// Package cli implements the cron-go command-line front end: config
// discovery and loading, the run/validate/generate-config/
// generate-from-crontab subcommands, and signal-driven shutdown.
package cli

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var errNoConfigFound = errors.New("no config file found in ./config.yml, $XDG_CONFIG_HOME/cron-go/config.yml, $HOME/.config/cron-go/config.yml, or /etc/cron-go.yml")

// NewRootCommand builds the cron-go command tree.
func NewRootCommand() *cobra.Command {
	_ = godotenv.Load() // developer convenience; a missing .env is not an error

	var configPath string

	root := &cobra.Command{
		Use:   "cron-go",
		Short: "A single-host, config-driven job scheduler",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file (default: search standard locations)")

	root.AddCommand(newRunCommand(&configPath))
	root.AddCommand(newValidateCommand(&configPath))
	root.AddCommand(newGenerateConfigCommand())
	root.AddCommand(newGenerateFromCrontabCommand())

	return root
}
