package cli

import (
	"embed"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

//go:embed testdata/default-config.yml
var defaultConfigFS embed.FS

func newGenerateConfigCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "generate-config",
		Short: "Write a commented example config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateConfig(out)
		},
	}
	cmd.Flags().StringVar(&out, "out", "config.yml", "path to write the generated config to")
	return cmd
}

func generateConfig(out string) error {
	data, err := defaultConfigFS.ReadFile("testdata/default-config.yml")
	if err != nil {
		return fmt.Errorf("read embedded default config: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", out, err)
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}
