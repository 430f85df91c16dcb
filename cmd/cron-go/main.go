package main

import (
	"os"

	"github.com/cout970/cron-go/internal/cli"
)

func main() {
	// cobra already prints the error; just propagate a non-zero exit code.
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
