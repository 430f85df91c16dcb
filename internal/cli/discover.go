package cli

import (
	"os"
	"path/filepath"
)

// discoverConfigPath returns the first config file found in the standard
// search order: the current directory, then XDG_CONFIG_HOME, then
// $HOME/.config, then /etc. explicit, if non-empty, is returned verbatim
// without existence checks (an explicit --config path is expected to
// exist; failing to load it is a user-facing error, not a fallback).
func discoverConfigPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	for _, candidate := range candidatePaths() {
		if candidate == "" {
			continue
		}
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", errNoConfigFound
}

func candidatePaths() []string {
	var paths []string
	paths = append(paths, "config.yml")

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "cron-go", "config.yml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "cron-go", "config.yml"))
	}
	paths = append(paths, "/etc/cron-go.yml")
	return paths
}
