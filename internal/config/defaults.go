package config

import "github.com/universal-changesets/changeset/internal/changelog"

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"plugin.url":           "",
		"plugin.sha256":        "",
		"plugin.versionedFile": "",
		"plugin.timeout":       "30s",
		"changelog":            changelog.DefaultFilename,
		"cache_dir":            "",
		"log_level":            "info",
	}
}
