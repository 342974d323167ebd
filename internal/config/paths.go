package config

import (
	"os"
	"path/filepath"
)

// ProjectDirName is the per-project directory holding records and config.
const ProjectDirName = ".changeset"

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/changeset/config.yml
// - macOS: ~/Library/Application Support/changeset/config.yml
// - Windows: %APPDATA%\changeset\config.yml
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "changeset", "config.yml"), nil
}

// ProjectConfigDir returns the project-level config directory under root.
func ProjectConfigDir(root string) string {
	return filepath.Join(root, ProjectDirName)
}

// ProjectConfigPath returns the YAML project config path under root.
func ProjectConfigPath(root string) string {
	return filepath.Join(ProjectConfigDir(root), "config.yml")
}

// ProjectJSONConfigPath returns the JSON project config path under root.
func ProjectJSONConfigPath(root string) string {
	return filepath.Join(ProjectConfigDir(root), "config.json")
}
