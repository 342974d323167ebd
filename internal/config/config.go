// changeset - semantic version bumps from changeset records
// Source: https://github.com/universal-changesets/changeset

// Package config loads the changeset tool configuration using koanf.
// Values are layered with priority: environment variables (CHANGESET_*) >
// project config (.changeset/config.yml or .changeset/config.json) >
// user config (~/.config/changeset/config.yml) > defaults.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/universal-changesets/changeset/internal/apperr"
	"github.com/universal-changesets/changeset/internal/plugin"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CHANGESET_"

// PluginConfig describes the version-file plugin.
type PluginConfig struct {
	// URL is an http(s) URL or the gh:{owner}/{repo}@{version} shorthand.
	URL string `koanf:"url" validate:"required"`
	// SHA256 pins the plugin bytes. Optional; hex, any case.
	SHA256 string `koanf:"sha256" validate:"omitempty,sha256hex"`
	// VersionedFile is the project-relative file the plugin reads and writes.
	VersionedFile string        `koanf:"versionedFile"`
	Timeout       time.Duration `koanf:"timeout" validate:"min=0"`
}

// Configuration is the changeset tool configuration.
type Configuration struct {
	// Plugin is validated on use, so commands that never touch the plugin
	// work without one configured.
	Plugin PluginConfig `koanf:"plugin" validate:"-"`

	// Changelog is the changelog path relative to the project root.
	Changelog string `koanf:"changelog" validate:"required"`
	// CacheDir overrides the plugin cache root. Empty uses the user cache dir.
	CacheDir string `koanf:"cache_dir"`
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectRoot is the directory holding .changeset/ (default: current directory)
	ProjectRoot string
	// ConfigPath overrides the project config file
	ConfigPath string
	// SkipUserConfig ignores the user-level config file
	SkipUserConfig bool
	// WarningWriter receives warnings (default: os.Stderr)
	WarningWriter io.Writer
}

// Load loads configuration for the project rooted at projectRoot.
func Load(projectRoot string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectRoot: projectRoot})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := opts.WarningWriter
	if warningWriter == nil {
		warningWriter = os.Stderr
	}

	loadDefaults(k)

	if !opts.SkipUserConfig {
		if err := loadUserConfig(k); err != nil {
			return nil, fmt.Errorf("%w: %w", apperr.ErrConfig, err)
		}
	}

	if err := loadProjectConfig(k, opts, warningWriter); err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrConfig, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("%w: loading environment config: %w", apperr.ErrConfig, err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling config: %w", apperr.ErrConfig, err)
	}
	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrConfig, err)
	}

	cfg.CacheDir = expandHomePath(cfg.CacheDir)
	return &cfg, nil
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config if present.
func loadUserConfig(k *koanf.Koanf) error {
	path, err := UserConfigPath()
	if err != nil || !fileExists(path) {
		return nil
	}
	if err := loadYAMLConfig(k, path, "user"); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads the project config. An explicit path wins; otherwise
// config.yml is preferred over config.json, with a warning when both exist.
func loadProjectConfig(k *koanf.Koanf, opts LoadOptions, warningWriter io.Writer) error {
	if opts.ConfigPath != "" {
		if !fileExists(opts.ConfigPath) {
			return fmt.Errorf("config file %s does not exist", opts.ConfigPath)
		}
		return loadConfigFile(k, opts.ConfigPath, "project")
	}

	yamlPath := ProjectConfigPath(opts.ProjectRoot)
	jsonPath := ProjectJSONConfigPath(opts.ProjectRoot)
	yamlExists := fileExists(yamlPath)
	jsonExists := fileExists(jsonPath)

	switch {
	case yamlExists:
		if jsonExists {
			fmt.Fprintf(warningWriter, "Warning: both %s and %s exist (using %s)\n", yamlPath, jsonPath, yamlPath)
		}
		return loadYAMLConfig(k, yamlPath, "project")
	case jsonExists:
		return loadJSONConfig(k, jsonPath, "project")
	}
	return nil
}

// loadConfigFile picks the parser from the file extension.
func loadConfigFile(k *koanf.Koanf, path, configType string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return loadJSONConfig(k, path, configType)
	}
	return loadYAMLConfig(k, path, configType)
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadJSONConfig loads a JSON config file
func loadJSONConfig(k *koanf.Koanf, path, configType string) error {
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envKeys maps lower-cased variable names (prefix stripped) to config keys.
var envKeys = map[string]string{
	"plugin_url":            "plugin.url",
	"plugin_sha256":         "plugin.sha256",
	"plugin_versioned_file": "plugin.versionedFile",
	"plugin_timeout":        "plugin.timeout",
	"changelog":             "changelog",
	"cache_dir":             "cache_dir",
	"log_level":             "log_level",
}

// envTransform converts environment variable names to config keys.
// Example: CHANGESET_PLUGIN_URL -> plugin.url. Unknown variables are ignored.
func envTransform(s string) string {
	return envKeys[strings.ToLower(strings.TrimPrefix(s, EnvPrefix))]
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

// PluginDescriptor returns the configured plugin descriptor. It fails with
// apperr.ErrConfig when no plugin is configured or its fields are invalid.
func (c *Configuration) PluginDescriptor() (plugin.Descriptor, error) {
	if err := ValidatePlugin(&c.Plugin, "config"); err != nil {
		return plugin.Descriptor{}, fmt.Errorf("%w: %w", apperr.ErrConfig, err)
	}
	return plugin.Descriptor{URL: c.Plugin.URL, SHA256: c.Plugin.SHA256}, nil
}

// CacheRoot returns the plugin cache root.
func (c *Configuration) CacheRoot() (string, error) {
	if c.CacheDir != "" {
		return c.CacheDir, nil
	}
	return plugin.DefaultCacheRoot()
}

// ChangelogPath returns the changelog location under projectRoot.
func (c *Configuration) ChangelogPath(projectRoot string) string {
	if filepath.IsAbs(c.Changelog) {
		return c.Changelog
	}
	return filepath.Join(projectRoot, c.Changelog)
}
