// Package config tests configuration layering and validation.
// Related: internal/config/config.go, internal/config/validate.go
// Tags: config, koanf, validation
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/universal-changesets/changeset/internal/apperr"
)

// writeProjectFile writes name under root/.changeset.
func writeProjectFile(t *testing.T, root, name, content string) string {
	t.Helper()

	dir := ProjectConfigDir(root)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func load(t *testing.T, opts LoadOptions) (*Configuration, error) {
	t.Helper()

	opts.SkipUserConfig = true
	if opts.WarningWriter == nil {
		opts.WarningWriter = &discard{}
	}
	return LoadWithOptions(opts)
}

type discard struct{ written []byte }

func (d *discard) Write(p []byte) (int, error) {
	d.written = append(d.written, p...)
	return len(p), nil
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := load(t, LoadOptions{ProjectRoot: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, "CHANGELOG.md", cfg.Changelog)
	assert.Equal(t, 30*time.Second, cfg.Plugin.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Plugin.URL)
}

func TestLoad_ProjectFiles(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		files   map[string]string
		wantURL string
		warned  bool
	}{
		"original json format": {
			files: map[string]string{
				"config.json": `{"plugin": {"versionedFile": "Cargo.toml", "url": "gh:owner/repo@1.0.0", "sha256": null}}`,
			},
			wantURL: "gh:owner/repo@1.0.0",
		},
		"yaml format": {
			files: map[string]string{
				"config.yml": "plugin:\n  url: https://example.com/plugin.wasm\n  versionedFile: Cargo.toml\n",
			},
			wantURL: "https://example.com/plugin.wasm",
		},
		"yaml preferred over json": {
			files: map[string]string{
				"config.json": `{"plugin": {"url": "gh:json/repo@1.0.0"}}`,
				"config.yml":  "plugin:\n  url: gh:yaml/repo@1.0.0\n  versionedFile: Cargo.toml\n",
			},
			wantURL: "gh:yaml/repo@1.0.0",
			warned:  true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			for file, content := range tt.files {
				writeProjectFile(t, root, file, content)
			}

			w := &discard{}
			cfg, err := load(t, LoadOptions{ProjectRoot: root, WarningWriter: w})
			require.NoError(t, err)

			assert.Equal(t, tt.wantURL, cfg.Plugin.URL)
			assert.Equal(t, "Cargo.toml", cfg.Plugin.VersionedFile)
			assert.Equal(t, tt.warned, len(w.written) > 0)
		})
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "custom.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"changelog": "docs/CHANGES.md"}`), 0o644))

	cfg, err := load(t, LoadOptions{ProjectRoot: root, ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "docs/CHANGES.md", cfg.Changelog)
	assert.Equal(t, filepath.Join(root, "docs", "CHANGES.md"), cfg.ChangelogPath(root))

	_, err = load(t, LoadOptions{ProjectRoot: root, ConfigPath: filepath.Join(root, "missing.yml")})
	assert.ErrorIs(t, err, apperr.ErrConfig)
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		file      string
		content   string
		wantField string
	}{
		"bad yaml syntax": {
			file:    "config.yml",
			content: "plugin:\n  url: [unclosed\n",
		},
		"bad json": {
			file:    "config.json",
			content: `{"plugin": `,
		},
		"bad log level": {
			file:      "config.yml",
			content:   "log_level: loud\n",
			wantField: "log_level",
		},
		"empty changelog": {
			file:      "config.yml",
			content:   "changelog: \"\"\n",
			wantField: "changelog",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			writeProjectFile(t, root, tt.file, tt.content)

			_, err := load(t, LoadOptions{ProjectRoot: root})
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrConfig)

			if tt.wantField != "" {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, tt.wantField, verr.Field)
			}
		})
	}
}

// Environment tests mutate process state and cannot run in parallel.
func TestLoad_EnvOverrides(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "config.json", `{"plugin": {"url": "gh:file/repo@1.0.0", "versionedFile": "package.json"}}`)

	t.Setenv("CHANGESET_PLUGIN_URL", "gh:env/repo@2.0.0")
	t.Setenv("CHANGESET_PLUGIN_TIMEOUT", "5s")
	t.Setenv("CHANGESET_CACHE_DIR", "/tmp/plugins")
	t.Setenv("CHANGESET_LOG_LEVEL", "debug")
	t.Setenv("CHANGESET_UNRELATED", "ignored")

	cfg, err := load(t, LoadOptions{ProjectRoot: root})
	require.NoError(t, err)

	assert.Equal(t, "gh:env/repo@2.0.0", cfg.Plugin.URL)
	assert.Equal(t, "package.json", cfg.Plugin.VersionedFile)
	assert.Equal(t, 5*time.Second, cfg.Plugin.Timeout)
	assert.Equal(t, "/tmp/plugins", cfg.CacheDir)
	assert.Equal(t, "debug", cfg.LogLevel)

	root2, err := cfg.CacheRoot()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/plugins", root2)
}

func TestPluginDescriptor(t *testing.T) {
	t.Parallel()

	valid := "2CF24DBA5FB0A30E26E83B2AC5B9E29E1B161E5C1FA7425E73043362938B9824"

	tests := map[string]struct {
		plugin    PluginConfig
		wantField string
	}{
		"url only":         {plugin: PluginConfig{URL: "gh:o/r@1.0.0"}},
		"with checksum":    {plugin: PluginConfig{URL: "gh:o/r@1.0.0", SHA256: valid}},
		"missing url":      {plugin: PluginConfig{}, wantField: "plugin.url"},
		"short checksum":   {plugin: PluginConfig{URL: "gh:o/r@1.0.0", SHA256: "abc"}, wantField: "plugin.sha256"},
		"non-hex":          {plugin: PluginConfig{URL: "gh:o/r@1.0.0", SHA256: valid[:63] + "z"}, wantField: "plugin.sha256"},
		"0x prefix":        {plugin: PluginConfig{URL: "gh:o/r@1.0.0", SHA256: "0x" + valid[2:]}, wantField: "plugin.sha256"},
		"negative timeout": {plugin: PluginConfig{URL: "gh:o/r@1.0.0", Timeout: -time.Second}, wantField: "plugin.timeout"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := &Configuration{Plugin: tt.plugin, Changelog: "CHANGELOG.md"}
			d, err := cfg.PluginDescriptor()
			if tt.wantField != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperr.ErrConfig)
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, tt.wantField, verr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.plugin.URL, d.URL)
			assert.Equal(t, tt.plugin.SHA256, d.SHA256)
		})
	}
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   string
		want string
	}{
		"plugin url":     {in: "CHANGESET_PLUGIN_URL", want: "plugin.url"},
		"versioned file": {in: "CHANGESET_PLUGIN_VERSIONED_FILE", want: "plugin.versionedFile"},
		"cache dir":      {in: "CHANGESET_CACHE_DIR", want: "cache_dir"},
		"unknown":        {in: "CHANGESET_SOMETHING", want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, envTransform(tt.in))
		})
	}
}

func TestExtractLineColumn(t *testing.T) {
	t.Parallel()

	line, col := extractLineColumn("yaml: line 5: could not find expected ':'")
	assert.Equal(t, 5, line)
	assert.Equal(t, 1, col)

	line, col = extractLineColumn("something else")
	assert.Zero(t, line)
	assert.Zero(t, col)
}
