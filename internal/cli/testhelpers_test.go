package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	extism "github.com/extism/go-sdk"
	"github.com/stretchr/testify/require"

	"github.com/universal-changesets/changeset/internal/plugin"
)

// fakeWasm stands in for plugin bytes; only its digest matters.
var fakeWasm = []byte("\x00asm\x01\x00\x00\x00version-file plugin")

// fileVersionModule behaves like a real version-file plugin: it reads and
// writes the versioned file through the directory granted in the manifest.
type fileVersionModule struct {
	path     string
	readOnly bool
}

func (m *fileVersionModule) Call(_ context.Context, name string, input []byte) (uint32, []byte, error) {
	switch name {
	case plugin.FuncGetVersion:
		data, err := os.ReadFile(m.path)
		if err != nil {
			return 1, nil, err
		}
		return 0, data, nil
	case plugin.FuncSetVersion:
		if m.readOnly {
			return 1, nil, errors.New("read-only filesystem")
		}
		var req plugin.SetVersionRequest
		if err := json.Unmarshal(input, &req); err != nil {
			return 1, nil, err
		}
		if err := os.WriteFile(m.path, []byte(req.Version+"\n"), 0o644); err != nil {
			return 1, nil, err
		}
		return 0, []byte(`{"ok":true}`), nil
	}
	return 1, nil, errors.New("unknown export " + name)
}

func (m *fileVersionModule) Close(context.Context) error { return nil }

// fileVersionLoader resolves the versioned file against the single mount.
func fileVersionLoader(_ context.Context, manifest extism.Manifest) (plugin.Module, error) {
	for host := range manifest.AllowedPaths {
		root, readOnly := strings.CutPrefix(host, "ro:")
		return &fileVersionModule{
			path:     filepath.Join(root, manifest.Config[plugin.ConfigVersionedFile]),
			readOnly: readOnly,
		}, nil
	}
	return nil, errors.New("no mount")
}

// testProject is a project directory with a configured plugin served over HTTP.
type testProject struct {
	dir      string
	cacheDir string
	server   *httptest.Server
}

func newTestProject(t *testing.T, version string) *testProject {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(fakeWasm)
	}))
	t.Cleanup(srv.Close)

	p := &testProject{dir: t.TempDir(), cacheDir: t.TempDir(), server: srv}
	p.writeConfig(t, plugin.DigestBytes(fakeWasm))
	require.NoError(t, os.WriteFile(filepath.Join(p.dir, "VERSION"), []byte(version+"\n"), 0o644))
	return p
}

func (p *testProject) writeConfig(t *testing.T, sha256 string) {
	t.Helper()

	cfg := map[string]any{
		"plugin": map[string]any{
			"url":           p.server.URL + "/plugin.wasm",
			"sha256":        sha256,
			"versionedFile": "VERSION",
		},
		"cache_dir": p.cacheDir,
	}
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(p.dir, ".changeset"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(p.dir, ".changeset", "config.json"), data, 0o644))
}

func (p *testProject) read(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(p.dir, name))
	require.NoError(t, err)
	return string(data)
}

// records lists the pending changeset files.
func (p *testProject) records(t *testing.T) []string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(p.dir, ".changeset", "*.md"))
	require.NoError(t, err)
	return matches
}

// runCLI executes the root command with args. Commands share package-level
// flag state, so callers must not run in parallel.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	resetFlags()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	pluginLoader = fileVersionLoader
	t.Cleanup(func() { pluginLoader = plugin.ExtismLoader })

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func resetFlags() {
	configFlag, dirFlag, debugFlag = "", "", false
	addTypeFlag, addMessageFlag, addDescriptionFlag = "", "", ""
	previewDiffFlag, previewPlainFlag = false, false

	// cobra adds these lazily and pflag keeps their values between runs.
	for _, name := range []string{"version", "help"} {
		if f := rootCmd.Flags().Lookup(name); f != nil {
			_ = f.Value.Set("false")
		}
	}
}
