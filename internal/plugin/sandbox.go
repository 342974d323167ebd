package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	extism "github.com/extism/go-sdk"
	"go.uber.org/zap"

	"github.com/universal-changesets/changeset/internal/apperr"
)

// Mode is the filesystem capability granted to a loaded plugin.
type Mode int

const (
	// ReadOnly mounts the project root without write access. Used for queries.
	ReadOnly Mode = iota
	// ReadWrite mounts the project root writable. Used for set_version.
	ReadWrite
)

func (m Mode) String() string {
	if m == ReadWrite {
		return "read-write"
	}
	return "read-only"
}

// Module is an instantiated plugin that can be called by export name.
type Module interface {
	Call(ctx context.Context, name string, input []byte) (uint32, []byte, error)
	Close(ctx context.Context) error
}

// Loader instantiates a module from a manifest.
type Loader func(ctx context.Context, manifest extism.Manifest) (Module, error)

// Sandbox loads plugins with a filesystem capability scoped to ProjectRoot.
type Sandbox struct {
	ProjectRoot string
	// VersionedFile is the project-relative file the plugin manages.
	VersionedFile string
	// Timeout bounds each call. Zero means no limit.
	Timeout time.Duration
	Loader  Loader
	Logger  *zap.Logger
}

// Instance is a loaded plugin.
type Instance struct {
	module Module
	mode   Mode
	digest string
	logger *zap.Logger
}

// Load instantiates the artifact. The plugin sees exactly one directory, the
// project root mounted at "/", and only writable in ReadWrite mode.
func (s *Sandbox) Load(ctx context.Context, artifact Artifact, mode Mode) (*Instance, error) {
	manifest, err := s.manifest(artifact, mode)
	if err != nil {
		return nil, err
	}

	loader := s.Loader
	if loader == nil {
		loader = ExtismLoader
	}

	log := s.logger().With(zap.String("digest", artifact.Digest), zap.Stringer("mode", mode))
	log.Debug("loading plugin", zap.String("path", artifact.Path))

	module, err := loader(ctx, manifest)
	if err != nil {
		return nil, fmt.Errorf("%w: loading %s: %w", apperr.ErrPluginInvocation, artifact.Path, err)
	}
	return &Instance{module: module, mode: mode, digest: artifact.Digest, logger: log}, nil
}

// manifest describes the plugin and its capabilities.
func (s *Sandbox) manifest(artifact Artifact, mode Mode) (extism.Manifest, error) {
	root, err := filepath.Abs(s.ProjectRoot)
	if err != nil {
		return extism.Manifest{}, fmt.Errorf("%w: resolving project root %s: %w", apperr.ErrIO, s.ProjectRoot, err)
	}

	hostPath := root
	if mode == ReadOnly {
		hostPath = "ro:" + root
	}

	return extism.Manifest{
		Wasm: []extism.Wasm{
			extism.WasmFile{Path: artifact.Path, Hash: artifact.Digest},
		},
		AllowedPaths: map[string]string{hostPath: "/"},
		Config: map[string]string{
			ConfigVersionedFile: filepath.ToSlash(s.VersionedFile),
			ConfigABIVersion:    ABIVersion,
		},
		Timeout: uint64(s.Timeout.Milliseconds()),
	}, nil
}

// GetVersion asks the plugin for the project's current version.
func (i *Instance) GetVersion(ctx context.Context) (*semver.Version, error) {
	out, err := i.call(ctx, FuncGetVersion, nil)
	if err != nil {
		return nil, err
	}

	raw := strings.TrimSpace(string(out))
	v, err := semver.StrictNewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: plugin returned %q: %w", apperr.ErrVersionParse, raw, err)
	}
	i.logger.Debug("plugin reported version", zap.Stringer("version", v))
	return v, nil
}

// SetVersion asks the plugin to persist v. The instance must have been
// loaded in ReadWrite mode.
func (i *Instance) SetVersion(ctx context.Context, v *semver.Version) error {
	if i.mode != ReadWrite {
		return fmt.Errorf("%w: %s requires a read-write plugin", apperr.ErrPluginInvocation, FuncSetVersion)
	}

	input, err := json.Marshal(SetVersionRequest{Version: v.String()})
	if err != nil {
		return fmt.Errorf("%w: encoding %s request: %w", apperr.ErrPluginInvocation, FuncSetVersion, err)
	}

	out, err := i.call(ctx, FuncSetVersion, input)
	if err != nil {
		return err
	}
	if err := decodeSetVersionResponse(out); err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrPluginInvocation, err)
	}
	i.logger.Debug("plugin stored version", zap.Stringer("version", v))
	return nil
}

// Close releases the module.
func (i *Instance) Close(ctx context.Context) error {
	if err := i.module.Close(ctx); err != nil {
		return fmt.Errorf("%w: closing plugin: %w", apperr.ErrPluginInvocation, err)
	}
	return nil
}

func (i *Instance) call(ctx context.Context, name string, input []byte) ([]byte, error) {
	exit, out, err := i.module.Call(ctx, name, input)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperr.ErrPluginInvocation, name, err)
	}
	if exit != 0 {
		return nil, fmt.Errorf("%w: %s exited with code %d", apperr.ErrPluginInvocation, name, exit)
	}
	return out, nil
}

func (s *Sandbox) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// extismModule adapts *extism.Plugin to Module.
type extismModule struct {
	p *extism.Plugin
}

func (m extismModule) Call(ctx context.Context, name string, input []byte) (uint32, []byte, error) {
	return m.p.CallWithContext(ctx, name, input)
}

func (m extismModule) Close(ctx context.Context) error {
	return m.p.Close(ctx)
}

// ExtismLoader instantiates the manifest with the Extism runtime, WASI
// enabled and no host functions.
func ExtismLoader(ctx context.Context, manifest extism.Manifest) (Module, error) {
	p, err := extism.NewPlugin(ctx, manifest, extism.PluginConfig{EnableWasi: true}, []extism.HostFunction{})
	if err != nil {
		return nil, err
	}
	return extismModule{p: p}, nil
}
