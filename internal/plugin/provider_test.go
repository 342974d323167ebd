package plugin

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	extism "github.com/extism/go-sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/universal-changesets/changeset/internal/apperr"
)

func TestProviderOpen(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t, http.StatusOK, wasmBytes)
	module := &fakeModule{responses: map[string]fakeResponse{FuncGetVersion: {out: []byte("0.4.1")}}}

	var loaded extism.Manifest
	p := &Provider{
		Descriptor: Descriptor{URL: srv.URL + "/plugin.wasm", SHA256: DigestBytes(wasmBytes)},
		Cache:      newTestCache(t, srv),
		Sandbox: &Sandbox{
			ProjectRoot: t.TempDir(),
			Loader: func(_ context.Context, m extism.Manifest) (Module, error) {
				loaded = m
				return module, nil
			},
		},
	}

	inst, err := p.Open(context.Background(), ReadOnly)
	require.NoError(t, err)
	defer inst.Close(context.Background())

	v, err := inst.GetVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.4.1", v.String())

	file := loaded.Wasm[0].(extism.WasmFile)
	assert.Equal(t, filepath.Join(p.Cache.Root, DigestBytes(wasmBytes), ArtifactName), file.Path)
}

func TestProviderOpen_Failures(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		url     func(srv string) string
		sha256  string
		wantErr error
	}{
		"invalid locator": {
			url:     func(string) string { return "gh:owner/repo" },
			wantErr: apperr.ErrInvalidLocator,
		},
		"checksum mismatch": {
			url:     func(srv string) string { return srv },
			sha256:  helloDigest,
			wantErr: apperr.ErrChecksumMismatch,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			srv, _ := newServer(t, http.StatusOK, wasmBytes)
			loaderCalled := false
			p := &Provider{
				Descriptor: Descriptor{URL: tt.url(srv.URL), SHA256: tt.sha256},
				Cache:      newTestCache(t, srv),
				Sandbox: &Sandbox{
					ProjectRoot: t.TempDir(),
					Loader: func(context.Context, extism.Manifest) (Module, error) {
						loaderCalled = true
						return &fakeModule{}, nil
					},
				},
			}

			_, err := p.Open(context.Background(), ReadOnly)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, loaderCalled, "an unverified artifact is never loaded")
		})
	}
}

func TestProviderArtifact_FetchesOnce(t *testing.T) {
	t.Parallel()

	srv, hits := newServer(t, http.StatusOK, wasmBytes)
	p := &Provider{
		Descriptor: Descriptor{URL: srv.URL},
		Cache:      newTestCache(t, srv),
	}

	assert.False(t, p.Cached())
	first, err := p.Artifact(context.Background())
	require.NoError(t, err)
	second, err := p.Artifact(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())
	assert.True(t, p.Cached())
}
