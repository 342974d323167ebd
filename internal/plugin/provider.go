package plugin

import (
	"context"
	"fmt"
)

// Provider turns a descriptor into a loaded plugin instance. The artifact is
// fetched at most once per Provider.
type Provider struct {
	Descriptor Descriptor
	Cache      *Cache
	Sandbox    *Sandbox

	artifact *Artifact
}

// Artifact resolves the descriptor's locator and returns a verified cached
// copy of the plugin, downloading it if needed.
func (p *Provider) Artifact(ctx context.Context) (Artifact, error) {
	if p.artifact != nil {
		return *p.artifact, nil
	}

	url, err := ResolveLocator(p.Descriptor.URL)
	if err != nil {
		return Artifact{}, err
	}
	a, err := p.Cache.FetchAndCache(ctx, url, p.Descriptor.Expected())
	if err != nil {
		return Artifact{}, err
	}
	p.artifact = &a
	return a, nil
}

// Cached reports whether opening needs no download.
func (p *Provider) Cached() bool {
	if p.artifact != nil {
		return true
	}
	expected := p.Descriptor.Expected()
	if expected == "" {
		return false
	}
	_, ok := p.Cache.Lookup(expected)
	return ok
}

// Open loads the plugin in the given mode.
func (p *Provider) Open(ctx context.Context, mode Mode) (*Instance, error) {
	a, err := p.Artifact(ctx)
	if err != nil {
		return nil, err
	}
	inst, err := p.Sandbox.Load(ctx, a, mode)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: %w", p.Descriptor.URL, err)
	}
	return inst, nil
}
