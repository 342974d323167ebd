// Package release composes the changeset store, bump resolver, changelog
// merger, and version-file plugin into the two user-facing flows: planning
// a release (read-only) and applying it.
package release

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/universal-changesets/changeset/internal/changelog"
	"github.com/universal-changesets/changeset/internal/changeset"
	"github.com/universal-changesets/changeset/internal/plugin"
)

// VersionStore reads and writes the project version. *plugin.Instance
// implements it.
type VersionStore interface {
	GetVersion(ctx context.Context) (*semver.Version, error)
	SetVersion(ctx context.Context, v *semver.Version) error
	Close(ctx context.Context) error
}

// Opener opens the version store with the given filesystem capability.
type Opener func(ctx context.Context, mode plugin.Mode) (VersionStore, error)

// ChangeSource lists and removes pending changeset records.
type ChangeSource interface {
	Collect() (changeset.ChangeSet, error)
	Consume(changes changeset.ChangeSet) error
}

// Releaser runs release flows for one project.
type Releaser struct {
	Changes       ChangeSource
	Open          Opener
	ChangelogPath string
	Logger        *zap.Logger
}

// Plan is the outcome of a release computed without side effects.
type Plan struct {
	Current *semver.Version
	// Next equals Current when there is nothing to release.
	Next    *semver.Version
	Bump    changeset.IncrementType
	Changes changeset.ChangeSet
	// Entry is the rendered changelog block for Next.
	Entry string
	// Before and After are the changelog document without and with Entry.
	Before string
	After  string
}

// Empty reports whether there are no pending changes.
func (p *Plan) Empty() bool {
	return len(p.Changes) == 0
}

// CurrentVersion asks the plugin for the project's version.
func (r *Releaser) CurrentVersion(ctx context.Context) (*semver.Version, error) {
	store, err := r.Open(ctx, plugin.ReadOnly)
	if err != nil {
		return nil, err
	}
	defer r.closeStore(ctx, store)

	return store.GetVersion(ctx)
}

// Plan computes the next version and changelog without modifying anything.
// A project with no pending changes yields an empty plan, not an error.
func (r *Releaser) Plan(ctx context.Context) (*Plan, error) {
	current, err := r.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}

	changes, err := r.Changes.Collect()
	if err != nil {
		return nil, err
	}

	plan := &Plan{Current: current, Next: current, Changes: changes}
	bump, ok := changeset.ResolveBump(changes)
	if !ok {
		r.logger().Debug("no pending changesets", zap.Stringer("version", current))
		return plan, nil
	}

	plan.Bump = bump
	plan.Next = changeset.Bump(current, bump)
	plan.Entry = changelog.Render(plan.Next, changes)

	if plan.Before, err = changelog.ReadDocument(r.ChangelogPath); err != nil {
		return nil, err
	}
	plan.After = changelog.Merge(plan.Before, plan.Next, changes)

	r.logger().Debug("release planned",
		zap.Stringer("current", current),
		zap.Stringer("next", plan.Next),
		zap.Stringer("bump", bump),
		zap.Int("changes", len(changes)))
	return plan, nil
}

// Apply carries out plan: the changelog is rewritten, the plugin persists the
// new version, and the consumed records are deleted, in that order. A failure
// stops the sequence and leaves the version and records untouched, so a rerun
// computes the same next version and replaces the entry already written.
func (r *Releaser) Apply(ctx context.Context, plan *Plan) error {
	if plan.Empty() {
		return nil
	}

	store, err := r.Open(ctx, plugin.ReadWrite)
	if err != nil {
		return err
	}
	defer r.closeStore(ctx, store)

	if err := changelog.WriteDocument(r.ChangelogPath, plan.After); err != nil {
		return err
	}
	if err := store.SetVersion(ctx, plan.Next); err != nil {
		return fmt.Errorf("setting version %s: %w", plan.Next, err)
	}
	if err := r.Changes.Consume(plan.Changes); err != nil {
		return err
	}

	r.logger().Info("released", zap.Stringer("from", plan.Current), zap.Stringer("to", plan.Next))
	return nil
}

// Release plans and applies in one step.
func (r *Releaser) Release(ctx context.Context) (*Plan, error) {
	plan, err := r.Plan(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.Apply(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *Releaser) closeStore(ctx context.Context, store VersionStore) {
	if err := store.Close(ctx); err != nil {
		r.logger().Warn("closing plugin", zap.Error(err))
	}
}

func (r *Releaser) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
