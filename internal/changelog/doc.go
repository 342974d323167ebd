// Package changelog renders pending changesets as a Markdown changelog entry
// and merges that entry into an existing CHANGELOG.md.
//
// This package implements:
//   - Entry rendering grouped into Breaking Changes, Features and Patches
//   - Insertion of a new entry before the most recent "## " entry
//   - Reading and writing the changelog document (a missing file is empty)
//   - Unified diffs and terminal formatting for previews
//
// Merging is deterministic: the same document, version and changes always
// produce the same output, and merging a version that is already present
// replaces its entry instead of adding a second one.
package changelog
