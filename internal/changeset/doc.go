// Package changeset implements the changeset records that drive version bumps.
//
// This package implements:
//   - IncrementType, a closed Major/Minor/Patch variant with an explicit total order
//   - Record parsing and formatting for .changeset/*.md files
//   - Store, which discovers, creates and consumes records on disk
//   - Bump resolution: reducing a ChangeSet to one increment and applying it
//
// A record looks like:
//
//	---
//	changeset/type: minor
//	---
//
//	# Add support for workspaces
//
//	---
//
//	Optional free-text description.
package changeset
