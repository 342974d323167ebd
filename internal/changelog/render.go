package changelog

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/universal-changesets/changeset/internal/changeset"
)

// Section is one group of changes in a changelog entry.
type Section struct {
	Title string
	Type  changeset.IncrementType
}

// Sections lists the entry groups in rendering order.
var Sections = []Section{
	{Title: "Breaking Changes", Type: changeset.Major},
	{Title: "Features", Type: changeset.Minor},
	{Title: "Patches", Type: changeset.Patch},
}

// Render produces the changelog entry for version from changes.
// The result has no trailing newline, and is empty when changes is empty.
func Render(version *semver.Version, changes changeset.ChangeSet) string {
	if len(changes) == 0 {
		return ""
	}

	blocks := []string{EntryHeading(version)}
	for _, s := range Sections {
		if section := renderSection(s.Title, changes.Filter(s.Type)); section != "" {
			blocks = append(blocks, section)
		}
	}
	return strings.Join(blocks, "\n\n")
}

// EntryHeading returns the "## <version>" line that opens an entry.
func EntryHeading(version *semver.Version) string {
	return entryMarker + version.String()
}

// renderSection writes a "### <title>" group, or nothing if there are no changes.
func renderSection(title string, changes changeset.ChangeSet) string {
	if len(changes) == 0 {
		return ""
	}

	parts := make([]string, 0, len(changes)+1)
	parts = append(parts, "### "+title)
	for _, c := range changes {
		entry := "#### " + c.Summary
		if c.Description != "" {
			entry += "\n\n" + c.Description
		}
		parts = append(parts, entry)
	}
	return strings.Join(parts, "\n\n")
}
