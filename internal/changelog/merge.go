package changelog

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/universal-changesets/changeset/internal/changeset"
)

const (
	// Title is written at the top of a changelog that has no content yet.
	Title = "# Changelog"

	entryMarker = "## "
)

// Merge splices the entry for version into the existing document.
//
// The entry goes right before the first line starting with "## " (the most
// recent release), or at the end when there is none. An existing entry for the
// same version is removed first, wherever it is, so the version appears once
// and always ahead of the other releases. An empty document gets a
// title first. When changes is empty the document is returned with only its
// trailing whitespace normalized. The result always ends with a single newline.
func Merge(existing string, version *semver.Version, changes changeset.ChangeSet) string {
	doc := strings.TrimRight(existing, " \t\r\n")
	if strings.TrimSpace(doc) == "" {
		doc = Title
	}

	block := Render(version, changes)
	if block == "" {
		return doc + "\n"
	}

	doc += "\n\n"
	insert := block + "\n\n"

	if start, end, ok := findEntry(doc, EntryHeading(version)); ok {
		doc = doc[:start] + doc[end:]
	}
	doc = InsertBefore(doc, entryMarker, insert)

	return strings.TrimRight(doc, " \t\r\n") + "\n"
}

// InsertBefore inserts insert before the first line of doc that starts with
// marker, or appends it when no line does. Everything else is kept verbatim.
func InsertBefore(doc, marker, insert string) string {
	if pos := lineIndex(doc, marker, 0); pos >= 0 {
		return doc[:pos] + insert + doc[pos:]
	}
	return doc + insert
}

// lineIndex returns the offset of the first line at or after from that starts
// with prefix, or -1.
func lineIndex(doc, prefix string, from int) int {
	for pos := from; pos < len(doc); {
		if strings.HasPrefix(doc[pos:], prefix) {
			return pos
		}
		next := strings.IndexByte(doc[pos:], '\n')
		if next < 0 {
			return -1
		}
		pos += next + 1
	}
	return -1
}

// findEntry locates the entry whose heading line is exactly heading. The entry
// spans up to the next "## " line or the end of the document.
func findEntry(doc, heading string) (start, end int, ok bool) {
	for pos := 0; ; {
		start = lineIndex(doc, heading, pos)
		if start < 0 {
			return 0, 0, false
		}
		lineEnd := start + len(heading)
		rest := lineOf(doc, lineEnd)
		if strings.TrimRight(rest, " \t\r") == "" {
			break
		}
		pos = lineEnd + len(rest)
	}

	bodyStart := start + len(heading)
	if nl := strings.IndexByte(doc[bodyStart:], '\n'); nl >= 0 {
		bodyStart += nl + 1
	} else {
		bodyStart = len(doc)
	}

	end = lineIndex(doc, entryMarker, bodyStart)
	if end < 0 {
		end = len(doc)
	}
	return start, end, true
}

// lineOf returns the rest of the line starting at pos, without the newline.
func lineOf(doc string, pos int) string {
	rest := doc[pos:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		return rest[:nl]
	}
	return rest
}
