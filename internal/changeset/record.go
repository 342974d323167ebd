package changeset

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/universal-changesets/changeset/internal/apperr"
)

const (
	// TypeKey is the metadata key carrying the bump type of a record.
	TypeKey = "changeset/type"

	separator     = "---"
	summaryPrefix = "# "
)

// metadata is the YAML block at the top of a record.
type metadata struct {
	Type *string `yaml:"changeset/type"`
}

// ParseRecord parses the content of a changeset record stored at path.
func ParseRecord(path string, content []byte) (Change, error) {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")

	block, body, err := splitMetadata(text)
	if err != nil {
		return Change{}, fmt.Errorf("%w: %s: %v", apperr.ErrMalformedRecord, path, err)
	}

	var meta metadata
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return Change{}, fmt.Errorf("%w: %s: parsing metadata: %v", apperr.ErrMalformedRecord, path, err)
	}
	if meta.Type == nil {
		return Change{}, fmt.Errorf("%w: %s: metadata has no %q key", apperr.ErrMalformedRecord, path, TypeKey)
	}

	t, err := ParseIncrementType(*meta.Type)
	if err != nil {
		return Change{}, fmt.Errorf("%s: %w", path, err)
	}

	summary, description, ok := splitBody(body)
	if !ok {
		return Change{}, fmt.Errorf("%w: %s: no %q summary heading", apperr.ErrMalformedRecord, path, strings.TrimSpace(summaryPrefix))
	}

	return Change{
		Path:        path,
		Type:        t,
		Summary:     summary,
		Description: description,
	}, nil
}

// splitMetadata separates the metadata block delimited by "---" lines from the body.
func splitMetadata(text string) (block, body string, err error) {
	trimmed := strings.TrimLeft(text, "\n")
	first, rest, found := strings.Cut(trimmed, "\n")
	if strings.TrimSpace(first) != separator {
		return "", "", fmt.Errorf("missing metadata block")
	}
	if !found {
		return "", "", fmt.Errorf("unterminated metadata block")
	}

	var meta []string
	scanner := bufio.NewScanner(strings.NewReader(rest))
	offset := 0
	for scanner.Scan() {
		line := scanner.Text()
		offset += len(line) + 1
		if strings.TrimSpace(line) == separator {
			if offset > len(rest) {
				offset = len(rest)
			}
			return strings.Join(meta, "\n"), rest[offset:], nil
		}
		meta = append(meta, line)
	}
	return "", "", fmt.Errorf("unterminated metadata block")
}

// splitBody finds the summary heading and the description that follows it.
// A separator line directly after the heading is not part of the description.
func splitBody(body string) (summary, description string, ok bool) {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, summaryPrefix) {
			continue
		}
		summary = strings.TrimSpace(strings.TrimPrefix(line, summaryPrefix))
		rest := strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		if r, found := strings.CutPrefix(rest, separator); found && (r == "" || r[0] == '\n') {
			rest = strings.TrimSpace(r)
		}
		return summary, rest, summary != ""
	}
	return "", "", false
}

// FormatRecord renders a record that ParseRecord reads back unchanged.
func FormatRecord(t IncrementType, summary, description string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s\n%s: %s\n%s\n\n", separator, TypeKey, t, separator)
	fmt.Fprintf(&b, "%s%s\n", summaryPrefix, strings.TrimSpace(summary))
	if d := strings.TrimSpace(description); d != "" {
		fmt.Fprintf(&b, "\n%s\n\n%s\n", separator, d)
	}
	return b.Bytes()
}
