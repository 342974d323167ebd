package changelog

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// diffContext is the number of unchanged lines shown around each hunk.
const diffContext = 3

// Diff returns a unified diff between the current and merged changelog.
// It is empty when both documents are identical.
func Diff(name, before, after string) (string, error) {
	if before == after {
		return "", nil
	}

	u := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  diffContext,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return "", fmt.Errorf("diffing %s: %w", name, err)
	}
	return s, nil
}
