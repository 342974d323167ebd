package changeset

import (
	"fmt"

	"github.com/universal-changesets/changeset/internal/apperr"
)

// IncrementType is the segment of a semantic version that a change forces forward.
// The zero value is not a valid increment.
type IncrementType int

const (
	Patch IncrementType = iota + 1
	Minor
	Major
)

// rank positions an increment in the total order Major > Minor > Patch.
// The order is spelled out here rather than derived from the constant values.
func (t IncrementType) rank() int {
	switch t {
	case Major:
		return 3
	case Minor:
		return 2
	case Patch:
		return 1
	default:
		return 0
	}
}

// Compare returns -1, 0 or +1 when a ranks below, equal to, or above b.
func Compare(a, b IncrementType) int {
	ra, rb := a.rank(), b.rank()
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	default:
		return 0
	}
}

// Valid reports whether t is one of Major, Minor or Patch.
func (t IncrementType) Valid() bool {
	return t.rank() > 0
}

// String returns the record token for t ("major", "minor", "patch").
func (t IncrementType) String() string {
	switch t {
	case Major:
		return "major"
	case Minor:
		return "minor"
	case Patch:
		return "patch"
	default:
		return fmt.Sprintf("IncrementType(%d)", int(t))
	}
}

// ParseIncrementType parses an exact, case-sensitive record token.
func ParseIncrementType(s string) (IncrementType, error) {
	switch s {
	case "major":
		return Major, nil
	case "minor":
		return Minor, nil
	case "patch":
		return Patch, nil
	default:
		return 0, fmt.Errorf("%w: unknown bump type %q (expected: major, minor, patch)", apperr.ErrMalformedRecord, s)
	}
}

// IncrementTypes returns all increments from most to least significant.
func IncrementTypes() []IncrementType {
	return []IncrementType{Major, Minor, Patch}
}

// Change is one parsed changeset record. It is immutable once parsed.
type Change struct {
	// Path locates the backing record; it is only used to delete it on consume.
	Path        string
	Type        IncrementType
	Summary     string
	Description string
}

// ChangeSet holds changes in the order they were discovered on disk.
type ChangeSet []Change

// Filter returns the changes of the given type, preserving order.
func (cs ChangeSet) Filter(t IncrementType) ChangeSet {
	var out ChangeSet
	for _, c := range cs {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}
