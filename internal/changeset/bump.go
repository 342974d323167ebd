package changeset

import (
	"github.com/Masterminds/semver/v3"
)

// Bump returns v moved forward by t. Pre-release and build metadata are
// carried over unchanged.
func Bump(v *semver.Version, t IncrementType) *semver.Version {
	switch t {
	case Major:
		return semver.New(v.Major()+1, 0, 0, v.Prerelease(), v.Metadata())
	case Minor:
		return semver.New(v.Major(), v.Minor()+1, 0, v.Prerelease(), v.Metadata())
	case Patch:
		return semver.New(v.Major(), v.Minor(), v.Patch()+1, v.Prerelease(), v.Metadata())
	default:
		return v
	}
}

// ResolveBump reduces changes to the most significant increment among them.
// It reports false when there are no changes, which means there is nothing to release.
func ResolveBump(changes ChangeSet) (IncrementType, bool) {
	if len(changes) == 0 {
		return 0, false
	}

	final := changes[0].Type
	for _, c := range changes[1:] {
		if Compare(c.Type, final) > 0 {
			final = c.Type
		}
	}
	return final, true
}

// NextVersion returns current bumped by the resolved increment of changes,
// or current itself when there is nothing to release.
func NextVersion(current *semver.Version, changes ChangeSet) *semver.Version {
	t, ok := ResolveBump(changes)
	if !ok {
		return current
	}
	return Bump(current, t)
}
