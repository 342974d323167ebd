package plugin

import (
	"fmt"
	"strings"

	"github.com/universal-changesets/changeset/internal/apperr"
)

const (
	// githubPrefix marks the gh:{owner}/{repo}@{version} shorthand.
	githubPrefix = "gh:"

	// githubReleaseURL is the release-asset URL the shorthand expands to.
	githubReleaseURL = "https://github.com/%s/%s/releases/download/%s/" + ArtifactName
)

// Descriptor identifies a plugin artifact and, optionally, the SHA-256 digest
// its bytes must hash to.
type Descriptor struct {
	URL    string
	SHA256 string
}

// Expected returns the declared digest normalized to lower case, or "" when
// none was declared.
func (d Descriptor) Expected() string {
	return strings.ToLower(strings.TrimSpace(d.SHA256))
}

// ResolveLocator turns a plugin locator into a download URL. Absolute http and
// https URLs are returned unchanged. The shorthand gh:{owner}/{repo}@{version}
// expands to the GitHub release asset for that version. Anything else fails
// with apperr.ErrInvalidLocator; there is no partial or best-effort parse.
func ResolveLocator(locator string) (string, error) {
	if strings.HasPrefix(locator, "https://") || strings.HasPrefix(locator, "http://") {
		return locator, nil
	}

	rest, ok := strings.CutPrefix(locator, githubPrefix)
	if !ok {
		return "", fmt.Errorf("%w: %q is neither an http(s) URL nor a %s shorthand",
			apperr.ErrInvalidLocator, locator, githubPrefix)
	}

	repoPart, version, err := splitExactlyOnce(rest, "@")
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", apperr.ErrInvalidLocator, locator, err)
	}
	owner, repo, err := splitExactlyOnce(repoPart, "/")
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", apperr.ErrInvalidLocator, locator, err)
	}

	segments := []struct{ name, value string }{
		{"owner", owner}, {"repo", repo}, {"version", version},
	}
	for _, seg := range segments {
		if seg.value == "" {
			return "", fmt.Errorf("%w: %q: missing %s", apperr.ErrInvalidLocator, locator, seg.name)
		}
		if strings.ContainsAny(seg.value, " \t\r\n/") {
			return "", fmt.Errorf("%w: %q: invalid character in %s", apperr.ErrInvalidLocator, locator, seg.name)
		}
	}

	return fmt.Sprintf(githubReleaseURL, owner, repo, version), nil
}

// splitExactlyOnce splits s around sep and fails unless sep occurs exactly once.
func splitExactlyOnce(s, sep string) (string, string, error) {
	if n := strings.Count(s, sep); n != 1 {
		return "", "", fmt.Errorf("expected exactly one %q, found %d", sep, n)
	}
	before, after, _ := strings.Cut(s, sep)
	return before, after, nil
}
