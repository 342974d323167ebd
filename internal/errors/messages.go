package errors

import (
	stderrors "errors"

	"github.com/universal-changesets/changeset/internal/apperr"
)

// guidance is the presentation of one failure kind.
type guidance struct {
	kind        error
	category    ErrorCategory
	remediation []string
}

// catalog is checked in order; the first kind found in the chain wins.
var catalog = []guidance{
	{
		kind:     apperr.ErrChecksumMismatch,
		category: Integrity,
		remediation: []string{
			"The downloaded plugin does not match plugin.sha256 in .changeset/config.json",
			"Verify the plugin release you expect and update the checksum deliberately",
			"Never remove the checksum just to silence this error",
		},
	},
	{
		kind:     apperr.ErrInvalidLocator,
		category: Configuration,
		remediation: []string{
			"Set plugin.url to an https:// URL or gh:{owner}/{repo}@{version}",
			"Example: gh:universal-changesets/rust-cargo-plugin@1.0.0",
		},
	},
	{
		kind:     apperr.ErrConfig,
		category: Configuration,
		remediation: []string{
			"Check .changeset/config.json (or config.yml) in the project root",
			"Environment overrides use the CHANGESET_ prefix, e.g. CHANGESET_PLUGIN_URL",
		},
	},
	{
		kind:     apperr.ErrDownloadFailed,
		category: Plugin,
		remediation: []string{
			"Check your network connection and that the plugin URL exists",
			"For gh: locators, confirm the release has a plugin.wasm asset",
		},
	},
	{
		kind:     apperr.ErrPluginInvocation,
		category: Plugin,
		remediation: []string{
			"Check plugin.versionedFile points at an existing file in the project",
			"Rerun with --debug to see the plugin calls",
		},
	},
	{
		kind:     apperr.ErrVersionParse,
		category: Input,
		remediation: []string{
			"The version must be a full semantic version such as 1.2.3",
			"Check the version stored in the versioned file",
		},
	},
	{
		kind:     apperr.ErrMalformedRecord,
		category: Input,
		remediation: []string{
			"Each changeset starts with a ---/--- block containing changeset/type: major|minor|patch",
			"The body needs a '# <summary>' heading",
			"Fix or delete the named file in .changeset/",
		},
	},
	{
		kind:     apperr.ErrIO,
		category: Runtime,
		remediation: []string{
			"Check file permissions in the project and the plugin cache directory",
		},
	},
}

// FromDomain converts err into a CLIError. Errors that already are CLIErrors
// are returned as is; unknown errors become Runtime errors.
func FromDomain(err error) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr
	}
	for _, g := range catalog {
		if stderrors.Is(err, g.kind) {
			return Wrap(err, g.category, g.remediation...)
		}
	}
	return Wrap(err, Runtime)
}

// MissingPlugin creates an error for commands that need a configured plugin.
func MissingPlugin() *CLIError {
	return &CLIError{
		Category: Configuration,
		Message:  "no version-file plugin configured",
		Remediation: []string{
			"Add a plugin to .changeset/config.json:",
			`{"plugin": {"url": "gh:owner/repo@1.0.0", "versionedFile": "Cargo.toml"}}`,
			"Or set CHANGESET_PLUGIN_URL",
		},
	}
}
