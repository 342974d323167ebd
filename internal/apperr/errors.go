// Package apperr defines the failure kinds surfaced by the changeset core.
//
// Domain packages wrap one of these sentinels together with the underlying
// cause, so callers classify with errors.Is and still see the original error:
//
//	fmt.Errorf("%w: reading %s: %w", apperr.ErrIO, path, err)
package apperr

import "errors"

var (
	// ErrMalformedRecord marks a changeset record that cannot be parsed.
	ErrMalformedRecord = errors.New("malformed changeset record")
	// ErrInvalidLocator marks a plugin locator with an unrecognized shape.
	ErrInvalidLocator = errors.New("invalid plugin locator")
	// ErrDownloadFailed marks a transport failure or non-success status while fetching a plugin.
	ErrDownloadFailed = errors.New("plugin download failed")
	// ErrChecksumMismatch marks a plugin whose digest differs from the declared one.
	ErrChecksumMismatch = errors.New("plugin checksum mismatch")
	// ErrPluginInvocation marks a failed call into the sandboxed plugin.
	ErrPluginInvocation = errors.New("plugin invocation failed")
	// ErrVersionParse marks a string that is not a valid semantic version.
	ErrVersionParse = errors.New("invalid semantic version")
	// ErrIO marks filesystem failures on records, cache entries or the changelog.
	ErrIO = errors.New("i/o failure")
	// ErrConfig marks missing or invalid configuration.
	ErrConfig = errors.New("invalid configuration")
)

// Kind returns the sentinel that err wraps, or nil if it wraps none.
func Kind(err error) error {
	for _, kind := range []error{
		ErrMalformedRecord,
		ErrInvalidLocator,
		ErrDownloadFailed,
		ErrChecksumMismatch,
		ErrPluginInvocation,
		ErrVersionParse,
		ErrConfig,
		ErrIO,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
