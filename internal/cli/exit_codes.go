package cli

import (
	clierrors "github.com/universal-changesets/changeset/internal/errors"
)

// Exit codes for the changeset CLI
// These codes let scripts and CI tell failure kinds apart
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a runtime or input failure
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 2

	// ExitConfigError indicates missing or invalid configuration
	ExitConfigError = 3

	// ExitIntegrityError indicates a plugin failed checksum verification
	ExitIntegrityError = 4

	// ExitPluginError indicates the plugin could not be fetched, loaded, or called
	ExitPluginError = 5
)

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case clierrors.Argument:
			return ExitInvalidArguments
		case clierrors.Configuration:
			return ExitConfigError
		case clierrors.Integrity:
			return ExitIntegrityError
		case clierrors.Plugin:
			return ExitPluginError
		}
	}
	return ExitFailure
}
