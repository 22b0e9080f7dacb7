// Package toolpin provides public constants for external tools integrating
// with toolpin.
package toolpin

// Exit codes returned by the toolpin CLI.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure (a task failed, a report could not be written).
	ExitFailure = 1

	// ExitConfigError indicates a configuration error (invalid config, bad flags, etc.).
	ExitConfigError = 2

	// ExitToolchainError indicates that no installed toolchain matches a requested version.
	ExitToolchainError = 3
)
