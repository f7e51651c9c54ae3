// Package exitcode maps SDK and CLI errors to process exit codes so
// scripts invoking the otelmini CLI can branch on failure kind without
// parsing stderr.
package exitcode

import (
	"errors"
	"os"
	"strings"

	"github.com/felixgeelhaar/otelmini/atexit"
	apperrors "github.com/felixgeelhaar/otelmini/internal/errors"
)

// Exit codes for consistent error handling across the CLI.
const (
	// Success indicates successful execution.
	Success = 0

	// GeneralError indicates a general error condition.
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ConfigError indicates an invalid or missing configuration value.
	ConfigError = 3

	// ExportError indicates the exporter could not deliver telemetry after
	// exhausting its retries.
	ExportError = 4

	// ConnectionError indicates a transport-level failure reaching a
	// collector endpoint.
	ConnectionError = 5

	// Interrupted indicates the operation was cancelled by user (Ctrl+C).
	Interrupted = 130
)

// Exit drains every registered atexit.Hook (any Timer still running a
// BatchProcessor or PeriodicReader) and then terminates the program with
// the given exit code.
func Exit(code int) {
	atexit.Run()
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type.
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var miniErr *apperrors.MiniError
	if errors.As(err, &miniErr) && miniErr.Code == apperrors.ErrCodeExportRetriesExhausted {
		return ExportError
	}

	errMsg := strings.ToLower(err.Error())

	if code, matched := checkConfigError(errMsg); matched {
		return code
	}
	if code, matched := checkConnectionError(errMsg); matched {
		return code
	}
	if code, matched := checkExportError(errMsg); matched {
		return code
	}
	if code, matched := checkUsageError(errMsg); matched {
		return code
	}

	return GeneralError
}

func checkConfigError(errMsg string) (int, bool) {
	if strings.Contains(errMsg, "config-") || strings.Contains(errMsg, "invalid exporter endpoint") {
		return ConfigError, true
	}
	return 0, false
}

func checkConnectionError(errMsg string) (int, bool) {
	if strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "dial") {
		return ConnectionError, true
	}
	if strings.Contains(errMsg, "unreachable") || strings.Contains(errMsg, "timeout") {
		return ConnectionError, true
	}
	return 0, false
}

func checkExportError(errMsg string) (int, bool) {
	if strings.Contains(errMsg, "export-") || strings.Contains(errMsg, "retries") {
		return ExportError, true
	}
	return 0, false
}

func checkUsageError(errMsg string) (int, bool) {
	if strings.Contains(errMsg, "invalid flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError, true
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "missing argument") {
		return UsageError, true
	}
	return 0, false
}

// GetExitCodeDescription returns a human-readable description of an exit code.
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case ConfigError:
		return "Invalid configuration"
	case ExportError:
		return "Export failed after exhausting retries"
	case ConnectionError:
		return "Connection to collector failed"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
