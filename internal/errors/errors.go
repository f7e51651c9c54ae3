// Package errors provides a structured error type for the otelmini SDK and
// exporters, modeled on the taxonomy of failure kinds a telemetry pipeline
// can hit: configuration, transport, encoding, and shutdown ordering.
package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier.
type ErrorCode string

// Error categories. Codes are grouped by the pipeline stage that surfaces
// them so a log line or exit code can be traced back to a component without
// parsing the message text.
const (
	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalidEndpoint ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalidEnvVar   ErrorCode = "CONFIG-002"
	ErrCodeConfigMissingValue    ErrorCode = "CONFIG-003"

	// Export/transport errors (EXPORT-001 to EXPORT-099)
	ErrCodeExportConnectionFailed ErrorCode = "EXPORT-001"
	ErrCodeExportRetriesExhausted ErrorCode = "EXPORT-002"
	ErrCodeExportTimeout          ErrorCode = "EXPORT-003"
	ErrCodeExportStatusRejected   ErrorCode = "EXPORT-004"
	ErrCodeExportPartialSuccess   ErrorCode = "EXPORT-005"

	// Encoding errors (ENCODE-001 to ENCODE-099)
	ErrCodeEncodeUnsupportedValue ErrorCode = "ENCODE-001"
	ErrCodeEncodeMarshalFailed    ErrorCode = "ENCODE-002"

	// Processor/batch lifecycle errors (PROC-001 to PROC-099)
	ErrCodeProcessorShutdown     ErrorCode = "PROC-001"
	ErrCodeProcessorQueueFull    ErrorCode = "PROC-002"
	ErrCodeProcessorForkConflict ErrorCode = "PROC-003"

	// Sampler/propagation errors (TRACE-001 to TRACE-099)
	ErrCodeTraceInvalidRatio       ErrorCode = "TRACE-001"
	ErrCodeTraceInvalidTraceParent ErrorCode = "TRACE-002"

	// Aggregation errors (METRIC-001 to METRIC-099)
	ErrCodeMetricInvalidBounds    ErrorCode = "METRIC-001"
	ErrCodeMetricDuplicateStream  ErrorCode = "METRIC-002"
	ErrCodeMetricCallbackPanicked ErrorCode = "METRIC-003"
)

// MiniError is an enhanced error carrying a code, remediation suggestions,
// and an optional wrapped cause.
type MiniError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface.
func (e *MiniError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *MiniError) Unwrap() error {
	return e.Cause
}

// New creates a new MiniError.
func New(code ErrorCode, message string) *MiniError {
	return &MiniError{Code: code, Message: message}
}

// Wrap creates a new MiniError wrapping an existing error.
func Wrap(code ErrorCode, message string, cause error) *MiniError {
	return &MiniError{Code: code, Message: message, Cause: cause}
}

// WithSuggestion adds a suggestion to the error.
func (e *MiniError) WithSuggestion(suggestion string) *MiniError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error.
func (e *MiniError) WithSuggestions(suggestions ...string) *MiniError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error.
func (e *MiniError) WithDocs(url string) *MiniError {
	e.DocsURL = url
	return e
}

// NewInvalidEndpointError creates a configuration error for a malformed
// exporter endpoint.
func NewInvalidEndpointError(endpoint string, cause error) *MiniError {
	return Wrap(ErrCodeConfigInvalidEndpoint, fmt.Sprintf("invalid exporter endpoint: %s", endpoint), cause).
		WithSuggestion("Set OTEL_EXPORTER_OTLP_ENDPOINT to a valid http(s) or host:port address")
}

// NewRetriesExhaustedError creates an error reported once a Retrier has run
// out of attempts without a success.
func NewRetriesExhaustedError(maxRetries int, cause error) *MiniError {
	return Wrap(ErrCodeExportRetriesExhausted, fmt.Sprintf("export failed after %d retries", maxRetries), cause).
		WithSuggestion("Check collector availability and network connectivity").
		WithSuggestion("Increase OTEL_EXPORTER_OTLP_TIMEOUT if the collector is slow")
}

// NewConnectionFailedError creates an error for a transport-level dial or
// connect failure.
func NewConnectionFailedError(endpoint string, cause error) *MiniError {
	return Wrap(ErrCodeExportConnectionFailed, fmt.Sprintf("failed to connect to %s", endpoint), cause).
		WithSuggestion("Verify the collector is reachable at the configured endpoint")
}

// NewStatusRejectedError creates an error for a non-retryable response
// status from a collector.
func NewStatusRejectedError(endpoint string, status int) *MiniError {
	return New(ErrCodeExportStatusRejected, fmt.Sprintf("collector %s rejected export with status %d", endpoint, status)).
		WithSuggestion("Inspect collector logs for the rejection reason")
}

// NewInvalidTraceParentError creates a propagation error for a malformed
// traceparent header.
func NewInvalidTraceParentError(header string) *MiniError {
	return New(ErrCodeTraceInvalidTraceParent, fmt.Sprintf("malformed traceparent header: %q", header)).
		WithSuggestion("traceparent must match version-traceId-spanId-flags, e.g. 00-<32hex>-<16hex>-01")
}

// NewInvalidRatioError creates a sampler configuration error.
func NewInvalidRatioError(ratio float64) *MiniError {
	return New(ErrCodeTraceInvalidRatio, fmt.Sprintf("trace ID ratio must be in [0,1], got %v", ratio))
}

// NewInvalidBoundsError creates a histogram configuration error.
func NewInvalidBoundsError(reason string) *MiniError {
	return New(ErrCodeMetricInvalidBounds, fmt.Sprintf("invalid histogram bucket boundaries: %s", reason)).
		WithSuggestion("Boundaries must be strictly increasing")
}
