package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeConfigInvalidEndpoint, "test error message")

	assert.Equal(t, ErrCodeConfigInvalidEndpoint, err.Code)
	assert.Equal(t, "test error message", err.Message)
	assert.Nil(t, err.Cause)
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := Wrap(ErrCodeExportConnectionFailed, "failed to connect", cause)

	assert.Equal(t, ErrCodeExportConnectionFailed, err.Code)
	assert.Same(t, cause, err.Cause)
	assert.True(t, errors.Is(err, cause), "Wrap should support errors.Is")
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *MiniError
		wantCode string
		wantMsg  string
	}{
		{
			name:     "simple error",
			err:      New(ErrCodeTraceInvalidRatio, "invalid ratio"),
			wantCode: "TRACE-001",
			wantMsg:  "invalid ratio",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeExportConnectionFailed, "connect failed", fmt.Errorf("permission denied")),
			wantCode: "EXPORT-001",
			wantMsg:  "connect failed: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			assert.True(t, strings.HasPrefix(msg, fmt.Sprintf("[%s]", tt.wantCode)))
			assert.Contains(t, msg, tt.wantMsg)
		})
	}
}

func TestWithSuggestionAndDocs(t *testing.T) {
	err := New(ErrCodeMetricInvalidBounds, "bad bounds").
		WithSuggestion("use increasing bounds").
		WithSuggestion("see the histogram docs").
		WithDocs("https://example.invalid/docs")

	msg := err.Error()
	assert.Contains(t, msg, "Suggestions:")
	assert.Contains(t, msg, "• use increasing bounds")
	assert.Contains(t, msg, "• see the histogram docs")
	assert.Contains(t, msg, "Documentation: https://example.invalid/docs")
}

func TestWithSuggestions(t *testing.T) {
	err := New(ErrCodeMetricInvalidBounds, "bad bounds").
		WithSuggestions("first", "second")

	require.Len(t, err.Suggestions, 2)
	assert.Equal(t, "first", err.Suggestions[0])
	assert.Equal(t, "second", err.Suggestions[1])
}

func TestConstructors(t *testing.T) {
	t.Run("invalid endpoint", func(t *testing.T) {
		err := NewInvalidEndpointError("not-a-url", fmt.Errorf("parse error"))
		assert.Equal(t, ErrCodeConfigInvalidEndpoint, err.Code)
		assert.Contains(t, err.Error(), "not-a-url")
	})

	t.Run("retries exhausted", func(t *testing.T) {
		err := NewRetriesExhaustedError(4, fmt.Errorf("unavailable"))
		assert.Equal(t, ErrCodeExportRetriesExhausted, err.Code)
		assert.Contains(t, err.Error(), "4 retries")
	})

	t.Run("connection failed", func(t *testing.T) {
		err := NewConnectionFailedError("127.0.0.1:4317", fmt.Errorf("dial tcp: refused"))
		assert.Equal(t, ErrCodeExportConnectionFailed, err.Code)
	})

	t.Run("status rejected", func(t *testing.T) {
		err := NewStatusRejectedError("http://localhost:4318/v1/traces", 400)
		assert.Equal(t, ErrCodeExportStatusRejected, err.Code)
		assert.Contains(t, err.Error(), "400")
	})

	t.Run("invalid traceparent", func(t *testing.T) {
		err := NewInvalidTraceParentError("garbage")
		assert.Equal(t, ErrCodeTraceInvalidTraceParent, err.Code)
	})

	t.Run("invalid ratio", func(t *testing.T) {
		err := NewInvalidRatioError(1.5)
		assert.Equal(t, ErrCodeTraceInvalidRatio, err.Code)
	})

	t.Run("invalid bounds", func(t *testing.T) {
		err := NewInvalidBoundsError("must be strictly increasing")
		assert.Equal(t, ErrCodeMetricInvalidBounds, err.Code)
	})
}
