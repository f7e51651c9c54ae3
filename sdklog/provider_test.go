package sdklog

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/felixgeelhaar/otelmini/attribute"
	"github.com/felixgeelhaar/otelmini/otlp/encode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogExporter struct {
	mu      sync.Mutex
	batches [][]encode.LogRecord
}

func (e *fakeLogExporter) Export(_ context.Context, records []encode.LogRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.batches = append(e.batches, append([]encode.LogRecord(nil), records...))
	return nil
}
func (e *fakeLogExporter) Shutdown(context.Context) error   { return nil }
func (e *fakeLogExporter) ForceFlush(context.Context) error { return nil }

func (e *fakeLogExporter) flat() []encode.LogRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []encode.LogRecord
	for _, b := range e.batches {
		out = append(out, b...)
	}
	return out
}

func TestLoggerEmitExportsRecord(t *testing.T) {
	exp := &fakeLogExporter{}
	p := NewLoggerProvider(exp)
	defer p.Shutdown(context.Background())

	logger := p.Logger("test", "", "")
	logger.Emit(context.Background(), Record{
		Severity: encode.SeverityInfo,
		Body:     attribute.StringValue("hello"),
	})

	require.NoError(t, p.ForceFlush(context.Background()))
	records := exp.flat()
	require.Len(t, records, 1)
	assert.Equal(t, "hello", records[0].Body.AsString())
	assert.Equal(t, encode.SeverityInfo, records[0].Severity)
}

func TestLoggerIsCachedPerScope(t *testing.T) {
	p := NewLoggerProvider(&fakeLogExporter{})
	defer p.Shutdown(context.Background())

	a := p.Logger("svc", "", "")
	b := p.Logger("svc", "", "")
	assert.Same(t, a, b)
}

func TestBridgeHandlerRoutesSlogRecords(t *testing.T) {
	exp := &fakeLogExporter{}
	p := NewLoggerProvider(exp)
	defer p.Shutdown(context.Background())

	handler := NewBridgeHandler(p, "app")
	logger := slog.New(handler)
	logger.Warn("disk almost full", slog.Int("free_pct", 3))

	require.NoError(t, p.ForceFlush(context.Background()))
	records := exp.flat()
	require.Len(t, records, 1)
	assert.Equal(t, encode.SeverityWarn, records[0].Severity)
	assert.Equal(t, "disk almost full", records[0].Body.AsString())
	require.Len(t, records[0].Attributes, 1)
	assert.Equal(t, "free_pct", records[0].Attributes[0].Key)
}

func TestBridgeHandlerWithAttrsAndGroup(t *testing.T) {
	exp := &fakeLogExporter{}
	p := NewLoggerProvider(exp)
	defer p.Shutdown(context.Background())

	handler := NewBridgeHandler(p, "app")
	logger := slog.New(handler).With("request_id", "abc").WithGroup("http")
	logger.Info("request handled", slog.Int("status", 200))

	require.NoError(t, p.ForceFlush(context.Background()))
	records := exp.flat()
	require.Len(t, records, 1)

	keys := make(map[string]bool)
	for _, kv := range records[0].Attributes {
		keys[kv.Key] = true
	}
	assert.True(t, keys["request_id"])
	assert.True(t, keys["http.status"])
}

func TestSeverityFromSlogLevel(t *testing.T) {
	assert.Equal(t, encode.SeverityDebug, severityFromSlogLevel(slog.LevelDebug))
	assert.Equal(t, encode.SeverityInfo, severityFromSlogLevel(slog.LevelInfo))
	assert.Equal(t, encode.SeverityWarn, severityFromSlogLevel(slog.LevelWarn))
	assert.Equal(t, encode.SeverityError, severityFromSlogLevel(slog.LevelError))
}
