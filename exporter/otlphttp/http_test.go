package otlphttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/felixgeelhaar/otelmini/otlp/encode"
	"github.com/felixgeelhaar/otelmini/otlp/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSleepRetrier() *retry.Retrier {
	return &retry.Retrier{MaxRetries: 4, BaseDelay: time.Millisecond, Sleep: func(time.Duration) {}}
}

func TestExportSucceedsOn200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	exp := NewTraceExporter(srv.URL)
	exp.NewRetrier = noSleepRetrier

	err := exp.Export(context.Background(), []encode.Span{{Name: "op"}})
	assert.NoError(t, err)
}

func TestExportRetriesOnTransientStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	exp := NewTraceExporter(srv.URL)
	exp.NewRetrier = noSleepRetrier

	err := exp.Export(context.Background(), []encode.Span{{Name: "op"}})
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestExportFailsOnNonRetryableStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	exp := NewTraceExporter(srv.URL)
	exp.NewRetrier = noSleepRetrier

	err := exp.Export(context.Background(), []encode.Span{{Name: "op"}})
	assert.Error(t, err)
}

func TestExportExhaustsRetriesOnPersistentTransientStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	exp := NewTraceExporter(srv.URL)
	exp.NewRetrier = noSleepRetrier

	err := exp.Export(context.Background(), []encode.Span{{Name: "op"}})
	assert.Error(t, err)
}

func TestShutdownClosesIdleConnections(t *testing.T) {
	exp := NewTraceExporter("http://example.invalid")
	assert.NoError(t, exp.Shutdown(context.Background()))
}
