// Package otlphttp implements the OTLP/HTTP exporter transport: POSTing an
// encoded batch to a collector endpoint and retrying on the status codes
// the OpenTelemetry spec deems transient.
package otlphttp

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	apperrors "github.com/felixgeelhaar/otelmini/internal/errors"
	"github.com/felixgeelhaar/otelmini/otlp/retry"
)

// retryableStatusCodes lists the HTTP statuses the reference exporter
// treats as transient: rate limiting and the three "collector temporarily
// unavailable" gateway codes.
var retryableStatusCodes = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Exporter POSTs encoded batches of T to a single OTLP/HTTP endpoint.
type Exporter[T any] struct {
	Endpoint    string
	ContentType string
	Client      *http.Client
	Encode      func([]T) ([]byte, error)
	NewRetrier  func() *retry.Retrier
	Headers     map[string]string
}

// New builds an Exporter posting JSON-encoded bodies to endpoint.
func New[T any](endpoint string, encode func([]T) ([]byte, error)) *Exporter[T] {
	return &Exporter[T]{
		Endpoint:    endpoint,
		ContentType: "application/json",
		Client:      &http.Client{Timeout: 30 * time.Second},
		Encode:      encode,
		NewRetrier:  retry.New,
	}
}

// Export encodes items and POSTs the body, retrying on transient status
// codes and connection errors with capped exponential backoff.
func (e *Exporter[T]) Export(ctx context.Context, items []T) error {
	body, err := e.Encode(items)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeEncodeMarshalFailed, "failed to encode OTLP payload", err)
	}

	r := e.NewRetrier()
	var lastErr error
	var lastStatus int

	result := r.Run(func(attempt int) retry.AttemptResult {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, e.Endpoint, bytes.NewReader(body))
		if reqErr != nil {
			lastErr = reqErr
			return retry.AttemptFailure
		}
		req.Header.Set("Content-Type", e.ContentType)
		for k, v := range e.Headers {
			req.Header.Set(k, v)
		}

		resp, doErr := e.Client.Do(req)
		if doErr != nil {
			lastErr = doErr
			return retry.AttemptRetry
		}
		defer func() {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}()
		lastStatus = resp.StatusCode

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return retry.AttemptSuccess
		case retryableStatusCodes[resp.StatusCode]:
			return retry.AttemptRetry
		default:
			return retry.AttemptFailure
		}
	})

	switch result {
	case retry.ResultSuccess:
		return nil
	case retry.ResultFailure:
		if lastStatus != 0 {
			return apperrors.NewStatusRejectedError(e.Endpoint, lastStatus)
		}
		return apperrors.NewConnectionFailedError(e.Endpoint, lastErr)
	default:
		return apperrors.NewRetriesExhaustedError(r.MaxRetries, lastErr)
	}
}

// Shutdown releases idle connections held by the HTTP client.
func (e *Exporter[T]) Shutdown(context.Context) error {
	e.Client.CloseIdleConnections()
	return nil
}

// ForceFlush is a no-op: every Export call is already synchronous.
func (e *Exporter[T]) ForceFlush(context.Context) error { return nil }
