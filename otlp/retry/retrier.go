// Package retry implements the capped exponential-backoff retry loop
// shared by every OTLP exporter, independent of transport.
package retry

import "time"

// AttemptResult classifies the outcome of one export attempt.
type AttemptResult int

const (
	// AttemptFailure means the attempt failed and must not be retried.
	AttemptFailure AttemptResult = iota
	// AttemptSuccess means the attempt delivered the payload.
	AttemptSuccess
	// AttemptRetry means the attempt failed transiently and may be retried.
	AttemptRetry
)

// Result classifies the outcome of a full Retrier.Run call.
type Result int

const (
	// ResultFailure means a non-retryable error terminated the loop early.
	ResultFailure Result = iota
	// ResultSuccess means some attempt within the budget succeeded.
	ResultSuccess
	// ResultMaxAttemptsReached means every attempt returned AttemptRetry and
	// the retry budget was exhausted.
	ResultMaxAttemptsReached
)

// Default tuning values, matching the reference exporter's constants.
const (
	DefaultMaxRetries        = 4
	DefaultBaseDelay         = time.Second
)

// Retrier runs an attempt function up to MaxRetries+1 times, sleeping
// BaseDelay*2^attempt between tries. Sleep is injectable so tests can
// observe the backoff schedule without real time passing.
type Retrier struct {
	MaxRetries int
	BaseDelay  time.Duration
	Sleep      func(time.Duration)
}

// New builds a Retrier with the reference implementation's defaults: 4
// retries (5 total attempts) and a 1-second base delay, doubled each
// attempt: 1s, 2s, 4s, 8s.
func New() *Retrier {
	return &Retrier{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
		Sleep:      time.Sleep,
	}
}

// Run calls attempt up to MaxRetries+1 times. attempt returns AttemptSuccess
// to stop and report ResultSuccess, AttemptFailure to stop and report
// ResultFailure, or AttemptRetry to sleep and try again. If every attempt
// returns AttemptRetry, Run reports ResultMaxAttemptsReached after the
// final attempt without sleeping again.
func (r *Retrier) Run(attempt func(attemptNum int) AttemptResult) Result {
	sleep := r.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	for n := 0; n <= r.MaxRetries; n++ {
		switch attempt(n) {
		case AttemptSuccess:
			return ResultSuccess
		case AttemptFailure:
			return ResultFailure
		case AttemptRetry:
			if n < r.MaxRetries {
				sleep(r.BaseDelay * time.Duration(1<<uint(n)))
			}
		}
	}
	return ResultMaxAttemptsReached
}
