package otlphttp

import (
	"github.com/felixgeelhaar/otelmini/otlp/encode"
)

// NewTraceExporter builds an OTLP/HTTP exporter for the traces signal,
// posting to "<endpoint>" (callers pass the fully-qualified /v1/traces URL
// resolved from env.Config).
func NewTraceExporter(endpoint string) *Exporter[encode.Span] {
	return New[encode.Span](endpoint, encode.EncodeTraceRequest)
}

// NewLogExporter builds an OTLP/HTTP exporter for the logs signal.
func NewLogExporter(endpoint string) *Exporter[encode.LogRecord] {
	return New[encode.LogRecord](endpoint, encode.EncodeLogsRequest)
}

// NewMetricExporter builds an OTLP/HTTP exporter for the metrics signal.
func NewMetricExporter(endpoint string) *Exporter[encode.Metric] {
	return New[encode.Metric](endpoint, encode.EncodeMetricsRequest)
}
