package console

import (
	"io"

	"github.com/felixgeelhaar/otelmini/otlp/encode"
)

// NewTraceExporter builds a console exporter for spans.
func NewTraceExporter(w io.Writer) *Exporter[encode.Span] {
	return New[encode.Span](w, encode.EncodeTraceRequest)
}

// NewLogExporter builds a console exporter for log records.
func NewLogExporter(w io.Writer) *Exporter[encode.LogRecord] {
	return New[encode.LogRecord](w, encode.EncodeLogsRequest)
}

// NewMetricExporter builds a console exporter for metrics.
func NewMetricExporter(w io.Writer) *Exporter[encode.Metric] {
	return New[encode.Metric](w, encode.EncodeMetricsRequest)
}
