// Package encode converts the SDK's internal span, log record, and metric
// representations into OTLP's JSON wire format (json.go) and into the
// generated OTLP protobuf messages (pb.go). It has no knowledge of how
// those representations were produced or where the output is sent; sdktrace,
// sdklog, and sdkmetric build the structs in this package and hand them to
// Encode* before an exporter ships the bytes.
package encode

import (
	"time"

	"github.com/felixgeelhaar/otelmini/attribute"
	"github.com/felixgeelhaar/otelmini/resource"
	"github.com/felixgeelhaar/otelmini/scope"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span is the exportable view of a finished span.
type Span struct {
	Resource      *resource.Resource
	Scope         scope.Scope
	TraceID       trace.TraceID
	SpanID        trace.SpanID
	ParentSpanID  trace.SpanID
	Name          string
	Kind          trace.SpanKind
	StartTime     time.Time
	EndTime       time.Time
	Attributes    []attribute.KeyValue
	Events        []SpanEvent
	Links         []SpanLink
	StatusCode    codes.Code
	StatusMessage string
}

// SpanEvent is a single timestamped event recorded on a span.
type SpanEvent struct {
	Name       string
	Time       time.Time
	Attributes []attribute.KeyValue
}

// SpanLink references another span, e.g. a batch job's triggering request.
type SpanLink struct {
	TraceID    trace.TraceID
	SpanID     trace.SpanID
	Attributes []attribute.KeyValue
}

// Severity mirrors OTLP's SeverityNumber enumeration (1-24, grouped into
// five named levels with three granularity steps each).
type Severity int

const (
	SeverityUnspecified Severity = 0
	SeverityTrace       Severity = 1
	SeverityDebug       Severity = 5
	SeverityInfo        Severity = 9
	SeverityWarn        Severity = 13
	SeverityError       Severity = 17
	SeverityFatal       Severity = 21
)

// LogRecord is the exportable view of a log record.
type LogRecord struct {
	Resource          *resource.Resource
	Scope             scope.Scope
	Timestamp         time.Time
	ObservedTimestamp time.Time
	Severity          Severity
	SeverityText      string
	Body              attribute.Value
	Attributes        []attribute.KeyValue
	TraceID           trace.TraceID
	SpanID            trace.SpanID
}

// AggregationTemporality matches OTLP's cumulative/delta enum.
type AggregationTemporality int

const (
	TemporalityUnspecified AggregationTemporality = 0
	TemporalityDelta       AggregationTemporality = 1
	TemporalityCumulative  AggregationTemporality = 2
)

// NumberDataPoint is one attribute-set's value for a Sum or Gauge.
type NumberDataPoint struct {
	Attributes []attribute.KeyValue
	StartTime  time.Time
	Time       time.Time
	Value      attribute.Value // must be Int64Value or Float64Value
}

// HistogramDataPoint is one attribute-set's bucketed distribution.
type HistogramDataPoint struct {
	Attributes     []attribute.KeyValue
	StartTime      time.Time
	Time           time.Time
	Count          uint64
	Sum            float64
	Min            *float64
	Max            *float64
	BucketCounts   []uint64
	ExplicitBounds []float64
}

// SumData is a Metric's data when it aggregates a Counter or
// UpDownCounter.
type SumData struct {
	DataPoints             []NumberDataPoint
	AggregationTemporality AggregationTemporality
	IsMonotonic            bool
}

// GaugeData is a Metric's data when it aggregates a Gauge or Observable
// Gauge.
type GaugeData struct {
	DataPoints []NumberDataPoint
}

// HistogramData is a Metric's data when it aggregates a Histogram.
type HistogramData struct {
	DataPoints             []HistogramDataPoint
	AggregationTemporality AggregationTemporality
}

// Metric names one instrument's aggregated output. Exactly one of Sum,
// Gauge, or Histogram is non-nil.
type Metric struct {
	Resource    *resource.Resource
	Scope       scope.Scope
	Name        string
	Description string
	Unit        string
	Sum         *SumData
	Gauge       *GaugeData
	Histogram   *HistogramData
}
