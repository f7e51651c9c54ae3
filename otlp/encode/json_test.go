package encode

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/felixgeelhaar/otelmini/attribute"
	"github.com/felixgeelhaar/otelmini/resource"
	"github.com/felixgeelhaar/otelmini/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func mustTraceID(s string) trace.TraceID {
	id, err := trace.TraceIDFromHex(s)
	if err != nil {
		panic(err)
	}
	return id
}

func mustSpanID(s string) trace.SpanID {
	id, err := trace.SpanIDFromHex(s)
	if err != nil {
		panic(err)
	}
	return id
}

func TestEncodeTraceRequestGroupsByResourceAndScope(t *testing.T) {
	res := resource.New("", attribute.KV("service.name", attribute.StringValue("svc")))
	sc := scope.New("mytracer", "1.0", "")

	span := Span{
		Resource:   res,
		Scope:      sc,
		TraceID:    mustTraceID("4bf92f3577b34da6a3ce929d0e0e4736"),
		SpanID:     mustSpanID("00f067aa0ba902b7"),
		Name:       "GET /users",
		Kind:       trace.SpanKindServer,
		StartTime:  time.Unix(0, 1000),
		EndTime:    time.Unix(0, 2000),
		Attributes: []attribute.KeyValue{attribute.KV("http.method", attribute.StringValue("GET"))},
		StatusCode: codes.Ok,
	}

	out, err := EncodeTraceRequest([]Span{span})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))

	resourceSpans := decoded["resourceSpans"].([]any)
	require.Len(t, resourceSpans, 1)

	rs := resourceSpans[0].(map[string]any)
	scopeSpans := rs["scopeSpans"].([]any)
	require.Len(t, scopeSpans, 1)

	ss := scopeSpans[0].(map[string]any)
	spans := ss["spans"].([]any)
	require.Len(t, spans, 1)

	spanMap := spans[0].(map[string]any)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spanMap["traceId"])
	assert.Equal(t, "00f067aa0ba902b7", spanMap["spanId"])
	assert.Equal(t, "1000", spanMap["startTimeUnixNano"])
	status := spanMap["status"].(map[string]any)
	assert.Equal(t, float64(1), status["code"]) // codes.Ok -> OTLP STATUS_CODE_OK (1)
}

func TestStatusCodeMappingDiffersFromRawEnum(t *testing.T) {
	assert.Equal(t, 0, statusCodeOTLP[codes.Unset])
	assert.Equal(t, 1, statusCodeOTLP[codes.Ok])
	assert.Equal(t, 2, statusCodeOTLP[codes.Error])
}

func TestEncodeValueVariants(t *testing.T) {
	assert.Equal(t, map[string]any{"boolValue": true}, encodeValue(attribute.BoolValue(true)))
	assert.Equal(t, map[string]any{"intValue": "42"}, encodeValue(attribute.Int64Value(42)))
	assert.Equal(t, map[string]any{"doubleValue": 1.5}, encodeValue(attribute.Float64Value(1.5)))
	assert.Equal(t, map[string]any{"stringValue": "x"}, encodeValue(attribute.StringValue("x")))

	arr := encodeValue(attribute.ArrayValue(attribute.Int64Value(1), attribute.Int64Value(2)))
	av := arr["arrayValue"].(map[string]any)
	assert.Len(t, av["values"], 2)
}

func TestEncodeLogsRequest(t *testing.T) {
	res := resource.New("")
	sc := scope.New("bridge", "", "")

	rec := LogRecord{
		Resource:     res,
		Scope:        sc,
		Timestamp:    time.Unix(0, 5000),
		Severity:     SeverityError,
		SeverityText: "ERROR",
		Body:         attribute.StringValue("boom"),
	}

	out, err := EncodeLogsRequest([]LogRecord{rec})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))

	resourceLogs := decoded["resourceLogs"].([]any)
	require.Len(t, resourceLogs, 1)
}

func TestEncodeMetricsRequestSum(t *testing.T) {
	res := resource.New("")
	sc := scope.New("meter", "", "")

	metric := Metric{
		Resource: res,
		Scope:    sc,
		Name:     "http.server.request.count",
		Sum: &SumData{
			DataPoints: []NumberDataPoint{
				{Time: time.Unix(0, 1), Value: attribute.Int64Value(4)},
			},
			AggregationTemporality: TemporalityCumulative,
			IsMonotonic:            true,
		},
	}

	out, err := EncodeMetricsRequest([]Metric{metric})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	resourceMetrics := decoded["resourceMetrics"].([]any)
	require.Len(t, resourceMetrics, 1)
}

func TestEncodeMetricRequiresOneDataShape(t *testing.T) {
	_, err := encodeMetric(Metric{Name: "bad"})
	assert.Error(t, err)
}

func TestEncodeHistogramDataPointOptionalMinMax(t *testing.T) {
	min, max := 5.0, 150.0
	p := HistogramDataPoint{
		Count:          5,
		Sum:            270,
		Min:            &min,
		Max:            &max,
		BucketCounts:   []uint64{1, 2, 1, 1},
		ExplicitBounds: []float64{10, 50, 100},
	}

	m := encodeHistogramDataPoint(p)
	assert.Equal(t, "5", m["count"])
	assert.Equal(t, 270.0, m["sum"])
	assert.Equal(t, 5.0, m["min"])
	assert.Equal(t, 150.0, m["max"])
	assert.Equal(t, []string{"1", "2", "1", "1"}, m["bucketCounts"])
}
