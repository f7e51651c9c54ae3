package encode

import (
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

func TestEncodeTraceRequestPB(t *testing.T) {
	res := resource.New("", attribute.KV("service.name", attribute.StringValue("svc")))
	sc := scope.New("tracer", "1.0", "")

	span := Span{
		Resource:   res,
		Scope:      sc,
		TraceID:    mustTraceID("4bf92f3577b34da6a3ce929d0e0e4736"),
		SpanID:     mustSpanID("00f067aa0ba902b7"),
		Name:       "op",
		Kind:       trace.SpanKindClient,
		StartTime:  time.Unix(0, 100),
		EndTime:    time.Unix(0, 200),
		StatusCode: codes.Error,
	}

	req := EncodeTraceRequestPB([]Span{span})

	require.Len(t, req.ResourceSpans, 1)
	require.Len(t, req.ResourceSpans[0].ScopeSpans, 1)
	require.Len(t, req.ResourceSpans[0].ScopeSpans[0].Spans, 1)

	pbSpan := req.ResourceSpans[0].ScopeSpans[0].Spans[0]
	assert.Equal(t, "op", pbSpan.Name)
	assert.Equal(t, uint64(100), pbSpan.StartTimeUnixNano)
	assert.EqualValues(t, 2, pbSpan.Status.Code) // STATUS_CODE_ERROR
}

func TestEncodeMetricsRequestPBSum(t *testing.T) {
	res := resource.New("")
	sc := scope.New("meter", "", "")
	metric := Metric{
		Resource: res,
		Scope:    sc,
		Name:     "requests",
		Sum: &SumData{
			DataPoints:             []NumberDataPoint{{Time: time.Unix(0, 1), Value: attribute.Int64Value(4)}},
			AggregationTemporality: TemporalityCumulative,
			IsMonotonic:            true,
		},
	}

	req := EncodeMetricsRequestPB([]Metric{metric})

	require.Len(t, req.ResourceMetrics, 1)
	m := req.ResourceMetrics[0].ScopeMetrics[0].Metrics[0]
	assert.Equal(t, "requests", m.Name)
	sum := m.GetSum()
	require.NotNil(t, sum)
	assert.True(t, sum.IsMonotonic)
}

func TestEncodeLogsRequestPB(t *testing.T) {
	res := resource.New("")
	sc := scope.New("bridge", "", "")
	rec := LogRecord{
		Resource:  res,
		Scope:     sc,
		Timestamp: time.Unix(0, 5),
		Severity:  SeverityInfo,
		Body:      attribute.StringValue("hi"),
	}

	req := EncodeLogsRequestPB([]LogRecord{rec})

	require.Len(t, req.ResourceLogs, 1)
	rl := req.ResourceLogs[0].ScopeLogs[0].LogRecords[0]
	assert.Equal(t, uint64(5), rl.TimeUnixNano)
}
