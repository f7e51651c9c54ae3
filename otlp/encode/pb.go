package encode

import (
	"github.com/felixgeelhaar/otelmini/attribute"
	"github.com/felixgeelhaar/otelmini/resource"
	"github.com/felixgeelhaar/otelmini/scope"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	collectorlogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	collectormetricspb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	collectortracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	metricspb "go.opentelemetry.io/proto/otlp/metrics/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
)

// This file mirrors json.go's grouping and field mapping, but targets the
// generated protobuf messages from go.opentelemetry.io/proto/otlp instead
// of a JSON-able map, for the OTLP/gRPC exporter (exporter/otlpgrpc).

func pbValue(v attribute.Value) *commonpb.AnyValue {
	switch v.Kind() {
	case attribute.KindBool:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_BoolValue{BoolValue: v.AsBool()}}
	case attribute.KindInt64:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_IntValue{IntValue: v.AsInt64()}}
	case attribute.KindFloat64:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_DoubleValue{DoubleValue: v.AsFloat64()}}
	case attribute.KindBytes:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_BytesValue{BytesValue: v.AsBytes()}}
	case attribute.KindArray:
		values := make([]*commonpb.AnyValue, len(v.AsArray()))
		for i, e := range v.AsArray() {
			values[i] = pbValue(e)
		}
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_ArrayValue{ArrayValue: &commonpb.ArrayValue{Values: values}}}
	case attribute.KindMap:
		kvs := pbAttributes(v.AsMap())
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_KvlistValue{KvlistValue: &commonpb.KeyValueList{Values: kvs}}}
	default:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: v.AsString()}}
	}
}

func pbAttributes(kvs []attribute.KeyValue) []*commonpb.KeyValue {
	out := make([]*commonpb.KeyValue, len(kvs))
	for i, kv := range kvs {
		out[i] = &commonpb.KeyValue{Key: kv.Key, Value: pbValue(kv.Value)}
	}
	return out
}

func pbResource(attrs []attribute.KeyValue) *resourcepb.Resource {
	return &resourcepb.Resource{Attributes: pbAttributes(attrs)}
}

var statusCodePB = map[int]tracepb.Status_StatusCode{
	0: tracepb.Status_STATUS_CODE_UNSET,
	1: tracepb.Status_STATUS_CODE_OK,
	2: tracepb.Status_STATUS_CODE_ERROR,
}

func pbSpan(s Span) *tracepb.Span {
	traceID := s.TraceID
	spanID := s.SpanID

	out := &tracepb.Span{
		TraceId:           traceID[:],
		SpanId:            spanID[:],
		Name:              s.Name,
		Kind:              tracepb.Span_SpanKind(s.Kind),
		StartTimeUnixNano: uint64(s.StartTime.UnixNano()),
		EndTimeUnixNano:   uint64(s.EndTime.UnixNano()),
		Attributes:        pbAttributes(s.Attributes),
		Status: &tracepb.Status{
			Code:    statusCodePB[statusCodeOTLP[s.StatusCode]],
			Message: s.StatusMessage,
		},
	}
	if s.ParentSpanID.IsValid() {
		parent := s.ParentSpanID
		out.ParentSpanId = parent[:]
	}
	for _, e := range s.Events {
		out.Events = append(out.Events, &tracepb.Span_Event{
			TimeUnixNano: uint64(e.Time.UnixNano()),
			Name:         e.Name,
			Attributes:   pbAttributes(e.Attributes),
		})
	}
	for _, l := range s.Links {
		lt, ls := l.TraceID, l.SpanID
		out.Links = append(out.Links, &tracepb.Span_Link{
			TraceId:    lt[:],
			SpanId:     ls[:],
			Attributes: pbAttributes(l.Attributes),
		})
	}
	return out
}

// EncodeTraceRequestPB groups spans by resource then scope and builds an
// ExportTraceServiceRequest protobuf message, for use by the gRPC
// exporter.
func EncodeTraceRequestPB(spans []Span) *collectortracepb.ExportTraceServiceRequest {
	groups := groupByResourceThenScope(spans,
		func(s Span) *resource.Resource { return s.Resource },
		func(s Span) scope.Scope { return s.Scope })

	req := &collectortracepb.ExportTraceServiceRequest{}
	for _, rg := range groups {
		rs := &tracepb.ResourceSpans{Resource: pbResource(rg.resource.Attributes())}
		for _, sg := range rg.scopes {
			ss := &tracepb.ScopeSpans{Scope: &commonpb.InstrumentationScope{Name: sg.scope.Name, Version: sg.scope.Version}}
			for _, s := range sg.items {
				ss.Spans = append(ss.Spans, pbSpan(s))
			}
			rs.ScopeSpans = append(rs.ScopeSpans, ss)
		}
		req.ResourceSpans = append(req.ResourceSpans, rs)
	}
	return req
}

func severityNumberPB(s Severity) logspb.SeverityNumber {
	return logspb.SeverityNumber(s)
}

func pbLogRecord(r LogRecord) *logspb.LogRecord {
	out := &logspb.LogRecord{
		TimeUnixNano:         uint64(r.Timestamp.UnixNano()),
		ObservedTimeUnixNano: uint64(r.ObservedTimestamp.UnixNano()),
		SeverityNumber:       severityNumberPB(r.Severity),
		SeverityText:         r.SeverityText,
		Body:                 pbValue(r.Body),
		Attributes:           pbAttributes(r.Attributes),
	}
	if r.TraceID.IsValid() {
		id := r.TraceID
		out.TraceId = id[:]
	}
	if r.SpanID.IsValid() {
		id := r.SpanID
		out.SpanId = id[:]
	}
	return out
}

// EncodeLogsRequestPB groups log records by resource then scope and builds
// an ExportLogsServiceRequest protobuf message.
func EncodeLogsRequestPB(records []LogRecord) *collectorlogspb.ExportLogsServiceRequest {
	groups := groupByResourceThenScope(records,
		func(r LogRecord) *resource.Resource { return r.Resource },
		func(r LogRecord) scope.Scope { return r.Scope })

	req := &collectorlogspb.ExportLogsServiceRequest{}
	for _, rg := range groups {
		rl := &logspb.ResourceLogs{Resource: pbResource(rg.resource.Attributes())}
		for _, sg := range rg.scopes {
			sl := &logspb.ScopeLogs{Scope: &commonpb.InstrumentationScope{Name: sg.scope.Name, Version: sg.scope.Version}}
			for _, r := range sg.items {
				sl.LogRecords = append(sl.LogRecords, pbLogRecord(r))
			}
			rl.ScopeLogs = append(rl.ScopeLogs, sl)
		}
		req.ResourceLogs = append(req.ResourceLogs, rl)
	}
	return req
}

func pbNumberDataPoint(p NumberDataPoint) *metricspb.NumberDataPoint {
	out := &metricspb.NumberDataPoint{
		Attributes:        pbAttributes(p.Attributes),
		StartTimeUnixNano: uint64(p.StartTime.UnixNano()),
		TimeUnixNano:      uint64(p.Time.UnixNano()),
	}
	if p.Value.Kind() == attribute.KindInt64 {
		out.Value = &metricspb.NumberDataPoint_AsInt{AsInt: p.Value.AsInt64()}
	} else {
		out.Value = &metricspb.NumberDataPoint_AsDouble{AsDouble: p.Value.AsFloat64()}
	}
	return out
}

func pbHistogramDataPoint(p HistogramDataPoint) *metricspb.HistogramDataPoint {
	out := &metricspb.HistogramDataPoint{
		Attributes:        pbAttributes(p.Attributes),
		StartTimeUnixNano: uint64(p.StartTime.UnixNano()),
		TimeUnixNano:      uint64(p.Time.UnixNano()),
		Count:             p.Count,
		Sum:               &p.Sum,
		BucketCounts:      p.BucketCounts,
		ExplicitBounds:    p.ExplicitBounds,
	}
	if p.Min != nil {
		out.Min = p.Min
	}
	if p.Max != nil {
		out.Max = p.Max
	}
	return out
}

func pbMetric(m Metric) *metricspb.Metric {
	out := &metricspb.Metric{Name: m.Name, Description: m.Description, Unit: m.Unit}

	switch {
	case m.Sum != nil:
		points := make([]*metricspb.NumberDataPoint, len(m.Sum.DataPoints))
		for i, p := range m.Sum.DataPoints {
			points[i] = pbNumberDataPoint(p)
		}
		out.Data = &metricspb.Metric_Sum{Sum: &metricspb.Sum{
			DataPoints:             points,
			AggregationTemporality: metricspb.AggregationTemporality(m.Sum.AggregationTemporality),
			IsMonotonic:            m.Sum.IsMonotonic,
		}}
	case m.Gauge != nil:
		points := make([]*metricspb.NumberDataPoint, len(m.Gauge.DataPoints))
		for i, p := range m.Gauge.DataPoints {
			points[i] = pbNumberDataPoint(p)
		}
		out.Data = &metricspb.Metric_Gauge{Gauge: &metricspb.Gauge{DataPoints: points}}
	case m.Histogram != nil:
		points := make([]*metricspb.HistogramDataPoint, len(m.Histogram.DataPoints))
		for i, p := range m.Histogram.DataPoints {
			points[i] = pbHistogramDataPoint(p)
		}
		out.Data = &metricspb.Metric_Histogram{Histogram: &metricspb.Histogram{
			DataPoints:             points,
			AggregationTemporality: metricspb.AggregationTemporality(m.Histogram.AggregationTemporality),
		}}
	}
	return out
}

// EncodeMetricsRequestPB groups metrics by resource then scope and builds
// an ExportMetricsServiceRequest protobuf message.
func EncodeMetricsRequestPB(metrics []Metric) *collectormetricspb.ExportMetricsServiceRequest {
	groups := groupByResourceThenScope(metrics,
		func(m Metric) *resource.Resource { return m.Resource },
		func(m Metric) scope.Scope { return m.Scope })

	req := &collectormetricspb.ExportMetricsServiceRequest{}
	for _, rg := range groups {
		rm := &metricspb.ResourceMetrics{Resource: pbResource(rg.resource.Attributes())}
		for _, sg := range rg.scopes {
			sm := &metricspb.ScopeMetrics{Scope: &commonpb.InstrumentationScope{Name: sg.scope.Name, Version: sg.scope.Version}}
			for _, m := range sg.items {
				sm.Metrics = append(sm.Metrics, pbMetric(m))
			}
			rm.ScopeMetrics = append(rm.ScopeMetrics, sm)
		}
		req.ResourceMetrics = append(req.ResourceMetrics, rm)
	}
	return req
}
