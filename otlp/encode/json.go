package encode

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/felixgeelhaar/otelmini/attribute"
	"github.com/felixgeelhaar/otelmini/resource"
	"github.com/felixgeelhaar/otelmini/scope"
	"go.opentelemetry.io/otel/codes"
)

// statusCodeOTLP maps go.opentelemetry.io/otel/codes (Unset=0, Error=1,
// Ok=2) onto OTLP's Status.StatusCode enum (UNSET=0, OK=1, ERROR=2) — the
// two enumerations assign different numbers to Ok and Error, so a direct
// int cast would silently swap them.
var statusCodeOTLP = map[codes.Code]int{
	codes.Unset: 0,
	codes.Ok:    1,
	codes.Error: 2,
}

func unixNano(t interface{ UnixNano() int64 }) string {
	return strconv.FormatInt(t.UnixNano(), 10)
}

func encodeValue(v attribute.Value) map[string]any {
	switch v.Kind() {
	case attribute.KindBool:
		return map[string]any{"boolValue": v.AsBool()}
	case attribute.KindInt64:
		return map[string]any{"intValue": strconv.FormatInt(v.AsInt64(), 10)}
	case attribute.KindFloat64:
		return map[string]any{"doubleValue": v.AsFloat64()}
	case attribute.KindBytes:
		return map[string]any{"bytesValue": base64.StdEncoding.EncodeToString(v.AsBytes())}
	case attribute.KindArray:
		values := make([]map[string]any, len(v.AsArray()))
		for i, e := range v.AsArray() {
			values[i] = encodeValue(e)
		}
		return map[string]any{"arrayValue": map[string]any{"values": values}}
	case attribute.KindMap:
		values := make([]map[string]any, len(v.AsMap()))
		for i, kv := range v.AsMap() {
			values[i] = map[string]any{"key": kv.Key, "value": encodeValue(kv.Value)}
		}
		return map[string]any{"kvlistValue": map[string]any{"values": values}}
	default:
		return map[string]any{"stringValue": v.AsString()}
	}
}

func encodeAttributes(kvs []attribute.KeyValue) []map[string]any {
	out := make([]map[string]any, len(kvs))
	for i, kv := range kvs {
		out[i] = map[string]any{"key": kv.Key, "value": encodeValue(kv.Value)}
	}
	return out
}

func encodeResource(r *resource.Resource) map[string]any {
	m := map[string]any{"attributes": encodeAttributes(r.Attributes())}
	if r.SchemaURL() != "" {
		m["schemaUrl"] = r.SchemaURL()
	}
	return m
}

func encodeScope(s scope.Scope) map[string]any {
	m := map[string]any{"name": s.Name}
	if s.Version != "" {
		m["version"] = s.Version
	}
	return m
}

// resourceKey identifies a resource by pointer so encoders group spans from
// the same provider without comparing attribute slices, mirroring the
// reference encoder's id(resource) grouping.
type resourceKey = *resource.Resource

type resourceGroup[T any] struct {
	resource *resource.Resource
	scopes   []*scopeGroup[T]
	byScope  map[scope.Scope]*scopeGroup[T]
}

type scopeGroup[T any] struct {
	scope scope.Scope
	items []T
}

func groupByResourceThenScope[T any](items []T, resourceOf func(T) *resource.Resource, scopeOf func(T) scope.Scope) []*resourceGroup[T] {
	var order []resourceKey
	byRes := map[resourceKey]*resourceGroup[T]{}

	for _, item := range items {
		r := resourceOf(item)
		rg, ok := byRes[r]
		if !ok {
			rg = &resourceGroup[T]{resource: r, byScope: map[scope.Scope]*scopeGroup[T]{}}
			byRes[r] = rg
			order = append(order, r)
		}

		s := scopeOf(item)
		sg, ok := rg.byScope[s]
		if !ok {
			sg = &scopeGroup[T]{scope: s}
			rg.byScope[s] = sg
			rg.scopes = append(rg.scopes, sg)
		}
		sg.items = append(sg.items, item)
	}

	out := make([]*resourceGroup[T], len(order))
	for i, r := range order {
		out[i] = byRes[r]
	}
	return out
}

func encodeSpan(s Span) map[string]any {
	m := map[string]any{
		"traceId":           s.TraceID.String(),
		"spanId":            s.SpanID.String(),
		"name":              s.Name,
		"kind":              int(s.Kind),
		"startTimeUnixNano": unixNano(s.StartTime),
		"endTimeUnixNano":   unixNano(s.EndTime),
		"attributes":        encodeAttributes(s.Attributes),
	}

	status := map[string]any{"code": statusCodeOTLP[s.StatusCode]}
	if s.StatusMessage != "" {
		status["message"] = s.StatusMessage
	}
	m["status"] = status

	if s.ParentSpanID.IsValid() {
		m["parentSpanId"] = s.ParentSpanID.String()
	}
	if len(s.Events) > 0 {
		events := make([]map[string]any, len(s.Events))
		for i, e := range s.Events {
			events[i] = map[string]any{
				"timeUnixNano": unixNano(e.Time),
				"name":         e.Name,
				"attributes":   encodeAttributes(e.Attributes),
			}
		}
		m["events"] = events
	}
	if len(s.Links) > 0 {
		links := make([]map[string]any, len(s.Links))
		for i, l := range s.Links {
			links[i] = map[string]any{
				"traceId":    l.TraceID.String(),
				"spanId":     l.SpanID.String(),
				"attributes": encodeAttributes(l.Attributes),
			}
		}
		m["links"] = links
	}
	return m
}

// EncodeTraceRequest groups spans by resource then scope and renders the
// result as an ExportTraceServiceRequest JSON body.
func EncodeTraceRequest(spans []Span) ([]byte, error) {
	groups := groupByResourceThenScope(spans,
		func(s Span) *resource.Resource { return s.Resource },
		func(s Span) scope.Scope { return s.Scope })

	resourceSpans := make([]map[string]any, len(groups))
	for i, rg := range groups {
		scopeSpans := make([]map[string]any, len(rg.scopes))
		for j, sg := range rg.scopes {
			spanDicts := make([]map[string]any, len(sg.items))
			for k, s := range sg.items {
				spanDicts[k] = encodeSpan(s)
			}
			scopeSpans[j] = map[string]any{
				"scope": encodeScope(sg.scope),
				"spans": spanDicts,
			}
		}
		resourceSpans[i] = map[string]any{
			"resource":   encodeResource(rg.resource),
			"scopeSpans": scopeSpans,
		}
	}

	return json.Marshal(map[string]any{"resourceSpans": resourceSpans})
}

func encodeLogRecord(r LogRecord) map[string]any {
	m := map[string]any{
		"timeUnixNano":         unixNano(r.Timestamp),
		"observedTimeUnixNano": unixNano(r.ObservedTimestamp),
		"severityNumber":       int(r.Severity),
		"body":                 encodeValue(r.Body),
		"attributes":           encodeAttributes(r.Attributes),
	}
	if r.SeverityText != "" {
		m["severityText"] = r.SeverityText
	}
	if r.TraceID.IsValid() {
		m["traceId"] = r.TraceID.String()
	}
	if r.SpanID.IsValid() {
		m["spanId"] = r.SpanID.String()
	}
	return m
}

// EncodeLogsRequest groups log records by resource then scope and renders
// the result as an ExportLogsServiceRequest JSON body.
func EncodeLogsRequest(records []LogRecord) ([]byte, error) {
	groups := groupByResourceThenScope(records,
		func(r LogRecord) *resource.Resource { return r.Resource },
		func(r LogRecord) scope.Scope { return r.Scope })

	resourceLogs := make([]map[string]any, len(groups))
	for i, rg := range groups {
		scopeLogs := make([]map[string]any, len(rg.scopes))
		for j, sg := range rg.scopes {
			recDicts := make([]map[string]any, len(sg.items))
			for k, r := range sg.items {
				recDicts[k] = encodeLogRecord(r)
			}
			scopeLogs[j] = map[string]any{
				"scope":      encodeScope(sg.scope),
				"logRecords": recDicts,
			}
		}
		resourceLogs[i] = map[string]any{
			"resource":  encodeResource(rg.resource),
			"scopeLogs": scopeLogs,
		}
	}

	return json.Marshal(map[string]any{"resourceLogs": resourceLogs})
}

func encodeNumberDataPoint(p NumberDataPoint) map[string]any {
	m := map[string]any{
		"attributes":        encodeAttributes(p.Attributes),
		"startTimeUnixNano": unixNano(p.StartTime),
		"timeUnixNano":      unixNano(p.Time),
	}
	switch v := p.Value.AsFloat64(); {
	case p.Value.Kind() == attribute.KindInt64:
		m["asInt"] = strconv.FormatInt(p.Value.AsInt64(), 10)
	case v == math.Trunc(v) && !math.IsInf(v, 0):
		// A float that happens to be integral-valued still encodes as
		// asInt per the OTLP number-point rule.
		m["asInt"] = strconv.FormatInt(int64(v), 10)
	default:
		m["asDouble"] = v
	}
	return m
}

func encodeHistogramDataPoint(p HistogramDataPoint) map[string]any {
	m := map[string]any{
		"attributes":        encodeAttributes(p.Attributes),
		"startTimeUnixNano": unixNano(p.StartTime),
		"timeUnixNano":      unixNano(p.Time),
		"count":             strconv.FormatUint(p.Count, 10),
		"sum":               p.Sum,
		"explicitBounds":    p.ExplicitBounds,
	}
	bucketCounts := make([]string, len(p.BucketCounts))
	for i, c := range p.BucketCounts {
		bucketCounts[i] = strconv.FormatUint(c, 10)
	}
	m["bucketCounts"] = bucketCounts
	if p.Min != nil {
		m["min"] = *p.Min
	}
	if p.Max != nil {
		m["max"] = *p.Max
	}
	return m
}

func encodeMetric(metric Metric) (map[string]any, error) {
	m := map[string]any{"name": metric.Name}
	if metric.Description != "" {
		m["description"] = metric.Description
	}
	if metric.Unit != "" {
		m["unit"] = metric.Unit
	}

	switch {
	case metric.Sum != nil:
		points := make([]map[string]any, len(metric.Sum.DataPoints))
		for i, p := range metric.Sum.DataPoints {
			points[i] = encodeNumberDataPoint(p)
		}
		m["sum"] = map[string]any{
			"dataPoints":             points,
			"aggregationTemporality": int(metric.Sum.AggregationTemporality),
			"isMonotonic":            metric.Sum.IsMonotonic,
		}
	case metric.Gauge != nil:
		points := make([]map[string]any, len(metric.Gauge.DataPoints))
		for i, p := range metric.Gauge.DataPoints {
			points[i] = encodeNumberDataPoint(p)
		}
		m["gauge"] = map[string]any{"dataPoints": points}
	case metric.Histogram != nil:
		points := make([]map[string]any, len(metric.Histogram.DataPoints))
		for i, p := range metric.Histogram.DataPoints {
			points[i] = encodeHistogramDataPoint(p)
		}
		m["histogram"] = map[string]any{
			"dataPoints":             points,
			"aggregationTemporality": int(metric.Histogram.AggregationTemporality),
		}
	default:
		return nil, fmt.Errorf("encode: metric %q has no data set", metric.Name)
	}

	return m, nil
}

// EncodeMetricsRequest groups metrics by resource then scope and renders
// the result as an ExportMetricsServiceRequest JSON body.
func EncodeMetricsRequest(metrics []Metric) ([]byte, error) {
	groups := groupByResourceThenScope(metrics,
		func(m Metric) *resource.Resource { return m.Resource },
		func(m Metric) scope.Scope { return m.Scope })

	resourceMetrics := make([]map[string]any, len(groups))
	for i, rg := range groups {
		scopeMetrics := make([]map[string]any, len(rg.scopes))
		for j, sg := range rg.scopes {
			metricDicts := make([]map[string]any, 0, len(sg.items))
			for _, metric := range sg.items {
				encoded, err := encodeMetric(metric)
				if err != nil {
					return nil, err
				}
				metricDicts = append(metricDicts, encoded)
			}
			scopeMetrics[j] = map[string]any{
				"scope":   encodeScope(sg.scope),
				"metrics": metricDicts,
			}
		}
		resourceMetrics[i] = map[string]any{
			"resource":     encodeResource(rg.resource),
			"scopeMetrics": scopeMetrics,
		}
	}

	return json.Marshal(map[string]any{"resourceMetrics": resourceMetrics})
}
