// Package resource describes the entity producing telemetry: the process,
// host, and SDK that generated a span, log record, or metric point.
package resource

import (
	"os"
	"runtime"

	"github.com/felixgeelhaar/otelmini/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const sdkVersion = "0.1.0"

// Resource is an immutable, attribute-bearing description of the entity
// producing telemetry. Resources are shared by reference across every span
// and log record they describe, so equality is by identity within a
// process: the encoder groups by pointer only, and two distinct Resources
// with equal attributes form separate groups.
type Resource struct {
	attrs     []attribute.KeyValue
	schemaURL string
}

// New builds a Resource from key-values and an optional schema URL.
func New(schemaURL string, attrs ...attribute.KeyValue) *Resource {
	return &Resource{attrs: attrs, schemaURL: schemaURL}
}

// Attributes returns the resource's attributes in stable order.
func (r *Resource) Attributes() []attribute.KeyValue {
	if r == nil {
		return nil
	}
	return r.attrs
}

// SchemaURL returns the OTLP schema URL associated with this resource's
// attribute set, or "" if unset.
func (r *Resource) SchemaURL() string {
	if r == nil {
		return ""
	}
	return r.schemaURL
}

// Merge combines two resources, with values in other overriding values in r
// on key collision. The schema URL of other wins if non-empty.
func Merge(r, other *Resource) *Resource {
	if r == nil {
		return other
	}
	if other == nil {
		return r
	}

	byKey := make(map[string]attribute.Value, len(r.attrs)+len(other.attrs))
	order := make([]string, 0, len(r.attrs)+len(other.attrs))
	for _, kv := range r.attrs {
		if _, ok := byKey[kv.Key]; !ok {
			order = append(order, kv.Key)
		}
		byKey[kv.Key] = kv.Value
	}
	for _, kv := range other.attrs {
		if _, ok := byKey[kv.Key]; !ok {
			order = append(order, kv.Key)
		}
		byKey[kv.Key] = kv.Value
	}

	merged := make([]attribute.KeyValue, len(order))
	for i, k := range order {
		merged[i] = attribute.KV(k, byKey[k])
	}

	schema := r.schemaURL
	if other.schemaURL != "" {
		schema = other.schemaURL
	}
	return New(schema, merged...)
}

// Default builds the resource every provider in this module starts from:
// SDK identity plus host and process attributes, analogous to the default
// resource detectors chained in the teacher's createResource helper.
func Default(serviceName string) *Resource {
	hostname, _ := os.Hostname()

	attrs := []attribute.KeyValue{
		attribute.KV(string(semconv.ServiceNameKey), attribute.StringValue(serviceName)),
		attribute.KV(string(semconv.TelemetrySDKNameKey), attribute.StringValue("otelmini")),
		attribute.KV(string(semconv.TelemetrySDKLanguageKey), attribute.StringValue("go")),
		attribute.KV(string(semconv.TelemetrySDKVersionKey), attribute.StringValue(sdkVersion)),
		attribute.KV(string(semconv.OSTypeKey), attribute.StringValue(runtime.GOOS)),
		attribute.KV(string(semconv.ProcessRuntimeNameKey), attribute.StringValue("go")),
		attribute.KV(string(semconv.ProcessRuntimeVersionKey), attribute.StringValue(runtime.Version())),
	}
	if hostname != "" {
		attrs = append(attrs, attribute.KV(string(semconv.HostNameKey), attribute.StringValue(hostname)))
	}

	return New(semconv.SchemaURL, attrs...)
}
