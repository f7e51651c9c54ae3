// Package attribute defines the value model shared by spans, log records,
// and metric data points. Unlike go.opentelemetry.io/otel/attribute.Value,
// which is restricted to scalars and homogeneous slices, Value here also
// represents nested arrays and key-value maps so the OTLP encoders in
// otlp/encode can losslessly round-trip AnyValue's arrayValue and
// kvlistValue variants.
package attribute

import (
	"fmt"

	otelattr "go.opentelemetry.io/otel/attribute"
)

// Kind identifies which variant of Value is populated.
type Kind int

const (
	// KindInvalid is the zero value of Kind; a Value in this state carries
	// no data, and the encoders write it as an empty stringValue.
	KindInvalid Kind = iota
	KindBool
	KindInt64
	KindFloat64
	KindString
	KindBytes
	KindArray
	KindMap
)

// String returns a human-readable name for the kind, used in log messages
// and test failure output.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "BOOL"
	case KindInt64:
		return "INT64"
	case KindFloat64:
		return "FLOAT64"
	case KindString:
		return "STRING"
	case KindBytes:
		return "BYTES"
	case KindArray:
		return "ARRAY"
	case KindMap:
		return "MAP"
	default:
		return "INVALID"
	}
}

// Value is a tagged union mirroring the OTLP AnyValue message: scalars,
// byte strings, homogeneous arrays, and string-keyed maps of Value.
type Value struct {
	kind    Kind
	boolVal bool
	intVal  int64
	fltVal  float64
	strVal  string
	bytes   []byte
	array   []Value
	kvs     []KeyValue
}

// KeyValue pairs an attribute key with its Value.
type KeyValue struct {
	Key   string
	Value Value
}

func BoolValue(v bool) Value     { return Value{kind: KindBool, boolVal: v} }
func Int64Value(v int64) Value   { return Value{kind: KindInt64, intVal: v} }
func IntValue(v int) Value       { return Int64Value(int64(v)) }
func Float64Value(v float64) Value { return Value{kind: KindFloat64, fltVal: v} }
func StringValue(v string) Value { return Value{kind: KindString, strVal: v} }
func BytesValue(v []byte) Value  { return Value{kind: KindBytes, bytes: v} }
func ArrayValue(vs ...Value) Value { return Value{kind: KindArray, array: vs} }
func MapValue(kvs ...KeyValue) Value { return Value{kind: KindMap, kvs: kvs} }

// Kind reports the variant this Value holds.
func (v Value) Kind() Kind { return v.kind }

func (v Value) AsBool() bool         { return v.boolVal }
func (v Value) AsInt64() int64       { return v.intVal }
func (v Value) AsFloat64() float64   { return v.fltVal }
func (v Value) AsString() string     { return v.strVal }
func (v Value) AsBytes() []byte      { return v.bytes }
func (v Value) AsArray() []Value     { return v.array }
func (v Value) AsMap() []KeyValue    { return v.kvs }

// Emit renders the value using the formatting rules console exporters use
// for human-readable summaries: scalars print directly, arrays and maps
// recurse through the same formatting.
func (v Value) Emit() string {
	switch v.kind {
	case KindBool:
		return fmt.Sprintf("%t", v.boolVal)
	case KindInt64:
		return fmt.Sprintf("%d", v.intVal)
	case KindFloat64:
		return fmt.Sprintf("%g", v.fltVal)
	case KindString:
		return v.strVal
	case KindBytes:
		return fmt.Sprintf("%x", v.bytes)
	case KindArray:
		out := make([]string, len(v.array))
		for i, e := range v.array {
			out[i] = e.Emit()
		}
		return fmt.Sprintf("%v", out)
	case KindMap:
		return fmt.Sprintf("%v", v.kvs)
	default:
		return "<invalid>"
	}
}

// KV builds a KeyValue, mirroring the otel API's attribute.KeyValue
// construction style.
func KV(key string, v Value) KeyValue {
	return KeyValue{Key: key, Value: v}
}

// FromKeyValue converts a go.opentelemetry.io/otel/attribute.KeyValue, the
// type the public tracer/meter API hands us, into our internal KeyValue.
// This is the single conversion point between the public instrument surface
// and the SDK's internal data model.
func FromKeyValue(kv otelattr.KeyValue) KeyValue {
	return KeyValue{Key: string(kv.Key), Value: fromOtelValue(kv.Value)}
}

// FromKeyValues converts a slice of otel API key-values in bulk.
func FromKeyValues(kvs []otelattr.KeyValue) []KeyValue {
	out := make([]KeyValue, len(kvs))
	for i, kv := range kvs {
		out[i] = FromKeyValue(kv)
	}
	return out
}

func fromOtelValue(v otelattr.Value) Value {
	switch v.Type() {
	case otelattr.BOOL:
		return BoolValue(v.AsBool())
	case otelattr.INT64:
		return Int64Value(v.AsInt64())
	case otelattr.FLOAT64:
		return Float64Value(v.AsFloat64())
	case otelattr.STRING:
		return StringValue(v.AsString())
	case otelattr.BOOLSLICE:
		bs := v.AsBoolSlice()
		vals := make([]Value, len(bs))
		for i, b := range bs {
			vals[i] = BoolValue(b)
		}
		return ArrayValue(vals...)
	case otelattr.INT64SLICE:
		is := v.AsInt64Slice()
		vals := make([]Value, len(is))
		for i, n := range is {
			vals[i] = Int64Value(n)
		}
		return ArrayValue(vals...)
	case otelattr.FLOAT64SLICE:
		fs := v.AsFloat64Slice()
		vals := make([]Value, len(fs))
		for i, f := range fs {
			vals[i] = Float64Value(f)
		}
		return ArrayValue(vals...)
	case otelattr.STRINGSLICE:
		ss := v.AsStringSlice()
		vals := make([]Value, len(ss))
		for i, s := range ss {
			vals[i] = StringValue(s)
		}
		return ArrayValue(vals...)
	default:
		return StringValue(v.Emit())
	}
}

// Set is an ordered, deduplicated collection of KeyValues used as the
// identity of a metric aggregation cell: two Sets with the same keys and
// values in any order compare equal via Equivalent.
type Set struct {
	kvs []KeyValue
}

// NewSet builds a Set from key-values, sorting by key so that Equivalent
// does not depend on call-site order and last-write-wins on duplicate keys.
func NewSet(kvs ...KeyValue) Set {
	dedup := make(map[string]Value, len(kvs))
	order := make([]string, 0, len(kvs))
	for _, kv := range kvs {
		if _, seen := dedup[kv.Key]; !seen {
			order = append(order, kv.Key)
		}
		dedup[kv.Key] = kv.Value
	}
	sortStrings(order)
	out := make([]KeyValue, len(order))
	for i, k := range order {
		out[i] = KeyValue{Key: k, Value: dedup[k]}
	}
	return Set{kvs: out}
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// ToSlice returns the Set's key-values in canonical (sorted-by-key) order.
func (s Set) ToSlice() []KeyValue { return s.kvs }

// Equivalent returns a comparable string identity for use as a map key.
// Two Sets with identical contents always produce the same Equivalent,
// regardless of construction order.
func (s Set) Equivalent() string {
	out := ""
	for _, kv := range s.kvs {
		out += kv.Key + "=" + kv.Value.Emit() + ";"
	}
	return out
}
