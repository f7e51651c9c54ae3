package propagation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

type mapCarrier map[string]string

func (m mapCarrier) Get(key string) string     { return m[key] }
func (m mapCarrier) Set(key, value string)     { m[key] = value }

func TestInjectSkipsInvalidSpan(t *testing.T) {
	carrier := mapCarrier{}
	TraceContextPropagator{}.Inject(context.Background(), carrier)
	assert.Empty(t, carrier)
}

func TestInjectWritesTraceParent(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	carrier := mapCarrier{}
	TraceContextPropagator{}.Inject(ctx, carrier)

	assert.Equal(t, "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", carrier[TraceParentHeader])
}

func TestExtractRoundTrip(t *testing.T) {
	carrier := mapCarrier{
		TraceParentHeader: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
	}

	ctx := TraceContextPropagator{}.Extract(context.Background(), carrier)
	sc := trace.SpanContextFromContext(ctx)

	require.True(t, sc.IsValid())
	assert.True(t, sc.IsRemote())
	assert.True(t, sc.IsSampled())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", sc.TraceID().String())
}

func TestExtractRejectsMalformedHeaders(t *testing.T) {
	cases := []string{
		"",
		"garbage",
		"ff-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
		"00-00000000000000000000000000000000-00f067aa0ba902b7-01",
		"00-4bf92f3577b34da6a3ce929d0e0e4736-0000000000000000-01",
	}

	for _, h := range cases {
		carrier := mapCarrier{TraceParentHeader: h}
		ctx := TraceContextPropagator{}.Extract(context.Background(), carrier)
		assert.False(t, trace.SpanContextFromContext(ctx).IsValid(), "header %q should not produce a valid span context", h)
	}
}

func TestFields(t *testing.T) {
	assert.Equal(t, []string{TraceParentHeader, TraceStateHeader}, TraceContextPropagator{}.Fields())
}
