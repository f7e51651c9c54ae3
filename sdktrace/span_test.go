package sdktrace

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otelattr "go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

func TestSpanSetAttributesAndStatus(t *testing.T) {
	exp := &fakeSpanExporter{}
	p := NewTracerProvider(exp)
	defer p.Shutdown(context.Background())

	tr := p.Tracer("t")
	_, s := tr.Start(context.Background(), "op")
	s.SetAttributes(otelattr.String("k", "v"))
	s.SetStatus(codes.Error, "boom")
	s.End()

	require.NoError(t, p.ForceFlush(context.Background()))
	got := exp.flat()
	require.Len(t, got, 1)
	require.Len(t, got[0].Attributes, 1)
	assert.Equal(t, "k", got[0].Attributes[0].Key)
	assert.Equal(t, codes.Error, got[0].StatusCode)
	assert.Equal(t, "boom", got[0].StatusMessage)
}

func TestSpanOkStatusCannotBeDowngraded(t *testing.T) {
	exp := &fakeSpanExporter{}
	p := NewTracerProvider(exp)
	defer p.Shutdown(context.Background())

	tr := p.Tracer("t")
	_, s := tr.Start(context.Background(), "op")
	s.SetStatus(codes.Ok, "")
	s.SetStatus(codes.Unset, "ignored")
	s.End()

	require.NoError(t, p.ForceFlush(context.Background()))
	got := exp.flat()
	require.Len(t, got, 1)
	assert.Equal(t, codes.Ok, got[0].StatusCode)
}

func TestSpanRecordErrorAddsEvent(t *testing.T) {
	exp := &fakeSpanExporter{}
	p := NewTracerProvider(exp)
	defer p.Shutdown(context.Background())

	tr := p.Tracer("t")
	_, s := tr.Start(context.Background(), "op")
	s.RecordError(errors.New("kaboom"))
	s.End()

	require.NoError(t, p.ForceFlush(context.Background()))
	got := exp.flat()
	require.Len(t, got, 1)
	require.Len(t, got[0].Events, 1)
	assert.Equal(t, "exception", got[0].Events[0].Name)
}

func TestSpanMutationsAfterEndAreNoops(t *testing.T) {
	exp := &fakeSpanExporter{}
	p := NewTracerProvider(exp)
	defer p.Shutdown(context.Background())

	tr := p.Tracer("t")
	_, s := tr.Start(context.Background(), "op")
	s.End()
	s.SetName("renamed")
	s.SetAttributes(otelattr.Bool("after-end", true))

	require.NoError(t, p.ForceFlush(context.Background()))
	got := exp.flat()
	require.Len(t, got, 1)
	assert.Equal(t, "op", got[0].Name)
	assert.Empty(t, got[0].Attributes)
}
