package sdklog

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/otelmini/attribute"
	"github.com/felixgeelhaar/otelmini/otlp/encode"
	"go.opentelemetry.io/otel/trace"
)

// BridgeHandler adapts log/slog records into this package's Logger, the
// way a logging.Handler subclass feeds Python's logging records into a
// Logger. Install it with slog.New(bridge) to route application logging
// through the SDK's batch processor and exporter.
type BridgeHandler struct {
	logger *Logger
	attrs  []slog.Attr
	group  string
}

var _ slog.Handler = (*BridgeHandler)(nil)

// NewBridgeHandler builds a BridgeHandler emitting through the named
// logger on provider.
func NewBridgeHandler(provider *LoggerProvider, loggerName string) *BridgeHandler {
	return &BridgeHandler{logger: provider.Logger(loggerName, "", "")}
}

func (h *BridgeHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *BridgeHandler) Handle(ctx context.Context, record slog.Record) error {
	attrs := make([]attribute.KeyValue, 0, len(h.attrs)+record.NumAttrs())
	for _, a := range h.attrs {
		attrs = append(attrs, convertSlogAttr("", a))
	}
	record.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, convertSlogAttr(h.group, a))
		return true
	})

	sc := trace.SpanContextFromContext(ctx)

	h.logger.Emit(ctx, Record{
		Timestamp:    record.Time,
		Severity:     severityFromSlogLevel(record.Level),
		SeverityText: record.Level.String(),
		Body:         attribute.StringValue(record.Message),
		Attributes:   attrs,
		TraceID:      sc.TraceID(),
		SpanID:       sc.SpanID(),
	})
	return nil
}

func (h *BridgeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *BridgeHandler) WithGroup(name string) slog.Handler {
	next := *h
	if h.group == "" {
		next.group = name
	} else {
		next.group = h.group + "." + name
	}
	return &next
}

func convertSlogAttr(group string, a slog.Attr) attribute.KeyValue {
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	switch a.Value.Kind() {
	case slog.KindString:
		return attribute.KV(key, attribute.StringValue(a.Value.String()))
	case slog.KindInt64:
		return attribute.KV(key, attribute.Int64Value(a.Value.Int64()))
	case slog.KindFloat64:
		return attribute.KV(key, attribute.Float64Value(a.Value.Float64()))
	case slog.KindBool:
		return attribute.KV(key, attribute.BoolValue(a.Value.Bool()))
	default:
		return attribute.KV(key, attribute.StringValue(a.Value.String()))
	}
}

// severityFromSlogLevel buckets slog's four standard levels (and any
// custom level above Error) the way the reference bridge's
// _get_severity_number buckets Python's logging levels.
func severityFromSlogLevel(level slog.Level) encode.Severity {
	switch {
	case level >= slog.LevelError+4:
		return encode.SeverityFatal
	case level >= slog.LevelError:
		return encode.SeverityError
	case level >= slog.LevelWarn:
		return encode.SeverityWarn
	case level >= slog.LevelInfo:
		return encode.SeverityInfo
	case level >= slog.LevelDebug:
		return encode.SeverityDebug
	default:
		return encode.SeverityTrace
	}
}
