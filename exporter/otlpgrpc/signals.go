package otlpgrpc

import (
	"context"

	"github.com/felixgeelhaar/otelmini/otlp/encode"
	"google.golang.org/grpc"
	collectorlogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	collectormetricspb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	collectortracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
)

// DefaultAddr is the local collector address the reference gRPC exporter
// dials when no endpoint is configured.
const DefaultAddr = "127.0.0.1:4317"

// NewTraceExporter builds a gRPC exporter for the traces signal.
func NewTraceExporter(addr string) *Exporter[encode.Span] {
	return New[encode.Span](addr, func(ctx context.Context, conn *grpc.ClientConn, spans []encode.Span) error {
		client := collectortracepb.NewTraceServiceClient(conn)
		_, err := client.Export(ctx, encode.EncodeTraceRequestPB(spans))
		return err
	})
}

// NewLogExporter builds a gRPC exporter for the logs signal.
func NewLogExporter(addr string) *Exporter[encode.LogRecord] {
	return New[encode.LogRecord](addr, func(ctx context.Context, conn *grpc.ClientConn, records []encode.LogRecord) error {
		client := collectorlogspb.NewLogsServiceClient(conn)
		_, err := client.Export(ctx, encode.EncodeLogsRequestPB(records))
		return err
	})
}

// NewMetricExporter builds a gRPC exporter for the metrics signal.
func NewMetricExporter(addr string) *Exporter[encode.Metric] {
	return New[encode.Metric](addr, func(ctx context.Context, conn *grpc.ClientConn, metrics []encode.Metric) error {
		client := collectormetricspb.NewMetricsServiceClient(conn)
		_, err := client.Export(ctx, encode.EncodeMetricsRequestPB(metrics))
		return err
	})
}
