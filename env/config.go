// Package env loads SDK configuration from OTEL_* environment variables,
// following the names and defaults the OpenTelemetry spec assigns them.
package env

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/otelmini/attribute"
)

// Environment variable names recognized by Config.
const (
	VarServiceName           = "OTEL_SERVICE_NAME"
	VarResourceAttributes    = "OTEL_RESOURCE_ATTRIBUTES"
	VarBSPMaxExportBatchSize = "OTEL_BSP_MAX_EXPORT_BATCH_SIZE"
	VarBSPScheduleDelay      = "OTEL_BSP_SCHEDULE_DELAY"
	VarExporterEndpoint      = "OTEL_EXPORTER_OTLP_ENDPOINT"
	VarExporterTracesEndpoint  = "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"
	VarExporterMetricsEndpoint = "OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"
	VarExporterLogsEndpoint    = "OTEL_EXPORTER_OTLP_LOGS_ENDPOINT"
	VarExporterTimeout       = "OTEL_EXPORTER_OTLP_TIMEOUT"
	VarExporterProtocol      = "OTEL_EXPORTER_OTLP_PROTOCOL"
	VarTracesExporter        = "OTEL_TRACES_EXPORTER"
	VarMetricsExporter       = "OTEL_METRICS_EXPORTER"
	VarLogsExporter          = "OTEL_LOGS_EXPORTER"
	VarMetricExportInterval  = "OTEL_METRIC_EXPORT_INTERVAL"
	VarLogFormat             = "MINI_LOG_FORMAT"
)

// Defaults matching the spec's fallback values when a variable is unset or
// fails to parse.
const (
	DefaultBatchSize             = 512
	DefaultScheduleDelayMillis   = 5000
	DefaultExporterEndpoint      = "http://localhost:4318"
	DefaultExporterTimeoutMillis = 30000
	DefaultMetricIntervalMillis  = 10000
	DefaultExporterKind          = "otlp"
	DefaultProtocol              = "http/protobuf"
)

// Env is a thin wrapper over os.LookupEnv offering typed getters with
// fallback-on-parse-error semantics, mirroring how a misconfigured variable
// degrades to the default instead of crashing the process at startup.
type Env struct {
	lookup func(string) (string, bool)
}

// NewEnv builds an Env backed by the process environment.
func NewEnv() Env {
	return Env{lookup: os.LookupEnv}
}

// Get returns the named variable, or def if unset or empty.
func (e Env) Get(name, def string) string {
	if v, ok := e.lookup(name); ok && v != "" {
		return v
	}
	return def
}

// GetInt returns the named variable parsed as an int, or def if unset,
// empty, or unparsable.
func (e Env) GetInt(name string, def int) int {
	v, ok := e.lookup(name)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// GetBool returns the named variable parsed as a bool, or def if unset,
// empty, or unparsable.
func (e Env) GetBool(name string, def bool) bool {
	v, ok := e.lookup(name)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}

// Config is the fully resolved set of values the SDK's default wiring
// reads at startup, equivalent to constructing providers, processors, and
// exporters by hand with every OTEL_* override applied.
type Config struct {
	ServiceName         string
	ResourceAttributes  []attribute.KeyValue
	BatchSize           int
	ScheduleDelay       time.Duration
	ExporterEndpoint    string
	TracesEndpoint      string
	MetricsEndpoint     string
	LogsEndpoint        string
	ExporterTimeout     time.Duration
	ExporterProtocol    string
	TracesExporterKind  string
	MetricsExporterKind string
	LogsExporterKind    string
	MetricInterval      time.Duration
	LogFormat           string
}

// Load reads Config from the process environment, defaulting every field
// per the constants above.
func Load() Config {
	return LoadFrom(NewEnv())
}

// LoadFrom reads Config using an injected Env, letting tests substitute a
// fake lookup function instead of mutating the real process environment.
func LoadFrom(e Env) Config {
	endpoint := e.Get(VarExporterEndpoint, DefaultExporterEndpoint)

	return Config{
		ServiceName:        e.Get(VarServiceName, "unknown_service"),
		ResourceAttributes: parseResourceAttributes(e.Get(VarResourceAttributes, "")),
		BatchSize:          e.GetInt(VarBSPMaxExportBatchSize, DefaultBatchSize),
		ScheduleDelay:      time.Duration(e.GetInt(VarBSPScheduleDelay, DefaultScheduleDelayMillis)) * time.Millisecond,
		ExporterEndpoint:   endpoint,
		TracesEndpoint:     e.Get(VarExporterTracesEndpoint, endpoint+"/v1/traces"),
		MetricsEndpoint:    e.Get(VarExporterMetricsEndpoint, endpoint+"/v1/metrics"),
		LogsEndpoint:       e.Get(VarExporterLogsEndpoint, endpoint+"/v1/logs"),
		ExporterTimeout:    time.Duration(e.GetInt(VarExporterTimeout, DefaultExporterTimeoutMillis)) * time.Millisecond,
		ExporterProtocol:   e.Get(VarExporterProtocol, DefaultProtocol),
		TracesExporterKind: e.Get(VarTracesExporter, DefaultExporterKind),
		MetricsExporterKind: e.Get(VarMetricsExporter, DefaultExporterKind),
		LogsExporterKind:   e.Get(VarLogsExporter, DefaultExporterKind),
		MetricInterval:     time.Duration(e.GetInt(VarMetricExportInterval, DefaultMetricIntervalMillis)) * time.Millisecond,
		LogFormat:          e.Get(VarLogFormat, "json"),
	}
}

// parseResourceAttributes parses the comma-separated key=value list the
// OTEL_RESOURCE_ATTRIBUTES variable carries, e.g. "a=1,b=2".
func parseResourceAttributes(raw string) []attribute.KeyValue {
	if raw == "" {
		return nil
	}
	var out []attribute.KeyValue
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		out = append(out, attribute.KV(strings.TrimSpace(k), attribute.StringValue(strings.TrimSpace(v))))
	}
	return out
}
