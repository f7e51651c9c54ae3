// Package cmd implements the otelmini CLI's command tree: a thin cobra
// wrapper around the SDK packages that wires providers from env.Config
// and exercises them end to end, the way an embedding application would.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "otelmini",
	Short: "A minimal OpenTelemetry SDK for Go",
	Long: `otelmini is a minimal OpenTelemetry SDK: it batches spans, log
records, and metric measurements produced by application code and
exports them to an OTLP collector over gRPC or HTTP/JSON.

This CLI is glue around the SDK, not the SDK itself - it wires a
TracerProvider/MeterProvider/LoggerProvider from OTEL_* environment
variables and is useful for smoke-testing a collector endpoint without
writing any Go code.`,
}

// Execute runs the root command with a background context.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command, propagating ctx to every
// subcommand so Ctrl+C (SIGINT/SIGTERM) aborts an in-flight export
// instead of leaving the process to be killed outright.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(versionCmd)
}
