// Package scope identifies the instrumentation library (tracer, meter, or
// logger) that produced a piece of telemetry, matching OTLP's
// InstrumentationScope message.
package scope

// Scope names the library, and optionally the version and schema URL, of
// the code that created a span, metric, or log record. Unlike Resource,
// Scope is a comparable value rather than a shared pointer: everything
// obtained from the same Tracer/Meter/Logger carries an equal Scope value.
type Scope struct {
	Name      string
	Version   string
	SchemaURL string
}

// New builds a Scope. Version and schemaURL may be empty.
func New(name, version, schemaURL string) Scope {
	return Scope{Name: name, Version: version, SchemaURL: schemaURL}
}
