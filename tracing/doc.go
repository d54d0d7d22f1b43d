// Package tracing wraps OpenTelemetry so scheduler components can open and
// close spans without importing the SDK. Spans are exported with the stdout
// exporter, either to os.Stdout or to a file. Until Init is called the global
// no-op provider is used and spans cost nothing.
package tracing
