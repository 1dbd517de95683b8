// Package otel provides OpenTelemetry metric exporter bindings for passgate
// counters.
//
// [NewOTelExporter] registers an Int64ObservableCounter instrument for each
// passgate metric. A single callback reads [passgate.Engine.Metrics] on each
// collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate engine state.
package otel
