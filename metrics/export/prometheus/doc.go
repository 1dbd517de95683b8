// Package prometheus provides Prometheus collectors for passgate metrics.
//
// [NewPrometheusExporter] accepts a [passgate.Engine] and exposes an
// [net/http.Handler] that renders all passgate counters in Prometheus text
// exposition format. Counter names are prefixed passgate_*_total.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
