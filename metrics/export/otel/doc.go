// Package otel publishes client metrics as OpenTelemetry observable
// instruments.
//
// Each family of internaldefs.Families becomes one Int64ObservableCounter
// whose series are told apart by an attribute (outcome or decision). The API
// latency histogram becomes a storerate_api_latency_seconds_bucket gauge with
// an "le" attribute plus a _count gauge. A single callback reads
// [goRate.Client.MetricsSnapshot] on each collection. Callers own the
// MeterProvider.
package otel
