// Package prometheus renders client metrics in the Prometheus text exposition
// format.
//
// Related counters share one family and differ by a label, for example
// storerate_gate_decisions_total{decision="redirect_login"}. The full list
// lives in internaldefs.Families. The latency histogram is
// storerate_api_latency_seconds.
//
// The exporter never registers with a global registry; callers mount the
// Handler themselves or print Render.
package prometheus
