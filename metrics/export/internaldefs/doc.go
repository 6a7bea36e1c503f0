// Package internaldefs holds the metric families and latency bounds shared by
// the Prometheus and OTel exporters, so both publish the same names and
// labels.
package internaldefs
