package prometheus

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	goRate "github.com/MrEthical07/goRate"
	"github.com/MrEthical07/goRate/metrics/export/internaldefs"
)

type metricsSource interface {
	MetricsSnapshot() goRate.MetricsSnapshot
	AuditDropped() uint64
}

// PrometheusExporter renders client metrics in the Prometheus text format.
type PrometheusExporter struct {
	source metricsSource
}

// NewPrometheusExporter reads from client. A nil client renders nothing.
func NewPrometheusExporter(client *goRate.Client) *PrometheusExporter {
	if client == nil {
		return &PrometheusExporter{}
	}
	return &PrometheusExporter{source: client}
}

// NewPrometheusExporterFromSource reads from any snapshot source.
func NewPrometheusExporterFromSource(source metricsSource) *PrometheusExporter {
	return &PrometheusExporter{source: source}
}

// Handler serves Render, for processes that embed the client next to an
// HTTP listener.
func (p *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(p.Render()))
	})
}

// Render returns every family in internaldefs.Families, the latency
// histogram and the audit drop counter. It returns "" when the client was
// built with metrics disabled.
func (p *PrometheusExporter) Render() string {
	if p == nil || p.source == nil {
		return ""
	}

	snapshot := p.source.MetricsSnapshot()
	dropped := p.source.AuditDropped()
	if len(snapshot.Counters) == 0 && len(snapshot.Histograms) == 0 && dropped == 0 {
		return ""
	}

	var b strings.Builder
	for _, f := range internaldefs.Families {
		header(&b, f.Name, f.Help, "counter")
		for _, s := range f.Series {
			sample(&b, f.Name, f.Label, s.Value, snapshot.Counters[s.ID])
		}
	}

	h := internaldefs.Latency
	cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(snapshot.Histograms[h.ID]))
	header(&b, h.Name, h.Help, "histogram")
	for i, le := range internaldefs.LatencyBounds {
		sample(&b, h.Name+"_bucket", "le", formatBound(le), cumulative[i])
	}
	// The snapshot holds bucket counts only, so no _sum series is written.
	sample(&b, h.Name+"_count", "", "", cumulative[len(cumulative)-1])

	header(&b, internaldefs.AuditDroppedName, internaldefs.AuditDroppedHelp, "counter")
	sample(&b, internaldefs.AuditDroppedName, "", "", dropped)

	return b.String()
}

func header(b *strings.Builder, name, help, kind string) {
	fmt.Fprintf(b, "# HELP %s %s\n# TYPE %s %s\n", name, escapeHelp(help), name, kind)
}

func sample(b *strings.Builder, name, label, value string, n uint64) {
	b.WriteString(name)
	if label != "" {
		fmt.Fprintf(b, "{%s=%q}", label, value)
	}
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(n, 10))
	b.WriteByte('\n')
}

func formatBound(le float64) string {
	if math.IsInf(le, 1) {
		return "+Inf"
	}
	return strconv.FormatFloat(le, 'g', -1, 64)
}

func escapeHelp(help string) string {
	help = strings.ReplaceAll(help, "\\", "\\\\")
	return strings.ReplaceAll(help, "\n", "\\n")
}
