package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	goRate "github.com/MrEthical07/goRate"
	"github.com/MrEthical07/goRate/metrics/export/internaldefs"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() goRate.MetricsSnapshot
	AuditDropped() uint64
}

// family is one instrument and the attribute set of each of its series.
type family struct {
	instrument metric.Int64ObservableCounter
	series     []internaldefs.Series
	attrs      []metric.ObserveOption
}

// OTelExporter publishes client metrics as OTel observable instruments.
type OTelExporter struct {
	source       metricsSource
	registration metric.Registration

	families     []family
	buckets      metric.Int64ObservableGauge
	bucketAttrs  [8]metric.ObserveOption
	count        metric.Int64ObservableGauge
	auditDropped metric.Int64ObservableCounter
}

// NewOTelExporter registers the client's instruments with meter.
func NewOTelExporter(meter metric.Meter, client *goRate.Client) (*OTelExporter, error) {
	if client == nil {
		return nil, ErrNilSource
	}
	return NewOTelExporterFromSource(meter, client)
}

// NewOTelExporterFromSource registers instruments that read from source.
func NewOTelExporterFromSource(meter metric.Meter, source metricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &OTelExporter{source: source}
	var observables []metric.Observable

	for _, def := range internaldefs.Families {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create counter %s: %w", def.Name, err)
		}
		f := family{instrument: ins, series: def.Series}
		for _, s := range def.Series {
			var opt metric.ObserveOption
			if def.Label != "" {
				opt = metric.WithAttributes(attribute.String(def.Label, s.Value))
			} else {
				opt = metric.WithAttributeSet(attribute.NewSet())
			}
			f.attrs = append(f.attrs, opt)
		}
		e.families = append(e.families, f)
		observables = append(observables, ins)
	}

	h := internaldefs.Latency
	buckets, err := meter.Int64ObservableGauge(h.Name+"_bucket",
		metric.WithDescription(h.Help+" Cumulative count per upper bound."),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, fmt.Errorf("create gauge %s_bucket: %w", h.Name, err)
	}
	for i, le := range internaldefs.LatencyBounds {
		e.bucketAttrs[i] = metric.WithAttributes(attribute.Float64("le", le))
	}
	count, err := meter.Int64ObservableGauge(h.Name+"_count",
		metric.WithDescription(h.Help+" Total samples."),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, fmt.Errorf("create gauge %s_count: %w", h.Name, err)
	}
	e.buckets, e.count = buckets, count
	observables = append(observables, buckets, count)

	dropped, err := meter.Int64ObservableCounter(internaldefs.AuditDroppedName, metric.WithDescription(internaldefs.AuditDroppedHelp))
	if err != nil {
		return nil, fmt.Errorf("create counter %s: %w", internaldefs.AuditDroppedName, err)
	}
	e.auditDropped = dropped
	observables = append(observables, dropped)

	reg, err := meter.RegisterCallback(e.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	e.registration = reg
	return e, nil
}

// observe reads one snapshot per collection so every series of a
// collection comes from the same point in time.
func (e *OTelExporter) observe(_ context.Context, o metric.Observer) error {
	snapshot := e.source.MetricsSnapshot()

	for _, f := range e.families {
		for i, s := range f.series {
			o.ObserveInt64(f.instrument, int64(snapshot.Counters[s.ID]), f.attrs[i])
		}
	}

	cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(snapshot.Histograms[internaldefs.Latency.ID]))
	for i, n := range cumulative {
		o.ObserveInt64(e.buckets, int64(n), e.bucketAttrs[i])
	}
	o.ObserveInt64(e.count, int64(cumulative[len(cumulative)-1]))

	o.ObserveInt64(e.auditDropped, int64(e.source.AuditDropped()))
	return nil
}

// Close unregisters the callback. The instruments stay registered with the meter.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
