package goRate

import internalmetrics "github.com/MrEthical07/goRate/internal/metrics"

// MetricID identifies a client counter.
type MetricID = internalmetrics.MetricID

const (
	MetricLoginSuccess           = internalmetrics.MetricLoginSuccess
	MetricLoginFailure           = internalmetrics.MetricLoginFailure
	MetricLoginContractViolation = internalmetrics.MetricLoginContractViolation
	MetricSignup                 = internalmetrics.MetricSignup
	MetricLogout                 = internalmetrics.MetricLogout
	MetricSessionRestored        = internalmetrics.MetricSessionRestored
	MetricSessionRestoreRejected = internalmetrics.MetricSessionRestoreRejected
	MetricSessionRejected        = internalmetrics.MetricSessionRejected
	MetricGateAllow              = internalmetrics.MetricGateAllow
	MetricGateDenyLogin          = internalmetrics.MetricGateDenyLogin
	MetricGateDenyHome           = internalmetrics.MetricGateDenyHome
	MetricGatePending            = internalmetrics.MetricGatePending
	MetricPasswordChangeSuccess  = internalmetrics.MetricPasswordChangeSuccess
	MetricPasswordChangeFailure  = internalmetrics.MetricPasswordChangeFailure
	MetricPasswordPolicyRejected = internalmetrics.MetricPasswordPolicyRejected
	MetricRatingSubmitted        = internalmetrics.MetricRatingSubmitted
	MetricAPIRequest             = internalmetrics.MetricAPIRequest
	MetricAPIError               = internalmetrics.MetricAPIError
	MetricAPILatency             = internalmetrics.MetricAPILatency
)

// Metrics holds the client counters. A nil *Metrics records nothing.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a metrics set from cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:                 cfg.Enabled,
		EnableLatencyHistograms: cfg.EnableLatencyHistograms,
	})
}

func (c *Client) metricInc(id MetricID) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.Inc(id)
}
