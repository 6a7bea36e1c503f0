package internaldefs

import (
	"math"

	goRate "github.com/MrEthical07/goRate"
)

// Series is one labelled member of a Family.
type Series struct {
	ID    goRate.MetricID
	Value string
}

// Family is a counter published under one name. When Label is set each
// Series becomes one labelled stream; otherwise Family has a single Series
// with an empty Value.
type Family struct {
	Name   string
	Help   string
	Label  string
	Series []Series
}

// Families lists every exported counter family.
//
//	storerate_logins_total{outcome}           success, failure, contract_violation
//	storerate_signups_total
//	storerate_logouts_total
//	storerate_session_restores_total{outcome} restored, discarded
//	storerate_session_rejections_total
//	storerate_gate_decisions_total{decision}  allow, redirect_login, redirect_home, pending
//	storerate_password_changes_total{outcome} success, failure, policy_rejected
//	storerate_ratings_submitted_total
//	storerate_api_requests_total
//	storerate_api_errors_total
var Families = []Family{
	{
		Name:  "storerate_logins_total",
		Help:  "Login attempts by outcome.",
		Label: "outcome",
		Series: []Series{
			{ID: goRate.MetricLoginSuccess, Value: "success"},
			{ID: goRate.MetricLoginFailure, Value: "failure"},
			{ID: goRate.MetricLoginContractViolation, Value: "contract_violation"},
		},
	},
	single(goRate.MetricSignup, "storerate_signups_total", "Completed signups."),
	single(goRate.MetricLogout, "storerate_logouts_total", "Logouts of a signed-in session."),
	{
		Name:  "storerate_session_restores_total",
		Help:  "Persisted tokens read at startup, by outcome.",
		Label: "outcome",
		Series: []Series{
			{ID: goRate.MetricSessionRestored, Value: "restored"},
			{ID: goRate.MetricSessionRestoreRejected, Value: "discarded"},
		},
	},
	single(goRate.MetricSessionRejected, "storerate_session_rejections_total", "Sessions ended because the server rejected the credential."),
	{
		Name:  "storerate_gate_decisions_total",
		Help:  "Route authorization decisions.",
		Label: "decision",
		Series: []Series{
			{ID: goRate.MetricGateAllow, Value: "allow"},
			{ID: goRate.MetricGateDenyLogin, Value: "redirect_login"},
			{ID: goRate.MetricGateDenyHome, Value: "redirect_home"},
			{ID: goRate.MetricGatePending, Value: "pending"},
		},
	},
	{
		Name:  "storerate_password_changes_total",
		Help:  "Password change attempts by outcome.",
		Label: "outcome",
		Series: []Series{
			{ID: goRate.MetricPasswordChangeSuccess, Value: "success"},
			{ID: goRate.MetricPasswordChangeFailure, Value: "failure"},
			{ID: goRate.MetricPasswordPolicyRejected, Value: "policy_rejected"},
		},
	},
	single(goRate.MetricRatingSubmitted, "storerate_ratings_submitted_total", "Submitted store ratings."),
	single(goRate.MetricAPIRequest, "storerate_api_requests_total", "Requests sent to the REST API."),
	single(goRate.MetricAPIError, "storerate_api_errors_total", "API requests that failed or answered with status 400 or above."),
}

func single(id goRate.MetricID, name, help string) Family {
	return Family{Name: name, Help: help, Series: []Series{{ID: id}}}
}

// AuditDroppedName is the counter of audit events lost to a full buffer.
const AuditDroppedName = "storerate_audit_dropped_total"

// AuditDroppedHelp describes AuditDroppedName.
const AuditDroppedHelp = "Audit events dropped because the dispatcher buffer was full."

// Latency is the API round-trip histogram.
var Latency = struct {
	ID   goRate.MetricID
	Name string
	Help string
}{
	ID:   goRate.MetricAPILatency,
	Name: "storerate_api_latency_seconds",
	Help: "REST API round-trip latency.",
}

// LatencyBounds are the bucket upper bounds in seconds. They match the
// buckets the client records into.
var LatencyBounds = [8]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, math.Inf(1)}

// NormalizeBuckets copies raw into a fixed-size array. Missing buckets are zero.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	copy(out[:], raw)
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i, n := range raw {
		running += n
		out[i] = running
	}
	return out
}
