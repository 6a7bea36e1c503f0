package goRate

import (
	"io"
	"log/slog"

	internalaudit "github.com/MrEthical07/goRate/internal/audit"
)

// AuditEvent is one audit record.
type AuditEvent = internalaudit.Event

// AuditSink receives audit events from the dispatcher goroutine.
type AuditSink = internalaudit.Sink

// NoOpSink discards audit events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink delivers audit events on a channel.
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink writes audit events as JSON lines.
type JSONWriterSink = internalaudit.JSONWriterSink

// SlogSink logs audit events.
type SlogSink = internalaudit.SlogSink

// Audit event types.
const (
	AuditSessionRestored        = internalaudit.EventSessionRestored
	AuditSessionRestoreRejected = internalaudit.EventSessionRestoreRejected
	AuditLogin                  = internalaudit.EventLogin
	AuditLoginFailed            = internalaudit.EventLoginFailed
	AuditSignup                 = internalaudit.EventSignup
	AuditLogout                 = internalaudit.EventLogout
	AuditSessionRejected        = internalaudit.EventSessionRejected
	AuditNavigationDenied       = internalaudit.EventNavigationDenied
	AuditPasswordChanged        = internalaudit.EventPasswordChanged
)

func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	return internalaudit.NewSlogSink(logger)
}
