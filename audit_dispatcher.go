package goRate

import (
	"context"
	"errors"

	"github.com/MrEthical07/goRate/identity"
	internalaudit "github.com/MrEthical07/goRate/internal/audit"
	"github.com/MrEthical07/goRate/session"
	"github.com/MrEthical07/goRate/token"
	"github.com/MrEthical07/goRate/transport"
)

type auditErrorCode string

const (
	auditErrInvalidCredentials auditErrorCode = "invalid_credentials"
	auditErrContractViolation  auditErrorCode = "contract_violation"
	auditErrMalformedToken     auditErrorCode = "malformed_token"
	auditErrTokenExpired       auditErrorCode = "token_expired"
	auditErrUnauthorized       auditErrorCode = "unauthorized"
	auditErrRoleInsufficient   auditErrorCode = "role_insufficient"
	auditErrNotAuthenticated   auditErrorCode = "not_authenticated"
	auditErrPasswordPolicy     auditErrorCode = "password_policy"
	auditErrSlotUnavailable    auditErrorCode = "slot_unavailable"
	auditErrInternal           auditErrorCode = "internal_error"
)

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *internalaudit.Dispatcher {
	return internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Enabled,
		BufferSize: cfg.BufferSize,
		DropIfFull: cfg.DropIfFull,
	}, sink)
}

// emitAudit records one event. id may be nil for anonymous events.
func (c *Client) emitAudit(ctx context.Context, eventType string, success bool, id *identity.Identity, err error, metadata map[string]string) {
	if c == nil || c.audit == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	event := AuditEvent{
		EventType: eventType,
		Success:   success,
		Metadata:  metadata,
	}
	if id != nil {
		event.UserID = id.UserID
		event.Role = string(id.Role)
	}
	if rid, ok := transport.RequestIDFromContext(ctx); ok {
		event.RequestID = rid
	}
	if code := auditCode(err); code != "" {
		event.Error = string(code)
	}

	c.audit.Emit(ctx, event)
}

func auditCode(err error) auditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrContractViolation):
		return auditErrContractViolation
	case errors.Is(err, token.ErrMalformed):
		return auditErrMalformedToken
	case errors.Is(err, session.ErrTokenExpired):
		return auditErrTokenExpired
	case errors.Is(err, ErrSessionRejected):
		return auditErrUnauthorized
	case errors.Is(err, ErrPermissionDenied):
		return auditErrRoleInsufficient
	case errors.Is(err, ErrNotAuthenticated):
		return auditErrNotAuthenticated
	case errors.Is(err, ErrPasswordPolicy):
		return auditErrPasswordPolicy
	case errors.Is(err, session.ErrSlotUnavailable):
		return auditErrSlotUnavailable
	default:
		return auditErrInternal
	}
}
