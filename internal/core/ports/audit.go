package ports

import (
	"context"
	"time"
)

// Audit flow names.
const (
	AuditFlowLogin    = "login"
	AuditFlowRegister = "register"
	AuditFlowLegacy   = "legacy_auth"
	AuditFlowRefresh  = "refresh"
)

// Audit outcomes.
const (
	AuditOutcomeSucceeded = "succeeded"
	AuditOutcomeCreated   = "created"
	AuditOutcomeFailed    = "failed"
)

// AuthEvent records the outcome of one authentication flow invocation.
type AuthEvent struct {
	Flow       string
	IdentityID string
	Email      string
	Phone      string
	Role       string
	Outcome    string
	At         time.Time
}

// ShardKey returns the key used to route the event to a worker, keeping
// per-identity ordering in the audit trail.
func (e AuthEvent) ShardKey() string {
	if e.IdentityID != "" {
		return e.IdentityID
	}
	if e.Email != "" {
		return e.Email
	}
	return e.Phone
}

// AuditSink accepts events for asynchronous persistence. Record must never
// block the request path; sinks may drop events under pressure.
type AuditSink interface {
	Record(event AuthEvent)
}

// AuditService processes a single dequeued event.
type AuditService interface {
	Process(ctx context.Context, event AuthEvent) error
}

// AuditRepository persists processed events.
type AuditRepository interface {
	Insert(ctx context.Context, event *AuthEvent) error
}
