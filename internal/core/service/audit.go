package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ecoride/auth-service/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns the AuditService that persists auth events.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single auth event. Called from the dispatcher workers.
func (s *auditService) Process(ctx context.Context, event ports.AuthEvent) error {
	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("audit event: %w", err)
	}
	s.log.Debug().
		Str("flow", event.Flow).
		Str("outcome", event.Outcome).
		Str("identity_id", event.IdentityID).
		Msg("auth event recorded")
	return nil
}

// NopAuditSink discards events. Used where no audit pipeline is wired.
type NopAuditSink struct{}

func (NopAuditSink) Record(ports.AuthEvent) {}
