package service

import (
	"context"
	"time"

	"github.com/Marga-Ghale/ora-admin-console/internal/repository"
	"github.com/Marga-Ghale/ora-admin-console/internal/screen"
	"github.com/Marga-Ghale/ora-admin-console/internal/session"
	"github.com/sirupsen/logrus"
)

const auditWriteTimeout = 5 * time.Second

type AuditService interface {
	screen.Observer
	// History lists the signed-in actor's recent attempts in this browser session.
	History(ctx context.Context, sid string, limit int) ([]*repository.AuditEntry, error)
	Prune(ctx context.Context, retention time.Duration) (int, error)
}

type auditService struct {
	repo         repository.AuditRepository
	resolver     screen.IdentityResolver
	logger       *logrus.Entry
	writeTimeout time.Duration
}

func NewAuditService(repo repository.AuditRepository, resolver screen.IdentityResolver, logger *logrus.Entry) AuditService {
	if logger == nil {
		logger = logrus.WithField("component", "audit")
	}
	return &auditService{repo: repo, resolver: resolver, logger: logger, writeTimeout: auditWriteTimeout}
}

// actorID keys audit history; the upstream user id when present, else the name.
func actorID(id *session.Identity) string {
	if id == nil {
		return ""
	}
	if id.UserID != "" {
		return id.UserID
	}
	return id.Name
}

// OnMutation records the attempt. A failed write is logged and never surfaces
// to the mutation.
func (s *auditService) OnMutation(ctx context.Context, ev screen.Event) {
	actor := ev.Actor
	if actor == nil && s.resolver != nil {
		// rejected before the screen resolved the actor
		actor, _ = s.resolver.Resolve(ctx)
	}

	entry := &repository.AuditEntry{
		SessionID: ev.SessionID,
		ActorID:   actorID(actor),
		Kind:      ev.Kind,
		Action:    ev.Action,
		EntityID:  ev.EntityID,
		Outcome:   ev.Outcome,
		Message:   ev.Message,
	}
	if actor != nil {
		entry.ActorName = actor.Name
		entry.ActorRole = actor.Role
		entry.ActorCompany = actor.Company
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
	defer cancel()

	if err := s.repo.Create(writeCtx, entry); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"kind":    ev.Kind,
			"action":  ev.Action,
			"outcome": ev.Outcome,
		}).Error("[Audit] failed to record mutation")
	}
}

func (s *auditService) History(ctx context.Context, sid string, limit int) ([]*repository.AuditEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	actor, err := s.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.FindBySession(ctx, sid, actorID(actor), limit)
}

func (s *auditService) Prune(ctx context.Context, retention time.Duration) (int, error) {
	return s.repo.DeleteOlderThan(ctx, time.Now().Add(-retention))
}
