// Package service wires the admin screens, the session view and the audit trail.
package service

import (
	"context"
	"time"

	"github.com/Marga-Ghale/ora-admin-console/internal/config"
	"github.com/Marga-Ghale/ora-admin-console/internal/entity"
	"github.com/Marga-Ghale/ora-admin-console/internal/repository"
	"github.com/Marga-Ghale/ora-admin-console/internal/scope"
	"github.com/Marga-Ghale/ora-admin-console/internal/screen"
	"github.com/Marga-Ghale/ora-admin-console/internal/session"
	"github.com/sirupsen/logrus"
)

// ============================================
// Services Container
// ============================================

type Services struct {
	Session     SessionService
	Audit       AuditService
	Departments *ResourceService[*entity.Department]
	Meetings    *ResourceService[*entity.Meeting]
	Tasks       *ResourceService[*entity.Task]
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config    *config.Config
	Repos     *repository.Repositories
	Resolver  screen.IdentityResolver
	API       screen.API
	Publisher screen.Publisher
	Logger    *logrus.Logger
}

func NewServices(deps *ServiceDeps) *Services {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	audit := NewAuditService(deps.Repos.AuditRepo, deps.Resolver, logger.WithField("component", "audit"))

	screenDeps := screen.Deps{
		Resolver:  deps.Resolver,
		API:       deps.API,
		Publisher: deps.Publisher,
		Observer:  audit,
		Logger:    logger.WithField("component", "screen"),
	}

	return &Services{
		Session:     NewSessionService(deps.Resolver),
		Audit:       audit,
		Departments: NewResourceService[*entity.Department](entity.DepartmentKind, screenDeps),
		Meetings:    NewResourceService[*entity.Meeting](entity.MeetingKind, screenDeps),
		Tasks:       NewResourceService[*entity.Task](entity.TaskKind, screenDeps),
	}
}

// EvictIdle drops screens of every kind idle since cutoff.
func (s *Services) EvictIdle(cutoff time.Time) int {
	return s.Departments.EvictIdle(cutoff) + s.Meetings.EvictIdle(cutoff) + s.Tasks.EvictIdle(cutoff)
}

// Forget drops all screen state of a browser session.
func (s *Services) Forget(sid string) {
	s.Departments.Forget(sid)
	s.Meetings.Forget(sid)
	s.Tasks.Forget(sid)
}

// ============================================
// Session
// ============================================

// SessionView is what the console shell needs to render role-dependent controls.
type SessionView struct {
	Identity *session.Identity
	Decision scope.Decision
}

type SessionService interface {
	Current(ctx context.Context) (*SessionView, error)
}

type sessionService struct {
	resolver screen.IdentityResolver
}

func NewSessionService(resolver screen.IdentityResolver) SessionService {
	return &sessionService{resolver: resolver}
}

func (s *sessionService) Current(ctx context.Context) (*SessionView, error) {
	id, err := s.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return &SessionView{Identity: id, Decision: scope.Classify(id, false)}, nil
}
