package service

import (
	"context"
	"time"

	"github.com/Marga-Ghale/ora-admin-console/internal/entity"
	"github.com/Marga-Ghale/ora-admin-console/internal/screen"
	"github.com/sirupsen/logrus"
)

// ResourceService serves one admin screen kind across all browser sessions.
type ResourceService[T entity.Record] struct {
	kind     entity.Kind
	registry *Registry[T]
}

func NewResourceService[T entity.Record](kind entity.Kind, deps screen.Deps) *ResourceService[T] {
	if deps.Logger == nil {
		deps.Logger = logrus.WithField("component", "screen")
	}
	return &ResourceService[T]{
		kind: kind,
		registry: NewRegistry(func(sid string) *screen.Screen[T] {
			return screen.New[T](sid, kind, deps)
		}),
	}
}

func (s *ResourceService[T]) Kind() entity.Kind { return s.kind }

// List refetches the session's list and returns it narrowed by term.
func (s *ResourceService[T]) List(ctx context.Context, sid, term string) (screen.Snapshot[T], error) {
	sc := s.registry.Get(sid)
	if _, err := sc.Refresh(ctx); err != nil {
		return sc.Snapshot(term), err
	}
	return sc.Snapshot(term), nil
}

// View returns the cached list without refetching.
func (s *ResourceService[T]) View(sid, term string) screen.Snapshot[T] {
	return s.registry.Get(sid).Snapshot(term)
}

func (s *ResourceService[T]) SetShowAll(ctx context.Context, sid string, showAll bool) (screen.Snapshot[T], error) {
	return s.registry.Get(sid).SetShowAll(ctx, showAll)
}

func (s *ResourceService[T]) Create(ctx context.Context, sid string, in screen.Input[T]) (screen.Snapshot[T], error) {
	sc := s.registry.Get(sid)
	if err := sc.Create(ctx, in); err != nil {
		return sc.Snapshot(""), err
	}
	return sc.Snapshot(""), nil
}

func (s *ResourceService[T]) Update(ctx context.Context, sid, id string, in screen.Input[T]) (screen.Snapshot[T], error) {
	sc := s.registry.Get(sid)
	if err := sc.Update(ctx, id, in); err != nil {
		return sc.Snapshot(""), err
	}
	return sc.Snapshot(""), nil
}

func (s *ResourceService[T]) Remove(ctx context.Context, sid, id string, confirmed bool) (screen.Snapshot[T], error) {
	sc := s.registry.Get(sid)
	if err := sc.Remove(ctx, id, confirmed); err != nil {
		return sc.Snapshot(""), err
	}
	return sc.Snapshot(""), nil
}

func (s *ResourceService[T]) EvictIdle(cutoff time.Time) int {
	return s.registry.EvictIdle(cutoff)
}

func (s *ResourceService[T]) Forget(sid string) {
	s.registry.Forget(sid)
}
