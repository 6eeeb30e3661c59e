// Package screen holds the per-session state of one admin list screen and
// coordinates its mutations.
package screen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Marga-Ghale/ora-admin-console/internal/entity"
	"github.com/Marga-Ghale/ora-admin-console/internal/scope"
	"github.com/Marga-Ghale/ora-admin-console/internal/session"
	"github.com/Marga-Ghale/ora-admin-console/internal/upstream"
	"github.com/sirupsen/logrus"
)

// API is the upstream transport.
type API interface {
	List(ctx context.Context, path, envelope string, query url.Values) (json.RawMessage, error)
	Create(ctx context.Context, path string, payload any) error
	Update(ctx context.Context, path, id string, payload any) error
	Delete(ctx context.Context, path, id string) error
}

// IdentityResolver re-reads the session. Called once per decision point.
type IdentityResolver interface {
	Resolve(ctx context.Context) (*session.Identity, error)
}

// Publisher pushes applied refreshes to the browser session's open connections.
type Publisher interface {
	PublishListRefreshed(sid, kind string, items any, count int)
}

// Observer is told the outcome of every mutation attempt.
type Observer interface {
	OnMutation(ctx context.Context, ev Event)
}

type State int

const (
	Idle State = iota
	Submitting
)

func (s State) String() string {
	if s == Submitting {
		return "submitting"
	}
	return "idle"
}

// Mutation outcomes reported to the Observer.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)

// Event describes one mutation attempt.
type Event struct {
	SessionID string
	Kind      string
	Action    string
	EntityID  string
	Actor     *session.Identity
	Outcome   string
	Message   string
}

// Input is a create/update payload. ExplicitScope is set when the caller supplied
// company fields.
type Input[T entity.Record] struct {
	Record        T
	ExplicitScope bool
}

// Snapshot is a consistent copy of the screen state.
type Snapshot[T entity.Record] struct {
	Kind      string
	Items     []T
	Decision  scope.Decision
	ShowAll   bool
	State     State
	Error     string
	Refreshes int
}

const newTarget = "new"

type Deps struct {
	Resolver  IdentityResolver
	API       API
	Publisher Publisher
	Observer  Observer
	Logger    *logrus.Entry
}

// Screen is the state of one (browser session, resource kind) pair.
// The list is a cache of the last applied fetch and is only replaced by a fetch.
type Screen[T entity.Record] struct {
	sid  string
	kind entity.Kind
	deps Deps
	log  *logrus.Entry

	mu        sync.Mutex
	items     []T
	decision  scope.Decision
	showAll   bool
	inflight  map[string]struct{}
	seq       uint64
	refreshes int
	lastErr   string
	lastUsed  time.Time
}

func New[T entity.Record](sid string, kind entity.Kind, deps Deps) *Screen[T] {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.WithField("component", "screen")
	}
	return &Screen[T]{
		sid:      sid,
		kind:     kind,
		deps:     deps,
		log:      logger.WithFields(logrus.Fields{"sid": sid, "kind": kind.Name}),
		inflight: make(map[string]struct{}),
		lastUsed: time.Now(),
	}
}

func (s *Screen[T]) Kind() entity.Kind { return s.kind }

// LastUsed is the time of the last operation on the screen.
func (s *Screen[T]) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

func (s *Screen[T]) touchLocked() { s.lastUsed = time.Now() }

// ============================================
// Reads
// ============================================

// Refresh re-resolves the session and refetches the scoped list.
// A response that arrives after a newer fetch was issued is dropped.
func (s *Screen[T]) Refresh(ctx context.Context) (Snapshot[T], error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	showAll := s.showAll
	s.touchLocked()
	s.mu.Unlock()

	id, err := s.deps.Resolver.Resolve(ctx)
	if err != nil {
		s.mu.Lock()
		if seq == s.seq {
			s.items = nil
			s.decision = scope.Classify(nil, false)
			s.lastErr = err.Error()
		}
		snap := s.snapshotLocked("")
		s.mu.Unlock()
		return snap, err
	}

	d := scope.Classify(id, showAll)
	query, err := scope.BuildListQuery(d)
	if err != nil {
		return s.Snapshot(""), err
	}

	items, err := s.fetch(ctx, query)
	if err != nil {
		opErr := s.operationError("list", err)
		s.mu.Lock()
		defer s.mu.Unlock()
		if seq != s.seq {
			return s.snapshotLocked(""), nil
		}
		s.lastErr = opErr.Message
		return s.snapshotLocked(""), opErr
	}
	items = scope.Refilter(items, d)

	s.mu.Lock()
	if seq != s.seq {
		snap := s.snapshotLocked("")
		s.mu.Unlock()
		s.log.WithField("seq", seq).Debug("[Screen] dropping stale list response")
		return snap, nil
	}
	s.items = items
	s.decision = d
	s.lastErr = ""
	s.refreshes++
	snap := s.snapshotLocked("")
	s.mu.Unlock()

	if s.deps.Publisher != nil {
		s.deps.Publisher.PublishListRefreshed(s.sid, s.kind.Name, snap.Items, len(snap.Items))
	}
	return snap, nil
}

func (s *Screen[T]) fetch(ctx context.Context, query url.Values) ([]T, error) {
	raw, err := s.deps.API.List(ctx, s.kind.Path, s.kind.Envelope, query)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.kind.Path, err)
	}
	return items, nil
}

// SetShowAll flips the "show all companies" toggle and refetches.
func (s *Screen[T]) SetShowAll(ctx context.Context, showAll bool) (Snapshot[T], error) {
	s.mu.Lock()
	s.showAll = showAll
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Snapshot returns the cached list narrowed by the search term.
func (s *Screen[T]) Snapshot(term string) Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(term)
}

func (s *Screen[T]) snapshotLocked(term string) Snapshot[T] {
	state := Idle
	if len(s.inflight) > 0 {
		state = Submitting
	}
	return Snapshot[T]{
		Kind:      s.kind.Name,
		Items:     scope.Visible(s.items, s.decision, term),
		Decision:  s.decision,
		ShowAll:   s.showAll,
		State:     state,
		Error:     s.lastErr,
		Refreshes: s.refreshes,
	}
}

// CanRemove is false for inactive records; their control is shown disabled.
func (s *Screen[T]) CanRemove(item T) bool {
	return item.Active()
}

func (s *Screen[T]) cached(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.Key() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// ============================================
// Mutations
// ============================================

// Create validates locally, scopes the payload and refetches on success.
func (s *Screen[T]) Create(ctx context.Context, in Input[T]) error {
	if err := s.validate(ctx, "create", "", in.Record); err != nil {
		return err
	}
	if err := s.begin(newTarget); err != nil {
		return err
	}
	defer s.end(newTarget)

	actor, err := s.deps.Resolver.Resolve(ctx)
	if err != nil {
		return err
	}
	if err := s.checkWriter(ctx, "create", "", actor); err != nil {
		return err
	}

	// Non-super-admins always write into their own company; a super-admin
	// creating without scope fields produces a global record.
	if !scope.IsUnrestrictedActor(actor) || in.ExplicitScope {
		in.Record.SetScope(actor.Company, actor.CompanyCode)
	}

	if err := s.deps.API.Create(ctx, s.kind.Path, in.Record); err != nil {
		return s.fail(ctx, "create", "", actor, err)
	}
	s.succeed(ctx, "create", in.Record.Key(), actor)
	return nil
}

// Update validates locally, keeps the record's scope unless the caller edited it,
// and refetches on success.
func (s *Screen[T]) Update(ctx context.Context, id string, in Input[T]) error {
	if err := s.validate(ctx, "update", id, in.Record); err != nil {
		return err
	}
	if err := s.begin(id); err != nil {
		return err
	}
	defer s.end(id)

	actor, err := s.deps.Resolver.Resolve(ctx)
	if err != nil {
		return err
	}
	if err := s.checkWriter(ctx, "update", id, actor); err != nil {
		return err
	}

	switch {
	case in.ExplicitScope && scope.IsUnrestrictedActor(actor):
		// A super-admin may (re)assign any scope, including to a global record.
	case in.ExplicitScope:
		in.Record.SetScope(actor.Company, actor.CompanyCode)
	default:
		if existing, ok := s.cached(id); ok {
			in.Record.SetScope(existing.Scope())
		}
	}

	if err := s.deps.API.Update(ctx, s.kind.Path, id, in.Record); err != nil {
		return s.fail(ctx, "update", id, actor, err)
	}
	s.succeed(ctx, "update", id, actor)
	return nil
}

// Remove deletes a record after the user confirmed, then refetches.
func (s *Screen[T]) Remove(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if existing, ok := s.cached(id); ok && !s.CanRemove(existing) {
		s.observe(ctx, Event{Action: "delete", EntityID: id, Outcome: OutcomeRejected, Message: ErrInactive.Error()})
		return ErrInactive
	}
	if err := s.begin(id); err != nil {
		return err
	}
	defer s.end(id)

	actor, err := s.deps.Resolver.Resolve(ctx)
	if err != nil {
		return err
	}

	if err := s.deps.API.Delete(ctx, s.kind.Path, id); err != nil {
		return s.fail(ctx, "delete", id, actor, err)
	}
	s.succeed(ctx, "delete", id, actor)
	return nil
}

func (s *Screen[T]) validate(ctx context.Context, action, id string, rec T) error {
	if strings.TrimSpace(rec.RequiredName()) != "" {
		return nil
	}
	verr := &ValidationError{Field: "name", Message: fmt.Sprintf("%s name is required", s.kind.Name)}
	s.observe(ctx, Event{Action: action, EntityID: id, Outcome: OutcomeRejected, Message: verr.Error()})
	return verr
}

// checkWriter rejects writes from a non-super-admin with no company; anything
// they saved would land in global scope.
func (s *Screen[T]) checkWriter(ctx context.Context, action, id string, actor *session.Identity) error {
	if scope.IsUnrestrictedActor(actor) || actor.Company != "" {
		return nil
	}
	verr := &ValidationError{Field: "company", Message: "no company is assigned to this account"}
	s.observe(ctx, Event{Action: action, EntityID: id, Actor: actor, Outcome: OutcomeRejected, Message: verr.Error()})
	return verr
}

// begin moves the target into Submitting, rejecting re-entrant submissions.
func (s *Screen[T]) begin(target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[target]; busy {
		return ErrBusy
	}
	s.inflight[target] = struct{}{}
	s.touchLocked()
	return nil
}

func (s *Screen[T]) end(target string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, target)
}

// Submitting reports whether target is mid-operation; the UI disables its controls.
func (s *Screen[T]) Submitting(target string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inflight[target]
	return busy
}

func (s *Screen[T]) succeed(ctx context.Context, action, id string, actor *session.Identity) {
	s.observe(ctx, Event{Action: action, EntityID: id, Actor: actor, Outcome: OutcomeSuccess})

	// Success -> Idle with refresh: exactly one refetch, never a local patch.
	if _, err := s.Refresh(ctx); err != nil {
		s.log.WithError(err).WithField("action", action).Warn("[Screen] refresh after mutation failed")
	}
}

// fail leaves the cached list untouched and records the message to show.
func (s *Screen[T]) fail(ctx context.Context, action, id string, actor *session.Identity, err error) error {
	opErr := s.operationError(action, err)

	s.mu.Lock()
	s.lastErr = opErr.Message
	s.mu.Unlock()

	s.log.WithError(err).WithFields(logrus.Fields{"action": action, "id": id}).Warn("[Screen] mutation failed")
	s.observe(ctx, Event{Action: action, EntityID: id, Actor: actor, Outcome: OutcomeFailure, Message: opErr.Message})
	return opErr
}

func (s *Screen[T]) operationError(op string, err error) *OperationError {
	msg := upstream.ServerMessage(err)
	if msg == "" {
		msg = s.kind.FailureMessage(op)
	}
	return &OperationError{
		Op:      op,
		Kind:    s.kind.Name,
		Status:  upstream.StatusOf(err),
		Message: msg,
		Err:     err,
	}
}

func (s *Screen[T]) observe(ctx context.Context, ev Event) {
	if s.deps.Observer == nil {
		return
	}
	ev.SessionID = s.sid
	ev.Kind = s.kind.Name
	s.deps.Observer.OnMutation(ctx, ev)
}
