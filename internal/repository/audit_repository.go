package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AuditEntry is one admin mutation attempt.
type AuditEntry struct {
	ID           string
	SessionID    string
	ActorID      string
	ActorName    string
	ActorRole    string
	ActorCompany string
	Kind         string
	Action       string
	EntityID     string
	Outcome      string
	Message      string
	CreatedAt    time.Time
}

type AuditRepository interface {
	Create(ctx context.Context, entry *AuditEntry) error
	// FindBySession lists one actor's attempts within a browser session, newest first.
	FindBySession(ctx context.Context, sessionID, actorID string, limit int) ([]*AuditEntry, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// ============================================
// PostgreSQL
// ============================================

type pgAuditRepository struct {
	db DBTX
}

func NewAuditRepository(db DBTX) AuditRepository {
	return &pgAuditRepository{db: db}
}

func (r *pgAuditRepository) Create(ctx context.Context, e *AuditEntry) error {
	query := `
		INSERT INTO admin_audit (session_id, actor_id, actor_name, actor_role, actor_company, kind, action, entity_id, outcome, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		e.SessionID, e.ActorID, e.ActorName, e.ActorRole, e.ActorCompany,
		e.Kind, e.Action, e.EntityID, e.Outcome, e.Message,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

func (r *pgAuditRepository) FindBySession(ctx context.Context, sessionID, actorID string, limit int) ([]*AuditEntry, error) {
	query := `
		SELECT id, session_id, actor_id, actor_name, actor_role, actor_company, kind, action, entity_id, outcome, message, created_at
		FROM admin_audit WHERE session_id = $1 AND actor_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, sessionID, actorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*AuditEntry
	for rows.Next() {
		e := &AuditEntry{}
		if err := rows.Scan(
			&e.ID, &e.SessionID, &e.ActorID, &e.ActorName, &e.ActorRole, &e.ActorCompany,
			&e.Kind, &e.Action, &e.EntityID, &e.Outcome, &e.Message, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *pgAuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM admin_audit WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// ============================================
// In-memory
// ============================================

type inMemoryAuditRepository struct {
	mu      sync.RWMutex
	entries []*AuditEntry
	now     func() time.Time
}

func newInMemoryAuditRepository() *inMemoryAuditRepository {
	return &inMemoryAuditRepository{now: time.Now}
}

func (r *inMemoryAuditRepository) Create(_ context.Context, e *AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uuid.New().String()
	e.CreatedAt = r.now()
	cp := *e
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *inMemoryAuditRepository) FindBySession(_ context.Context, sessionID, actorID string, limit int) ([]*AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*AuditEntry
	for _, e := range r.entries {
		if e.SessionID == sessionID && e.ActorID == actorID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *inMemoryAuditRepository) DeleteOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.entries[:0]
	removed := 0
	for _, e := range r.entries {
		if e.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return removed, nil
}
