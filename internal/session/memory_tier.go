package session

import (
	"context"
	"sync"
)

// MemoryTier is a map-backed tier for tests and local runs. Records are not sid-scoped.
type MemoryTier struct {
	name   string
	mu     sync.RWMutex
	values map[string]string
	err    error
}

func NewMemoryTier(name string) *MemoryTier {
	return &MemoryTier{name: name, values: make(map[string]string)}
}

func (t *MemoryTier) Name() string { return t.name }

func (t *MemoryTier) Get(_ context.Context, key string) (string, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.err != nil {
		return "", false, t.err
	}
	v, ok := t.values[key]
	return v, ok, nil
}

func (t *MemoryTier) Set(key, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.values[key] = value
}

func (t *MemoryTier) Delete(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.values, key)
}

// Fail makes every Get return err until reset with nil.
func (t *MemoryTier) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}
