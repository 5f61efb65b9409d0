package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rifathmfm/portfolio-api/internal/content"
)

// Repository provides persistence for content records grouped by collection.
type Repository interface {
	List(ctx context.Context, collection string) ([]*content.Record, error)
	Create(ctx context.Context, collection string, rec *content.Record) (string, error)
	Update(ctx context.Context, collection string, id string, rec *content.Record) error
	Delete(ctx context.Context, collection string, id string) error
}

// MemoryRepo is an in-memory repository used for unit tests and for running
// the service without a database.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]map[string]*content.Record // collection -> id -> record
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]map[string]*content.Record)}
}

func (m *MemoryRepo) bucket(collection string) map[string]*content.Record {
	b, ok := m.store[collection]
	if !ok {
		b = make(map[string]*content.Record)
		m.store[collection] = b
	}
	return b
}

func (m *MemoryRepo) List(ctx context.Context, collection string) ([]*content.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b := m.store[collection]
	out := make([]*content.Record, 0, len(b))
	for _, r := range b {
		cp := *r
		out = append(out, &cp)
	}
	// insertion order, so snapshots do not shuffle between refetches
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryRepo) Create(ctx context.Context, collection string, rec *content.Record) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	cp := *rec
	m.bucket(collection)[rec.ID] = &cp
	return rec.ID, nil
}

func (m *MemoryRepo) Update(ctx context.Context, collection string, id string, rec *content.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.bucket(collection)
	existing, ok := b[id]
	if !ok {
		return content.ErrNotFound
	}
	cp := *rec
	cp.ID = id
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = time.Now()
	b[id] = &cp
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, collection string, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.bucket(collection)
	if _, ok := b[id]; !ok {
		return content.ErrNotFound
	}
	delete(b, id)
	return nil
}
