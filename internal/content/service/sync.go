package service

import (
	"context"
	"sync"

	"github.com/rifathmfm/portfolio-api/internal/content"
	"github.com/rifathmfm/portfolio-api/pkg/logger"
)

// Syncer keeps an in-memory snapshot per collection and refreshes it with a
// full refetch. Read failures keep the previous snapshot (stale but available).
// Every successful mutation is followed by a Refresh of the whole collection,
// so the served list always reflects the store after a local change.
type Syncer struct {
	svc *Service

	mu        sync.RWMutex
	snapshots map[string][]*content.Record
	loading   map[string]bool
}

func NewSyncer(svc *Service) *Syncer {
	return &Syncer{
		svc:       svc,
		snapshots: make(map[string][]*content.Record),
		loading:   make(map[string]bool),
	}
}

// Refresh refetches the named collection. On failure the stale snapshot is
// kept and the error returned; the loading flag clears either way.
func (s *Syncer) Refresh(ctx context.Context, collection string) error {
	s.mu.Lock()
	s.loading[collection] = true
	s.mu.Unlock()

	recs, err := s.svc.List(ctx, collection)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading[collection] = false
	if err != nil {
		logger.Errorf("refresh %s failed, keeping stale snapshot: %v", collection, err)
		return err
	}
	s.snapshots[collection] = recs
	return nil
}

// Records returns the current snapshot for the collection. The first read of
// a collection that was never refreshed returns an empty list.
func (s *Syncer) Records(collection string) []*content.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snapshots[collection]
	out := make([]*content.Record, len(snap))
	copy(out, snap)
	return out
}

// Loading reports whether a refresh of the collection is in flight.
func (s *Syncer) Loading(collection string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading[collection]
}

// RefreshAll loads every known collection, typically once at startup.
// Individual failures are logged and do not abort the remaining loads.
func (s *Syncer) RefreshAll(ctx context.Context) {
	for _, name := range content.Collections() {
		if err := s.Refresh(ctx, name); err != nil {
			logger.Warnf("initial load of %s failed: %v", name, err)
		}
	}
}
