package editor

import (
	"context"
	"errors"
	"sync"

	"github.com/rifathmfm/portfolio-api/internal/content"
	"github.com/rifathmfm/portfolio-api/internal/content/service"
	"github.com/rifathmfm/portfolio-api/pkg/logger"
)

// ErrNoPendingDelete is returned when confirm or dismiss is called without a
// prior delete request for that record.
var ErrNoPendingDelete = errors.New("no pending delete for record")

// DeleteFlow is the two-step delete gesture: a delete must be requested and
// then confirmed before the store is touched. The store delete is only ever
// issued from Confirm; Dismiss drops the pending request without any call.
type DeleteFlow struct {
	svc    *service.Service
	syncer *service.Syncer

	mu      sync.Mutex
	pending map[string]struct{} // collection + "/" + id
}

func NewDeleteFlow(svc *service.Service, syncer *service.Syncer) *DeleteFlow {
	return &DeleteFlow{svc: svc, syncer: syncer, pending: make(map[string]struct{})}
}

func pendingKey(collection, id string) string { return collection + "/" + id }

// Request marks the record as pending deletion. No store access happens here.
func (f *DeleteFlow) Request(collection, id string) error {
	if _, ok := content.Lookup(collection); !ok {
		return content.ErrUnknownCollection
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[pendingKey(collection, id)] = struct{}{}
	return nil
}

// Pending reports whether a delete of the record has been requested and not
// yet confirmed or dismissed.
func (f *DeleteFlow) Pending(collection, id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.pending[pendingKey(collection, id)]
	return ok
}

// Confirm deletes the record if its deletion is pending, then refetches the
// collection. On store failure the request stays pending so the user may retry.
func (f *DeleteFlow) Confirm(ctx context.Context, collection, id string) error {
	key := pendingKey(collection, id)
	f.mu.Lock()
	if _, ok := f.pending[key]; !ok {
		f.mu.Unlock()
		return ErrNoPendingDelete
	}
	f.mu.Unlock()

	if err := f.svc.Delete(ctx, collection, id); err != nil {
		logger.Errorf("confirm delete %s/%s: %v", collection, id, err)
		return err
	}

	f.mu.Lock()
	delete(f.pending, key)
	f.mu.Unlock()

	if err := f.syncer.Refresh(ctx, collection); err != nil {
		logger.Warnf("refetch %s after delete failed: %v", collection, err)
	}
	return nil
}

// Dismiss clears the pending request without touching the store.
func (f *DeleteFlow) Dismiss(collection, id string) error {
	key := pendingKey(collection, id)
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.pending[key]; !ok {
		return ErrNoPendingDelete
	}
	delete(f.pending, key)
	return nil
}
