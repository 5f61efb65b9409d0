package service

import (
	"context"

	"github.com/rifathmfm/portfolio-api/internal/content"
	"github.com/rifathmfm/portfolio-api/internal/content/repository"
	"github.com/rifathmfm/portfolio-api/pkg/metrics"
)

// Service exposes the content operations used by the handlers and the editor:
// normalized reads plus id-disambiguated upserts and deletes.
type Service struct {
	repo repository.Repository
}

func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// List returns the collection's records, each normalized to the common shape.
func (s *Service) List(ctx context.Context, collection string) ([]*content.Record, error) {
	if _, ok := content.Lookup(collection); !ok {
		return nil, content.ErrUnknownCollection
	}
	recs, err := s.repo.List(ctx, collection)
	if err != nil {
		metrics.ContentReads.WithLabelValues(collection, "error").Inc()
		return nil, &content.StoreError{Op: "read", Collection: collection, Err: err}
	}
	for _, r := range recs {
		r.Normalize()
	}
	metrics.ContentReads.WithLabelValues(collection, "ok").Inc()
	return recs, nil
}

// Upsert persists the record: create when its id is empty, update otherwise.
// Returns the record's id.
func (s *Service) Upsert(ctx context.Context, collection string, rec *content.Record) (string, error) {
	if _, ok := content.Lookup(collection); !ok {
		return "", content.ErrUnknownCollection
	}
	if rec.Draft() {
		id, err := s.repo.Create(ctx, collection, rec)
		if err != nil {
			metrics.ContentWrites.WithLabelValues(collection, "error").Inc()
			return "", &content.StoreError{Op: "write", Collection: collection, Err: err}
		}
		metrics.ContentWrites.WithLabelValues(collection, "ok").Inc()
		return id, nil
	}
	if err := s.repo.Update(ctx, collection, rec.ID, rec); err != nil {
		metrics.ContentWrites.WithLabelValues(collection, "error").Inc()
		return "", &content.StoreError{Op: "write", Collection: collection, Err: err}
	}
	metrics.ContentWrites.WithLabelValues(collection, "ok").Inc()
	return rec.ID, nil
}

// Delete removes the record with id from the collection.
func (s *Service) Delete(ctx context.Context, collection string, id string) error {
	if _, ok := content.Lookup(collection); !ok {
		return content.ErrUnknownCollection
	}
	if err := s.repo.Delete(ctx, collection, id); err != nil {
		metrics.ContentDeletes.WithLabelValues(collection, "error").Inc()
		return &content.StoreError{Op: "delete", Collection: collection, Err: err}
	}
	metrics.ContentDeletes.WithLabelValues(collection, "ok").Inc()
	return nil
}
