package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/rifathmfm/portfolio-api/internal/content"
	"github.com/rifathmfm/portfolio-api/internal/content/service"
	"github.com/rifathmfm/portfolio-api/internal/storage"
	"github.com/rifathmfm/portfolio-api/pkg/logger"
	"github.com/rifathmfm/portfolio-api/pkg/metrics"
)

// ErrSubmitInFlight is returned when a submit for the draft is already
// running; only one submit per draft may be in flight.
var ErrSubmitInFlight = errors.New("submit already in flight")

// Editor owns the upsert form lifecycle: open a draft (empty for Add,
// populated for Edit), mutate its fields, attach an image, then submit or
// cancel. Submit runs validate -> upload -> write -> refetch in that order;
// a failure at any step leaves the draft open and untouched.
type Editor struct {
	svc    *service.Service
	syncer *service.Syncer
	blob   storage.BlobStore
	drafts DraftStore

	mu         sync.Mutex
	submitting map[string]bool
}

func New(svc *service.Service, syncer *service.Syncer, blob storage.BlobStore, drafts DraftStore) *Editor {
	return &Editor{
		svc:        svc,
		syncer:     syncer,
		blob:       blob,
		drafts:     drafts,
		submitting: make(map[string]bool),
	}
}

// Open starts editing. With from == nil the draft is an empty record (Add);
// otherwise the draft copies the record including its id, so a later submit
// becomes an update (Edit).
func (e *Editor) Open(ctx context.Context, collection string, from *content.Record) (*Draft, error) {
	col, ok := content.Lookup(collection)
	if !ok {
		return nil, content.ErrUnknownCollection
	}
	d := &Draft{
		ID:         uuid.NewString(),
		Collection: col.Name,
	}
	if from != nil {
		d.Record = *from
	}
	d.Record.Normalize()
	if err := e.drafts.Put(ctx, d); err != nil {
		return nil, fmt.Errorf("open draft: %w", err)
	}
	return d, nil
}

// OpenFromID starts editing the record with the given id, reading the current
// copy from the collection snapshot.
func (e *Editor) OpenFromID(ctx context.Context, collection, recordID string) (*Draft, error) {
	for _, r := range e.syncer.Records(collection) {
		if r.ID == recordID {
			return e.Open(ctx, collection, r)
		}
	}
	return nil, content.ErrNotFound
}

// SetFields applies form field edits to the draft. Unknown field names are
// ignored; no validation happens until submit.
func (e *Editor) SetFields(ctx context.Context, draftID string, fields map[string]interface{}) (*Draft, error) {
	d, err := e.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	applyFields(&d.Record, fields)
	if err := e.drafts.Put(ctx, d); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return d, nil
}

// ChooseImage attaches a pending image to the draft. Nothing is uploaded
// until submit.
func (e *Editor) ChooseImage(ctx context.Context, draftID, filename, contentType string, data []byte) (*Draft, error) {
	d, err := e.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	d.ImageName = filename
	d.ImageType = contentType
	d.Image = data
	if err := e.drafts.Put(ctx, d); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return d, nil
}

// Submit validates the draft, uploads the pending image if one was chosen,
// then creates or updates the record (disambiguated by the draft record's id).
// On success the collection is refetched and the draft discarded. On any
// failure the draft stays open with its fields intact.
func (e *Editor) Submit(ctx context.Context, draftID string) (*content.Record, error) {
	e.mu.Lock()
	if e.submitting[draftID] {
		e.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	e.submitting[draftID] = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		delete(e.submitting, draftID)
		e.mu.Unlock()
	}()

	d, err := e.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	col, ok := content.Lookup(d.Collection)
	if !ok {
		return nil, content.ErrUnknownCollection
	}

	// 1. validate before any remote call
	if missing := col.MissingFields(&d.Record); len(missing) > 0 {
		return nil, &content.ValidationError{Collection: col.Name, Fields: missing}
	}

	// 2. upload strictly before the document write, so a stored record never
	// references an image that does not resolve
	if len(d.Image) > 0 {
		key := col.ImageFolder + "/" + d.ImageName
		if err := e.blob.Upload(ctx, key, bytes.NewReader(d.Image), int64(len(d.Image)), d.ImageType); err != nil {
			metrics.ImageUploads.WithLabelValues("error").Inc()
			return nil, &content.UploadError{Key: key, Err: err}
		}
		url, err := e.blob.ResolveURL(ctx, key)
		if err != nil {
			metrics.ImageUploads.WithLabelValues("error").Inc()
			return nil, &content.UploadError{Key: key, Err: err}
		}
		metrics.ImageUploads.WithLabelValues("ok").Inc()
		d.Record.ImageURL = url
		d.Image = nil
		d.ImageName = ""
		d.ImageType = ""
		if err := e.drafts.Put(ctx, d); err != nil {
			logger.Warnf("persist draft after upload failed: %v", err)
		}
	}

	// 3. create or update
	id, err := e.svc.Upsert(ctx, col.Name, &d.Record)
	if err != nil {
		logger.Errorf("submit %s: %v", col.Name, err)
		return nil, err
	}
	d.Record.ID = id

	// 4. full refetch, then discard the draft
	if err := e.syncer.Refresh(ctx, col.Name); err != nil {
		logger.Warnf("refetch %s after submit failed: %v", col.Name, err)
	}
	if err := e.drafts.Delete(ctx, draftID); err != nil {
		logger.Warnf("discard draft %s: %v", draftID, err)
	}
	rec := d.Record
	return &rec, nil
}

// Cancel closes the form and discards the draft without any store call.
func (e *Editor) Cancel(ctx context.Context, draftID string) error {
	return e.drafts.Delete(ctx, draftID)
}

// Draft returns the current draft state.
func (e *Editor) Draft(ctx context.Context, draftID string) (*Draft, error) {
	return e.drafts.Get(ctx, draftID)
}

func applyFields(r *content.Record, fields map[string]interface{}) {
	for name, v := range fields {
		switch name {
		case "title":
			setString(&r.Title, v)
		case "institution":
			setString(&r.Institution, v)
		case "company":
			setString(&r.Company, v)
		case "period":
			setString(&r.Period, v)
		case "imageUrl":
			setString(&r.ImageURL, v)
		case "description":
			setString(&r.Description, v)
		case "color":
			setString(&r.Color, v)
		case "icon":
			setString(&r.Icon, v)
		case "details":
			setString(&r.Details, v)
		case "link":
			setString(&r.Link, v)
		case "date":
			setString(&r.Date, v)
		case "name":
			setString(&r.Name, v)
		case "email":
			setString(&r.Email, v)
		case "location":
			setString(&r.Location, v)
		case "budget":
			setString(&r.Budget, v)
		case "message":
			setString(&r.Message, v)
		case "level":
			if f, ok := v.(float64); ok {
				r.Level = int(f)
			} else if n, ok := v.(int); ok {
				r.Level = n
			}
		case "technologies":
			if items, ok := v.([]interface{}); ok {
				techs := make([]string, 0, len(items))
				for _, it := range items {
					if s, ok := it.(string); ok {
						techs = append(techs, s)
					}
				}
				r.Technologies = techs
			} else if strs, ok := v.([]string); ok {
				r.Technologies = strs
			}
		}
	}
	r.Normalize()
}

func setString(dst *string, v interface{}) {
	if s, ok := v.(string); ok {
		*dst = s
	}
}
