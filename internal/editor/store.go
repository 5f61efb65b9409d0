package editor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rifathmfm/portfolio-api/internal/content"
)

// ErrDraftNotFound is returned when a draft id is unknown or expired.
var ErrDraftNotFound = errors.New("draft not found")

// Draft is the server-held editing state for one open form: the record being
// edited (ID empty for a new record) plus an optionally attached image that
// is not uploaded until submit.
type Draft struct {
	ID         string         `json:"id"`
	Collection string         `json:"collection"`
	Record     content.Record `json:"record"`
	ImageName  string         `json:"imageName,omitempty"`
	ImageType  string         `json:"imageType,omitempty"`
	Image      []byte         `json:"image,omitempty"`
	OpenedAt   time.Time      `json:"openedAt"`
}

// DraftStore persists open drafts between requests. Drafts are short-lived;
// implementations may expire them after DraftTTL.
type DraftStore interface {
	Put(ctx context.Context, d *Draft) error
	Get(ctx context.Context, id string) (*Draft, error)
	Delete(ctx context.Context, id string) error
}

// DraftTTL bounds how long an abandoned draft survives.
const DraftTTL = 24 * time.Hour

// MemoryDraftStore keeps drafts in process memory.
type MemoryDraftStore struct {
	mu     sync.RWMutex
	drafts map[string]*Draft
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{drafts: make(map[string]*Draft)}
}

func (s *MemoryDraftStore) Put(ctx context.Context, d *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	s.drafts[d.ID] = &cp
	return nil
}

func (s *MemoryDraftStore) Get(ctx context.Context, id string) (*Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *MemoryDraftStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}
