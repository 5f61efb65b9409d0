package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStorage is an in-process BlobStore used in tests and when no object
// store is configured. Resolved URLs use a synthetic mem:// scheme.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// FailUploads forces Upload to error; tests use it to exercise the
	// abort-on-upload-failure path.
	FailUploads bool
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte)}
}

func (s *MemoryStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if s.FailUploads {
		return fmt.Errorf("upload rejected")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) ResolveURL(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[key]; !ok {
		return "", fmt.Errorf("object %s not found", key)
	}
	return "mem://" + key, nil
}

// Object returns the stored bytes for key, for assertions in tests.
func (s *MemoryStorage) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.objects[key]
	return b, ok
}
