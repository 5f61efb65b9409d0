package storage

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_UploadAndResolve(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()
	data := []byte("image bytes")

	err := s.Upload(ctx, "skills/go.png", bytes.NewReader(data), int64(len(data)), "image/png")
	require.NoError(t, err)

	url, err := s.ResolveURL(ctx, "skills/go.png")
	require.NoError(t, err)
	require.Equal(t, "mem://skills/go.png", url)

	got, ok := s.Object("skills/go.png")
	require.True(t, ok)
	require.Equal(t, data, got)
}

func TestMemoryStorage_ResolveMissingKey(t *testing.T) {
	s := NewMemoryStorage()
	_, err := s.ResolveURL(context.Background(), "skills/missing.png")
	require.Error(t, err)
}

func TestMemoryStorage_FailUploads(t *testing.T) {
	s := NewMemoryStorage()
	s.FailUploads = true

	err := s.Upload(context.Background(), "k", bytes.NewReader([]byte("x")), 1, "image/png")
	require.Error(t, err)

	_, ok := s.Object("k")
	require.False(t, ok)
}
