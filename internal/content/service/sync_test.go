package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rifathmfm/portfolio-api/internal/content"
)

func TestSyncer_RefreshPopulatesSnapshot(t *testing.T) {
	repo := newCountingRepo()
	svc := New(repo)
	syncer := NewSyncer(svc)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "skills", &content.Record{Title: "Go"})
	require.NoError(t, err)

	require.Empty(t, syncer.Records("skills"))

	require.NoError(t, syncer.Refresh(ctx, "skills"))
	recs := syncer.Records("skills")
	require.Len(t, recs, 1)
	require.Equal(t, "Go", recs[0].Title)
	require.False(t, syncer.Loading("skills"))
}

func TestSyncer_RefreshFailureKeepsStaleSnapshot(t *testing.T) {
	repo := newCountingRepo()
	svc := New(repo)
	syncer := NewSyncer(svc)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "skills", &content.Record{Title: "Go"})
	require.NoError(t, err)
	require.NoError(t, syncer.Refresh(ctx, "skills"))

	repo.failList = "skills"
	require.Error(t, syncer.Refresh(ctx, "skills"))

	// stale snapshot stays served and the loading flag is cleared
	recs := syncer.Records("skills")
	require.Len(t, recs, 1)
	require.Equal(t, "Go", recs[0].Title)
	require.False(t, syncer.Loading("skills"))
}

func TestSyncer_RecordsNeverRefreshedIsEmptyNotNilPanic(t *testing.T) {
	syncer := NewSyncer(New(newCountingRepo()))
	require.NotNil(t, syncer.Records("projects"))
	require.Empty(t, syncer.Records("projects"))
	require.False(t, syncer.Loading("projects"))
}

func TestSyncer_RefreshAllLoadsEveryCollection(t *testing.T) {
	repo := newCountingRepo()
	syncer := NewSyncer(New(repo))

	syncer.RefreshAll(context.Background())

	for _, name := range content.Collections() {
		require.Equal(t, 1, repo.lists[name], "collection %s should be fetched once", name)
	}
}

func TestSyncer_RefreshAllSurvivesSingleFailure(t *testing.T) {
	repo := newCountingRepo()
	repo.failList = "experience"
	syncer := NewSyncer(New(repo))

	syncer.RefreshAll(context.Background())

	for _, name := range content.Collections() {
		require.Equal(t, 1, repo.lists[name])
	}
}
