package view

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rifathmfm/portfolio-api/internal/auth"
	"github.com/rifathmfm/portfolio-api/internal/content"
	"github.com/rifathmfm/portfolio-api/internal/models"
)

func sampleRecords() []*content.Record {
	return []*content.Record{
		{ID: "1", Title: "Go", Level: 90},
		{ID: "2", Title: "React", Level: 80},
		{ID: "3", Title: "MongoDB", Level: 75},
	}
}

func TestBuildCardList_AnonymousHasZeroAffordances(t *testing.T) {
	list := BuildCardList("skills", sampleRecords(), false, auth.Anonymous())

	require.Equal(t, "skills", list.Collection)
	require.False(t, list.CanAdd)
	require.Len(t, list.Cards, 3)
	for _, card := range list.Cards {
		require.False(t, card.CanEdit)
		require.False(t, card.CanDelete)
	}
}

func TestBuildCardList_AuthenticatedHasOneEditAndDeletePerCard(t *testing.T) {
	sess := auth.Authenticated(models.User{Sub: "owner"})
	list := BuildCardList("skills", sampleRecords(), false, sess)

	require.True(t, list.CanAdd)
	require.Len(t, list.Cards, 3)
	for _, card := range list.Cards {
		require.True(t, card.CanEdit)
		require.True(t, card.CanDelete)
	}
}

func TestBuildCardList_PropagatesLoadingFlag(t *testing.T) {
	list := BuildCardList("projects", nil, true, auth.Anonymous())
	require.True(t, list.Loading)
	require.NotNil(t, list.Cards)
	require.Empty(t, list.Cards)
}

func TestBuildCardList_KeepsRecordOrder(t *testing.T) {
	recs := sampleRecords()
	list := BuildCardList("skills", recs, false, auth.Anonymous())
	for i, card := range list.Cards {
		require.Equal(t, recs[i].ID, card.Record.ID)
	}
}
