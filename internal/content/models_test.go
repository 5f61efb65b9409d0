package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize_NilTechnologiesBecomesEmpty(t *testing.T) {
	r := &Record{Title: "Portfolio site"}
	r.Normalize()
	require.NotNil(t, r.Technologies)
	require.Empty(t, r.Technologies)
}

func TestNormalize_LevelClamped(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{-10, 0},
		{0, 0},
		{85, 85},
		{100, 100},
		{150, 100},
	}
	for _, tc := range cases {
		r := &Record{Level: tc.in}
		r.Normalize()
		require.Equal(t, tc.want, r.Level)
	}
}

func TestDraft_EmptyIDMeansDraft(t *testing.T) {
	require.True(t, (&Record{}).Draft())
	require.False(t, (&Record{ID: "abc"}).Draft())
}

func TestLookup_KnownAndUnknown(t *testing.T) {
	col, ok := Lookup("skills")
	require.True(t, ok)
	require.Equal(t, "skills", col.Name)

	_, ok = Lookup("blog")
	require.False(t, ok)
}

func TestCollections_ContainsAllKnownKinds(t *testing.T) {
	names := Collections()
	for _, want := range []string{"education", "experience", "services", "skills", "projects", "certifications", "messages"} {
		require.Contains(t, names, want)
	}
}

func TestReadRestricted_OnlyMessages(t *testing.T) {
	for _, name := range Collections() {
		col, ok := Lookup(name)
		require.True(t, ok)
		require.Equal(t, name == "messages", col.ReadRestricted, "collection %s", name)
	}
}

func TestMissingFields_ReportsEmptyRequired(t *testing.T) {
	col, ok := Lookup("projects")
	require.True(t, ok)

	missing := col.MissingFields(&Record{Title: "Portfolio"})
	require.ElementsMatch(t, []string{"description", "link"}, missing)

	missing = col.MissingFields(&Record{
		Title:       "Portfolio",
		Description: "Personal site",
		Link:        "https://example.com",
	})
	require.Empty(t, missing)
}

func TestMissingFields_WhitespaceCountsAsEmpty(t *testing.T) {
	col, _ := Lookup("skills")
	missing := col.MissingFields(&Record{Title: "   "})
	require.Equal(t, []string{"title"}, missing)
}
