package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxMLang/WikiWisch"
)

func migrate(t *testing.T, data []byte) wikiwisch.State {
	migrated, err := Migrate(data)
	require.NoError(t, err)

	var st wikiwisch.State
	require.NoError(t, json.Unmarshal(migrated, &st))
	return st
}

func TestMigrate_EmptyBlob(t *testing.T) {
	st := migrate(t, nil)

	assert.Equal(t, Defaults(), st)
	assert.Equal(t, currentVersion, st.Version)
	assert.Equal(t, "system", st.Preferences.Theme)
	assert.Equal(t, defaultTabs(), st.Preferences.TabOrder)
}

func TestMigrate_LegacyBlob(t *testing.T) {
	legacy := []byte(`{
		"theme": "dark",
		"categories": ["science", "nature"],
		"medrxivCategory": "neurology",
		"tabOrder": ["wiki", "medrxiv", "arxiv", "biorxiv"],
		"bookmarks": [{"pageid": 42, "title": "Go", "url": "https://en.wikipedia.org/wiki/Go", "thumbnailUrl": "https://thumb"}],
		"medrxivBookmarks": [{"id": "10.1101/1", "title": "One"}, {"id": "10.1101/2", "title": "Two"}],
		"biorxivBookmarks": [{"id": "10.1101/2", "title": "Two again"}, {"id": "10.1101/3", "title": "Three"}]
	}`)

	st := migrate(t, legacy)

	assert.Equal(t, currentVersion, st.Version)

	// Settings moved under preferences, categories renamed, the rest
	// backfilled from defaults.
	assert.Equal(t, "dark", st.Preferences.Theme)
	assert.Equal(t, []string{"science", "nature"}, st.Preferences.Topics)
	assert.Equal(t, "neurology", st.Preferences.PreprintCategory)
	assert.Equal(t, "cs.AI", st.Preferences.ArxivCategory)
	assert.Equal(t, defaultTabs(), st.Preferences.EnabledTabs)

	// medrxiv and biorxiv collapse into one preprint tab; the feeds the
	// legacy blob predates are appended.
	assert.Equal(t, []string{"wiki", "preprint", "arxiv", "art", "nasa", "history"}, st.Preferences.TabOrder)

	// The bare wiki collection is keyed and its fields normalized.
	require.Len(t, st.Bookmarks["wiki"], 1)
	assert.Equal(t, wikiwisch.Bookmark{
		ID:        "42",
		Title:     "Go",
		Link:      "https://en.wikipedia.org/wiki/Go",
		Thumbnail: "https://thumb",
	}, st.Bookmarks["wiki"][0])

	// Preprints merged, duplicates dropped, first occurrence wins.
	preprints := st.Bookmarks["preprint"]
	require.Len(t, preprints, 3)
	assert.Equal(t, "10.1101/1", preprints[0].ID)
	assert.Equal(t, "Two", preprints[1].Title)
	assert.Equal(t, "10.1101/3", preprints[2].ID)
}

func TestMigrate_Idempotent(t *testing.T) {
	legacy := []byte(`{"theme": "dark", "categories": ["science"], "bookmarks": [{"pageid": 1, "title": "A"}]}`)

	once, err := Migrate(legacy)
	require.NoError(t, err)
	twice, err := Migrate(once)
	require.NoError(t, err)

	assert.Equal(t, string(once), string(twice))
}

func TestMigrate_KeepsPresentEmptyValues(t *testing.T) {
	st := migrate(t, []byte(`{"topics": [], "theme": "light"}`))

	// An explicitly empty selection is a choice, not a missing value.
	assert.Empty(t, st.Preferences.Topics)
	assert.Equal(t, "light", st.Preferences.Theme)
	assert.Equal(t, "all", st.Preferences.PreprintCategory)
}

func TestMigrate_BackfillsNewFeeds(t *testing.T) {
	st := migrate(t, []byte(`{"version": 3, "preferences": {"theme": "dark", "tabOrder": ["nasa", "arxiv", "wiki"]}}`))

	assert.Equal(t, "dark", st.Preferences.Theme)
	// preprint lands right after arxiv, other newcomers at the end.
	assert.Equal(t, []string{"nasa", "arxiv", "preprint", "wiki", "art", "history"}, st.Preferences.TabOrder)
}

func TestMigrate_Garbage(t *testing.T) {
	_, err := Migrate([]byte(`{]`))
	assert.Error(t, err)
}
