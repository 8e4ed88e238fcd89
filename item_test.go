package wikiwisch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookmarkProjections(t *testing.T) {
	var tts = []struct {
		name     string
		item     Item
		expected Bookmark
	}{
		{
			name: "article keys on the page id",
			item: Article{PageID: 42, Title: "Go", Thumbnail: "https://thumb", URL: "https://en.wikipedia.org/wiki/Go"},
			expected: Bookmark{
				ID:        "42",
				Title:     "Go",
				Thumbnail: "https://thumb",
				Link:      "https://en.wikipedia.org/wiki/Go",
			},
		},
		{
			name: "paper caps authors at three",
			item: Paper{
				ID:      "2301.00001",
				Title:   "Attention Is All You Need",
				Authors: []string{"One", "Two", "Three", "Four", "Five"},
				AbsLink: "https://arxiv.org/abs/2301.00001",
			},
			expected: Bookmark{
				ID:      "2301.00001",
				Title:   "Attention Is All You Need",
				Authors: []string{"One", "Two", "Three"},
				Link:    "https://arxiv.org/abs/2301.00001",
			},
		},
		{
			name: "preprint keeps its server",
			item: Preprint{DOI: "10.1101/1", Title: "T", Server: "biorxiv", AbsLink: "https://www.biorxiv.org/content/10.1101/1v1"},
			expected: Bookmark{
				ID:     "10.1101/1",
				Title:  "T",
				Server: "biorxiv",
				Link:   "https://www.biorxiv.org/content/10.1101/1v1",
			},
		},
		{
			name: "picture keys on the date",
			item: Picture{Date: "2023-01-01", Title: "Sky", URL: "https://img", ThumbnailURL: "https://thumb"},
			expected: Bookmark{
				ID:        "2023-01-01",
				Title:     "Sky",
				Date:      "2023-01-01",
				Link:      "https://img",
				Thumbnail: "https://thumb",
			},
		},
		{
			name: "event carries year, type and text",
			item: Event{ID: "event-1969-1", Type: "event", Year: 1969, Text: "Apollo 11 lands.", Title: "Apollo 11", WikiURL: "https://wiki"},
			expected: Bookmark{
				ID:    "event-1969-1",
				Title: "Apollo 11",
				Year:  1969,
				Type:  "event",
				Text:  "Apollo 11 lands.",
				Link:  "https://wiki",
			},
		},
	}

	for _, tt := range tts {
		bookmark := tt.item.Bookmark()
		assert.Equal(t, tt.expected, bookmark, tt.name)
		assert.Equal(t, tt.item.Key(), bookmark.ID, tt.name)
	}
}

func TestCleaningPipe(t *testing.T) {
	pipe := CleaningPipe(OneLine, CollapseWhitespace)

	assert.Equal(t, "a b c", pipe("a\n  b\tc"))
}
