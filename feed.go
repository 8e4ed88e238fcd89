package wikiwisch

import (
	"context"
)

// Source ids. They double as bookmark collection names and tab ids.
const (
	SourceWiki     = "wiki"
	SourceArxiv    = "arxiv"
	SourcePreprint = "preprint"
	SourceArt      = "art"
	SourceNasa     = "nasa"
	SourceHistory  = "history"
)

// Cursor is a page token. Its interpretation belongs to the source that
// issued it: a page counter for most, a 1-based upstream page number for
// the museum source.
type Cursor int

// Page is one immutable batch of items returned by a source.
type Page struct {
	Items      []Item `json:"items"`
	NextCursor Cursor `json:"nextCursor"`
	HasMore    bool   `json:"hasMore"`
}

// Params carries the user filters a source may honor. Sources ignore the
// fields that do not apply to them.
type Params struct {
	Topics   []string `json:"topics,omitempty"`
	Category string   `json:"category,omitempty"`
}

// Source turns a cursor into a page of normalized items.
type Source interface {
	Name() string
	InitialCursor() Cursor
	FetchPage(ctx context.Context, params Params, cursor Cursor) (Page, error)
}
