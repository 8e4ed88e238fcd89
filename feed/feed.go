package feed

import (
	"context"
	"sync"

	"github.com/MaxMLang/WikiWisch"
	"github.com/MaxMLang/WikiWisch/log"
)

// Snapshot is the read-only view handed to callers: the flattened pages in
// fetch order plus the flags driving the presentation layer.
type Snapshot struct {
	Items          []wikiwisch.Item `json:"items"`
	Loading        bool             `json:"loading"`
	IsFetchingNext bool             `json:"isFetchingNext"`
	HasMore        bool             `json:"hasMore"`
	Error          string           `json:"error,omitempty"`
}

// Feed drives the incremental loading of one source under one parameter
// set. At most one fetch is in flight at any time: FetchNext is a no-op
// while a fetch is outstanding or once the source is exhausted.
type Feed struct {
	mu sync.Mutex

	source wikiwisch.Source
	logger log.Logger

	// generation tags every outgoing fetch; Reset bumps it so a late
	// response for the old parameters is discarded on arrival.
	generation int

	params    wikiwisch.Params
	pages     []wikiwisch.Page
	cursor    wikiwisch.Cursor
	hasMore   bool
	firstDone bool
	inFlight  bool
	err       error
}

func New(source wikiwisch.Source, params wikiwisch.Params, logger log.Logger) *Feed {
	f := &Feed{
		source: source,
		logger: logger,
	}
	f.reset(params)
	return f
}

func (f *Feed) reset(params wikiwisch.Params) {
	f.generation++
	f.params = params
	f.pages = nil
	f.cursor = f.source.InitialCursor()
	f.hasMore = true
	f.firstDone = false
	f.inFlight = false
	f.err = nil
}

// Reset discards all pages and cursor state, as when the topic or category
// filter changes. Any in-flight fetch is orphaned: its response will carry
// a stale generation and be dropped.
func (f *Feed) Reset(params wikiwisch.Params) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset(params)
}

// FetchNext loads the next page. It returns without issuing an upstream
// call when a fetch is already in flight or the source is exhausted.
func (f *Feed) FetchNext(ctx context.Context) error {
	f.mu.Lock()
	if f.inFlight || !f.hasMore {
		f.mu.Unlock()
		return nil
	}
	f.inFlight = true
	generation := f.generation
	params := f.params
	cursor := f.cursor
	f.mu.Unlock()

	page, err := f.source.FetchPage(ctx, params, cursor)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.generation != generation {
		// The feed was reset while this fetch was outstanding.
		f.logger.Debugf("%s: dropping stale page for cursor %d", f.source.Name(), cursor)
		return nil
	}

	f.inFlight = false

	if err != nil {
		f.err = err
		f.logger.Errorf("%s: fetching page at cursor %d: %v", f.source.Name(), cursor, err)
		return err
	}

	// Only a landed page ends the initial-load phase: a retry of a
	// never-successful first page still reports as loading.
	f.firstDone = true
	f.pages = append(f.pages, page)
	f.cursor = page.NextCursor
	f.hasMore = page.HasMore
	f.err = nil
	return nil
}

// Refetch discards everything and loads the first page again, for a manual
// pull-to-refresh.
func (f *Feed) Refetch(ctx context.Context) error {
	f.mu.Lock()
	f.reset(f.params)
	f.mu.Unlock()

	return f.FetchNext(ctx)
}

// Items returns the concatenation of all fetched pages in fetch order.
func (f *Feed) Items() []wikiwisch.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items()
}

func (f *Feed) items() []wikiwisch.Item {
	var items []wikiwisch.Item
	for _, page := range f.pages {
		items = append(items, page.Items...)
	}
	return items
}

func (f *Feed) Params() wikiwisch.Params {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.params
}

func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := Snapshot{
		Items:          f.items(),
		Loading:        f.inFlight && !f.firstDone,
		IsFetchingNext: f.inFlight && f.firstDone,
		HasMore:        f.hasMore,
	}
	if f.err != nil {
		s.Error = f.err.Error()
	}
	return s
}
