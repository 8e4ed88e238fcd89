package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxMLang/WikiWisch"
	"github.com/MaxMLang/WikiWisch/log"
)

// stubSource serves scripted pages and records every upstream call.
type stubSource struct {
	mu    sync.Mutex
	calls []wikiwisch.Cursor
	fetch func(params wikiwisch.Params, cursor wikiwisch.Cursor) (wikiwisch.Page, error)

	// when set, started is closed once the first call reaches the source
	// and block holds every call until it is closed.
	started chan struct{}
	block   chan struct{}
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) InitialCursor() wikiwisch.Cursor { return 0 }

func (s *stubSource) FetchPage(ctx context.Context, params wikiwisch.Params, cursor wikiwisch.Cursor) (wikiwisch.Page, error) {
	s.mu.Lock()
	s.calls = append(s.calls, cursor)
	if s.started != nil {
		close(s.started)
		s.started = nil
	}
	block := s.block
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	return s.fetch(params, cursor)
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func article(n int) wikiwisch.Article {
	return wikiwisch.Article{PageID: int64(n), Title: fmt.Sprintf("Article %d", n)}
}

// pagedSource serves batchSize articles per cursor, pageCount pages total.
func pagedSource(batchSize, pageCount int) *stubSource {
	return &stubSource{
		fetch: func(_ wikiwisch.Params, cursor wikiwisch.Cursor) (wikiwisch.Page, error) {
			items := make([]wikiwisch.Item, 0, batchSize)
			for i := 0; i < batchSize; i++ {
				items = append(items, article(int(cursor)*batchSize+i))
			}
			return wikiwisch.Page{
				Items:      items,
				NextCursor: cursor + 1,
				HasMore:    int(cursor)+1 < pageCount,
			}, nil
		},
	}
}

func TestFeed_FetchNext_AppendsInOrder(t *testing.T) {
	source := pagedSource(2, 3)
	f := New(source, wikiwisch.Params{}, log.New("test"))

	require.NoError(t, f.FetchNext(context.Background()))
	require.NoError(t, f.FetchNext(context.Background()))

	items := f.Items()
	require.Len(t, items, 4)
	for i, item := range items {
		assert.Equal(t, article(i), item)
	}
	assert.Equal(t, []wikiwisch.Cursor{0, 1}, source.calls)
	assert.True(t, f.Snapshot().HasMore)
}

func TestFeed_FetchNext_StopsWhenExhausted(t *testing.T) {
	source := pagedSource(2, 2)
	f := New(source, wikiwisch.Params{}, log.New("test"))

	for i := 0; i < 5; i++ {
		require.NoError(t, f.FetchNext(context.Background()))
	}

	// Two pages fetched, then every call is a no-op.
	assert.Equal(t, 2, source.callCount())
	assert.Len(t, f.Items(), 4)
	assert.False(t, f.Snapshot().HasMore)
}

func TestFeed_FetchNext_SingleFlight(t *testing.T) {
	source := pagedSource(2, 3)
	source.started = make(chan struct{})
	source.block = make(chan struct{})
	f := New(source, wikiwisch.Params{}, log.New("test"))

	done := make(chan struct{})
	started := source.started
	go func() {
		f.FetchNext(context.Background())
		close(done)
	}()

	// Wait for the first fetch to reach the source, then pile on.
	<-started
	require.NoError(t, f.FetchNext(context.Background()))
	require.NoError(t, f.FetchNext(context.Background()))

	snapshot := f.Snapshot()
	assert.True(t, snapshot.Loading)
	assert.False(t, snapshot.IsFetchingNext)

	close(source.block)
	<-done

	assert.Equal(t, 1, source.callCount())
	assert.Len(t, f.Items(), 2)
}

func TestFeed_Reset_DropsStaleResponse(t *testing.T) {
	source := pagedSource(2, 3)
	source.started = make(chan struct{})
	source.block = make(chan struct{})
	f := New(source, wikiwisch.Params{Category: "cs.AI"}, log.New("test"))

	done := make(chan struct{})
	started := source.started
	go func() {
		f.FetchNext(context.Background())
		close(done)
	}()
	<-started

	f.Reset(wikiwisch.Params{Category: "cs.LG"})

	close(source.block)
	<-done

	// The in-flight page belonged to the old parameters and is dropped.
	assert.Empty(t, f.Items())
	assert.Equal(t, wikiwisch.Params{Category: "cs.LG"}, f.Params())

	source.block = nil
	require.NoError(t, f.FetchNext(context.Background()))
	assert.Len(t, f.Items(), 2)
}

func TestFeed_FetchNext_KeepsPagesOnError(t *testing.T) {
	fail := false
	source := &stubSource{}
	source.fetch = func(_ wikiwisch.Params, cursor wikiwisch.Cursor) (wikiwisch.Page, error) {
		if fail {
			return wikiwisch.Page{}, errors.New("upstream down")
		}
		return wikiwisch.Page{
			Items:      []wikiwisch.Item{article(int(cursor))},
			NextCursor: cursor + 1,
			HasMore:    true,
		}, nil
	}
	f := New(source, wikiwisch.Params{}, log.New("test"))

	require.NoError(t, f.FetchNext(context.Background()))

	fail = true
	require.Error(t, f.FetchNext(context.Background()))

	snapshot := f.Snapshot()
	assert.Equal(t, "upstream down", snapshot.Error)
	assert.Len(t, snapshot.Items, 1)
	assert.True(t, snapshot.HasMore)

	// Recovery resumes from the same cursor and clears the error.
	fail = false
	require.NoError(t, f.FetchNext(context.Background()))
	snapshot = f.Snapshot()
	assert.Empty(t, snapshot.Error)
	assert.Len(t, snapshot.Items, 2)
	assert.Equal(t, []wikiwisch.Cursor{0, 1, 1}, source.calls)
}

func TestFeed_FetchNext_FirstPageRetryReportsLoading(t *testing.T) {
	fail := true
	source := &stubSource{}
	source.fetch = func(_ wikiwisch.Params, cursor wikiwisch.Cursor) (wikiwisch.Page, error) {
		if fail {
			return wikiwisch.Page{}, errors.New("upstream down")
		}
		return wikiwisch.Page{
			Items:      []wikiwisch.Item{article(int(cursor))},
			NextCursor: cursor + 1,
			HasMore:    true,
		}, nil
	}
	f := New(source, wikiwisch.Params{}, log.New("test"))

	require.Error(t, f.FetchNext(context.Background()))

	// The first page never landed, so the retry is still the initial load.
	fail = false
	source.started = make(chan struct{})
	source.block = make(chan struct{})
	started := source.started

	done := make(chan struct{})
	go func() {
		f.FetchNext(context.Background())
		close(done)
	}()
	<-started

	snapshot := f.Snapshot()
	assert.True(t, snapshot.Loading)
	assert.False(t, snapshot.IsFetchingNext)

	close(source.block)
	<-done
	assert.Len(t, f.Items(), 1)
}

func TestFeed_Refetch(t *testing.T) {
	source := pagedSource(2, 5)
	f := New(source, wikiwisch.Params{}, log.New("test"))

	require.NoError(t, f.FetchNext(context.Background()))
	require.NoError(t, f.FetchNext(context.Background()))
	require.Len(t, f.Items(), 4)

	require.NoError(t, f.Refetch(context.Background()))

	items := f.Items()
	require.Len(t, items, 2)
	assert.Equal(t, article(0), items[0])
}
