package apod

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxMLang/WikiWisch"
)

func createClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := &Client{
		client:     server.Client(),
		baseURL:    server.URL,
		apiKey:     "TEST_KEY",
		retryDelay: time.Millisecond,
		now:        func() time.Time { return time.Date(2023, 6, 30, 12, 0, 0, 0, time.UTC) },
	}
	return client, server
}

var rangeResponse = `[
	{"date": "2023-06-26", "title": "Oldest", "explanation": "e1", "media_type": "image", "url": "https://img/1", "hdurl": "https://img/1hd"},
	{"date": "2023-06-27", "title": "Copyrighted", "explanation": "e2", "media_type": "image", "url": "https://img/2", "copyright": "Someone"},
	{"date": "2023-06-28", "title": "Newest", "explanation": "e3", "media_type": "video", "url": "https://vid/3", "thumbnail_url": "https://img/3thumb"}
]`

func TestClient_FetchPage(t *testing.T) {
	var gotQuery map[string]string
	client, server := createClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"api_key":    r.URL.Query().Get("api_key"),
			"start_date": r.URL.Query().Get("start_date"),
			"end_date":   r.URL.Query().Get("end_date"),
			"thumbs":     r.URL.Query().Get("thumbs"),
		}
		fmt.Fprint(w, rangeResponse)
	})
	defer server.Close()

	page, err := client.FetchPage(context.Background(), wikiwisch.Params{}, 0)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"api_key":    "TEST_KEY",
		"start_date": "2023-06-28",
		"end_date":   "2023-06-30",
		"thumbs":     "true",
	}, gotQuery)

	// The copyrighted entry is dropped and the order flipped to newest
	// first, so the page ends short of a full batch.
	require.Len(t, page.Items, 2)
	assert.False(t, page.HasMore)

	newest, ok := page.Items[0].(wikiwisch.Picture)
	require.True(t, ok)
	assert.Equal(t, "2023-06-28", newest.Date)
	assert.Equal(t, "video", newest.MediaType)
	assert.Equal(t, "https://img/3thumb", newest.ThumbnailURL)

	oldest, ok := page.Items[1].(wikiwisch.Picture)
	require.True(t, ok)
	assert.Equal(t, "2023-06-26", oldest.Date)
	// Images without an explicit thumbnail fall back to the image itself.
	assert.Equal(t, "https://img/1", oldest.ThumbnailURL)
}

func TestClient_FetchPage_WindowSlidesWithCursor(t *testing.T) {
	var startDate, endDate string
	client, server := createClient(func(w http.ResponseWriter, r *http.Request) {
		startDate = r.URL.Query().Get("start_date")
		endDate = r.URL.Query().Get("end_date")
		fmt.Fprint(w, `[]`)
	})
	defer server.Close()

	_, err := client.FetchPage(context.Background(), wikiwisch.Params{}, 2)
	require.NoError(t, err)

	assert.Equal(t, "2023-06-22", startDate)
	assert.Equal(t, "2023-06-24", endDate)
}

func TestClient_FetchPage_RetriesRateLimitOnce(t *testing.T) {
	calls := 0
	client, server := createClient(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error": {"code": "OVER_RATE_LIMIT", "message": "slow down"}}`)
			return
		}
		fmt.Fprint(w, `{"date": "2023-06-30", "title": "Single", "explanation": "e", "media_type": "image", "url": "https://img/s"}`)
	})
	defer server.Close()

	page, err := client.FetchPage(context.Background(), wikiwisch.Params{}, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	// A one-day range comes back as a bare object.
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Single", page.Items[0].(wikiwisch.Picture).Title)
}

func TestClient_FetchPage_RateLimitSurfacesAfterRetry(t *testing.T) {
	calls := 0
	client, server := createClient(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"code": "OVER_RATE_LIMIT", "message": "slow down"}}`)
	})
	defer server.Close()

	_, err := client.FetchPage(context.Background(), wikiwisch.Params{}, 0)
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestClient_FetchPage_OtherErrorsAreNotRetried(t *testing.T) {
	calls := 0
	client, server := createClient(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := client.FetchPage(context.Background(), wikiwisch.Params{}, 0)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
