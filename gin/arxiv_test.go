package gin

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRelayRouter(upstream http.HandlerFunc) (*gin.Engine, *httptest.Server) {
	server := httptest.NewServer(upstream)

	handler := &ArxivHandler{Client: server.Client(), Upstream: server.URL}

	gin.SetMode(gin.ReleaseMode) // avoid unnecessary log
	router := gin.New()
	handler.RegisterRoutes(router)

	return router, server
}

func TestArxivRelay(t *testing.T) {
	var gotQuery url.Values
	router, server := createRelayRouter(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, `<feed><entry><id>http://arxiv.org/abs/1234.5678v1</id></entry></feed>`)
	})
	defer server.Close()

	req := httptest.NewRequest("GET", "/api/arxiv?search_query=cat:cs.AI&start=10&max_results=3", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	// Client-chosen paging forwarded, sort order pinned server side.
	assert.Equal(t, "cat:cs.AI", gotQuery.Get("search_query"))
	assert.Equal(t, "10", gotQuery.Get("start"))
	assert.Equal(t, "3", gotQuery.Get("max_results"))
	assert.Equal(t, "submittedDate", gotQuery.Get("sortBy"))
	assert.Equal(t, "descending", gotQuery.Get("sortOrder"))

	// The XML comes back verbatim, cacheable.
	assert.Equal(t, `<feed><entry><id>http://arxiv.org/abs/1234.5678v1</id></entry></feed>`, resp.Body.String())
	assert.Equal(t, "application/xml", resp.Header().Get("Content-Type"))
	assert.Equal(t, "s-maxage=300, stale-while-revalidate", resp.Header().Get("Cache-Control"))
}

func TestArxivRelay_Defaults(t *testing.T) {
	var gotQuery url.Values
	router, server := createRelayRouter(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `<feed></feed>`)
	})
	defer server.Close()

	req := httptest.NewRequest("GET", "/api/arxiv?search_query=all:electron", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "0", gotQuery.Get("start"))
	assert.Equal(t, "5", gotQuery.Get("max_results"))
}

func TestArxivRelay_MissingQuery(t *testing.T) {
	router, server := createRelayRouter(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream must not be hit")
	})
	defer server.Close()

	req := httptest.NewRequest("GET", "/api/arxiv", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.JSONEq(t, `{"error": "search_query is required"}`, resp.Body.String())
}

func TestArxivRelay_UpstreamError(t *testing.T) {
	router, server := createRelayRouter(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	defer server.Close()

	req := httptest.NewRequest("GET", "/api/arxiv?search_query=cat:cs.AI", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.JSONEq(t, `{"error": "arxiv api error"}`, resp.Body.String())
}

func TestArxivRelay_UpstreamDown(t *testing.T) {
	router, server := createRelayRouter(func(w http.ResponseWriter, r *http.Request) {})
	server.Close() // connection refused

	req := httptest.NewRequest("GET", "/api/arxiv?search_query=cat:cs.AI", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadGateway, resp.Code)
}

func TestArxivCategories(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	NewArxivHandler().RegisterRoutes(router)

	req := httptest.NewRequest("GET", "/api/arxiv/categories", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "cs.AI")
}
