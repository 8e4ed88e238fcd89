package gin

import (
	"reflect"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/MaxMLang/WikiWisch"
	"github.com/MaxMLang/WikiWisch/errors"
	"github.com/MaxMLang/WikiWisch/feed"
	"github.com/MaxMLang/WikiWisch/log"
)

// PreferenceReader is the slice of the state store the feed handler needs.
type PreferenceReader interface {
	Preferences() wikiwisch.Preferences
}

// FeedHandler serves one paginated feed per source. Feeds are created
// lazily and reset whenever the preferences that parameterize them change,
// so a stale page never leaks into a reconfigured feed.
type FeedHandler struct {
	Prefs  PreferenceReader
	Logger log.Logger

	mu      sync.Mutex
	sources map[string]wikiwisch.Source
	feeds   map[string]*feed.Feed
}

func NewFeedHandler(prefs PreferenceReader, logger log.Logger, sources ...wikiwisch.Source) *FeedHandler {
	byName := make(map[string]wikiwisch.Source, len(sources))
	for _, source := range sources {
		byName[source.Name()] = source
	}

	return &FeedHandler{
		Prefs:   prefs,
		Logger:  logger,
		sources: byName,
		feeds:   make(map[string]*feed.Feed),
	}
}

func (h *FeedHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/feeds/:source", JSONFormatter(h.Get))
	router.POST("/api/feeds/:source/next", JSONFormatter(h.Next))
	router.POST("/api/feeds/:source/refresh", JSONFormatter(h.Refresh))
}

func (h *FeedHandler) Get(c *gin.Context) (interface{}, error) {
	f, err := h.feedFor(c.Param("source"))
	if err != nil {
		return nil, err
	}

	return f.Snapshot(), nil
}

func (h *FeedHandler) Next(c *gin.Context) (interface{}, error) {
	f, err := h.feedFor(c.Param("source"))
	if err != nil {
		return nil, err
	}

	f.FetchNext(c.Request.Context())
	return f.Snapshot(), nil
}

func (h *FeedHandler) Refresh(c *gin.Context) (interface{}, error) {
	f, err := h.feedFor(c.Param("source"))
	if err != nil {
		return nil, err
	}

	f.Refetch(c.Request.Context())
	return f.Snapshot(), nil
}

// feedFor returns the feed for the named source, resetting it first when
// the preferences it depends on changed since the last request.
func (h *FeedHandler) feedFor(name string) (*feed.Feed, error) {
	source, ok := h.sources[name]
	if !ok {
		return nil, errors.New("unknown feed "+name, errors.NotFound())
	}

	params := paramsFor(name, h.Prefs.Preferences())

	h.mu.Lock()
	defer h.mu.Unlock()

	f, ok := h.feeds[name]
	if !ok {
		f = feed.New(source, params, h.Logger)
		h.feeds[name] = f
		return f, nil
	}

	if !reflect.DeepEqual(f.Params(), params) {
		f.Reset(params)
	}
	return f, nil
}

func paramsFor(name string, prefs wikiwisch.Preferences) wikiwisch.Params {
	switch name {
	case wikiwisch.SourceWiki:
		return wikiwisch.Params{Topics: prefs.Topics}
	case wikiwisch.SourceArxiv:
		return wikiwisch.Params{Category: prefs.ArxivCategory}
	case wikiwisch.SourcePreprint:
		return wikiwisch.Params{Category: prefs.PreprintCategory}
	}
	return wikiwisch.Params{}
}
