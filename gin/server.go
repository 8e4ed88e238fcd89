package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MaxMLang/WikiWisch"
	"github.com/MaxMLang/WikiWisch/bleve"
	"github.com/MaxMLang/WikiWisch/log"
	"github.com/MaxMLang/WikiWisch/sources/biorxiv"
	"github.com/MaxMLang/WikiWisch/sources/onthisday"
	"github.com/MaxMLang/WikiWisch/sources/wikipedia"
	"github.com/MaxMLang/WikiWisch/state"
)

// New assembles the API router: the per-source feeds, the bookmark and
// preference endpoints, the arXiv relay and the on-this-day feed.
func New(
	store *state.Store,
	index *bleve.BookmarkIndex,
	history *onthisday.Client,
	logger log.Logger,
	sources ...wikiwisch.Source,
) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CORS())

	router.GET("/wikiwisch/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": "ok"})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "no route for " + c.Request.URL.Path})
	})

	router.GET("/api/topics", JSONFormatter(func(*gin.Context) (interface{}, error) {
		return wikipedia.Topics(), nil
	}))
	router.GET("/api/preprints/categories", JSONFormatter(func(*gin.Context) (interface{}, error) {
		return biorxiv.Categories, nil
	}))

	NewFeedHandler(store, logger, sources...).RegisterRoutes(router)
	NewArxivHandler().RegisterRoutes(router)
	(&BookmarkHandler{Store: store, Index: index, Logger: logger}).RegisterRoutes(router)
	(&PreferencesHandler{Store: store}).RegisterRoutes(router)
	(&OnThisDayHandler{Client: history}).RegisterRoutes(router)

	return router
}
