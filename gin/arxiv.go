package gin

import (
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MaxMLang/WikiWisch/sources/arxiv"
)

// ArxivHandler relays search queries to the arXiv API. The browser cannot
// call arXiv directly (no CORS headers upstream), so the app proxies the
// query and hands the Atom XML back verbatim.
type ArxivHandler struct {
	Client   *http.Client
	Upstream string
}

func NewArxivHandler() *ArxivHandler {
	return &ArxivHandler{
		Client:   &http.Client{Timeout: 20 * time.Second},
		Upstream: "https://export.arxiv.org/api/query",
	}
}

func (h *ArxivHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/arxiv", h.Relay)
	router.GET("/api/arxiv/categories", JSONFormatter(h.Categories))
}

func (h *ArxivHandler) Relay(c *gin.Context) {
	searchQuery := c.Query("search_query")
	if searchQuery == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "search_query is required"})
		return
	}

	query := url.Values{}
	query.Set("search_query", searchQuery)
	query.Set("start", c.DefaultQuery("start", "0"))
	query.Set("max_results", c.DefaultQuery("max_results", "5"))
	query.Set("sortBy", "submittedDate")
	query.Set("sortOrder", "descending")

	resp, err := h.Client.Get(h.Upstream + "?" + query.Encode())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch from arxiv"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.JSON(resp.StatusCode, gin.H{"error": "arxiv api error"})
		return
	}

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch from arxiv"})
		return
	}

	c.Header("Cache-Control", "s-maxage=300, stale-while-revalidate")
	c.Data(http.StatusOK, "application/xml", body)
}

func (h *ArxivHandler) Categories(*gin.Context) (interface{}, error) {
	return arxiv.Categories, nil
}
