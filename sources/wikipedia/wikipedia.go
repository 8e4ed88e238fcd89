package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MaxMLang/WikiWisch"
)

const (
	batchSize      = 5
	seedsPerPage   = 3
	titlesPerSeed  = 20
	minExtractLen  = 100
	maxPadAttempts = 10
)

// Client fetches Wikipedia article summaries through topic seed expansion.
// It implements wikiwisch.Source and is never exhausted: every page
// reports more to come.
type Client struct {
	client    *http.Client
	restBase  string
	actionAPI string

	// rand is shared by concurrent FetchPage calls: an orphaned fetch can
	// still be running when the next one starts after a feed reset.
	randMu sync.Mutex
	rand   *rand.Rand
}

func New() *Client {
	return &Client{
		client:    &http.Client{Timeout: 20 * time.Second},
		restBase:  "https://en.wikipedia.org/api/rest_v1",
		actionAPI: "https://en.wikipedia.org/w/api.php",
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *Client) Name() string { return wikiwisch.SourceWiki }

func (c *Client) InitialCursor() wikiwisch.Cursor { return 0 }

func (c *Client) FetchPage(ctx context.Context, params wikiwisch.Params, cursor wikiwisch.Cursor) (wikiwisch.Page, error) {
	var items []wikiwisch.Item
	var err error

	if len(params.Topics) == 0 {
		items, err = c.randomBatch(ctx)
	} else {
		items, err = c.topicBatch(ctx, params.Topics)
	}
	if err != nil {
		return wikiwisch.Page{}, err
	}

	return wikiwisch.Page{
		Items:      items,
		NextCursor: cursor + 1,
		HasMore:    true,
	}, nil
}

// topicBatch expands a few random seeds from the selected topics into
// candidate titles, fetches their summaries in parallel and keeps the
// first batchSize standard articles with a substantial extract. When the
// expansion comes up short the batch is padded with random articles, and
// returned short rather than failing if padding keeps missing.
func (c *Client) topicBatch(ctx context.Context, topics []string) ([]wikiwisch.Item, error) {
	var seeds []string
	for _, topic := range topics {
		seeds = append(seeds, topicSeeds[topic]...)
	}
	c.shuffle(seeds)
	if len(seeds) > seedsPerPage {
		seeds = seeds[:seedsPerPage]
	}

	var titles []string
	for _, seed := range seeds {
		seedTitles, err := c.searchTitles(ctx, seed)
		if err != nil {
			// A failing seed only shrinks the candidate pool.
			continue
		}
		titles = append(titles, seedTitles...)
	}

	c.shuffle(titles)
	titles = dedupe(titles)
	if len(titles) > batchSize*2 {
		titles = titles[:batchSize*2]
	}

	summaries := c.fetchSummaries(ctx, titles)

	seen := make(map[string]bool)
	items := make([]wikiwisch.Item, 0, batchSize)
	for _, article := range summaries {
		if len(items) >= batchSize {
			break
		}
		if article == nil || seen[article.Title] {
			continue
		}
		if len(article.Extract) <= minExtractLen {
			continue
		}
		seen[article.Title] = true
		items = append(items, *article)
	}

	return c.pad(ctx, items, seen), nil
}

// randomBatch samples batchSize random summaries in parallel. Failed or
// non-standard entries are dropped, so the batch may come back short.
func (c *Client) randomBatch(ctx context.Context) ([]wikiwisch.Item, error) {
	var wg sync.WaitGroup
	results := make([]*wikiwisch.Article, batchSize)
	for i := 0; i < batchSize; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			article, err := c.fetchRandom(ctx)
			if err == nil {
				results[i] = article
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	var items []wikiwisch.Item
	for _, article := range results {
		if article == nil || seen[article.Title] {
			continue
		}
		seen[article.Title] = true
		items = append(items, *article)
	}

	if items == nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return items, nil
}

// pad tops the batch up with random articles, capped so a slow or failing
// upstream cannot keep an abandoned feed fetching forever.
func (c *Client) pad(ctx context.Context, items []wikiwisch.Item, seen map[string]bool) []wikiwisch.Item {
	for attempts := 0; len(items) < batchSize && attempts < maxPadAttempts; attempts++ {
		if ctx.Err() != nil {
			break
		}
		article, err := c.fetchRandom(ctx)
		if err != nil {
			break
		}
		if article == nil || seen[article.Title] {
			continue
		}
		seen[article.Title] = true
		items = append(items, *article)
	}
	return items
}

func (c *Client) fetchSummaries(ctx context.Context, titles []string) []*wikiwisch.Article {
	var wg sync.WaitGroup
	results := make([]*wikiwisch.Article, len(titles))
	for i, title := range titles {
		wg.Add(1)
		go func(i int, title string) {
			defer wg.Done()
			article, err := c.fetchSummary(ctx, title)
			if err == nil {
				results[i] = article
			}
		}(i, title)
	}
	wg.Wait()
	return results
}

// summary is the REST v1 page summary payload, trimmed to what gets mapped.
type summary struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	PageID      int64  `json:"pageid"`
	Description string `json:"description"`
	Extract     string `json:"extract"`
	Thumbnail   struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// normalize keeps only standard articles; disambiguation and list pages
// come back nil, as do entries missing the identifier or title.
func normalize(s summary) *wikiwisch.Article {
	if s.Type != "standard" || s.PageID == 0 || s.Title == "" {
		return nil
	}
	return &wikiwisch.Article{
		PageID:      s.PageID,
		Title:       s.Title,
		Description: s.Description,
		Extract:     s.Extract,
		Thumbnail:   s.Thumbnail.Source,
		URL:         s.ContentURLs.Desktop.Page,
	}
}

func (c *Client) fetchRandom(ctx context.Context) (*wikiwisch.Article, error) {
	var s summary
	if err := c.getJSON(ctx, c.restBase+"/page/random/summary", &s); err != nil {
		return nil, err
	}
	return normalize(s), nil
}

func (c *Client) fetchSummary(ctx context.Context, title string) (*wikiwisch.Article, error) {
	encoded := url.PathEscape(strings.Replace(title, " ", "_", -1))
	var s summary
	if err := c.getJSON(ctx, c.restBase+"/page/summary/"+encoded, &s); err != nil {
		return nil, err
	}
	return normalize(s), nil
}

func (c *Client) searchTitles(ctx context.Context, seed string) ([]string, error) {
	query := url.Values{}
	query.Set("action", "query")
	query.Set("format", "json")
	query.Set("list", "search")
	query.Set("srsearch", seed)
	query.Set("srlimit", fmt.Sprintf("%d", titlesPerSeed))
	query.Set("srwhat", "text")

	var r struct {
		Query struct {
			Search []struct {
				Title string `json:"title"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := c.getJSON(ctx, c.actionAPI+"?"+query.Encode(), &r); err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(r.Query.Search))
	for _, hit := range r.Query.Search {
		titles = append(titles, hit.Title)
	}
	return titles, nil
}

func (c *Client) getJSON(ctx context.Context, u string, dst interface{}) error {
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return err
	}
	req = req.WithContext(ctx)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, u)
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}

func (c *Client) shuffle(a []string) {
	c.randMu.Lock()
	defer c.randMu.Unlock()
	c.rand.Shuffle(len(a), func(i, j int) {
		a[i], a[j] = a[j], a[i]
	})
}

func dedupe(a []string) []string {
	seen := make(map[string]bool, len(a))
	out := a[:0]
	for _, s := range a {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
