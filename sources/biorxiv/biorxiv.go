package biorxiv

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/MaxMLang/WikiWisch"
)

const (
	// Each upstream page holds up to 100 rows; the cursor advances by a
	// fixed step of 50 per logical page, per server.
	upstreamStep = 50
	maxBatch     = 20
	windowDays   = 30
)

// Client aggregates the bioRxiv and medRxiv details APIs into one feed.
// The cursor is a page counter; exhaustion is reported as soon as a page
// filters down to zero kept items.
type Client struct {
	client  *http.Client
	baseURL string
	now     func() time.Time
}

func New() *Client {
	return &Client{
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: "https://api.biorxiv.org/details",
		now:     time.Now,
	}
}

func (c *Client) Name() string { return wikiwisch.SourcePreprint }

func (c *Client) InitialCursor() wikiwisch.Cursor { return 0 }

func (c *Client) FetchPage(ctx context.Context, params wikiwisch.Params, cursor wikiwisch.Cursor) (wikiwisch.Page, error) {
	offset := int(cursor) * upstreamStep
	end := c.now()
	start := end.AddDate(0, 0, -windowDays)

	category := params.Category
	server := categoryServer(category)

	var preprints []wikiwisch.Preprint
	if server == "" {
		// Unscoped category: hit both servers.
		type result struct {
			preprints []wikiwisch.Preprint
			err       error
		}
		results := make(chan result, 2)
		for _, server := range []string{"medrxiv", "biorxiv"} {
			go func(server string) {
				p, err := c.fetchServer(ctx, server, start, end, offset)
				results <- result{p, err}
			}(server)
		}
		for i := 0; i < 2; i++ {
			r := <-results
			if r.err != nil {
				return wikiwisch.Page{}, r.err
			}
			preprints = append(preprints, r.preprints...)
		}
	} else {
		var err error
		preprints, err = c.fetchServer(ctx, server, start, end, offset)
		if err != nil {
			return wikiwisch.Page{}, err
		}
	}

	if category != "" && category != "all" {
		needle := strings.Replace(strings.ToLower(category), "-", " ", -1)
		kept := preprints[:0]
		for _, p := range preprints {
			if strings.Contains(strings.ToLower(p.Category), needle) {
				kept = append(kept, p)
			}
		}
		preprints = kept
	}

	// Newest first. Dates are YYYY-MM-DD so the lexical order is the
	// chronological one.
	sort.SliceStable(preprints, func(i, j int) bool {
		return preprints[i].Date > preprints[j].Date
	})
	if len(preprints) > maxBatch {
		preprints = preprints[:maxBatch]
	}

	items := make([]wikiwisch.Item, len(preprints))
	for i, p := range preprints {
		items[i] = p
	}

	return wikiwisch.Page{
		Items:      items,
		NextCursor: cursor + 1,
		HasMore:    len(items) > 0,
	}, nil
}

type collectionEntry struct {
	DOI      string      `json:"doi"`
	Title    string      `json:"title"`
	Authors  string      `json:"authors"`
	Abstract string      `json:"abstract"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
	Version  json.Number `json:"version"`
}

// fetchServer pulls one upstream window. A non-2xx status yields an empty
// slice rather than an error: one unhappy server must not take down the
// combined feed.
func (c *Client) fetchServer(ctx context.Context, server string, start, end time.Time, offset int) ([]wikiwisch.Preprint, error) {
	u := fmt.Sprintf("%s/%s/%s/%s/%d",
		c.baseURL, server, start.Format("2006-01-02"), end.Format("2006-01-02"), offset)

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var r struct {
		Collection []collectionEntry `json:"collection"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, err
	}

	preprints := make([]wikiwisch.Preprint, 0, len(r.Collection))
	for _, entry := range r.Collection {
		if entry.DOI == "" {
			continue
		}

		title := entry.Title
		if title == "" {
			title = "Untitled"
		}

		var authors []string
		if entry.Authors != "" {
			authors = strings.Split(entry.Authors, "; ")
			if len(authors) > 5 {
				authors = authors[:5]
			}
		}

		version := entry.Version.String()
		content := fmt.Sprintf("https://www.%s.org/content/%sv%s", server, entry.DOI, version)

		preprints = append(preprints, wikiwisch.Preprint{
			DOI:      entry.DOI,
			Title:    title,
			Authors:  authors,
			Abstract: entry.Abstract,
			Category: entry.Category,
			Date:     entry.Date,
			Server:   server,
			Version:  version,
			AbsLink:  content,
			PDFLink:  content + ".full.pdf",
		})
	}

	return preprints, nil
}
