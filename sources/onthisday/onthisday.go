package onthisday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/MaxMLang/WikiWisch"
)

// maxLifeEvents caps how many births and deaths join the events list.
const maxLifeEvents = 10

// Client fetches the Wikimedia on-this-day feed for the current date. This
// is a one-shot fetch, not an incremental feed: one call returns every
// event for today.
type Client struct {
	client  *http.Client
	baseURL string
	now     func() time.Time
}

func New() *Client {
	return &Client{
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: "https://api.wikimedia.org/feed/v1/wikipedia/en/onthisday",
		now:     time.Now,
	}
}

type page struct {
	PageID int64  `json:"pageid"`
	Title  string `json:"title"`
	Titles struct {
		Normalized string `json:"normalized"`
	} `json:"titles"`
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

type rawEvent struct {
	Year  int    `json:"year"`
	Text  string `json:"text"`
	Pages []page `json:"pages"`
}

// FetchToday returns today's events, the first ten births and the first
// ten deaths, normalized and sorted by year descending.
func (c *Client) FetchToday(ctx context.Context) ([]wikiwisch.Event, error) {
	now := c.now()
	u := fmt.Sprintf("%s/all/%02d/%02d", c.baseURL, int(now.Month()), now.Day())

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from wikimedia", resp.StatusCode)
	}

	var r struct {
		Events []rawEvent `json:"events"`
		Births []rawEvent `json:"births"`
		Deaths []rawEvent `json:"deaths"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, err
	}

	var events []wikiwisch.Event
	events = appendEvents(events, r.Events, "event", len(r.Events))
	events = appendEvents(events, r.Births, "birth", maxLifeEvents)
	events = appendEvents(events, r.Deaths, "death", maxLifeEvents)

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Year > events[j].Year
	})

	return events, nil
}

func appendEvents(dst []wikiwisch.Event, raw []rawEvent, kind string, limit int) []wikiwisch.Event {
	if len(raw) > limit {
		raw = raw[:limit]
	}

	for _, e := range raw {
		// Entries without a linked page have nothing to render or key on.
		if len(e.Pages) == 0 {
			continue
		}
		p := e.Pages[0]

		title := p.Titles.Normalized
		if title == "" {
			title = p.Title
		}

		dst = append(dst, wikiwisch.Event{
			ID:          fmt.Sprintf("%s-%d-%d", kind, e.Year, p.PageID),
			Type:        kind,
			Year:        e.Year,
			Text:        e.Text,
			Title:       title,
			Description: p.Description,
			Extract:     p.Extract,
			Thumbnail:   p.Thumbnail.Source,
			WikiURL:     p.ContentURLs.Desktop.Page,
		})
	}

	return dst
}
