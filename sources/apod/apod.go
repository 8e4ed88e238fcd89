package apod

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/MaxMLang/WikiWisch"
	"github.com/MaxMLang/WikiWisch/errors"
)

// batchSize is the width of the date window fetched per page. Kept small:
// the demo API key is heavily rate limited.
const batchSize = 3

// Client pages backwards through NASA's astronomy picture of the day, one
// descending date window per cursor step. A rate-limited response is
// retried exactly once after a fixed delay before surfacing.
type Client struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	retryDelay time.Duration
	now        func() time.Time
}

func New(apiKey string) *Client {
	if apiKey == "" {
		apiKey = "DEMO_KEY"
	}
	return &Client{
		client:     &http.Client{Timeout: 20 * time.Second},
		baseURL:    "https://api.nasa.gov/planetary/apod",
		apiKey:     apiKey,
		retryDelay: 5 * time.Second,
		now:        time.Now,
	}
}

func (c *Client) Name() string { return wikiwisch.SourceNasa }

func (c *Client) InitialCursor() wikiwisch.Cursor { return 0 }

func (c *Client) FetchPage(ctx context.Context, _ wikiwisch.Params, cursor wikiwisch.Cursor) (wikiwisch.Page, error) {
	startDay := int(cursor) * batchSize
	endDate := c.dateString(startDay)
	startDate := c.dateString(startDay + batchSize - 1)

	items, err := c.fetchRange(ctx, startDate, endDate)
	if err != nil && errors.IsRateLimited(err) {
		select {
		case <-time.After(c.retryDelay):
		case <-ctx.Done():
			return wikiwisch.Page{}, ctx.Err()
		}
		items, err = c.fetchRange(ctx, startDate, endDate)
	}
	if err != nil {
		return wikiwisch.Page{}, err
	}

	return wikiwisch.Page{
		Items:      items,
		NextCursor: cursor + 1,
		HasMore:    len(items) == batchSize,
	}, nil
}

type entry struct {
	Date         string `json:"date"`
	Title        string `json:"title"`
	Explanation  string `json:"explanation"`
	MediaType    string `json:"media_type"`
	URL          string `json:"url"`
	HDURL        string `json:"hdurl"`
	ThumbnailURL string `json:"thumbnail_url"`
	Copyright    string `json:"copyright"`
}

func (c *Client) fetchRange(ctx context.Context, startDate, endDate string) ([]wikiwisch.Item, error) {
	query := url.Values{}
	query.Set("api_key", c.apiKey)
	query.Set("start_date", startDate)
	query.Set("end_date", endDate)
	query.Set("thumbs", "true")

	req, err := http.NewRequest("GET", c.baseURL+"?"+query.Encode(), nil)
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
		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if body.Error.Code == "OVER_RATE_LIMIT" {
			return nil, errors.New("nasa rate limit reached", errors.RateLimited())
		}
		return nil, fmt.Errorf("unexpected status %d from nasa", resp.StatusCode)
	}

	// A one-day range comes back as a bare object instead of an array.
	var entries []entry
	data := json.RawMessage{}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		var single entry
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, err
		}
		entries = []entry{single}
	}

	// Keep public-domain entries only, newest first.
	items := make([]wikiwisch.Item, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Copyright != "" || e.Date == "" {
			continue
		}

		thumbnail := e.ThumbnailURL
		if thumbnail == "" {
			thumbnail = e.URL
		}

		items = append(items, wikiwisch.Picture{
			Date:         e.Date,
			Title:        e.Title,
			Explanation:  e.Explanation,
			MediaType:    e.MediaType,
			URL:          e.URL,
			HDURL:        e.HDURL,
			ThumbnailURL: thumbnail,
		})
	}

	return items, nil
}

func (c *Client) dateString(daysAgo int) string {
	return c.now().AddDate(0, 0, -daysAgo).Format("2006-01-02")
}
