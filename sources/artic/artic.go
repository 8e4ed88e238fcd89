package artic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/MaxMLang/WikiWisch"
)

const (
	batchSize = 5
	fields    = "id,title,artist_display,date_display,medium_display,department_title,image_id"

	defaultIIIFURL = "https://www.artic.edu/iiif/2"
)

// Client pages through the Art Institute of Chicago collection. The cursor
// is the upstream 1-based page number, and exhaustion follows the
// upstream's own pagination block.
type Client struct {
	client  *http.Client
	baseURL string
}

func New() *Client {
	return &Client{
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: "https://api.artic.edu/api/v1/artworks",
	}
}

func (c *Client) Name() string { return wikiwisch.SourceArt }

func (c *Client) InitialCursor() wikiwisch.Cursor { return 1 }

func (c *Client) FetchPage(ctx context.Context, _ wikiwisch.Params, cursor wikiwisch.Cursor) (wikiwisch.Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(int(cursor)))
	query.Set("limit", strconv.Itoa(batchSize))
	query.Set("fields", fields)

	req, err := http.NewRequest("GET", c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return wikiwisch.Page{}, err
	}
	req = req.WithContext(ctx)

	resp, err := c.client.Do(req)
	if err != nil {
		return wikiwisch.Page{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return wikiwisch.Page{}, fmt.Errorf("unexpected status %d from artic", resp.StatusCode)
	}

	var r struct {
		Data []struct {
			ID              int64  `json:"id"`
			Title           string `json:"title"`
			ArtistDisplay   string `json:"artist_display"`
			DateDisplay     string `json:"date_display"`
			MediumDisplay   string `json:"medium_display"`
			DepartmentTitle string `json:"department_title"`
			ImageID         string `json:"image_id"`
		} `json:"data"`
		Config struct {
			IIIFURL string `json:"iiif_url"`
		} `json:"config"`
		Pagination struct {
			CurrentPage int `json:"current_page"`
			TotalPages  int `json:"total_pages"`
		} `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return wikiwisch.Page{}, err
	}

	iiifURL := r.Config.IIIFURL
	if iiifURL == "" {
		iiifURL = defaultIIIFURL
	}

	items := make([]wikiwisch.Item, 0, len(r.Data))
	for _, entry := range r.Data {
		// Imageless records make for empty cards; skip them.
		if entry.ImageID == "" || entry.ID == 0 {
			continue
		}

		title := entry.Title
		if title == "" {
			title = "Untitled"
		}
		artist := entry.ArtistDisplay
		if artist == "" {
			artist = "Unknown artist"
		}

		items = append(items, wikiwisch.Artwork{
			ID:           entry.ID,
			Title:        title,
			Artist:       artist,
			Date:         entry.DateDisplay,
			Medium:       entry.MediumDisplay,
			Department:   entry.DepartmentTitle,
			ImageURL:     fmt.Sprintf("%s/%s/full/843,/0/default.jpg", iiifURL, entry.ImageID),
			ThumbnailURL: fmt.Sprintf("%s/%s/full/400,/0/default.jpg", iiifURL, entry.ImageID),
			DetailURL:    fmt.Sprintf("https://www.artic.edu/artworks/%d", entry.ID),
		})
	}

	return wikiwisch.Page{
		Items:      items,
		NextCursor: cursor + 1,
		HasMore:    r.Pagination.CurrentPage < r.Pagination.TotalPages,
	}, nil
}
