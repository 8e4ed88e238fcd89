package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MaxMLang/WikiWisch"
)

const batchSize = 5

// defaultQuery is used when no category preference is set.
const defaultQuery = "cat:cs.AI OR cat:cs.LG OR cat:physics.pop-ph"

var summaryPipe = wikiwisch.CleaningPipe(
	strings.TrimSpace,
	wikiwisch.CollapseWhitespace,
	strings.TrimSpace,
)

type responseEntry struct {
	Title   string `xml:"title"`
	ID      string `xml:"id"`
	Summary string `xml:"summary"`
	Authors []struct {
		Name string `xml:"name"`
	} `xml:"author"`
	Links []struct {
		HRef  string `xml:"href,attr"`
		Type  string `xml:"type,attr"`
		Title string `xml:"title,attr"`
	} `xml:"link"`
	Categories []struct {
		Term string `xml:"term,attr"`
	} `xml:"category"`
	Published time.Time `xml:"published"`
	Updated   time.Time `xml:"updated"`
}

type response struct {
	Title   string          `xml:"title"`
	ID      string          `xml:"id"`
	Entries []responseEntry `xml:"entry"`
}

// Client searches the arXiv Atom API, newest submissions first. The cursor
// is a page counter mapped to an offset of cursor * 5.
type Client struct {
	client *http.Client
	apiURL string
}

func New() *Client {
	return &Client{
		client: &http.Client{Timeout: 20 * time.Second},
		apiURL: "https://export.arxiv.org/api/query",
	}
}

func (c *Client) Name() string { return wikiwisch.SourceArxiv }

func (c *Client) InitialCursor() wikiwisch.Cursor { return 0 }

func (c *Client) FetchPage(ctx context.Context, params wikiwisch.Params, cursor wikiwisch.Cursor) (wikiwisch.Page, error) {
	u := c.craftURL(params.Category, int(cursor)*batchSize)

	req, err := http.NewRequest("GET", u.String(), nil)
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
		return wikiwisch.Page{}, fmt.Errorf("unexpected status %d from arxiv", resp.StatusCode)
	}

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return wikiwisch.Page{}, err
	}

	var r response
	if err := xml.Unmarshal(data, &r); err != nil {
		return wikiwisch.Page{}, err
	}

	return wikiwisch.Page{
		Items:      parsePapers(r),
		NextCursor: cursor + 1,
		HasMore:    len(r.Entries) == batchSize,
	}, nil
}

func (c *Client) craftURL(category string, offset int) *url.URL {
	u, _ := url.Parse(c.apiURL)
	query := u.Query()

	searchQuery := defaultQuery
	if category != "" {
		searchQuery = "cat:" + category
	}

	query.Add("search_query", searchQuery)
	query.Add("start", strconv.Itoa(offset))
	query.Add("max_results", strconv.Itoa(batchSize))
	query.Add("sortBy", "submittedDate")
	query.Add("sortOrder", "descending")

	u.RawQuery = query.Encode()
	return u
}

// parsePapers normalizes the Atom entries. Entries without an id or title
// are dropped; everything else defaults to empty values so one sparse
// entry cannot fail the batch.
func parsePapers(r response) []wikiwisch.Item {
	items := make([]wikiwisch.Item, 0, len(r.Entries))
	for _, entry := range r.Entries {
		id := extractReference(entry.ID)
		title := summaryPipe(entry.Title)
		if id == "" || title == "" {
			continue
		}

		authors := make([]string, 0, len(entry.Authors))
		for _, author := range entry.Authors {
			if author.Name != "" {
				authors = append(authors, author.Name)
			}
		}

		categories := make([]string, 0, len(entry.Categories))
		for _, cat := range entry.Categories {
			if cat.Term != "" {
				categories = append(categories, cat.Term)
			}
		}

		var pdfLink, absLink string
		for _, link := range entry.Links {
			if link.Title == "pdf" {
				pdfLink = link.HRef
			}
			if link.Type == "text/html" {
				absLink = link.HRef
			}
		}
		if pdfLink == "" {
			pdfLink = "https://arxiv.org/pdf/" + id
		}
		if absLink == "" {
			absLink = "https://arxiv.org/abs/" + id
		}

		items = append(items, wikiwisch.Paper{
			ID:         id,
			Title:      title,
			Abstract:   summaryPipe(entry.Summary),
			Authors:    authors,
			Categories: categories,
			Published:  formatTime(entry.Published),
			Updated:    formatTime(entry.Updated),
			PDFLink:    pdfLink,
			AbsLink:    absLink,
		})
	}

	return items
}

// extractReference turns an entry id like http://arxiv.org/abs/1234.5678v5
// into the stable reference 1234.5678: the version suffix changes between
// fetches of the same paper.
func extractReference(id string) string {
	if id == "" {
		return ""
	}

	urlParts := strings.Split(id, "/")
	return strings.Split(urlParts[len(urlParts)-1], "v")[0]
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
