package wikiwisch

import (
	"strconv"
)

// Item is the normalized shape shared by every source. The key is stable
// across fetches of the same upstream item and doubles as the bookmark id.
type Item interface {
	Key() string
	Source() string
	Bookmark() Bookmark
}

// Article is a Wikipedia page summary.
type Article struct {
	PageID      int64  `json:"pageid"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Extract     string `json:"extract"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	URL         string `json:"url"`
}

func (a Article) Key() string    { return strconv.FormatInt(a.PageID, 10) }
func (a Article) Source() string { return SourceWiki }

func (a Article) Bookmark() Bookmark {
	return Bookmark{
		ID:        a.Key(),
		Title:     a.Title,
		Thumbnail: a.Thumbnail,
		Link:      a.URL,
	}
}

// Paper is an arXiv entry.
type Paper struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Abstract   string   `json:"abstract"`
	Authors    []string `json:"authors"`
	Categories []string `json:"categories"`
	Published  string   `json:"published"`
	Updated    string   `json:"updated"`
	PDFLink    string   `json:"pdfLink"`
	AbsLink    string   `json:"absLink"`
}

func (p Paper) Key() string    { return p.ID }
func (p Paper) Source() string { return SourceArxiv }

func (p Paper) Bookmark() Bookmark {
	authors := p.Authors
	if len(authors) > 3 {
		authors = authors[:3]
	}
	return Bookmark{
		ID:      p.ID,
		Title:   p.Title,
		Authors: authors,
		Link:    p.AbsLink,
	}
}

// Preprint is a bioRxiv or medRxiv entry. Server tells which one.
type Preprint struct {
	DOI      string   `json:"doi"`
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Abstract string   `json:"abstract"`
	Category string   `json:"category"`
	Date     string   `json:"date"`
	Server   string   `json:"server"`
	Version  string   `json:"version"`
	AbsLink  string   `json:"absLink"`
	PDFLink  string   `json:"pdfLink"`
}

func (p Preprint) Key() string    { return p.DOI }
func (p Preprint) Source() string { return SourcePreprint }

func (p Preprint) Bookmark() Bookmark {
	authors := p.Authors
	if len(authors) > 3 {
		authors = authors[:3]
	}
	return Bookmark{
		ID:      p.DOI,
		Title:   p.Title,
		Authors: authors,
		Server:  p.Server,
		Link:    p.AbsLink,
	}
}

// Artwork is an Art Institute of Chicago collection item.
type Artwork struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	Date         string `json:"date"`
	Medium       string `json:"medium"`
	Department   string `json:"department"`
	ImageURL     string `json:"imageUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	DetailURL    string `json:"detailUrl"`
}

func (a Artwork) Key() string    { return strconv.FormatInt(a.ID, 10) }
func (a Artwork) Source() string { return SourceArt }

func (a Artwork) Bookmark() Bookmark {
	return Bookmark{
		ID:        a.Key(),
		Title:     a.Title,
		Artist:    a.Artist,
		Thumbnail: a.ThumbnailURL,
		Link:      a.DetailURL,
	}
}

// Picture is a NASA astronomy picture of the day. The date is the id:
// there is exactly one entry per day.
type Picture struct {
	Date         string `json:"date"`
	Title        string `json:"title"`
	Explanation  string `json:"explanation"`
	MediaType    string `json:"mediaType"`
	URL          string `json:"url"`
	HDURL        string `json:"hdUrl,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

func (p Picture) Key() string    { return p.Date }
func (p Picture) Source() string { return SourceNasa }

func (p Picture) Bookmark() Bookmark {
	return Bookmark{
		ID:        p.Date,
		Title:     p.Title,
		Date:      p.Date,
		Link:      p.URL,
		Thumbnail: p.ThumbnailURL,
	}
}

// Event is a Wikimedia on-this-day entry (event, birth or death).
type Event struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Year        int    `json:"year"`
	Text        string `json:"text"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Extract     string `json:"extract,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	WikiURL     string `json:"wikiUrl,omitempty"`
}

func (e Event) Key() string    { return e.ID }
func (e Event) Source() string { return SourceHistory }

func (e Event) Bookmark() Bookmark {
	return Bookmark{
		ID:    e.ID,
		Title: e.Title,
		Year:  e.Year,
		Type:  e.Type,
		Text:  e.Text,
		Link:  e.WikiURL,
	}
}
