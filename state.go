package wikiwisch

// Bookmark is the stored projection of an item: enough to render a row in
// the saved view and link back, not the full item. Only the fields relevant
// to the source are set.
type Bookmark struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Thumbnail string   `json:"thumbnail,omitempty"`
	Link      string   `json:"link,omitempty"`
	Authors   []string `json:"authors,omitempty"`
	Artist    string   `json:"artist,omitempty"`
	Server    string   `json:"server,omitempty"`
	Year      int      `json:"year,omitempty"`
	Type      string   `json:"type,omitempty"`
	Text      string   `json:"text,omitempty"`
	Date      string   `json:"date,omitempty"`
	SavedAt   int64    `json:"savedAt"`
}

// Preferences are the user settings persisted alongside the bookmarks.
type Preferences struct {
	Theme            string   `json:"theme"`
	Topics           []string `json:"topics"`
	ArxivCategory    string   `json:"arxivCategory"`
	PreprintCategory string   `json:"preprintCategory"`
	TabOrder         []string `json:"tabOrder"`
	EnabledTabs      []string `json:"enabledTabs"`
}

// State is the whole persisted blob: preferences plus one bookmark
// collection per source, written back in full on every mutation.
type State struct {
	Version     int                   `json:"version"`
	Preferences Preferences           `json:"preferences"`
	Bookmarks   map[string][]Bookmark `json:"bookmarks"`
}

// StateRepository persists the raw blob. Load returns nil when nothing has
// been stored yet.
type StateRepository interface {
	Load() ([]byte, error)
	Save([]byte) error
}
