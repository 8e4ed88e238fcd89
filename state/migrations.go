package state

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/MaxMLang/WikiWisch"
)

// The persisted blob is versioned. Shapes so far:
//
//	v0: flat legacy object. Settings and one "<source>Bookmarks" array per
//	    source at top level, wiki bookmarks under the bare "bookmarks" key,
//	    separate medrxiv/biorxiv collections, tab ids medrxiv/biorxiv.
//	v1: medrxiv + biorxiv merged into a single preprint collection,
//	    category and tab ids consolidated.
//	v2: settings key "categories" renamed "topics".
//	v3: settings grouped under "preferences", collections grouped under a
//	    "bookmarks" object keyed by source id, bookmark fields normalized.
const currentVersion = 3

// migrations[n] brings a version-n blob to version n+1. Each step is a
// no-op on input that already has the newer shape.
var migrations = []func(map[string]json.RawMessage) error{
	migrateMergePreprints,
	migrateRenameTopics,
	migrateGroupState,
}

// Defaults is the state a fresh install starts from.
func Defaults() wikiwisch.State {
	return wikiwisch.State{
		Version: currentVersion,
		Preferences: wikiwisch.Preferences{
			Theme:            "system",
			Topics:           []string{"science", "history", "technology", "arts", "geography"},
			ArxivCategory:    "cs.AI",
			PreprintCategory: "all",
			TabOrder:         defaultTabs(),
			EnabledTabs:      defaultTabs(),
		},
		Bookmarks: map[string][]wikiwisch.Bookmark{},
	}
}

func defaultTabs() []string {
	return []string{
		wikiwisch.SourceWiki,
		wikiwisch.SourceArxiv,
		wikiwisch.SourcePreprint,
		wikiwisch.SourceArt,
		wikiwisch.SourceNasa,
		wikiwisch.SourceHistory,
	}
}

// Migrate brings a stored blob up to the current version: the migration
// steps run in sequence from the stored version, missing settings are
// backfilled from defaults, and the result is stamped so future loads skip
// the work. Migrating an already-migrated blob returns it unchanged.
func Migrate(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return json.Marshal(Defaults())
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding state blob: %v", err)
	}

	version := 0
	if v, ok := raw["version"]; ok {
		if err := json.Unmarshal(v, &version); err != nil {
			return nil, fmt.Errorf("decoding state version: %v", err)
		}
	}

	for ; version < currentVersion; version++ {
		if err := migrations[version](raw); err != nil {
			return nil, fmt.Errorf("migrating state v%d: %v", version, err)
		}
	}

	if err := fillDefaults(raw); err != nil {
		return nil, err
	}
	raw["version"] = json.RawMessage(strconv.Itoa(currentVersion))

	return json.Marshal(raw)
}

// migrateMergePreprints consolidates the two legacy preprint collections
// into one, picks a single preprint category and rewrites the legacy
// medrxiv/biorxiv tab ids.
func migrateMergePreprints(raw map[string]json.RawMessage) error {
	med, err := popBookmarks(raw, "medrxivBookmarks")
	if err != nil {
		return err
	}
	bio, err := popBookmarks(raw, "biorxivBookmarks")
	if err != nil {
		return err
	}

	if med != nil || bio != nil {
		existing, err := popBookmarks(raw, "preprintBookmarks")
		if err != nil {
			return err
		}

		seen := make(map[string]bool)
		var merged []map[string]interface{}
		for _, b := range append(append(existing, med...), bio...) {
			id := stringValue(b["id"])
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			merged = append(merged, b)
		}

		data, err := json.Marshal(merged)
		if err != nil {
			return err
		}
		raw["preprintBookmarks"] = data
	}

	if _, ok := raw["preprintCategory"]; !ok {
		if v, ok := raw["medrxivCategory"]; ok {
			raw["preprintCategory"] = v
		} else if v, ok := raw["biorxivCategory"]; ok {
			raw["preprintCategory"] = v
		}
	}
	delete(raw, "medrxivCategory")
	delete(raw, "biorxivCategory")

	for _, key := range []string{"tabOrder", "enabledTabs"} {
		v, ok := raw[key]
		if !ok {
			continue
		}
		var tabs []string
		if err := json.Unmarshal(v, &tabs); err != nil {
			return err
		}

		seen := make(map[string]bool)
		rewritten := make([]string, 0, len(tabs))
		for _, tab := range tabs {
			if tab == "medrxiv" || tab == "biorxiv" {
				tab = wikiwisch.SourcePreprint
			}
			if seen[tab] {
				continue
			}
			seen[tab] = true
			rewritten = append(rewritten, tab)
		}

		data, err := json.Marshal(rewritten)
		if err != nil {
			return err
		}
		raw[key] = data
	}

	return nil
}

// migrateRenameTopics renames the old "categories" settings key, which
// collided with the paper category settings, to "topics".
func migrateRenameTopics(raw map[string]json.RawMessage) error {
	if v, ok := raw["categories"]; ok {
		if _, taken := raw["topics"]; !taken {
			raw["topics"] = v
		}
		delete(raw, "categories")
	}
	return nil
}

// legacy top-level collection keys, in canonical order, and the collection
// each one maps to.
var legacyCollections = []struct {
	key        string
	collection string
}{
	{"bookmarks", wikiwisch.SourceWiki},
	{"arxivBookmarks", wikiwisch.SourceArxiv},
	{"preprintBookmarks", wikiwisch.SourcePreprint},
	{"artBookmarks", wikiwisch.SourceArt},
	{"nasaBookmarks", wikiwisch.SourceNasa},
	{"historyBookmarks", wikiwisch.SourceHistory},
}

var preferenceKeys = []string{
	"theme", "topics", "arxivCategory", "preprintCategory", "tabOrder", "enabledTabs",
}

// migrateGroupState moves the flat legacy keys into the current nested
// shape: settings under "preferences", collections under "bookmarks", and
// normalizes the per-source bookmark fields while it is at it.
func migrateGroupState(raw map[string]json.RawMessage) error {
	prefs := make(map[string]json.RawMessage)
	if v, ok := raw["preferences"]; ok {
		if err := json.Unmarshal(v, &prefs); err != nil {
			return err
		}
	}
	for _, key := range preferenceKeys {
		if v, ok := raw[key]; ok {
			prefs[key] = v
			delete(raw, key)
		}
	}

	collections := make(map[string][]map[string]interface{})
	grouped := false
	if v, ok := raw["bookmarks"]; ok {
		// Already an object on re-runs; an array is the legacy wiki
		// collection.
		if err := json.Unmarshal(v, &collections); err == nil {
			grouped = true
		}
	}
	if !grouped {
		for _, legacy := range legacyCollections {
			entries, err := popBookmarks(raw, legacy.key)
			if err != nil {
				return err
			}
			if entries == nil {
				continue
			}
			for i, entry := range entries {
				entries[i] = normalizeBookmark(entry)
			}
			collections[legacy.collection] = entries
		}
	}

	prefsData, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	collectionsData, err := json.Marshal(collections)
	if err != nil {
		return err
	}

	raw["preferences"] = prefsData
	raw["bookmarks"] = collectionsData
	return nil
}

// normalizeBookmark maps the legacy per-source field names onto the stored
// projection: numeric ids become strings, the various link and thumbnail
// spellings collapse into one field each. Unknown fields are dropped when
// the blob is re-encoded through the typed state.
func normalizeBookmark(b map[string]interface{}) map[string]interface{} {
	if _, ok := b["id"]; !ok {
		if pid, ok := b["pageid"]; ok {
			b["id"] = pid
		}
	}
	delete(b, "pageid")
	if id, ok := b["id"]; ok {
		b["id"] = stringValue(id)
	}

	if _, ok := b["link"]; !ok {
		for _, key := range []string{"absLink", "detailUrl", "wikiUrl", "url"} {
			if v, ok := b[key]; ok {
				b["link"] = v
				break
			}
		}
	}
	for _, key := range []string{"absLink", "detailUrl", "wikiUrl", "url", "hdUrl"} {
		delete(b, key)
	}

	if _, ok := b["thumbnail"]; !ok {
		if v, ok := b["thumbnailUrl"]; ok {
			b["thumbnail"] = v
		}
	}
	delete(b, "thumbnailUrl")

	return b
}

// fillDefaults backfills settings absent from the stored blob and makes
// sure every known feed id appears in the tab order, so a blob written by
// an older build picks up newly introduced feeds.
func fillDefaults(raw map[string]json.RawMessage) error {
	prefs := make(map[string]json.RawMessage)
	if v, ok := raw["preferences"]; ok {
		if err := json.Unmarshal(v, &prefs); err != nil {
			return err
		}
	}

	defaults := Defaults().Preferences
	setDefault(prefs, "theme", defaults.Theme)
	setDefault(prefs, "topics", defaults.Topics)
	setDefault(prefs, "arxivCategory", defaults.ArxivCategory)
	setDefault(prefs, "preprintCategory", defaults.PreprintCategory)
	setDefault(prefs, "tabOrder", defaults.TabOrder)
	setDefault(prefs, "enabledTabs", defaults.EnabledTabs)

	var tabOrder []string
	if err := json.Unmarshal(prefs["tabOrder"], &tabOrder); err != nil {
		return err
	}
	data, err := json.Marshal(ensureTabs(tabOrder))
	if err != nil {
		return err
	}
	prefs["tabOrder"] = data

	prefsData, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	raw["preferences"] = prefsData

	if _, ok := raw["bookmarks"]; !ok {
		raw["bookmarks"] = json.RawMessage("{}")
	}
	return nil
}

func setDefault(prefs map[string]json.RawMessage, key string, value interface{}) {
	if _, ok := prefs[key]; ok {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	prefs[key] = data
}

// ensureTabs inserts missing feed ids: preprint right after arxiv, any
// other newcomer at the end.
func ensureTabs(tabOrder []string) []string {
	present := make(map[string]bool, len(tabOrder))
	for _, tab := range tabOrder {
		present[tab] = true
	}

	for _, tab := range defaultTabs() {
		if present[tab] {
			continue
		}
		if tab == wikiwisch.SourcePreprint {
			inserted := false
			for i, existing := range tabOrder {
				if existing == wikiwisch.SourceArxiv {
					tabOrder = append(tabOrder[:i+1], append([]string{tab}, tabOrder[i+1:]...)...)
					inserted = true
					break
				}
			}
			if inserted {
				continue
			}
		}
		tabOrder = append(tabOrder, tab)
	}

	return tabOrder
}

func popBookmarks(raw map[string]json.RawMessage, key string) ([]map[string]interface{}, error) {
	v, ok := raw[key]
	if !ok {
		return nil, nil
	}
	delete(raw, key)

	var entries []map[string]interface{}
	if err := json.Unmarshal(v, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []map[string]interface{}{}
	}
	return entries, nil
}

func stringValue(v interface{}) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
