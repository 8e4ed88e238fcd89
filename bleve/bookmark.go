package bleve

import (
	"strings"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/analysis/lang/en"
	"github.com/blevesearch/bleve/search/query"

	"github.com/MaxMLang/WikiWisch"
)

// BookmarkIndex makes the saved bookmarks searchable. Documents are keyed
// "<collection>/<id>" so one index serves every collection.
type BookmarkIndex struct {
	index bleve.Index
}

// Open opens the index at path, creating it with the bookmark mapping when
// it does not exist yet.
func (s *BookmarkIndex) Open(path string) error {
	index, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		tm := bleve.NewTextFieldMapping()
		tm.Analyzer = en.AnalyzerName

		km := bleve.NewTextFieldMapping()
		km.Analyzer = keyword.Name

		dm := bleve.NewDocumentMapping()
		dm.AddFieldMappingsAt("title", tm)
		dm.AddFieldMappingsAt("text", tm)
		dm.AddFieldMappingsAt("collection", km)

		mapping := bleve.NewIndexMapping()
		mapping.AddDocumentMapping("bookmark", dm)

		index, err = bleve.New(path, mapping)
	}
	if err != nil {
		return err
	}

	s.index = index
	return nil
}

func (s *BookmarkIndex) Close() error {
	if s.index == nil {
		return nil
	}

	return s.index.Close()
}

func (s *BookmarkIndex) Index(collection string, b wikiwisch.Bookmark) error {
	data := map[string]interface{}{
		"collection": collection,
		"title":      b.Title,
		"text":       strings.Join(append(append([]string{}, b.Authors...), b.Artist, b.Text), " "),
	}

	return s.index.Index(docID(collection, b.ID), data)
}

func (s *BookmarkIndex) Delete(collection, id string) error {
	return s.index.Delete(docID(collection, id))
}

// Sync indexes every bookmark in the state. Documents for entries removed
// while the process was down are not purged here; readers resolve hits
// against the store and drop the misses.
func (s *BookmarkIndex) Sync(st wikiwisch.State) error {
	batch := s.index.NewBatch()
	for collection, entries := range st.Bookmarks {
		for _, b := range entries {
			data := map[string]interface{}{
				"collection": collection,
				"title":      b.Title,
				"text":       strings.Join(append(append([]string{}, b.Authors...), b.Artist, b.Text), " "),
			}
			if err := batch.Index(docID(collection, b.ID), data); err != nil {
				return err
			}
		}
	}

	return s.index.Batch(batch)
}

// Search returns the bookmark ids in collection matching q, best first.
func (s *BookmarkIndex) Search(collection, q string) ([]string, error) {
	conjuncts := []query.Query{
		&query.TermQuery{Term: collection, FieldVal: "collection"},
	}
	if match := s.matchWords(q); match != nil {
		conjuncts = append(conjuncts, match)
	}

	searchRequest := bleve.NewSearchRequest(query.NewConjunctionQuery(conjuncts))
	searchRequest.Size = 100

	searchResults, err := s.index.Search(searchRequest)
	if err != nil {
		return nil, err
	}

	prefix := collection + "/"
	ids := make([]string, 0, len(searchResults.Hits))
	for _, hit := range searchResults.Hits {
		ids = append(ids, strings.TrimPrefix(hit.ID, prefix))
	}

	return ids, nil
}

// matchWords requires every word of q to prefix-match the title or the
// text field.
func (s *BookmarkIndex) matchWords(q string) query.Query {
	words := strings.Fields(strings.ToLower(q))
	if len(words) == 0 {
		return nil
	}

	conjuncts := make([]query.Query, len(words))
	for i, word := range words {
		conjuncts[i] = query.NewDisjunctionQuery([]query.Query{
			&query.PrefixQuery{Prefix: word, FieldVal: "title"},
			&query.PrefixQuery{Prefix: word, FieldVal: "text"},
		})
	}

	return query.NewConjunctionQuery(conjuncts)
}

func docID(collection, id string) string {
	return collection + "/" + id
}
