package gin

import (
	"github.com/gin-gonic/gin"

	"github.com/MaxMLang/WikiWisch"
	"github.com/MaxMLang/WikiWisch/bleve"
	"github.com/MaxMLang/WikiWisch/errors"
	"github.com/MaxMLang/WikiWisch/log"
	"github.com/MaxMLang/WikiWisch/state"
)

type BookmarkHandler struct {
	Store  *state.Store
	Index  *bleve.BookmarkIndex
	Logger log.Logger
}

func (h *BookmarkHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/bookmarks/:collection", JSONFormatter(h.List))
	router.PUT("/api/bookmarks/:collection", JSONFormatter(h.Add))
	router.DELETE("/api/bookmarks/:collection", JSONFormatter(h.Clear))
	router.DELETE("/api/bookmarks/:collection/:id", JSONFormatter(h.Remove))
	router.GET("/api/bookmarks/:collection/search", JSONFormatter(h.Search))
}

func (h *BookmarkHandler) List(c *gin.Context) (interface{}, error) {
	collection, err := collectionParam(c)
	if err != nil {
		return nil, err
	}

	return h.Store.Bookmarks(collection), nil
}

func (h *BookmarkHandler) Add(c *gin.Context) (interface{}, error) {
	collection, err := collectionParam(c)
	if err != nil {
		return nil, err
	}

	var bookmark wikiwisch.Bookmark
	if err := c.BindJSON(&bookmark); err != nil {
		return nil, errors.New("invalid bookmark payload", errors.BadRequest(), errors.WithCause(err))
	}
	if bookmark.ID == "" || bookmark.Title == "" {
		return nil, errors.New("bookmark needs an id and a title", errors.BadRequest())
	}

	h.Store.AddBookmark(collection, bookmark)
	if err := h.Index.Index(collection, bookmark); err != nil {
		// Saved but not searchable; the next Sync catches up.
		h.Logger.Errorf("indexing bookmark %s/%s: %v", collection, bookmark.ID, err)
	}

	return h.Store.Bookmarks(collection), nil
}

func (h *BookmarkHandler) Remove(c *gin.Context) (interface{}, error) {
	collection, err := collectionParam(c)
	if err != nil {
		return nil, err
	}

	id := c.Param("id")
	h.Store.RemoveBookmark(collection, id)
	if err := h.Index.Delete(collection, id); err != nil {
		h.Logger.Errorf("unindexing bookmark %s/%s: %v", collection, id, err)
	}

	return h.Store.Bookmarks(collection), nil
}

func (h *BookmarkHandler) Clear(c *gin.Context) (interface{}, error) {
	collection, err := collectionParam(c)
	if err != nil {
		return nil, err
	}

	for _, bookmark := range h.Store.Bookmarks(collection) {
		if err := h.Index.Delete(collection, bookmark.ID); err != nil {
			h.Logger.Errorf("unindexing bookmark %s/%s: %v", collection, bookmark.ID, err)
		}
	}
	h.Store.ClearBookmarks(collection)

	return []wikiwisch.Bookmark{}, nil
}

func (h *BookmarkHandler) Search(c *gin.Context) (interface{}, error) {
	collection, err := collectionParam(c)
	if err != nil {
		return nil, err
	}

	q := c.Query("q")
	if q == "" {
		return h.Store.Bookmarks(collection), nil
	}

	ids, err := h.Index.Search(collection, q)
	if err != nil {
		return nil, errors.New("searching bookmarks", errors.WithCause(err))
	}

	byID := make(map[string]wikiwisch.Bookmark)
	for _, bookmark := range h.Store.Bookmarks(collection) {
		byID[bookmark.ID] = bookmark
	}

	// The index may hold documents for bookmarks removed in a previous
	// run; only hits still in the store are returned.
	bookmarks := make([]wikiwisch.Bookmark, 0, len(ids))
	for _, id := range ids {
		if bookmark, ok := byID[id]; ok {
			bookmarks = append(bookmarks, bookmark)
		}
	}

	return bookmarks, nil
}

var collections = map[string]bool{
	wikiwisch.SourceWiki:     true,
	wikiwisch.SourceArxiv:    true,
	wikiwisch.SourcePreprint: true,
	wikiwisch.SourceArt:      true,
	wikiwisch.SourceNasa:     true,
	wikiwisch.SourceHistory:  true,
}

func collectionParam(c *gin.Context) (string, error) {
	collection := c.Param("collection")
	if !collections[collection] {
		return "", errors.New("unknown collection "+collection, errors.NotFound())
	}
	return collection, nil
}
