package state

import (
	"bytes"
	"encoding/json"
	"sync"
	"time"

	"github.com/MaxMLang/WikiWisch"
	"github.com/MaxMLang/WikiWisch/log"
)

// Store is the process-wide holder of the persisted state: bookmark
// collections plus preferences, all living in one blob. Every mutation
// rewrites the whole blob; a failed write is logged and the in-memory
// mutation stands.
type Store struct {
	mu     sync.RWMutex
	repo   wikiwisch.StateRepository
	logger log.Logger
	state  wikiwisch.State
	subs   []func(wikiwisch.State)

	now func() time.Time
}

// Load reads, migrates and writes back the persisted state. A missing or
// unreadable blob falls back to defaults rather than failing startup.
func Load(repo wikiwisch.StateRepository, logger log.Logger) *Store {
	s := &Store{
		repo:   repo,
		logger: logger,
		state:  Defaults(),
		now:    time.Now,
	}

	data, err := repo.Load()
	if err != nil {
		logger.Errorf("loading state, falling back to defaults: %v", err)
		return s
	}

	migrated, err := Migrate(data)
	if err != nil {
		logger.Errorf("migrating state, falling back to defaults: %v", err)
		return s
	}

	var loaded wikiwisch.State
	if err := json.Unmarshal(migrated, &loaded); err != nil {
		logger.Errorf("decoding migrated state, falling back to defaults: %v", err)
		return s
	}
	if loaded.Bookmarks == nil {
		loaded.Bookmarks = map[string][]wikiwisch.Bookmark{}
	}
	s.state = loaded

	// Persist the migrated shape so the next load skips the migrations.
	if !bytes.Equal(data, migrated) {
		if err := repo.Save(migrated); err != nil {
			logger.Errorf("writing back migrated state: %v", err)
		}
	}

	return s
}

// State returns a snapshot of the current state.
func (s *Store) State() wikiwisch.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *Store) snapshot() wikiwisch.State {
	st := s.state
	st.Bookmarks = make(map[string][]wikiwisch.Bookmark, len(s.state.Bookmarks))
	for collection, entries := range s.state.Bookmarks {
		st.Bookmarks[collection] = append([]wikiwisch.Bookmark(nil), entries...)
	}
	return st
}

// Subscribe registers fn to run after every mutation with the new state.
// Subscribers are called synchronously, outside the store lock.
func (s *Store) Subscribe(fn func(wikiwisch.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) mutate(fn func(*wikiwisch.State) bool) {
	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return
	}

	snapshot := s.snapshot()
	data, err := json.Marshal(s.state)
	subs := s.subs
	s.mu.Unlock()

	if err != nil {
		s.logger.Errorf("encoding state: %v", err)
	} else if err := s.repo.Save(data); err != nil {
		// The mutation stays applied in memory.
		s.logger.Errorf("persisting state: %v", err)
	}

	for _, sub := range subs {
		sub(snapshot)
	}
}

// AddBookmark projects the bookmark into the collection, newest first.
// Re-adding an existing id is a no-op that keeps the original savedAt.
func (s *Store) AddBookmark(collection string, b wikiwisch.Bookmark) {
	s.mutate(func(st *wikiwisch.State) bool {
		entries := st.Bookmarks[collection]
		for _, existing := range entries {
			if existing.ID == b.ID {
				return false
			}
		}

		if b.SavedAt == 0 {
			b.SavedAt = s.now().UnixMilli()
		}
		st.Bookmarks[collection] = append([]wikiwisch.Bookmark{b}, entries...)
		return true
	})
}

func (s *Store) RemoveBookmark(collection, id string) {
	s.mutate(func(st *wikiwisch.State) bool {
		entries := st.Bookmarks[collection]
		for i, existing := range entries {
			if existing.ID == id {
				st.Bookmarks[collection] = append(entries[:i:i], entries[i+1:]...)
				return true
			}
		}
		return false
	})
}

func (s *Store) HasBookmark(collection, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, existing := range s.state.Bookmarks[collection] {
		if existing.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) ClearBookmarks(collection string) {
	s.mutate(func(st *wikiwisch.State) bool {
		if len(st.Bookmarks[collection]) == 0 {
			return false
		}
		delete(st.Bookmarks, collection)
		return true
	})
}

func (s *Store) Bookmarks(collection string) []wikiwisch.Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]wikiwisch.Bookmark(nil), s.state.Bookmarks[collection]...)
}

func (s *Store) Preferences() wikiwisch.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Preferences
}

func (s *Store) SetTheme(theme string) {
	s.mutate(func(st *wikiwisch.State) bool {
		st.Preferences.Theme = theme
		return true
	})
}

func (s *Store) SetTopics(topics []string) {
	s.mutate(func(st *wikiwisch.State) bool {
		st.Preferences.Topics = append([]string(nil), topics...)
		return true
	})
}

func (s *Store) ToggleTopic(topic string) {
	s.mutate(func(st *wikiwisch.State) bool {
		topics := st.Preferences.Topics
		for i, existing := range topics {
			if existing == topic {
				st.Preferences.Topics = append(topics[:i:i], topics[i+1:]...)
				return true
			}
		}
		st.Preferences.Topics = append(topics, topic)
		return true
	})
}

func (s *Store) SetArxivCategory(category string) {
	s.mutate(func(st *wikiwisch.State) bool {
		st.Preferences.ArxivCategory = category
		return true
	})
}

func (s *Store) SetPreprintCategory(category string) {
	s.mutate(func(st *wikiwisch.State) bool {
		st.Preferences.PreprintCategory = category
		return true
	})
}

func (s *Store) SetTabOrder(tabOrder []string) {
	s.mutate(func(st *wikiwisch.State) bool {
		st.Preferences.TabOrder = ensureTabs(append([]string(nil), tabOrder...))
		return true
	})
}

// ToggleTab enables or disables a feed. The last enabled tab cannot be
// disabled.
func (s *Store) ToggleTab(tab string) {
	s.mutate(func(st *wikiwisch.State) bool {
		enabled := st.Preferences.EnabledTabs
		for i, existing := range enabled {
			if existing == tab {
				if len(enabled) <= 1 {
					return false
				}
				st.Preferences.EnabledTabs = append(enabled[:i:i], enabled[i+1:]...)
				return true
			}
		}
		st.Preferences.EnabledTabs = append(enabled, tab)
		return true
	})
}
