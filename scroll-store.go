package vghistory

import (
	"strconv"
	"sync"
)

// ScrollKeyPrefix namespaces scroll offsets in session storage.
const ScrollKeyPrefix = "vghistory/Scroll~"

// ScrollStore remembers the vertical scroll offset per URI.
// Offsets go to session storage when it accepts them and to memory when it doesn't.
// Errors are never returned, remembered offsets are best-effort.
type ScrollStore struct {
	storage Storage

	mu    sync.Mutex
	items map[string]int
}

// NewScrollStore returns a ScrollStore backed by storage.  A nil storage
// means offsets are only kept in memory.
func NewScrollStore(storage Storage) *ScrollStore {
	return &ScrollStore{
		storage: storage,
		items:   make(map[string]int),
	}
}

// SetItem records offset for uri.  Negative offsets are stored as 0.
func (s *ScrollStore) SetItem(uri string, offset int) {
	if offset < 0 {
		offset = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.storage != nil {
		if err := s.storage.SetItem(ScrollKeyPrefix+uri, strconv.Itoa(offset)); err == nil {
			delete(s.items, uri)
			return
		}
	}
	s.items[uri] = offset
}

// GetItem returns the last offset recorded for uri or 0.  An offset kept in
// memory because storage refused it wins over whatever storage holds.
func (s *ScrollStore) GetItem(uri string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.items[uri]; ok {
		return v
	}
	if s.storage == nil {
		return 0
	}
	v, ok, err := s.storage.GetItem(ScrollKeyPrefix + uri)
	if err != nil || !ok {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f)
}
