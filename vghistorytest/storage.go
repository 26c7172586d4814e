package vghistorytest

import (
	"errors"
	"sync"

	"github.com/vugu/vghistory"
)

// ErrStorageDisabled is what a failing MemoryStorage returns by default.
var ErrStorageDisabled = errors.New("storage disabled")

// MemoryStorage is a vghistory.Storage backed by a map.  It can be made to fail
// to simulate storage that is disabled or over quota.
type MemoryStorage struct {
	mu    sync.Mutex
	items    map[string]string
	err      error
	writeErr error
	sets  int
	gets  int
}

var _ vghistory.Storage = (*MemoryStorage)(nil)

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

// NewFailingStorage returns a MemoryStorage on which every call fails with ErrStorageDisabled.
func NewFailingStorage() *MemoryStorage {
	s := NewMemoryStorage()
	s.SetFailure(ErrStorageDisabled)
	return s
}

// SetFailure makes every following call return err, or work again if err is nil.
func (s *MemoryStorage) SetFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// SetWriteFailure makes only SetItem return err, as storage over its quota does.
// A nil err makes writes work again.
func (s *MemoryStorage) SetWriteFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// GetItem implements vghistory.Storage.
func (s *MemoryStorage) GetItem(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.err != nil {
		return "", false, s.err
	}
	v, ok := s.items[key]
	return v, ok, nil
}

// SetItem implements vghistory.Storage.
func (s *MemoryStorage) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	if s.err != nil {
		return s.err
	}
	if s.writeErr != nil {
		return s.writeErr
	}
	s.items[key] = value
	return nil
}

// Items returns a copy of everything stored.
func (s *MemoryStorage) Items() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret := make(map[string]string, len(s.items))
	for k, v := range s.items {
		ret[k] = v
	}
	return ret
}

// Calls returns how many times GetItem and SetItem were called, failed calls included.
func (s *MemoryStorage) Calls() (gets, sets int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets, s.sets
}
