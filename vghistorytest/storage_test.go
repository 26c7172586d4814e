package vghistorytest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {

	s := NewMemoryStorage()

	_, ok, err := s.GetItem("a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetItem("a", "1"))
	v, ok, err := s.GetItem("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	assert.Equal(t, map[string]string{"a": "1"}, s.Items())

	gets, sets := s.Calls()
	assert.Equal(t, 2, gets)
	assert.Equal(t, 1, sets)
}

func TestFailingStorage(t *testing.T) {

	s := NewFailingStorage()

	_, _, err := s.GetItem("a")
	assert.True(t, errors.Is(err, ErrStorageDisabled))
	assert.True(t, errors.Is(s.SetItem("a", "1"), ErrStorageDisabled))
	assert.Empty(t, s.Items())

	quota := errors.New("quota exceeded")
	s.SetFailure(quota)
	assert.Equal(t, quota, s.SetItem("a", "1"))

	s.SetFailure(nil)
	require.NoError(t, s.SetItem("a", "1"))
	assert.Equal(t, map[string]string{"a": "1"}, s.Items())

	gets, sets := s.Calls()
	assert.Equal(t, 1, gets)
	assert.Equal(t, 3, sets)
}

func TestStorageWriteFailure(t *testing.T) {

	s := NewMemoryStorage()
	require.NoError(t, s.SetItem("a", "1"))

	s.SetWriteFailure(ErrStorageDisabled)
	assert.True(t, errors.Is(s.SetItem("a", "2"), ErrStorageDisabled))

	v, ok, err := s.GetItem("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}
