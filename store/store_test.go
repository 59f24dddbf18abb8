package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	s := New(&MemStore{})
	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, DefaultTravel, got.Travel)
	require.False(t, got.Reversed)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New(&MemStore{})
	require.NoError(t, s.SaveTravel(12345*time.Millisecond))
	require.NoError(t, s.SaveReversed(true))

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, 12345*time.Millisecond, got.Travel)
	require.True(t, got.Reversed)
}

func TestLoadOutOfRange(t *testing.T) {
	s := New(&MemStore{})

	// Stored as is, clamped on load.
	require.NoError(t, s.SaveTravel(70*time.Second))
	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, DefaultTravel, got.Travel)

	// Upper bound is inclusive.
	require.NoError(t, s.SaveTravel(MaxTravel))
	got, err = s.Load()
	require.NoError(t, err)
	require.Equal(t, MaxTravel, got.Travel)
}

func TestClearTravel(t *testing.T) {
	s := New(&MemStore{})
	require.NoError(t, s.SaveTravel(9*time.Second))
	require.NoError(t, s.ClearTravel())

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, DefaultTravel, got.Travel)
}

func TestLoadReadFailure(t *testing.T) {
	s := New(&MemStore{Fail: errors.New("bus gone")})
	got, err := s.Load()
	require.Error(t, err)
	// Settings stay usable so the caller can recover locally.
	require.Equal(t, DefaultTravel, got.Travel)
}
