package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alurecine/daily-whisper/internal/model"
	"github.com/alurecine/daily-whisper/internal/testutil"
)

func agedEntry(t *testing.T, dataDir string, age time.Duration, now time.Time) model.Entry {
	t.Helper()
	entry := model.Entry{
		ID:        uuid.New(),
		CreatedAt: now.Add(-age),
	}
	path := filepath.Join(dataDir, entry.ID.String()+".m4a")
	require.NoError(t, os.WriteFile(path, []byte("m4a-bytes"), 0o600))
	entry.FileRef = path
	return entry
}

func TestSweeper_Sweep(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	dataDir := t.TempDir()
	store := &MockEntryStore{}
	s := NewSweeper(store, newStubPolicies(model.PolicyFor(model.TierBase)), nil, dataDir, testutil.MakeNoopLogger())

	expired := agedEntry(t, dataDir, 8*24*time.Hour, now)
	fresh := agedEntry(t, dataDir, 6*24*time.Hour, now)
	boundary := agedEntry(t, dataDir, 7*24*time.Hour, now)

	store.On("All", mock.Anything).Return([]model.Entry{expired, fresh, boundary}, nil)
	store.On("Delete", mock.Anything, expired.ID).Return(nil)

	deleted, err := s.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	assert.NoFileExists(t, expired.FileRef)
	assert.FileExists(t, fresh.FileRef)
	assert.FileExists(t, boundary.FileRef, "an entry exactly at the window edge is kept")
	store.AssertNotCalled(t, "Delete", mock.Anything, fresh.ID)
	store.AssertNotCalled(t, "Delete", mock.Anything, boundary.ID)
}

func TestSweeper_RetentionDisabled(t *testing.T) {
	store := &MockEntryStore{}
	policies := newStubPolicies(model.Policy{RetentionDays: 0})
	s := NewSweeper(store, policies, nil, t.TempDir(), testutil.MakeNoopLogger())

	deleted, err := s.Sweep(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, deleted)
	store.AssertNotCalled(t, "All", mock.Anything)
}

func TestSweeper_MissingFileStillDeletesRecord(t *testing.T) {
	now := time.Now()
	dataDir := t.TempDir()
	store := &MockEntryStore{}
	s := NewSweeper(store, newStubPolicies(model.PolicyFor(model.TierBase)), nil, dataDir, testutil.MakeNoopLogger())

	entry := model.Entry{
		ID:        uuid.New(),
		CreatedAt: now.Add(-10 * 24 * time.Hour),
		FileRef:   filepath.Join(dataDir, "never-existed.m4a"),
	}
	store.On("All", mock.Anything).Return([]model.Entry{entry}, nil)
	store.On("Delete", mock.Anything, entry.ID).Return(nil)

	deleted, err := s.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
}

func TestSweeper_SkipsEntryMidPlayback(t *testing.T) {
	now := time.Now()
	dataDir := t.TempDir()
	store := &MockEntryStore{}
	device := &fakePlayback{}
	player := NewPlayer(device, NewCoordinator(), dataDir, testutil.MakeNoopLogger())
	s := NewSweeper(store, newStubPolicies(model.PolicyFor(model.TierBase)), player, dataDir, testutil.MakeNoopLogger())

	playing := agedEntry(t, dataDir, 9*24*time.Hour, now)
	other := agedEntry(t, dataDir, 9*24*time.Hour, now)
	require.NoError(t, player.Play(context.Background(), playing))

	store.On("All", mock.Anything).Return([]model.Entry{playing, other}, nil)
	store.On("Delete", mock.Anything, other.ID).Return(nil)

	deleted, err := s.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.FileExists(t, playing.FileRef)
	store.AssertNotCalled(t, "Delete", mock.Anything, playing.ID)

	// After playback ends the entry is expired normally.
	player.Stop()
	store.On("Delete", mock.Anything, playing.ID).Return(nil)
	deleted, err = s.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.NoFileExists(t, playing.FileRef)
}

func TestSweeper_OverlappingSweepDropped(t *testing.T) {
	now := time.Now()
	store := &MockEntryStore{}
	s := NewSweeper(store, newStubPolicies(model.PolicyFor(model.TierBase)), nil, t.TempDir(), testutil.MakeNoopLogger())

	started := make(chan struct{})
	release := make(chan struct{})
	store.On("All", mock.Anything).Return([]model.Entry{}, nil).Run(func(mock.Arguments) {
		close(started)
		<-release
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := s.Sweep(context.Background(), now)
		assert.NoError(t, err)
	}()

	<-started
	deleted, err := s.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, deleted, "a sweep arriving mid-flight is dropped")

	close(release)
	wg.Wait()
	store.AssertNumberOfCalls(t, "All", 1)
}
