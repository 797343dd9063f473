package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alurecine/daily-whisper/internal/model"
)

func newTestConnection(t *testing.T) *Connection {
	t.Helper()
	conn, err := NewConnection(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func seedEntry(t *testing.T, repo *EntryRepository, ownerID uuid.UUID, createdAt time.Time) model.Entry {
	t.Helper()
	entry := model.Entry{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		CreatedAt: createdAt,
		Duration:  12.5,
		FileRef:   "/data/" + uuid.NewString() + ".m4a",
	}
	_, err := repo.Create(context.Background(), entry)
	require.NoError(t, err)
	return entry
}

func TestEntryRepository_CreateAndGet(t *testing.T) {
	repo := NewEntryRepository(newTestConnection(t))
	ownerID := uuid.New()
	createdAt := time.Date(2025, 4, 10, 8, 15, 0, 0, time.UTC)

	entry := seedEntry(t, repo, ownerID, createdAt)

	got, err := repo.GetByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, ownerID, got.OwnerID)
	assert.True(t, got.CreatedAt.Equal(createdAt))
	assert.Equal(t, 12.5, got.Duration)
	assert.Equal(t, entry.FileRef, got.FileRef)
	assert.Empty(t, got.Emotion)
	assert.False(t, got.Synced())
}

func TestEntryRepository_GetByIDNotFound(t *testing.T) {
	repo := NewEntryRepository(newTestConnection(t))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestEntryRepository_AllNewestFirst(t *testing.T) {
	repo := NewEntryRepository(newTestConnection(t))
	ownerID := uuid.New()
	now := time.Now()

	oldest := seedEntry(t, repo, ownerID, now.Add(-2*time.Hour))
	newest := seedEntry(t, repo, ownerID, now)
	middle := seedEntry(t, repo, ownerID, now.Add(-time.Hour))

	entries, err := repo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, newest.ID, entries[0].ID)
	assert.Equal(t, middle.ID, entries[1].ID)
	assert.Equal(t, oldest.ID, entries[2].ID)
}

func TestEntryRepository_CountInRange(t *testing.T) {
	repo := NewEntryRepository(newTestConnection(t))
	ownerID := uuid.New()
	day := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	seedEntry(t, repo, ownerID, day.Add(9*time.Hour))
	seedEntry(t, repo, ownerID, day.Add(21*time.Hour))
	seedEntry(t, repo, ownerID, day.Add(-time.Minute))    // previous day
	seedEntry(t, repo, ownerID, day.Add(24*time.Hour))    // next day, boundary excluded
	seedEntry(t, repo, uuid.New(), day.Add(10*time.Hour)) // other owner

	count, err := repo.CountInRange(context.Background(), ownerID, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestEntryRepository_Unsynced(t *testing.T) {
	repo := NewEntryRepository(newTestConnection(t))
	ownerID := uuid.New()
	now := time.Now()

	pending := seedEntry(t, repo, ownerID, now.Add(-time.Hour))
	synced := seedEntry(t, repo, ownerID, now)
	require.NoError(t, repo.SetRemoteURL(context.Background(), synced.ID, "https://storage.example.com/a"))

	entries, err := repo.Unsynced(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, pending.ID, entries[0].ID)
}

func TestEntryRepository_SetEmotion(t *testing.T) {
	repo := NewEntryRepository(newTestConnection(t))
	entry := seedEntry(t, repo, uuid.New(), time.Now())

	require.NoError(t, repo.SetEmotion(context.Background(), entry.ID, model.EmotionGrateful))

	got, err := repo.GetByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EmotionGrateful, got.Emotion)

	// The label is write-once.
	err = repo.SetEmotion(context.Background(), entry.ID, model.EmotionSad)
	assert.ErrorIs(t, err, model.ErrEmotionSet)

	got, err = repo.GetByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EmotionGrateful, got.Emotion)
}

func TestEntryRepository_SetEmotionNotFound(t *testing.T) {
	repo := NewEntryRepository(newTestConnection(t))

	err := repo.SetEmotion(context.Background(), uuid.New(), model.EmotionCalm)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestEntryRepository_SetRemoteURL(t *testing.T) {
	repo := NewEntryRepository(newTestConnection(t))
	entry := seedEntry(t, repo, uuid.New(), time.Now())

	require.NoError(t, repo.SetRemoteURL(context.Background(), entry.ID, "https://storage.example.com/a"))

	got, err := repo.GetByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.True(t, got.Synced())

	err = repo.SetRemoteURL(context.Background(), uuid.New(), "https://storage.example.com/b")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestEntryRepository_Delete(t *testing.T) {
	repo := NewEntryRepository(newTestConnection(t))
	entry := seedEntry(t, repo, uuid.New(), time.Now())

	require.NoError(t, repo.Delete(context.Background(), entry.ID))

	_, err := repo.GetByID(context.Background(), entry.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	err = repo.Delete(context.Background(), entry.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
