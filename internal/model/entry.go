package model

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EntryStore defines persistence operations for audio entries in the
// local durable store. The local store is the single source of truth;
// the remote database is a best-effort mirror.
type EntryStore interface {
	Create(ctx context.Context, entry Entry) (Entry, error)
	GetByID(ctx context.Context, id uuid.UUID) (Entry, error)
	All(ctx context.Context) ([]Entry, error)
	CountInRange(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (int, error)
	Unsynced(ctx context.Context, ownerID uuid.UUID) ([]Entry, error)
	SetEmotion(ctx context.Context, id uuid.UUID, emotion Emotion) error
	SetRemoteURL(ctx context.Context, id uuid.UUID, remoteURL string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Entry represents one recorded audio note.
type Entry struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	CreatedAt time.Time
	Duration  float64 // seconds, set once at capture completion
	Emotion   Emotion // empty until tagged; settable once
	FileRef   string  // local path or file:// URL
	RemoteURL string  // set only after a successful sync
}

// Synced reports whether the entry has been mirrored to the remote
// store.
func (e Entry) Synced() bool {
	return e.RemoteURL != ""
}

// Emotion is an emotional label attached to an entry. The empty
// string means the entry is untagged.
type Emotion string

const (
	EmotionHappy    Emotion = "happy"
	EmotionCalm     Emotion = "calm"
	EmotionSad      Emotion = "sad"
	EmotionAnxious  Emotion = "anxious"
	EmotionAngry    Emotion = "angry"
	EmotionGrateful Emotion = "grateful"
)

// Emotions lists the fixed set of valid emotion tags.
var Emotions = []Emotion{
	EmotionHappy, EmotionCalm, EmotionSad,
	EmotionAnxious, EmotionAngry, EmotionGrateful,
}

// ParseEmotion validates a raw emotion value against the fixed set.
func ParseEmotion(raw string) (Emotion, error) {
	for _, e := range Emotions {
		if string(e) == raw {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown emotion: %q", raw)
}

// DayRange returns the boundaries of the calendar day containing t in
// t's location. Entries counted toward a day's quota are those whose
// CreatedAt falls within this range.
func DayRange(t time.Time) (from, to time.Time) {
	year, month, day := t.Date()
	from = time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 0, 1)
}
