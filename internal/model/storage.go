package model

import (
	"context"

	"github.com/google/uuid"
)

// RemoteStorage uploads blobs to the remote object store and returns
// their public URL.
type RemoteStorage interface {
	Upload(ctx context.Context, data []byte, path, contentType string) (string, error)
	UploadFile(ctx context.Context, localPath, path, contentType string) (string, error)
}

// RemoteDatabase mirrors entry and user metadata to the remote
// database. Writes are last-write-wins; there is no optimistic
// concurrency check.
type RemoteDatabase interface {
	SaveUser(ctx context.Context, user UserDTO) error
	FetchUser(ctx context.Context, id string) (*UserDTO, error)
	SaveAudioEntry(ctx context.Context, entry AudioEntryDTO) error
	FetchAudioEntries(ctx context.Context, userID string, limit int) ([]AudioEntryDTO, error)
}

// PathResolver maps identifiers to remote storage paths.
// Deterministic string construction, no failure mode.
type PathResolver interface {
	AvatarPath(ownerID, ext string) string
	AudioPath(ownerID, entryID, ext string) string
}

// CaptureDevice is the OS capture collaborator. Start begins writing
// the container file at path; Stop finalizes it.
type CaptureDevice interface {
	Start(ctx context.Context, path string) error
	Stop() error
}

// PlaybackDevice is the OS playback collaborator. Play decodes the
// file at path and invokes done exactly once when playback finishes
// naturally; Stop halts playback without invoking done.
type PlaybackDevice interface {
	Play(ctx context.Context, path string, duration float64, done func(error)) error
	Stop() error
}

// PlaybackGuard exposes the entry currently held by an active
// playback session, if any. The retention sweeper consults it to
// avoid deleting a file mid-playback.
type PlaybackGuard interface {
	CurrentEntry() (uuid.UUID, bool)
}
