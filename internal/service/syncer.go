package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/alurecine/daily-whisper/internal/logger"
	"github.com/alurecine/daily-whisper/internal/model"
)

const (
	// AAC in an m4a container.
	audioContentType = "audio/mp4"

	avatarExt         = "jpg"
	avatarContentType = "image/jpeg"
)

// Syncer mirrors local entries and the user profile to the remote
// store. The local store stays the source of truth; remote writes are
// last-write-wins with no conflict resolution.
type Syncer struct {
	store   model.EntryStore
	db      model.RemoteDatabase
	storage model.RemoteStorage
	paths   model.PathResolver
	logger  *logger.Logger

	dataDir     string
	concurrency int
	now         func() time.Time
}

// NewSyncer returns a sync engine. concurrency bounds the number of
// parallel uploads in a batch; values <= 0 select 4.
func NewSyncer(
	store model.EntryStore,
	db model.RemoteDatabase,
	storage model.RemoteStorage,
	paths model.PathResolver,
	dataDir string,
	concurrency int,
	logger *logger.Logger,
) *Syncer {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Syncer{
		store:       store,
		db:          db,
		storage:     storage,
		paths:       paths,
		logger:      logger,
		dataDir:     dataDir,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// UploadEntry uploads the entry's bytes to remote storage and writes
// its metadata record, replacing any prior record for the same id.
// Re-uploading an entry is safe. When the entry is deleted locally
// while the upload is in flight, the result is discarded: the remote
// record is not written and no error is returned.
func (s *Syncer) UploadEntry(ctx context.Context, entry model.Entry, ownerID uuid.UUID) (model.AudioEntryDTO, error) {
	path, err := resolveLocalRef(entry.FileRef, s.dataDir)
	if err != nil {
		return model.AudioEntryDTO{}, fmt.Errorf("%w: %s", model.ErrSourceUnavailable, entry.FileRef)
	}
	if _, err := os.Stat(path); err != nil {
		return model.AudioEntryDTO{}, fmt.Errorf("%w: %s", model.ErrSourceUnavailable, path)
	}

	remotePath := s.paths.AudioPath(ownerID.String(), entry.ID.String(), audioExt)
	remoteURL, err := s.storage.UploadFile(ctx, path, remotePath, audioContentType)
	if err != nil {
		return model.AudioEntryDTO{}, fmt.Errorf("%w: upload %s: %v", model.ErrTransient, remotePath, err)
	}

	// Delete wins: a completing upload for a deleted entry must not
	// resurrect the metadata record. The re-read also picks up fields
	// changed while the upload was in flight, such as a fresh emotion
	// tag.
	current, err := s.store.GetByID(ctx, entry.ID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Info("entry deleted during upload, discarding result", "entry_id", entry.ID)
			return model.AudioEntryDTO{}, nil
		}
		return model.AudioEntryDTO{}, fmt.Errorf("failed to re-check entry: %w", err)
	}

	dto := model.NewAudioEntryDTO(current, ownerID.String(), remoteURL)
	if dto.Date.IsZero() {
		dto.Date = s.now()
	}
	if err := s.db.SaveAudioEntry(ctx, dto); err != nil {
		return model.AudioEntryDTO{}, fmt.Errorf("%w: save entry metadata: %v", model.ErrTransient, err)
	}

	if err := s.store.SetRemoteURL(ctx, entry.ID, remoteURL); err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.AudioEntryDTO{}, fmt.Errorf("failed to mark entry synced: %w", err)
	}

	return dto, nil
}

// UploadUserAvatar uploads the avatar bytes to the fixed avatar path
// and persists the new remote URL in the user's metadata record.
func (s *Syncer) UploadUserAvatar(ctx context.Context, user model.User, imageData []byte) (model.UserDTO, error) {
	if len(imageData) == 0 {
		return model.UserDTO{}, fmt.Errorf("avatar image data is empty")
	}

	avatarPath := s.paths.AvatarPath(user.ID.String(), avatarExt)
	remoteURL, err := s.storage.Upload(ctx, imageData, avatarPath, avatarContentType)
	if err != nil {
		return model.UserDTO{}, fmt.Errorf("%w: upload %s: %v", model.ErrTransient, avatarPath, err)
	}

	dto := model.NewUserDTO(user, remoteURL)
	dto.UpdatedAt = s.now()
	if err := s.db.SaveUser(ctx, dto); err != nil {
		return model.UserDTO{}, fmt.Errorf("%w: save user metadata: %v", model.ErrTransient, err)
	}

	return dto, nil
}

// SaveUserProfile writes the user's profile to the remote database
// without touching the avatar.
func (s *Syncer) SaveUserProfile(ctx context.Context, user model.User, profileImageURL string) (model.UserDTO, error) {
	dto := model.NewUserDTO(user, profileImageURL)
	if err := s.db.SaveUser(ctx, dto); err != nil {
		return model.UserDTO{}, fmt.Errorf("%w: save user metadata: %v", model.ErrTransient, err)
	}
	return dto, nil
}

// FetchRemoteUser reads the user's remote metadata record.
func (s *Syncer) FetchRemoteUser(ctx context.Context, userID string) (*model.UserDTO, error) {
	return s.db.FetchUser(ctx, userID)
}

// FetchRemoteEntries reads the user's remote entries, newest first.
// limit <= 0 returns all.
func (s *Syncer) FetchRemoteEntries(ctx context.Context, userID string, limit int) ([]model.AudioEntryDTO, error) {
	return s.db.FetchAudioEntries(ctx, userID, limit)
}

// UploadAllLocal uploads every local entry not yet mirrored. Entries
// upload independently with bounded concurrency; a failure on one is
// logged and does not abort the batch.
func (s *Syncer) UploadAllLocal(ctx context.Context, ownerID uuid.UUID) error {
	entries, err := s.store.Unsynced(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to list unsynced entries: %w", err)
	}

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)

	for _, entry := range entries {
		entry := entry
		g.Go(func() error {
			if _, err := s.UploadEntry(ctx, entry, ownerID); err != nil {
				s.logger.Error("failed to upload entry", "entry_id", entry.ID, "error", err)
			}
			return nil
		})
	}

	return g.Wait()
}
