package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/alurecine/daily-whisper/internal/logger"
	"github.com/alurecine/daily-whisper/internal/model"
)

// Library exposes the user-facing entry operations: listing, emotion
// tagging, and explicit deletion.
type Library struct {
	store  model.EntryStore
	player *Player
	logger *logger.Logger

	dataDir string
}

// NewLibrary returns a Library over the local entry store. player may
// be nil when no playback session exists.
func NewLibrary(store model.EntryStore, player *Player, dataDir string, logger *logger.Logger) *Library {
	return &Library{
		store:   store,
		player:  player,
		logger:  logger,
		dataDir: dataDir,
	}
}

// List returns all local entries, newest first.
func (l *Library) List(ctx context.Context) ([]model.Entry, error) {
	entries, err := l.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// Tag attaches an emotion label to an entry. The label is settable
// once; a second assignment returns ErrEmotionSet.
func (l *Library) Tag(ctx context.Context, id uuid.UUID, emotion model.Emotion) error {
	if _, err := model.ParseEmotion(string(emotion)); err != nil {
		return err
	}
	if err := l.store.SetEmotion(ctx, id, emotion); err != nil {
		return fmt.Errorf("failed to tag entry: %w", err)
	}
	return nil
}

// Delete removes an entry and its backing file. A file already gone
// from disk is not an error. Deleting the entry currently playing
// stops playback first.
func (l *Library) Delete(ctx context.Context, id uuid.UUID) error {
	entry, err := l.store.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	if l.player != nil {
		if current, ok := l.player.CurrentEntry(); ok && current == id {
			l.player.Stop()
		}
	}

	if path, err := resolveLocalRef(entry.FileRef, l.dataDir); err == nil {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			l.logger.Error("failed to remove entry file", "entry_id", id, "error", rmErr)
		}
	}

	if err := l.store.Delete(ctx, id); err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}
