package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/alurecine/daily-whisper/internal/logger"
	"github.com/alurecine/daily-whisper/internal/model"
)

// Sweeper prunes entries older than the current policy's retention
// window, deleting the backing file before the record. At most one
// sweep runs at a time; a request arriving while one is in flight is
// dropped, not queued.
type Sweeper struct {
	store    model.EntryStore
	policies model.PolicyProvider
	guard    model.PlaybackGuard // may be nil
	logger   *logger.Logger

	dataDir string

	inFlight atomic.Bool
}

// NewSweeper returns a retention sweeper. guard may be nil when no
// playback session exists.
func NewSweeper(store model.EntryStore, policies model.PolicyProvider, guard model.PlaybackGuard, dataDir string, logger *logger.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		policies: policies,
		guard:    guard,
		logger:   logger,
		dataDir:  dataDir,
	}
}

// Sweep deletes every entry whose age at now exceeds the retention
// window, along with its backing file. A missing file is treated as
// already clean. With retention disabled (<= 0) the sweep is a no-op.
// Returns the number of entries removed.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return 0, nil
	}
	defer s.inFlight.Store(false)

	policy := s.policies.CurrentPolicy()
	if policy.RetentionDays <= 0 {
		return 0, nil
	}
	cutoff := now.AddDate(0, 0, -policy.RetentionDays)

	entries, err := s.store.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list entries: %w", err)
	}

	deleted := 0
	for _, entry := range entries {
		if !entry.CreatedAt.Before(cutoff) {
			continue
		}

		// Never pull the file out from under an active playback; the
		// entry is picked up again on the next sweep.
		if s.guard != nil {
			if current, ok := s.guard.CurrentEntry(); ok && current == entry.ID {
				s.logger.Info("skipping expired entry mid-playback", "entry_id", entry.ID)
				continue
			}
		}

		if path, err := resolveLocalRef(entry.FileRef, s.dataDir); err == nil {
			if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
				s.logger.Error("failed to remove expired file", "entry_id", entry.ID, "error", rmErr)
				continue
			}
		}

		if err := s.store.Delete(ctx, entry.ID); err != nil && !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("failed to delete expired entry", "entry_id", entry.ID, "error", err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Info("retention sweep completed", "deleted", deleted)
	}
	return deleted, nil
}
