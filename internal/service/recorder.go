package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alurecine/daily-whisper/internal/logger"
	"github.com/alurecine/daily-whisper/internal/model"
)

const audioExt = "m4a"

// DefaultTickInterval drives the recording elapsed-time counter.
const DefaultTickInterval = 100 * time.Millisecond

// Recorder owns the capture lifecycle: quota enforcement, the fresh
// local file, the elapsed-time tick, and the forced stop at the
// policy's maximum duration.
type Recorder struct {
	store    model.EntryStore
	policies model.PolicyProvider
	device   model.CaptureDevice
	coord    *Coordinator
	logger   *logger.Logger

	dataDir string
	tick    time.Duration
	now     func() time.Time

	listener model.StateListener

	mu          sync.Mutex
	state       model.SessionState
	entryID     uuid.UUID
	ownerID     uuid.UUID
	filePath    string
	startedAt   time.Time
	elapsed     time.Duration
	maxDuration time.Duration
	stopTick    chan struct{}
}

// NewRecorder returns an idle recording session. tick <= 0 selects
// DefaultTickInterval.
func NewRecorder(
	store model.EntryStore,
	policies model.PolicyProvider,
	device model.CaptureDevice,
	coord *Coordinator,
	dataDir string,
	tick time.Duration,
	logger *logger.Logger,
) *Recorder {
	if tick <= 0 {
		tick = DefaultTickInterval
	}
	return &Recorder{
		store:    store,
		policies: policies,
		device:   device,
		coord:    coord,
		logger:   logger,
		dataDir:  dataDir,
		tick:     tick,
		now:      time.Now,
		state:    model.StateIdle,
	}
}

// SetListener registers an observer for state transitions. Must be
// called before Start.
func (r *Recorder) SetListener(l model.StateListener) {
	r.listener = l
}

// State returns the current session state.
func (r *Recorder) State() model.SessionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Elapsed returns the recording time accumulated so far.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsed
}

// Start begins a new capture for ownerID. It is rejected with no side
// effects when the audio device is held by playback (ErrDeviceBusy)
// or when the tier's daily cap is already reached (ErrQuotaExceeded).
// Device acquisition failure unwinds the partially created file and
// returns ErrCaptureUnavailable.
func (r *Recorder) Start(ctx context.Context, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != model.StateIdle {
		return model.ErrDeviceBusy
	}

	// Policy is derived fresh from the tier on every start; a tier
	// change is observed immediately.
	policy := r.policies.CurrentPolicy()
	if policy.MaxEntriesPerDay > 0 {
		from, to := model.DayRange(r.now())
		count, err := r.store.CountInRange(ctx, ownerID, from, to)
		if err != nil {
			return fmt.Errorf("failed to count today's entries: %w", err)
		}
		if count >= policy.MaxEntriesPerDay {
			return model.ErrQuotaExceeded
		}
	}

	if err := r.coord.acquire(holderRecorder); err != nil {
		return err
	}
	r.setState(model.StateRequesting)

	entryID := uuid.New()
	path := filepath.Join(r.dataDir, entryID.String()+"."+audioExt)

	if err := r.device.Start(ctx, path); err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			r.logger.Error("failed to remove partial recording", "path", path, "error", rmErr)
		}
		r.coord.release(holderRecorder)
		r.setState(model.StateIdle)
		return fmt.Errorf("%w: %v", model.ErrCaptureUnavailable, err)
	}

	r.entryID = entryID
	r.ownerID = ownerID
	r.filePath = path
	r.startedAt = r.now()
	r.elapsed = 0
	r.maxDuration = policy.MaxRecordingDuration
	r.stopTick = make(chan struct{})
	r.setState(model.StateActive)

	go r.run(r.stopTick)
	return nil
}

// Stop finalizes the capture and persists the entry. Calling Stop
// while idle is a no-op returning nil. A persistence failure removes
// the recorded file so no orphan is left behind. The device is
// stopped and released before the idle state becomes observable, so
// playback cannot acquire it while the capture file is still being
// finalized.
func (r *Recorder) Stop(ctx context.Context) (*model.Entry, error) {
	r.mu.Lock()
	if r.state != model.StateActive {
		r.mu.Unlock()
		return nil, nil
	}

	close(r.stopTick)
	r.stopTick = nil

	entryID := r.entryID
	ownerID := r.ownerID
	path := r.filePath
	createdAt := r.startedAt
	duration := r.elapsed
	if duration > r.maxDuration {
		duration = r.maxDuration
	}

	if err := r.device.Stop(); err != nil {
		r.logger.Error("failed to stop capture device", "error", err)
	}
	r.coord.release(holderRecorder)
	r.setState(model.StateIdle)
	r.mu.Unlock()

	entry := model.Entry{
		ID:        entryID,
		OwnerID:   ownerID,
		CreatedAt: createdAt,
		Duration:  duration.Seconds(),
		FileRef:   path,
	}

	saved, err := r.store.Create(ctx, entry)
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			r.logger.Error("failed to remove orphaned recording", "path", path, "error", rmErr)
		}
		return nil, fmt.Errorf("%w: %v", model.ErrPersistenceFailure, err)
	}

	return &saved, nil
}

func (r *Recorder) run(stop chan struct{}) {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if r.advance(r.tick) {
				return
			}
		}
	}
}

// advance adds d to the elapsed counter and forces a stop once the
// maximum duration is reached. Reaching the cap is a designed edge
// case, not an error: it produces the same result as a user stop.
// Reports whether the session ended.
func (r *Recorder) advance(d time.Duration) bool {
	r.mu.Lock()
	if r.state != model.StateActive {
		r.mu.Unlock()
		return true
	}
	r.elapsed += d
	timedOut := r.elapsed >= r.maxDuration
	r.mu.Unlock()

	if !timedOut {
		return false
	}

	if _, err := r.Stop(context.Background()); err != nil {
		r.logger.Error("failed to finalize timed-out recording", "error", err)
	}
	return true
}

// setState must be called with r.mu held.
func (r *Recorder) setState(state model.SessionState) {
	r.state = state
	if r.listener != nil {
		r.listener.SessionStateChanged(model.SessionRecording, state)
	}
}
