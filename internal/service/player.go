package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/alurecine/daily-whisper/internal/logger"
	"github.com/alurecine/daily-whisper/internal/model"
)

var _ model.PlaybackGuard = (*Player)(nil)

// Player owns the playback lifecycle. It is mutually exclusive with
// the recording session through the shared Coordinator.
type Player struct {
	device model.PlaybackDevice
	coord  *Coordinator
	logger *logger.Logger

	dataDir string

	listener model.StateListener

	mu      sync.Mutex
	state   model.SessionState
	current uuid.UUID
	gen     int // invalidates done callbacks from superseded playbacks
}

// NewPlayer returns an idle playback session.
func NewPlayer(device model.PlaybackDevice, coord *Coordinator, dataDir string, logger *logger.Logger) *Player {
	return &Player{
		device:  device,
		coord:   coord,
		logger:  logger,
		dataDir: dataDir,
		state:   model.StateIdle,
	}
}

// SetListener registers an observer for state transitions. Must be
// called before Play.
func (p *Player) SetListener(l model.StateListener) {
	p.listener = l
}

// State returns the current session state.
func (p *Player) State() model.SessionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// CurrentEntry returns the entry being played, if any.
func (p *Player) CurrentEntry() (uuid.UUID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != model.StateActive {
		return uuid.Nil, false
	}
	return p.current, true
}

// Play starts playback of the entry's local file. It is rejected when
// recording is active (ErrDeviceBusy) or when the stored reference
// does not resolve to an existing local file (ErrPlaybackUnavailable).
func (p *Player) Play(ctx context.Context, entry model.Entry) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == model.StateActive {
		return model.ErrDeviceBusy
	}

	path, err := resolveLocalRef(entry.FileRef, p.dataDir)
	if err != nil {
		// A remote-only reference has no local fallback here.
		return model.ErrPlaybackUnavailable
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", model.ErrPlaybackUnavailable, path)
	}

	if err := p.coord.acquire(holderPlayer); err != nil {
		return err
	}

	p.gen++
	gen := p.gen
	done := func(playErr error) { p.finished(gen, playErr) }

	if err := p.device.Play(ctx, path, entry.Duration, done); err != nil {
		p.coord.release(holderPlayer)
		if errors.Is(err, model.ErrDecodeFailed) {
			return err
		}
		return fmt.Errorf("%w: %v", model.ErrPlaybackUnavailable, err)
	}

	p.current = entry.ID
	p.setState(model.StateActive)
	return nil
}

// Stop halts playback and returns the session to idle. Stopping an
// idle session is a no-op. The device is stopped and released under
// the session lock: a racing Play cannot observe the idle state
// before the coordinator is free, and cannot acquire the device while
// it is still winding down.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != model.StateActive {
		return
	}
	p.gen++ // discard the pending done callback
	p.current = uuid.Nil

	if err := p.device.Stop(); err != nil {
		p.logger.Error("failed to stop playback device", "error", err)
	}
	p.coord.release(holderPlayer)
	p.setState(model.StateIdle)
}

// Toggle stops playback when entry is already playing; otherwise it
// stops any current playback and starts the requested entry.
func (p *Player) Toggle(ctx context.Context, entry model.Entry) error {
	if current, ok := p.CurrentEntry(); ok && current == entry.ID {
		p.Stop()
		return nil
	}
	p.Stop()
	return p.Play(ctx, entry)
}

// finished handles natural end of playback or a decode error surfaced
// by the device. Stale callbacks from superseded playbacks are
// dropped.
func (p *Player) finished(gen int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen || p.state != model.StateActive {
		return
	}
	p.current = uuid.Nil
	p.coord.release(holderPlayer)
	p.setState(model.StateIdle)

	if err != nil {
		p.logger.Error("playback ended with error", "error", err)
	}
}

// setState must be called with p.mu held.
func (p *Player) setState(state model.SessionState) {
	p.state = state
	if p.listener != nil {
		p.listener.SessionStateChanged(model.SessionPlayback, state)
	}
}
