package device

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/alurecine/daily-whisper/internal/model"
)

var _ model.PlaybackDevice = (*Playback)(nil)

// Playback validates the container file and signals completion after
// the entry's duration has passed. done fires from a timer goroutine,
// never from the Play call itself.
type Playback struct {
	mu    sync.Mutex
	timer *time.Timer
}

func NewPlayback() *Playback {
	return &Playback{}
}

// Play decodes the file at path and schedules done after duration
// seconds. A file without an m4a container header fails with
// ErrDecodeFailed.
func (p *Playback) Play(_ context.Context, path string, duration float64, done func(error)) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read audio file: %w", err)
	}
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return fmt.Errorf("%w: %s is not an mp4 container", model.ErrDecodeFailed, path)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(time.Duration(duration*float64(time.Second)), func() {
		done(nil)
	})

	return nil
}

// Stop halts playback. The pending done callback is cancelled; a
// stopped playback never signals completion.
func (p *Playback) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	return nil
}
