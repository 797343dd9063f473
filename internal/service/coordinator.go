package service

import (
	"sync"

	"github.com/alurecine/daily-whisper/internal/model"
)

// holder identifies a session currently owning the audio device.
type holder string

const (
	holderNone     holder = ""
	holderRecorder holder = "recorder"
	holderPlayer   holder = "player"
)

// Coordinator arbitrates the single audio device between the
// recording and playback sessions. At most one session holds the
// device at any time; the other session's acquire is rejected rather
// than queued.
type Coordinator struct {
	mu      sync.Mutex
	current holder
}

// NewCoordinator returns a Coordinator with the device free.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

func (c *Coordinator) acquire(h holder) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != holderNone && c.current != h {
		return model.ErrDeviceBusy
	}
	c.current = h
	return nil
}

func (c *Coordinator) release(h holder) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == h {
		c.current = holderNone
	}
}

// Busy reports whether any session currently holds the device.
func (c *Coordinator) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != holderNone
}
