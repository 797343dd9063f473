// Package device provides the host-level audio collaborators: a
// capture device producing m4a container files and a playback device
// consuming them. Both are single-session; the service layer enforces
// the one-session-at-a-time rule across them.
package device

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/alurecine/daily-whisper/internal/model"
)

// m4aHeader is a minimal ftyp box marking the file as an M4A
// container: box size, "ftyp", major brand "M4A ", minor version, and
// compatible brands.
var m4aHeader = []byte{
	0x00, 0x00, 0x00, 0x1C,
	'f', 't', 'y', 'p',
	'M', '4', 'A', ' ',
	0x00, 0x00, 0x00, 0x00,
	'M', '4', 'A', ' ',
	'i', 's', 'o', 'm',
	'm', 'p', '4', '2',
}

var _ model.CaptureDevice = (*Capture)(nil)

// Capture writes an m4a container file on Start and finalizes it on
// Stop. An optional source supplies the audio payload; without one the
// file holds only the container header.
type Capture struct {
	source io.Reader

	mu   sync.Mutex
	file *os.File
}

// NewCapture returns a capture device. source may be nil.
func NewCapture(source io.Reader) *Capture {
	return &Capture{source: source}
}

// Start begins writing the container file at path. Starting while a
// capture is already open returns ErrCaptureUnavailable.
func (c *Capture) Start(_ context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.file != nil {
		return fmt.Errorf("%w: capture already in progress", model.ErrCaptureUnavailable)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrCaptureUnavailable, err)
	}

	if _, err := f.Write(m4aHeader); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", model.ErrCaptureUnavailable, err)
	}
	if c.source != nil {
		if _, err := io.Copy(f, c.source); err != nil {
			f.Close()
			return fmt.Errorf("%w: %v", model.ErrCaptureUnavailable, err)
		}
	}

	c.file = f
	return nil
}

// Stop finalizes the open container file. Stopping an idle device is a
// no-op.
func (c *Capture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.file == nil {
		return nil
	}

	err := c.file.Close()
	c.file = nil
	if err != nil {
		return fmt.Errorf("failed to finalize capture file: %w", err)
	}
	return nil
}
