package model

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDeviceBusy is returned when the audio device is held by the
	// other session (recording vs playback cross-exclusion).
	ErrDeviceBusy = errors.New("audio device busy")

	// ErrQuotaExceeded is returned when the daily entry cap for the
	// current tier has been reached.
	ErrQuotaExceeded = errors.New("daily entry quota exceeded")

	// ErrCaptureUnavailable is returned when the capture device could
	// not be acquired.
	ErrCaptureUnavailable = errors.New("capture device unavailable")

	// ErrPlaybackUnavailable is returned when an entry's stored
	// reference cannot be resolved to an existing local file.
	ErrPlaybackUnavailable = errors.New("playback source unavailable")

	// ErrDecodeFailed is returned when the audio container is corrupt.
	ErrDecodeFailed = errors.New("audio decode failed")

	// ErrSourceUnavailable is returned by the sync engine when the
	// local source file for an entry is missing.
	ErrSourceUnavailable = errors.New("sync source file missing")

	// ErrTransient marks a network or storage failure during upload.
	// The caller decides whether to retry.
	ErrTransient = errors.New("transient sync failure")

	// ErrPersistenceFailure is returned when a local metadata write
	// fails after a successful capture.
	ErrPersistenceFailure = errors.New("local persistence failed")

	// ErrEmotionSet is returned when an entry's emotion tag is
	// assigned a second time.
	ErrEmotionSet = errors.New("emotion already set")
)
