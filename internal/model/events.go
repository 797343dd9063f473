package model

// SessionKind identifies which audio session emitted an event.
type SessionKind string

const (
	SessionRecording SessionKind = "recording"
	SessionPlayback  SessionKind = "playback"
)

// SessionState is the lifecycle state of an audio session.
type SessionState string

const (
	StateIdle       SessionState = "idle"
	StateRequesting SessionState = "requesting"
	StateActive     SessionState = "active"
)

// StateListener receives session state transitions. Listeners are
// invoked synchronously on the transitioning goroutine and must not
// block or call back into the session.
type StateListener interface {
	SessionStateChanged(kind SessionKind, state SessionState)
}

// StateListenerFunc adapts a function to the StateListener interface.
type StateListenerFunc func(kind SessionKind, state SessionState)

// SessionStateChanged calls f.
func (f StateListenerFunc) SessionStateChanged(kind SessionKind, state SessionState) {
	f(kind, state)
}
