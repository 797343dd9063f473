package service

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/alurecine/daily-whisper/internal/model"
)

// MockEntryStore mocks the EntryStore interface
type MockEntryStore struct {
	mock.Mock
}

func (m *MockEntryStore) Create(ctx context.Context, entry model.Entry) (model.Entry, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(model.Entry), args.Error(1)
}

func (m *MockEntryStore) GetByID(ctx context.Context, id uuid.UUID) (model.Entry, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Entry), args.Error(1)
}

func (m *MockEntryStore) All(ctx context.Context) ([]model.Entry, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Entry), args.Error(1)
}

func (m *MockEntryStore) CountInRange(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (int, error) {
	args := m.Called(ctx, ownerID, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockEntryStore) Unsynced(ctx context.Context, ownerID uuid.UUID) ([]model.Entry, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]model.Entry), args.Error(1)
}

func (m *MockEntryStore) SetEmotion(ctx context.Context, id uuid.UUID, emotion model.Emotion) error {
	args := m.Called(ctx, id, emotion)
	return args.Error(0)
}

func (m *MockEntryStore) SetRemoteURL(ctx context.Context, id uuid.UUID, remoteURL string) error {
	args := m.Called(ctx, id, remoteURL)
	return args.Error(0)
}

func (m *MockEntryStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRemoteDatabase mocks the RemoteDatabase interface
type MockRemoteDatabase struct {
	mock.Mock
}

func (m *MockRemoteDatabase) SaveUser(ctx context.Context, user model.UserDTO) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRemoteDatabase) FetchUser(ctx context.Context, id string) (*model.UserDTO, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserDTO), args.Error(1)
}

func (m *MockRemoteDatabase) SaveAudioEntry(ctx context.Context, entry model.AudioEntryDTO) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRemoteDatabase) FetchAudioEntries(ctx context.Context, userID string, limit int) ([]model.AudioEntryDTO, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]model.AudioEntryDTO), args.Error(1)
}

// MockRemoteStorage mocks the RemoteStorage interface
type MockRemoteStorage struct {
	mock.Mock
}

func (m *MockRemoteStorage) Upload(ctx context.Context, data []byte, path, contentType string) (string, error) {
	args := m.Called(ctx, data, path, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockRemoteStorage) UploadFile(ctx context.Context, localPath, path, contentType string) (string, error) {
	args := m.Called(ctx, localPath, path, contentType)
	return args.String(0), args.Error(1)
}

// stubPolicies returns a fixed policy, mutable between calls.
type stubPolicies struct {
	mu     sync.Mutex
	policy model.Policy
}

func newStubPolicies(policy model.Policy) *stubPolicies {
	return &stubPolicies{policy: policy}
}

func (s *stubPolicies) CurrentPolicy() model.Policy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy
}

func (s *stubPolicies) set(policy model.Policy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = policy
}

// fakeCapture is a capture device that materializes the container
// file on start.
type fakeCapture struct {
	mu       sync.Mutex
	startErr error
	content  []byte
	starts   int
	stops    int
	lastPath string
}

func (f *fakeCapture) Start(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	content := f.content
	if content == nil {
		content = []byte("m4a-bytes")
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return err
	}
	f.starts++
	f.lastPath = path
	return nil
}

func (f *fakeCapture) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	return nil
}

// fakePlayback records calls and lets tests fire the done callback.
type fakePlayback struct {
	mu      sync.Mutex
	playErr error
	done    func(error)
	plays   int
	stops   int
}

func (f *fakePlayback) Play(_ context.Context, path string, duration float64, done func(error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.playErr != nil {
		return f.playErr
	}
	f.plays++
	f.done = done
	return nil
}

func (f *fakePlayback) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	return nil
}

func (f *fakePlayback) finish(err error) {
	f.mu.Lock()
	done := f.done
	f.mu.Unlock()
	if done != nil {
		done(err)
	}
}

// blockingPlayback parks inside Stop until released, exposing the
// wind-down window to concurrency tests.
type blockingPlayback struct {
	entered chan struct{}
	release chan struct{}
}

func newBlockingPlayback() *blockingPlayback {
	return &blockingPlayback{entered: make(chan struct{}), release: make(chan struct{})}
}

func (b *blockingPlayback) Play(_ context.Context, _ string, _ float64, _ func(error)) error {
	return nil
}

func (b *blockingPlayback) Stop() error {
	b.entered <- struct{}{}
	<-b.release
	return nil
}

// blockingCapture parks inside Stop until released.
type blockingCapture struct {
	entered chan struct{}
	release chan struct{}
}

func newBlockingCapture() *blockingCapture {
	return &blockingCapture{entered: make(chan struct{}), release: make(chan struct{})}
}

func (b *blockingCapture) Start(_ context.Context, path string) error {
	return os.WriteFile(path, []byte("m4a-bytes"), 0o600)
}

func (b *blockingCapture) Stop() error {
	b.entered <- struct{}{}
	<-b.release
	return nil
}
