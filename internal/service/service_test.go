package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/events"
	"github.com/immxrtalbeast/meetflow/internal/platform"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// captureHub records published events for assertions.
type captureHub struct {
	mu     sync.Mutex
	events []events.Event
}

func (h *captureHub) Publish(evt events.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, evt)
}

func (h *captureHub) byType(eventType string) []events.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	var result []events.Event
	for _, evt := range h.events {
		if evt.Type == eventType {
			result = append(result, evt)
		}
	}
	return result
}

// fakeVideoPlatform lets each test wire only the calls it cares about.
// Unwired calls return zero values.
type fakeVideoPlatform struct {
	createRoomFn       func(ctx context.Context, name, description string) (*platform.Room, error)
	issueTokenFn       func(ctx context.Context, roomID, userID, role string) (string, error)
	startRecordingFn   func(ctx context.Context, roomID string) (*platform.Recording, error)
	stopRecordingFn    func(ctx context.Context, recordingID string) (*platform.Recording, error)
	getRecordingFn     func(ctx context.Context, recordingID string) (*platform.Recording, error)
	listRecordingsFn   func(ctx context.Context, roomID string) ([]platform.Recording, error)
	assetDownloadURLFn func(ctx context.Context, assetID string) (string, error)
	fetchAssetFn       func(ctx context.Context, url string) (*platform.AssetPayload, error)

	mu           sync.Mutex
	stoppedIDs   []string
	issuedTokens int
}

func (f *fakeVideoPlatform) CreateRoom(ctx context.Context, name, description string) (*platform.Room, error) {
	if f.createRoomFn != nil {
		return f.createRoomFn(ctx, name, description)
	}
	return &platform.Room{ID: "room-" + uuid.NewString()[:8], Name: name}, nil
}

func (f *fakeVideoPlatform) IssueToken(ctx context.Context, roomID, userID, role string) (string, error) {
	f.mu.Lock()
	f.issuedTokens++
	f.mu.Unlock()
	if f.issueTokenFn != nil {
		return f.issueTokenFn(ctx, roomID, userID, role)
	}
	return "token-" + role, nil
}

func (f *fakeVideoPlatform) StartRecording(ctx context.Context, roomID string) (*platform.Recording, error) {
	if f.startRecordingFn != nil {
		return f.startRecordingFn(ctx, roomID)
	}
	return &platform.Recording{ID: "rec-" + uuid.NewString()[:8], RoomID: roomID, Status: "recording"}, nil
}

func (f *fakeVideoPlatform) StopRecording(ctx context.Context, recordingID string) (*platform.Recording, error) {
	f.mu.Lock()
	f.stoppedIDs = append(f.stoppedIDs, recordingID)
	f.mu.Unlock()
	if f.stopRecordingFn != nil {
		return f.stopRecordingFn(ctx, recordingID)
	}
	return &platform.Recording{ID: recordingID, Status: "stopped"}, nil
}

func (f *fakeVideoPlatform) GetRecording(ctx context.Context, recordingID string) (*platform.Recording, error) {
	if f.getRecordingFn != nil {
		return f.getRecordingFn(ctx, recordingID)
	}
	return &platform.Recording{ID: recordingID, Status: "stopped"}, nil
}

func (f *fakeVideoPlatform) ListRecordings(ctx context.Context, roomID string) ([]platform.Recording, error) {
	if f.listRecordingsFn != nil {
		return f.listRecordingsFn(ctx, roomID)
	}
	return nil, nil
}

func (f *fakeVideoPlatform) AssetDownloadURL(ctx context.Context, assetID string) (string, error) {
	if f.assetDownloadURLFn != nil {
		return f.assetDownloadURLFn(ctx, assetID)
	}
	return "", platform.ErrNoAssetURL
}

func (f *fakeVideoPlatform) FetchAsset(ctx context.Context, url string) (*platform.AssetPayload, error) {
	if f.fetchAssetFn != nil {
		return f.fetchAssetFn(ctx, url)
	}
	return nil, platform.ErrNotFound
}

func (f *fakeVideoPlatform) stopped() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.stoppedIDs...)
}

type fakeStorage struct {
	uploadFn    func(ctx context.Context, path string, r io.Reader, contentType string) error
	signedURLFn func(ctx context.Context, path string, ttl time.Duration) (string, error)
	removeFn    func(ctx context.Context, path string) error
}

func (f *fakeStorage) Upload(ctx context.Context, path string, r io.Reader, contentType string) error {
	if f.uploadFn != nil {
		return f.uploadFn(ctx, path, r, contentType)
	}
	return nil
}

func (f *fakeStorage) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	if f.signedURLFn != nil {
		return f.signedURLFn(ctx, path, ttl)
	}
	return "https://storage.example.com/signed/" + path, nil
}

func (f *fakeStorage) Remove(ctx context.Context, path string) error {
	if f.removeFn != nil {
		return f.removeFn(ctx, path)
	}
	return nil
}

// autoStopRecorder records AutoStopOnMeetingEnd calls.
type autoStopRecorder struct {
	mu    sync.Mutex
	calls []uuid.UUID
}

func (r *autoStopRecorder) AutoStopOnMeetingEnd(ctx context.Context, meetingID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, meetingID)
}

func (r *autoStopRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type readCloser struct {
	io.Reader
	closed bool
}

func (rc *readCloser) Close() error {
	rc.closed = true
	return nil
}
