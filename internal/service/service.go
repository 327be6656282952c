package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/domain"
	"github.com/immxrtalbeast/meetflow/internal/events"
	"github.com/immxrtalbeast/meetflow/internal/platform"
)

var (
	// ErrInvalidInput marks expected client mistakes; controllers map it to 400.
	ErrInvalidInput = errors.New("invalid input")
	// ErrForbidden means the identity is valid but the role is insufficient.
	ErrForbidden = errors.New("forbidden")
	// ErrRequestNotPending is returned when approving/denying an already
	// resolved join request.
	ErrRequestNotPending = errors.New("join request is not pending")
	// ErrRecordingInProgress guards against duplicate recording starts.
	ErrRecordingInProgress = errors.New("recording already in progress")
	// ErrNoActiveRecording means a stop call found nothing to stop.
	ErrNoActiveRecording = errors.New("no active recording")
	// ErrRecordingNotReady is the retryable "asset not finalized yet"
	// condition, not a failure.
	ErrRecordingNotReady = errors.New("recording not ready")
)

type MeetingInteractor interface {
	Create(ctx context.Context, identity domain.Identity, title, description string, allowParticipantRecording bool) (*domain.Meeting, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Meeting, error)
	List(ctx context.Context, identity domain.Identity) ([]*domain.Meeting, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, identity domain.Identity, title, description string, allowParticipantRecording *bool) (*domain.Meeting, error)
	Hide(ctx context.Context, id uuid.UUID, identity domain.Identity) error
	Remove(ctx context.Context, id uuid.UUID, identity domain.Identity) error
}

type AccessInteractor interface {
	RequestJoin(ctx context.Context, meetingID uuid.UUID, identity domain.Identity, displayName string) (*domain.JoinDecision, error)
	Respond(ctx context.Context, requestID uuid.UUID, identity domain.Identity, approve bool) (*domain.JoinRequest, error)
	ListPending(ctx context.Context, meetingID uuid.UUID, identity domain.Identity) ([]*domain.JoinRequest, error)
}

// JoinResult is what a successful join hands back to the client: the
// reconciled participant row plus the platform credentials for the live room.
type JoinResult struct {
	Participant *domain.Participant
	RoomID      string
	RoomToken   string
}

type ParticipantInteractor interface {
	Join(ctx context.Context, meetingID uuid.UUID, identity domain.Identity, displayName string) (*JoinResult, error)
	Leave(ctx context.Context, meetingID uuid.UUID, identity domain.Identity) error
	CheckActive(ctx context.Context, meetingID uuid.UUID, identity domain.Identity) (*domain.Participant, error)
	ListActive(ctx context.Context, meetingID uuid.UUID) ([]*domain.Participant, error)
}

type ChatInteractor interface {
	Send(ctx context.Context, meetingID uuid.UUID, identity domain.Identity, displayName, content string) (*domain.ChatMessage, error)
	List(ctx context.Context, meetingID uuid.UUID, identity domain.Identity) ([]*domain.ChatMessage, error)
}

type FileInteractor interface {
	Upload(ctx context.Context, meetingID uuid.UUID, identity domain.Identity, displayName, fileName, mimeType string, size int64, r io.Reader) (*domain.FileRecord, error)
	List(ctx context.Context, meetingID uuid.UUID, identity domain.Identity) ([]*domain.FileRecord, error)
	DownloadURL(ctx context.Context, fileID uuid.UUID, identity domain.Identity) (string, error)
	Delete(ctx context.Context, fileID uuid.UUID, identity domain.Identity) error
}

// DownloadResult is a validated media stream ready to proxy to the client.
type DownloadResult struct {
	ContentType string
	Size        int64
	FileName    string
	Body        io.ReadCloser
}

type RecordingInteractor interface {
	Start(ctx context.Context, meetingID uuid.UUID, identity domain.Identity, displayName string) (*domain.Recording, error)
	Stop(ctx context.Context, meetingID uuid.UUID, identity domain.Identity, recordingID *uuid.UUID) (*domain.Recording, error)
	List(ctx context.Context, meetingID uuid.UUID, identity domain.Identity) ([]*domain.Recording, error)
	ResolveDownload(ctx context.Context, meetingID, recordingID uuid.UUID, identity domain.Identity) (*DownloadResult, error)
	FetchInsights(ctx context.Context, meetingID, recordingID uuid.UUID, identity domain.Identity) (*domain.Insights, error)
	AutoStopOnMeetingEnd(ctx context.Context, meetingID uuid.UUID)
}

// RecordingAutoStopper is the slice of the recording pipeline the participant
// reconciler needs when the last participant leaves.
type RecordingAutoStopper interface {
	AutoStopOnMeetingEnd(ctx context.Context, meetingID uuid.UUID)
}

// VideoPlatform is the external video SaaS the control plane drives.
type VideoPlatform interface {
	CreateRoom(ctx context.Context, name, description string) (*platform.Room, error)
	IssueToken(ctx context.Context, roomID, userID, role string) (string, error)
	StartRecording(ctx context.Context, roomID string) (*platform.Recording, error)
	StopRecording(ctx context.Context, recordingID string) (*platform.Recording, error)
	GetRecording(ctx context.Context, recordingID string) (*platform.Recording, error)
	ListRecordings(ctx context.Context, roomID string) ([]platform.Recording, error)
	AssetDownloadURL(ctx context.Context, assetID string) (string, error)
	FetchAsset(ctx context.Context, url string) (*platform.AssetPayload, error)
}

// ObjectStorage is the auth backend's object store.
type ObjectStorage interface {
	Upload(ctx context.Context, path string, r io.Reader, contentType string) error
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
	Remove(ctx context.Context, path string) error
}

// EventPublisher fans meeting events out to connected clients. Publishing is
// fire-and-forget; polling endpoints remain authoritative.
type EventPublisher interface {
	Publish(evt events.Event)
}
