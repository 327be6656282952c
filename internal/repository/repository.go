package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/domain"
)

type MeetingRepository interface {
	Create(ctx context.Context, meeting *domain.Meeting) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error)
	// ListForUser returns meetings hosted by the user (excluding hidden ones)
	// plus meetings the user has ever been a participant of, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Meeting, error)
	Update(ctx context.Context, meeting *domain.Meeting) error
	// UpdateStatus flips the lifecycle status. Setting the same status twice
	// is a no-op, which keeps concurrent end-transitions harmless.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MeetingStatus, endedAt *time.Time) error
	SetHidden(ctx context.Context, id uuid.UUID, hidden bool) error
	// Delete removes the meeting and all its child rows.
	Delete(ctx context.Context, id uuid.UUID) error
}

type JoinRequestRepository interface {
	Create(ctx context.Context, req *domain.JoinRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.JoinRequest, error)
	// Latest returns the most recently requested row for (meeting, requester),
	// or ErrJoinRequestNotFound when the user never asked.
	Latest(ctx context.Context, meetingID, requesterID uuid.UUID) (*domain.JoinRequest, error)
	ListPending(ctx context.Context, meetingID uuid.UUID) ([]*domain.JoinRequest, error)
	Update(ctx context.Context, req *domain.JoinRequest) error
	DeleteByRequester(ctx context.Context, meetingID, requesterID uuid.UUID) error
}

type ParticipantRepository interface {
	Create(ctx context.Context, p *domain.Participant) error
	// Active returns all rows with left_at IS NULL for (meeting, user). More
	// than one element means a join race leaked duplicates; the reconciler
	// self-heals from it.
	Active(ctx context.Context, meetingID, userID uuid.UUID) ([]*domain.Participant, error)
	ActiveByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*domain.Participant, error)
	Update(ctx context.Context, p *domain.Participant) error
	// CloseAll sets left_at on every active row of the user in the meeting
	// and reports how many rows it closed.
	CloseAll(ctx context.Context, meetingID, userID uuid.UUID, leftAt time.Time) (int64, error)
	// HasAny reports whether the user has any participant row, active or not.
	HasAny(ctx context.Context, meetingID, userID uuid.UUID) (bool, error)
	DeleteByUser(ctx context.Context, meetingID, userID uuid.UUID) error
}

type ChatMessageRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) error
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*domain.ChatMessage, error)
}

type FileRepository interface {
	Create(ctx context.Context, file *domain.FileRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error)
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*domain.FileRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type RecordingRepository interface {
	Create(ctx context.Context, rec *domain.Recording) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Recording, error)
	// ListByMeeting returns recordings newest first.
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*domain.Recording, error)
	// ActiveByMeeting returns rows whose status is one of the in-progress
	// statuses, newest first.
	ActiveByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*domain.Recording, error)
	Update(ctx context.Context, rec *domain.Recording) error
}
