package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/domain"
	"github.com/immxrtalbeast/meetflow/internal/repository"
	"github.com/immxrtalbeast/meetflow/lib/logger/sl"
)

type MeetingService struct {
	meetings     repository.MeetingRepository
	requests     repository.JoinRequestRepository
	participants repository.ParticipantRepository
	video        VideoPlatform
	log          *slog.Logger
}

func NewMeetingService(
	meetings repository.MeetingRepository,
	requests repository.JoinRequestRepository,
	participants repository.ParticipantRepository,
	video VideoPlatform,
	log *slog.Logger,
) *MeetingService {
	if log == nil {
		log = slog.Default()
	}
	return &MeetingService{
		meetings:     meetings,
		requests:     requests,
		participants: participants,
		video:        video,
		log:          log,
	}
}

// Create provisions the platform room first, then the local row. A meeting
// without a room is useless, so the order is not negotiable.
func (s *MeetingService) Create(ctx context.Context, identity domain.Identity, title, description string, allowParticipantRecording bool) (*domain.Meeting, error) {
	const op = "service.meeting.create"
	log := s.log.With(
		slog.String("op", op),
		slog.String("host_id", identity.ID.String()),
	)

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	room, err := s.video.CreateRoom(ctx, title, description)
	if err != nil {
		log.Error("failed to create platform room", sl.Err(err))
		return nil, err
	}

	meeting := domain.NewMeeting(title, description, identity.ID, room.ID, allowParticipantRecording)
	if err := s.meetings.Create(ctx, meeting); err != nil {
		log.Error("failed to persist meeting", sl.Err(err))
		return nil, err
	}

	log.Info("meeting created",
		slog.String("meeting_id", meeting.ID.String()),
		slog.String("room_id", room.ID),
	)
	return meeting, nil
}

func (s *MeetingService) Get(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	return s.meetings.GetByID(ctx, id)
}

func (s *MeetingService) List(ctx context.Context, identity domain.Identity) ([]*domain.Meeting, error) {
	return s.meetings.ListForUser(ctx, identity.ID)
}

// UpdateSettings mutates title/description/recording permission. Host only.
// Nil allowParticipantRecording leaves the flag untouched.
func (s *MeetingService) UpdateSettings(ctx context.Context, id uuid.UUID, identity domain.Identity, title, description string, allowParticipantRecording *bool) (*domain.Meeting, error) {
	meeting, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !meeting.IsHost(identity.ID) {
		return nil, ErrForbidden
	}

	if title = strings.TrimSpace(title); title != "" {
		meeting.Title = title
	}
	if description != "" {
		meeting.Description = description
	}
	if allowParticipantRecording != nil {
		meeting.AllowParticipantRecording = *allowParticipantRecording
	}

	if err := s.meetings.Update(ctx, meeting); err != nil {
		return nil, err
	}
	return meeting, nil
}

// Hide removes the meeting from the host's list without deleting anything.
func (s *MeetingService) Hide(ctx context.Context, id uuid.UUID, identity domain.Identity) error {
	meeting, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !meeting.IsHost(identity.ID) {
		return ErrForbidden
	}
	return s.meetings.SetHidden(ctx, id, true)
}

// Remove is host hard-delete (meeting plus every child row) or, for anyone
// else, unlinking only the caller's own participant and join-request rows.
func (s *MeetingService) Remove(ctx context.Context, id uuid.UUID, identity domain.Identity) error {
	const op = "service.meeting.remove"
	log := s.log.With(
		slog.String("op", op),
		slog.String("meeting_id", id.String()),
		slog.String("user_id", identity.ID.String()),
	)

	meeting, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if meeting.IsHost(identity.ID) {
		if err := s.meetings.Delete(ctx, id); err != nil {
			log.Error("failed to delete meeting", sl.Err(err))
			return err
		}
		log.Info("meeting deleted by host")
		return nil
	}

	if err := s.participants.DeleteByUser(ctx, id, identity.ID); err != nil {
		return err
	}
	if err := s.requests.DeleteByRequester(ctx, id, identity.ID); err != nil {
		return err
	}
	log.Info("meeting unlinked from user")
	return nil
}
