package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/domain"
	"github.com/immxrtalbeast/meetflow/internal/events"
	"github.com/immxrtalbeast/meetflow/internal/repository"
	"github.com/immxrtalbeast/meetflow/lib/logger/sl"
)

// ParticipantService reconciles participant records so that at most one
// active row per (meeting, user) survives any interleaving of tabs,
// refreshes and reconnects, and derives meeting status transitions from
// participant activity. No storage-level transactions are assumed: races
// are tolerated and healed on the next pass instead of prevented.
type ParticipantService struct {
	meetings     repository.MeetingRepository
	requests     repository.JoinRequestRepository
	participants repository.ParticipantRepository
	video        VideoPlatform
	recordings   RecordingAutoStopper
	hub          EventPublisher
	log          *slog.Logger
}

func NewParticipantService(
	meetings repository.MeetingRepository,
	requests repository.JoinRequestRepository,
	participants repository.ParticipantRepository,
	video VideoPlatform,
	recordings RecordingAutoStopper,
	hub EventPublisher,
	log *slog.Logger,
) *ParticipantService {
	if log == nil {
		log = slog.Default()
	}
	return &ParticipantService{
		meetings:     meetings,
		requests:     requests,
		participants: participants,
		video:        video,
		recordings:   recordings,
		hub:          hub,
		log:          log,
	}
}

// Join admits the caller into the meeting. Hosts enter directly; everyone
// else must hold an approved join request. The reconciliation rules:
//
//   - exactly one active row: refresh it in place (rejoin after refresh)
//   - several active rows: close them all, create one fresh row (self-heal)
//   - none: create one
//
// Failing to close stale rows is logged but never blocks the join; failing
// to create the row is fatal.
func (s *ParticipantService) Join(ctx context.Context, meetingID uuid.UUID, identity domain.Identity, displayName string) (*JoinResult, error) {
	const op = "service.participant.join"
	log := s.log.With(
		slog.String("op", op),
		slog.String("meeting_id", meetingID.String()),
		slog.String("user_id", identity.ID.String()),
	)

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, fmt.Errorf("%w: display name is required", ErrInvalidInput)
	}

	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	role := domain.RoleParticipant
	if meeting.IsHost(identity.ID) {
		role = domain.RoleHost
	} else {
		latest, err := s.requests.Latest(ctx, meetingID, identity.ID)
		if err != nil {
			if errors.Is(err, repository.ErrJoinRequestNotFound) {
				return nil, ErrForbidden
			}
			return nil, err
		}
		if latest.Status != domain.JoinRequestStatusApproved {
			return nil, ErrForbidden
		}
	}

	if meeting.Status != domain.MeetingStatusActive {
		if err := s.meetings.UpdateStatus(ctx, meetingID, domain.MeetingStatusActive, nil); err != nil {
			return nil, err
		}
	}

	participant, err := s.reconcile(ctx, log, meetingID, identity.ID, role, displayName)
	if err != nil {
		return nil, err
	}

	token, err := s.video.IssueToken(ctx, meeting.RoomID, identity.ID.String(), string(role))
	if err != nil {
		log.Error("failed to issue room token", sl.Err(err))
		return nil, err
	}

	if s.hub != nil {
		s.hub.Publish(events.Event{
			Type:      events.TypeParticipantJoined,
			MeetingID: meetingID,
			Payload: map[string]any{
				"participant_id": participant.ID.String(),
				"user_id":        participant.UserID.String(),
				"display_name":   participant.DisplayName,
				"role":           string(participant.Role),
			},
		})
	}

	log.Info("participant joined", slog.String("participant_id", participant.ID.String()))

	return &JoinResult{
		Participant: participant,
		RoomID:      meeting.RoomID,
		RoomToken:   token,
	}, nil
}

func (s *ParticipantService) reconcile(ctx context.Context, log *slog.Logger, meetingID, userID uuid.UUID, role domain.ParticipantRole, displayName string) (*domain.Participant, error) {
	active, err := s.participants.Active(ctx, meetingID, userID)
	if err != nil {
		return nil, err
	}

	if len(active) == 1 {
		row := active[0]
		row.Role = role
		row.DisplayName = displayName
		if err := s.participants.Update(ctx, row); err != nil {
			return nil, err
		}
		return row, nil
	}

	if len(active) > 1 {
		log.Warn("duplicate active participant rows, closing all",
			slog.Int("count", len(active)),
		)
		if _, err := s.participants.CloseAll(ctx, meetingID, userID, time.Now().UTC()); err != nil {
			// availability over bookkeeping: the fresh row below supersedes
			// whatever failed to close, and the next pass heals again
			log.Error("failed to close stale participant rows", sl.Err(err))
		}
	}

	participant := domain.NewParticipant(meetingID, userID, role, displayName)
	if err := s.participants.Create(ctx, participant); err != nil {
		log.Error("failed to create participant row", sl.Err(err))
		return nil, err
	}
	return participant, nil
}

// Leave closes the caller's active rows. Idempotent: a second leave finds
// nothing to close and changes nothing. When no active participants remain
// the meeting ends and in-flight recordings are auto-stopped; concurrent
// leaves may both take the end path, which is harmless because the
// transition itself is idempotent.
func (s *ParticipantService) Leave(ctx context.Context, meetingID uuid.UUID, identity domain.Identity) error {
	const op = "service.participant.leave"
	log := s.log.With(
		slog.String("op", op),
		slog.String("meeting_id", meetingID.String()),
		slog.String("user_id", identity.ID.String()),
	)

	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return err
	}

	closed, err := s.participants.CloseAll(ctx, meetingID, identity.ID, time.Now().UTC())
	if err != nil {
		return err
	}
	if closed > 0 {
		log.Info("participant left", slog.Int64("rows_closed", closed))
		if s.hub != nil {
			s.hub.Publish(events.Event{
				Type:      events.TypeParticipantLeft,
				MeetingID: meetingID,
				Payload:   map[string]any{"user_id": identity.ID.String()},
			})
		}
	}

	remaining, err := s.participants.ActiveByMeeting(ctx, meetingID)
	if err != nil {
		return err
	}
	if len(remaining) > 0 || meeting.Status == domain.MeetingStatusEnded {
		return nil
	}

	now := time.Now().UTC()
	if err := s.meetings.UpdateStatus(ctx, meetingID, domain.MeetingStatusEnded, &now); err != nil {
		return err
	}
	log.Info("meeting ended, no active participants remain")

	if s.recordings != nil {
		s.recordings.AutoStopOnMeetingEnd(ctx, meetingID)
	}

	if s.hub != nil {
		s.hub.Publish(events.Event{
			Type:      events.TypeMeetingEnded,
			MeetingID: meetingID,
		})
	}
	return nil
}

// CheckActive returns the caller's current active row, or nil when there is
// none. The client uses it to decide between resuming and a fresh join.
func (s *ParticipantService) CheckActive(ctx context.Context, meetingID uuid.UUID, identity domain.Identity) (*domain.Participant, error) {
	active, err := s.participants.Active(ctx, meetingID, identity.ID)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, nil
	}
	// duplicates are healed on the next Join, not here: this is a read
	return active[len(active)-1], nil
}

// ListActive is the authoritative roster: any live-session peer not matching
// one of these rows should be hidden by the presentation layer.
func (s *ParticipantService) ListActive(ctx context.Context, meetingID uuid.UUID) ([]*domain.Participant, error) {
	if _, err := s.meetings.GetByID(ctx, meetingID); err != nil {
		return nil, err
	}
	return s.participants.ActiveByMeeting(ctx, meetingID)
}
