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

// AccessService runs the request-to-join state machine:
// no-request -> pending -> approved|rejected, with rejected -> pending on
// retry via a fresh row. Hosts bypass the machine entirely.
type AccessService struct {
	meetings repository.MeetingRepository
	requests repository.JoinRequestRepository
	hub      EventPublisher
	log      *slog.Logger
}

func NewAccessService(meetings repository.MeetingRepository, requests repository.JoinRequestRepository, hub EventPublisher, log *slog.Logger) *AccessService {
	if log == nil {
		log = slog.Default()
	}
	return &AccessService{
		meetings: meetings,
		requests: requests,
		hub:      hub,
		log:      log,
	}
}

// RequestJoin is the poll target for the requester. It is idempotent while a
// pending request exists and creates a fresh row after a rejection, leaving
// the rejected row untouched as history.
func (s *AccessService) RequestJoin(ctx context.Context, meetingID uuid.UUID, identity domain.Identity, displayName string) (*domain.JoinDecision, error) {
	const op = "service.access.requestJoin"
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

	if meeting.IsHost(identity.ID) {
		return &domain.JoinDecision{Approved: true, CanJoin: true}, nil
	}

	existing, err := s.requests.Latest(ctx, meetingID, identity.ID)
	if err != nil && !errors.Is(err, repository.ErrJoinRequestNotFound) {
		return nil, err
	}

	if existing != nil {
		switch existing.Status {
		case domain.JoinRequestStatusPending:
			return &domain.JoinDecision{RequestID: existing.ID}, nil
		case domain.JoinRequestStatusApproved:
			return &domain.JoinDecision{RequestID: existing.ID, Approved: true, CanJoin: true}, nil
		case domain.JoinRequestStatusRejected:
			// fall through: a retry after rejection opens a new request
		}
	}

	req := domain.NewJoinRequest(meetingID, identity.ID, displayName)
	if err := s.requests.Create(ctx, req); err != nil {
		log.Error("failed to create join request", sl.Err(err))
		return nil, err
	}

	log.Info("join request created", slog.String("request_id", req.ID.String()))
	return &domain.JoinDecision{RequestID: req.ID}, nil
}

// Respond resolves a pending request. Host only; resolving an already
// resolved request fails.
func (s *AccessService) Respond(ctx context.Context, requestID uuid.UUID, identity domain.Identity, approve bool) (*domain.JoinRequest, error) {
	const op = "service.access.respond"
	log := s.log.With(
		slog.String("op", op),
		slog.String("request_id", requestID.String()),
	)

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	meeting, err := s.meetings.GetByID(ctx, req.MeetingID)
	if err != nil {
		return nil, err
	}

	if !meeting.IsHost(identity.ID) {
		return nil, ErrForbidden
	}
	if req.Status != domain.JoinRequestStatusPending {
		return nil, ErrRequestNotPending
	}

	now := time.Now().UTC()
	responder := identity.ID
	if approve {
		req.Status = domain.JoinRequestStatusApproved
	} else {
		req.Status = domain.JoinRequestStatusRejected
	}
	req.RespondedAt = &now
	req.RespondedBy = &responder

	if err := s.requests.Update(ctx, req); err != nil {
		log.Error("failed to update join request", sl.Err(err))
		return nil, err
	}

	if s.hub != nil {
		s.hub.Publish(events.Event{
			Type:      events.TypeJoinRequest,
			MeetingID: req.MeetingID,
			Payload: map[string]any{
				"request_id":   req.ID.String(),
				"requester_id": req.RequesterID.String(),
				"status":       string(req.Status),
			},
		})
	}

	log.Info("join request resolved", slog.String("status", string(req.Status)))
	return req, nil
}

// ListPending returns pending requests oldest first so the host reviews them
// in arrival order.
func (s *AccessService) ListPending(ctx context.Context, meetingID uuid.UUID, identity domain.Identity) ([]*domain.JoinRequest, error) {
	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if !meeting.IsHost(identity.ID) {
		return nil, ErrForbidden
	}

	return s.requests.ListPending(ctx, meetingID)
}
