package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/domain"
	"github.com/immxrtalbeast/meetflow/internal/events"
	"github.com/immxrtalbeast/meetflow/internal/repository"
	"github.com/immxrtalbeast/meetflow/lib/logger/sl"
)

const maxChatMessageLength = 2000

type ChatService struct {
	meetings repository.MeetingRepository
	messages repository.ChatMessageRepository
	hub      EventPublisher
	log      *slog.Logger
}

func NewChatService(meetings repository.MeetingRepository, messages repository.ChatMessageRepository, hub EventPublisher, log *slog.Logger) *ChatService {
	if log == nil {
		log = slog.Default()
	}
	return &ChatService{
		meetings: meetings,
		messages: messages,
		hub:      hub,
		log:      log,
	}
}

func (s *ChatService) Send(ctx context.Context, meetingID uuid.UUID, identity domain.Identity, displayName, content string) (*domain.ChatMessage, error) {
	const op = "service.chat.send"
	log := s.log.With(
		slog.String("op", op),
		slog.String("meeting_id", meetingID.String()),
	)

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", ErrInvalidInput)
	}
	if utf8.RuneCountInString(content) > maxChatMessageLength {
		return nil, fmt.Errorf("%w: message is too long", ErrInvalidInput)
	}

	if _, err := s.meetings.GetByID(ctx, meetingID); err != nil {
		return nil, err
	}

	msg := domain.NewChatMessage(meetingID, identity.ID, strings.TrimSpace(displayName), content)
	if err := s.messages.Create(ctx, msg); err != nil {
		log.Error("failed to save chat message", sl.Err(err))
		return nil, err
	}

	if s.hub != nil {
		s.hub.Publish(events.Event{
			Type:      events.TypeChat,
			MeetingID: meetingID,
			Payload: map[string]any{
				"id":        msg.ID.String(),
				"sender":    msg.DisplayName,
				"message":   msg.Content,
				"timestamp": msg.CreatedAt.UTC().Format(time.RFC3339Nano),
			},
		})
	}

	return msg, nil
}

func (s *ChatService) List(ctx context.Context, meetingID uuid.UUID, identity domain.Identity) ([]*domain.ChatMessage, error) {
	if _, err := s.meetings.GetByID(ctx, meetingID); err != nil {
		return nil, err
	}
	return s.messages.ListByMeeting(ctx, meetingID)
}
