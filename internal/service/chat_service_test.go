package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/domain"
	"github.com/immxrtalbeast/meetflow/internal/events"
	"github.com/immxrtalbeast/meetflow/internal/repository"
	"github.com/stretchr/testify/require"
)

func newChatFixture(t *testing.T) (*ChatService, *repository.InMemoryMeetingRepository, *captureHub) {
	t.Helper()
	meetings := repository.NewInMemoryMeetingRepository()
	messages := repository.NewInMemoryChatMessageRepository()
	hub := &captureHub{}
	return NewChatService(meetings, messages, hub, testLogger()), meetings, hub
}

func TestSendMessage(t *testing.T) {
	svc, meetings, hub := newChatFixture(t)
	meeting := seedMeeting(t, meetings, uuid.New())
	sender := domain.Identity{ID: uuid.New()}

	msg, err := svc.Send(context.Background(), meeting.ID, sender, "Alice", "  hello  ")
	require.NoError(t, err)
	require.Equal(t, "hello", msg.Content)
	require.Equal(t, sender.ID, msg.SenderID)

	published := hub.byType(events.TypeChat)
	require.Len(t, published, 1)
	require.Equal(t, "hello", published[0].Payload["message"])
}

func TestSendMessage_Validation(t *testing.T) {
	svc, meetings, _ := newChatFixture(t)
	meeting := seedMeeting(t, meetings, uuid.New())
	sender := domain.Identity{ID: uuid.New()}

	_, err := svc.Send(context.Background(), meeting.ID, sender, "Alice", "   ")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Send(context.Background(), meeting.ID, sender, "Alice", strings.Repeat("a", maxChatMessageLength+1))
	require.ErrorIs(t, err, ErrInvalidInput)

	// multi-byte runes count as one character each
	_, err = svc.Send(context.Background(), meeting.ID, sender, "Alice", strings.Repeat("я", maxChatMessageLength))
	require.NoError(t, err)
}

func TestListMessages_ChronologicalOrder(t *testing.T) {
	svc, meetings, _ := newChatFixture(t)
	meeting := seedMeeting(t, meetings, uuid.New())
	sender := domain.Identity{ID: uuid.New()}

	for _, text := range []string{"first", "second", "third"} {
		_, err := svc.Send(context.Background(), meeting.ID, sender, "Alice", text)
		require.NoError(t, err)
	}

	listed, err := svc.List(context.Background(), meeting.ID, sender)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	require.Equal(t, "first", listed[0].Content)
	require.Equal(t, "third", listed[2].Content)
}

func TestSendMessage_UnknownMeeting(t *testing.T) {
	svc, _, _ := newChatFixture(t)

	_, err := svc.Send(context.Background(), uuid.New(), domain.Identity{ID: uuid.New()}, "Alice", "hello")
	require.ErrorIs(t, err, repository.ErrMeetingNotFound)
}
