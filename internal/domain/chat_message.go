package domain

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	ID          uuid.UUID
	MeetingID   uuid.UUID
	SenderID    uuid.UUID
	DisplayName string
	Content     string
	CreatedAt   time.Time
}

func NewChatMessage(meetingID, senderID uuid.UUID, displayName, content string) *ChatMessage {
	return &ChatMessage{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		SenderID:    senderID,
		DisplayName: displayName,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}
}
