package domain

import (
	"time"

	"github.com/google/uuid"
)

type ParticipantRole string

const (
	RoleHost        ParticipantRole = "host"
	RoleParticipant ParticipantRole = "participant"
)

// Participant is one attendance span of a user inside a meeting. A row with
// LeftAt == nil is an active participant; the store must converge on at most
// one such row per (meeting, user).
type Participant struct {
	ID          uuid.UUID
	MeetingID   uuid.UUID
	UserID      uuid.UUID
	Role        ParticipantRole
	DisplayName string
	JoinedAt    time.Time
	LeftAt      *time.Time
}

func NewParticipant(meetingID, userID uuid.UUID, role ParticipantRole, displayName string) *Participant {
	return &Participant{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		UserID:      userID,
		Role:        role,
		DisplayName: displayName,
		JoinedAt:    time.Now().UTC(),
	}
}

func (p *Participant) IsActive() bool {
	return p != nil && p.LeftAt == nil
}
