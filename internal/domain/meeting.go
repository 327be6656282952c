package domain

import (
	"time"

	"github.com/google/uuid"
)

type MeetingStatus string

const (
	MeetingStatusScheduled MeetingStatus = "scheduled"
	MeetingStatusActive    MeetingStatus = "active"
	MeetingStatusEnded     MeetingStatus = "ended"
)

// Meeting is the control-plane record for a conference. The live media
// session itself lives in the external video platform room referenced by
// RoomID.
type Meeting struct {
	ID                        uuid.UUID
	Title                     string
	Description               string
	HostID                    uuid.UUID
	RoomID                    string
	Status                    MeetingStatus
	AllowParticipantRecording bool
	HiddenForHost             bool
	CreatedAt                 time.Time
	EndedAt                   *time.Time
}

func NewMeeting(title, description string, hostID uuid.UUID, roomID string, allowParticipantRecording bool) *Meeting {
	return &Meeting{
		ID:                        uuid.New(),
		Title:                     title,
		Description:               description,
		HostID:                    hostID,
		RoomID:                    roomID,
		Status:                    MeetingStatusScheduled,
		AllowParticipantRecording: allowParticipantRecording,
		CreatedAt:                 time.Now().UTC(),
	}
}

func (m *Meeting) IsHost(userID uuid.UUID) bool {
	return m != nil && m.HostID == userID
}
