package domain

import (
	"time"

	"github.com/google/uuid"
)

type JoinRequestStatus string

const (
	JoinRequestStatusPending  JoinRequestStatus = "pending"
	JoinRequestStatusApproved JoinRequestStatus = "approved"
	JoinRequestStatusRejected JoinRequestStatus = "rejected"
)

// JoinRequest gates whether a non-host user may create a participant record.
// It does not by itself grant access to the platform room.
type JoinRequest struct {
	ID          uuid.UUID
	MeetingID   uuid.UUID
	RequesterID uuid.UUID
	DisplayName string
	Status      JoinRequestStatus
	RequestedAt time.Time
	RespondedAt *time.Time
	RespondedBy *uuid.UUID
}

func NewJoinRequest(meetingID, requesterID uuid.UUID, displayName string) *JoinRequest {
	return &JoinRequest{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		RequesterID: requesterID,
		DisplayName: displayName,
		Status:      JoinRequestStatusPending,
		RequestedAt: time.Now().UTC(),
	}
}

// JoinDecision is what the requester polls for.
type JoinDecision struct {
	RequestID uuid.UUID
	Approved  bool
	CanJoin   bool
}
