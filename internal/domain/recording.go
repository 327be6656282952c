package domain

import (
	"time"

	"github.com/google/uuid"
)

// Recording statuses mirror the external platform's recording lifecycle and
// are stored as-is. Local state is always a lagging copy; the sync pass in
// the recording service is the only writer outside explicit start/stop.
const (
	RecordingStatusStarting  = "starting"
	RecordingStatusRecording = "recording"
	RecordingStatusRunning   = "running"
	RecordingStatusStopped   = "stopped"
	RecordingStatusCompleted = "completed"
	RecordingStatusFailed    = "failed"
)

// RecordingInProgress reports whether a status counts as "the active
// recording" for duplicate-start checks and auto-stop sweeps.
func RecordingInProgress(status string) bool {
	switch status {
	case RecordingStatusStarting, RecordingStatusRecording, RecordingStatusRunning:
		return true
	}
	return false
}

type Recording struct {
	ID              uuid.UUID
	MeetingID       uuid.UUID
	ExternalID      string // platform recording id, empty until the platform responds
	AssetID         string // refreshed opportunistically on every sync pass
	StartedBy       uuid.UUID
	DisplayName     string
	Status          string
	URL             string // resolved playable/download link, empty until available
	StartedAt       time.Time
	StoppedAt       *time.Time
	StoppedBy       *uuid.UUID
	AutoStopped     bool
	Duration        float64
	FileSize        int64
	StorageProvider string
	FilePath        string
	UpdatedAt       time.Time
}

func NewRecording(meetingID uuid.UUID, externalID string, startedBy uuid.UUID, displayName, status string) *Recording {
	if status == "" {
		status = RecordingStatusStarting
	}
	now := time.Now().UTC()
	return &Recording{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		ExternalID:  externalID,
		StartedBy:   startedBy,
		DisplayName: displayName,
		Status:      status,
		StartedAt:   now,
		UpdatedAt:   now,
	}
}

// Insights is the normalized text extracted from a recording's
// transcript/summary assets. Empty fields mean "not available yet".
type Insights struct {
	Transcript string
	Summary    string
}
