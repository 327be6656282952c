package model

import (
	"time"

	"github.com/google/uuid"
)

type Meeting struct {
	ID                        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Title                     string     `gorm:"size:255;not null"`
	Description               string     `gorm:"type:text"`
	HostID                    uuid.UUID  `gorm:"type:uuid;index;not null"`
	RoomID                    string     `gorm:"size:64;index;not null"`
	Status                    string     `gorm:"size:32;not null"`
	AllowParticipantRecording bool       `gorm:"not null"`
	HiddenForHost             bool       `gorm:"not null"`
	CreatedAt                 time.Time  `gorm:"not null"`
	EndedAt                   *time.Time `gorm:"index"`
}

type JoinRequest struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	MeetingID   uuid.UUID  `gorm:"type:uuid;index:idx_join_requests_meeting_requester;not null"`
	RequesterID uuid.UUID  `gorm:"type:uuid;index:idx_join_requests_meeting_requester;not null"`
	DisplayName string     `gorm:"size:255;not null"`
	Status      string     `gorm:"size:32;index;not null"`
	RequestedAt time.Time  `gorm:"not null"`
	RespondedAt *time.Time
	RespondedBy *uuid.UUID `gorm:"type:uuid"`
}

type Participant struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	MeetingID   uuid.UUID  `gorm:"type:uuid;index:idx_participants_meeting_user;not null"`
	UserID      uuid.UUID  `gorm:"type:uuid;index:idx_participants_meeting_user;not null"`
	Role        string     `gorm:"size:32;not null"`
	DisplayName string     `gorm:"size:255;not null"`
	JoinedAt    time.Time  `gorm:"not null"`
	LeftAt      *time.Time `gorm:"index"`
}

type ChatMessage struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	MeetingID   uuid.UUID `gorm:"type:uuid;index;not null"`
	SenderID    uuid.UUID `gorm:"type:uuid;not null"`
	DisplayName string    `gorm:"size:255;not null"`
	Content     string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"index;not null"`
}

type FileRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	MeetingID   uuid.UUID `gorm:"type:uuid;index;not null"`
	UploaderID  uuid.UUID `gorm:"type:uuid;not null"`
	DisplayName string    `gorm:"size:255;not null"`
	FileName    string    `gorm:"size:512;not null"`
	StoragePath string    `gorm:"size:1024;not null"`
	FileSize    int64     `gorm:"not null"`
	MimeType    string    `gorm:"size:255"`
	UploadedAt  time.Time `gorm:"not null"`
}

type Recording struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	MeetingID       uuid.UUID  `gorm:"type:uuid;index;not null"`
	ExternalID      string     `gorm:"size:128;index"`
	AssetID         string     `gorm:"size:128"`
	StartedBy       uuid.UUID  `gorm:"type:uuid;not null"`
	DisplayName     string     `gorm:"size:255;not null"`
	Status          string     `gorm:"size:32;index;not null"`
	URL             string     `gorm:"type:text"`
	StartedAt       time.Time  `gorm:"not null"`
	StoppedAt       *time.Time
	StoppedBy       *uuid.UUID `gorm:"type:uuid"`
	AutoStopped     bool       `gorm:"not null"`
	Duration        float64
	FileSize        int64
	StorageProvider string     `gorm:"size:64"`
	FilePath        string     `gorm:"size:1024"`
	UpdatedAt       time.Time  `gorm:"not null"`
}
