package domain

import (
	"time"

	"github.com/google/uuid"
)

const MaxFileSize = 10 << 20 // 10MB

type FileRecord struct {
	ID          uuid.UUID
	MeetingID   uuid.UUID
	UploaderID  uuid.UUID
	DisplayName string
	FileName    string
	StoragePath string
	FileSize    int64
	MimeType    string
	UploadedAt  time.Time
}

func NewFileRecord(meetingID, uploaderID uuid.UUID, displayName, fileName, storagePath string, size int64, mimeType string) *FileRecord {
	return &FileRecord{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		UploaderID:  uploaderID,
		DisplayName: displayName,
		FileName:    fileName,
		StoragePath: storagePath,
		FileSize:    size,
		MimeType:    mimeType,
		UploadedAt:  time.Now().UTC(),
	}
}
