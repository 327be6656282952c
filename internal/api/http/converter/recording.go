package converter

import (
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/domain"
)

type RecordingResponse struct {
	ID          uuid.UUID  `json:"id"`
	MeetingID   uuid.UUID  `json:"meeting_id"`
	StartedBy   uuid.UUID  `json:"started_by"`
	DisplayName string     `json:"display_name"`
	Status      string     `json:"status"`
	URL         string     `json:"url,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	StoppedAt   *time.Time `json:"stopped_at,omitempty"`
	AutoStopped bool       `json:"auto_stopped"`
	Duration    float64    `json:"duration,omitempty"`
	FileSize    int64      `json:"file_size,omitempty"`
}

func RecordingToAPI(r *domain.Recording) *RecordingResponse {
	return &RecordingResponse{
		ID:          r.ID,
		MeetingID:   r.MeetingID,
		StartedBy:   r.StartedBy,
		DisplayName: r.DisplayName,
		Status:      r.Status,
		URL:         r.URL,
		StartedAt:   r.StartedAt,
		StoppedAt:   r.StoppedAt,
		AutoStopped: r.AutoStopped,
		Duration:    r.Duration,
		FileSize:    r.FileSize,
	}
}

func RecordingsToAPI(recordings []*domain.Recording) []*RecordingResponse {
	result := make([]*RecordingResponse, 0, len(recordings))
	for _, r := range recordings {
		result = append(result, RecordingToAPI(r))
	}
	return result
}
