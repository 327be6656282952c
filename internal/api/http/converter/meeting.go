package converter

import (
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/domain"
)

type MeetingResponse struct {
	ID                        uuid.UUID  `json:"id"`
	Title                     string     `json:"title"`
	Description               string     `json:"description,omitempty"`
	HostID                    uuid.UUID  `json:"host_id"`
	RoomID                    string     `json:"room_id"`
	Status                    string     `json:"status"`
	AllowParticipantRecording bool       `json:"allow_participant_recording"`
	CreatedAt                 time.Time  `json:"created_at"`
	EndedAt                   *time.Time `json:"ended_at,omitempty"`
}

func MeetingToAPI(m *domain.Meeting) *MeetingResponse {
	return &MeetingResponse{
		ID:                        m.ID,
		Title:                     m.Title,
		Description:               m.Description,
		HostID:                    m.HostID,
		RoomID:                    m.RoomID,
		Status:                    string(m.Status),
		AllowParticipantRecording: m.AllowParticipantRecording,
		CreatedAt:                 m.CreatedAt,
		EndedAt:                   m.EndedAt,
	}
}

func MeetingsToAPI(meetings []*domain.Meeting) []*MeetingResponse {
	result := make([]*MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		result = append(result, MeetingToAPI(m))
	}
	return result
}

type JoinRequestResponse struct {
	ID          uuid.UUID  `json:"id"`
	MeetingID   uuid.UUID  `json:"meeting_id"`
	RequesterID uuid.UUID  `json:"requester_id"`
	DisplayName string     `json:"display_name"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

func JoinRequestToAPI(r *domain.JoinRequest) *JoinRequestResponse {
	return &JoinRequestResponse{
		ID:          r.ID,
		MeetingID:   r.MeetingID,
		RequesterID: r.RequesterID,
		DisplayName: r.DisplayName,
		Status:      string(r.Status),
		RequestedAt: r.RequestedAt,
		RespondedAt: r.RespondedAt,
	}
}

func JoinRequestsToAPI(requests []*domain.JoinRequest) []*JoinRequestResponse {
	result := make([]*JoinRequestResponse, 0, len(requests))
	for _, r := range requests {
		result = append(result, JoinRequestToAPI(r))
	}
	return result
}

type ParticipantResponse struct {
	ID          uuid.UUID  `json:"id"`
	MeetingID   uuid.UUID  `json:"meeting_id"`
	UserID      uuid.UUID  `json:"user_id"`
	Role        string     `json:"role"`
	DisplayName string     `json:"display_name"`
	JoinedAt    time.Time  `json:"joined_at"`
	LeftAt      *time.Time `json:"left_at,omitempty"`
}

func ParticipantToAPI(p *domain.Participant) *ParticipantResponse {
	return &ParticipantResponse{
		ID:          p.ID,
		MeetingID:   p.MeetingID,
		UserID:      p.UserID,
		Role:        string(p.Role),
		DisplayName: p.DisplayName,
		JoinedAt:    p.JoinedAt,
		LeftAt:      p.LeftAt,
	}
}

func ParticipantsToAPI(participants []*domain.Participant) []*ParticipantResponse {
	result := make([]*ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		result = append(result, ParticipantToAPI(p))
	}
	return result
}

type ChatMessageResponse struct {
	ID          uuid.UUID `json:"id"`
	SenderID    uuid.UUID `json:"sender_id"`
	DisplayName string    `json:"display_name"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

func ChatMessageToAPI(m *domain.ChatMessage) *ChatMessageResponse {
	return &ChatMessageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		DisplayName: m.DisplayName,
		Message:     m.Content,
		CreatedAt:   m.CreatedAt,
	}
}

func ChatMessagesToAPI(messages []*domain.ChatMessage) []*ChatMessageResponse {
	result := make([]*ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, ChatMessageToAPI(m))
	}
	return result
}

type FileResponse struct {
	ID          uuid.UUID `json:"id"`
	MeetingID   uuid.UUID `json:"meeting_id"`
	UploaderID  uuid.UUID `json:"uploader_id"`
	DisplayName string    `json:"display_name"`
	FileName    string    `json:"file_name"`
	FileSize    int64     `json:"file_size"`
	MimeType    string    `json:"mime_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

func FileToAPI(f *domain.FileRecord) *FileResponse {
	return &FileResponse{
		ID:          f.ID,
		MeetingID:   f.MeetingID,
		UploaderID:  f.UploaderID,
		DisplayName: f.DisplayName,
		FileName:    f.FileName,
		FileSize:    f.FileSize,
		MimeType:    f.MimeType,
		UploadedAt:  f.UploadedAt,
	}
}

func FilesToAPI(files []*domain.FileRecord) []*FileResponse {
	result := make([]*FileResponse, 0, len(files))
	for _, f := range files {
		result = append(result, FileToAPI(f))
	}
	return result
}
