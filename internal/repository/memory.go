package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/domain"
)

// In-memory implementations backing tests and local development. Rows are
// stored and returned by value copy so callers never share state with the
// store.

type InMemoryMeetingRepository struct {
	mu       sync.RWMutex
	meetings map[uuid.UUID]domain.Meeting

	// child repositories consulted by ListForUser and Delete
	Participants *InMemoryParticipantRepository
	JoinRequests *InMemoryJoinRequestRepository
}

func NewInMemoryMeetingRepository() *InMemoryMeetingRepository {
	return &InMemoryMeetingRepository{
		meetings: make(map[uuid.UUID]domain.Meeting),
	}
}

func (r *InMemoryMeetingRepository) Create(ctx context.Context, meeting *domain.Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if meeting == nil {
		return errors.New("meeting is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.meetings[meeting.ID] = *meeting
	return nil
}

func (r *InMemoryMeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	meeting, ok := r.meetings[id]
	if !ok {
		return nil, ErrMeetingNotFound
	}
	return &meeting, nil
}

func (r *InMemoryMeetingRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Meeting, 0)
	for _, meeting := range r.meetings {
		m := meeting
		if m.HostID == userID && !m.HiddenForHost {
			result = append(result, &m)
			continue
		}
		if r.Participants != nil {
			if ok, _ := r.Participants.HasAny(ctx, m.ID, userID); ok {
				result = append(result, &m)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryMeetingRepository) Update(ctx context.Context, meeting *domain.Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if meeting == nil {
		return errors.New("meeting is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.meetings[meeting.ID]
	if !ok {
		return ErrMeetingNotFound
	}
	existing.Title = meeting.Title
	existing.Description = meeting.Description
	existing.AllowParticipantRecording = meeting.AllowParticipantRecording
	r.meetings[meeting.ID] = existing
	return nil
}

func (r *InMemoryMeetingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MeetingStatus, endedAt *time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	meeting, ok := r.meetings[id]
	if !ok {
		return ErrMeetingNotFound
	}
	meeting.Status = status
	meeting.EndedAt = endedAt
	r.meetings[id] = meeting
	return nil
}

func (r *InMemoryMeetingRepository) SetHidden(ctx context.Context, id uuid.UUID, hidden bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	meeting, ok := r.meetings[id]
	if !ok {
		return ErrMeetingNotFound
	}
	meeting.HiddenForHost = hidden
	r.meetings[id] = meeting
	return nil
}

func (r *InMemoryMeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.meetings[id]; !ok {
		return ErrMeetingNotFound
	}
	delete(r.meetings, id)
	return nil
}

type InMemoryJoinRequestRepository struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]domain.JoinRequest
}

func NewInMemoryJoinRequestRepository() *InMemoryJoinRequestRepository {
	return &InMemoryJoinRequestRepository{
		requests: make(map[uuid.UUID]domain.JoinRequest),
	}
}

func (r *InMemoryJoinRequestRepository) Create(ctx context.Context, req *domain.JoinRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req == nil {
		return errors.New("join request is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests[req.ID] = *req
	return nil
}

func (r *InMemoryJoinRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.JoinRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, ErrJoinRequestNotFound
	}
	return &req, nil
}

func (r *InMemoryJoinRequestRepository) Latest(ctx context.Context, meetingID, requesterID uuid.UUID) (*domain.JoinRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *domain.JoinRequest
	for _, req := range r.requests {
		if req.MeetingID != meetingID || req.RequesterID != requesterID {
			continue
		}
		req := req
		if latest == nil || req.RequestedAt.After(latest.RequestedAt) {
			latest = &req
		}
	}
	if latest == nil {
		return nil, ErrJoinRequestNotFound
	}
	return latest, nil
}

func (r *InMemoryJoinRequestRepository) ListPending(ctx context.Context, meetingID uuid.UUID) ([]*domain.JoinRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.JoinRequest, 0)
	for _, req := range r.requests {
		if req.MeetingID == meetingID && req.Status == domain.JoinRequestStatusPending {
			req := req
			result = append(result, &req)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RequestedAt.Before(result[j].RequestedAt)
	})
	return result, nil
}

func (r *InMemoryJoinRequestRepository) Update(ctx context.Context, req *domain.JoinRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req == nil {
		return errors.New("join request is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.requests[req.ID]; !ok {
		return ErrJoinRequestNotFound
	}
	r.requests[req.ID] = *req
	return nil
}

func (r *InMemoryJoinRequestRepository) DeleteByRequester(ctx context.Context, meetingID, requesterID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, req := range r.requests {
		if req.MeetingID == meetingID && req.RequesterID == requesterID {
			delete(r.requests, id)
		}
	}
	return nil
}

type InMemoryParticipantRepository struct {
	mu           sync.RWMutex
	participants map[uuid.UUID]domain.Participant
}

func NewInMemoryParticipantRepository() *InMemoryParticipantRepository {
	return &InMemoryParticipantRepository{
		participants: make(map[uuid.UUID]domain.Participant),
	}
}

func (r *InMemoryParticipantRepository) Create(ctx context.Context, p *domain.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == nil {
		return errors.New("participant is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.participants[p.ID] = *p
	return nil
}

func (r *InMemoryParticipantRepository) Active(ctx context.Context, meetingID, userID uuid.UUID) ([]*domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Participant, 0)
	for _, p := range r.participants {
		if p.MeetingID == meetingID && p.UserID == userID && p.LeftAt == nil {
			p := p
			result = append(result, &p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].JoinedAt.Before(result[j].JoinedAt)
	})
	return result, nil
}

func (r *InMemoryParticipantRepository) ActiveByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Participant, 0)
	for _, p := range r.participants {
		if p.MeetingID == meetingID && p.LeftAt == nil {
			p := p
			result = append(result, &p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].JoinedAt.Before(result[j].JoinedAt)
	})
	return result, nil
}

func (r *InMemoryParticipantRepository) Update(ctx context.Context, p *domain.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == nil {
		return errors.New("participant is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.participants[p.ID]; !ok {
		return ErrParticipantNotFound
	}
	r.participants[p.ID] = *p
	return nil
}

func (r *InMemoryParticipantRepository) CloseAll(ctx context.Context, meetingID, userID uuid.UUID, leftAt time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var closed int64
	for id, p := range r.participants {
		if p.MeetingID == meetingID && p.UserID == userID && p.LeftAt == nil {
			t := leftAt
			p.LeftAt = &t
			r.participants[id] = p
			closed++
		}
	}
	return closed, nil
}

func (r *InMemoryParticipantRepository) HasAny(ctx context.Context, meetingID, userID uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.participants {
		if p.MeetingID == meetingID && p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryParticipantRepository) DeleteByUser(ctx context.Context, meetingID, userID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.participants {
		if p.MeetingID == meetingID && p.UserID == userID {
			delete(r.participants, id)
		}
	}
	return nil
}

type InMemoryChatMessageRepository struct {
	mu       sync.RWMutex
	messages map[uuid.UUID]domain.ChatMessage
}

func NewInMemoryChatMessageRepository() *InMemoryChatMessageRepository {
	return &InMemoryChatMessageRepository{
		messages: make(map[uuid.UUID]domain.ChatMessage),
	}
}

func (r *InMemoryChatMessageRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg == nil {
		return errors.New("message is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages[msg.ID] = *msg
	return nil
}

func (r *InMemoryChatMessageRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*domain.ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.ChatMessage, 0)
	for _, msg := range r.messages {
		if msg.MeetingID == meetingID {
			msg := msg
			result = append(result, &msg)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

type InMemoryFileRepository struct {
	mu    sync.RWMutex
	files map[uuid.UUID]domain.FileRecord
}

func NewInMemoryFileRepository() *InMemoryFileRepository {
	return &InMemoryFileRepository{
		files: make(map[uuid.UUID]domain.FileRecord),
	}
}

func (r *InMemoryFileRepository) Create(ctx context.Context, file *domain.FileRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if file == nil {
		return errors.New("file is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.files[file.ID] = *file
	return nil
}

func (r *InMemoryFileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, ok := r.files[id]
	if !ok {
		return nil, ErrFileNotFound
	}
	return &file, nil
}

func (r *InMemoryFileRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*domain.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.FileRecord, 0)
	for _, file := range r.files {
		if file.MeetingID == meetingID {
			file := file
			result = append(result, &file)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UploadedAt.After(result[j].UploadedAt)
	})
	return result, nil
}

func (r *InMemoryFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.files[id]; !ok {
		return ErrFileNotFound
	}
	delete(r.files, id)
	return nil
}

type InMemoryRecordingRepository struct {
	mu         sync.RWMutex
	recordings map[uuid.UUID]domain.Recording
}

func NewInMemoryRecordingRepository() *InMemoryRecordingRepository {
	return &InMemoryRecordingRepository{
		recordings: make(map[uuid.UUID]domain.Recording),
	}
}

func (r *InMemoryRecordingRepository) Create(ctx context.Context, rec *domain.Recording) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec == nil {
		return errors.New("recording is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.recordings[rec.ID] = *rec
	return nil
}

func (r *InMemoryRecordingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Recording, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.recordings[id]
	if !ok {
		return nil, ErrRecordingNotFound
	}
	return &rec, nil
}

func (r *InMemoryRecordingRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*domain.Recording, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Recording, 0)
	for _, rec := range r.recordings {
		if rec.MeetingID == meetingID {
			rec := rec
			result = append(result, &rec)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	return result, nil
}

func (r *InMemoryRecordingRepository) ActiveByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*domain.Recording, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Recording, 0)
	for _, rec := range r.recordings {
		if rec.MeetingID == meetingID && domain.RecordingInProgress(rec.Status) {
			rec := rec
			result = append(result, &rec)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	return result, nil
}

func (r *InMemoryRecordingRepository) Update(ctx context.Context, rec *domain.Recording) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec == nil {
		return errors.New("recording is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.recordings[rec.ID]; !ok {
		return ErrRecordingNotFound
	}
	updated := *rec
	updated.UpdatedAt = time.Now().UTC()
	r.recordings[rec.ID] = updated
	return nil
}
