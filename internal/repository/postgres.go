package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/domain"
	"github.com/immxrtalbeast/meetflow/internal/repository/model"
	"gorm.io/gorm"
)

type PostgresMeetingRepository struct {
	db *gorm.DB
}

func NewPostgresMeetingRepository(db *gorm.DB) *PostgresMeetingRepository {
	return &PostgresMeetingRepository{db: db}
}

func (r *PostgresMeetingRepository) Create(ctx context.Context, meeting *domain.Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if meeting == nil {
		return errors.New("meeting is nil")
	}
	return r.db.WithContext(ctx).Create(toModelMeeting(meeting)).Error
}

func (r *PostgresMeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var meeting model.Meeting
	err := r.db.WithContext(ctx).First(&meeting, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, err
	}

	return toDomainMeeting(&meeting), nil
}

func (r *PostgresMeetingRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var meetings []model.Meeting
	err := r.db.WithContext(ctx).
		Where("(host_id = ? AND hidden_for_host = ?) OR id IN (?)",
			userID, false,
			r.db.Model(&model.Participant{}).Select("meeting_id").Where("user_id = ?", userID),
		).
		Order("created_at DESC").
		Find(&meetings).Error
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Meeting, 0, len(meetings))
	for i := range meetings {
		result = append(result, toDomainMeeting(&meetings[i]))
	}
	return result, nil
}

func (r *PostgresMeetingRepository) Update(ctx context.Context, meeting *domain.Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if meeting == nil {
		return errors.New("meeting is nil")
	}

	res := r.db.WithContext(ctx).Model(&model.Meeting{}).Where("id = ?", meeting.ID).Updates(map[string]any{
		"title":                       meeting.Title,
		"description":                 meeting.Description,
		"allow_participant_recording": meeting.AllowParticipantRecording,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMeetingNotFound
	}
	return nil
}

func (r *PostgresMeetingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MeetingStatus, endedAt *time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	updates := map[string]any{"status": string(status)}
	if endedAt == nil {
		updates["ended_at"] = gorm.Expr("NULL")
	} else {
		updates["ended_at"] = endedAt
	}

	res := r.db.WithContext(ctx).Model(&model.Meeting{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMeetingNotFound
	}
	return nil
}

func (r *PostgresMeetingRepository) SetHidden(ctx context.Context, id uuid.UUID, hidden bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Model(&model.Meeting{}).Where("id = ?", id).Update("hidden_for_host", hidden)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMeetingNotFound
	}
	return nil
}

func (r *PostgresMeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []any{
			&model.JoinRequest{}, &model.Participant{}, &model.ChatMessage{},
			&model.FileRecord{}, &model.Recording{},
		} {
			if err := tx.Where("meeting_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}

		res := tx.Delete(&model.Meeting{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrMeetingNotFound
		}
		return nil
	})
}

type PostgresJoinRequestRepository struct {
	db *gorm.DB
}

func NewPostgresJoinRequestRepository(db *gorm.DB) *PostgresJoinRequestRepository {
	return &PostgresJoinRequestRepository{db: db}
}

func (r *PostgresJoinRequestRepository) Create(ctx context.Context, req *domain.JoinRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req == nil {
		return errors.New("join request is nil")
	}
	return r.db.WithContext(ctx).Create(toModelJoinRequest(req)).Error
}

func (r *PostgresJoinRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.JoinRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var req model.JoinRequest
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJoinRequestNotFound
		}
		return nil, err
	}
	return toDomainJoinRequest(&req), nil
}

func (r *PostgresJoinRequestRepository) Latest(ctx context.Context, meetingID, requesterID uuid.UUID) (*domain.JoinRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var req model.JoinRequest
	err := r.db.WithContext(ctx).
		Where("meeting_id = ? AND requester_id = ?", meetingID, requesterID).
		Order("requested_at DESC").
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJoinRequestNotFound
		}
		return nil, err
	}
	return toDomainJoinRequest(&req), nil
}

func (r *PostgresJoinRequestRepository) ListPending(ctx context.Context, meetingID uuid.UUID) ([]*domain.JoinRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var reqs []model.JoinRequest
	err := r.db.WithContext(ctx).
		Where("meeting_id = ? AND status = ?", meetingID, string(domain.JoinRequestStatusPending)).
		Order("requested_at ASC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}

	result := make([]*domain.JoinRequest, 0, len(reqs))
	for i := range reqs {
		result = append(result, toDomainJoinRequest(&reqs[i]))
	}
	return result, nil
}

func (r *PostgresJoinRequestRepository) Update(ctx context.Context, req *domain.JoinRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req == nil {
		return errors.New("join request is nil")
	}

	updates := map[string]any{
		"status": string(req.Status),
	}
	if req.RespondedAt == nil {
		updates["responded_at"] = gorm.Expr("NULL")
	} else {
		updates["responded_at"] = req.RespondedAt
	}
	if req.RespondedBy == nil {
		updates["responded_by"] = gorm.Expr("NULL")
	} else {
		updates["responded_by"] = req.RespondedBy
	}

	res := r.db.WithContext(ctx).Model(&model.JoinRequest{}).Where("id = ?", req.ID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrJoinRequestNotFound
	}
	return nil
}

func (r *PostgresJoinRequestRepository) DeleteByRequester(ctx context.Context, meetingID, requesterID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("meeting_id = ? AND requester_id = ?", meetingID, requesterID).
		Delete(&model.JoinRequest{}).Error
}

type PostgresParticipantRepository struct {
	db *gorm.DB
}

func NewPostgresParticipantRepository(db *gorm.DB) *PostgresParticipantRepository {
	return &PostgresParticipantRepository{db: db}
}

func (r *PostgresParticipantRepository) Create(ctx context.Context, p *domain.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == nil {
		return errors.New("participant is nil")
	}
	return r.db.WithContext(ctx).Create(toModelParticipant(p)).Error
}

func (r *PostgresParticipantRepository) Active(ctx context.Context, meetingID, userID uuid.UUID) ([]*domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []model.Participant
	err := r.db.WithContext(ctx).
		Where("meeting_id = ? AND user_id = ? AND left_at IS NULL", meetingID, userID).
		Order("joined_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainParticipants(rows), nil
}

func (r *PostgresParticipantRepository) ActiveByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []model.Participant
	err := r.db.WithContext(ctx).
		Where("meeting_id = ? AND left_at IS NULL", meetingID).
		Order("joined_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainParticipants(rows), nil
}

func (r *PostgresParticipantRepository) Update(ctx context.Context, p *domain.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == nil {
		return errors.New("participant is nil")
	}

	updates := map[string]any{
		"role":         string(p.Role),
		"display_name": p.DisplayName,
	}
	if p.LeftAt == nil {
		updates["left_at"] = gorm.Expr("NULL")
	} else {
		updates["left_at"] = p.LeftAt
	}

	res := r.db.WithContext(ctx).Model(&model.Participant{}).Where("id = ?", p.ID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

func (r *PostgresParticipantRepository) CloseAll(ctx context.Context, meetingID, userID uuid.UUID, leftAt time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	res := r.db.WithContext(ctx).Model(&model.Participant{}).
		Where("meeting_id = ? AND user_id = ? AND left_at IS NULL", meetingID, userID).
		Update("left_at", leftAt)
	return res.RowsAffected, res.Error
}

func (r *PostgresParticipantRepository) HasAny(ctx context.Context, meetingID, userID uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Participant{}).
		Where("meeting_id = ? AND user_id = ?", meetingID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresParticipantRepository) DeleteByUser(ctx context.Context, meetingID, userID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("meeting_id = ? AND user_id = ?", meetingID, userID).
		Delete(&model.Participant{}).Error
}

type PostgresChatMessageRepository struct {
	db *gorm.DB
}

func NewPostgresChatMessageRepository(db *gorm.DB) *PostgresChatMessageRepository {
	return &PostgresChatMessageRepository{db: db}
}

func (r *PostgresChatMessageRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg == nil {
		return errors.New("message is nil")
	}
	return r.db.WithContext(ctx).Create(toModelChatMessage(msg)).Error
}

func (r *PostgresChatMessageRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*domain.ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]*domain.ChatMessage, 0, len(rows))
	for i := range rows {
		result = append(result, toDomainChatMessage(&rows[i]))
	}
	return result, nil
}

type PostgresFileRepository struct {
	db *gorm.DB
}

func NewPostgresFileRepository(db *gorm.DB) *PostgresFileRepository {
	return &PostgresFileRepository{db: db}
}

func (r *PostgresFileRepository) Create(ctx context.Context, file *domain.FileRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if file == nil {
		return errors.New("file is nil")
	}
	return r.db.WithContext(ctx).Create(toModelFileRecord(file)).Error
}

func (r *PostgresFileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var file model.FileRecord
	err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return toDomainFileRecord(&file), nil
}

func (r *PostgresFileRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*domain.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []model.FileRecord
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("uploaded_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]*domain.FileRecord, 0, len(rows))
	for i := range rows {
		result = append(result, toDomainFileRecord(&rows[i]))
	}
	return result, nil
}

func (r *PostgresFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Delete(&model.FileRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFileNotFound
	}
	return nil
}

type PostgresRecordingRepository struct {
	db *gorm.DB
}

func NewPostgresRecordingRepository(db *gorm.DB) *PostgresRecordingRepository {
	return &PostgresRecordingRepository{db: db}
}

func (r *PostgresRecordingRepository) Create(ctx context.Context, rec *domain.Recording) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec == nil {
		return errors.New("recording is nil")
	}
	return r.db.WithContext(ctx).Create(toModelRecording(rec)).Error
}

func (r *PostgresRecordingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Recording, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec model.Recording
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordingNotFound
		}
		return nil, err
	}
	return toDomainRecording(&rec), nil
}

func (r *PostgresRecordingRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*domain.Recording, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []model.Recording
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("started_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainRecordings(rows), nil
}

func (r *PostgresRecordingRepository) ActiveByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*domain.Recording, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []model.Recording
	err := r.db.WithContext(ctx).
		Where("meeting_id = ? AND status IN ?", meetingID, []string{
			domain.RecordingStatusStarting,
			domain.RecordingStatusRecording,
			domain.RecordingStatusRunning,
		}).
		Order("started_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainRecordings(rows), nil
}

func (r *PostgresRecordingRepository) Update(ctx context.Context, rec *domain.Recording) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec == nil {
		return errors.New("recording is nil")
	}

	updates := map[string]any{
		"external_id":      rec.ExternalID,
		"asset_id":         rec.AssetID,
		"status":           rec.Status,
		"url":              rec.URL,
		"auto_stopped":     rec.AutoStopped,
		"duration":         rec.Duration,
		"file_size":        rec.FileSize,
		"storage_provider": rec.StorageProvider,
		"file_path":        rec.FilePath,
		"updated_at":       time.Now().UTC(),
	}
	if rec.StoppedAt == nil {
		updates["stopped_at"] = gorm.Expr("NULL")
	} else {
		updates["stopped_at"] = rec.StoppedAt
	}
	if rec.StoppedBy == nil {
		updates["stopped_by"] = gorm.Expr("NULL")
	} else {
		updates["stopped_by"] = rec.StoppedBy
	}

	res := r.db.WithContext(ctx).Model(&model.Recording{}).Where("id = ?", rec.ID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordingNotFound
	}
	return nil
}

func toModelMeeting(m *domain.Meeting) *model.Meeting {
	return &model.Meeting{
		ID:                        m.ID,
		Title:                     m.Title,
		Description:               m.Description,
		HostID:                    m.HostID,
		RoomID:                    m.RoomID,
		Status:                    string(m.Status),
		AllowParticipantRecording: m.AllowParticipantRecording,
		HiddenForHost:             m.HiddenForHost,
		CreatedAt:                 m.CreatedAt.UTC(),
		EndedAt:                   m.EndedAt,
	}
}

func toDomainMeeting(m *model.Meeting) *domain.Meeting {
	return &domain.Meeting{
		ID:                        m.ID,
		Title:                     m.Title,
		Description:               m.Description,
		HostID:                    m.HostID,
		RoomID:                    m.RoomID,
		Status:                    domain.MeetingStatus(m.Status),
		AllowParticipantRecording: m.AllowParticipantRecording,
		HiddenForHost:             m.HiddenForHost,
		CreatedAt:                 m.CreatedAt.UTC(),
		EndedAt:                   m.EndedAt,
	}
}

func toModelJoinRequest(r *domain.JoinRequest) *model.JoinRequest {
	return &model.JoinRequest{
		ID:          r.ID,
		MeetingID:   r.MeetingID,
		RequesterID: r.RequesterID,
		DisplayName: r.DisplayName,
		Status:      string(r.Status),
		RequestedAt: r.RequestedAt.UTC(),
		RespondedAt: r.RespondedAt,
		RespondedBy: r.RespondedBy,
	}
}

func toDomainJoinRequest(r *model.JoinRequest) *domain.JoinRequest {
	return &domain.JoinRequest{
		ID:          r.ID,
		MeetingID:   r.MeetingID,
		RequesterID: r.RequesterID,
		DisplayName: r.DisplayName,
		Status:      domain.JoinRequestStatus(r.Status),
		RequestedAt: r.RequestedAt.UTC(),
		RespondedAt: r.RespondedAt,
		RespondedBy: r.RespondedBy,
	}
}

func toModelParticipant(p *domain.Participant) *model.Participant {
	return &model.Participant{
		ID:          p.ID,
		MeetingID:   p.MeetingID,
		UserID:      p.UserID,
		Role:        string(p.Role),
		DisplayName: p.DisplayName,
		JoinedAt:    p.JoinedAt.UTC(),
		LeftAt:      p.LeftAt,
	}
}

func toDomainParticipants(rows []model.Participant) []*domain.Participant {
	result := make([]*domain.Participant, 0, len(rows))
	for i := range rows {
		p := rows[i]
		result = append(result, &domain.Participant{
			ID:          p.ID,
			MeetingID:   p.MeetingID,
			UserID:      p.UserID,
			Role:        domain.ParticipantRole(p.Role),
			DisplayName: p.DisplayName,
			JoinedAt:    p.JoinedAt.UTC(),
			LeftAt:      p.LeftAt,
		})
	}
	return result
}

func toModelChatMessage(m *domain.ChatMessage) *model.ChatMessage {
	return &model.ChatMessage{
		ID:          m.ID,
		MeetingID:   m.MeetingID,
		SenderID:    m.SenderID,
		DisplayName: m.DisplayName,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

func toDomainChatMessage(m *model.ChatMessage) *domain.ChatMessage {
	return &domain.ChatMessage{
		ID:          m.ID,
		MeetingID:   m.MeetingID,
		SenderID:    m.SenderID,
		DisplayName: m.DisplayName,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

func toModelFileRecord(f *domain.FileRecord) *model.FileRecord {
	return &model.FileRecord{
		ID:          f.ID,
		MeetingID:   f.MeetingID,
		UploaderID:  f.UploaderID,
		DisplayName: f.DisplayName,
		FileName:    f.FileName,
		StoragePath: f.StoragePath,
		FileSize:    f.FileSize,
		MimeType:    f.MimeType,
		UploadedAt:  f.UploadedAt.UTC(),
	}
}

func toDomainFileRecord(f *model.FileRecord) *domain.FileRecord {
	return &domain.FileRecord{
		ID:          f.ID,
		MeetingID:   f.MeetingID,
		UploaderID:  f.UploaderID,
		DisplayName: f.DisplayName,
		FileName:    f.FileName,
		StoragePath: f.StoragePath,
		FileSize:    f.FileSize,
		MimeType:    f.MimeType,
		UploadedAt:  f.UploadedAt.UTC(),
	}
}

func toModelRecording(rec *domain.Recording) *model.Recording {
	return &model.Recording{
		ID:              rec.ID,
		MeetingID:       rec.MeetingID,
		ExternalID:      rec.ExternalID,
		AssetID:         rec.AssetID,
		StartedBy:       rec.StartedBy,
		DisplayName:     rec.DisplayName,
		Status:          rec.Status,
		URL:             rec.URL,
		StartedAt:       rec.StartedAt.UTC(),
		StoppedAt:       rec.StoppedAt,
		StoppedBy:       rec.StoppedBy,
		AutoStopped:     rec.AutoStopped,
		Duration:        rec.Duration,
		FileSize:        rec.FileSize,
		StorageProvider: rec.StorageProvider,
		FilePath:        rec.FilePath,
		UpdatedAt:       rec.UpdatedAt.UTC(),
	}
}

func toDomainRecordings(rows []model.Recording) []*domain.Recording {
	result := make([]*domain.Recording, 0, len(rows))
	for i := range rows {
		result = append(result, toDomainRecording(&rows[i]))
	}
	return result
}

func toDomainRecording(rec *model.Recording) *domain.Recording {
	return &domain.Recording{
		ID:              rec.ID,
		MeetingID:       rec.MeetingID,
		ExternalID:      rec.ExternalID,
		AssetID:         rec.AssetID,
		StartedBy:       rec.StartedBy,
		DisplayName:     rec.DisplayName,
		Status:          rec.Status,
		URL:             rec.URL,
		StartedAt:       rec.StartedAt.UTC(),
		StoppedAt:       rec.StoppedAt,
		StoppedBy:       rec.StoppedBy,
		AutoStopped:     rec.AutoStopped,
		Duration:        rec.Duration,
		FileSize:        rec.FileSize,
		StorageProvider: rec.StorageProvider,
		FilePath:        rec.FilePath,
		UpdatedAt:       rec.UpdatedAt.UTC(),
	}
}
