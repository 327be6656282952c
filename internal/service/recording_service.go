package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/domain"
	"github.com/immxrtalbeast/meetflow/internal/events"
	"github.com/immxrtalbeast/meetflow/internal/platform"
	"github.com/immxrtalbeast/meetflow/internal/repository"
	"github.com/immxrtalbeast/meetflow/lib/logger/sl"
)

// defaultStorageProvider marks recordings whose file lives with the video
// platform itself. Anything else points at the custom object store.
const defaultStorageProvider = "platform"

// minDownloadBytes rejects payloads too small to be real media; the
// platform's preview pages and error bodies fall under this.
const minDownloadBytes = 1000

// previewPathPatterns flag platform URLs that open an HTML player page
// instead of the media file. Kept in one place so the matching rules can
// change without touching resolution logic.
var previewPathPatterns = []string{"/preview", "/watch", "/dashboard", "/meeting/"}

func isPreviewLink(url string) bool {
	lowered := strings.ToLower(url)
	for _, pattern := range previewPathPatterns {
		if strings.Contains(lowered, pattern) {
			return true
		}
	}
	return false
}

// RecordingService drives recording start/stop on the platform and keeps
// local rows eventually consistent with the platform's view. Local status is
// a lagging mirror: the sync pass inside List is the only writer that
// advances it outside explicit start/stop calls.
type RecordingService struct {
	meetings     repository.MeetingRepository
	participants repository.ParticipantRepository
	recordings   repository.RecordingRepository
	video        VideoPlatform
	storage      ObjectStorage
	signedTTL    time.Duration
	hub          EventPublisher
	log          *slog.Logger
}

func NewRecordingService(
	meetings repository.MeetingRepository,
	participants repository.ParticipantRepository,
	recordings repository.RecordingRepository,
	video VideoPlatform,
	storage ObjectStorage,
	signedTTL time.Duration,
	hub EventPublisher,
	log *slog.Logger,
) *RecordingService {
	if signedTTL <= 0 {
		signedTTL = time.Hour
	}
	if log == nil {
		log = slog.Default()
	}
	return &RecordingService{
		meetings:     meetings,
		participants: participants,
		recordings:   recordings,
		video:        video,
		storage:      storage,
		signedTTL:    signedTTL,
		hub:          hub,
		log:          log,
	}
}

// Start begins a recording unless one is already in flight. The duplicate
// check is best-effort (local rows plus a platform sweep): two
// near-simultaneous starts can still slip through.
func (s *RecordingService) Start(ctx context.Context, meetingID uuid.UUID, identity domain.Identity, displayName string) (*domain.Recording, error) {
	const op = "service.recording.start"
	log := s.log.With(
		slog.String("op", op),
		slog.String("meeting_id", meetingID.String()),
	)

	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if err := s.checkRecordPermission(meeting, identity); err != nil {
		return nil, err
	}

	active, err := s.recordings.ActiveByMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if len(active) > 0 {
		return nil, ErrRecordingInProgress
	}

	// the platform may know about a recording our rows missed
	if remote, err := s.video.ListRecordings(ctx, meeting.RoomID); err != nil {
		log.Warn("platform recording sweep failed", sl.Err(err))
	} else {
		for _, rec := range remote {
			if domain.RecordingInProgress(rec.Status) {
				return nil, ErrRecordingInProgress
			}
		}
	}

	started, err := s.video.StartRecording(ctx, meeting.RoomID)
	if err != nil {
		log.Error("platform start failed", sl.Err(err))
		return nil, err
	}

	rec := domain.NewRecording(meetingID, started.ID, identity.ID, strings.TrimSpace(displayName), started.Status)
	if err := s.recordings.Create(ctx, rec); err != nil {
		log.Error("failed to persist recording row", sl.Err(err))
		return nil, err
	}

	if s.hub != nil {
		s.hub.Publish(events.Event{
			Type:      events.TypeRecordingStarted,
			MeetingID: meetingID,
			Payload:   map[string]any{"recording_id": rec.ID.String()},
		})
	}

	log.Info("recording started",
		slog.String("recording_id", rec.ID.String()),
		slog.String("external_id", rec.ExternalID),
	)
	return rec, nil
}

// Stop ends a recording: the explicit one when recordingID is given, else
// the most recently started active recording of the meeting.
func (s *RecordingService) Stop(ctx context.Context, meetingID uuid.UUID, identity domain.Identity, recordingID *uuid.UUID) (*domain.Recording, error) {
	const op = "service.recording.stop"
	log := s.log.With(
		slog.String("op", op),
		slog.String("meeting_id", meetingID.String()),
	)

	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if err := s.checkRecordPermission(meeting, identity); err != nil {
		return nil, err
	}

	rec, err := s.resolveStopTarget(ctx, meetingID, recordingID)
	if err != nil {
		return nil, err
	}

	if err := s.stopOnPlatform(ctx, rec); err != nil {
		log.Error("platform stop failed", sl.Err(err))
		return nil, err
	}

	now := time.Now().UTC()
	stoppedBy := identity.ID
	rec.Status = domain.RecordingStatusStopped
	rec.StoppedAt = &now
	rec.StoppedBy = &stoppedBy
	rec.AutoStopped = false

	if err := s.recordings.Update(ctx, rec); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Publish(events.Event{
			Type:      events.TypeRecordingStopped,
			MeetingID: meetingID,
			Payload:   map[string]any{"recording_id": rec.ID.String()},
		})
	}

	log.Info("recording stopped", slog.String("recording_id", rec.ID.String()))
	return rec, nil
}

// AutoStopOnMeetingEnd stops every in-flight recording of an ended meeting.
// Each stop is isolated: one failure is logged and must not block the
// others, nor the meeting-end transition that triggered the sweep.
func (s *RecordingService) AutoStopOnMeetingEnd(ctx context.Context, meetingID uuid.UUID) {
	const op = "service.recording.autoStop"
	log := s.log.With(
		slog.String("op", op),
		slog.String("meeting_id", meetingID.String()),
	)

	active, err := s.recordings.ActiveByMeeting(ctx, meetingID)
	if err != nil {
		log.Error("failed to list active recordings", sl.Err(err))
		return
	}

	for _, rec := range active {
		if err := s.stopOnPlatform(ctx, rec); err != nil {
			log.Error("auto-stop failed",
				slog.String("recording_id", rec.ID.String()),
				sl.Err(err),
			)
			continue
		}

		now := time.Now().UTC()
		rec.Status = domain.RecordingStatusStopped
		rec.StoppedAt = &now
		rec.AutoStopped = true
		if err := s.recordings.Update(ctx, rec); err != nil {
			log.Error("failed to mark recording auto-stopped",
				slog.String("recording_id", rec.ID.String()),
				sl.Err(err),
			)
			continue
		}
		log.Info("recording auto-stopped", slog.String("recording_id", rec.ID.String()))
	}
}

// List is a self-healing sync pass, not just a read: rows without a resolved
// URL are refreshed from the platform and updated whenever a fresher status,
// asset id or url turns up.
func (s *RecordingService) List(ctx context.Context, meetingID uuid.UUID, identity domain.Identity) ([]*domain.Recording, error) {
	const op = "service.recording.list"
	log := s.log.With(
		slog.String("op", op),
		slog.String("meeting_id", meetingID.String()),
	)

	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if err := s.checkViewPermission(ctx, meeting, identity); err != nil {
		return nil, err
	}

	rows, err := s.recordings.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	for _, rec := range rows {
		if rec.URL != "" || rec.ExternalID == "" {
			continue
		}
		if changed := s.syncFromPlatform(ctx, log, rec); changed {
			if err := s.recordings.Update(ctx, rec); err != nil {
				log.Error("failed to persist synced recording",
					slog.String("recording_id", rec.ID.String()),
					sl.Err(err),
				)
			}
		}
	}

	return rows, nil
}

// ResolveDownload walks the URL priority chain and returns the first
// candidate that fetches as plausible media: not an HTML preview page and
// not implausibly small. Exhausting the chain is the retryable
// "not ready yet" condition, not an error.
func (s *RecordingService) ResolveDownload(ctx context.Context, meetingID, recordingID uuid.UUID, identity domain.Identity) (*DownloadResult, error) {
	const op = "service.recording.resolveDownload"
	log := s.log.With(
		slog.String("op", op),
		slog.String("recording_id", recordingID.String()),
	)

	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if err := s.checkViewPermission(ctx, meeting, identity); err != nil {
		return nil, err
	}

	rec, err := s.recordings.GetByID(ctx, recordingID)
	if err != nil {
		return nil, err
	}
	if rec.MeetingID != meetingID {
		return nil, repository.ErrRecordingNotFound
	}

	s.syncFromPlatform(ctx, log, rec)

	for _, candidate := range s.candidateURLs(ctx, log, rec) {
		payload, err := s.video.FetchAsset(ctx, candidate)
		if err != nil {
			log.Warn("candidate fetch failed", slog.String("url", candidate), sl.Err(err))
			continue
		}
		if !plausibleMedia(payload) {
			payload.Body.Close()
			log.Info("candidate rejected",
				slog.String("url", candidate),
				slog.String("content_type", payload.ContentType),
				slog.Int64("size", payload.Size),
			)
			continue
		}

		if rec.URL != candidate {
			rec.URL = candidate
			if err := s.recordings.Update(ctx, rec); err != nil {
				log.Error("failed to persist resolved url", sl.Err(err))
			}
		}

		contentType := payload.ContentType
		if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
			contentType = "video/mp4"
		}

		return &DownloadResult{
			ContentType: contentType,
			Size:        payload.Size,
			FileName:    fmt.Sprintf("recording-%s.mp4", rec.ID),
			Body:        payload.Body,
		}, nil
	}

	return nil, ErrRecordingNotReady
}

// FetchInsights extracts transcript and summary text from the recording's
// asset list. Parsing is best-effort throughout: anything unreadable
// degrades to an empty field rather than an error.
func (s *RecordingService) FetchInsights(ctx context.Context, meetingID, recordingID uuid.UUID, identity domain.Identity) (*domain.Insights, error) {
	const op = "service.recording.fetchInsights"
	log := s.log.With(
		slog.String("op", op),
		slog.String("recording_id", recordingID.String()),
	)

	meeting, err := s.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if err := s.checkViewPermission(ctx, meeting, identity); err != nil {
		return nil, err
	}

	rec, err := s.recordings.GetByID(ctx, recordingID)
	if err != nil {
		return nil, err
	}
	if rec.MeetingID != meetingID {
		return nil, repository.ErrRecordingNotFound
	}
	if rec.ExternalID == "" {
		return &domain.Insights{}, nil
	}

	remote, err := s.video.GetRecording(ctx, rec.ExternalID)
	if err != nil {
		log.Warn("platform recording fetch failed", sl.Err(err))
		return &domain.Insights{}, nil
	}

	transcriptAsset, summaryAsset := classifyAssets(remote.Assets)

	insights := &domain.Insights{}

	var transcriptRaw []byte
	if transcriptAsset != nil {
		transcriptRaw = s.downloadAsset(ctx, log, transcriptAsset)
		insights.Transcript = normalizeTranscript(transcriptRaw)
	}

	if summaryAsset != nil {
		if raw := s.downloadAsset(ctx, log, summaryAsset); raw != nil {
			insights.Summary = normalizeSummary(raw)
		}
	}
	if insights.Summary == "" && transcriptRaw != nil {
		// some platforms embed the summary inside the transcript document
		insights.Summary = summaryFromTranscript(transcriptRaw)
	}

	return insights, nil
}

func (s *RecordingService) checkRecordPermission(meeting *domain.Meeting, identity domain.Identity) error {
	if meeting.IsHost(identity.ID) || meeting.AllowParticipantRecording {
		return nil
	}
	return ErrForbidden
}

func (s *RecordingService) checkViewPermission(ctx context.Context, meeting *domain.Meeting, identity domain.Identity) error {
	if meeting.IsHost(identity.ID) {
		return nil
	}
	wasParticipant, err := s.participants.HasAny(ctx, meeting.ID, identity.ID)
	if err != nil {
		return err
	}
	if !wasParticipant {
		return ErrForbidden
	}
	return nil
}

func (s *RecordingService) resolveStopTarget(ctx context.Context, meetingID uuid.UUID, recordingID *uuid.UUID) (*domain.Recording, error) {
	if recordingID != nil {
		rec, err := s.recordings.GetByID(ctx, *recordingID)
		if err != nil {
			return nil, err
		}
		if rec.MeetingID != meetingID || !domain.RecordingInProgress(rec.Status) {
			return nil, ErrNoActiveRecording
		}
		return rec, nil
	}

	active, err := s.recordings.ActiveByMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, ErrNoActiveRecording
	}
	return active[0], nil
}

// stopOnPlatform issues the stop call. A recording the platform no longer
// knows about counts as stopped.
func (s *RecordingService) stopOnPlatform(ctx context.Context, rec *domain.Recording) error {
	if rec.ExternalID == "" {
		return nil
	}
	_, err := s.video.StopRecording(ctx, rec.ExternalID)
	if err != nil && !errors.Is(err, platform.ErrNotFound) {
		return err
	}
	return nil
}

// syncFromPlatform merges the platform's current view of the recording into
// the local row and reports whether anything changed. The freshest asset id
// always wins over a stored one.
func (s *RecordingService) syncFromPlatform(ctx context.Context, log *slog.Logger, rec *domain.Recording) bool {
	if rec.ExternalID == "" {
		return false
	}

	remote, err := s.video.GetRecording(ctx, rec.ExternalID)
	if err != nil {
		log.Warn("platform recording fetch failed",
			slog.String("recording_id", rec.ID.String()),
			sl.Err(err),
		)
		return false
	}

	changed := false
	if remote.Status != "" && remote.Status != rec.Status {
		rec.Status = remote.Status
		changed = true
	}
	if remote.Duration > 0 && remote.Duration != rec.Duration {
		rec.Duration = remote.Duration
		changed = true
	}
	if remote.Size > 0 && remote.Size != rec.FileSize {
		rec.FileSize = remote.Size
		changed = true
	}
	if fresh := remote.FreshAssetID(); fresh != "" && fresh != rec.AssetID {
		rec.AssetID = fresh
		changed = true
	}

	if rec.URL == "" {
		if url := s.resolveURL(ctx, log, rec, remote); url != "" {
			rec.URL = url
			changed = true
		}
	}

	return changed
}

// resolveURL applies the priority chain: custom-storage signed link, asset
// download link for the freshest asset id, then the platform's generic URL
// unless it looks like a preview page. Empty means "not available yet".
func (s *RecordingService) resolveURL(ctx context.Context, log *slog.Logger, rec *domain.Recording, remote *platform.Recording) string {
	if rec.FilePath != "" && rec.StorageProvider != "" && rec.StorageProvider != defaultStorageProvider {
		url, err := s.storage.SignedURL(ctx, rec.FilePath, s.signedTTL)
		if err == nil && url != "" {
			return url
		}
		if err != nil {
			log.Warn("custom storage sign failed", sl.Err(err))
		}
	}

	if rec.AssetID != "" {
		url, err := s.video.AssetDownloadURL(ctx, rec.AssetID)
		if err == nil && url != "" {
			return url
		}
		if err != nil && !errors.Is(err, platform.ErrNoAssetURL) {
			log.Warn("asset url fetch failed", sl.Err(err))
		}
	}

	if remote != nil && remote.URL != "" && !isPreviewLink(remote.URL) {
		return remote.URL
	}

	return ""
}

// candidateURLs rebuilds the same priority chain as resolveURL but keeps all
// viable candidates so the download path can fall through on validation
// failures.
func (s *RecordingService) candidateURLs(ctx context.Context, log *slog.Logger, rec *domain.Recording) []string {
	var candidates []string

	if rec.FilePath != "" && rec.StorageProvider != "" && rec.StorageProvider != defaultStorageProvider {
		if url, err := s.storage.SignedURL(ctx, rec.FilePath, s.signedTTL); err == nil && url != "" {
			candidates = append(candidates, url)
		}
	}

	if rec.AssetID != "" {
		if url, err := s.video.AssetDownloadURL(ctx, rec.AssetID); err == nil && url != "" {
			candidates = append(candidates, url)
		}
	}

	if rec.URL != "" && !isPreviewLink(rec.URL) && !contains(candidates, rec.URL) {
		candidates = append(candidates, rec.URL)
	}

	return candidates
}

func plausibleMedia(payload *platform.AssetPayload) bool {
	if strings.Contains(strings.ToLower(payload.ContentType), "text/html") {
		return false
	}
	if payload.Size >= 0 && payload.Size < minDownloadBytes {
		return false
	}
	return true
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
