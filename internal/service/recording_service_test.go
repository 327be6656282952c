package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/domain"
	"github.com/immxrtalbeast/meetflow/internal/platform"
	"github.com/immxrtalbeast/meetflow/internal/repository"
	"github.com/stretchr/testify/require"
)

type recordingFixture struct {
	svc          *RecordingService
	meetings     *repository.InMemoryMeetingRepository
	participants *repository.InMemoryParticipantRepository
	recordings   *repository.InMemoryRecordingRepository
	video        *fakeVideoPlatform
	storage      *fakeStorage
	hub          *captureHub
}

func newRecordingFixture(t *testing.T) *recordingFixture {
	t.Helper()
	f := &recordingFixture{
		meetings:     repository.NewInMemoryMeetingRepository(),
		participants: repository.NewInMemoryParticipantRepository(),
		recordings:   repository.NewInMemoryRecordingRepository(),
		video:        &fakeVideoPlatform{},
		storage:      &fakeStorage{},
		hub:          &captureHub{},
	}
	f.svc = NewRecordingService(f.meetings, f.participants, f.recordings, f.video, f.storage, time.Hour, f.hub, testLogger())
	return f
}

func mediaPayload(contentType string, size int64) *platform.AssetPayload {
	return &platform.AssetPayload{
		ContentType: contentType,
		Size:        size,
		Body:        &readCloser{Reader: strings.NewReader(strings.Repeat("x", int(min64(size, 64))))},
	}
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func TestStartRecording_HostStarts(t *testing.T) {
	f := newRecordingFixture(t)
	hostID := uuid.New()
	meeting := seedMeeting(t, f.meetings, hostID)

	rec, err := f.svc.Start(context.Background(), meeting.ID, domain.Identity{ID: hostID}, "Host")
	require.NoError(t, err)
	require.NotEmpty(t, rec.ExternalID)
	require.True(t, domain.RecordingInProgress(rec.Status))
}

func TestStartRecording_DuplicateLocalRow(t *testing.T) {
	f := newRecordingFixture(t)
	hostID := uuid.New()
	meeting := seedMeeting(t, f.meetings, hostID)
	host := domain.Identity{ID: hostID}

	_, err := f.svc.Start(context.Background(), meeting.ID, host, "Host")
	require.NoError(t, err)
	_, err = f.svc.Start(context.Background(), meeting.ID, host, "Host")
	require.ErrorIs(t, err, ErrRecordingInProgress)
}

func TestStartRecording_PlatformSweepCatchesUntracked(t *testing.T) {
	f := newRecordingFixture(t)
	hostID := uuid.New()
	meeting := seedMeeting(t, f.meetings, hostID)

	f.video.listRecordingsFn = func(ctx context.Context, roomID string) ([]platform.Recording, error) {
		return []platform.Recording{{ID: "orphan", Status: "recording"}}, nil
	}

	_, err := f.svc.Start(context.Background(), meeting.ID, domain.Identity{ID: hostID}, "Host")
	require.ErrorIs(t, err, ErrRecordingInProgress)
}

func TestStartRecording_SweepFailureDoesNotBlock(t *testing.T) {
	f := newRecordingFixture(t)
	hostID := uuid.New()
	meeting := seedMeeting(t, f.meetings, hostID)

	f.video.listRecordingsFn = func(ctx context.Context, roomID string) ([]platform.Recording, error) {
		return nil, platform.ErrUnauthorized
	}

	_, err := f.svc.Start(context.Background(), meeting.ID, domain.Identity{ID: hostID}, "Host")
	require.NoError(t, err)
}

func TestStartRecording_ParticipantPermission(t *testing.T) {
	f := newRecordingFixture(t)
	meeting := seedMeeting(t, f.meetings, uuid.New())
	guest := domain.Identity{ID: uuid.New()}

	_, err := f.svc.Start(context.Background(), meeting.ID, guest, "Guest")
	require.ErrorIs(t, err, ErrForbidden)

	allowed := domain.NewMeeting("open", "", uuid.New(), "room-2", true)
	require.NoError(t, f.meetings.Create(context.Background(), allowed))

	_, err = f.svc.Start(context.Background(), allowed.ID, guest, "Guest")
	require.NoError(t, err)
}

func TestStopRecording_NewestActiveWhenUnspecified(t *testing.T) {
	f := newRecordingFixture(t)
	hostID := uuid.New()
	meeting := seedMeeting(t, f.meetings, hostID)
	host := domain.Identity{ID: hostID}

	started, err := f.svc.Start(context.Background(), meeting.ID, host, "Host")
	require.NoError(t, err)

	stopped, err := f.svc.Stop(context.Background(), meeting.ID, host, nil)
	require.NoError(t, err)
	require.Equal(t, started.ID, stopped.ID)
	require.Equal(t, domain.RecordingStatusStopped, stopped.Status)
	require.NotNil(t, stopped.StoppedAt)
	require.NotNil(t, stopped.StoppedBy)
	require.False(t, stopped.AutoStopped)
	require.Equal(t, []string{started.ExternalID}, f.video.stopped())
}

func TestStopRecording_NoActive(t *testing.T) {
	f := newRecordingFixture(t)
	hostID := uuid.New()
	meeting := seedMeeting(t, f.meetings, hostID)

	_, err := f.svc.Stop(context.Background(), meeting.ID, domain.Identity{ID: hostID}, nil)
	require.ErrorIs(t, err, ErrNoActiveRecording)
}

func TestStopRecording_ExplicitIDMustBeActive(t *testing.T) {
	f := newRecordingFixture(t)
	hostID := uuid.New()
	meeting := seedMeeting(t, f.meetings, hostID)
	host := domain.Identity{ID: hostID}

	rec := domain.NewRecording(meeting.ID, "ext-1", hostID, "Host", domain.RecordingStatusStopped)
	require.NoError(t, f.recordings.Create(context.Background(), rec))

	_, err := f.svc.Stop(context.Background(), meeting.ID, host, &rec.ID)
	require.ErrorIs(t, err, ErrNoActiveRecording)
}

func TestStopRecording_PlatformForgotRecording(t *testing.T) {
	f := newRecordingFixture(t)
	hostID := uuid.New()
	meeting := seedMeeting(t, f.meetings, hostID)
	host := domain.Identity{ID: hostID}

	_, err := f.svc.Start(context.Background(), meeting.ID, host, "Host")
	require.NoError(t, err)

	f.video.stopRecordingFn = func(ctx context.Context, recordingID string) (*platform.Recording, error) {
		return nil, platform.ErrNotFound
	}

	stopped, err := f.svc.Stop(context.Background(), meeting.ID, host, nil)
	require.NoError(t, err)
	require.Equal(t, domain.RecordingStatusStopped, stopped.Status)
}

func TestAutoStopOnMeetingEnd(t *testing.T) {
	f := newRecordingFixture(t)
	hostID := uuid.New()
	meeting := seedMeeting(t, f.meetings, hostID)

	good := domain.NewRecording(meeting.ID, "ext-good", hostID, "Host", domain.RecordingStatusRecording)
	bad := domain.NewRecording(meeting.ID, "ext-bad", hostID, "Host", domain.RecordingStatusRecording)
	require.NoError(t, f.recordings.Create(context.Background(), good))
	require.NoError(t, f.recordings.Create(context.Background(), bad))

	f.video.stopRecordingFn = func(ctx context.Context, recordingID string) (*platform.Recording, error) {
		if recordingID == "ext-bad" {
			return nil, platform.ErrUnauthorized
		}
		return &platform.Recording{ID: recordingID, Status: "stopped"}, nil
	}

	f.svc.AutoStopOnMeetingEnd(context.Background(), meeting.ID)

	updatedGood, err := f.recordings.GetByID(context.Background(), good.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RecordingStatusStopped, updatedGood.Status)
	require.True(t, updatedGood.AutoStopped)

	// the failed stop leaves the row untouched for the next sweep
	updatedBad, err := f.recordings.GetByID(context.Background(), bad.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RecordingStatusRecording, updatedBad.Status)
	require.False(t, updatedBad.AutoStopped)
}

func TestListRecordings_ViewPermission(t *testing.T) {
	f := newRecordingFixture(t)
	hostID := uuid.New()
	meeting := seedMeeting(t, f.meetings, hostID)

	_, err := f.svc.List(context.Background(), meeting.ID, domain.Identity{ID: uuid.New()})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.List(context.Background(), meeting.ID, domain.Identity{ID: hostID})
	require.NoError(t, err)

	// a past participant may view even after leaving
	guestID := uuid.New()
	p := domain.NewParticipant(meeting.ID, guestID, domain.RoleParticipant, "Guest")
	now := time.Now().UTC()
	p.LeftAt = &now
	require.NoError(t, f.participants.Create(context.Background(), p))

	_, err = f.svc.List(context.Background(), meeting.ID, domain.Identity{ID: guestID})
	require.NoError(t, err)
}

func TestListRecordings_SyncsUnresolvedRows(t *testing.T) {
	f := newRecordingFixture(t)
	hostID := uuid.New()
	meeting := seedMeeting(t, f.meetings, hostID)

	rec := domain.NewRecording(meeting.ID, "ext-1", hostID, "Host", domain.RecordingStatusRecording)
	require.NoError(t, f.recordings.Create(context.Background(), rec))

	f.video.getRecordingFn = func(ctx context.Context, recordingID string) (*platform.Recording, error) {
		return &platform.Recording{
			ID:       recordingID,
			Status:   domain.RecordingStatusCompleted,
			AssetID:  "asset-1",
			Duration: 42.5,
			Size:     5 << 20,
		}, nil
	}
	f.video.assetDownloadURLFn = func(ctx context.Context, assetID string) (string, error) {
		return "https://cdn.example.com/" + assetID + ".mp4", nil
	}

	rows, err := f.svc.List(context.Background(), meeting.ID, domain.Identity{ID: hostID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, domain.RecordingStatusCompleted, rows[0].Status)
	require.Equal(t, "asset-1", rows[0].AssetID)
	require.Equal(t, "https://cdn.example.com/asset-1.mp4", rows[0].URL)

	persisted, err := f.recordings.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/asset-1.mp4", persisted.URL)
}

func TestListRecordings_PreviewLinkNotUsed(t *testing.T) {
	f := newRecordingFixture(t)
	hostID := uuid.New()
	meeting := seedMeeting(t, f.meetings, hostID)

	rec := domain.NewRecording(meeting.ID, "ext-1", hostID, "Host", domain.RecordingStatusRecording)
	require.NoError(t, f.recordings.Create(context.Background(), rec))

	f.video.getRecordingFn = func(ctx context.Context, recordingID string) (*platform.Recording, error) {
		return &platform.Recording{
			ID:     recordingID,
			Status: domain.RecordingStatusCompleted,
			URL:    "https://app.example.com/dashboard/recordings/ext-1",
		}, nil
	}

	rows, err := f.svc.List(context.Background(), meeting.ID, domain.Identity{ID: hostID})
	require.NoError(t, err)
	require.Empty(t, rows[0].URL)
}

func TestResolveDownload_PriorityAndValidation(t *testing.T) {
	f := newRecordingFixture(t)
	hostID := uuid.New()
	meeting := seedMeeting(t, f.meetings, hostID)

	rec := domain.NewRecording(meeting.ID, "ext-1", hostID, "Host", domain.RecordingStatusCompleted)
	rec.AssetID = "asset-1"
	rec.URL = "https://platform.example.com/files/ext-1.mp4"
	require.NoError(t, f.recordings.Create(context.Background(), rec))

	f.video.getRecordingFn = func(ctx context.Context, recordingID string) (*platform.Recording, error) {
		return &platform.Recording{ID: recordingID, Status: domain.RecordingStatusCompleted, AssetID: "asset-1"}, nil
	}
	f.video.assetDownloadURLFn = func(ctx context.Context, assetID string) (string, error) {
		return "https://cdn.example.com/asset-1.mp4", nil
	}
	// asset link serves an HTML error page; the fallback URL serves media
	f.video.fetchAssetFn = func(ctx context.Context, url string) (*platform.AssetPayload, error) {
		if strings.Contains(url, "cdn.example.com") {
			return mediaPayload("text/html; charset=utf-8", 4096), nil
		}
		return mediaPayload("application/octet-stream", 2<<20), nil
	}

	result, err := f.svc.ResolveDownload(context.Background(), meeting.ID, rec.ID, domain.Identity{ID: hostID})
	require.NoError(t, err)
	defer result.Body.Close()

	require.Equal(t, "video/mp4", result.ContentType)
	require.Equal(t, "recording-"+rec.ID.String()+".mp4", result.FileName)

	persisted, err := f.recordings.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	require.Equal(t, "https://platform.example.com/files/ext-1.mp4", persisted.URL)
}

func TestResolveDownload_TinyPayloadRejected(t *testing.T) {
	f := newRecordingFixture(t)
	hostID := uuid.New()
	meeting := seedMeeting(t, f.meetings, hostID)

	rec := domain.NewRecording(meeting.ID, "ext-1", hostID, "Host", domain.RecordingStatusCompleted)
	rec.URL = "https://platform.example.com/files/ext-1.mp4"
	require.NoError(t, f.recordings.Create(context.Background(), rec))

	f.video.getRecordingFn = func(ctx context.Context, recordingID string) (*platform.Recording, error) {
		return &platform.Recording{ID: recordingID, Status: domain.RecordingStatusCompleted}, nil
	}
	f.video.fetchAssetFn = func(ctx context.Context, url string) (*platform.AssetPayload, error) {
		return mediaPayload("video/mp4", 120), nil
	}

	_, err := f.svc.ResolveDownload(context.Background(), meeting.ID, rec.ID, domain.Identity{ID: hostID})
	require.ErrorIs(t, err, ErrRecordingNotReady)
}

func TestResolveDownload_CustomStorageWinsChain(t *testing.T) {
	f := newRecordingFixture(t)
	hostID := uuid.New()
	meeting := seedMeeting(t, f.meetings, hostID)

	rec := domain.NewRecording(meeting.ID, "ext-1", hostID, "Host", domain.RecordingStatusCompleted)
	rec.StorageProvider = "supabase"
	rec.FilePath = "recordings/ext-1.mp4"
	require.NoError(t, f.recordings.Create(context.Background(), rec))

	f.video.getRecordingFn = func(ctx context.Context, recordingID string) (*platform.Recording, error) {
		return &platform.Recording{ID: recordingID, Status: domain.RecordingStatusCompleted}, nil
	}
	f.video.fetchAssetFn = func(ctx context.Context, url string) (*platform.AssetPayload, error) {
		require.Contains(t, url, "storage.example.com")
		return mediaPayload("video/mp4", 3<<20), nil
	}

	result, err := f.svc.ResolveDownload(context.Background(), meeting.ID, rec.ID, domain.Identity{ID: hostID})
	require.NoError(t, err)
	result.Body.Close()
}

func TestResolveDownload_WrongMeeting(t *testing.T) {
	f := newRecordingFixture(t)
	hostID := uuid.New()
	meeting := seedMeeting(t, f.meetings, hostID)
	other := seedMeeting(t, f.meetings, hostID)

	rec := domain.NewRecording(other.ID, "ext-1", hostID, "Host", domain.RecordingStatusCompleted)
	require.NoError(t, f.recordings.Create(context.Background(), rec))

	_, err := f.svc.ResolveDownload(context.Background(), meeting.ID, rec.ID, domain.Identity{ID: hostID})
	require.ErrorIs(t, err, repository.ErrRecordingNotFound)
}

func TestFetchInsights_TranscriptAndEmbeddedSummary(t *testing.T) {
	f := newRecordingFixture(t)
	hostID := uuid.New()
	meeting := seedMeeting(t, f.meetings, hostID)

	rec := domain.NewRecording(meeting.ID, "ext-1", hostID, "Host", domain.RecordingStatusCompleted)
	require.NoError(t, f.recordings.Create(context.Background(), rec))

	transcriptJSON := `{"segments":[{"speaker":"Alice","text":"hello"},{"speaker":"Bob","text":"hi"}],"summary":"Short sync."}`

	f.video.getRecordingFn = func(ctx context.Context, recordingID string) (*platform.Recording, error) {
		return &platform.Recording{
			ID:     recordingID,
			Status: domain.RecordingStatusCompleted,
			Assets: []platform.Asset{
				{ID: "a1", Type: "transcript", Path: "transcript.json", URL: "https://cdn.example.com/transcript.json"},
				{ID: "a2", Type: "video", Path: "main.mp4", URL: "https://cdn.example.com/main.mp4"},
			},
		}, nil
	}
	f.video.fetchAssetFn = func(ctx context.Context, url string) (*platform.AssetPayload, error) {
		return &platform.AssetPayload{
			ContentType: "application/json",
			Size:        int64(len(transcriptJSON)),
			Body:        &readCloser{Reader: strings.NewReader(transcriptJSON)},
		}, nil
	}

	insights, err := f.svc.FetchInsights(context.Background(), meeting.ID, rec.ID, domain.Identity{ID: hostID})
	require.NoError(t, err)
	require.Equal(t, "Alice: hello\nBob: hi", insights.Transcript)
	require.Equal(t, "Short sync.", insights.Summary)
}

func TestFetchInsights_PlatformFailureDegrades(t *testing.T) {
	f := newRecordingFixture(t)
	hostID := uuid.New()
	meeting := seedMeeting(t, f.meetings, hostID)

	rec := domain.NewRecording(meeting.ID, "ext-1", hostID, "Host", domain.RecordingStatusCompleted)
	require.NoError(t, f.recordings.Create(context.Background(), rec))

	f.video.getRecordingFn = func(ctx context.Context, recordingID string) (*platform.Recording, error) {
		return nil, platform.ErrNotFound
	}

	insights, err := f.svc.FetchInsights(context.Background(), meeting.ID, rec.ID, domain.Identity{ID: hostID})
	require.NoError(t, err)
	require.Empty(t, insights.Transcript)
	require.Empty(t, insights.Summary)
}
