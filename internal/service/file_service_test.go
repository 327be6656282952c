package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/domain"
	"github.com/immxrtalbeast/meetflow/internal/repository"
	"github.com/stretchr/testify/require"
)

func newFileFixture(t *testing.T) (*FileService, *repository.InMemoryMeetingRepository, *repository.InMemoryFileRepository, *fakeStorage) {
	t.Helper()
	meetings := repository.NewInMemoryMeetingRepository()
	files := repository.NewInMemoryFileRepository()
	storage := &fakeStorage{}
	return NewFileService(meetings, files, storage, time.Hour, testLogger()), meetings, files, storage
}

func TestUploadFile(t *testing.T) {
	svc, meetings, _, _ := newFileFixture(t)
	meeting := seedMeeting(t, meetings, uuid.New())
	uploader := domain.Identity{ID: uuid.New()}

	record, err := svc.Upload(context.Background(), meeting.ID, uploader, "Alice", "notes.pdf", "application/pdf", 1024, strings.NewReader(strings.Repeat("x", 1024)))
	require.NoError(t, err)
	require.Equal(t, "notes.pdf", record.FileName)
	require.Equal(t, int64(1024), record.FileSize)
	require.Contains(t, record.StoragePath, "meetings/"+meeting.ID.String()+"/")
	require.Contains(t, record.StoragePath, "notes.pdf")
}

func TestUploadFile_Validation(t *testing.T) {
	svc, meetings, _, _ := newFileFixture(t)
	meeting := seedMeeting(t, meetings, uuid.New())
	uploader := domain.Identity{ID: uuid.New()}

	_, err := svc.Upload(context.Background(), meeting.ID, uploader, "", "  ", "text/plain", 10, strings.NewReader("x"))
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Upload(context.Background(), meeting.ID, uploader, "", "a.txt", "text/plain", 0, strings.NewReader(""))
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Upload(context.Background(), meeting.ID, uploader, "", "a.txt", "text/plain", domain.MaxFileSize+1, strings.NewReader("x"))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUploadFile_PathTraversalSanitized(t *testing.T) {
	svc, meetings, _, _ := newFileFixture(t)
	meeting := seedMeeting(t, meetings, uuid.New())

	record, err := svc.Upload(context.Background(), meeting.ID, domain.Identity{ID: uuid.New()}, "", "../../etc/passwd", "text/plain", 10, strings.NewReader("xxxxxxxxxx"))
	require.NoError(t, err)
	require.NotContains(t, record.StoragePath[len("meetings/"):], "..")
	require.Equal(t, 2, strings.Count(record.StoragePath, "/"))
}

func TestDeleteFile_UploaderOnly(t *testing.T) {
	svc, meetings, files, _ := newFileFixture(t)
	meeting := seedMeeting(t, meetings, uuid.New())
	uploader := domain.Identity{ID: uuid.New()}

	record, err := svc.Upload(context.Background(), meeting.ID, uploader, "", "a.txt", "text/plain", 10, strings.NewReader("xxxxxxxxxx"))
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), record.ID, domain.Identity{ID: uuid.New()}), ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), record.ID, uploader))

	_, err = files.GetByID(context.Background(), record.ID)
	require.ErrorIs(t, err, repository.ErrFileNotFound)
}

func TestDeleteFile_ObjectRemovalBestEffort(t *testing.T) {
	svc, meetings, files, storage := newFileFixture(t)
	meeting := seedMeeting(t, meetings, uuid.New())
	uploader := domain.Identity{ID: uuid.New()}

	record, err := svc.Upload(context.Background(), meeting.ID, uploader, "", "a.txt", "text/plain", 10, strings.NewReader("xxxxxxxxxx"))
	require.NoError(t, err)

	storage.removeFn = func(ctx context.Context, path string) error {
		return context.DeadlineExceeded
	}

	// the row still goes even when the object removal fails
	require.NoError(t, svc.Delete(context.Background(), record.ID, uploader))
	_, err = files.GetByID(context.Background(), record.ID)
	require.ErrorIs(t, err, repository.ErrFileNotFound)
}

func TestDownloadURL(t *testing.T) {
	svc, meetings, _, _ := newFileFixture(t)
	meeting := seedMeeting(t, meetings, uuid.New())
	uploader := domain.Identity{ID: uuid.New()}

	record, err := svc.Upload(context.Background(), meeting.ID, uploader, "", "a.txt", "text/plain", 10, strings.NewReader("xxxxxxxxxx"))
	require.NoError(t, err)

	url, err := svc.DownloadURL(context.Background(), record.ID, uploader)
	require.NoError(t, err)
	require.Contains(t, url, record.StoragePath)
}
