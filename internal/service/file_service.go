package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/domain"
	"github.com/immxrtalbeast/meetflow/internal/repository"
	"github.com/immxrtalbeast/meetflow/lib/logger/sl"
)

type FileService struct {
	meetings  repository.MeetingRepository
	files     repository.FileRepository
	storage   ObjectStorage
	signedTTL time.Duration
	log       *slog.Logger
}

func NewFileService(meetings repository.MeetingRepository, files repository.FileRepository, storage ObjectStorage, signedTTL time.Duration, log *slog.Logger) *FileService {
	if signedTTL <= 0 {
		signedTTL = time.Hour
	}
	if log == nil {
		log = slog.Default()
	}
	return &FileService{
		meetings:  meetings,
		files:     files,
		storage:   storage,
		signedTTL: signedTTL,
		log:       log,
	}
}

func (s *FileService) Upload(ctx context.Context, meetingID uuid.UUID, identity domain.Identity, displayName, fileName, mimeType string, size int64, r io.Reader) (*domain.FileRecord, error) {
	const op = "service.file.upload"
	log := s.log.With(
		slog.String("op", op),
		slog.String("meeting_id", meetingID.String()),
	)

	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}
	if size > domain.MaxFileSize {
		return nil, fmt.Errorf("%w: file exceeds 10MB limit", ErrInvalidInput)
	}

	if _, err := s.meetings.GetByID(ctx, meetingID); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("meetings/%s/%s-%s", meetingID, uuid.New(), sanitizeFileName(fileName))
	if err := s.storage.Upload(ctx, path, io.LimitReader(r, domain.MaxFileSize), mimeType); err != nil {
		log.Error("failed to upload object", sl.Err(err))
		return nil, err
	}

	file := domain.NewFileRecord(meetingID, identity.ID, strings.TrimSpace(displayName), fileName, path, size, mimeType)
	if err := s.files.Create(ctx, file); err != nil {
		log.Error("failed to persist file row", sl.Err(err))
		return nil, err
	}

	log.Info("file uploaded",
		slog.String("file_id", file.ID.String()),
		slog.Int64("size", size),
	)
	return file, nil
}

func (s *FileService) List(ctx context.Context, meetingID uuid.UUID, identity domain.Identity) ([]*domain.FileRecord, error) {
	if _, err := s.meetings.GetByID(ctx, meetingID); err != nil {
		return nil, err
	}
	return s.files.ListByMeeting(ctx, meetingID)
}

func (s *FileService) DownloadURL(ctx context.Context, fileID uuid.UUID, identity domain.Identity) (string, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return "", err
	}
	return s.storage.SignedURL(ctx, file.StoragePath, s.signedTTL)
}

// Delete is uploader-only. The stored object is removed best-effort; the
// metadata row must go either way.
func (s *FileService) Delete(ctx context.Context, fileID uuid.UUID, identity domain.Identity) error {
	const op = "service.file.delete"
	log := s.log.With(
		slog.String("op", op),
		slog.String("file_id", fileID.String()),
	)

	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if file.UploaderID != identity.ID {
		return ErrForbidden
	}

	if err := s.storage.Remove(ctx, file.StoragePath); err != nil {
		log.Error("failed to remove stored object", sl.Err(err))
	}

	return s.files.Delete(ctx, fileID)
}

func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	return strings.ReplaceAll(name, "..", "_")
}
