package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/flexstack-go/internal/domain/repositories"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/media"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/security"
)

// ErrUploadRejected wraps failures from processing or storing the uploaded
// bytes. Failures to record the upload are returned unwrapped.
var ErrUploadRejected = errors.New("upload rejected")

// UploadResult is returned to the editor so it can set the url through a
// following UPDATE_ELEMENT.
type UploadResult struct {
	FileID string `json:"fileId"`
	URL    string `json:"url"`
}

// MediaService stores uploaded images and videos and records them.
type MediaService struct {
	images *media.ImageProcessor
	videos *media.VideoStore
	files  repositories.MediaFileRepository
	logger *logging.ChanneledLogger
}

// NewMediaService creates the media service singleton.
func NewMediaService(images *media.ImageProcessor, videos *media.VideoStore, files repositories.MediaFileRepository, logger *logging.ChanneledLogger) *MediaService {
	return &MediaService{images: images, videos: videos, files: files, logger: logger}
}

// UploadImage converts r to webp and records it for profileID.
func (s *MediaService) UploadImage(ctx context.Context, profileID, filename string, r io.Reader) (*UploadResult, error) {
	start := time.Now()
	fileID := security.GenerateULID()
	stored, err := s.images.ProcessImage(r, fileID)
	if err != nil {
		s.logger.Media().Warn("Image upload rejected", "filename", filename, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUploadRejected, err)
	}
	if err := s.record(ctx, profileID, fileID, filename, content.MediaImage, stored); err != nil {
		_ = s.images.Delete(stored.URL)
		return nil, err
	}
	s.logger.Media().Info("Image uploaded", "fileId", fileID, "url", stored.URL,
		"width", stored.Width, "height", stored.Height, "size", stored.Size, "duration", time.Since(start))
	return &UploadResult{FileID: fileID, URL: stored.URL}, nil
}

// UploadBase64Image accepts a data URL or bare base64 payload.
func (s *MediaService) UploadBase64Image(ctx context.Context, profileID, filename, data string) (*UploadResult, error) {
	start := time.Now()
	fileID := security.GenerateULID()
	stored, err := s.images.ProcessBase64Image(data, fileID)
	if err != nil {
		s.logger.Media().Warn("Image upload rejected", "filename", filename, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUploadRejected, err)
	}
	if err := s.record(ctx, profileID, fileID, filename, content.MediaImage, stored); err != nil {
		_ = s.images.Delete(stored.URL)
		return nil, err
	}
	s.logger.Media().Info("Image uploaded", "fileId", fileID, "url", stored.URL, "size", stored.Size, "duration", time.Since(start))
	return &UploadResult{FileID: fileID, URL: stored.URL}, nil
}

// UploadVideo stores r unchanged and records it for profileID.
func (s *MediaService) UploadVideo(ctx context.Context, profileID, filename string, r io.Reader) (*UploadResult, error) {
	start := time.Now()
	fileID := security.GenerateULID()
	stored, err := s.videos.Store(r, fileID)
	if err != nil {
		s.logger.Media().Warn("Video upload rejected", "filename", filename, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUploadRejected, err)
	}
	if err := s.record(ctx, profileID, fileID, filename, content.MediaVideo, stored); err != nil {
		_ = s.videos.Delete(stored.URL)
		return nil, err
	}
	s.logger.Media().Info("Video uploaded", "fileId", fileID, "url", stored.URL, "size", stored.Size, "duration", time.Since(start))
	return &UploadResult{FileID: fileID, URL: stored.URL}, nil
}

// List returns the profile's uploads, newest first.
func (s *MediaService) List(ctx context.Context, profileID string) ([]*content.MediaFile, error) {
	files, err := s.files.FindByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	return files, nil
}

func (s *MediaService) record(ctx context.Context, profileID, fileID, filename string, kind content.MediaKind, stored *media.StoredFile) error {
	file := &content.MediaFile{
		ID:        fileID,
		ProfileID: profileID,
		Kind:      kind,
		Filename:  filepath.Base(filename),
		URL:       stored.URL,
		MimeType:  stored.MimeType,
		Width:     stored.Width,
		Height:    stored.Height,
		Size:      stored.Size,
		Created:   time.Now().UTC(),
	}
	if err := s.files.Store(ctx, file); err != nil {
		return fmt.Errorf("failed to record media file: %w", err)
	}
	return nil
}
