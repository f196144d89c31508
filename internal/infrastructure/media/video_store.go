package media

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var videoExtensions = map[string]string{
	"video/mp4":       "mp4",
	"video/webm":      "webm",
	"video/quicktime": "mov",
}

// VideoStore writes uploaded videos unmodified.
type VideoStore struct {
	basePath  string
	urlPrefix string
	maxBytes  int64
}

// NewVideoStore creates a store rooted at basePath/videos.
func NewVideoStore(basePath, urlPrefix string, maxBytes int64) *VideoStore {
	return &VideoStore{
		basePath:  basePath,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		maxBytes:  maxBytes,
	}
}

// Store sniffs the container type from the first bytes and writes
// videos/{fileID}.{ext}.
func (s *VideoStore) Store(r io.Reader, fileID string) (*StoredFile, error) {
	data, err := readLimited(r, s.maxBytes)
	if err != nil {
		return nil, err
	}

	mimeType := sniffVideo(data)
	ext, ok := videoExtensions[mimeType]
	if !ok {
		return nil, fmt.Errorf("unsupported video format %s", mimeType)
	}

	targetDir := filepath.Join(s.basePath, "videos")
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	filename := fmt.Sprintf("%s.%s", fileID, ext)
	fullPath := filepath.Join(targetDir, filename)
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write video file: %w", err)
	}

	return &StoredFile{
		Path:     fullPath,
		URL:      s.urlPrefix + "/videos/" + filename,
		MimeType: mimeType,
		Size:     int64(len(data)),
	}, nil
}

// Delete removes a stored video by its public url.
func (s *VideoStore) Delete(url string) error {
	return deleteByURL(s.basePath, s.urlPrefix, url)
}

// sniffVideo extends http.DetectContentType with QuickTime, which it reports
// as application/octet-stream.
func sniffVideo(data []byte) string {
	if len(data) >= 12 && string(data[4:8]) == "ftyp" && string(data[8:10]) == "qt" {
		return "video/quicktime"
	}
	return http.DetectContentType(data)
}
