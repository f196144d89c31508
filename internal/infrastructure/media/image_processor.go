// Package media provides image processing and asset storage
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// ErrTooLarge is returned when an upload exceeds the configured limit.
var ErrTooLarge = errors.New("upload exceeds size limit")

// StoredFile describes an asset written under the media directory.
type StoredFile struct {
	Path     string
	URL      string
	MimeType string
	Width    int
	Height   int
	Size     int64
}

// ImageProcessor decodes uploaded images, downscales them and stores them as webp
type ImageProcessor struct {
	basePath  string
	urlPrefix string
	maxWidth  int
	quality   float32
	maxBytes  int64
}

// NewImageProcessor creates a new ImageProcessor instance
func NewImageProcessor(basePath, urlPrefix string, maxWidth, quality int, maxBytes int64) *ImageProcessor {
	return &ImageProcessor{
		basePath:  basePath,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		maxWidth:  maxWidth,
		quality:   float32(quality),
		maxBytes:  maxBytes,
	}
}

// ProcessImage decodes r (jpeg, png, gif, bmp, tiff or webp), applies EXIF
// orientation, shrinks it to maxWidth and writes images/{fileID}.webp.
func (p *ImageProcessor) ProcessImage(r io.Reader, fileID string) (*StoredFile, error) {
	data, err := readLimited(r, p.maxBytes)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if p.maxWidth > 0 && img.Bounds().Dx() > p.maxWidth {
		img = imaging.Resize(img, p.maxWidth, 0, imaging.Lanczos)
	}

	targetDir := filepath.Join(p.basePath, "images")
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	filename := fileID + ".webp"
	fullPath := filepath.Join(targetDir, filename)
	if err := webp.Save(fullPath, img, &webp.Options{Quality: p.quality}); err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to save webp image: %w", err)
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("file verification failed: %w", err)
	}

	return &StoredFile{
		Path:     fullPath,
		URL:      p.url("images", filename),
		MimeType: "image/webp",
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
		Size:     info.Size(),
	}, nil
}

var dataURLPattern = regexp.MustCompile(`^data:image/[\w.+-]+;base64,`)

// ProcessBase64Image handles a data URL upload with the same pipeline as
// ProcessImage. SVG is refused because flex images must be raster.
func (p *ImageProcessor) ProcessBase64Image(data, fileID string) (*StoredFile, error) {
	if data == "" {
		return nil, fmt.Errorf("empty base64 data")
	}
	if strings.HasPrefix(data, "data:image/svg+xml") {
		return nil, fmt.Errorf("unsupported image format: svg")
	}
	if !dataURLPattern.MatchString(data) {
		return nil, fmt.Errorf("invalid binary image base64 format")
	}

	decoded, err := base64.StdEncoding.DecodeString(dataURLPattern.ReplaceAllString(data, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return p.ProcessImage(bytes.NewReader(decoded), fileID)
}

// Delete removes a stored file by its public url. Missing files are ignored.
func (p *ImageProcessor) Delete(url string) error {
	return deleteByURL(p.basePath, p.urlPrefix, url)
}

func (p *ImageProcessor) url(subdir, filename string) string {
	return p.urlPrefix + "/" + path.Join(subdir, filename)
}

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

func deleteByURL(basePath, urlPrefix, url string) error {
	rel := strings.TrimPrefix(url, urlPrefix+"/")
	if rel == url || strings.Contains(rel, "..") {
		return fmt.Errorf("url %s is outside the media directory", url)
	}
	if err := os.Remove(filepath.Join(basePath, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", url, err)
	}
	return nil
}
