// Package media provides the image pipeline for item and announcement
// uploads.
package media

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

var binaryPattern = regexp.MustCompile(`^data:image/\w+;base64,`)
var mimePattern = regexp.MustCompile(`^data:image/(\w+);base64,`)

// thumbnail widths served to menu cards and detail views
var thumbnailWidths = []int{600, 300}

// ImageProcessor saves uploaded images under the media directory and
// generates WebP thumbnails for them.
type ImageProcessor struct {
	basePath string
}

func NewImageProcessor(basePath string) *ImageProcessor {
	return &ImageProcessor{basePath: basePath}
}

// ProcessUpload decodes a base64 data URI, saves the original under
// images/{subdir}/ and writes WebP thumbnails under images/thumbs/.
// Returns the original's relative URL plus the thumbnail URLs.
func (p *ImageProcessor) ProcessUpload(data, ownerID, subdir string) (string, []string, error) {
	if data == "" {
		return "", nil, fmt.Errorf("empty base64 data")
	}

	ext := extractExtension(data)
	if ext == "" {
		return "", nil, fmt.Errorf("unsupported image format")
	}

	timestamp := time.Now().UnixMilli()
	filename := fmt.Sprintf("%s-%d.%s", ownerID, timestamp, ext)

	originalDir := filepath.Join(p.basePath, "images", subdir)
	thumbsDir := filepath.Join(p.basePath, "images", "thumbs")
	for _, dir := range []string{originalDir, thumbsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", nil, fmt.Errorf("failed to create media directory: %w", err)
		}
	}

	originalPath, err := saveBinaryImage(data, filename, originalDir)
	if err != nil {
		return "", nil, err
	}

	thumbPaths, err := generateThumbnails(originalPath, ownerID, timestamp, thumbsDir)
	if err != nil {
		os.Remove(originalPath)
		return "", nil, fmt.Errorf("failed to generate thumbnails: %w", err)
	}

	originalURL := fmt.Sprintf("/media/images/%s/%s", subdir, filename)
	thumbURLs := make([]string, len(thumbPaths))
	for i, thumbPath := range thumbPaths {
		thumbURLs[i] = fmt.Sprintf("/media/images/thumbs/%s", filepath.Base(thumbPath))
	}
	return originalURL, thumbURLs, nil
}

func generateThumbnails(originalPath, ownerID string, timestamp int64, thumbsDir string) ([]string, error) {
	file, err := os.Open(originalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open original file: %w", err)
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	paths := make([]string, len(thumbnailWidths))
	for i, width := range thumbnailWidths {
		resized := imaging.Resize(img, width, 0, imaging.Lanczos)
		thumbPath := filepath.Join(thumbsDir, fmt.Sprintf("%s-%d_%dpx.webp", ownerID, timestamp, width))

		if err := webp.Save(thumbPath, resized, &webp.Options{Quality: 85}); err != nil {
			for j := 0; j < i; j++ {
				os.Remove(paths[j])
			}
			return nil, fmt.Errorf("failed to save WebP thumbnail: %w", err)
		}
		paths[i] = thumbPath
	}
	return paths, nil
}

func saveBinaryImage(data, filename, targetDir string) (string, error) {
	if !binaryPattern.MatchString(data) {
		return "", fmt.Errorf("invalid image base64 format")
	}

	decoded, err := base64.StdEncoding.DecodeString(binaryPattern.ReplaceAllString(data, ""))
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}

	fullPath := filepath.Join(targetDir, filename)
	if err := os.WriteFile(fullPath, decoded, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return fullPath, nil
}

func extractExtension(data string) string {
	match := mimePattern.FindStringSubmatch(data)
	if len(match) < 2 {
		return ""
	}
	switch match[1] {
	case "png", "webp", "gif":
		return match[1]
	case "jpeg", "jpg":
		return "jpg"
	default:
		return ""
	}
}
