// Package domain contains core business types and interfaces.
//
// This file defines the Photo domain type and the image handling limits
// shared by the ingestion boundary.
package domain

import (
	"github.com/google/uuid"
)

// =============================================================================
// Image Constants
// =============================================================================

// SupportedImageTypes maps MIME types to their human-readable names.
// Only JPEG and PNG are supported (HEIC requires CGO).
var SupportedImageTypes = map[string]string{
	"image/jpeg": "JPEG",
	"image/png":  "PNG",
}

const (
	// MaxImageSize is the maximum allowed size for an ingested photo (20MB).
	MaxImageSize = 20 * 1024 * 1024

	// ThumbnailMaxWidth is the maximum width for generated thumbnails.
	ThumbnailMaxWidth = 200

	// ThumbnailMaxHeight is the maximum height for generated thumbnails.
	ThumbnailMaxHeight = 200

	// ThumbnailJPEGQuality is the JPEG quality for thumbnail generation (0-100).
	ThumbnailJPEGQuality = 85
)

// =============================================================================
// Photo Domain Type
// =============================================================================

// Photo represents an image attached to a snag, or the single cover photo
// of a report. A photo is owned exclusively by its snag (or report);
// deleting the owner discards the photo.
type Photo struct {
	ID        uuid.UUID `json:"id"`
	Data      []byte    `json:"data"`                // Encoded image bytes (JPEG after ingestion)
	Thumbnail []byte    `json:"thumbnail,omitempty"` // Small JPEG preview
	Filename  string    `json:"filename,omitempty"`  // Original filename, if known
}

// SizeBytes returns the size of the encoded image data.
func (p *Photo) SizeBytes() int64 {
	return int64(len(p.Data))
}

// HasThumbnail returns true if a preview has been generated for this photo.
func (p *Photo) HasThumbnail() bool {
	return len(p.Thumbnail) > 0
}

// IsValidImageContentType checks if the content type is supported.
func IsValidImageContentType(contentType string) bool {
	_, ok := SupportedImageTypes[contentType]
	return ok
}

// ValidateImageSize checks if the file size is within limits.
func ValidateImageSize(size int64) error {
	if size > MaxImageSize {
		return Errorf(ETOOLARGE, "photo.validate", "Image size %d bytes exceeds maximum of %d bytes (%.1fMB)", size, MaxImageSize, float64(MaxImageSize)/(1024*1024))
	}
	if size == 0 {
		return Invalid("photo.validate", "Image file is empty")
	}
	return nil
}
