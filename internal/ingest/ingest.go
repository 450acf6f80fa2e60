// Package ingest turns uploaded image files into report photos.
//
// Each file in a batch is decoded and thumbnailed independently so one
// corrupt upload never sinks the rest. Completions are delivered through
// a callback, letting the caller apply each finished photo against its
// latest state rather than the state at submission time.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"

	// Register the decoders for the supported upload formats.
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/mwhitfield/snagbook/internal/domain"
)

// =============================================================================
// Types
// =============================================================================

// File is one uploaded image awaiting processing.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Result is the outcome of processing a single file. Exactly one of
// Photo or Err is set.
type Result struct {
	Filename string
	Photo    *domain.Photo
	Err      error
}

// ApplyFunc receives each completed photo. Implementations decide how the
// photo lands in the report tree; the processor only guarantees the call.
type ApplyFunc func(photo domain.Photo)

// Processor validates, decodes and thumbnails uploaded images.
type Processor struct {
	logger *slog.Logger
}

// NewProcessor creates a photo ingestion processor.
func NewProcessor(logger *slog.Logger) *Processor {
	return &Processor{logger: logger}
}

// =============================================================================
// Processing
// =============================================================================

// Process decodes a single uploaded file into a Photo with a thumbnail.
//
// Validation failures and undecodable data return a domain error with
// code EDECODE (or EINVALID for type/size rejections); the caller decides
// whether that sinks the batch.
func (p *Processor) Process(ctx context.Context, f File) (*domain.Photo, error) {
	const op = "ingest.Process"

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if !domain.IsValidImageContentType(f.ContentType) {
		return nil, domain.Invalid(op, fmt.Sprintf("unsupported image type %q", f.ContentType))
	}
	if err := domain.ValidateImageSize(int64(len(f.Data))); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return nil, domain.DecodeFailure(err, op, f.Filename)
	}

	thumbnail, err := p.renderThumbnail(img)
	if err != nil {
		return nil, domain.DecodeFailure(err, op, f.Filename)
	}

	photo := &domain.Photo{
		ID:        uuid.New(),
		Data:      f.Data,
		Thumbnail: thumbnail,
		Filename:  f.Filename,
	}

	p.logger.Debug("processed photo",
		"filename", f.Filename,
		"size", len(f.Data),
		"thumbnail_size", len(thumbnail),
	)

	return photo, nil
}

// ProcessBatch runs every file through Process concurrently and delivers
// each successful photo to apply. Failures are collected per file; a bad
// file never aborts its siblings. The returned results are ordered by
// input position.
func (p *Processor) ProcessBatch(ctx context.Context, files []File, apply ApplyFunc) []Result {
	results := make([]Result, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f File) {
			defer wg.Done()

			photo, err := p.Process(ctx, f)
			if err != nil {
				p.logger.Warn("photo ingestion failed",
					"filename", f.Filename,
					"error", err,
				)
				results[i] = Result{Filename: f.Filename, Err: err}
				return
			}

			// apply must be safe for concurrent calls; the session
			// serializes these under its own lock
			apply(*photo)
			results[i] = Result{Filename: f.Filename, Photo: photo}
		}(i, f)
	}
	wg.Wait()

	return results
}

// renderThumbnail scales an image to fit the thumbnail bounds while
// preserving aspect ratio and encodes it as JPEG.
func (p *Processor) renderThumbnail(img image.Image) ([]byte, error) {
	thumb := imaging.Fit(img, domain.ThumbnailMaxWidth, domain.ThumbnailMaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(domain.ThumbnailJPEGQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}
