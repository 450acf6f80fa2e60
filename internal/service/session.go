// Package service contains the business logic layer.
//
// This file implements the editing session: the in-memory report
// collection, edit orchestration, and save/export flows.
package service

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mwhitfield/snagbook/internal/document"
	"github.com/mwhitfield/snagbook/internal/domain"
	"github.com/mwhitfield/snagbook/internal/editor"
	"github.com/mwhitfield/snagbook/internal/ingest"
	"github.com/mwhitfield/snagbook/internal/metrics"
	"github.com/mwhitfield/snagbook/internal/storage"
)

// =============================================================================
// Session
// =============================================================================

// Session owns the live report collection. All edits flow through it:
// apply the edit to the latest report state, swap the result into the
// collection, then persist the serialized collection.
//
// The in-memory state is the source of truth. A failed persist keeps the
// edit and surfaces EPERSISTENCE, so the worst outcome of a store outage
// is "changes not yet saved", never a lost edit.
type Session struct {
	mu        sync.Mutex
	reports   []domain.Report
	store     *storage.CollectionStore
	documents storage.Storage
	generator *document.Generator
	processor *ingest.Processor
	logger    *slog.Logger
}

// NewSession creates a session and loads the persisted collection.
//
// A store with no saved collection yields an empty session; any other
// load failure is returned so startup can fail loudly rather than risk
// overwriting data it could not read.
func NewSession(ctx context.Context, store *storage.CollectionStore, documents storage.Storage, logger *slog.Logger) (*Session, error) {
	reports, err := store.Load(ctx)
	if err != nil {
		return nil, domain.PersistenceFailure(err, "service.load")
	}

	logger.Info("session loaded", "reports", len(reports))

	return &Session{
		reports:   reports,
		store:     store,
		documents: documents,
		generator: document.NewGenerator(),
		processor: ingest.NewProcessor(logger),
		logger:    logger,
	}, nil
}

// =============================================================================
// Collection Queries
// =============================================================================

// ListReports returns the saved-report projections in collection order.
func (s *Session) ListReports(ctx context.Context) []domain.SavedReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.SavedReport, len(s.reports))
	for i := range s.reports {
		out[i] = domain.BuildSavedReport(&s.reports[i])
	}
	return out
}

// GetReport returns the full report tree for the given ID.
func (s *Session) GetReport(ctx context.Context, reportID uuid.UUID) (*domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(reportID)
	if i < 0 {
		return nil, domain.NotFound("service.get_report", "Report", reportID.String())
	}
	r := s.reports[i]
	return &r, nil
}

// =============================================================================
// Report Operations
// =============================================================================

// CreateReport adds a fresh report with the default room catalog and
// persists the collection.
func (s *Session) CreateReport(ctx context.Context) (*domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := editor.NewReport()
	s.reports = append(s.reports, *r)
	metrics.ReportsCreated.Inc()
	metrics.EditsTotal.WithLabelValues("create_report").Inc()

	s.logger.Info("created report", "report_id", r.ID)

	return r, s.persist(ctx)
}

// UpdateFields applies a partial update to a report's scalar fields.
func (s *Session) UpdateFields(ctx context.Context, reportID uuid.UUID, patch editor.FieldPatch) (*domain.Report, error) {
	return s.edit(ctx, reportID, "update_fields", func(r *domain.Report) (*domain.Report, error) {
		return editor.UpdateReportFields(r, reportID, patch)
	})
}

// SetStatus changes a report's lifecycle status.
func (s *Session) SetStatus(ctx context.Context, reportID uuid.UUID, status domain.ReportStatus) (*domain.Report, error) {
	return s.edit(ctx, reportID, "set_status", func(r *domain.Report) (*domain.Report, error) {
		return editor.SetStatus(r, reportID, status)
	})
}

// Save commits the report: stamps LastModified and persists.
func (s *Session) Save(ctx context.Context, reportID uuid.UUID) (*domain.Report, error) {
	return s.edit(ctx, reportID, "save", func(r *domain.Report) (*domain.Report, error) {
		return editor.CommitSave(r), nil
	})
}

// =============================================================================
// Snag Operations
// =============================================================================

// AddSnag appends an empty snag to the given room and returns the updated
// report together with the new snag's ID.
func (s *Session) AddSnag(ctx context.Context, reportID, roomID uuid.UUID) (*domain.Report, uuid.UUID, error) {
	var snagID uuid.UUID
	r, err := s.edit(ctx, reportID, "add_snag", func(r *domain.Report) (*domain.Report, error) {
		out, id, err := editor.AddSnag(r, roomID)
		snagID = id
		return out, err
	})
	if err == nil {
		metrics.SnagsCreated.Inc()
	}
	return r, snagID, err
}

// UpdateSnag applies a partial update to a snag.
func (s *Session) UpdateSnag(ctx context.Context, reportID, roomID, snagID uuid.UUID, patch editor.SnagPatch) (*domain.Report, error) {
	return s.edit(ctx, reportID, "update_snag", func(r *domain.Report) (*domain.Report, error) {
		return editor.UpdateSnag(r, roomID, snagID, patch)
	})
}

// DeleteSnag removes a snag and its photos. Deleting an absent snag is a
// no-op success.
func (s *Session) DeleteSnag(ctx context.Context, reportID, roomID, snagID uuid.UUID) (*domain.Report, error) {
	return s.edit(ctx, reportID, "delete_snag", func(r *domain.Report) (*domain.Report, error) {
		return editor.DeleteSnag(r, roomID, snagID)
	})
}

// RemovePhoto detaches a photo from a snag. Removing an absent photo is a
// no-op success.
func (s *Session) RemovePhoto(ctx context.Context, reportID, roomID, snagID, photoID uuid.UUID) (*domain.Report, error) {
	return s.edit(ctx, reportID, "remove_photo", func(r *domain.Report) (*domain.Report, error) {
		return editor.RemovePhoto(r, roomID, snagID, photoID)
	})
}

// SetCoverPhoto processes an uploaded image and attaches it as the
// report's cover photo.
func (s *Session) SetCoverPhoto(ctx context.Context, reportID uuid.UUID, file ingest.File) (*domain.Report, error) {
	photo, err := s.processor.Process(ctx, file)
	if err != nil {
		metrics.PhotosIngested.WithLabelValues("failed").Inc()
		return nil, err
	}
	metrics.PhotosIngested.WithLabelValues("ok").Inc()

	return s.edit(ctx, reportID, "set_cover_photo", func(r *domain.Report) (*domain.Report, error) {
		return editor.SetCoverPhoto(r, reportID, *photo)
	})
}

// RemoveCoverPhoto discards the report's cover photo.
func (s *Session) RemoveCoverPhoto(ctx context.Context, reportID uuid.UUID) (*domain.Report, error) {
	return s.edit(ctx, reportID, "remove_cover_photo", func(r *domain.Report) (*domain.Report, error) {
		return editor.RemoveCoverPhoto(r, reportID)
	})
}

// AttachPhotos ingests a batch of uploads for one snag. Files are decoded
// concurrently; each completion is applied against the report state at
// completion time, so two in-flight uploads never overwrite each other.
// A decode failure only fails its own file.
//
// The target snag must exist when the batch starts; a missing report,
// room, or snag ID fails the whole call with ENOTFOUND before any file
// is decoded. A snag deleted mid-batch silently drops the remaining
// completions, matching the delete-wins outcome of doing the two edits
// in sequence.
//
// The collection is persisted once, after the whole batch settles.
func (s *Session) AttachPhotos(ctx context.Context, reportID, roomID, snagID uuid.UUID, files []ingest.File) ([]ingest.Result, error) {
	const op = "service.attach_photos"

	s.mu.Lock()
	i := s.indexOf(reportID)
	if i < 0 {
		s.mu.Unlock()
		return nil, domain.NotFound(op, "Report", reportID.String())
	}
	room := s.reports[i].FindRoom(roomID)
	if room == nil {
		s.mu.Unlock()
		return nil, domain.NotFound(op, "Room", roomID.String())
	}
	if room.FindSnag(snagID) == nil {
		s.mu.Unlock()
		return nil, domain.NotFound(op, "Snag", snagID.String())
	}
	s.mu.Unlock()

	results := s.processor.ProcessBatch(ctx, files, func(photo domain.Photo) {
		s.mu.Lock()
		defer s.mu.Unlock()

		i := s.indexOf(reportID)
		if i < 0 {
			return
		}
		r := s.reports[i]
		out, err := editor.AddPhoto(&r, roomID, snagID, photo)
		if err != nil {
			s.logger.Warn("photo completion dropped",
				"report_id", reportID,
				"snag_id", snagID,
				"error", err,
			)
			return
		}
		s.reports[i] = *out
		metrics.EditsTotal.WithLabelValues("add_photo").Inc()
	})

	for _, res := range results {
		if res.Err != nil {
			metrics.PhotosIngested.WithLabelValues("failed").Inc()
		} else {
			metrics.PhotosIngested.WithLabelValues("ok").Inc()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(reportID) < 0 {
		return results, domain.NotFound(op, "Report", reportID.String())
	}
	return results, s.persist(ctx)
}

// =============================================================================
// Export
// =============================================================================

// ExportResult is a generated report document.
type ExportResult struct {
	Filename string
	Data     []byte
	Size     int64
}

// Export generates the PDF for a report and stores a copy under the
// report's document prefix. Generation reads a snapshot of the report;
// the live state is never touched, so a failed export has no side effects
// beyond the error.
func (s *Session) Export(ctx context.Context, reportID uuid.UUID) (*ExportResult, error) {
	r, err := s.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var buf bytes.Buffer
	size, err := s.generator.Generate(ctx, r, &buf)
	if err != nil {
		return nil, err
	}
	metrics.DocumentsGenerated.Inc()
	metrics.DocumentGenerationDuration.Observe(time.Since(start).Seconds())

	filename := document.Filename(r.Address)

	// Best effort: the caller gets the bytes either way, the stored copy
	// is a convenience
	key := storage.DocumentKey(r.ID, filename)
	err = s.documents.Put(ctx, key, bytes.NewReader(buf.Bytes()), storage.PutOptions{
		ContentType: "application/pdf",
		Overwrite:   true,
	})
	if err != nil {
		s.logger.Warn("failed to store exported document", "key", key, "error", err)
	}

	s.logger.Info("exported report",
		"report_id", r.ID,
		"filename", filename,
		"bytes", size,
		"duration", time.Since(start),
	)

	return &ExportResult{Filename: filename, Data: buf.Bytes(), Size: size}, nil
}

// =============================================================================
// Internal Helpers
// =============================================================================

// edit runs one editor operation against the latest report state under
// the session lock, swaps the result into the collection, and persists.
func (s *Session) edit(ctx context.Context, reportID uuid.UUID, operation string, apply func(*domain.Report) (*domain.Report, error)) (*domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(reportID)
	if i < 0 {
		return nil, domain.NotFound("service."+operation, "Report", reportID.String())
	}

	r := s.reports[i]
	out, err := apply(&r)
	if err != nil {
		return nil, err
	}

	s.reports[i] = *out
	metrics.EditsTotal.WithLabelValues(operation).Inc()

	return out, s.persist(ctx)
}

// persist saves the collection. Must be called with the lock held.
// On failure the in-memory state is kept and EPERSISTENCE returned.
func (s *Session) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.reports); err != nil {
		metrics.PersistenceFailures.Inc()
		s.logger.Error("failed to persist report collection", "error", err)
		return domain.PersistenceFailure(err, "service.persist")
	}
	return nil
}

// indexOf returns the position of a report in the collection, or -1.
// Must be called with the lock held.
func (s *Session) indexOf(reportID uuid.UUID) int {
	for i := range s.reports {
		if s.reports[i].ID == reportID {
			return i
		}
	}
	return -1
}
