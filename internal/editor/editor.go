// Package editor implements the report update engine.
//
// Every operation is a pure function: it takes a report, applies a single
// structured edit, and returns a new report with copy-on-write semantics.
// The input report is never mutated and remains valid after the call;
// untouched rooms and snags share their backing arrays with the result.
//
// Operations addressing a missing report, room, or snag ID return the
// input report unchanged together with a domain.ENOTFOUND error, so a
// caller can always keep using the value it passed in. Deleting a snag or
// photo that is already absent is a no-op success.
package editor

import (
	"time"

	"github.com/google/uuid"

	"github.com/mwhitfield/snagbook/internal/domain"
)

// =============================================================================
// Patch Types
// =============================================================================

// FieldPatch describes a partial update to a report's scalar fields.
// Nil pointers leave the corresponding field unchanged.
type FieldPatch struct {
	Address        *string
	Developer      *string
	Client         *string
	PlotNumber     *string
	InspectionDate *string
}

// SnagPatch describes a partial update to a snag's fields.
// Nil pointers leave the corresponding field unchanged.
type SnagPatch struct {
	Location    *string
	Description *string
	Priority    *domain.SnagPriority
	Status      *domain.SnagStatus
}

// =============================================================================
// Report Operations
// =============================================================================

// NewReport builds a fresh report: new identity, both timestamps set to
// now, working status, and one empty room per catalog entry in catalog
// order. The catalog is the sole source of room identities.
func NewReport() *domain.Report {
	now := time.Now()
	rooms := make([]domain.Room, len(domain.DefaultRooms))
	for i, name := range domain.DefaultRooms {
		rooms[i] = domain.Room{ID: uuid.New(), Name: name}
	}
	return &domain.Report{
		ID:           uuid.New(),
		Status:       domain.ReportStatusWorking,
		Rooms:        rooms,
		CreatedAt:    now,
		LastModified: now,
	}
}

// UpdateReportFields merges scalar field changes into the report.
// Identity, timestamps, and the whole room subtree are preserved.
func UpdateReportFields(r *domain.Report, reportID uuid.UUID, patch FieldPatch) (*domain.Report, error) {
	if r.ID != reportID {
		return r, domain.NotFound("editor.update_report", "Report", reportID.String())
	}

	out := cloneReport(r)
	if patch.Address != nil {
		out.Address = *patch.Address
	}
	if patch.Developer != nil {
		out.Developer = *patch.Developer
	}
	if patch.Client != nil {
		out.Client = *patch.Client
	}
	if patch.PlotNumber != nil {
		out.PlotNumber = *patch.PlotNumber
	}
	if patch.InspectionDate != nil {
		out.InspectionDate = *patch.InspectionDate
	}
	return out, nil
}

// SetStatus changes only the report's status. Status changes are
// lightweight and deliberately do not count as a content edit, so
// LastModified is left untouched; only CommitSave advances it.
func SetStatus(r *domain.Report, reportID uuid.UUID, status domain.ReportStatus) (*domain.Report, error) {
	if r.ID != reportID {
		return r, domain.NotFound("editor.set_status", "Report", reportID.String())
	}
	if !status.IsValid() {
		return r, domain.Invalid("editor.set_status", "Unknown report status: "+status.String())
	}

	out := cloneReport(r)
	out.Status = status
	return out, nil
}

// CommitSave stamps LastModified and returns the value to be persisted.
// This is the only operation that advances LastModified.
func CommitSave(r *domain.Report) *domain.Report {
	out := cloneReport(r)
	out.LastModified = time.Now()
	return out
}

// SetCoverPhoto attaches the report's single cover photo, replacing any
// existing one. A fresh photo identity is assigned.
func SetCoverPhoto(r *domain.Report, reportID uuid.UUID, photo domain.Photo) (*domain.Report, error) {
	if r.ID != reportID {
		return r, domain.NotFound("editor.set_cover_photo", "Report", reportID.String())
	}

	photo.ID = uuid.New()
	out := cloneReport(r)
	out.CoverPhoto = &photo
	return out, nil
}

// RemoveCoverPhoto discards the report's cover photo. No-op if none is set.
func RemoveCoverPhoto(r *domain.Report, reportID uuid.UUID) (*domain.Report, error) {
	if r.ID != reportID {
		return r, domain.NotFound("editor.remove_cover_photo", "Report", reportID.String())
	}
	if r.CoverPhoto == nil {
		return r, nil
	}

	out := cloneReport(r)
	out.CoverPhoto = nil
	return out, nil
}

// =============================================================================
// Copy-on-Write Helpers
// =============================================================================

// cloneReport copies the report struct and its rooms slice. The room
// structs are copied by value, so their snag slices still alias the
// input; callers editing a room must replace that room's snag slice
// before touching it.
func cloneReport(r *domain.Report) *domain.Report {
	out := *r
	out.Rooms = make([]domain.Room, len(r.Rooms))
	copy(out.Rooms, r.Rooms)
	return &out
}

// cloneRoomSnags replaces the room's snag slice with a fresh copy sized
// with headroom for one append. The snag structs are copied by value;
// their photo slices still alias the input until individually replaced.
func cloneRoomSnags(room *domain.Room) {
	snags := make([]domain.Snag, len(room.Snags), len(room.Snags)+1)
	copy(snags, room.Snags)
	room.Snags = snags
}
