// Package domain contains core business types and interfaces.
//
// This file defines the Report aggregate: a property snag report holding
// the fixed set of rooms and the snags recorded in each. Report -> Room ->
// Snag -> Photo form a strict ownership tree with no cross-references,
// which is what allows the editor to perform copy-on-write updates.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Report Status
// =============================================================================

// ReportStatus represents the lifecycle state of a report.
type ReportStatus string

const (
	// ReportStatusWorking indicates a report is being actively edited.
	ReportStatusWorking ReportStatus = "working"

	// ReportStatusComplete indicates the inspection is finished and the
	// report is ready to be shared.
	ReportStatusComplete ReportStatus = "complete"

	// ReportStatusArchived indicates the report is kept for reference only.
	ReportStatusArchived ReportStatus = "archived"
)

// String returns the string representation of the status.
func (s ReportStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a recognized value.
func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusWorking, ReportStatusComplete, ReportStatusArchived:
		return true
	}
	return false
}

// =============================================================================
// Report Domain Type
// =============================================================================

// Report represents a snag report for a single property inspection.
//
// A report owns its rooms exclusively; the room set is materialized from
// the default room catalog at creation time and is never added to or
// removed from afterwards. All descriptive fields are free text.
type Report struct {
	ID             uuid.UUID    `json:"id"`
	Address        string       `json:"address"`        // Property address
	Developer      string       `json:"developer"`      // Developer/builder name
	Client         string       `json:"client"`         // Client name
	PlotNumber     string       `json:"plotNumber"`     // Plot number on the development
	InspectionDate string       `json:"inspectionDate"` // Free text, no enforced format
	Status         ReportStatus `json:"status"`
	Rooms          []Room       `json:"rooms"`
	CoverPhoto     *Photo       `json:"coverPhoto,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`    // Immutable after creation
	LastModified   time.Time    `json:"lastModified"` // Advanced only by an explicit save
}

// FindRoom returns the room with the given ID, or nil if absent.
// The returned pointer aliases the report's own slice; callers that need
// to modify a room must go through the editor package.
func (r *Report) FindRoom(roomID uuid.UUID) *Room {
	for i := range r.Rooms {
		if r.Rooms[i].ID == roomID {
			return &r.Rooms[i]
		}
	}
	return nil
}

// =============================================================================
// Room Domain Type
// =============================================================================

// Room is a named area of the property holding an ordered snag list.
// Room order is display order and follows the catalog; it is never re-sorted.
type Room struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Snags []Snag    `json:"snags"`
}

// FindSnag returns the snag with the given ID, or nil if absent.
func (rm *Room) FindSnag(snagID uuid.UUID) *Snag {
	for i := range rm.Snags {
		if rm.Snags[i].ID == snagID {
			return &rm.Snags[i]
		}
	}
	return nil
}

// HasSnags returns true if the room has at least one snag recorded.
func (rm *Room) HasSnags() bool {
	return len(rm.Snags) > 0
}

// =============================================================================
// Saved Report Projection
// =============================================================================

// SavedReport is a read-only, flattened view of a report used for listing.
// The derived counts are recomputed from the report tree on every build and
// are never persisted independently.
type SavedReport struct {
	ID             uuid.UUID    `json:"id"`
	Address        string       `json:"address"`
	Developer      string       `json:"developer"`
	Client         string       `json:"client"`
	PlotNumber     string       `json:"plotNumber"`
	InspectionDate string       `json:"inspectionDate"`
	Status         ReportStatus `json:"status"`
	TotalSnags     int          `json:"totalSnags"`
	OpenSnags      int          `json:"openSnags"`
	CreatedAt      time.Time    `json:"createdAt"`
	LastModified   time.Time    `json:"lastModified"`
}

// BuildSavedReport flattens a report into its listing projection,
// recounting the snag totals from the current tree.
func BuildSavedReport(r *Report) SavedReport {
	counts := CountSnags(r)
	return SavedReport{
		ID:             r.ID,
		Address:        r.Address,
		Developer:      r.Developer,
		Client:         r.Client,
		PlotNumber:     r.PlotNumber,
		InspectionDate: r.InspectionDate,
		Status:         r.Status,
		TotalSnags:     counts.Total,
		OpenSnags:      counts.Open,
		CreatedAt:      r.CreatedAt,
		LastModified:   r.LastModified,
	}
}
