// Package domain contains core business types and interfaces.
//
// This file defines the Snag domain type: a single defect recorded
// against a room during a property inspection.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Snag Priority
// =============================================================================

// SnagPriority represents the severity ranking of a snag.
type SnagPriority string

const (
	// SnagPriorityCritical indicates a defect requiring immediate attention.
	SnagPriorityCritical SnagPriority = "critical"

	// SnagPriorityHigh indicates a significant defect.
	SnagPriorityHigh SnagPriority = "high"

	// SnagPriorityMedium is the default priority for a new snag.
	SnagPriorityMedium SnagPriority = "medium"

	// SnagPriorityLow indicates a cosmetic or minor defect.
	SnagPriorityLow SnagPriority = "low"
)

// String returns the string representation of the priority.
func (p SnagPriority) String() string {
	return string(p)
}

// IsValid returns true if the priority is a recognized value.
func (p SnagPriority) IsValid() bool {
	switch p {
	case SnagPriorityCritical, SnagPriorityHigh, SnagPriorityMedium, SnagPriorityLow:
		return true
	}
	return false
}

// SeverityRank returns a comparable rank for sorting, highest severity
// first: critical=3, high=2, medium=1, low=0. Unknown priorities rank
// below low.
func (p SnagPriority) SeverityRank() int {
	switch p {
	case SnagPriorityCritical:
		return 3
	case SnagPriorityHigh:
		return 2
	case SnagPriorityMedium:
		return 1
	case SnagPriorityLow:
		return 0
	}
	return -1
}

// =============================================================================
// Snag Status
// =============================================================================

// SnagStatus represents the resolution state of a snag. There is no
// enforced transition order; any status may be set at any time.
type SnagStatus string

const (
	// SnagStatusOpen is the default status for a newly recorded snag.
	SnagStatusOpen SnagStatus = "open"

	// SnagStatusInProgress indicates the defect is being worked on.
	SnagStatusInProgress SnagStatus = "in-progress"

	// SnagStatusResolved indicates the defect has been fixed.
	SnagStatusResolved SnagStatus = "resolved"
)

// String returns the string representation of the status.
func (s SnagStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a recognized value.
func (s SnagStatus) IsValid() bool {
	switch s {
	case SnagStatusOpen, SnagStatusInProgress, SnagStatusResolved:
		return true
	}
	return false
}

// =============================================================================
// Snag Domain Type
// =============================================================================

// Snag represents a single defect recorded during an inspection.
//
// A snag belongs to exactly one room for its lifetime. It is created empty
// (no location, no description, medium priority, open status) and is
// mutated through field-level patches applied by the editor.
type Snag struct {
	ID          uuid.UUID    `json:"id"`
	Location    string       `json:"location"`    // Free text, e.g. "Under sink"
	Description string       `json:"description"` // Free text, may come from the template catalog
	Priority    SnagPriority `json:"priority"`
	Status      SnagStatus   `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"` // Immutable
	Photos      []Photo      `json:"photos"`
}

// FindPhoto returns the photo with the given ID, or nil if absent.
func (s *Snag) FindPhoto(photoID uuid.UUID) *Photo {
	for i := range s.Photos {
		if s.Photos[i].ID == photoID {
			return &s.Photos[i]
		}
	}
	return nil
}

// IsOpen returns true if the snag has not yet entered work or been resolved.
func (s *Snag) IsOpen() bool {
	return s.Status == SnagStatusOpen
}
