// Package editor implements the report update engine.
//
// This file holds the snag and photo level operations.
package editor

import (
	"time"

	"github.com/google/uuid"

	"github.com/mwhitfield/snagbook/internal/domain"
)

// AddSnag appends a new empty snag to the named room's sequence: fresh
// identity, created-at now, medium priority, open status. Returns the new
// report and the new snag's ID.
func AddSnag(r *domain.Report, roomID uuid.UUID) (*domain.Report, uuid.UUID, error) {
	out := cloneReport(r)
	room := out.FindRoom(roomID)
	if room == nil {
		return r, uuid.Nil, domain.NotFound("editor.add_snag", "Room", roomID.String())
	}

	cloneRoomSnags(room)
	snag := domain.Snag{
		ID:        uuid.New(),
		Priority:  domain.SnagPriorityMedium,
		Status:    domain.SnagStatusOpen,
		CreatedAt: time.Now(),
	}
	room.Snags = append(room.Snags, snag)
	return out, snag.ID, nil
}

// UpdateSnag applies a partial field merge to the identified snag, leaving
// all other snags and rooms structurally untouched. Patched priority and
// status values must be recognized.
func UpdateSnag(r *domain.Report, roomID, snagID uuid.UUID, patch SnagPatch) (*domain.Report, error) {
	if patch.Priority != nil && !patch.Priority.IsValid() {
		return r, domain.Invalid("editor.update_snag", "Unknown snag priority: "+patch.Priority.String())
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		return r, domain.Invalid("editor.update_snag", "Unknown snag status: "+patch.Status.String())
	}

	out := cloneReport(r)
	room := out.FindRoom(roomID)
	if room == nil {
		return r, domain.NotFound("editor.update_snag", "Room", roomID.String())
	}

	cloneRoomSnags(room)
	snag := room.FindSnag(snagID)
	if snag == nil {
		return r, domain.NotFound("editor.update_snag", "Snag", snagID.String())
	}

	if patch.Location != nil {
		snag.Location = *patch.Location
	}
	if patch.Description != nil {
		snag.Description = *patch.Description
	}
	if patch.Priority != nil {
		snag.Priority = *patch.Priority
	}
	if patch.Status != nil {
		snag.Status = *patch.Status
	}
	return out, nil
}

// DeleteSnag removes the snag from the room's sequence. Deleting a snag
// that is already absent is a no-op success, so calling this twice with
// the same ID yields the same tree as calling it once.
func DeleteSnag(r *domain.Report, roomID, snagID uuid.UUID) (*domain.Report, error) {
	out := cloneReport(r)
	room := out.FindRoom(roomID)
	if room == nil {
		return r, domain.NotFound("editor.delete_snag", "Room", roomID.String())
	}

	idx := -1
	for i := range room.Snags {
		if room.Snags[i].ID == snagID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return r, nil
	}

	snags := make([]domain.Snag, 0, len(room.Snags)-1)
	snags = append(snags, room.Snags[:idx]...)
	snags = append(snags, room.Snags[idx+1:]...)
	room.Snags = snags
	return out, nil
}

// AddPhoto appends a photo to the snag's sequence, assigning it a fresh
// identity. Photos from one ingestion batch arrive through independent
// calls and are appended in completion order.
func AddPhoto(r *domain.Report, roomID, snagID uuid.UUID, photo domain.Photo) (*domain.Report, error) {
	out := cloneReport(r)
	room := out.FindRoom(roomID)
	if room == nil {
		return r, domain.NotFound("editor.add_photo", "Room", roomID.String())
	}

	cloneRoomSnags(room)
	snag := room.FindSnag(snagID)
	if snag == nil {
		return r, domain.NotFound("editor.add_photo", "Snag", snagID.String())
	}

	if photo.ID == uuid.Nil {
		photo.ID = uuid.New()
	}
	photos := make([]domain.Photo, len(snag.Photos), len(snag.Photos)+1)
	copy(photos, snag.Photos)
	snag.Photos = append(photos, photo)
	return out, nil
}

// RemovePhoto removes one photo by ID from the snag's sequence.
// Removing a photo that is already absent is a no-op success.
func RemovePhoto(r *domain.Report, roomID, snagID, photoID uuid.UUID) (*domain.Report, error) {
	out := cloneReport(r)
	room := out.FindRoom(roomID)
	if room == nil {
		return r, domain.NotFound("editor.remove_photo", "Room", roomID.String())
	}

	cloneRoomSnags(room)
	snag := room.FindSnag(snagID)
	if snag == nil {
		return r, domain.NotFound("editor.remove_photo", "Snag", snagID.String())
	}

	idx := -1
	for i := range snag.Photos {
		if snag.Photos[i].ID == photoID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return r, nil
	}

	photos := make([]domain.Photo, 0, len(snag.Photos)-1)
	photos = append(photos, snag.Photos[:idx]...)
	photos = append(photos, snag.Photos[idx+1:]...)
	snag.Photos = photos
	return out, nil
}
