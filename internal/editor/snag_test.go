package editor

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitfield/snagbook/internal/domain"
)

func priorityPtr(p domain.SnagPriority) *domain.SnagPriority { return &p }
func statusPtr(s domain.SnagStatus) *domain.SnagStatus       { return &s }

func TestAddSnag(t *testing.T) {
	r := NewReport()
	kitchen := r.Rooms[0].ID

	got, snagID, err := AddSnag(r, kitchen)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, snagID)

	room := got.FindRoom(kitchen)
	require.Len(t, room.Snags, 1)
	snag := room.Snags[0]
	assert.Equal(t, snagID, snag.ID)
	assert.Empty(t, snag.Location)
	assert.Empty(t, snag.Description)
	assert.Equal(t, domain.SnagPriorityMedium, snag.Priority)
	assert.Equal(t, domain.SnagStatusOpen, snag.Status)
	assert.False(t, snag.CreatedAt.IsZero())

	// New snags append at the end.
	got2, secondID, err := AddSnag(got, kitchen)
	require.NoError(t, err)
	room = got2.FindRoom(kitchen)
	require.Len(t, room.Snags, 2)
	assert.Equal(t, snagID, room.Snags[0].ID)
	assert.Equal(t, secondID, room.Snags[1].ID)

	// Input untouched at every step.
	assert.Empty(t, r.FindRoom(kitchen).Snags)
	assert.Len(t, got.FindRoom(kitchen).Snags, 1)
}

func TestAddSnagUnknownRoom(t *testing.T) {
	r := NewReport()

	got, snagID, err := AddSnag(r, uuid.New())
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	assert.Equal(t, uuid.Nil, snagID)
	assert.Same(t, r, got)
}

func TestUpdateSnag(t *testing.T) {
	r := NewReport()
	kitchen := r.Rooms[0].ID
	r, snagID, err := AddSnag(r, kitchen)
	require.NoError(t, err)

	got, err := UpdateSnag(r, kitchen, snagID, SnagPatch{
		Location:    strPtr("Under sink"),
		Description: strPtr("Leak"),
		Priority:    priorityPtr(domain.SnagPriorityCritical),
	})
	require.NoError(t, err)

	snag := got.FindRoom(kitchen).FindSnag(snagID)
	require.NotNil(t, snag)
	assert.Equal(t, "Under sink", snag.Location)
	assert.Equal(t, "Leak", snag.Description)
	assert.Equal(t, domain.SnagPriorityCritical, snag.Priority)
	assert.Equal(t, domain.SnagStatusOpen, snag.Status, "unpatched fields keep their values")

	// The input tree still holds the empty snag.
	old := r.FindRoom(kitchen).FindSnag(snagID)
	assert.Empty(t, old.Location)
	assert.Equal(t, domain.SnagPriorityMedium, old.Priority)
}

func TestUpdateSnagLeavesSiblingsShared(t *testing.T) {
	r := NewReport()
	kitchen := r.Rooms[0].ID
	garage := r.Rooms[15].ID
	r, _, err := AddSnag(r, garage)
	require.NoError(t, err)
	r, snagID, err := AddSnag(r, kitchen)
	require.NoError(t, err)

	got, err := UpdateSnag(r, kitchen, snagID, SnagPatch{Status: statusPtr(domain.SnagStatusResolved)})
	require.NoError(t, err)

	// The untouched room's snag slice is structurally shared with the input.
	oldGarage := r.FindRoom(garage)
	newGarage := got.FindRoom(garage)
	assert.Same(t, &oldGarage.Snags[0], &newGarage.Snags[0])
}

func TestUpdateSnagNotFound(t *testing.T) {
	r := NewReport()
	kitchen := r.Rooms[0].ID

	t.Run("unknown room", func(t *testing.T) {
		got, err := UpdateSnag(r, uuid.New(), uuid.New(), SnagPatch{Location: strPtr("x")})
		require.Error(t, err)
		assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
		assert.Same(t, r, got)
	})

	t.Run("unknown snag in existing room", func(t *testing.T) {
		got, err := UpdateSnag(r, kitchen, uuid.New(), SnagPatch{Location: strPtr("x")})
		require.Error(t, err)
		assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
		assert.Same(t, r, got, "a rejected edit must not corrupt the tree")
	})
}

func TestUpdateSnagRejectsUnknownEnumValues(t *testing.T) {
	r := NewReport()
	kitchen := r.Rooms[0].ID
	r, snagID, err := AddSnag(r, kitchen)
	require.NoError(t, err)

	bad := domain.SnagPriority("urgent")
	got, err := UpdateSnag(r, kitchen, snagID, SnagPatch{Priority: &bad})
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.Same(t, r, got)
}

func TestAddThenDeleteSnagRoundTrip(t *testing.T) {
	r := NewReport()
	kitchen := r.Rooms[0].ID
	r, keepID, err := AddSnag(r, kitchen)
	require.NoError(t, err)
	r, err = UpdateSnag(r, kitchen, keepID, SnagPatch{Location: strPtr("Worktop")})
	require.NoError(t, err)

	before := r.FindRoom(kitchen).Snags

	added, newID, err := AddSnag(r, kitchen)
	require.NoError(t, err)
	after, err := DeleteSnag(added, kitchen, newID)
	require.NoError(t, err)

	// Same sequence by ID and content, in the same order.
	assert.Equal(t, before, after.FindRoom(kitchen).Snags)
}

func TestDeleteSnagIsIdempotent(t *testing.T) {
	r := NewReport()
	kitchen := r.Rooms[0].ID
	r, snagID, err := AddSnag(r, kitchen)
	require.NoError(t, err)

	once, err := DeleteSnag(r, kitchen, snagID)
	require.NoError(t, err)
	twice, err := DeleteSnag(once, kitchen, snagID)
	require.NoError(t, err)

	assert.Equal(t, once.FindRoom(kitchen).Snags, twice.FindRoom(kitchen).Snags)
	assert.Empty(t, twice.FindRoom(kitchen).Snags)

	// The deleted snag is still present in the pre-delete value.
	assert.Len(t, r.FindRoom(kitchen).Snags, 1)
}

func TestDeleteSnagPreservesOrder(t *testing.T) {
	r := NewReport()
	kitchen := r.Rooms[0].ID

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		var id uuid.UUID
		var err error
		r, id, err = AddSnag(r, kitchen)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	got, err := DeleteSnag(r, kitchen, ids[1])
	require.NoError(t, err)

	snags := got.FindRoom(kitchen).Snags
	require.Len(t, snags, 2)
	assert.Equal(t, ids[0], snags[0].ID)
	assert.Equal(t, ids[2], snags[1].ID)
}

func TestDeleteSnagUnknownRoom(t *testing.T) {
	r := NewReport()

	got, err := DeleteSnag(r, uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	assert.Same(t, r, got)
}

func TestAddPhoto(t *testing.T) {
	r := NewReport()
	kitchen := r.Rooms[0].ID
	r, snagID, err := AddSnag(r, kitchen)
	require.NoError(t, err)

	got, err := AddPhoto(r, kitchen, snagID, domain.Photo{Data: []byte{0x1}, Filename: "a.jpg"})
	require.NoError(t, err)
	got, err = AddPhoto(got, kitchen, snagID, domain.Photo{Data: []byte{0x2}, Filename: "b.jpg"})
	require.NoError(t, err)

	photos := got.FindRoom(kitchen).FindSnag(snagID).Photos
	require.Len(t, photos, 2)
	assert.Equal(t, "a.jpg", photos[0].Filename)
	assert.Equal(t, "b.jpg", photos[1].Filename)
	assert.NotEqual(t, photos[0].ID, photos[1].ID, "each photo gets a fresh identity")

	assert.Empty(t, r.FindRoom(kitchen).FindSnag(snagID).Photos, "input unchanged")
}

func TestAddPhotoNotFound(t *testing.T) {
	r := NewReport()
	kitchen := r.Rooms[0].ID

	got, err := AddPhoto(r, kitchen, uuid.New(), domain.Photo{Data: []byte{0x1}})
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	assert.Same(t, r, got)
}

func TestRemovePhotoIsIdempotent(t *testing.T) {
	r := NewReport()
	kitchen := r.Rooms[0].ID
	r, snagID, err := AddSnag(r, kitchen)
	require.NoError(t, err)
	r, err = AddPhoto(r, kitchen, snagID, domain.Photo{Data: []byte{0x1}})
	require.NoError(t, err)
	photoID := r.FindRoom(kitchen).FindSnag(snagID).Photos[0].ID

	once, err := RemovePhoto(r, kitchen, snagID, photoID)
	require.NoError(t, err)
	twice, err := RemovePhoto(once, kitchen, snagID, photoID)
	require.NoError(t, err)

	assert.Empty(t, once.FindRoom(kitchen).FindSnag(snagID).Photos)
	assert.Equal(t, once.FindRoom(kitchen).Snags, twice.FindRoom(kitchen).Snags)

	// Deleting the owner discards the photo with it.
	afterDelete, err := DeleteSnag(r, kitchen, snagID)
	require.NoError(t, err)
	assert.Nil(t, afterDelete.FindRoom(kitchen).FindSnag(snagID))
}

func TestCountsTrackEditSequence(t *testing.T) {
	r := NewReport()
	kitchen := r.Rooms[0].ID
	garage := r.Rooms[15].ID

	var err error
	var first, second uuid.UUID
	r, first, err = AddSnag(r, kitchen)
	require.NoError(t, err)
	r, second, err = AddSnag(r, garage)
	require.NoError(t, err)
	r, err = UpdateSnag(r, kitchen, first, SnagPatch{
		Priority: priorityPtr(domain.SnagPriorityCritical),
		Status:   statusPtr(domain.SnagStatusResolved),
	})
	require.NoError(t, err)
	r, err = DeleteSnag(r, garage, second)
	require.NoError(t, err)

	// Counts always match a direct recount over the resulting tree.
	assert.Equal(t, domain.SnagCounts{Total: 1, Open: 0, Critical: 1}, domain.CountSnags(r))
}
