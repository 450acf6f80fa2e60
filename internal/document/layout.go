package document

import (
	"github.com/mwhitfield/snagbook/internal/domain"
)

// =============================================================================
// Page Geometry (A4, mm)
// =============================================================================

const (
	pageWidth  = 210.0
	pageHeight = 297.0
	margin     = 15.0

	// footerReserve keeps the bottom of every page clear for the footer.
	footerReserve = 20.0
	bottomLimit   = pageHeight - footerReserve

	// coverBottom is where room content starts on page 1; the cover block
	// above it sits at fixed offsets from the top of the page.
	coverBottom = 150.0

	roomHeadingHeight = 10.0
	summaryLineHeight = 6.0
	metaLineHeight    = 5.0
	entryGap          = 4.0

	// entryHeight is the full vertical cost of one snag entry: the summary
	// line, the metadata line, and the inter-entry gap. An entry is never
	// split across a page boundary.
	entryHeight = summaryLineHeight + metaLineHeight + entryGap

	roomGap = 8.0

	// roomHeadingThreshold is the minimum remaining space required before a
	// room heading is placed: the heading itself plus at least one entry of
	// buffer, so a heading is never orphaned at the bottom of a page.
	roomHeadingThreshold = roomHeadingHeight + entryHeight
)

// =============================================================================
// Layout Model
// =============================================================================

// ItemKind identifies the type of a positioned layout item.
type ItemKind string

const (
	// ItemRoomHeading is a room name heading.
	ItemRoomHeading ItemKind = "room-heading"

	// ItemSnagEntry is a single snag entry: priority marker, summary line,
	// and metadata line.
	ItemSnagEntry ItemKind = "snag-entry"
)

// Item is a single positioned element on a page.
type Item struct {
	Kind     ItemKind
	Y        float64 // Top of the item, mm from the top of the page
	RoomName string
	Snag     *domain.Snag // Set for ItemSnagEntry only
}

// Page holds the positioned items of one document page.
type Page struct {
	Number int // 1-indexed
	Items  []Item
}

// =============================================================================
// Pagination
// =============================================================================

// Paginate flows the report's rooms and snags onto fixed-size pages.
//
// Rooms appear in catalog order; a room with no snags contributes nothing,
// not even a heading. A room heading starts a new page if the remaining
// space is below roomHeadingThreshold; a snag entry starts a new page if
// the remaining space is below entryHeight. Page 1 begins below the cover
// block.
func Paginate(r *domain.Report) []Page {
	pages := []Page{{Number: 1}}
	current := &pages[0]
	y := coverBottom

	newPage := func() {
		pages = append(pages, Page{Number: len(pages) + 1})
		current = &pages[len(pages)-1]
		y = margin
	}

	for i := range r.Rooms {
		room := &r.Rooms[i]
		if !room.HasSnags() {
			continue
		}

		if bottomLimit-y < roomHeadingThreshold {
			newPage()
		}
		current.Items = append(current.Items, Item{
			Kind:     ItemRoomHeading,
			Y:        y,
			RoomName: room.Name,
		})
		y += roomHeadingHeight

		for j := range room.Snags {
			if bottomLimit-y < entryHeight {
				newPage()
			}
			current.Items = append(current.Items, Item{
				Kind:     ItemSnagEntry,
				Y:        y,
				RoomName: room.Name,
				Snag:     &room.Snags[j],
			})
			y += entryHeight
		}

		y += roomGap
	}

	return pages
}
