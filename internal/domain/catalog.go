// Package domain contains core business types and interfaces.
//
// This file holds the two pieces of fixed configuration: the default room
// catalog used to materialize a fresh report's room set, and the snag
// description template catalog. Both are static, read-only data.
package domain

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// =============================================================================
// Default Room Catalog
// =============================================================================

// DefaultRooms is the ordered catalog of room names assigned to every new
// report. The catalog is the sole source of room identities: rooms are
// never added or deleted after report creation, and this order is the
// display order throughout the application and the generated document.
var DefaultRooms = [20]string{
	"Kitchen",
	"Living Room",
	"Dining Room",
	"Hallway",
	"Master Bedroom",
	"Bedroom 2",
	"Bedroom 3",
	"Bedroom 4",
	"Master En-suite",
	"En-suite 2",
	"Family Bathroom",
	"Cloakroom",
	"Utility Room",
	"Study",
	"Landing",
	"Garage",
	"Loft",
	"Garden",
	"Driveway",
	"Exterior",
}

// =============================================================================
// Snag Template Catalog
// =============================================================================

// TemplateCategories lists the template catalog categories in display order.
var TemplateCategories = []string{
	"decoration",
	"carpentry",
	"plumbing",
	"electrical",
	"windows and doors",
	"tiling",
	"external",
}

// SnagTemplates maps a category to its canned snag descriptions. Used only
// to pre-fill a snag's description; the inspector can edit the text freely
// afterwards.
var SnagTemplates = map[string][]string{
	"decoration": {
		"Paint finish is patchy or missing",
		"Paint splashes on adjacent surface",
		"Plaster is cracked or uneven",
		"Caulking is missing or untidy",
		"Scuff marks or damage to wall surface",
	},
	"carpentry": {
		"Door does not close or latch correctly",
		"Skirting board is loose or poorly fitted",
		"Architrave joint is open or misaligned",
		"Floorboard creaks or is uneven",
		"Kitchen unit door is misaligned",
	},
	"plumbing": {
		"Visible leak at pipework or fitting",
		"Tap is loose or drips when closed",
		"Radiator is not level or not heating",
		"Waste pipe drains slowly",
		"Sealant around sanitaryware is incomplete",
	},
	"electrical": {
		"Socket or switch plate is not flush",
		"Light fitting is loose or not working",
		"Extractor fan is not operating",
		"Exposed cabling requires making good",
	},
	"windows and doors": {
		"Window does not open or close smoothly",
		"Glazing is scratched or chipped",
		"Window seal is damaged or missing",
		"External door threshold is damaged",
		"Trickle vent is missing or broken",
	},
	"tiling": {
		"Tile is cracked or chipped",
		"Grout lines are uneven or incomplete",
		"Tile is hollow when tapped",
	},
	"external": {
		"Brickwork mortar joint requires pointing",
		"Fence panel is damaged or loose",
		"Paving slab is uneven or cracked",
		"Render is cracked or stained",
		"Guttering is misaligned or leaking",
	},
}

// TemplateCategoryLabel returns the display name for a template category.
// A fresh caser per call: cases.Caser carries state and is not safe for
// concurrent use.
func TemplateCategoryLabel(category string) string {
	return cases.Title(language.BritishEnglish).String(category)
}

// TemplatesFor returns the canned descriptions for a category, or nil if
// the category is unknown. The returned slice must not be modified.
func TemplatesFor(category string) []string {
	return SnagTemplates[category]
}
