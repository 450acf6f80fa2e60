// Package document renders a finalized snag report into a paginated PDF.
//
// Generation runs in two passes: a pure layout pass (Paginate) that flows
// the report's rooms and snags over fixed-size pages with a vertical
// cursor, and a render pass (Generator.Generate) that draws the computed
// layout with fpdf. Keeping the pagination pure makes the page-break
// rules testable without inspecting PDF bytes.
package document

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mwhitfield/snagbook/internal/domain"
)

// =============================================================================
// Brand Colors
// =============================================================================

// BrandColors defines the color palette for generated documents.
var BrandColors = struct {
	Navy      string // Primary brand color (cover header)
	TextDark  string // Primary text
	TextMuted string // Secondary text
	Border    string // Borders and dividers
	White     string // White
}{
	Navy:      "#1E3A5F",
	TextDark:  "#1F2937",
	TextMuted: "#6B7280",
	Border:    "#E5E7EB",
	White:     "#FFFFFF",
}

// =============================================================================
// Priority Colors
// =============================================================================

// PriorityColors maps snag priorities to their marker colors. The palette
// is fixed; entry markers must match it exactly for visual regression.
var PriorityColors = map[domain.SnagPriority]string{
	domain.SnagPriorityCritical: "#DC2626", // Red-600
	domain.SnagPriorityHigh:     "#F59E0B", // Amber-500
	domain.SnagPriorityMedium:   "#3B82F6", // Blue-500
	domain.SnagPriorityLow:      "#22C55E", // Green-500
}

// PriorityColor returns the marker color for a priority.
func PriorityColor(priority domain.SnagPriority) string {
	if color, ok := PriorityColors[priority]; ok {
		return color
	}
	return BrandColors.TextMuted
}

// =============================================================================
// Entry Text
// =============================================================================

const (
	noLocationText    = "No location"
	noDescriptionText = "No description"
)

// SummaryLine formats a snag's one-line summary: "location: description",
// with fallback text for empty fields.
func SummaryLine(s *domain.Snag) string {
	location := s.Location
	if location == "" {
		location = noLocationText
	}
	description := s.Description
	if description == "" {
		description = noDescriptionText
	}
	return location + ": " + description
}

// MetaLine formats a snag's secondary line: "PRIORITY | STATUS", both
// upper-cased, with status word separators normalized (hyphens replaced
// by spaces).
func MetaLine(s *domain.Snag) string {
	priority := strings.ToUpper(s.Priority.String())
	status := strings.ToUpper(strings.ReplaceAll(s.Status.String(), "-", " "))
	return priority + " | " + status
}

// =============================================================================
// Filename Derivation
// =============================================================================

// fallbackFilename is used when the report has no property address.
const fallbackFilename = "snag-report"

// Filename derives the output document name from the property address:
// the address is unicode-normalized, whitespace runs are collapsed to
// single separators, and the fixed fallback token is used when the
// address is empty.
func Filename(address string) string {
	name := norm.NFC.String(address)
	name = strings.Join(strings.Fields(name), "-")
	if name == "" {
		name = fallbackFilename
	}
	return name + ".pdf"
}

// =============================================================================
// Color Conversion Helpers
// =============================================================================

// HexToRGB converts a hex color string to RGB values.
// Input format: "#RRGGBB" or "RRGGBB"
func HexToRGB(hex string) (r, g, b int) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return 0, 0, 0
	}

	r = hexToDec(hex[0:2])
	g = hexToDec(hex[2:4])
	b = hexToDec(hex[4:6])
	return
}

// hexToDec converts a 2-character hex string to decimal.
func hexToDec(hex string) int {
	val := 0
	for _, c := range hex {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return val
}

// TruncateText truncates text to a maximum length, adding ellipsis if needed.
func TruncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return text[:maxLen]
	}
	return text[:maxLen-3] + "..."
}

// FormatDateTime formats a timestamp for display in document footers.
func FormatDateTime(t interface{ Format(string) string }) string {
	return t.Format("January 2, 2006 at 3:04 PM")
}
