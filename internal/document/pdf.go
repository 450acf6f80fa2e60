package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/mwhitfield/snagbook/internal/domain"
)

// =============================================================================
// PDF Generator
// =============================================================================

// Generator renders snag reports as A4 PDF documents.
type Generator struct {
	pageWidth    float64
	pageHeight   float64
	margin       float64
	contentWidth float64
}

// NewGenerator creates a generator with the fixed A4 page configuration.
// Page size and margins are not user-configurable.
func NewGenerator() *Generator {
	return &Generator{
		pageWidth:    pageWidth,
		pageHeight:   pageHeight,
		margin:       margin,
		contentWidth: pageWidth - (2 * margin),
	}
}

// Generate renders the report and writes the PDF to w, returning the
// number of bytes written. Generation is a single synchronous call: it
// runs to completion or fails with a domain.EGENERATION error, leaving
// the report untouched either way.
func (g *Generator) Generate(ctx context.Context, r *domain.Report, w io.Writer) (int64, error) {
	_ = ctx

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Snag Report - "+r.Address, true)
	pdf.SetCreator("Snagbook", true)

	// The layout pass decides every page break; fpdf must not add its own.
	pdf.SetAutoPageBreak(false, 0)

	generatedAt := time.Now()
	pdf.SetFooterFunc(func() {
		g.addFooter(pdf, generatedAt)
	})

	counts := domain.CountSnags(r)
	pages := Paginate(r)

	for _, page := range pages {
		pdf.AddPage()
		if page.Number == 1 {
			g.addCover(pdf, r, counts)
		}
		for _, item := range page.Items {
			switch item.Kind {
			case ItemRoomHeading:
				g.addRoomHeading(pdf, item)
			case ItemSnagEntry:
				g.addSnagEntry(pdf, item)
			}
		}
	}

	if err := pdf.Error(); err != nil {
		return 0, domain.GenerationFailure(err, "document.generate")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return 0, domain.GenerationFailure(err, "document.generate")
	}

	n, err := w.Write(buf.Bytes())
	if err != nil {
		return int64(n), domain.GenerationFailure(err, "document.generate")
	}
	return int64(n), nil
}

// =============================================================================
// Cover Section
// =============================================================================

// addCover draws the cover block at fixed offsets at the top of page 1.
func (g *Generator) addCover(pdf *fpdf.Fpdf, rep *domain.Report, counts domain.SnagCounts) {
	// Navy header bar
	r, gr, b := HexToRGB(BrandColors.Navy)
	pdf.SetFillColor(r, gr, b)
	pdf.Rect(0, 0, g.pageWidth, 55, "F")

	// Title
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 28)
	pdf.SetXY(g.margin, 18)
	pdf.Cell(0, 12, "Snag Report")

	// Subtitle with property address
	address := rep.Address
	if address == "" {
		address = "New property inspection"
	}
	pdf.SetFont("Helvetica", "", 13)
	pdf.SetXY(g.margin, 34)
	pdf.Cell(0, 8, address)

	// Reset text color for body content
	r, gr, b = HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)

	// Report details block
	pdf.SetXY(g.margin, 65)
	g.addLabelValue(pdf, "Property", rep.Address)
	g.addLabelValue(pdf, "Plot", rep.PlotNumber)
	g.addLabelValue(pdf, "Client", rep.Client)
	g.addLabelValue(pdf, "Developer", rep.Developer)
	g.addLabelValue(pdf, "Inspection date", rep.InspectionDate)

	// Aggregate counts
	pdf.SetXY(g.margin, 105)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "SUMMARY")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetX(g.margin)
	pdf.Cell(60, 7, fmt.Sprintf("Total snags: %d", counts.Total))
	pdf.Cell(60, 7, fmt.Sprintf("Open: %d", counts.Open))

	// Critical count stands out in the critical marker color.
	if counts.Critical > 0 {
		r, gr, b = HexToRGB(PriorityColor(domain.SnagPriorityCritical))
		pdf.SetTextColor(r, gr, b)
	}
	pdf.Cell(60, 7, fmt.Sprintf("Critical: %d", counts.Critical))
	r, gr, b = HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)

	// Divider above the room content
	r, gr, b = HexToRGB(BrandColors.Border)
	pdf.SetDrawColor(r, gr, b)
	pdf.SetLineWidth(0.5)
	pdf.Line(g.margin, coverBottom-6, g.pageWidth-g.margin, coverBottom-6)
}

// =============================================================================
// Room and Snag Items
// =============================================================================

func (g *Generator) addRoomHeading(pdf *fpdf.Fpdf, item Item) {
	r, gr, b := HexToRGB(BrandColors.Navy)
	pdf.SetTextColor(r, gr, b)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(g.margin, item.Y)
	pdf.Cell(0, roomHeadingHeight, item.RoomName)

	r, gr, b = HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)
}

func (g *Generator) addSnagEntry(pdf *fpdf.Fpdf, item Item) {
	snag := item.Snag

	// Priority marker: a small filled square colored by priority.
	r, gr, b := HexToRGB(PriorityColor(snag.Priority))
	pdf.SetFillColor(r, gr, b)
	pdf.Rect(g.margin, item.Y+1.5, 3, 3, "F")

	// Summary line: "location: description"
	r, gr, b = HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(g.margin+6, item.Y)
	pdf.Cell(0, summaryLineHeight, TruncateText(SummaryLine(snag), 110))

	// Metadata line: "PRIORITY | STATUS"
	r, gr, b = HexToRGB(BrandColors.TextMuted)
	pdf.SetTextColor(r, gr, b)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(g.margin+6, item.Y+summaryLineHeight)
	pdf.Cell(0, metaLineHeight, MetaLine(snag))

	r, gr, b = HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)
}

// =============================================================================
// Helper Methods
// =============================================================================

func (g *Generator) addLabelValue(pdf *fpdf.Fpdf, label, value string) {
	if value == "" {
		value = "-"
	}
	pdf.SetX(g.margin)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(35, 6, label+":")
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, value)
	pdf.Ln(6)
}

func (g *Generator) addFooter(pdf *fpdf.Fpdf, generatedAt time.Time) {
	pdf.SetY(-15)

	r, gr, b := HexToRGB(BrandColors.Border)
	pdf.SetDrawColor(r, gr, b)
	pdf.Line(g.margin, pdf.GetY()-3, g.pageWidth-g.margin, pdf.GetY()-3)

	r, gr, b = HexToRGB(BrandColors.TextMuted)
	pdf.SetTextColor(r, gr, b)
	pdf.SetFont("Helvetica", "", 8)

	// Left: generation date
	pdf.Cell(0, 10, "Generated: "+FormatDateTime(generatedAt))

	// Right: page number
	pdf.SetX(-g.margin - 30)
	pdf.CellFormat(30, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
}
