// Package export provides the standalone placement and export
// collaborators: an fpdf-backed document that renders sheet plans and
// pagination pages to a combined PDF, a DXF export of the plan
// geometry, and an xlsx asset manifest.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"planpress/internal/cad"
	"planpress/internal/layout"
	"planpress/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	qrSize       = 12.0 // QR code size in mm
)

// viewPlacement records one viewport on a rendered sheet.
type viewPlacement struct {
	view   cad.View
	center model.Point2D
	scale  int
}

// imagePlacement records one placed asset image.
type imagePlacement struct {
	path          string
	center        model.Point2D
	width, height float64 // drawn size in feet
}

type pdfSheet struct {
	id     cad.SheetID
	label  string
	views  []viewPlacement
	images []imagePlacement
}

// PDFDocument is a cad.Document backed by fpdf: sheet creation and
// placement calls are recorded in memory, and ExportPDF renders the
// recorded sheets into a single combined PDF. It is the placement and
// PDF-export collaborator for standalone (non-CAD-hosted) runs, and
// doubles as the test stand-in for the host document.
type PDFDocument struct {
	title     string
	views     []cad.View
	viewsByID map[string]cad.View
	sheets    []*pdfSheet
	byID      map[cad.SheetID]*pdfSheet
	log       *log.Logger
}

// NewDocument creates a PDF-backed document holding the given view
// collection (nil for pure asset reports).
func NewDocument(title string, views []cad.View, logger *log.Logger) *PDFDocument {
	byID := make(map[string]cad.View, len(views))
	for _, v := range views {
		byID[v.ID] = v
	}
	return &PDFDocument{
		title:     title,
		views:     views,
		viewsByID: byID,
		byID:      make(map[cad.SheetID]*pdfSheet),
		log:       logger,
	}
}

func (d *PDFDocument) Title() string     { return d.title }
func (d *PDFDocument) Views() []cad.View { return d.views }

// SheetCount returns the number of created sheets.
func (d *PDFDocument) SheetCount() int { return len(d.sheets) }

// CreateSheet records a new sheet. Only the fixed title-block template
// is available; any other name reports cad.ErrTemplateNotFound.
func (d *PDFDocument) CreateSheet(label, titleBlock string) (cad.SheetID, error) {
	if titleBlock != cad.DefaultTitleBlock {
		return "", fmt.Errorf("create sheet %q: template %q: %w", label, titleBlock, cad.ErrTemplateNotFound)
	}
	sheet := &pdfSheet{id: cad.SheetID(uuid.New().String()[:8]), label: label}
	d.sheets = append(d.sheets, sheet)
	d.byID[sheet.id] = sheet
	return sheet.id, nil
}

// PlaceView records a viewport placement on the given sheet.
func (d *PDFDocument) PlaceView(sheet cad.SheetID, viewID string, center model.Point2D, scale int) error {
	s, ok := d.byID[sheet]
	if !ok {
		return fmt.Errorf("place view: unknown sheet %q", sheet)
	}
	v, ok := d.viewsByID[viewID]
	if !ok {
		return fmt.Errorf("place view: unknown view %q", viewID)
	}
	s.views = append(s.views, viewPlacement{view: v, center: center, scale: scale})
	return nil
}

// PlaceImage records an image placement on the given sheet. The image
// file must exist on disk; it is read again at render time.
func (d *PDFDocument) PlaceImage(sheet cad.SheetID, imagePath string, center model.Point2D, width, height float64) error {
	s, ok := d.byID[sheet]
	if !ok {
		return fmt.Errorf("place image: unknown sheet %q", sheet)
	}
	if _, err := os.Stat(imagePath); err != nil {
		return fmt.Errorf("place image: %w", err)
	}
	s.images = append(s.images, imagePlacement{path: imagePath, center: center, width: width, height: height})
	return nil
}

// Transaction runs fn as one atomic pass. The in-memory document has
// nothing to roll back; the boundary exists so callers drive the PDF
// backend and a real host document identically.
func (d *PDFDocument) Transaction(name string, fn func() error) error {
	d.log.Debug("transaction begin", "name", name)
	err := fn()
	d.log.Debug("transaction end", "name", name, "err", err)
	return err
}

// ExportPDF renders the given sheets, in order, into a single combined
// PDF followed by a summary page.
func (d *PDFDocument) ExportPDF(sheets []cad.SheetID, outputPath string) error {
	if len(sheets) == 0 {
		return fmt.Errorf("export pdf: no sheets to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, id := range sheets {
		sheet, ok := d.byID[id]
		if !ok {
			return fmt.Errorf("export pdf: unknown sheet %q", id)
		}
		pdf.AddPage()
		d.renderSheetPage(pdf, sheet)
	}

	pdf.AddPage()
	d.renderSummaryPage(pdf, sheets)

	return pdf.OutputFileAndClose(outputPath)
}

// sheetScale returns the mm-per-foot factor and the drawing offset
// that fit the physical sheet into the page's drawing area.
func sheetScale() (scale, offsetX, offsetY float64) {
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom
	scale = math.Min(drawWidth/layout.SheetWidth, drawHeight/layout.SheetHeight)
	offsetX = marginLeft + (drawWidth-layout.SheetWidth*scale)/2
	offsetY = drawAreaTop
	return scale, offsetX, offsetY
}

// toPage converts sheet coordinates (feet, origin bottom-left, y up)
// to page coordinates (mm, origin top-left, y down).
func toPage(p model.Point2D, scale, offsetX, offsetY float64) (x, y float64) {
	return offsetX + p.X*scale, offsetY + (layout.SheetHeight-p.Y)*scale
}

func (d *PDFDocument) renderSheetPage(pdf *fpdf.Fpdf, sheet *pdfSheet) {
	// Header: sheet label left, document title right.
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, sheet.label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, d.title, "", 0, "R", false, 0, "")

	scale, offsetX, offsetY := sheetScale()

	// Sheet outline.
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, layout.SheetWidth*scale, layout.SheetHeight*scale, "D")

	for _, vp := range sheet.views {
		d.renderViewport(pdf, vp, scale, offsetX, offsetY)
	}
	for i, ip := range sheet.images {
		d.renderImage(pdf, sheet, i, ip, scale, offsetX, offsetY)
	}
}

// renderViewport draws a placed view as a labeled panel rectangle. The
// drawn footprint is the view's crop extent divided by its scale, the
// same size the layout engine fitted against.
func (d *PDFDocument) renderViewport(pdf *fpdf.Fpdf, vp viewPlacement, scale, offsetX, offsetY float64) {
	viewScale := vp.view.Scale
	if viewScale <= 0 {
		viewScale = 1
	}
	w := vp.view.CropWidth / float64(viewScale) * scale
	h := vp.view.CropHeight / float64(viewScale) * scale
	cx, cy := toPage(vp.center, scale, offsetX, offsetY)

	pdf.SetFillColor(235, 240, 245)
	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.3)
	pdf.Rect(cx-w/2, cy-h/2, w, h, "FD")

	if w > 15 && h > 8 {
		pdf.SetFont("Helvetica", "", 8)
		label := vp.view.Name
		labelW := pdf.GetStringWidth(label)
		if labelW < w-2 {
			pdf.SetXY(cx-labelW/2, cy-2)
			pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
		}
		scaleNote := fmt.Sprintf("1:%d", vp.scale)
		noteW := pdf.GetStringWidth(scaleNote)
		pdf.SetXY(cx-noteW/2, cy+2)
		pdf.CellFormat(noteW, 4, scaleNote, "", 0, "C", false, 0, "")
	}
}

// renderImage embeds a placed asset image at its cell, with a QR code
// reference in the cell corner.
func (d *PDFDocument) renderImage(pdf *fpdf.Fpdf, sheet *pdfSheet, idx int, ip imagePlacement, scale, offsetX, offsetY float64) {
	w := ip.width * scale
	h := ip.height * scale
	cx, cy := toPage(ip.center, scale, offsetX, offsetY)
	x := cx - w/2
	y := cy - h/2

	pdf.ImageOptions(ip.path, x, y, w, h, false, fpdf.ImageOptions{}, 0, "")

	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.2)
	pdf.Rect(x, y, w, h, "D")

	// QR code encoding the placement reference.
	ref, err := json.Marshal(map[string]string{
		"sheet": sheet.label,
		"image": filepath.Base(ip.path),
	})
	if err != nil {
		return
	}
	qrPNG, err := qrcode.Encode(string(ref), qrcode.Medium, 256)
	if err != nil {
		d.log.Warn("qr code generation failed", "image", ip.path, "err", err)
		return
	}
	imgName := fmt.Sprintf("qr_%s_%d", sheet.id, idx)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, x+w-qrSize, y+h-qrSize, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Caption below the image.
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(80, 80, 80)
	caption := filepath.Base(ip.path)
	capW := pdf.GetStringWidth(caption)
	if capW < w {
		pdf.SetXY(cx-capW/2, y+h+1)
		pdf.CellFormat(capW, 3, caption, "", 0, "C", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
}

// renderSummaryPage draws the final page with per-sheet statistics.
func (d *PDFDocument) renderSummaryPage(pdf *fpdf.Fpdf, sheets []cad.SheetID) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Report Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	totalViews, totalImages := 0, 0
	for _, id := range sheets {
		if s, ok := d.byID[id]; ok {
			totalViews += len(s.views)
			totalImages += len(s.images)
		}
	}

	summaryItems := []struct {
		label string
		value string
	}{
		{"Document", d.title},
		{"Sheets", fmt.Sprintf("%d", len(sheets))},
		{"Viewports placed", fmt.Sprintf("%d", totalViews)},
		{"Images placed", fmt.Sprintf("%d", totalImages)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(100, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	// Per-sheet table.
	colWidths := []float64{90, 40, 40}
	headers := []string{"Sheet", "Viewports", "Images"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, id := range sheets {
		s, ok := d.byID[id]
		if !ok {
			continue
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		rowData := []string{s.label, fmt.Sprintf("%d", len(s.views)), fmt.Sprintf("%d", len(s.images))}
		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by planpress", "", 0, "C", false, 0, "")
}
