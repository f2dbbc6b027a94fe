// Package cad defines the boundary contracts to the host CAD
// application. The host's document, element-creation and PDF-export
// facilities are proprietary collaborators; this package describes
// only what the report pipeline consumes and drives.
package cad

import (
	"errors"

	"planpress/internal/model"
)

// DefaultTitleBlock is the fixed name of the title-block template used
// for every created sheet. Failure to locate it is fatal for the whole
// run: no sheets can be produced without it.
const DefaultTitleBlock = "D 22x34 Horizontal"

// ErrTemplateNotFound is returned by CreateSheet when the named
// title-block template does not exist in the document.
var ErrTemplateNotFound = errors.New("title block template not found")

// SheetID is an opaque handle to a created sheet.
type SheetID string

// View is a read-only description of a drawing view in the host
// document. CropWidth and CropHeight are the view's crop extents in
// model feet; the paper footprint is the crop extent divided by the
// scale.
type View struct {
	ID         string
	Name       string
	ViewType   string
	Scale      int
	CropWidth  float64 // feet, model space
	CropHeight float64 // feet, model space
	Placeable  bool
}

// Document is the transactional boundary to the host application.
//
// All placements derived from one sheet plan must be applied inside a
// single Transaction; the host owns atomicity. A failed placement of
// one item must not abort the remaining placements in the same plan.
type Document interface {
	// Title returns the document's display title.
	Title() string

	// Views returns the queryable view collection.
	Views() []View

	// CreateSheet creates a new sheet using the named title-block
	// template. Returns ErrTemplateNotFound if the template is missing.
	CreateSheet(label, titleBlock string) (SheetID, error)

	// PlaceView creates a viewport for the given view at the center
	// point (sheet coordinates, feet) and sets its scale.
	PlaceView(sheet SheetID, viewID string, center model.Point2D, scale int) error

	// PlaceImage places a decoded image file on the sheet at the
	// center point with the given drawn size in feet.
	PlaceImage(sheet SheetID, imagePath string, center model.Point2D, width, height float64) error

	// Transaction runs fn inside a single document-modifying
	// transaction. The host applies the whole transaction atomically.
	Transaction(name string, fn func() error) error

	// ExportPDF produces a single combined PDF for the given sheets.
	ExportPDF(sheets []SheetID, outputPath string) error
}
