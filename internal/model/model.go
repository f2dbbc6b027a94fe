// Package model defines the data types shared by the layout engine,
// the download pipeline, and the export collaborators.
package model

// Point2D represents a 2D coordinate in feet.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutItem is an abstract visual unit to be placed on a sheet: a
// floor-plan view extracted from the host document, or a downloaded
// asset image. Items are constructed once before layout begins and are
// never mutated by the engine.
type LayoutItem struct {
	ID           string  `json:"id"`            // Opaque handle back to the source (view id or image path)
	Label        string  `json:"label"`         // Display name
	GroupKey     string  `json:"group_key"`     // Logical grouping key (level name, asset batch); may be empty
	PriorityRank int     `json:"priority_rank"` // Higher is more detailed / preferred (e.g. drawing scale)
	Width        float64 `json:"width"`         // feet
	Height       float64 `json:"height"`        // feet
	Placeable    bool    `json:"placeable"`     // Only placeable items may appear on a sheet
}

// PanelSlot names a fixed-position region on a sheet template.
type PanelSlot string

const (
	SlotA PanelSlot = "A"
	SlotB PanelSlot = "B"
	SlotC PanelSlot = "C"
	SlotD PanelSlot = "D"
)

// SheetTemplate identifies one of the fixed page layouts.
type SheetTemplate string

const (
	TemplateSingle    SheetTemplate = "single"     // One full-page panel
	TemplateTwoPanel  SheetTemplate = "two-panel"  // Two side-by-side panels
	TemplateFourPanel SheetTemplate = "four-panel" // 2x2 grid of panels
)

// Slots returns the ordered panel slots defined for the template.
// Slot order is the assignment order used by the composer: A, B, C, D.
func (t SheetTemplate) Slots() []PanelSlot {
	switch t {
	case TemplateSingle:
		return []PanelSlot{SlotA}
	case TemplateTwoPanel:
		return []PanelSlot{SlotA, SlotB}
	case TemplateFourPanel:
		return []PanelSlot{SlotA, SlotB, SlotC, SlotD}
	default:
		return nil
	}
}

// PanelBox is the placement target for one panel slot: a center point
// and the panel's width and height, all in feet.
type PanelBox struct {
	Center Point2D `json:"center"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PanelPlacement assigns one item to one slot of a sheet entry.
type PanelPlacement struct {
	Slot PanelSlot  `json:"slot"`
	Item LayoutItem `json:"item"`
}

// SheetEntry is one planned sheet: a unique label, the template it
// uses, and the items that found a fit. Slots with no fitting item are
// omitted, never padded.
type SheetEntry struct {
	Label      string           `json:"label"`
	Template   SheetTemplate    `json:"template"`
	Placements []PanelPlacement `json:"placements"`
}

// SheetPlan is the ordered output of the composition algorithm,
// ready for the external placement collaborator.
type SheetPlan []SheetEntry

// TotalPlacements returns the number of placed items across all entries.
func (p SheetPlan) TotalPlacements() int {
	total := 0
	for _, e := range p {
		total += len(e.Placements)
	}
	return total
}

// GridPlacement assigns one item to a grid cell on a pagination page.
type GridPlacement struct {
	Row  int        `json:"row"`
	Col  int        `json:"col"`
	Item LayoutItem `json:"item"`
}

// PageEntry is one planned pagination page.
type PageEntry struct {
	Label      string          `json:"label"`
	Placements []GridPlacement `json:"placements"`
}

// PaginationGrid configures the row/column/page capacity for laying
// out an unbounded image sequence. Dimensions are in feet.
type PaginationGrid struct {
	ItemsPerRow int     `json:"items_per_row"`
	RowsPerPage int     `json:"rows_per_page"`
	CellWidth   float64 `json:"cell_width"`
	CellHeight  float64 `json:"cell_height"`
	CellSpacing float64 `json:"cell_spacing"`
	PageOrigin  Point2D `json:"page_origin"` // Top-left corner of cell (0,0)
}

// Capacity returns the number of cells on one page.
func (g PaginationGrid) Capacity() int {
	return g.ItemsPerRow * g.RowsPerPage
}

// CellPosition returns the top-left corner of the cell at (row, col).
// The page is top-down: y decreases downward.
func (g PaginationGrid) CellPosition(row, col int) Point2D {
	return Point2D{
		X: g.PageOrigin.X + float64(col)*(g.CellWidth+g.CellSpacing),
		Y: g.PageOrigin.Y - float64(row)*(g.CellHeight+g.CellSpacing),
	}
}

// CellCenter returns the center point of the cell at (row, col).
func (g PaginationGrid) CellCenter(row, col int) Point2D {
	pos := g.CellPosition(row, col)
	return Point2D{X: pos.X + g.CellWidth/2, Y: pos.Y - g.CellHeight/2}
}

// DefaultGrid returns the pagination grid used for asset report pages:
// a 3x2 raster on an ANSI D landscape page with a one-inch margin.
func DefaultGrid() PaginationGrid {
	return PaginationGrid{
		ItemsPerRow: 3,
		RowsPerPage: 2,
		CellWidth:   0.82,
		CellHeight:  0.72,
		CellSpacing: 0.06,
		PageOrigin:  Point2D{X: 1.0 / 12.0, Y: 21.0 / 12.0},
	}
}
