package layout

import (
	"fmt"

	"planpress/internal/model"
)

// Paginate lays out an unbounded item sequence onto pages of grid
// cells: a left-to-right, top-to-bottom raster fill with no gaps and
// no reordering. Placement order strictly follows input order; a new
// page starts exactly when the previous page's capacity is exhausted.
// A grid with fewer than one item per row or row per page is a
// programming error and panics.
func Paginate(items []model.LayoutItem, grid model.PaginationGrid) []model.PageEntry {
	if grid.ItemsPerRow < 1 || grid.RowsPerPage < 1 {
		panic(fmt.Sprintf("layout: pagination grid must be at least 1x1, got %dx%d",
			grid.ItemsPerRow, grid.RowsPerPage))
	}

	var pages []model.PageEntry
	for slotIndex, item := range items {
		row := (slotIndex / grid.ItemsPerRow) % grid.RowsPerPage
		col := slotIndex % grid.ItemsPerRow
		pageNumber := slotIndex / grid.Capacity()

		if pageNumber == len(pages) {
			pages = append(pages, model.PageEntry{Label: fmt.Sprintf("Page %d", pageNumber+1)})
		}
		page := &pages[pageNumber]
		page.Placements = append(page.Placements, model.GridPlacement{Row: row, Col: col, Item: item})
	}
	return pages
}
