package layout

import (
	"errors"
	"fmt"

	"planpress/internal/model"
)

// Physical sheet layout constants (ANSI D landscape, in feet).
const (
	SheetWidth  = 34.0 / 12.0 // 34 in
	SheetHeight = 22.0 / 12.0 // 22 in
	SheetMargin = 1.0 / 12.0  // 1 in on every edge
)

// Individual-sheet fit constraints for the single-view pass. These are
// distinct from (and larger than) the per-panel boxes used on combined
// sheets.
const (
	IndividualMaxWidth  = SheetWidth - 2*SheetMargin
	IndividualMaxHeight = SheetHeight - 2*SheetMargin
)

// ErrUndefinedPanel is returned for (template, slot) combinations
// outside the defined set, e.g. slot C on a two-panel template.
var ErrUndefinedPanel = errors.New("undefined template/slot combination")

// panelTable maps every defined (template, slot) pair to its box.
// Coordinates are computed from the sheet dimensions and the fixed
// margin only, never from a placed item's own size. The origin is the
// bottom-left sheet corner with y increasing upward.
var panelTable = buildPanelTable()

func buildPanelTable() map[model.SheetTemplate]map[model.PanelSlot]model.PanelBox {
	const (
		w = SheetWidth
		h = SheetHeight
		m = SheetMargin
	)

	// Single: one panel spanning the full usable area.
	singleW := w - 2*m
	singleH := h - 2*m

	// TwoPanel: two side-by-side panels of half the usable width,
	// full usable height.
	twoW := (w - 3*m) / 2
	twoH := h - 2*m
	twoY := h - m - twoH/2

	// FourPanel: 2x2 grid of quarter panels.
	fourW := (w - 3*m) / 2
	fourH := (h - 3*m) / 2
	topY := h - m - fourH/2
	bottomY := h - 2*m - 1.5*fourH
	leftX := m + fourW/2
	rightX := 2*m + 1.5*fourW

	return map[model.SheetTemplate]map[model.PanelSlot]model.PanelBox{
		model.TemplateSingle: {
			model.SlotA: {Center: model.Point2D{X: w / 2, Y: h / 2}, Width: singleW, Height: singleH},
		},
		model.TemplateTwoPanel: {
			model.SlotA: {Center: model.Point2D{X: m + twoW/2, Y: twoY}, Width: twoW, Height: twoH},
			model.SlotB: {Center: model.Point2D{X: 2*m + 1.5*twoW, Y: twoY}, Width: twoW, Height: twoH},
		},
		model.TemplateFourPanel: {
			model.SlotA: {Center: model.Point2D{X: leftX, Y: topY}, Width: fourW, Height: fourH},     // top-left
			model.SlotB: {Center: model.Point2D{X: rightX, Y: topY}, Width: fourW, Height: fourH},    // top-right
			model.SlotC: {Center: model.Point2D{X: rightX, Y: bottomY}, Width: fourW, Height: fourH}, // bottom-right
			model.SlotD: {Center: model.Point2D{X: leftX, Y: bottomY}, Width: fourW, Height: fourH},  // bottom-left
		},
	}
}

// PanelBox returns the center point and size of the given slot on the
// given template. It is pure and table-driven. Combinations outside
// the defined set return ErrUndefinedPanel rather than a zero box.
func PanelBox(template model.SheetTemplate, slot model.PanelSlot) (model.PanelBox, error) {
	slots, ok := panelTable[template]
	if !ok {
		return model.PanelBox{}, fmt.Errorf("layout: template %q: %w", template, ErrUndefinedPanel)
	}
	box, ok := slots[slot]
	if !ok {
		return model.PanelBox{}, fmt.Errorf("layout: slot %q on template %q: %w", slot, template, ErrUndefinedPanel)
	}
	return box, nil
}
