package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"

	"planpress/internal/layout"
	"planpress/internal/model"
)

// Spacing between sheet outlines in the DXF output, in feet.
const dxfSheetGap = 0.5

// Text heights for DXF annotations, in feet.
const (
	dxfLabelHeight = 0.08
	dxfItemHeight  = 0.05
)

// ExportPlanDXF writes the sheet plan's geometry to a DXF drawing so
// the layout can be round-tripped into CAD tooling: every planned
// sheet is drawn side by side as its outline plus one rectangle per
// filled panel, annotated with the sheet and item labels.
func ExportPlanDXF(path string, plan model.SheetPlan) error {
	if len(plan) == 0 {
		return fmt.Errorf("export dxf: empty plan")
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer("SHEETS", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("export dxf: %w", err)
	}

	for i, entry := range plan {
		ox := float64(i) * (layout.SheetWidth + dxfSheetGap)

		drawRect(d, ox, 0, layout.SheetWidth, layout.SheetHeight)
		d.Text(entry.Label, ox, layout.SheetHeight+0.1, 0, dxfLabelHeight)

		for _, p := range entry.Placements {
			box, err := layout.PanelBox(entry.Template, p.Slot)
			if err != nil {
				return fmt.Errorf("export dxf: sheet %q: %w", entry.Label, err)
			}
			x := ox + box.Center.X - box.Width/2
			y := box.Center.Y - box.Height/2
			drawRect(d, x, y, box.Width, box.Height)
			d.Text(p.Item.Label, x+0.02, y+0.02, 0, dxfItemHeight)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("export dxf: save: %w", err)
	}
	return nil
}

// drawRect draws an axis-aligned rectangle as four line entities.
func drawRect(d *drawing.Drawing, x, y, w, h float64) {
	d.Line(x, y, 0, x+w, y, 0)
	d.Line(x+w, y, 0, x+w, y+h, 0)
	d.Line(x+w, y+h, 0, x, y+h, 0)
	d.Line(x, y+h, 0, x, y, 0)
}
