package export

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"planpress/internal/model"
)

const manifestSheet = "Assets"

var manifestHeaders = []string{"Asset ID", "Name", "Type", "URL", "Page", "Row", "Col", "Image"}

// WriteAssetManifest writes an xlsx workbook listing every paginated
// asset and where it landed in the report. The records map is keyed by
// layout item ID (the image path); assets without a record still get a
// row with the positional columns filled.
func WriteAssetManifest(path string, pages []model.PageEntry, records map[string]model.AssetRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", manifestSheet); err != nil {
		return fmt.Errorf("manifest: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("manifest: %w", err)
	}

	for col, header := range manifestHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("manifest: %w", err)
		}
		if err := f.SetCellValue(manifestSheet, cell, header); err != nil {
			return fmt.Errorf("manifest: %w", err)
		}
		if err := f.SetCellStyle(manifestSheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("manifest: %w", err)
		}
	}

	row := 2
	for _, page := range pages {
		for _, p := range page.Placements {
			rec := records[p.Item.ID]
			values := []any{
				rec.AssetID,
				p.Item.Label,
				rec.AssetType,
				rec.DownloadURL(),
				page.Label,
				p.Row,
				p.Col,
				filepath.Base(p.Item.ID),
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return fmt.Errorf("manifest: %w", err)
				}
				if err := f.SetCellValue(manifestSheet, cell, v); err != nil {
					return fmt.Errorf("manifest: %w", err)
				}
			}
			row++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("manifest: save: %w", err)
	}
	return nil
}
