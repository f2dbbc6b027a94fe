// Package job orchestrates a full report-generation run: load the job
// spec, build layout items from document views or downloaded assets,
// compose the plan, drive the placement collaborator inside one
// transaction, and export the combined PDF.
package job

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"planpress/internal/cad"
	"planpress/internal/export"
	"planpress/internal/fetch"
	"planpress/internal/layout"
	"planpress/internal/model"
)

// Runner executes report-generation jobs against a host document.
type Runner struct {
	log *log.Logger
}

// NewRunner returns a runner that reports progress and every skip
// decision to the given logger.
func NewRunner(logger *log.Logger) *Runner {
	return &Runner{log: logger}
}

// OnJobReady is the automation-host callback: the host supplies the
// open document and the job's working directory, and receives a
// pass/fail result. All failure detail goes to the log.
func (r *Runner) OnJobReady(ctx context.Context, doc cad.Document, workDir string) bool {
	if err := r.Run(ctx, doc, workDir); err != nil {
		r.log.Error("report generation failed", "dir", workDir, "err", err)
		return false
	}
	r.log.Info("report generation complete", "dir", workDir)
	return true
}

// Run executes the job described by the params file in workDir.
// Configuration errors (missing params, missing document, missing
// title block) are fatal; per-group and per-item failures are logged
// and skipped per the plan's omit-on-failure policy.
func (r *Runner) Run(ctx context.Context, doc cad.Document, workDir string) error {
	spec, err := LoadParams(workDir)
	if err != nil {
		return err
	}
	return r.RunSpec(ctx, doc, spec, workDir)
}

// RunSpec executes an already-loaded and validated job spec. Callers
// that read the params file themselves (the CLI reads it first to pick
// the logger environment) use this so the file is parsed exactly once
// per run.
func (r *Runner) RunSpec(ctx context.Context, doc cad.Document, spec model.JobSpec, workDir string) error {
	if doc == nil {
		return fmt.Errorf("job: no document supplied")
	}
	r.log.Info("job loaded", "project", spec.ProjectName, "report", spec.ReportType)

	outPath := filepath.Join(workDir, spec.OutputFile)

	switch spec.ReportType {
	case model.ReportFloorPlans:
		return r.runFloorPlans(doc, spec, outPath)
	case model.ReportAssets:
		return r.runAssets(ctx, doc, spec, workDir, outPath)
	default:
		// Unreachable after Validate, kept as a guard.
		return fmt.Errorf("job: unknown report type %q", spec.ReportType)
	}
}

// runFloorPlans composes level views onto individual and combined
// sheets and exports them.
func (r *Runner) runFloorPlans(doc cad.Document, spec model.JobSpec, outPath string) error {
	items := cad.CollectItems(doc, spec.ViewTypes, spec.MaxViews, r.log)
	r.log.Info("collected views", "count", len(items))

	plan := layout.NewComposer(r.log).ComposeSheetPlan(items, layout.IndividualMaxWidth, layout.IndividualMaxHeight)
	if len(plan) == 0 {
		return fmt.Errorf("job: layout produced no sheets")
	}
	r.log.Info("sheet plan composed", "sheets", len(plan), "placements", plan.TotalPlacements())

	var sheetIDs []cad.SheetID
	err := doc.Transaction("generate floor plan sheets", func() error {
		for _, entry := range plan {
			id, err := doc.CreateSheet(entry.Label, cad.DefaultTitleBlock)
			if err != nil {
				// A missing title block means no sheet can ever be created.
				return fmt.Errorf("job: sheet %q: %w", entry.Label, err)
			}
			sheetIDs = append(sheetIDs, id)

			for _, p := range entry.Placements {
				box, err := layout.PanelBox(entry.Template, p.Slot)
				if err != nil {
					return err
				}
				if err := doc.PlaceView(id, p.Item.ID, box.Center, p.Item.PriorityRank); err != nil {
					r.log.Error("viewport placement failed, skipping item",
						"sheet", entry.Label, "view", p.Item.Label, "err", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := doc.ExportPDF(sheetIDs, outPath); err != nil {
		return fmt.Errorf("job: export pdf: %w", err)
	}
	r.log.Info("pdf written", "path", outPath)

	dxfPath := withExt(outPath, ".dxf")
	if err := export.ExportPlanDXF(dxfPath, plan); err != nil {
		r.log.Error("dxf export failed", "path", dxfPath, "err", err)
	} else {
		r.log.Info("dxf written", "path", dxfPath)
	}
	return nil
}

// runAssets downloads the job's asset images, paginates them onto grid
// pages, and exports the PDF plus the asset manifest workbook.
func (r *Runner) runAssets(ctx context.Context, doc cad.Document, spec model.JobSpec, workDir, outPath string) error {
	if len(spec.Assets) == 0 {
		return fmt.Errorf("job: no assets listed")
	}

	downloader := fetch.NewDownloader(filepath.Join(workDir, AssetsDirName), spec.Auth, r.log)
	downloads := downloader.FetchAll(ctx, spec.Assets)
	if len(downloads) == 0 {
		return fmt.Errorf("job: no assets could be downloaded")
	}
	r.log.Info("assets downloaded", "ok", len(downloads), "failed", len(spec.Assets)-len(downloads))

	items := make([]model.LayoutItem, 0, len(downloads))
	records := make(map[string]model.AssetRecord, len(downloads))
	for _, dl := range downloads {
		item := dl.Item()
		items = append(items, item)
		records[item.ID] = dl.Record
	}

	grid := model.DefaultGrid()
	pages := layout.Paginate(items, grid)
	r.log.Info("pages planned", "pages", len(pages), "items", len(items))

	var sheetIDs []cad.SheetID
	err := doc.Transaction("generate asset report pages", func() error {
		for _, page := range pages {
			id, err := doc.CreateSheet(page.Label, cad.DefaultTitleBlock)
			if err != nil {
				return fmt.Errorf("job: page %q: %w", page.Label, err)
			}
			sheetIDs = append(sheetIDs, id)

			for _, p := range page.Placements {
				w, h := fitCell(p.Item, grid)
				center := grid.CellCenter(p.Row, p.Col)
				if err := doc.PlaceImage(id, p.Item.ID, center, w, h); err != nil {
					r.log.Error("image placement failed, skipping item",
						"page", page.Label, "asset", p.Item.Label, "err", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := doc.ExportPDF(sheetIDs, outPath); err != nil {
		return fmt.Errorf("job: export pdf: %w", err)
	}
	r.log.Info("pdf written", "path", outPath)

	manifestPath := withExt(outPath, ".xlsx")
	if err := export.WriteAssetManifest(manifestPath, pages, records); err != nil {
		r.log.Error("manifest export failed", "path", manifestPath, "err", err)
	} else {
		r.log.Info("manifest written", "path", manifestPath)
	}
	return nil
}

// fitCell scales an item into a grid cell preserving aspect ratio.
// Items without a usable size fill the whole cell.
func fitCell(item model.LayoutItem, g model.PaginationGrid) (w, h float64) {
	if item.Width <= 0 || item.Height <= 0 {
		return g.CellWidth, g.CellHeight
	}
	s := math.Min(g.CellWidth/item.Width, g.CellHeight/item.Height)
	return item.Width * s, item.Height * s
}

// withExt swaps the file extension of path.
func withExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
