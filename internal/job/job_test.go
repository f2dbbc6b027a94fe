package job

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planpress/internal/cad"
	"planpress/internal/export"
	"planpress/internal/layout"
	"planpress/internal/model"
)

func testRunner() *Runner {
	return NewRunner(log.New(io.Discard))
}

// floorPlanViews builds three level views whose paper footprint
// (crop extent / scale) fits both the individual sheet and a
// four-panel box, so the combined pass places all of them.
func floorPlanViews() []cad.View {
	var views []cad.View
	for i := 1; i <= 3; i++ {
		views = append(views, cad.View{
			ID:         fmt.Sprintf("v%d", i),
			Name:       fmt.Sprintf("Level %d - Scale 96", i),
			ViewType:   "FloorPlan",
			Scale:      96,
			CropWidth:  120,
			CropHeight: 70,
			Placeable:  true,
		})
	}
	return views
}

func TestFloorPlanViewsFitCombinedPanels(t *testing.T) {
	// The fixture must fit a four-panel box, or the combined pass
	// would skip its sheet and the counts below would shift.
	box, err := layout.PanelBox(model.TemplateFourPanel, model.SlotA)
	require.NoError(t, err)
	for _, v := range floorPlanViews() {
		item := cad.ItemFromView(v)
		assert.LessOrEqual(t, item.Width, box.Width, v.Name)
		assert.LessOrEqual(t, item.Height, box.Height, v.Name)
	}
}

func TestRun_FloorPlanReport(t *testing.T) {
	dir := t.TempDir()
	writeParams(t, dir, `{
		"project_name": "Office Tower",
		"report_type": "floorplans",
		"view_types": ["FloorPlan"],
		"output_file": "report.pdf"
	}`)

	doc := export.NewDocument("Office Tower", floorPlanViews(), log.New(io.Discard))
	ok := testRunner().OnJobReady(context.Background(), doc, dir)
	require.True(t, ok)

	// 3 individual sheets + 1 combined four-panel sheet.
	assert.Equal(t, 4, doc.SheetCount())
	assert.FileExists(t, filepath.Join(dir, "report.pdf"))
	assert.FileExists(t, filepath.Join(dir, "report.dxf"))
}

func TestRun_FloorPlanReport_NoViewsFails(t *testing.T) {
	dir := t.TempDir()
	writeParams(t, dir, `{"report_type": "floorplans", "output_file": "report.pdf"}`)

	doc := export.NewDocument("Empty Model", nil, log.New(io.Discard))
	err := testRunner().Run(context.Background(), doc, dir)
	assert.Error(t, err)
}

func TestRunSpec_UsesSuppliedSpec(t *testing.T) {
	dir := t.TempDir()
	// A params file on disk that disagrees with the supplied spec must
	// not influence the run: RunSpec never re-reads it.
	writeParams(t, dir, `{"report_type": "floorplans", "output_file": "stale.pdf"}`)

	spec := model.JobSpec{
		ProjectName: "Office Tower",
		ReportType:  model.ReportFloorPlans,
		ViewTypes:   []string{"FloorPlan"},
		OutputFile:  "report.pdf",
	}
	doc := export.NewDocument("Office Tower", floorPlanViews(), log.New(io.Discard))
	require.NoError(t, testRunner().RunSpec(context.Background(), doc, spec, dir))

	assert.FileExists(t, filepath.Join(dir, "report.pdf"))
	assert.NoFileExists(t, filepath.Join(dir, "stale.pdf"))
}

func assetPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 60, 45))
	for y := 0; y < 45; y++ {
		for x := 0; x < 60; x++ {
			img.Set(x, y, color.RGBA{R: 90, G: 90, B: 180, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRun_AssetReport(t *testing.T) {
	payload := assetPNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, pass, ok := r.BasicAuth(); !ok || user != "svc" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path == "/broken" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(payload)
	}))
	defer srv.Close()

	dir := t.TempDir()
	writeParams(t, dir, fmt.Sprintf(`{
		"project_name": "Office Tower",
		"report_type": "assets",
		"output_file": "assets.pdf",
		"auth": {"username": "svc", "password": "secret"},
		"assets": [
			{"asset_id": "A-1", "name": "Pump", "asset_type": "Mechanical", "url": "%[1]s/pump.png"},
			{"asset_id": "A-2", "name": "Broken", "asset_type": "Mechanical", "url": "%[1]s/broken"},
			{"asset_id": "A-3", "name": "Fan Coil", "asset_type": "HVAC", "url": "%[1]s/fan.png"}
		]
	}`, srv.URL))

	doc := export.NewDocument("Office Tower", nil, log.New(io.Discard))
	ok := testRunner().OnJobReady(context.Background(), doc, dir)
	require.True(t, ok, "one failed asset must not fail the run")

	assert.Equal(t, 1, doc.SheetCount(), "two surviving assets fit one page")
	assert.FileExists(t, filepath.Join(dir, "assets.pdf"))
	assert.FileExists(t, filepath.Join(dir, "assets.xlsx"))

	// Downloaded images land in the assets subdirectory.
	entries, err := os.ReadDir(filepath.Join(dir, AssetsDirName))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRun_AssetReport_AllDownloadsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	writeParams(t, dir, fmt.Sprintf(`{
		"report_type": "assets",
		"output_file": "assets.pdf",
		"assets": [{"asset_id": "A-1", "name": "Gone", "url": "%s/gone.png"}]
	}`, srv.URL))

	doc := export.NewDocument("Model", nil, log.New(io.Discard))
	assert.False(t, testRunner().OnJobReady(context.Background(), doc, dir))
}

func TestRun_MissingParamsIsFatal(t *testing.T) {
	doc := export.NewDocument("Model", nil, log.New(io.Discard))
	assert.False(t, testRunner().OnJobReady(context.Background(), doc, t.TempDir()))
}

func TestRun_NilDocumentIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeParams(t, dir, `{"report_type": "floorplans", "output_file": "report.pdf"}`)
	assert.False(t, testRunner().OnJobReady(context.Background(), nil, dir))
}

// noTemplateDoc simulates a host document whose title-block template
// is missing: every CreateSheet fails.
type noTemplateDoc struct{}

func (noTemplateDoc) Title() string     { return "stub" }
func (noTemplateDoc) Views() []cad.View { return nil }

func (noTemplateDoc) CreateSheet(label, titleBlock string) (cad.SheetID, error) {
	return "", cad.ErrTemplateNotFound
}

func (noTemplateDoc) PlaceView(cad.SheetID, string, model.Point2D, int) error { return nil }

func (noTemplateDoc) PlaceImage(cad.SheetID, string, model.Point2D, float64, float64) error {
	return nil
}

func (noTemplateDoc) Transaction(name string, fn func() error) error { return fn() }

func (noTemplateDoc) ExportPDF([]cad.SheetID, string) error { return nil }

func TestRun_MissingTitleBlockIsFatal(t *testing.T) {
	payload := assetPNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dir := t.TempDir()
	writeParams(t, dir, fmt.Sprintf(`{
		"report_type": "assets",
		"output_file": "assets.pdf",
		"assets": [{"asset_id": "A-1", "name": "Pump", "url": "%s/pump.png"}]
	}`, srv.URL))

	err := testRunner().Run(context.Background(), noTemplateDoc{}, dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, cad.ErrTemplateNotFound)
}
