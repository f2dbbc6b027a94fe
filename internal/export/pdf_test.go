package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planpress/internal/cad"
	"planpress/internal/model"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func testViews() []cad.View {
	return []cad.View{
		{ID: "v1", Name: "Level 1 - Scale 96", ViewType: "FloorPlan", Scale: 96, CropWidth: 96, CropHeight: 64, Placeable: true},
		{ID: "v2", Name: "Level 2 - Scale 96", ViewType: "FloorPlan", Scale: 96, CropWidth: 96, CropHeight: 64, Placeable: true},
	}
}

// writeTestPNG writes a small PNG into dir and returns its path.
func writeTestPNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 24, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 24; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestCreateSheet_UnknownTitleBlockIsFatal(t *testing.T) {
	doc := NewDocument("Test Model", nil, testLogger())
	_, err := doc.CreateSheet("Individual - Level 1", "Nonexistent Block")
	assert.ErrorIs(t, err, cad.ErrTemplateNotFound)
	assert.Zero(t, doc.SheetCount())
}

func TestCreateSheet_UniqueIDs(t *testing.T) {
	doc := NewDocument("Test Model", nil, testLogger())
	a, err := doc.CreateSheet("Sheet A", cad.DefaultTitleBlock)
	require.NoError(t, err)
	b, err := doc.CreateSheet("Sheet B", cad.DefaultTitleBlock)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, doc.SheetCount())
}

func TestPlaceView_UnknownSheetOrView(t *testing.T) {
	doc := NewDocument("Test Model", testViews(), testLogger())
	id, err := doc.CreateSheet("Sheet", cad.DefaultTitleBlock)
	require.NoError(t, err)

	assert.Error(t, doc.PlaceView("bogus", "v1", model.Point2D{}, 96))
	assert.Error(t, doc.PlaceView(id, "bogus-view", model.Point2D{}, 96))
	assert.NoError(t, doc.PlaceView(id, "v1", model.Point2D{X: 1.4, Y: 0.9}, 96))
}

func TestPlaceImage_MissingFile(t *testing.T) {
	doc := NewDocument("Test Model", nil, testLogger())
	id, err := doc.CreateSheet("Page 1", cad.DefaultTitleBlock)
	require.NoError(t, err)

	err = doc.PlaceImage(id, filepath.Join(t.TempDir(), "nope.png"), model.Point2D{}, 0.5, 0.4)
	assert.Error(t, err)
}

func TestTransaction_PassesThroughError(t *testing.T) {
	doc := NewDocument("Test Model", nil, testLogger())
	assert.NoError(t, doc.Transaction("empty", func() error { return nil }))
	err := doc.Transaction("failing", func() error { return os.ErrPermission })
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestExportPDF_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	doc := NewDocument("Office Tower", testViews(), testLogger())

	s1, err := doc.CreateSheet("Individual - Level 1", cad.DefaultTitleBlock)
	require.NoError(t, err)
	require.NoError(t, doc.PlaceView(s1, "v1", model.Point2D{X: 1.42, Y: 0.92}, 96))

	s2, err := doc.CreateSheet("Page 1", cad.DefaultTitleBlock)
	require.NoError(t, err)
	imgPath := writeTestPNG(t, dir, "asset.png")
	require.NoError(t, doc.PlaceImage(s2, imgPath, model.Point2D{X: 0.5, Y: 1.2}, 0.4, 0.3))

	out := filepath.Join(dir, "report.pdf")
	require.NoError(t, doc.ExportPDF([]cad.SheetID{s1, s2}, out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(1000), "PDF should have real content")
}

func TestExportPDF_NoSheets(t *testing.T) {
	doc := NewDocument("Empty", nil, testLogger())
	err := doc.ExportPDF(nil, filepath.Join(t.TempDir(), "out.pdf"))
	assert.Error(t, err)
}

func TestExportPDF_UnknownSheetID(t *testing.T) {
	doc := NewDocument("Test", nil, testLogger())
	err := doc.ExportPDF([]cad.SheetID{"missing"}, filepath.Join(t.TempDir(), "out.pdf"))
	assert.Error(t, err)
}
