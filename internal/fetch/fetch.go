// Package fetch downloads asset images over HTTP with basic auth and
// prepares them for pagination: payloads are sniffed, written to the
// job's assets directory, and decoded for their pixel dimensions.
// Downloads are sequential; a failed asset is logged and skipped so
// the pagination step never sees an item for it.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/gosimple/slug"
	"github.com/h2non/filetype"

	"planpress/internal/model"
)

const (
	httpTimeout   = 30 * time.Second
	retryAttempts = 3
	retryDelay    = time.Second

	// Images wider or taller than this are downscaled before embedding
	// to keep the combined PDF small.
	maxAssetPixels = 2048

	// Nominal print resolution used to express image footprints in feet.
	assetDPI = 150.0
)

// ErrNotImage is returned when a downloaded payload is not a
// recognized image format.
var ErrNotImage = fmt.Errorf("payload is not an image")

// Downloaded is one successfully fetched asset: its record, the
// decoded image file on disk, and its pixel dimensions.
type Downloaded struct {
	Record   model.AssetRecord
	Path     string
	WidthPx  int
	HeightPx int
}

// Item converts the downloaded asset into a layout item for the
// pagination engine. The footprint is the pixel size at nominal print
// resolution; the group key is the asset batch (asset type).
func (d Downloaded) Item() model.LayoutItem {
	return model.LayoutItem{
		ID:        d.Path,
		Label:     d.Record.Name,
		GroupKey:  d.Record.AssetType,
		Width:     float64(d.WidthPx) / assetDPI / 12.0,
		Height:    float64(d.HeightPx) / assetDPI / 12.0,
		Placeable: true,
	}
}

// Downloader fetches asset images into a directory.
type Downloader struct {
	http *http.Client
	auth model.BasicAuth
	dir  string
	log  *log.Logger
}

// NewDownloader returns a downloader that stores images under dir,
// authenticating every request with the given credentials.
func NewDownloader(dir string, auth model.BasicAuth, logger *log.Logger) *Downloader {
	return &Downloader{
		http: &http.Client{Timeout: httpTimeout},
		auth: auth,
		dir:  dir,
		log:  logger,
	}
}

// FetchAll downloads the given assets one at a time, in order.
// Failures are logged with their reason and the asset is omitted from
// the result; the remaining assets are still fetched.
func (d *Downloader) FetchAll(ctx context.Context, assets []model.AssetRecord) []Downloaded {
	var out []Downloaded
	for _, a := range assets {
		dl, err := d.fetch(ctx, a)
		if err != nil {
			d.log.Error("asset download failed, omitting from report",
				"asset", a.AssetID, "name", a.Name, "err", err)
			continue
		}
		d.log.Debug("asset downloaded", "asset", a.AssetID, "path", dl.Path,
			"px", fmt.Sprintf("%dx%d", dl.WidthPx, dl.HeightPx))
		out = append(out, dl)
	}
	return out
}

func (d *Downloader) fetch(ctx context.Context, a model.AssetRecord) (Downloaded, error) {
	body, err := d.get(ctx, a.DownloadURL())
	if err != nil {
		return Downloaded{}, err
	}

	kind, err := filetype.Match(body)
	if err != nil || !filetype.IsImage(body) {
		return Downloaded{}, fmt.Errorf("asset %s: %w", a.AssetID, ErrNotImage)
	}

	path := filepath.Join(d.dir, d.fileName(a)+"."+kind.Extension)
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return Downloaded{}, err
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		return Downloaded{}, err
	}

	img, err := imaging.Open(path)
	if err != nil {
		return Downloaded{}, fmt.Errorf("asset %s: decode: %w", a.AssetID, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxAssetPixels || h > maxAssetPixels {
		img = imaging.Fit(img, maxAssetPixels, maxAssetPixels, imaging.Lanczos)
		if err := imaging.Save(img, path); err != nil {
			return Downloaded{}, fmt.Errorf("asset %s: downscale: %w", a.AssetID, err)
		}
		bounds = img.Bounds()
		w, h = bounds.Dx(), bounds.Dy()
	}

	return Downloaded{Record: a, Path: path, WidthPx: w, HeightPx: h}, nil
}

// get performs an authenticated GET with retry on transient failures.
func (d *Downloader) get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := Retry(ctx, retryAttempts, retryDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.SetBasicAuth(d.auth.Username, d.auth.Password)

		resp, err := d.http.Do(req)
		if err != nil {
			return &RetryableError{Err: err}
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode >= 500:
			return &RetryableError{Err: fmt.Errorf("status %d", resp.StatusCode)}
		default:
			return fmt.Errorf("status %d", resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	})
	return body, err
}

// fileName derives a stable on-disk name for the asset image.
func (d *Downloader) fileName(a model.AssetRecord) string {
	if s := slug.Make(a.Name); s != "" {
		return s
	}
	return slug.Make(a.AssetID)
}
