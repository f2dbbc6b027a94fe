package model

import (
	"fmt"
	"strings"
)

// Report types accepted in the job spec.
const (
	ReportFloorPlans = "floorplans" // Compose level views onto sheets
	ReportAssets     = "assets"     // Download asset images and paginate them
)

// EnvProduction is the environment tag that disables file logging.
const EnvProduction = "production"

// BasicAuth holds credentials for downloading asset images.
type BasicAuth struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// FilterSpec is a named, free-form filter passed through from the job
// input. The engine does not interpret filter parameters itself; they
// are applied upstream when the item set is produced.
type FilterSpec struct {
	Name   string            `json:"name"`
	Type   string            `json:"type"`
	Params map[string]string `json:"params,omitempty"`
}

// AssetRecord describes one downloadable asset image.
type AssetRecord struct {
	AssetID      string `json:"asset_id"`
	Project      string `json:"project"`
	AssetType    string `json:"asset_type"`
	ImageSubtype string `json:"image_subtype,omitempty"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	URLOverride  string `json:"url_override,omitempty"`
}

// DownloadURL returns the URL to fetch the asset image from.
// An explicit override always wins over the regular URL.
func (a AssetRecord) DownloadURL() string {
	if a.URLOverride != "" {
		return a.URLOverride
	}
	return a.URL
}

// JobSpec is the job input descriptor loaded from the params file in
// the job's working directory.
type JobSpec struct {
	ProjectName   string        `json:"project_name"`
	ProjectNumber string        `json:"project_number"`
	ReportType    string        `json:"report_type"`
	ViewTypes     []string      `json:"view_types,omitempty"`
	Filters       []FilterSpec  `json:"filters,omitempty"`
	MaxViews      int           `json:"max_views,omitempty"` // 0 means no cap
	OutputFile    string        `json:"output_file"`
	Environment   string        `json:"environment,omitempty"`
	Auth          BasicAuth     `json:"auth"`
	Assets        []AssetRecord `json:"assets,omitempty"`
}

// Validate checks the fields the pipeline depends on. It does not
// validate asset URLs; download failures are handled per asset.
func (s JobSpec) Validate() error {
	switch s.ReportType {
	case ReportFloorPlans, ReportAssets:
	case "":
		return fmt.Errorf("job spec: report_type is required")
	default:
		return fmt.Errorf("job spec: unknown report_type %q", s.ReportType)
	}
	if strings.TrimSpace(s.OutputFile) == "" {
		return fmt.Errorf("job spec: output_file is required")
	}
	if s.MaxViews < 0 {
		return fmt.Errorf("job spec: max_views must not be negative")
	}
	for i, a := range s.Assets {
		if a.DownloadURL() == "" {
			return fmt.Errorf("job spec: asset %d (%s) has no url", i, a.AssetID)
		}
	}
	return nil
}
