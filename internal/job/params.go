package job

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"planpress/internal/model"
)

// Well-known names inside a job's working directory. The automation
// host drops the params file and expects downloaded assets in the
// assets subdirectory.
const (
	ParamsFileName = "params.json"
	AssetsDirName  = "assets"
)

// LoadParams reads and validates the job spec from the working
// directory. A missing or invalid params file is a configuration
// error: the whole run aborts.
func LoadParams(workDir string) (model.JobSpec, error) {
	path := filepath.Join(workDir, ParamsFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return model.JobSpec{}, fmt.Errorf("job params: %w", err)
	}
	var spec model.JobSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return model.JobSpec{}, fmt.Errorf("job params: parse %s: %w", ParamsFileName, err)
	}
	if err := spec.Validate(); err != nil {
		return model.JobSpec{}, err
	}
	return spec, nil
}
