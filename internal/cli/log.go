package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"planpress/internal/model"
)

// logFileName is the per-job log written next to the job's inputs.
const logFileName = "planpress.log"

// newLogger builds the logger injected into every component for one
// job run. Outside production the log is mirrored to a file in the
// working directory so automation runs leave an inspectable trail;
// production runs log to stderr only.
func newLogger(environment, workDir string, level log.Level) *log.Logger {
	w := io.Writer(os.Stderr)
	if environment != model.EnvProduction {
		if f, err := os.OpenFile(filepath.Join(workDir, logFileName),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			w = io.MultiWriter(os.Stderr, f)
		}
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}
