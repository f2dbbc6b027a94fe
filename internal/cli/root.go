// Package cli wires the planpress commands: a root command carrying
// the shared flags and a run command that executes one report job.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// Called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the planpress CLI and returns an error if any command
// fails. Logging defaults to info level; --verbose (-v) raises it to
// debug.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "planpress",
		Short:        "planpress generates sheet-based CAD reports",
		Long:         `planpress composes model views and downloaded asset images onto fixed sheet templates and exports the result as a combined PDF report.`,
		Version:      version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(fmt.Sprintf("planpress %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRunCmd(&verbose))

	return root.ExecuteContext(ctx)
}
