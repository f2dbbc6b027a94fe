package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"planpress/internal/export"
	"planpress/internal/job"
)

// newRunCmd builds the run command: execute the job described by the
// params file in a working directory against a fresh PDF document.
func newRunCmd(verbose *bool) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the report job found in a working directory",
		Long: `Run loads params.json from the working directory, executes the
described report job, and writes the outputs next to it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if *verbose {
				level = log.DebugLevel
			}

			// Peek at the params before building the logger: the
			// environment tag decides whether a log file is kept.
			spec, err := job.LoadParams(dir)
			if err != nil {
				return err
			}
			logger := newLogger(spec.Environment, dir, level)

			title := spec.ProjectName
			if spec.ProjectNumber != "" {
				title = fmt.Sprintf("%s (%s)", title, spec.ProjectNumber)
			}
			doc := export.NewDocument(title, nil, logger)
			if err := job.NewRunner(logger).RunSpec(cmd.Context(), doc, spec, dir); err != nil {
				logger.Error("report generation failed", "dir", dir, "err", err)
				return fmt.Errorf("job in %s failed, see log for details", dir)
			}
			logger.Info("report generation complete", "dir", dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "job working directory")
	return cmd
}
