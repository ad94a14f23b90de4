package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/graph"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		debounce time.Duration
		format   string
	)

	cmd := &cobra.Command{
		Use:   "watch [root]",
		Short: "Re-analyze a project whenever its files change",
		Long: `Analyze the project, then watch it for changes to Python files. Every
burst of changes triggers a fresh full analysis. Stops on Ctrl+C.

By default a statistics summary is printed after every run; --format
prints the full graph instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var f graph.Format
			if format != "" {
				var err error
				if f, err = graph.ParseFormat(format); err != nil {
					return err
				}
			}
			if debounce <= 0 {
				debounce = a.cfg.Watch.Debounce
			}

			root := a.root(args)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", root)

			runs := 0
			err := a.scanner().Watch(cmd.Context(), root, debounce, func(project *graph.Project, err error) {
				runs++
				if err != nil {
					a.log.WithError(err).Error("analysis failed")
					return
				}
				if runs == 1 {
					a.remember(cmd.Context(), project.Root)
				}
				fmt.Fprintf(out, "\n%s\n", labelStyle.Render(time.Now().Format(time.TimeOnly)))
				if f != "" {
					if err := graph.Export(out, project, f); err != nil {
						a.log.WithError(err).Error("export failed")
					}
					return
				}
				printStats(out, project)
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "\nStopped after %d analyses.\n", runs)
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before re-analyzing (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "print the full graph as json or yaml after each run")

	return cmd
}
