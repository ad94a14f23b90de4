package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/flow"
	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/graph"
	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/parser/python"
)

func newVisualizeCmd(a *app) *cobra.Command {
	var (
		root    string
		format  string
		mermaid bool
	)

	cmd := &cobra.Command{
		Use:   "visualize <file>",
		Short: "Render the flow diagram of one file",
		Long: `Walk the top-level statements of a Python file and print its flow
steps, their parent links and the equivalent Mermaid flowchart.

With --root, file is resolved inside the project root and paths escaping it
are rejected. Per-construct step caps come from flow.caps in config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.format(format)
			if err != nil {
				return err
			}

			opts := flow.Options{Caps: a.cfg.Flow.Caps}
			var res *flow.Result
			if root != "" {
				res, err = flow.VisualizeInRoot(root, args[0], opts)
			} else {
				res, err = flow.Visualize(args[0], opts)
			}
			if err != nil {
				var serr *python.SyntaxError
				if errors.As(err, &serr) {
					if text := strings.TrimSpace(serr.Text); text != "" {
						return fmt.Errorf("%s: line %d: %s\n    %s", args[0], serr.Line, serr.Msg, text)
					}
					return fmt.Errorf("%s: line %d: %s", args[0], serr.Line, serr.Msg)
				}
				return err
			}
			a.log.WithField("file", res.File).WithField("steps", res.TotalSteps).Debug("flow built")

			if mermaid {
				_, err := fmt.Fprint(cmd.OutOrStdout(), res.Mermaid)
				return err
			}
			return graph.Export(cmd.OutOrStdout(), res, f)
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "resolve file inside this project root")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json or yaml (default from config)")
	cmd.Flags().BoolVar(&mermaid, "mermaid", false, "print only the Mermaid flowchart")

	return cmd
}
