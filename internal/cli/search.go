package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/graph"
	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/search"
)

type searchFlags struct {
	root   string
	format string
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.root, "root", "", "project root (default from config)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "print full module records as json or yaml instead of paths")
}

func newSearchCmd(a *app) *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "search <keyword>...",
		Short: "Find files by keyword",
		Long: `Analyze the project and list the files whose path, function names or
class names contain any of the keywords (case-insensitive).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(cmd, flags, args)
		},
	}
	flags.register(cmd)

	return cmd
}

func newAskCmd(a *app) *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Find files relevant to a question",
		Long: `Turn a free-form question into keywords and list the files matching
them. Stop words and words of two letters or less are dropped; when nothing
remains the first three words are used.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keywords := search.Keywords(strings.Join(args, " "))
			if flags.format == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
					labelStyle.Render("Keywords:"), strings.Join(keywords, ", "))
			}
			return a.runSearch(cmd, flags, keywords)
		},
	}
	flags.register(cmd)

	return cmd
}

func (a *app) runSearch(cmd *cobra.Command, flags searchFlags, keywords []string) error {
	root := flags.root
	if root == "" {
		root = a.cfg.Project.Root
	}
	project, err := a.scanner().Analyze(cmd.Context(), root)
	if err != nil {
		return err
	}

	matches := search.Search(project, keywords)
	a.log.WithField("keywords", keywords).WithField("matches", len(matches)).Debug("search complete")

	if flags.format != "" {
		f, err := graph.ParseFormat(flags.format)
		if err != nil {
			return err
		}
		return graph.Export(cmd.OutOrStdout(), matches, f)
	}

	out := cmd.OutOrStdout()
	if len(matches) == 0 {
		fmt.Fprintln(out, "No matching files.")
		return nil
	}
	for _, m := range matches {
		fmt.Fprintln(out, m.Path)
	}
	return nil
}
