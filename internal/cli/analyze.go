package cli

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/graph"
	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/source"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		format  string
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [root]",
		Short: "Scan a project and print its call graph",
		Long: `Scan every Python file under root (default: project.root from config)
and print the resulting project graph: one record per file plus the
file-to-file call edges and aggregate stats.

Files that fail to parse are reported in place with an error marker; they
never abort the scan.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.format(format)
			if err != nil {
				return err
			}

			project, err := a.scanner().Analyze(cmd.Context(), a.root(args))
			if err != nil {
				return err
			}
			a.remember(cmd.Context(), project.Root)

			if summary {
				printStats(cmd.OutOrStdout(), project)
				return nil
			}
			return graph.Export(cmd.OutOrStdout(), project, f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json or yaml (default from config)")
	cmd.Flags().BoolVar(&summary, "summary", false, "print statistics instead of the full graph")

	return cmd
}

// fileReport is one module together with its graph neighbours.
type fileReport struct {
	Module    *graph.Module `json:"module" yaml:"module"`
	CalledBy  []string      `json:"called_by" yaml:"called_by"`
	CallsInto []string      `json:"calls_into" yaml:"calls_into"`
}

func newFileCmd(a *app) *cobra.Command {
	var (
		root   string
		format string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Show one file and the files it is connected to",
		Long: `Analyze the project and print the record of a single file together
with the files that call into it and the files it calls into.

path may be relative to the project root or to the working directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.format(format)
			if err != nil {
				return err
			}
			if root == "" {
				root = a.cfg.Project.Root
			}

			project, err := a.scanner().Analyze(cmd.Context(), root)
			if err != nil {
				return err
			}

			mod, ok := lookupModule(project, args[0])
			if !ok {
				return fmt.Errorf("file %s: %w", args[0], source.ErrNotFound)
			}
			report := fileReport{
				Module:    mod,
				CalledBy:  project.Callers(mod.Path),
				CallsInto: project.Callees(mod.Path),
			}

			if !pretty {
				return graph.Export(cmd.OutOrStdout(), report, f)
			}
			printModule(cmd, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "project root (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json or yaml (default from config)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "print a human readable summary")

	return cmd
}

// lookupModule finds arg as a root-relative path first, then as a path
// relative to the working directory.
func lookupModule(project *graph.Project, arg string) (*graph.Module, bool) {
	if mod, ok := project.Module(path.Clean(filepath.ToSlash(arg))); ok {
		return mod, true
	}
	return project.Module(source.Rel(arg, filepath.FromSlash(project.Root)))
}

func printModule(cmd *cobra.Command, r fileReport) {
	out := cmd.OutOrStdout()
	m := r.Module

	printTitle(out, m.Path)
	if m.Failed() {
		printKV(out, "Error", errorStyle.Render(m.Error))
	}
	fmt.Fprintln(out)

	printSection(out, "Functions")
	names := make([]string, 0, len(m.Functions))
	for _, fn := range m.Functions {
		names = append(names, fmt.Sprintf("%s (line %d)", fn.Name, fn.StartLine))
	}
	printList(out, names)

	printSection(out, "Classes")
	names = make([]string, 0, len(m.Classes))
	for _, c := range m.Classes {
		names = append(names, fmt.Sprintf("%s (line %d)", c.Name, c.StartLine))
	}
	printList(out, names)

	printSection(out, "Imports")
	printList(out, m.Imports)
	fmt.Fprintln(out)

	printSection(out, "Called by")
	printList(out, r.CalledBy)
	printSection(out, "Calls into")
	printList(out, r.CallsInto)
}
