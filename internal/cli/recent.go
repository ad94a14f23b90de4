package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/graph"
	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/recent"
)

func newRecentCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Manage recently analyzed projects",
		Long: `List the projects analyzed most recently, newest first. Projects whose
directory no longer exists are hidden.

Every successful 'analyze' and 'watch' records its root here.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRecent(func(store *recent.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if format != "" {
					f, err := graph.ParseFormat(format)
					if err != nil {
						return err
					}
					return graph.Export(cmd.OutOrStdout(), entries, f)
				}

				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No recent projects.")
					return nil
				}
				printTitle(out, "Recent Projects")
				for _, e := range entries {
					fmt.Fprintf(out, "    %s  %s\n", e.Path, faintStyle.Render(e.OpenedAt.Local().Format(time.DateTime)))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "print entries as json or yaml")

	cmd.AddCommand(newRecentAddCmd(a))
	cmd.AddCommand(newRecentRemoveCmd(a))
	cmd.AddCommand(newRecentClearCmd(a))
	cmd.AddCommand(newRecentPickCmd(a))

	return cmd
}

func newRecentAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>",
		Short: "Record a project without analyzing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRecent(func(store *recent.Store) error {
				if err := store.Add(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", recent.Normalize(args[0]))
				return nil
			})
		},
	}
}

func newRecentRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <path>",
		Short: "Forget one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRecent(func(store *recent.Store) error {
				if err := store.Remove(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", recent.Normalize(args[0]))
				return nil
			})
		},
	}
}

func newRecentClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget all projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRecent(func(store *recent.Store) error {
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared recent projects.")
				return nil
			})
		},
	}
}

func newRecentPickCmd(a *app) *cobra.Command {
	var analyze bool

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose a recent project interactively",
		Long: `Show an interactive picker over the recent projects and print the
chosen path. With --analyze, the chosen project is analyzed and its
statistics printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []recent.Entry
			err := a.withRecent(func(store *recent.Store) error {
				var err error
				entries, err = store.List(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No recent projects.")
				return nil
			}

			if err := requireTerminal(); err != nil {
				return err
			}

			options := make([]huh.Option[string], len(entries))
			for i, e := range entries {
				options[i] = huh.NewOption(e.Path, e.Path)
			}
			var chosen string
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewSelect[string]().
						Title("Recent projects").
						Options(options...).
						Value(&chosen),
				),
			).WithTheme(huh.ThemeCharm())

			if err := form.RunWithContext(cmd.Context()); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					fmt.Fprintln(out, "Cancelled.")
					return nil
				}
				return fmt.Errorf("pick recent project: %w", err)
			}

			if !analyze {
				fmt.Fprintln(out, chosen)
				return nil
			}
			project, err := a.scanner().Analyze(cmd.Context(), chosen)
			if err != nil {
				return err
			}
			a.remember(cmd.Context(), project.Root)
			printStats(out, project)
			return nil
		},
	}

	cmd.Flags().BoolVar(&analyze, "analyze", false, "analyze the chosen project")

	return cmd
}

// requireTerminal fails when stdin cannot drive an interactive form.
func requireTerminal() error {
	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return errors.New("interactive mode requires a terminal on stdin")
	}
	return nil
}

// withRecent opens the recent store for the duration of fn.
func (a *app) withRecent(fn func(store *recent.Store) error) error {
	store, err := a.openRecent()
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
