package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `View or edit Chillax configuration.

By default, displays the effective configuration (file, environment and
defaults merged). Use 'config edit' to edit it interactively.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printConfig(cmd, a.cfg)
			return nil
		},
	}

	cmd.AddCommand(newConfigEditCmd(a))

	return cmd
}

func printConfig(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	printTitle(out, "Chillax Configuration")
	fmt.Fprintln(out)

	source := cfg.ConfigFile
	if source == "" {
		source = "(defaults)"
	}
	printKV(out, "Config file", source)
	fmt.Fprintln(out)

	printSection(out, "Project")
	printKV(out, "Root", cfg.Project.Root)
	fmt.Fprintln(out)

	printSection(out, "Scan")
	printKV(out, "Skip dirs", strings.Join(cfg.Scan.SkipDirs, ", "))
	workers := "auto"
	if cfg.Scan.Workers > 0 {
		workers = strconv.Itoa(cfg.Scan.Workers)
	}
	printKV(out, "Workers", workers)
	fmt.Fprintln(out)

	printSection(out, "Flow Caps")
	caps := cfg.Flow.Caps
	printKV(out, "Module", capString(caps.Module))
	printKV(out, "Function", capString(caps.Function))
	printKV(out, "Class", capString(caps.Class))
	printKV(out, "Block", capString(caps.Block))
	printKV(out, "Handlers", capString(caps.Handlers))
	printKV(out, "Handler body", capString(caps.HandlerBody))
	fmt.Fprintln(out)

	printSection(out, "Output")
	printKV(out, "Format", cfg.Output.Format)
	printKV(out, "Log level", cfg.Log.Level)
	printKV(out, "Log format", cfg.Log.Format)
	fmt.Fprintln(out)

	printSection(out, "Recent Projects")
	dbPath, err := cfg.RecentDBPath()
	if err != nil {
		dbPath = err.Error()
	}
	printKV(out, "DB path", dbPath)
	printKV(out, "Limit", strconv.Itoa(cfg.Recent.Limit))
	fmt.Fprintln(out)

	printSection(out, "Watch")
	printKV(out, "Debounce", cfg.Watch.Debounce.String())
	fmt.Fprintln(out)
}

func capString(n int) string {
	if n == 0 {
		return "unlimited"
	}
	return strconv.Itoa(n)
}

func newConfigEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration interactively",
		Long: `Edit Chillax configuration using an interactive form. Changes are
written to the loaded config file, or to .chillax.yaml in the working
directory when none was found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigEdit(cmd, a.cfg)
		},
	}
}

func runConfigEdit(cmd *cobra.Command, cfg *config.Config) error {
	if err := requireTerminal(); err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	// Pre-fill form variables from the current config.
	root := cfg.Project.Root
	format := cfg.Output.Format
	level := cfg.Log.Level
	caps := cfg.Flow.Caps
	capInputs := map[string]*string{}
	for name, n := range map[string]int{
		"function": caps.Function,
		"class":    caps.Class,
		"block":    caps.Block,
		"handlers": caps.Handlers,
	} {
		s := strconv.Itoa(n)
		capInputs[name] = &s
	}
	var confirm bool

	capField := func(title, name string) huh.Field {
		return huh.NewInput().
			Title(title).
			Description("0 means unlimited").
			Value(capInputs[name]).
			Validate(validateCap)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Default project root").
				Value(&root).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("project root cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Output format").
				Options(huh.NewOption("JSON", "json"), huh.NewOption("YAML", "yaml")).
				Value(&format),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("debug", "debug"),
					huh.NewOption("info", "info"),
					huh.NewOption("warn", "warn"),
					huh.NewOption("error", "error"),
				).
				Value(&level),
		).Title("General"),

		huh.NewGroup(
			capField("Steps per function body", "function"),
			capField("Steps per class body", "class"),
			capField("Steps per if/loop/with/try body", "block"),
			capField("Exception handlers per try", "handlers"),
		).Title("Flow Diagram Caps"),

		huh.NewGroup(
			huh.NewConfirm().
				Title("Save changes?").
				Value(&confirm).
				Affirmative("Save").
				Negative("Cancel"),
		).Title("Confirm"),
	).WithTheme(huh.ThemeCharm())

	if err := form.RunWithContext(cmd.Context()); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
		return fmt.Errorf("interactive config edit: %w", err)
	}
	if !confirm {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}

	// Inputs were validated by the form.
	capValue := func(name string) int {
		n, _ := strconv.Atoi(strings.TrimSpace(*capInputs[name]))
		return n
	}
	cfg.Project.Root = root
	cfg.Output.Format = format
	cfg.Log.Level = level
	cfg.Flow.Caps.Function = capValue("function")
	cfg.Flow.Caps.Class = capValue("class")
	cfg.Flow.Caps.Block = capValue("block")
	cfg.Flow.Caps.Handlers = capValue("handlers")

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	path := cfg.ConfigFile
	if path == "" {
		path = config.DefaultConfigFile + "." + config.DefaultConfigType
	}
	if err := config.WriteConfig(cfg, path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Fprintf(out, "Configuration saved to %s\n", path)
	return nil
}

func validateCap(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a whole number")
	}
	if n < 0 {
		return errors.New("must not be negative")
	}
	return nil
}
