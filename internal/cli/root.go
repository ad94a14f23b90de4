// Package cli implements the command-line interface for Chillax.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/config"
	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/graph"
	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/logging"
	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/recent"
	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/scanner"
)

// app holds the state shared by every subcommand of one invocation.
type app struct {
	cfgFile string
	verbose bool

	cfg *config.Config
	log *logrus.Logger
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "chillax",
		Short: "Chillax - Python project structure, call graphs and flow diagrams",
		Long: `Chillax reads a Python project and reports what it finds: the
functions, classes, imports and calls of every file, the file-to-file call
graph between them, and a flow diagram of any single file.

Commands:
  analyze    Scan a project and print its call graph
  file       Show one file and the files it is connected to
  search     Find files by keyword
  ask        Find files relevant to a question
  visualize  Render the flow diagram of one file
  watch      Re-analyze a project whenever its files change
  recent     Manage recently analyzed projects
  config     View or edit configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: .chillax.yaml)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(newAnalyzeCmd(a))
	cmd.AddCommand(newFileCmd(a))
	cmd.AddCommand(newSearchCmd(a))
	cmd.AddCommand(newAskCmd(a))
	cmd.AddCommand(newVisualizeCmd(a))
	cmd.AddCommand(newWatchCmd(a))
	cmd.AddCommand(newRecentCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newInitCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setup loads and validates configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format, a.verbose)
	if err != nil {
		return err
	}
	if cfg.ConfigFile != "" {
		logger.WithField("file", cfg.ConfigFile).Debug("configuration loaded")
	}

	a.cfg = cfg
	a.log = logger
	return nil
}

func (a *app) scanner() *scanner.Scanner {
	return scanner.New(scanner.Config{
		SkipDirs: a.cfg.Scan.SkipDirs,
		Logger:   a.log,
		Workers:  a.cfg.Scan.Workers,
	})
}

// root returns the project root named by args, or the configured default.
func (a *app) root(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return a.cfg.Project.Root
}

// format resolves an output format flag, falling back to the configuration.
func (a *app) format(flag string) (graph.Format, error) {
	if flag == "" {
		flag = a.cfg.Output.Format
	}
	return graph.ParseFormat(flag)
}

func (a *app) openRecent() (*recent.Store, error) {
	dbPath, err := a.cfg.RecentDBPath()
	if err != nil {
		return nil, err
	}
	store, err := recent.Open(dbPath, a.cfg.Recent.Limit)
	if err != nil {
		return nil, fmt.Errorf("open recent store: %w", err)
	}
	return store, nil
}

// remember records root in the recent projects store. Failures are logged
// and otherwise ignored.
func (a *app) remember(ctx context.Context, root string) {
	store, err := a.openRecent()
	if err != nil {
		a.log.WithError(err).Warn("recent projects unavailable")
		return
	}
	defer store.Close()

	if err := store.Add(ctx, root); err != nil {
		a.log.WithError(err).WithField("root", root).Warn("failed to record recent project")
	}
}
