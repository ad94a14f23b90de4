// Package scanner walks a project tree, extracts every eligible source file
// and assembles the cross-file call graph.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/graph"
	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/logging"
	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/parser"
	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/parser/python"
	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/source"
)

// ErrNotDirectory is returned when the scan root is missing or not a directory.
var ErrNotDirectory = errors.New("not a directory")

// DefaultSkipDirs are directory names never descended into.
var DefaultSkipDirs = []string{"__pycache__", "venv", "node_modules", ".git"}

// Config holds configuration for the Scanner.
type Config struct {
	Registry *parser.Registry   // defaults to a registry holding the Python parser
	SkipDirs []string           // defaults to DefaultSkipDirs
	Resolver graph.Resolver     // defaults to graph.NameResolver
	Logger   logrus.FieldLogger // defaults to a discarding logger
	Workers  int                // parallel extractions; defaults to GOMAXPROCS
}

// Scanner turns a directory tree into a graph.Project. A Scanner holds no
// state between calls; every Analyze builds a fresh symbol index.
type Scanner struct {
	registry *parser.Registry
	skip     map[string]struct{}
	resolver graph.Resolver
	log      logrus.FieldLogger
	workers  int
}

// New creates a Scanner with the given configuration.
func New(cfg Config) *Scanner {
	reg := cfg.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}

	skipDirs := cfg.SkipDirs
	if skipDirs == nil {
		skipDirs = DefaultSkipDirs
	}
	skip := make(map[string]struct{}, len(skipDirs))
	for _, d := range skipDirs {
		skip[d] = struct{}{}
	}

	res := cfg.Resolver
	if res == nil {
		res = graph.NameResolver{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Scanner{registry: reg, skip: skip, resolver: res, log: logger, workers: workers}
}

// DefaultRegistry returns a registry with every built-in parser.
func DefaultRegistry() *parser.Registry {
	reg := parser.NewRegistry()
	reg.MustRegister(python.NewParser())
	return reg
}

// Analyze scans root with a default Scanner.
func Analyze(ctx context.Context, root string) (*graph.Project, error) {
	return New(Config{}).Analyze(ctx, root)
}

// AnalyzeFile extracts a single file with a default Scanner.
func AnalyzeFile(filePath, root string) (*graph.Module, error) {
	return New(Config{}).AnalyzeFile(filePath, root)
}

// Skipped reports whether a directory entry with this name is excluded from
// scans.
func (s *Scanner) Skipped(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, ok := s.skip[name]
	return ok
}

// Eligible reports whether the file name is handled by a registered parser.
func (s *Scanner) Eligible(name string) bool {
	_, ok := s.registry.ForFile(name)
	return ok
}

// Analyze walks root, extracts every eligible file and resolves call edges.
// Per-file failures are embedded in the returned modules; only a bad root or
// a cancelled context is returned as an error.
func (s *Scanner) Analyze(ctx context.Context, root string) (*graph.Project, error) {
	absRoot, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	w := &walk{scanner: s, root: absRoot}
	if err := w.dir(ctx, absRoot); err != nil {
		return nil, err
	}
	modules, err := w.extractAll(ctx)
	if err != nil {
		return nil, err
	}

	// Registration runs in traversal order so later files win name
	// collisions deterministically.
	symbols := graph.NewSymbolIndex()
	for _, mod := range modules {
		symbols.RegisterModule(mod)
	}

	edges := s.resolver.Resolve(modules, symbols)
	project := graph.NewProject(filepath.ToSlash(absRoot), modules, edges)

	s.log.WithFields(logrus.Fields{
		"root":      project.Root,
		"modules":   project.Stats.TotalModules,
		"functions": project.Stats.TotalFunctions,
		"edges":     project.Stats.TotalEdges,
		"errors":    project.Stats.ParseErrors,
		"elapsed":   time.Since(start),
	}).Info("analysis complete")

	return project, nil
}

// resolveRoot returns the absolute form of root, which must be a directory.
func resolveRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("analyze %s: %w (%w)", root, ErrNotDirectory, source.ErrNotFound)
	}
	return absRoot, nil
}

// AnalyzeFile extracts one file. A missing file is an error; unreadable or
// malformed content yields an error-flagged module.
func (s *Scanner) AnalyzeFile(filePath, root string) (*graph.Module, error) {
	p, ok := s.registry.ForFile(filePath)
	if !ok {
		return nil, fmt.Errorf("no parser for %s", filePath)
	}
	f, err := source.Read(filePath, root)
	if err != nil {
		if errors.Is(err, source.ErrNotFound) {
			return nil, err
		}
		return graph.NewErrorModule(source.Rel(filePath, root), "read error: "+err.Error()), nil
	}
	return s.extract(p, f.Path, f.Content), nil
}

func (s *Scanner) extract(p parser.Parser, relPath string, content []byte) *graph.Module {
	mod, err := p.ParseFile(relPath, content)
	if err != nil {
		s.log.WithError(err).WithField("file", relPath).Warn("extraction failed")
		return graph.NewErrorModule(relPath, err.Error())
	}
	if mod.Failed() {
		s.log.WithField("file", relPath).Debug(mod.Error)
	}
	return mod
}

// walk carries the per-scan state.
type walk struct {
	scanner *Scanner
	root    string
	pending []pendingFile
}

// pendingFile is an eligible file awaiting extraction.
type pendingFile struct {
	parser parser.Parser
	path   string
}

// dir queues the files of one directory in sorted order, then descends into
// its subdirectories in sorted order.
func (w *walk) dir(ctx context.Context, path string) error {
	s := w.scanner
	entries, err := os.ReadDir(path)
	if err != nil {
		s.log.WithError(err).WithField("dir", path).Warn("skipping unreadable directory")
		return nil
	}

	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		if s.Skipped(name) {
			s.log.WithField("entry", name).Debug("skipped")
			continue
		}
		full := filepath.Join(path, name)

		if entry.IsDir() {
			subdirs = append(subdirs, full)
			continue
		}
		if !entry.Type().IsRegular() && !isFileLink(full) {
			continue
		}

		p, ok := s.registry.ForFile(name)
		if !ok {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		w.pending = append(w.pending, pendingFile{parser: p, path: full})
	}

	for _, sub := range subdirs {
		if err := w.dir(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

// extractAll extracts every queued file on a bounded worker pool. The result
// keeps queue order.
func (w *walk) extractAll(ctx context.Context) ([]*graph.Module, error) {
	modules := make([]*graph.Module, len(w.pending))

	g := new(errgroup.Group)
	g.SetLimit(w.scanner.workers)
	for i, f := range w.pending {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			modules[i] = w.file(f.parser, f.path)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return modules, nil
}

func (w *walk) file(p parser.Parser, full string) *graph.Module {
	s := w.scanner
	relPath := source.Rel(full, w.root)

	var mod *graph.Module
	f, err := source.Read(full, w.root)
	if err != nil {
		s.log.WithError(err).WithField("file", relPath).Warn("read failed")
		mod = graph.NewErrorModule(relPath, "read error: "+err.Error())
	} else {
		mod = s.extract(p, relPath, f.Content)
	}

	s.log.WithFields(logrus.Fields{
		"file":      relPath,
		"functions": len(mod.Functions),
		"calls":     len(mod.Calls),
	}).Debug("extracted")
	return mod
}

// isFileLink reports whether path is a symlink to a regular file.
func isFileLink(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
