// Package flow turns one Python file into a bounded, parent-linked sequence of
// statement steps and renders it as a Mermaid flowchart.
package flow

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/parser/python"
	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/source"
)

// ErrPathTraversal is returned when a requested file lies outside the root.
var ErrPathTraversal = errors.New("path escapes project root")

// Kind is the diagram category of a step.
type Kind string

const (
	KindStart     Kind = "start"
	KindImport    Kind = "import"
	KindDefine    Kind = "define"
	KindClass     Kind = "class"
	KindAssign    Kind = "assign"
	KindCall      Kind = "call"
	KindReturn    Kind = "return"
	KindCondition Kind = "condition"
	KindLoop      Kind = "loop"
)

// Kinds lists every step kind in classDef order.
var Kinds = []Kind{KindStart, KindImport, KindDefine, KindClass, KindAssign, KindCall, KindCondition, KindLoop, KindReturn}

// Caps bounds how many child statements of each construct become steps.
// Statements past a cap are dropped silently. Zero means unlimited.
type Caps struct {
	Module      int `mapstructure:"module" json:"module" yaml:"module"`
	Function    int `mapstructure:"function" json:"function" yaml:"function"`
	Class       int `mapstructure:"class" json:"class" yaml:"class"`
	Block       int `mapstructure:"block" json:"block" yaml:"block"`
	Handlers    int `mapstructure:"handlers" json:"handlers" yaml:"handlers"`
	HandlerBody int `mapstructure:"handler_body" json:"handler_body" yaml:"handler_body"`
}

// DefaultCaps returns the caps used when none are configured.
func DefaultCaps() Caps {
	return Caps{
		Module:      0,
		Function:    6,
		Class:       5,
		Block:       3,
		Handlers:    2,
		HandlerBody: 2,
	}
}

// Options controls a visualization.
type Options struct {
	// Caps defaults to DefaultCaps when left zero.
	Caps Caps
}

// Step is one diagram node.
type Step struct {
	ID     int    `json:"id" yaml:"id"`
	SID    string `json:"sid" yaml:"sid"`
	Kind   Kind   `json:"kind" yaml:"kind"`
	Label  string `json:"label" yaml:"label"`
	Detail string `json:"detail" yaml:"detail"`
	Line   int    `json:"line" yaml:"line"`
	// Parent is 0 for the root step.
	Parent int    `json:"parent,omitempty" yaml:"parent,omitempty"`
	Color  string `json:"color" yaml:"color"`
}

// Link connects a parent step to a child step.
type Link struct {
	From int `json:"from" yaml:"from"`
	To   int `json:"to" yaml:"to"`
}

// Result is the flow of one file.
type Result struct {
	File       string `json:"file" yaml:"file"`
	TotalSteps int    `json:"total_steps" yaml:"total_steps"`
	Steps      []Step `json:"steps" yaml:"steps"`
	Edges      []Link `json:"edges" yaml:"edges"`
	Mermaid    string `json:"mermaid" yaml:"mermaid"`
}

// Visualize reads filePath and builds its flow. A file that does not parse
// yields an error wrapping *python.SyntaxError.
func Visualize(filePath string, opts Options) (*Result, error) {
	f, err := source.Read(filePath, filepath.Dir(filePath))
	if err != nil {
		return nil, err
	}
	return Build(filePath, f.Content, opts)
}

// VisualizeInRoot visualizes rel, a path inside root. Paths resolving outside
// root are rejected with ErrPathTraversal.
func VisualizeInRoot(root, rel string, opts Options) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}
	full := filepath.Clean(filepath.Join(absRoot, filepath.FromSlash(rel)))
	if full != absRoot && !strings.HasPrefix(full, absRoot+string(filepath.Separator)) {
		return nil, fmt.Errorf("visualize %s: %w", rel, ErrPathTraversal)
	}

	f, err := source.Read(full, absRoot)
	if err != nil {
		return nil, err
	}
	return Build(f.Path, f.Content, opts)
}

// Build produces the flow of content. name is reported as Result.File and
// its base name labels the start step.
func Build(name string, content []byte, opts Options) (*Result, error) {
	caps := opts.Caps
	if caps == (Caps{}) {
		caps = DefaultCaps()
	}

	tree, err := python.Parse(context.Background(), content)
	if err != nil {
		var serr *python.SyntaxError
		if errors.As(err, &serr) {
			// A missing token at end of input reports the line after the last.
			src := &source.File{Path: name, Content: content}
			serr.Text, _ = src.Line(min(serr.Line, src.LineCount()))
		}
		return nil, fmt.Errorf("visualize %s: %w", name, err)
	}
	defer tree.Close()

	w := &walker{content: content, caps: caps}
	w.module(tree.RootNode(), path.Base(filepath.ToSlash(name)))

	links := []Link{}
	for _, s := range w.steps {
		if s.Parent != 0 {
			links = append(links, Link{From: s.Parent, To: s.ID})
		}
	}

	return &Result{
		File:       name,
		TotalSteps: len(w.steps),
		Steps:      w.steps,
		Edges:      links,
		Mermaid:    Mermaid(w.steps),
	}, nil
}
