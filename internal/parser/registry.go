package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
)

// Registry routes file names to the parser for their extension. Lookups are
// safe for concurrent use by scanner workers.
type Registry struct {
	mu    sync.RWMutex
	byExt map[string]Parser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Parser)}
}

// Register claims every extension of p. Claiming an extension already held
// by a parser for a different language is an error; re-registering the same
// language replaces the previous parser.
func (r *Registry) Register(p Parser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range p.Extensions() {
		if prev, ok := r.byExt[ext]; ok && prev.Language() != p.Language() {
			return fmt.Errorf("extension %s already handled by %s", ext, prev.Language())
		}
	}
	for _, ext := range p.Extensions() {
		r.byExt[ext] = p
	}
	return nil
}

// MustRegister is Register for built-in parsers, which never conflict.
func (r *Registry) MustRegister(p Parser) {
	if err := r.Register(p); err != nil {
		panic(err)
	}
}

// ForFile returns the parser responsible for the file name, if any.
// Matching is case-sensitive: "MOD.PY" is not a source file.
func (r *Registry) ForFile(name string) (Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byExt[filepath.Ext(name)]
	return p, ok
}

// Extensions returns every claimed extension, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
