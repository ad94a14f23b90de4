package graph

import "strings"

// Resolver turns recorded call sites into file-to-file edges.
type Resolver interface {
	Resolve(modules []*Module, symbols *SymbolIndex) []Edge
}

// NameResolver is a name-only heuristic with no scope or type awareness.
//
// The first dot-delimited segment of each call is looked up in the symbol
// index. Calls to builtins, third-party code and methods on instances are not
// in the index and produce no edge; calls resolving to the calling module
// produce no edge either. Two unrelated modules declaring the same helper
// yield false positives.
type NameResolver struct{}

// Resolve emits one edge per call whose base name is owned by another module.
func (NameResolver) Resolve(modules []*Module, symbols *SymbolIndex) []Edge {
	edges := []Edge{}
	for _, m := range modules {
		for _, call := range m.Calls {
			base, _, _ := strings.Cut(call, ".")
			target, ok := symbols.Lookup(base)
			if !ok || target == m.Path {
				continue
			}
			edges = append(edges, Edge{Source: m.Path, Target: target, Label: call})
		}
	}
	return edges
}
