package graph

import "sort"

// Project is the cross-file dependency graph of one directory tree.
type Project struct {
	// Root is the absolute root path with forward slashes.
	Root string `json:"root" yaml:"root"`
	// Modules are in file-system traversal order.
	Modules []*Module `json:"modules" yaml:"modules"`
	Edges   []Edge    `json:"edges" yaml:"edges"`
	Stats   Stats     `json:"stats" yaml:"stats"`
}

// NewProject assembles a project and computes its stats.
func NewProject(root string, modules []*Module, edges []Edge) *Project {
	if modules == nil {
		modules = []*Module{}
	}
	if edges == nil {
		edges = []Edge{}
	}
	return &Project{
		Root:    root,
		Modules: modules,
		Edges:   edges,
		Stats:   ComputeStats(modules, edges),
	}
}

// Module returns the module with the given root-relative path.
func (p *Project) Module(path string) (*Module, bool) {
	for _, m := range p.Modules {
		if m.Path == path {
			return m, true
		}
	}
	return nil, false
}

// Callers returns the distinct modules with an edge into path, sorted.
func (p *Project) Callers(path string) []string {
	return p.neighbors(path, Incoming)
}

// Callees returns the distinct modules path has an edge into, sorted.
func (p *Project) Callees(path string) []string {
	return p.neighbors(path, Outgoing)
}

// Direction specifies the traversal direction for edge queries.
type Direction int

const (
	Outgoing Direction = iota
	Incoming
)

func (p *Project) neighbors(path string, dir Direction) []string {
	seen := make(map[string]struct{})
	for _, e := range p.Edges {
		switch {
		case dir == Outgoing && e.Source == path:
			seen[e.Target] = struct{}{}
		case dir == Incoming && e.Target == path:
			seen[e.Source] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
