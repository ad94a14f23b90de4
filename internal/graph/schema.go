package graph

// Method describes a function declared anywhere inside a class body.
type Method struct {
	Name      string   `json:"name" yaml:"name"`
	StartLine int      `json:"start_line" yaml:"start_line"`
	EndLine   int      `json:"end_line" yaml:"end_line"`
	Args      []string `json:"args" yaml:"args"`
	Docstring string   `json:"docstring" yaml:"docstring"`
}

// Function describes a function declaration at any nesting depth.
// Name is the simple name, never qualified by the enclosing scope.
type Function struct {
	Name       string   `json:"name" yaml:"name"`
	StartLine  int      `json:"start_line" yaml:"start_line"`
	EndLine    int      `json:"end_line" yaml:"end_line"`
	Args       []string `json:"args" yaml:"args"`
	Decorators []string `json:"decorators" yaml:"decorators"`
	Docstring  string   `json:"docstring" yaml:"docstring"`
}

// Class describes a class declaration together with every function found in
// its subtree, including those of nested classes and closures.
type Class struct {
	Name      string   `json:"name" yaml:"name"`
	StartLine int      `json:"start_line" yaml:"start_line"`
	EndLine   int      `json:"end_line" yaml:"end_line"`
	Methods   []Method `json:"methods" yaml:"methods"`
	Docstring string   `json:"docstring" yaml:"docstring"`
}

// Module is the structural record of one source file. A module either parsed
// fully or carries Error with all other collections empty.
type Module struct {
	// Path is relative to the project root, with forward slashes.
	Path      string     `json:"module" yaml:"module"`
	Functions []Function `json:"functions" yaml:"functions"`
	Classes   []Class    `json:"classes" yaml:"classes"`
	// Imports holds distinct module names in first-seen order.
	Imports []string `json:"imports" yaml:"imports"`
	// Calls holds distinct dotted call names in first-seen order.
	Calls []string `json:"calls" yaml:"calls"`
	Error string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewModule returns a module with non-nil, empty collections.
func NewModule(path string) *Module {
	return &Module{
		Path:      path,
		Functions: []Function{},
		Classes:   []Class{},
		Imports:   []string{},
		Calls:     []string{},
	}
}

// NewErrorModule returns an empty module flagged with the given error marker.
func NewErrorModule(path, marker string) *Module {
	m := NewModule(path)
	m.Error = marker
	return m
}

// Failed reports whether the module carries an error marker.
func (m *Module) Failed() bool {
	return m.Error != ""
}

// Edge is a file-to-file call relationship. Label is the original dotted
// call string.
type Edge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Label  string `json:"label" yaml:"label"`
}

// Stats holds aggregate counts for a project.
type Stats struct {
	TotalModules   int `json:"total_modules" yaml:"total_modules"`
	TotalFunctions int `json:"total_functions" yaml:"total_functions"`
	TotalClasses   int `json:"total_classes" yaml:"total_classes"`
	TotalEdges     int `json:"total_edges" yaml:"total_edges"`
	ParseErrors    int `json:"parse_errors" yaml:"parse_errors"`
}

// ComputeStats counts modules, declarations, edges and failed modules.
func ComputeStats(modules []*Module, edges []Edge) Stats {
	s := Stats{TotalModules: len(modules), TotalEdges: len(edges)}
	for _, m := range modules {
		s.TotalFunctions += len(m.Functions)
		s.TotalClasses += len(m.Classes)
		if m.Failed() {
			s.ParseErrors++
		}
	}
	return s
}
