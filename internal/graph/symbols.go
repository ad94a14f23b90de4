package graph

// SymbolIndex maps a function's simple name to the module that declares it.
//
// An index is built fresh for every scan. When several modules declare the
// same name, the most recently registered module owns it (last write wins).
// Scan order is lexicographic per directory, so the owner is deterministic
// but may be the wrong file; edges derived from a collided name can be false.
type SymbolIndex struct {
	owners map[string]string
}

// NewSymbolIndex returns an empty index.
func NewSymbolIndex() *SymbolIndex {
	return &SymbolIndex{owners: make(map[string]string)}
}

// Register records path as the owner of name, replacing any earlier owner.
func (s *SymbolIndex) Register(name, path string) {
	s.owners[name] = path
}

// RegisterModule registers every function declared in m.
func (s *SymbolIndex) RegisterModule(m *Module) {
	for _, fn := range m.Functions {
		s.Register(fn.Name, m.Path)
	}
}

// Lookup returns the module owning name.
func (s *SymbolIndex) Lookup(name string) (string, bool) {
	path, ok := s.owners[name]
	return path, ok
}

// Len returns the number of distinct names.
func (s *SymbolIndex) Len() int {
	return len(s.owners)
}
