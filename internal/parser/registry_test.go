package parser

import (
	"reflect"
	"testing"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/graph"
)

type stubParser struct {
	lang Language
	exts []string
}

func (s stubParser) Language() Language   { return s.lang }
func (s stubParser) Extensions() []string { return s.exts }
func (s stubParser) ParseFile(relPath string, content []byte) (*graph.Module, error) {
	return graph.NewModule(relPath), nil
}

func TestRegistryForFile(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(stubParser{lang: LangPython, exts: FileExtensions[LangPython]})

	tests := []struct {
		name string
		want bool
	}{
		{"main.py", true},
		{"pkg/mod.py", true},
		{"MOD.PY", false},
		{"notes.txt", false},
		{"py", false},
		{".py", true},
	}
	for _, tt := range tests {
		if _, ok := r.ForFile(tt.name); ok != tt.want {
			t.Errorf("ForFile(%q) = %v, want %v", tt.name, ok, tt.want)
		}
	}
}

func TestRegistryConflicts(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(stubParser{lang: LangPython, exts: []string{".py", ".pyi"}}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(stubParser{lang: "cython", exts: []string{".pyx", ".py"}}); err == nil {
		t.Error("expected conflict for .py")
	}
	// A rejected registration claims nothing.
	if _, ok := r.ForFile("fast.pyx"); ok {
		t.Error(".pyx registered despite conflict")
	}
	if err := r.Register(stubParser{lang: LangPython, exts: []string{".py"}}); err != nil {
		t.Errorf("re-register same language: %v", err)
	}
	if got, want := r.Extensions(), []string{".py", ".pyi"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Extensions() = %v, want %v", got, want)
	}
}
