package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/graph"
)

func testProject() *graph.Project {
	a := graph.NewModule("a.py")
	a.Functions = []graph.Function{{Name: "helper"}}

	b := graph.NewModule("b.py")
	b.Functions = []graph.Function{{Name: "main"}}
	b.Calls = []string{"helper"}

	auth := graph.NewModule("services/auth.py")
	auth.Classes = []graph.Class{{Name: "TokenStore"}}
	auth.Functions = []graph.Function{{Name: "login"}, {Name: "login_helper"}}

	return graph.NewProject("/proj", []*graph.Module{a, b, auth},
		[]graph.Edge{{Source: "b.py", Target: "a.py", Label: "helper"}})
}

func paths(mods []*graph.Module) []string {
	out := []string{}
	for _, m := range mods {
		out = append(out, m.Path)
	}
	return out
}

func TestSearch(t *testing.T) {
	p := testProject()

	tests := []struct {
		name     string
		keywords []string
		want     []string
	}{
		{"declared name only", []string{"helper"}, []string{"a.py", "services/auth.py"}},
		{"case insensitive class", []string{"tokenstore"}, []string{"services/auth.py"}},
		{"path match", []string{"SERVICES"}, []string{"services/auth.py"}},
		{"once per module", []string{"login", "auth", "token"}, []string{"services/auth.py"}},
		{"graph order", []string{"auth", "main"}, []string{"b.py", "services/auth.py"}},
		{"no match", []string{"payment"}, []string{}},
		{"no keywords", nil, []string{}},
		{"empty keyword", []string{""}, []string{"a.py", "b.py", "services/auth.py"}},
		{"empty among others", []string{"payment", ""}, []string{"a.py", "b.py", "services/auth.py"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paths(Search(p, tt.keywords)))
		})
	}
}

func TestSearchNilProject(t *testing.T) {
	assert.Empty(t, Search(nil, []string{"x"}))
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		question string
		want     []string
	}{
		{"How does the login flow work?", []string{"login", "flow"}},
		{"What is TokenStore.save_token doing", []string{"tokenstore", "save_token", "doing"}},
		{"how is it", []string{"how", "is", "it"}},
		{"", []string{}},
		{"42 ??", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, Keywords(tt.question))
		})
	}
}
