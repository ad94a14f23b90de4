package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/graph"
	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/source"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func modulePaths(p *graph.Project) []string {
	paths := make([]string, 0, len(p.Modules))
	for _, m := range p.Modules {
		paths = append(paths, m.Path)
	}
	return paths
}

func TestAnalyzeCallerScenario(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.py": "def helper(): pass\n",
		"b.py": "import a\n\ndef main():\n    helper()\n",
	})

	project, err := Analyze(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.py", "b.py"}, modulePaths(project))

	b := project.Modules[1]
	require.Len(t, b.Functions, 1)
	assert.Equal(t, "main", b.Functions[0].Name)
	assert.Equal(t, []string{"a"}, b.Imports)
	assert.Equal(t, []string{"helper"}, b.Calls)

	assert.Equal(t, []graph.Edge{{Source: "b.py", Target: "a.py", Label: "helper"}}, project.Edges)
	assert.Equal(t, graph.Stats{TotalModules: 2, TotalFunctions: 2, TotalEdges: 1}, project.Stats)
	assert.Equal(t, filepath.ToSlash(root), project.Root)
}

func TestAnalyzeIsolatesSyntaxErrors(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"bad.py":      "def broken(:\n    pass\n",
		"good_one.py": "def one():\n    return 1\n",
		"good_two.py": "class Two:\n    def two(self):\n        one()\n",
	})

	project, err := Analyze(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, project.Modules, 3)

	bad, ok := project.Module("bad.py")
	require.True(t, ok)
	assert.True(t, bad.Failed())
	assert.Contains(t, bad.Error, "SyntaxError")
	assert.Empty(t, bad.Functions)
	assert.Empty(t, bad.Classes)
	assert.Empty(t, bad.Imports)
	assert.Empty(t, bad.Calls)

	for _, name := range []string{"good_one.py", "good_two.py"} {
		m, ok := project.Module(name)
		require.True(t, ok)
		assert.False(t, m.Failed(), name)
	}
	assert.Equal(t, 1, project.Stats.ParseErrors)
	assert.Equal(t, []graph.Edge{{Source: "good_two.py", Target: "good_one.py", Label: "one"}}, project.Edges)
}

func TestAnalyzeLastScannedOwnerWins(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a_first.py":  "def f():\n    pass\n",
		"b_second.py": "def f():\n    pass\n",
		"c_caller.py": "def run():\n    f()\n",
	})

	project, err := Analyze(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []graph.Edge{{Source: "c_caller.py", Target: "b_second.py", Label: "f"}}, project.Edges)
	for _, e := range project.Edges {
		assert.NotEqual(t, e.Source, e.Target)
	}
}

func TestAnalyzeTraversalOrderAndSkips(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"z.py":                     "",
		"a.py":                     "",
		"README.md":                "# not source",
		"pkg/mod.py":               "",
		"pkg/sub/deep.py":          "",
		"aaa/first.py":             "",
		".hidden/secret.py":        "",
		".dot.py":                  "",
		"__pycache__/cached.py":    "",
		"venv/lib/site.py":         "",
		"node_modules/pkg/x.py":    "",
		"pkg/__pycache__/cache.py": "",
		"upper/MOD.PY":             "",
	})

	project, err := Analyze(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.py", "z.py", "aaa/first.py", "pkg/mod.py", "pkg/sub/deep.py"}, modulePaths(project))
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"svc/api.py":   "from svc import db\n\ndef handle():\n    db.query()\n    fetch()\n",
		"svc/db.py":    "def query():\n    pass\n\ndef fetch():\n    pass\n",
		"tools/cli.py": "def main():\n    handle()\n    query()\n",
	})

	first, err := Analyze(context.Background(), root)
	require.NoError(t, err)
	second, err := Analyze(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first.Edges, 3)

	serial, err := New(Config{Workers: 1}).Analyze(context.Background(), root)
	require.NoError(t, err)
	wide, err := New(Config{Workers: 16}).Analyze(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, first, serial)
	assert.Equal(t, serial, wide)
}

func TestAnalyzeCustomSkipDirs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"build/gen.py": "",
		"venv/ok.py":   "",
	})

	s := New(Config{SkipDirs: []string{"build"}})
	project, err := s.Analyze(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"venv/ok.py"}, modulePaths(project))
}

func TestAnalyzeRootErrors(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"file.py": ""})

	_, err := Analyze(context.Background(), filepath.Join(root, "missing"))
	assert.ErrorIs(t, err, ErrNotDirectory)
	assert.ErrorIs(t, err, source.ErrNotFound)

	_, err = Analyze(context.Background(), filepath.Join(root, "file.py"))
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestAnalyzeCancelled(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.py": ""})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Analyze(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"ok.py":          "",
		"locked/mine.py": "",
	})
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	project, err := Analyze(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok.py"}, modulePaths(project))
}

func TestAnalyzeFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"pkg/util.py": "@cache\ndef load(path, mode='r'):\n    \"\"\"Load it.\"\"\"\n    return open(path, mode)\n",
	})

	mod, err := AnalyzeFile(filepath.Join(root, "pkg", "util.py"), root)
	require.NoError(t, err)
	assert.Equal(t, "pkg/util.py", mod.Path)
	require.Len(t, mod.Functions, 1)

	fn := mod.Functions[0]
	assert.Equal(t, "load", fn.Name)
	assert.Equal(t, []string{"path", "mode"}, fn.Args)
	assert.Equal(t, []string{"cache"}, fn.Decorators)
	assert.Equal(t, "Load it.", fn.Docstring)
	assert.Equal(t, 2, fn.StartLine)
	assert.Equal(t, 4, fn.EndLine)
	assert.Equal(t, []string{"open"}, mod.Calls)

	_, err = AnalyzeFile(filepath.Join(root, "pkg", "nope.py"), root)
	assert.ErrorIs(t, err, source.ErrNotFound)
}

func TestSkipped(t *testing.T) {
	s := New(Config{})
	for _, name := range []string{".git", ".venv", "__pycache__", "venv", "node_modules"} {
		assert.True(t, s.Skipped(name), name)
	}
	for _, name := range []string{"src", "tests", "venv2"} {
		assert.False(t, s.Skipped(name), name)
	}
	assert.True(t, s.Eligible("x.py"))
	assert.False(t, s.Eligible("x.pyc"))
}
