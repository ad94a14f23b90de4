package recent

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, limit int) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), limit)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func projectDirs(t *testing.T, n int) []string {
	t.Helper()
	base := t.TempDir()
	dirs := make([]string, n)
	for i := range dirs {
		dirs[i] = filepath.Join(base, string(rune('a'+i)))
		require.NoError(t, os.Mkdir(dirs[i], 0o755))
	}
	return dirs
}

func paths(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Path)
	}
	return out
}

func TestAddMostRecentFirst(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()
	dirs := projectDirs(t, 3)

	for _, d := range dirs {
		require.NoError(t, s.Add(ctx, d))
	}
	require.NoError(t, s.Add(ctx, dirs[0]))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.ToSlash(dirs[0]),
		filepath.ToSlash(dirs[2]),
		filepath.ToSlash(dirs[1]),
	}, paths(entries))
	assert.False(t, entries[0].OpenedAt.IsZero())
}

func TestAddCapsEntries(t *testing.T) {
	s := newTestStore(t, 3)
	ctx := context.Background()
	dirs := projectDirs(t, 5)

	for _, d := range dirs {
		require.NoError(t, s.Add(ctx, d))
	}

	entries, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.ToSlash(dirs[4]),
		filepath.ToSlash(dirs[3]),
		filepath.ToSlash(dirs[2]),
	}, paths(entries))
}

func TestListSkipsMissingDirectories(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()
	dirs := projectDirs(t, 2)

	require.NoError(t, s.Add(ctx, dirs[0]))
	require.NoError(t, s.Add(ctx, dirs[1]))
	require.NoError(t, os.Remove(dirs[1]))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.ToSlash(dirs[0])}, paths(entries))

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRemoveAndClear(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()
	dirs := projectDirs(t, 3)
	for _, d := range dirs {
		require.NoError(t, s.Add(ctx, d))
	}

	require.NoError(t, s.Remove(ctx, dirs[1]))
	entries, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.ToSlash(dirs[2]), filepath.ToSlash(dirs[0])}, paths(entries))

	require.NoError(t, s.Clear(ctx))
	entries, err = s.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dbPath := t.TempDir()
	ctx := context.Background()
	dirs := projectDirs(t, 2)

	s, err := Open(dbPath, 10)
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx, dirs[0]))
	require.NoError(t, s.Add(ctx, dirs[1]))
	require.NoError(t, s.Close())

	s, err = Open(dbPath, 10)
	require.NoError(t, err)
	defer s.Close()

	// The sequence survives, so a new add still sorts first.
	require.NoError(t, s.Add(ctx, dirs[0]))
	entries, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.ToSlash(dirs[0]), filepath.ToSlash(dirs[1])}, paths(entries))
}

func TestInMemoryAndNormalize(t *testing.T) {
	s, err := OpenInMemory(0)
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	dir := t.TempDir()
	require.NoError(t, s.Add(ctx, dir+string(filepath.Separator)+"."))
	entries, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.ToSlash(dir), entries[0].Path)
	assert.Equal(t, Normalize(dir), entries[0].Path)
}

func TestCancelledContext(t *testing.T) {
	s := newTestStore(t, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Add(ctx, t.TempDir()), context.Canceled)
	_, err := s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
