// Package source reads project files as text and indexes their lines.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// ErrNotFound is returned when a path does not exist or has the wrong type.
var ErrNotFound = errors.New("not found")

// File is an immutable snapshot of one source file.
type File struct {
	// Path is relative to the project root, with forward slashes.
	Path string
	// Abs is the absolute path on disk.
	Abs string
	// Content is valid UTF-8; undecodable bytes were replaced with U+FFFD.
	Content []byte

	once   sync.Once
	starts []int
}

// Read loads path and identifies it relative to root.
func Read(path, root string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("file %s is a directory: %w", path, ErrNotFound)
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	return &File{
		Path:    Rel(abs, root),
		Abs:     abs,
		Content: Sanitize(raw),
	}, nil
}

// Rel returns path relative to root with forward slashes. If path cannot be
// expressed relative to root it is returned cleaned, with forward slashes.
func Rel(path, root string) string {
	if absRoot, err := filepath.Abs(root); err == nil {
		if absPath, err := filepath.Abs(path); err == nil {
			if rel, err := filepath.Rel(absRoot, absPath); err == nil {
				return filepath.ToSlash(rel)
			}
		}
	}
	return filepath.ToSlash(filepath.Clean(path))
}

// Sanitize replaces every invalid UTF-8 sequence with U+FFFD.
func Sanitize(raw []byte) []byte {
	if utf8.Valid(raw) {
		return raw
	}
	return []byte(strings.ToValidUTF8(string(raw), "�"))
}

// Text returns the content as a string.
func (f *File) Text() string {
	return string(f.Content)
}

func (f *File) index() {
	f.once.Do(func() {
		f.starts = []int{0}
		for i, b := range f.Content {
			if b == '\n' && i+1 < len(f.Content) {
				f.starts = append(f.starts, i+1)
			}
		}
	})
}

// LineCount returns the number of lines. An empty file has zero lines.
func (f *File) LineCount() int {
	if len(f.Content) == 0 {
		return 0
	}
	f.index()
	return len(f.starts)
}

// Line returns the 1-based line n without its terminator.
func (f *File) Line(n int) (string, bool) {
	if n < 1 || n > f.LineCount() {
		return "", false
	}
	start := f.starts[n-1]
	end := len(f.Content)
	if n < len(f.starts) {
		end = f.starts[n]
	}
	return strings.TrimRight(string(f.Content[start:end]), "\r\n"), true
}

// LineOf returns the 1-based line containing the byte offset.
func (f *File) LineOf(offset int) int {
	f.index()
	if offset < 0 {
		return 1
	}
	return sort.Search(len(f.starts), func(i int) bool { return f.starts[i] > offset })
}
