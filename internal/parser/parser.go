// Package parser defines the contract between the project scanner and the
// language-specific structural extractors.
package parser

import "github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/graph"

// Language represents a supported programming language.
type Language string

const (
	LangPython Language = "python"
)

// FileExtensions maps each language to its recognized file extensions.
var FileExtensions = map[Language][]string{
	LangPython: {".py"},
}

// Parser extracts a structural record from one file.
type Parser interface {
	// Language returns which language this parser handles.
	Language() Language

	// Extensions returns the file extensions this parser can handle.
	Extensions() []string

	// ParseFile extracts declarations, imports and calls from content.
	// A syntax failure is not an error: it yields a module carrying the
	// error marker. The error return is reserved for failures of the
	// parser machinery itself.
	ParseFile(relPath string, content []byte) (*graph.Module, error)
}
