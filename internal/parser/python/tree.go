package python

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/source"
)

// SyntaxError reports the first ERROR or MISSING node of a parse tree, or
// the first construct that only Python 2 accepts.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
	// Text is the offending source line, when known.
	Text string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// Marker returns the error marker recorded on a module that failed to parse.
func (e *SyntaxError) Marker() string {
	return fmt.Sprintf("SyntaxError: could not parse (line %d)", e.Line)
}

// Parse builds a syntax tree for content. A tree containing error or missing
// nodes, or Python 2 only constructs the grammar still accepts, is released
// and reported as *SyntaxError. The caller owns the returned tree and must
// Close it.
func Parse(ctx context.Context, content []byte) (*sitter.Tree, error) {
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(python.GetLanguage())

	tree, err := p.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}
	root := tree.RootNode()
	if root.HasError() {
		serr := firstSyntaxError(root, content)
		tree.Close()
		return nil, serr
	}
	if serr := firstLegacySyntax(root, content); serr != nil {
		tree.Close()
		return nil, serr
	}
	return tree, nil
}

func firstSyntaxError(root *sitter.Node, content []byte) *SyntaxError {
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.IsMissing() {
			pt := n.StartPoint()
			return &SyntaxError{Line: int(pt.Row) + 1, Column: int(pt.Column), Msg: "missing " + n.Type()}
		}
		if n.IsError() {
			pt := n.StartPoint()
			msg := "invalid syntax"
			if text := n.Content(content); text != "" && len(text) <= 40 {
				msg = fmt.Sprintf("unexpected %q", text)
			}
			return &SyntaxError{Line: int(pt.Row) + 1, Column: int(pt.Column), Msg: msg}
		}
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			if c := n.Child(i); c != nil && (c.HasError() || c.IsMissing()) {
				stack = append(stack, c)
			}
		}
	}
	return &SyntaxError{Line: 1, Column: 0, Msg: "invalid syntax"}
}

func syntaxErrorAt(n *sitter.Node, msg string) *SyntaxError {
	pt := n.StartPoint()
	return &SyntaxError{Line: int(pt.Row) + 1, Column: int(pt.Column), Msg: msg}
}

// firstLegacySyntax finds, in document order, the first Python 2 construct:
// print and exec statements, backquotes, the <> operator, long integer
// suffixes and old-style octal literals.
func firstLegacySyntax(root *sitter.Node, content []byte) *SyntaxError {
	var (
		found   *SyntaxError
		prevEnd uint32
	)
	// Text between tokens that tree-sitter skipped must be blank.
	gap := func(n *sitter.Node) {
		if found == nil && n.StartByte() > prevEnd {
			if i := strings.IndexByte(string(content[prevEnd:n.StartByte()]), '`'); i >= 0 {
				found = backquoteError(content, int(prevEnd)+i)
			}
		}
		if n.EndByte() > prevEnd {
			prevEnd = n.EndByte()
		}
	}

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if found != nil {
			return
		}
		switch n.Type() {
		case "print_statement":
			found = syntaxErrorAt(n, "Missing parentheses in call to 'print'")
			return
		case "exec_statement":
			found = syntaxErrorAt(n, "Missing parentheses in call to 'exec'")
			return
		case "<>", "`":
			found = syntaxErrorAt(n, "invalid syntax")
			return
		case "integer":
			if msg := legacyInteger(Text(n, content)); msg != "" {
				found = syntaxErrorAt(n, msg)
				return
			}
		case "string", "comment":
			gap(n)
			return
		}
		if n.ChildCount() == 0 {
			gap(n)
			if found == nil && strings.Contains(Text(n, content), "`") {
				found = syntaxErrorAt(n, "invalid syntax")
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(root)

	if found == nil && int(prevEnd) < len(content) {
		if i := strings.IndexByte(string(content[prevEnd:]), '`'); i >= 0 {
			found = backquoteError(content, int(prevEnd)+i)
		}
	}
	return found
}

func backquoteError(content []byte, offset int) *SyntaxError {
	src := &source.File{Content: content}
	col := offset - (strings.LastIndexByte(string(content[:offset]), '\n') + 1)
	return &SyntaxError{Line: src.LineOf(offset), Column: col, Msg: "invalid syntax"}
}

// legacyInteger reports why an integer literal is Python 2 only, or "".
func legacyInteger(text string) string {
	lower := strings.ToLower(text)
	if strings.HasSuffix(lower, "j") {
		return ""
	}
	if strings.HasSuffix(lower, "l") {
		return "invalid decimal literal"
	}
	if len(lower) > 1 && lower[0] == '0' && lower[1] >= '0' && lower[1] <= '9' &&
		strings.Trim(strings.ReplaceAll(lower, "_", ""), "0") != "" {
		return "leading zeros in decimal integer literals are not permitted; use an 0o prefix for octal integers"
	}
	return ""
}

// Text returns the source text of node.
func Text(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	return node.Content(content)
}

// StartLine returns the 1-based first line of node.
func StartLine(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

// EndLine returns the 1-based line of the last token of node. Comments do
// not count, so a comment trailing a block does not extend it. A token whose
// end point sits at column zero ended on the previous line.
func EndLine(node *sitter.Node) int {
	last := lastToken(node)
	end := last.EndPoint()
	if end.Column == 0 && end.Row > last.StartPoint().Row {
		return int(end.Row)
	}
	return int(end.Row) + 1
}

// lastToken descends through the last non-comment child of each level.
// Strings are tokens; their inner parts are not descended into.
func lastToken(node *sitter.Node) *sitter.Node {
	for node.ChildCount() > 0 && node.Type() != "string" {
		var next *sitter.Node
		for i := int(node.ChildCount()) - 1; i >= 0; i-- {
			c := node.Child(i)
			if c == nil || c.Type() == "comment" || c.EndByte() == c.StartByte() {
				continue
			}
			next = c
			break
		}
		if next == nil {
			break
		}
		node = next
	}
	return node
}

// Statements returns the statements of a module or block. Comments are not
// statements.
func Statements(block *sitter.Node) []*sitter.Node {
	if block == nil {
		return nil
	}
	stmts := make([]*sitter.Node, 0, block.NamedChildCount())
	for i := 0; i < int(block.NamedChildCount()); i++ {
		child := block.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		stmts = append(stmts, child)
	}
	return stmts
}

// Unwrap returns the function or class definition inside a decorated
// definition, or node itself.
func Unwrap(node *sitter.Node) *sitter.Node {
	if node != nil && node.Type() == "decorated_definition" {
		if def := node.ChildByFieldName("definition"); def != nil {
			return def
		}
	}
	return node
}

// PositionalParams returns the names of ordinary positional parameters:
// those after a "/" marker and before "*", "*args" or "**kwargs".
func PositionalParams(params *sitter.Node, content []byte) []string {
	names := []string{}
	if params == nil {
		return names
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		switch child.Type() {
		case "identifier":
			names = append(names, Text(child, content))
		case "default_parameter", "typed_default_parameter":
			if n := child.ChildByFieldName("name"); n != nil {
				names = append(names, Text(n, content))
			}
		case "typed_parameter":
			inner := child.NamedChild(0)
			if inner == nil {
				continue
			}
			if inner.Type() != "identifier" {
				// *args: T or **kwargs: T
				return names
			}
			names = append(names, Text(inner, content))
		case "positional_separator":
			names = names[:0]
		case "keyword_separator", "list_splat_pattern", "dictionary_splat_pattern":
			return names
		}
	}
	return names
}
