// Package python extracts structural records from Python source files using
// tree-sitter.
package python

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/graph"
	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/parser"
)

// PythonParser extracts module records from Python source files.
type PythonParser struct{}

// NewParser creates a new Python parser.
func NewParser() *PythonParser {
	return &PythonParser{}
}

func (p *PythonParser) Language() parser.Language {
	return parser.LangPython
}

func (p *PythonParser) Extensions() []string {
	return parser.FileExtensions[parser.LangPython]
}

// ParseFile extracts functions, classes, imports and calls. Malformed source
// yields an empty module carrying the syntax error marker.
func (p *PythonParser) ParseFile(relPath string, content []byte) (*graph.Module, error) {
	tree, err := Parse(context.Background(), content)
	if err != nil {
		var serr *SyntaxError
		if errors.As(err, &serr) {
			return graph.NewErrorModule(relPath, serr.Marker()), nil
		}
		return nil, fmt.Errorf("parsing %s: %w", relPath, err)
	}
	defer tree.Close()

	e := &extractor{
		content: content,
		module:  graph.NewModule(relPath),
		imports: make(map[string]struct{}),
		calls:   make(map[string]struct{}),
	}
	e.walk(tree.RootNode())
	return e.module, nil
}

// extractor walks a tree-sitter Python tree and fills a module record.
type extractor struct {
	content []byte
	module  *graph.Module
	imports map[string]struct{}
	calls   map[string]struct{}
}

// walk visits every node in document order.
func (e *extractor) walk(root *sitter.Node) {
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch node.Type() {
		case "function_definition":
			e.extractFunction(node)
		case "class_definition":
			e.extractClass(node)
		case "import_statement":
			e.extractImport(node)
		case "import_from_statement":
			e.extractFromImport(node)
		case "future_import_statement":
			e.addImport("__future__")
		case "call":
			if name := e.callName(node.ChildByFieldName("function")); name != "" {
				e.addCall(name)
			}
		}

		for i := int(node.NamedChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, node.NamedChild(i))
		}
	}
}

func (e *extractor) extractFunction(node *sitter.Node) {
	name := e.nodeText(node.ChildByFieldName("name"))
	if name == "" {
		return
	}

	decorators := []string{}
	if parent := node.Parent(); parent != nil && parent.Type() == "decorated_definition" {
		for i := 0; i < int(parent.NamedChildCount()); i++ {
			child := parent.NamedChild(i)
			if child.Type() == "decorator" {
				decorators = append(decorators, e.extractDecoratorName(child))
			}
		}
	}

	e.module.Functions = append(e.module.Functions, graph.Function{
		Name:       name,
		StartLine:  StartLine(node),
		EndLine:    EndLine(node),
		Args:       PositionalParams(node.ChildByFieldName("parameters"), e.content),
		Decorators: decorators,
		Docstring:  e.extractDocstring(node.ChildByFieldName("body")),
	})
}

func (e *extractor) extractClass(node *sitter.Node) {
	name := e.nodeText(node.ChildByFieldName("name"))
	if name == "" {
		return
	}

	methods := []graph.Method{}
	for _, fn := range e.classFunctions(node) {
		fnName := e.nodeText(fn.ChildByFieldName("name"))
		if fnName == "" {
			continue
		}
		methods = append(methods, graph.Method{
			Name:      fnName,
			StartLine: StartLine(fn),
			EndLine:   EndLine(fn),
			Args:      PositionalParams(fn.ChildByFieldName("parameters"), e.content),
			Docstring: e.extractDocstring(fn.ChildByFieldName("body")),
		})
	}

	e.module.Classes = append(e.module.Classes, graph.Class{
		Name:      name,
		StartLine: StartLine(node),
		EndLine:   EndLine(node),
		Methods:   methods,
		Docstring: e.extractDocstring(node.ChildByFieldName("body")),
	})
}

// transparent nodes group statements without adding a statement level.
var transparent = map[string]bool{
	"block":                true,
	"decorated_definition": true,
	"else_clause":          true,
	"finally_clause":       true,
}

// classFunctions returns every function definition in the class subtree,
// breadth first by statement depth. Functions of nested classes and nested
// functions are included.
func (e *extractor) classFunctions(class *sitter.Node) []*sitter.Node {
	var found []*sitter.Node
	var expand func(n *sitter.Node, next []*sitter.Node) []*sitter.Node
	expand = func(n *sitter.Node, next []*sitter.Node) []*sitter.Node {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if transparent[child.Type()] {
				next = expand(child, next)
				continue
			}
			next = append(next, child)
		}
		return next
	}

	level := expand(class, nil)
	for len(level) > 0 {
		var next []*sitter.Node
		for _, n := range level {
			if n.Type() == "function_definition" {
				found = append(found, n)
			}
			next = expand(n, next)
		}
		level = next
	}
	return found
}

func (e *extractor) extractImport(node *sitter.Node) {
	// import X, Y.Z as W
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			e.addImport(e.dottedName(child))
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				e.addImport(e.dottedName(name))
			}
		}
	}
}

func (e *extractor) extractFromImport(node *sitter.Node) {
	// from X import Y, Z; the imported names are discarded.
	mod := node.ChildByFieldName("module_name")
	if mod == nil {
		return
	}
	var name string
	switch mod.Type() {
	case "dotted_name":
		name = e.dottedName(mod)
	case "relative_import":
		for i := 0; i < int(mod.NamedChildCount()); i++ {
			if child := mod.NamedChild(i); child.Type() == "dotted_name" {
				name = e.dottedName(child)
			}
		}
	}
	if name != "" {
		e.addImport(name)
	}
}

func (e *extractor) addImport(name string) {
	if _, ok := e.imports[name]; ok {
		return
	}
	e.imports[name] = struct{}{}
	e.module.Imports = append(e.module.Imports, name)
}

func (e *extractor) addCall(name string) {
	if _, ok := e.calls[name]; ok {
		return
	}
	e.calls[name] = struct{}{}
	e.module.Calls = append(e.module.Calls, name)
}

// callName reconstructs a dotted name from a callee. Attribute chains are
// read right to left; the root identifier is prefixed when there is one, so
// `"".join` records "join". Other callee shapes yield "".
func (e *extractor) callName(fn *sitter.Node) string {
	fn = unparen(fn)
	if fn == nil {
		return ""
	}
	switch fn.Type() {
	case "identifier":
		return e.nodeText(fn)
	case "attribute":
		var parts []string
		cur := fn
		for cur != nil && cur.Type() == "attribute" {
			parts = append(parts, e.nodeText(cur.ChildByFieldName("attribute")))
			cur = unparen(cur.ChildByFieldName("object"))
		}
		if cur != nil && cur.Type() == "identifier" {
			parts = append(parts, e.nodeText(cur))
		}
		for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
			parts[i], parts[j] = parts[j], parts[i]
		}
		return strings.Join(parts, ".")
	}
	return ""
}

// extractDecoratorName resolves a decorator to a simple name. Calls resolve
// to the name of the called thing, attributes to their last segment.
func (e *extractor) extractDecoratorName(node *sitter.Node) string {
	if node.NamedChildCount() == 0 {
		return ""
	}
	return e.decoratorExprName(node.NamedChild(0))
}

func (e *extractor) decoratorExprName(expr *sitter.Node) string {
	expr = unparen(expr)
	if expr == nil {
		return ""
	}
	switch expr.Type() {
	case "identifier":
		return e.nodeText(expr)
	case "attribute":
		return e.nodeText(expr.ChildByFieldName("attribute"))
	case "dotted_name":
		if n := expr.NamedChildCount(); n > 0 {
			return e.nodeText(expr.NamedChild(int(n) - 1))
		}
	case "call":
		return e.decoratorExprName(expr.ChildByFieldName("function"))
	}
	return ""
}

// extractDocstring returns the cleaned docstring of a body, or "".
func (e *extractor) extractDocstring(body *sitter.Node) string {
	return Docstring(body, e.content)
}

// Docstring returns the cleaned docstring of a module or block: its first
// statement, when that statement is a lone plain string literal.
func Docstring(body *sitter.Node, content []byte) string {
	stmts := Statements(body)
	if len(stmts) == 0 {
		return ""
	}
	first := stmts[0]
	if first.Type() != "expression_statement" || first.NamedChildCount() != 1 {
		return ""
	}
	value, ok := StringValue(first.NamedChild(0), content)
	if !ok {
		return ""
	}
	return Cleandoc(value)
}

func (e *extractor) dottedName(node *sitter.Node) string {
	if node.Type() != "dotted_name" {
		return e.nodeText(node)
	}
	parts := make([]string, 0, node.NamedChildCount())
	for i := 0; i < int(node.NamedChildCount()); i++ {
		parts = append(parts, e.nodeText(node.NamedChild(i)))
	}
	return strings.Join(parts, ".")
}

func (e *extractor) nodeText(node *sitter.Node) string {
	return Text(node, e.content)
}

// unparen strips redundant parentheses around an expression.
func unparen(node *sitter.Node) *sitter.Node {
	for node != nil && node.Type() == "parenthesized_expression" && node.NamedChildCount() == 1 {
		node = node.NamedChild(0)
	}
	return node
}
