package flow

import (
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/parser/python"
)

const (
	colorStart     = "#58a6ff"
	colorImport    = "#39d2c0"
	colorDefine    = "#bc8cff"
	colorClass     = "#d29922"
	colorAssign    = "#8b949e"
	colorCall      = "#3fb950"
	colorCondition = "#d29922"
	colorExcept    = "#f85149"
	colorLoop      = "#f778ba"
	colorReturn    = "#f85149"
	colorWith      = "#39d2c0"
)

// stmtKind is the closed set of statement shapes the walker understands.
type stmtKind int

const (
	stmtOther stmtKind = iota
	stmtImport
	stmtImportFrom
	stmtFunction
	stmtClass
	stmtAssign
	stmtCall
	stmtReturn
	stmtIf
	stmtFor
	stmtWhile
	stmtTry
	stmtWith
)

// classify maps a statement node to its kind and the node carrying its
// fields (decorators and expression wrappers are stripped).
func classify(n *sitter.Node) (stmtKind, *sitter.Node) {
	n = python.Unwrap(n)
	switch n.Type() {
	case "import_statement":
		return stmtImport, n
	case "import_from_statement", "future_import_statement":
		return stmtImportFrom, n
	case "function_definition":
		return stmtFunction, n
	case "class_definition":
		return stmtClass, n
	case "expression_statement":
		if n.NamedChildCount() != 1 {
			return stmtOther, n
		}
		switch inner := n.NamedChild(0); inner.Type() {
		case "assignment":
			if inner.ChildByFieldName("type") != nil {
				return stmtOther, n
			}
			return stmtAssign, inner
		case "call":
			return stmtCall, inner
		}
	case "return_statement":
		return stmtReturn, n
	case "if_statement":
		return stmtIf, n
	case "for_statement":
		return stmtFor, n
	case "while_statement":
		return stmtWhile, n
	case "try_statement":
		return stmtTry, n
	case "with_statement":
		return stmtWith, n
	}
	return stmtOther, n
}

// frame is the walk accumulator: the step new children attach to and how
// many child statements it may still take.
type frame struct {
	parent int
	limit  int
}

type walker struct {
	content []byte
	caps    Caps
	steps   []Step
}

func (w *walker) add(kind Kind, label, detail string, line, parent int, color string) int {
	id := len(w.steps) + 1
	w.steps = append(w.steps, Step{
		ID:     id,
		SID:    "n" + strconv.Itoa(id),
		Kind:   kind,
		Label:  label,
		Detail: detail,
		Line:   line,
		Parent: parent,
		Color:  color,
	})
	return id
}

func (w *walker) module(root *sitter.Node, name string) {
	id := w.add(KindStart, name, "Module entry", 1, 0, colorStart)
	w.block(python.Statements(root), frame{parent: id, limit: w.caps.Module})
}

// block visits at most f.limit statements under f.parent.
func (w *walker) block(stmts []*sitter.Node, f frame) {
	if f.limit > 0 && len(stmts) > f.limit {
		stmts = stmts[:f.limit]
	}
	for _, s := range stmts {
		w.stmt(s, f.parent)
	}
}

func (w *walker) stmt(node *sitter.Node, parent int) {
	kind, n := classify(node)
	line := python.StartLine(n)

	switch kind {
	case stmtImport:
		w.add(KindImport, "import "+strings.Join(w.importNames(n, nil), ", "), "", line, parent, colorImport)

	case stmtImportFrom:
		mod := "__future__"
		if n.Type() == "import_from_statement" {
			mod = w.fromModule(n.ChildByFieldName("module_name"))
		}
		names := w.importNames(n, n.ChildByFieldName("module_name"))
		w.add(KindImport, fmt.Sprintf("from %s import %s", mod, strings.Join(names, ", ")), "", line, parent, colorImport)

	case stmtFunction:
		args := python.PositionalParams(n.ChildByFieldName("parameters"), w.content)
		body := python.Statements(n.ChildByFieldName("body"))
		label := fmt.Sprintf("def %s(%s)", w.text(n.ChildByFieldName("name")), strings.Join(first(args, 4), ", "))
		id := w.add(KindDefine, label, fmt.Sprintf("%d stmts", len(body)), line, parent, colorDefine)
		w.block(body, frame{parent: id, limit: w.caps.Function})

	case stmtClass:
		label := "class " + w.text(n.ChildByFieldName("name"))
		if bases := w.classBases(n.ChildByFieldName("superclasses")); len(bases) > 0 {
			label += "(" + strings.Join(bases, ", ") + ")"
		}
		body := python.Statements(n.ChildByFieldName("body"))
		id := w.add(KindClass, label, fmt.Sprintf("%d members", len(body)), line, parent, colorClass)
		w.block(body, frame{parent: id, limit: w.caps.Class})

	case stmtAssign:
		w.add(KindAssign, w.assignLabel(n), "", line, parent, colorAssign)

	case stmtCall:
		w.add(KindCall, w.calleeName(n)+"(...)", "function call", line, parent, colorCall)

	case stmtReturn:
		label := "return"
		if n.NamedChildCount() > 0 {
			value := unparen(n.NamedChild(0))
			if repr, ok := python.LiteralRepr(value, w.content); ok {
				label += " " + truncate(repr, 20)
			} else {
				label += " ..."
			}
		}
		w.add(KindReturn, label, "", line, parent, colorReturn)

	case stmtIf:
		w.ifChain(n.ChildByFieldName("condition"), n.ChildByFieldName("consequence"), alternatives(n), line, parent)

	case stmtFor:
		target := "?"
		if left := n.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
			target = w.text(left)
		}
		iter := "..."
		if right := unparen(n.ChildByFieldName("right")); right != nil && right.Type() == "identifier" {
			iter = w.text(right)
		}
		id := w.add(KindLoop, fmt.Sprintf("for %s in %s", target, iter), "", line, parent, colorLoop)
		w.block(python.Statements(n.ChildByFieldName("body")), frame{parent: id, limit: w.caps.Block})

	case stmtWhile:
		id := w.add(KindLoop, "while loop", "", line, parent, colorLoop)
		w.block(python.Statements(n.ChildByFieldName("body")), frame{parent: id, limit: w.caps.Block})

	case stmtTry:
		id := w.add(KindCondition, "try", "", line, parent, colorCondition)
		w.block(python.Statements(n.ChildByFieldName("body")), frame{parent: id, limit: w.caps.Block})
		handlers := childrenOfType(n, "except_clause")
		for _, h := range first(handlers, w.caps.Handlers) {
			hid := w.add(KindCondition, "except "+w.exceptName(h), "", python.StartLine(h), id, colorExcept)
			w.block(python.Statements(blockOf(h)), frame{parent: hid, limit: w.caps.HandlerBody})
		}

	case stmtWith:
		id := w.add(KindCall, "with ...", "context manager", line, parent, colorWith)
		w.block(python.Statements(n.ChildByFieldName("body")), frame{parent: id, limit: w.caps.Block})

	case stmtOther:
	}
}

// ifChain emits an if step and, when there is an alternative branch, an
// else step beneath it. An elif becomes an else step holding a nested if.
func (w *walker) ifChain(cond, consequence *sitter.Node, alts []*sitter.Node, line, parent int) {
	id := w.add(KindCondition, "if "+w.testLabel(cond), "", line, parent, colorCondition)
	w.block(python.Statements(consequence), frame{parent: id, limit: w.caps.Block})

	if len(alts) == 0 {
		return
	}
	alt := alts[0]
	switch alt.Type() {
	case "elif_clause":
		elseID := w.add(KindCondition, "else", "", python.StartLine(alt), id, colorCondition)
		w.ifChain(alt.ChildByFieldName("condition"), alt.ChildByFieldName("consequence"), alts[1:], python.StartLine(alt), elseID)
	case "else_clause":
		body := python.Statements(alt.ChildByFieldName("body"))
		elseLine := python.StartLine(alt)
		if len(body) > 0 {
			elseLine = python.StartLine(python.Unwrap(body[0]))
		}
		elseID := w.add(KindCondition, "else", "", elseLine, id, colorCondition)
		w.block(body, frame{parent: elseID, limit: w.caps.Block})
	}
}

func alternatives(ifStmt *sitter.Node) []*sitter.Node {
	var alts []*sitter.Node
	for i := 0; i < int(ifStmt.NamedChildCount()); i++ {
		c := ifStmt.NamedChild(i)
		if c.Type() == "elif_clause" || c.Type() == "else_clause" {
			alts = append(alts, c)
		}
	}
	return alts
}

func (w *walker) testLabel(test *sitter.Node) string {
	test = unparen(test)
	if test == nil {
		return "condition"
	}
	switch test.Type() {
	case "comparison_operator":
		left := unparen(test.NamedChild(0))
		if left != nil && left.Type() == "identifier" {
			return w.text(left) + " ..."
		}
		return "? ..."
	case "call":
		if fn := unparen(test.ChildByFieldName("function")); fn != nil && fn.Type() == "identifier" {
			return w.text(fn) + "(...)"
		}
		return "?(...)"
	case "identifier":
		return w.text(test)
	}
	return "condition"
}

func (w *walker) assignLabel(n *sitter.Node) string {
	// a = b = value chains nest to the right.
	targets := []string{w.targetName(n.ChildByFieldName("left"))}
	value := n.ChildByFieldName("right")
	for value != nil && value.Type() == "assignment" && value.ChildByFieldName("type") == nil {
		targets = append(targets, w.targetName(value.ChildByFieldName("left")))
		value = value.ChildByFieldName("right")
	}

	preview := "..."
	value = unparen(value)
	if repr, ok := python.LiteralRepr(value, w.content); ok {
		preview = truncate(repr, 25)
	} else if value != nil && value.Type() == "call" {
		preview = w.calleeName(value) + "(...)"
	}
	return strings.Join(first(targets, 2), ", ") + " = " + preview
}

func (w *walker) targetName(n *sitter.Node) string {
	if n != nil && n.Type() == "identifier" {
		return w.text(n)
	}
	return "..."
}

// calleeName is the identifier or final attribute of a call's callee.
func (w *walker) calleeName(call *sitter.Node) string {
	fn := unparen(call.ChildByFieldName("function"))
	if fn == nil {
		return "?"
	}
	switch fn.Type() {
	case "identifier":
		return w.text(fn)
	case "attribute":
		return w.text(fn.ChildByFieldName("attribute"))
	}
	return "?"
}

// importNames returns up to three imported names, skipping the module node
// of a from-import.
func (w *walker) importNames(n, module *sitter.Node) []string {
	var names []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if module != nil && c.StartByte() == module.StartByte() {
			continue
		}
		switch c.Type() {
		case "dotted_name":
			names = append(names, w.dotted(c))
		case "aliased_import":
			names = append(names, w.dotted(c.ChildByFieldName("name")))
		case "wildcard_import":
			names = append(names, "*")
		}
	}
	return first(names, 3)
}

func (w *walker) fromModule(n *sitter.Node) string {
	if n == nil {
		return "?"
	}
	if n.Type() == "relative_import" {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if c := n.NamedChild(i); c.Type() == "dotted_name" {
				return w.dotted(c)
			}
		}
		return "?"
	}
	return w.dotted(n)
}

func (w *walker) classBases(args *sitter.Node) []string {
	if args == nil {
		return nil
	}
	var bases []string
	for i := 0; i < int(args.NamedChildCount()); i++ {
		c := args.NamedChild(i)
		switch c.Type() {
		case "keyword_argument", "dictionary_splat", "comment":
			continue
		case "identifier":
			bases = append(bases, w.text(c))
		default:
			bases = append(bases, "?")
		}
	}
	return first(bases, 2)
}

func (w *walker) exceptName(h *sitter.Node) string {
	for i := 0; i < int(h.NamedChildCount()); i++ {
		c := h.NamedChild(i)
		switch c.Type() {
		case "block", "comment":
			continue
		case "as_pattern":
			c = c.NamedChild(0)
		}
		if c != nil && c.Type() == "identifier" {
			return w.text(c)
		}
		return "Exception"
	}
	return "Exception"
}

func (w *walker) dotted(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	if n.Type() != "dotted_name" {
		return w.text(n)
	}
	parts := make([]string, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		parts = append(parts, w.text(n.NamedChild(i)))
	}
	return strings.Join(parts, ".")
}

func (w *walker) text(n *sitter.Node) string {
	return python.Text(n, w.content)
}

func blockOf(n *sitter.Node) *sitter.Node {
	if b := n.ChildByFieldName("body"); b != nil {
		return b
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "block" {
			return c
		}
	}
	return nil
}

func childrenOfType(n *sitter.Node, typ string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == typ {
			out = append(out, c)
		}
	}
	return out
}

func unparen(n *sitter.Node) *sitter.Node {
	for n != nil && n.Type() == "parenthesized_expression" && n.NamedChildCount() == 1 {
		n = n.NamedChild(0)
	}
	return n
}

// first returns at most n leading elements; n <= 0 keeps them all.
func first[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

// truncate keeps the first n characters of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
