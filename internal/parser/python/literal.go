package python

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/text/unicode/runenames"
)

// stringLiteral is the decoded form of a string token.
type stringLiteral struct {
	value string
	bytes bool
	fmt   bool
}

// parseStringToken decodes a single string token such as r'x', b"y" or
// """z""". Escape sequences are decoded for non-raw strings.
func parseStringToken(raw string) (stringLiteral, bool) {
	i := 0
	for i < len(raw) && raw[i] != '\'' && raw[i] != '"' {
		i++
	}
	if i == len(raw) {
		return stringLiteral{}, false
	}
	prefix := strings.ToLower(raw[:i])
	body := raw[i:]

	var quote string
	switch {
	case strings.HasPrefix(body, `"""`), strings.HasPrefix(body, `'''`):
		quote = body[:3]
	default:
		quote = body[:1]
	}
	if len(body) < 2*len(quote) || !strings.HasSuffix(body, quote) {
		return stringLiteral{}, false
	}
	inner := body[len(quote) : len(body)-len(quote)]

	lit := stringLiteral{
		bytes: strings.Contains(prefix, "b"),
		fmt:   strings.Contains(prefix, "f"),
	}
	if strings.Contains(prefix, "r") {
		lit.value = inner
	} else {
		lit.value = decodeEscapes(inner, lit.bytes)
	}
	return lit, true
}

// decodeEscapes applies the backslash escapes of a non-raw string body.
// Byte strings only know the single-byte escapes; \u, \U and \N stay
// literal there. Unknown escapes keep their backslash.
func decodeEscapes(s string, isBytes bool) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			i++
			continue
		}
		n := decodeEscape(&b, s[i+1:], isBytes)
		if n == 0 {
			b.WriteByte('\\')
			i++
			continue
		}
		i += 1 + n
	}
	return b.String()
}

var simpleEscapes = map[byte]byte{
	'\\': '\\', '\'': '\'', '"': '"',
	'a': '\a', 'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r', 't': '\t', 'v': '\v',
}

// decodeEscape decodes the escape whose body (the text after the backslash)
// starts s, and returns how many bytes of s it consumed, or 0 when s does
// not start a known escape.
func decodeEscape(b *strings.Builder, s string, isBytes bool) int {
	put := func(r rune) {
		if isBytes {
			b.WriteByte(byte(r))
		} else {
			b.WriteRune(r)
		}
	}
	c := s[0]
	if v, ok := simpleEscapes[c]; ok {
		b.WriteByte(v)
		return 1
	}
	switch {
	case c == '\n':
		return 1
	case c == '\r':
		if len(s) > 1 && s[1] == '\n' {
			return 2
		}
		return 1
	case c >= '0' && c <= '7':
		n := 1
		for n < 3 && n < len(s) && s[n] >= '0' && s[n] <= '7' {
			n++
		}
		v, _ := strconv.ParseUint(s[:n], 8, 32)
		put(rune(v))
		return n
	case c == 'x':
		if v, ok := hexEscape(s[1:], 2); ok {
			put(v)
			return 3
		}
	case c == 'u' && !isBytes:
		if v, ok := hexEscape(s[1:], 4); ok {
			b.WriteRune(v)
			return 5
		}
	case c == 'U' && !isBytes:
		if v, ok := hexEscape(s[1:], 8); ok && v <= unicode.MaxRune {
			b.WriteRune(v)
			return 9
		}
	case c == 'N' && !isBytes:
		if len(s) < 2 || s[1] != '{' {
			return 0
		}
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return 0
		}
		if r, ok := runeByName(s[2:end]); ok {
			b.WriteRune(r)
			return end + 1
		}
	}
	return 0
}

func hexEscape(s string, width int) (rune, bool) {
	if len(s) < width {
		return 0, false
	}
	v, err := strconv.ParseUint(s[:width], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

var (
	runeNamesOnce sync.Once
	runeNames     map[string]rune
)

const cjkPrefix = "CJK UNIFIED IDEOGRAPH-"

// runeByName resolves a Unicode character name as used by \N{...}.
func runeByName(name string) (rune, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if hex, ok := strings.CutPrefix(name, cjkPrefix); ok {
		if v, err := strconv.ParseUint(hex, 16, 32); err == nil && unicode.Is(unicode.Han, rune(v)) {
			return rune(v), true
		}
	}
	runeNamesOnce.Do(func() {
		runeNames = make(map[string]rune, 1<<15)
		for r := rune(0); r <= unicode.MaxRune; r++ {
			if n := runenames.Name(r); n != "" && n[0] != '<' {
				runeNames[n] = r
			}
		}
	})
	r, ok := runeNames[name]
	return r, ok
}

// StringValue returns the value of a plain string literal node: a "string"
// without interpolation, or a "concatenated_string" of such strings. It
// reports false for f-strings and byte strings.
func StringValue(node *sitter.Node, content []byte) (string, bool) {
	lit, ok := literalString(node, content)
	if !ok || lit.bytes {
		return "", false
	}
	return lit.value, true
}

func literalString(node *sitter.Node, content []byte) (stringLiteral, bool) {
	switch node.Type() {
	case "string":
		lit, ok := parseStringToken(Text(node, content))
		if !ok || lit.fmt {
			return stringLiteral{}, false
		}
		return lit, true
	case "concatenated_string":
		var out stringLiteral
		for i := 0; i < int(node.NamedChildCount()); i++ {
			part, ok := literalString(node.NamedChild(i), content)
			if !ok {
				return stringLiteral{}, false
			}
			if i == 0 {
				out.bytes = part.bytes
			}
			out.value += part.value
		}
		return out, true
	}
	return stringLiteral{}, false
}

// LiteralRepr renders a constant literal node the way Python's repr() would.
// It reports false when node is not a constant (names, calls, containers,
// f-strings, unary minus and so on).
func LiteralRepr(node *sitter.Node, content []byte) (string, bool) {
	if node == nil {
		return "", false
	}
	switch node.Type() {
	case "string", "concatenated_string":
		lit, ok := literalString(node, content)
		if !ok {
			return "", false
		}
		return reprString(lit.value, lit.bytes), true
	case "integer":
		return reprInteger(Text(node, content)), true
	case "float":
		return reprFloat(Text(node, content)), true
	case "true":
		return "True", true
	case "false":
		return "False", true
	case "none":
		return "None", true
	case "ellipsis":
		return "Ellipsis", true
	}
	return "", false
}

// reprString quotes s like Python's repr. For byte strings s holds raw
// byte values and everything outside printable ASCII is hex escaped.
func reprString(s string, isBytes bool) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}
	var b strings.Builder
	if isBytes {
		b.WriteByte('b')
	}
	b.WriteByte(quote)
	if isBytes {
		for i := 0; i < len(s); i++ {
			writeReprRune(&b, rune(s[i]), quote, true)
		}
	} else {
		for _, r := range s {
			writeReprRune(&b, r, quote, false)
		}
	}
	b.WriteByte(quote)
	return b.String()
}

func writeReprRune(b *strings.Builder, r rune, quote byte, isBytes bool) {
	switch {
	case r == '\\':
		b.WriteString(`\\`)
	case r == rune(quote):
		b.WriteByte('\\')
		b.WriteByte(quote)
	case r == '\n':
		b.WriteString(`\n`)
	case r == '\r':
		b.WriteString(`\r`)
	case r == '\t':
		b.WriteString(`\t`)
	case r < 0x20 || r == 0x7f || (isBytes && r > 0x7f):
		fmt.Fprintf(b, `\x%02x`, r)
	case r == ' ' || unicode.IsPrint(r):
		b.WriteRune(r)
	case r < 0x100:
		fmt.Fprintf(b, `\x%02x`, r)
	case r <= 0xffff:
		fmt.Fprintf(b, `\u%04x`, r)
	default:
		fmt.Fprintf(b, `\U%08x`, r)
	}
}

func reprInteger(text string) string {
	lower := strings.ToLower(text)
	if strings.HasSuffix(lower, "j") {
		return text
	}
	lower = strings.TrimSuffix(lower, "l")
	n, ok := new(big.Int).SetString(lower, 0)
	if !ok {
		return text
	}
	return n.String()
}

func reprFloat(text string) string {
	lower := strings.ToLower(strings.ReplaceAll(text, "_", ""))
	if strings.HasSuffix(lower, "j") {
		return text
	}
	f, err := strconv.ParseFloat(lower, 64)
	if err != nil {
		return text
	}
	if math.IsInf(f, 0) {
		return "inf"
	}
	if f == 0 {
		return "0.0"
	}
	exp := int(math.Floor(math.Log10(math.Abs(f))))
	if exp < -4 || exp >= 16 {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Cleandoc normalizes a docstring: the first line is left-trimmed, the
// common indentation of the remaining lines is removed, and leading and
// trailing blank lines are dropped.
func Cleandoc(doc string) string {
	lines := strings.Split(expandTabs(doc), "\n")

	margin := -1
	for _, line := range lines[1:] {
		content := strings.TrimLeft(line, " ")
		if content == "" {
			continue
		}
		indent := len(line) - len(content)
		if margin < 0 || indent < margin {
			margin = indent
		}
	}

	lines[0] = strings.TrimLeft(lines[0], " ")
	if margin > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= margin {
				lines[i] = lines[i][margin:]
			} else {
				lines[i] = strings.TrimLeft(lines[i], " ")
			}
		}
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := 8 - col%8
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}
