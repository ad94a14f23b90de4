package flow

import (
	"fmt"
	"strings"
)

// labelEscaper substitutes every character with meaning in Mermaid label or
// shape syntax. No replacement glyph is itself a source character, so
// escaping is idempotent.
var labelEscaper = strings.NewReplacer(
	`"`, `'`,
	`<`, `‹`,
	`>`, `›`,
	`&`, `+`,
	`(`, `❨`,
	`)`, `❩`,
	`[`, `⟦`,
	`]`, `⟧`,
	`{`, `❴`,
	`}`, `❵`,
	`#`, `♯`,
)

// Escape makes text safe to place inside a quoted Mermaid label.
func Escape(text string) string {
	return labelEscaper.Replace(text)
}

var classDefs = map[Kind]string{
	KindStart:     "fill:#1a3a5c,stroke:#58a6ff,stroke-width:2px,color:#58a6ff",
	KindImport:    "fill:#1a3a3a,stroke:#39d2c0,stroke-width:1px,color:#39d2c0",
	KindDefine:    "fill:#2a1f3a,stroke:#bc8cff,stroke-width:2px,color:#bc8cff",
	KindClass:     "fill:#3a2a1a,stroke:#d29922,stroke-width:2px,color:#d29922",
	KindAssign:    "fill:#1a1f24,stroke:#484f58,stroke-width:1px,color:#8b949e",
	KindCall:      "fill:#1a2f1a,stroke:#3fb950,stroke-width:1px,color:#3fb950",
	KindCondition: "fill:#3a2a1a,stroke:#d29922,stroke-width:1px,color:#d29922",
	KindLoop:      "fill:#2a1a2a,stroke:#f778ba,stroke-width:1px,color:#f778ba",
	KindReturn:    "fill:#2a1a1a,stroke:#f85149,stroke-width:1px,color:#f85149",
}

// shape wraps a quoted label in the bracket pair for kind.
func shape(kind Kind, label string) string {
	switch kind {
	case KindCondition:
		return `{"` + label + `"}`
	case KindLoop, KindDefine:
		return `(["` + label + `"])`
	case KindClass:
		return `[["` + label + `"]]`
	case KindReturn:
		return `[/"` + label + `"/]`
	case KindStart:
		return `(("` + label + `"))`
	default:
		return `["` + label + `"]`
	}
}

// Mermaid renders steps as a top-down flowchart: shapes and style classes
// first, then links, then class definitions.
func Mermaid(steps []Step) string {
	var b strings.Builder
	b.WriteString("flowchart TD")

	for _, s := range steps {
		label := Escape(s.Label)
		if s.Line != 0 {
			label += fmt.Sprintf("  L%d", s.Line)
		}
		fmt.Fprintf(&b, "\n    %s%s", s.SID, shape(s.Kind, label))
		fmt.Fprintf(&b, "\n    class %s %sStyle", s.SID, s.Kind)
	}
	for _, s := range steps {
		if s.Parent != 0 {
			fmt.Fprintf(&b, "\n    n%d --> %s", s.Parent, s.SID)
		}
	}

	b.WriteByte('\n')
	for _, k := range Kinds {
		fmt.Fprintf(&b, "    classDef %sStyle %s\n", k, classDefs[k])
	}
	return b.String()
}
