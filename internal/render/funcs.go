package render

import (
	"fmt"
	"strings"
	"text/template"
)

var funcs = template.FuncMap{
	"id":    nodeID,
	"label": label,
	"deref": deref,
}

// nodeID joins parts into a Mermaid node id. Letters and digits are kept,
// '_' becomes "__", any other byte becomes '_' plus two lowercase hex
// digits, and parts are separated by "_x". 'x' is never a hex digit, so
// distinct part lists always give distinct ids.
func nodeID(parts ...any) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteString("_x")
		}
		s := fmt.Sprint(p)
		for j := 0; j < len(s); j++ {
			c := s[j]
			switch {
			case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
				b.WriteByte(c)
			case c == '_':
				b.WriteString("__")
			default:
				fmt.Fprintf(&b, "_%02x", c)
			}
		}
	}
	return b.String()
}

var labelEscaper = strings.NewReplacer(
	`"`, "#quot;",
	"<", "#lt;",
	">", "#gt;",
)

// label escapes text for use inside a quoted Mermaid node label
func label(s string) string {
	return labelEscaper.Replace(s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
