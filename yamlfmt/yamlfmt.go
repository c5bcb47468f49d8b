// Package yamlfmt emits a [document.Node] tree as block or flow YAML text.
package yamlfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.istra.dev/annotate/document"
)

// Dialect parametrizes the YAML emitter.
type Dialect struct {
	Indent  int
	Compact bool
	Header  bool
}

// Default is block-style YAML, 2-space indent, with a leading `---` header.
func Default() Dialect {
	return Dialect{Indent: 2, Header: true}
}

type emitter struct {
	Dialect
	w     *bufio.Writer
	level int
	err   error
}

// Emit writes node to w as YAML text under d.
func Emit(w io.Writer, node document.Node, d Dialect) error {
	bw := bufio.NewWriter(w)
	e := &emitter{Dialect: d, w: bw, level: -1}

	if d.Header {
		e.write("---\n")
	}

	e.emitNode(node)

	if e.err != nil {
		return e.err
	}

	return bw.Flush()
}

// String renders node to a string under d.
func String(node document.Node, d Dialect) (string, error) {
	var sb strings.Builder
	if err := Emit(&sb, node, d); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (e *emitter) write(s string) {
	if e.err != nil {
		return
	}

	_, e.err = e.w.WriteString(s)
}

func (e *emitter) writeln(s string) {
	if e.Compact {
		if s == "," {
			e.write(", ")
		} else {
			e.write(s)
		}

		return
	}

	e.write(s)
	e.write("\n")
}

func (e *emitter) emitIndentExtra(extra int) {
	level := e.level + extra
	if e.Compact || level < 0 {
		return
	}

	e.write(strings.Repeat(" ", level*e.Indent))
}

func (e *emitter) emitIndent() {
	e.emitIndentExtra(0)
}

func (e *emitter) emitNode(n document.Node) {
	switch v := n.(type) {
	case document.Comment:
		e.emitComment(v.Text)
	case document.Str:
		e.emitString(v.Text, v.Format)
	case document.Bool:
		e.emitBool(bool(v))
	case document.Int:
		e.write(v.Value.String())
	case document.Float:
		e.write(fmt.Sprint(float64(v)))
	case document.Mapping:
		e.emitMapping(v)
	case document.Sequence:
		e.emitSequence(v)
	case document.Bytes:
		e.emitBytes(v)
	case document.Null:
		e.write("null")
	case document.Compact:
		e.emitCompact(v.Node)
	case document.Fragment:
		e.emitFragment(v)
	default:
		e.err = fmt.Errorf("yamlfmt: unhandled node variant %s", n.Variant())
	}
}

func (e *emitter) emitCompact(n document.Node) {
	prev := e.Compact
	e.Compact = true
	e.emitNode(n)
	e.Compact = prev
}

func (e *emitter) emitFragment(f document.Fragment) {
	for _, child := range f {
		if c, ok := child.(document.Comment); ok {
			e.emitComment(c.Text)
			continue
		}

		if document.HasValue(child) {
			e.emitNode(child)
		}
	}
}

func (e *emitter) emitBytes(b []byte) {
	e.writeln("[")
	e.emitIndent()

	for i, chunk := range chunkBytes(b, 16) {
		if i > 0 {
			e.writeln("")
		}

		for _, v := range chunk {
			e.write(fmt.Sprintf("0x%02X,", v))
		}
	}

	e.writeln("]")
	e.emitIndent()
}

func chunkBytes(b []byte, size int) [][]byte {
	var out [][]byte

	for len(b) > 0 {
		n := size
		if n > len(b) {
			n = len(b)
		}

		out = append(out, b[:n])
		b = b[n:]
	}

	return out
}

// emitHelper renders the "key: " or "- " lead-in for a value, expanding to
// its own block for a non-empty Sequence/Mapping and staying inline
// otherwise.
func (e *emitter) emitHelper(prefix string, value document.Node) {
	switch v := value.(type) {
	case document.Sequence:
		if e.Compact || len(v) == 0 {
			e.write(prefix + " ")
		} else {
			e.write(prefix + "\n")
			e.emitIndentExtra(1)
		}
	case document.Mapping:
		if e.Compact || len(v) == 0 {
			e.write(prefix + " ")
		} else {
			e.write(prefix + "\n")
			e.emitIndentExtra(1)
		}
	default:
		e.write(prefix + " ")
	}

	e.emitNode(value)
}

func (e *emitter) emitSequence(seq document.Sequence) {
	if e.Compact || len(seq) == 0 {
		e.write("[")

		first := true

		for _, v := range seq {
			if !document.HasValue(v) {
				continue
			}

			if !first {
				e.write(", ")
			}

			first = false
			e.emitNode(v)
		}

		e.write("]")

		return
	}

	e.level++

	first := true

	for _, v := range seq {
		if !document.HasValue(v) {
			if c, ok := v.(document.Comment); ok {
				e.emitComment(c.Text)
			}

			continue
		}

		if !first {
			e.write("\n")
			e.emitIndent()
		}

		first = false
		e.emitHelper("-", v)
	}

	e.level--
}

func (e *emitter) emitMapping(m document.Mapping) {
	empty := len(m) == 0

	if e.Compact || empty {
		e.write("{")
	} else {
		e.level++
	}

	skip := true

	for _, frag := range m {
		if !skip {
			if e.Compact {
				e.write(", ")
			} else {
				e.write("\n")
				e.emitIndent()
			}
		}

		if c, _, ok := document.AsComment(frag); ok {
			e.emitComment(c)
			skip = true

			continue
		}

		key, value, err := document.AsKV(frag)
		if err != nil {
			e.err = err

			return
		}

		// AsKV already filtered these out to find key/value; re-walk the
		// same Fragment to render any comment the annotator attached ahead
		// of this entry (§4.5's per-field comment).
		for _, child := range frag.(document.Fragment) {
			if c, ok := child.(document.Comment); ok {
				e.emitComment(c.Text)
			}
		}

		if err := e.emitKey(key); err != nil {
			e.err = err

			return
		}

		e.emitHelper(":", value)
		skip = false
	}

	if e.Compact || empty {
		e.write("}")
	} else {
		e.level--
	}
}

func (e *emitter) emitKey(key document.Node) error {
	if s, ok := key.(document.Str); ok {
		e.emitString(s.Text, s.Format)

		return nil
	}

	switch key.(type) {
	case document.Bool, document.Int, document.Float:
		e.emitNode(key)

		return nil
	default:
		return fmt.Errorf("%w: %s", document.ErrKeyType, key.Variant())
	}
}

func (e *emitter) emitComment(text string) {
	if e.Compact {
		return
	}

	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			e.write("#\n")
		} else {
			e.write("# " + line + "\n")
		}

		e.emitIndent()
	}
}

func (e *emitter) emitBool(b bool) {
	if b {
		e.write("true")
	} else {
		e.write("false")
	}
}

func (e *emitter) emitString(value string, format document.StrFormat) {
	switch format {
	case document.StrMultiline:
		e.emitStringMultiline(value)
	default:
		e.write(escapeString(value, needQuotes(value)))
	}
}

func (e *emitter) emitStringMultiline(value string) {
	trailingNewline := strings.HasSuffix(value, "\n")
	if trailingNewline {
		e.write("|+")
		value = value[:len(value)-1]
	} else {
		e.write("|-")
	}

	e.level++

	for _, line := range strings.Split(value, "\n") {
		e.write("\n")
		e.emitIndent()
		e.write(escapeString(line, false))
	}

	e.level--
}

// escapeString renders value, optionally double-quoted, escaping any byte
// that YAML's double-quoted style requires escaping regardless of whether
// quoted is set (callers pass quoted=false for an already-block-scalar
// line, where only control characters ever need escaping).
func escapeString(value string, quoted bool) string {
	var b strings.Builder

	if quoted {
		b.WriteByte('"')
	}

	for i := 0; i < len(value); i++ {
		c := value[i]

		escaped, ok := yamlEscape(c, quoted)
		if !ok {
			b.WriteByte(c)
			continue
		}

		b.WriteString(escaped)
	}

	if quoted {
		b.WriteByte('"')
	}

	return b.String()
}

func yamlEscape(c byte, quoted bool) (string, bool) {
	switch c {
	case '"':
		if quoted {
			return `\"`, true
		}

		return "", false
	case '\\':
		return `\\`, true
	case '\b':
		return `\b`, true
	case '\t':
		return `\t`, true
	case '\n':
		return `\n`, true
	case '\f':
		return `\f`, true
	case '\r':
		return `\r`, true
	case 0x7f:
		return ``, true
	default:
		if c <= 0x1f {
			return fmt.Sprintf(`\u%04x`, c), true
		}

		return "", false
	}
}

// needQuotes reports whether value must be double-quoted to round-trip
// safely as YAML per the yaml.org type heuristics: leading/trailing space,
// indicator characters, control characters, YAML 1.1 bool/null keywords,
// and anything that parses as an int or float.
func needQuotes(value string) bool {
	if value == "" || strings.HasPrefix(value, " ") || strings.HasSuffix(value, " ") {
		return true
	}

	if strings.ContainsAny(value[:1], "&*?|-<>=!%@") {
		return true
	}

	if strings.ContainsAny(value, ":{}[],#`\"'\\") {
		return true
	}

	for _, c := range value {
		if (c >= 0 && c <= 0x06) || c == '\t' || c == '\n' || c == '\r' ||
			(c >= 0x0e && c <= 0x1a) || (c >= 0x1c && c <= 0x1f) {
			return true
		}
	}

	if yamlKeywords[value] {
		return true
	}

	if strings.HasPrefix(value, ".") || strings.HasPrefix(value, "0x") {
		return true
	}

	if _, err := strconv.ParseInt(value, 10, 64); err == nil {
		return true
	}

	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return true
	}

	return false
}

var yamlKeywords = map[string]bool{
	"yes": true, "Yes": true, "YES": true, "no": true, "No": true, "NO": true,
	"True": true, "TRUE": true, "true": true, "False": true, "FALSE": true, "false": true,
	"on": true, "On": true, "ON": true, "off": true, "Off": true, "OFF": true,
	"null": true, "Null": true, "NULL": true, "~": true,
}
