package relax

import (
	"fmt"
	"strings"
)

// SyntaxError reports a grammar mismatch or the use of a disabled-feature
// construct, with enough positional detail to render a caret-annotated
// source line.
type SyntaxError struct {
	Msg        string
	Line, Col  int
	SourceLine string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: syntax error: %s", e.Line, e.Col, e.Msg)
}

// Caret renders the offending source line followed by a caret under the
// reported column, e.g.:
//
//	key: 0x1F
//	     ^
func (e *SyntaxError) Caret() string {
	col := e.Col - 1
	if col < 0 {
		col = 0
	}

	return e.SourceLine + "\n" + strings.Repeat(" ", col) + "^"
}
