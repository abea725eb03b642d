package clr

import (
	"bytes"
	"fmt"

	"github.com/npillmayer/lrkit"
	"github.com/npillmayer/lrkit/lr"
)

// ParseError is returned for rejected input. It is an ordinary result of a
// parse; the parser does not try to recover from syntax errors.
type ParseError struct {
	State    int          // parser state at the error
	Pos      int          // number of tokens consumed before the error
	Symbol   *lr.Symbol   // offending terminal, nil for tokens not known to the grammar
	Token    lrkit.Token  // offending token
	Expected []*lr.Symbol // terminals acceptable in State
}

func (e *ParseError) Error() string {
	var b bytes.Buffer
	b.WriteString(fmt.Sprintf("syntax error at token #%d", e.Pos))
	if e.Symbol != nil {
		b.WriteString(fmt.Sprintf(" %s", e.Symbol))
	} else if e.Token != nil {
		b.WriteString(fmt.Sprintf(" %q (unknown)", e.Token.Lexeme()))
	}
	if e.Token != nil && !e.Token.Span().IsNull() {
		b.WriteString(fmt.Sprintf(" at %v", e.Token.Span()))
	}
	b.WriteString(fmt.Sprintf(" in state %d", e.State))
	if len(e.Expected) > 0 {
		b.WriteString(", expected one of")
		for _, A := range e.Expected {
			b.WriteString(" ")
			b.WriteString(A.Name)
		}
	}
	return b.String()
}
