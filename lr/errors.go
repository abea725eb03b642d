package lr

import (
	"bytes"
	"fmt"
)

// GrammarError is returned for malformed grammars, e.g. for non-terminals
// without productions.
type GrammarError struct {
	Grammar string // name of the grammar
	Symbol  string // offending symbol, if any
	Reason  string
	Err     error // underlying error, if any
}

func (e *GrammarError) Error() string {
	var b bytes.Buffer
	b.WriteString("grammar")
	if e.Grammar != "" {
		b.WriteString(fmt.Sprintf(" %q", e.Grammar))
	}
	if e.Symbol != "" {
		b.WriteString(fmt.Sprintf(", symbol %s", e.Symbol))
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *GrammarError) Unwrap() error {
	return e.Err
}

// Conflict describes a table cell of the ACTION table with two different
// actions. Actions[0] is the action placed first into the cell, Actions[1] the
// competing one.
type Conflict struct {
	State   int
	Symbol  *Symbol
	Actions [2]Action
}

func (c Conflict) String() string {
	kind := "shift/reduce"
	switch k0, k1 := c.Actions[0].Kind, c.Actions[1].Kind; {
	case k0 == ReduceAction && k1 == ReduceAction:
		kind = "reduce/reduce"
	case k0 == AcceptAction || k1 == AcceptAction:
		kind = "accept/reduce"
	}
	return fmt.Sprintf("%s conflict in state %d on %s: %v vs. %v",
		kind, c.State, c.Symbol, c.Actions[0], c.Actions[1])
}

// ConflictError is returned by table construction if a grammar is not LR(1)
// and no conflict resolution policy is in effect.
type ConflictError struct {
	Grammar   string
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	if len(e.Conflicts) == 1 {
		return fmt.Sprintf("grammar %q is not LR(1): %v", e.Grammar, e.Conflicts[0])
	}
	return fmt.Sprintf("grammar %q is not LR(1): %d conflicts, first is %v",
		e.Grammar, len(e.Conflicts), e.Conflicts[0])
}

// LimitError is returned if a construction exceeds one of the configured
// upper bounds.
type LimitError struct {
	Limit string // config key of the limit
	Value int    // value of the limit
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("LR construction exceeded %s=%d", e.Limit, e.Value)
}
