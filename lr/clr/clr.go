package clr

import (
	"errors"
	"fmt"

	"github.com/npillmayer/lrkit"
	"github.com/npillmayer/lrkit/lr"
	"github.com/npillmayer/lrkit/lr/scanner"
)

// Parser is a canonical LR(1)-parser type. Create and initialize one with
// clr.NewParser(...)
type Parser struct {
	g             *lr.Grammar
	lrgen         *lr.TableGenerator
	gotoT         *lr.Table // GOTO table
	actionT       *lr.Table // ACTION table
	trace         func(Step)
	maxReductions int
}

// Option configures a parser.
type Option func(p *Parser)

// WithTrace sets a hook which is called before every action of the parser.
// The hook receives copies of the parse stacks and cannot influence the parse.
func WithTrace(hook func(Step)) Option {
	return func(p *Parser) {
		p.trace = hook
	}
}

// MaxReductions sets an upper bound for the number of consecutive reduce
// actions without an intermediate shift. Exceeding it is an internal error.
func MaxReductions(n int) Option {
	return func(p *Parser) {
		p.maxReductions = n
	}
}

// ErrNotReady is returned by NewParser for a table generator without usable tables.
var ErrNotReady = errors.New("parser tables not created, or not usable due to conflicts")

// NewParser creates an LR(1) parser from the tables of a table generator.
// CreateTables() must have completed successfully beforehand.
func NewParser(lrgen *lr.TableGenerator, opts ...Option) (*Parser, error) {
	if lrgen == nil || !lrgen.Ready() {
		return nil, ErrNotReady
	}
	p := &Parser{
		g:             lrgen.Grammar(),
		lrgen:         lrgen,
		gotoT:         lrgen.GotoTable(),
		actionT:       lrgen.ActionTable(),
		maxReductions: 1 << 20,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Grammar returns the grammar this parser recognizes.
func (p *Parser) Grammar() *lr.Grammar {
	return p.g
}

// Listener receives the steps of a right derivation, bottom up. Values
// returned by a listener are handed to the Reduce call of the rule
// containing the symbol.
type Listener interface {
	Terminal(sym *lr.Symbol, token lrkit.Token) interface{}
	Reduce(rule *lr.Rule, children []interface{}, span lrkit.Span) interface{}
}

// Step describes a parser configuration, given to trace hooks.
type Step struct {
	States    []int        // state stack, top is last
	Symbols   []*lr.Symbol // symbol stack, top is last
	Lookahead *lr.Symbol   // current input symbol
	Pos       int          // position of the lookahead in the input
	Action    lr.Action    // action chosen for this configuration
}

// We store pairs of state-IDs and symbols on the parse stack.
type stackitem struct {
	state int         // ID of a CFSM state
	sym   *lr.Symbol  // grammar symbol (terminal or non-terminal)
	span  lrkit.Span  // input span over which this symbol reaches
	value interface{} // semantic value from a listener
}

// Parse starts a new parse, given a scanner tokenizing the input.
//
// The parser returns true if the input string has been accepted. A rejected
// input results in a *ParseError.
func (p *Parser) Parse(scan scanner.Tokenizer) (bool, error) {
	accepted, _, err := p.run(scan, nil)
	return accepted, err
}

// ParseSentence parses a sequence of terminal names. If the sentence does not
// end with the end-of-input marker, the marker is implied.
func (p *Parser) ParseSentence(words ...string) (bool, error) {
	return p.Parse(scanner.Sentence(words...))
}

// Derive parses the input and calls listener l for every terminal and every
// reduction. It returns the value the listener created for the start symbol.
func (p *Parser) Derive(scan scanner.Tokenizer, l Listener) (interface{}, error) {
	_, value, err := p.run(scan, l)
	return value, err
}

func (p *Parser) run(scan scanner.Tokenizer, l Listener) (bool, interface{}, error) {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	var scanErr error
	scan.SetErrorHandler(func(e error) {
		if scanErr == nil {
			scanErr = e
		}
	})
	stack := make([]stackitem, 1, 64)
	stack[0] = stackitem{state: 0} // push S0
	token := scan.NextToken()
	A := p.classify(token)
	pos, reductions := 0, 0
	for {
		if scanErr != nil {
			return false, nil, fmt.Errorf("scanner error at position %d: %w", pos, scanErr)
		}
		tos := stack[len(stack)-1]
		if A == nil {
			tracer().Infof("token %q is not a terminal of grammar %q", token.Lexeme(), p.g.Name)
			return false, nil, p.parseError(tos.state, pos, nil, token)
		}
		action := p.actionT.Action(tos.state, A)
		tracer().Debugf("action(%d,%v) = %v", tos.state, A, action)
		if p.trace != nil {
			p.trace(makeStep(stack, A, pos, action))
		}
		switch action.Kind {
		case lr.ShiftAction:
			var value interface{}
			if l != nil {
				value = l.Terminal(A, token)
			}
			stack = append(stack, stackitem{action.State, A, token.Span(), value})
			token = scan.NextToken()
			A = p.classify(token)
			pos++
			reductions = 0
		case lr.ReduceAction:
			if reductions++; reductions > p.maxReductions {
				return false, nil, fmt.Errorf("parser exceeded %d consecutive reductions in state %d",
					p.maxReductions, tos.state)
			}
			rule := p.g.Rule(action.Rule)
			var err error
			if stack, err = p.reduce(stack, rule, token, l); err != nil {
				return false, nil, err
			}
		case lr.AcceptAction:
			tracer().Debugf("accept")
			return true, tos.value, nil
		default:
			return false, nil, p.parseError(tos.state, pos, A, token)
		}
	}
}

// reduce performs a reduce action for a rule
//
//    LHS ➞ X1 ... Xn   (with X being terminals or non-terminals)
//
// Symbols X1 to Xn are represented on the stack as states
//
//    [TOS]  Sn(Xn, span_n) ... S1(X1, span1)  ...
//
// They are popped and replaced by GOTO(S, LHS) for the uncovered state S.
func (p *Parser) reduce(stack []stackitem, rule *lr.Rule, lookahead lrkit.Token,
	l Listener) ([]stackitem, error) {
	//
	tracer().Debugf("reduce %v", rule)
	n := rule.Len()
	if n >= len(stack) {
		return stack, fmt.Errorf("parse stack underflow reducing %v", rule)
	}
	handle := stack[len(stack)-n:]
	var handlespan lrkit.Span
	for i, item := range handle {
		if item.sym != rule.RHS()[i] {
			return stack, fmt.Errorf("expected %v on parse stack, got %v", rule.RHS()[i], item.sym)
		}
		handlespan = handlespan.Extend(item.span)
	}
	if n == 0 { // epsilon was just before lookahead
		from := lookahead.Span().From()
		handlespan = lrkit.Span{from, from}
	}
	var value interface{}
	if l != nil {
		children := make([]interface{}, n)
		for i, item := range handle {
			children[i] = item.value
		}
		value = l.Reduce(rule, children, handlespan)
	}
	stack = stack[:len(stack)-n]
	state := stack[len(stack)-1].state
	next, ok := p.gotoT.Target(state, rule.LHS)
	if !ok {
		return stack, fmt.Errorf("no GOTO entry for state %d and %v", state, rule.LHS)
	}
	return append(stack, stackitem{next, rule.LHS, handlespan, value}), nil
}

// classify finds the terminal for a token. The end of input maps to the
// end marker. A terminal named like the lexeme is chosen, if its token type
// binding does not contradict the token's type. Otherwise the terminal bound
// to the token's type is chosen. Returns nil if no terminal matches.
func (p *Parser) classify(token lrkit.Token) *lr.Symbol {
	if token.TokType() == scanner.EOF {
		return p.g.EOF()
	}
	if A := p.g.Terminal(token.Lexeme()); A != nil {
		if A.Value == 0 || token.TokType() == 0 || A.TokenType() == token.TokType() {
			return A
		}
	}
	return p.g.TerminalForToken(token.TokType())
}

func (p *Parser) parseError(state int, pos int, A *lr.Symbol, token lrkit.Token) *ParseError {
	err := &ParseError{
		State:    state,
		Pos:      pos,
		Symbol:   A,
		Token:    token,
		Expected: p.lrgen.Expected(state),
	}
	tracer().Infof("%v", err)
	return err
}

func makeStep(stack []stackitem, A *lr.Symbol, pos int, action lr.Action) Step {
	step := Step{
		States:    make([]int, len(stack)),
		Symbols:   make([]*lr.Symbol, 0, len(stack)-1),
		Lookahead: A,
		Pos:       pos,
		Action:    action,
	}
	for i, item := range stack {
		step.States[i] = item.state
		if i > 0 {
			step.Symbols = append(step.Symbols, item.sym)
		}
	}
	return step
}
