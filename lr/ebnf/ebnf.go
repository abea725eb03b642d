package ebnf

import (
	"fmt"
	"io"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/lrkit/lr"
	"github.com/npillmayer/lrkit/lr/scanner"
	"golang.org/x/exp/ebnf"
)

// DefaultEndMarker is the name of the end-of-input terminal if Load is not
// given one.
const DefaultEndMarker = "#eof"

// Option configures the loading of a grammar.
type Option func(l *loader)

// Bind binds a terminal to a token type. Bindings override the default
// binding of single-rune tokens.
//
//	ebnf.Load("expr", r, "Expr", "", ebnf.Bind("id", scanner.Ident))
//
func Bind(name string, toktype int) Option {
	return func(l *loader) {
		l.binds[name] = toktype
	}
}

type loader struct {
	name    string
	src     ebnf.Grammar
	binds   map[string]int
	taken   map[string]bool // names in use, for creating fresh non-terminals
	fresh   map[string]int  // counter per production
	prods   []lr.Production
	helpers []lr.Production // productions for fresh non-terminals
}

// Load reads a grammar in EBNF notation from r. start names the start symbol;
// if empty, the left hand side of the first production is used. end names the
// end-of-input marker, which will be bound to scanner.EOF, unless specified
// otherwise with Bind. An empty end selects DefaultEndMarker.
//
// Malformed input results in a *lr.GrammarError. For syntax errors, the
// error returned by the EBNF parser is wrapped.
func Load(name string, r io.Reader, start string, end string, opts ...Option) (*lr.Grammar, error) {
	src, err := ebnf.Parse(name, r)
	if err != nil {
		return nil, &lr.GrammarError{Grammar: name, Reason: "malformed EBNF", Err: err}
	}
	l := &loader{
		name:  name,
		src:   src,
		binds: map[string]int{},
		taken: map[string]bool{},
		fresh: map[string]int{},
	}
	for _, opt := range opts {
		opt(l)
	}
	productions := l.ordered()
	if len(productions) == 0 {
		return nil, &lr.GrammarError{Grammar: name, Reason: "grammar has no productions"}
	}
	if start == "" {
		start = productions[0].Name.String
	}
	if end == "" {
		end = DefaultEndMarker
	}
	if _, ok := l.binds[end]; !ok {
		l.binds[end] = scanner.EOF
	}
	for _, p := range productions {
		lhs := p.Name.String
		alts, err := l.alternatives(p.Expr, lhs)
		if err != nil {
			return nil, err
		}
		for _, rhs := range alts {
			l.prods = append(l.prods, lr.Production{LHS: lr.NonTerminal(lhs), RHS: rhs})
		}
	}
	l.prods = append(l.prods, l.helpers...)
	tracer().Debugf("EBNF grammar %q: %d productions, %d rules", name, len(productions), len(l.prods))
	return lr.NewGrammar(name, l.prods, lr.NonTerminal(start), l.terminal(end))
}

// ordered returns the productions in the order of their source positions and
// marks all names and tokens of the source as taken.
func (l *loader) ordered() []*ebnf.Production {
	productions := make([]*ebnf.Production, 0, len(l.src))
	for name, p := range l.src {
		l.taken[name] = true
		l.collect(p.Expr)
		productions = append(productions, p)
	}
	sort.Slice(productions, func(i, j int) bool {
		return productions[i].Pos().Offset < productions[j].Pos().Offset
	})
	return productions
}

func (l *loader) collect(expr ebnf.Expression) {
	switch x := expr.(type) {
	case *ebnf.Name:
		l.taken[x.String] = true
	case *ebnf.Token:
		l.taken[x.String] = true
	case ebnf.Alternative:
		for _, e := range x {
			l.collect(e)
		}
	case ebnf.Sequence:
		for _, e := range x {
			l.collect(e)
		}
	case *ebnf.Group:
		l.collect(x.Body)
	case *ebnf.Option:
		l.collect(x.Body)
	case *ebnf.Repetition:
		l.collect(x.Body)
	}
}

// alternatives returns the right hand sides for an expression. An empty
// expression has a single ε alternative.
func (l *loader) alternatives(expr ebnf.Expression, lhs string) ([][]lr.Symbol, error) {
	if expr == nil {
		return [][]lr.Symbol{{lr.EpsilonSymbol()}}, nil
	}
	alts, ok := expr.(ebnf.Alternative)
	if !ok {
		alts = ebnf.Alternative{expr}
	}
	rhss := make([][]lr.Symbol, 0, len(alts))
	for _, alt := range alts {
		rhs, err := l.sequence(alt, lhs)
		if err != nil {
			return nil, err
		}
		rhss = append(rhss, rhs)
	}
	return rhss, nil
}

func (l *loader) sequence(expr ebnf.Expression, lhs string) ([]lr.Symbol, error) {
	seq, ok := expr.(ebnf.Sequence)
	if !ok {
		seq = ebnf.Sequence{expr}
	}
	rhs := make([]lr.Symbol, 0, len(seq))
	for _, term := range seq {
		A, err := l.symbol(term, lhs)
		if err != nil {
			return nil, err
		}
		rhs = append(rhs, A)
	}
	return rhs, nil
}

func (l *loader) symbol(term ebnf.Expression, lhs string) (lr.Symbol, error) {
	switch x := term.(type) {
	case *ebnf.Name:
		return l.resolve(x.String), nil
	case *ebnf.Token:
		return l.terminal(x.String), nil
	case *ebnf.Group:
		return l.helper(lhs, x.Body, false, false)
	case ebnf.Alternative:
		return l.helper(lhs, x, false, false)
	case *ebnf.Option:
		return l.helper(lhs, x.Body, true, false)
	case *ebnf.Repetition:
		return l.helper(lhs, x.Body, true, true)
	case *ebnf.Range:
		return lr.Symbol{}, l.errorAt(term, lhs, "ranges are not supported")
	}
	return lr.Symbol{}, l.errorAt(term, lhs, fmt.Sprintf("unexpected expression %T", term))
}

// resolve classifies a name: names with a production and capitalized names
// are non-terminals, other names are terminals.
func (l *loader) resolve(name string) lr.Symbol {
	if _, declared := l.src[name]; declared {
		return lr.NonTerminal(name)
	}
	if r, _ := utf8.DecodeRuneInString(name); unicode.IsUpper(r) {
		return lr.NonTerminal(name)
	}
	return l.terminal(name)
}

func (l *loader) terminal(name string) lr.Symbol {
	if tok, ok := l.binds[name]; ok {
		return lr.Terminal(name, tok)
	}
	if r, size := utf8.DecodeRuneInString(name); size > 0 && size == len(name) {
		return lr.Terminal(name, int(r))
	}
	return lr.Terminal(name, 0)
}

// helper creates a fresh non-terminal N for body. Optional bodies get an
// additional ε-rule, repeated bodies are prefixed by N:
//
//	N ➞ N body  |  ε
//
func (l *loader) helper(lhs string, body ebnf.Expression, optional, repeated bool) (lr.Symbol, error) {
	N := lr.NonTerminal(l.freshName(lhs))
	alts, err := l.alternatives(body, N.Name)
	if err != nil {
		return N, err
	}
	for _, rhs := range alts {
		if repeated {
			if len(rhs) == 1 && rhs[0].IsEpsilon() {
				continue
			}
			rhs = append([]lr.Symbol{N}, rhs...)
		}
		l.helpers = append(l.helpers, lr.Production{LHS: N, RHS: rhs})
	}
	if optional {
		l.helpers = append(l.helpers, lr.Production{LHS: N, RHS: []lr.Symbol{lr.EpsilonSymbol()}})
	}
	tracer().Debugf("introduced %s for %s", N.Name, lhs)
	return N, nil
}

func (l *loader) freshName(lhs string) string {
	for {
		l.fresh[lhs]++
		name := fmt.Sprintf("%s~%d", lhs, l.fresh[lhs])
		if !l.taken[name] {
			l.taken[name] = true
			return name
		}
	}
}

func (l *loader) errorAt(term ebnf.Expression, lhs string, reason string) error {
	return &lr.GrammarError{
		Grammar: l.name,
		Symbol:  lhs,
		Reason:  fmt.Sprintf("%s at %v", reason, term.Pos()),
	}
}
