package lr

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/scanner"

	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/lrkit"
)

// --- Symbols ---------------------------------------------------------------

// SymbolKind tags a grammar symbol. Kinds are ordered
// TerminalType < NonTermType < EpsilonType.
type SymbolKind int8

// Kinds of grammar symbols.
const (
	TerminalType SymbolKind = iota
	NonTermType
	EpsilonType
)

func (k SymbolKind) String() string {
	switch k {
	case TerminalType:
		return "terminal"
	case NonTermType:
		return "non-terminal"
	case EpsilonType:
		return "epsilon"
	}
	return fmt.Sprintf("kind(%d)", int8(k))
}

// Symbol represents a grammar symbol, i.e. a terminal, a non-terminal or epsilon.
// Symbols are compared by kind and name. Within a grammar, symbols are unique
// and carry an ID, which is used as a column index for parser tables.
// Terminals may be bound to a token type by Value; 0 denotes an unbound terminal.
type Symbol struct {
	Name  string
	Kind  SymbolKind
	ID    int
	Value int
}

// Terminal returns a terminal symbol, bound to token type tokval.
func Terminal(name string, tokval int) Symbol {
	return Symbol{Name: name, Kind: TerminalType, Value: tokval}
}

// NonTerminal returns a non-terminal symbol.
func NonTerminal(name string) Symbol {
	return Symbol{Name: name, Kind: NonTermType}
}

// EpsilonSymbol returns the empty word ε.
func EpsilonSymbol() Symbol {
	return Symbol{Name: "ε", Kind: EpsilonType, ID: epsilonElem}
}

// IsTerminal returns true if this symbol represents a terminal.
func (A *Symbol) IsTerminal() bool {
	return A.Kind == TerminalType
}

// IsEpsilon returns true if this symbol represents the empty word.
func (A *Symbol) IsEpsilon() bool {
	return A.Kind == EpsilonType
}

// TokenType returns the token type a terminal is bound to.
func (A *Symbol) TokenType() lrkit.TokType {
	return lrkit.TokType(A.Value)
}

func (A *Symbol) String() string {
	if A == nil {
		return "<nil>"
	}
	return A.Name
}

func compareSymbols(A, B *Symbol) int {
	if A.Kind != B.Kind {
		return int(A.Kind) - int(B.Kind)
	}
	return strings.Compare(A.Name, B.Name)
}

func symbolComparator(a, b interface{}) int {
	return compareSymbols(a.(*Symbol), b.(*Symbol))
}

// --- Rules -----------------------------------------------------------------

// Production is the input form of a grammar rule: a non-terminal LHS and a
// sequence of symbols as RHS. An empty RHS (or an RHS consisting of ε only)
// denotes an epsilon-production.
type Production struct {
	LHS Symbol
	RHS []Symbol
}

// Rule is a grammar rule within a Grammar. Rule 0 is always the augmented
// start rule S' ➞ S, all other rules are numbered in declaration order.
type Rule struct {
	Serial int     // order number of this rule within a grammar
	LHS    *Symbol // symbols of left hand side
	rhs    []*Symbol
}

// RHS returns the right hand side of a rule. Clients must not modify it.
func (r *Rule) RHS() []*Symbol {
	return r.rhs
}

// Len returns the number of symbols of the right hand side.
func (r *Rule) Len() int {
	return len(r.rhs)
}

// IsEps returns true for an epsilon-rule.
func (r *Rule) IsEps() bool {
	return len(r.rhs) == 0
}

func (r *Rule) String() string {
	var b bytes.Buffer
	b.WriteString(r.LHS.Name)
	b.WriteString(" ➞")
	if r.IsEps() {
		b.WriteString(" ε")
	}
	for _, A := range r.rhs {
		b.WriteByte(' ')
		b.WriteString(A.Name)
	}
	return b.String()
}

// compareRules orders rules by LHS, then lexicographically by RHS (a proper
// prefix sorts first). Identical rules are ordered by serial number.
func compareRules(r1, r2 *Rule) int {
	if r1 == r2 {
		return 0
	}
	if c := compareSymbols(r1.LHS, r2.LHS); c != 0 {
		return c
	}
	for i := 0; i < len(r1.rhs) && i < len(r2.rhs); i++ {
		if c := compareSymbols(r1.rhs[i], r2.rhs[i]); c != 0 {
			return c
		}
	}
	if c := utils.IntComparator(len(r1.rhs), len(r2.rhs)); c != 0 {
		return c
	}
	return utils.IntComparator(r1.Serial, r2.Serial)
}

// --- Grammar ---------------------------------------------------------------

// Grammar is a type for a context-free grammar, augmented by a start rule
// S' ➞ S. A Grammar is immutable after construction and may be shared.
type Grammar struct {
	Name         string
	rules        []*Rule
	byLHS        map[*Symbol][]*Rule
	terminals    map[string]*Symbol
	nonterminals map[string]*Symbol
	symbols      []*Symbol // indexed by ID
	tokens       map[int]*Symbol
	start        *Symbol // start symbol S of the user grammar
	eof          *Symbol // end-of-input marker
	epsilon      *Symbol
}

// NewGrammar creates a grammar from an explicit list of productions, a start
// symbol and an end-of-input marker. Productions are numbered in the order given,
// starting at 1. Returns a *GrammarError if the grammar is malformed.
func NewGrammar(name string, prods []Production, start Symbol, end Symbol) (*Grammar, error) {
	g := &Grammar{
		Name:         name,
		byLHS:        make(map[*Symbol][]*Rule),
		terminals:    make(map[string]*Symbol),
		nonterminals: make(map[string]*Symbol),
		tokens:       make(map[int]*Symbol),
	}
	eps := EpsilonSymbol()
	g.epsilon = &eps
	if len(prods) == 0 {
		return nil, g.errorf("", "grammar has no productions")
	}
	if start.Kind != NonTermType {
		return nil, g.errorf(start.Name, "start symbol must be a non-terminal")
	}
	if end.Kind != TerminalType {
		return nil, g.errorf(end.Name, "end-of-input marker must be a terminal")
	}
	var err error
	if g.eof, err = g.intern(end); err != nil {
		return nil, err
	}
	if g.start, err = g.intern(start); err != nil {
		return nil, err
	}
	rules := make([]*Rule, 0, len(prods)+1)
	for _, p := range prods {
		if p.LHS.Kind != NonTermType {
			return nil, g.errorf(p.LHS.Name, "left hand side of a rule must be a non-terminal")
		}
		r := &Rule{Serial: len(rules) + 1}
		if r.LHS, err = g.intern(p.LHS); err != nil {
			return nil, err
		}
		for _, s := range p.RHS {
			if s.Kind == EpsilonType {
				if len(p.RHS) > 1 {
					return nil, g.errorf(p.LHS.Name, "ε must not be combined with other symbols")
				}
				continue
			}
			A, err := g.intern(s)
			if err != nil {
				return nil, err
			}
			if A == g.eof {
				return nil, g.errorf(A.Name, "end-of-input marker must not appear in a rule")
			}
			r.rhs = append(r.rhs, A)
		}
		rules = append(rules, r)
	}
	g.augment(rules)
	if err = g.check(); err != nil {
		return nil, err
	}
	g.numberSymbols()
	for _, T := range g.terminals {
		if T.Value != 0 {
			g.tokens[T.Value] = T
		}
	}
	tracer().Debugf("grammar %q has %d rules and %d symbols", g.Name, len(g.rules), len(g.symbols))
	return g, nil
}

// intern returns the unique grammar symbol for s.
func (g *Grammar) intern(s Symbol) (*Symbol, error) {
	if s.Name == "" {
		return nil, g.errorf("", "symbol without a name")
	}
	switch s.Kind {
	case TerminalType:
		if _, ok := g.nonterminals[s.Name]; ok {
			return nil, g.errorf(s.Name, "symbol used as terminal and as non-terminal")
		}
		if T, ok := g.terminals[s.Name]; ok {
			if T.Value != s.Value && T.Value != 0 && s.Value != 0 {
				return nil, g.errorf(s.Name, fmt.Sprintf("terminal bound to token types %d and %d",
					T.Value, s.Value))
			}
			if T.Value == 0 {
				T.Value = s.Value
			}
			return T, g.checkToken(T)
		}
		T := &Symbol{Name: s.Name, Kind: TerminalType, Value: s.Value}
		g.terminals[s.Name] = T
		return T, g.checkToken(T)
	case NonTermType:
		if _, ok := g.terminals[s.Name]; ok {
			return nil, g.errorf(s.Name, "symbol used as terminal and as non-terminal")
		}
		if N, ok := g.nonterminals[s.Name]; ok {
			return N, nil
		}
		N := &Symbol{Name: s.Name, Kind: NonTermType}
		g.nonterminals[s.Name] = N
		return N, nil
	}
	return g.epsilon, nil
}

// checkToken makes sure no two terminals share a token type.
func (g *Grammar) checkToken(T *Symbol) error {
	if T.Value == 0 {
		return nil
	}
	for _, U := range g.terminals {
		if U != T && U.Value == T.Value {
			return g.errorf(T.Name, fmt.Sprintf("token type %d already bound to %q", T.Value, U.Name))
		}
	}
	return nil
}

// augment prepends rule 0: S' ➞ S, with S' being a fresh non-terminal.
func (g *Grammar) augment(rules []*Rule) {
	name := g.start.Name + "'"
	for g.nonterminals[name] != nil || g.terminals[name] != nil {
		name += "'"
	}
	S0 := &Symbol{Name: name, Kind: NonTermType}
	g.nonterminals[name] = S0
	r0 := &Rule{Serial: 0, LHS: S0, rhs: []*Symbol{g.start}}
	g.rules = append([]*Rule{r0}, rules...)
	for _, r := range g.rules {
		g.byLHS[r.LHS] = append(g.byLHS[r.LHS], r)
	}
}

// check tests for undefined non-terminals. Unreachable non-terminals are
// reported, but tolerated.
func (g *Grammar) check() error {
	if len(g.byLHS[g.start]) == 0 {
		return g.errorf(g.start.Name, "start symbol has no productions")
	}
	for _, r := range g.rules {
		for _, A := range r.rhs {
			if !A.IsTerminal() && len(g.byLHS[A]) == 0 {
				return g.errorf(A.Name, fmt.Sprintf("non-terminal has no productions (used in rule %d: %v)",
					r.Serial, r))
			}
		}
	}
	reached := map[*Symbol]bool{g.rules[0].LHS: true}
	queue := []*Symbol{g.rules[0].LHS}
	for len(queue) > 0 {
		N := queue[0]
		queue = queue[1:]
		for _, r := range g.byLHS[N] {
			for _, A := range r.rhs {
				if !A.IsTerminal() && !reached[A] {
					reached[A] = true
					queue = append(queue, A)
				}
			}
		}
	}
	for _, N := range g.nonterminals {
		if !reached[N] {
			tracer().Infof("grammar %q: non-terminal %s is unreachable", g.Name, N)
		}
	}
	return nil
}

// numberSymbols assigns IDs in symbol order, terminals first.
func (g *Grammar) numberSymbols() {
	g.symbols = make([]*Symbol, 0, len(g.terminals)+len(g.nonterminals))
	for _, T := range g.terminals {
		g.symbols = append(g.symbols, T)
	}
	for _, N := range g.nonterminals {
		g.symbols = append(g.symbols, N)
	}
	sort.Slice(g.symbols, func(i, j int) bool {
		return compareSymbols(g.symbols[i], g.symbols[j]) < 0
	})
	for i, A := range g.symbols {
		A.ID = i
	}
}

func (g *Grammar) errorf(sym string, reason string) error {
	return &GrammarError{Grammar: g.Name, Symbol: sym, Reason: reason}
}

// Size returns the number of rules, including the augmented start rule.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// Rule gets a grammar rule.
func (g *Grammar) Rule(no int) *Rule {
	if no < 0 || no >= len(g.rules) {
		return nil
	}
	return g.rules[no]
}

// Start returns the start symbol of the (non-augmented) grammar.
func (g *Grammar) Start() *Symbol {
	return g.start
}

// EOF returns the end-of-input marker.
func (g *Grammar) EOF() *Symbol {
	return g.eof
}

// Epsilon returns the symbol for the empty word.
func (g *Grammar) Epsilon() *Symbol {
	return g.epsilon
}

// FindNonTermRules returns all rules with LHS N, in declaration order.
func (g *Grammar) FindNonTermRules(N *Symbol) []*Rule {
	R := g.byLHS[N]
	rules := make([]*Rule, len(R))
	copy(rules, R)
	return rules
}

// Terminal returns the terminal with the given name, or nil.
func (g *Grammar) Terminal(name string) *Symbol {
	return g.terminals[name]
}

// NonTerminal returns the non-terminal with the given name, or nil.
func (g *Grammar) NonTerminal(name string) *Symbol {
	return g.nonterminals[name]
}

// TerminalForToken returns the terminal bound to token type tok, or nil.
func (g *Grammar) TerminalForToken(tok lrkit.TokType) *Symbol {
	if tok == 0 {
		return nil
	}
	return g.tokens[int(tok)]
}

// SymbolByID returns the symbol with a given ID, or nil.
func (g *Grammar) SymbolByID(id int) *Symbol {
	if id < 0 || id >= len(g.symbols) {
		return nil
	}
	return g.symbols[id]
}

// SymbolCount returns the number of terminals and non-terminals, i.e. the
// column count of parser tables.
func (g *Grammar) SymbolCount() int {
	return len(g.symbols)
}

// EachSymbol iterates over all symbols of the grammar in symbol order.
// The return value of the mapper is ignored.
func (g *Grammar) EachSymbol(mapper func(sym *Symbol) interface{}) {
	for _, A := range g.symbols {
		mapper(A)
	}
}

// EachTerminal iterates over all terminals of the grammar in symbol order.
func (g *Grammar) EachTerminal(mapper func(sym *Symbol) interface{}) {
	for _, A := range g.symbols {
		if A.IsTerminal() {
			mapper(A)
		}
	}
}

// EachNonTerminal iterates over all non-terminals of the grammar in symbol order.
func (g *Grammar) EachNonTerminal(mapper func(sym *Symbol) interface{}) {
	for _, A := range g.symbols {
		if !A.IsTerminal() {
			mapper(A)
		}
	}
}

// Dump is a debugging helper, tracing all rules of a grammar.
func (g *Grammar) Dump() {
	tracer().Debugf("--- %s --------------------------------------------", g.Name)
	for _, r := range g.rules {
		tracer().Debugf("%3d: %s", r.Serial, r)
	}
	tracer().Debugf("-------------------------------------------------------")
}

// --- Grammar Builder -------------------------------------------------------

// GrammarBuilder is a fluent interface for constructing a grammar:
//
//    b := lr.NewGrammarBuilder("G")
//    b.LHS("E").N("E").T("+", '+').N("T").End()
//    b.LHS("E").N("T").End()
//    …
//    g, err := b.Grammar()
//
// The first LHS is the start symbol.
type GrammarBuilder struct {
	name  string
	prods []Production
	start string
	end   Symbol
}

// NewGrammarBuilder gets a new grammar builder, given the name of the grammar to build.
func NewGrammarBuilder(gname string) *GrammarBuilder {
	return &GrammarBuilder{
		name: gname,
		end:  Terminal("#eof", scanner.EOF),
	}
}

// EndMarker sets the end-of-input marker. The default is "#eof", bound to
// text/scanner's EOF.
func (gb *GrammarBuilder) EndMarker(name string, tokval int) *GrammarBuilder {
	gb.end = Terminal(name, tokval)
	return gb
}

// LHS starts a rule given the left hand side symbol (non-terminal).
func (gb *GrammarBuilder) LHS(s string) *RuleBuilder {
	if gb.start == "" {
		gb.start = s
	}
	return &RuleBuilder{gb: gb, lhs: NonTerminal(s)}
}

// Grammar returns the grammar constructed by this builder.
func (gb *GrammarBuilder) Grammar() (*Grammar, error) {
	return NewGrammar(gb.name, gb.prods, NonTerminal(gb.start), gb.end)
}

// RuleBuilder collects the right hand side of a rule.
type RuleBuilder struct {
	gb  *GrammarBuilder
	lhs Symbol
	rhs []Symbol
}

// N appends a non-terminal to the builder.
func (rb *RuleBuilder) N(s string) *RuleBuilder {
	rb.rhs = append(rb.rhs, NonTerminal(s))
	return rb
}

// T appends a terminal to the builder, bound to token type tokval
// (0 for an unbound terminal).
func (rb *RuleBuilder) T(s string, tokval int) *RuleBuilder {
	rb.rhs = append(rb.rhs, Terminal(s, tokval))
	return rb
}

// Epsilon concludes an epsilon-rule.
func (rb *RuleBuilder) Epsilon() *GrammarBuilder {
	rb.rhs = nil
	return rb.End()
}

// End concludes a rule.
func (rb *RuleBuilder) End() *GrammarBuilder {
	rb.gb.prods = append(rb.gb.prods, Production{LHS: rb.lhs, RHS: rb.rhs})
	return rb.gb
}
