package lr

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/lrkit/lr/iteratable"
	"github.com/npillmayer/lrkit/lr/sparse"
)

// Refer to "Compilers: Principles, Techniques, and Tools" by Aho, Lam, Sethi
// & Ullman, section 4.7.2: Constructing LR(1) Sets of Items.

// === Closure and Goto-Set Operations =======================================

// closureSet computes the LR(1) closure of an item set. For every item
// [A ➞ α • B β, a] of the closure and every rule B ➞ γ, items [B ➞ • γ, b]
// are added for all terminals b in FIRST(β a).
func (ga *LRAnalysis) closureSet(S *iteratable.Set, limit int) (*iteratable.Set, error) {
	C := S.Copy() // add kernel items to closure
	C.IterateOnce()
	for C.Next() {
		item := asItem(C.Item())
		B := item.PeekSymbol() // get symbol B after dot
		if B == nil || B.IsTerminal() {
			continue
		}
		L := ga.firstOfSeq(item.rest())
		if L.Has(epsilonElem) {
			L.Remove(epsilonElem)
			L.Insert(item.la.ID)
		}
		lookaheads := L.AppendTo(nil)
		for _, r := range ga.g.byLHS[B] {
			for _, la := range lookaheads {
				C.Add(Item{rule: r, dot: 0, la: ga.g.symbols[la]})
			}
		}
		if C.Size() > limit {
			return nil, &LimitError{Limit: ConfMaxClosureItems, Value: limit}
		}
	}
	return C, nil
}

// gotoSet collects all items of S with A after the dot and advances them.
func (ga *LRAnalysis) gotoSet(S *iteratable.Set, A *Symbol) *iteratable.Set {
	gotoset := newItemSet()
	for _, x := range S.Values() {
		i := asItem(x)
		if i.PeekSymbol() == A {
			gotoset.Add(i.Advance())
		}
	}
	return gotoset
}

func (ga *LRAnalysis) gotoSetClosure(S *iteratable.Set, A *Symbol, limit int) (*iteratable.Set, error) {
	gclosure, err := ga.closureSet(ga.gotoSet(S, A), limit)
	if err != nil {
		return nil, err
	}
	if debugging() {
		tracer().Debugf("goto(%s) --%s--> %s", itemSetString(S), A, itemSetString(gclosure))
	}
	return gclosure, nil
}

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar.
type CFSMState struct {
	ID     int             // serial ID of this state
	items  *iteratable.Set // configuration items within this state
	key    string          // structural key of the item set
	Accept bool            // is this an accepting state?
}

// Items returns the LR(1) items of a state in item order.
func (s *CFSMState) Items() []Item {
	vals := s.items.Values()
	items := make([]Item, len(vals))
	for n, x := range vals {
		items[n] = asItem(x)
	}
	return items
}

// Dump is a debugging helper
func (s *CFSMState) Dump() {
	tracer().Debugf("--- state %03d -----------", s.ID)
	Dump(s.items)
	tracer().Debugf("-------------------------")
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, s.items.Size())
}

func (s *CFSMState) containsCompletedStartRule(eof *Symbol) bool {
	for _, x := range s.items.Values() {
		i := asItem(x)
		if i.rule.Serial == 0 && i.PeekSymbol() == nil && i.la == eof {
			return true
		}
	}
	return false
}

// CFSM edge between 2 states, directed and labeled with a symbol
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label *Symbol
}

type transition struct {
	from  int
	label *Symbol
}

// We need this for the worklist of states. It sorts states by serial ID.
func stateComparator(s1, s2 interface{}) int {
	c1 := s1.(*CFSMState)
	c2 := s2.(*CFSMState)
	return utils.IntComparator(c1.ID, c2.ID)
}

// CFSM is the characteristic finite state machine for a LR grammar, i.e. the
// canonical collection of LR(1) item sets together with the goto-transitions
// between them. Will be constructed by a TableGenerator.
// Clients normally do not use it directly. Nevertheless, there are some methods
// defined on it, e.g, for debugging purposes.
type CFSM struct {
	g      *Grammar                  // this CFSM is for Grammar g
	states *arraylist.List           // all the states, indexed by ID
	edges  *arraylist.List           // all the edges between states
	index  map[string][]*CFSMState   // states by item set key
	trans  map[transition]*CFSMState // goto-transitions
	S0     *CFSMState                // start state
}

// create an empty (initial) CFSM automata.
func emptyCFSM(g *Grammar) *CFSM {
	return &CFSM{
		g:      g,
		states: arraylist.New(),
		edges:  arraylist.New(),
		index:  make(map[string][]*CFSMState),
		trans:  make(map[transition]*CFSMState),
	}
}

// Size returns the number of states.
func (c *CFSM) Size() int {
	return c.states.Size()
}

// State returns the state with a given ID, or nil.
func (c *CFSM) State(id int) *CFSMState {
	s, ok := c.states.Get(id)
	if !ok {
		return nil
	}
	return s.(*CFSMState)
}

// Goto returns the target state of the transition from s labeled A, or nil.
func (c *CFSM) Goto(s *CFSMState, A *Symbol) *CFSMState {
	return c.trans[transition{s.ID, A}]
}

// EdgeCount returns the number of transitions.
func (c *CFSM) EdgeCount() int {
	return c.edges.Size()
}

// addState adds a state for an item set, if no structurally equal state
// is present. Returns the state and true, if it has been newly created.
func (c *CFSM) addState(iset *iteratable.Set) (*CFSMState, bool) {
	key := itemSetKey(iset)
	for _, s := range c.index[key] {
		if s.items.Equals(iset) {
			return s, false
		}
	}
	s := &CFSMState{ID: c.states.Size(), items: iset, key: key}
	s.Accept = s.containsCompletedStartRule(c.g.eof)
	c.states.Add(s)
	c.index[key] = append(c.index[key], s)
	return s, true
}

func (c *CFSM) addEdge(s0, s1 *CFSMState, sym *Symbol) {
	c.edges.Add(&cfsmEdge{from: s0, to: s1, label: sym})
	c.trans[transition{s0.ID, sym}] = s1
}

// Construct the characteristic finite state machine CFSM for a grammar.
// States are processed in order of creation; for every symbol X after a dot
// (in symbol order) goto(S,X) is either found among the existing states or
// appended as a new state.
func (lrgen *TableGenerator) buildCFSM() (*CFSM, error) {
	tracer().Debugf("=== build CFSM ==================================================")
	G := lrgen.g
	limit := lrgen.conf.maxClosureItems
	cfsm := emptyCFSM(G)
	closure0, err := lrgen.ga.closureSet(newItemSet(StartItem(G)), limit)
	if err != nil {
		return nil, err
	}
	cfsm.S0, _ = cfsm.addState(closure0)
	cfsm.S0.Dump()
	worklist := treeset.NewWith(stateComparator)
	worklist.Add(cfsm.S0)
	for !worklist.Empty() {
		it := worklist.Iterator()
		it.Next()
		s := it.Value().(*CFSMState)
		worklist.Remove(s)
		symbols := treeset.NewWith(symbolComparator)
		for _, x := range s.items.Values() {
			if A := asItem(x).PeekSymbol(); A != nil {
				symbols.Add(A)
			}
		}
		for _, y := range symbols.Values() {
			A := y.(*Symbol)
			gotoset, err := lrgen.ga.gotoSetClosure(s.items, A, limit)
			if err != nil {
				return nil, err
			}
			target, isNew := cfsm.addState(gotoset)
			if isNew {
				if cfsm.Size() > lrgen.conf.maxStates {
					return nil, &LimitError{Limit: ConfMaxStates, Value: lrgen.conf.maxStates}
				}
				target.Dump()
				worklist.Add(target)
			}
			cfsm.addEdge(s, target, A)
		}
	}
	tracer().Infof("CFSM for grammar %q has %d states and %d edges", G.Name, cfsm.Size(), cfsm.EdgeCount())
	return cfsm, nil
}

// === Table Generator =======================================================

// TableGenerator is a generator object to construct LR parser tables.
// Clients usually create a Grammar G, then a LRAnalysis-object for G,
// and then a table generator. TableGenerator.CreateTables() constructs
// the CFSM and parser tables for an LR(1)-parser recognizing grammar G.
type TableGenerator struct {
	g            *Grammar
	ga           *LRAnalysis
	conf         config
	dfa          *CFSM
	gototable    *Table
	actiontable  *Table
	conflicts    []Conflict
	HasConflicts bool
}

// NewTableGenerator creates a new TableGenerator for a (previously analysed) grammar.
// Options given here override the options of the analysis.
func NewTableGenerator(ga *LRAnalysis, opts ...Option) *TableGenerator {
	lrgen := &TableGenerator{
		g:    ga.Grammar(),
		ga:   ga,
		conf: ga.conf,
	}
	for _, opt := range opts {
		opt(&lrgen.conf)
	}
	return lrgen
}

// Grammar returns the grammar the tables are generated for.
func (lrgen *TableGenerator) Grammar() *Grammar {
	return lrgen.g
}

// Analysis returns the grammar analysis the tables are generated from.
func (lrgen *TableGenerator) Analysis() *LRAnalysis {
	return lrgen.ga
}

// Policy returns the conflict resolution policy in effect.
func (lrgen *TableGenerator) Policy() ConflictPolicy {
	return lrgen.conf.policy
}

// CFSM returns the characteristic finite state machine (CFSM) for a grammar.
// Clients have to call CreateTables() first.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.dfa == nil {
		tracer().P("lr", "gen").Errorf("CFSM not yet constructed")
	}
	return lrgen.dfa
}

// GotoTable returns the GOTO table for LR-parsing a grammar. The tables have to be
// built by calling CreateTables() previously.
func (lrgen *TableGenerator) GotoTable() *Table {
	if lrgen.gototable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.gototable
}

// ActionTable returns the ACTION table for LR-parsing a grammar. The tables have to be
// built by calling CreateTables() previously.
func (lrgen *TableGenerator) ActionTable() *Table {
	if lrgen.actiontable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.actiontable
}

// Conflicts returns all conflicts found during construction of the ACTION table.
func (lrgen *TableGenerator) Conflicts() []Conflict {
	c := make([]Conflict, len(lrgen.conflicts))
	copy(c, lrgen.conflicts)
	return c
}

// Ready is true if CreateTables() has completed successfully.
func (lrgen *TableGenerator) Ready() bool {
	return lrgen.actiontable != nil && lrgen.gototable != nil
}

// CreateTables creates the CFSM and the GOTO and ACTION tables for an
// LR(1) parser. If the grammar is not LR(1) and the conflict policy is
// Strict, a *ConflictError is returned and no tables are available.
// Exceeding a configured limit results in a *LimitError.
func (lrgen *TableGenerator) CreateTables() error {
	lrgen.dfa, lrgen.gototable, lrgen.actiontable = nil, nil, nil
	lrgen.conflicts, lrgen.HasConflicts = nil, false
	dfa, err := lrgen.buildCFSM()
	if err != nil {
		return err
	}
	lrgen.dfa = dfa
	gotoT, actionT := lrgen.buildTables()
	lrgen.HasConflicts = len(lrgen.conflicts) > 0
	if lrgen.HasConflicts && lrgen.conf.policy == Strict {
		for _, c := range lrgen.conflicts {
			tracer().Errorf("%v", c)
		}
		return &ConflictError{Grammar: lrgen.g.Name, Conflicts: lrgen.Conflicts()}
	}
	lrgen.gototable, lrgen.actiontable = gotoT, actionT
	return nil
}

// AcceptingStates returns all states of the CFSM which represent an accept action.
// Clients have to call CreateTables() first.
func (lrgen *TableGenerator) AcceptingStates() []int {
	if lrgen.dfa == nil {
		tracer().Errorf("tables not yet generated; call CreateTables() first")
		return nil
	}
	acc := make([]int, 0, 1)
	it := lrgen.dfa.states.Iterator()
	for it.Next() {
		if s := it.Value().(*CFSMState); s.Accept {
			acc = append(acc, s.ID)
		}
	}
	return acc
}

// Expected returns the terminals with a defined ACTION entry in a state,
// i.e. the terminals a parser in this state will accept.
func (lrgen *TableGenerator) Expected(state int) []*Symbol {
	if lrgen.actiontable == nil || state < 0 || state >= lrgen.actiontable.States() {
		return nil
	}
	cols := lrgen.actiontable.matrix.Row(state)
	syms := make([]*Symbol, 0, len(cols))
	for _, col := range cols {
		syms = append(syms, lrgen.g.SymbolByID(col))
	}
	return syms
}

// For building the tables we iterate over all the states of the CFSM.
// An inner loop iterates over all the LR(1) items within a CFSM-state:
//
// - [S' ➞ S •, $] produces an accept entry in ACTION.
// - [A ➞ α •, a] produces a reduce entry for rule A ➞ α on a.
// - [A ➞ α • t β, a] with terminal t produces a shift entry on t.
// - [A ➞ α • B β, a] with non-terminal B produces a GOTO entry.
func (lrgen *TableGenerator) buildTables() (*Table, *Table) {
	statescnt, symcnt := lrgen.dfa.Size(), lrgen.g.SymbolCount()
	tracer().Infof("ACTION and GOTO tables of size %d x %d", statescnt, symcnt)
	gototable := newTable(statescnt, symcnt)
	actions := newTable(statescnt, symcnt)
	it := lrgen.dfa.states.Iterator()
	for it.Next() {
		state := it.Value().(*CFSMState)
		for _, x := range state.items.Values() {
			i := asItem(x)
			A := i.PeekSymbol()
			switch {
			case A == nil && i.rule.Serial == 0:
				if i.la == lrgen.g.eof {
					lrgen.placeAction(actions, state, i.la, Action{Kind: AcceptAction})
				}
			case A == nil:
				lrgen.placeAction(actions, state, i.la, Action{Kind: ReduceAction, Rule: i.rule.Serial})
			case A.IsTerminal():
				target := lrgen.dfa.Goto(state, A)
				lrgen.placeAction(actions, state, A, Action{Kind: ShiftAction, State: target.ID})
			default:
				target := lrgen.dfa.Goto(state, A)
				gototable.set(state.ID, A.ID, int32(target.ID))
			}
		}
	}
	return gototable, actions
}

// placeAction enters an action into a cell of the ACTION table. A cell
// already holding a different action is a conflict. The winner according to
// PreferShift becomes the primary value, the loser is kept as secondary value.
// A cell keeps only one loser: with more than two competing actions, the
// secondary value holds the loser of the latest conflict. Every conflict is
// recorded, each with the action placed first into the cell as Actions[0].
func (lrgen *TableGenerator) placeAction(t *Table, state *CFSMState, A *Symbol, a Action) {
	current := t.Action(state.ID, A)
	if current.Kind == NoAction {
		t.set(state.ID, A.ID, a.encode())
		return
	}
	if _, v2 := t.Values(state.ID, A); current == a || v2 == a.encode() {
		return
	}
	first := current
	for _, c := range lrgen.conflicts {
		if c.State == state.ID && c.Symbol == A {
			first = c.Actions[0]
			break
		}
	}
	c := Conflict{State: state.ID, Symbol: A, Actions: [2]Action{first, a}}
	lrgen.conflicts = append(lrgen.conflicts, c)
	winner, loser := preferShift(current, a)
	tracer().Infof("%v, choosing %v", c, winner)
	t.set(state.ID, A.ID, winner.encode())
	t.add(state.ID, A.ID, loser.encode())
}

// preferShift orders two conflicting actions: accept before shift before
// reduce, and reduces by rule number.
func preferShift(a1, a2 Action) (Action, Action) {
	prio := func(a Action) int {
		switch a.Kind {
		case AcceptAction:
			return 0
		case ShiftAction:
			return 1
		}
		return 2
	}
	if p1, p2 := prio(a1), prio(a2); p1 != p2 {
		if p1 < p2 {
			return a1, a2
		}
		return a2, a1
	}
	if a2.Kind == ReduceAction && a2.Rule < a1.Rule {
		return a2, a1
	}
	return a1, a2
}

// === Actions and Tables ====================================================

// ActionKind is the type of an entry of the ACTION table.
type ActionKind int8

// Kinds of parser actions. NoAction represents an error entry.
const (
	NoAction ActionKind = iota
	ShiftAction
	ReduceAction
	AcceptAction
)

// Action is a decoded entry of the ACTION table. State is the target of a
// shift, Rule is the rule number of a reduce.
type Action struct {
	Kind  ActionKind
	State int
	Rule  int
}

// Within the ACTION table, shift entries are stored as the target state,
// accept as -1 and a reduce of rule r as -(r+1). Rule 0 is never reduced.
const acceptValue int32 = -1

func (a Action) encode() int32 {
	switch a.Kind {
	case ShiftAction:
		return int32(a.State)
	case ReduceAction:
		return int32(-(a.Rule + 1))
	case AcceptAction:
		return acceptValue
	}
	return sparse.DefaultNullValue
}

func decodeAction(v int32, null int32) Action {
	switch {
	case v == null:
		return Action{Kind: NoAction}
	case v >= 0:
		return Action{Kind: ShiftAction, State: int(v)}
	case v == acceptValue:
		return Action{Kind: AcceptAction}
	}
	return Action{Kind: ReduceAction, Rule: int(-v) - 1}
}

func (a Action) String() string {
	switch a.Kind {
	case ShiftAction:
		return fmt.Sprintf("shift %d", a.State)
	case ReduceAction:
		return fmt.Sprintf("reduce %d", a.Rule)
	case AcceptAction:
		return "accept"
	}
	return "error"
}

// Table is a parser table (ACTION or GOTO), indexed by state ID and
// symbol ID. Tables are read-only for clients.
type Table struct {
	matrix *sparse.IntMatrix
}

func newTable(states, symbols int) *Table {
	return &Table{matrix: sparse.NewIntMatrix(states, symbols, sparse.DefaultNullValue)}
}

func (t *Table) add(state, col int, val int32) {
	t.matrix.Add(state, col, val)
}

func (t *Table) set(state, col int, val int32) {
	t.matrix.Set(state, col, val)
}

// States returns the number of rows of a table.
func (t *Table) States() int {
	return t.matrix.M()
}

// NullValue is the value of empty table cells.
func (t *Table) NullValue() int32 {
	return t.matrix.NullValue()
}

// Value returns the raw primary value of cell (state, A).
func (t *Table) Value(state int, A *Symbol) int32 {
	if !t.inRange(state, A) {
		return t.matrix.NullValue()
	}
	return t.matrix.Value(state, A.ID)
}

// Values returns the raw primary and secondary value of cell (state, A).
// A secondary value is present for conflicts resolved by policy.
func (t *Table) Values(state int, A *Symbol) (int32, int32) {
	if !t.inRange(state, A) {
		return t.matrix.NullValue(), t.matrix.NullValue()
	}
	return t.matrix.Values(state, A.ID)
}

// Action decodes the primary value of cell (state, A) of an ACTION table.
func (t *Table) Action(state int, A *Symbol) Action {
	return decodeAction(t.Value(state, A), t.NullValue())
}

// Target returns the target state of cell (state, A) of a GOTO table.
func (t *Table) Target(state int, A *Symbol) (int, bool) {
	v := t.Value(state, A)
	if v == t.NullValue() {
		return 0, false
	}
	return int(v), true
}

func (t *Table) inRange(state int, A *Symbol) bool {
	return A != nil && state >= 0 && state < t.matrix.M() && A.ID >= 0 && A.ID < t.matrix.N()
}
