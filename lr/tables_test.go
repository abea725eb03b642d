package lr

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func makeTables(t *testing.T, g *Grammar, opts ...Option) *TableGenerator {
	ga, err := Analysis(g)
	if err != nil {
		t.Fatal(err)
	}
	lrgen := NewTableGenerator(ga, opts...)
	if err := lrgen.CreateTables(); err != nil {
		t.Fatal(err)
	}
	return lrgen
}

func TestCFSM(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.lr")
	defer teardown()
	//
	lrgen := makeTables(t, exprGrammar(t))
	cfsm := lrgen.CFSM()
	g := lrgen.Grammar()
	if cfsm.S0.ID != 0 || cfsm.State(0) != cfsm.S0 {
		t.Errorf("expected start state to be state 0")
	}
	kernel := StartItem(g)
	if kernel.String() != "[E' ➞ • E, $]" || !cfsm.S0.items.Contains(kernel) {
		t.Errorf("expected S0 to contain the start item, is %v", itemSetString(cfsm.S0.items))
	}
	if lrgen.HasConflicts {
		t.Errorf("expression grammar should be LR(1), conflicts: %v", lrgen.Conflicts())
	}
	acc := lrgen.AcceptingStates()
	if len(acc) != 1 || cfsm.Goto(cfsm.S0, g.NonTerminal("E")).ID != acc[0] {
		t.Errorf("expected goto(S0, E) to be the only accepting state, have %v", acc)
	}
	assert.Equal(t, AcceptAction, lrgen.ActionTable().Action(acc[0], g.EOF()).Kind)
	assert.Equal(t, []string{"(", "id"}, names(lrgen.Expected(0)))
	a := lrgen.ActionTable().Action(0, g.Terminal("id"))
	assert.Equal(t, ShiftAction, a.Kind)
	assert.Equal(t, cfsm.Goto(cfsm.S0, g.Terminal("id")).ID, a.State)
	target, ok := lrgen.GotoTable().Target(0, g.NonTerminal("T"))
	assert.True(t, ok)
	assert.Equal(t, cfsm.Goto(cfsm.S0, g.NonTerminal("T")).ID, target)
	assert.Equal(t, NoAction, lrgen.ActionTable().Action(0, g.Terminal("+")).Kind)
}

func TestClosureIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.lr")
	defer teardown()
	//
	lrgen := makeTables(t, exprGrammar(t))
	cfsm := lrgen.CFSM()
	for id := 0; id < cfsm.Size(); id++ {
		s := cfsm.State(id)
		C, err := lrgen.ga.closureSet(s.items, 100000)
		if err != nil {
			t.Fatal(err)
		}
		if !C.Equals(s.items) {
			t.Errorf("closure of state %d differs from state %d", id, id)
		}
		if itemSetKey(C) != s.key {
			t.Errorf("item set key of closure of state %d differs", id)
		}
	}
}

func TestDeterministicRebuild(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.lr")
	defer teardown()
	//
	g := exprGrammar(t)
	c1 := makeTables(t, g).CFSM()
	c2 := makeTables(t, g).CFSM()
	if c1.Size() != c2.Size() || c1.EdgeCount() != c2.EdgeCount() {
		t.Fatalf("rebuild has different size: %d/%d vs %d/%d", c1.Size(), c1.EdgeCount(),
			c2.Size(), c2.EdgeCount())
	}
	for id := 0; id < c1.Size(); id++ {
		if c1.State(id).key != c2.State(id).key {
			t.Errorf("state %d differs after rebuild", id)
		}
	}
	for k, s := range c1.trans {
		if s2 := c2.trans[k]; s2 == nil || s2.ID != s.ID {
			t.Errorf("transition (%d, %v) differs after rebuild", k.from, k.label)
		}
	}
}

func TestDeclarationOrderIsIrrelevant(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.lr")
	defer teardown()
	//
	c1 := makeTables(t, exprGrammar(t)).CFSM()
	c2 := makeTables(t, exprGrammarReordered(t)).CFSM()
	if c1.Size() != c2.Size() || c1.EdgeCount() != c2.EdgeCount() {
		t.Fatalf("CFSMs have different size: %d/%d vs %d/%d", c1.Size(), c1.EdgeCount(),
			c2.Size(), c2.EdgeCount())
	}
	// walk both automata in parallel and match states
	match := map[int]int{0: 0}
	queue := []int{0}
	for len(queue) > 0 {
		id1 := queue[0]
		queue = queue[1:]
		s1, s2 := c1.State(id1), c2.State(match[id1])
		if a, b := itemStrings(s1), itemStrings(s2); a != b {
			t.Fatalf("states %d and %d differ:\n%s\n%s", s1.ID, s2.ID, a, b)
		}
		for k, target := range c1.trans {
			if k.from != id1 {
				continue
			}
			var A2 *Symbol
			if k.label.IsTerminal() {
				A2 = c2.g.Terminal(k.label.Name)
			} else {
				A2 = c2.g.NonTerminal(k.label.Name)
			}
			target2 := c2.Goto(s2, A2)
			if target2 == nil {
				t.Fatalf("missing transition from state %d on %v", s2.ID, A2)
			}
			if m, ok := match[target.ID]; ok {
				if m != target2.ID {
					t.Errorf("state %d matches states %d and %d", target.ID, m, target2.ID)
				}
				continue
			}
			match[target.ID] = target2.ID
			queue = append(queue, target.ID)
		}
	}
	if len(match) != c1.Size() {
		t.Errorf("matched %d of %d states", len(match), c1.Size())
	}
}

// itemStrings renders the items of a state independent of rule numbering.
func itemStrings(s *CFSMState) string {
	var items []string
	for _, i := range s.Items() {
		items = append(items, i.String())
	}
	sort.Strings(items)
	return strings.Join(items, " ")
}

func ambiguousGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("Ambiguous")
	b.LHS("E").N("E").T("+", '+').N("E").End()
	b.LHS("E").T("id", 1).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestShiftReduceConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.lr")
	defer teardown()
	//
	g := ambiguousGrammar(t)
	ga, _ := Analysis(g)
	lrgen := NewTableGenerator(ga)
	err := lrgen.CreateTables()
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if len(cerr.Conflicts) == 0 || !lrgen.HasConflicts {
		t.Errorf("expected conflicts to be listed")
	}
	if lrgen.Ready() {
		t.Errorf("expected tables not to be usable after a conflict")
	}
	c := cerr.Conflicts[0]
	assert.Equal(t, "+", c.Symbol.Name)
	assert.Contains(t, c.String(), "shift/reduce")
}

func TestPreferShiftPolicy(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.lr")
	defer teardown()
	//
	lrgen := makeTables(t, ambiguousGrammar(t), WithConflictPolicy(PreferShift))
	if !lrgen.HasConflicts || !lrgen.Ready() {
		t.Fatalf("expected resolved conflicts and usable tables")
	}
	for _, c := range lrgen.Conflicts() {
		a := lrgen.ActionTable().Action(c.State, c.Symbol)
		if a.Kind != ShiftAction {
			t.Errorf("expected shift to win in state %d, have %v", c.State, a)
		}
		_, v2 := lrgen.ActionTable().Values(c.State, c.Symbol)
		if decodeAction(v2, lrgen.ActionTable().NullValue()).Kind != ReduceAction {
			t.Errorf("expected reduce to be kept as secondary action in state %d", c.State)
		}
	}
}

func TestReduceReduceConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("RR")
	b.LHS("S").N("A").End()
	b.LHS("S").N("B").End()
	b.LHS("A").T("x", 1).End()
	b.LHS("B").T("x", 1).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	ga, _ := Analysis(g)
	if err := NewTableGenerator(ga).CreateTables(); err == nil {
		t.Errorf("expected reduce/reduce conflict")
	}
	lrgen := NewTableGenerator(ga, WithConflictPolicy(PreferShift))
	if err := lrgen.CreateTables(); err != nil {
		t.Fatal(err)
	}
	s := lrgen.CFSM().Goto(lrgen.CFSM().S0, g.Terminal("x"))
	a := lrgen.ActionTable().Action(s.ID, g.EOF())
	assert.Equal(t, Action{Kind: ReduceAction, Rule: 3}, a, "earliest rule A ➞ x should win")
	assert.Contains(t, lrgen.Conflicts()[0].String(), "reduce/reduce")
}

func TestThreeWayConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Three")
	b.LHS("S").N("A").T("b", 2).End()
	b.LHS("S").N("B").T("b", 2).End()
	b.LHS("S").T("a", 1).T("b", 2).T("b", 2).End()
	b.LHS("A").T("a", 1).End()
	b.LHS("B").T("a", 1).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	lrgen := makeTables(t, g, WithConflictPolicy(PreferShift))
	s := lrgen.CFSM().Goto(lrgen.CFSM().S0, g.Terminal("a"))
	var conflicts []Conflict
	for _, c := range lrgen.Conflicts() {
		if c.State == s.ID {
			conflicts = append(conflicts, c)
		}
	}
	if len(conflicts) != 2 {
		t.Fatalf("expected 2 conflicts on b in state %d, have %v", s.ID, conflicts)
	}
	assert.Equal(t, conflicts[0].Actions[0], conflicts[1].Actions[0], "first action placed")
	actions := map[Action]bool{}
	for _, c := range conflicts {
		actions[c.Actions[0]], actions[c.Actions[1]] = true, true
	}
	assert.Equal(t, 3, len(actions), "competing actions %v", actions)
	B := g.Terminal("b")
	assert.Equal(t, ShiftAction, lrgen.ActionTable().Action(s.ID, B).Kind)
	_, v2 := lrgen.ActionTable().Values(s.ID, B)
	assert.Equal(t, ReduceAction, decodeAction(v2, lrgen.ActionTable().NullValue()).Kind)
}

func TestConflictString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.lr")
	defer teardown()
	//
	eof := &Symbol{Name: "#eof", Kind: TerminalType}
	for _, x := range []struct {
		a1, a2 Action
		kind   string
	}{
		{Action{Kind: ShiftAction, State: 3}, Action{Kind: ReduceAction, Rule: 2}, "shift/reduce"},
		{Action{Kind: ReduceAction, Rule: 2}, Action{Kind: ShiftAction, State: 3}, "shift/reduce"},
		{Action{Kind: ReduceAction, Rule: 1}, Action{Kind: ReduceAction, Rule: 2}, "reduce/reduce"},
		{Action{Kind: AcceptAction}, Action{Kind: ReduceAction, Rule: 2}, "accept/reduce"},
		{Action{Kind: ReduceAction, Rule: 2}, Action{Kind: AcceptAction}, "accept/reduce"},
	} {
		c := Conflict{State: 1, Symbol: eof, Actions: [2]Action{x.a1, x.a2}}
		assert.True(t, strings.HasPrefix(c.String(), x.kind+" conflict"), c.String())
	}
}

func TestConstructionLimits(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.lr")
	defer teardown()
	//
	ga, _ := Analysis(exprGrammar(t))
	var lerr *LimitError
	err := NewTableGenerator(ga, MaxStates(3)).CreateTables()
	if assert.True(t, errors.As(err, &lerr)) {
		assert.Equal(t, ConfMaxStates, lerr.Limit)
	}
	err = NewTableGenerator(ga, MaxClosureItems(2)).CreateTables()
	if assert.True(t, errors.As(err, &lerr)) {
		assert.Equal(t, ConfMaxClosureItems, lerr.Limit)
	}
}

func TestTableDumps(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.lr")
	defer teardown()
	//
	tracing.Select("lrkit.lr").SetTraceLevel(tracing.LevelInfo)
	lrgen := makeTables(t, exprGrammar(t))
	var b strings.Builder
	if err := DumpTables(lrgen, &b); err != nil {
		t.Fatal(err)
	}
	assert.Contains(t, b.String(), "acc")
	b.Reset()
	if err := lrgen.CFSM().CFSM2GraphViz(&b); err != nil {
		t.Fatal(err)
	}
	assert.True(t, strings.HasPrefix(b.String(), "digraph {"))
	assert.Contains(t, b.String(), "s000 -> s")
	b.Reset()
	if err := ActionTableAsHTML(lrgen, &b); err != nil {
		t.Fatal(err)
	}
	assert.Contains(t, b.String(), "<td>id</td>")
	b.Reset()
	if err := GotoTableAsHTML(lrgen, &b); err != nil {
		t.Fatal(err)
	}
	assert.Contains(t, b.String(), "<td>T</td>")
	//
	g := lrgen.Grammar()
	assert.True(t, strings.HasPrefix(lrgen.Cell(0, g.Terminal("(")), "s"))
	assert.Equal(t, "", lrgen.Cell(0, g.Terminal("+")))
	assert.NotEqual(t, "", lrgen.Cell(0, g.NonTerminal("E")))
}
