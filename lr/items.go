package lr

import (
	"bytes"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/lrkit/lr/iteratable"
)

// Item is an LR(1) item, i.e. a grammar rule with a dot position and a
// lookahead terminal:
//
//    [E ➞ E • + T, #eof]
//
// Items are values and are compared structurally.
type Item struct {
	rule *Rule
	dot  int
	la   *Symbol
}

// StartItem returns the kernel item of the start state: [S' ➞ • S, $].
func StartItem(g *Grammar) Item {
	return Item{rule: g.rules[0], dot: 0, la: g.eof}
}

// Rule returns the rule of an item.
func (i Item) Rule() *Rule {
	return i.rule
}

// Dot returns the dot position, 0…|RHS|.
func (i Item) Dot() int {
	return i.dot
}

// Lookahead returns the lookahead terminal of an item.
func (i Item) Lookahead() *Symbol {
	return i.la
}

// PeekSymbol returns the symbol after the dot, or nil if the dot is at the end.
func (i Item) PeekSymbol() *Symbol {
	if i.dot >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot]
}

// Advance returns a new item with the dot moved one symbol to the right.
func (i Item) Advance() Item {
	if i.dot >= len(i.rule.rhs) {
		return i
	}
	return Item{rule: i.rule, dot: i.dot + 1, la: i.la}
}

// Prefix returns the symbols before the dot.
func (i Item) Prefix() []*Symbol {
	return i.rule.rhs[:i.dot]
}

// rest returns the symbols behind the symbol after the dot.
func (i Item) rest() []*Symbol {
	if i.dot+1 >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot+1:]
}

func (i Item) String() string {
	var b bytes.Buffer
	b.WriteString("[")
	b.WriteString(i.rule.LHS.Name)
	b.WriteString(" ➞")
	for n, A := range i.rule.rhs {
		if n == i.dot {
			b.WriteString(" •")
		}
		b.WriteByte(' ')
		b.WriteString(A.Name)
	}
	if i.dot == len(i.rule.rhs) {
		b.WriteString(" •")
	}
	b.WriteString(", ")
	b.WriteString(i.la.Name)
	b.WriteString("]")
	return b.String()
}

// itemComparator orders items by rule, dot position and lookahead.
func itemComparator(a, b interface{}) int {
	i1, i2 := a.(Item), b.(Item)
	if c := compareRules(i1.rule, i2.rule); c != 0 {
		return c
	}
	if c := utils.IntComparator(i1.dot, i2.dot); c != 0 {
		return c
	}
	return compareSymbols(i1.la, i2.la)
}

func asItem(x interface{}) Item {
	return x.(Item)
}

func newItemSet(items ...interface{}) *iteratable.Set {
	return iteratable.NewSet(itemComparator, items...)
}

// itemTuple is the structural identity of an item within a grammar.
type itemTuple struct {
	Rule, Dot, LA int
}

// itemSetKey returns a canonical key for an item set: equal sets get
// equal keys, independent of insertion order.
func itemSetKey(S *iteratable.Set) string {
	vals := S.Values()
	tuples := make([]itemTuple, len(vals))
	for n, x := range vals {
		i := asItem(x)
		tuples[n] = itemTuple{Rule: i.rule.Serial, Dot: i.dot, LA: i.la.ID}
	}
	return string(structhash.Dump(tuples, 1))
}

func itemSetString(S *iteratable.Set) string {
	var b bytes.Buffer
	b.WriteString("{")
	for n, x := range S.Values() {
		if n > 0 {
			b.WriteString(",")
		}
		b.WriteString(" ")
		b.WriteString(asItem(x).String())
	}
	b.WriteString(" }")
	return b.String()
}

// Dump is a debugging helper, tracing all items of an item set.
func Dump(S *iteratable.Set) {
	if !debugging() {
		return
	}
	for _, x := range S.Values() {
		tracer().Debugf("    %v", asItem(x))
	}
}
