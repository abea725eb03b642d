package clr

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/lrkit"
	"github.com/npillmayer/lrkit/lr"
	"github.com/npillmayer/lrkit/lr/scanner"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

// The expression grammar of the dragon book:
//
//     E  ➞  E + T  |  T
//     T  ➞  T * F  |  F
//     F  ➞  ( E )  |  id
//
func makeParser(t *testing.T, reorder bool, opts ...Option) *Parser {
	b := lr.NewGrammarBuilder("Expr")
	b.EndMarker("$", scanner.EOF)
	if reorder {
		b.LHS("E").N("T").End()
		b.LHS("F").T("id", scanner.Ident).End()
		b.LHS("T").N("F").End()
		b.LHS("F").T("(", '(').N("E").T(")", ')').End()
		b.LHS("E").N("E").T("+", '+').N("T").End()
		b.LHS("T").N("T").T("*", '*').N("F").End()
	} else {
		b.LHS("E").N("E").T("+", '+').N("T").End()
		b.LHS("E").N("T").End()
		b.LHS("T").N("T").T("*", '*').N("F").End()
		b.LHS("T").N("F").End()
		b.LHS("F").T("(", '(').N("E").T(")", ')').End()
		b.LHS("F").T("id", scanner.Ident).End()
	}
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	ga, err := lr.Analysis(g)
	if err != nil {
		t.Fatal(err)
	}
	lrgen := lr.NewTableGenerator(ga)
	if err := lrgen.CreateTables(); err != nil {
		t.Fatal(err)
	}
	p, err := NewParser(lrgen, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestExpressionSentences(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.clr")
	defer teardown()
	//
	p := makeParser(t, false)
	ok, err := p.ParseSentence("id", "+", "id", "*", "id", "$")
	if !ok || err != nil {
		t.Errorf("expected id + id * id to be accepted, error = %v", err)
	}
	ok, err = p.ParseSentence("(", "id", "+", "id", ")", "$")
	if !ok || err != nil {
		t.Errorf("expected ( id + id ) to be accepted, error = %v", err)
	}
	ok, err = p.ParseSentence("id", "+", "$")
	var perr *ParseError
	if ok || !errors.As(err, &perr) {
		t.Fatalf("expected id + to be rejected with a parse error, error = %v", err)
	}
	assert.Equal(t, 2, perr.Pos, "should fail immediately after consuming +")
	assert.Equal(t, "$", perr.Symbol.Name)
	assert.Equal(t, []string{"(", "id"}, names(perr.Expected))
	ok, err = p.ParseSentence("id", "id", "$")
	if ok || !errors.As(err, &perr) {
		t.Fatalf("expected id id to be rejected with a parse error, error = %v", err)
	}
	assert.Equal(t, 1, perr.Pos, "should fail at the second id")
	assert.Equal(t, "id", perr.Symbol.Name)
	assert.Equal(t, []string{"$", "*", "+"}, names(perr.Expected))
	assert.Contains(t, perr.Error(), "expected one of $ * +")
}

func names(syms []*lr.Symbol) []string {
	n := make([]string, len(syms))
	for i, A := range syms {
		n[i] = A.Name
	}
	return n
}

var sentences = []struct {
	input  string
	accept bool
}{
	{"id", true},
	{"id + id", true},
	{"id * ( id + id ) * id", true},
	{"( ( id ) )", true},
	{"id + id + id * id", true},
	{"", false},
	{"+", false},
	{"id +", false},
	{"( id", false},
	{"id )", false},
	{"( )", false},
	{"id * * id", false},
}

func TestDeclarationOrderDoesNotChangeLanguage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.clr")
	defer teardown()
	//
	p1, p2 := makeParser(t, false), makeParser(t, true)
	for _, s := range sentences {
		ok1, _ := p1.Parse(scanner.SplitSentence(s.input))
		ok2, _ := p2.Parse(scanner.SplitSentence(s.input))
		if ok1 != s.accept || ok2 != s.accept {
			t.Errorf("expected %q to be accepted=%v, have %v and %v", s.input, s.accept, ok1, ok2)
		}
	}
}

func TestUnknownToken(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.clr")
	defer teardown()
	//
	p := makeParser(t, false)
	ok, err := p.ParseSentence("id", "-", "id")
	var perr *ParseError
	if ok || !errors.As(err, &perr) {
		t.Fatalf("expected parse error for unknown token, have %v", err)
	}
	assert.Nil(t, perr.Symbol)
	assert.Equal(t, 1, perr.Pos)
	assert.Contains(t, perr.Error(), `"-" (unknown)`)
}

func TestGoTokenizerInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.clr")
	defer teardown()
	//
	p := makeParser(t, false)
	for input, accept := range map[string]bool{
		"a + b * c":     true,
		"(x1 + y) * z2": true,
		"a + * b":       false,
	} {
		scan := scanner.GoTokenizer(input, strings.NewReader(input))
		ok, err := p.Parse(scan)
		if ok != accept {
			t.Errorf("expected %q to be accepted=%v, error = %v", input, accept, err)
		}
	}
}

func TestTraceHook(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.clr")
	defer teardown()
	//
	var steps []Step
	p := makeParser(t, false, WithTrace(func(s Step) {
		steps = append(steps, s)
	}))
	ok, err := p.ParseSentence("id", "$")
	if !ok || err != nil {
		t.Fatalf("expected id to be accepted, error = %v", err)
	}
	// shift id, reduce F, reduce T, reduce E, accept
	if len(steps) != 5 {
		t.Fatalf("expected 5 steps, have %d", len(steps))
	}
	assert.Equal(t, lr.ShiftAction, steps[0].Action.Kind)
	assert.Equal(t, []int{0}, steps[0].States)
	assert.Equal(t, lr.AcceptAction, steps[4].Action.Kind)
	assert.Equal(t, []string{"E"}, names(steps[4].Symbols))
	for _, s := range steps[1:4] {
		assert.Equal(t, lr.ReduceAction, s.Action.Kind)
		assert.Equal(t, len(s.States), len(s.Symbols)+1)
	}
}

func TestParseTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.clr")
	defer teardown()
	//
	p := makeParser(t, false)
	input := "a+b*c"
	tree, err := p.ParseTree(scanner.GoTokenizer("tree", strings.NewReader(input)))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "E", tree.Symbol.Name)
	assert.Equal(t, uint64(0), tree.Span.From())
	assert.Equal(t, uint64(len(input)), tree.Span.To())
	var leaves []string
	tree.Walk(func(n *Node, depth int) {
		if n.Token != nil {
			leaves = append(leaves, n.Token.Lexeme())
		}
	})
	assert.Equal(t, []string{"a", "+", "b", "*", "c"}, leaves)
	assert.Equal(t, "E ➞ E + T", tree.Rule.String())
}

// postfix translates expressions to reverse polish notation.
type postfix struct{}

func (postfix) Terminal(sym *lr.Symbol, token lrkit.Token) interface{} {
	return token.Lexeme()
}

func (postfix) Reduce(rule *lr.Rule, children []interface{}, span lrkit.Span) interface{} {
	switch {
	case len(children) == 1:
		return children[0]
	case children[0] == "(":
		return children[1]
	}
	return fmt.Sprintf("%s %s %s", children[0], children[2], children[1])
}

func TestDeriveWithListener(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.clr")
	defer teardown()
	//
	p := makeParser(t, false)
	for input, rpn := range map[string]string{
		"a+b*c":   "a b c * +",
		"(a+b)*c": "a b + c *",
		"a*b+c*d": "a b * c d * +",
	} {
		v, err := p.Derive(scanner.GoTokenizer(input, strings.NewReader(input)), postfix{})
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, rpn, v, "translation of %q", input)
	}
	_, err := p.Derive(scanner.GoTokenizer("err", strings.NewReader("a+")), postfix{})
	assert.Error(t, err)
}

func TestConcurrentParses(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.clr")
	defer teardown()
	//
	p := makeParser(t, false)
	var wg sync.WaitGroup
	errs := make(chan error, len(sentences)*8)
	for i := 0; i < 8; i++ {
		for _, s := range sentences {
			wg.Add(1)
			go func(input string, accept bool) {
				defer wg.Done()
				if ok, _ := p.Parse(scanner.SplitSentence(input)); ok != accept {
					errs <- fmt.Errorf("%q: expected accepted=%v", input, accept)
				}
			}(s.input, s.accept)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestParserNeedsTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.clr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("Ambiguous")
	b.LHS("E").N("E").T("+", '+').N("E").End()
	b.LHS("E").T("id", scanner.Ident).End()
	g, _ := b.Grammar()
	ga, _ := lr.Analysis(g)
	lrgen := lr.NewTableGenerator(ga)
	if _, err := NewParser(lrgen); err != ErrNotReady {
		t.Errorf("expected parser construction to fail without tables")
	}
	if err := lrgen.CreateTables(); err == nil {
		t.Fatalf("expected conflicts for ambiguous grammar")
	}
	if _, err := NewParser(lrgen); err != ErrNotReady {
		t.Errorf("expected parser construction to fail for conflicting tables")
	}
	lrgen = lr.NewTableGenerator(ga, lr.WithConflictPolicy(lr.PreferShift))
	if err := lrgen.CreateTables(); err != nil {
		t.Fatal(err)
	}
	p, err := NewParser(lrgen)
	if err != nil {
		t.Fatal(err)
	}
	// shift preferred: id + id + id is parsed right-associative
	tree, err := p.ParseTree(scanner.SplitSentence("id + id + id"))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 3, len(tree.Children))
	assert.Equal(t, 1, len(tree.Children[0].Children), "left operand should be a single id")
	assert.Equal(t, 3, len(tree.Children[2].Children), "right operand should be id + id")
}

func TestEpsilonReductions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.clr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("Eps")
	b.LHS("S").N("A").T("b", 0).End()
	b.LHS("A").T("a", 0).N("A").End()
	b.LHS("A").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	p := compileGrammar(t, g)
	for input, accept := range map[string]bool{
		"b":     true,
		"a b":   true,
		"a a b": true,
		"a":     false,
		"b a":   false,
	} {
		if ok, _ := p.Parse(scanner.SplitSentence(input)); ok != accept {
			t.Errorf("expected %q to be accepted=%v", input, accept)
		}
	}
	tree, err := p.ParseTree(scanner.SplitSentence("a b"))
	if err != nil {
		t.Fatal(err)
	}
	// S ➞ A b,  A ➞ a A,  A ➞ ε
	eps := tree.Children[0].Children[1]
	assert.True(t, eps.Rule.IsEps())
	assert.Equal(t, 0, len(eps.Children))
	assert.Equal(t, lrkit.Span{1, 1}, eps.Span, "empty A should sit before b")
	assert.Equal(t, lrkit.Span{0, 2}, tree.Span)
}

func compileGrammar(t *testing.T, g *lr.Grammar) *Parser {
	ga, err := lr.Analysis(g)
	if err != nil {
		t.Fatal(err)
	}
	lrgen := lr.NewTableGenerator(ga)
	if err = lrgen.CreateTables(); err != nil {
		t.Fatal(err)
	}
	p, err := NewParser(lrgen)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func checkSentences(t *testing.T, p *Parser, sentences map[string]bool) {
	for input, accept := range sentences {
		ok, err := p.Parse(scanner.SplitSentence(input))
		if ok != accept {
			t.Errorf("%s: expected %q to be accepted=%v, error = %v", p.Grammar().Name, input, accept, err)
		}
	}
}

// S ➞ C C,  C ➞ c C | d
func TestRightRecursiveGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.clr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("CC")
	b.LHS("S").N("C").N("C").End()
	b.LHS("C").T("c", 0).N("C").End()
	b.LHS("C").T("d", 0).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	p := compileGrammar(t, g)
	checkSentences(t, p, map[string]bool{
		"d d":         true,
		"c d d":       true,
		"d c c d":     true,
		"c c d c d":   true,
		"":            false,
		"d":           false,
		"c c":         false,
		"d d d":       false,
		"c d c":       false,
		"d d c c d d": false,
	})
	ok, err := p.ParseSentence("d")
	var perr *ParseError
	if ok || !errors.As(err, &perr) {
		t.Fatalf("expected d to be rejected with a parse error, error = %v", err)
	}
	assert.Equal(t, 1, perr.Pos)
	assert.Equal(t, []string{"c", "d"}, names(perr.Expected))
}

// S ➞ ( S ) S | ε
func TestNestedNullableGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.clr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("Parens")
	b.LHS("S").T("(", 0).N("S").T(")", 0).N("S").End()
	b.LHS("S").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	checkSentences(t, compileGrammar(t, g), map[string]bool{
		"":                true,
		"( )":             true,
		"( ) ( )":         true,
		"( ( ) ) ( ( ) )": true,
		"(":               false,
		")":               false,
		"( ) )":           false,
		") (":             false,
	})
}
