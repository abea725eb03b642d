package lexmach

import (
	"testing"

	"github.com/npillmayer/lrkit/lr"
	"github.com/npillmayer/lrkit/lr/clr"
	"github.com/npillmayer/lrkit/lr/scanner"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/timtadh/lexmachine"
)

// --- Scanning for a grammar ------------------------------------------------

func statementGrammar(t *testing.T) *lr.Grammar {
	b := lr.NewGrammarBuilder("Statements")
	b.LHS("S").T("let", 0).T("id", scanner.Ident).T("=", '=').N("E").End()
	b.LHS("E").N("E").T("+", '+').T("id", scanner.Ident).End()
	b.LHS("E").T("id", scanner.Ident).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func statementScanner(t *testing.T, g *lr.Grammar) *LMAdapter {
	LM, err := ForGrammar(g, func(lexer *lexmachine.Lexer) {
		lexer.Add([]byte(`//[^\n]*\n?`), Skip)
		lexer.Add([]byte(`[a-z][a-z0-9]*`), MakeToken("id", scanner.Ident))
		lexer.Add([]byte(`( |\t|\n)+`), Skip)
	})
	if err != nil {
		t.Fatal(err)
	}
	return LM
}

func TestScanForGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.scanner")
	defer teardown()
	//
	g := statementGrammar(t)
	_, _, ids := GrammarTokens(g)
	sc, err := statementScanner(t, g).Scanner("let x = a // sum\n + b")
	if err != nil {
		t.Fatal(err)
	}
	expected := []struct {
		lexeme string
		typ    int
		from   uint64
	}{
		{"let", ids["let"], 0},
		{"x", scanner.Ident, 4},
		{"=", '=', 6},
		{"a", scanner.Ident, 8},
		{"+", '+', 18},
		{"b", scanner.Ident, 20},
	}
	for _, x := range expected {
		token := sc.NextToken()
		t.Logf(" %6d | %5s | @%3d", token.TokType(), token.Lexeme(), token.Span().From())
		if token.Lexeme() != x.lexeme || int(token.TokType()) != x.typ {
			t.Errorf("expected token %q of type %d, have %q of type %d",
				x.lexeme, x.typ, token.Lexeme(), token.TokType())
		}
		if span := token.Span(); span.From() != x.from || span.Len() != uint64(len(x.lexeme)) {
			t.Errorf("expected %q at %d, have span %v", x.lexeme, x.from, span)
		}
	}
	token := sc.NextToken()
	if token.TokType() != scanner.EOF {
		t.Fatalf("expected end of input, have %q", token.Lexeme())
	}
	if token.Span().From() != 21 || token.Span().Len() != 0 {
		t.Errorf("expected EOF at position 21, is %v", token.Span())
	}
	if token = sc.NextToken(); token.TokType() != scanner.EOF {
		t.Errorf("expected scanner to stay at end of input")
	}
}

func TestGrammarTokens(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.scanner")
	defer teardown()
	//
	lits, kws, ids := GrammarTokens(statementGrammar(t))
	if len(lits) != 2 || lits[0] != "+" || lits[1] != "=" {
		t.Errorf("expected literals [+ =], have %v", lits)
	}
	if len(kws) != 1 || kws[0] != "let" {
		t.Errorf("expected keywords [let], have %v", kws)
	}
	if ids["id"] != scanner.Ident || ids["+"] != '+' || ids["let"] == 0 {
		t.Errorf("unexpected token IDs %v", ids)
	}
}

func TestParseWithLexmachine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrkit.scanner", "lrkit.clr")
	defer teardown()
	//
	g := statementGrammar(t)
	ga, err := lr.Analysis(g)
	if err != nil {
		t.Fatal(err)
	}
	lrgen := lr.NewTableGenerator(ga)
	if err = lrgen.CreateTables(); err != nil {
		t.Fatal(err)
	}
	parser, err := clr.NewParser(lrgen)
	if err != nil {
		t.Fatal(err)
	}
	LM := statementScanner(t, g)
	for input, accept := range map[string]bool{
		"let x = a + b":   true,
		"let let = a":     false,
		"let x = a + + b": false,
		"let letter = a":  true,
		"let x = a // b":  true,
	} {
		sc, err := LM.Scanner(input)
		if err != nil {
			t.Fatal(err)
		}
		ok, err := parser.Parse(sc)
		if ok != accept {
			t.Errorf("expected %q to be accepted=%v, error is %v", input, accept, err)
		}
	}
}
