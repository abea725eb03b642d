package lexmach

import (
	"strings"
	"unicode"

	"github.com/npillmayer/lrkit"
	"github.com/npillmayer/lrkit/lr"
	"github.com/npillmayer/lrkit/lr/scanner"
	"github.com/npillmayer/schuko/tracing"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// lexmachine adapter

// tracer traces with key 'lrkit.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("lrkit.scanner")
}

// LMAdapter is a lexmachine adapter to use lexmachine as a scanner.
type LMAdapter struct {
	Lexer *lexmachine.Lexer
}

// NewLMAdapter creates a new lexmachine adapter. It receives a list of
// literals ('[', ';', …), a list of keywords ("if", "for", …) and a
// map for translating token strings to their values. Literals and keywords
// take precedence over the patterns added by init.
//
// NewLMAdapter will return an error if compiling the DFA failed.
func NewLMAdapter(init func(*lexmachine.Lexer), literals []string, keywords []string,
	tokenIds map[string]int) (*LMAdapter, error) {
	//
	adapter := &LMAdapter{}
	adapter.Lexer = lexmachine.NewLexer()
	for _, lit := range literals {
		r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
		adapter.Lexer.Add([]byte(r), MakeToken(lit, tokenIds[lit]))
	}
	for _, name := range keywords {
		adapter.Lexer.Add([]byte(strings.ToLower(name)), MakeToken(name, tokenIds[name]))
	}
	if init != nil { // on matches of equal length, patterns added first win
		init(adapter.Lexer)
	}
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// GrammarTokens derives literals, keywords and token IDs from the terminals
// of a grammar. Terminals bound to a token class of package scanner (Ident,
// Int, String, …) are left to the regular expressions of the client's init
// function. Other terminals consisting of letters become keywords, terminals
// consisting of punctuation become literals. Unbound terminals are assigned
// fresh token IDs; parsers classify them by lexeme anyway.
func GrammarTokens(g *lr.Grammar) (literals []string, keywords []string, tokenIds map[string]int) {
	tokenIds = make(map[string]int)
	fresh := 1 << 16
	g.EachTerminal(func(T *lr.Symbol) interface{} {
		if T == g.EOF() {
			return nil
		}
		if T.Value != 0 && scanner.IsTokenClass(T.TokenType()) {
			tokenIds[T.Name] = T.Value
			return nil
		}
		switch {
		case isWord(T.Name):
			keywords = append(keywords, T.Name)
		case isPunct(T.Name):
			literals = append(literals, T.Name)
		default:
			tracer().Infof("terminal %q is neither a keyword nor a literal", T.Name)
			return nil
		}
		if T.Value != 0 {
			tokenIds[T.Name] = T.Value
		} else {
			tokenIds[T.Name] = fresh + T.ID
		}
		return nil
	})
	return
}

func isWord(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '_'
	}) < 0
}

func isPunct(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsPunct(r) && !unicode.IsSymbol(r)
	}) < 0
}

// ForGrammar creates an adapter recognizing the keywords and literals of a
// grammar (see GrammarTokens). Token classes are recognized by init.
func ForGrammar(g *lr.Grammar, init func(*lexmachine.Lexer)) (*LMAdapter, error) {
	literals, keywords, tokenIds := GrammarTokens(g)
	return NewLMAdapter(init, literals, keywords, tokenIds)
}

// Scanner creates a scanner for a given input. The scanner will implement the
// Tokenizer interface.
func (lm *LMAdapter) Scanner(input string) (*LMScanner, error) {
	s, err := lm.Lexer.Scanner([]byte(input))
	if err != nil {
		return &LMScanner{}, err
	}
	return &LMScanner{scanner: s, Error: logError, length: uint64(len(input))}, nil
}

// LMScanner is a scanner type for lexmachine scanners, implementing the
// Tokenizer interface.
type LMScanner struct {
	scanner *lexmachine.Scanner
	Error   func(error)
	length  uint64 // length of input in bytes
}

var _ scanner.Tokenizer = (*LMScanner)(nil)

// SetErrorHandler sets an error handler for the scanner.
func (lms *LMScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		lms.Error = logError
		return
	}
	lms.Error = h
}

// Default error reporting function for lexmachine-based scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// NextToken is part of the Tokenizer interface. Unconsumable input is
// reported to the error handler and skipped.
func (lms *LMScanner) NextToken() lrkit.Token {
	if lms.scanner == nil {
		return scanner.MakeDefaultToken(scanner.EOF, "", lrkit.Span{})
	}
	tok, err, eof := lms.scanner.Next()
	for err != nil {
		lms.Error(err)
		if ui, is := err.(*machines.UnconsumedInput); is {
			lms.scanner.TC = ui.FailTC
		}
		tok, err, eof = lms.scanner.Next()
	}
	if eof {
		return scanner.MakeDefaultToken(scanner.EOF, "", lrkit.Span{lms.length, lms.length})
	}
	token := tok.(*lexmachine.Token)
	tracer().Debugf("token %d | %q", token.Type, token.Lexeme)
	from := uint64(token.TC)
	return scanner.MakeDefaultToken(
		lrkit.TokType(token.Type),
		string(token.Lexeme),
		lrkit.Span{from, from + uint64(len(token.Lexeme))},
	)
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token.
func MakeToken(name string, id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}
