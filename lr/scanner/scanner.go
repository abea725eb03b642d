/*
Package scanner defines an interface for scanners to be used with parsers of package lr.

Three default scanner implementations are provided: (1) a thin wrapper over the Go std lib
'text/scanner', (2) a tokenizer for sentences of pre-split words, and (3) an adapter for
lexmachine, living in sub-package `lexmach`.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"io"
	"text/scanner"

	"github.com/npillmayer/lrkit"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrkit.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("lrkit.scanner")
}

// EOF is identical to text/scanner.EOF.
// Token types are replicated here for practical reasons.
const (
	EOF       = scanner.EOF
	Ident     = scanner.Ident
	Int       = scanner.Int
	Float     = scanner.Float
	Char      = scanner.Char
	String    = scanner.String
	RawString = scanner.RawString
	Comment   = scanner.Comment
)

// IsTokenClass is true for the token types of text/scanner which denote a class
// of lexemes (identifiers, numbers, strings, …) rather than a fixed lexeme.
func IsTokenClass(t lrkit.TokType) bool {
	return t <= Ident && t >= Comment
}

// Tokenizer is a scanner interface. After the end of input has been reached,
// NextToken returns tokens of type EOF.
type Tokenizer interface {
	NextToken() lrkit.Token
	SetErrorHandler(func(error))
}

// DefaultTokenizer is a default implementation, backed by scanner.Scanner.
// Create one with GoTokenizer.
type DefaultTokenizer struct {
	scanner.Scanner
	lastToken    rune        // last token this scanner has produced
	Error        func(error) // error handler
	unifyStrings bool        // convert single chars to strings
}

var _ Tokenizer = (*DefaultTokenizer)(nil)

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// scanError adapts text/scanner's error callback to an error handler.
type scanError struct {
	pos scanner.Position
	msg string
}

func (e scanError) Error() string {
	return e.pos.String() + ": " + e.msg
}

// GoTokenizer creates a scanner/tokenizer accepting tokens similar to the Go language.
func GoTokenizer(sourceID string, input io.Reader, opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{}
	t.Error = logError
	t.Init(input)
	t.Filename = sourceID
	t.Scanner.Error = func(s *scanner.Scanner, msg string) {
		t.Error(scanError{pos: s.Position, msg: msg})
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetErrorHandler sets an error handler for the scanner.
func (t *DefaultTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// NextToken is part of the Tokenizer interface.
func (t *DefaultTokenizer) NextToken() lrkit.Token {
	t.lastToken = t.Scan()
	if t.lastToken == scanner.EOF {
		tracer().Debugf("DefaultTokenizer reached end of input")
	}
	if t.unifyStrings &&
		(t.lastToken == scanner.RawString || t.lastToken == scanner.Char) {
		t.lastToken = scanner.String
	}
	return DefaultToken{
		kind:   lrkit.TokType(t.lastToken),
		lexeme: t.TokenText(),
		span:   lrkit.Span{uint64(t.Position.Offset), uint64(t.Pos().Offset)},
	}
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, used as default for the Go
// tokenizer, the sentence tokenizer as well as the LexMachine scanner.
type DefaultToken struct {
	kind   lrkit.TokType
	lexeme string
	Val    interface{}
	span   lrkit.Span
}

// MakeDefaultToken creates a token.
func MakeDefaultToken(typ lrkit.TokType, lexeme string, span lrkit.Span) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

// TokType is part of the lrkit.Token interface.
func (t DefaultToken) TokType() lrkit.TokType {
	return t.kind
}

// Value is part of the lrkit.Token interface.
func (t DefaultToken) Value() interface{} {
	return t.Val
}

// Lexeme is part of the lrkit.Token interface.
func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

// Span is part of the lrkit.Token interface.
func (t DefaultToken) Span() lrkit.Span {
	return t.span
}

// --- Scanner options for the default (Go) tokenizer ---------------------------

// Option configures a default tokenizer.
type Option func(p *DefaultTokenizer)

// SkipComments sets or clears mode-flag SkipComments.
func SkipComments(b bool) Option {
	return func(t *DefaultTokenizer) {
		if b {
			t.Mode |= scanner.SkipComments
		} else {
			t.Mode &^= scanner.SkipComments
		}
	}
}

// UnifyStrings sets or clears option UnifyStrings:
// treat raw strings and single chars as strings.
func UnifyStrings(b bool) Option {
	return func(t *DefaultTokenizer) {
		t.unifyStrings = b
	}
}
