package scanner

import (
	"strings"

	"github.com/npillmayer/lrkit"
)

// SentenceTokenizer delivers a sequence of words as tokens of type 0,
// i.e. tokens which parsers classify by lexeme only. Word i covers span
// (i…i+1). After the last word it delivers EOF tokens.
type SentenceTokenizer struct {
	words []string
	pos   int
}

var _ Tokenizer = (*SentenceTokenizer)(nil)

// Sentence creates a tokenizer for a sequence of words, usually terminal names.
func Sentence(words ...string) *SentenceTokenizer {
	return &SentenceTokenizer{words: words}
}

// SplitSentence creates a tokenizer for the white-space separated words of s.
func SplitSentence(s string) *SentenceTokenizer {
	return Sentence(strings.Fields(s)...)
}

// SetErrorHandler is part of the Tokenizer interface. A sentence tokenizer
// never reports errors.
func (s *SentenceTokenizer) SetErrorHandler(func(error)) {}

// NextToken is part of the Tokenizer interface.
func (s *SentenceTokenizer) NextToken() lrkit.Token {
	at := uint64(s.pos)
	if s.pos >= len(s.words) {
		return MakeDefaultToken(EOF, "", lrkit.Span{at, at})
	}
	w := s.words[s.pos]
	s.pos++
	return MakeDefaultToken(0, w, lrkit.Span{at, at + 1})
}
