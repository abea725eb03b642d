/*
Package ebnf reads grammars in textual form. The notation is the EBNF dialect
used for the Go language specification:

	Production  = name "=" [ Expression ] "." .
	Expression  = Alternative { "|" Alternative } .
	Alternative = Term { Term } .
	Term        = name | token [ "…" token ] | Group | Option | Repetition .
	Group       = "(" Expression ")" .
	Option      = "[" Expression "]" .
	Repetition  = "{" Expression "}" .

Groups, options and repetitions are replaced by fresh non-terminals, named
after the production they occur in:

	List = "[" [ Items ] "]" .      List   ➞ [ List~1 ]
	                                List~1 ➞ Items  |  ε

	Items = item { "," item } .     Items   ➞ item Items~1
	                                Items~1 ➞ Items~1 , item  |  ε

Repetitions are expanded left-recursive, which LR parsers handle without
growing the parse stack. Ranges ("a" … "z") describe lexical structure and are
not supported.

Names with a production are non-terminals. Quoted tokens are terminals, and so
are names starting with a lower case letter which do not have a production
(e.g., "id" or "number"); these usually denote token classes delivered by a
scanner and may be bound to a token type with option Bind. Tokens consisting of
a single rune are bound to that rune.

The rules of a grammar are numbered in the order of their appearance in the
source, followed by the rules for fresh non-terminals.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ebnf

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrkit.ebnf'.
func tracer() tracing.Trace {
	return tracing.Select("lrkit.ebnf")
}
