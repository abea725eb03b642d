/*
Package clr provides a canonical LR(1)-parser. Clients have to use the tools
of package lr to prepare the necessary parse tables. The parser utilizes these
tables to create a right derivation for a given input, provided through a
scanner interface.

The main focus for this implementation is adaptability and on-the-fly usage.
Clients are able to construct the parse tables from a grammar and use the
parser directly, without a code-generation or compile step.

Usage

Clients construct a grammar, usually by using a grammar builder:

	b := lr.NewGrammarBuilder("Signed Variables Grammar")
	b.LHS("Var").N("Sign").T("a", scanner.Ident).End()  // Var  ➞ Sign Id
	b.LHS("Sign").T("+", '+').End()                     // Sign ➞ +
	b.LHS("Sign").T("-", '-').End()                     // Sign ➞ -
	b.LHS("Sign").Epsilon()                             // Sign ➞ ε
	g, err := b.Grammar()

This grammar is subjected to grammar analysis and table generation.

	ga, err := lr.Analysis(g)
	lrgen := lr.NewTableGenerator(ga)
	err = lrgen.CreateTables()  // *lr.ConflictError if g is not LR(1)

Finally parse some input:

	p, err := clr.NewParser(lrgen)
	scan := scanner.GoTokenizer("input", strings.NewReader("+a"))
	accepted, err := p.Parse(scan)

A rejected input results in accepted == false and an error of type
*clr.ParseError, which tells the state, the position and the set of terminals
the parser would have accepted instead.

Parsers are immutable and may be used concurrently: all state of a parse run
lives on the stack of the calling goroutine. Semantic actions are attached
per run by handing a Listener to Derive; the TreeBuilder listener creates
a parse tree.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package clr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrkit.clr'.
func tracer() tracing.Trace {
	return tracing.Select("lrkit.clr")
}
