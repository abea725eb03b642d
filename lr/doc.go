/*
Package lr implements the construction of canonical LR(1) parser tables.

Building a Grammar

Grammars are specified either from an explicit list of productions, or by
using a grammar builder object. Clients add rules, consisting of non-terminal
symbols and terminals. Terminals may carry a token value of type int, which
binds them to token types of a scanner. Grammars may contain epsilon-productions.

Example:

    b := lr.NewGrammarBuilder("G")
    b.LHS("S").N("A").T("a", 1).End()  // S  ➞  A a
    b.LHS("A").N("B").N("D").End()     // A  ➞  B D
    b.LHS("B").T("b", 2).End()         // B  ➞  b
    b.LHS("B").Epsilon()               // B  ➞  ε
    b.LHS("D").T("d", 3).End()         // D  ➞  d
    b.LHS("D").Epsilon()               // D  ➞  ε
    g, err := b.Grammar()

The first LHS is the start symbol. Every grammar is augmented by a rule
S' ➞ S and carries an end-of-input marker, which defaults to "#eof" (bound to
text/scanner.EOF):

   g.Dump()

   0: S' ➞ S
   1: S ➞ A a
   2: A ➞ B D
   3: B ➞ b
   4: B ➞ ε
   5: D ➞ d
   6: D ➞ ε

The same grammar may be constructed with NewGrammar from a list of
Production values, a start symbol and an end-of-input marker.

Static Grammar Analysis

After the grammar is complete, it has to be analysed. For this end, the
grammar is subjected to an LRAnalysis object, which computes FIRST and
FOLLOW sets for the grammar. FIRST sets drive the lookahead computation of
LR(1) items; FOLLOW sets are available for diagnostics.

    ga, err := lr.Analysis(g)
    ga.Grammar().EachNonTerminal(
        func(N *lr.Symbol) interface{} {
            fmt.Printf("FIRST(%s) = %v", N, ga.First(N))
            return nil
        })

Parser Construction

Using grammar analysis as input, the canonical collection of LR(1) item sets
is built. It is represented as a characteristic finite state machine (CFSM),
which is then transformed into a GOTO table and an ACTION table.
The CFSM will not be thrown away, but is made available to the client. This is
intended for debugging purposes. It can be exported to Graphviz's Dot-format.

    lrgen := lr.NewTableGenerator(ga)
    if err := lrgen.CreateTables(); err != nil {
        …  // *lr.ConflictError if the grammar is not LR(1)
    }

By default, any shift/reduce or reduce/reduce conflict makes table
construction fail. With option WithConflictPolicy(PreferShift) conflicts are
resolved deterministically: shift wins over reduce, and the earliest declared
rule wins over later ones.

Tables are immutable after construction and may be shared between any number
of concurrently running parsers (see package lr/clr).

Configuration

Limits and the conflict policy may be set with options or globally with
schuko/gconf keys

    lr.max-states          upper bound for the number of CFSM states
    lr.max-closure-items   upper bound for the size of a single item set
    lr.max-first-rounds    upper bound for FIRST/FOLLOW fixpoint rounds
    lr.conflict-policy     "strict" or "prefer-shift"

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrkit.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrkit.lr")
}

func debugging() bool {
	return tracer().GetTraceLevel() >= tracing.LevelDebug
}
