/*
Command lrkit is a workbench for LR(1) grammars. It reads a grammar in EBNF
notation (see package lr/ebnf) and

	lrkit first  grammar.ebnf              prints FIRST and FOLLOW sets
	lrkit tables grammar.ebnf              prints the ACTION and GOTO tables
	lrkit parse  grammar.ebnf word…        parses a sentence of terminals
	lrkit repl   grammar.ebnf              parses input lines interactively

Tables may be exported as HTML (--html dir) and the characteristic finite
state machine as a Graphviz file (--dot file).

Configuration is read from a file "lrkit.nt" (NestedText format) at the usual
configuration locations of the OS. Keys of interest are

	trace.lrkit.lr:        Debug
	lr.conflict-policy:    prefer-shift
	lr.max-states:         10000

Command line flags take precedence over configuration values.


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrkit.cmd'
func tracer() tracing.Trace {
	return tracing.Select("lrkit.cmd")
}
