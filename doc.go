/*
Package lrkit is a canonical LR(1) parsing toolbox.

lrkit compiles a context-free grammar into a deterministic LR(1) automaton and
drives the resulting ACTION/GOTO tables against a stream of classified tokens.
Package structure is as follows:

■ lr: Package lr holds the grammar model and the table construction machinery:
FIRST sets, LR(1) closure, the canonical collection of item sets and the
compilation of ACTION and GOTO tables.

■ lr/clr: Package clr implements the shift-reduce parse engine.

■ lr/ebnf: Package ebnf loads grammars from EBNF text.

■ lr/scanner: Package scanner defines the token source the parser reads from.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lrkit
