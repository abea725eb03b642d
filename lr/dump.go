package lr

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// === Graphviz ==============================================================

// CFSM2GraphViz exports a CFSM to the Graphviz Dot format.
func (c *CFSM) CFSM2GraphViz(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	it := c.states.Iterator()
	for it.Next() {
		s := it.Value().(*CFSMState)
		bw.WriteString(fmt.Sprintf("s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, forGraphviz(s)))
	}
	it = c.edges.Iterator()
	for it.Next() {
		edge := it.Value().(*cfsmEdge)
		bw.WriteString(fmt.Sprintf("s%03d -> s%03d [label=\"%s\"]\n", edge.from.ID, edge.to.ID,
			escapeDot(edge.label.Name)))
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

func nodecolor(state *CFSMState) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

func forGraphviz(s *CFSMState) string {
	var b strings.Builder
	for _, item := range s.Items() {
		b.WriteString(escapeDot(item.String()))
		b.WriteString(`\l`)
	}
	return b.String()
}

var dotEscaper = strings.NewReplacer(`"`, `\"`, `{`, `\{`, `}`, `\}`, `|`, `\|`,
	`<`, `\<`, `>`, `\>`, `\`, `\\`)

func escapeDot(s string) string {
	return dotEscaper.Replace(s)
}

// === HTML ==================================================================

// GotoTableAsHTML exports a GOTO-table in HTML-format.
func GotoTableAsHTML(lrgen *TableGenerator, w io.Writer) error {
	if lrgen.gototable == nil {
		tracer().Errorf("GOTO table not yet created, cannot export to HTML")
		return fmt.Errorf("GOTO table for grammar %q not yet created", lrgen.g.Name)
	}
	return parserTableAsHTML(lrgen, "GOTO", lrgen.gototable, w)
}

// ActionTableAsHTML exports the LR(1) ACTION-table in HTML-format.
func ActionTableAsHTML(lrgen *TableGenerator, w io.Writer) error {
	if lrgen.actiontable == nil {
		tracer().Errorf("ACTION table not yet created, cannot export to HTML")
		return fmt.Errorf("ACTION table for grammar %q not yet created", lrgen.g.Name)
	}
	return parserTableAsHTML(lrgen, "ACTION", lrgen.actiontable, w)
}

func parserTableAsHTML(lrgen *TableGenerator, tname string, table *Table, w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("<html><body>\n")
	bw.WriteString(fmt.Sprintf("%s table of size = %d<p>", tname, table.matrix.ValueCount()))
	bw.WriteString("<table border=1 cellspacing=0 cellpadding=5>\n")
	bw.WriteString("<tr bgcolor=#cccccc><td></td>\n")
	var symvec []*Symbol
	lrgen.g.EachSymbol(func(A *Symbol) interface{} {
		if A.IsTerminal() == (tname == "ACTION") {
			bw.WriteString(fmt.Sprintf("<td>%s</td>", htmlEscaper.Replace(A.Name)))
			symvec = append(symvec, A)
		}
		return nil
	})
	bw.WriteString("</tr>\n")
	for state := 0; state < table.States(); state++ {
		bw.WriteString(fmt.Sprintf("<tr><td>state %d</td>\n", state))
		for _, A := range symvec {
			bw.WriteString("<td>")
			bw.WriteString(cellString(table, state, A, tname == "ACTION", "&nbsp;"))
			bw.WriteString("</td>\n")
		}
		bw.WriteString("</tr>\n")
	}
	bw.WriteString("</table></body></html>\n")
	return bw.Flush()
}

var htmlEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;")

// cellString stringifies a table entry. Entries with a secondary value
// (resolved conflicts) are printed as "primary/secondary".
func cellString(table *Table, state int, A *Symbol, isAction bool, empty string) string {
	v1, v2 := table.Values(state, A)
	if v1 == table.NullValue() {
		return empty
	}
	str := func(v int32) string {
		if !isAction {
			return fmt.Sprintf("%d", v)
		}
		switch a := decodeAction(v, table.NullValue()); a.Kind {
		case ShiftAction:
			return fmt.Sprintf("s%d", a.State)
		case ReduceAction:
			return fmt.Sprintf("r%d", a.Rule)
		case AcceptAction:
			return "acc"
		}
		return empty
	}
	if v2 == table.NullValue() {
		return str(v1)
	}
	return str(v1) + "/" + str(v2)
}

// Cell returns the ACTION entry (for terminals) or GOTO entry (for
// non-terminals) of a state as text, e.g. "s4", "r2", "acc" or "7", or ""
// for an empty entry. Resolved conflicts show as "s4/r2".
func (lrgen *TableGenerator) Cell(state int, A *Symbol) string {
	if !lrgen.Ready() || A == nil {
		return ""
	}
	if A.IsTerminal() {
		return cellString(lrgen.actiontable, state, A, true, "")
	}
	return cellString(lrgen.gototable, state, A, false, "")
}

// === Text Dumps ============================================================

// DumpTables writes the ACTION and GOTO tables as plain text, one row per
// state. Shift entries are printed as sN, reduce entries as rN.
func DumpTables(lrgen *TableGenerator, w io.Writer) error {
	if !lrgen.Ready() {
		return fmt.Errorf("tables for grammar %q not yet created", lrgen.g.Name)
	}
	bw := bufio.NewWriter(w)
	var header strings.Builder
	header.WriteString("state")
	var cols []*Symbol
	lrgen.g.EachSymbol(func(A *Symbol) interface{} {
		if A == lrgen.g.rules[0].LHS {
			return nil
		}
		cols = append(cols, A)
		header.WriteString(fmt.Sprintf(" %8s", A.Name))
		return nil
	})
	bw.WriteString(header.String())
	bw.WriteString("\n")
	for state := 0; state < lrgen.actiontable.States(); state++ {
		bw.WriteString(fmt.Sprintf("%5d", state))
		for _, A := range cols {
			var cell string
			if A.IsTerminal() {
				cell = cellString(lrgen.actiontable, state, A, true, ".")
			} else {
				cell = cellString(lrgen.gototable, state, A, false, ".")
			}
			bw.WriteString(fmt.Sprintf(" %8s", cell))
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// DumpFirstSets writes FIRST and FOLLOW sets of all non-terminals.
func (ga *LRAnalysis) DumpFirstSets(w io.Writer) error {
	bw := bufio.NewWriter(w)
	ga.g.EachNonTerminal(func(N *Symbol) interface{} {
		bw.WriteString(fmt.Sprintf("FIRST(%s) = %s\n", N, symbolList(ga.First(N))))
		return nil
	})
	ga.g.EachNonTerminal(func(N *Symbol) interface{} {
		bw.WriteString(fmt.Sprintf("FOLLOW(%s) = %s\n", N, symbolList(ga.Follow(N))))
		return nil
	})
	return bw.Flush()
}

func symbolList(syms []*Symbol) string {
	names := make([]string, len(syms))
	for i, A := range syms {
		names[i] = A.Name
	}
	return "{ " + strings.Join(names, " ") + " }"
}
