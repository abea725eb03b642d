package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/npillmayer/lrkit/lr"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var tablesFlags = struct {
	html *string
	dot  *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "tables <grammar file>",
		Short:   "Print the LR(1) parse tables of a grammar",
		Example: `  lrkit tables expr.ebnf --html ./out --dot expr.dot`,
		Args:    cobra.ExactArgs(1),
		RunE:    runTables,
	}
	tablesFlags.html = cmd.Flags().String("html", "", "directory to write ACTION and GOTO tables to as HTML")
	tablesFlags.dot = cmd.Flags().String("dot", "", "file to write the LR(1) automaton to in Graphviz format")
	rootCmd.AddCommand(cmd)
}

func runTables(cmd *cobra.Command, args []string) error {
	g, err := loadGrammar(args[0])
	if err != nil {
		return err
	}
	lrgen, err := compile(g)
	if err != nil {
		return err
	}
	pterm.DefaultSection.Println("Rules")
	for i := 0; i < g.Size(); i++ {
		pterm.Printf("%4d  %v\n", i, g.Rule(i))
	}
	pterm.DefaultSection.Printf("ACTION and GOTO (%d states)\n", lrgen.CFSM().Size())
	pterm.DefaultTable.WithHasHeader().WithData(parseTable(lrgen)).Render()
	if *tablesFlags.html != "" {
		if err := writeHTML(lrgen, *tablesFlags.html); err != nil {
			return err
		}
	}
	if *tablesFlags.dot != "" {
		err := writeFile(*tablesFlags.dot, func(w io.Writer) error {
			return lrgen.CFSM().CFSM2GraphViz(w)
		})
		if err != nil {
			return err
		}
		pterm.Info.Printf("automaton written to %s\n", *tablesFlags.dot)
	}
	return nil
}

// parseTable has one row per state. Columns are the terminals (ACTION)
// followed by the non-terminals (GOTO).
func parseTable(lrgen *lr.TableGenerator) pterm.TableData {
	g := lrgen.Grammar()
	var cols []*lr.Symbol
	g.EachTerminal(func(A *lr.Symbol) interface{} {
		cols = append(cols, A)
		return nil
	})
	g.EachNonTerminal(func(A *lr.Symbol) interface{} {
		if A != g.Rule(0).LHS {
			cols = append(cols, A)
		}
		return nil
	})
	header := []string{"state"}
	for _, A := range cols {
		header = append(header, A.Name)
	}
	data := pterm.TableData{header}
	for state := 0; state < lrgen.CFSM().Size(); state++ {
		row := []string{fmt.Sprintf("%d", state)}
		for _, A := range cols {
			row = append(row, lrgen.Cell(state, A))
		}
		data = append(data, row)
	}
	return data
}

func writeHTML(lrgen *lr.TableGenerator, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	name := lrgen.Grammar().Name
	actionFile := filepath.Join(dir, name+"-action.html")
	if err := writeFile(actionFile, func(w io.Writer) error {
		return lr.ActionTableAsHTML(lrgen, w)
	}); err != nil {
		return err
	}
	gotoFile := filepath.Join(dir, name+"-goto.html")
	if err := writeFile(gotoFile, func(w io.Writer) error {
		return lr.GotoTableAsHTML(lrgen, w)
	}); err != nil {
		return err
	}
	pterm.Info.Printf("tables written to %s and %s\n", actionFile, gotoFile)
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
