package main

import (
	"strings"

	"github.com/npillmayer/lrkit/lr"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "first <grammar file>",
		Short:   "Print FIRST and FOLLOW sets of non-terminals",
		Example: `  lrkit first expr.ebnf --bind id=ident`,
		Args:    cobra.ExactArgs(1),
		RunE:    runFirst,
	}
	rootCmd.AddCommand(cmd)
}

func runFirst(cmd *cobra.Command, args []string) error {
	g, err := loadGrammar(args[0])
	if err != nil {
		return err
	}
	ga, err := lr.Analysis(g)
	if err != nil {
		return err
	}
	pterm.DefaultTable.WithHasHeader().WithData(firstSetTable(ga)).Render()
	return nil
}

func firstSetTable(ga *lr.LRAnalysis) pterm.TableData {
	g := ga.Grammar()
	data := pterm.TableData{{"Non-terminal", "FIRST", "FOLLOW", "Nullable"}}
	g.EachNonTerminal(func(N *lr.Symbol) interface{} {
		if N == g.Rule(0).LHS {
			return nil
		}
		nullable := ""
		if ga.Nullable(N) {
			nullable = "yes"
		}
		data = append(data, []string{N.Name, names(ga.First(N)), names(ga.Follow(N)), nullable})
		return nil
	})
	return data
}

func names(syms []*lr.Symbol) string {
	n := make([]string, len(syms))
	for i, A := range syms {
		n[i] = A.Name
	}
	return strings.Join(n, " ")
}
