package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/lrkit/lr/clr"
	"github.com/npillmayer/lrkit/lr/scanner"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	input *string
	tree  *bool
	steps *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "parse <grammar file> [word...]",
		Short: "Parse a sentence",
		Long: `Parse a sentence of terminal names, or an input text with --input.
Input text is tokenized like Go source; use --bind to bind terminals
to token classes (identifiers, numbers, strings).`,
		Example: `  lrkit parse expr.ebnf id + id
  lrkit parse expr.ebnf --bind id=ident --input "a * (b + c)"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runParse,
	}
	parseFlags.input = cmd.Flags().StringP("input", "i", "", "input text (default: words given as arguments)")
	parseFlags.tree = cmd.Flags().Bool("tree", true, "print the parse tree")
	parseFlags.steps = cmd.Flags().Bool("steps", false, "print the steps of the parser")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	g, err := loadGrammar(args[0])
	if err != nil {
		return err
	}
	lrgen, err := compile(g)
	if err != nil {
		return err
	}
	var opts []clr.Option
	if *parseFlags.steps {
		opts = append(opts, clr.WithTrace(printStep))
	}
	p, err := clr.NewParser(lrgen, opts...)
	if err != nil {
		return err
	}
	var scan scanner.Tokenizer
	if *parseFlags.input != "" {
		scan = goTokenizer("input", *parseFlags.input)
	} else {
		scan = scanner.Sentence(args[1:]...)
	}
	return report(p, scan, *parseFlags.tree)
}

// report parses the input and prints the verdict, and optionally the parse tree.
// Rejected input results in errRejected.
func report(p *clr.Parser, scan scanner.Tokenizer, showTree bool) error {
	tree, err := p.ParseTree(scan)
	if err != nil {
		var perr *clr.ParseError
		if errors.As(err, &perr) {
			pterm.Error.Println(perr.Error())
			return errRejected
		}
		return err
	}
	pterm.Success.Println("accepted")
	if showTree {
		pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(leveledList(tree))).Render()
	}
	return nil
}

func leveledList(tree *clr.Node) pterm.LeveledList {
	var ll pterm.LeveledList
	tree.Walk(func(n *clr.Node, depth int) {
		ll = append(ll, pterm.LeveledListItem{Level: depth, Text: nodeLabel(n)})
		if n.Rule != nil && n.Rule.IsEps() {
			ll = append(ll, pterm.LeveledListItem{Level: depth + 1, Text: "ε"})
		}
	})
	return ll
}

func nodeLabel(n *clr.Node) string {
	if n.Token == nil || n.Token.Lexeme() == n.Symbol.Name {
		return n.Symbol.Name
	}
	return fmt.Sprintf("%s %q", n.Symbol.Name, n.Token.Lexeme())
}

func printStep(s clr.Step) {
	symbols := make([]string, len(s.Symbols))
	for i, A := range s.Symbols {
		symbols[i] = A.Name
	}
	pterm.Printf("%-24v %-24s %-8s %v\n", s.States, strings.Join(symbols, " "), s.Lookahead.Name, s.Action)
}
