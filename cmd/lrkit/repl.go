package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/lrkit/lr"
	"github.com/npillmayer/lrkit/lr/clr"
	"github.com/npillmayer/lrkit/lr/scanner"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var replFlags = struct {
	init  *string
	words *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "repl <grammar file>",
		Short: "Parse input lines interactively",
		Long: `Start an interactive loop which parses every input line. Lines starting
with a colon are commands, enter :help for a list. Quit with <ctrl>D.`,
		Example: `  lrkit repl expr.ebnf --bind id=ident`,
		Args:    cobra.ExactArgs(1),
		RunE:    runRepl,
	}
	replFlags.init = cmd.Flags().String("init", "", "file with input lines to process first")
	replFlags.words = cmd.Flags().Bool("words", false, "read lines as sentences of terminal names")
	rootCmd.AddCommand(cmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	g, err := loadGrammar(args[0])
	if err != nil {
		return err
	}
	lrgen, err := compile(g)
	if err != nil {
		return err
	}
	intp, err := NewIntp(lrgen)
	if err != nil {
		return err
	}
	intp.words = *replFlags.words
	repl, err := readline.New(g.Name + "> ")
	if err != nil {
		return err
	}
	defer repl.Close()
	intp.repl = repl
	pterm.Info.Printf("Grammar %q with %d rules, quit with <ctrl>D\n", g.Name, g.Size())
	intp.loadInitFile(*replFlags.init)
	intp.REPL()
	return nil
}

// Intp is our interpreter object
type Intp struct {
	lrgen  *lr.TableGenerator
	parser *clr.Parser // plain parser
	tracer *clr.Parser // parser printing its steps
	repl   *readline.Instance
	words  bool // lines are sentences of terminal names
	steps  bool
	tree   bool
}

// NewIntp creates an interpreter for the parse tables of lrgen.
func NewIntp(lrgen *lr.TableGenerator) (*Intp, error) {
	intp := &Intp{lrgen: lrgen, tree: true}
	var err error
	if intp.parser, err = clr.NewParser(lrgen); err != nil {
		return nil, err
	}
	if intp.tracer, err = clr.NewParser(lrgen, clr.WithTrace(printStep)); err != nil {
		return nil, err
	}
	return intp, nil
}

func (intp *Intp) loadInitFile(filename string) {
	if filename == "" {
		return
	}
	f, err := os.Open(filename)
	if err != nil {
		tracer().Errorf("Unable to open init file: %s", filename)
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if _, err := intp.Eval(line); err != nil && !errors.Is(err, errRejected) {
			tracer().Errorf("Error line %d: %v", lineno, err)
		}
	}
	if err := scanner.Err(); err != nil {
		tracer().Errorf("Error while reading init file: %v", err)
	}
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.Eval(line)
		if err != nil && !errors.Is(err, errRejected) {
			pterm.Error.Println(err.Error())
		}
		if quit {
			break
		}
	}
	pterm.Println("Good bye!")
}

// Eval parses a line of input or executes a command, if the line starts
// with a colon. It returns true if the user wants to quit.
func (intp *Intp) Eval(line string) (bool, error) {
	if strings.HasPrefix(line, ":") {
		return intp.command(strings.Fields(line[1:]))
	}
	p := intp.parser
	if intp.steps {
		p = intp.tracer
	}
	var scan scanner.Tokenizer
	if intp.words {
		scan = scanner.SplitSentence(line)
	} else {
		scan = goTokenizer("line", line)
	}
	return false, report(p, scan, intp.tree)
}

func (intp *Intp) command(args []string) (bool, error) {
	if len(args) == 0 {
		return false, fmt.Errorf("missing command, try :help")
	}
	switch args[0] {
	case "q", "quit":
		return true, nil
	case "words":
		intp.words = !intp.words
		pterm.Info.Printf("sentence mode is %s\n", onOff(intp.words))
	case "steps":
		intp.steps = !intp.steps
		pterm.Info.Printf("step display is %s\n", onOff(intp.steps))
	case "tree":
		intp.tree = !intp.tree
		pterm.Info.Printf("tree display is %s\n", onOff(intp.tree))
	case "rules":
		g := intp.lrgen.Grammar()
		for i := 0; i < g.Size(); i++ {
			pterm.Printf("%4d  %v\n", i, g.Rule(i))
		}
	case "first":
		pterm.DefaultTable.WithHasHeader().WithData(firstSetTable(intp.lrgen.Analysis())).Render()
	case "help":
		pterm.Println(`:words   toggle between Go-like tokens and sentences of terminal names
:steps   toggle display of parser steps
:tree    toggle display of parse trees
:rules   print the grammar rules
:first   print FIRST and FOLLOW sets
:quit    leave`)
	default:
		return false, fmt.Errorf("unknown command :%s, try :help", args[0])
	}
	return false, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
