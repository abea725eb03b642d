package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/npillmayer/lrkit/lr"
	"github.com/npillmayer/lrkit/lr/ebnf"
	"github.com/npillmayer/lrkit/lr/scanner"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	start     *string
	end       *string
	policy    *string
	trace     *string
	binds     *[]string
	maxStates *int
	comments  *bool
	unify     *bool
}{}

var rootCmd = &cobra.Command{
	Use:   "lrkit",
	Short: "Analyze LR(1) grammars and parse sentences",
	Long: `lrkit reads a grammar in EBNF notation and
- prints FIRST and FOLLOW sets of the grammar's non-terminals,
- prints or exports the canonical LR(1) ACTION and GOTO tables,
- parses sentences, from the command line or interactively.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	rootFlags.start = pf.String("start", "", "start symbol (default: left hand side of the first production)")
	rootFlags.end = pf.String("end", ebnf.DefaultEndMarker, "name of the end-of-input terminal")
	rootFlags.policy = pf.String("policy", "", "conflict policy [strict|prefer-shift]")
	rootFlags.trace = pf.String("trace", "", "trace level [Debug|Info|Error]")
	rootFlags.binds = pf.StringSlice("bind", nil, "bind terminals to token types, e.g. id=ident or semi=59")
	rootFlags.maxStates = pf.Int("max-states", 0, "upper bound for the number of LR(1) states")
	rootFlags.comments = pf.Bool("comments", false, "pass comments of input text to the parser (bind them with <name>=comment)")
	rootFlags.unify = pf.Bool("unify-strings", false, "read raw strings and character literals of input text as strings")
}

// errRejected signals a rejected input which has already been reported.
var errRejected = errors.New("input rejected")

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errRejected) {
		pterm.Error.Println(err.Error())
	}
	return err
}

// conf holds the application configuration. Values from a configuration
// file are overridden by command line flags.
var conf *koanfadapter.KConf

// tracerKeys are the tracers of lrkit's packages.
var tracerKeys = []string{"lrkit.lr", "lrkit.clr", "lrkit.ebnf", "lrkit.scanner", "lrkit.cmd"}

func setup(cmd *cobra.Command, args []string) error {
	initDisplay()
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf = koanfadapter.New(nil, "lrkit", []string{"nt"})
	gconf.Initialize(conf)
	if *rootFlags.trace != "" {
		for _, key := range tracerKeys {
			conf.Set("trace."+key, *rootFlags.trace)
		}
	}
	if *rootFlags.policy != "" {
		if _, err := lr.ParseConflictPolicy(*rootFlags.policy); err != nil {
			return err
		}
		conf.Set(lr.ConfConflictPolicy, *rootFlags.policy)
	}
	if *rootFlags.maxStates > 0 {
		conf.Set(lr.ConfMaxStates, *rootFlags.maxStates)
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	tracer().Debugf("configuration complete")
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// --- Grammars --------------------------------------------------------------

var tokenTypes = map[string]int{
	"ident":     scanner.Ident,
	"int":       scanner.Int,
	"float":     scanner.Float,
	"char":      scanner.Char,
	"string":    scanner.String,
	"rawstring": scanner.RawString,
	"comment":   scanner.Comment,
	"eof":       scanner.EOF,
}

// bindings converts "name=type" pairs to EBNF loader options. A type is
// either the name of a token class of package scanner or a number.
func bindings(binds []string) ([]ebnf.Option, error) {
	opts := make([]ebnf.Option, 0, len(binds))
	for _, b := range binds {
		kv := strings.SplitN(b, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			return nil, fmt.Errorf("illegal binding %q, expected name=type", b)
		}
		tok, ok := tokenTypes[strings.ToLower(kv[1])]
		if !ok {
			var err error
			if tok, err = strconv.Atoi(kv[1]); err != nil {
				return nil, fmt.Errorf("illegal token type in binding %q", b)
			}
		}
		opts = append(opts, ebnf.Bind(kv[0], tok))
	}
	return opts, nil
}

func loadGrammar(path string) (*lr.Grammar, error) {
	opts, err := bindings(*rootFlags.binds)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	g, err := ebnf.Load(name, f, *rootFlags.start, *rootFlags.end, opts...)
	if err != nil {
		return nil, err
	}
	g.Dump() // only visible in debug mode
	return g, nil
}

// compile creates the parse tables for a grammar. Conflicts are reported,
// whether they have been resolved or not.
func compile(g *lr.Grammar) (*lr.TableGenerator, error) {
	ga, err := lr.Analysis(g)
	if err != nil {
		return nil, err
	}
	lrgen := lr.NewTableGenerator(ga)
	err = lrgen.CreateTables()
	for _, c := range lrgen.Conflicts() {
		if err != nil {
			pterm.Warning.Println(c.String())
		} else {
			pterm.Warning.Println("resolved " + c.String())
		}
	}
	if err != nil {
		var cerr *lr.ConflictError
		if errors.As(err, &cerr) {
			return lrgen, fmt.Errorf("grammar %q is not LR(1), try --policy prefer-shift", g.Name)
		}
		return lrgen, err
	}
	tracer().Infof("grammar %q: %d states", g.Name, lrgen.CFSM().Size())
	return lrgen, nil
}

// goTokenizer creates a tokenizer for input text, configured by the
// global flags.
func goTokenizer(name string, input string) *scanner.DefaultTokenizer {
	return scanner.GoTokenizer(name, strings.NewReader(input),
		scanner.SkipComments(!*rootFlags.comments),
		scanner.UnifyStrings(*rootFlags.unify))
}
