package lr

import (
	"golang.org/x/tools/container/intsets"
)

// epsilonElem represents ε within FIRST sets, which otherwise hold terminal IDs.
const epsilonElem = -1

// LRAnalysis is an object for grammar analysis (compute FIRST and FOLLOW sets).
type LRAnalysis struct {
	g      *Grammar
	conf   config
	first  map[*Symbol]*intsets.Sparse
	follow map[*Symbol]*intsets.Sparse
	rounds int // number of rounds needed for the FIRST fixpoint
}

// Analysis creates an analysis object for a grammar and computes FIRST and
// FOLLOW sets. The analysis object is immutable afterwards.
func Analysis(g *Grammar, opts ...Option) (*LRAnalysis, error) {
	ga := &LRAnalysis{
		g:      g,
		conf:   configure(opts),
		first:  make(map[*Symbol]*intsets.Sparse, len(g.symbols)),
		follow: make(map[*Symbol]*intsets.Sparse, len(g.nonterminals)),
	}
	if err := ga.computeFirst(); err != nil {
		return nil, err
	}
	if err := ga.computeFollow(); err != nil {
		return nil, err
	}
	return ga, nil
}

// Grammar returns the grammar this analyser operates on.
func (ga *LRAnalysis) Grammar() *Grammar {
	return ga.g
}

func (ga *LRAnalysis) computeFirst() error {
	ga.g.EachSymbol(func(A *Symbol) interface{} {
		F := &intsets.Sparse{}
		if A.IsTerminal() {
			F.Insert(A.ID)
		}
		ga.first[A] = F
		return nil
	})
	ga.rounds = 0
	for changed := true; changed; {
		if ga.rounds >= ga.conf.maxFirstRounds {
			return &LimitError{Limit: ConfMaxFirstRounds, Value: ga.conf.maxFirstRounds}
		}
		ga.rounds++
		changed = ga.firstRound()
	}
	tracer().Debugf("FIRST sets stable after %d rounds", ga.rounds)
	return nil
}

// firstRound recomputes FIRST(A) for every non-terminal A from the current
// FIRST sets. Returns true if any set has grown.
func (ga *LRAnalysis) firstRound() bool {
	changed := false
	for _, r := range ga.g.rules {
		if grow(ga.first[r.LHS], ga.firstOfSeq(r.rhs)) {
			changed = true
		}
	}
	return changed
}

// grow adds all elements of X to S and reports whether S has grown.
// The return value of UnionWith signals any change of the underlying
// bit blocks, even if S already was a superset of X.
func grow(S, X *intsets.Sparse) bool {
	n := S.Len()
	S.UnionWith(X)
	return S.Len() != n
}

// firstOfSeq folds FIRST sets over a sequence of symbols. The result contains
// epsilonElem if the whole sequence is nullable.
func (ga *LRAnalysis) firstOfSeq(seq []*Symbol) *intsets.Sparse {
	R := &intsets.Sparse{}
	for _, A := range seq {
		F := ga.first[A]
		R.UnionWith(F)
		R.Remove(epsilonElem)
		if !F.Has(epsilonElem) {
			return R
		}
	}
	R.Insert(epsilonElem)
	return R
}

// FOLLOW(S') = { $ }; for every rule A ➞ α B β, FOLLOW(B) receives FIRST(β)
// without ε, and FOLLOW(A) if β is nullable.
func (ga *LRAnalysis) computeFollow() error {
	ga.g.EachNonTerminal(func(A *Symbol) interface{} {
		ga.follow[A] = &intsets.Sparse{}
		return nil
	})
	ga.follow[ga.g.rules[0].LHS].Insert(ga.g.eof.ID)
	rounds := 0
	for changed := true; changed; {
		if rounds >= ga.conf.maxFirstRounds {
			return &LimitError{Limit: ConfMaxFirstRounds, Value: ga.conf.maxFirstRounds}
		}
		rounds++
		changed = false
		for _, r := range ga.g.rules {
			for i, B := range r.rhs {
				if B.IsTerminal() {
					continue
				}
				F := ga.firstOfSeq(r.rhs[i+1:])
				nullable := F.Has(epsilonElem)
				F.Remove(epsilonElem)
				if nullable {
					F.UnionWith(ga.follow[r.LHS])
				}
				if grow(ga.follow[B], F) {
					changed = true
				}
			}
		}
	}
	tracer().Debugf("FOLLOW sets stable after %d rounds", rounds)
	return nil
}

// First returns FIRST(A), sorted by symbol order. If A derives the empty
// word, the result ends with ε.
func (ga *LRAnalysis) First(A *Symbol) []*Symbol {
	F, ok := ga.first[A]
	if !ok {
		return nil
	}
	return ga.symbolsOf(F)
}

// FirstString returns FIRST of a sequence of symbols, sorted by symbol order.
// The FIRST set of an empty sequence is { ε }.
func (ga *LRAnalysis) FirstString(seq ...*Symbol) []*Symbol {
	for _, A := range seq {
		if _, ok := ga.first[A]; !ok && !A.IsEpsilon() {
			tracer().Errorf("symbol %v is not part of grammar %q", A, ga.g.Name)
			return nil
		}
	}
	seq = withoutEpsilon(seq)
	return ga.symbolsOf(ga.firstOfSeq(seq))
}

// Follow returns FOLLOW(A), sorted by symbol order.
func (ga *LRAnalysis) Follow(A *Symbol) []*Symbol {
	F, ok := ga.follow[A]
	if !ok {
		return nil
	}
	return ga.symbolsOf(F)
}

// Nullable is true if A derives the empty word.
func (ga *LRAnalysis) Nullable(A *Symbol) bool {
	if F, ok := ga.first[A]; ok {
		return F.Has(epsilonElem)
	}
	return A.IsEpsilon()
}

func (ga *LRAnalysis) symbolsOf(S *intsets.Sparse) []*Symbol {
	ids := S.AppendTo(make([]int, 0, S.Len()))
	syms := make([]*Symbol, 0, len(ids))
	eps := false
	for _, id := range ids {
		if id == epsilonElem {
			eps = true
			continue
		}
		syms = append(syms, ga.g.SymbolByID(id))
	}
	if eps {
		syms = append(syms, ga.g.epsilon)
	}
	return syms
}

func withoutEpsilon(seq []*Symbol) []*Symbol {
	r := make([]*Symbol, 0, len(seq))
	for _, A := range seq {
		if !A.IsEpsilon() {
			r = append(r, A)
		}
	}
	return r
}
