package lr

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/gconf"
)

// ConflictPolicy determines how table construction deals with conflicting
// entries in the ACTION table.
type ConflictPolicy int8

const (
	// Strict lets table construction fail on any conflict.
	Strict ConflictPolicy = iota
	// PreferShift resolves shift/reduce conflicts by shifting and
	// reduce/reduce conflicts by reducing the earliest declared rule.
	PreferShift
)

func (p ConflictPolicy) String() string {
	if p == PreferShift {
		return "prefer-shift"
	}
	return "strict"
}

// ParseConflictPolicy returns the policy with name s ("strict" or "prefer-shift").
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return Strict, nil
	case "prefer-shift", "prefershift", "shift":
		return PreferShift, nil
	}
	return Strict, fmt.Errorf("unknown conflict policy %q", s)
}

// Configuration keys, read with gconf.
const (
	ConfMaxStates       = "lr.max-states"
	ConfMaxClosureItems = "lr.max-closure-items"
	ConfMaxFirstRounds  = "lr.max-first-rounds"
	ConfConflictPolicy  = "lr.conflict-policy"
)

type config struct {
	maxStates       int
	maxClosureItems int
	maxFirstRounds  int
	policy          ConflictPolicy
}

// Option configures grammar analysis and table construction.
type Option func(c *config)

// MaxStates sets an upper bound for the number of CFSM states.
func MaxStates(n int) Option {
	return func(c *config) {
		c.maxStates = n
	}
}

// MaxClosureItems sets an upper bound for the number of items of a single
// CFSM state.
func MaxClosureItems(n int) Option {
	return func(c *config) {
		c.maxClosureItems = n
	}
}

// MaxFirstRounds sets an upper bound for the number of rounds of the
// FIRST and FOLLOW fixpoint iterations.
func MaxFirstRounds(n int) Option {
	return func(c *config) {
		c.maxFirstRounds = n
	}
}

// WithConflictPolicy sets the policy for ACTION table conflicts.
func WithConflictPolicy(p ConflictPolicy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// defaultConfig returns the built-in defaults, overridden by global configuration.
func defaultConfig() config {
	c := config{
		maxStates:       50000,
		maxClosureItems: 100000,
		maxFirstRounds:  1000,
		policy:          Strict,
	}
	if gconf.IsSet(ConfMaxStates) {
		c.maxStates = gconf.GetInt(ConfMaxStates)
	}
	if gconf.IsSet(ConfMaxClosureItems) {
		c.maxClosureItems = gconf.GetInt(ConfMaxClosureItems)
	}
	if gconf.IsSet(ConfMaxFirstRounds) {
		c.maxFirstRounds = gconf.GetInt(ConfMaxFirstRounds)
	}
	if gconf.IsSet(ConfConflictPolicy) {
		p, err := ParseConflictPolicy(gconf.GetString(ConfConflictPolicy))
		if err != nil {
			tracer().Errorf("configuration: %v", err)
		} else {
			c.policy = p
		}
	}
	return c
}

func configure(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
