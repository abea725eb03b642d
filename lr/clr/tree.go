package clr

import (
	"fmt"

	"github.com/npillmayer/lrkit"
	"github.com/npillmayer/lrkit/lr"
	"github.com/npillmayer/lrkit/lr/scanner"
)

// Node is a node of a parse tree. Leaves are terminals and carry their token,
// inner nodes carry the rule they have been reduced by.
type Node struct {
	Symbol   *lr.Symbol
	Rule     *lr.Rule
	Token    lrkit.Token
	Span     lrkit.Span
	Children []*Node
}

func (n *Node) String() string {
	if n.Token != nil {
		return fmt.Sprintf("%s %q %v", n.Symbol, n.Token.Lexeme(), n.Span)
	}
	return fmt.Sprintf("%s %v", n.Symbol, n.Span)
}

// Walk visits the nodes of a tree in pre-order, together with their depth.
func (n *Node) Walk(f func(node *Node, depth int)) {
	n.walk(f, 0)
}

func (n *Node) walk(f func(*Node, int), depth int) {
	f(n, depth)
	for _, ch := range n.Children {
		ch.walk(f, depth+1)
	}
}

// TreeBuilder is a Listener which creates a parse tree of Nodes.
type TreeBuilder struct{}

var _ Listener = TreeBuilder{}

// Terminal creates a leaf.
func (TreeBuilder) Terminal(sym *lr.Symbol, token lrkit.Token) interface{} {
	return &Node{Symbol: sym, Token: token, Span: token.Span()}
}

// Reduce creates an inner node.
func (TreeBuilder) Reduce(rule *lr.Rule, children []interface{}, span lrkit.Span) interface{} {
	n := &Node{Symbol: rule.LHS, Rule: rule, Span: span, Children: make([]*Node, len(children))}
	for i, ch := range children {
		n.Children[i] = ch.(*Node)
	}
	return n
}

// ParseTree parses the input and returns the parse tree, rooted at the start
// symbol.
func (p *Parser) ParseTree(scan scanner.Tokenizer) (*Node, error) {
	v, err := p.Derive(scan, TreeBuilder{})
	if err != nil {
		return nil, err
	}
	return v.(*Node), nil
}
