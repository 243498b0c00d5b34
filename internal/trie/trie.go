package trie

import (
	"fmt"
	"strings"

	"lltrie/internal/errors"
	"lltrie/internal/grammar"
	"lltrie/internal/symbol"
)

// Node is one symbol position shared by every rule whose body has the same
// prefix up to here.
type Node struct {
	Symbol *symbol.Symbol
	Final  bool          // last sibling of its level
	Sub    *Trie         // trie of Symbol when it is a nonterminal
	Rule   *grammar.Rule // rule whose body ends here, if any
	Next   Level
}

// Level lists sibling nodes in flat rule order.
type Level []*Node

// Trie holds the rules of one nonterminal.
type Trie struct {
	Nonterm *symbol.Symbol
	Root    Level
	size    int
}

// Size returns the number of nodes in the trie.
func (t *Trie) Size() int { return t.size }

// Tries maps every nonterminal of a grammar to its trie.
type Tries struct {
	byName map[string]*Trie
	order  []*Trie
}

// Build compiles the rules of a normalized grammar into one trie per nonterminal.
func Build(g *grammar.Grammar) (*Tries, error) {
	if !g.IsNormalized() {
		return nil, errors.NotNormalized(g.Name)
	}

	ts := &Tries{byName: make(map[string]*Trie)}
	for _, nt := range g.Nonterms() {
		t := &Trie{Nonterm: nt}
		ts.byName[nt.Name] = t
		ts.order = append(ts.order, t)
	}
	for _, r := range g.Rules() {
		if err := ts.insert(r); err != nil {
			return nil, err
		}
	}
	return ts, nil
}

func (ts *Tries) insert(r *grammar.Rule) error {
	t := ts.byName[r.Left.Name]
	level := &t.Root
	var last *Node
	for _, sym := range r.Body {
		last = ts.child(t, level, sym)
		level = &last.Next
	}
	if last == nil {
		return fmt.Errorf("rule %s has an empty body", r)
	}
	if last.Rule != nil {
		return errors.DuplicateRule(r.String()).At(r.Pos, 0)
	}
	last.Rule = r
	return nil
}

// child finds the sibling matching sym or appends a new one.
func (ts *Tries) child(t *Trie, level *Level, sym *symbol.Symbol) *Node {
	for _, n := range *level {
		if n.Symbol.Equals(sym) {
			return n
		}
	}
	n := &Node{Symbol: sym, Final: true}
	if sym.Kind == symbol.Nonterm {
		n.Sub = ts.byName[sym.Name]
	}
	if len(*level) > 0 {
		(*level)[len(*level)-1].Final = false
	}
	*level = append(*level, n)
	t.size++
	return n
}

// Get returns the trie of a nonterminal.
func (ts *Tries) Get(name string) (*Trie, bool) {
	t, ok := ts.byName[name]
	return t, ok
}

// All returns the tries in nonterminal declaration order.
func (ts *Tries) All() []*Trie {
	return ts.order
}

// Dump renders the trie as an indented tree, one node per line.
func (t *Trie) Dump() string {
	var b strings.Builder
	b.WriteString(t.Nonterm.Name)
	b.WriteByte('\n')
	type item struct {
		node  *Node
		depth int
	}
	var stack []item
	push := func(level Level, depth int) {
		for i := len(level) - 1; i >= 0; i-- {
			stack = append(stack, item{level[i], depth})
		}
	}
	push(t.Root, 1)
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		b.WriteString(strings.Repeat("  ", it.depth))
		b.WriteString(it.node.Symbol.String())
		if it.node.Rule != nil {
			fmt.Fprintf(&b, "  => %s", it.node.Rule)
		}
		b.WriteByte('\n')
		push(it.node.Next, it.depth+1)
	}
	return b.String()
}
