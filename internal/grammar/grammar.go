package grammar

import (
	"fmt"
	"strings"

	"lltrie/internal/errors"
	"lltrie/internal/symbol"
)

// RuleID is the stable identity of a rule. Priority order is kept separately.
type RuleID int

// noRule owns nodes that are about to be attached to a rule.
const noRule RuleID = -1

// Rule is a production left -> right. After normalization Body lists the
// symbols of the flat right-hand side.
type Rule struct {
	ID   RuleID
	Left *symbol.Symbol
	Body []*symbol.Symbol
	Pos  errors.Position

	right NodeID
}

// Grammar owns the symbols, rules and right-hand side nodes of a language.
type Grammar struct {
	Name string

	symbols  map[string]*symbol.Symbol
	declared []*symbol.Symbol
	rules    []*Rule
	order    []RuleID
	nodes    []node
	worklist []NodeID

	fresh      int
	normalized bool
	skip       symbol.Skip
}

// Option configures a new Grammar
type Option func(*Grammar)

// WithSkip sets the characters consumed before each terminal match.
func WithSkip(skip symbol.Skip) Option {
	return func(g *Grammar) {
		g.skip = skip
	}
}

// New creates an empty grammar. The empty keyword is always declared.
func New(name string, opts ...Option) *Grammar {
	g := &Grammar{
		Name:    name,
		symbols: make(map[string]*symbol.Symbol),
		skip:    symbol.DefaultSkip,
	}
	for _, opt := range opts {
		opt(g)
	}
	eps := symbol.Empty()
	g.symbols[eps.Name] = eps
	g.declared = append(g.declared, eps)
	return g
}

// Skip returns the skip predicate shared by all terminals of the grammar.
func (g *Grammar) Skip() symbol.Skip {
	return g.skip
}

// DeclareSymbol adds sym to the symbol table.
func (g *Grammar) DeclareSymbol(sym *symbol.Symbol) error {
	return g.DeclareSymbolAt(sym, errors.Position{})
}

// DeclareSymbolAt is DeclareSymbol with a notation source position for errors.
func (g *Grammar) DeclareSymbolAt(sym *symbol.Symbol, pos errors.Position) error {
	if sym.IsAnonymous() && symbol.IsReservedName(sym.Name) {
		return errors.IllegalKeyword(sym.Body).At(pos, len(sym.Name))
	}
	if _, ok := g.symbols[sym.Name]; ok {
		return errors.DuplicateSymbol(sym.Name).At(pos, len(sym.Name))
	}
	g.symbols[sym.Name] = sym
	g.declared = append(g.declared, sym)
	return nil
}

// Keyword declares an anonymous keyword for each body.
func (g *Grammar) Keyword(bodies ...string) error {
	for _, body := range bodies {
		if err := g.DeclareSymbol(symbol.NewKeyword(body)); err != nil {
			return err
		}
	}
	return nil
}

// NamedKeyword declares a keyword matching body that rules refer to by name,
// for bodies such as "(" that are awkward to write in a rule.
func (g *Grammar) NamedKeyword(name, body string) error {
	return g.DeclareSymbol(symbol.NewNamedKeyword(name, body))
}

// Regexp declares a lexeme symbol.
func (g *Grammar) Regexp(name, pattern string) error {
	sym, err := symbol.NewRegexp(name, pattern)
	if err != nil {
		return errors.InvalidRegexp(name, err)
	}
	return g.DeclareSymbol(sym)
}

// Nonterm declares nonterminals.
func (g *Grammar) Nonterm(names ...string) error {
	for _, name := range names {
		if err := g.DeclareSymbol(symbol.NewNonterm(name)); err != nil {
			return err
		}
	}
	return nil
}

// Lookup finds a declared symbol by name.
func (g *Grammar) Lookup(name string) (*symbol.Symbol, bool) {
	sym, ok := g.symbols[name]
	return sym, ok
}

// Symbols returns the declared symbols in declaration order, the empty keyword first.
func (g *Grammar) Symbols() []*symbol.Symbol {
	return append([]*symbol.Symbol(nil), g.declared...)
}

// Nonterms returns the declared nonterminals in declaration order.
func (g *Grammar) Nonterms() []*symbol.Symbol {
	var out []*symbol.Symbol
	for _, sym := range g.declared {
		if sym.Kind == symbol.Nonterm {
			out = append(out, sym)
		}
	}
	return out
}

// Rules returns the rules in priority order.
func (g *Grammar) Rules() []*Rule {
	out := make([]*Rule, len(g.order))
	for i, id := range g.order {
		out[i] = g.rules[id]
	}
	return out
}

// RulesOf returns the rules of one nonterminal in priority order.
func (g *Grammar) RulesOf(name string) []*Rule {
	var out []*Rule
	for _, id := range g.order {
		if g.rules[id].Left.Name == name {
			out = append(out, g.rules[id])
		}
	}
	return out
}

// IsNormalized reports whether every rule is flat.
func (g *Grammar) IsNormalized() bool {
	return g.normalized
}

// Rule declares left -> right.
func (g *Grammar) Rule(left string, right Syntagma) error {
	return g.DeclareRule(left, right)
}

// DeclareRule adds the rule left -> right. The right-hand side is copied into
// the grammar with every name resolved; on error the grammar is unchanged.
func (g *Grammar) DeclareRule(left string, right Syntagma) error {
	return g.DeclareRuleAt(left, right, errors.Position{})
}

// DeclareRuleAt is DeclareRule with a notation source position for errors.
func (g *Grammar) DeclareRuleAt(left string, right Syntagma, pos errors.Position) error {
	sym, ok := g.symbols[left]
	if !ok {
		return errors.UndefinedSymbol(left, g.names()).At(pos, len(left))
	}
	if sym.Kind != symbol.Nonterm {
		return errors.InvalidRuleLeft(left, sym.Kind.String()).At(pos, len(left))
	}

	mark := len(g.nodes)
	id := RuleID(len(g.rules))
	top, err := g.complete(right, id)
	if err != nil {
		g.nodes = g.nodes[:mark]
		return err
	}

	g.rules = append(g.rules, &Rule{ID: id, Left: sym, Pos: pos, right: top})
	g.order = append(g.order, id)
	g.register(top)
	g.normalized = false
	return nil
}

// complete copies s into the arena, resolving names against the symbol table.
func (g *Grammar) complete(s Syntagma, rule RuleID) (NodeID, error) {
	if s.Op == OpRef {
		sym, ok := g.symbols[s.Name]
		if !ok {
			return None, errors.UndefinedSymbol(s.Name, g.names()).At(s.Pos, len(s.Name))
		}
		id := g.newRef(sym, rule)
		g.nodes[id].pos = s.Pos
		return id, nil
	}
	if len(s.Operands) == 0 {
		return None, errors.EmptyOperator(s.Op.String()).At(s.Pos, 0)
	}
	ops := make([]NodeID, len(s.Operands))
	for i, op := range s.Operands {
		child, err := g.complete(op, rule)
		if err != nil {
			return None, err
		}
		ops[i] = child
	}
	id := g.newNode(s.Op, nil, rule)
	g.nodes[id].pos = s.Pos
	g.setOperands(id, ops)
	return id, nil
}

// register puts every operator of a new tree on the worklist in pre-order.
func (g *Grammar) register(top NodeID) {
	stack := []NodeID{top}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		g.enqueue(id)
		ops := g.nodes[id].operands
		for i := len(ops) - 1; i >= 0; i-- {
			stack = append(stack, ops[i])
		}
	}
}

func (g *Grammar) names() []string {
	names := make([]string, 0, len(g.declared))
	for _, sym := range g.declared {
		if sym.Name != symbol.EmptyName {
			names = append(names, sym.Name)
		}
	}
	return names
}

// Right renders the right-hand side of r.
func (g *Grammar) Right(r *Rule) string {
	return g.showNode(r.right)
}

// ShowRule renders a rule as "left = right".
func (g *Grammar) ShowRule(r *Rule) string {
	return r.Left.Name + " = " + g.Right(r)
}

// Show renders the terminal declarations followed by all rules in priority order.
func (g *Grammar) Show() string {
	var b strings.Builder
	fmt.Fprintf(&b, "grammar %s\n", g.Name)
	for _, sym := range g.declared {
		if sym.IsTerminal() && !sym.IsEmpty() && !sym.IsAnonymous() {
			fmt.Fprintf(&b, "%s\n", sym.Describe())
		}
	}
	for _, r := range g.Rules() {
		fmt.Fprintf(&b, "%s\n", g.ShowRule(r))
	}
	return b.String()
}

func (r *Rule) String() string {
	if r.Body == nil {
		return r.Left.Name + " = ..."
	}
	parts := make([]string, len(r.Body))
	for i, sym := range r.Body {
		parts[i] = sym.String()
	}
	return r.Left.Name + " = " + strings.Join(parts, " ")
}
