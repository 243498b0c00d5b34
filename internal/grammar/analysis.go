package grammar

import (
	"lltrie/internal/errors"
	"lltrie/internal/symbol"
)

// Nullable returns the nonterminals that can derive the empty string.
// The grammar must be normalized.
func (g *Grammar) Nullable() map[string]bool {
	nullable := make(map[string]bool)
	for changed := true; changed; {
		changed = false
		for _, r := range g.Rules() {
			if nullable[r.Left.Name] {
				continue
			}
			if g.nullablePrefix(r.Body, nullable) == len(r.Body) {
				nullable[r.Left.Name] = true
				changed = true
			}
		}
	}
	return nullable
}

// nullablePrefix returns the length of the longest prefix of body that can
// match nothing.
func (g *Grammar) nullablePrefix(body []*symbol.Symbol, nullable map[string]bool) int {
	for i, sym := range body {
		if sym.Kind == symbol.Nonterm {
			if !nullable[sym.Name] {
				return i
			}
		} else if !sym.MatchesEmpty() {
			return i
		}
	}
	return len(body)
}

// Recursion is a left recursive nonterminal with one derivation proving it.
type Recursion struct {
	Name string
	Path []string
}

// LeftRecursive reports every nonterminal that can derive itself at its
// leftmost position, looking through prefixes that can match nothing.
func (g *Grammar) LeftRecursive() []Recursion {
	nullable := g.Nullable()
	edges := make(map[string][]string)
	for _, r := range g.Rules() {
		n := g.nullablePrefix(r.Body, nullable)
		for i := 0; i <= n && i < len(r.Body); i++ {
			if sym := r.Body[i]; sym.Kind == symbol.Nonterm {
				edges[r.Left.Name] = append(edges[r.Left.Name], sym.Name)
			}
		}
	}

	var found []Recursion
	for _, nt := range g.Nonterms() {
		if path := leftPath(edges, nt.Name); path != nil {
			found = append(found, Recursion{Name: nt.Name, Path: path})
		}
	}
	return found
}

// leftPath searches breadth first for the shortest path from name back to itself.
func leftPath(edges map[string][]string, name string) []string {
	prev := make(map[string]string)
	queue := []string{name}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range edges[cur] {
			if next == name {
				path := []string{name}
				for at := cur; at != name; at = prev[at] {
					path = append(path, at)
				}
				path = append(path, name)
				// collected backwards, the first and last entries are both name
				for i, j := 1, len(path)-2; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				return path
			}
			if _, seen := prev[next]; !seen {
				prev[next] = cur
				queue = append(queue, next)
			}
		}
	}
	return nil
}

// DuplicateRules returns every rule whose left side and body equal those of
// an earlier rule.
func (g *Grammar) DuplicateRules() []*Rule {
	var dups []*Rule
	seen := make(map[string][]*Rule)
	for _, r := range g.Rules() {
		for _, other := range seen[r.Left.Name] {
			if sameBody(r.Body, other.Body) {
				dups = append(dups, r)
				break
			}
		}
		seen[r.Left.Name] = append(seen[r.Left.Name], r)
	}
	return dups
}

func sameBody(a, b []*symbol.Symbol) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}

// Check reports the problems that keep a normalized grammar from being
// parsed: left recursion and duplicate rules.
func (g *Grammar) Check() error {
	if !g.normalized {
		return errors.NotNormalized(g.Name)
	}
	var list errors.List
	for _, rec := range g.LeftRecursive() {
		err := errors.LeftRecursion(rec.Name, rec.Path)
		if rules := g.RulesOf(rec.Name); len(rules) > 0 {
			err = err.At(rules[0].Pos, 0)
		}
		list = append(list, err)
	}
	for _, r := range g.DuplicateRules() {
		list = append(list, errors.DuplicateRule(r.String()).At(r.Pos, 0))
	}
	return list.Err()
}

// Warnings reports nonterminals that have no rules and nonterminals no rule
// refers to. The first nonterminal is taken as the start symbol.
func (g *Grammar) Warnings() errors.List {
	referenced := make(map[string]bool)
	hasRules := make(map[string]bool)
	for _, r := range g.Rules() {
		hasRules[r.Left.Name] = true
		g.walkRefs(r.right, func(sym *symbol.Symbol) {
			if sym.Kind == symbol.Nonterm && sym.Name != r.Left.Name {
				referenced[sym.Name] = true
			}
		})
	}

	var list errors.List
	for i, nt := range g.Nonterms() {
		switch {
		case !hasRules[nt.Name]:
			list = append(list, errors.NoRules(nt.Name))
		case i > 0 && !referenced[nt.Name]:
			list = append(list, errors.Unreachable(nt.Name).At(g.RulesOf(nt.Name)[0].Pos, 0))
		}
	}
	return list
}

func (g *Grammar) walkRefs(top NodeID, visit func(*symbol.Symbol)) {
	stack := []NodeID{top}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if g.nodes[id].op == OpRef {
			visit(g.nodes[id].sym)
		}
		stack = append(stack, g.nodes[id].operands...)
	}
}
