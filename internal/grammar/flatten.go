package grammar

import (
	"fmt"
	"slices"

	"lltrie/internal/errors"
	"lltrie/internal/symbol"
)

// Normalize eliminates the EBNF operators, leaving every rule's right-hand
// side a sequence of references. Fresh nonterminals N_0, N_1, ... are declared
// for nested alternations, repetitions and options. Normalizing a flat grammar
// changes nothing.
func (g *Grammar) Normalize() error {
	for head := 0; head < len(g.worklist); head++ {
		id := g.worklist[head]
		g.nodes[id].queued = false
		if g.nodes[id].dead {
			continue
		}
		if err := g.flatten(id); err != nil {
			return err
		}
	}
	g.worklist = g.worklist[:0]

	for _, rid := range g.order {
		r := g.rules[rid]
		if g.nodes[r.right].op == OpRef {
			r.right = g.newSeq(rid, r.right)
		}
		body, err := g.body(r)
		if err != nil {
			return err
		}
		r.Body = body
	}
	if err := g.Verify(); err != nil {
		return fmt.Errorf("normalizing %s: %w", g.Name, err)
	}
	g.normalized = true
	return nil
}

func (g *Grammar) flatten(id NodeID) error {
	n := g.nodes[id]
	parent := n.parent
	switch n.op {
	case OpSeq:
		if n.parent != None && g.nodes[n.parent].op == OpSeq {
			g.splice(id)
		}
	case OpAlt:
		if n.parent == None {
			g.splitRule(id)
		} else {
			g.extractAlt(id)
		}
	case OpIter, OpOpt:
		g.extractRepeat(id)
	}
	if parent == None {
		return nil
	}
	return g.checkLinks(parent)
}

// splice replaces a sequence nested in a sequence by its operands.
func (g *Grammar) splice(id NodeID) {
	n := g.nodes[id]
	parent := n.parent
	ops := slices.Concat(
		g.nodes[parent].operands[:n.place],
		n.operands,
		g.nodes[parent].operands[n.place+1:],
	)
	g.setOperands(parent, ops)
	log.Debugf("%s: spliced sequence into %s", g.Name, g.showNode(parent))
	g.kill(id)
}

// splitRule turns L = a | b | c into L = c, L = a, L = b. The last
// alternative stays in place as the rule's right-hand side and the others
// follow it in the rule order.
func (g *Grammar) splitRule(id NodeID) {
	n := g.nodes[id]
	r := g.rules[n.rule]
	ops := n.operands

	last := ops[len(ops)-1]
	r.right = last
	g.detach(last)

	at := slices.Index(g.order, r.ID) + 1
	for i, op := range ops[:len(ops)-1] {
		g.insertRule(r.Left, op, r.Pos, at+i)
	}
	log.Debugf("%s: split %s into %d rules", g.Name, r.Left.Name, len(ops))
	g.kill(id)
}

// extractAlt replaces a nested alternation by a fresh nonterminal with one
// rule per alternative.
func (g *Grammar) extractAlt(id NodeID) {
	n := g.nodes[id]
	fresh := g.freshNonterm()
	ref := g.newRef(fresh, n.rule)
	g.replace(id, ref)
	for _, op := range g.nodes[id].operands {
		g.insertRule(fresh, op, g.rules[n.rule].Pos, len(g.order))
	}
	log.Debugf("%s: extracted alternation into %s", g.Name, fresh.Name)
	g.kill(id)
}

// extractRepeat replaces { b } by a fresh N with N = b N, N = ε and [ b ] by
// a fresh N with N = b, N = ε. The non-empty rule comes first, so repetitions
// and options match as much as they can.
func (g *Grammar) extractRepeat(id NodeID) {
	n := g.nodes[id]
	pos := g.rules[n.rule].Pos
	fresh := g.freshNonterm()
	ref := g.newRef(fresh, n.rule)
	g.replace(id, ref)

	beta := g.nodes[id].operands[0]
	g.detach(beta)
	if n.op == OpIter {
		if g.nodes[beta].op != OpSeq {
			beta = g.newSeq(n.rule, beta)
		}
		g.appendOperand(beta, g.newRef(fresh, n.rule))
	}
	g.insertRule(fresh, beta, pos, len(g.order))
	g.insertRule(fresh, g.epsilon(), pos, len(g.order))
	log.Debugf("%s: extracted %s into %s", g.Name, n.op, fresh.Name)
	g.kill(id)
}

// insertRule adds left = top at position at of the rule order.
func (g *Grammar) insertRule(left *symbol.Symbol, top NodeID, pos errors.Position, at int) {
	id := RuleID(len(g.rules))
	g.detach(top)
	g.own(top, id)
	g.rules = append(g.rules, &Rule{ID: id, Left: left, Pos: pos, right: top})
	g.order = slices.Insert(g.order, at, id)
}

func (g *Grammar) epsilon() NodeID {
	eps := g.symbols[symbol.EmptyName]
	return g.newSeq(noRule, g.newRef(eps, noRule))
}

// freshNonterm declares the next unused N_k.
func (g *Grammar) freshNonterm() *symbol.Symbol {
	for {
		name := fmt.Sprintf("N_%d", g.fresh)
		g.fresh++
		if _, taken := g.symbols[name]; taken {
			continue
		}
		sym := symbol.NewNonterm(name)
		g.symbols[name] = sym
		g.declared = append(g.declared, sym)
		return sym
	}
}

// body lists the symbols of a flat rule.
func (g *Grammar) body(r *Rule) ([]*symbol.Symbol, error) {
	top := g.nodes[r.right]
	if top.op != OpSeq {
		return nil, fmt.Errorf("rule %s: right-hand side is a %s", r.Left.Name, top.op)
	}
	body := make([]*symbol.Symbol, len(top.operands))
	for i, op := range top.operands {
		if g.nodes[op].op != OpRef {
			return nil, fmt.Errorf("rule %s: %s left in %s", r.Left.Name, g.nodes[op].op, g.showNode(r.right))
		}
		body[i] = g.nodes[op].sym
	}
	return body, nil
}
