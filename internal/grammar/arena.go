package grammar

import (
	"fmt"

	"lltrie/internal/errors"
	"lltrie/internal/symbol"
)

// NodeID addresses a right-hand side node in the grammar's arena
type NodeID int32

// None marks the absence of a node, e.g. the parent of a rule's top node
const None NodeID = -1

// node is the arena form of a Syntagma. Operator nodes know their parent and
// their place among the parent's operands, so rewrites can splice them in place.
type node struct {
	op       Op
	sym      *symbol.Symbol // resolved reference, OpRef only
	operands []NodeID
	parent   NodeID
	place    int
	rule     RuleID
	pos      errors.Position
	queued   bool
	dead     bool
}

func (g *Grammar) newNode(op Op, sym *symbol.Symbol, rule RuleID) NodeID {
	g.nodes = append(g.nodes, node{op: op, sym: sym, parent: None, rule: rule})
	return NodeID(len(g.nodes) - 1)
}

func (g *Grammar) newRef(sym *symbol.Symbol, rule RuleID) NodeID {
	return g.newNode(OpRef, sym, rule)
}

// newSeq creates a sequence node adopting ops as its operands.
func (g *Grammar) newSeq(rule RuleID, ops ...NodeID) NodeID {
	id := g.newNode(OpSeq, nil, rule)
	g.setOperands(id, ops)
	return id
}

// setOperands installs ops under parent and relinks each of them.
func (g *Grammar) setOperands(parent NodeID, ops []NodeID) {
	g.nodes[parent].operands = ops
	for i, op := range ops {
		g.link(parent, i, op)
	}
}

func (g *Grammar) link(parent NodeID, place int, child NodeID) {
	g.nodes[parent].operands[place] = child
	g.nodes[child].parent = parent
	g.nodes[child].place = place
}

func (g *Grammar) appendOperand(parent, child NodeID) {
	g.nodes[parent].operands = append(g.nodes[parent].operands, child)
	g.link(parent, len(g.nodes[parent].operands)-1, child)
}

// detach makes id the top of an independent tree.
func (g *Grammar) detach(id NodeID) {
	g.nodes[id].parent = None
	g.nodes[id].place = 0
}

// replace puts repl where old was: in old's parent, or as the right-hand side
// of old's rule when old has no parent.
func (g *Grammar) replace(old, repl NodeID) {
	n := g.nodes[old]
	if n.parent != None {
		g.link(n.parent, n.place, repl)
	} else {
		g.rules[n.rule].right = repl
		g.detach(repl)
	}
	g.nodes[repl].rule = n.rule
	g.detach(old)
}

// kill removes a processed operator from the tree. Its operands must have
// been moved elsewhere before.
func (g *Grammar) kill(id NodeID) {
	g.nodes[id].dead = true
	g.nodes[id].operands = nil
	g.nodes[id].parent = None
}

// own assigns a whole subtree to rule.
func (g *Grammar) own(top NodeID, rule RuleID) {
	stack := []NodeID{top}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		g.nodes[id].rule = rule
		stack = append(stack, g.nodes[id].operands...)
	}
}

func (g *Grammar) enqueue(id NodeID) {
	if g.nodes[id].queued || g.nodes[id].op == OpRef {
		return
	}
	g.nodes[id].queued = true
	g.worklist = append(g.worklist, id)
}

// checkLinks verifies the parent/place invariant around id.
func (g *Grammar) checkLinks(id NodeID) error {
	n := g.nodes[id]
	if n.dead {
		return fmt.Errorf("node %d is dead but still linked", id)
	}
	if n.parent != None {
		p := g.nodes[n.parent]
		if n.place >= len(p.operands) || p.operands[n.place] != id {
			return fmt.Errorf("node %d is not at place %d of its parent %d", id, n.place, n.parent)
		}
	}
	for i, op := range n.operands {
		c := g.nodes[op]
		if c.parent != id || c.place != i {
			return fmt.Errorf("operand %d of node %d records parent %d place %d", i, id, c.parent, c.place)
		}
	}
	return nil
}

// Verify walks every rule's tree and checks the parent/place invariant and
// rule ownership of each node.
func (g *Grammar) Verify() error {
	for _, rid := range g.order {
		r := g.rules[rid]
		if g.nodes[r.right].parent != None {
			return fmt.Errorf("top of rule %d has a parent", rid)
		}
		stack := []NodeID{r.right}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if err := g.checkLinks(id); err != nil {
				return err
			}
			if g.nodes[id].rule != rid {
				return fmt.Errorf("node %d belongs to rule %d, found under rule %d", id, g.nodes[id].rule, rid)
			}
			stack = append(stack, g.nodes[id].operands...)
		}
	}
	for _, id := range g.worklist {
		if g.nodes[id].dead {
			return fmt.Errorf("dead node %d left on the worklist", id)
		}
	}
	return nil
}

// showNode renders an arena subtree like Syntagma.Show, with references
// spelled the way their symbols print.
func (g *Grammar) showNode(id NodeID) string {
	return g.syntagma(id, (*symbol.Symbol).String).Show()
}

// RightSyntagma returns the current right-hand side of r as a builder value
// referring to symbols by name.
func (g *Grammar) RightSyntagma(r *Rule) Syntagma {
	return g.syntagma(r.right, func(sym *symbol.Symbol) string { return sym.Name })
}

func (g *Grammar) syntagma(id NodeID, name func(*symbol.Symbol) string) Syntagma {
	n := g.nodes[id]
	if n.op == OpRef {
		return Syntagma{Op: OpRef, Name: name(n.sym), Pos: n.pos}
	}
	ops := make([]Syntagma, len(n.operands))
	for i, op := range n.operands {
		ops[i] = g.syntagma(op, name)
	}
	return Syntagma{Op: n.op, Operands: ops, Pos: n.pos}
}
