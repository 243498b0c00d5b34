package parser

import (
	"lltrie/internal/symbol"
	"lltrie/internal/trie"
)

// frame is a position in a rule trie: node idx of level, tried at pos.
// kids is the child count of the call when the frame was entered.
type frame struct {
	level trie.Level
	idx   int
	pos   int
	kids  int
}

func (f *frame) node() *trie.Node {
	return f.level[f.idx]
}

// call is an in-progress sub-parse of one nonterminal.
type call struct {
	frames []frame
	expr   Expr
}

// engine runs one parse. Sub-parses live on an explicit call stack, so the
// Go stack does not grow with the input.
type engine struct {
	input string
	skip  symbol.Skip
	calls []*call
	steps int
}

func (e *engine) enter(t *trie.Trie, pos int) {
	start := e.skip.Advance(e.input, pos)
	c := &call{expr: Expr{Kind: Apply, Symbol: t.Nonterm, Start: start, End: start}}
	if len(t.Root) > 0 {
		c.frames = append(c.frames, frame{level: t.Root, pos: start})
	}
	e.calls = append(e.calls, c)
}

func (e *engine) top() *call {
	return e.calls[len(e.calls)-1]
}

func (e *engine) run(root *trie.Trie) (Expr, bool) {
	e.enter(root, 0)
	for {
		e.steps++
		c := e.top()
		if len(c.frames) == 0 {
			e.calls = e.calls[:len(e.calls)-1]
			if len(e.calls) == 0 {
				return Expr{}, false
			}
			e.backtrack(e.top())
			continue
		}

		f := &c.frames[len(c.frames)-1]
		n := f.node()
		if n.Symbol.Kind == symbol.Nonterm {
			e.enter(n.Sub, f.pos)
			continue
		}

		start, end, ok := n.Symbol.Match(e.skip, e.input, f.pos)
		if !ok {
			e.backtrack(c)
			continue
		}
		if n.Symbol.Kind == symbol.Regexp {
			c.expr.Children = append(c.expr.Children, Expr{Kind: Lexeme, Symbol: n.Symbol, Start: start, End: end})
		}
		if !e.advance(c, n, end) {
			continue
		}
		if done, ok := e.unwind(); ok {
			return done, true
		}
	}
}

// advance moves c past node n, which matched up to end. It reports whether
// the call is complete: a call completes on the first rule it reaches and is
// never resumed afterwards.
func (e *engine) advance(c *call, n *trie.Node, end int) bool {
	if n.Rule != nil {
		c.expr.Rule = n.Rule
		c.expr.End = end
		return true
	}
	if len(n.Next) > 0 {
		c.frames = append(c.frames, frame{level: n.Next, pos: end, kids: len(c.expr.Children)})
		return false
	}
	e.backtrack(c)
	return false
}

// unwind returns completed calls to their callers as long as each caller
// completes too. It reports the root expression once the root call completes.
func (e *engine) unwind() (Expr, bool) {
	for {
		done := e.top().expr
		e.calls = e.calls[:len(e.calls)-1]
		if len(e.calls) == 0 {
			return done, true
		}
		c := e.top()
		f := &c.frames[len(c.frames)-1]
		c.expr.Children = append(c.expr.Children, done)
		if !e.advance(c, f.node(), done.End) {
			return Expr{}, false
		}
	}
}

// backtrack moves c to the next untried sibling, dropping exhausted levels.
// A call left without frames has failed.
func (e *engine) backtrack(c *call) {
	for len(c.frames) > 0 {
		f := &c.frames[len(c.frames)-1]
		if f.node().Final {
			c.frames = c.frames[:len(c.frames)-1]
			continue
		}
		f.idx++
		c.expr.Children = c.expr.Children[:f.kids]
		return
	}
}
