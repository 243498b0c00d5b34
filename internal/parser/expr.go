package parser

import (
	"fmt"
	"strings"

	"lltrie/internal/grammar"
	"lltrie/internal/symbol"
)

// Kind tells lexeme leaves from rule applications.
type Kind uint8

const (
	Lexeme Kind = iota
	Apply
)

func (k Kind) String() string {
	if k == Lexeme {
		return "lexeme"
	}
	return "apply"
}

// Expr is a node of the parse tree. An Apply node has one child per
// nonterminal and regexp symbol of its rule's body; keywords leave no child.
type Expr struct {
	Kind     Kind
	Rule     *grammar.Rule  // Apply only
	Symbol   *symbol.Symbol // the regexp of a Lexeme, the left side of an Apply
	Start    int
	End      int
	Children []Expr
}

// Text returns the input span covered by the node.
func (e Expr) Text(input string) string {
	return input[e.Start:e.End]
}

// Tree is a successful parse of Input.
type Tree struct {
	Input string
	Root  Expr
}

// Text returns the parsed input without leading and trailing skipped
// characters. Unlike Show it keeps the input's own spacing.
func (t *Tree) Text() string {
	return t.Root.Text(t.Input)
}

// Show reconstructs the input from the rules of the tree with whitespace
// normalized: tokens are joined by one space whatever separated them in the
// input. Parsing the result again with the same start symbol yields the same
// tree as long as the grammar skips spaces.
func (t *Tree) Show() string {
	var tokens []string
	t.tokens(t.Root, &tokens)
	return strings.Join(tokens, " ")
}

func (t *Tree) tokens(e Expr, out *[]string) {
	if e.Kind == Lexeme {
		*out = append(*out, e.Text(t.Input))
		return
	}
	kid := 0
	for _, sym := range e.Rule.Body {
		switch sym.Kind {
		case symbol.Keyword:
			if !sym.IsEmpty() {
				*out = append(*out, sym.Body)
			}
		default:
			t.tokens(e.Children[kid], out)
			kid++
		}
	}
}

// Dump renders the tree with one node per line: rules for applications and
// the matched text for lexemes.
func (t *Tree) Dump() string {
	var b strings.Builder
	t.dump(&b, t.Root, 0)
	return b.String()
}

func (t *Tree) dump(b *strings.Builder, e Expr, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	if e.Kind == Lexeme {
		fmt.Fprintf(b, "%s %q\n", e.Symbol.Name, e.Text(t.Input))
		return
	}
	fmt.Fprintf(b, "%s\n", e.Rule)
	for _, kid := range e.Children {
		t.dump(b, kid, depth+1)
	}
}
