package parser

import (
	stderrors "errors"
	"fmt"

	"github.com/tliron/commonlog"

	"lltrie/internal/errors"
	"lltrie/internal/grammar"
	"lltrie/internal/symbol"
	"lltrie/internal/trie"
)

var log = commonlog.GetLogger("lltrie.parser")

// ErrNoMatch is returned when the input is not a sentence of the start symbol.
var ErrNoMatch = stderrors.New("no match")

// Parser parses input against the rule tries of a grammar. It is immutable
// once built and may be shared by concurrent Parse calls.
type Parser struct {
	grammar *grammar.Grammar
	tries   *trie.Tries
	skip    symbol.Skip
}

// Build checks a normalized grammar and compiles its rules. Left recursive
// grammars and grammars with duplicate rules are rejected.
func Build(g *grammar.Grammar) (*Parser, error) {
	if err := g.Check(); err != nil {
		return nil, fmt.Errorf("building parser for %s: %w", g.Name, err)
	}
	tries, err := trie.Build(g)
	if err != nil {
		return nil, fmt.Errorf("building parser for %s: %w", g.Name, err)
	}
	return &Parser{grammar: g, tries: tries, skip: g.Skip()}, nil
}

// Grammar returns the grammar the parser was built from.
func (p *Parser) Grammar() *grammar.Grammar {
	return p.grammar
}

// Tries returns the compiled rule tries.
func (p *Parser) Tries() *trie.Tries {
	return p.tries
}

// Parse matches the whole input, up to trailing skipped characters, against
// start. The first derivation of start in flat rule order is the only
// one tried; it fails when it leaves input over.
func (p *Parser) Parse(input, start string) (*Tree, error) {
	root, ok := p.tries.Get(start)
	if !ok {
		var names []string
		for _, t := range p.tries.All() {
			names = append(names, t.Nonterm.Name)
		}
		return nil, errors.UnknownStart(start, names)
	}

	e := &engine{input: input, skip: p.skip}
	expr, ok := e.run(root)
	if !ok {
		log.Debugf("%s: no match for %q", start, input)
		return nil, fmt.Errorf("parsing %s: %w", start, ErrNoMatch)
	}
	if rest := p.skip.Advance(input, expr.End); rest != len(input) {
		log.Debugf("%s: matched %q, input left at %d", start, input[:expr.End], rest)
		return nil, fmt.Errorf("parsing %s: %w", start, ErrNoMatch)
	}
	log.Debugf("%s: matched %q in %d steps", start, input, e.steps)
	return &Tree{Input: input, Root: expr}, nil
}
