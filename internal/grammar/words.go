package grammar

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The word shorthand writes a right-hand side as whitespace separated symbol
// names. The delimiters ( ) [ ] { } | structure the expression and anything
// else is a name.
var wordsLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Delim", Pattern: `[()\[\]{}|]`},
	{Name: "Word", Pattern: `[^\s()\[\]{}|]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type wordsAlt struct {
	Seqs []*wordsSeq `@@ ( "|" @@ )*`
}

type wordsSeq struct {
	Items []*wordsItem `@@+`
}

type wordsItem struct {
	Group *wordsAlt `  "(" @@ ")"`
	Iter  *wordsAlt `| "{" @@ "}"`
	Opt   *wordsAlt `| "[" @@ "]"`
	Word  string    `| @Word`
}

var wordsParser = participle.MustBuild[wordsAlt](
	participle.Lexer(wordsLexer),
	participle.Elide("Whitespace"),
)

// Words parses the word shorthand, e.g. Words("( exp + exp ) | id").
func Words(text string) (Syntagma, error) {
	alt, err := wordsParser.ParseString("", text)
	if err != nil {
		return Syntagma{}, fmt.Errorf("words %q: %w", text, err)
	}
	return alt.syntagma(), nil
}

// MustWords is like Words but panics on malformed text.
func MustWords(text string) Syntagma {
	s, err := Words(text)
	if err != nil {
		panic(err)
	}
	return s
}

func (a *wordsAlt) syntagma() Syntagma {
	if len(a.Seqs) == 1 {
		return a.Seqs[0].syntagma()
	}
	ops := make([]Syntagma, len(a.Seqs))
	for i, seq := range a.Seqs {
		ops[i] = seq.syntagma()
	}
	return Alt(ops...)
}

func (s *wordsSeq) syntagma() Syntagma {
	ops := make([]Syntagma, len(s.Items))
	for i, item := range s.Items {
		ops[i] = item.syntagma()
	}
	return Seq(ops...)
}

func (w *wordsItem) syntagma() Syntagma {
	switch {
	case w.Group != nil:
		return w.Group.syntagma()
	case w.Iter != nil:
		return Iter(w.Iter.syntagma())
	case w.Opt != nil:
		return Opt(w.Opt.syntagma())
	default:
		return Ref(w.Word)
	}
}
