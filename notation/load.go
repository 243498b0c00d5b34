package notation

import (
	"path/filepath"
	"strings"

	"lltrie/internal/errors"
	"lltrie/internal/grammar"
	"lltrie/internal/symbol"
)

// Load reads a notation file into a declared grammar. The grammar is not
// normalized yet.
func Load(path string) (*grammar.Grammar, error) {
	file, _, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Build(file, path)
}

// LoadString is Load for notation text held in memory.
func LoadString(filename, source string) (*grammar.Grammar, error) {
	file, err := ParseSource(filename, source)
	if err != nil {
		return nil, err
	}
	return Build(file, filename)
}

// Build declares the symbols and rules of a parsed file. It keeps going after
// a bad declaration and returns every problem found as an errors.List,
// together with the grammar built from the rest.
func Build(file *File, filename string) (*grammar.Grammar, error) {
	b := &builder{}
	g := grammar.New(grammarName(file, filename), b.options(file)...)
	b.g = g

	for _, d := range file.Decls {
		switch {
		case d.Token != nil:
			b.token(d.Token)
		case d.Keyword != nil:
			b.keyword(d.Keyword)
		}
	}
	for _, d := range file.Decls {
		if d.Rule != nil {
			b.nonterm(d.Rule.Left)
		}
	}
	for _, d := range file.Decls {
		if d.Rule != nil {
			b.rule(d.Rule)
		}
	}
	return g, b.errs.Err()
}

type builder struct {
	g    *grammar.Grammar
	errs errors.List
	seen map[string]bool
}

func grammarName(file *File, filename string) string {
	if file.Header != nil {
		return file.Header.Name.Value
	}
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (b *builder) options(file *File) []grammar.Option {
	var opts []grammar.Option
	for _, d := range file.Decls {
		if d.Skip != nil {
			opts = append(opts, grammar.WithSkip(symbol.SkipSet(d.Skip.Chars)))
		}
	}
	return opts
}

func (b *builder) fail(err error) {
	if err == nil {
		return
	}
	b.errs = append(b.errs, errors.Collect(err)...)
}

func (b *builder) token(d *TokenDecl) {
	pattern := UnescapePattern(d.Pattern)
	sym, err := symbol.NewRegexp(d.Name.Value, pattern)
	if err != nil {
		b.fail(errors.InvalidRegexp(d.Name.Value, err).At(position(d.Pos), len(d.Pattern)))
		return
	}
	b.fail(b.g.DeclareSymbolAt(sym, position(d.Name.Pos)))
}

func (b *builder) keyword(d *KeywordDecl) {
	b.fail(b.g.DeclareSymbolAt(symbol.NewNamedKeyword(d.Name.Value, d.Body), position(d.Name.Pos)))
}

// nonterm declares the left side of a rule the first time it shows up.
func (b *builder) nonterm(left *Ident) {
	if b.seen == nil {
		b.seen = make(map[string]bool)
	}
	if b.seen[left.Value] {
		return
	}
	b.seen[left.Value] = true
	b.fail(b.g.DeclareSymbolAt(symbol.NewNonterm(left.Value), position(left.Pos)))
}

func (b *builder) rule(d *RuleDecl) {
	right := b.alternation(d.Right)
	b.fail(b.g.DeclareRuleAt(d.Left.Value, right, position(d.Left.Pos)))
}

func (b *builder) alternation(a *Alternation) grammar.Syntagma {
	if len(a.Seqs) == 1 {
		return b.sequence(a.Seqs[0])
	}
	ops := make([]grammar.Syntagma, len(a.Seqs))
	for i, seq := range a.Seqs {
		ops[i] = b.sequence(seq)
	}
	return grammar.Alt(ops...).At(position(a.Pos))
}

func (b *builder) sequence(s *Sequence) grammar.Syntagma {
	if len(s.Items) == 1 {
		return b.item(s.Items[0])
	}
	ops := make([]grammar.Syntagma, len(s.Items))
	for i, item := range s.Items {
		ops[i] = b.item(item)
	}
	return grammar.Seq(ops...).At(position(s.Pos))
}

func (b *builder) item(it *Item) grammar.Syntagma {
	pos := position(it.Pos)
	switch {
	case it.Name != nil:
		return grammar.Ref(it.Name.Value).At(pos)
	case it.Literal != nil:
		return grammar.Ref(b.literal(it.Literal)).At(pos)
	case it.Group != nil:
		return b.alternation(it.Group)
	case it.Repeat != nil:
		return grammar.Iter(b.alternation(it.Repeat)).At(pos)
	default:
		return grammar.Opt(b.alternation(it.Option)).At(pos)
	}
}

// literal declares a quoted keyword on first use and returns its name. The
// name keeps the quotes, so a literal never collides with a symbol name.
func (b *builder) literal(l *Literal) string {
	if l.Value == "" {
		return symbol.EmptyName
	}
	name := symbol.LiteralName(l.Value)
	if _, ok := b.g.Lookup(name); !ok {
		b.fail(b.g.DeclareSymbolAt(symbol.NewLiteral(l.Value), position(l.Pos)))
	}
	return name
}

// UnescapePattern strips the slashes around a pattern token and unescapes
// embedded slashes.
func UnescapePattern(tok string) string {
	inner := strings.TrimSuffix(strings.TrimPrefix(tok, "/"), "/")
	return strings.ReplaceAll(inner, `\/`, `/`)
}

// EscapePattern is the inverse of UnescapePattern.
func EscapePattern(pattern string) string {
	return "/" + strings.ReplaceAll(pattern, "/", `\/`) + "/"
}
