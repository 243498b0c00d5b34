package notation

import (
	"fmt"
	"strconv"
	"strings"

	"lltrie/internal/grammar"
	"lltrie/internal/symbol"
)

// String renders the file in canonical layout: one declaration per line,
// single spaces between items. Comments are not kept.
func (f *File) String() string {
	var b strings.Builder
	if f.Header != nil {
		b.WriteString(f.Header.String() + "\n")
	}
	for _, d := range f.Decls {
		b.WriteString(d.String() + "\n")
	}
	return b.String()
}

func (h *Header) String() string {
	return fmt.Sprintf("grammar %s;", h.Name.Value)
}

func (d *Decl) String() string {
	switch {
	case d.Skip != nil:
		return fmt.Sprintf("skip %s;", strconv.Quote(d.Skip.Chars))
	case d.Token != nil:
		return fmt.Sprintf("token %s = %s;", d.Token.Name.Value, d.Token.Pattern)
	case d.Keyword != nil:
		return fmt.Sprintf("keyword %s = %s;", d.Keyword.Name.Value, strconv.Quote(d.Keyword.Body))
	case d.Rule != nil:
		return fmt.Sprintf("%s = %s;", d.Rule.Left.Value, d.Rule.Right.String())
	}
	return ""
}

func (a *Alternation) String() string {
	parts := make([]string, len(a.Seqs))
	for i, s := range a.Seqs {
		parts[i] = s.String()
	}
	return strings.Join(parts, " | ")
}

func (s *Sequence) String() string {
	parts := make([]string, len(s.Items))
	for i, it := range s.Items {
		parts[i] = it.String()
	}
	return strings.Join(parts, " ")
}

func (it *Item) String() string {
	switch {
	case it.Name != nil:
		return it.Name.Value
	case it.Literal != nil:
		return strconv.Quote(it.Literal.Value)
	case it.Group != nil:
		return "( " + it.Group.String() + " )"
	case it.Repeat != nil:
		return "{ " + it.Repeat.String() + " }"
	case it.Option != nil:
		return "[ " + it.Option.String() + " ]"
	}
	return ""
}

// Format writes a grammar back as notation. Loading the result gives the
// same rules in the same order. The skip set is not written.
func Format(g *grammar.Grammar) string {
	var b strings.Builder
	fmt.Fprintf(&b, "grammar %s;\n", g.Name)
	for _, sym := range g.Symbols() {
		switch {
		case sym.Kind == symbol.Regexp:
			fmt.Fprintf(&b, "token %s = %s;\n", sym.Name, EscapePattern(sym.Body))
		case sym.Kind == symbol.Keyword && !sym.IsAnonymous():
			fmt.Fprintf(&b, "keyword %s = %s;\n", sym.Name, strconv.Quote(sym.Body))
		}
	}
	for _, r := range g.Rules() {
		right := g.RightSyntagma(r).ShowWith(func(name string) string {
			sym, _ := g.Lookup(name)
			if sym.IsAnonymous() {
				return strconv.Quote(sym.Body)
			}
			return name
		})
		fmt.Fprintf(&b, "%s = %s;\n", r.Left.Name, right)
	}
	return b.String()
}
