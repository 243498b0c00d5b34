package grammar

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lltrie/internal/errors"
	"lltrie/internal/symbol"
)

type language map[string]bool

func concat(a, b language, limit int) language {
	out := language{}
	for x := range a {
		for y := range b {
			if len(x)+len(y) <= limit {
				out[x+y] = true
			}
		}
	}
	return out
}

// ebnfLanguage enumerates the strings of s up to limit bytes. Every
// reference must name a keyword.
func ebnfLanguage(g *Grammar, s Syntagma, limit int) language {
	switch s.Op {
	case OpRef:
		sym, _ := g.Lookup(s.Name)
		return language{sym.Body: true}
	case OpSeq:
		out := language{"": true}
		for _, op := range s.Operands {
			out = concat(out, ebnfLanguage(g, op, limit), limit)
		}
		return out
	case OpAlt:
		out := language{}
		for _, op := range s.Operands {
			maps.Copy(out, ebnfLanguage(g, op, limit))
		}
		return out
	case OpOpt:
		out := ebnfLanguage(g, s.Operands[0], limit)
		out[""] = true
		return out
	default:
		beta := ebnfLanguage(g, s.Operands[0], limit)
		out := language{"": true}
		for {
			next := concat(out, beta, limit)
			next[""] = true
			maps.Copy(next, out)
			if len(next) == len(out) {
				return out
			}
			out = next
		}
	}
}

// flatLanguage enumerates the strings of a nonterminal of a normalized
// grammar up to limit bytes by fixpoint iteration.
func flatLanguage(g *Grammar, start string, limit int) language {
	langs := map[string]language{}
	for _, nt := range g.Nonterms() {
		langs[nt.Name] = language{}
	}
	for changed := true; changed; {
		changed = false
		for _, r := range g.Rules() {
			out := language{"": true}
			for _, sym := range r.Body {
				if sym.Kind == symbol.Nonterm {
					out = concat(out, langs[sym.Name], limit)
				} else {
					out = concat(out, language{sym.Body: true}, limit)
				}
			}
			for w := range out {
				if !langs[r.Left.Name][w] {
					langs[r.Left.Name][w] = true
					changed = true
				}
			}
		}
	}
	return langs[start]
}

func TestFlatteningPreservesLanguage(t *testing.T) {
	exprs := []string{
		"a b c",
		"a | b | c",
		"{ a | b }",
		"{ a | b } | c",
		"a [ b ] c",
		"a { b [ c ] | c } | ( a | b ) c",
		"{ a b } [ c { a } ]",
		"( a | ( b | c ) ) ( a | b )",
		"[ [ a ] b ]",
	}
	for _, text := range exprs {
		t.Run(text, func(t *testing.T) {
			g := New("lang")
			require.NoError(t, g.Keyword("a", "b", "c"))
			require.NoError(t, g.Nonterm("A"))
			s := MustWords(text)
			require.NoError(t, g.Rule("A", s))

			want := ebnfLanguage(g, s, 6)
			require.NoError(t, g.Normalize())
			require.NoError(t, g.Verify())
			got := flatLanguage(g, "A", 6)

			assert.Equal(t, sorted(want), sorted(got))
		})
	}
}

func sorted(l language) []string {
	return slices.Sorted(maps.Keys(l))
}

func TestNullable(t *testing.T) {
	g := New("null")
	require.NoError(t, g.Keyword("a"))
	require.NoError(t, g.Regexp("ws", `[ ]*`))
	require.NoError(t, g.Nonterm("A", "B", "C"))
	require.NoError(t, g.Rule("A", MustWords("[ a ]")))
	require.NoError(t, g.Rule("B", MustWords("a A")))
	require.NoError(t, g.Rule("C", MustWords("ws A")))
	require.NoError(t, g.Normalize())

	nullable := g.Nullable()
	assert.True(t, nullable["A"])
	assert.True(t, nullable["N_0"])
	assert.False(t, nullable["B"])
	assert.True(t, nullable["C"])
}

func TestLeftRecursion(t *testing.T) {
	g := New("direct")
	require.NoError(t, g.Regexp("id", `[a-z]+`))
	require.NoError(t, g.Keyword("+"))
	require.NoError(t, g.Nonterm("exp"))
	require.NoError(t, g.Rule("exp", MustWords("exp + id | id")))
	require.NoError(t, g.Normalize())

	rec := g.LeftRecursive()
	require.Len(t, rec, 1)
	assert.Equal(t, Recursion{Name: "exp", Path: []string{"exp", "exp"}}, rec[0])
	requireCode(t, g.Check(), errors.ErrorLeftRecursion)

	g = New("indirect")
	require.NoError(t, g.Keyword("x", "y"))
	require.NoError(t, g.Nonterm("a", "b"))
	require.NoError(t, g.Rule("a", MustWords("b x")))
	require.NoError(t, g.Rule("b", MustWords("a y | y")))
	require.NoError(t, g.Normalize())

	rec = g.LeftRecursive()
	require.Len(t, rec, 2)
	assert.Equal(t, []string{"a", "b", "a"}, rec[0].Path)
	assert.Equal(t, []string{"b", "a", "b"}, rec[1].Path)
}

func TestRepetitionOfNullableIsLeftRecursive(t *testing.T) {
	g := New("loop")
	require.NoError(t, g.Keyword("a"))
	require.NoError(t, g.Nonterm("A"))
	require.NoError(t, g.Rule("A", MustWords("{ [ a ] }")))
	require.NoError(t, g.Normalize())

	rec := g.LeftRecursive()
	require.NotEmpty(t, rec)
	assert.Equal(t, "N_0", rec[0].Name)
	assert.Error(t, g.Check())
}

func TestDuplicateRules(t *testing.T) {
	g := New("dup")
	require.NoError(t, g.Keyword("a", "b"))
	require.NoError(t, g.NamedKeyword("A_KW", "a"))
	require.NoError(t, g.Nonterm("A"))
	require.NoError(t, g.Rule("A", MustWords("a | A_KW | b")))
	require.NoError(t, g.Normalize())

	dups := g.DuplicateRules()
	require.Len(t, dups, 1)
	assert.Equal(t, `A = A_KW`, dups[0].String())

	err := g.Check()
	requireCode(t, err, errors.ErrorDuplicateRule)
	assert.Contains(t, err.Error(), "A = A_KW")
}

func TestCheckAcceptsWellFormedGrammar(t *testing.T) {
	g := arith(t)
	require.NoError(t, g.Normalize())
	assert.NoError(t, g.Check())
}

func TestWarnings(t *testing.T) {
	g := New("warn")
	require.NoError(t, g.Keyword("a"))
	require.NoError(t, g.Nonterm("start", "used", "orphan", "empty"))
	require.NoError(t, g.Rule("start", MustWords("used a")))
	require.NoError(t, g.Rule("used", MustWords("a | a used")))
	require.NoError(t, g.Rule("orphan", MustWords("a")))

	warnings := g.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, errors.WarningUnreachable, warnings[0].Code)
	assert.Contains(t, warnings[0].Message, "orphan")
	assert.Equal(t, errors.WarningNoRules, warnings[1].Code)
	assert.Contains(t, warnings[1].Message, "empty")
	assert.False(t, warnings.HasErrors())
}
