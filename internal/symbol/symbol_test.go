package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordMatch(t *testing.T) {
	kw := NewKeyword("begin")

	start, end, ok := kw.Match(DefaultSkip, "  begin end", 0)
	require.True(t, ok)
	assert.Equal(t, 2, start)
	assert.Equal(t, 7, end)

	_, end, ok = kw.Match(DefaultSkip, "  beg", 0)
	assert.False(t, ok)
	assert.Equal(t, 0, end, "cursor must stay put on failure")

	_, _, ok = kw.Match(NoSkip, "  begin", 0)
	assert.False(t, ok, "without skipping the leading blanks do not match")
}

func TestEmptyKeywordAlwaysMatches(t *testing.T) {
	eps := Empty()

	start, end, ok := eps.Match(DefaultSkip, "   x", 0)
	require.True(t, ok)
	assert.Equal(t, 3, start)
	assert.Equal(t, 3, end)

	start, end, ok = eps.Match(DefaultSkip, "", 0)
	require.True(t, ok)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
	assert.True(t, eps.MatchesEmpty())
	assert.Equal(t, "ε", eps.String())
}

func TestRegexpMatchIsAnchored(t *testing.T) {
	id := MustRegexp("id", `[a-zA-Z]+`)

	start, end, ok := id.Match(DefaultSkip, " \tabc12", 0)
	require.True(t, ok)
	assert.Equal(t, 2, start)
	assert.Equal(t, 5, end)

	_, _, ok = id.Match(DefaultSkip, "12abc", 0)
	assert.False(t, ok, "a match further right must not count")

	start, end, ok = id.Match(DefaultSkip, "12abc", 2)
	require.True(t, ok)
	assert.Equal(t, 2, start)
	assert.Equal(t, 5, end)
}

func TestRegexpAlternationConsumesMatchedSpan(t *testing.T) {
	num := MustRegexp("num", `[0-9]+|0x[0-9a-f]+`)
	_, end, ok := num.Match(DefaultSkip, "0x1f", 0)
	require.True(t, ok)
	assert.Equal(t, 1, end, "leftmost-first alternation picks the decimal branch")
}

func TestInvalidRegexp(t *testing.T) {
	_, err := NewRegexp("bad", `[a-`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
	assert.Panics(t, func() { MustRegexp("bad", `(`) })
}

func TestNonTermNeverMatches(t *testing.T) {
	nt := NewNonterm("exp")
	_, _, ok := nt.Match(DefaultSkip, "exp", 0)
	assert.False(t, ok)
	assert.False(t, nt.IsTerminal())
}

func TestEquals(t *testing.T) {
	assert.True(t, NewKeyword("+").Equals(NewNamedKeyword("PLUS", "+")))
	assert.False(t, NewKeyword("+").Equals(NewKeyword("-")))
	assert.True(t, MustRegexp("a", "[a-z]").Equals(MustRegexp("b", "[a-z]")))
	assert.False(t, MustRegexp("a", "[a-z]").Equals(MustRegexp("a", "[a-y]")))
	assert.True(t, NewNonterm("x").Equals(NewNonterm("x")))
	assert.False(t, NewNonterm("x").Equals(NewKeyword("x")))
	assert.False(t, NewNonterm("x").Equals(nil))
}

func TestMatchesEmpty(t *testing.T) {
	assert.True(t, MustRegexp("ws", `[a-z]*`).MatchesEmpty())
	assert.False(t, MustRegexp("id", `[a-z]+`).MatchesEmpty())
	assert.False(t, NewKeyword("x").MatchesEmpty())
	assert.False(t, NewNonterm("x").MatchesEmpty())
}

func TestSkipSet(t *testing.T) {
	skip := SkipSet(" ;")
	assert.Equal(t, 3, skip.Advance("; ;x", 0))
	assert.Equal(t, 0, skip.Advance("\tx", 0))

	var unset Skip
	assert.Equal(t, 2, unset.Advance("\n\tx", 0))
	assert.Equal(t, 3, unset.Advance("   ", 0))
}

func TestReservedNames(t *testing.T) {
	for _, name := range []string{"(", ")", "[", "]", "{", "}", "|"} {
		assert.True(t, IsReservedName(name), name)
	}
	assert.False(t, IsReservedName("(("))
	assert.False(t, IsReservedName("+"))
	assert.False(t, IsReservedName(""))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, `keyword PLUS = "+"`, NewNamedKeyword("PLUS", "+").Describe())
	assert.Equal(t, `token id = /[a-z]+/`, MustRegexp("id", "[a-z]+").Describe())
	assert.Equal(t, `nonterm exp`, NewNonterm("exp").Describe())
	assert.Equal(t, `"+"`, NewKeyword("+").String())
	assert.Equal(t, `PLUS`, NewNamedKeyword("PLUS", "+").String())
}
