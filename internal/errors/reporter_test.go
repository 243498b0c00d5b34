package errors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorReporter(t *testing.T) {
	source := `grammar test;
token id = /[a-z]+/;
exp = "(" exp "+" expr ")" | id;
`

	reporter := NewErrorReporter("test.ebnf", source)

	err := UndefinedSymbol("expr", []string{"exp", "id"}).At(Position{Line: 3, Column: 19}, 0)
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "error["+ErrorUndefinedSymbol+"]")
	assert.Contains(t, formatted, "undefined symbol: expr")
	assert.Contains(t, formatted, "test.ebnf:3:19")
	assert.Contains(t, formatted, `exp = "(" exp "+" expr ")" | id;`)
	assert.Contains(t, formatted, "did you mean 'exp'")
	assert.Contains(t, formatted, "^^^^")
}

func TestReporterWithoutPosition(t *testing.T) {
	reporter := NewErrorReporter("", "")
	formatted := reporter.FormatError(NotNormalized("g"))

	assert.Contains(t, formatted, "grammar g is not normalized")
	assert.NotContains(t, formatted, "-->")
	assert.Contains(t, formatted, "call Normalize")
}

func TestUndefinedSymbolError(t *testing.T) {
	err := UndefinedSymbol("exps", []string{"exp"})
	assert.Equal(t, ErrorUndefinedSymbol, err.Code)
	assert.Equal(t, Error, err.Level)
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "did you mean 'exp'")

	err = UndefinedSymbol("xyz", []string{"expression"})
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "declare the symbol")
	assert.NotEmpty(t, err.Notes)

	err = UndefinedSymbol("term", []string{"terms", "tern", "id"})
	assert.Contains(t, err.Suggestions[0].Message, "did you mean one of")
}

func TestErrorString(t *testing.T) {
	err := DuplicateSymbol("exp")
	assert.Equal(t, "error[E0002]: duplicate symbol: exp", err.Error())

	placed := err.At(Position{Line: 4, Column: 2}, 0)
	assert.Equal(t, "error[E0002]: 4:2: duplicate symbol: exp", placed.Error())
	assert.False(t, err.Position.IsValid(), "At must not modify the receiver")
	assert.Equal(t, 3, placed.Length)
}

func TestLeftRecursionError(t *testing.T) {
	err := LeftRecursion("exp", []string{"exp", "term", "exp"})
	assert.Equal(t, ErrorLeftRecursion, err.Code)
	assert.Contains(t, err.Notes[0], "exp -> term -> exp")
	assert.NotEmpty(t, err.HelpText)
}

func TestUnknownStart(t *testing.T) {
	err := UnknownStart("expp", []string{"exp", "term"})
	assert.Equal(t, ErrorUnknownStart, err.Code)
	require.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "'exp'")
}

func TestCollect(t *testing.T) {
	assert.Nil(t, Collect(nil))
	assert.Nil(t, Collect(fmt.Errorf("plain")))

	single := DuplicateSymbol("a")
	assert.Equal(t, List{single}, Collect(fmt.Errorf("loading: %w", single)))

	list := List{DuplicateSymbol("a"), NoRules("b")}
	got := Collect(fmt.Errorf("loading: %w", list))
	assert.Len(t, got, 2)
	assert.True(t, got.HasErrors())
	assert.True(t, IsConfigurationError(list))

	warnings := List{NoRules("b")}
	assert.False(t, warnings.HasErrors())
	assert.Nil(t, List{}.Err())
	assert.Error(t, warnings.Err())
	assert.Equal(t, 2, strings.Count(list.Error(), "\n")+1)
}

func TestFormatErrors(t *testing.T) {
	reporter := NewErrorReporter("g.ebnf", "a = b;\n")
	out := reporter.FormatErrors(List{
		UndefinedSymbol("b", nil).At(Position{Line: 1, Column: 5}, 0),
		NoRules("a").At(Position{Line: 1, Column: 1}, 0),
	})
	assert.Contains(t, out, "undefined symbol: b")
	assert.Contains(t, out, "warning[W0001]")

	out = reporter.FormatErrors(fmt.Errorf("disk on fire"))
	assert.Contains(t, out, "disk on fire")
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("hello", "hello"))
	assert.Equal(t, 1, levenshteinDistance("hello", "hallo"))
	assert.Equal(t, 1, levenshteinDistance("hello", "helo"))
	assert.Equal(t, 5, levenshteinDistance("hello", ""))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}

func TestSimilarNameFinding(t *testing.T) {
	candidates := []string{"expression", "term", "factor", "terms", "xy"}

	similar := findSimilarNames("trem", candidates)
	assert.Contains(t, similar, "term")
	assert.NotContains(t, similar, "xy")

	similar = findSimilarNames("verydifferent", candidates)
	assert.Empty(t, similar)

	similar = findSimilarNames("term", candidates)
	assert.NotContains(t, similar, "term", "the name itself is not a suggestion")
}

func TestErrorLevels(t *testing.T) {
	reporter := NewErrorReporter("test.ebnf", "test")
	pos := Position{Line: 1, Column: 1}

	errorFormatted := reporter.FormatError(&ConfigurationError{Level: Error, Message: "test error", Position: pos})
	warningFormatted := reporter.FormatError(&ConfigurationError{Level: Warning, Message: "test warning", Position: pos})

	assert.Contains(t, errorFormatted, "error:")
	assert.Contains(t, warningFormatted, "warning:")
}
