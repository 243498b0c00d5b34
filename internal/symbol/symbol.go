package symbol

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies the variant of a Symbol
type Kind uint8

const (
	Keyword Kind = iota
	Regexp
	Nonterm
)

func (k Kind) String() string {
	switch k {
	case Keyword:
		return "keyword"
	case Regexp:
		return "regexp"
	case Nonterm:
		return "nonterm"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// EmptyName is the name of the empty keyword every grammar pre-declares.
// It stands for epsilon in flattened rules.
const EmptyName = ""

// Delimiters are reserved by the word shorthand and cannot name an anonymous keyword.
const Delimiters = "()[]{}|"

// Symbol is a terminal (Keyword, Regexp) or a nonterminal of a grammar.
type Symbol struct {
	Kind Kind
	Name string
	Body string // literal text for keywords, pattern source for regexps

	re *regexp.Regexp
}

// NewKeyword returns an anonymous keyword, named by its own body.
func NewKeyword(body string) *Symbol {
	return &Symbol{Kind: Keyword, Name: body, Body: body}
}

// NewLiteral returns a keyword named by its quoted body, the way grammar
// notation writes it inside rules.
func NewLiteral(body string) *Symbol {
	return &Symbol{Kind: Keyword, Name: LiteralName(body), Body: body}
}

// LiteralName is the name NewLiteral gives to a keyword with the given body.
func LiteralName(body string) string {
	return strconv.Quote(body)
}

// NewNamedKeyword returns a keyword matching body, referenced by name.
func NewNamedKeyword(name, body string) *Symbol {
	return &Symbol{Kind: Keyword, Name: name, Body: body}
}

// NewRegexp compiles pattern into a lexeme symbol. The pattern is anchored at
// the match position, so callers write it without a leading '^'.
func NewRegexp(name, pattern string) (*Symbol, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("token %s: %w", name, err)
	}
	return &Symbol{Kind: Regexp, Name: name, Body: pattern, re: re}, nil
}

// MustRegexp is like NewRegexp but panics on an invalid pattern.
func MustRegexp(name, pattern string) *Symbol {
	s, err := NewRegexp(name, pattern)
	if err != nil {
		panic(err)
	}
	return s
}

// NewNonterm returns a nonterminal symbol.
func NewNonterm(name string) *Symbol {
	return &Symbol{Kind: Nonterm, Name: name}
}

// Empty returns the epsilon keyword.
func Empty() *Symbol {
	return NewKeyword("")
}

func (s *Symbol) IsTerminal() bool { return s.Kind != Nonterm }
func (s *Symbol) IsEmpty() bool   { return s.Kind == Keyword && s.Body == "" }

// IsAnonymous reports whether the keyword is referenced by its body, bare
// or quoted.
func (s *Symbol) IsAnonymous() bool {
	return s.Kind == Keyword && (s.Name == s.Body || s.Name == LiteralName(s.Body))
}

// Match skips the prefix accepted by skip starting at pos, then matches the
// symbol there. On success it returns the span of the token itself; on failure
// ok is false and the caller's cursor stays where it was. Nonterminals never
// match text.
func (s *Symbol) Match(skip Skip, input string, pos int) (start, end int, ok bool) {
	switch s.Kind {
	case Keyword:
		start = skip.Advance(input, pos)
		if !strings.HasPrefix(input[start:], s.Body) {
			return pos, pos, false
		}
		return start, start + len(s.Body), true
	case Regexp:
		start = skip.Advance(input, pos)
		loc := s.re.FindStringIndex(input[start:])
		if loc == nil {
			return pos, pos, false
		}
		return start, start + loc[1], true
	default:
		return pos, pos, false
	}
}

// MatchesEmpty reports whether the terminal can succeed without consuming text.
func (s *Symbol) MatchesEmpty() bool {
	switch s.Kind {
	case Keyword:
		return s.Body == ""
	case Regexp:
		return s.re.MatchString("")
	default:
		return false
	}
}

// Equals is the structural identity used when sharing trie prefixes.
func (s *Symbol) Equals(other *Symbol) bool {
	if other == nil || s.Kind != other.Kind {
		return false
	}
	switch s.Kind {
	case Keyword, Regexp:
		return s.Body == other.Body
	default:
		return s.Name == other.Name
	}
}

// String renders the symbol the way it is written in a rule.
func (s *Symbol) String() string {
	switch s.Kind {
	case Keyword:
		if s.Body == "" {
			return "ε"
		}
		if s.IsAnonymous() {
			return strconv.Quote(s.Body)
		}
		return s.Name
	default:
		return s.Name
	}
}

// Describe renders the symbol together with its definition.
func (s *Symbol) Describe() string {
	switch s.Kind {
	case Keyword:
		return fmt.Sprintf("keyword %s = %s", s.Name, strconv.Quote(s.Body))
	case Regexp:
		return fmt.Sprintf("token %s = /%s/", s.Name, s.Body)
	default:
		return fmt.Sprintf("nonterm %s", s.Name)
	}
}

// IsReservedName reports whether name collides with a word shorthand delimiter.
func IsReservedName(name string) bool {
	return len(name) == 1 && strings.ContainsRune(Delimiters, rune(name[0]))
}
