package errors

import (
	"fmt"
	"strings"
)

// ErrorLevel represents the severity of an error
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// Position locates a problem in grammar notation source.
// The zero value means the problem has no source location,
// which is the case for grammars built through the Go API.
type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // 0-based absolute index in input
}

func (p Position) IsValid() bool { return p.Line > 0 }

// ConfigurationError is a fatal grammar construction problem
type ConfigurationError struct {
	Level       ErrorLevel
	Code        string       // Error code like E0001
	Message     string       // Primary error message
	Position    Position     // Location in notation source, if any
	Length      int          // Length of the problematic region
	Suggestions []Suggestion // Suggested fixes
	Notes       []string     // Additional context notes
	HelpText    string       // Help text for the error
}

// Suggestion represents a suggested fix
type Suggestion struct {
	Message     string   // Description of the suggestion
	Replacement string   // Suggested replacement text (optional)
	Position    Position // Position to apply the fix (optional)
	Length      int      // Length of text to replace (optional)
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	if e.Code != "" {
		fmt.Fprintf(&b, "%s[%s]: ", e.Level, e.Code)
	}
	if e.Position.IsValid() {
		fmt.Fprintf(&b, "%d:%d: ", e.Position.Line, e.Position.Column)
	}
	b.WriteString(e.Message)
	return b.String()
}

// At returns a copy of the error placed at pos.
func (e *ConfigurationError) At(pos Position, length int) *ConfigurationError {
	c := *e
	c.Position = pos
	if length > 0 {
		c.Length = length
	}
	return &c
}

// ErrorBuilder provides a fluent interface for creating configuration errors with suggestions
type ErrorBuilder struct {
	err ConfigurationError
}

// NewError creates a new configuration error builder
func NewError(code, message string) *ErrorBuilder {
	return &ErrorBuilder{
		err: ConfigurationError{
			Level:   Error,
			Code:    code,
			Message: message,
			Length:  1,
		},
	}
}

// NewWarning creates a new warning builder
func NewWarning(code, message string) *ErrorBuilder {
	return &ErrorBuilder{
		err: ConfigurationError{
			Level:   Warning,
			Code:    code,
			Message: message,
			Length:  1,
		},
	}
}

// WithLength sets the length of the error span
func (b *ErrorBuilder) WithLength(length int) *ErrorBuilder {
	b.err.Length = length
	return b
}

// WithPosition sets the source location of the error
func (b *ErrorBuilder) WithPosition(pos Position) *ErrorBuilder {
	b.err.Position = pos
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *ErrorBuilder) WithSuggestion(message string) *ErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithReplacement adds a suggestion with replacement text
func (b *ErrorBuilder) WithReplacement(message, replacement string, pos Position, length int) *ErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{
		Message:     message,
		Replacement: replacement,
		Position:    pos,
		Length:      length,
	})
	return b
}

// WithNote adds a note to the error
func (b *ErrorBuilder) WithNote(note string) *ErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *ErrorBuilder) WithHelp(help string) *ErrorBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed error
func (b *ErrorBuilder) Build() *ConfigurationError {
	err := b.err
	return &err
}

// UndefinedSymbol creates an error for a rule referencing an undeclared name
func UndefinedSymbol(name string, declared []string) *ConfigurationError {
	builder := NewError(ErrorUndefinedSymbol, fmt.Sprintf("undefined symbol: %s", name)).
		WithLength(len(name))

	similar := findSimilarNames(name, declared)
	switch len(similar) {
	case 0:
		builder = builder.WithSuggestion("declare the symbol before the rules that use it").
			WithNote("symbols are declared first, rules referencing them afterwards")
	case 1:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
	default:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similar, "', '")))
	}

	return builder.Build()
}

// DuplicateSymbol creates an error for a name declared twice
func DuplicateSymbol(name string) *ConfigurationError {
	return NewError(ErrorDuplicateSymbol, fmt.Sprintf("duplicate symbol: %s", name)).
		WithLength(len(name)).
		WithSuggestion(fmt.Sprintf("rename the duplicate '%s' to a unique name", name)).
		WithNote("symbol names must be unique within a grammar").
		Build()
}

// IllegalKeyword creates an error for an anonymous keyword spelled like a delimiter
func IllegalKeyword(body string) *ConfigurationError {
	return NewError(ErrorIllegalKeyword, fmt.Sprintf("illegal keyword name: %s", body)).
		WithSuggestion(fmt.Sprintf("declare it with a name, e.g. keyword LPAREN = %q", body)).
		WithNote("the characters ( ) [ ] { } | structure rule bodies").
		Build()
}

// InvalidRegexp creates an error for a pattern that does not compile
func InvalidRegexp(name string, cause error) *ConfigurationError {
	return NewError(ErrorInvalidRegexp, fmt.Sprintf("invalid pattern: %v", cause)).
		WithLength(len(name)).
		WithHelp("patterns use RE2 syntax and are anchored at the current input position").
		Build()
}

// InvalidRuleLeft creates an error for a rule whose left side is not a nonterminal
func InvalidRuleLeft(name string, kind string) *ConfigurationError {
	return NewError(ErrorInvalidRuleLeft, fmt.Sprintf("left side of a rule must be a nonterminal, %s is a %s", name, kind)).
		WithLength(len(name)).
		Build()
}

// EmptyOperator creates an error for an operator built without operands
func EmptyOperator(op string) *ConfigurationError {
	return NewError(ErrorEmptyOperator, fmt.Sprintf("%s without operands", op)).
		WithHelp("use the empty keyword to express an empty alternative").
		Build()
}

// LeftRecursion creates an error for a left recursive nonterminal
func LeftRecursion(name string, path []string) *ConfigurationError {
	return NewError(ErrorLeftRecursion, fmt.Sprintf("left recursive nonterminal: %s", name)).
		WithLength(len(name)).
		WithNote(fmt.Sprintf("derivation: %s", strings.Join(path, " -> "))).
		WithSuggestion("rewrite the rule with a repetition, e.g. a = b { op b }").
		WithHelp("a repetition of something that may match nothing is left recursive as well").
		Build()
}

// DuplicateRule creates an error for two identical rules of one nonterminal
func DuplicateRule(rule string) *ConfigurationError {
	return NewError(ErrorDuplicateRule, fmt.Sprintf("duplicate rule: %s", rule)).
		WithSuggestion("remove one of the duplicate alternatives").
		Build()
}

// NotNormalized creates an error for a grammar that was not flattened yet
func NotNormalized(name string) *ConfigurationError {
	return NewError(ErrorNotNormalized, fmt.Sprintf("grammar %s is not normalized", name)).
		WithHelp("call Normalize after the last rule is declared").
		Build()
}

// UnknownStart creates an error for a start symbol that cannot be parsed
func UnknownStart(name string, nonterms []string) *ConfigurationError {
	builder := NewError(ErrorUnknownStart, fmt.Sprintf("unknown start nonterminal: %s", name))
	if similar := findSimilarNames(name, nonterms); len(similar) > 0 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
	}
	return builder.Build()
}

// NotationSyntax creates an error for notation source that does not parse
func NotationSyntax(message string, pos Position) *ConfigurationError {
	return NewError(ErrorNotationSyntax, message).
		WithPosition(pos).
		Build()
}

// NoRules creates a warning for a nonterminal without rules
func NoRules(name string) *ConfigurationError {
	return NewWarning(WarningNoRules, fmt.Sprintf("nonterminal %s has no rules and never matches", name)).
		WithLength(len(name)).
		Build()
}

// Unreachable creates a warning for a nonterminal nothing refers to
func Unreachable(name string) *ConfigurationError {
	return NewWarning(WarningUnreachable, fmt.Sprintf("nonterminal %s is not referenced by any rule", name)).
		WithLength(len(name)).
		WithNote("it can still be used as a start symbol").
		Build()
}

func findSimilarNames(target string, candidates []string) []string {
	var similar []string

	for _, candidate := range candidates {
		if candidate != target && levenshteinDistance(target, candidate) <= 2 && len(candidate) > 2 {
			similar = append(similar, candidate)
		}
	}

	return similar
}

// Simple Levenshtein distance implementation for finding similar names
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
	}

	for i := 0; i <= len(a); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}
