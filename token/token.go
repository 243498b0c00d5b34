// Package token SPDX-License-Identifier: Apache-2.0
package token

// TokenType names a lexer rule of the grammar notation. The values are the
// rule names used by the participle lexer.
type TokenType string

const (
	COMMENT    = "Comment"
	STRING     = "String"
	REGEX      = "Regex"
	IDENT      = "Ident"
	PUNCT      = "Punct"
	WHITESPACE = "Whitespace"

	// Directive words, lexed as identifiers
	DIRECTIVE = "Directive"

	// Punctuation
	ASSIGN    = "="
	SEMICOLON = ";"
	BAR       = "|"
	LPAREN    = "("
	RPAREN    = ")"
	LBRACE    = "{"
	RBRACE    = "}"
	LBRACKET  = "["
	RBRACKET  = "]"

	// Directives
	GRAMMAR = "grammar"
	SKIP    = "skip"
	TOKEN   = "token"
	KEYWORD = "keyword"
)

var directives = map[string]TokenType{
	GRAMMAR: DIRECTIVE,
	SKIP:    DIRECTIVE,
	TOKEN:   DIRECTIVE,
	KEYWORD: DIRECTIVE,
}

// LookupIdent tells directive words from symbol names.
func LookupIdent(ident string) TokenType {
	if tok, ok := directives[ident]; ok {
		return tok
	}
	return IDENT
}

// Directives lists the directive words in the order a file uses them.
func Directives() []string {
	return []string{GRAMMAR, SKIP, TOKEN, KEYWORD}
}
