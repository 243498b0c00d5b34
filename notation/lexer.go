package notation

import (
	"github.com/alecthomas/participle/v2/lexer"

	"lltrie/token"
)

var NotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments
	{Name: token.COMMENT, Pattern: `//[^\n]*`},

	// Quoted keywords and slash delimited patterns
	{Name: token.STRING, Pattern: `"(\\.|[^"\\\n])*"`},
	{Name: token.REGEX, Pattern: `/(\\.|[^/\\\n])+/`},

	// Symbol names and directive words
	{Name: token.IDENT, Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},

	{Name: token.PUNCT, Pattern: `[=;|()\[\]{}]`},

	{Name: token.WHITESPACE, Pattern: `[ \t\r\n]+`},
})

// Lex splits src into tokens, comments included, for editor tooling.
func Lex(filename, src string) ([]lexer.Token, error) {
	lex, err := NotationLexer.LexString(filename, src)
	if err != nil {
		return nil, err
	}
	return lexer.ConsumeAll(lex)
}

var kinds = func() map[lexer.TokenType]token.TokenType {
	out := make(map[lexer.TokenType]token.TokenType)
	for name, typ := range NotationLexer.Symbols() {
		out[typ] = token.TokenType(name)
	}
	return out
}()

// KindOf returns the lexer rule name of a token.
func KindOf(tok lexer.Token) token.TokenType {
	return kinds[tok.Type]
}
