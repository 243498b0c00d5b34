package lsp

import (
	"unicode/utf16"

	"github.com/alecthomas/participle/v2/lexer"

	"lltrie/internal/symbol"
	"lltrie/notation"
	"lltrie/token"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into the semanticTokenTypes array
// TokenModifiers is a bitmask based on semanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int // index into semanticTokenTypes
	TokenModifiers int // bitmask
}

// collectSemanticTokens classifies the tokens of a notation file. Names are
// colored by the kind of symbol they were declared as.
func collectSemanticTokens(path string, doc *document) []SemanticToken {
	var tokens []SemanticToken

	toks, err := notation.Lex(path, doc.source)
	if err != nil {
		log.Debugf("lexing %s: %s", path, err)
		return tokens
	}

	var prev lexer.Token
	for _, tok := range toks {
		if tok.EOF() {
			break
		}
		kind := notation.KindOf(tok)
		if kind == token.WHITESPACE {
			continue
		}

		switch kind {
		case token.COMMENT:
			tokens = append(tokens, makeToken(tok, "comment", 0)...)
		case token.STRING:
			tokens = append(tokens, makeToken(tok, "string", 0)...)
		case token.REGEX:
			tokens = append(tokens, makeToken(tok, "regexp", 0)...)
		case token.PUNCT:
			if tok.Value != token.ASSIGN && tok.Value != token.SEMICOLON {
				tokens = append(tokens, makeToken(tok, "operator", 0)...)
			}
		case token.IDENT:
			tokens = append(tokens, classifyIdent(doc, prev, tok)...)
		}
		if kind != token.COMMENT {
			prev = tok
		}
	}

	return tokens
}

// classifyIdent tells directives from names. A name is a declaration right
// after a directive or at the start of a rule.
func classifyIdent(doc *document, prev, tok lexer.Token) []SemanticToken {
	startOfDecl := prev.Value == "" || prev.Value == token.SEMICOLON
	if startOfDecl && token.LookupIdent(tok.Value) == token.DIRECTIVE {
		return makeToken(tok, "keyword", 0)
	}

	decl := 0
	if startOfDecl || token.LookupIdent(prev.Value) == token.DIRECTIVE {
		decl = 1
	}
	if prev.Value == token.GRAMMAR {
		return makeToken(tok, "namespace", decl)
	}

	sym, ok := doc.lookup(tok.Value)
	switch {
	case !ok:
		return makeToken(tok, "variable", decl)
	case sym.Kind == symbol.Nonterm:
		return makeToken(tok, "function", decl)
	case sym.Kind == symbol.Regexp:
		return makeToken(tok, "type", decl)
	default:
		return makeToken(tok, "enumMember", decl)
	}
}

func makeToken(tok lexer.Token, tokenType string, declModifier int) []SemanticToken {
	if tok.Value == "" {
		return nil
	}

	return []SemanticToken{{
		Line:           uint32(tok.Pos.Line - 1),   // LSP uses 0-based line numbers
		StartChar:      uint32(tok.Pos.Column - 1), // LSP uses 0-based column numbers
		Length:         uint32(len(utf16.Encode([]rune(tok.Value)))),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: declModifier << indexOf("declaration", SemanticTokenModifiers),
	}}
}

// indexOf returns the index of a string in a slice, or 0 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0
}
