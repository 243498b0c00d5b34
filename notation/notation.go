package notation

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// File is a parsed grammar notation source.
type File struct {
	Pos    lexer.Position
	Header *Header `@@?`
	Decls  []*Decl `@@*`
}

type Header struct {
	Pos  lexer.Position
	Name *Ident `"grammar" @@ ";"`
}

type Decl struct {
	Pos     lexer.Position
	Skip    *SkipDecl    `  @@`
	Token   *TokenDecl   `| @@`
	Keyword *KeywordDecl `| @@`
	Rule    *RuleDecl    `| @@`
}

// SkipDecl lists the characters skipped before each terminal.
type SkipDecl struct {
	Pos   lexer.Position
	Chars string `"skip" @String ";"`
}

// TokenDecl declares a regexp lexeme.
type TokenDecl struct {
	Pos     lexer.Position
	Name    *Ident `"token" @@ "="`
	Pattern string `@Regex ";"`
}

// KeywordDecl declares a named keyword.
type KeywordDecl struct {
	Pos  lexer.Position
	Name *Ident `"keyword" @@ "="`
	Body string `@String ";"`
}

// RuleDecl declares one or more rules of a nonterminal.
type RuleDecl struct {
	Pos   lexer.Position
	Left  *Ident       `@@ "="`
	Right *Alternation `@@ ";"`
}

type Ident struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Value  string `@Ident`
}

type Alternation struct {
	Pos  lexer.Position
	Seqs []*Sequence `@@ ( "|" @@ )*`
}

type Sequence struct {
	Pos   lexer.Position
	Items []*Item `@@+`
}

type Item struct {
	Pos     lexer.Position
	Name    *Ident       `  @@`
	Literal *Literal     `| @@`
	Group   *Alternation `| "(" @@ ")"`
	Repeat  *Alternation `| "{" @@ "}"`
	Option  *Alternation `| "[" @@ "]"`
}

// Literal is a quoted keyword used directly in a rule.
type Literal struct {
	Pos   lexer.Position
	Value string `@String`
}
