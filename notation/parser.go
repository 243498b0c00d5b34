package notation

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"lltrie/internal/errors"
	"lltrie/token"
)

var parser = buildParser()

func buildParser() *participle.Parser[File] {
	p, err := participle.Build[File](
		participle.Lexer(NotationLexer),
		participle.Elide(token.WHITESPACE, token.COMMENT),
		participle.Unquote(token.STRING),
		participle.UseLookahead(2),
	)
	if err != nil {
		panic(fmt.Errorf("failed to build parser: %w", err))
	}

	return p
}

// ParseFile reads and parses a notation file.
func ParseFile(path string) (*File, string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}

	file, err := ParseSource(path, string(source))
	return file, string(source), err
}

// ParseSource parses notation text. Syntax errors are reported as
// configuration errors positioned on the source.
func ParseSource(filename, source string) (*File, error) {
	file, err := parser.ParseString(filename, source)
	if err != nil {
		var pe participle.Error
		if stderrors.As(err, &pe) {
			return nil, errors.NotationSyntax(pe.Message(), position(pe.Position()))
		}
		return nil, err
	}
	return file, nil
}

func position(pos lexer.Position) errors.Position {
	return errors.Position{Line: pos.Line, Column: pos.Column, Offset: pos.Offset}
}
