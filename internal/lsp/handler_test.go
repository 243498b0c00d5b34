package lsp_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"lltrie/internal/errors"
	"lltrie/internal/lsp"
)

const sample = `grammar g; // demo
token id = /[a-z]+/;
S = id { "," id } | "";
`

func writeGrammar(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "g.ebnf")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return "file://" + filepath.ToSlash(path)
}

// recorder captures the diagnostics published through a context.
type recorder struct {
	published []*protocol.PublishDiagnosticsParams
}

func (r *recorder) context() *glsp.Context {
	return &glsp.Context{Notify: func(method string, params any) {
		if method == protocol.ServerTextDocumentPublishDiagnostics {
			r.published = append(r.published, params.(*protocol.PublishDiagnosticsParams))
		}
	}}
}

func (r *recorder) last(t *testing.T) []protocol.Diagnostic {
	t.Helper()
	require.NotEmpty(t, r.published, "no diagnostics published")
	return r.published[len(r.published)-1].Diagnostics
}

func TestTextDocumentSemanticTokensFull(t *testing.T) {
	handler := lsp.NewGrammarHandler()
	uri := writeGrammar(t, sample)

	ctx := &glsp.Context{}
	params := &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{
			URI: uri,
		},
	}

	tokens, err := handler.TextDocumentSemanticTokensFull(ctx, params)
	require.NoError(t, err, "TextDocumentSemanticTokensFull returned error")
	require.NotNil(t, tokens, "Returned tokens should not be nil")

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err, "Failed to decode semantic tokens")
	require.Len(t, decoded, 14)

	assertToken(t, &decoded[0], 1, 1, 7, "keyword", nil)
	assertToken(t, &decoded[1], 1, 9, 1, "namespace", []string{"declaration"})
	assertToken(t, &decoded[2], 1, 12, 7, "comment", nil)
	assertToken(t, &decoded[3], 2, 1, 5, "keyword", nil)
	assertToken(t, &decoded[4], 2, 7, 2, "type", []string{"declaration"})
	assertToken(t, &decoded[5], 2, 12, 8, "regexp", nil)
	assertToken(t, &decoded[6], 3, 1, 1, "function", []string{"declaration"})
	assertToken(t, &decoded[7], 3, 5, 2, "type", nil)
	assertToken(t, &decoded[8], 3, 8, 1, "operator", nil)
	assertToken(t, &decoded[9], 3, 10, 3, "string", nil)
	assertToken(t, &decoded[10], 3, 14, 2, "type", nil)
	assertToken(t, &decoded[11], 3, 17, 1, "operator", nil)
	assertToken(t, &decoded[12], 3, 19, 1, "operator", nil)
	assertToken(t, &decoded[13], 3, 21, 2, "string", nil)
}

func TestDiagnostics(t *testing.T) {
	handler := lsp.NewGrammarHandler()
	uri := writeGrammar(t, sample)
	rec := &recorder{}

	broken := "token ident = /[a-z]+/;\ntoken ident = /[0-9]+/;\nS = idents;\n"
	err := handler.TextDocumentDidOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: broken},
	})
	require.NoError(t, err)

	diags := rec.last(t)
	require.Len(t, diags, 2)
	require.Equal(t, protocol.Position{Line: 1, Character: 6}, diags[0].Range.Start)
	require.Equal(t, protocol.Position{Line: 1, Character: 11}, diags[0].Range.End)
	require.Equal(t, protocol.DiagnosticSeverityError, *diags[0].Severity)
	require.Equal(t, errors.ErrorDuplicateSymbol, diags[0].Code.Value)
	require.Equal(t, uint32(2), diags[1].Range.Start.Line)
	require.Equal(t, uint32(4), diags[1].Range.Start.Character)
	require.Contains(t, diags[1].Message, "did you mean 'ident'?")

	err = handler.TextDocumentDidChange(rec.context(), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: sample}},
	})
	require.NoError(t, err)
	require.Empty(t, rec.last(t))
}

func TestDiagnosticsFromChecks(t *testing.T) {
	handler := lsp.NewGrammarHandler()
	uri := writeGrammar(t, sample)
	rec := &recorder{}

	source := "S = \"s\";\nA = A \"x\" | \"y\";\nB = \"b\";\n"
	err := handler.TextDocumentDidOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: source},
	})
	require.NoError(t, err)

	diags := rec.last(t)
	require.Len(t, diags, 3)

	require.Equal(t, errors.ErrorLeftRecursion, diags[0].Code.Value)
	require.Equal(t, uint32(1), diags[0].Range.Start.Line)
	require.Equal(t, protocol.DiagnosticSeverityError, *diags[0].Severity)

	require.Equal(t, errors.WarningUnreachable, diags[1].Code.Value)
	require.Equal(t, uint32(1), diags[1].Range.Start.Line)
	require.Equal(t, protocol.DiagnosticSeverityWarning, *diags[1].Severity)

	require.Equal(t, errors.WarningUnreachable, diags[2].Code.Value)
	require.Equal(t, uint32(2), diags[2].Range.Start.Line)
}

func TestSyntaxDiagnostic(t *testing.T) {
	handler := lsp.NewGrammarHandler()
	uri := writeGrammar(t, sample)
	rec := &recorder{}

	err := handler.TextDocumentDidOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "S = ( \"a\";\n"},
	})
	require.NoError(t, err)

	diags := rec.last(t)
	require.Len(t, diags, 1)
	require.Equal(t, errors.ErrorNotationSyntax, diags[0].Code.Value)
	require.Equal(t, uint32(0), diags[0].Range.Start.Line)
}

func TestTextDocumentCompletion(t *testing.T) {
	handler := lsp.NewGrammarHandler()
	uri := writeGrammar(t, sample)

	result, err := handler.TextDocumentCompletion(&glsp.Context{}, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		},
	})
	require.NoError(t, err)

	list := result.(*protocol.CompletionList)
	var labels []string
	for _, item := range list.Items {
		labels = append(labels, item.Label)
	}
	require.Equal(t, []string{"grammar", "skip", "token", "keyword", "S", "id"}, labels)
	require.Equal(t, "token id = /[a-z]+/", *list.Items[5].Detail)
}

func TestDidCloseForgetsDocument(t *testing.T) {
	handler := lsp.NewGrammarHandler()
	uri := writeGrammar(t, sample)
	rec := &recorder{}

	err := handler.TextDocumentDidOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "S = \"unsaved\";\n"},
	})
	require.NoError(t, err)

	err = handler.TextDocumentDidClose(rec.context(), &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)

	// The closed document is read back from disk.
	result, err := handler.TextDocumentCompletion(&glsp.Context{}, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.(*protocol.CompletionList).Items, 6)
}

type DecodedToken struct {
	Index     int
	Line      uint32
	Char      uint32
	Length    uint32
	Type      string
	Modifiers []string
}

func decodeSemanticTokens(raw []uint32) ([]DecodedToken, error) {
	if len(raw)%5 != 0 {
		return nil, fmt.Errorf("raw token data length %d is not a multiple of 5", len(raw))
	}

	var (
		decoded []DecodedToken
		line    uint32
		char    uint32
	)

	for i := 0; i < len(raw); i += 5 {
		deltaLine := raw[i]
		deltaStart := raw[i+1]
		length := raw[i+2]
		tokenTypeIdx := raw[i+3]
		tokenModMask := raw[i+4]

		if deltaLine == 0 {
			char += deltaStart
		} else {
			line += deltaLine
			char = deltaStart
		}

		var modifiers []string
		for j, name := range lsp.SemanticTokenModifiers {
			if tokenModMask&(1<<j) != 0 {
				modifiers = append(modifiers, name)
			}
		}

		decoded = append(decoded, DecodedToken{
			Index:     i / 5,
			Line:      line + 1, // LSP uses 0-based indexing
			Char:      char + 1, // LSP uses 0-based indexing
			Length:    length,
			Type:      lsp.SemanticTokenTypes[tokenTypeIdx],
			Modifiers: modifiers,
		})
	}

	return decoded, nil
}

func assertToken(t *testing.T, token *DecodedToken, expectedLine, expectedChar, expectedLength uint32, expectedType string, expectedModifiers []string) {
	require.Equal(t, expectedLine, token.Line, "line mismatch (expected line %d)", expectedLine)
	require.Equal(t, expectedChar, token.Char, "char mismatch (expected char %d)", expectedChar)
	require.Equal(t, expectedLength, token.Length, "length mismatch")
	require.Equal(t, expectedType, token.Type, "type mismatch")
	require.ElementsMatch(t, expectedModifiers, token.Modifiers, "modifiers mismatch")
}
