package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"lltrie/internal/errors"
)

// ConvertErrors transforms grammar configuration errors and warnings into LSP
// diagnostics. Problems without a source position are reported on the first
// line.
func ConvertErrors(problems errors.List) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}

	for _, p := range problems {
		line, char := 0, 0
		if p.Position.IsValid() {
			line, char = p.Position.Line-1, p.Position.Column-1
		}
		length := p.Length
		if length <= 0 {
			length = 1
		}

		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(line), Character: uint32(char)},
				End:   protocol.Position{Line: uint32(line), Character: uint32(char + length)},
			},
			Severity: ptrSeverity(severity(p.Level)),
			Code:     &protocol.IntegerOrString{Value: p.Code},
			Source:   ptrString("lltrie"),
			Message:  message(p),
		})
	}

	return diagnostics
}

func severity(level errors.ErrorLevel) protocol.DiagnosticSeverity {
	switch level {
	case errors.Warning:
		return protocol.DiagnosticSeverityWarning
	case errors.Note, errors.Help:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityError
	}
}

// message appends the first suggestion and the notes to the error message.
func message(p *errors.ConfigurationError) string {
	lines := []string{p.Message}
	if len(p.Suggestions) > 0 {
		lines = append(lines, p.Suggestions[0].Message)
	}
	lines = append(lines, p.Notes...)
	return strings.Join(lines, "\n")
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}
